package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewItem_LimitsCountCharacters(t *testing.T) {
	item, err := NewItem(strings.Repeat("ñ", maxNameLength), strings.Repeat("µ", maxUnitLength), 5, 1, 10, decimal.Zero)
	require.NoError(t, err)

	item.Supplier = strings.Repeat("ø", maxSupplierLength)
	require.NoError(t, item.Validate())
	item.Supplier = strings.Repeat("ø", maxSupplierLength+1)
	assert.ErrorIs(t, item.Validate(), ErrSupplierTooLong)

	_, err = NewItem(strings.Repeat("ñ", maxNameLength+1), "kg", 5, 1, 10, decimal.Zero)
	assert.ErrorIs(t, err, ErrNameTooLong)

	_, err = NewItem("Saffron", strings.Repeat("µ", maxUnitLength+1), 5, 1, 10, decimal.Zero)
	assert.ErrorIs(t, err, ErrUnitTooLong)
}
