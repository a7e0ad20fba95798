package domain

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMenuItem_NameLimitCountsCharacters(t *testing.T) {
	item, err := NewMenuItem(strings.Repeat("é", maxNameLength), decimal.NewFromInt(9), CategoryMain)
	require.NoError(t, err)
	assert.Equal(t, DefaultPreparationTime, item.PreparationTime)

	_, err = NewMenuItem(strings.Repeat("é", maxNameLength+1), decimal.NewFromInt(9), CategoryMain)
	assert.ErrorIs(t, err, ErrNameTooLong)
}
