package reference

import (
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2024, 1, 31, 23, 0, 0, 0, time.FixedZone("CET", 3600))
	pattern := regexp.MustCompile(`^BILL-20240131-\d{4}$`)

	for i := 0; i < 50; i++ {
		require.Regexp(t, pattern, New("BILL", now))
	}
}
