// Package reference builds human-readable document numbers such as ORD-20240131-0042.
package reference

import (
	"fmt"
	"math/rand/v2"
	"time"
)

// New returns PREFIX-YYYYMMDD-NNNN using the UTC date of now and a random four digit suffix.
func New(prefix string, now time.Time) string {
	return fmt.Sprintf("%s-%s-%04d", prefix, now.UTC().Format("20060102"), rand.IntN(10000))
}
