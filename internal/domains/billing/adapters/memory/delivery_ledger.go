package memory

import (
	"context"
	"sync"
	"time"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

var _ ports.DeliveryLedger = (*DeliveryLedger)(nil)

// DeliveryLedger remembers message ids in memory until they expire.
type DeliveryLedger struct {
	mu   sync.Mutex
	seen map[string]time.Time
	ttl  time.Duration
	now  func() time.Time
}

// NewDeliveryLedger keeps keys for ttl; zero keeps them forever.
func NewDeliveryLedger(ttl time.Duration) *DeliveryLedger {
	return &DeliveryLedger{seen: map[string]time.Time{}, ttl: ttl, now: time.Now}
}

// WithClock overrides the time source for deterministic testing.
func (l *DeliveryLedger) WithClock(now func() time.Time) {
	if now != nil {
		l.now = now
	}
}

func (l *DeliveryLedger) FirstDelivery(_ context.Context, key string) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	now := l.now()
	if at, ok := l.seen[key]; ok && (l.ttl == 0 || now.Sub(at) < l.ttl) {
		return false, nil
	}
	l.seen[key] = now
	return true, nil
}

func (l *DeliveryLedger) Release(_ context.Context, key string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.seen, key)
	return nil
}
