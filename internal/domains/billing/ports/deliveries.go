package ports

import "context"

// DeliveryLedger remembers processed message ids.
type DeliveryLedger interface {
	// FirstDelivery records key and reports whether it had not been seen before.
	FirstDelivery(ctx context.Context, key string) (bool, error)
	// Release forgets key so a redelivery is processed again.
	Release(ctx context.Context, key string) error
}
