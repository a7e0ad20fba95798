package ports

import (
	"context"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

// EventPublisher hands order events to the message broker.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}
