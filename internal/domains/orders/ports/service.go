package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

// Service exposes order use cases to adapters.
type Service interface {
	ListOrders(ctx context.Context, filter Filter) ([]*domain.Order, error)
	KitchenQueue(ctx context.Context) ([]*domain.Order, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error)
	UpdateOrder(ctx context.Context, id uuid.UUID, input types.UpdateOrderInput) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error)
	CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*domain.Order, error)
	UpdateItemStatus(ctx context.Context, orderID, itemID uuid.UUID, status string) (*domain.Order, error)
}
