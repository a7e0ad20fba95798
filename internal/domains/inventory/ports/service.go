package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/inventory/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
)

// Service exposes inventory use cases to adapters.
type Service interface {
	ListItems(ctx context.Context, filter Filter) ([]*domain.Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	CreateItem(ctx context.Context, input types.CreateItemInput) (*domain.Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input types.UpdateItemInput) (*domain.Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	AdjustStock(ctx context.Context, id uuid.UUID, delta float64) (domain.StockAdjustment, error)
	Alerts(ctx context.Context) (domain.Alerts, error)
}
