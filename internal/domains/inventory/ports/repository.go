package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
)

var ErrNotFound = errors.New("inventory item not found")

// Filter narrows inventory listings. Nil fields are ignored.
type Filter struct {
	LowStock   *bool
	OutOfStock *bool
	Perishable *bool
}

// Matches reports whether the item satisfies every set criterion.
func (f Filter) Matches(item *domain.Item) bool {
	if f.LowStock != nil && item.IsLowStock() != *f.LowStock {
		return false
	}
	if f.OutOfStock != nil && item.IsOutOfStock() != *f.OutOfStock {
		return false
	}
	if f.Perishable != nil && item.IsPerishable != *f.Perishable {
		return false
	}
	return true
}

// Repository persists inventory items.
type Repository interface {
	Save(ctx context.Context, item *domain.Item) (*domain.Item, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns items ordered by name.
	List(ctx context.Context, filter Filter) ([]*domain.Item, error)
	// AdjustStock applies a signed delta atomically with respect to other adjustments.
	AdjustStock(ctx context.Context, id uuid.UUID, delta float64) (domain.StockAdjustment, error)
}

// IngredientCleaner drops recipe links pointing at a removed inventory item.
type IngredientCleaner interface {
	DeleteIngredientsForInventoryItem(ctx context.Context, inventoryItemID uuid.UUID) error
}
