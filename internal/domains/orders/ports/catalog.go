package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

// ErrMenuItemNotFound is returned when the menu service does not know an item.
var ErrMenuItemNotFound = errors.New("menu item not found")

// MenuItemInfo is the slice of a menu item an order needs.
type MenuItemInfo struct {
	ID              uuid.UUID
	Name            string
	Price           decimal.Decimal
	IsAvailable     bool
	PreparationTime int
}

// IngredientRequirement is the per-portion stock a menu item consumes.
type IngredientRequirement struct {
	InventoryItemID uuid.UUID
	Name            string
	Quantity        float64
	Unit            string
}

// MenuCatalog is the menu-inventory service as seen by orders.
type MenuCatalog interface {
	GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItemInfo, error)
	CheckAvailability(ctx context.Context, ids []uuid.UUID) ([]domain.ItemAvailability, error)
	ListIngredients(ctx context.Context, menuItemID uuid.UUID) ([]IngredientRequirement, error)
	AdjustInventory(ctx context.Context, inventoryItemID uuid.UUID, delta float64) error
}
