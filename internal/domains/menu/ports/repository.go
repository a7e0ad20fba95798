package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"

	invdomain "github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
)

var (
	ErrNotFound           = errors.New("menu item not found")
	ErrIngredientNotFound = errors.New("ingredient association not found")
	ErrIngredientExists   = errors.New("ingredient already associated with this menu item")
)

// Filter narrows menu listings. Zero values are ignored.
type Filter struct {
	Category  domain.Category
	Available *bool
}

// Matches reports whether item satisfies the filter.
func (f Filter) Matches(item *domain.MenuItem) bool {
	if f.Category != "" && item.Category != f.Category {
		return false
	}
	if f.Available != nil && item.IsAvailable != *f.Available {
		return false
	}
	return true
}

// Repository persists menu items.
type Repository interface {
	Save(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.MenuItem, error)
	// Delete removes the item together with its ingredient links.
	Delete(ctx context.Context, id uuid.UUID) error
	// List returns items ordered by category then name.
	List(ctx context.Context, filter Filter) ([]*domain.MenuItem, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.MenuItem, error)
}

// IngredientRepository persists recipe links between menu and inventory items.
type IngredientRepository interface {
	ListIngredients(ctx context.Context, menuItemID uuid.UUID) ([]domain.Ingredient, error)
	GetIngredient(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) (domain.Ingredient, error)
	// AddIngredient fails with ErrIngredientExists when the pair is already linked.
	AddIngredient(ctx context.Context, ingredient domain.Ingredient) error
	SaveIngredient(ctx context.Context, ingredient domain.Ingredient) error
	DeleteIngredient(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) error
	DeleteIngredientsForInventoryItem(ctx context.Context, inventoryItemID uuid.UUID) error
}

// InventoryReader resolves stocked items referenced by recipes.
type InventoryReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*invdomain.Item, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*invdomain.Item, error)
}
