package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/menu/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
)

// MenuIngredients is a menu item with its resolved recipe.
type MenuIngredients struct {
	MenuItem    *domain.MenuItem
	Ingredients []domain.IngredientDetail
}

// Service exposes menu use cases to adapters.
type Service interface {
	ListMenuItems(ctx context.Context, filter Filter) ([]*domain.MenuItem, error)
	GetMenuItem(ctx context.Context, id uuid.UUID) (*domain.MenuItem, error)
	CreateMenuItem(ctx context.Context, input types.CreateMenuItemInput) (*domain.MenuItem, error)
	UpdateMenuItem(ctx context.Context, id uuid.UUID, input types.UpdateMenuItemInput) (*domain.MenuItem, error)
	DeleteMenuItem(ctx context.Context, id uuid.UUID) error

	ListIngredients(ctx context.Context, menuItemID uuid.UUID) (MenuIngredients, error)
	AddIngredient(ctx context.Context, input types.AddIngredientInput) (domain.IngredientDetail, error)
	UpdateIngredient(ctx context.Context, input types.UpdateIngredientInput) (domain.IngredientDetail, error)
	RemoveIngredient(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) error

	// CheckAvailability evaluates the given items, or every item when ids is empty.
	CheckAvailability(ctx context.Context, ids []uuid.UUID) ([]domain.Availability, error)
}
