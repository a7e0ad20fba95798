package application

import (
	"context"
	"strings"

	"github.com/google/uuid"

	invdomain "github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	types "github.com/Apurer/restaurant-ops/internal/domains/menu/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
)

// Service orchestrates menu and recipe use cases.
type Service struct {
	repo        ports.Repository
	ingredients ports.IngredientRepository
	inventory   ports.InventoryReader
}

// NewService wires the menu service with its dependencies.
func NewService(repo ports.Repository, ingredients ports.IngredientRepository, inventory ports.InventoryReader) *Service {
	return &Service{repo: repo, ingredients: ingredients, inventory: inventory}
}

// ListMenuItems returns items matching the filter ordered by category then name.
func (s *Service) ListMenuItems(ctx context.Context, filter ports.Filter) ([]*domain.MenuItem, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// GetMenuItem loads a single menu item.
func (s *Service) GetMenuItem(ctx context.Context, id uuid.UUID) (*domain.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// CreateMenuItem validates and stores a new item.
func (s *Service) CreateMenuItem(ctx context.Context, input types.CreateMenuItemInput) (*domain.MenuItem, error) {
	item, err := domain.NewMenuItem(input.Name, input.Price, domain.Category(strings.TrimSpace(input.Category)))
	if err != nil {
		return nil, mapError(err)
	}
	item.Description = input.Description
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.PreparationTime != nil {
		item.PreparationTime = *input.PreparationTime
	}
	item.ReplaceAllergens(input.Allergens)
	item.NutritionalInfo = input.NutritionalInfo
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateMenuItem applies a partial update.
func (s *Service) UpdateMenuItem(ctx context.Context, id uuid.UUID, input types.UpdateMenuItemInput) (*domain.MenuItem, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.Price != nil {
		item.Price = *input.Price
	}
	if input.Category != nil {
		item.Category = domain.Category(strings.TrimSpace(*input.Category))
	}
	if input.IsAvailable != nil {
		item.IsAvailable = *input.IsAvailable
	}
	if input.PreparationTime != nil {
		item.PreparationTime = *input.PreparationTime
	}
	if input.Allergens != nil {
		item.ReplaceAllergens(*input.Allergens)
	}
	if input.NutritionalInfo != nil {
		item.NutritionalInfo = input.NutritionalInfo
	}
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteMenuItem removes an item and its recipe.
func (s *Service) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	return mapError(s.repo.Delete(ctx, id))
}

// ListIngredients resolves the recipe of a menu item.
func (s *Service) ListIngredients(ctx context.Context, menuItemID uuid.UUID) (ports.MenuIngredients, error) {
	item, err := s.repo.GetByID(ctx, menuItemID)
	if err != nil {
		return ports.MenuIngredients{}, mapError(err)
	}
	details, err := s.resolve(ctx, menuItemID)
	if err != nil {
		return ports.MenuIngredients{}, mapError(err)
	}
	return ports.MenuIngredients{MenuItem: item, Ingredients: details}, nil
}

// AddIngredient links an inventory item to a menu item.
func (s *Service) AddIngredient(ctx context.Context, input types.AddIngredientInput) (domain.IngredientDetail, error) {
	if _, err := s.repo.GetByID(ctx, input.MenuItemID); err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	stock, err := s.inventory.GetByID(ctx, input.InventoryItemID)
	if err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	ing, err := domain.NewIngredient(input.MenuItemID, input.InventoryItemID, input.Quantity, input.Unit)
	if err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	if err := s.ingredients.AddIngredient(ctx, ing); err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	return domain.IngredientDetail{Ingredient: ing, InventoryItem: stock}, nil
}

// UpdateIngredient changes quantity or unit on an existing link.
func (s *Service) UpdateIngredient(ctx context.Context, input types.UpdateIngredientInput) (domain.IngredientDetail, error) {
	ing, err := s.ingredients.GetIngredient(ctx, input.MenuItemID, input.InventoryItemID)
	if err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	if input.Quantity != nil {
		ing.Quantity = *input.Quantity
	}
	if input.Unit != nil {
		ing.Unit = strings.TrimSpace(*input.Unit)
	}
	if err := ing.Validate(); err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	if err := s.ingredients.SaveIngredient(ctx, ing); err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	stock, err := s.inventory.GetByID(ctx, ing.InventoryItemID)
	if err != nil {
		return domain.IngredientDetail{}, mapError(err)
	}
	return domain.IngredientDetail{Ingredient: ing, InventoryItem: stock}, nil
}

// RemoveIngredient unlinks an inventory item from a menu item.
func (s *Service) RemoveIngredient(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) error {
	return mapError(s.ingredients.DeleteIngredient(ctx, menuItemID, inventoryItemID))
}

// CheckAvailability reports whether each menu item can be prepared from current stock.
func (s *Service) CheckAvailability(ctx context.Context, ids []uuid.UUID) ([]domain.Availability, error) {
	var (
		items []*domain.MenuItem
		err   error
	)
	if len(ids) == 0 {
		items, err = s.repo.List(ctx, ports.Filter{})
	} else {
		items, err = s.repo.ListByIDs(ctx, ids)
	}
	if err != nil {
		return nil, mapError(err)
	}
	results := make([]domain.Availability, 0, len(items))
	for _, item := range items {
		details, err := s.resolve(ctx, item.ID)
		if err != nil {
			return nil, mapError(err)
		}
		results = append(results, domain.CheckAvailability(item, details))
	}
	return results, nil
}

func (s *Service) resolve(ctx context.Context, menuItemID uuid.UUID) ([]domain.IngredientDetail, error) {
	links, err := s.ingredients.ListIngredients(ctx, menuItemID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.InventoryItemID)
	}
	stock, err := s.inventory.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*invdomain.Item, len(stock))
	for _, item := range stock {
		byID[item.ID] = item
	}
	details := make([]domain.IngredientDetail, 0, len(links))
	for _, l := range links {
		details = append(details, domain.IngredientDetail{Ingredient: l, InventoryItem: byID[l.InventoryItemID]})
	}
	return details, nil
}

var _ ports.Service = (*Service)(nil)
