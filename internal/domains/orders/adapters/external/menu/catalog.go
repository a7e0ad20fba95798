// Package menu adapts the menu-inventory HTTP client to the orders catalog port.
package menu

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	menuclient "github.com/Apurer/restaurant-ops/internal/clients/http/menu"
	"github.com/Apurer/restaurant-ops/internal/clients/http/restclient"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

// Catalog implements ports.MenuCatalog over HTTP.
type Catalog struct {
	client *menuclient.Client
}

// NewCatalog wraps a menu-inventory client.
func NewCatalog(client *menuclient.Client) (*Catalog, error) {
	if client == nil {
		return nil, errors.New("menu client is required")
	}
	return &Catalog{client: client}, nil
}

// GetMenuItem implements ports.MenuCatalog.
func (c *Catalog) GetMenuItem(ctx context.Context, id uuid.UUID) (ports.MenuItemInfo, error) {
	item, err := c.client.GetMenuItem(ctx, id)
	if err != nil {
		if restclient.IsNotFound(err) {
			return ports.MenuItemInfo{}, ports.ErrMenuItemNotFound
		}
		return ports.MenuItemInfo{}, fmt.Errorf("fetch menu item %s: %w", id, err)
	}
	parsed, err := uuid.Parse(item.ID)
	if err != nil {
		return ports.MenuItemInfo{}, fmt.Errorf("menu item id %q: %w", item.ID, err)
	}
	return ports.MenuItemInfo{
		ID:              parsed,
		Name:            item.Name,
		Price:           item.Price,
		IsAvailable:     item.IsAvailable,
		PreparationTime: item.PreparationTime,
	}, nil
}

// CheckAvailability implements ports.MenuCatalog.
func (c *Catalog) CheckAvailability(ctx context.Context, ids []uuid.UUID) ([]domain.ItemAvailability, error) {
	results, err := c.client.CheckAvailability(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("check availability: %w", err)
	}
	out := make([]domain.ItemAvailability, 0, len(results))
	for _, r := range results {
		id, err := uuid.Parse(r.MenuItem.ID)
		if err != nil {
			continue
		}
		a := domain.ItemAvailability{
			MenuItemID:          id,
			CanPrepare:          r.CanPrepare,
			RequiredIngredients: make([]domain.IngredientStock, 0, len(r.RequiredIngredients)),
			MissingIngredients:  make([]string, 0, len(r.MissingIngredients)),
		}
		for _, req := range r.RequiredIngredients {
			a.RequiredIngredients = append(a.RequiredIngredients, domain.IngredientStock{
				Name:              req.Name,
				RequiredQuantity:  req.RequiredQuantity,
				AvailableQuantity: req.AvailableQuantity,
			})
		}
		for _, m := range r.MissingIngredients {
			a.MissingIngredients = append(a.MissingIngredients, m.Name)
		}
		out = append(out, a)
	}
	return out, nil
}

// ListIngredients implements ports.MenuCatalog.
func (c *Catalog) ListIngredients(ctx context.Context, menuItemID uuid.UUID) ([]ports.IngredientRequirement, error) {
	recipe, err := c.client.ListIngredients(ctx, menuItemID)
	if err != nil {
		if restclient.IsNotFound(err) {
			return nil, ports.ErrMenuItemNotFound
		}
		return nil, fmt.Errorf("list ingredients of %s: %w", menuItemID, err)
	}
	out := make([]ports.IngredientRequirement, 0, len(recipe.Ingredients))
	for _, ing := range recipe.Ingredients {
		if ing.InventoryItem == nil {
			continue
		}
		id, err := uuid.Parse(ing.InventoryItem.ID)
		if err != nil {
			continue
		}
		out = append(out, ports.IngredientRequirement{
			InventoryItemID: id,
			Name:            ing.InventoryItem.Name,
			Quantity:        ing.Quantity,
			Unit:            ing.Unit,
		})
	}
	return out, nil
}

// AdjustInventory implements ports.MenuCatalog.
func (c *Catalog) AdjustInventory(ctx context.Context, inventoryItemID uuid.UUID, delta float64) error {
	if _, err := c.client.AdjustStock(ctx, inventoryItemID, delta); err != nil {
		return fmt.Errorf("adjust inventory %s: %w", inventoryItemID, err)
	}
	return nil
}

var _ ports.MenuCatalog = (*Catalog)(nil)
