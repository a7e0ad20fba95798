// Package menu is the HTTP client for the menu-inventory service.
package menu

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/clients/http/restclient"
	invmapper "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/http/mapper"
	menumapper "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/http/mapper"
)

// Client calls the menu and inventory endpoints.
type Client struct {
	rest *restclient.Client
}

// New builds a client for the service rooted at baseURL.
func New(baseURL string, opts ...restclient.Option) (*Client, error) {
	rest, err := restclient.New(baseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("menu client: %w", err)
	}
	return &Client{rest: rest}, nil
}

// GetMenuItem fetches one menu item.
func (c *Client) GetMenuItem(ctx context.Context, id uuid.UUID) (menumapper.MenuItem, error) {
	var out menumapper.MenuItem
	err := c.rest.Get(ctx, "/api/menu/"+url.PathEscape(id.String()), &out)
	return out, err
}

// ListIngredients fetches the recipe of a menu item.
func (c *Client) ListIngredients(ctx context.Context, menuItemID uuid.UUID) (menumapper.MenuIngredients, error) {
	var out menumapper.MenuIngredients
	err := c.rest.Get(ctx, "/api/menu/"+url.PathEscape(menuItemID.String())+"/ingredients", &out)
	return out, err
}

// CheckAvailability evaluates one portion of each menu item.
func (c *Client) CheckAvailability(ctx context.Context, ids []uuid.UUID) ([]menumapper.Availability, error) {
	req := menumapper.CheckAvailabilityRequest{MenuItemIDs: make([]string, 0, len(ids))}
	for _, id := range ids {
		req.MenuItemIDs = append(req.MenuItemIDs, id.String())
	}
	var out []menumapper.Availability
	err := c.rest.Post(ctx, "/api/menu/check-availability", req, &out)
	return out, err
}

// AdjustStock applies a signed delta to an inventory item.
func (c *Client) AdjustStock(ctx context.Context, inventoryItemID uuid.UUID, delta float64) (invmapper.StockAdjustment, error) {
	var out invmapper.StockAdjustment
	err := c.rest.Post(ctx, "/api/inventory/"+url.PathEscape(inventoryItemID.String())+"/adjust",
		invmapper.AdjustStockRequest{Adjustment: &delta}, &out)
	return out, err
}
