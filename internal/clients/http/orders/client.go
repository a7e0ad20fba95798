// Package orders is the HTTP client for the order-management service.
package orders

import (
	"context"
	"fmt"
	"net/url"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/clients/http/restclient"
	ordermapper "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/http/mapper"
)

// Client calls the order endpoints.
type Client struct {
	rest *restclient.Client
}

func New(baseURL string, opts ...restclient.Option) (*Client, error) {
	rest, err := restclient.New(baseURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("orders client: %w", err)
	}
	return &Client{rest: rest}, nil
}

// GetOrder fetches one order with its lines.
func (c *Client) GetOrder(ctx context.Context, id uuid.UUID) (ordermapper.Order, error) {
	var out ordermapper.Order
	err := c.rest.Get(ctx, "/api/orders/"+url.PathEscape(id.String()), &out)
	return out, err
}
