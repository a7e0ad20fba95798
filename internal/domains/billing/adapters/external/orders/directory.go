// Package orders adapts the order-management HTTP client to billing's order directory port.
package orders

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	orderclient "github.com/Apurer/restaurant-ops/internal/clients/http/orders"
	"github.com/Apurer/restaurant-ops/internal/clients/http/restclient"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

var _ ports.OrderDirectory = (*Directory)(nil)

type Directory struct {
	client *orderclient.Client
}

func NewDirectory(client *orderclient.Client) (*Directory, error) {
	if client == nil {
		return nil, errors.New("orders client is required")
	}
	return &Directory{client: client}, nil
}

func (d *Directory) GetOrder(ctx context.Context, id uuid.UUID) (ports.OrderSnapshot, error) {
	order, err := d.client.GetOrder(ctx, id)
	if err != nil {
		if restclient.IsNotFound(err) {
			return ports.OrderSnapshot{}, ports.ErrOrderNotFound
		}
		return ports.OrderSnapshot{}, fmt.Errorf("fetch order %s: %w", id, err)
	}
	parsed, err := uuid.Parse(order.ID)
	if err != nil {
		return ports.OrderSnapshot{}, fmt.Errorf("order id %q: %w", order.ID, err)
	}
	return ports.OrderSnapshot{
		ID:           parsed,
		OrderNumber:  order.OrderNumber,
		CustomerName: order.CustomerName,
		TableNumber:  order.TableNumber,
		Status:       order.Status,
		Subtotal:     order.Subtotal,
		Tax:          order.Tax,
		Total:        order.Total,
	}, nil
}
