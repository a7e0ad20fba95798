package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

// FulfillmentLine is one ordered menu item to consume stock for.
type FulfillmentLine struct {
	MenuItemID   uuid.UUID
	MenuItemName string
	Quantity     int
}

// FulfillmentRequest asks for the stock of a confirmed order to be consumed.
type FulfillmentRequest struct {
	OrderID     uuid.UUID
	OrderNumber string
	Lines       []FulfillmentLine
}

// NewFulfillmentRequest collects the live lines of an order.
func NewFulfillmentRequest(order *domain.Order) FulfillmentRequest {
	req := FulfillmentRequest{OrderID: order.ID, OrderNumber: order.OrderNumber}
	for _, item := range order.Items {
		if item.Status == domain.ItemCancelled {
			continue
		}
		req.Lines = append(req.Lines, FulfillmentLine{
			MenuItemID:   item.MenuItemID,
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
		})
	}
	return req
}

// FulfillmentOrchestrator consumes inventory for a confirmed order and announces the result.
type FulfillmentOrchestrator interface {
	FulfillOrder(ctx context.Context, req FulfillmentRequest) (domain.InventoryReduction, error)
}
