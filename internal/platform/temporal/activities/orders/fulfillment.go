package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"

	orderdomain "github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

const (
	// ReduceInventoryActivityName consumes stock for every line of a confirmed order.
	ReduceInventoryActivityName = "orders.activities.ReduceInventory"
	// PublishInventoryUpdateActivityName announces the reduction on the inventory_update queue.
	PublishInventoryUpdateActivityName = "orders.activities.PublishInventoryUpdate"
)

// Fulfiller performs the individual fulfilment steps.
type Fulfiller interface {
	ReduceInventory(ctx context.Context, req orderports.FulfillmentRequest) orderdomain.InventoryReduction
	PublishInventoryUpdate(ctx context.Context, reduction orderdomain.InventoryReduction) error
}

// Activities groups the order fulfilment activities.
type Activities struct {
	fulfiller Fulfiller
}

func NewActivities(fulfiller Fulfiller) *Activities {
	return &Activities{fulfiller: fulfiller}
}

// ReduceInventory never fails on a single ingredient; failures are carried in the result.
func (a *Activities) ReduceInventory(ctx context.Context, req orderports.FulfillmentRequest) (orderdomain.InventoryReduction, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.fulfiller == nil {
		logger.Error("reduce inventory activity not initialized", "orderNumber", req.OrderNumber)
		return orderdomain.InventoryReduction{}, errors.New("reduce inventory activity not initialized")
	}
	logger.Info("ReduceInventory activity started", "orderNumber", req.OrderNumber, "lines", len(req.Lines))
	reduction := a.fulfiller.ReduceInventory(ctx, req)
	logger.Info("ReduceInventory activity completed",
		"orderNumber", req.OrderNumber,
		"adjustments", len(reduction.Adjustments),
		"failures", len(reduction.Failures))
	return reduction, nil
}

func (a *Activities) PublishInventoryUpdate(ctx context.Context, reduction orderdomain.InventoryReduction) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.fulfiller == nil {
		return errors.New("publish inventory update activity not initialized")
	}
	if err := a.fulfiller.PublishInventoryUpdate(ctx, reduction); err != nil {
		logger.Warn("PublishInventoryUpdate activity failed", "orderNumber", reduction.OrderNumber, "error", err)
		return err
	}
	return nil
}
