package application

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

// Fulfiller consumes stock for confirmed orders. Every failed step is logged and skipped;
// nothing is rolled back or retried.
type Fulfiller struct {
	catalog   ports.MenuCatalog
	publisher ports.EventPublisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewFulfiller wires the fulfiller to the menu service and the event publisher.
func NewFulfiller(catalog ports.MenuCatalog, publisher ports.EventPublisher, logger *slog.Logger) *Fulfiller {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fulfiller{catalog: catalog, publisher: publisher, logger: logger, now: time.Now}
}

// ReduceInventory decrements every ingredient of every line by quantity × portions.
func (f *Fulfiller) ReduceInventory(ctx context.Context, req ports.FulfillmentRequest) domain.InventoryReduction {
	reduction := domain.InventoryReduction{
		OrderID:     req.OrderID,
		OrderNumber: req.OrderNumber,
		Adjustments: []domain.StockAdjustment{},
		Failures:    []domain.ReductionFailure{},
	}
	for _, line := range req.Lines {
		ingredients, err := f.catalog.ListIngredients(ctx, line.MenuItemID)
		if err != nil {
			f.logger.LogAttrs(ctx, slog.LevelWarn, "failed to load ingredients for inventory reduction",
				slog.String("order.number", req.OrderNumber),
				slog.String("menu_item.id", line.MenuItemID.String()),
				slog.String("error", err.Error()))
			reduction.Failures = append(reduction.Failures, domain.ReductionFailure{MenuItemID: line.MenuItemID, Reason: err.Error()})
			continue
		}
		for _, ing := range ingredients {
			delta := -(ing.Quantity * float64(line.Quantity))
			if err := f.catalog.AdjustInventory(ctx, ing.InventoryItemID, delta); err != nil {
				f.logger.LogAttrs(ctx, slog.LevelWarn, "failed to adjust inventory",
					slog.String("order.number", req.OrderNumber),
					slog.String("inventory.id", ing.InventoryItemID.String()),
					slog.Float64("delta", delta),
					slog.String("error", err.Error()))
				reduction.Failures = append(reduction.Failures, domain.ReductionFailure{
					MenuItemID:      line.MenuItemID,
					InventoryItemID: ing.InventoryItemID,
					Reason:          err.Error(),
				})
				continue
			}
			reduction.Adjustments = append(reduction.Adjustments, domain.StockAdjustment{
				MenuItemID:      line.MenuItemID,
				InventoryItemID: ing.InventoryItemID,
				Adjustment:      delta,
			})
		}
	}
	return reduction
}

// PublishInventoryUpdate announces the reduction on the inventory_update queue.
func (f *Fulfiller) PublishInventoryUpdate(ctx context.Context, reduction domain.InventoryReduction) error {
	if f.publisher == nil {
		return nil
	}
	return f.publisher.Publish(ctx, domain.InventoryUpdated{
		BaseEvent: domain.BaseEvent{Timestamp: f.now().UTC()},
		Reduction: reduction,
	})
}

// FulfillOrder reduces stock and publishes the result in-process.
func (f *Fulfiller) FulfillOrder(ctx context.Context, req ports.FulfillmentRequest) (domain.InventoryReduction, error) {
	reduction := f.ReduceInventory(ctx, req)
	if err := f.PublishInventoryUpdate(ctx, reduction); err != nil {
		f.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish inventory update",
			slog.String("order.number", req.OrderNumber), slog.String("error", err.Error()))
	}
	return reduction, nil
}

var _ ports.FulfillmentOrchestrator = (*Fulfiller)(nil)
