package sequences

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderdomain "github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	orderactivities "github.com/Apurer/restaurant-ops/internal/platform/temporal/activities/orders"
)

// singleAttempt runs an activity exactly once. Saga steps are best effort and never retried.
var singleAttempt = &temporal.RetryPolicy{MaximumAttempts: 1}

// RunFulfillmentSequence reduces inventory and then publishes the result. A failed publish is
// logged and does not fail the sequence.
func RunFulfillmentSequence(ctx workflow.Context, req orderports.FulfillmentRequest) (orderdomain.InventoryReduction, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("fulfillment sequence started", "orderNumber", req.OrderNumber)

	reduceOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy:         singleAttempt,
	}
	publishOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy:         singleAttempt,
	}

	var reduction orderdomain.InventoryReduction
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, reduceOptions),
		orderactivities.ReduceInventoryActivityName, req).Get(ctx, &reduction)
	if err != nil {
		logger.Error("fulfillment sequence failed to reduce inventory", "orderNumber", req.OrderNumber, "error", err)
		return orderdomain.InventoryReduction{}, err
	}
	logger.Info("fulfillment sequence reduced inventory",
		"orderNumber", req.OrderNumber,
		"adjustments", len(reduction.Adjustments),
		"failures", len(reduction.Failures))

	err = workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, publishOptions),
		orderactivities.PublishInventoryUpdateActivityName, reduction).Get(ctx, nil)
	if err != nil {
		logger.Warn("fulfillment sequence failed to publish inventory update", "orderNumber", req.OrderNumber, "error", err)
	}
	return reduction, nil
}
