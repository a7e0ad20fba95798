package orders

import (
	"go.temporal.io/sdk/workflow"

	orderdomain "github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	"github.com/Apurer/restaurant-ops/internal/platform/temporal/sequences"
)

const (
	// OrderFulfillmentWorkflowName is the public identifier for registering the workflow.
	OrderFulfillmentWorkflowName = "orders.workflows.Fulfillment"
	// OrderFulfillmentTaskQueue is the queue consumed by the fulfilment worker.
	OrderFulfillmentTaskQueue = "ORDER_FULFILLMENT"
)

// OrderFulfillmentWorkflowInput carries a confirmed order's lines.
type OrderFulfillmentWorkflowInput struct {
	Request orderports.FulfillmentRequest
	TraceID string
}

// OrderFulfillmentWorkflow consumes stock for a confirmed order.
func OrderFulfillmentWorkflow(ctx workflow.Context, input OrderFulfillmentWorkflowInput) (orderdomain.InventoryReduction, error) {
	logger := workflow.GetLogger(ctx)
	orderNumber := input.Request.OrderNumber
	logger.Info("OrderFulfillmentWorkflow started", withTraceID(input.TraceID, "orderNumber", orderNumber)...)
	reduction, err := sequences.RunFulfillmentSequence(ctx, input.Request)
	if err != nil {
		logger.Error("OrderFulfillmentWorkflow failed", withTraceID(input.TraceID, "orderNumber", orderNumber, "error", err)...)
		return orderdomain.InventoryReduction{}, err
	}
	logger.Info("OrderFulfillmentWorkflow completed", withTraceID(input.TraceID, "orderNumber", orderNumber)...)
	return reduction, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
