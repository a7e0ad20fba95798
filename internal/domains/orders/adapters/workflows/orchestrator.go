package workflows

import (
	"context"
	"errors"
	"fmt"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	orderworkflows "github.com/Apurer/restaurant-ops/internal/platform/temporal/workflows/orders"
)

var _ ports.FulfillmentOrchestrator = (*TemporalFulfillment)(nil)

// TemporalFulfillment runs order fulfilment as a Temporal workflow.
type TemporalFulfillment struct {
	client    client.Client
	taskQueue string
}

// NewTemporalFulfillment wires a Temporal client into the orchestrator.
func NewTemporalFulfillment(c client.Client) *TemporalFulfillment {
	return &TemporalFulfillment{client: c, taskQueue: orderworkflows.OrderFulfillmentTaskQueue}
}

// FulfillOrder starts the workflow and waits for its reduction. The workflow id is derived from
// the order, so a repeated confirmation joins the run already in flight.
func (o *TemporalFulfillment) FulfillOrder(ctx context.Context, req ports.FulfillmentRequest) (domain.InventoryReduction, error) {
	if o == nil || o.client == nil {
		return domain.InventoryReduction{}, errors.New("temporal fulfillment not configured")
	}
	workflowID := fulfillmentWorkflowID(req)
	options := client.StartWorkflowOptions{
		ID:        workflowID,
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(
		ctx,
		options,
		orderworkflows.OrderFulfillmentWorkflowName,
		orderworkflows.OrderFulfillmentWorkflowInput{Request: req, TraceID: workflowTraceID(ctx)},
	)
	if err != nil {
		var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
		if !errors.As(err, &alreadyStarted) {
			return domain.InventoryReduction{}, err
		}
		run = o.client.GetWorkflow(ctx, workflowID, alreadyStarted.RunId)
	}
	var reduction domain.InventoryReduction
	if err := run.Get(ctx, &reduction); err != nil {
		return domain.InventoryReduction{}, err
	}
	return reduction, nil
}

func fulfillmentWorkflowID(req ports.FulfillmentRequest) string {
	return fmt.Sprintf("order-fulfillment-%s", req.OrderID)
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
