package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	menuclient "github.com/Apurer/restaurant-ops/internal/clients/http/menu"
	"github.com/Apurer/restaurant-ops/internal/clients/http/restclient"
	ordermenu "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/external/menu"
	orderapp "github.com/Apurer/restaurant-ops/internal/domains/orders/application"
	platformobservability "github.com/Apurer/restaurant-ops/internal/platform/observability"
	orderactivities "github.com/Apurer/restaurant-ops/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/restaurant-ops/internal/platform/temporal/workflows/orders"
)

// RunWorker hosts the order fulfilment workflow and its activities until ctx is cancelled.
func RunWorker(ctx context.Context, cfg Config) error {
	const workerName = "order-fulfillment-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, workerName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	mc, err := menuclient.New(cfg.MenuServiceURL, restclient.WithTimeout(cfg.MenuTimeout))
	if err != nil {
		return fmt.Errorf("menu service client: %w", err)
	}
	catalog, err := ordermenu.NewCatalog(mc)
	if err != nil {
		return err
	}
	publisher, _, cleanupPublisher := buildPublisher(cfg, logger)
	defer cleanupPublisher()
	activities := orderactivities.NewActivities(orderapp.NewFulfiller(catalog, publisher, logger))

	temporalClient, err := connectTemporalClient(cfg, instruments)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return err
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderFulfillmentTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderFulfillmentWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderFulfillmentWorkflowName})
	w.RegisterActivityWithOptions(activities.ReduceInventory, activity.RegisterOptions{Name: orderactivities.ReduceInventoryActivityName})
	w.RegisterActivityWithOptions(activities.PublishInventoryUpdate, activity.RegisterOptions{Name: orderactivities.PublishInventoryUpdateActivityName})

	interrupt := make(chan interface{})
	go func() {
		<-ctx.Done()
		close(interrupt)
	}()
	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.OrderFulfillmentTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(interrupt); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return err
	}
	logger.Info("Temporal worker stopped")
	return nil
}
