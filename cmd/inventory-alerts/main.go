package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	invpostgres "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/persistence/postgres"
	invapp "github.com/Apurer/restaurant-ops/internal/domains/inventory/application"
	platformpostgres "github.com/Apurer/restaurant-ops/internal/platform/postgres"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil)).With(slog.String("job", "inventory-alerts"))
	db, cleanup := platformpostgres.ConnectFromEnv(ctx, logger)
	defer cleanup()
	if db == nil {
		log.Fatal("POSTGRES_DSN not set or connection failed; cannot read inventory")
	}

	alerts, err := invapp.NewService(invpostgres.NewRepository(db)).Alerts(ctx)
	if err != nil {
		log.Fatalf("failed to build inventory alerts: %v", err)
	}
	summary := alerts.Summary()
	for _, item := range alerts.OutOfStock {
		logger.Warn("out of stock",
			slog.String("item", item.Name),
			slog.String("supplier", item.Supplier))
	}
	for _, item := range alerts.LowStock {
		logger.Warn("low stock",
			slog.String("item", item.Name),
			slog.Float64("current_stock", item.CurrentStock),
			slog.Float64("minimum_stock", item.MinimumStock),
			slog.String("unit", item.Unit))
	}
	for _, e := range alerts.ExpiringSoon {
		logger.Warn("expiring soon",
			slog.String("item", e.Item.Name),
			slog.Int("days_until_expiry", e.DaysUntilExpiry))
	}
	logger.Info("inventory alert report completed",
		slog.Int("low_stock", summary.LowStockCount),
		slog.Int("out_of_stock", summary.OutOfStockCount),
		slog.Int("expiring_soon", summary.ExpiringSoonCount),
		slog.Int("total", summary.TotalAlerts))
}
