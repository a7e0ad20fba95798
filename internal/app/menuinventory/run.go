// Package menuinventory boots the menu and inventory HTTP service.
package menuinventory

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	restaurantserver "github.com/Apurer/restaurant-ops/go"

	invmemory "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/memory"
	invobs "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/observability"
	invpostgres "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/persistence/postgres"
	invapp "github.com/Apurer/restaurant-ops/internal/domains/inventory/application"
	invports "github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
	menumemory "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/memory"
	menuobs "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/observability"
	menupostgres "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/persistence/postgres"
	menuapp "github.com/Apurer/restaurant-ops/internal/domains/menu/application"
	menuports "github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
	"github.com/Apurer/restaurant-ops/internal/platform/httpserver"
	"github.com/Apurer/restaurant-ops/internal/platform/migrations"
	platformobservability "github.com/Apurer/restaurant-ops/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-ops/internal/platform/postgres"
)

const serviceName = "menu-inventory-service"

// menuStore is everything the menu service needs from one backing store.
type menuStore interface {
	menuports.Repository
	menuports.IngredientRepository
}

type stores struct {
	menu  menuStore
	stock invports.Repository
	db    *gorm.DB
}

// Run serves the menu and inventory API until ctx is cancelled.
func Run(ctx context.Context, cfg Config) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
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

	st, cleanup := buildStores(ctx, cfg, logger)
	defer cleanup()

	inventoryService := invobs.New(
		invapp.NewService(st.stock, invapp.WithIngredientCleaner(st.menu)),
		invobs.WithLogger(logger),
		invobs.WithTracer(instruments.Tracer("internal.inventory.application")),
		invobs.WithMeter(instruments.Meter("internal.inventory.application")),
	)
	menuService := menuobs.New(
		menuapp.NewService(st.menu, st.menu, st.stock),
		menuobs.WithLogger(logger),
		menuobs.WithTracer(instruments.Tracer("internal.menu.application")),
		menuobs.WithMeter(instruments.Meter("internal.menu.application")),
	)

	healthOpts := []restaurantserver.HealthOption{restaurantserver.WithVersion(cfg.Version)}
	if st.db != nil {
		db := st.db
		healthOpts = append(healthOpts, restaurantserver.WithCheck("postgres", func(ctx context.Context) error {
			return platformpostgres.Ping(ctx, db)
		}))
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	restaurantserver.NewRouterWithGinEngine(router, restaurantserver.ApiHandleFunctions{
		MenuAPI:      restaurantserver.NewMenuAPI(menuService),
		InventoryAPI: restaurantserver.NewInventoryAPI(inventoryService),
		HealthAPI:    restaurantserver.NewHealthAPI(serviceName, healthOpts...),
	})

	addr := ":" + cfg.Port
	logger.Info("menu-inventory service listening", slog.String("addr", addr))
	if err := httpserver.Run(ctx, httpserver.New(addr, router), logger); err != nil {
		logger.Error("menu-inventory server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildStores(ctx context.Context, cfg Config, logger *slog.Logger) (stores, func()) {
	memoryStores := func() stores {
		return stores{menu: menumemory.NewRepository(), stock: invmemory.NewRepository()}
	}
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory repositories")
		return memoryStores(), func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.PoolConfigFromEnv())
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return memoryStores(), func() {}
	}
	if cfg.AutoMigrate {
		if err := migrations.Apply(db, migrations.MenuInventory); err != nil {
			logger.Warn("failed to migrate menu-inventory schema", slog.String("error", err.Error()))
		}
	}
	logger.Info("menu and inventory repositories configured with postgres")
	return stores{
		menu:  menupostgres.NewRepository(db),
		stock: invpostgres.NewRepository(db),
		db:    db,
	}, func() { _ = sqlDB.Close() }
}
