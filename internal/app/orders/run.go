// Package orders boots the order-management HTTP service.
package orders

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.temporal.io/sdk/client"
	"gorm.io/gorm"

	restaurantserver "github.com/Apurer/restaurant-ops/go"

	menuclient "github.com/Apurer/restaurant-ops/internal/clients/http/menu"
	"github.com/Apurer/restaurant-ops/internal/clients/http/restclient"
	ordermenu "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/external/menu"
	ordermemory "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/memory"
	ordermessaging "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/messaging"
	orderobs "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/observability"
	orderpostgres "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/persistence/postgres"
	orderworkflows "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/workflows"
	orderapp "github.com/Apurer/restaurant-ops/internal/domains/orders/application"
	orderports "github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	"github.com/Apurer/restaurant-ops/internal/platform/httpserver"
	platformkafka "github.com/Apurer/restaurant-ops/internal/platform/kafka"
	"github.com/Apurer/restaurant-ops/internal/platform/migrations"
	platformobservability "github.com/Apurer/restaurant-ops/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-ops/internal/platform/postgres"
	"github.com/Apurer/restaurant-ops/internal/platform/rabbitmq"
	platformtemporal "github.com/Apurer/restaurant-ops/internal/platform/temporal"
)

const serviceName = "order-management-service"

// Run serves the order API until ctx is cancelled.
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
	var healthOpts []restaurantserver.HealthOption

	repo, db, cleanupRepo := buildOrderRepository(ctx, cfg, logger)
	defer cleanupRepo()
	if db != nil {
		healthOpts = append(healthOpts, restaurantserver.WithCheck("postgres", func(ctx context.Context) error {
			return platformpostgres.Ping(ctx, db)
		}))
	}

	mc, err := menuclient.New(cfg.MenuServiceURL, restclient.WithTimeout(cfg.MenuTimeout))
	if err != nil {
		return fmt.Errorf("menu service client: %w", err)
	}
	catalog, err := ordermenu.NewCatalog(mc)
	if err != nil {
		return err
	}

	publisher, rabbit, cleanupPublisher := buildPublisher(cfg, logger)
	defer cleanupPublisher()
	if rabbit != nil {
		healthOpts = append(healthOpts, restaurantserver.WithCheck("rabbitmq", func(context.Context) error {
			return rabbit.Ping()
		}))
	}

	opts := []orderapp.Option{
		orderapp.WithPublisher(publisher),
		orderapp.WithLogger(logger),
	}
	if temporalClient, err := connectTemporalClient(cfg, instruments); err != nil {
		logger.Warn("Temporal workflows unavailable, reducing inventory inline", slog.String("error", err.Error()))
	} else {
		defer temporalClient.Close()
		opts = append(opts, orderapp.WithOrchestrator(orderworkflows.NewTemporalFulfillment(temporalClient)))
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	orderService := orderobs.New(
		orderapp.NewService(repo, catalog, opts...),
		orderobs.WithLogger(logger),
		orderobs.WithTracer(instruments.Tracer("internal.orders.application")),
		orderobs.WithMeter(instruments.Meter("internal.orders.application")),
	)

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	restaurantserver.NewRouterWithGinEngine(router, restaurantserver.ApiHandleFunctions{
		OrdersAPI: restaurantserver.NewOrdersAPI(orderService),
		HealthAPI: restaurantserver.NewHealthAPI(serviceName, append(healthOpts, restaurantserver.WithVersion(cfg.Version))...),
	})

	addr := ":" + cfg.Port
	logger.Info("order-management service listening", slog.String("addr", addr), slog.String("menu_service", cfg.MenuServiceURL))
	if err := httpserver.Run(ctx, httpserver.New(addr, router), logger); err != nil {
		logger.Error("order-management server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildOrderRepository(ctx context.Context, cfg Config, logger *slog.Logger) (orderports.Repository, *gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory order repository")
		return ordermemory.NewRepository(), nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.PoolConfigFromEnv())
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return ordermemory.NewRepository(), nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return ordermemory.NewRepository(), nil, func() {}
	}
	if cfg.AutoMigrate {
		if err := migrations.Apply(db, migrations.Orders); err != nil {
			logger.Warn("failed to migrate orders schema", slog.String("error", err.Error()))
		}
	}
	logger.Info("order repository configured with postgres")
	return orderpostgres.NewRepository(db), db, func() { _ = sqlDB.Close() }
}

// buildPublisher picks the broker named by EVENT_BROKER. A broker that cannot be reached
// leaves events in the log only.
func buildPublisher(cfg Config, logger *slog.Logger) (orderports.EventPublisher, *rabbitmq.Client, func()) {
	fallback := ordermessaging.NewLogPublisher(logger)
	switch cfg.EventBroker {
	case BrokerKafka:
		writer, err := platformkafka.NewWriter(cfg.KafkaBrokers)
		if err != nil {
			logger.Warn("kafka publishing disabled", slog.String("error", err.Error()))
			return fallback, nil, func() {}
		}
		pub, err := ordermessaging.NewKafkaPublisher(writer)
		if err != nil {
			_ = writer.Close()
			logger.Warn("kafka publishing disabled", slog.String("error", err.Error()))
			return fallback, nil, func() {}
		}
		logger.Info("order events published to kafka", slog.Any("brokers", cfg.KafkaBrokers))
		return pub, nil, func() { _ = writer.Close() }
	default:
		if cfg.RabbitMQURL == "" {
			logger.Warn("RABBITMQ_URL not set, message queue disabled")
			return fallback, nil, func() {}
		}
		conn, err := rabbitmq.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Warn("failed to connect to rabbitmq, message queue disabled", slog.String("error", err.Error()))
			return fallback, nil, func() {}
		}
		pub, err := ordermessaging.NewRabbitPublisher(conn)
		if err != nil {
			conn.Close()
			logger.Warn("failed to declare order queues, message queue disabled", slog.String("error", err.Error()))
			return fallback, nil, func() {}
		}
		logger.Info("order events published to rabbitmq")
		return pub, conn, conn.Close
	}
}

func connectTemporalClient(cfg Config, instruments *platformobservability.Instruments) (client.Client, error) {
	return platformtemporal.Dial(platformtemporal.Options{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
		Disabled:  cfg.TemporalDisabled,
		Logger:    instruments.Logger,
		Tracer:    instruments.Tracer("temporal-client"),
	})
}
