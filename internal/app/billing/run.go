// Package billing boots the billing-payments HTTP service and its billing_request consumer.
package billing

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"gorm.io/gorm"

	restaurantserver "github.com/Apurer/restaurant-ops/go"

	orderclient "github.com/Apurer/restaurant-ops/internal/clients/http/orders"
	"github.com/Apurer/restaurant-ops/internal/clients/http/restclient"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/dedupe"
	billorders "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/external/orders"
	billmemory "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/memory"
	billmessaging "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/messaging"
	billobs "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/observability"
	billpostgres "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/persistence/postgres"
	billapp "github.com/Apurer/restaurant-ops/internal/domains/billing/application"
	billports "github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
	"github.com/Apurer/restaurant-ops/internal/platform/httpserver"
	"github.com/Apurer/restaurant-ops/internal/platform/migrations"
	platformobservability "github.com/Apurer/restaurant-ops/internal/platform/observability"
	platformpostgres "github.com/Apurer/restaurant-ops/internal/platform/postgres"
	"github.com/Apurer/restaurant-ops/internal/platform/rabbitmq"
	platformredis "github.com/Apurer/restaurant-ops/internal/platform/redis"
)

const serviceName = "billing-payments-service"

// Run serves the billing API and, when RabbitMQ is reachable, consumes billing requests
// until ctx is cancelled.
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

	repo, db, cleanupRepo := buildBillRepository(ctx, cfg, logger)
	defer cleanupRepo()
	if db != nil {
		healthOpts = append(healthOpts, restaurantserver.WithCheck("postgres", func(ctx context.Context) error {
			return platformpostgres.Ping(ctx, db)
		}))
	}

	oc, err := orderclient.New(cfg.OrderServiceURL, restclient.WithTimeout(cfg.OrderTimeout))
	if err != nil {
		return fmt.Errorf("order service client: %w", err)
	}
	directory, err := billorders.NewDirectory(oc)
	if err != nil {
		return err
	}

	billService := billobs.New(
		billapp.NewService(repo, directory, billapp.WithLogger(logger)),
		billobs.WithLogger(logger),
		billobs.WithTracer(instruments.Tracer("internal.billing.application")),
		billobs.WithMeter(instruments.Meter("internal.billing.application")),
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	var consumers sync.WaitGroup
	defer consumers.Wait()

	if cfg.RabbitMQURL == "" {
		logger.Warn("RABBITMQ_URL not set, billing_request consumer disabled")
	} else if conn, err := rabbitmq.Dial(cfg.RabbitMQURL); err != nil {
		logger.Warn("failed to connect to rabbitmq, billing_request consumer disabled", slog.String("error", err.Error()))
	} else {
		defer conn.Close()
		healthOpts = append(healthOpts, restaurantserver.WithCheck("rabbitmq", func(context.Context) error {
			return conn.Ping()
		}))
		ledger, cleanupLedger := buildDeliveryLedger(ctx, cfg, db, logger)
		defer cleanupLedger()
		consumer := billmessaging.NewConsumer(billService, ledger, billmessaging.WithLogger(logger))
		consumers.Add(1)
		go func() {
			defer consumers.Done()
			logger.Info("billing_request consumer started", slog.Int("prefetch", cfg.ConsumerPrefetch))
			if err := consumer.Subscribe(ctx, conn, cfg.ConsumerPrefetch); err != nil {
				logger.Error("billing_request consumer stopped", slog.String("error", err.Error()))
			}
		}()
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	restaurantserver.NewRouterWithGinEngine(router, restaurantserver.ApiHandleFunctions{
		BillingAPI: restaurantserver.NewBillingAPI(billService),
		HealthAPI:  restaurantserver.NewHealthAPI(serviceName, append(healthOpts, restaurantserver.WithVersion(cfg.Version))...),
	})

	addr := ":" + cfg.Port
	logger.Info("billing-payments service listening", slog.String("addr", addr), slog.String("order_service", cfg.OrderServiceURL))
	err = httpserver.Run(ctx, httpserver.New(addr, router), logger)
	cancel()
	if err != nil {
		logger.Error("billing-payments server exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}

func buildBillRepository(ctx context.Context, cfg Config, logger *slog.Logger) (billports.Repository, *gorm.DB, func()) {
	if cfg.PostgresDSN == "" {
		logger.Warn("POSTGRES_DSN not set, falling back to in-memory bill repository")
		return billmemory.NewRepository(), nil, func() {}
	}
	db, err := platformpostgres.Connect(ctx, cfg.PostgresDSN, platformpostgres.PoolConfigFromEnv())
	if err != nil {
		logger.Warn("failed to connect to postgres, falling back to memory", slog.String("error", err.Error()))
		return billmemory.NewRepository(), nil, func() {}
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Warn("failed to unwrap postgres connection, falling back to memory", slog.String("error", err.Error()))
		return billmemory.NewRepository(), nil, func() {}
	}
	if cfg.AutoMigrate {
		if err := migrations.Apply(db, migrations.Billing); err != nil {
			logger.Warn("failed to migrate billing schema", slog.String("error", err.Error()))
		}
	}
	logger.Info("bill repository configured with postgres")
	return billpostgres.NewRepository(db), db, func() { _ = sqlDB.Close() }
}

// buildDeliveryLedger prefers Redis, then the bills database, then process memory.
func buildDeliveryLedger(ctx context.Context, cfg Config, db *gorm.DB, logger *slog.Logger) (billports.DeliveryLedger, func()) {
	if cfg.RedisURL != "" {
		if ledger, closeFn, err := redisLedger(ctx, cfg); err != nil {
			logger.Warn("failed to connect to redis, using fallback delivery ledger", slog.String("error", err.Error()))
		} else {
			logger.Info("billing_request dedupe backed by redis")
			return ledger, closeFn
		}
	}
	if db != nil {
		logger.Info("billing_request dedupe backed by postgres")
		return billpostgres.NewDeliveryLedger(db), func() {}
	}
	logger.Info("billing_request dedupe kept in memory")
	return billmemory.NewDeliveryLedger(cfg.DedupeTTL), func() {}
}

func redisLedger(ctx context.Context, cfg Config) (*dedupe.RedisLedger, func(), error) {
	rdb, err := platformredis.Connect(ctx, cfg.RedisURL)
	if err != nil {
		return nil, nil, err
	}
	ledger, err := dedupe.NewRedisLedger(rdb, cfg.DedupeTTL)
	if err != nil {
		_ = rdb.Close()
		return nil, nil, err
	}
	return ledger, func() { _ = rdb.Close() }, nil
}
