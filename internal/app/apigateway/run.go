// Package apigateway boots the public API gateway in front of the restaurant services.
package apigateway

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	restaurantserver "github.com/Apurer/restaurant-ops/go"

	"github.com/Apurer/restaurant-ops/internal/gateway"
	"github.com/Apurer/restaurant-ops/internal/platform/httpserver"
	platformobservability "github.com/Apurer/restaurant-ops/internal/platform/observability"
)

const serviceName = "api-gateway"

// Run proxies /api traffic until ctx is cancelled.
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

	gw, err := gateway.New(cfg.Upstreams(), gateway.WithLogger(logger))
	if err != nil {
		return fmt.Errorf("configure upstreams: %w", err)
	}
	healthOpts := []restaurantserver.HealthOption{restaurantserver.WithVersion(cfg.Version)}
	for _, name := range gw.Upstreams() {
		name := name
		healthOpts = append(healthOpts, restaurantserver.WithCheck(name, func(ctx context.Context) error {
			return gw.Probe(ctx, name)
		}))
	}
	if cfg.JWTSecret == "" {
		logger.Warn("GATEWAY_JWT_SECRET not set, /api is open")
	}

	router := gin.New()
	router.Use(gin.Recovery(), otelgin.Middleware(serviceName))
	gateway.NewRouterWithGinEngine(router, gw, gateway.RouterOptions{
		Health:    restaurantserver.NewHealthAPI(serviceName, healthOpts...),
		JWTSecret: []byte(cfg.JWTSecret),
		Version:   cfg.Version,
	})

	addr := ":" + cfg.Port
	logger.Info("api gateway listening", slog.String("addr", addr), slog.Any("upstreams", gw.Upstreams()))
	if err := httpserver.Run(ctx, httpserver.New(addr, router), logger); err != nil {
		logger.Error("api gateway exited", slog.String("addr", addr), slog.String("error", err.Error()))
		return err
	}
	return nil
}
