package gateway

import (
	"github.com/gin-gonic/gin"

	restaurantserver "github.com/Apurer/restaurant-ops/go"
	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
	"github.com/Apurer/restaurant-ops/internal/shared/envelope"
)

// RouterOptions configures the public surface of the gateway.
type RouterOptions struct {
	Health *restaurantserver.HealthAPI
	// JWTSecret enables bearer verification on /api when non-empty.
	JWTSecret []byte
	Version   string
}

// NewRouterWithGinEngine registers /, /health and the /api proxy on router.
func NewRouterWithGinEngine(router *gin.Engine, gw *Gateway, opts RouterOptions) *gin.Engine {
	if opts.Health != nil {
		router.GET("/health", opts.Health.Health)
	}
	router.GET("/", gw.index(opts.Version))

	api := router.Group("/api")
	if len(opts.JWTSecret) > 0 {
		api.Use(RequireBearer(opts.JWTSecret))
	}
	api.Any("/*path", gw.Proxy)

	router.NoRoute(func(c *gin.Context) {
		apierrors.Respond(c, apierrors.ErrNotFound.WithMessage("Route not found"))
	})
	return router
}

// Get /
func (g *Gateway) index(version string) gin.HandlerFunc {
	services := map[string][]string{}
	for _, r := range g.routes {
		services[r.upstream] = append(services[r.upstream], r.prefix)
	}
	return func(c *gin.Context) {
		envelope.OK(c, gin.H{
			"version":  version,
			"health":   "/health",
			"services": services,
		}, envelope.WithMessage("Restaurant operations API gateway"))
	}
}
