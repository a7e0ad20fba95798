package apigateway

import (
	"os"
	"strings"

	"github.com/Apurer/restaurant-ops/internal/gateway"
)

// Config carries environment-driven settings for the gateway process.
type Config struct {
	Port       string
	Version    string
	MenuURL    string
	OrdersURL  string
	BillingURL string
	// AnalyticsURL is optional; /api/analytics is only routed when it is set.
	AnalyticsURL string
	JWTSecret    string
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() (Config, error) {
	return Config{
		Port:         envDefault("PORT", "3000"),
		Version:      envDefault("SERVICE_VERSION", "1.0.0"),
		MenuURL:      envDefault("MENU_SERVICE_URL", "http://localhost:3001"),
		OrdersURL:    envDefault("ORDER_SERVICE_URL", "http://localhost:3002"),
		BillingURL:   envDefault("BILLING_SERVICE_URL", "http://localhost:3003"),
		AnalyticsURL: strings.TrimSpace(os.Getenv("ANALYTICS_SERVICE_URL")),
		JWTSecret:    strings.TrimSpace(os.Getenv("GATEWAY_JWT_SECRET")),
	}, nil
}

// Upstreams maps every configured service to the prefixes it owns.
func (c Config) Upstreams() []gateway.Upstream {
	upstreams := []gateway.Upstream{
		{Name: "menu-inventory", BaseURL: c.MenuURL, Prefixes: []string{"/api/menu", "/api/inventory"}},
		{Name: "orders", BaseURL: c.OrdersURL, Prefixes: []string{"/api/orders"}},
		{Name: "billing", BaseURL: c.BillingURL, Prefixes: []string{"/api/bills", "/api/payments", "/api/reports"}},
	}
	if c.AnalyticsURL != "" {
		upstreams = append(upstreams, gateway.Upstream{Name: "analytics", BaseURL: c.AnalyticsURL, Prefixes: []string{"/api/analytics"}})
	}
	return upstreams
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}
