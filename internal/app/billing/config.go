package billing

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/dedupe"
)

// Config carries environment-driven settings for the billing-payments process.
type Config struct {
	Port            string
	PostgresDSN     string
	Version         string
	AutoMigrate     bool
	OrderServiceURL string
	OrderTimeout    time.Duration
	RabbitMQURL     string
	RedisURL        string
	// ConsumerPrefetch caps unacknowledged billing_request deliveries.
	ConsumerPrefetch int
	DedupeTTL        time.Duration
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:             envDefault("PORT", "3003"),
		PostgresDSN:      strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Version:          envDefault("SERVICE_VERSION", "1.0.0"),
		AutoMigrate:      isTruthy(envDefault("POSTGRES_AUTO_MIGRATE", "true")),
		OrderServiceURL:  envDefault("ORDER_SERVICE_URL", "http://localhost:3002"),
		OrderTimeout:     5 * time.Second,
		RabbitMQURL:      strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		RedisURL:         strings.TrimSpace(os.Getenv("REDIS_URL")),
		ConsumerPrefetch: 10,
		DedupeTTL:        dedupe.DefaultTTL,
	}
	if raw := strings.TrimSpace(os.Getenv("BILLING_CONSUMER_PREFETCH")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			return Config{}, fmt.Errorf("BILLING_CONSUMER_PREFETCH must be a positive integer")
		}
		cfg.ConsumerPrefetch = n
	}
	if raw := strings.TrimSpace(os.Getenv("BILLING_DEDUPE_TTL")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("BILLING_DEDUPE_TTL must be a positive duration")
		}
		cfg.DedupeTTL = d
	}
	return cfg, nil
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}
