package orders

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	"github.com/Apurer/restaurant-ops/internal/platform/kafka"
)

const (
	BrokerRabbitMQ = "rabbitmq"
	BrokerKafka    = "kafka"
)

// Config carries environment-driven settings for the order-management process.
type Config struct {
	Port              string
	PostgresDSN       string
	Version           string
	AutoMigrate       bool
	MenuServiceURL    string
	MenuTimeout       time.Duration
	EventBroker       string
	RabbitMQURL       string
	KafkaBrokers      []string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "3002"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Version:           envDefault("SERVICE_VERSION", "1.0.0"),
		AutoMigrate:       isTruthy(envDefault("POSTGRES_AUTO_MIGRATE", "true")),
		MenuServiceURL:    envDefault("MENU_SERVICE_URL", "http://localhost:3001"),
		MenuTimeout:       5 * time.Second,
		EventBroker:       strings.ToLower(envDefault("EVENT_BROKER", BrokerRabbitMQ)),
		RabbitMQURL:       strings.TrimSpace(os.Getenv("RABBITMQ_URL")),
		KafkaBrokers:      kafka.BrokersFromEnv(),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
	}
	if cfg.EventBroker != BrokerRabbitMQ && cfg.EventBroker != BrokerKafka {
		return Config{}, fmt.Errorf("EVENT_BROKER must be %q or %q", BrokerRabbitMQ, BrokerKafka)
	}
	if raw := strings.TrimSpace(os.Getenv("MENU_SERVICE_TIMEOUT")); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d <= 0 {
			return Config{}, fmt.Errorf("MENU_SERVICE_TIMEOUT must be a positive duration")
		}
		cfg.MenuTimeout = d
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
