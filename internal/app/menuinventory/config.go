package menuinventory

import (
	"os"
	"strings"
)

// Config carries environment-driven settings for the menu-inventory process.
type Config struct {
	Port        string
	PostgresDSN string
	Version     string
	// AutoMigrate creates the menu and inventory tables on start.
	AutoMigrate bool
}

// LoadConfig reads environment variables and applies defaults.
func LoadConfig() (Config, error) {
	return Config{
		Port:        envDefault("PORT", "3001"),
		PostgresDSN: strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		Version:     envDefault("SERVICE_VERSION", "1.0.0"),
		AutoMigrate: isTruthy(envDefault("POSTGRES_AUTO_MIGRATE", "true")),
	}, nil
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
