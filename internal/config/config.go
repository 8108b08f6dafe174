// Package config loads application configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port     int
	DataDir  string
	LogLevel string
	DevMode  bool

	// Catalog source: a local path, an http(s):// URL, or an s3://bucket/key object
	CatalogSource string
	// Optional worksheet name for xlsx sources (first sheet when empty)
	CatalogSheet string
	// Optional cron expression for periodic catalog refresh (disabled when empty)
	CatalogRefreshSchedule string

	// Access gate
	AuthorizedEmails []string
	AuthSecret       string
	TokenTTLHours    int
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		Port:                   getEnvAsInt("PORT", 8080),
		DataDir:                getEnv("DATA_DIR", "./data"),
		LogLevel:               getEnv("LOG_LEVEL", "info"),
		DevMode:                getEnvAsBool("DEV_MODE", false),
		CatalogSource:          getEnv("CATALOG_SOURCE", ""),
		CatalogSheet:           getEnv("CATALOG_SHEET", ""),
		CatalogRefreshSchedule: getEnv("CATALOG_REFRESH_SCHEDULE", ""),
		AuthorizedEmails:       getEnvAsList("AUTHORIZED_EMAILS"),
		AuthSecret:             getEnv("AUTH_SECRET", ""),
		TokenTTLHours:          getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 24),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.CatalogSource == "" {
		return fmt.Errorf("CATALOG_SOURCE is required")
	}
	if c.AuthSecret == "" {
		return fmt.Errorf("AUTH_SECRET is required")
	}
	if len(c.AuthorizedEmails) == 0 {
		return fmt.Errorf("AUTHORIZED_EMAILS is required")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}

	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
