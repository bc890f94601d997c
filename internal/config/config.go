package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration
type Config struct {
	DatabaseURL       string
	ServerPort        string
	BaseURL           string
	FrontendURL       string
	EnableHSTS        bool
	RedisURL          string
	RabbitMQURL       string
	RabbitMQPrefetch  int
	WorkerDebugMode   bool
	ServerDebugMode   bool
	OTELEnabled       bool
	OTELEndpoint      string
	SeedSampleEntries bool
	Timezone          string
	LogFormat         string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		ServerPort:        getEnv("SERVER_PORT", "8080"),
		BaseURL:           getEnv("BASE_URL", "http://localhost:8080"),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:3000"),
		EnableHSTS:        getEnvBool("ENABLE_HSTS", false),
		RedisURL:          getEnv("REDIS_URL", "redis://localhost:6379/0"),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		RabbitMQPrefetch:  getEnvInt("RABBITMQ_PREFETCH", 1),
		WorkerDebugMode:   getEnvBool("WORKER_DEBUG_MODE", false),
		ServerDebugMode:   getEnvBool("SERVER_DEBUG_MODE", false),
		OTELEnabled:       getEnvBool("OTEL_ENABLED", false),
		OTELEndpoint:      getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		SeedSampleEntries: getEnvBool("SEED_SAMPLE_ENTRIES", false),
		Timezone:          getEnv("DIARY_TIMEZONE", ""),
		LogFormat:         getEnv("LOG_FORMAT", "json"),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	if cfg.Timezone != "" {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid DIARY_TIMEZONE %q: %w", cfg.Timezone, err)
		}
	}

	return cfg, nil
}

// Location returns the zone diary dates are formatted in, time.Local when unset
func (c *Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
