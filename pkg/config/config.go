// Package config loads deployment configuration: 12-factor environment
// variables for the daemon, plus YAML deployment profiles for the knobs
// that vary per install (rate limits, autonomy budget, guard expressions).
// Kernel thresholds are code constants, not configuration.
package config

import (
	"os"
	"strconv"
)

// Config holds daemon configuration.
type Config struct {
	Port         string
	LogLevel     string
	DatabaseURL  string
	RedisAddr    string
	OTLPEndpoint string
	ProfilePath  string
	ShadowMode   bool

	// ExecutionLimit is the default per-window autonomy budget when no
	// profile overrides it.
	ExecutionLimit int
}

// Load loads configuration from environment variables.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		dbURL = "postgres://jeand@localhost:5432/jeand?sslmode=disable"
	}

	otlp := os.Getenv("OTLP_ENDPOINT")
	if otlp == "" {
		otlp = "localhost:4317"
	}

	return &Config{
		Port:         port,
		LogLevel:     logLevel,
		DatabaseURL:  dbURL,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		OTLPEndpoint: otlp,
		ProfilePath:  os.Getenv("PROFILE_PATH"),
		ShadowMode:   os.Getenv("SHADOW_MODE") == "true",

		ExecutionLimit: envInt("EXECUTION_LIMIT", 5),
	}
}

func envInt(key string, fallback int) int {
	if raw := os.Getenv(key); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			return v
		}
	}
	return fallback
}
