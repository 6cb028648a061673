// Package config provides application configuration loading from environment variables and .env files.
// It uses viper for flexible configuration management with sensible defaults.
package config

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config holds all application configuration loaded from environment variables or .env file.
// Configuration priority: environment variables > .env file > defaults.
type Config struct {
	AppEnv         string        // Application environment (dev, staging, prod)
	HTTPAddr       string        // HTTP server bind address (e.g., ":8080")
	MetricsAddr    string        // Metrics server bind address
	LogLevel       string        // zerolog level name (debug, info, warn, ...)
	LogFormat      string        // "json" or "console"
	MaxBodyBytes   int64         // Upper bound for filter request bodies
	RequestTimeout time.Duration // Per-request deadline enforced by the router
	RateLimitPerIP int           // Requests per minute per client IP, 0 disables limiting
}

const (
	LogFormatJSON    = "json"
	LogFormatConsole = "console"
)

// Load reads configuration from environment variables and .env file (if present).
// Environment variables take precedence over .env file values.
// Load does not validate the result; call Validate before using it.
func Load() (*Config, error) {
	viperInstance := viper.New()
	viperInstance.SetConfigFile(".env") // Optional; silently ignored if file doesn't exist
	_ = viperInstance.ReadInConfig()    // Ignore error - .env is optional
	viperInstance.AutomaticEnv()        // Read from environment variables

	setConfigDefaults(viperInstance)

	return &Config{
		AppEnv:         viperInstance.GetString("APP_ENV"),
		HTTPAddr:       viperInstance.GetString("APP_HTTP_ADDR"),
		MetricsAddr:    viperInstance.GetString("METRICS_ADDR"),
		LogLevel:       viperInstance.GetString("LOG_LEVEL"),
		LogFormat:      viperInstance.GetString("LOG_FORMAT"),
		MaxBodyBytes:   viperInstance.GetInt64("MAX_BODY_BYTES"),
		RequestTimeout: viperInstance.GetDuration("REQUEST_TIMEOUT"),
		RateLimitPerIP: viperInstance.GetInt("RATE_LIMIT_PER_IP"),
	}, nil
}

// setConfigDefaults sets default values for all configuration options.
func setConfigDefaults(v *viper.Viper) {
	v.SetDefault("APP_ENV", "dev")
	v.SetDefault("APP_HTTP_ADDR", ":8080")
	v.SetDefault("METRICS_ADDR", ":9090")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", LogFormatJSON)
	v.SetDefault("MAX_BODY_BYTES", 1<<20) // 1MB
	v.SetDefault("REQUEST_TIMEOUT", "5s")
	v.SetDefault("RATE_LIMIT_PER_IP", 100)
}

// ValidationError represents a configuration validation error with details about what failed.
type ValidationError struct {
	Field   string // Name of the configuration field
	Message string // Human-readable error message
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("config validation failed [%s]: %s", e.Field, e.Message)
}

// Validate checks the configuration and returns the first problem found.
//
// Validation Rules:
//  1. HTTPAddr and MetricsAddr must be non-empty
//  2. MaxBodyBytes and RequestTimeout must be positive
//  3. RateLimitPerIP must not be negative
//  4. LogLevel must be a zerolog level name
//  5. LogFormat must be "json" or "console"
func (c *Config) Validate() error {
	if c.HTTPAddr == "" {
		return ValidationError{Field: "APP_HTTP_ADDR", Message: "HTTP server address cannot be empty"}
	}
	if c.MetricsAddr == "" {
		return ValidationError{Field: "METRICS_ADDR", Message: "metrics server address cannot be empty"}
	}
	if c.MaxBodyBytes <= 0 {
		return ValidationError{
			Field:   "MAX_BODY_BYTES",
			Message: fmt.Sprintf("must be positive, got %d", c.MaxBodyBytes),
		}
	}
	if c.RequestTimeout <= 0 {
		return ValidationError{
			Field:   "REQUEST_TIMEOUT",
			Message: fmt.Sprintf("must be a positive duration, got %s", c.RequestTimeout),
		}
	}
	if c.RateLimitPerIP < 0 {
		return ValidationError{
			Field:   "RATE_LIMIT_PER_IP",
			Message: fmt.Sprintf("must be 0 (disabled) or positive, got %d", c.RateLimitPerIP),
		}
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return ValidationError{Field: "LOG_LEVEL", Message: fmt.Sprintf("unknown level '%s'", c.LogLevel)}
	}
	if c.LogFormat != LogFormatJSON && c.LogFormat != LogFormatConsole {
		return ValidationError{
			Field:   "LOG_FORMAT",
			Message: fmt.Sprintf("must be 'json' or 'console', got '%s'", c.LogFormat),
		}
	}
	return nil
}
