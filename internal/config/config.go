// Package config provides configuration management for the trigger service.
// Values come from environment variables (optionally seeded from a .env file)
// with defaults, and are validated with struct tags before use.
//
// Environment Variables:
//
// Application Settings:
//   - PORT: Server port (default: 8080)
//   - LOG_LEVEL: Logging level (default: info)
//   - SHUTDOWN_TIMEOUT: Graceful shutdown timeout (default: 30s)
//   - TLS_CERT_FILE / TLS_KEY_FILE: Serve HTTPS when both are set
//
// Trigger Settings:
//   - TRIGGER_TIMEZONE: Zone used to read calendar triggers (default: UTC)
//   - PREVIEW_COUNT: Default number of previewed fire times (default: 5)
//
// Hand-off Broker:
//   - BROKER_TYPE: none, redis or rabbitmq (default: none)
//   - REDIS_ADDRESS, REDIS_PASSWORD, REDIS_DB, REDIS_POOL_SIZE
//   - REDIS_STREAM: Stream receiving submitted triggers (default: notification-triggers)
//   - REDIS_STREAM_MAX_LEN: Approximate stream cap, 0 for none (default: 0)
//   - RABBITMQ_URL: AMQP connection URL (required for rabbitmq)
//   - RABBITMQ_QUEUE: Queue receiving submitted triggers (default: notification-triggers)
//   - RABBITMQ_EXCHANGE: Optional exchange to publish through
//
// Security:
//   - JWT_SECRET: Enables bearer auth on /api when set (minimum 32 characters)
//   - RATE_LIMIT_RPS: Requests per second per client on /api, 0 disables (default: 20)
//   - RATE_LIMIT_BURST: Burst allowance per client (default: 40)
//
// Example usage:
//
//	config.LoadDotEnv()
//	cfg := config.Load()
//	if err := cfg.Validate(); err != nil {
//		log.Fatalf("Invalid configuration: %v", err)
//	}
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/validation"
)

// Config holds all configuration values for the trigger service
type Config struct {
	// Application settings
	Port            int    `env:"PORT" validate:"min=1,max=65535"`
	LogLevel        string `env:"LOG_LEVEL" validate:"oneof=debug info warn warning error"`
	ShutdownTimeout string `env:"SHUTDOWN_TIMEOUT" validate:"duration"`
	TLSCertFile     string `env:"TLS_CERT_FILE" validate:"required_with=TLSKeyFile"`
	TLSKeyFile      string `env:"TLS_KEY_FILE" validate:"required_with=TLSCertFile"`

	// Trigger settings
	Timezone     string `env:"TRIGGER_TIMEZONE" validate:"timezone"`
	PreviewCount int    `env:"PREVIEW_COUNT" validate:"min=1,max=100"`

	// Hand-off broker
	BrokerType        string `env:"BROKER_TYPE" validate:"broker_type"`
	RedisAddress      string `env:"REDIS_ADDRESS" validate:"required_if=BrokerType redis,omitempty,hostname_port"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisDB           int    `env:"REDIS_DB" validate:"min=0,max=15"`
	RedisPoolSize     int    `env:"REDIS_POOL_SIZE" validate:"min=1"`
	RedisStream       string `env:"REDIS_STREAM" validate:"required_if=BrokerType redis"`
	RedisStreamMaxLen int64  `env:"REDIS_STREAM_MAX_LEN" validate:"min=0"`
	RabbitMQURL       string `env:"RABBITMQ_URL" validate:"required_if=BrokerType rabbitmq,omitempty,url"`
	RabbitMQQueue     string `env:"RABBITMQ_QUEUE" validate:"required_if=BrokerType rabbitmq"`
	RabbitMQExchange  string `env:"RABBITMQ_EXCHANGE"`

	// JWT authentication; empty disables auth
	JWTSecret string `env:"JWT_SECRET" validate:"omitempty,min=32"`

	// Per-client API throttling; zero RateLimitRPS disables it
	RateLimitRPS   int `env:"RATE_LIMIT_RPS" validate:"min=0"`
	RateLimitBurst int `env:"RATE_LIMIT_BURST" validate:"min=0"`
}

// LoadDotEnv seeds the environment from .env files. Missing files are ignored
// and variables already set are never overwritten.
func LoadDotEnv(paths ...string) {
	if len(paths) == 0 {
		_ = godotenv.Load()
		return
	}
	for _, path := range paths {
		_ = godotenv.Load(path)
	}
}

// Load creates a Config from environment variables, using defaults for
// anything unset. Call Validate before use.
func Load() *Config {
	return &Config{
		Port:            getIntEnv("PORT", 8080),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		ShutdownTimeout: getEnv("SHUTDOWN_TIMEOUT", "30s"),
		TLSCertFile:     getEnv("TLS_CERT_FILE", ""),
		TLSKeyFile:      getEnv("TLS_KEY_FILE", ""),

		Timezone:     getEnv("TRIGGER_TIMEZONE", "UTC"),
		PreviewCount: getIntEnv("PREVIEW_COUNT", 5),

		BrokerType:        getEnv("BROKER_TYPE", "none"),
		RedisAddress:      getEnv("REDIS_ADDRESS", "localhost:6379"),
		RedisPassword:     getEnv("REDIS_PASSWORD", ""),
		RedisDB:           getIntEnv("REDIS_DB", 0),
		RedisPoolSize:     getIntEnv("REDIS_POOL_SIZE", 10),
		RedisStream:       getEnv("REDIS_STREAM", "notification-triggers"),
		RedisStreamMaxLen: int64(getIntEnv("REDIS_STREAM_MAX_LEN", 0)),
		RabbitMQURL:       getEnv("RABBITMQ_URL", ""),
		RabbitMQQueue:     getEnv("RABBITMQ_QUEUE", "notification-triggers"),
		RabbitMQExchange:  getEnv("RABBITMQ_EXCHANGE", ""),

		JWTSecret: getEnv("JWT_SECRET", ""),

		RateLimitRPS:   getIntEnv("RATE_LIMIT_RPS", 20),
		RateLimitBurst: getIntEnv("RATE_LIMIT_BURST", 40),
	}
}

// getEnv retrieves an environment variable value or returns a default value if not set
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getIntEnv retrieves an integer environment variable. Unset or unparsable
// values yield defaultValue.
func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

// Validate checks every field against its struct tags
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c); err != nil {
		appErr, ok := errors.As(err)
		if !ok {
			return errors.ConfigError(err.Error())
		}
		cfgErr := errors.ConfigError(appErr.Message)
		for k, v := range appErr.Context {
			cfgErr.WithContext(k, v)
		}
		return cfgErr
	}
	return nil
}

// Location returns the zone calendar triggers are read in
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// ShutdownTimeoutDuration returns the parsed shutdown timeout
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.ShutdownTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// AuthEnabled reports whether API requests need a bearer token
func (c *Config) AuthEnabled() bool {
	return c.JWTSecret != ""
}

// TLSEnabled reports whether the server should serve HTTPS
func (c *Config) TLSEnabled() bool {
	return c.TLSCertFile != "" && c.TLSKeyFile != ""
}
