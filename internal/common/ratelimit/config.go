package ratelimit

import (
	"fmt"
	"time"

	"notify-triggers/internal/common/errors"
)

// Config represents rate limiter configuration
type Config struct {
	// RequestsPerSecond is the sustained rate per key. Zero disables limiting.
	RequestsPerSecond int `json:"requests_per_second" yaml:"requests_per_second"`
	BurstSize         int `json:"burst_size" yaml:"burst_size"`

	// Cleanup settings for idle keys
	MaxKeys       int           `json:"max_keys,omitempty" yaml:"max_keys,omitempty"`
	CleanupPeriod time.Duration `json:"cleanup_period,omitempty" yaml:"cleanup_period,omitempty"`
}

// Enabled reports whether requests are limited at all
func (c *Config) Enabled() bool {
	return c.RequestsPerSecond > 0
}

// Validate checks the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.RequestsPerSecond < 0 {
		return errors.ConfigError(fmt.Sprintf("requests per second must not be negative, got %d", c.RequestsPerSecond))
	}
	if c.BurstSize < 0 {
		return errors.ConfigError(fmt.Sprintf("burst size must not be negative, got %d", c.BurstSize))
	}

	if c.BurstSize == 0 {
		c.BurstSize = c.RequestsPerSecond
	}
	if c.MaxKeys <= 0 {
		c.MaxKeys = 10000
	}
	if c.CleanupPeriod <= 0 {
		c.CleanupPeriod = 5 * time.Minute
	}
	return nil
}

// DefaultConfig returns a default rate limiter configuration
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: 20,
		BurstSize:         40,
		MaxKeys:           10000,
		CleanupPeriod:     5 * time.Minute,
	}
}
