package redis

import (
	"fmt"
	"time"

	"notify-triggers/internal/common/errors"
)

// Config configures the Redis Streams publisher
type Config struct {
	Address      string
	Password     string
	DB           int
	PoolSize     int
	Timeout      time.Duration
	Stream       string
	StreamMaxLen int64 // approximate cap on stream length, 0 means no limit
}

// Validate checks required fields and fills in defaults
func (c *Config) Validate() error {
	if c.Address == "" {
		return errors.ConfigError("Redis address is required")
	}

	if c.PoolSize <= 0 {
		c.PoolSize = 10
	}

	if c.Timeout <= 0 {
		c.Timeout = 5 * time.Second
	}

	if c.StreamMaxLen < 0 {
		c.StreamMaxLen = 0
	}

	if c.Stream == "" {
		c.Stream = DefaultStream
	}

	return nil
}

func (c *Config) GetType() string {
	return "redis"
}

func (c *Config) GetConnectionString() string {
	if c.Password != "" {
		return fmt.Sprintf("redis://:***@%s/%d", c.Address, c.DB)
	}
	return fmt.Sprintf("redis://%s/%d", c.Address, c.DB)
}

// DefaultStream receives submitted triggers when no stream is configured
const DefaultStream = "notification-triggers"

func DefaultConfig() *Config {
	return &Config{
		Address:  "localhost:6379",
		PoolSize: 10,
		Timeout:  5 * time.Second,
		Stream:   DefaultStream,
	}
}
