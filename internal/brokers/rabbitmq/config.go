package rabbitmq

import (
	"fmt"
	"net/url"

	"notify-triggers/internal/common/validation"
)

// DefaultQueue receives submitted triggers when no queue is configured
const DefaultQueue = "notification-triggers"

// Config configures the RabbitMQ publisher
type Config struct {
	URL      string `json:"url" validate:"required,url"`
	Queue    string `json:"queue" validate:"required"`
	Exchange string `json:"exchange"`
	PoolSize int    `json:"pool_size" validate:"min=1,max=100"`
}

// Validate applies defaults and checks struct tags
func (c *Config) Validate() error {
	if c.PoolSize <= 0 {
		c.PoolSize = 2
	}
	if c.Queue == "" {
		c.Queue = DefaultQueue
	}

	return validation.ValidateStruct(c)
}

// GetConnectionString returns the broker address without credentials
func (c *Config) GetConnectionString() string {
	if parsedURL, err := url.Parse(c.URL); err == nil && parsedURL.Host != "" {
		return fmt.Sprintf("rabbitmq://%s", parsedURL.Host)
	}
	return "rabbitmq://***"
}

func (c *Config) GetType() string {
	return "rabbitmq"
}
