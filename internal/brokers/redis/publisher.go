// Package redis publishes submitted triggers to a Redis Stream. Each trigger
// becomes one stream entry holding its canonical JSON and message metadata.
package redis

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	"notify-triggers/internal/brokers"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
)

// Publisher implements brokers.Publisher for Redis Streams
type Publisher struct {
	config *Config
	client *redis.Client
	logger logging.Logger
}

var _ brokers.Publisher = (*Publisher)(nil)

// NewPublisher validates config, connects and pings Redis
func NewPublisher(config *Config) (*Publisher, error) {
	if config == nil {
		return nil, errors.ConfigError("Redis config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:        config.Address,
		Password:    config.Password,
		DB:          config.DB,
		PoolSize:    config.PoolSize,
		DialTimeout: config.Timeout,
	})

	ctx, cancel := context.WithTimeout(context.Background(), config.Timeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, errors.ConnectionError("failed to connect to Redis", err)
	}

	return &Publisher{
		config: config,
		client: client,
		logger: logging.GetGlobalLogger().WithFields(
			logging.Field{Key: "component", Value: "redis_publisher"},
			logging.Field{Key: "stream", Value: config.Stream},
		),
	}, nil
}

// Name returns the broker type
func (p *Publisher) Name() string {
	return "redis"
}

// Publish appends message to the configured stream
func (p *Publisher) Publish(ctx context.Context, message *brokers.Message) error {
	if p.client == nil {
		return errors.ConnectionError("Redis publisher not connected", nil)
	}
	if message == nil {
		return errors.ValidationError("message is required")
	}

	fields := map[string]interface{}{
		"body":         string(message.Body),
		"timestamp":    message.Timestamp.UnixNano(),
		"message_id":   message.MessageID,
		"trigger_type": message.TriggerType,
	}
	for key, value := range message.Headers {
		fields["header_"+key] = value
	}

	args := &redis.XAddArgs{
		Stream: p.config.Stream,
		ID:     "*",
		Values: fields,
	}
	if p.config.StreamMaxLen > 0 {
		args.MaxLen = p.config.StreamMaxLen
		args.Approx = true
	}

	id, err := p.client.XAdd(ctx, args).Result()
	if err != nil {
		return errors.ConnectionError("failed to publish trigger to Redis stream", err)
	}

	p.logger.Info("Trigger published to Redis stream",
		logging.Field{Key: "id", Value: id},
		logging.Field{Key: "message_id", Value: message.MessageID},
	)
	return nil
}

// Health pings Redis
func (p *Publisher) Health() error {
	if p.client == nil {
		return errors.ConfigError("Redis client not initialized")
	}

	ctx, cancel := context.WithTimeout(context.Background(), p.timeout())
	defer cancel()
	if err := p.client.Ping(ctx).Err(); err != nil {
		return errors.ConnectionError("Redis health check failed", err)
	}
	return nil
}

// Close releases the connection pool
func (p *Publisher) Close() error {
	if p.client != nil {
		err := p.client.Close()
		p.client = nil
		return err
	}
	return nil
}

func (p *Publisher) timeout() time.Duration {
	if p.config.Timeout > 0 {
		return p.config.Timeout
	}
	return 5 * time.Second
}
