// Package rabbitmq publishes submitted triggers to a durable RabbitMQ queue,
// optionally routed through a direct exchange.
package rabbitmq

import (
	"context"

	"github.com/streadway/amqp"
	"notify-triggers/internal/brokers"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
)

// Publisher implements brokers.Publisher for RabbitMQ
type Publisher struct {
	config *Config
	pool   ChannelPool
	logger logging.Logger
}

var _ brokers.Publisher = (*Publisher)(nil)

// NewPublisher validates config and dials the connection pool
func NewPublisher(config *Config) (*Publisher, error) {
	if config == nil {
		return nil, errors.ConfigError("RabbitMQ config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	pool, err := NewConnectionPool(config.URL, config.PoolSize)
	if err != nil {
		return nil, err
	}

	return NewPublisherWithPool(config, pool)
}

// NewPublisherWithPool creates a publisher over an existing channel pool
func NewPublisherWithPool(config *Config, pool ChannelPool) (*Publisher, error) {
	if config == nil {
		return nil, errors.ConfigError("RabbitMQ config is required")
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if pool == nil {
		return nil, errors.ConfigError("RabbitMQ channel pool is required")
	}

	return &Publisher{
		config: config,
		pool:   pool,
		logger: logging.GetGlobalLogger().WithFields(
			logging.Field{Key: "component", Value: "rabbitmq_publisher"},
			logging.Field{Key: "queue", Value: config.Queue},
		),
	}, nil
}

// Name returns the broker type
func (p *Publisher) Name() string {
	return "rabbitmq"
}

// Publish declares the queue (and exchange binding) and publishes message as
// a persistent JSON delivery
func (p *Publisher) Publish(ctx context.Context, message *brokers.Message) error {
	if p.pool == nil {
		return errors.ConnectionError("RabbitMQ publisher not connected", nil)
	}
	if message == nil {
		return errors.ValidationError("message is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	ch, err := p.pool.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if err := p.declare(ch); err != nil {
		return err
	}

	headers := amqp.Table{}
	for key, value := range message.Headers {
		headers[key] = value
	}

	err = ch.Publish(p.config.Exchange, p.config.Queue, false, false, amqp.Publishing{
		Headers:      headers,
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    message.MessageID,
		Type:         message.TriggerType,
		Timestamp:    message.Timestamp,
		Body:         message.Body,
	})
	if err != nil {
		return errors.ConnectionError("failed to publish trigger to RabbitMQ", err)
	}

	p.logger.Info("Trigger published to RabbitMQ",
		logging.Field{Key: "message_id", Value: message.MessageID},
		logging.Field{Key: "exchange", Value: p.config.Exchange},
	)
	return nil
}

func (p *Publisher) declare(ch Channel) error {
	if _, err := ch.QueueDeclare(p.config.Queue, true, false, false, false, nil); err != nil {
		return errors.ConnectionError("failed to declare queue "+p.config.Queue, err)
	}

	if p.config.Exchange == "" {
		return nil
	}

	if err := ch.ExchangeDeclare(p.config.Exchange, amqp.ExchangeDirect, true, false, false, false, nil); err != nil {
		return errors.ConnectionError("failed to declare exchange "+p.config.Exchange, err)
	}
	if err := ch.QueueBind(p.config.Queue, p.config.Queue, p.config.Exchange, false, nil); err != nil {
		return errors.ConnectionError("failed to bind queue to exchange", err)
	}
	return nil
}

// Health opens a channel and redeclares the queue
func (p *Publisher) Health() error {
	if p.pool == nil {
		return errors.ConfigError("RabbitMQ pool not initialized")
	}

	ch, err := p.pool.Channel()
	if err != nil {
		return err
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.config.Queue, true, false, false, false, nil); err != nil {
		return errors.ConnectionError("RabbitMQ health check failed", err)
	}
	return nil
}

// Close closes the connection pool
func (p *Publisher) Close() error {
	if p.pool != nil {
		p.pool.Close()
		p.pool = nil
	}
	return nil
}
