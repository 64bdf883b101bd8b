// Package manager builds the configured hand-off publisher and guards it with
// a circuit breaker.
package manager

import (
	"context"
	"fmt"
	"time"

	"notify-triggers/internal/brokers"
	"notify-triggers/internal/brokers/rabbitmq"
	"notify-triggers/internal/brokers/redis"
	"notify-triggers/internal/circuitbreaker"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
	"notify-triggers/internal/config"
	"notify-triggers/internal/triggers"
)

const connectTimeout = 5 * time.Second

// NewPublisher creates the publisher selected by cfg.BrokerType wrapped in a
// circuit breaker. It returns nil and no error when the broker type is "none".
func NewPublisher(cfg *config.Config, logger logging.Logger) (brokers.Publisher, error) {
	if cfg == nil {
		return nil, errors.ConfigError("config is required")
	}
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	var (
		publisher brokers.Publisher
		err       error
	)

	switch cfg.BrokerType {
	case "", "none":
		return nil, nil
	case "redis":
		publisher, err = redis.NewPublisher(&redis.Config{
			Address:      cfg.RedisAddress,
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			PoolSize:     cfg.RedisPoolSize,
			Timeout:      connectTimeout,
			Stream:       cfg.RedisStream,
			StreamMaxLen: cfg.RedisStreamMaxLen,
		})
	case "rabbitmq":
		publisher, err = rabbitmq.NewPublisher(&rabbitmq.Config{
			URL:      cfg.RabbitMQURL,
			Queue:    cfg.RabbitMQQueue,
			Exchange: cfg.RabbitMQExchange,
		})
	default:
		return nil, errors.ConfigError(fmt.Sprintf("unsupported broker type: %s", cfg.BrokerType))
	}
	if err != nil {
		return nil, err
	}

	logger.Info("Hand-off broker connected", logging.Field{Key: "broker", Value: publisher.Name()})
	return NewGuardedPublisher(publisher, circuitbreaker.BrokerConfig, logger), nil
}

// GuardedPublisher forwards to a publisher through a circuit breaker
type GuardedPublisher struct {
	publisher brokers.Publisher
	breaker   *circuitbreaker.GoBreakerAdapter
	logger    logging.Logger
}

var _ brokers.Publisher = (*GuardedPublisher)(nil)

// NewGuardedPublisher wraps publisher with a breaker named after it
func NewGuardedPublisher(publisher brokers.Publisher, breakerConfig circuitbreaker.Config, logger logging.Logger) *GuardedPublisher {
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}
	logger = logger.WithFields(logging.Field{Key: "broker", Value: publisher.Name()})

	return &GuardedPublisher{
		publisher: publisher,
		breaker:   circuitbreaker.NewGoBreaker("broker-"+publisher.Name(), breakerConfig, logger),
		logger:    logger,
	}
}

func (g *GuardedPublisher) Name() string {
	return g.publisher.Name()
}

// Publish fails fast with an unavailable error while the breaker is open
func (g *GuardedPublisher) Publish(ctx context.Context, message *brokers.Message) error {
	err := g.breaker.Execute(ctx, func() error {
		return g.publisher.Publish(ctx, message)
	})
	if err != nil {
		g.logger.Error("Failed to publish trigger", err)
	}
	return err
}

func (g *GuardedPublisher) Health() error {
	if g.breaker.IsOpen() {
		return errors.UnavailableError(fmt.Sprintf("circuit breaker '%s' is open", g.breaker.Name())).WithCode("circuit_open")
	}
	return g.publisher.Health()
}

func (g *GuardedPublisher) Close() error {
	return g.publisher.Close()
}

// Stats returns the breaker counters
func (g *GuardedPublisher) Stats() circuitbreaker.Stats {
	return g.breaker.Stats()
}

// Submit encodes a validated trigger and hands it to publisher
func Submit(ctx context.Context, publisher brokers.Publisher, t triggers.Trigger, headers map[string]string) (*brokers.Receipt, error) {
	if publisher == nil {
		return nil, errors.UnavailableError("no hand-off broker configured").WithCode("broker_unavailable")
	}

	message, err := brokers.NewMessage(t, headers)
	if err != nil {
		return nil, err
	}

	if err := publisher.Publish(ctx, message); err != nil {
		return nil, err
	}

	return &brokers.Receipt{MessageID: message.MessageID, Broker: publisher.Name()}, nil
}
