package rabbitmq

import (
	"github.com/streadway/amqp"
)

// ChannelPool hands out AMQP channels; tests substitute an in-memory pool
type ChannelPool interface {
	Channel() (Channel, error)
	Close()
}

// Channel is the subset of *amqp.Channel used for publishing
type Channel interface {
	Publish(exchange, routingKey string, mandatory, immediate bool, msg amqp.Publishing) error
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error
	Close() error
}

var _ ChannelPool = (*ConnectionPool)(nil)
var _ Channel = (*pooledChannel)(nil)
