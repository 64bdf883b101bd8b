package rabbitmq_test

import (
	"fmt"
	"sync"

	"github.com/streadway/amqp"
	"notify-triggers/internal/brokers/rabbitmq"
)

// MockChannelPool implements rabbitmq.ChannelPool in memory
type MockChannelPool struct {
	channel    *MockChannel
	channelErr error
	closed     bool
	mu         sync.Mutex
}

func NewMockChannelPool() *MockChannelPool {
	return &MockChannelPool{channel: &MockChannel{}}
}

func (m *MockChannelPool) Channel() (rabbitmq.Channel, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil, fmt.Errorf("pool is closed")
	}
	if m.channelErr != nil {
		return nil, m.channelErr
	}
	return m.channel, nil
}

func (m *MockChannelPool) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
}

func (m *MockChannelPool) IsClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

type PublishedMessage struct {
	Exchange   string
	RoutingKey string
	Publishing amqp.Publishing
}

type BoundQueue struct {
	Name     string
	Key      string
	Exchange string
}

// MockChannel records every call made through rabbitmq.Channel
type MockChannel struct {
	publishErr      error
	queueDeclareErr error

	published         []PublishedMessage
	declaredQueues    []string
	declaredExchanges []string
	boundQueues       []BoundQueue
	closeCalls        int
	mu                sync.Mutex
}

func (m *MockChannel) Publish(exchange, routingKey string, mandatory, immediate bool, msg amqp.Publishing) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.publishErr != nil {
		return m.publishErr
	}
	m.published = append(m.published, PublishedMessage{Exchange: exchange, RoutingKey: routingKey, Publishing: msg})
	return nil
}

func (m *MockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.queueDeclareErr != nil {
		return amqp.Queue{}, m.queueDeclareErr
	}
	m.declaredQueues = append(m.declaredQueues, name)
	return amqp.Queue{Name: name}, nil
}

func (m *MockChannel) ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.declaredExchanges = append(m.declaredExchanges, name+":"+kind)
	return nil
}

func (m *MockChannel) QueueBind(name, key, exchange string, noWait bool, args amqp.Table) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.boundQueues = append(m.boundQueues, BoundQueue{Name: name, Key: key, Exchange: exchange})
	return nil
}

func (m *MockChannel) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCalls++
	return nil
}

func (m *MockChannel) Published() []PublishedMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]PublishedMessage(nil), m.published...)
}
