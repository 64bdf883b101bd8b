package rabbitmq

import (
	"sync"
	"time"

	"github.com/streadway/amqp"
	"notify-triggers/internal/common/errors"
	"notify-triggers/internal/common/logging"
)

// acquireTimeout bounds how long Channel waits for a free connection
const acquireTimeout = 5 * time.Second

// ConnectionPool keeps a fixed set of AMQP connections and opens a channel
// per publish
type ConnectionPool struct {
	url         string
	connections chan *amqp.Connection
	dial        func(url string) (*amqp.Connection, error)
	mu          sync.RWMutex
	closed      bool
	logger      logging.Logger
}

// NewConnectionPool dials size connections up front
func NewConnectionPool(url string, size int) (*ConnectionPool, error) {
	pool := &ConnectionPool{
		url:         url,
		connections: make(chan *amqp.Connection, size),
		dial:        amqp.Dial,
		logger: logging.GetGlobalLogger().WithFields(
			logging.Field{Key: "component", Value: "rabbitmq_pool"},
		),
	}

	for i := 0; i < size; i++ {
		conn, err := pool.dial(url)
		if err != nil {
			pool.Close()
			return nil, errors.ConnectionError("failed to create initial RabbitMQ connection", err)
		}
		pool.connections <- conn
	}

	return pool, nil
}

func (p *ConnectionPool) acquire() (*amqp.Connection, error) {
	p.mu.RLock()
	closed := p.closed
	p.mu.RUnlock()
	if closed {
		return nil, errors.UnavailableError("RabbitMQ connection pool is closed")
	}

	select {
	case conn, ok := <-p.connections:
		if !ok {
			return nil, errors.UnavailableError("RabbitMQ connection pool is closed")
		}
		if conn.IsClosed() {
			p.logger.Warn("Replacing closed RabbitMQ connection")
			fresh, err := p.dial(p.url)
			if err != nil {
				return nil, errors.ConnectionError("failed to reconnect to RabbitMQ", err)
			}
			return fresh, nil
		}
		return conn, nil
	case <-time.After(acquireTimeout):
		return nil, errors.UnavailableError("timeout waiting for RabbitMQ connection")
	}
}

func (p *ConnectionPool) release(conn *amqp.Connection) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed || conn.IsClosed() {
		conn.Close()
		return
	}

	select {
	case p.connections <- conn:
	default:
		conn.Close()
	}
}

// Channel opens a channel on a pooled connection. Closing the channel returns
// the connection to the pool.
func (p *ConnectionPool) Channel() (Channel, error) {
	conn, err := p.acquire()
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		p.release(conn)
		return nil, errors.ConnectionError("failed to open RabbitMQ channel", err)
	}

	return &pooledChannel{Channel: ch, conn: conn, pool: p}, nil
}

// Close closes every pooled connection
func (p *ConnectionPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

	close(p.connections)
	for conn := range p.connections {
		conn.Close()
	}
}

type pooledChannel struct {
	*amqp.Channel
	conn *amqp.Connection
	pool *ConnectionPool
}

func (c *pooledChannel) Close() error {
	err := c.Channel.Close()
	c.pool.release(c.conn)
	return err
}
