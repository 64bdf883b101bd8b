// Package brokers hands validated triggers to an external scheduling
// subsystem over a message broker.
package brokers

import (
	"context"
	"time"

	"github.com/google/uuid"
	"notify-triggers/internal/triggers"
)

// Publisher delivers trigger messages to a broker
type Publisher interface {
	Name() string
	Publish(ctx context.Context, message *Message) error
	Health() error
	Close() error
}

// PublisherConfig is implemented by every broker configuration
type PublisherConfig interface {
	Validate() error
	GetConnectionString() string
	GetType() string
}

// Message is one submitted trigger
type Message struct {
	MessageID   string
	TriggerType string
	Headers     map[string]string
	Body        []byte
	Timestamp   time.Time
}

// NewMessage encodes a normalized trigger into a message with a fresh id
func NewMessage(t triggers.Trigger, headers map[string]string) (*Message, error) {
	body, err := triggers.Marshal(t)
	if err != nil {
		return nil, err
	}

	if headers == nil {
		headers = map[string]string{}
	}

	return &Message{
		MessageID:   uuid.NewString(),
		TriggerType: t.Kind().String(),
		Headers:     headers,
		Body:        body,
		Timestamp:   time.Now().UTC(),
	}, nil
}

// Receipt describes where a message was delivered
type Receipt struct {
	MessageID string `json:"message_id"`
	Broker    string `json:"broker"`
}
