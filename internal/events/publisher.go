package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

// Audit event types emitted by the auth service.
const (
	TypeUserRegistered = "user.registered"
	TypeUserLogin      = "user.login"
)

// AuditEvent records an authentication event for downstream consumers.
type AuditEvent struct {
	Type       string    `json:"type"`
	UserID     string    `json:"user_id"`
	OccurredAt time.Time `json:"occurred_at"`
}

// Publisher emits audit events. Publishing is best-effort: callers log
// failures but never fail the request over them.
type Publisher interface {
	Publish(ctx context.Context, event AuditEvent) error
}

// NopPublisher discards events. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) Publish(ctx context.Context, event AuditEvent) error { return nil }

// AMQPPublisher publishes audit events to a durable RabbitMQ queue.
type AMQPPublisher struct {
	conn      *amqp.Connection
	queueName string
}

// Dial connects to the broker and returns a publisher for the given queue.
func Dial(url, queueName string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	return &AMQPPublisher{conn: conn, queueName: queueName}, nil
}

// Publish sends one event. A fresh channel per publish keeps the publisher
// safe for concurrent request handlers.
func (p *AMQPPublisher) Publish(ctx context.Context, event AuditEvent) error {
	ch, err := p.conn.Channel()
	if err != nil {
		return fmt.Errorf("open rabbitmq channel: %w", err)
	}
	defer ch.Close()

	if _, err := ch.QueueDeclare(p.queueName, true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare queue: %w", err)
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := ch.PublishWithContext(ctx, "", p.queueName, false, false, amqp.Publishing{
		ContentType:  "application/json",
		Body:         payload,
		DeliveryMode: amqp.Persistent,
	}); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}
	return nil
}

// Close shuts down the broker connection.
func (p *AMQPPublisher) Close() error {
	return p.conn.Close()
}
