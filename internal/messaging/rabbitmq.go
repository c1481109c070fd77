package messaging

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// DefaultPrefetch is how many unacked deliveries a consumer may hold.
const DefaultPrefetch = 10

// Channel is the subset of *amqp.Channel used here.
type Channel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Qos(prefetchCount, prefetchSize int, global bool) error
	Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error)
	Close() error
}

type RabbitMQ struct {
	conn     *amqp.Connection
	channel  Channel
	prefetch int
	now      func() time.Time
}

// NewRabbitMQ dials an amqp:// URL and opens one channel.
func NewRabbitMQ(url string) (*RabbitMQ, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RabbitMQ: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}

	log.Println("✅ Connected to RabbitMQ")

	mq := NewWithChannel(channel)
	mq.conn = conn
	return mq, nil
}

// NewWithChannel wraps an already open channel.
func NewWithChannel(channel Channel) *RabbitMQ {
	return &RabbitMQ{
		channel:  channel,
		prefetch: DefaultPrefetch,
		now:      time.Now,
	}
}

// DeclareQueue makes sure a durable queue named name exists.
func (r *RabbitMQ) DeclareQueue(name string) error {
	q, err := r.channel.QueueDeclare(name, true, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("failed to declare queue %s: %w", name, err)
	}

	log.Printf("✅ Queue %s ready (%d messages waiting)", q.Name, q.Messages)
	return nil
}

// Publish sends body to queue through the default exchange as a persistent
// JSON message with a fresh message id.
func (r *RabbitMQ) Publish(ctx context.Context, queue string, body []byte) error {
	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    r.now().UTC(),
		Body:         body,
	}

	if err := r.channel.PublishWithContext(ctx, "", queue, false, false, msg); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queue, err)
	}
	return nil
}

// Consume starts a manual-ack consumer on queue, limited to the prefetch
// window.
func (r *RabbitMQ) Consume(queue string) (<-chan amqp.Delivery, error) {
	if err := r.channel.Qos(r.prefetch, 0, false); err != nil {
		return nil, fmt.Errorf("failed to set prefetch on %s: %w", queue, err)
	}

	deliveries, err := r.channel.Consume(queue, "", false, false, false, false, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to consume from %s: %w", queue, err)
	}

	log.Printf("👂 Consuming %s (prefetch %d)", queue, r.prefetch)
	return deliveries, nil
}

func (r *RabbitMQ) Close() {
	if r.channel != nil {
		r.channel.Close()
	}
	if r.conn != nil {
		r.conn.Close()
	}
}
