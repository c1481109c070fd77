package publisher

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

const OrderPlacedQueue = "order.placed"

// Broker is the part of messaging.RabbitMQ the publisher needs.
type Broker interface {
	DeclareQueue(name string) error
	Publish(ctx context.Context, queue string, message []byte) error
}

type OrderPublisher struct {
	mq Broker
}

func NewOrderPublisher(mq Broker) (*OrderPublisher, error) {
	// Declare the queue
	if err := mq.DeclareQueue(OrderPlacedQueue); err != nil {
		return nil, err
	}

	return &OrderPublisher{mq: mq}, nil
}

// PublishOrderPlaced publishes an order.placed event
func (p *OrderPublisher) PublishOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.mq.Publish(ctx, OrderPlacedQueue, data)
}

// Nop drops events; used when no broker is configured.
type Nop struct{}

func (Nop) PublishOrderPlaced(context.Context, models.OrderPlacedEvent) error { return nil }
