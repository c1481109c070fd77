package consumer

import (
	"context"
	"encoding/json"
	"log"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/nycnighthawk/otel-app-sample/internal/models"
)

// Notifier tells a customer their order went through.
type Notifier interface {
	NotifyOrderPlaced(ctx context.Context, event models.OrderPlacedEvent) error
}

type OrderConsumer struct {
	notifier Notifier
}

func NewOrderConsumer(notifier Notifier) *OrderConsumer {
	return &OrderConsumer{notifier: notifier}
}

// ProcessOrderPlaced handles order.placed events until messages is closed.
func (c *OrderConsumer) ProcessOrderPlaced(ctx context.Context, messages <-chan amqp.Delivery) {
	for msg := range messages {
		var event models.OrderPlacedEvent
		if err := json.Unmarshal(msg.Body, &event); err != nil {
			log.Printf("❌ Failed to parse event: %v", err)
			msg.Nack(false, false) // Don't requeue bad messages
			continue
		}

		if err := c.notifier.NotifyOrderPlaced(ctx, event); err != nil {
			log.Printf("⚠️ Notification for order #%d failed, requeued: %v", event.OrderID, err)
			msg.Nack(false, true)
			continue
		}

		msg.Ack(false)
	}
}

// LogNotifier writes the confirmation to the process log.
type LogNotifier struct{}

func (LogNotifier) NotifyOrderPlaced(_ context.Context, event models.OrderPlacedEvent) error {
	log.Printf("📧 Order #%d confirmed for %s: product %d x%d", event.OrderID, event.CustomerEmail, event.ProductID, event.Qty)
	return nil
}
