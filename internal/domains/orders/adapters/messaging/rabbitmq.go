package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.opentelemetry.io/otel"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	"github.com/Apurer/restaurant-ops/internal/platform/rabbitmq"
)

// QueuePublisher is the part of the rabbitmq client the publisher needs.
type QueuePublisher interface {
	Publish(ctx context.Context, queue string, msg amqp.Publishing) error
}

// RabbitPublisher sends each event to the durable queue named after it.
type RabbitPublisher struct {
	queue QueuePublisher
}

// NewRabbitPublisher declares the order queues and returns a publisher over client.
func NewRabbitPublisher(client *rabbitmq.Client) (*RabbitPublisher, error) {
	if client == nil {
		return nil, errors.New("rabbitmq client is required")
	}
	if err := client.DeclareQueues(domain.Queues...); err != nil {
		return nil, err
	}
	return &RabbitPublisher{queue: client}, nil
}

// NewRabbitPublisherWith wraps any queue publisher; the queues must already exist.
func NewRabbitPublisherWith(queue QueuePublisher) *RabbitPublisher {
	return &RabbitPublisher{queue: queue}
}

// Publish implements ports.EventPublisher.
func (p *RabbitPublisher) Publish(ctx context.Context, event domain.Event) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msg.Type, err)
	}
	headers := amqp.Table{}
	otel.GetTextMapPropagator().Inject(ctx, rabbitmq.HeaderCarrier(headers))
	return p.queue.Publish(ctx, event.EventName(), amqp.Publishing{
		ContentType: "application/json",
		MessageId:   msg.ID,
		Type:        msg.Type,
		AppId:       ServiceName,
		Timestamp:   msg.Timestamp,
		Headers:     headers,
		Body:        body,
	})
}

var _ ports.EventPublisher = (*RabbitPublisher)(nil)
