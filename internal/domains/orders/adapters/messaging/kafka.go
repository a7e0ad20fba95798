package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	"github.com/Apurer/restaurant-ops/internal/platform/kafka"
)

// MessageWriter is satisfied by *kafkago.Writer.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
}

// KafkaPublisher writes each event to the topic named after it, keyed by order id.
type KafkaPublisher struct {
	writer MessageWriter
}

func NewKafkaPublisher(writer MessageWriter) (*KafkaPublisher, error) {
	if writer == nil {
		return nil, errors.New("kafka writer is required")
	}
	return &KafkaPublisher{writer: writer}, nil
}

// Publish implements ports.EventPublisher.
func (p *KafkaPublisher) Publish(ctx context.Context, event domain.Event) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal %s message: %w", msg.Type, err)
	}
	headers := kafka.InjectHeaders(ctx, []kafkago.Header{
		{Key: "type", Value: []byte(msg.Type)},
		{Key: "message-id", Value: []byte(msg.ID)},
	})
	return p.writer.WriteMessages(ctx, kafkago.Message{
		Topic:   event.EventName(),
		Key:     []byte(event.AggregateID().String()),
		Value:   body,
		Headers: headers,
		Time:    msg.Timestamp,
	})
}

var _ ports.EventPublisher = (*KafkaPublisher)(nil)
