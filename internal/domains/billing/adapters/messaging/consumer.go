// Package messaging turns billing_request messages from the order service into bills.
package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/application"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
	ordermessaging "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/messaging"
	orderdomain "github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/platform/rabbitmq"
)

// Queue is the queue this consumer reads.
const Queue = orderdomain.EventBillingRequest

var (
	// ErrMalformed marks messages that can never be processed; they are dropped.
	ErrMalformed = errors.New("malformed billing request")
	// ErrRetry marks failures worth another delivery.
	ErrRetry = errors.New("retry billing request")
)

// Consumer creates bills for served orders.
type Consumer struct {
	service ports.Service
	ledger  ports.DeliveryLedger
	logger  *slog.Logger
	tracer  trace.Tracer
}

type Option func(*Consumer)

func WithLogger(l *slog.Logger) Option {
	return func(c *Consumer) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewConsumer wires the consumer. A nil ledger disables deduplication.
func NewConsumer(service ports.Service, ledger ports.DeliveryLedger, opts ...Option) *Consumer {
	c := &Consumer{
		service: service,
		ledger:  ledger,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		tracer:  otel.Tracer("github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/messaging"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Subscribe consumes the billing_request queue until ctx is done or the channel closes.
func (c *Consumer) Subscribe(ctx context.Context, client *rabbitmq.Client, prefetch int) error {
	deliveries, closeFn, err := client.Consume(Queue, "billing-service", prefetch)
	if err != nil {
		return err
	}
	defer closeFn()
	c.Run(ctx, deliveries)
	return nil
}

// Run acknowledges each delivery according to Handle's outcome.
func (c *Consumer) Run(ctx context.Context, deliveries <-chan amqp.Delivery) {
	for {
		select {
		case <-ctx.Done():
			return
		case d, ok := <-deliveries:
			if !ok {
				c.logger.Warn("billing request deliveries closed")
				return
			}
			c.settle(ctx, d, c.Handle(ctx, d))
		}
	}
}

func (c *Consumer) settle(ctx context.Context, d amqp.Delivery, err error) {
	var ackErr error
	switch {
	case err == nil:
		ackErr = d.Ack(false)
	case errors.Is(err, ErrMalformed):
		c.logger.LogAttrs(ctx, slog.LevelWarn, "dropping billing request",
			slog.String("message.id", d.MessageId), slog.String("error", err.Error()))
		ackErr = d.Nack(false, false)
	default:
		c.logger.LogAttrs(ctx, slog.LevelWarn, "billing request will be redelivered",
			slog.String("message.id", d.MessageId), slog.String("error", err.Error()))
		ackErr = d.Nack(false, true)
	}
	if ackErr != nil {
		c.logger.LogAttrs(ctx, slog.LevelError, "failed to settle delivery", slog.String("error", ackErr.Error()))
	}
}

// Handle processes one delivery. Duplicate deliveries and already billed orders succeed.
func (c *Consumer) Handle(ctx context.Context, d amqp.Delivery) error {
	if d.Headers != nil {
		ctx = otel.GetTextMapPropagator().Extract(ctx, rabbitmq.HeaderCarrier(d.Headers))
	}
	ctx, span := c.tracer.Start(ctx, "billing_request process", trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	orderID, key, err := decode(d)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return err
	}
	span.SetAttributes(attribute.String("order.id", orderID.String()), attribute.String("messaging.message.id", key))

	if c.ledger != nil {
		first, err := c.ledger.FirstDelivery(ctx, key)
		if err != nil {
			return fmt.Errorf("%w: dedupe: %w", ErrRetry, err)
		}
		if !first {
			c.logger.LogAttrs(ctx, slog.LevelInfo, "skipping duplicate billing request", slog.String("message.id", key))
			return nil
		}
	}

	bill, err := c.service.CreateBill(ctx, types.CreateBillInput{
		OrderID:        orderID,
		TipAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
	})
	switch {
	case err == nil:
		c.logger.LogAttrs(ctx, slog.LevelInfo, "bill created from billing request",
			slog.String("bill.number", bill.BillNumber), slog.String("order.number", bill.OrderNumber))
		return nil
	case errors.Is(err, application.ErrBillExists):
		return nil
	case errors.Is(err, ports.ErrOrderNotFound), errors.Is(err, application.ErrInvalidInput):
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if c.ledger != nil {
		if relErr := c.ledger.Release(ctx, key); relErr != nil {
			c.logger.LogAttrs(ctx, slog.LevelWarn, "failed to release delivery key",
				slog.String("message.id", key), slog.String("error", relErr.Error()))
		}
	}
	return fmt.Errorf("%w: %w", ErrRetry, err)
}

func decode(d amqp.Delivery) (uuid.UUID, string, error) {
	var msg ordermessaging.Message
	if err := json.Unmarshal(d.Body, &msg); err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	if msg.Type != "" && msg.Type != Queue {
		return uuid.Nil, "", fmt.Errorf("%w: unexpected type %q", ErrMalformed, msg.Type)
	}
	var data ordermessaging.BillingRequestData
	if err := json.Unmarshal(msg.Data, &data); err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	orderID, err := uuid.Parse(data.OrderID)
	if err != nil {
		return uuid.Nil, "", fmt.Errorf("%w: order id: %w", ErrMalformed, err)
	}
	key := msg.ID
	if key == "" {
		key = d.MessageId
	}
	if key == "" {
		key = "order:" + orderID.String()
	}
	return orderID, key, nil
}
