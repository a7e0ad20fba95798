package messaging

import (
	"context"
	"log/slog"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

// LogPublisher records encoded events in the log when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(ctx context.Context, event domain.Event) error {
	msg, err := Encode(event)
	if err != nil {
		return err
	}
	p.logger.LogAttrs(ctx, slog.LevelInfo, "order event not delivered, no broker configured",
		slog.String("event.type", msg.Type),
		slog.String("event.id", msg.ID),
		slog.String("order.id", event.AggregateID().String()),
		slog.String("payload", string(msg.Data)))
	return nil
}

var _ ports.EventPublisher = (*LogPublisher)(nil)
