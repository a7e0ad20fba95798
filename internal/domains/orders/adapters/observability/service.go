package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	ordertypes "github.com/Apurer/restaurant-ops/internal/domains/orders/application/types"
	orderdomain "github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	orderports "github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

const tracerName = "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/observability/service"

// Service decorates the order service with tracing, logging, and metrics.
type Service struct {
	inner   orderports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

// New wraps the core order service.
func New(inner orderports.Service, opts ...Option) orderports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) ListOrders(ctx context.Context, filter orderports.Filter) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListOrders")
	defer span.End()

	result, err := s.inner.ListOrders(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) KitchenQueue(ctx context.Context) ([]*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.KitchenQueue")
	defer span.End()

	result, err := s.inner.KitchenQueue(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load kitchen queue")
	}
	span.SetAttributes(attribute.Int("order.count", len(result)))
	return result, nil
}

func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	result, err := s.inner.GetOrder(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load order", slog.String("order.id", id.String()))
	}
	return result, nil
}

func (s *Service) CreateOrder(ctx context.Context, input ordertypes.CreateOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CreateOrder",
		trace.WithAttributes(attribute.Int("order.lines", len(input.Items)), attribute.String("order.waiter_id", input.WaiterID)))
	defer span.End()

	s.logInfo(ctx, "creating order", slog.Int("lines", len(input.Items)), slog.String("waiter.id", input.WaiterID))
	result, err := s.inner.CreateOrder(ctx, input)
	if err != nil {
		s.metrics.recordRejected(ctx)
		return nil, s.handleError(ctx, span, err, "failed to create order", slog.String("waiter.id", input.WaiterID))
	}
	s.metrics.recordCreated(ctx, string(result.OrderType))
	span.SetAttributes(attribute.String("order.id", result.ID.String()), attribute.String("order.number", result.OrderNumber))
	s.logInfo(ctx, "order created",
		slog.String("order.id", result.ID.String()),
		slog.String("order.number", result.OrderNumber),
		slog.String("order.total", result.Total.StringFixed(2)))
	return result, nil
}

func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, input ordertypes.UpdateOrderInput) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrder", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	s.logInfo(ctx, "updating order", slog.String("order.id", id.String()))
	result, err := s.inner.UpdateOrder(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update order", slog.String("order.id", id.String()))
	}
	if input.Status != nil {
		s.metrics.recordTransition(ctx, string(result.Status))
	}
	return result, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateStatus",
		trace.WithAttributes(attribute.String("order.id", id.String()), attribute.String("order.status", status)))
	defer span.End()

	s.logInfo(ctx, "changing order status", slog.String("order.id", id.String()), slog.String("status", status))
	result, err := s.inner.UpdateStatus(ctx, id, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change order status",
			slog.String("order.id", id.String()), slog.String("status", status))
	}
	s.metrics.recordTransition(ctx, string(result.Status))
	return result, nil
}

func (s *Service) CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.CancelOrder", trace.WithAttributes(attribute.String("order.id", id.String())))
	defer span.End()

	s.logInfo(ctx, "cancelling order", slog.String("order.id", id.String()), slog.String("reason", reason))
	result, err := s.inner.CancelOrder(ctx, id, reason)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to cancel order", slog.String("order.id", id.String()))
	}
	s.metrics.recordTransition(ctx, string(orderdomain.StatusCancelled))
	return result, nil
}

func (s *Service) UpdateItemStatus(ctx context.Context, orderID, itemID uuid.UUID, status string) (*orderdomain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateItemStatus", trace.WithAttributes(
		attribute.String("order.id", orderID.String()),
		attribute.String("order.item_id", itemID.String()),
		attribute.String("order.item_status", status)))
	defer span.End()

	result, err := s.inner.UpdateItemStatus(ctx, orderID, itemID, status)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to change item status",
			slog.String("order.id", orderID.String()), slog.String("item.id", itemID.String()))
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) logError(ctx context.Context, msg string, err error, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	if err != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
	}
	s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.logError(ctx, msg, err, attrs...)
	return err
}

type serviceMetrics struct {
	created     metric.Int64Counter
	rejected    metric.Int64Counter
	transitions metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("orders.service.created", metric.WithDescription("Number of orders accepted"))
	rejected, _ := m.Int64Counter("orders.service.rejected", metric.WithDescription("Number of order submissions rejected"))
	transitions, _ := m.Int64Counter("orders.service.status_changes", metric.WithDescription("Number of order status changes"))
	return serviceMetrics{created: created, rejected: rejected, transitions: transitions}
}

func (m serviceMetrics) recordCreated(ctx context.Context, orderType string) {
	if m.created == nil {
		return
	}
	m.created.Add(ctx, 1, metric.WithAttributes(attribute.String("order_type", orderType)))
}

func (m serviceMetrics) recordRejected(ctx context.Context) {
	if m.rejected == nil {
		return
	}
	m.rejected.Add(ctx, 1)
}

func (m serviceMetrics) recordTransition(ctx context.Context, status string) {
	if m.transitions == nil {
		return
	}
	m.transitions.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

var _ orderports.Service = (*Service)(nil)
