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

	invtypes "github.com/Apurer/restaurant-ops/internal/domains/inventory/application/types"
	invdomain "github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	invports "github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
)

const tracerName = "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/observability/service"

// Service decorates the inventory service with tracing, logging, and metrics.
type Service struct {
	inner   invports.Service
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

// New wraps the core inventory service.
func New(inner invports.Service, opts ...Option) invports.Service {
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

func (s *Service) ListItems(ctx context.Context, filter invports.Filter) ([]*invdomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.ListItems")
	defer span.End()

	result, err := s.inner.ListItems(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list inventory")
	}
	span.SetAttributes(attribute.Int("inventory.count", len(result)))
	return result, nil
}

func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*invdomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.GetItem", trace.WithAttributes(attribute.String("inventory.id", id.String())))
	defer span.End()

	result, err := s.inner.GetItem(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load inventory item", slog.String("inventory.id", id.String()))
	}
	return result, nil
}

func (s *Service) CreateItem(ctx context.Context, input invtypes.CreateItemInput) (*invdomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.CreateItem", trace.WithAttributes(attribute.String("inventory.name", input.Name)))
	defer span.End()

	s.logInfo(ctx, "creating inventory item", slog.String("inventory.name", input.Name))
	result, err := s.inner.CreateItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create inventory item", slog.String("inventory.name", input.Name))
	}
	s.logInfo(ctx, "inventory item created", slog.String("inventory.id", result.ID.String()))
	return result, nil
}

func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, input invtypes.UpdateItemInput) (*invdomain.Item, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.UpdateItem", trace.WithAttributes(attribute.String("inventory.id", id.String())))
	defer span.End()

	s.logInfo(ctx, "updating inventory item", slog.String("inventory.id", id.String()))
	result, err := s.inner.UpdateItem(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update inventory item", slog.String("inventory.id", id.String()))
	}
	return result, nil
}

func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "InventoryService.DeleteItem", trace.WithAttributes(attribute.String("inventory.id", id.String())))
	defer span.End()

	s.logInfo(ctx, "deleting inventory item", slog.String("inventory.id", id.String()))
	if err := s.inner.DeleteItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete inventory item", slog.String("inventory.id", id.String()))
	}
	return nil
}

func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, delta float64) (invdomain.StockAdjustment, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.AdjustStock",
		trace.WithAttributes(attribute.String("inventory.id", id.String()), attribute.Float64("inventory.delta", delta)))
	defer span.End()

	s.logInfo(ctx, "adjusting stock", slog.String("inventory.id", id.String()), slog.Float64("delta", delta))
	result, err := s.inner.AdjustStock(ctx, id, delta)
	if err != nil {
		return invdomain.StockAdjustment{}, s.handleError(ctx, span, err, "failed to adjust stock", slog.String("inventory.id", id.String()))
	}
	s.metrics.recordAdjustment(ctx, delta)
	s.logInfo(ctx, "stock adjusted",
		slog.String("inventory.id", id.String()),
		slog.Float64("previous_stock", result.PreviousStock),
		slog.Float64("new_stock", result.NewStock))
	return result, nil
}

func (s *Service) Alerts(ctx context.Context) (invdomain.Alerts, error) {
	ctx, span := s.tracer.Start(ctx, "InventoryService.Alerts")
	defer span.End()

	result, err := s.inner.Alerts(ctx)
	if err != nil {
		return invdomain.Alerts{}, s.handleError(ctx, span, err, "failed to build inventory alerts")
	}
	summary := result.Summary()
	span.SetAttributes(attribute.Int("inventory.alerts.total", summary.TotalAlerts))
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
	stockAdjustments metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	adjustments, _ := m.Int64Counter("inventory.service.stock_adjustments", metric.WithDescription("Number of stock adjustments applied"))
	return serviceMetrics{stockAdjustments: adjustments}
}

func (m serviceMetrics) recordAdjustment(ctx context.Context, delta float64) {
	if m.stockAdjustments == nil {
		return
	}
	direction := "increase"
	if delta < 0 {
		direction = "decrease"
	}
	m.stockAdjustments.Add(ctx, 1, metric.WithAttributes(attribute.String("direction", direction)))
}

var _ invports.Service = (*Service)(nil)
