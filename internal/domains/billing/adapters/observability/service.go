package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

const tracerName = "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/observability/service"

// Service decorates the billing service with tracing, logging, and metrics.
type Service struct {
	inner   ports.Service
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

func New(inner ports.Service, opts ...Option) ports.Service {
	s := &Service{
		inner:  inner,
		tracer: nooptrace.NewTracerProvider().Tracer(tracerName),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
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

func (s *Service) ListBills(ctx context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.ListBills")
	defer span.End()

	result, err := s.inner.ListBills(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list bills")
	}
	span.SetAttributes(attribute.Int("bill.count", len(result)))
	return result, nil
}

func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.GetBill", trace.WithAttributes(attribute.String("bill.id", id.String())))
	defer span.End()

	result, err := s.inner.GetBill(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load bill", slog.String("bill.id", id.String()))
	}
	return result, nil
}

func (s *Service) GetBillByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Bill, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.GetBillByOrder", trace.WithAttributes(attribute.String("order.id", orderID.String())))
	defer span.End()

	result, err := s.inner.GetBillByOrder(ctx, orderID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load bill for order", slog.String("order.id", orderID.String()))
	}
	return result, nil
}

func (s *Service) CreateBill(ctx context.Context, input types.CreateBillInput) (*domain.Bill, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.CreateBill", trace.WithAttributes(attribute.String("order.id", input.OrderID.String())))
	defer span.End()

	s.logInfo(ctx, "creating bill", slog.String("order.id", input.OrderID.String()))
	result, err := s.inner.CreateBill(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create bill", slog.String("order.id", input.OrderID.String()))
	}
	s.metrics.recordBill(ctx)
	span.SetAttributes(attribute.String("bill.number", result.BillNumber))
	s.logInfo(ctx, "bill created",
		slog.String("bill.number", result.BillNumber),
		slog.String("order.number", result.OrderNumber),
		slog.String("bill.total", result.TotalAmount.StringFixed(2)))
	return result, nil
}

func (s *Service) ProcessPayment(ctx context.Context, input types.PaymentInput) (ports.PaymentReceipt, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.ProcessPayment", trace.WithAttributes(
		attribute.String("bill.id", input.BillID.String()),
		attribute.String("payment.method", input.PaymentMethod)))
	defer span.End()

	start := time.Now()
	result, err := s.inner.ProcessPayment(ctx, input)
	if err != nil {
		return ports.PaymentReceipt{}, s.handleError(ctx, span, err, "failed to process payment",
			slog.String("bill.id", input.BillID.String()), slog.String("amount", input.Amount.String()))
	}
	amount, _ := result.Payment.Amount.Float64()
	s.metrics.recordPayment(ctx, string(result.Payment.Method), amount, time.Since(start))
	s.logInfo(ctx, "payment processed",
		slog.String("payment.number", result.Payment.PaymentNumber),
		slog.String("bill.status", string(result.Bill.Status)),
		slog.String("bill.remaining", result.Bill.RemainingAmount().StringFixed(2)))
	return result, nil
}

func (s *Service) ListPayments(ctx context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.ListPayments")
	defer span.End()

	result, err := s.inner.ListPayments(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list payments")
	}
	return result, nil
}

func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.GetPayment", trace.WithAttributes(attribute.String("payment.id", id.String())))
	defer span.End()

	result, err := s.inner.GetPayment(ctx, id)
	if err != nil {
		return domain.Payment{}, s.handleError(ctx, span, err, "failed to load payment", slog.String("payment.id", id.String()))
	}
	return result, nil
}

func (s *Service) DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error) {
	ctx, span := s.tracer.Start(ctx, "BillingService.DailySummary", trace.WithAttributes(attribute.String("day", day.Format(time.DateOnly))))
	defer span.End()

	result, err := s.inner.DailySummary(ctx, day)
	if err != nil {
		return domain.DailySummary{}, s.handleError(ctx, span, err, "failed to build daily summary")
	}
	return result, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	bills    metric.Int64Counter
	payments metric.Int64Counter
	amount   metric.Float64Histogram
	latency  metric.Float64Histogram
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	bills, _ := m.Int64Counter("billing.service.bills_created", metric.WithDescription("Number of bills created"))
	payments, _ := m.Int64Counter("billing.service.payments", metric.WithDescription("Number of completed payments"))
	amount, _ := m.Float64Histogram("billing.service.payment_amount", metric.WithDescription("Completed payment amounts"))
	latency, _ := m.Float64Histogram("billing.service.payment_duration_ms", metric.WithUnit("ms"))
	return serviceMetrics{bills: bills, payments: payments, amount: amount, latency: latency}
}

func (m serviceMetrics) recordBill(ctx context.Context) {
	if m.bills != nil {
		m.bills.Add(ctx, 1)
	}
}

func (m serviceMetrics) recordPayment(ctx context.Context, method string, amount float64, took time.Duration) {
	attrs := metric.WithAttributes(attribute.String("payment_method", method))
	if m.payments != nil {
		m.payments.Add(ctx, 1, attrs)
	}
	if m.amount != nil {
		m.amount.Record(ctx, amount, attrs)
	}
	if m.latency != nil {
		m.latency.Record(ctx, float64(took.Microseconds())/1000)
	}
}

var _ ports.Service = (*Service)(nil)
