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

	menutypes "github.com/Apurer/restaurant-ops/internal/domains/menu/application/types"
	menudomain "github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
	menuports "github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
)

const tracerName = "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/observability/service"

// Service decorates the menu service with tracing, logging, and metrics.
type Service struct {
	inner   menuports.Service
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

// New wraps the core menu service.
func New(inner menuports.Service, opts ...Option) menuports.Service {
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

func (s *Service) ListMenuItems(ctx context.Context, filter menuports.Filter) ([]*menudomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.ListMenuItems", trace.WithAttributes(attribute.String("menu.category", string(filter.Category))))
	defer span.End()

	result, err := s.inner.ListMenuItems(ctx, filter)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list menu")
	}
	span.SetAttributes(attribute.Int("menu.count", len(result)))
	return result, nil
}

func (s *Service) GetMenuItem(ctx context.Context, id uuid.UUID) (*menudomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.GetMenuItem", trace.WithAttributes(attribute.String("menu.id", id.String())))
	defer span.End()

	result, err := s.inner.GetMenuItem(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load menu item", slog.String("menu.id", id.String()))
	}
	return result, nil
}

func (s *Service) CreateMenuItem(ctx context.Context, input menutypes.CreateMenuItemInput) (*menudomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.CreateMenuItem", trace.WithAttributes(attribute.String("menu.name", input.Name)))
	defer span.End()

	s.logInfo(ctx, "creating menu item", slog.String("menu.name", input.Name), slog.String("menu.category", input.Category))
	result, err := s.inner.CreateMenuItem(ctx, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to create menu item", slog.String("menu.name", input.Name))
	}
	s.metrics.recordCreated(ctx, result.Category)
	s.logInfo(ctx, "menu item created", slog.String("menu.id", result.ID.String()))
	return result, nil
}

func (s *Service) UpdateMenuItem(ctx context.Context, id uuid.UUID, input menutypes.UpdateMenuItemInput) (*menudomain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.UpdateMenuItem", trace.WithAttributes(attribute.String("menu.id", id.String())))
	defer span.End()

	s.logInfo(ctx, "updating menu item", slog.String("menu.id", id.String()))
	result, err := s.inner.UpdateMenuItem(ctx, id, input)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to update menu item", slog.String("menu.id", id.String()))
	}
	return result, nil
}

func (s *Service) DeleteMenuItem(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.DeleteMenuItem", trace.WithAttributes(attribute.String("menu.id", id.String())))
	defer span.End()

	s.logInfo(ctx, "deleting menu item", slog.String("menu.id", id.String()))
	if err := s.inner.DeleteMenuItem(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete menu item", slog.String("menu.id", id.String()))
	}
	return nil
}

func (s *Service) ListIngredients(ctx context.Context, menuItemID uuid.UUID) (menuports.MenuIngredients, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.ListIngredients", trace.WithAttributes(attribute.String("menu.id", menuItemID.String())))
	defer span.End()

	result, err := s.inner.ListIngredients(ctx, menuItemID)
	if err != nil {
		return menuports.MenuIngredients{}, s.handleError(ctx, span, err, "failed to list ingredients", slog.String("menu.id", menuItemID.String()))
	}
	return result, nil
}

func (s *Service) AddIngredient(ctx context.Context, input menutypes.AddIngredientInput) (menudomain.IngredientDetail, error) {
	attrs := []slog.Attr{
		slog.String("menu.id", input.MenuItemID.String()),
		slog.String("inventory.id", input.InventoryItemID.String()),
	}
	ctx, span := s.tracer.Start(ctx, "MenuService.AddIngredient", trace.WithAttributes(
		attribute.String("menu.id", input.MenuItemID.String()),
		attribute.String("inventory.id", input.InventoryItemID.String())))
	defer span.End()

	s.logInfo(ctx, "adding ingredient", attrs...)
	result, err := s.inner.AddIngredient(ctx, input)
	if err != nil {
		return menudomain.IngredientDetail{}, s.handleError(ctx, span, err, "failed to add ingredient", attrs...)
	}
	return result, nil
}

func (s *Service) UpdateIngredient(ctx context.Context, input menutypes.UpdateIngredientInput) (menudomain.IngredientDetail, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.UpdateIngredient", trace.WithAttributes(
		attribute.String("menu.id", input.MenuItemID.String()),
		attribute.String("inventory.id", input.InventoryItemID.String())))
	defer span.End()

	result, err := s.inner.UpdateIngredient(ctx, input)
	if err != nil {
		return menudomain.IngredientDetail{}, s.handleError(ctx, span, err, "failed to update ingredient",
			slog.String("menu.id", input.MenuItemID.String()), slog.String("inventory.id", input.InventoryItemID.String()))
	}
	return result, nil
}

func (s *Service) RemoveIngredient(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "MenuService.RemoveIngredient", trace.WithAttributes(
		attribute.String("menu.id", menuItemID.String()),
		attribute.String("inventory.id", inventoryItemID.String())))
	defer span.End()

	if err := s.inner.RemoveIngredient(ctx, menuItemID, inventoryItemID); err != nil {
		return s.handleError(ctx, span, err, "failed to remove ingredient",
			slog.String("menu.id", menuItemID.String()), slog.String("inventory.id", inventoryItemID.String()))
	}
	return nil
}

func (s *Service) CheckAvailability(ctx context.Context, ids []uuid.UUID) ([]menudomain.Availability, error) {
	ctx, span := s.tracer.Start(ctx, "MenuService.CheckAvailability", trace.WithAttributes(attribute.Int("menu.requested", len(ids))))
	defer span.End()

	result, err := s.inner.CheckAvailability(ctx, ids)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to check availability")
	}
	summary := menudomain.Summarize(result)
	s.metrics.recordAvailability(ctx, summary)
	span.SetAttributes(
		attribute.Int("menu.available", summary.AvailableItems),
		attribute.Int("menu.unavailable", summary.UnavailableItems))
	if summary.UnavailableItems > 0 {
		s.logInfo(ctx, "menu items cannot be prepared", slog.Int("unavailable", summary.UnavailableItems))
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
	itemsCreated       metric.Int64Counter
	availabilityChecks metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("menu.service.items_created", metric.WithDescription("Number of menu items created"))
	checks, _ := m.Int64Counter("menu.service.availability_checks", metric.WithDescription("Menu items evaluated for availability"))
	return serviceMetrics{itemsCreated: created, availabilityChecks: checks}
}

func (m serviceMetrics) recordCreated(ctx context.Context, category menudomain.Category) {
	if m.itemsCreated != nil {
		m.itemsCreated.Add(ctx, 1, metric.WithAttributes(attribute.String("menu.category", string(category))))
	}
}

func (m serviceMetrics) recordAvailability(ctx context.Context, summary menudomain.AvailabilitySummary) {
	if m.availabilityChecks == nil {
		return
	}
	m.availabilityChecks.Add(ctx, int64(summary.AvailableItems), metric.WithAttributes(attribute.Bool("can_prepare", true)))
	m.availabilityChecks.Add(ctx, int64(summary.UnavailableItems), metric.WithAttributes(attribute.Bool("can_prepare", false)))
}

var _ menuports.Service = (*Service)(nil)
