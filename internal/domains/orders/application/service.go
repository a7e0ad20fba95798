package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/Apurer/restaurant-ops/internal/domains/orders/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	"github.com/Apurer/restaurant-ops/internal/shared/reference"
)

// Service runs the order lifecycle: placement, kitchen progress, cancellation and hand-off to billing.
type Service struct {
	repo         ports.Repository
	catalog      ports.MenuCatalog
	publisher    ports.EventPublisher
	orchestrator ports.FulfillmentOrchestrator
	logger       *slog.Logger
	now          func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithPublisher sets where order events go.
func WithPublisher(p ports.EventPublisher) Option {
	return func(s *Service) {
		s.publisher = p
	}
}

// WithOrchestrator replaces the in-process inventory reduction.
func WithOrchestrator(o ports.FulfillmentOrchestrator) Option {
	return func(s *Service) {
		s.orchestrator = o
	}
}

// WithLogger sets the logger used for saga warnings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the order service. Without WithOrchestrator, stock is reduced in-process.
func NewService(repo ports.Repository, catalog ports.MenuCatalog, opts ...Option) *Service {
	s := &Service{
		repo:    repo,
		catalog: catalog,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.orchestrator == nil {
		s.orchestrator = NewFulfiller(catalog, s.publisher, s.logger)
	}
	return s
}

// ListOrders returns the orders matching filter, newest first unless the filter asks otherwise.
func (s *Service) ListOrders(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	orders, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return orders, nil
}

// KitchenQueue lists confirmed and preparing orders, oldest first.
func (s *Service) KitchenQueue(ctx context.Context) ([]*domain.Order, error) {
	return s.ListOrders(ctx, ports.Filter{
		Statuses:    []domain.Status{domain.StatusConfirmed, domain.StatusPreparing},
		OldestFirst: true,
	})
}

// GetOrder loads one order with its lines.
func (s *Service) GetOrder(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return order, nil
}

// CreateOrder prices the lines from the menu, checks stock for the requested quantities,
// stores the order as pending and announces it.
func (s *Service) CreateOrder(ctx context.Context, input types.CreateOrderInput) (*domain.Order, error) {
	if len(input.Items) == 0 {
		return nil, mapError(domain.ErrNoItems)
	}
	items := make([]domain.Item, 0, len(input.Items))
	for _, line := range input.Items {
		info, err := s.catalog.GetMenuItem(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, ports.ErrMenuItemNotFound) {
				return nil, &MenuItemUnavailableError{MenuItemID: line.MenuItemID}
			}
			return nil, fmt.Errorf("%w: %w", ErrMenuUnavailable, err)
		}
		if !info.IsAvailable {
			return nil, &MenuItemUnavailableError{MenuItemID: line.MenuItemID}
		}
		item, err := domain.NewItem(info.ID, info.Name, line.Quantity, info.Price, info.PreparationTime, line.SpecialInstructions)
		if err != nil {
			return nil, mapError(err)
		}
		items = append(items, item)
	}

	order, err := domain.NewOrder(domain.OrderType(strings.TrimSpace(input.OrderType)), input.TableNumber, items, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	order.CustomerName = strings.TrimSpace(input.CustomerName)
	order.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	order.WaiterID = input.WaiterID
	order.WaiterName = input.WaiterName
	order.Notes = input.Notes
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}

	if err := s.checkInventory(ctx, order); err != nil {
		return nil, err
	}

	saved, err := s.saveNew(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.OrderCreated{BaseEvent: s.event(), Order: saved})
	return saved, nil
}

// numberAttempts bounds how often a colliding order number is redrawn.
const numberAttempts = 3

func (s *Service) saveNew(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	for attempt := 1; ; attempt++ {
		saved, err := s.repo.Save(ctx, order)
		if !errors.Is(err, ports.ErrDuplicateNumber) || attempt == numberAttempts {
			return saved, err
		}
		order.OrderNumber = reference.New(domain.NumberPrefix, s.now())
	}
}

func (s *Service) checkInventory(ctx context.Context, order *domain.Order) error {
	ids := make([]uuid.UUID, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.MenuItemID)
	}
	results, err := s.catalog.CheckAvailability(ctx, ids)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "inventory availability check failed, accepting order",
			slog.String("order.number", order.OrderNumber), slog.String("error", err.Error()))
		return nil
	}
	byID := make(map[uuid.UUID]domain.ItemAvailability, len(results))
	for _, r := range results {
		byID[r.MenuItemID] = r
	}
	if unavailable := domain.EvaluateAvailability(order.Items, byID); len(unavailable) > 0 {
		return &InsufficientInventoryError{Items: unavailable}
	}
	return nil
}

// UpdateOrder edits guest details and, when a status is supplied, moves the order.
func (s *Service) UpdateOrder(ctx context.Context, id uuid.UUID, input types.UpdateOrderInput) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if input.CustomerName != nil {
		order.CustomerName = strings.TrimSpace(*input.CustomerName)
	}
	if input.CustomerPhone != nil {
		order.CustomerPhone = strings.TrimSpace(*input.CustomerPhone)
	}
	if input.Notes != nil {
		order.Notes = *input.Notes
	}
	if err := order.Validate(); err != nil {
		return nil, mapError(err)
	}
	if input.Status == nil {
		saved, err := s.repo.Save(ctx, order)
		if err != nil {
			return nil, mapError(err)
		}
		s.publish(ctx, domain.OrderUpdated{BaseEvent: s.event(), Order: saved, OldStatus: saved.Status, NewStatus: saved.Status})
		return saved, nil
	}
	return s.transition(ctx, order, *input.Status)
}

// UpdateStatus moves an order along its lifecycle.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return s.transition(ctx, order, status)
}

func (s *Service) transition(ctx context.Context, order *domain.Order, raw string) (*domain.Order, error) {
	next, err := domain.ParseStatus(raw)
	if err != nil {
		return nil, mapError(err)
	}
	old := order.Status
	wasConfirmed := order.Confirmed()
	if err := order.TransitionTo(next, s.now()); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	s.publish(ctx, domain.OrderUpdated{BaseEvent: s.event(), Order: saved, OldStatus: old, NewStatus: saved.Status})
	s.afterTransition(ctx, saved, wasConfirmed)
	return saved, nil
}

func (s *Service) afterTransition(ctx context.Context, order *domain.Order, wasConfirmed bool) {
	if !wasConfirmed && order.Confirmed() {
		if _, err := s.orchestrator.FulfillOrder(ctx, ports.NewFulfillmentRequest(order)); err != nil {
			s.logger.LogAttrs(ctx, slog.LevelWarn, "inventory reduction failed",
				slog.String("order.number", order.OrderNumber), slog.String("error", err.Error()))
		}
	}
	if order.Status == domain.StatusServed {
		s.publish(ctx, domain.BillingRequested{BaseEvent: s.event(), Order: order})
	}
}

// CancelOrder cancels a live order and records the reason in its notes.
func (s *Service) CancelOrder(ctx context.Context, id uuid.UUID, reason string) (*domain.Order, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if err := order.Cancel(reason, s.now()); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	if strings.TrimSpace(reason) == "" {
		reason = "No reason provided"
	}
	s.publish(ctx, domain.OrderCancelled{BaseEvent: s.event(), Order: saved, Reason: reason})
	return saved, nil
}

// UpdateItemStatus changes one line and promotes the order to ready once the kitchen is done.
func (s *Service) UpdateItemStatus(ctx context.Context, orderID, itemID uuid.UUID, status string) (*domain.Order, error) {
	next, err := domain.ParseItemStatus(status)
	if err != nil {
		return nil, mapError(err)
	}
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	old := order.Status
	promoted, err := order.UpdateItemStatus(itemID, next, s.now())
	if err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, order)
	if err != nil {
		return nil, mapError(err)
	}
	if promoted {
		s.publish(ctx, domain.OrderUpdated{BaseEvent: s.event(), Order: saved, OldStatus: old, NewStatus: saved.Status})
	}
	return saved, nil
}

func (s *Service) event() domain.BaseEvent {
	return domain.BaseEvent{Timestamp: s.now().UTC()}
}

func (s *Service) publish(ctx context.Context, event domain.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to publish order event",
			slog.String("event", event.EventName()),
			slog.String("order.id", event.AggregateID().String()),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
