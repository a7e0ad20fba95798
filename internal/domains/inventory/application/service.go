package application

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	types "github.com/Apurer/restaurant-ops/internal/domains/inventory/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
)

// Service orchestrates inventory use cases.
type Service struct {
	repo    ports.Repository
	cleaner ports.IngredientCleaner
	now     func() time.Time
}

// Option customises the service.
type Option func(*Service)

// WithIngredientCleaner removes recipe links when an inventory item is deleted.
func WithIngredientCleaner(cleaner ports.IngredientCleaner) Option {
	return func(s *Service) {
		s.cleaner = cleaner
	}
}

// WithClock overrides the time source used for expiry alerts.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService wires the inventory service with its repository.
func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListItems returns items matching the filter, ordered by name.
func (s *Service) ListItems(ctx context.Context, filter ports.Filter) ([]*domain.Item, error) {
	items, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, mapError(err)
	}
	return items, nil
}

// GetItem loads a single inventory item.
func (s *Service) GetItem(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	return item, nil
}

// CreateItem validates and stores a new item.
func (s *Service) CreateItem(ctx context.Context, input types.CreateItemInput) (*domain.Item, error) {
	item, err := domain.NewItem(input.Name, input.Unit, input.CurrentStock, input.MinimumStock, input.MaximumStock, input.CostPerUnit)
	if err != nil {
		return nil, mapError(err)
	}
	item.Description = input.Description
	item.Supplier = strings.TrimSpace(input.Supplier)
	item.ExpiryDate = input.ExpiryDate
	item.IsPerishable = input.IsPerishable
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// UpdateItem applies a partial update.
func (s *Service) UpdateItem(ctx context.Context, id uuid.UUID, input types.UpdateItemInput) (*domain.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	applyUpdate(item, input)
	if err := item.Validate(); err != nil {
		return nil, mapError(err)
	}
	saved, err := s.repo.Save(ctx, item)
	if err != nil {
		return nil, mapError(err)
	}
	return saved, nil
}

// DeleteItem removes an item and any recipe links to it.
func (s *Service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		return mapError(err)
	}
	if s.cleaner != nil {
		if err := s.cleaner.DeleteIngredientsForInventoryItem(ctx, id); err != nil {
			return mapError(err)
		}
	}
	return mapError(s.repo.Delete(ctx, id))
}

// AdjustStock applies a signed delta to the item's stock level.
func (s *Service) AdjustStock(ctx context.Context, id uuid.UUID, delta float64) (domain.StockAdjustment, error) {
	if delta == 0 {
		return domain.StockAdjustment{}, domain.ErrAdjustmentRequired
	}
	adjustment, err := s.repo.AdjustStock(ctx, id, delta)
	if err != nil {
		return domain.StockAdjustment{}, mapError(err)
	}
	return adjustment, nil
}

// Alerts classifies the whole inventory into low, out-of-stock and expiring buckets.
func (s *Service) Alerts(ctx context.Context) (domain.Alerts, error) {
	items, err := s.repo.List(ctx, ports.Filter{})
	if err != nil {
		return domain.Alerts{}, mapError(err)
	}
	return domain.BuildAlerts(items, s.now()), nil
}

func applyUpdate(item *domain.Item, input types.UpdateItemInput) {
	if input.Name != nil {
		item.Name = strings.TrimSpace(*input.Name)
	}
	if input.Description != nil {
		item.Description = *input.Description
	}
	if input.CurrentStock != nil {
		item.CurrentStock = *input.CurrentStock
	}
	if input.MinimumStock != nil {
		item.MinimumStock = *input.MinimumStock
	}
	if input.MaximumStock != nil {
		item.MaximumStock = *input.MaximumStock
	}
	if input.Unit != nil {
		item.Unit = strings.TrimSpace(*input.Unit)
	}
	if input.CostPerUnit != nil {
		item.CostPerUnit = *input.CostPerUnit
	}
	if input.Supplier != nil {
		item.Supplier = strings.TrimSpace(*input.Supplier)
	}
	if input.ExpiryDate != nil {
		expiry := *input.ExpiryDate
		item.ExpiryDate = &expiry
	}
	if input.IsPerishable != nil {
		item.IsPerishable = *input.IsPerishable
	}
}

var _ ports.Service = (*Service)(nil)
