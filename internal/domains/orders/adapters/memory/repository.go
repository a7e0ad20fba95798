package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory order store.
type Repository struct {
	mu     sync.RWMutex
	orders map[uuid.UUID]*domain.Order
	now    func() time.Time
}

func NewRepository() *Repository {
	return &Repository{orders: map[uuid.UUID]*domain.Order{}, now: time.Now}
}

func (r *Repository) Save(_ context.Context, order *domain.Order) (*domain.Order, error) {
	if order == nil {
		return nil, errors.New("order is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, existing := range r.orders {
		if id != order.ID && existing.OrderNumber == order.OrderNumber {
			return nil, ports.ErrDuplicateNumber
		}
	}
	clone := order.Clone()
	clone.UpdatedAt = r.now().UTC()
	r.orders[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	order, ok := r.orders[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return order.Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Order, 0, len(r.orders))
	for _, order := range r.orders {
		if filter.Matches(order) {
			list = append(list, order.Clone())
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if filter.OldestFirst {
			return list[i].OrderDate.Before(list[j].OrderDate)
		}
		return list[i].OrderDate.After(list[j].OrderDate)
	})
	return list, nil
}
