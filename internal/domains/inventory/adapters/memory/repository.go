package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory inventory store used for demos and tests.
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.Item
	now   func() time.Time
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		items: map[uuid.UUID]*domain.Item{},
		now:   time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
}

// Save inserts or replaces an item while maintaining timestamps.
func (r *Repository) Save(_ context.Context, item *domain.Item) (*domain.Item, error) {
	if item == nil {
		return nil, errors.New("cannot save nil inventory item")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := cloneItem(item)
	timestamp := r.now().UTC()
	stored.CreatedAt = timestamp
	if existing, ok := r.items[item.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = timestamp
	r.items[stored.ID] = stored
	return cloneItem(stored), nil
}

// GetByID fetches an item if present.
func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return cloneItem(item), nil
}

// ListByIDs returns the items that exist among ids.
func (r *Repository) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Item, 0, len(ids))
	for _, id := range ids {
		if item, ok := r.items[id]; ok {
			list = append(list, cloneItem(item))
		}
	}
	return list, nil
}

// Delete removes an item.
func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.items, id)
	return nil
}

// List returns matching items sorted by name.
func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		if filter.Matches(item) {
			list = append(list, cloneItem(item))
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
	return list, nil
}

// AdjustStock applies delta under the write lock.
func (r *Repository) AdjustStock(_ context.Context, id uuid.UUID, delta float64) (domain.StockAdjustment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	item, ok := r.items[id]
	if !ok {
		return domain.StockAdjustment{}, ports.ErrNotFound
	}
	working := cloneItem(item)
	adjustment, err := working.Adjust(delta)
	if err != nil {
		return domain.StockAdjustment{}, err
	}
	working.UpdatedAt = r.now().UTC()
	r.items[id] = working
	adjustment.Item = cloneItem(working)
	return adjustment, nil
}

func cloneItem(item *domain.Item) *domain.Item {
	clone := *item
	if item.ExpiryDate != nil {
		expiry := *item.ExpiryDate
		clone.ExpiryDate = &expiry
	}
	return &clone
}
