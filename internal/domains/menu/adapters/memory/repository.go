package memory

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
)

var (
	_ ports.Repository           = (*Repository)(nil)
	_ ports.IngredientRepository = (*Repository)(nil)
)

type linkKey struct {
	menuItemID      uuid.UUID
	inventoryItemID uuid.UUID
}

// Repository keeps menu items and their recipes in memory.
type Repository struct {
	mu    sync.RWMutex
	items map[uuid.UUID]*domain.MenuItem
	links map[linkKey]domain.Ingredient
	now   func() time.Time
}

// NewRepository constructs an empty in-memory store.
func NewRepository() *Repository {
	return &Repository{
		items: map[uuid.UUID]*domain.MenuItem{},
		links: map[linkKey]domain.Ingredient{},
		now:   time.Now,
	}
}

// Save inserts or replaces a menu item while maintaining timestamps.
func (r *Repository) Save(_ context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if item == nil {
		return nil, errors.New("cannot save nil menu item")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := item.Clone()
	timestamp := r.now().UTC()
	stored.CreatedAt = timestamp
	if existing, ok := r.items[item.ID]; ok {
		stored.CreatedAt = existing.CreatedAt
	}
	stored.UpdatedAt = timestamp
	r.items[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	item, ok := r.items[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return item.Clone(), nil
}

// Delete removes the item and every link referencing it.
func (r *Repository) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.items[id]; !ok {
		return ports.ErrNotFound
	}
	for key := range r.links {
		if key.menuItemID == id {
			delete(r.links, key)
		}
	}
	delete(r.items, id)
	return nil
}

func (r *Repository) List(_ context.Context, filter ports.Filter) ([]*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.MenuItem, 0, len(r.items))
	for _, item := range r.items {
		if filter.Matches(item) {
			list = append(list, item.Clone())
		}
	}
	sortMenu(list)
	return list, nil
}

func (r *Repository) ListByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.MenuItem, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := make([]*domain.MenuItem, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.items[id]; ok {
			list = append(list, item.Clone())
		}
	}
	sortMenu(list)
	return list, nil
}

func (r *Repository) ListIngredients(_ context.Context, menuItemID uuid.UUID) ([]domain.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	list := []domain.Ingredient{}
	for key, ing := range r.links {
		if key.menuItemID == menuItemID {
			list = append(list, ing)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		return list[i].InventoryItemID.String() < list[j].InventoryItemID.String()
	})
	return list, nil
}

func (r *Repository) GetIngredient(_ context.Context, menuItemID, inventoryItemID uuid.UUID) (domain.Ingredient, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	ing, ok := r.links[linkKey{menuItemID, inventoryItemID}]
	if !ok {
		return domain.Ingredient{}, ports.ErrIngredientNotFound
	}
	return ing, nil
}

func (r *Repository) AddIngredient(_ context.Context, ingredient domain.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := linkKey{ingredient.MenuItemID, ingredient.InventoryItemID}
	if _, ok := r.links[key]; ok {
		return ports.ErrIngredientExists
	}
	r.links[key] = ingredient
	return nil
}

func (r *Repository) SaveIngredient(_ context.Context, ingredient domain.Ingredient) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := linkKey{ingredient.MenuItemID, ingredient.InventoryItemID}
	if _, ok := r.links[key]; !ok {
		return ports.ErrIngredientNotFound
	}
	r.links[key] = ingredient
	return nil
}

func (r *Repository) DeleteIngredient(_ context.Context, menuItemID, inventoryItemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := linkKey{menuItemID, inventoryItemID}
	if _, ok := r.links[key]; !ok {
		return ports.ErrIngredientNotFound
	}
	delete(r.links, key)
	return nil
}

func (r *Repository) DeleteIngredientsForInventoryItem(_ context.Context, inventoryItemID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key := range r.links {
		if key.inventoryItemID == inventoryItemID {
			delete(r.links, key)
		}
	}
	return nil
}

func sortMenu(list []*domain.MenuItem) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Category != list[j].Category {
			return list[i].Category < list[j].Category
		}
		return strings.ToLower(list[i].Name) < strings.ToLower(list[j].Name)
	})
}
