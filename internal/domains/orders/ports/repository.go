package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrDuplicateNumber is returned when another order already holds the order number.
	ErrDuplicateNumber = errors.New("order number already in use")
)

// Filter narrows order listings. Zero values are ignored.
type Filter struct {
	Statuses    []domain.Status
	WaiterID    string
	TableNumber *int
	From        *time.Time
	To          *time.Time
	OldestFirst bool
}

// Matches reports whether o satisfies the filter.
func (f Filter) Matches(o *domain.Order) bool {
	if len(f.Statuses) > 0 {
		found := false
		for _, s := range f.Statuses {
			if o.Status == s {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	if f.WaiterID != "" && o.WaiterID != f.WaiterID {
		return false
	}
	if f.TableNumber != nil && (o.TableNumber == nil || *o.TableNumber != *f.TableNumber) {
		return false
	}
	if f.From != nil && o.OrderDate.Before(*f.From) {
		return false
	}
	if f.To != nil && !o.OrderDate.Before(*f.To) {
		return false
	}
	return true
}

// Repository persists orders with their lines.
type Repository interface {
	Save(ctx context.Context, order *domain.Order) (*domain.Order, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	// List orders by order date, newest first unless OldestFirst is set.
	List(ctx context.Context, filter Filter) ([]*domain.Order, error)
}
