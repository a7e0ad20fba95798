package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps bills in memory for development and tests.
type Repository struct {
	mu      sync.RWMutex
	bills   map[uuid.UUID]*domain.Bill
	byOrder map[uuid.UUID]uuid.UUID
	// numbers maps every bill and payment number to the bill that holds it.
	numbers map[string]uuid.UUID
}

func NewRepository() *Repository {
	return &Repository{
		bills:   map[uuid.UUID]*domain.Bill{},
		byOrder: map[uuid.UUID]uuid.UUID{},
		numbers: map[string]uuid.UUID{},
	}
}

func (r *Repository) Save(_ context.Context, bill *domain.Bill) (*domain.Bill, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.byOrder[bill.OrderID]; ok && existing != bill.ID {
		return nil, ports.ErrDuplicateBill
	}
	if r.numberTaken(bill.BillNumber, bill.ID) {
		return nil, ports.ErrDuplicateNumber
	}
	seen := make(map[string]uuid.UUID, len(bill.Payments))
	for _, p := range bill.Payments {
		if other, dup := seen[p.PaymentNumber]; dup && other != p.ID {
			return nil, ports.ErrDuplicateNumber
		}
		seen[p.PaymentNumber] = p.ID
		if r.numberTaken(p.PaymentNumber, bill.ID) {
			return nil, ports.ErrDuplicateNumber
		}
	}
	r.bills[bill.ID] = bill.Clone()
	r.byOrder[bill.OrderID] = bill.ID
	r.numbers[bill.BillNumber] = bill.ID
	for _, p := range bill.Payments {
		r.numbers[p.PaymentNumber] = bill.ID
	}
	return bill.Clone(), nil
}

func (r *Repository) numberTaken(number string, owner uuid.UUID) bool {
	holder, ok := r.numbers[number]
	return ok && holder != owner
}

func (r *Repository) GetByID(_ context.Context, id uuid.UUID) (*domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bill, ok := r.bills[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return bill.Clone(), nil
}

func (r *Repository) GetByOrderID(_ context.Context, orderID uuid.UUID) (*domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.byOrder[orderID]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return r.bills[id].Clone(), nil
}

func (r *Repository) List(_ context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*domain.Bill, 0, len(r.bills))
	for _, bill := range r.bills {
		if filter.Matches(bill) {
			out = append(out, bill.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *Repository) GetPayment(_ context.Context, id uuid.UUID) (domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, bill := range r.bills {
		for _, p := range bill.Payments {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return domain.Payment{}, ports.ErrPaymentNotFound
}

func (r *Repository) ListPayments(_ context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []domain.Payment{}
	for _, bill := range r.bills {
		for _, p := range bill.Clone().Payments {
			if filter.Matches(p) {
				out = append(out, p)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}
