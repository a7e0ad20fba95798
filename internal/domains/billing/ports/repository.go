package ports

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
)

var (
	ErrNotFound        = errors.New("bill not found")
	ErrPaymentNotFound = errors.New("payment not found")
	// ErrDuplicateBill is returned when an order already has a bill.
	ErrDuplicateBill = errors.New("bill already exists for order")
	// ErrDuplicateNumber is returned when a bill or payment number is already taken.
	ErrDuplicateNumber = errors.New("bill or payment number already in use")
)

// BillFilter narrows bill listings. Zero values are ignored; To is exclusive.
type BillFilter struct {
	Status      domain.BillStatus
	TableNumber *int
	From        *time.Time
	To          *time.Time
}

func (f BillFilter) Matches(b *domain.Bill) bool {
	if f.Status != "" && b.Status != f.Status {
		return false
	}
	if f.TableNumber != nil && (b.TableNumber == nil || *b.TableNumber != *f.TableNumber) {
		return false
	}
	if f.From != nil && b.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !b.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

// PaymentFilter narrows payment listings. Zero values are ignored; To is exclusive.
type PaymentFilter struct {
	BillID *uuid.UUID
	Method domain.PaymentMethod
	Status domain.PaymentStatus
	From   *time.Time
	To     *time.Time
}

func (f PaymentFilter) Matches(p domain.Payment) bool {
	if f.BillID != nil && p.BillID != *f.BillID {
		return false
	}
	if f.Method != "" && p.Method != f.Method {
		return false
	}
	if f.Status != "" && p.Status != f.Status {
		return false
	}
	if f.From != nil && p.CreatedAt.Before(*f.From) {
		return false
	}
	if f.To != nil && !p.CreatedAt.Before(*f.To) {
		return false
	}
	return true
}

// Repository persists bills together with their payments.
type Repository interface {
	// Save upserts the bill and its payments. A second bill for the same order yields
	// ErrDuplicateBill; a bill or payment number already in use yields ErrDuplicateNumber.
	Save(ctx context.Context, bill *domain.Bill) (*domain.Bill, error)
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Bill, error)
	// List returns bills newest first.
	List(ctx context.Context, filter BillFilter) ([]*domain.Bill, error)
	GetPayment(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	// ListPayments returns payments newest first.
	ListPayments(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
}
