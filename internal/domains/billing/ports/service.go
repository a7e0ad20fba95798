package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
)

// PaymentReceipt is the outcome of a processed payment.
type PaymentReceipt struct {
	Payment domain.Payment
	Bill    *domain.Bill
}

// Service exposes billing use cases to adapters.
type Service interface {
	ListBills(ctx context.Context, filter BillFilter) ([]*domain.Bill, error)
	GetBill(ctx context.Context, id uuid.UUID) (*domain.Bill, error)
	GetBillByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Bill, error)
	CreateBill(ctx context.Context, input types.CreateBillInput) (*domain.Bill, error)
	ProcessPayment(ctx context.Context, input types.PaymentInput) (PaymentReceipt, error)
	ListPayments(ctx context.Context, filter PaymentFilter) ([]domain.Payment, error)
	GetPayment(ctx context.Context, id uuid.UUID) (domain.Payment, error)
	DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error)
}
