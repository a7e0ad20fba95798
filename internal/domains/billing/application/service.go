package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

// Service bills orders and takes payments.
type Service struct {
	repo   ports.Repository
	orders ports.OrderDirectory
	logger *slog.Logger
	now    func() time.Time
}

// Option configures the Service.
type Option func(*Service)

// WithLogger sets the logger used for best-effort order notifications.
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

// NewService wires the billing service to its store and the order service.
func NewService(repo ports.Repository, orders ports.OrderDirectory, opts ...Option) *Service {
	s := &Service{
		repo:   repo,
		orders: orders,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ListBills returns the bills matching filter.
func (s *Service) ListBills(ctx context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	return s.repo.List(ctx, filter)
}

// GetBill loads a bill with its payments.
func (s *Service) GetBill(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	return s.repo.GetByID(ctx, id)
}

// GetBillByOrder loads the bill raised for orderID.
func (s *Service) GetBillByOrder(ctx context.Context, orderID uuid.UUID) (*domain.Bill, error) {
	return s.repo.GetByOrderID(ctx, orderID)
}

// CreateBill prices a bill from the order service's totals.
func (s *Service) CreateBill(ctx context.Context, input types.CreateBillInput) (*domain.Bill, error) {
	if _, err := s.repo.GetByOrderID(ctx, input.OrderID); err == nil {
		return nil, ErrBillExists
	} else if !errors.Is(err, ports.ErrNotFound) {
		return nil, err
	}

	order, err := s.orders.GetOrder(ctx, input.OrderID)
	if err != nil {
		if errors.Is(err, ports.ErrOrderNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrOrderLookup, err)
	}

	bill, err := domain.NewBill(order.ID, order.OrderNumber, domain.Charges{
		Subtotal: order.Subtotal,
		Tax:      order.Tax,
		Tip:      input.TipAmount,
		Discount: input.DiscountAmount,
	}, s.now().UTC())
	if err != nil {
		return nil, mapError(err)
	}
	bill.CustomerName = order.CustomerName
	bill.TableNumber = order.TableNumber

	saved, err := s.saveRenumbering(ctx, bill, func() { bill.Renumber(s.now().UTC()) })
	if err != nil {
		if errors.Is(err, ports.ErrDuplicateBill) {
			return nil, ErrBillExists
		}
		return nil, err
	}
	return saved, nil
}

// numberAttempts bounds how often a colliding bill or payment number is redrawn.
const numberAttempts = 3

// saveRenumbering saves bill, calling renumber and retrying when its new number is taken.
func (s *Service) saveRenumbering(ctx context.Context, bill *domain.Bill, renumber func()) (*domain.Bill, error) {
	for attempt := 1; ; attempt++ {
		saved, err := s.repo.Save(ctx, bill)
		if !errors.Is(err, ports.ErrDuplicateNumber) || attempt == numberAttempts {
			return saved, err
		}
		renumber()
	}
}

// ProcessPayment completes a payment immediately. When it settles the bill the order service is
// consulted best effort; nothing there can fail the payment.
func (s *Service) ProcessPayment(ctx context.Context, input types.PaymentInput) (ports.PaymentReceipt, error) {
	method, err := domain.ParsePaymentMethod(input.PaymentMethod)
	if err != nil {
		return ports.PaymentReceipt{}, mapError(err)
	}
	bill, err := s.repo.GetByID(ctx, input.BillID)
	if err != nil {
		return ports.PaymentReceipt{}, err
	}
	payment, err := bill.Pay(input.Amount, method, input.ReferenceNumber, input.Notes, s.now().UTC())
	if err != nil {
		return ports.PaymentReceipt{}, mapError(err)
	}
	saved, err := s.saveRenumbering(ctx, bill, func() {
		if renumbered, ok := bill.RenumberPayment(payment.ID, s.now().UTC()); ok {
			payment = renumbered
		}
	})
	if err != nil {
		return ports.PaymentReceipt{}, err
	}
	if saved.Status == domain.BillPaid {
		s.noteSettled(ctx, saved)
	}
	return ports.PaymentReceipt{Payment: payment, Bill: saved}, nil
}

func (s *Service) noteSettled(ctx context.Context, bill *domain.Bill) {
	if s.orders == nil {
		return
	}
	order, err := s.orders.GetOrder(ctx, bill.OrderID)
	if err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "failed to notify order service of settled bill",
			slog.String("bill.number", bill.BillNumber),
			slog.String("order.id", bill.OrderID.String()),
			slog.String("error", err.Error()))
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, "order settled",
		slog.String("bill.number", bill.BillNumber),
		slog.String("order.number", order.OrderNumber),
		slog.String("order.status", order.Status))
}

// ListPayments returns the payments matching filter across all bills.
func (s *Service) ListPayments(ctx context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	return s.repo.ListPayments(ctx, filter)
}

// GetPayment loads a single payment.
func (s *Service) GetPayment(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	return s.repo.GetPayment(ctx, id)
}

// DailySummary aggregates bills created on the UTC day of day.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error) {
	start, end := domain.DayBounds(day)
	bills, err := s.repo.List(ctx, ports.BillFilter{From: &start, To: &end})
	if err != nil {
		return domain.DailySummary{}, err
	}
	return domain.Summarize(start, bills), nil
}

var _ ports.Service = (*Service)(nil)
