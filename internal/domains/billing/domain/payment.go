package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ops/internal/shared/money"
	"github.com/Apurer/restaurant-ops/internal/shared/reference"
)

// PaymentMethod is how the guest paid.
type PaymentMethod string

const (
	MethodCash          PaymentMethod = "cash"
	MethodCard          PaymentMethod = "card"
	MethodDigitalWallet PaymentMethod = "digital_wallet"
	MethodBankTransfer  PaymentMethod = "bank_transfer"
)

// PaymentStatus tracks a payment from capture to refund.
type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentCancelled PaymentStatus = "cancelled"
	PaymentRefunded  PaymentStatus = "refunded"
)

var (
	ErrInvalidAmount        = errors.New("payment amount must be greater than zero")
	ErrInvalidPaymentMethod = errors.New("payment method must be one of cash, card, digital_wallet, bank_transfer")
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// ParsePaymentMethod accepts only the four known methods.
func ParsePaymentMethod(raw string) (PaymentMethod, error) {
	switch m := PaymentMethod(raw); m {
	case MethodCash, MethodCard, MethodDigitalWallet, MethodBankTransfer:
		return m, nil
	}
	return "", ErrInvalidPaymentMethod
}

// ParsePaymentStatus validates a stored or requested payment status.
func ParsePaymentStatus(raw string) (PaymentStatus, error) {
	switch s := PaymentStatus(raw); s {
	case PaymentPending, PaymentCompleted, PaymentFailed, PaymentCancelled, PaymentRefunded:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidPaymentStatus, raw)
}

// Payment is money taken against a bill.
type Payment struct {
	ID              uuid.UUID
	BillID          uuid.UUID
	PaymentNumber   string
	Amount          decimal.Decimal
	Method          PaymentMethod
	Status          PaymentStatus
	TransactionID   string
	ReferenceNumber string
	Notes           string
	ProcessedAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewPayment builds a pending payment.
func NewPayment(billID uuid.UUID, amount decimal.Decimal, method PaymentMethod, now time.Time) (Payment, error) {
	if !amount.IsPositive() {
		return Payment{}, ErrInvalidAmount
	}
	if _, err := ParsePaymentMethod(string(method)); err != nil {
		return Payment{}, err
	}
	return Payment{
		ID:            uuid.New(),
		BillID:        billID,
		PaymentNumber: reference.New(PaymentNumberPrefix, now),
		Amount:        money.Round(amount),
		Method:        method,
		Status:        PaymentPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

func (p *Payment) complete(now time.Time) {
	p.Status = PaymentCompleted
	processed := now
	p.ProcessedAt = &processed
	p.UpdatedAt = now
}

func (p Payment) clone() Payment {
	if p.ProcessedAt != nil {
		processed := *p.ProcessedAt
		p.ProcessedAt = &processed
	}
	return p
}
