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

// BillStatus tracks how much of a bill has been settled.
type BillStatus string

const (
	BillPending       BillStatus = "pending"
	BillPaid          BillStatus = "paid"
	BillPartiallyPaid BillStatus = "partially_paid"
	BillRefunded      BillStatus = "refunded"
	BillCancelled     BillStatus = "cancelled"
)

const (
	BillNumberPrefix    = "BILL"
	PaymentNumberPrefix = "PAY"
)

var (
	ErrNegativeTip          = errors.New("tip amount cannot be negative")
	ErrNegativeDiscount     = errors.New("discount amount cannot be negative")
	ErrDiscountExceedsTotal = errors.New("discount cannot exceed the bill amount")
	ErrInvalidBillStatus    = errors.New("invalid bill status")
	ErrBillClosed           = errors.New("bill does not accept payments")
	ErrOverpayment          = errors.New("payment exceeds remaining balance")
)

// ClosedBillError reports a payment against a settled or voided bill.
type ClosedBillError struct {
	Status BillStatus
}

func (e *ClosedBillError) Error() string {
	return "cannot process payment for bill with status: " + string(e.Status)
}

func (e *ClosedBillError) Is(target error) bool { return target == ErrBillClosed }

// OverpaymentError reports a payment larger than what is still owed.
type OverpaymentError struct {
	Amount    decimal.Decimal
	Remaining decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	return fmt.Sprintf("payment amount (%s) exceeds remaining balance (%s)", e.Amount.StringFixed(2), e.Remaining.StringFixed(2))
}

func (e *OverpaymentError) Is(target error) bool { return target == ErrOverpayment }

// ParseBillStatus validates a raw status value.
func ParseBillStatus(raw string) (BillStatus, error) {
	switch s := BillStatus(raw); s {
	case BillPending, BillPaid, BillPartiallyPaid, BillRefunded, BillCancelled:
		return s, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidBillStatus, raw)
}

// AcceptsPayments reports whether more money may be taken against the bill.
func (s BillStatus) AcceptsPayments() bool {
	return s == BillPending || s == BillPartiallyPaid
}

// Charges are the order amounts a bill is built from.
type Charges struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Tip      decimal.Decimal
	Discount decimal.Decimal
}

// Bill is the invoice for one order.
type Bill struct {
	ID             uuid.UUID
	BillNumber     string
	OrderID        uuid.UUID
	OrderNumber    string
	CustomerName   string
	TableNumber    *int
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
	TipAmount      decimal.Decimal
	TotalAmount    decimal.Decimal
	Status         BillStatus
	PaidAt         *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
	Payments       []Payment
}

// NewBill prices a bill as subtotal + tax + tip - discount.
func NewBill(orderID uuid.UUID, orderNumber string, charges Charges, now time.Time) (*Bill, error) {
	switch {
	case charges.Tip.IsNegative():
		return nil, ErrNegativeTip
	case charges.Discount.IsNegative():
		return nil, ErrNegativeDiscount
	}
	gross := money.Sum(charges.Subtotal, charges.Tax, charges.Tip)
	if charges.Discount.GreaterThan(gross) {
		return nil, ErrDiscountExceedsTotal
	}
	return &Bill{
		ID:             uuid.New(),
		BillNumber:     reference.New(BillNumberPrefix, now),
		OrderID:        orderID,
		OrderNumber:    orderNumber,
		Subtotal:       money.Round(charges.Subtotal),
		TaxAmount:      money.Round(charges.Tax),
		TipAmount:      money.Round(charges.Tip),
		DiscountAmount: money.Round(charges.Discount),
		TotalAmount:    money.Round(gross.Sub(charges.Discount)),
		Status:         BillPending,
		CreatedAt:      now,
		UpdatedAt:      now,
		Payments:       []Payment{},
	}, nil
}

// PaidAmount sums completed payments.
func (b *Bill) PaidAmount() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range b.Payments {
		if p.Status == PaymentCompleted {
			paid = paid.Add(p.Amount)
		}
	}
	return paid
}

// RemainingAmount is what is still owed.
func (b *Bill) RemainingAmount() decimal.Decimal {
	return b.TotalAmount.Sub(b.PaidAmount())
}

// Pay records a completed payment and moves the bill to paid or partially_paid.
func (b *Bill) Pay(amount decimal.Decimal, method PaymentMethod, referenceNumber, notes string, now time.Time) (Payment, error) {
	if !b.Status.AcceptsPayments() {
		return Payment{}, &ClosedBillError{Status: b.Status}
	}
	payment, err := NewPayment(b.ID, amount, method, now)
	if err != nil {
		return Payment{}, err
	}
	remaining := b.RemainingAmount()
	if payment.Amount.GreaterThan(remaining) {
		return Payment{}, &OverpaymentError{Amount: payment.Amount, Remaining: remaining}
	}
	payment.ReferenceNumber = referenceNumber
	payment.Notes = notes
	payment.complete(now)
	b.Payments = append(b.Payments, payment)

	if b.PaidAmount().GreaterThanOrEqual(b.TotalAmount) {
		b.Status = BillPaid
		paidAt := now
		b.PaidAt = &paidAt
	} else if b.PaidAmount().IsPositive() {
		b.Status = BillPartiallyPaid
	}
	b.UpdatedAt = now
	return payment, nil
}

// Renumber draws a fresh bill number, for when the previous one was already taken.
func (b *Bill) Renumber(now time.Time) {
	b.BillNumber = reference.New(BillNumberPrefix, now)
}

// RenumberPayment draws a fresh number for the payment with the given id.
func (b *Bill) RenumberPayment(id uuid.UUID, now time.Time) (Payment, bool) {
	for i := range b.Payments {
		if b.Payments[i].ID == id {
			b.Payments[i].PaymentNumber = reference.New(PaymentNumberPrefix, now)
			return b.Payments[i], true
		}
	}
	return Payment{}, false
}

// Clone returns a deep copy.
func (b *Bill) Clone() *Bill {
	if b == nil {
		return nil
	}
	clone := *b
	if b.TableNumber != nil {
		table := *b.TableNumber
		clone.TableNumber = &table
	}
	if b.PaidAt != nil {
		paidAt := *b.PaidAt
		clone.PaidAt = &paidAt
	}
	clone.Payments = make([]Payment, len(b.Payments))
	for i, p := range b.Payments {
		clone.Payments[i] = p.clone()
	}
	return &clone
}
