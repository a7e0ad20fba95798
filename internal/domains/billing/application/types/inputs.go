package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBillInput requests a bill for an order.
type CreateBillInput struct {
	OrderID        uuid.UUID
	TipAmount      decimal.Decimal
	DiscountAmount decimal.Decimal
}

// PaymentInput takes money against a bill.
type PaymentInput struct {
	BillID          uuid.UUID
	Amount          decimal.Decimal
	PaymentMethod   string
	ReferenceNumber string
	Notes           string
}
