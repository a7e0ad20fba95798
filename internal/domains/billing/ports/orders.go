package ports

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrOrderNotFound is returned when the order service does not know the order.
var ErrOrderNotFound = errors.New("order not found")

// OrderSnapshot is the part of an order a bill is built from.
type OrderSnapshot struct {
	ID           uuid.UUID
	OrderNumber  string
	CustomerName string
	TableNumber  *int
	Status       string
	Subtotal     decimal.Decimal
	Tax          decimal.Decimal
	Total        decimal.Decimal
}

// OrderDirectory is the order service as seen by billing.
type OrderDirectory interface {
	GetOrder(ctx context.Context, id uuid.UUID) (OrderSnapshot, error)
}
