package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
)

var (
	// ErrInvalidInput signals the request violated a billing invariant.
	ErrInvalidInput = errors.New("invalid billing input")
	// ErrBillExists signals the order has already been billed.
	ErrBillExists = errors.New("bill already exists for this order")
	// ErrOrderLookup signals the order service could not be consulted.
	ErrOrderLookup = errors.New("error fetching order details")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNegativeTip) ||
		errors.Is(err, domain.ErrNegativeDiscount) ||
		errors.Is(err, domain.ErrDiscountExceedsTotal) ||
		errors.Is(err, domain.ErrInvalidBillStatus) ||
		errors.Is(err, domain.ErrBillClosed) ||
		errors.Is(err, domain.ErrOverpayment) ||
		errors.Is(err, domain.ErrInvalidAmount) ||
		errors.Is(err, domain.ErrInvalidPaymentMethod) ||
		errors.Is(err, domain.ErrInvalidPaymentStatus) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
