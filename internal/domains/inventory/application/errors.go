package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
)

// ErrInvalidInput signals the request violated an inventory invariant.
var ErrInvalidInput = errors.New("invalid inventory input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNameRequired) ||
		errors.Is(err, domain.ErrNameTooLong) ||
		errors.Is(err, domain.ErrUnitRequired) ||
		errors.Is(err, domain.ErrUnitTooLong) ||
		errors.Is(err, domain.ErrSupplierTooLong) ||
		errors.Is(err, domain.ErrNegativeStock) ||
		errors.Is(err, domain.ErrInvalidMaximum) ||
		errors.Is(err, domain.ErrNegativeCost) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
