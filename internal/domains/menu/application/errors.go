package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
)

// ErrInvalidInput signals the request violated a menu invariant.
var ErrInvalidInput = errors.New("invalid menu input")

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNameRequired) ||
		errors.Is(err, domain.ErrNameTooLong) ||
		errors.Is(err, domain.ErrNegativePrice) ||
		errors.Is(err, domain.ErrInvalidCategory) ||
		errors.Is(err, domain.ErrInvalidPreparationTime) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrUnitRequired) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
