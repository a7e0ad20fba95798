package application

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
)

var (
	// ErrInvalidInput signals the request violated an order invariant.
	ErrInvalidInput = errors.New("invalid order input")
	// ErrMenuUnavailable signals the menu service could not validate the ordered items.
	ErrMenuUnavailable = errors.New("error validating menu items")
	// ErrInsufficientInventory signals stock cannot cover the order.
	ErrInsufficientInventory = errors.New("insufficient inventory for order")
)

// MenuItemUnavailableError names an ordered item the menu cannot serve.
type MenuItemUnavailableError struct {
	MenuItemID uuid.UUID
}

func (e *MenuItemUnavailableError) Error() string {
	return fmt.Sprintf("menu item %s not found or not available", e.MenuItemID)
}

func (e *MenuItemUnavailableError) Is(target error) bool {
	return target == ErrInvalidInput
}

// InsufficientInventoryError lists the lines that cannot be prepared.
type InsufficientInventoryError struct {
	Items []domain.UnavailableItem
}

func (e *InsufficientInventoryError) Error() string {
	return fmt.Sprintf("insufficient inventory for %d order lines", len(e.Items))
}

func (e *InsufficientInventoryError) Is(target error) bool {
	return target == ErrInsufficientInventory
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, domain.ErrNoItems) ||
		errors.Is(err, domain.ErrInvalidQuantity) ||
		errors.Is(err, domain.ErrTableRequired) ||
		errors.Is(err, domain.ErrInvalidTable) ||
		errors.Is(err, domain.ErrInvalidOrderType) ||
		errors.Is(err, domain.ErrCustomerNameLength) ||
		errors.Is(err, domain.ErrInvalidStatus) ||
		errors.Is(err, domain.ErrInvalidItemStatus) ||
		errors.Is(err, domain.ErrInvalidTransition) ||
		errors.Is(err, domain.ErrNotCancellable) {
		return fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	return err
}
