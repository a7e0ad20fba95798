package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"

	invdomain "github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be greater than zero")
	ErrUnitRequired    = errors.New("unit is required")
)

// Ingredient links a menu item to the inventory it consumes per portion.
type Ingredient struct {
	MenuItemID      uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        float64
	Unit            string
}

// NewIngredient validates a recipe link.
func NewIngredient(menuItemID, inventoryItemID uuid.UUID, quantity float64, unit string) (Ingredient, error) {
	ing := Ingredient{
		MenuItemID:      menuItemID,
		InventoryItemID: inventoryItemID,
		Quantity:        quantity,
		Unit:            strings.TrimSpace(unit),
	}
	return ing, ing.Validate()
}

func (i Ingredient) Validate() error {
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	if i.Unit == "" {
		return ErrUnitRequired
	}
	return nil
}

// IngredientDetail joins a recipe link with the stocked item it draws from.
type IngredientDetail struct {
	Ingredient
	InventoryItem *invdomain.Item
}
