package types

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateMenuItemInput carries the fields accepted for a new menu item.
type CreateMenuItemInput struct {
	Name            string
	Description     string
	Price           decimal.Decimal
	Category        string
	IsAvailable     *bool
	PreparationTime *int
	Allergens       []string
	NutritionalInfo map[string]any
}

// UpdateMenuItemInput is a partial update; nil fields are left untouched.
type UpdateMenuItemInput struct {
	Name            *string
	Description     *string
	Price           *decimal.Decimal
	Category        *string
	IsAvailable     *bool
	PreparationTime *int
	Allergens       *[]string
	NutritionalInfo map[string]any
}

// AddIngredientInput links an inventory item to a menu item.
type AddIngredientInput struct {
	MenuItemID      uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        float64
	Unit            string
}

// UpdateIngredientInput changes an existing link.
type UpdateIngredientInput struct {
	MenuItemID      uuid.UUID
	InventoryItemID uuid.UUID
	Quantity        *float64
	Unit            *string
}
