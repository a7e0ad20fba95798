package domain

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// StockAdjustment records one inventory decrement made for an order.
type StockAdjustment struct {
	MenuItemID      uuid.UUID
	InventoryItemID uuid.UUID
	Adjustment      float64
}

// ReductionFailure records a decrement that could not be applied.
type ReductionFailure struct {
	MenuItemID      uuid.UUID
	InventoryItemID uuid.UUID
	Reason          string
}

// InventoryReduction summarises stock consumed for an order.
type InventoryReduction struct {
	OrderID     uuid.UUID
	OrderNumber string
	Adjustments []StockAdjustment
	Failures    []ReductionFailure
}

// IngredientStock is a per-portion requirement next to what is on hand.
type IngredientStock struct {
	Name              string
	RequiredQuantity  float64
	AvailableQuantity float64
}

// ItemAvailability is the menu service's verdict for one portion of a menu item.
type ItemAvailability struct {
	MenuItemID          uuid.UUID
	CanPrepare          bool
	RequiredIngredients []IngredientStock
	MissingIngredients  []string
}

// UnavailableItem explains why an order line cannot be fulfilled.
type UnavailableItem struct {
	MenuItemName string
	Quantity     int
	Reason       string
}

// EvaluateAvailability scales single-portion availability by each line's quantity.
func EvaluateAvailability(items []Item, availability map[uuid.UUID]ItemAvailability) []UnavailableItem {
	unavailable := []UnavailableItem{}
	for _, item := range items {
		a, ok := availability[item.MenuItemID]
		if !ok {
			unavailable = append(unavailable, UnavailableItem{
				MenuItemName: item.MenuItemName,
				Quantity:     item.Quantity,
				Reason:       "Menu item not found in menu",
			})
			continue
		}
		missing := map[string]struct{}{}
		if len(a.MissingIngredients) > 0 {
			for _, name := range a.MissingIngredients {
				missing[name] = struct{}{}
			}
		} else {
			for _, ing := range a.RequiredIngredients {
				if ing.AvailableQuantity < ing.RequiredQuantity*float64(item.Quantity) {
					missing[ing.Name] = struct{}{}
				}
			}
		}
		if len(missing) == 0 {
			continue
		}
		names := make([]string, 0, len(missing))
		for name := range missing {
			names = append(names, name)
		}
		sort.Strings(names)
		unavailable = append(unavailable, UnavailableItem{
			MenuItemName: item.MenuItemName,
			Quantity:     item.Quantity,
			Reason:       fmt.Sprintf("Insufficient ingredients for %d portions: %s", item.Quantity, strings.Join(names, ", ")),
		})
	}
	return unavailable
}
