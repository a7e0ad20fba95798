package domain

// RequiredIngredient describes what one portion needs from stock.
type RequiredIngredient struct {
	Name              string
	RequiredQuantity  float64
	AvailableQuantity float64
	Unit              string
}

// MissingIngredient describes a shortfall for one portion.
type MissingIngredient struct {
	Name      string
	Required  float64
	Available float64
	Missing   float64
	Unit      string
}

// Availability reports whether one portion of a menu item can be prepared from current stock.
type Availability struct {
	MenuItem            *MenuItem
	CanPrepare          bool
	RequiredIngredients []RequiredIngredient
	MissingIngredients  []MissingIngredient
}

// AvailabilitySummary counts preparable and blocked items.
type AvailabilitySummary struct {
	TotalItemsChecked int
	AvailableItems    int
	UnavailableItems  int
}

// CheckAvailability compares each ingredient's per-portion quantity with current stock.
// Links whose inventory item no longer exists are skipped.
func CheckAvailability(item *MenuItem, ingredients []IngredientDetail) Availability {
	result := Availability{
		MenuItem:            item,
		CanPrepare:          true,
		RequiredIngredients: []RequiredIngredient{},
		MissingIngredients:  []MissingIngredient{},
	}
	for _, ing := range ingredients {
		stock := ing.InventoryItem
		if stock == nil {
			continue
		}
		result.RequiredIngredients = append(result.RequiredIngredients, RequiredIngredient{
			Name:              stock.Name,
			RequiredQuantity:  ing.Quantity,
			AvailableQuantity: stock.CurrentStock,
			Unit:              ing.Unit,
		})
		if stock.CurrentStock < ing.Quantity {
			result.CanPrepare = false
			result.MissingIngredients = append(result.MissingIngredients, MissingIngredient{
				Name:      stock.Name,
				Required:  ing.Quantity,
				Available: stock.CurrentStock,
				Missing:   ing.Quantity - stock.CurrentStock,
				Unit:      ing.Unit,
			})
		}
	}
	return result
}

// Summarize counts the results.
func Summarize(results []Availability) AvailabilitySummary {
	summary := AvailabilitySummary{TotalItemsChecked: len(results)}
	for _, r := range results {
		if r.CanPrepare {
			summary.AvailableItems++
		} else {
			summary.UnavailableItems++
		}
	}
	return summary
}
