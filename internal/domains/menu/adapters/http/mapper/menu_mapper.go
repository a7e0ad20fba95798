package mapper

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	invmapper "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/http/mapper"
	menutypes "github.com/Apurer/restaurant-ops/internal/domains/menu/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
	menuports "github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
	"github.com/Apurer/restaurant-ops/internal/shared/money"
)

// CreateMenuItemRequest is the inbound payload for a new menu item.
type CreateMenuItemRequest struct {
	Name            string           `json:"name" binding:"required,max=100"`
	Description     string           `json:"description"`
	Price           *decimal.Decimal `json:"price" binding:"required"`
	Category        string           `json:"category" binding:"required,oneof=appetizer main dessert beverage side"`
	IsAvailable     *bool            `json:"is_available"`
	PreparationTime *int             `json:"preparation_time" binding:"omitempty,min=1"`
	Allergens       []string         `json:"allergens"`
	NutritionalInfo map[string]any   `json:"nutritional_info"`
}

// UpdateMenuItemRequest preserves field presence for partial updates.
type UpdateMenuItemRequest struct {
	Name            *string          `json:"name" binding:"omitempty,max=100"`
	Description     *string          `json:"description"`
	Price           *decimal.Decimal `json:"price"`
	Category        *string          `json:"category" binding:"omitempty,oneof=appetizer main dessert beverage side"`
	IsAvailable     *bool            `json:"is_available"`
	PreparationTime *int             `json:"preparation_time" binding:"omitempty,min=1"`
	Allergens       *[]string        `json:"allergens"`
	NutritionalInfo map[string]any   `json:"nutritional_info"`
}

// AddIngredientRequest links an inventory item to a menu item.
type AddIngredientRequest struct {
	InventoryItemID string  `json:"inventory_item_id" binding:"required,uuid"`
	Quantity        float64 `json:"quantity" binding:"required,gt=0"`
	Unit            string  `json:"unit" binding:"required,max=20"`
}

// UpdateIngredientRequest changes an existing link.
type UpdateIngredientRequest struct {
	Quantity *float64 `json:"quantity" binding:"omitempty,gt=0"`
	Unit     *string  `json:"unit" binding:"omitempty,max=20"`
}

// CheckAvailabilityRequest lists menu items to evaluate; empty means all.
type CheckAvailabilityRequest struct {
	MenuItemIDs []string `json:"menu_item_ids"`
}

// MenuItem is the HTTP representation of a menu item.
type MenuItem struct {
	ID              string          `json:"id"`
	Name            string          `json:"name"`
	Description     string          `json:"description"`
	Price           decimal.Decimal `json:"price"`
	Category        string          `json:"category"`
	IsAvailable     bool            `json:"is_available"`
	PreparationTime int             `json:"preparation_time"`
	Allergens       []string        `json:"allergens"`
	NutritionalInfo map[string]any  `json:"nutritional_info"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Ingredient is a recipe line with the stocked item it consumes.
type Ingredient struct {
	InventoryItem *invmapper.Item `json:"inventory_item"`
	Quantity      float64         `json:"quantity"`
	Unit          string          `json:"unit"`
}

// MenuIngredients is the recipe of one menu item.
type MenuIngredients struct {
	MenuItemID   string       `json:"menu_item_id"`
	MenuItemName string       `json:"menu_item_name"`
	Ingredients  []Ingredient `json:"ingredients"`
}

// IngredientLink is returned after creating or updating a recipe line.
type IngredientLink struct {
	MenuItemID      string          `json:"menu_item_id"`
	InventoryItemID string          `json:"inventory_item_id"`
	Quantity        float64         `json:"quantity"`
	Unit            string          `json:"unit"`
	InventoryItem   *invmapper.Item `json:"inventory_item,omitempty"`
}

type RequiredIngredient struct {
	Name              string  `json:"name"`
	RequiredQuantity  float64 `json:"required_quantity"`
	AvailableQuantity float64 `json:"available_quantity"`
	Unit              string  `json:"unit"`
}

type MissingIngredient struct {
	Name      string  `json:"name"`
	Required  float64 `json:"required"`
	Available float64 `json:"available"`
	Missing   float64 `json:"missing"`
	Unit      string  `json:"unit"`
}

// Availability reports whether one portion of a menu item can be prepared.
type Availability struct {
	MenuItem            MenuItem             `json:"menu_item"`
	CanPrepare          bool                 `json:"can_prepare"`
	RequiredIngredients []RequiredIngredient `json:"required_ingredients"`
	MissingIngredients  []MissingIngredient  `json:"missing_ingredients"`
}

type AvailabilitySummary struct {
	TotalItemsChecked int `json:"total_items_checked"`
	AvailableItems    int `json:"available_items"`
	UnavailableItems  int `json:"unavailable_items"`
}

func ToCreateInput(req CreateMenuItemRequest) menutypes.CreateMenuItemInput {
	input := menutypes.CreateMenuItemInput{
		Name:            req.Name,
		Description:     req.Description,
		Category:        req.Category,
		IsAvailable:     req.IsAvailable,
		PreparationTime: req.PreparationTime,
		Allergens:       req.Allergens,
		NutritionalInfo: req.NutritionalInfo,
	}
	if req.Price != nil {
		input.Price = *req.Price
	}
	return input
}

func ToUpdateInput(req UpdateMenuItemRequest) menutypes.UpdateMenuItemInput {
	return menutypes.UpdateMenuItemInput{
		Name:            req.Name,
		Description:     req.Description,
		Price:           req.Price,
		Category:        req.Category,
		IsAvailable:     req.IsAvailable,
		PreparationTime: req.PreparationTime,
		Allergens:       req.Allergens,
		NutritionalInfo: req.NutritionalInfo,
	}
}

// ParseIDs parses every id, reporting the first malformed one.
func ParseIDs(raw []string) ([]uuid.UUID, string, bool) {
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, s, false
		}
		ids = append(ids, id)
	}
	return ids, "", true
}

func FromDomainMenuItem(item *domain.MenuItem) MenuItem {
	allergens := item.Allergens
	if allergens == nil {
		allergens = []string{}
	}
	return MenuItem{
		ID:              item.ID.String(),
		Name:            item.Name,
		Description:     item.Description,
		Price:           money.Round(item.Price),
		Category:        string(item.Category),
		IsAvailable:     item.IsAvailable,
		PreparationTime: item.PreparationTime,
		Allergens:       allergens,
		NutritionalInfo: item.NutritionalInfo,
		CreatedAt:       item.CreatedAt,
		UpdatedAt:       item.UpdatedAt,
	}
}

func FromDomainMenuItems(items []*domain.MenuItem) []MenuItem {
	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomainMenuItem(item))
	}
	return out
}

func FromMenuIngredients(m menuports.MenuIngredients) MenuIngredients {
	lines := make([]Ingredient, 0, len(m.Ingredients))
	for _, d := range m.Ingredients {
		lines = append(lines, Ingredient{InventoryItem: stockItem(d), Quantity: d.Quantity, Unit: d.Unit})
	}
	return MenuIngredients{
		MenuItemID:   m.MenuItem.ID.String(),
		MenuItemName: m.MenuItem.Name,
		Ingredients:  lines,
	}
}

func FromIngredientDetail(d domain.IngredientDetail) IngredientLink {
	return IngredientLink{
		MenuItemID:      d.MenuItemID.String(),
		InventoryItemID: d.InventoryItemID.String(),
		Quantity:        d.Quantity,
		Unit:            d.Unit,
		InventoryItem:   stockItem(d),
	}
}

func FromDomainAvailability(results []domain.Availability) ([]Availability, AvailabilitySummary) {
	out := make([]Availability, 0, len(results))
	for _, r := range results {
		required := make([]RequiredIngredient, 0, len(r.RequiredIngredients))
		for _, ri := range r.RequiredIngredients {
			required = append(required, RequiredIngredient(ri))
		}
		missing := make([]MissingIngredient, 0, len(r.MissingIngredients))
		for _, mi := range r.MissingIngredients {
			missing = append(missing, MissingIngredient(mi))
		}
		out = append(out, Availability{
			MenuItem:            FromDomainMenuItem(r.MenuItem),
			CanPrepare:          r.CanPrepare,
			RequiredIngredients: required,
			MissingIngredients:  missing,
		})
	}
	return out, AvailabilitySummary(domain.Summarize(results))
}

func stockItem(d domain.IngredientDetail) *invmapper.Item {
	if d.InventoryItem == nil {
		return nil
	}
	item := invmapper.FromDomainItem(d.InventoryItem)
	return &item
}
