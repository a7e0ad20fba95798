package mapper

import (
	"time"

	"github.com/oapi-codegen/runtime/types"
	"github.com/shopspring/decimal"

	invtypes "github.com/Apurer/restaurant-ops/internal/domains/inventory/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	"github.com/Apurer/restaurant-ops/internal/shared/money"
)

// CreateItemRequest is the inbound payload for stocking a new item.
type CreateItemRequest struct {
	Name         string           `json:"name" binding:"required,max=100"`
	Description  string           `json:"description"`
	CurrentStock *float64         `json:"current_stock" binding:"required,gte=0"`
	MinimumStock *float64         `json:"minimum_stock" binding:"required,gte=0"`
	MaximumStock *float64         `json:"maximum_stock" binding:"required,gt=0"`
	Unit         string           `json:"unit" binding:"required,max=20"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit" binding:"required"`
	Supplier     string           `json:"supplier" binding:"max=100"`
	ExpiryDate   *types.Date      `json:"expiry_date"`
	IsPerishable bool             `json:"is_perishable"`
}

// UpdateItemRequest preserves field presence for partial updates.
type UpdateItemRequest struct {
	Name         *string          `json:"name" binding:"omitempty,max=100"`
	Description  *string          `json:"description"`
	CurrentStock *float64         `json:"current_stock" binding:"omitempty,gte=0"`
	MinimumStock *float64         `json:"minimum_stock" binding:"omitempty,gte=0"`
	MaximumStock *float64         `json:"maximum_stock" binding:"omitempty,gt=0"`
	Unit         *string          `json:"unit" binding:"omitempty,max=20"`
	CostPerUnit  *decimal.Decimal `json:"cost_per_unit"`
	Supplier     *string          `json:"supplier" binding:"omitempty,max=100"`
	ExpiryDate   *types.Date      `json:"expiry_date"`
	IsPerishable *bool            `json:"is_perishable"`
}

// AdjustStockRequest carries a signed stock delta.
type AdjustStockRequest struct {
	Adjustment *float64 `json:"adjustment"`
}

// Item is the HTTP representation of an inventory item.
type Item struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Description  string          `json:"description"`
	CurrentStock float64         `json:"current_stock"`
	MinimumStock float64         `json:"minimum_stock"`
	MaximumStock float64         `json:"maximum_stock"`
	Unit         string          `json:"unit"`
	CostPerUnit  decimal.Decimal `json:"cost_per_unit"`
	Supplier     string          `json:"supplier"`
	ExpiryDate   *types.Date     `json:"expiry_date"`
	IsPerishable bool            `json:"is_perishable"`
	IsLowStock   bool            `json:"is_low_stock"`
	IsOutOfStock bool            `json:"is_out_of_stock"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// ExpiringItem adds the countdown to an expiring perishable.
type ExpiringItem struct {
	Item
	DaysUntilExpiry int `json:"days_until_expiry"`
}

// Alerts groups items needing attention.
type Alerts struct {
	LowStock     []Item         `json:"low_stock"`
	OutOfStock   []Item         `json:"out_of_stock"`
	ExpiringSoon []ExpiringItem `json:"expiring_soon"`
}

// AlertSummary counts each alert bucket.
type AlertSummary struct {
	LowStockCount     int `json:"low_stock_count"`
	OutOfStockCount   int `json:"out_of_stock_count"`
	ExpiringSoonCount int `json:"expiring_soon_count"`
	TotalAlerts       int `json:"total_alerts"`
}

// StockAdjustment reports the item after an adjustment alongside the change.
type StockAdjustment struct {
	Item
	Adjustment    float64 `json:"adjustment"`
	PreviousStock float64 `json:"previous_stock"`
	NewStock      float64 `json:"new_stock"`
}

// ToCreateInput maps the request into the application input.
func ToCreateInput(req CreateItemRequest) invtypes.CreateItemInput {
	input := invtypes.CreateItemInput{
		Name:         req.Name,
		Description:  req.Description,
		Unit:         req.Unit,
		Supplier:     req.Supplier,
		ExpiryDate:   fromDate(req.ExpiryDate),
		IsPerishable: req.IsPerishable,
	}
	if req.CurrentStock != nil {
		input.CurrentStock = *req.CurrentStock
	}
	if req.MinimumStock != nil {
		input.MinimumStock = *req.MinimumStock
	}
	if req.MaximumStock != nil {
		input.MaximumStock = *req.MaximumStock
	}
	if req.CostPerUnit != nil {
		input.CostPerUnit = *req.CostPerUnit
	}
	return input
}

// ToUpdateInput maps the partial request into the application input.
func ToUpdateInput(req UpdateItemRequest) invtypes.UpdateItemInput {
	return invtypes.UpdateItemInput{
		Name:         req.Name,
		Description:  req.Description,
		CurrentStock: req.CurrentStock,
		MinimumStock: req.MinimumStock,
		MaximumStock: req.MaximumStock,
		Unit:         req.Unit,
		CostPerUnit:  req.CostPerUnit,
		Supplier:     req.Supplier,
		ExpiryDate:   fromDate(req.ExpiryDate),
		IsPerishable: req.IsPerishable,
	}
}

// FromDomainItem maps the domain item into its transport form.
func FromDomainItem(item *domain.Item) Item {
	return Item{
		ID:           item.ID.String(),
		Name:         item.Name,
		Description:  item.Description,
		CurrentStock: item.CurrentStock,
		MinimumStock: item.MinimumStock,
		MaximumStock: item.MaximumStock,
		Unit:         item.Unit,
		CostPerUnit:  money.Round(item.CostPerUnit),
		Supplier:     item.Supplier,
		ExpiryDate:   toDate(item.ExpiryDate),
		IsPerishable: item.IsPerishable,
		IsLowStock:   item.IsLowStock(),
		IsOutOfStock: item.IsOutOfStock(),
		CreatedAt:    item.CreatedAt,
		UpdatedAt:    item.UpdatedAt,
	}
}

// FromDomainItems maps a list, never returning nil.
func FromDomainItems(items []*domain.Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		out = append(out, FromDomainItem(item))
	}
	return out
}

// FromDomainAlerts maps the alert buckets and their summary.
func FromDomainAlerts(alerts domain.Alerts) (Alerts, AlertSummary) {
	expiring := make([]ExpiringItem, 0, len(alerts.ExpiringSoon))
	for _, e := range alerts.ExpiringSoon {
		expiring = append(expiring, ExpiringItem{Item: FromDomainItem(e.Item), DaysUntilExpiry: e.DaysUntilExpiry})
	}
	summary := alerts.Summary()
	return Alerts{
			LowStock:     FromDomainItems(alerts.LowStock),
			OutOfStock:   FromDomainItems(alerts.OutOfStock),
			ExpiringSoon: expiring,
		}, AlertSummary{
			LowStockCount:     summary.LowStockCount,
			OutOfStockCount:   summary.OutOfStockCount,
			ExpiringSoonCount: summary.ExpiringSoonCount,
			TotalAlerts:       summary.TotalAlerts,
		}
}

// FromDomainAdjustment maps a stock adjustment result.
func FromDomainAdjustment(adj domain.StockAdjustment) StockAdjustment {
	return StockAdjustment{
		Item:          FromDomainItem(adj.Item),
		Adjustment:    adj.Adjustment,
		PreviousStock: adj.PreviousStock,
		NewStock:      adj.NewStock,
	}
}

func fromDate(d *types.Date) *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

func toDate(t *time.Time) *types.Date {
	if t == nil {
		return nil
	}
	return &types.Date{Time: t.UTC()}
}
