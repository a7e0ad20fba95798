package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemInput carries the fields accepted when stocking a new item.
type CreateItemInput struct {
	Name         string
	Description  string
	CurrentStock float64
	MinimumStock float64
	MaximumStock float64
	Unit         string
	CostPerUnit  decimal.Decimal
	Supplier     string
	ExpiryDate   *time.Time
	IsPerishable bool
}

// UpdateItemInput is a partial update; nil fields are left untouched.
type UpdateItemInput struct {
	Name         *string
	Description  *string
	CurrentStock *float64
	MinimumStock *float64
	MaximumStock *float64
	Unit         *string
	CostPerUnit  *decimal.Decimal
	Supplier     *string
	ExpiryDate   *time.Time
	IsPerishable *bool
}
