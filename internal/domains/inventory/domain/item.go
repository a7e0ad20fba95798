package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	maxNameLength     = 100
	maxUnitLength     = 20
	maxSupplierLength = 100
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrNameTooLong        = errors.New("name must be at most 100 characters")
	ErrUnitRequired       = errors.New("unit is required")
	ErrUnitTooLong        = errors.New("unit must be at most 20 characters")
	ErrSupplierTooLong    = errors.New("supplier must be at most 100 characters")
	ErrNegativeStock      = errors.New("stock levels cannot be negative")
	ErrInvalidMaximum     = errors.New("maximum stock must be greater than zero")
	ErrNegativeCost       = errors.New("cost per unit cannot be negative")
	ErrAdjustmentRequired = errors.New("adjustment value is required")
	ErrStockBelowZero     = errors.New("cannot reduce stock below zero")
)

// Item is a stocked ingredient or supply.
type Item struct {
	ID           uuid.UUID
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
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// NewItem validates and constructs a new inventory item with a fresh identifier.
func NewItem(name, unit string, current, minimum, maximum float64, cost decimal.Decimal) (*Item, error) {
	item := &Item{
		ID:           uuid.New(),
		Name:         strings.TrimSpace(name),
		Unit:         strings.TrimSpace(unit),
		CurrentStock: current,
		MinimumStock: minimum,
		MaximumStock: maximum,
		CostPerUnit:  cost,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces invariants on the item.
func (i *Item) Validate() error {
	switch {
	case i.Name == "":
		return ErrNameRequired
	case utf8.RuneCountInString(i.Name) > maxNameLength:
		return ErrNameTooLong
	case i.Unit == "":
		return ErrUnitRequired
	case utf8.RuneCountInString(i.Unit) > maxUnitLength:
		return ErrUnitTooLong
	case utf8.RuneCountInString(i.Supplier) > maxSupplierLength:
		return ErrSupplierTooLong
	case i.CurrentStock < 0 || i.MinimumStock < 0:
		return ErrNegativeStock
	case i.MaximumStock <= 0:
		return ErrInvalidMaximum
	case i.CostPerUnit.IsNegative():
		return ErrNegativeCost
	}
	return nil
}

// IsLowStock reports whether stock is at or below the reorder threshold.
func (i *Item) IsLowStock() bool {
	return i.CurrentStock <= i.MinimumStock
}

// IsOutOfStock reports whether nothing is left.
func (i *Item) IsOutOfStock() bool {
	return i.CurrentStock <= 0
}

// StockAdjustment records the outcome of a stock change.
type StockAdjustment struct {
	Item          *Item
	Adjustment    float64
	PreviousStock float64
	NewStock      float64
}

// Adjust applies a signed stock delta. Stock never drops below zero.
func (i *Item) Adjust(delta float64) (StockAdjustment, error) {
	if delta == 0 {
		return StockAdjustment{}, ErrAdjustmentRequired
	}
	next := i.CurrentStock + delta
	if next < 0 {
		return StockAdjustment{}, ErrStockBelowZero
	}
	previous := i.CurrentStock
	i.CurrentStock = next
	return StockAdjustment{Item: i, Adjustment: delta, PreviousStock: previous, NewStock: next}, nil
}

// DaysUntilExpiry returns whole days between now and the expiry date, comparing calendar dates.
func (i *Item) DaysUntilExpiry(now time.Time) (int, bool) {
	if i.ExpiryDate == nil {
		return 0, false
	}
	today := truncateDay(now)
	expiry := truncateDay(*i.ExpiryDate)
	return int(expiry.Sub(today).Hours() / 24), true
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
