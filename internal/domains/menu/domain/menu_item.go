package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Category groups menu items on the card.
type Category string

const (
	CategoryAppetizer Category = "appetizer"
	CategoryMain      Category = "main"
	CategoryDessert   Category = "dessert"
	CategoryBeverage  Category = "beverage"
	CategorySide      Category = "side"
)

// DefaultPreparationTime applies when a new item does not state one.
const DefaultPreparationTime = 15

const maxNameLength = 100

var (
	ErrNameRequired           = errors.New("name is required")
	ErrNameTooLong            = errors.New("name must be at most 100 characters")
	ErrNegativePrice          = errors.New("price cannot be negative")
	ErrInvalidCategory        = errors.New("category must be one of appetizer, main, dessert, beverage, side")
	ErrInvalidPreparationTime = errors.New("preparation time must be at least one minute")
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryAppetizer, CategoryMain, CategoryDessert, CategoryBeverage, CategorySide:
		return true
	}
	return false
}

// MenuItem is a dish or drink offered to guests.
type MenuItem struct {
	ID              uuid.UUID
	Name            string
	Description     string
	Price           decimal.Decimal
	Category        Category
	IsAvailable     bool
	PreparationTime int
	Allergens       []string
	NutritionalInfo map[string]any
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewMenuItem constructs an available item with the default preparation time.
func NewMenuItem(name string, price decimal.Decimal, category Category) (*MenuItem, error) {
	item := &MenuItem{
		ID:              uuid.New(),
		Name:            strings.TrimSpace(name),
		Price:           price,
		Category:        category,
		IsAvailable:     true,
		PreparationTime: DefaultPreparationTime,
		Allergens:       []string{},
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces invariants on the item.
func (m *MenuItem) Validate() error {
	switch {
	case m.Name == "":
		return ErrNameRequired
	case utf8.RuneCountInString(m.Name) > maxNameLength:
		return ErrNameTooLong
	case m.Price.IsNegative():
		return ErrNegativePrice
	case !m.Category.Valid():
		return ErrInvalidCategory
	case m.PreparationTime < 1:
		return ErrInvalidPreparationTime
	}
	return nil
}

// ReplaceAllergens stores a trimmed copy of the allergen list.
func (m *MenuItem) ReplaceAllergens(allergens []string) {
	cleaned := make([]string, 0, len(allergens))
	for _, a := range allergens {
		if a = strings.TrimSpace(a); a != "" {
			cleaned = append(cleaned, a)
		}
	}
	m.Allergens = cleaned
}

// Clone returns a deep copy.
func (m *MenuItem) Clone() *MenuItem {
	clone := *m
	clone.Allergens = append([]string{}, m.Allergens...)
	if m.NutritionalInfo != nil {
		clone.NutritionalInfo = make(map[string]any, len(m.NutritionalInfo))
		for k, v := range m.NutritionalInfo {
			clone.NutritionalInfo[k] = v
		}
	}
	return &clone
}
