// Package migrations applies the relational schema owned by each service.
package migrations

import (
	"fmt"

	"gorm.io/gorm"

	billpostgres "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/persistence/postgres"
	invpostgres "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/persistence/postgres"
	menupostgres "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/persistence/postgres"
	orderpostgres "github.com/Apurer/restaurant-ops/internal/domains/orders/adapters/persistence/postgres"
)

// Schema is the set of tables one service owns.
type Schema struct {
	Name   string
	Models func() []any
}

// Inventory items are migrated before menu recipes that reference them.
var (
	MenuInventory = Schema{Name: "menu-inventory", Models: func() []any {
		return append(invpostgres.Models(), menupostgres.Models()...)
	}}
	Orders  = Schema{Name: "orders", Models: orderpostgres.Models}
	Billing = Schema{Name: "billing", Models: billpostgres.Models}
)

// Apply migrates the given schemas in order.
func Apply(db *gorm.DB, schemas ...Schema) error {
	if db == nil {
		return nil
	}
	for _, s := range schemas {
		if err := db.AutoMigrate(s.Models()...); err != nil {
			return fmt.Errorf("migrate %s: %w", s.Name, err)
		}
	}
	return nil
}

// Run applies every schema, which is what a shared development database needs.
func Run(db *gorm.DB) error {
	return Apply(db, MenuInventory, Orders, Billing)
}
