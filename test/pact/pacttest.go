//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/google/uuid"
)

const (
	ProviderName = "menu-inventory-service"
	ConsumerName = "order-management-service"

	StateMenuItemExists  = "menu item margherita exists"
	StateMenuItemMissing = "no menu item with the missing id"
	StateRecipeStocked   = "margherita recipe with mozzarella in stock"
)

var (
	MenuItemID      = uuid.MustParse("5b0f7c3e-6f2a-4d1e-9a51-2f0c3d9f1a01")
	MissingItemID   = uuid.MustParse("5b0f7c3e-6f2a-4d1e-9a51-2f0c3d9f1aff")
	InventoryItemID = uuid.MustParse("8e4d2a10-3c7b-4f6e-b1d2-7a9c0e5f3b02")
)

const (
	MenuItemName      = "Margherita"
	MenuItemPrice     = "12.5"
	IngredientName    = "Mozzarella"
	IngredientUnit    = "kg"
	IngredientPerDish = 0.2
	StartingStock     = 10.0
	ExampleTimestamp  = "2024-03-01T12:00:00Z"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the order service consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
