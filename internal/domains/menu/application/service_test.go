package application

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	invmemory "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/memory"
	invdomain "github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	invports "github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
	menumemory "github.com/Apurer/restaurant-ops/internal/domains/menu/adapters/memory"
	menutypes "github.com/Apurer/restaurant-ops/internal/domains/menu/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
)

type fixture struct {
	svc       *Service
	menu      *menumemory.Repository
	inventory *invmemory.Repository
}

func newFixture() fixture {
	menu := menumemory.NewRepository()
	inventory := invmemory.NewRepository()
	return fixture{svc: NewService(menu, menu, inventory), menu: menu, inventory: inventory}
}

func (f fixture) stock(t *testing.T, name string, current float64) *invdomain.Item {
	t.Helper()
	item, err := invdomain.NewItem(name, "g", current, 0, 1000, decimal.Zero)
	require.NoError(t, err)
	saved, err := f.inventory.Save(context.Background(), item)
	require.NoError(t, err)
	return saved
}

func (f fixture) dish(t *testing.T, name, category string) *domain.MenuItem {
	t.Helper()
	item, err := f.svc.CreateMenuItem(context.Background(), menutypes.CreateMenuItemInput{
		Name:     name,
		Price:    decimal.RequireFromString("12.50"),
		Category: category,
	})
	require.NoError(t, err)
	return item
}

func TestCreateMenuItem_Defaults(t *testing.T) {
	f := newFixture()

	item := f.dish(t, "Margherita", "main")

	require.True(t, item.IsAvailable)
	require.Equal(t, domain.DefaultPreparationTime, item.PreparationTime)
	require.NotNil(t, item.Allergens)
}

func TestCreateMenuItem_InvalidCategory(t *testing.T) {
	f := newFixture()

	_, err := f.svc.CreateMenuItem(context.Background(), menutypes.CreateMenuItemInput{Name: "Soup", Category: "starter"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidCategory)
}

func TestListMenuItems_OrderedByCategoryThenName(t *testing.T) {
	f := newFixture()
	f.dish(t, "Tiramisu", "dessert")
	f.dish(t, "Risotto", "main")
	f.dish(t, "Lasagna", "main")

	items, err := f.svc.ListMenuItems(context.Background(), ports.Filter{})
	require.NoError(t, err)
	names := []string{}
	for _, item := range items {
		names = append(names, item.Name)
	}
	require.Equal(t, []string{"Tiramisu", "Lasagna", "Risotto"}, names)

	mains, err := f.svc.ListMenuItems(context.Background(), ports.Filter{Category: domain.CategoryMain})
	require.NoError(t, err)
	require.Len(t, mains, 2)
}

func TestUpdateMenuItem_Partial(t *testing.T) {
	f := newFixture()
	item := f.dish(t, "Lasagna", "main")

	unavailable := false
	updated, err := f.svc.UpdateMenuItem(context.Background(), item.ID, menutypes.UpdateMenuItemInput{IsAvailable: &unavailable})
	require.NoError(t, err)
	require.False(t, updated.IsAvailable)
	require.Equal(t, "Lasagna", updated.Name)
	require.True(t, updated.Price.Equal(item.Price))
}

func TestAddIngredient_Rules(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.dish(t, "Lasagna", "main")
	pasta := f.stock(t, "Pasta", 500)

	_, err := f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: uuid.New(), InventoryItemID: pasta.ID, Quantity: 1, Unit: "g"})
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: item.ID, InventoryItemID: uuid.New(), Quantity: 1, Unit: "g"})
	require.ErrorIs(t, err, invports.ErrNotFound)

	detail, err := f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: item.ID, InventoryItemID: pasta.ID, Quantity: 120, Unit: "g"})
	require.NoError(t, err)
	require.Equal(t, "Pasta", detail.InventoryItem.Name)

	_, err = f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: item.ID, InventoryItemID: pasta.ID, Quantity: 50, Unit: "g"})
	require.ErrorIs(t, err, ports.ErrIngredientExists)
}

func TestUpdateAndRemoveIngredient(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.dish(t, "Lasagna", "main")
	pasta := f.stock(t, "Pasta", 500)

	_, err := f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: item.ID, InventoryItemID: pasta.ID, Quantity: 120, Unit: "g"})
	require.NoError(t, err)

	qty := 150.0
	detail, err := f.svc.UpdateIngredient(ctx, menutypes.UpdateIngredientInput{MenuItemID: item.ID, InventoryItemID: pasta.ID, Quantity: &qty})
	require.NoError(t, err)
	require.Equal(t, 150.0, detail.Quantity)
	require.Equal(t, "g", detail.Unit)

	require.NoError(t, f.svc.RemoveIngredient(ctx, item.ID, pasta.ID))
	require.ErrorIs(t, f.svc.RemoveIngredient(ctx, item.ID, pasta.ID), ports.ErrIngredientNotFound)
}

func TestDeleteMenuItem_DropsRecipe(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	item := f.dish(t, "Lasagna", "main")
	pasta := f.stock(t, "Pasta", 500)
	_, err := f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: item.ID, InventoryItemID: pasta.ID, Quantity: 120, Unit: "g"})
	require.NoError(t, err)

	require.NoError(t, f.svc.DeleteMenuItem(ctx, item.ID))

	links, err := f.menu.ListIngredients(ctx, item.ID)
	require.NoError(t, err)
	require.Empty(t, links)
	_, err = f.svc.GetMenuItem(ctx, item.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestCheckAvailability(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	lasagna := f.dish(t, "Lasagna", "main")
	salad := f.dish(t, "Salad", "side")
	pasta := f.stock(t, "Pasta", 500)
	lettuce := f.stock(t, "Lettuce", 20)

	_, err := f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: lasagna.ID, InventoryItemID: pasta.ID, Quantity: 120, Unit: "g"})
	require.NoError(t, err)
	_, err = f.svc.AddIngredient(ctx, menutypes.AddIngredientInput{MenuItemID: salad.ID, InventoryItemID: lettuce.ID, Quantity: 50, Unit: "g"})
	require.NoError(t, err)

	all, err := f.svc.CheckAvailability(ctx, nil)
	require.NoError(t, err)
	require.Len(t, all, 2)
	summary := domain.Summarize(all)
	require.Equal(t, 1, summary.AvailableItems)
	require.Equal(t, 1, summary.UnavailableItems)

	only, err := f.svc.CheckAvailability(ctx, []uuid.UUID{salad.ID})
	require.NoError(t, err)
	require.Len(t, only, 1)
	require.False(t, only[0].CanPrepare)
	require.Len(t, only[0].MissingIngredients, 1)
	require.Equal(t, 30.0, only[0].MissingIngredients[0].Missing)
}
