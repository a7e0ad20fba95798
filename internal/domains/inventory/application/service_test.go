package application

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	invmemory "github.com/Apurer/restaurant-ops/internal/domains/inventory/adapters/memory"
	invtypes "github.com/Apurer/restaurant-ops/internal/domains/inventory/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
)

type recordingCleaner struct {
	removed []uuid.UUID
}

func (c *recordingCleaner) DeleteIngredientsForInventoryItem(_ context.Context, id uuid.UUID) error {
	c.removed = append(c.removed, id)
	return nil
}

func createFlour(t *testing.T, svc *Service, stock float64) *domain.Item {
	t.Helper()
	item, err := svc.CreateItem(context.Background(), invtypes.CreateItemInput{
		Name:         "Flour",
		Unit:         "kg",
		CurrentStock: stock,
		MinimumStock: 5,
		MaximumStock: 50,
		CostPerUnit:  decimal.RequireFromString("1.20"),
	})
	require.NoError(t, err)
	return item
}

func TestCreateItem_Success(t *testing.T) {
	svc := NewService(invmemory.NewRepository())

	item := createFlour(t, svc, 20)

	require.NotEqual(t, uuid.Nil, item.ID)
	require.Equal(t, "Flour", item.Name)
	require.False(t, item.CreatedAt.IsZero())
	require.False(t, item.IsLowStock())
}

func TestCreateItem_InvalidInput(t *testing.T) {
	svc := NewService(invmemory.NewRepository())

	_, err := svc.CreateItem(context.Background(), invtypes.CreateItemInput{Unit: "kg", MaximumStock: 10})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestUpdateItem_PartialFields(t *testing.T) {
	svc := NewService(invmemory.NewRepository())
	item := createFlour(t, svc, 20)

	supplier := "Mill & Co"
	updated, err := svc.UpdateItem(context.Background(), item.ID, invtypes.UpdateItemInput{Supplier: &supplier})
	require.NoError(t, err)
	require.Equal(t, supplier, updated.Supplier)
	require.Equal(t, item.CurrentStock, updated.CurrentStock)
	require.Equal(t, item.CreatedAt, updated.CreatedAt)
}

func TestUpdateItem_NotFound(t *testing.T) {
	svc := NewService(invmemory.NewRepository())

	_, err := svc.UpdateItem(context.Background(), uuid.New(), invtypes.UpdateItemInput{})
	require.ErrorIs(t, err, ports.ErrNotFound)
}

func TestAdjustStock(t *testing.T) {
	svc := NewService(invmemory.NewRepository())
	item := createFlour(t, svc, 10)

	adj, err := svc.AdjustStock(context.Background(), item.ID, -4)
	require.NoError(t, err)
	require.Equal(t, 10.0, adj.PreviousStock)
	require.Equal(t, 6.0, adj.NewStock)
	require.Equal(t, 6.0, adj.Item.CurrentStock)

	_, err = svc.AdjustStock(context.Background(), item.ID, -7)
	require.ErrorIs(t, err, domain.ErrStockBelowZero)

	_, err = svc.AdjustStock(context.Background(), item.ID, 0)
	require.ErrorIs(t, err, domain.ErrAdjustmentRequired)

	stored, err := svc.GetItem(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, 6.0, stored.CurrentStock)
}

func TestDeleteItem_RemovesIngredientLinks(t *testing.T) {
	cleaner := &recordingCleaner{}
	svc := NewService(invmemory.NewRepository(), WithIngredientCleaner(cleaner))
	item := createFlour(t, svc, 10)

	require.NoError(t, svc.DeleteItem(context.Background(), item.ID))
	require.Equal(t, []uuid.UUID{item.ID}, cleaner.removed)

	_, err := svc.GetItem(context.Background(), item.ID)
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, svc.DeleteItem(context.Background(), item.ID), ports.ErrNotFound)
}

func TestListItems_LowStockFilter(t *testing.T) {
	svc := NewService(invmemory.NewRepository())
	createFlour(t, svc, 20)
	low := createFlour(t, svc, 2)

	yes := true
	items, err := svc.ListItems(context.Background(), ports.Filter{LowStock: &yes})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, low.ID, items[0].ID)
}

func TestAlerts(t *testing.T) {
	now := time.Date(2024, 3, 10, 15, 0, 0, 0, time.UTC)
	svc := NewService(invmemory.NewRepository(), WithClock(func() time.Time { return now }))
	ctx := context.Background()

	createFlour(t, svc, 20)
	createFlour(t, svc, 3)
	createFlour(t, svc, 0)

	soon := now.AddDate(0, 0, 2)
	later := now.AddDate(0, 0, 30)
	_, err := svc.CreateItem(ctx, invtypes.CreateItemInput{Name: "Milk", Unit: "l", CurrentStock: 10, MaximumStock: 20, ExpiryDate: &soon, IsPerishable: true})
	require.NoError(t, err)
	_, err = svc.CreateItem(ctx, invtypes.CreateItemInput{Name: "Cheese", Unit: "kg", CurrentStock: 10, MaximumStock: 20, ExpiryDate: &later, IsPerishable: true})
	require.NoError(t, err)

	alerts, err := svc.Alerts(ctx)
	require.NoError(t, err)
	require.Len(t, alerts.LowStock, 1)
	require.Len(t, alerts.OutOfStock, 1)
	require.Len(t, alerts.ExpiringSoon, 1)
	require.Equal(t, "Milk", alerts.ExpiringSoon[0].Item.Name)
	require.Equal(t, 2, alerts.ExpiringSoon[0].DaysUntilExpiry)
	require.Equal(t, 3, alerts.Summary().TotalAlerts)
}
