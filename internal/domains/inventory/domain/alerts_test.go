package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildAlerts_ExpiryWindow(t *testing.T) {
	now := time.Date(2024, 5, 1, 23, 30, 0, 0, time.UTC)
	at := func(days int) *time.Time {
		d := now.AddDate(0, 0, days)
		return &d
	}
	items := []*Item{
		{Name: "expired", CurrentStock: 5, MaximumStock: 10, IsPerishable: true, ExpiryDate: at(-1)},
		{Name: "today", CurrentStock: 5, MaximumStock: 10, IsPerishable: true, ExpiryDate: at(0)},
		{Name: "edge", CurrentStock: 5, MaximumStock: 10, IsPerishable: true, ExpiryDate: at(7)},
		{Name: "beyond", CurrentStock: 5, MaximumStock: 10, IsPerishable: true, ExpiryDate: at(8)},
		{Name: "durable", CurrentStock: 5, MaximumStock: 10, ExpiryDate: at(1)},
	}

	alerts := BuildAlerts(items, now)

	require.Len(t, alerts.ExpiringSoon, 2)
	require.Equal(t, "today", alerts.ExpiringSoon[0].Item.Name)
	require.Equal(t, 0, alerts.ExpiringSoon[0].DaysUntilExpiry)
	require.Equal(t, "edge", alerts.ExpiringSoon[1].Item.Name)
	require.NotNil(t, alerts.LowStock)
	require.Empty(t, alerts.OutOfStock)
}

func TestAdjust(t *testing.T) {
	item := &Item{CurrentStock: 3}

	_, err := item.Adjust(-4)
	require.ErrorIs(t, err, ErrStockBelowZero)
	require.Equal(t, 3.0, item.CurrentStock)

	adj, err := item.Adjust(-3)
	require.NoError(t, err)
	require.Equal(t, 0.0, adj.NewStock)
	require.True(t, item.IsOutOfStock())
	require.True(t, item.IsLowStock())
}
