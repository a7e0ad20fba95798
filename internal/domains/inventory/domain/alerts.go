package domain

import (
	"sort"
	"time"
)

// ExpiryWindowDays bounds the "expiring soon" alert.
const ExpiryWindowDays = 7

// ExpiringItem pairs a perishable item with the days left before it expires.
type ExpiringItem struct {
	Item            *Item
	DaysUntilExpiry int
}

// Alerts groups stock items that need attention.
type Alerts struct {
	LowStock     []*Item
	OutOfStock   []*Item
	ExpiringSoon []ExpiringItem
}

// AlertSummary counts each alert bucket.
type AlertSummary struct {
	LowStockCount     int
	OutOfStockCount   int
	ExpiringSoonCount int
	TotalAlerts       int
}

// BuildAlerts classifies items. Out-of-stock items are not repeated in the low-stock list,
// and only perishable items expiring between today and ExpiryWindowDays are reported.
func BuildAlerts(items []*Item, now time.Time) Alerts {
	alerts := Alerts{
		LowStock:     []*Item{},
		OutOfStock:   []*Item{},
		ExpiringSoon: []ExpiringItem{},
	}
	for _, item := range items {
		switch {
		case item.IsOutOfStock():
			alerts.OutOfStock = append(alerts.OutOfStock, item)
		case item.IsLowStock():
			alerts.LowStock = append(alerts.LowStock, item)
		}
		if !item.IsPerishable {
			continue
		}
		if days, ok := item.DaysUntilExpiry(now); ok && days >= 0 && days <= ExpiryWindowDays {
			alerts.ExpiringSoon = append(alerts.ExpiringSoon, ExpiringItem{Item: item, DaysUntilExpiry: days})
		}
	}
	sort.SliceStable(alerts.ExpiringSoon, func(i, j int) bool {
		return alerts.ExpiringSoon[i].DaysUntilExpiry < alerts.ExpiringSoon[j].DaysUntilExpiry
	})
	return alerts
}

// Summary counts the alert buckets.
func (a Alerts) Summary() AlertSummary {
	s := AlertSummary{
		LowStockCount:     len(a.LowStock),
		OutOfStockCount:   len(a.OutOfStock),
		ExpiringSoonCount: len(a.ExpiringSoon),
	}
	s.TotalAlerts = s.LowStockCount + s.OutOfStockCount + s.ExpiringSoonCount
	return s
}
