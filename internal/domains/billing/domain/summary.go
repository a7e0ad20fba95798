package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailySummary reports billing activity for one UTC day.
type DailySummary struct {
	Date               time.Time
	TotalBills         int
	PaidBills          int
	PendingBills       int
	PartiallyPaidBills int
	TotalRevenue       decimal.Decimal
	TotalTax           decimal.Decimal
	TotalTips          decimal.Decimal
	PaymentMethods     map[PaymentMethod]decimal.Decimal
	Bills              []*Bill
}

// DayBounds returns [start, end) of the UTC day containing t.
func DayBounds(t time.Time) (time.Time, time.Time) {
	y, m, d := t.UTC().Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 0, 1)
}

// Summarize aggregates bills created on day. Revenue, tax, and tips count paid and partially
// paid bills; payment methods sum completed payments.
func Summarize(day time.Time, bills []*Bill) DailySummary {
	start, _ := DayBounds(day)
	s := DailySummary{
		Date:           start,
		TotalBills:     len(bills),
		TotalRevenue:   decimal.Zero,
		TotalTax:       decimal.Zero,
		TotalTips:      decimal.Zero,
		PaymentMethods: map[PaymentMethod]decimal.Decimal{},
		Bills:          bills,
	}
	for _, b := range bills {
		switch b.Status {
		case BillPaid:
			s.PaidBills++
		case BillPending:
			s.PendingBills++
		case BillPartiallyPaid:
			s.PartiallyPaidBills++
		}
		if b.Status == BillPaid || b.Status == BillPartiallyPaid {
			s.TotalRevenue = s.TotalRevenue.Add(b.TotalAmount)
			s.TotalTax = s.TotalTax.Add(b.TaxAmount)
			s.TotalTips = s.TotalTips.Add(b.TipAmount)
		}
		for _, p := range b.Payments {
			if p.Status != PaymentCompleted {
				continue
			}
			s.PaymentMethods[p.Method] = s.PaymentMethods[p.Method].Add(p.Amount)
		}
	}
	return s
}
