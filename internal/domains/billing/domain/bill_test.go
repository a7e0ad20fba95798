package domain

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var billedAt = time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newTestBill(t *testing.T, tip, discount string) *Bill {
	t.Helper()
	bill, err := NewBill(uuid.New(), "ORD-20240301-0001", Charges{
		Subtotal: dec("28.00"),
		Tax:      dec("2.80"),
		Tip:      dec(tip),
		Discount: dec(discount),
	}, billedAt)
	require.NoError(t, err)
	return bill
}

func TestNewBill_Totals(t *testing.T) {
	bill := newTestBill(t, "5.00", "1.80")

	assert.True(t, bill.TotalAmount.Equal(dec("34.00")), bill.TotalAmount.String())
	assert.Equal(t, BillPending, bill.Status)
	assert.Regexp(t, `^BILL-20240301-\d{4}$`, bill.BillNumber)
	assert.True(t, bill.RemainingAmount().Equal(bill.TotalAmount))
}

func TestNewBill_Rejections(t *testing.T) {
	_, err := NewBill(uuid.New(), "ORD-1", Charges{Subtotal: dec("10"), Tax: dec("1"), Discount: dec("11.01")}, billedAt)
	assert.ErrorIs(t, err, ErrDiscountExceedsTotal)

	_, err = NewBill(uuid.New(), "ORD-1", Charges{Subtotal: dec("10"), Tax: dec("1"), Tip: dec("-1")}, billedAt)
	assert.ErrorIs(t, err, ErrNegativeTip)

	bill, err := NewBill(uuid.New(), "ORD-1", Charges{Subtotal: dec("10"), Tax: dec("1"), Discount: dec("11")}, billedAt)
	require.NoError(t, err)
	assert.True(t, bill.TotalAmount.IsZero())
}

func TestPay_PartialThenFull(t *testing.T) {
	bill := newTestBill(t, "0", "0")

	first, err := bill.Pay(dec("10.80"), MethodCash, "", "", billedAt)
	require.NoError(t, err)
	assert.Equal(t, PaymentCompleted, first.Status)
	assert.NotNil(t, first.ProcessedAt)
	assert.Equal(t, BillPartiallyPaid, bill.Status)
	assert.Nil(t, bill.PaidAt)
	assert.True(t, bill.RemainingAmount().Equal(dec("20.00")))

	_, err = bill.Pay(dec("20.01"), MethodCard, "", "", billedAt)
	var over *OverpaymentError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, "payment amount (20.01) exceeds remaining balance (20.00)", err.Error())

	_, err = bill.Pay(dec("20.00"), MethodCard, "ref-1", "", billedAt)
	require.NoError(t, err)
	assert.Equal(t, BillPaid, bill.Status)
	require.NotNil(t, bill.PaidAt)
	assert.True(t, bill.RemainingAmount().IsZero())

	_, err = bill.Pay(dec("1"), MethodCash, "", "", billedAt)
	assert.ErrorIs(t, err, ErrBillClosed)
	assert.EqualError(t, err, "cannot process payment for bill with status: paid")
}

func TestPay_InvalidInput(t *testing.T) {
	bill := newTestBill(t, "0", "0")

	_, err := bill.Pay(decimal.Zero, MethodCash, "", "", billedAt)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = bill.Pay(dec("1"), PaymentMethod("cheque"), "", "", billedAt)
	assert.ErrorIs(t, err, ErrInvalidPaymentMethod)
	assert.Empty(t, bill.Payments)
}

func TestSummarize(t *testing.T) {
	paid := newTestBill(t, "2.00", "0")
	_, err := paid.Pay(paid.TotalAmount, MethodCard, "", "", billedAt)
	require.NoError(t, err)

	partial := newTestBill(t, "0", "0")
	_, err = partial.Pay(dec("10"), MethodCash, "", "", billedAt)
	require.NoError(t, err)

	pending := newTestBill(t, "1.00", "0")

	s := Summarize(billedAt, []*Bill{paid, partial, pending})
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), s.Date)
	assert.Equal(t, 3, s.TotalBills)
	assert.Equal(t, 1, s.PaidBills)
	assert.Equal(t, 1, s.PartiallyPaidBills)
	assert.Equal(t, 1, s.PendingBills)
	assert.True(t, s.TotalRevenue.Equal(dec("63.60")), s.TotalRevenue.String())
	assert.True(t, s.TotalTax.Equal(dec("5.60")))
	assert.True(t, s.TotalTips.Equal(dec("2.00")))
	assert.True(t, s.PaymentMethods[MethodCard].Equal(dec("32.80")))
	assert.True(t, s.PaymentMethods[MethodCash].Equal(dec("10")))
}
