package memory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

func newBill(t *testing.T, number string) *domain.Bill {
	t.Helper()
	bill, err := domain.NewBill(uuid.New(), "ORD-20240301-0001", domain.Charges{
		Subtotal: decimal.RequireFromString("20"),
		Tax:      decimal.RequireFromString("2"),
	}, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	bill.BillNumber = number
	return bill
}

func TestRepository_SeparatesOrderAndNumberClashes(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	first := newBill(t, "BILL-20240301-0001")
	_, err := repo.Save(ctx, first)
	require.NoError(t, err)

	sameOrder := newBill(t, "BILL-20240301-0002")
	sameOrder.OrderID = first.OrderID
	_, err = repo.Save(ctx, sameOrder)
	assert.ErrorIs(t, err, ports.ErrDuplicateBill)

	sameNumber := newBill(t, "BILL-20240301-0003")
	sameNumber.BillNumber = first.BillNumber
	_, err = repo.Save(ctx, sameNumber)
	assert.ErrorIs(t, err, ports.ErrDuplicateNumber)

	_, err = repo.Save(ctx, first)
	assert.NoError(t, err, "re-saving a bill keeps its own number")
}

func TestRepository_RejectsTakenPaymentNumber(t *testing.T) {
	repo := NewRepository()
	ctx := context.Background()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	first := newBill(t, "BILL-20240301-0001")
	paid, err := first.Pay(decimal.RequireFromString("5"), domain.MethodCash, "", "", now)
	require.NoError(t, err)
	_, err = repo.Save(ctx, first)
	require.NoError(t, err)

	second := newBill(t, "BILL-20240301-0002")
	_, err = repo.Save(ctx, second)
	require.NoError(t, err)
	_, err = second.Pay(decimal.RequireFromString("5"), domain.MethodCard, "", "", now)
	require.NoError(t, err)
	require.Len(t, second.Payments, 1)
	second.Payments[0].PaymentNumber = paid.PaymentNumber
	_, err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, ports.ErrDuplicateNumber)
}
