package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billmemory "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/memory"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

type fakeDirectory struct {
	orders map[uuid.UUID]ports.OrderSnapshot
	err    error
	calls  int
}

func (d *fakeDirectory) GetOrder(_ context.Context, id uuid.UUID) (ports.OrderSnapshot, error) {
	d.calls++
	if d.err != nil {
		return ports.OrderSnapshot{}, d.err
	}
	o, ok := d.orders[id]
	if !ok {
		return ports.OrderSnapshot{}, ports.ErrOrderNotFound
	}
	return o, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func setup(t *testing.T) (*Service, *fakeDirectory, ports.OrderSnapshot) {
	t.Helper()
	table := 3
	order := ports.OrderSnapshot{
		ID:           uuid.New(),
		OrderNumber:  "ORD-20240301-0007",
		CustomerName: "Dana",
		TableNumber:  &table,
		Status:       "served",
		Subtotal:     dec("50.00"),
		Tax:          dec("4.00"),
		Total:        dec("54.00"),
	}
	dir := &fakeDirectory{orders: map[uuid.UUID]ports.OrderSnapshot{order.ID: order}}
	fixed := time.Date(2024, 3, 1, 19, 30, 0, 0, time.UTC)
	svc := NewService(billmemory.NewRepository(), dir, WithClock(func() time.Time { return fixed }))
	return svc, dir, order
}

func TestCreateBill_FromOrderTotals(t *testing.T) {
	svc, _, order := setup(t)
	ctx := context.Background()

	bill, err := svc.CreateBill(ctx, types.CreateBillInput{OrderID: order.ID, TipAmount: dec("6"), DiscountAmount: dec("10")})
	require.NoError(t, err)
	assert.True(t, bill.TotalAmount.Equal(dec("50.00")))
	assert.Equal(t, "Dana", bill.CustomerName)
	assert.Equal(t, 3, *bill.TableNumber)
	assert.Equal(t, domain.BillPending, bill.Status)
	assert.Regexp(t, `^BILL-20240301-\d{4}$`, bill.BillNumber)

	_, err = svc.CreateBill(ctx, types.CreateBillInput{OrderID: order.ID})
	assert.ErrorIs(t, err, ErrBillExists)
}

func TestCreateBill_OrderLookupFailures(t *testing.T) {
	svc, dir, _ := setup(t)
	ctx := context.Background()

	_, err := svc.CreateBill(ctx, types.CreateBillInput{OrderID: uuid.New()})
	assert.ErrorIs(t, err, ports.ErrOrderNotFound)

	dir.err = errors.New("dial tcp: connection refused")
	_, err = svc.CreateBill(ctx, types.CreateBillInput{OrderID: uuid.New()})
	assert.ErrorIs(t, err, ErrOrderLookup)
}

func TestCreateBill_DiscountTooLarge(t *testing.T) {
	svc, _, order := setup(t)
	_, err := svc.CreateBill(context.Background(), types.CreateBillInput{OrderID: order.ID, DiscountAmount: dec("60")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.ErrorIs(t, err, domain.ErrDiscountExceedsTotal)
}

func TestProcessPayment_PartialThenSettled(t *testing.T) {
	svc, dir, order := setup(t)
	ctx := context.Background()
	bill, err := svc.CreateBill(ctx, types.CreateBillInput{OrderID: order.ID})
	require.NoError(t, err)
	lookups := dir.calls

	receipt, err := svc.ProcessPayment(ctx, types.PaymentInput{BillID: bill.ID, Amount: dec("20"), PaymentMethod: "cash"})
	require.NoError(t, err)
	assert.Equal(t, domain.BillPartiallyPaid, receipt.Bill.Status)
	assert.Equal(t, domain.PaymentCompleted, receipt.Payment.Status)
	assert.True(t, receipt.Bill.RemainingAmount().Equal(dec("34")))
	assert.Equal(t, lookups, dir.calls)

	_, err = svc.ProcessPayment(ctx, types.PaymentInput{BillID: bill.ID, Amount: dec("40"), PaymentMethod: "card"})
	require.ErrorIs(t, err, ErrInvalidInput)
	var over *domain.OverpaymentError
	require.ErrorAs(t, err, &over)
	assert.Equal(t, "payment amount (40.00) exceeds remaining balance (34.00)", over.Error())

	receipt, err = svc.ProcessPayment(ctx, types.PaymentInput{BillID: bill.ID, Amount: dec("34"), PaymentMethod: "card", ReferenceNumber: "auth-1"})
	require.NoError(t, err)
	assert.Equal(t, domain.BillPaid, receipt.Bill.Status)
	assert.NotNil(t, receipt.Bill.PaidAt)
	assert.Equal(t, lookups+1, dir.calls)

	_, err = svc.ProcessPayment(ctx, types.PaymentInput{BillID: bill.ID, Amount: dec("1"), PaymentMethod: "cash"})
	assert.ErrorIs(t, err, domain.ErrBillClosed)

	payments, err := svc.ListPayments(ctx, ports.PaymentFilter{BillID: &bill.ID})
	require.NoError(t, err)
	assert.Len(t, payments, 2)

	got, err := svc.GetPayment(ctx, receipt.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, "auth-1", got.ReferenceNumber)
}

func TestProcessPayment_Rejections(t *testing.T) {
	svc, _, _ := setup(t)
	ctx := context.Background()

	_, err := svc.ProcessPayment(ctx, types.PaymentInput{BillID: uuid.New(), Amount: dec("5"), PaymentMethod: "cheque"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.ProcessPayment(ctx, types.PaymentInput{BillID: uuid.New(), Amount: dec("5"), PaymentMethod: "cash"})
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestDailySummary(t *testing.T) {
	svc, dir, order := setup(t)
	ctx := context.Background()
	other := order
	other.ID = uuid.New()
	other.Subtotal = dec("10")
	other.Tax = dec("0.80")
	dir.orders[other.ID] = other

	paid, err := svc.CreateBill(ctx, types.CreateBillInput{OrderID: order.ID, TipAmount: dec("5")})
	require.NoError(t, err)
	_, err = svc.ProcessPayment(ctx, types.PaymentInput{BillID: paid.ID, Amount: dec("59"), PaymentMethod: "card"})
	require.NoError(t, err)
	_, err = svc.CreateBill(ctx, types.CreateBillInput{OrderID: other.ID})
	require.NoError(t, err)

	summary, err := svc.DailySummary(ctx, time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.TotalBills)
	assert.Equal(t, 1, summary.PaidBills)
	assert.Equal(t, 1, summary.PendingBills)
	assert.True(t, summary.TotalRevenue.Equal(dec("59")))
	assert.True(t, summary.TotalTips.Equal(dec("5")))
	assert.True(t, summary.PaymentMethods[domain.MethodCard].Equal(dec("59")))

	empty, err := svc.DailySummary(ctx, time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Zero(t, empty.TotalBills)
}

// collidingRepository reports a taken number for the first collisions saves.
type collidingRepository struct {
	*billmemory.Repository
	collisions int
	saves      int
	numbers    []string
}

func (r *collidingRepository) Save(ctx context.Context, bill *domain.Bill) (*domain.Bill, error) {
	r.saves++
	r.numbers = append(r.numbers, bill.BillNumber)
	if r.collisions > 0 {
		r.collisions--
		return nil, ports.ErrDuplicateNumber
	}
	return r.Repository.Save(ctx, bill)
}

func TestCreateBill_RedrawsTakenNumber(t *testing.T) {
	_, dir, order := setup(t)
	repo := &collidingRepository{Repository: billmemory.NewRepository(), collisions: 2}
	svc := NewService(repo, dir)

	bill, err := svc.CreateBill(context.Background(), types.CreateBillInput{OrderID: order.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, repo.saves)
	assert.Equal(t, repo.numbers[2], bill.BillNumber)

	stored, err := svc.GetBillByOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Equal(t, bill.ID, stored.ID)
}

func TestCreateBill_NumberCollisionIsNotAnExistingBill(t *testing.T) {
	_, dir, order := setup(t)
	repo := &collidingRepository{Repository: billmemory.NewRepository(), collisions: numberAttempts}
	svc := NewService(repo, dir)

	_, err := svc.CreateBill(context.Background(), types.CreateBillInput{OrderID: order.ID})
	require.ErrorIs(t, err, ports.ErrDuplicateNumber)
	assert.NotErrorIs(t, err, ErrBillExists)
	assert.Equal(t, numberAttempts, repo.saves)
}

func TestProcessPayment_RedrawsTakenNumber(t *testing.T) {
	_, dir, order := setup(t)
	repo := &collidingRepository{Repository: billmemory.NewRepository()}
	svc := NewService(repo, dir)
	ctx := context.Background()
	bill, err := svc.CreateBill(ctx, types.CreateBillInput{OrderID: order.ID})
	require.NoError(t, err)

	repo.collisions = 1
	receipt, err := svc.ProcessPayment(ctx, types.PaymentInput{BillID: bill.ID, Amount: dec("10"), PaymentMethod: "cash"})
	require.NoError(t, err)
	require.Len(t, receipt.Bill.Payments, 1)
	assert.Equal(t, receipt.Bill.Payments[0].PaymentNumber, receipt.Payment.PaymentNumber)

	got, err := svc.GetPayment(ctx, receipt.Payment.ID)
	require.NoError(t, err)
	assert.Equal(t, receipt.Payment.PaymentNumber, got.PaymentNumber)
}
