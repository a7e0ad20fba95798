package restaurantserver

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	billmemory "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/memory"
	billapp "github.com/Apurer/restaurant-ops/internal/domains/billing/application"
	billports "github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

type orderBook struct {
	orders map[uuid.UUID]billports.OrderSnapshot
	down   bool
}

func (b *orderBook) GetOrder(_ context.Context, id uuid.UUID) (billports.OrderSnapshot, error) {
	if b.down {
		return billports.OrderSnapshot{}, errors.New("connection refused")
	}
	o, ok := b.orders[id]
	if !ok {
		return billports.OrderSnapshot{}, billports.ErrOrderNotFound
	}
	return o, nil
}

func (b *orderBook) served(subtotal, tax string) string {
	id := uuid.New()
	table := 4
	b.orders[id] = billports.OrderSnapshot{
		ID:          id,
		OrderNumber: "ORD-20240301-0001",
		TableNumber: &table,
		Status:      "served",
		Subtotal:    decimal.RequireFromString(subtotal),
		Tax:         decimal.RequireFromString(tax),
	}
	return id.String()
}

func newBillingFixture() (*gin.Engine, *orderBook) {
	book := &orderBook{orders: map[uuid.UUID]billports.OrderSnapshot{}}
	api := NewBillingAPI(billapp.NewService(billmemory.NewRepository(), book))
	return NewRouterWithGinEngine(gin.New(), ApiHandleFunctions{BillingAPI: api}), book
}

func TestBillingAPI_CreateBillErrors(t *testing.T) {
	router, book := newBillingFixture()

	status, resp := call(t, router, http.MethodPost, "/api/bills", map[string]any{"order_id": uuid.NewString()})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Order not found", resp.Message)

	status, resp = call(t, router, http.MethodPost, "/api/bills", map[string]any{"order_id": "nope"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation error", resp.Message)
	assert.Contains(t, string(resp.Errors), "order_id")

	orderID := book.served("20.00", "2.00")
	status, resp = call(t, router, http.MethodPost, "/api/bills", map[string]any{"order_id": orderID, "discount_amount": 30})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Validation error", resp.Message)

	book.down = true
	status, resp = call(t, router, http.MethodPost, "/api/bills", map[string]any{"order_id": orderID})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Error fetching order details", resp.Message)
}

func TestBillingAPI_PaymentsAndLookups(t *testing.T) {
	router, book := newBillingFixture()
	orderID := book.served("40.00", "4.00")
	billID := mustCreate(t, router, "/api/bills", map[string]any{"order_id": orderID})

	status, resp := call(t, router, http.MethodPost, "/api/payments",
		map[string]any{"bill_id": uuid.NewString(), "amount": 5, "payment_method": "cash"})
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Bill not found", resp.Message)

	status, resp = call(t, router, http.MethodPost, "/api/payments",
		map[string]any{"bill_id": billID, "amount": 5, "payment_method": "cheque"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(resp.Errors), "payment_method")

	status, resp = call(t, router, http.MethodPost, "/api/payments",
		map[string]any{"bill_id": billID, "amount": 44, "payment_method": "digital_wallet", "reference_number": "W-1"})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Payment processed successfully", resp.Message)
	var receipt struct {
		Payment struct {
			ID            string `json:"id"`
			PaymentNumber string `json:"payment_number"`
			Status        string `json:"status"`
		} `json:"payment"`
		Bill struct {
			Status string `json:"status"`
		} `json:"bill"`
	}
	decodeData(t, resp, &receipt)
	assert.Regexp(t, `^PAY-\d{8}-\d{4}$`, receipt.Payment.PaymentNumber)
	assert.Equal(t, "completed", receipt.Payment.Status)
	assert.Equal(t, "paid", receipt.Bill.Status)

	status, resp = call(t, router, http.MethodPost, "/api/payments",
		map[string]any{"bill_id": billID, "amount": 1, "payment_method": "cash"})
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Cannot process payment for bill with status: paid", resp.Message)

	status, _ = call(t, router, http.MethodGet, "/api/payments/"+receipt.Payment.ID, nil)
	require.Equal(t, http.StatusOK, status)

	status, resp = call(t, router, http.MethodGet, "/api/payments/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Payment not found", resp.Message)

	_, resp = call(t, router, http.MethodGet, "/api/payments?bill_id="+billID+"&payment_method=digital_wallet", nil)
	assert.Equal(t, 1, *resp.Count)

	status, resp = call(t, router, http.MethodGet, "/api/payments?bill_id=x", nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(resp.Errors), "bill_id")

	_, resp = call(t, router, http.MethodGet, "/api/bills?status=paid", nil)
	assert.Equal(t, 1, *resp.Count)

	_, resp = call(t, router, http.MethodGet, "/api/bills?status=pending", nil)
	assert.Equal(t, 0, *resp.Count)

	status, resp = call(t, router, http.MethodGet, "/api/bills/order/"+uuid.NewString(), nil)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Bill not found for this order", resp.Message)

	status, resp = call(t, router, http.MethodGet, "/api/bills/xyz", nil)
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Invalid bill ID format", resp.Message)
}

func TestBillingAPI_DailySummary(t *testing.T) {
	router, book := newBillingFixture()
	orderID := book.served("10.00", "1.00")
	billID := mustCreate(t, router, "/api/bills", map[string]any{"order_id": orderID, "tip_amount": 2})
	mustCreateStatus(t, router, "/api/payments", map[string]any{"bill_id": billID, "amount": 5, "payment_method": "card"})

	today := time.Now().UTC().Format(dateLayout)
	status, resp := call(t, router, http.MethodGet, "/api/reports/daily-summary?date="+today, nil)
	require.Equal(t, http.StatusOK, status)
	var summary struct {
		Date    string `json:"date"`
		Summary struct {
			TotalBills         int             `json:"total_bills"`
			PartiallyPaidBills int             `json:"partially_paid_bills"`
			TotalRevenue       decimal.Decimal `json:"total_revenue"`
			TotalTips          decimal.Decimal `json:"total_tips"`
		} `json:"summary"`
		PaymentMethods map[string]decimal.Decimal `json:"payment_methods"`
	}
	decodeData(t, resp, &summary)
	assert.Equal(t, today, summary.Date)
	assert.Equal(t, 1, summary.Summary.TotalBills)
	assert.Equal(t, 1, summary.Summary.PartiallyPaidBills)
	assert.True(t, decimal.RequireFromString("2").Equal(summary.Summary.TotalTips))
	assert.True(t, decimal.RequireFromString("5").Equal(summary.PaymentMethods["card"]))

	status, _ = call(t, router, http.MethodGet, "/api/reports/daily-summary?date=03/01/2024", nil)
	require.Equal(t, http.StatusBadRequest, status)
}
