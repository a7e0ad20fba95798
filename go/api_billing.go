package restaurantserver

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	billmapper "github.com/Apurer/restaurant-ops/internal/domains/billing/adapters/http/mapper"
	billapp "github.com/Apurer/restaurant-ops/internal/domains/billing/application"
	billdomain "github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	billports "github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
	"github.com/Apurer/restaurant-ops/internal/shared/envelope"
	apierrors "github.com/Apurer/restaurant-ops/internal/shared/errors"
)

// BillingAPI exposes bills, payments and the daily report.
type BillingAPI struct {
	service   billports.Service
	responder *apierrors.ChainedResponder
	now       func() time.Time
}

// NewBillingAPI creates a BillingAPI backed by the provided service.
func NewBillingAPI(service billports.Service) *BillingAPI {
	return &BillingAPI{
		service: service,
		now:     time.Now,
		responder: apierrors.NewChainedResponder("Error processing billing request",
			apierrors.Is(billapp.ErrBillExists, apierrors.ErrBadRequest, "Bill already exists for this order"),
			apierrors.Is(billports.ErrDuplicateBill, apierrors.ErrBadRequest, "Bill already exists for this order"),
			apierrors.Is(billports.ErrOrderNotFound, apierrors.ErrNotFound, "Order not found"),
			apierrors.Is(billapp.ErrOrderLookup, apierrors.ErrBadRequest, "Error fetching order details"),
			apierrors.Is(billports.ErrNotFound, apierrors.ErrNotFound, "Bill not found"),
			apierrors.Is(billports.ErrPaymentNotFound, apierrors.ErrNotFound, "Payment not found"),
			rejectedPayment,
			invalidInput(billapp.ErrInvalidInput),
		),
	}
}

// rejectedPayment reports overpayments and payments against closed bills with their own wording.
func rejectedPayment(err error) (apierrors.Problem, bool) {
	var over *billdomain.OverpaymentError
	if errors.As(err, &over) {
		return apierrors.ErrBadRequest.WithMessage(sentence(over.Error())), true
	}
	var closed *billdomain.ClosedBillError
	if errors.As(err, &closed) {
		return apierrors.ErrBadRequest.WithMessage(sentence(closed.Error())), true
	}
	return apierrors.Problem{}, false
}

// Get /api/bills
func (api *BillingAPI) ListBills(c *gin.Context) {
	q := newQueryFilters(c)
	filter := billports.BillFilter{TableNumber: q.Int("table_number")}
	if raw := c.Query("status"); raw != "" {
		status, err := billdomain.ParseBillStatus(raw)
		if err != nil {
			q.Invalid("status", "must be one of pending, paid, partially_paid, refunded, cancelled")
		}
		filter.Status = status
	}
	filter.From, filter.To = q.Range("date_from", "date_to")
	if q.Failed() {
		return
	}
	bills, err := api.service.ListBills(c.Request.Context(), filter)
	if err != nil {
		api.fail(c, err, "Error fetching bills")
		return
	}
	envelope.OK(c, billmapper.FromDomainBills(bills), envelope.WithCount(len(bills)))
}

// Get /api/bills/:id
func (api *BillingAPI) GetBill(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "bill")
	if !ok {
		return
	}
	bill, err := api.service.GetBill(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "Error fetching bill")
		return
	}
	envelope.OK(c, billmapper.FromDomainBill(bill))
}

// Get /api/bills/order/:orderId
func (api *BillingAPI) GetBillByOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "orderId", "order")
	if !ok {
		return
	}
	bill, err := api.service.GetBillByOrder(c.Request.Context(), orderID)
	if errors.Is(err, billports.ErrNotFound) {
		apierrors.Respond(c, apierrors.NewNotFoundProblem("Bill").WithMessage("Bill not found for this order"))
		return
	}
	if err != nil {
		api.fail(c, err, "Error fetching bill")
		return
	}
	envelope.OK(c, billmapper.FromDomainBill(bill))
}

// Post /api/bills
// Bills an order using the totals reported by the order service
func (api *BillingAPI) CreateBill(c *gin.Context) {
	var payload billmapper.CreateBillRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	bill, err := api.service.CreateBill(c.Request.Context(), billmapper.ToCreateBillInput(payload))
	if err != nil {
		api.fail(c, err, "Error creating bill")
		return
	}
	envelope.Created(c, "Bill created successfully", billmapper.FromDomainBill(bill))
}

// Get /api/payments
func (api *BillingAPI) ListPayments(c *gin.Context) {
	q := newQueryFilters(c)
	filter := billports.PaymentFilter{BillID: q.UUID("bill_id")}
	if raw := c.Query("payment_method"); raw != "" {
		method, err := billdomain.ParsePaymentMethod(raw)
		if err != nil {
			q.Invalid("payment_method", "must be one of cash, card, digital_wallet, bank_transfer")
		}
		filter.Method = method
	}
	if raw := c.Query("status"); raw != "" {
		status, err := billdomain.ParsePaymentStatus(raw)
		if err != nil {
			q.Invalid("status", "must be one of pending, completed, failed, cancelled, refunded")
		}
		filter.Status = status
	}
	filter.From, filter.To = q.Range("date_from", "date_to")
	if q.Failed() {
		return
	}
	payments, err := api.service.ListPayments(c.Request.Context(), filter)
	if err != nil {
		api.fail(c, err, "Error fetching payments")
		return
	}
	envelope.OK(c, billmapper.FromDomainPayments(payments), envelope.WithCount(len(payments)))
}

// Get /api/payments/:id
func (api *BillingAPI) GetPayment(c *gin.Context) {
	id, ok := parseIDParam(c, "id", "payment")
	if !ok {
		return
	}
	payment, err := api.service.GetPayment(c.Request.Context(), id)
	if err != nil {
		api.fail(c, err, "Error fetching payment")
		return
	}
	envelope.OK(c, billmapper.FromDomainPayment(payment))
}

// Post /api/payments
// Takes a completed payment against a bill and settles it when fully paid
func (api *BillingAPI) ProcessPayment(c *gin.Context) {
	var payload billmapper.PaymentRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBindingError(c, err)
		return
	}
	receipt, err := api.service.ProcessPayment(c.Request.Context(), billmapper.ToPaymentInput(payload))
	if err != nil {
		api.fail(c, err, "Error processing payment")
		return
	}
	envelope.Created(c, "Payment processed successfully", billmapper.FromReceipt(receipt))
}

// Get /api/reports/daily-summary
func (api *BillingAPI) DailySummary(c *gin.Context) {
	q := newQueryFilters(c)
	day := q.Day("date")
	if q.Failed() {
		return
	}
	if day == nil {
		now := api.now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		day = &today
	}
	summary, err := api.service.DailySummary(c.Request.Context(), *day)
	if err != nil {
		api.fail(c, err, "Error generating daily summary")
		return
	}
	envelope.OK(c, billmapper.FromDailySummary(summary))
}

func (api *BillingAPI) fail(c *gin.Context, err error, fallback string) {
	api.responder.WithFallback(fallback).RespondError(c, err)
}
