package mapper

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/application/types"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

// CreateBillRequest is the body of POST /api/bills.
type CreateBillRequest struct {
	OrderID        string           `json:"order_id" binding:"required,uuid"`
	TipAmount      *decimal.Decimal `json:"tip_amount"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
}

// PaymentRequest is the body of POST /api/payments.
type PaymentRequest struct {
	BillID          string           `json:"bill_id" binding:"required,uuid"`
	Amount          *decimal.Decimal `json:"amount" binding:"required"`
	PaymentMethod   string           `json:"payment_method" binding:"required,oneof=cash card digital_wallet bank_transfer"`
	ReferenceNumber string           `json:"reference_number" binding:"max=100"`
	Notes           string           `json:"notes"`
}

// Payment is the HTTP representation of a payment.
type Payment struct {
	ID              string          `json:"id"`
	BillID          string          `json:"bill_id"`
	PaymentNumber   string          `json:"payment_number"`
	Amount          decimal.Decimal `json:"amount"`
	PaymentMethod   string          `json:"payment_method"`
	Status          string          `json:"status"`
	TransactionID   string          `json:"transaction_id"`
	ReferenceNumber string          `json:"reference_number"`
	Notes           string          `json:"notes"`
	ProcessedAt     *time.Time      `json:"processed_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// Bill is the HTTP representation of a bill with its payments.
type Bill struct {
	ID              string          `json:"id"`
	BillNumber      string          `json:"bill_number"`
	OrderID         string          `json:"order_id"`
	OrderNumber     string          `json:"order_number"`
	CustomerName    string          `json:"customer_name"`
	TableNumber     *int            `json:"table_number"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	TaxAmount       decimal.Decimal `json:"tax_amount"`
	DiscountAmount  decimal.Decimal `json:"discount_amount"`
	TipAmount       decimal.Decimal `json:"tip_amount"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          string          `json:"status"`
	PaidAt          *time.Time      `json:"paid_at"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Payments        []Payment       `json:"payments"`
}

// PaymentReceipt is returned by POST /api/payments.
type PaymentReceipt struct {
	Payment Payment `json:"payment"`
	Bill    Bill    `json:"bill"`
}

// SummaryCounts is the aggregate block of the daily report.
type SummaryCounts struct {
	TotalBills         int             `json:"total_bills"`
	PaidBills          int             `json:"paid_bills"`
	PendingBills       int             `json:"pending_bills"`
	PartiallyPaidBills int             `json:"partially_paid_bills"`
	TotalRevenue       decimal.Decimal `json:"total_revenue"`
	TotalTax           decimal.Decimal `json:"total_tax"`
	TotalTips          decimal.Decimal `json:"total_tips"`
}

// DailySummary is returned by GET /api/reports/daily-summary.
type DailySummary struct {
	Date           string                     `json:"date"`
	Summary        SummaryCounts              `json:"summary"`
	PaymentMethods map[string]decimal.Decimal `json:"payment_methods"`
	Bills          []Bill                     `json:"bills"`
}

func ToCreateBillInput(req CreateBillRequest) types.CreateBillInput {
	in := types.CreateBillInput{
		OrderID:        uuid.MustParse(req.OrderID),
		TipAmount:      decimal.Zero,
		DiscountAmount: decimal.Zero,
	}
	if req.TipAmount != nil {
		in.TipAmount = *req.TipAmount
	}
	if req.DiscountAmount != nil {
		in.DiscountAmount = *req.DiscountAmount
	}
	return in
}

func ToPaymentInput(req PaymentRequest) types.PaymentInput {
	return types.PaymentInput{
		BillID:          uuid.MustParse(req.BillID),
		Amount:          *req.Amount,
		PaymentMethod:   req.PaymentMethod,
		ReferenceNumber: req.ReferenceNumber,
		Notes:           req.Notes,
	}
}

func FromDomainPayment(p domain.Payment) Payment {
	return Payment{
		ID:              p.ID.String(),
		BillID:          p.BillID.String(),
		PaymentNumber:   p.PaymentNumber,
		Amount:          p.Amount,
		PaymentMethod:   string(p.Method),
		Status:          string(p.Status),
		TransactionID:   p.TransactionID,
		ReferenceNumber: p.ReferenceNumber,
		Notes:           p.Notes,
		ProcessedAt:     p.ProcessedAt,
		CreatedAt:       p.CreatedAt,
		UpdatedAt:       p.UpdatedAt,
	}
}

func FromDomainPayments(payments []domain.Payment) []Payment {
	out := make([]Payment, 0, len(payments))
	for _, p := range payments {
		out = append(out, FromDomainPayment(p))
	}
	return out
}

func FromDomainBill(b *domain.Bill) Bill {
	return Bill{
		ID:              b.ID.String(),
		BillNumber:      b.BillNumber,
		OrderID:         b.OrderID.String(),
		OrderNumber:     b.OrderNumber,
		CustomerName:    b.CustomerName,
		TableNumber:     b.TableNumber,
		Subtotal:        b.Subtotal,
		TaxAmount:       b.TaxAmount,
		DiscountAmount:  b.DiscountAmount,
		TipAmount:       b.TipAmount,
		TotalAmount:     b.TotalAmount,
		PaidAmount:      b.PaidAmount(),
		RemainingAmount: b.RemainingAmount(),
		Status:          string(b.Status),
		PaidAt:          b.PaidAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
		Payments:        FromDomainPayments(b.Payments),
	}
}

func FromDomainBills(bills []*domain.Bill) []Bill {
	out := make([]Bill, 0, len(bills))
	for _, b := range bills {
		out = append(out, FromDomainBill(b))
	}
	return out
}

func FromReceipt(r ports.PaymentReceipt) PaymentReceipt {
	return PaymentReceipt{Payment: FromDomainPayment(r.Payment), Bill: FromDomainBill(r.Bill)}
}

func FromDailySummary(s domain.DailySummary) DailySummary {
	methods := make(map[string]decimal.Decimal, len(s.PaymentMethods))
	for m, amount := range s.PaymentMethods {
		methods[string(m)] = amount
	}
	return DailySummary{
		Date: s.Date.Format(time.DateOnly),
		Summary: SummaryCounts{
			TotalBills:         s.TotalBills,
			PaidBills:          s.PaidBills,
			PendingBills:       s.PendingBills,
			PartiallyPaidBills: s.PartiallyPaidBills,
			TotalRevenue:       s.TotalRevenue,
			TotalTax:           s.TotalTax,
			TotalTips:          s.TotalTips,
		},
		PaymentMethods: methods,
		Bills:          FromDomainBills(s.Bills),
	}
}
