package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
	platformpostgres "github.com/Apurer/restaurant-ops/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists bills and their payments in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables owned by this adapter.
func Models() []any {
	return []any{&billRecord{}, &paymentRecord{}, &deliveryRecord{}}
}

type billRecord struct {
	ID             uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	BillNumber     string          `gorm:"column:bill_number;size:20;uniqueIndex;not null"`
	OrderID        uuid.UUID       `gorm:"type:uuid;column:order_id;uniqueIndex:idx_bills_order_id;not null"`
	OrderNumber    string          `gorm:"column:order_number;size:20"`
	CustomerName   string          `gorm:"column:customer_name;size:100"`
	TableNumber    *int            `gorm:"column:table_number;index"`
	Subtotal       decimal.Decimal `gorm:"column:subtotal;type:numeric(10,2);not null"`
	TaxAmount      decimal.Decimal `gorm:"column:tax_amount;type:numeric(10,2);not null"`
	DiscountAmount decimal.Decimal `gorm:"column:discount_amount;type:numeric(10,2);not null"`
	TipAmount      decimal.Decimal `gorm:"column:tip_amount;type:numeric(10,2);not null"`
	TotalAmount    decimal.Decimal `gorm:"column:total_amount;type:numeric(10,2);not null"`
	Status         string          `gorm:"column:status;type:varchar(20);not null;index"`
	PaidAt         *time.Time      `gorm:"column:paid_at"`
	CreatedAt      time.Time       `gorm:"column:created_at;not null;index"`
	UpdatedAt      time.Time       `gorm:"column:updated_at"`
	Payments       []paymentRecord `gorm:"foreignKey:BillID;constraint:OnDelete:CASCADE"`
}

func (billRecord) TableName() string { return "bills" }

type paymentRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	BillID          uuid.UUID       `gorm:"type:uuid;column:bill_id;not null;index"`
	PaymentNumber   string          `gorm:"column:payment_number;size:20;uniqueIndex;not null"`
	Amount          decimal.Decimal `gorm:"column:amount;type:numeric(10,2);not null"`
	Method          string          `gorm:"column:payment_method;type:varchar(20);not null;index"`
	Status          string          `gorm:"column:status;type:varchar(20);not null;index"`
	TransactionID   string          `gorm:"column:transaction_id;size:100"`
	ReferenceNumber string          `gorm:"column:reference_number;size:100"`
	Notes           string          `gorm:"column:notes;type:text"`
	ProcessedAt     *time.Time      `gorm:"column:processed_at"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null;index"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (paymentRecord) TableName() string { return "payments" }

var billColumns = []string{
	"customer_name", "table_number", "subtotal", "tax_amount", "discount_amount", "tip_amount",
	"total_amount", "status", "paid_at", "updated_at",
}

// Save upserts the bill and appends any payments not yet stored.
func (r *Repository) Save(ctx context.Context, bill *domain.Bill) (*domain.Bill, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if bill == nil {
		return nil, errors.New("bill is nil")
	}
	record := toRecord(bill)
	payments := record.Payments
	record.Payments = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(billColumns),
		}).Create(&record).Error; err != nil {
			return err
		}
		if len(payments) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "processed_at", "updated_at"}),
		}).Create(&payments).Error
	})
	if err != nil {
		if platformpostgres.IsUniqueViolation(err) {
			return nil, r.classifyDuplicate(ctx, err, bill)
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

const orderConstraint = "idx_bills_order_id"

// classifyDuplicate separates a second bill for the order from a colliding bill or payment number.
func (r *Repository) classifyDuplicate(ctx context.Context, err error, bill *domain.Bill) error {
	if name, ok := platformpostgres.ViolatedConstraint(err); ok {
		if name == orderConstraint {
			return ports.ErrDuplicateBill
		}
		return ports.ErrDuplicateNumber
	}
	existing, lookupErr := r.GetByOrderID(ctx, bill.OrderID)
	if lookupErr == nil && existing.ID != bill.ID {
		return ports.ErrDuplicateBill
	}
	return ports.ErrDuplicateNumber
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Bill, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *Repository) GetByOrderID(ctx context.Context, orderID uuid.UUID) (*domain.Bill, error) {
	return r.first(ctx, "order_id = ?", orderID)
}

func (r *Repository) first(ctx context.Context, query string, arg any) (*domain.Bill, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record billRecord
	err := r.db.WithContext(ctx).Preload("Payments", orderPayments).First(&record, query, arg).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func orderPayments(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") }

func (r *Repository) List(ctx context.Context, filter ports.BillFilter) ([]*domain.Bill, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&billRecord{}).Preload("Payments", orderPayments)
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.TableNumber != nil {
		query = query.Where("table_number = ?", *filter.TableNumber)
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	var records []billRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	bills := make([]*domain.Bill, 0, len(records))
	for i := range records {
		bills = append(bills, records[i].toDomain())
	}
	return bills, nil
}

func (r *Repository) GetPayment(ctx context.Context, id uuid.UUID) (domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Payment{}, err
	}
	var record paymentRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Payment{}, ports.ErrPaymentNotFound
		}
		return domain.Payment{}, err
	}
	return record.toDomain(), nil
}

func (r *Repository) ListPayments(ctx context.Context, filter ports.PaymentFilter) ([]domain.Payment, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&paymentRecord{})
	if filter.BillID != nil {
		query = query.Where("bill_id = ?", *filter.BillID)
	}
	if filter.Method != "" {
		query = query.Where("payment_method = ?", string(filter.Method))
	}
	if filter.Status != "" {
		query = query.Where("status = ?", string(filter.Status))
	}
	if filter.From != nil {
		query = query.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("created_at < ?", *filter.To)
	}
	var records []paymentRecord
	if err := query.Order("created_at DESC").Find(&records).Error; err != nil {
		return nil, err
	}
	payments := make([]domain.Payment, 0, len(records))
	for _, rec := range records {
		payments = append(payments, rec.toDomain())
	}
	return payments, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres bill repository not configured")
	}
	return nil
}

func toRecord(b *domain.Bill) billRecord {
	rec := billRecord{
		ID:             b.ID,
		BillNumber:     b.BillNumber,
		OrderID:        b.OrderID,
		OrderNumber:    b.OrderNumber,
		CustomerName:   b.CustomerName,
		TableNumber:    b.TableNumber,
		Subtotal:       b.Subtotal,
		TaxAmount:      b.TaxAmount,
		DiscountAmount: b.DiscountAmount,
		TipAmount:      b.TipAmount,
		TotalAmount:    b.TotalAmount,
		Status:         string(b.Status),
		PaidAt:         b.PaidAt,
		CreatedAt:      b.CreatedAt,
		UpdatedAt:      b.UpdatedAt,
	}
	for _, p := range b.Payments {
		rec.Payments = append(rec.Payments, paymentRecord{
			ID:              p.ID,
			BillID:          b.ID,
			PaymentNumber:   p.PaymentNumber,
			Amount:          p.Amount,
			Method:          string(p.Method),
			Status:          string(p.Status),
			TransactionID:   p.TransactionID,
			ReferenceNumber: p.ReferenceNumber,
			Notes:           p.Notes,
			ProcessedAt:     p.ProcessedAt,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
	}
	return rec
}

func (r billRecord) toDomain() *domain.Bill {
	b := &domain.Bill{
		ID:             r.ID,
		BillNumber:     r.BillNumber,
		OrderID:        r.OrderID,
		OrderNumber:    r.OrderNumber,
		CustomerName:   r.CustomerName,
		TableNumber:    r.TableNumber,
		Subtotal:       r.Subtotal,
		TaxAmount:      r.TaxAmount,
		DiscountAmount: r.DiscountAmount,
		TipAmount:      r.TipAmount,
		TotalAmount:    r.TotalAmount,
		Status:         domain.BillStatus(r.Status),
		PaidAt:         r.PaidAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		Payments:       make([]domain.Payment, 0, len(r.Payments)),
	}
	for _, p := range r.Payments {
		b.Payments = append(b.Payments, p.toDomain())
	}
	return b
}

func (r paymentRecord) toDomain() domain.Payment {
	return domain.Payment{
		ID:              r.ID,
		BillID:          r.BillID,
		PaymentNumber:   r.PaymentNumber,
		Amount:          r.Amount,
		Method:          domain.PaymentMethod(r.Method),
		Status:          domain.PaymentStatus(r.Status),
		TransactionID:   r.TransactionID,
		ReferenceNumber: r.ReferenceNumber,
		Notes:           r.Notes,
		ProcessedAt:     r.ProcessedAt,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}
