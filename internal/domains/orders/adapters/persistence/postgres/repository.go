package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-ops/internal/domains/orders/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/orders/ports"
	platformpostgres "github.com/Apurer/restaurant-ops/internal/platform/postgres"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists orders and their lines in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables owned by this adapter.
func Models() []any {
	return []any{&orderRecord{}, &orderItemRecord{}}
}

type orderRecord struct {
	ID                       uuid.UUID         `gorm:"type:uuid;primaryKey;column:id"`
	OrderNumber              string            `gorm:"column:order_number;size:20;uniqueIndex;not null"`
	TableNumber              *int              `gorm:"column:table_number;index"`
	CustomerName             string            `gorm:"column:customer_name;size:100"`
	CustomerPhone            string            `gorm:"column:customer_phone;size:20"`
	OrderType                string            `gorm:"column:order_type;type:varchar(20);not null"`
	WaiterID                 string            `gorm:"column:waiter_id;size:64;index"`
	WaiterName               string            `gorm:"column:waiter_name;size:100"`
	Status                   string            `gorm:"column:status;type:varchar(20);not null;index"`
	Subtotal                 decimal.Decimal   `gorm:"column:subtotal;type:numeric(10,2);not null"`
	Tax                      decimal.Decimal   `gorm:"column:tax;type:numeric(10,2);not null"`
	Total                    decimal.Decimal   `gorm:"column:total;type:numeric(10,2);not null"`
	Notes                    string            `gorm:"column:notes;type:text"`
	EstimatedPreparationTime int               `gorm:"column:estimated_preparation_time"`
	OrderDate                time.Time         `gorm:"column:order_date;not null;index"`
	ConfirmedAt              *time.Time        `gorm:"column:confirmed_at"`
	ReadyAt                  *time.Time        `gorm:"column:ready_at"`
	ServedAt                 *time.Time        `gorm:"column:served_at"`
	CancelledAt              *time.Time        `gorm:"column:cancelled_at"`
	UpdatedAt                time.Time         `gorm:"column:updated_at"`
	Items                    []orderItemRecord `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID                  uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	OrderID             uuid.UUID       `gorm:"type:uuid;column:order_id;not null;index"`
	Position            int             `gorm:"column:position;not null"`
	MenuItemID          uuid.UUID       `gorm:"type:uuid;column:menu_item_id;not null"`
	MenuItemName        string          `gorm:"column:menu_item_name;size:100;not null"`
	Quantity            int             `gorm:"column:quantity;not null"`
	UnitPrice           decimal.Decimal `gorm:"column:unit_price;type:numeric(10,2);not null"`
	TotalPrice          decimal.Decimal `gorm:"column:total_price;type:numeric(10,2);not null"`
	Status              string          `gorm:"column:status;type:varchar(20);not null"`
	SpecialInstructions string          `gorm:"column:special_instructions;type:text"`
	PreparationTime     int             `gorm:"column:preparation_time"`
}

func (orderItemRecord) TableName() string { return "order_items" }

// Save upserts the order and its lines in one transaction.
func (r *Repository) Save(ctx context.Context, order *domain.Order) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if order == nil {
		return nil, errors.New("order is nil")
	}
	record := toRecord(order)
	items := record.Items
	record.Items = nil
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(orderColumns),
		}).Create(&record).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"quantity", "unit_price", "total_price", "status", "special_instructions"}),
		}).Create(&items).Error
	})
	if err != nil {
		if platformpostgres.IsUniqueViolation(err) {
			return nil, ports.ErrDuplicateNumber
		}
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

var orderColumns = []string{
	"table_number", "customer_name", "customer_phone", "order_type", "waiter_id", "waiter_name",
	"status", "subtotal", "tax", "total", "notes", "estimated_preparation_time",
	"confirmed_at", "ready_at", "served_at", "cancelled_at", "updated_at",
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record orderRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&record, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&orderRecord{}).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
	if len(filter.Statuses) > 0 {
		statuses := make([]string, 0, len(filter.Statuses))
		for _, s := range filter.Statuses {
			statuses = append(statuses, string(s))
		}
		query = query.Where("status IN ?", statuses)
	}
	if filter.WaiterID != "" {
		query = query.Where("waiter_id = ?", filter.WaiterID)
	}
	if filter.TableNumber != nil {
		query = query.Where("table_number = ?", *filter.TableNumber)
	}
	if filter.From != nil {
		query = query.Where("order_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("order_date < ?", *filter.To)
	}
	if filter.OldestFirst {
		query = query.Order("order_date ASC")
	} else {
		query = query.Order("order_date DESC")
	}
	var records []orderRecord
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]*domain.Order, 0, len(records))
	for i := range records {
		orders = append(orders, records[i].toDomain())
	}
	return orders, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres order repository not configured")
	}
	return nil
}

func toRecord(o *domain.Order) orderRecord {
	rec := orderRecord{
		ID:                       o.ID,
		OrderNumber:              o.OrderNumber,
		TableNumber:              o.TableNumber,
		CustomerName:             o.CustomerName,
		CustomerPhone:            o.CustomerPhone,
		OrderType:                string(o.OrderType),
		WaiterID:                 o.WaiterID,
		WaiterName:               o.WaiterName,
		Status:                   string(o.Status),
		Subtotal:                 o.Subtotal,
		Tax:                      o.Tax,
		Total:                    o.Total,
		Notes:                    o.Notes,
		EstimatedPreparationTime: o.EstimatedPreparationTime,
		OrderDate:                o.OrderDate,
		ConfirmedAt:              o.ConfirmedAt,
		ReadyAt:                  o.ReadyAt,
		ServedAt:                 o.ServedAt,
		CancelledAt:              o.CancelledAt,
		UpdatedAt:                time.Now().UTC(),
	}
	for i, item := range o.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			ID:                  item.ID,
			OrderID:             o.ID,
			Position:            i,
			MenuItemID:          item.MenuItemID,
			MenuItemName:        item.MenuItemName,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			Status:              string(item.Status),
			SpecialInstructions: item.SpecialInstructions,
			PreparationTime:     item.PreparationTime,
		})
	}
	return rec
}

func (r orderRecord) toDomain() *domain.Order {
	o := &domain.Order{
		ID:                       r.ID,
		OrderNumber:              r.OrderNumber,
		TableNumber:              r.TableNumber,
		CustomerName:             r.CustomerName,
		CustomerPhone:            r.CustomerPhone,
		OrderType:                domain.OrderType(r.OrderType),
		WaiterID:                 r.WaiterID,
		WaiterName:               r.WaiterName,
		Status:                   domain.Status(r.Status),
		Subtotal:                 r.Subtotal,
		Tax:                      r.Tax,
		Total:                    r.Total,
		Notes:                    r.Notes,
		EstimatedPreparationTime: r.EstimatedPreparationTime,
		OrderDate:                r.OrderDate,
		ConfirmedAt:              r.ConfirmedAt,
		ReadyAt:                  r.ReadyAt,
		ServedAt:                 r.ServedAt,
		CancelledAt:              r.CancelledAt,
		UpdatedAt:                r.UpdatedAt,
		Items:                    make([]domain.Item, 0, len(r.Items)),
	}
	for _, item := range r.Items {
		o.Items = append(o.Items, domain.Item{
			ID:                  item.ID,
			MenuItemID:          item.MenuItemID,
			MenuItemName:        item.MenuItemName,
			Quantity:            item.Quantity,
			UnitPrice:           item.UnitPrice,
			TotalPrice:          item.TotalPrice,
			Status:              domain.ItemStatus(item.Status),
			SpecialInstructions: item.SpecialInstructions,
			PreparationTime:     item.PreparationTime,
		})
	}
	return o
}
