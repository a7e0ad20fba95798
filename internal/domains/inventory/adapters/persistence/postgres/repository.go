package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-ops/internal/domains/inventory/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/inventory/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository persists inventory items in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables owned by this adapter.
func Models() []any {
	return []any{&itemRecord{}}
}

type itemRecord struct {
	ID           uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Name         string          `gorm:"column:name;size:100;not null;index"`
	Description  string          `gorm:"column:description;type:text"`
	CurrentStock float64         `gorm:"column:current_stock;type:numeric(10,3);not null"`
	MinimumStock float64         `gorm:"column:minimum_stock;type:numeric(10,3);not null"`
	MaximumStock float64         `gorm:"column:maximum_stock;type:numeric(10,3);not null"`
	Unit         string          `gorm:"column:unit;size:20;not null"`
	CostPerUnit  decimal.Decimal `gorm:"column:cost_per_unit;type:numeric(10,2);not null"`
	Supplier     string          `gorm:"column:supplier;size:100"`
	ExpiryDate   *time.Time      `gorm:"column:expiry_date;type:date"`
	IsPerishable bool            `gorm:"column:is_perishable;not null;default:false"`
	CreatedAt    time.Time       `gorm:"column:created_at"`
	UpdatedAt    time.Time       `gorm:"column:updated_at"`
}

func (itemRecord) TableName() string { return "inventory_items" }

// Save inserts or updates an item.
func (r *Repository) Save(ctx context.Context, item *domain.Item) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("inventory item is nil")
	}
	record := toRecord(item)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":          record.Name,
				"description":   record.Description,
				"current_stock": record.CurrentStock,
				"minimum_stock": record.MinimumStock,
				"maximum_stock": record.MaximumStock,
				"unit":          record.Unit,
				"cost_per_unit": record.CostPerUnit,
				"supplier":      record.Supplier,
				"expiry_date":   record.ExpiryDate,
				"is_perishable": record.IsPerishable,
				"updated_at":    gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

// GetByID fetches an item by identifier.
func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record itemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// ListByIDs fetches the subset of ids that exist.
func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.Item{}, nil
	}
	var records []itemRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// Delete removes an item by identifier.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&itemRecord{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

// List returns items matching the filter ordered by name.
func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.Item, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&itemRecord{})
	if filter.LowStock != nil {
		if *filter.LowStock {
			query = query.Where("current_stock <= minimum_stock")
		} else {
			query = query.Where("current_stock > minimum_stock")
		}
	}
	if filter.OutOfStock != nil {
		if *filter.OutOfStock {
			query = query.Where("current_stock <= 0")
		} else {
			query = query.Where("current_stock > 0")
		}
	}
	if filter.Perishable != nil {
		query = query.Where("is_perishable = ?", *filter.Perishable)
	}
	var records []itemRecord
	if err := query.Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

// AdjustStock locks the row, applies the delta and persists it in one transaction.
func (r *Repository) AdjustStock(ctx context.Context, id uuid.UUID, delta float64) (domain.StockAdjustment, error) {
	if err := r.ensureDB(); err != nil {
		return domain.StockAdjustment{}, err
	}
	var adjustment domain.StockAdjustment
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var record itemRecord
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&record, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ports.ErrNotFound
			}
			return err
		}
		item := record.toDomain()
		adj, err := item.Adjust(delta)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		if err := tx.Model(&itemRecord{}).Where("id = ?", id).Updates(map[string]any{
			"current_stock": item.CurrentStock,
			"updated_at":    now,
		}).Error; err != nil {
			return err
		}
		item.UpdatedAt = now
		adjustment = adj
		return nil
	})
	if err != nil {
		return domain.StockAdjustment{}, err
	}
	return adjustment, nil
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres inventory repository not configured")
	}
	return nil
}

func toRecord(item *domain.Item) itemRecord {
	return itemRecord{
		ID:           item.ID,
		Name:         item.Name,
		Description:  item.Description,
		CurrentStock: item.CurrentStock,
		MinimumStock: item.MinimumStock,
		MaximumStock: item.MaximumStock,
		Unit:         item.Unit,
		CostPerUnit:  item.CostPerUnit,
		Supplier:     item.Supplier,
		ExpiryDate:   item.ExpiryDate,
		IsPerishable: item.IsPerishable,
	}
}

func (r itemRecord) toDomain() *domain.Item {
	return &domain.Item{
		ID:           r.ID,
		Name:         r.Name,
		Description:  r.Description,
		CurrentStock: r.CurrentStock,
		MinimumStock: r.MinimumStock,
		MaximumStock: r.MaximumStock,
		Unit:         r.Unit,
		CostPerUnit:  r.CostPerUnit,
		Supplier:     r.Supplier,
		ExpiryDate:   r.ExpiryDate,
		IsPerishable: r.IsPerishable,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func toDomainList(records []itemRecord) []*domain.Item {
	items := make([]*domain.Item, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items
}
