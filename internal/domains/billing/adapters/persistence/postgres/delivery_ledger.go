package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-ops/internal/domains/billing/ports"
)

var _ ports.DeliveryLedger = (*DeliveryLedger)(nil)

// DeliveryLedger persists processed message ids in PostgreSQL.
type DeliveryLedger struct {
	db  *gorm.DB
	now func() time.Time
}

// NewDeliveryLedger wires a PostgreSQL-backed delivery ledger.
func NewDeliveryLedger(db *gorm.DB) *DeliveryLedger {
	return &DeliveryLedger{db: db, now: time.Now}
}

// FirstDelivery inserts key and reports whether the row was new. Keys are never expired here.
func (l *DeliveryLedger) FirstDelivery(ctx context.Context, key string) (bool, error) {
	if l == nil || l.db == nil {
		return false, errors.New("postgres delivery ledger not configured")
	}
	record := deliveryRecord{Key: key, ProcessedAt: l.now().UTC()}
	result := l.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&record)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

func (l *DeliveryLedger) Release(ctx context.Context, key string) error {
	if l == nil || l.db == nil {
		return errors.New("postgres delivery ledger not configured")
	}
	return l.db.WithContext(ctx).Delete(&deliveryRecord{}, "key = ?", key).Error
}

type deliveryRecord struct {
	Key         string    `gorm:"primaryKey;column:key;size:255"`
	ProcessedAt time.Time `gorm:"column:processed_at;not null"`
}

func (deliveryRecord) TableName() string { return "billing_processed_messages" }
