package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Apurer/restaurant-ops/internal/domains/menu/domain"
	"github.com/Apurer/restaurant-ops/internal/domains/menu/ports"
	platformpostgres "github.com/Apurer/restaurant-ops/internal/platform/postgres"
)

var (
	_ ports.Repository           = (*Repository)(nil)
	_ ports.IngredientRepository = (*Repository)(nil)
)

// Repository persists menu items and recipes in PostgreSQL using GORM.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Caller manages DB lifecycle and migrations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Models lists the tables owned by this adapter.
func Models() []any {
	return []any{&menuItemRecord{}, &ingredientRecord{}}
}

type menuItemRecord struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey;column:id"`
	Name            string          `gorm:"column:name;size:100;not null"`
	Description     string          `gorm:"column:description;type:text"`
	Price           decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Category        string          `gorm:"column:category;type:varchar(20);not null;index"`
	IsAvailable     bool            `gorm:"column:is_available;not null;default:true;index"`
	PreparationTime int             `gorm:"column:preparation_time;not null;default:15"`
	Allergens       pq.StringArray  `gorm:"column:allergens;type:text[]"`
	NutritionalInfo map[string]any  `gorm:"column:nutritional_info;type:jsonb;serializer:json"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"`
}

func (menuItemRecord) TableName() string { return "menu_items" }

type ingredientRecord struct {
	MenuItemID      uuid.UUID `gorm:"type:uuid;primaryKey;column:menu_item_id"`
	InventoryItemID uuid.UUID `gorm:"type:uuid;primaryKey;column:inventory_item_id;index"`
	Quantity        float64   `gorm:"column:quantity;type:numeric(10,3);not null"`
	Unit            string    `gorm:"column:unit;size:20;not null"`
}

func (ingredientRecord) TableName() string { return "menu_item_ingredients" }

// Save inserts or updates a menu item.
func (r *Repository) Save(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	record := toRecord(item)
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"name":             record.Name,
				"description":      record.Description,
				"price":            record.Price,
				"category":         record.Category,
				"is_available":     record.IsAvailable,
				"preparation_time": record.PreparationTime,
				"allergens":        record.Allergens,
				"nutritional_info": gorm.Expr("EXCLUDED.nutritional_info"),
				"updated_at":       gorm.Expr("NOW()"),
			}),
		}).Create(&record).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, record.ID)
}

func (r *Repository) GetByID(ctx context.Context, id uuid.UUID) (*domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var record menuItemRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ports.ErrNotFound
		}
		return nil, err
	}
	return record.toDomain(), nil
}

// Delete removes the item and its recipe in one transaction.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&ingredientRecord{}, "menu_item_id = ?", id).Error; err != nil {
			return err
		}
		result := tx.Delete(&menuItemRecord{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ports.ErrNotFound
		}
		return nil
	})
}

func (r *Repository) List(ctx context.Context, filter ports.Filter) ([]*domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	query := r.db.WithContext(ctx).Model(&menuItemRecord{})
	if filter.Category != "" {
		query = query.Where("category = ?", string(filter.Category))
	}
	if filter.Available != nil {
		query = query.Where("is_available = ?", *filter.Available)
	}
	var records []menuItemRecord
	if err := query.Order("category ASC").Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.MenuItem, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*domain.MenuItem{}, nil
	}
	var records []menuItemRecord
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("category ASC").Order("name ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	return toDomainList(records), nil
}

func (r *Repository) ListIngredients(ctx context.Context, menuItemID uuid.UUID) ([]domain.Ingredient, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []ingredientRecord
	if err := r.db.WithContext(ctx).Where("menu_item_id = ?", menuItemID).Order("inventory_item_id ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	list := make([]domain.Ingredient, 0, len(records))
	for _, rec := range records {
		list = append(list, rec.toDomain())
	}
	return list, nil
}

func (r *Repository) GetIngredient(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) (domain.Ingredient, error) {
	if err := r.ensureDB(); err != nil {
		return domain.Ingredient{}, err
	}
	var record ingredientRecord
	err := r.db.WithContext(ctx).
		First(&record, "menu_item_id = ? AND inventory_item_id = ?", menuItemID, inventoryItemID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Ingredient{}, ports.ErrIngredientNotFound
		}
		return domain.Ingredient{}, err
	}
	return record.toDomain(), nil
}

func (r *Repository) AddIngredient(ctx context.Context, ingredient domain.Ingredient) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	record := ingredientRecord{
		MenuItemID:      ingredient.MenuItemID,
		InventoryItemID: ingredient.InventoryItemID,
		Quantity:        ingredient.Quantity,
		Unit:            ingredient.Unit,
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		if platformpostgres.IsUniqueViolation(err) {
			return ports.ErrIngredientExists
		}
		return err
	}
	return nil
}

func (r *Repository) SaveIngredient(ctx context.Context, ingredient domain.Ingredient) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&ingredientRecord{}).
		Where("menu_item_id = ? AND inventory_item_id = ?", ingredient.MenuItemID, ingredient.InventoryItemID).
		Updates(map[string]any{"quantity": ingredient.Quantity, "unit": ingredient.Unit})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrIngredientNotFound
	}
	return nil
}

func (r *Repository) DeleteIngredient(ctx context.Context, menuItemID, inventoryItemID uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	result := r.db.WithContext(ctx).
		Delete(&ingredientRecord{}, "menu_item_id = ? AND inventory_item_id = ?", menuItemID, inventoryItemID)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrIngredientNotFound
	}
	return nil
}

func (r *Repository) DeleteIngredientsForInventoryItem(ctx context.Context, inventoryItemID uuid.UUID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&ingredientRecord{}, "inventory_item_id = ?", inventoryItemID).Error
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres menu repository not configured")
	}
	return nil
}

func toRecord(item *domain.MenuItem) menuItemRecord {
	return menuItemRecord{
		ID:              item.ID,
		Name:            item.Name,
		Description:     item.Description,
		Price:           item.Price,
		Category:        string(item.Category),
		IsAvailable:     item.IsAvailable,
		PreparationTime: item.PreparationTime,
		Allergens:       pq.StringArray(append([]string{}, item.Allergens...)),
		NutritionalInfo: item.NutritionalInfo,
	}
}

func (r menuItemRecord) toDomain() *domain.MenuItem {
	allergens := []string(r.Allergens)
	if allergens == nil {
		allergens = []string{}
	}
	return &domain.MenuItem{
		ID:              r.ID,
		Name:            r.Name,
		Description:     r.Description,
		Price:           r.Price,
		Category:        domain.Category(r.Category),
		IsAvailable:     r.IsAvailable,
		PreparationTime: r.PreparationTime,
		Allergens:       allergens,
		NutritionalInfo: r.NutritionalInfo,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}
}

func (r ingredientRecord) toDomain() domain.Ingredient {
	return domain.Ingredient{
		MenuItemID:      r.MenuItemID,
		InventoryItemID: r.InventoryItemID,
		Quantity:        r.Quantity,
		Unit:            r.Unit,
	}
}

func toDomainList(records []menuItemRecord) []*domain.MenuItem {
	items := make([]*domain.MenuItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items
}
