package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	stockListSpec = listSpec{
		sortFields:  sortFields("quantity", "min_quantity", "updated_at"),
		defaultSort: "updated_at",
		filters: map[string]string{
			"branch_id":    "branch_id = ?",
			"product_id":   "product_id = ?",
			"variation_id": "variation_id = ?",
		},
	}
	movementListSpec = listSpec{
		searchColumns: []string{"reason", "reference_type"},
		sortFields:    sortFields("created_at", "type", "quantity"),
		filters: map[string]string{
			"branch_id":    "branch_id = ?",
			"product_id":   "product_id = ?",
			"type":         "type = ?",
			"reference_id": "reference_id = ?",
		},
	}
)

const lowStockCondition = "min_quantity > 0 AND quantity <= min_quantity"

// GormStockRepository implements inventory.StockRepository using GORM
type GormStockRepository struct {
	db *gorm.DB
}

// NewGormStockRepository creates a new GormStockRepository
func NewGormStockRepository(db *gorm.DB) *GormStockRepository {
	return &GormStockRepository{db: db}
}

func stockKeyScope(tenantID uuid.UUID, key inventory.StockKey) scope {
	return func(db *gorm.DB) *gorm.DB {
		db = db.Where("tenant_id = ? AND branch_id = ? AND product_id = ?", tenantID, key.BranchID, key.ProductID)
		if key.VariationID == nil {
			return db.Where("variation_id IS NULL")
		}
		return db.Where("variation_id = ?", *key.VariationID)
	}
}

// FindForUpdate locks the stock row for the rest of the transaction.
// A missing row is inserted empty first so every caller saves through the version check.
func (r *GormStockRepository) FindForUpdate(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
	stock, err := r.lock(ctx, tenantID, key)
	if err == nil || !errors.Is(err, shared.ErrNotFound) {
		return stock, err
	}
	fresh := inventory.NewBranchStock(tenantID, key.BranchID, key.ProductID, key.VariationID)
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(fresh).Error; err != nil {
		return nil, translateError(err)
	}
	return r.lock(ctx, tenantID, key)
}

func (r *GormStockRepository) lock(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
	var stock inventory.BranchStock
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Scopes(stockKeyScope(tenantID, key)).
		First(&stock).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

func (r *GormStockRepository) Find(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
	var stock inventory.BranchStock
	if err := r.db.WithContext(ctx).Scopes(stockKeyScope(tenantID, key)).First(&stock).Error; err != nil {
		return nil, translateError(err)
	}
	return &stock, nil
}

func (r *GormStockRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.BranchStock, int64, error) {
	var scopes []scope
	if low, ok := filter.Filters["low_stock"].(bool); ok && low {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB { return db.Where(lowStockCondition) })
	}
	return findPage[inventory.BranchStock](ctx, r.db, tenantID, filter, stockListSpec, scopes...)
}

func (r *GormStockRepository) Save(ctx context.Context, s *inventory.BranchStock) error {
	return saveVersioned(ctx, r.db, s)
}

func (r *GormStockRepository) AddMovement(ctx context.Context, m *inventory.StockMovement) error {
	return insert(ctx, r.db, m)
}

func (r *GormStockRepository) FindMovements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, int64, error) {
	return findPage[inventory.StockMovement](ctx, r.db, tenantID, filter, movementListSpec)
}

// CountLowStock counts rows at or below their minimum, optionally for one branch
func (r *GormStockRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (int64, error) {
	q := r.db.WithContext(ctx).Model(&inventory.BranchStock{}).
		Where("tenant_id = ?", tenantID).
		Where(lowStockCondition)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	var count int64
	err := q.Count(&count).Error
	return count, err
}

var _ inventory.StockRepository = (*GormStockRepository)(nil)
