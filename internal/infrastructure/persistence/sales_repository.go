package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	saleListSpec = listSpec{
		searchColumns: []string{"number", "notes"},
		sortFields:    sortFields("number", "total", "status", "created_at"),
		filters: map[string]string{
			"branch_id":   "branch_id = ?",
			"seller_id":   "seller_id = ?",
			"customer_id": "customer_id = ?",
			"status":      "status = ?",
			"date_from":   "created_at >= ?",
			"date_to":     "created_at < ?",
		},
	}
	saleReturnListSpec = listSpec{
		searchColumns: []string{"number", "reason"},
		sortFields:    sortFields("number", "refund_amount", "created_at"),
		filters: map[string]string{
			"sale_id":   "sale_id = ?",
			"branch_id": "branch_id = ?",
			"date_from": "created_at >= ?",
			"date_to":   "created_at < ?",
		},
	}
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// Create inserts the sale with its items and payments
func (r *GormSaleRepository) Create(ctx context.Context, s *sales.Sale) error {
	return insertWithAssociations(ctx, r.db, s)
}

// Save writes the sale header and its items; payments are immutable
func (r *GormSaleRepository) Save(ctx context.Context, s *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(ctx, tx, s); err != nil {
			return err
		}
		for i := range s.Items {
			if err := save(ctx, tx, &s.Items[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormSaleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	return findByID[sales.Sale](ctx, r.db, tenantID, id, "Items", "Payments")
}

// FindByIDForUpdate locks the sale header for cancel and return flows
func (r *GormSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&sale).Error
	if err != nil {
		return nil, translateError(err)
	}
	if err := r.db.WithContext(ctx).Where("sale_id = ?", sale.ID).Order("created_at").Find(&sale.Items).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).Where("sale_id = ?", sale.ID).Find(&sale.Payments).Error; err != nil {
		return nil, err
	}
	return &sale, nil
}

func (r *GormSaleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, int64, error) {
	return findPage[sales.Sale](ctx, r.db, tenantID, filter, saleListSpec)
}

// NextNumber returns today's next VD-YYYYMMDD-NNNN style number
func (r *GormSaleRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return nextNumber(ctx, r.db, tenantID, prefix)
}

// GormSaleReturnRepository implements sales.SaleReturnRepository using GORM
type GormSaleReturnRepository struct {
	db *gorm.DB
}

// NewGormSaleReturnRepository creates a new GormSaleReturnRepository
func NewGormSaleReturnRepository(db *gorm.DB) *GormSaleReturnRepository {
	return &GormSaleReturnRepository{db: db}
}

func (r *GormSaleReturnRepository) Create(ctx context.Context, ret *sales.SaleReturn) error {
	return insertWithAssociations(ctx, r.db, ret)
}

func (r *GormSaleReturnRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.SaleReturn, error) {
	return findByID[sales.SaleReturn](ctx, r.db, tenantID, id, "Items")
}

func (r *GormSaleReturnRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.SaleReturn, int64, error) {
	return findPage[sales.SaleReturn](ctx, r.db, tenantID, filter, saleReturnListSpec)
}

// NextNumber returns today's next DV-YYYYMMDD-NNNN style number
func (r *GormSaleReturnRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return nextNumber(ctx, r.db, tenantID, prefix)
}

func nextNumber(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, prefix string) (string, error) {
	now := time.Now()
	seq, err := nextDocumentSeq(ctx, db, tenantID, shared.DocumentNumberDatePrefix(prefix, now))
	if err != nil {
		return "", err
	}
	return shared.DocumentNumber(prefix, now, seq), nil
}

var (
	_ sales.SaleRepository       = (*GormSaleRepository)(nil)
	_ sales.SaleReturnRepository = (*GormSaleReturnRepository)(nil)
)
