package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var productListSpec = listSpec{
	searchColumns: []string{"sku", "name", "brand"},
	sortFields:    sortFields("sku", "name", "category", "brand", "sale_price", "status"),
	defaultSort:   "name",
	filters: map[string]string{
		"category":   "category = ?",
		"brand":      "brand = ?",
		"status":     "status = ?",
		"is_service": "is_service = ?",
	},
}

// GormProductRepository implements catalog.ProductRepository using GORM.
// Variations are loaded with the product and synced on save.
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

func (r *GormProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return insertWithAssociations(ctx, r.db, p)
}

// Save writes the product and makes product_variations match p.Variations
func (r *GormProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(ctx, tx, p); err != nil {
			return err
		}
		keep := make([]uuid.UUID, 0, len(p.Variations))
		for i := range p.Variations {
			keep = append(keep, p.Variations[i].ID)
		}
		del := tx.Where("product_id = ?", p.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&catalog.ProductVariation{}).Error; err != nil {
			return translateError(err)
		}
		for i := range p.Variations {
			if err := save(ctx, tx, &p.Variations[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	return findByID[catalog.Product](ctx, r.db, tenantID, id, "Variations")
}

// FindByIDs loads the products among ids with their variations
func (r *GormProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	products := make([]catalog.Product, 0, len(ids))
	if len(ids) == 0 {
		return products, nil
	}
	err := r.db.WithContext(ctx).Preload("Variations").
		Where("tenant_id = ? AND id IN ?", tenantID, ids).
		Find(&products).Error
	return products, err
}

func (r *GormProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	return findPage[catalog.Product](ctx, r.db, tenantID, filter, productListSpec, func(db *gorm.DB) *gorm.DB {
		return db.Preload("Variations")
	})
}

func (r *GormProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("tenant_id = ? AND sku = ?", tenantID, strings.ToUpper(strings.TrimSpace(sku))).
		Count(&count).Error
	return count > 0, err
}

// FindBySKU loads a product with its variations by its normalized SKU
func (r *GormProductRepository) FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error) {
	var p catalog.Product
	err := r.db.WithContext(ctx).Preload("Variations").
		Where("tenant_id = ? AND sku = ?", tenantID, strings.ToUpper(strings.TrimSpace(sku))).
		First(&p).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &p, nil
}

func (r *GormProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND product_id = ?", tenantID, id).Delete(&catalog.ProductVariation{}).Error; err != nil {
			return translateError(err)
		}
		return deleteByID[catalog.Product](ctx, tx, tenantID, id)
	})
}

var _ catalog.ProductRepository = (*GormProductRepository)(nil)
