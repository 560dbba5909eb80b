package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence.
// FindByID and FindByIDs load variations.
type ProductRepository interface {
	Create(ctx context.Context, p *Product) error
	// Save updates the product and synchronizes its variations
	Save(ctx context.Context, p *Product) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Product, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Product, error)
	// FindAll supports the filters "status", "category", "brand" and "is_service"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Product, int64, error)
	ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
