package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// SaleRepository persists sales with their items and payments
type SaleRepository interface {
	Create(ctx context.Context, s *Sale) error
	// Save updates the sale header and its items
	Save(ctx context.Context, s *Sale) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*Sale, error)
	// FindAll supports "branch_id", "seller_id", "customer_id", "status", "from" and "to"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Sale, int64, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}

// SaleReturnRepository persists returns
type SaleReturnRepository interface {
	Create(ctx context.Context, r *SaleReturn) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*SaleReturn, error)
	// FindAll supports "sale_id" and "branch_id"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]SaleReturn, int64, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
}
