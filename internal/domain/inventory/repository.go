package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// StockKey identifies a stock row
type StockKey struct {
	BranchID    uuid.UUID
	ProductID   uuid.UUID
	VariationID *uuid.UUID
}

// StockRepository persists branch stock and its ledger
type StockRepository interface {
	// FindForUpdate loads the row with a row lock, inserting an empty row when none exists
	FindForUpdate(ctx context.Context, tenantID uuid.UUID, key StockKey) (*BranchStock, error)
	Find(ctx context.Context, tenantID uuid.UUID, key StockKey) (*BranchStock, error)
	// FindAll supports the filters "branch_id", "product_id" and "low_stock"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]BranchStock, int64, error)
	// Save writes a row loaded by FindForUpdate
	Save(ctx context.Context, s *BranchStock) error
	AddMovement(ctx context.Context, m *StockMovement) error
	// FindMovements supports the filters "branch_id", "product_id", "type" and "reference_id"
	FindMovements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]StockMovement, int64, error)
	CountLowStock(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (int64, error)
}
