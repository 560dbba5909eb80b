package kanban

import (
	"context"

	"github.com/google/uuid"
)

// ColumnRepository persists board columns
type ColumnRepository interface {
	Create(ctx context.Context, c *Column) error
	Save(ctx context.Context, c *Column) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Column, error)
	// FindByBoard returns the columns ordered by position
	FindByBoard(ctx context.Context, tenantID uuid.UUID, board string) ([]Column, error)
	FindByStatus(ctx context.Context, tenantID uuid.UUID, board, status string) (*Column, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CardRepository persists cards
type CardRepository interface {
	Create(ctx context.Context, c *Card) error
	Save(ctx context.Context, c *Card) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Card, error)
	// FindByColumn returns the cards ordered by position
	FindByColumn(ctx context.Context, tenantID, columnID uuid.UUID) ([]Card, error)
	FindByColumns(ctx context.Context, tenantID uuid.UUID, columnIDs []uuid.UUID) ([]Card, error)
	FindByServiceOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*Card, error)
	CountByColumn(ctx context.Context, tenantID, columnID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
