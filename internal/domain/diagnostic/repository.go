package diagnostic

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// NodeRepository persists wizard nodes with their options
type NodeRepository interface {
	NodeLoader
	Create(ctx context.Context, n *Node) error
	// Save updates the node and synchronizes its options
	Save(ctx context.Context, n *Node) error
	// FindAll supports "category", "kind" and "is_root"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Node, int64, error)
	FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]Node, error)
	FindRoot(ctx context.Context, tenantID uuid.UUID, category string) (*Node, error)
	// CountReferences counts options of other nodes pointing to id
	CountReferences(ctx context.Context, tenantID, id uuid.UUID) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
