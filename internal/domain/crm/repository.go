package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// CustomerRepository persists customers
type CustomerRepository interface {
	Create(ctx context.Context, c *Customer) error
	Save(ctx context.Context, c *Customer) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Customer, error)
	// FindAll searches name, document, phone and email; filters "type" and "is_active"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Customer, int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// LeadRepository persists leads
type LeadRepository interface {
	Create(ctx context.Context, l *Lead) error
	Save(ctx context.Context, l *Lead) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Lead, error)
	// FindAll supports the filters "status", "source" and "assigned_to"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Lead, int64, error)
}
