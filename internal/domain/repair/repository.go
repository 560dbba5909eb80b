package repair

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// ServiceOrderRepository persists service orders and their child rows
type ServiceOrderRepository interface {
	Create(ctx context.Context, o *ServiceOrder) error
	Save(ctx context.Context, o *ServiceOrder) error
	// FindByID loads the order with its parts
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ServiceOrder, error)
	// FindAll supports "status", "branch_id", "technician_id", "customer_id", "priority" and "open"
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ServiceOrder, int64, error)
	NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error)
	AddHistory(ctx context.Context, h *StatusHistory) error
	FindHistory(ctx context.Context, tenantID, orderID uuid.UUID) ([]StatusHistory, error)
	AddPart(ctx context.Context, p *ServiceOrderPart) error
	AddPhoto(ctx context.Context, p *Photo) error
	FindPhotos(ctx context.Context, tenantID, orderID uuid.UUID) ([]Photo, error)
	CountByStatus(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (map[Status]int64, error)
}
