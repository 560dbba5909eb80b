package marketplace

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// ListingRepository persists marketplace listings.
// FindAll supports "platform", "status" and "product_id".
type ListingRepository interface {
	Create(ctx context.Context, l *Listing) error
	Save(ctx context.Context, l *Listing) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Listing, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Listing, int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	// FindStale returns active listings of every tenant never synced or last synced before cutoff,
	// oldest first
	FindStale(ctx context.Context, cutoff time.Time, limit int) ([]Listing, error)
}
