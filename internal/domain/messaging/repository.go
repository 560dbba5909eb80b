package messaging

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// MessageRepository persists message logs.
// FindAll supports "channel", "status", "direction", "related_id" and searches recipient and body.
type MessageRepository interface {
	Create(ctx context.Context, m *MessageLog) error
	Save(ctx context.Context, m *MessageLog) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*MessageLog, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]MessageLog, int64, error)
}
