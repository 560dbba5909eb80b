package gamification

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// PointRepository persists point entries and aggregates them
type PointRepository interface {
	Create(ctx context.Context, e *PointEntry) error
	ExistsForReference(ctx context.Context, tenantID, userID uuid.UUID, reason Reason, refID uuid.UUID) (bool, error)
	FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]PointEntry, int64, error)
	TotalForUser(ctx context.Context, tenantID, userID uuid.UUID) (int64, error)
	// Leaderboard ranks users by points in the period, highest first
	Leaderboard(ctx context.Context, tenantID uuid.UUID, period Period, limit int) ([]LeaderboardEntry, error)
}

// BadgeRepository persists badge definitions and awards
type BadgeRepository interface {
	Create(ctx context.Context, b *Badge) error
	Save(ctx context.Context, b *Badge) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Badge, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Badge, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
	Award(ctx context.Context, ub *UserBadge) error
	FindUserBadges(ctx context.Context, tenantID, userID uuid.UUID) ([]UserBadge, error)
}
