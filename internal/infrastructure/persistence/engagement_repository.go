package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/gamification"
	"github.com/repairpos/backend/internal/domain/marketplace"
	"github.com/repairpos/backend/internal/domain/messaging"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var (
	messageListSpec = listSpec{
		searchColumns: []string{"recipient", "body"},
		sortFields:    sortFields("created_at", "status", "channel"),
		filters: map[string]string{
			"channel":    "channel = ?",
			"status":     "status = ?",
			"direction":  "direction = ?",
			"related_id": "related_id = ?",
		},
	}
	listingListSpec = listSpec{
		searchColumns: []string{"title", "external_id"},
		sortFields:    sortFields("title", "price", "status", "last_synced_at", "created_at"),
		filters: map[string]string{
			"platform":   "platform = ?",
			"status":     "status = ?",
			"product_id": "product_id = ?",
		},
	}
	pointListSpec = listSpec{
		sortFields: sortFields("created_at", "points"),
		filters: map[string]string{
			"reason": "reason = ?",
			"from":   "created_at >= ?",
			"to":     "created_at < ?",
		},
	}
)

// GormMessageRepository implements messaging.MessageRepository using GORM
type GormMessageRepository struct {
	db *gorm.DB
}

// NewGormMessageRepository creates a new GormMessageRepository
func NewGormMessageRepository(db *gorm.DB) *GormMessageRepository {
	return &GormMessageRepository{db: db}
}

func (r *GormMessageRepository) Create(ctx context.Context, m *messaging.MessageLog) error {
	return insert(ctx, r.db, m)
}

func (r *GormMessageRepository) Save(ctx context.Context, m *messaging.MessageLog) error {
	return saveVersioned(ctx, r.db, m)
}

func (r *GormMessageRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*messaging.MessageLog, error) {
	return findByID[messaging.MessageLog](ctx, r.db, tenantID, id)
}

func (r *GormMessageRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]messaging.MessageLog, int64, error) {
	return findPage[messaging.MessageLog](ctx, r.db, tenantID, filter, messageListSpec)
}

// GormListingRepository implements marketplace.ListingRepository using GORM
type GormListingRepository struct {
	db *gorm.DB
}

// NewGormListingRepository creates a new GormListingRepository
func NewGormListingRepository(db *gorm.DB) *GormListingRepository {
	return &GormListingRepository{db: db}
}

func (r *GormListingRepository) Create(ctx context.Context, l *marketplace.Listing) error {
	return insert(ctx, r.db, l)
}

func (r *GormListingRepository) Save(ctx context.Context, l *marketplace.Listing) error {
	return saveVersioned(ctx, r.db, l)
}

func (r *GormListingRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*marketplace.Listing, error) {
	return findByID[marketplace.Listing](ctx, r.db, tenantID, id)
}

func (r *GormListingRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]marketplace.Listing, int64, error) {
	return findPage[marketplace.Listing](ctx, r.db, tenantID, filter, listingListSpec)
}

func (r *GormListingRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteByID[marketplace.Listing](ctx, r.db, tenantID, id)
}

func (r *GormListingRepository) FindStale(ctx context.Context, cutoff time.Time, limit int) ([]marketplace.Listing, error) {
	items := make([]marketplace.Listing, 0)
	err := r.db.WithContext(ctx).
		Where("status = ?", marketplace.ListingStatusActive).
		Where("last_synced_at IS NULL OR last_synced_at < ?", cutoff).
		Order("last_synced_at ASC NULLS FIRST").
		Limit(limit).
		Find(&items).Error
	return items, err
}

// GormPointRepository implements gamification.PointRepository using GORM
type GormPointRepository struct {
	db *gorm.DB
}

// NewGormPointRepository creates a new GormPointRepository
func NewGormPointRepository(db *gorm.DB) *GormPointRepository {
	return &GormPointRepository{db: db}
}

func (r *GormPointRepository) Create(ctx context.Context, e *gamification.PointEntry) error {
	return insert(ctx, r.db, e)
}

// ExistsForReference reports whether the user already earned points for a document
func (r *GormPointRepository) ExistsForReference(ctx context.Context, tenantID, userID uuid.UUID, reason gamification.Reason, refID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gamification.PointEntry{}).
		Where("tenant_id = ? AND user_id = ? AND reason = ? AND reference_id = ?", tenantID, userID, reason, refID).
		Count(&count).Error
	return count > 0, err
}

func (r *GormPointRepository) FindByUser(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) ([]gamification.PointEntry, int64, error) {
	return findPage[gamification.PointEntry](ctx, r.db, tenantID, filter, pointListSpec, func(db *gorm.DB) *gorm.DB {
		return db.Where("user_id = ?", userID)
	})
}

func (r *GormPointRepository) TotalForUser(ctx context.Context, tenantID, userID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&gamification.PointEntry{}).
		Select("COALESCE(SUM(points), 0)").
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Scan(&total).Error
	return total, err
}

// Leaderboard ranks users by points earned in the period; ties share a rank
func (r *GormPointRepository) Leaderboard(ctx context.Context, tenantID uuid.UUID, period gamification.Period, limit int) ([]gamification.LeaderboardEntry, error) {
	if limit <= 0 || limit > shared.MaxPageSize {
		limit = 10
	}
	var rows []gamification.LeaderboardEntry
	err := r.db.WithContext(ctx).Model(&gamification.PointEntry{}).
		Select("user_id, SUM(points) AS points").
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, period.From, period.To).
		Group("user_id").
		Order("points DESC, user_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if i > 0 && rows[i].Points == rows[i-1].Points {
			rows[i].Rank = rows[i-1].Rank
		} else {
			rows[i].Rank = i + 1
		}
	}
	if rows == nil {
		rows = []gamification.LeaderboardEntry{}
	}
	return rows, nil
}

// GormBadgeRepository implements gamification.BadgeRepository using GORM
type GormBadgeRepository struct {
	db *gorm.DB
}

// NewGormBadgeRepository creates a new GormBadgeRepository
func NewGormBadgeRepository(db *gorm.DB) *GormBadgeRepository {
	return &GormBadgeRepository{db: db}
}

func (r *GormBadgeRepository) Create(ctx context.Context, b *gamification.Badge) error {
	return insert(ctx, r.db, b)
}

func (r *GormBadgeRepository) Save(ctx context.Context, b *gamification.Badge) error {
	return saveVersioned(ctx, r.db, b)
}

func (r *GormBadgeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*gamification.Badge, error) {
	return findByID[gamification.Badge](ctx, r.db, tenantID, id)
}

// FindAll returns every badge ordered by threshold
func (r *GormBadgeRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]gamification.Badge, error) {
	badges := make([]gamification.Badge, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("threshold ASC").
		Find(&badges).Error
	return badges, err
}

func (r *GormBadgeRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&gamification.Badge{}).
		Where("tenant_id = ? AND code = ?", tenantID, code).
		Count(&count).Error
	return count > 0, err
}

func (r *GormBadgeRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND badge_id = ?", tenantID, id).Delete(&gamification.UserBadge{}).Error; err != nil {
			return err
		}
		return deleteByID[gamification.Badge](ctx, tx, tenantID, id)
	})
}

// Award stores a user badge; the unique (user_id, badge_id) index makes repeats a no-op
func (r *GormBadgeRepository) Award(ctx context.Context, ub *gamification.UserBadge) error {
	err := insert(ctx, r.db, ub)
	if errors.Is(err, shared.ErrAlreadyExists) {
		return nil
	}
	return err
}

func (r *GormBadgeRepository) FindUserBadges(ctx context.Context, tenantID, userID uuid.UUID) ([]gamification.UserBadge, error) {
	rows := make([]gamification.UserBadge, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND user_id = ?", tenantID, userID).
		Order("awarded_at ASC").
		Find(&rows).Error
	return rows, err
}

var (
	_ messaging.MessageRepository   = (*GormMessageRepository)(nil)
	_ marketplace.ListingRepository = (*GormListingRepository)(nil)
	_ gamification.PointRepository  = (*GormPointRepository)(nil)
	_ gamification.BadgeRepository  = (*GormBadgeRepository)(nil)
)
