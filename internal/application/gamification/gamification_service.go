// Package gamification awards points to the staff and keeps the leaderboard and badges
package gamification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/gamification"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const defaultLeaderboardLimit = 10

// GamificationService handles point awards, leaderboards and badges
type GamificationService struct {
	pointRepo gamification.PointRepository
	badgeRepo gamification.BadgeRepository
	userRepo  identity.UserRepository
	logger    *zap.Logger
	now       func() time.Time
}

func NewGamificationService(pointRepo gamification.PointRepository, badgeRepo gamification.BadgeRepository, userRepo identity.UserRepository, logger *zap.Logger) *GamificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GamificationService{
		pointRepo: pointRepo,
		badgeRepo: badgeRepo,
		userRepo:  userRepo,
		logger:    logger,
		now:       time.Now,
	}
}

// AwardManual records a manual award. Negative points correct earlier awards.
func (s *GamificationService) AwardManual(ctx context.Context, tenantID, awardedBy uuid.UUID, req AwardPointsRequest) (*PointEntryResponse, error) {
	if _, err := s.userRepo.FindByID(ctx, tenantID, req.UserID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
		}
		return nil, err
	}
	entry, err := gamification.NewPointEntry(tenantID, req.UserID, req.Points, gamification.ReasonManual, "", nil, req.Note, &awardedBy)
	if err != nil {
		return nil, err
	}
	if err := s.record(ctx, entry); err != nil {
		return nil, err
	}
	resp := toPointEntryResponse(entry)
	return &resp, nil
}

// record stores the entry and awards any badge the new total reaches
func (s *GamificationService) record(ctx context.Context, entry *gamification.PointEntry) error {
	if err := s.pointRepo.Create(ctx, entry); err != nil {
		return err
	}
	return s.awardBadges(ctx, entry.TenantID, entry.UserID)
}

func (s *GamificationService) awardBadges(ctx context.Context, tenantID, userID uuid.UUID) error {
	total, err := s.pointRepo.TotalForUser(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	badges, err := s.badgeRepo.FindAll(ctx, tenantID)
	if err != nil {
		return err
	}
	held, err := s.badgeRepo.FindUserBadges(ctx, tenantID, userID)
	if err != nil {
		return err
	}
	heldSet := make(map[uuid.UUID]bool, len(held))
	for _, ub := range held {
		heldSet[ub.BadgeID] = true
	}
	for _, ub := range gamification.EarnedBadges(tenantID, userID, total, badges, heldSet, s.now()) {
		if err := s.badgeRepo.Award(ctx, &ub); err != nil {
			return err
		}
		s.logger.Info("Badge awarded",
			zap.String("tenant_id", tenantID.String()),
			zap.String("user_id", userID.String()),
			zap.String("badge_id", ub.BadgeID.String()),
			zap.Int64("total_points", total))
	}
	return nil
}

func (s *GamificationService) ListEntries(ctx context.Context, tenantID, userID uuid.UUID, filter shared.Filter) (*shared.Paginated[PointEntryResponse], error) {
	filter.Normalize()
	rows, total, err := s.pointRepo.FindByUser(ctx, tenantID, userID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PointEntryResponse, len(rows))
	for i := range rows {
		items[i] = toPointEntryResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Leaderboard ranks users by points earned in the period. Tied users share a rank.
func (s *GamificationService) Leaderboard(ctx context.Context, tenantID uuid.UUID, filter LeaderboardFilter) ([]LeaderboardRow, error) {
	now := s.now()
	from, to := filter.From, filter.To
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if to.IsZero() {
		to = now
	} else {
		to = to.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "from must be before to")
	}
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultLeaderboardLimit
	}
	entries, err := s.pointRepo.Leaderboard(ctx, tenantID, gamification.Period{From: from, To: to}, limit)
	if err != nil {
		return nil, err
	}
	rows := make([]LeaderboardRow, len(entries))
	for i, e := range entries {
		rows[i] = LeaderboardRow{Rank: e.Rank, UserID: e.UserID, Points: e.Points, Name: s.userName(ctx, tenantID, e.UserID)}
	}
	return rows, nil
}

func (s *GamificationService) userName(ctx context.Context, tenantID, userID uuid.UUID) string {
	u, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		s.logger.Debug("Leaderboard user not found", zap.String("user_id", userID.String()), zap.Error(err))
		return ""
	}
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

// UserProgress returns the lifetime points and the badges of a user
func (s *GamificationService) UserProgress(ctx context.Context, tenantID, userID uuid.UUID) (*UserProgressResponse, error) {
	total, err := s.pointRepo.TotalForUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	held, err := s.badgeRepo.FindUserBadges(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	badges, err := s.badgeRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*gamification.Badge, len(badges))
	for i := range badges {
		byID[badges[i].ID] = &badges[i]
	}
	resp := &UserProgressResponse{UserID: userID, TotalPoints: total, Badges: []AwardedBadgeResponse{}}
	for _, ub := range held {
		b, ok := byID[ub.BadgeID]
		if !ok {
			continue
		}
		resp.Badges = append(resp.Badges, AwardedBadgeResponse{BadgeResponse: toBadgeResponse(b), AwardedAt: ub.AwardedAt})
	}
	return resp, nil
}

func (s *GamificationService) CreateBadge(ctx context.Context, tenantID uuid.UUID, req CreateBadgeRequest) (*BadgeResponse, error) {
	b, err := gamification.NewBadge(tenantID, req.Code, req.Name, req.Description, req.Icon, req.Threshold)
	if err != nil {
		return nil, err
	}
	exists, err := s.badgeRepo.ExistsByCode(ctx, tenantID, b.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("BADGE_CODE_EXISTS", "A badge with this code already exists")
	}
	if err := s.badgeRepo.Create(ctx, b); err != nil {
		return nil, err
	}
	resp := toBadgeResponse(b)
	return &resp, nil
}

func (s *GamificationService) GetBadge(ctx context.Context, tenantID, id uuid.UUID) (*BadgeResponse, error) {
	b, err := s.badgeRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toBadgeResponse(b)
	return &resp, nil
}

func (s *GamificationService) ListBadges(ctx context.Context, tenantID uuid.UUID) ([]BadgeResponse, error) {
	badges, err := s.badgeRepo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	out := make([]BadgeResponse, len(badges))
	for i := range badges {
		out[i] = toBadgeResponse(&badges[i])
	}
	return out, nil
}

// UpdateBadge changes a definition. Badges already awarded are kept when the threshold rises.
func (s *GamificationService) UpdateBadge(ctx context.Context, tenantID, id uuid.UUID, req UpdateBadgeRequest) (*BadgeResponse, error) {
	b, err := s.badgeRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := b.Update(req.Name, req.Description, req.Icon, req.Threshold, req.IsActive); err != nil {
		return nil, err
	}
	if err := s.badgeRepo.Save(ctx, b); err != nil {
		return nil, err
	}
	resp := toBadgeResponse(b)
	return &resp, nil
}

func (s *GamificationService) DeleteBadge(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.badgeRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.badgeRepo.Delete(ctx, tenantID, id)
}
