package gamification

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

var badgeCodePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)

// Badge is awarded once when a user's lifetime points reach Threshold
type Badge struct {
	shared.TenantAggregateRoot
	Code        string `gorm:"type:varchar(50);not null"`
	Name        string `gorm:"type:varchar(100);not null"`
	Description string `gorm:"type:varchar(255)"`
	Icon        string `gorm:"type:varchar(100)"`
	Threshold   int    `gorm:"not null"`
	IsActive    bool   `gorm:"not null"`
}

func (Badge) TableName() string {
	return "badges"
}

// NewBadge creates an active badge
func NewBadge(tenantID uuid.UUID, code, name, description, icon string, threshold int) (*Badge, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !badgeCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Badge code must start with a letter and contain only lowercase letters, digits and underscores")
	}
	b := &Badge{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		IsActive:            true,
	}
	if err := b.apply(name, description, icon, threshold); err != nil {
		return nil, err
	}
	return b, nil
}

// Update changes the badge definition
func (b *Badge) Update(name, description, icon string, threshold int, active bool) error {
	if err := b.apply(name, description, icon, threshold); err != nil {
		return err
	}
	b.IsActive = active
	b.IncrementVersion()
	return nil
}

func (b *Badge) apply(name, description, icon string, threshold int) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Badge name must have 1 to 100 characters")
	}
	if threshold <= 0 {
		return shared.NewDomainError("INVALID_THRESHOLD", "Threshold must be positive")
	}
	b.Name = name
	b.Description = description
	b.Icon = icon
	b.Threshold = threshold
	return nil
}

// UserBadge is the award of a badge to a user
type UserBadge struct {
	shared.TenantEntity
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	BadgeID   uuid.UUID `gorm:"type:uuid;not null"`
	AwardedAt time.Time `gorm:"not null"`
}

func (UserBadge) TableName() string {
	return "user_badges"
}

// EarnedBadges returns the active badges reached by total that the user does not hold yet
func EarnedBadges(tenantID, userID uuid.UUID, total int64, badges []Badge, held map[uuid.UUID]bool, at time.Time) []UserBadge {
	var out []UserBadge
	for _, b := range badges {
		if !b.IsActive || held[b.ID] || total < int64(b.Threshold) {
			continue
		}
		out = append(out, UserBadge{
			TenantEntity: shared.NewTenantEntity(tenantID),
			UserID:       userID,
			BadgeID:      b.ID,
			AwardedAt:    at,
		})
	}
	return out
}
