package gamification

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Reason explains why points were awarded
type Reason string

const (
	ReasonSale            Reason = "sale"
	ReasonRepairDelivered Reason = "repair_delivered"
	ReasonManual          Reason = "manual"
)

const (
	// PointsPerSaleUnit is the sale amount worth one point
	PointsPerSaleUnit = 100
	// RepairDeliveredPoints go to the technician of a delivered order
	RepairDeliveredPoints = 10
)

// PointEntry is one award of points to a user
type PointEntry struct {
	shared.TenantEntity
	UserID        uuid.UUID  `gorm:"type:uuid;not null;index"`
	Points        int        `gorm:"not null"`
	Reason        Reason     `gorm:"type:varchar(30);not null"`
	ReferenceType string     `gorm:"type:varchar(30)"`
	ReferenceID   *uuid.UUID `gorm:"type:uuid;index"`
	Note          string     `gorm:"type:varchar(255)"`
	AwardedBy     *uuid.UUID `gorm:"type:uuid"`
}

func (PointEntry) TableName() string {
	return "point_entries"
}

// SalePoints is one point per PointsPerSaleUnit of total, at least one
func SalePoints(total decimal.Decimal) int {
	p := total.Div(decimal.NewFromInt(PointsPerSaleUnit)).IntPart()
	if p < 1 {
		return 1
	}
	return int(p)
}

// NewPointEntry validates an award. Manual awards may be negative (corrections) but never zero.
func NewPointEntry(tenantID, userID uuid.UUID, points int, reason Reason, refType string, refID *uuid.UUID, note string, by *uuid.UUID) (*PointEntry, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("USER_REQUIRED", "User is required")
	}
	switch reason {
	case ReasonSale, ReasonRepairDelivered:
		if points <= 0 {
			return nil, shared.NewDomainError("INVALID_POINTS", "Points must be positive")
		}
	case ReasonManual:
		if points == 0 {
			return nil, shared.NewDomainError("INVALID_POINTS", "Points cannot be zero")
		}
		if strings.TrimSpace(note) == "" {
			return nil, shared.NewDomainError("REASON_REQUIRED", "Manual awards need a note")
		}
	default:
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown reason: "+string(reason))
	}
	return &PointEntry{
		TenantEntity:  shared.NewTenantEntity(tenantID),
		UserID:        userID,
		Points:        points,
		Reason:        reason,
		ReferenceType: refType,
		ReferenceID:   refID,
		Note:          note,
		AwardedBy:     by,
	}, nil
}

// LeaderboardEntry is the total of one user in a period
type LeaderboardEntry struct {
	UserID uuid.UUID `json:"user_id"`
	Points int64     `json:"points"`
	Rank   int       `json:"rank"`
}

// Period is a half-open time range
type Period struct {
	From time.Time
	To   time.Time
}
