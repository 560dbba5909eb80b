package gamification

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/gamification"
)

// AwardPointsRequest grants or removes points by hand
type AwardPointsRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
	Points int       `json:"points" binding:"required"`
	Note   string    `json:"note" binding:"required,max=255"`
}

type PointEntryResponse struct {
	ID            uuid.UUID  `json:"id"`
	UserID        uuid.UUID  `json:"user_id"`
	Points        int        `json:"points"`
	Reason        string     `json:"reason"`
	ReferenceType string     `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID `json:"reference_id,omitempty"`
	Note          string     `json:"note,omitempty"`
	AwardedBy     *uuid.UUID `json:"awarded_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

func toPointEntryResponse(e *gamification.PointEntry) PointEntryResponse {
	return PointEntryResponse{
		ID:            e.ID,
		UserID:        e.UserID,
		Points:        e.Points,
		Reason:        string(e.Reason),
		ReferenceType: e.ReferenceType,
		ReferenceID:   e.ReferenceID,
		Note:          e.Note,
		AwardedBy:     e.AwardedBy,
		CreatedAt:     e.CreatedAt,
	}
}

// LeaderboardFilter selects the period; it defaults to the current month and to is inclusive
type LeaderboardFilter struct {
	From  time.Time `form:"from" time_format:"2006-01-02"`
	To    time.Time `form:"to" time_format:"2006-01-02"`
	Limit int       `form:"limit" binding:"omitempty,min=1,max=100"`
}

type LeaderboardRow struct {
	Rank   int       `json:"rank"`
	UserID uuid.UUID `json:"user_id"`
	Name   string    `json:"name"`
	Points int64     `json:"points"`
}

type CreateBadgeRequest struct {
	Code        string `json:"code" binding:"required,max=50"`
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
	Icon        string `json:"icon" binding:"max=100"`
	Threshold   int    `json:"threshold" binding:"required,min=1"`
}

type UpdateBadgeRequest struct {
	Name        string `json:"name" binding:"required,max=100"`
	Description string `json:"description" binding:"max=255"`
	Icon        string `json:"icon" binding:"max=100"`
	Threshold   int    `json:"threshold" binding:"required,min=1"`
	IsActive    bool   `json:"is_active"`
}

type BadgeResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Threshold   int       `json:"threshold"`
	IsActive    bool      `json:"is_active"`
	Version     int       `json:"version"`
}

func toBadgeResponse(b *gamification.Badge) BadgeResponse {
	return BadgeResponse{
		ID:          b.ID,
		Code:        b.Code,
		Name:        b.Name,
		Description: b.Description,
		Icon:        b.Icon,
		Threshold:   b.Threshold,
		IsActive:    b.IsActive,
		Version:     b.Version,
	}
}

type AwardedBadgeResponse struct {
	BadgeResponse
	AwardedAt time.Time `json:"awarded_at"`
}

// UserProgressResponse is the lifetime total of a user with the badges held
type UserProgressResponse struct {
	UserID      uuid.UUID              `json:"user_id"`
	TotalPoints int64                  `json:"total_points"`
	Badges      []AwardedBadgeResponse `json:"badges"`
}
