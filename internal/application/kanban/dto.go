package kanban

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/application/repair"
	"github.com/repairpos/backend/internal/domain/kanban"
)

// CreateColumnRequest adds a column at the end of a board
type CreateColumnRequest struct {
	Board                  string     `json:"board" binding:"max=50"`
	Name                   string     `json:"name" binding:"required,max=100"`
	Status                 string     `json:"status"`
	WIPLimit               int        `json:"wip_limit" binding:"min=0"`
	Color                  string     `json:"color"`
	AutoAssignTechnicianID *uuid.UUID `json:"auto_assign_technician_id"`
}

// UpdateColumnRequest replaces the column settings
type UpdateColumnRequest struct {
	Name                   string     `json:"name" binding:"required,max=100"`
	Status                 string     `json:"status"`
	WIPLimit               int        `json:"wip_limit" binding:"min=0"`
	Color                  string     `json:"color"`
	AutoAssignTechnicianID *uuid.UUID `json:"auto_assign_technician_id"`
}

// ReorderColumnsRequest lists every column of the board in the new order
type ReorderColumnsRequest struct {
	Board     string      `json:"board"`
	ColumnIDs []uuid.UUID `json:"column_ids" binding:"required,min=1"`
}

// CreateCardRequest puts a card at the bottom of a column
type CreateCardRequest struct {
	ColumnID       uuid.UUID  `json:"column_id" binding:"required"`
	ServiceOrderID *uuid.UUID `json:"service_order_id"`
	Title          string     `json:"title" binding:"required,max=200"`
	Description    string     `json:"description"`
	Swimlane       string     `json:"swimlane" binding:"max=100"`
	AssigneeID     *uuid.UUID `json:"assignee_id"`
	Labels         []string   `json:"labels"`
}

// UpdateCardRequest replaces the card content
type UpdateCardRequest struct {
	Title       string     `json:"title" binding:"required,max=200"`
	Description string     `json:"description"`
	Swimlane    string     `json:"swimlane" binding:"max=100"`
	AssigneeID  *uuid.UUID `json:"assignee_id"`
	Labels      []string   `json:"labels"`
}

// MoveCardRequest is a drag and drop
type MoveCardRequest struct {
	ColumnID uuid.UUID `json:"column_id" binding:"required"`
	Position int       `json:"position" binding:"min=0"`
}

// ColumnResponse represents a column
type ColumnResponse struct {
	ID                     uuid.UUID  `json:"id"`
	Board                  string     `json:"board"`
	Name                   string     `json:"name"`
	Status                 string     `json:"status,omitempty"`
	Position               int        `json:"position"`
	WIPLimit               int        `json:"wip_limit"`
	Color                  string     `json:"color,omitempty"`
	AutoAssignTechnicianID *uuid.UUID `json:"auto_assign_technician_id,omitempty"`
	Version                int        `json:"version"`
}

// CardResponse represents a card
type CardResponse struct {
	ID             uuid.UUID  `json:"id"`
	ColumnID       uuid.UUID  `json:"column_id"`
	ServiceOrderID *uuid.UUID `json:"service_order_id,omitempty"`
	Title          string     `json:"title"`
	Description    string     `json:"description"`
	Swimlane       string     `json:"swimlane"`
	Position       int        `json:"position"`
	AssigneeID     *uuid.UUID `json:"assignee_id,omitempty"`
	Labels         []string   `json:"labels"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Version        int        `json:"version"`
}

// SwimlaneView groups the cards of one column sharing a swimlane
type SwimlaneView struct {
	Name  string         `json:"name"`
	Cards []CardResponse `json:"cards"`
}

// ColumnView is a column with its cards
type ColumnView struct {
	ColumnResponse
	Count     int            `json:"count"`
	Full      bool           `json:"full"`
	Swimlanes []SwimlaneView `json:"swimlanes"`
}

// BoardResponse is the whole board as the SPA draws it
type BoardResponse struct {
	Board   string       `json:"board"`
	Columns []ColumnView `json:"columns"`
}

// MoveCardResponse is the moved card and, when it is linked, the updated service order
type MoveCardResponse struct {
	Card         CardResponse                 `json:"card"`
	Changed      []CardResponse               `json:"changed"`
	ServiceOrder *repair.ServiceOrderResponse `json:"service_order,omitempty"`
}

func toColumnResponse(c *kanban.Column) ColumnResponse {
	return ColumnResponse{
		ID:                     c.ID,
		Board:                  c.Board,
		Name:                   c.Name,
		Status:                 c.Status,
		Position:               c.Position,
		WIPLimit:               c.WIPLimit,
		Color:                  c.Color,
		AutoAssignTechnicianID: c.AutoAssignTechnicianID,
		Version:                c.Version,
	}
}

func toCardResponse(c *kanban.Card) CardResponse {
	labels := []string(c.Labels)
	if labels == nil {
		labels = []string{}
	}
	return CardResponse{
		ID:             c.ID,
		ColumnID:       c.ColumnID,
		ServiceOrderID: c.ServiceOrderID,
		Title:          c.Title,
		Description:    c.Description,
		Swimlane:       c.Swimlane,
		Position:       c.Position,
		AssigneeID:     c.AssigneeID,
		Labels:         labels,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		Version:        c.Version,
	}
}
