package kanban

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// Card is a unit of work on a board, optionally linked to a service order
type Card struct {
	shared.TenantAggregateRoot
	ColumnID       uuid.UUID                   `gorm:"type:uuid;not null;index"`
	ServiceOrderID *uuid.UUID                  `gorm:"type:uuid;index"`
	Title          string                      `gorm:"type:varchar(200);not null"`
	Description    string                      `gorm:"type:text"`
	Swimlane       string                      `gorm:"type:varchar(100)"`
	Position       int                         `gorm:"not null"`
	AssigneeID     *uuid.UUID                  `gorm:"type:uuid"`
	Labels         datatypes.JSONSlice[string] `gorm:"type:jsonb"`
}

func (Card) TableName() string {
	return "kanban_cards"
}

// CardContent are the editable fields of a card
type CardContent struct {
	Title       string
	Description string
	Swimlane    string
	AssigneeID  *uuid.UUID
	Labels      []string
}

// NewCard creates a card in columnID at position
func NewCard(tenantID, columnID uuid.UUID, serviceOrderID *uuid.UUID, position int, content CardContent) (*Card, error) {
	c := &Card{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		ColumnID:            columnID,
		ServiceOrderID:      serviceOrderID,
		Position:            position,
	}
	if err := c.apply(content); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the card content
func (c *Card) Update(content CardContent) error {
	if err := c.apply(content); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Card) apply(content CardContent) error {
	title := strings.TrimSpace(content.Title)
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Card title must have 1 to 200 characters")
	}
	labels := make([]string, 0, len(content.Labels))
	for _, l := range content.Labels {
		if l = strings.TrimSpace(l); l != "" {
			labels = append(labels, l)
		}
	}
	c.Title = title
	c.Description = content.Description
	c.Swimlane = strings.TrimSpace(content.Swimlane)
	c.AssigneeID = content.AssigneeID
	c.Labels = labels
	return nil
}

func (c *Card) place(columnID uuid.UUID, pos int) bool {
	if c.ColumnID == columnID && c.Position == pos {
		return false
	}
	c.ColumnID = columnID
	c.Position = pos
	c.IncrementVersion()
	return true
}

// MoveResult lists the cards whose column or position changed
type MoveResult struct {
	Changed       []*Card
	ColumnChanged bool
}

// MoveCard places card at position in target. sourceCards and targetCards are the current cards
// of the card's column and of the target column (the same slice for an in-column move).
// Positions of both columns are renumbered densely from 0. A move into a full column fails.
func MoveCard(card *Card, target *Column, sourceCards, targetCards []*Card, position int) (*MoveResult, error) {
	if card.TenantID != target.TenantID {
		return nil, shared.ErrNotFound
	}
	sameColumn := card.ColumnID == target.ID
	if !sameColumn && target.IsFull(len(targetCards)) {
		return nil, shared.NewDomainError("WIP_LIMIT_EXCEEDED",
			"Column "+target.Name+" reached its WIP limit")
	}

	changed := map[uuid.UUID]*Card{}
	if !sameColumn {
		rest := without(sortedByPosition(sourceCards), card.ID)
		for i, c := range rest {
			if c.place(c.ColumnID, i) {
				changed[c.ID] = c
			}
		}
	}

	lane := without(sortedByPosition(targetCards), card.ID)
	if position < 0 {
		position = 0
	}
	if position > len(lane) {
		position = len(lane)
	}
	lane = append(lane[:position], append([]*Card{card}, lane[position:]...)...)
	for i, c := range lane {
		if c.place(target.ID, i) {
			changed[c.ID] = c
		}
	}

	res := &MoveResult{ColumnChanged: !sameColumn}
	for _, c := range changed {
		res.Changed = append(res.Changed, c)
	}
	sort.Slice(res.Changed, func(i, j int) bool { return res.Changed[i].Position < res.Changed[j].Position })
	return res, nil
}

func sortedByPosition(cards []*Card) []*Card {
	out := append([]*Card(nil), cards...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}

func without(cards []*Card, id uuid.UUID) []*Card {
	out := cards[:0:0]
	for _, c := range cards {
		if c.ID != id {
			out = append(out, c)
		}
	}
	return out
}

// AssignTo sets the assignee when the card has none and reports whether it changed.
// It does not bump the version: it is saved together with the move that triggered it.
func (c *Card) AssignTo(userID uuid.UUID) bool {
	if c.AssigneeID != nil {
		return false
	}
	c.AssigneeID = &userID
	return true
}
