package kanban

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// BoardRepairs is the board whose columns mirror service order statuses
const BoardRepairs = "repairs"

var colorPattern = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// Column is a lane of a kanban board.
// WIPLimit 0 means unlimited. Status links the column to a service order status.
type Column struct {
	shared.TenantAggregateRoot
	Board                  string     `gorm:"type:varchar(50);not null;index"`
	Name                   string     `gorm:"type:varchar(100);not null"`
	Status                 string     `gorm:"type:varchar(30)"`
	Position               int        `gorm:"not null"`
	WIPLimit               int        `gorm:"column:wip_limit;not null"`
	Color                  string     `gorm:"type:varchar(7)"`
	AutoAssignTechnicianID *uuid.UUID `gorm:"type:uuid"`
}

func (Column) TableName() string {
	return "kanban_columns"
}

// ColumnSettings are the editable fields of a column
type ColumnSettings struct {
	Name                   string
	Status                 string
	WIPLimit               int
	Color                  string
	AutoAssignTechnicianID *uuid.UUID
}

// NewColumn creates a column at position
func NewColumn(tenantID uuid.UUID, board string, position int, s ColumnSettings) (*Column, error) {
	board = strings.TrimSpace(board)
	if board == "" {
		board = BoardRepairs
	}
	c := &Column{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Board:               board,
		Position:            position,
	}
	if err := c.apply(s); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the column settings
func (c *Column) Update(s ColumnSettings) error {
	if err := c.apply(s); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

func (c *Column) apply(s ColumnSettings) error {
	name := strings.TrimSpace(s.Name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Column name must have 1 to 100 characters")
	}
	if s.WIPLimit < 0 {
		return shared.NewDomainError("INVALID_WIP_LIMIT", "WIP limit cannot be negative")
	}
	if s.Color != "" && !colorPattern.MatchString(s.Color) {
		return shared.NewDomainError("INVALID_COLOR", "Color must be a hex value like #1e90ff")
	}
	c.Name = name
	c.Status = s.Status
	c.WIPLimit = s.WIPLimit
	c.Color = s.Color
	c.AutoAssignTechnicianID = s.AutoAssignTechnicianID
	return nil
}

// IsFull reports whether a column holding count cards accepts no more
func (c *Column) IsFull(count int) bool {
	return c.WIPLimit > 0 && count >= c.WIPLimit
}

// SetPosition moves the column in the board order
func (c *Column) SetPosition(pos int) {
	if c.Position == pos {
		return
	}
	c.Position = pos
	c.IncrementVersion()
}
