package diagnostic

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// NodeKind distinguishes questions from final answers
type NodeKind string

const (
	NodeKindQuestion NodeKind = "question"
	NodeKindSolution NodeKind = "solution"
)

// Node is a step of the troubleshooting wizard of a device category
type Node struct {
	shared.TenantAggregateRoot
	Category         string           `gorm:"type:varchar(100);not null;index"`
	Kind             NodeKind         `gorm:"type:varchar(20);not null"`
	Title            string           `gorm:"type:varchar(200);not null"`
	Body             string           `gorm:"type:text"`
	IsRoot           bool             `gorm:"not null"`
	EstimatedCost    *decimal.Decimal `gorm:"type:decimal(18,4)"`
	EstimatedMinutes *int
	Options          []Option `gorm:"foreignKey:NodeID"`
}

func (Node) TableName() string {
	return "diagnostic_nodes"
}

// Option is an answer of a question node. A nil NextNodeID ends the walk.
type Option struct {
	shared.TenantEntity
	NodeID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Label      string     `gorm:"type:varchar(200);not null"`
	NextNodeID *uuid.UUID `gorm:"type:uuid"`
	Position   int        `gorm:"not null"`
}

func (Option) TableName() string {
	return "diagnostic_options"
}

// NodeContent are the editable fields of a node
type NodeContent struct {
	Kind             NodeKind
	Title            string
	Body             string
	IsRoot           bool
	EstimatedCost    *decimal.Decimal
	EstimatedMinutes *int
}

// NewNode creates a wizard node
func NewNode(tenantID uuid.UUID, category string, c NodeContent) (*Node, error) {
	category = strings.ToLower(strings.TrimSpace(category))
	if category == "" {
		return nil, shared.NewDomainError("INVALID_CATEGORY", "Device category is required")
	}
	n := &Node{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Category:            category,
	}
	if err := n.apply(c); err != nil {
		return nil, err
	}
	return n, nil
}

// Update replaces the node content
func (n *Node) Update(c NodeContent) error {
	if err := n.apply(c); err != nil {
		return err
	}
	n.IncrementVersion()
	return nil
}

func (n *Node) apply(c NodeContent) error {
	if c.Kind != NodeKindQuestion && c.Kind != NodeKindSolution {
		return shared.NewDomainError("INVALID_KIND", "Node kind must be question or solution")
	}
	title := strings.TrimSpace(c.Title)
	if title == "" || len(title) > 200 {
		return shared.NewDomainError("INVALID_TITLE", "Node title must have 1 to 200 characters")
	}
	if c.Kind == NodeKindSolution && len(n.Options) > 0 {
		return shared.NewDomainError("INVALID_KIND", "A node with options cannot become a solution")
	}
	if c.EstimatedCost != nil && c.EstimatedCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Estimated cost cannot be negative")
	}
	if c.EstimatedMinutes != nil && *c.EstimatedMinutes < 0 {
		return shared.NewDomainError("INVALID_TIME", "Estimated time cannot be negative")
	}
	n.Kind = c.Kind
	n.Title = title
	n.Body = c.Body
	n.IsRoot = c.IsRoot
	n.EstimatedCost = c.EstimatedCost
	n.EstimatedMinutes = c.EstimatedMinutes
	return nil
}

func (n *Node) IsSolution() bool {
	return n.Kind == NodeKindSolution
}

// AddOption appends an answer to a question node
func (n *Node) AddOption(label string, next *uuid.UUID) (*Option, error) {
	if n.IsSolution() {
		return nil, shared.NewDomainError("INVALID_KIND", "Solution nodes have no options")
	}
	label = strings.TrimSpace(label)
	if label == "" || len(label) > 200 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Option label must have 1 to 200 characters")
	}
	if next != nil && *next == n.ID {
		return nil, shared.NewDomainError("INVALID_NEXT_NODE", "An option cannot point to its own node")
	}
	o := Option{
		TenantEntity: shared.NewTenantEntity(n.TenantID),
		NodeID:       n.ID,
		Label:        label,
		NextNodeID:   next,
		Position:     len(n.Options),
	}
	n.Options = append(n.Options, o)
	n.IncrementVersion()
	return &n.Options[len(n.Options)-1], nil
}

// UpdateOption changes the label, target or position of an option
func (n *Node) UpdateOption(id uuid.UUID, label string, next *uuid.UUID, position int) (*Option, error) {
	o, ok := n.Option(id)
	if !ok {
		return nil, shared.NewDomainError("OPTION_NOT_FOUND", "Option does not belong to the node")
	}
	label = strings.TrimSpace(label)
	if label == "" || len(label) > 200 {
		return nil, shared.NewDomainError("INVALID_LABEL", "Option label must have 1 to 200 characters")
	}
	if next != nil && *next == n.ID {
		return nil, shared.NewDomainError("INVALID_NEXT_NODE", "An option cannot point to its own node")
	}
	o.Label = label
	o.NextNodeID = next
	o.Position = position
	o.Touch()
	n.IncrementVersion()
	return o, nil
}

// RemoveOption deletes an option
func (n *Node) RemoveOption(id uuid.UUID) error {
	for i := range n.Options {
		if n.Options[i].ID == id {
			n.Options = append(n.Options[:i], n.Options[i+1:]...)
			n.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("OPTION_NOT_FOUND", "Option does not belong to the node")
}

// Option returns the option with the given ID
func (n *Node) Option(id uuid.UUID) (*Option, bool) {
	for i := range n.Options {
		if n.Options[i].ID == id {
			return &n.Options[i], true
		}
	}
	return nil, false
}

// SortedOptions returns the options ordered by position
func (n *Node) SortedOptions() []Option {
	out := append([]Option(nil), n.Options...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
