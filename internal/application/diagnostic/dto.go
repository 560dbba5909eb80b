package diagnostic

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/diagnostic"
	"github.com/shopspring/decimal"
)

// NodeRequest creates or replaces a wizard node
type NodeRequest struct {
	Category         string           `json:"category" binding:"required,max=100"`
	Kind             string           `json:"kind" binding:"required,oneof=question solution"`
	Title            string           `json:"title" binding:"required,max=200"`
	Body             string           `json:"body"`
	IsRoot           bool             `json:"is_root"`
	EstimatedCost    *decimal.Decimal `json:"estimated_cost"`
	EstimatedMinutes *int             `json:"estimated_minutes" binding:"omitempty,min=0"`
}

// OptionRequest creates or replaces an answer of a question
type OptionRequest struct {
	Label      string     `json:"label" binding:"required,max=200"`
	NextNodeID *uuid.UUID `json:"next_node_id"`
	Position   *int       `json:"position" binding:"omitempty,min=0"`
}

// AnswerRequest picks an option of the current node
type AnswerRequest struct {
	NodeID   uuid.UUID `json:"node_id" binding:"required"`
	OptionID uuid.UUID `json:"option_id" binding:"required"`
}

// WalkRequest replays a whole session from the root of a category
type WalkRequest struct {
	Category string      `json:"category" binding:"required"`
	Answers  []uuid.UUID `json:"answers"`
}

// OptionResponse represents an answer
type OptionResponse struct {
	ID         uuid.UUID  `json:"id"`
	Label      string     `json:"label"`
	NextNodeID *uuid.UUID `json:"next_node_id,omitempty"`
	Position   int        `json:"position"`
}

// NodeResponse represents a node with its options in display order
type NodeResponse struct {
	ID               uuid.UUID        `json:"id"`
	Category         string           `json:"category"`
	Kind             string           `json:"kind"`
	Title            string           `json:"title"`
	Body             string           `json:"body"`
	IsRoot           bool             `json:"is_root"`
	EstimatedCost    *decimal.Decimal `json:"estimated_cost,omitempty"`
	EstimatedMinutes *int             `json:"estimated_minutes,omitempty"`
	Options          []OptionResponse `json:"options"`
	UpdatedAt        time.Time        `json:"updated_at"`
	Version          int              `json:"version"`
}

// AnswerResponse is where an answer leads. Node is nil when the option ends the session.
type AnswerResponse struct {
	Option   OptionResponse `json:"option"`
	Node     *NodeResponse  `json:"node,omitempty"`
	Finished bool           `json:"finished"`
}

// StepResponse is one answered question
type StepResponse struct {
	NodeID   uuid.UUID `json:"node_id"`
	Question string    `json:"question"`
	OptionID uuid.UUID `json:"option_id"`
	Answer   string    `json:"answer"`
}

// WalkResponse is the replayed path and where it stopped
type WalkResponse struct {
	Path     []StepResponse `json:"path"`
	Final    NodeResponse   `json:"final"`
	Complete bool           `json:"complete"`
}

// TreeResponse lists every node of a category, root first
type TreeResponse struct {
	Category string         `json:"category"`
	RootID   *uuid.UUID     `json:"root_id,omitempty"`
	Nodes    []NodeResponse `json:"nodes"`
}

func toOptionResponse(o *diagnostic.Option) OptionResponse {
	return OptionResponse{ID: o.ID, Label: o.Label, NextNodeID: o.NextNodeID, Position: o.Position}
}

func toNodeResponse(n *diagnostic.Node) NodeResponse {
	sorted := n.SortedOptions()
	opts := make([]OptionResponse, len(sorted))
	for i := range sorted {
		opts[i] = toOptionResponse(&sorted[i])
	}
	return NodeResponse{
		ID:               n.ID,
		Category:         n.Category,
		Kind:             string(n.Kind),
		Title:            n.Title,
		Body:             n.Body,
		IsRoot:           n.IsRoot,
		EstimatedCost:    n.EstimatedCost,
		EstimatedMinutes: n.EstimatedMinutes,
		Options:          opts,
		UpdatedAt:        n.UpdatedAt,
		Version:          n.Version,
	}
}
