package diagnostic

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// NodeLoader loads nodes with their options
type NodeLoader interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Node, error)
}

// Step is one answered question of a walk
type Step struct {
	Node   *Node
	Option *Option
}

// WalkResult is the path taken and where it ended
type WalkResult struct {
	Steps []Step
	Final *Node
	// Complete is true when the walk ended on a solution or on an option without a next node
	Complete bool
}

// Answer follows optionID from node and returns the next node, or nil when the option ends the walk
func Answer(ctx context.Context, loader NodeLoader, node *Node, optionID uuid.UUID) (*Node, *Option, error) {
	if node.IsSolution() {
		return nil, nil, shared.NewDomainError("WALK_FINISHED", "Solution nodes have no options")
	}
	opt, ok := node.Option(optionID)
	if !ok {
		return nil, nil, shared.NewDomainError("OPTION_NOT_FOUND", "Option does not belong to the node")
	}
	if opt.NextNodeID == nil {
		return nil, opt, nil
	}
	next, err := loader.FindByID(ctx, node.TenantID, *opt.NextNodeID)
	if err != nil {
		return nil, nil, err
	}
	return next, opt, nil
}

// Walk follows the answers from root. It stops at a solution node, at an option without a
// next node, or when the answers run out. The number of answers bounds the walk.
func Walk(ctx context.Context, loader NodeLoader, root *Node, answers []uuid.UUID) (*WalkResult, error) {
	res := &WalkResult{Final: root}
	current := root
	for _, optionID := range answers {
		if current.IsSolution() {
			break
		}
		next, opt, err := Answer(ctx, loader, current, optionID)
		if err != nil {
			return nil, err
		}
		res.Steps = append(res.Steps, Step{Node: current, Option: opt})
		if next == nil {
			res.Complete = true
			return res, nil
		}
		current = next
		res.Final = current
	}
	res.Complete = current.IsSolution()
	return res, nil
}
