// Package diagnostic serves the troubleshooting wizard used at intake
package diagnostic

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/diagnostic"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// WizardService edits wizard trees and walks them
type WizardService struct {
	nodeRepo diagnostic.NodeRepository
	logger   *zap.Logger
}

// NewWizardService creates a new WizardService
func NewWizardService(nodeRepo diagnostic.NodeRepository, logger *zap.Logger) *WizardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WizardService{nodeRepo: nodeRepo, logger: logger}
}

// CreateNode adds a node. A category has at most one root.
func (s *WizardService) CreateNode(ctx context.Context, tenantID uuid.UUID, req NodeRequest) (*NodeResponse, error) {
	node, err := diagnostic.NewNode(tenantID, req.Category, content(req))
	if err != nil {
		return nil, err
	}
	if node.IsRoot {
		if err := s.checkSingleRoot(ctx, tenantID, node.Category, node.ID); err != nil {
			return nil, err
		}
	}
	if err := s.nodeRepo.Create(ctx, node); err != nil {
		return nil, err
	}
	resp := toNodeResponse(node)
	return &resp, nil
}

// GetNode loads one node with its options
func (s *WizardService) GetNode(ctx context.Context, tenantID, id uuid.UUID) (*NodeResponse, error) {
	node, err := s.nodeRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toNodeResponse(node)
	return &resp, nil
}

// ListNodes returns one page of nodes. Filters: category, kind, is_root.
func (s *WizardService) ListNodes(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[NodeResponse], error) {
	filter.Normalize()
	nodes, total, err := s.nodeRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]NodeResponse, len(nodes))
	for i := range nodes {
		items[i] = toNodeResponse(&nodes[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// UpdateNode replaces the node content. The category cannot change.
func (s *WizardService) UpdateNode(ctx context.Context, tenantID, id uuid.UUID, req NodeRequest) (*NodeResponse, error) {
	node, err := s.nodeRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if req.IsRoot && !node.IsRoot {
		if err := s.checkSingleRoot(ctx, tenantID, node.Category, node.ID); err != nil {
			return nil, err
		}
	}
	if err := node.Update(content(req)); err != nil {
		return nil, err
	}
	if err := s.nodeRepo.Save(ctx, node); err != nil {
		return nil, err
	}
	resp := toNodeResponse(node)
	return &resp, nil
}

// DeleteNode removes a node nobody points to
func (s *WizardService) DeleteNode(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.nodeRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	refs, err := s.nodeRepo.CountReferences(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if refs > 0 {
		return shared.NewDomainError("NODE_IN_USE", "Options of other nodes still lead to this node")
	}
	return s.nodeRepo.Delete(ctx, tenantID, id)
}

// AddOption appends an answer to a question node
func (s *WizardService) AddOption(ctx context.Context, tenantID, nodeID uuid.UUID, req OptionRequest) (*NodeResponse, error) {
	node, err := s.nodeRepo.FindByID(ctx, tenantID, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNextNode(ctx, node, req.NextNodeID); err != nil {
		return nil, err
	}
	opt, err := node.AddOption(req.Label, req.NextNodeID)
	if err != nil {
		return nil, err
	}
	if req.Position != nil {
		opt.Position = *req.Position
	}
	if err := s.nodeRepo.Save(ctx, node); err != nil {
		return nil, err
	}
	resp := toNodeResponse(node)
	return &resp, nil
}

// UpdateOption changes an answer of a node
func (s *WizardService) UpdateOption(ctx context.Context, tenantID, nodeID, optionID uuid.UUID, req OptionRequest) (*NodeResponse, error) {
	node, err := s.nodeRepo.FindByID(ctx, tenantID, nodeID)
	if err != nil {
		return nil, err
	}
	if err := s.checkNextNode(ctx, node, req.NextNodeID); err != nil {
		return nil, err
	}
	current, ok := node.Option(optionID)
	if !ok {
		return nil, shared.NewDomainError("OPTION_NOT_FOUND", "Option does not belong to the node")
	}
	position := current.Position
	if req.Position != nil {
		position = *req.Position
	}
	if _, err := node.UpdateOption(optionID, req.Label, req.NextNodeID, position); err != nil {
		return nil, err
	}
	if err := s.nodeRepo.Save(ctx, node); err != nil {
		return nil, err
	}
	resp := toNodeResponse(node)
	return &resp, nil
}

// RemoveOption deletes an answer of a node
func (s *WizardService) RemoveOption(ctx context.Context, tenantID, nodeID, optionID uuid.UUID) (*NodeResponse, error) {
	node, err := s.nodeRepo.FindByID(ctx, tenantID, nodeID)
	if err != nil {
		return nil, err
	}
	if err := node.RemoveOption(optionID); err != nil {
		return nil, err
	}
	if err := s.nodeRepo.Save(ctx, node); err != nil {
		return nil, err
	}
	resp := toNodeResponse(node)
	return &resp, nil
}

// Tree returns every node of a category with the root first
func (s *WizardService) Tree(ctx context.Context, tenantID uuid.UUID, category string) (*TreeResponse, error) {
	category = normalizeCategory(category)
	nodes, err := s.nodeRepo.FindByCategory(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}
	resp := &TreeResponse{Category: category, Nodes: make([]NodeResponse, 0, len(nodes))}
	for i := range nodes {
		if nodes[i].IsRoot {
			id := nodes[i].ID
			resp.RootID = &id
			resp.Nodes = append([]NodeResponse{toNodeResponse(&nodes[i])}, resp.Nodes...)
			continue
		}
		resp.Nodes = append(resp.Nodes, toNodeResponse(&nodes[i]))
	}
	return resp, nil
}

// Start returns the root question of a category
func (s *WizardService) Start(ctx context.Context, tenantID uuid.UUID, category string) (*NodeResponse, error) {
	root, err := s.root(ctx, tenantID, category)
	if err != nil {
		return nil, err
	}
	resp := toNodeResponse(root)
	return &resp, nil
}

// Answer follows one option and returns the next node
func (s *WizardService) Answer(ctx context.Context, tenantID uuid.UUID, req AnswerRequest) (*AnswerResponse, error) {
	node, err := s.nodeRepo.FindByID(ctx, tenantID, req.NodeID)
	if err != nil {
		return nil, err
	}
	next, opt, err := diagnostic.Answer(ctx, s.nodeRepo, node, req.OptionID)
	if err != nil {
		return nil, err
	}
	resp := &AnswerResponse{Option: toOptionResponse(opt), Finished: next == nil}
	if next != nil {
		n := toNodeResponse(next)
		resp.Node = &n
		resp.Finished = next.IsSolution()
	}
	return resp, nil
}

// Walk replays the answers from the root of a category
func (s *WizardService) Walk(ctx context.Context, tenantID uuid.UUID, req WalkRequest) (*WalkResponse, error) {
	root, err := s.root(ctx, tenantID, req.Category)
	if err != nil {
		return nil, err
	}
	res, err := diagnostic.Walk(ctx, s.nodeRepo, root, req.Answers)
	if err != nil {
		return nil, err
	}
	resp := &WalkResponse{
		Path:     make([]StepResponse, len(res.Steps)),
		Final:    toNodeResponse(res.Final),
		Complete: res.Complete,
	}
	for i, step := range res.Steps {
		resp.Path[i] = StepResponse{
			NodeID:   step.Node.ID,
			Question: step.Node.Title,
			OptionID: step.Option.ID,
			Answer:   step.Option.Label,
		}
	}
	return resp, nil
}

func (s *WizardService) root(ctx context.Context, tenantID uuid.UUID, category string) (*diagnostic.Node, error) {
	root, err := s.nodeRepo.FindRoot(ctx, tenantID, normalizeCategory(category))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.NewDomainError("ROOT_NOT_FOUND", "No wizard configured for category "+category)
	}
	return root, err
}

func (s *WizardService) checkSingleRoot(ctx context.Context, tenantID uuid.UUID, category string, self uuid.UUID) error {
	existing, err := s.nodeRepo.FindRoot(ctx, tenantID, category)
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != self {
		return shared.NewDomainError("ROOT_ALREADY_EXISTS", "Category "+category+" already has a root node")
	}
	return nil
}

func (s *WizardService) checkNextNode(ctx context.Context, node *diagnostic.Node, next *uuid.UUID) error {
	if next == nil || *next == node.ID {
		return nil
	}
	target, err := s.nodeRepo.FindByID(ctx, node.TenantID, *next)
	if errors.Is(err, shared.ErrNotFound) {
		return shared.NewDomainError("NEXT_NODE_NOT_FOUND", "Next node does not exist")
	}
	if err != nil {
		return err
	}
	if target.Category != node.Category {
		return shared.NewDomainError("INVALID_NEXT_NODE", "Next node belongs to another category")
	}
	return nil
}

func content(req NodeRequest) diagnostic.NodeContent {
	return diagnostic.NodeContent{
		Kind:             diagnostic.NodeKind(req.Kind),
		Title:            req.Title,
		Body:             req.Body,
		IsRoot:           req.IsRoot,
		EstimatedCost:    req.EstimatedCost,
		EstimatedMinutes: req.EstimatedMinutes,
	}
}

func normalizeCategory(c string) string {
	return strings.ToLower(strings.TrimSpace(c))
}
