package diagnostic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/diagnostic"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// memoryNodes keeps nodes with their options by value
type memoryNodes struct {
	nodes map[uuid.UUID]diagnostic.Node
}

func (m *memoryNodes) Create(_ context.Context, n *diagnostic.Node) error {
	m.nodes[n.ID] = clone(n)
	return nil
}

func (m *memoryNodes) Save(_ context.Context, n *diagnostic.Node) error {
	if _, ok := m.nodes[n.ID]; !ok {
		return shared.ErrNotFound
	}
	m.nodes[n.ID] = clone(n)
	return nil
}

func (m *memoryNodes) FindByID(_ context.Context, tenantID, id uuid.UUID) (*diagnostic.Node, error) {
	n, ok := m.nodes[id]
	if !ok || n.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	c := clone(&n)
	return &c, nil
}

func (m *memoryNodes) FindAll(_ context.Context, tenantID uuid.UUID, _ shared.Filter) ([]diagnostic.Node, int64, error) {
	out := []diagnostic.Node{}
	for _, n := range m.nodes {
		if n.TenantID == tenantID {
			out = append(out, clone(&n))
		}
	}
	return out, int64(len(out)), nil
}

func (m *memoryNodes) FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]diagnostic.Node, error) {
	all, _, _ := m.FindAll(ctx, tenantID, shared.Filter{})
	out := []diagnostic.Node{}
	for _, n := range all {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *memoryNodes) FindRoot(ctx context.Context, tenantID uuid.UUID, category string) (*diagnostic.Node, error) {
	nodes, _ := m.FindByCategory(ctx, tenantID, category)
	for i := range nodes {
		if nodes[i].IsRoot {
			return &nodes[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m *memoryNodes) CountReferences(_ context.Context, _ uuid.UUID, id uuid.UUID) (int64, error) {
	var n int64
	for _, node := range m.nodes {
		for _, o := range node.Options {
			if o.NextNodeID != nil && *o.NextNodeID == id && node.ID != id {
				n++
			}
		}
	}
	return n, nil
}

func (m *memoryNodes) Delete(_ context.Context, _ uuid.UUID, id uuid.UUID) error {
	delete(m.nodes, id)
	return nil
}

func clone(n *diagnostic.Node) diagnostic.Node {
	c := *n
	c.Options = append([]diagnostic.Option(nil), n.Options...)
	return c
}

type tree struct {
	svc      *WizardService
	root     *NodeResponse
	screen   *NodeResponse
	replace  *NodeResponse
	noPower  uuid.UUID
	cracked  uuid.UUID
	giveUp   uuid.UUID
	replaceO uuid.UUID
}

// buildTree creates: root "Does it power on?" -> yes: "Is the screen cracked?" -> yes: solution
func buildTree(t *testing.T) *tree {
	t.Helper()
	ctx := context.Background()
	svc := NewWizardService(&memoryNodes{nodes: map[uuid.UUID]diagnostic.Node{}}, nil)
	cost := decimal.NewFromInt(350)
	minutes := 60

	replace, err := svc.CreateNode(ctx, tenantID, NodeRequest{Category: "Smartphone", Kind: "solution", Title: "Replace the screen", EstimatedCost: &cost, EstimatedMinutes: &minutes})
	require.NoError(t, err)
	screen, err := svc.CreateNode(ctx, tenantID, NodeRequest{Category: "smartphone", Kind: "question", Title: "Is the screen cracked?"})
	require.NoError(t, err)
	root, err := svc.CreateNode(ctx, tenantID, NodeRequest{Category: "smartphone", Kind: "question", Title: "Does it power on?", IsRoot: true})
	require.NoError(t, err)

	root, err = svc.AddOption(ctx, tenantID, root.ID, OptionRequest{Label: "Yes", NextNodeID: &screen.ID})
	require.NoError(t, err)
	root, err = svc.AddOption(ctx, tenantID, root.ID, OptionRequest{Label: "No"})
	require.NoError(t, err)
	screen, err = svc.AddOption(ctx, tenantID, screen.ID, OptionRequest{Label: "Yes", NextNodeID: &replace.ID})
	require.NoError(t, err)
	screen, err = svc.AddOption(ctx, tenantID, screen.ID, OptionRequest{Label: "Not sure"})
	require.NoError(t, err)

	return &tree{
		svc: svc, root: root, screen: screen, replace: replace,
		noPower: root.Options[1].ID, cracked: screen.Options[0].ID, giveUp: screen.Options[1].ID,
		replaceO: root.Options[0].ID,
	}
}

func TestWizardService_Editing(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)
	assert.Equal(t, "smartphone", tr.replace.Category)
	require.Len(t, tr.root.Options, 2)
	assert.Equal(t, 1, tr.root.Options[1].Position)

	t.Run("one root per category", func(t *testing.T) {
		_, err := tr.svc.CreateNode(ctx, tenantID, NodeRequest{Category: "smartphone", Kind: "question", Title: "Another root", IsRoot: true})
		assert.Equal(t, "ROOT_ALREADY_EXISTS", shared.ErrorCode(err))
	})

	t.Run("next node must exist in the same category", func(t *testing.T) {
		missing := uuid.New()
		_, err := tr.svc.AddOption(ctx, tenantID, tr.root.ID, OptionRequest{Label: "?", NextNodeID: &missing})
		assert.Equal(t, "NEXT_NODE_NOT_FOUND", shared.ErrorCode(err))

		laptop, err := tr.svc.CreateNode(ctx, tenantID, NodeRequest{Category: "laptop", Kind: "solution", Title: "Clean fan"})
		require.NoError(t, err)
		_, err = tr.svc.AddOption(ctx, tenantID, tr.root.ID, OptionRequest{Label: "?", NextNodeID: &laptop.ID})
		assert.Equal(t, "INVALID_NEXT_NODE", shared.ErrorCode(err))
	})

	t.Run("solutions take no options", func(t *testing.T) {
		_, err := tr.svc.AddOption(ctx, tenantID, tr.replace.ID, OptionRequest{Label: "x"})
		assert.Equal(t, "INVALID_KIND", shared.ErrorCode(err))
	})

	t.Run("referenced nodes cannot be deleted", func(t *testing.T) {
		assert.Equal(t, "NODE_IN_USE", shared.ErrorCode(tr.svc.DeleteNode(ctx, tenantID, tr.screen.ID)))
	})

	t.Run("update and remove options", func(t *testing.T) {
		pos := 5
		node, err := tr.svc.UpdateOption(ctx, tenantID, tr.screen.ID, tr.giveUp, OptionRequest{Label: "Unsure", Position: &pos})
		require.NoError(t, err)
		assert.Equal(t, "Unsure", node.Options[1].Label)
		assert.Equal(t, 5, node.Options[1].Position)

		node, err = tr.svc.RemoveOption(ctx, tenantID, tr.screen.ID, tr.giveUp)
		require.NoError(t, err)
		assert.Len(t, node.Options, 1)
	})
}

func TestWizardService_Navigation(t *testing.T) {
	ctx := context.Background()
	tr := buildTree(t)

	start, err := tr.svc.Start(ctx, tenantID, " Smartphone ")
	require.NoError(t, err)
	assert.Equal(t, tr.root.ID, start.ID)

	_, err = tr.svc.Start(ctx, tenantID, "tablet")
	assert.Equal(t, "ROOT_NOT_FOUND", shared.ErrorCode(err))

	t.Run("answer leads to the next question", func(t *testing.T) {
		resp, err := tr.svc.Answer(ctx, tenantID, AnswerRequest{NodeID: tr.root.ID, OptionID: tr.replaceO})
		require.NoError(t, err)
		require.NotNil(t, resp.Node)
		assert.Equal(t, tr.screen.ID, resp.Node.ID)
		assert.False(t, resp.Finished)
	})

	t.Run("an option without next node finishes", func(t *testing.T) {
		resp, err := tr.svc.Answer(ctx, tenantID, AnswerRequest{NodeID: tr.root.ID, OptionID: tr.noPower})
		require.NoError(t, err)
		assert.Nil(t, resp.Node)
		assert.True(t, resp.Finished)
	})

	t.Run("foreign option", func(t *testing.T) {
		_, err := tr.svc.Answer(ctx, tenantID, AnswerRequest{NodeID: tr.root.ID, OptionID: tr.cracked})
		assert.Equal(t, "OPTION_NOT_FOUND", shared.ErrorCode(err))
	})

	t.Run("walk to a solution", func(t *testing.T) {
		resp, err := tr.svc.Walk(ctx, tenantID, WalkRequest{Category: "smartphone", Answers: []uuid.UUID{tr.replaceO, tr.cracked}})
		require.NoError(t, err)
		assert.True(t, resp.Complete)
		assert.Equal(t, tr.replace.ID, resp.Final.ID)
		require.Len(t, resp.Path, 2)
		assert.Equal(t, "Does it power on?", resp.Path[0].Question)
		assert.Equal(t, "Yes", resp.Path[1].Answer)
	})

	t.Run("walk stops when answers run out", func(t *testing.T) {
		resp, err := tr.svc.Walk(ctx, tenantID, WalkRequest{Category: "smartphone", Answers: []uuid.UUID{tr.replaceO}})
		require.NoError(t, err)
		assert.False(t, resp.Complete)
		assert.Equal(t, tr.screen.ID, resp.Final.ID)
	})

	t.Run("tree puts the root first", func(t *testing.T) {
		resp, err := tr.svc.Tree(ctx, tenantID, "smartphone")
		require.NoError(t, err)
		require.Len(t, resp.Nodes, 3)
		assert.Equal(t, tr.root.ID, *resp.RootID)
		assert.Equal(t, tr.root.ID, resp.Nodes[0].ID)
	})
}
