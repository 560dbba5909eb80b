package diagnostic

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type mapLoader map[uuid.UUID]*Node

func (m mapLoader) FindByID(_ context.Context, _ uuid.UUID, id uuid.UUID) (*Node, error) {
	n, ok := m[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return n, nil
}

func node(t *testing.T, kind NodeKind, title string) *Node {
	t.Helper()
	n, err := NewNode(tenantID, "Smartphone", NodeContent{Kind: kind, Title: title})
	require.NoError(t, err)
	return n
}

// buildTree: "Does it power on?" -> no -> "Does it charge?" -> no -> solution "Replace charging port"
func buildTree(t *testing.T) (mapLoader, *Node, []uuid.UUID) {
	root := node(t, NodeKindQuestion, "Does it power on?")
	charge := node(t, NodeKindQuestion, "Does it charge?")
	port := node(t, NodeKindSolution, "Replace charging port")

	_, err := root.AddOption("Yes", nil)
	require.NoError(t, err)
	no, err := root.AddOption("No", &charge.ID)
	require.NoError(t, err)
	noCharge, err := charge.AddOption("No", &port.ID)
	require.NoError(t, err)

	return mapLoader{root.ID: root, charge.ID: charge, port.ID: port}, root, []uuid.UUID{no.ID, noCharge.ID}
}

func TestWalk_ReachesSolution(t *testing.T) {
	loader, root, answers := buildTree(t)
	res, err := Walk(context.Background(), loader, root, answers)
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, "Replace charging port", res.Final.Title)
	require.Len(t, res.Steps, 2)
	assert.Equal(t, "No", res.Steps[0].Option.Label)
}

func TestWalk_PartialAndTerminalOption(t *testing.T) {
	loader, root, answers := buildTree(t)

	res, err := Walk(context.Background(), loader, root, answers[:1])
	require.NoError(t, err)
	assert.False(t, res.Complete)
	assert.Equal(t, "Does it charge?", res.Final.Title)

	yes := root.SortedOptions()[0]
	res, err = Walk(context.Background(), loader, root, []uuid.UUID{yes.ID})
	require.NoError(t, err)
	assert.True(t, res.Complete)
	assert.Equal(t, root.ID, res.Final.ID)
}

func TestWalk_IsBoundedByAnswers(t *testing.T) {
	a := node(t, NodeKindQuestion, "A")
	b := node(t, NodeKindQuestion, "B")
	toB, err := a.AddOption("next", &b.ID)
	require.NoError(t, err)
	toA, err := b.AddOption("back", &a.ID)
	require.NoError(t, err)
	loader := mapLoader{a.ID: a, b.ID: b}

	res, err := Walk(context.Background(), loader, a, []uuid.UUID{toB.ID, toA.ID, toB.ID})
	require.NoError(t, err)
	assert.Len(t, res.Steps, 3)
	assert.Equal(t, b.ID, res.Final.ID)
}

func TestWalk_UnknownOption(t *testing.T) {
	loader, root, _ := buildTree(t)
	_, err := Walk(context.Background(), loader, root, []uuid.UUID{uuid.New()})
	assert.Equal(t, "OPTION_NOT_FOUND", shared.ErrorCode(err))
}

func TestNode_Validation(t *testing.T) {
	_, err := NewNode(tenantID, "", NodeContent{Kind: NodeKindQuestion, Title: "x"})
	assert.Equal(t, "INVALID_CATEGORY", shared.ErrorCode(err))
	_, err = NewNode(tenantID, "phone", NodeContent{Kind: "maybe", Title: "x"})
	assert.Equal(t, "INVALID_KIND", shared.ErrorCode(err))

	sol := node(t, NodeKindSolution, "Done")
	_, err = sol.AddOption("x", nil)
	assert.Equal(t, "INVALID_KIND", shared.ErrorCode(err))

	q := node(t, NodeKindQuestion, "Q")
	_, err = q.AddOption("self", &q.ID)
	assert.Equal(t, "INVALID_NEXT_NODE", shared.ErrorCode(err))
	_, err = q.AddOption("ok", nil)
	require.NoError(t, err)
	assert.Equal(t, "INVALID_KIND", shared.ErrorCode(q.Update(NodeContent{Kind: NodeKindSolution, Title: "Q"})))
	assert.Equal(t, "smartphone", sol.Category)
}
