package kanban

import (
	"context"
	"sort"

	"github.com/google/uuid"
	apprepair "github.com/repairpos/backend/internal/application/repair"
	"github.com/repairpos/backend/internal/domain/kanban"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

// memoryBoard stores columns and cards by value, as the database would
type memoryBoard struct {
	columns map[uuid.UUID]kanban.Column
	cards   map[uuid.UUID]kanban.Card
	saves   int
}

func newMemoryBoard() *memoryBoard {
	return &memoryBoard{columns: map[uuid.UUID]kanban.Column{}, cards: map[uuid.UUID]kanban.Card{}}
}

type memoryColumns struct{ *memoryBoard }

type memoryCards struct{ *memoryBoard }

func (m memoryColumns) Create(_ context.Context, c *kanban.Column) error {
	m.columns[c.ID] = *c
	return nil
}

func (m memoryColumns) Save(_ context.Context, c *kanban.Column) error {
	stored, ok := m.columns[c.ID]
	if !ok || stored.Version != c.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	m.columns[c.ID] = *c
	return nil
}

func (m memoryColumns) FindByID(_ context.Context, tenantID, id uuid.UUID) (*kanban.Column, error) {
	c, ok := m.columns[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m memoryColumns) FindByBoard(_ context.Context, tenantID uuid.UUID, board string) ([]kanban.Column, error) {
	out := []kanban.Column{}
	for _, c := range m.columns {
		if c.TenantID == tenantID && c.Board == board {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m memoryColumns) FindByStatus(ctx context.Context, tenantID uuid.UUID, board, status string) (*kanban.Column, error) {
	cols, _ := m.FindByBoard(ctx, tenantID, board)
	for i := range cols {
		if cols[i].Status == status {
			return &cols[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m memoryColumns) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(m.columns, id)
	return nil
}

func (m memoryCards) Create(_ context.Context, c *kanban.Card) error {
	m.cards[c.ID] = *c
	return nil
}

func (m memoryCards) Save(_ context.Context, c *kanban.Card) error {
	stored, ok := m.cards[c.ID]
	if !ok || stored.Version != c.Version-1 {
		return shared.ErrConcurrencyConflict
	}
	m.cards[c.ID] = *c
	m.saves++
	return nil
}

func (m memoryCards) FindByID(_ context.Context, tenantID, id uuid.UUID) (*kanban.Card, error) {
	c, ok := m.cards[id]
	if !ok || c.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m memoryCards) FindByColumn(ctx context.Context, tenantID, columnID uuid.UUID) ([]kanban.Card, error) {
	return m.FindByColumns(ctx, tenantID, []uuid.UUID{columnID})
}

func (m memoryCards) FindByColumns(_ context.Context, tenantID uuid.UUID, columnIDs []uuid.UUID) ([]kanban.Card, error) {
	want := map[uuid.UUID]bool{}
	for _, id := range columnIDs {
		want[id] = true
	}
	out := []kanban.Card{}
	for _, c := range m.cards {
		if c.TenantID == tenantID && want[c.ColumnID] {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out, nil
}

func (m memoryCards) FindByServiceOrder(_ context.Context, tenantID, orderID uuid.UUID) (*kanban.Card, error) {
	for _, c := range m.cards {
		if c.TenantID == tenantID && c.ServiceOrderID != nil && *c.ServiceOrderID == orderID {
			return &c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (m memoryCards) CountByColumn(_ context.Context, tenantID, columnID uuid.UUID) (int64, error) {
	var n int64
	for _, c := range m.cards {
		if c.TenantID == tenantID && c.ColumnID == columnID {
			n++
		}
	}
	return n, nil
}

func (m memoryCards) Delete(_ context.Context, _, id uuid.UUID) error {
	delete(m.cards, id)
	return nil
}

// positions returns the card titles of a column in position order
func (m *memoryBoard) positions(columnID uuid.UUID) []string {
	cards, _ := memoryCards{m}.FindByColumn(context.Background(), tenantID, columnID)
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.Title
	}
	return out
}

// MockRepairWorkflow is a mock implementation of RepairWorkflow
type MockRepairWorkflow struct {
	mock.Mock
}

func (m *MockRepairWorkflow) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*apprepair.ServiceOrderResponse, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apprepair.ServiceOrderResponse), args.Error(1)
}

func (m *MockRepairWorkflow) ChangeStatus(ctx context.Context, tenantID, userID, id uuid.UUID, req apprepair.ChangeStatusRequest) (*apprepair.ServiceOrderResponse, error) {
	args := m.Called(ctx, tenantID, userID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apprepair.ServiceOrderResponse), args.Error(1)
}

func (m *MockRepairWorkflow) AssignTechnician(ctx context.Context, tenantID, id uuid.UUID, req apprepair.AssignTechnicianRequest) (*apprepair.ServiceOrderResponse, error) {
	args := m.Called(ctx, tenantID, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*apprepair.ServiceOrderResponse), args.Error(1)
}
