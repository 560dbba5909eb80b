// Package kanban runs the drag-and-drop boards. Cards linked to service orders drive
// the repair workflow when they cross into a column that carries a status.
package kanban

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	apprepair "github.com/repairpos/backend/internal/application/repair"
	"github.com/repairpos/backend/internal/domain/kanban"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RepairWorkflow is the part of the repair module a board drives
type RepairWorkflow interface {
	GetByID(ctx context.Context, tenantID, id uuid.UUID) (*apprepair.ServiceOrderResponse, error)
	ChangeStatus(ctx context.Context, tenantID, userID, id uuid.UUID, req apprepair.ChangeStatusRequest) (*apprepair.ServiceOrderResponse, error)
	AssignTechnician(ctx context.Context, tenantID, id uuid.UUID, req apprepair.AssignTechnicianRequest) (*apprepair.ServiceOrderResponse, error)
}

// BoardServiceConfig holds the dependencies of BoardService
type BoardServiceConfig struct {
	ColumnRepo kanban.ColumnRepository
	CardRepo   kanban.CardRepository
	TxScope    appinv.TransactionScope
	Repairs    RepairWorkflow
	Logger     *zap.Logger
}

// BoardService manages columns and cards
type BoardService struct {
	columnRepo kanban.ColumnRepository
	cardRepo   kanban.CardRepository
	txScope    appinv.TransactionScope
	repairs    RepairWorkflow
	logger     *zap.Logger
}

// NewBoardService creates a new BoardService
func NewBoardService(cfg BoardServiceConfig) *BoardService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardService{
		columnRepo: cfg.ColumnRepo,
		cardRepo:   cfg.CardRepo,
		txScope:    cfg.TxScope,
		repairs:    cfg.Repairs,
		logger:     logger,
	}
}

// CreateColumn appends a column to its board
func (s *BoardService) CreateColumn(ctx context.Context, tenantID uuid.UUID, req CreateColumnRequest) (*ColumnResponse, error) {
	if err := validateStatus(req.Status); err != nil {
		return nil, err
	}
	board := req.Board
	if board == "" {
		board = kanban.BoardRepairs
	}
	existing, err := s.columnRepo.FindByBoard(ctx, tenantID, board)
	if err != nil {
		return nil, err
	}
	col, err := kanban.NewColumn(tenantID, board, len(existing), kanban.ColumnSettings{
		Name:                   req.Name,
		Status:                 req.Status,
		WIPLimit:               req.WIPLimit,
		Color:                  req.Color,
		AutoAssignTechnicianID: req.AutoAssignTechnicianID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.columnRepo.Create(ctx, col); err != nil {
		return nil, err
	}
	resp := toColumnResponse(col)
	return &resp, nil
}

// ListColumns returns the columns of a board in display order
func (s *BoardService) ListColumns(ctx context.Context, tenantID uuid.UUID, board string) ([]ColumnResponse, error) {
	if board == "" {
		board = kanban.BoardRepairs
	}
	cols, err := s.columnRepo.FindByBoard(ctx, tenantID, board)
	if err != nil {
		return nil, err
	}
	out := make([]ColumnResponse, len(cols))
	for i := range cols {
		out[i] = toColumnResponse(&cols[i])
	}
	return out, nil
}

// UpdateColumn replaces the settings of a column
func (s *BoardService) UpdateColumn(ctx context.Context, tenantID, id uuid.UUID, req UpdateColumnRequest) (*ColumnResponse, error) {
	if err := validateStatus(req.Status); err != nil {
		return nil, err
	}
	col, err := s.columnRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	err = col.Update(kanban.ColumnSettings{
		Name:                   req.Name,
		Status:                 req.Status,
		WIPLimit:               req.WIPLimit,
		Color:                  req.Color,
		AutoAssignTechnicianID: req.AutoAssignTechnicianID,
	})
	if err != nil {
		return nil, err
	}
	if err := s.columnRepo.Save(ctx, col); err != nil {
		return nil, err
	}
	resp := toColumnResponse(col)
	return &resp, nil
}

// DeleteColumn removes an empty column and closes the gap in the board order
func (s *BoardService) DeleteColumn(ctx context.Context, tenantID, id uuid.UUID) error {
	col, err := s.columnRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	count, err := s.cardRepo.CountByColumn(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("COLUMN_NOT_EMPTY", "Move or delete the cards of the column first")
	}
	if err := s.columnRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	rest, err := s.columnRepo.FindByBoard(ctx, tenantID, col.Board)
	if err != nil {
		return err
	}
	for i := range rest {
		if rest[i].Position == i {
			continue
		}
		rest[i].SetPosition(i)
		if err := s.columnRepo.Save(ctx, &rest[i]); err != nil {
			return err
		}
	}
	return nil
}

// ReorderColumns sets the board order. ColumnIDs must name every column of the board once.
func (s *BoardService) ReorderColumns(ctx context.Context, tenantID uuid.UUID, req ReorderColumnsRequest) ([]ColumnResponse, error) {
	board := req.Board
	if board == "" {
		board = kanban.BoardRepairs
	}
	cols, err := s.columnRepo.FindByBoard(ctx, tenantID, board)
	if err != nil {
		return nil, err
	}
	byID := make(map[uuid.UUID]*kanban.Column, len(cols))
	for i := range cols {
		byID[cols[i].ID] = &cols[i]
	}
	if len(req.ColumnIDs) != len(cols) {
		return nil, shared.NewDomainError("INVALID_ORDER", "Every column of the board must be listed once")
	}
	ordered := make([]*kanban.Column, 0, len(cols))
	for _, id := range req.ColumnIDs {
		col, ok := byID[id]
		if !ok {
			return nil, shared.NewDomainError("INVALID_ORDER", "Every column of the board must be listed once")
		}
		delete(byID, id)
		ordered = append(ordered, col)
	}

	out := make([]ColumnResponse, len(ordered))
	for i, col := range ordered {
		if col.Position != i {
			col.SetPosition(i)
			if err := s.columnRepo.Save(ctx, col); err != nil {
				return nil, err
			}
		}
		out[i] = toColumnResponse(col)
	}
	return out, nil
}

// Board returns the columns of a board with their cards grouped by swimlane
func (s *BoardService) Board(ctx context.Context, tenantID uuid.UUID, board string) (*BoardResponse, error) {
	if board == "" {
		board = kanban.BoardRepairs
	}
	cols, err := s.columnRepo.FindByBoard(ctx, tenantID, board)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(cols))
	for i := range cols {
		ids[i] = cols[i].ID
	}
	cards, err := s.cardRepo.FindByColumns(ctx, tenantID, ids)
	if err != nil {
		return nil, err
	}
	byColumn := make(map[uuid.UUID][]CardResponse, len(cols))
	for i := range cards {
		byColumn[cards[i].ColumnID] = append(byColumn[cards[i].ColumnID], toCardResponse(&cards[i]))
	}

	resp := &BoardResponse{Board: board, Columns: make([]ColumnView, len(cols))}
	for i := range cols {
		colCards := byColumn[cols[i].ID]
		resp.Columns[i] = ColumnView{
			ColumnResponse: toColumnResponse(&cols[i]),
			Count:          len(colCards),
			Full:           cols[i].IsFull(len(colCards)),
			Swimlanes:      groupBySwimlane(colCards),
		}
	}
	return resp, nil
}

// groupBySwimlane keeps the lanes in order of their first card
func groupBySwimlane(cards []CardResponse) []SwimlaneView {
	lanes := make([]SwimlaneView, 0)
	index := map[string]int{}
	for _, c := range cards {
		i, ok := index[c.Swimlane]
		if !ok {
			i = len(lanes)
			index[c.Swimlane] = i
			lanes = append(lanes, SwimlaneView{Name: c.Swimlane})
		}
		lanes[i].Cards = append(lanes[i].Cards, c)
	}
	return lanes
}

// CreateCard adds a card at the bottom of a column. A service order can have one card.
func (s *BoardService) CreateCard(ctx context.Context, tenantID uuid.UUID, req CreateCardRequest) (*CardResponse, error) {
	col, err := s.columnRepo.FindByID(ctx, tenantID, req.ColumnID)
	if err != nil {
		return nil, err
	}
	if req.ServiceOrderID != nil {
		if err := s.checkOrderUnlinked(ctx, tenantID, *req.ServiceOrderID); err != nil {
			return nil, err
		}
	}
	count, err := s.cardRepo.CountByColumn(ctx, tenantID, col.ID)
	if err != nil {
		return nil, err
	}
	if col.IsFull(int(count)) {
		return nil, shared.NewDomainError("WIP_LIMIT_EXCEEDED", "Column "+col.Name+" reached its WIP limit")
	}
	card, err := kanban.NewCard(tenantID, col.ID, req.ServiceOrderID, int(count), kanban.CardContent{
		Title:       req.Title,
		Description: req.Description,
		Swimlane:    req.Swimlane,
		AssigneeID:  req.AssigneeID,
		Labels:      req.Labels,
	})
	if err != nil {
		return nil, err
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}
	resp := toCardResponse(card)
	return &resp, nil
}

func (s *BoardService) checkOrderUnlinked(ctx context.Context, tenantID, orderID uuid.UUID) error {
	if _, err := s.repairs.GetByID(ctx, tenantID, orderID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return shared.NewDomainError("SERVICE_ORDER_NOT_FOUND", "Service order does not exist")
		}
		return err
	}
	_, err := s.cardRepo.FindByServiceOrder(ctx, tenantID, orderID)
	if err == nil {
		return shared.NewDomainError("CARD_ALREADY_EXISTS", "The service order already has a card")
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return err
	}
	return nil
}

// GetCard loads one card
func (s *BoardService) GetCard(ctx context.Context, tenantID, id uuid.UUID) (*CardResponse, error) {
	card, err := s.cardRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toCardResponse(card)
	return &resp, nil
}

// UpdateCard replaces the content of a card
func (s *BoardService) UpdateCard(ctx context.Context, tenantID, id uuid.UUID, req UpdateCardRequest) (*CardResponse, error) {
	card, err := s.cardRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	err = card.Update(kanban.CardContent{
		Title:       req.Title,
		Description: req.Description,
		Swimlane:    req.Swimlane,
		AssigneeID:  req.AssigneeID,
		Labels:      req.Labels,
	})
	if err != nil {
		return nil, err
	}
	if err := s.cardRepo.Save(ctx, card); err != nil {
		return nil, err
	}
	resp := toCardResponse(card)
	return &resp, nil
}

// DeleteCard removes a card and renumbers its column
func (s *BoardService) DeleteCard(ctx context.Context, tenantID, id uuid.UUID) error {
	return s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		cards := repos.KanbanCardRepo()
		card, err := cards.FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if err := cards.Delete(ctx, tenantID, id); err != nil {
			return err
		}
		rest, err := cards.FindByColumn(ctx, tenantID, card.ColumnID)
		if err != nil {
			return err
		}
		for i := range rest {
			if rest[i].Position == i {
				continue
			}
			rest[i].Position = i
			rest[i].IncrementVersion()
			if err := cards.Save(ctx, &rest[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

// MoveCard drops a card at a position of a column. Both columns are renumbered from 0.
// A linked service order follows the status of the target column, and the column's
// auto-assign technician takes over a card or order that has nobody. The order is
// checked before the card moves; the technician is assigned before the status changes,
// and the card goes back to where it was when either write fails.
func (s *BoardService) MoveCard(ctx context.Context, tenantID, userID, id uuid.UUID, req MoveCardRequest) (*MoveCardResponse, error) {
	target, err := s.columnRepo.FindByID(ctx, tenantID, req.ColumnID)
	if err != nil {
		return nil, err
	}
	card, err := s.cardRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	from := cardPlace{columnID: card.ColumnID, position: card.Position, assigneeID: card.AssigneeID}

	var order *apprepair.ServiceOrderResponse
	changeStatus, assignOrder := false, false
	if card.ServiceOrderID != nil && card.ColumnID != target.ID && (target.Status != "" || target.AutoAssignTechnicianID != nil) {
		order, err = s.repairs.GetByID(ctx, tenantID, *card.ServiceOrderID)
		if err != nil {
			return nil, err
		}
		if target.Status != "" && order.Status != target.Status {
			if !contains(order.NextStatuses, target.Status) {
				return nil, shared.NewDomainError("INVALID_TRANSITION",
					fmt.Sprintf("Service order %s cannot move from %s to %s", order.Number, order.Status, target.Status))
			}
			changeStatus = true
		}
		// closed orders are not reassigned
		assignOrder = target.AutoAssignTechnicianID != nil && order.TechnicianID == nil &&
			!repair.Status(order.Status).IsTerminal()
	}

	result, err := s.place(ctx, tenantID, card, target, req.Position, true)
	if err != nil {
		return nil, err
	}
	resp := &MoveCardResponse{Card: toCardResponse(card), Changed: make([]CardResponse, 0, len(result.Changed))}
	for _, c := range result.Changed {
		resp.Changed = append(resp.Changed, toCardResponse(c))
	}

	if assignOrder {
		order, err = s.repairs.AssignTechnician(ctx, tenantID, order.ID, apprepair.AssignTechnicianRequest{
			TechnicianID: *target.AutoAssignTechnicianID,
		})
		if err != nil {
			s.logger.Warn("Auto-assign of technician failed",
				zap.String("service_order_id", card.ServiceOrderID.String()),
				zap.Error(err))
			s.undoMove(ctx, tenantID, card, from)
			return nil, err
		}
	}
	if changeStatus {
		order, err = s.repairs.ChangeStatus(ctx, tenantID, userID, *card.ServiceOrderID, apprepair.ChangeStatusRequest{
			Status: target.Status,
			Note:   "Moved to " + target.Name,
		})
		if err != nil {
			s.logger.Error("Service order status change failed, moving the card back",
				zap.String("card_id", card.ID.String()),
				zap.String("status", target.Status),
				zap.Error(err))
			s.undoMove(ctx, tenantID, card, from)
			return nil, err
		}
	}
	resp.ServiceOrder = order
	return resp, nil
}

// cardPlace is where a card was before a move
type cardPlace struct {
	columnID   uuid.UUID
	position   int
	assigneeID *uuid.UUID
}

// place moves the card and renumbers both columns in one transaction
func (s *BoardService) place(ctx context.Context, tenantID uuid.UUID, card *kanban.Card, target *kanban.Column, position int, autoAssign bool) (*kanban.MoveResult, error) {
	var result *kanban.MoveResult
	err := s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		cards := repos.KanbanCardRepo()
		source, err := cardPointers(cards.FindByColumn(ctx, tenantID, card.ColumnID))
		if err != nil {
			return err
		}
		dest := source
		if card.ColumnID != target.ID {
			if dest, err = cardPointers(cards.FindByColumn(ctx, tenantID, target.ID)); err != nil {
				return err
			}
		}
		result, err = kanban.MoveCard(card, target, source, dest, position)
		if err != nil {
			return err
		}
		if autoAssign && result.ColumnChanged && target.AutoAssignTechnicianID != nil {
			card.AssignTo(*target.AutoAssignTechnicianID)
		}
		for _, c := range result.Changed {
			if err := cards.Save(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// undoMove puts a card back after a dependent write failed
func (s *BoardService) undoMove(ctx context.Context, tenantID uuid.UUID, card *kanban.Card, from cardPlace) {
	if card.ColumnID == from.columnID && card.Position == from.position {
		return
	}
	origin, err := s.columnRepo.FindByID(ctx, tenantID, from.columnID)
	if err == nil {
		card.AssigneeID = from.assigneeID
		_, err = s.place(ctx, tenantID, card, origin, from.position, false)
	}
	if err != nil {
		s.logger.Error("Failed to move card back",
			zap.String("card_id", card.ID.String()),
			zap.String("column_id", from.columnID.String()),
			zap.Error(err))
	}
}

func cardPointers(cards []kanban.Card, err error) ([]*kanban.Card, error) {
	if err != nil {
		return nil, err
	}
	out := make([]*kanban.Card, len(cards))
	for i := range cards {
		out[i] = &cards[i]
	}
	return out, nil
}

func validateStatus(status string) error {
	if status != "" && !repair.Status(status).IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown service order status "+status)
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
