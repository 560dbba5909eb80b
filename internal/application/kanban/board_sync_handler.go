package kanban

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/kanban"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BoardSyncHandler keeps the repairs board in step with service orders changed outside of it.
// A new order gets a card in the column mapped to "received"; a status change moves the card
// to the first column mapped to the new status. Boards without mapped columns are left alone.
type BoardSyncHandler struct {
	columnRepo kanban.ColumnRepository
	cardRepo   kanban.CardRepository
	txScope    appinv.TransactionScope
	logger     *zap.Logger
}

// NewBoardSyncHandler creates a new BoardSyncHandler
func NewBoardSyncHandler(columnRepo kanban.ColumnRepository, cardRepo kanban.CardRepository, txScope appinv.TransactionScope, logger *zap.Logger) *BoardSyncHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BoardSyncHandler{columnRepo: columnRepo, cardRepo: cardRepo, txScope: txScope, logger: logger}
}

// EventTypes returns the event types this handler is interested in
func (h *BoardSyncHandler) EventTypes() []string {
	return []string{repair.EventTypeServiceOrderCreated, repair.EventTypeServiceOrderStatusChanged}
}

// Handle dispatches on the event type
func (h *BoardSyncHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *repair.ServiceOrderCreatedEvent:
		return h.onCreated(ctx, e)
	case *repair.ServiceOrderStatusChangedEvent:
		return h.onStatusChanged(ctx, e)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *BoardSyncHandler) onCreated(ctx context.Context, e *repair.ServiceOrderCreatedEvent) error {
	tenantID := e.TenantID()
	col, err := h.columnFor(ctx, tenantID, repair.StatusReceived)
	if col == nil || err != nil {
		return err
	}
	count, err := h.cardRepo.CountByColumn(ctx, tenantID, col.ID)
	if err != nil {
		return err
	}
	if col.IsFull(int(count)) {
		h.logger.Warn("No room for new service order card",
			zap.String("service_order_id", e.AggregateID().String()),
			zap.String("column", col.Name))
		return nil
	}
	orderID := e.AggregateID()
	card, err := kanban.NewCard(tenantID, col.ID, &orderID, int(count), kanban.CardContent{
		Title:      e.Number + " " + e.Device,
		Swimlane:   string(e.Priority),
		AssigneeID: e.TechnicianID,
	})
	if err != nil {
		return err
	}
	return h.cardRepo.Create(ctx, card)
}

func (h *BoardSyncHandler) onStatusChanged(ctx context.Context, e *repair.ServiceOrderStatusChangedEvent) error {
	tenantID := e.TenantID()
	card, err := h.cardRepo.FindByServiceOrder(ctx, tenantID, e.AggregateID())
	if errors.Is(err, shared.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	current, err := h.columnRepo.FindByID(ctx, tenantID, card.ColumnID)
	if err != nil {
		return err
	}
	if current.Status == string(e.ToStatus) {
		return nil
	}
	target, err := h.columnFor(ctx, tenantID, e.ToStatus)
	if target == nil || err != nil {
		return err
	}

	return h.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		cards := repos.KanbanCardRepo()
		source, err := cardPointers(cards.FindByColumn(ctx, tenantID, card.ColumnID))
		if err != nil {
			return err
		}
		dest, err := cardPointers(cards.FindByColumn(ctx, tenantID, target.ID))
		if err != nil {
			return err
		}
		result, err := kanban.MoveCard(card, target, source, dest, len(dest))
		if shared.ErrorCode(err) == "WIP_LIMIT_EXCEEDED" {
			h.logger.Warn("Card left in place, target column is full",
				zap.String("card_id", card.ID.String()),
				zap.String("column", target.Name))
			return nil
		}
		if err != nil {
			return err
		}
		for _, c := range result.Changed {
			if err := cards.Save(ctx, c); err != nil {
				return err
			}
		}
		return nil
	})
}

func (h *BoardSyncHandler) columnFor(ctx context.Context, tenantID uuid.UUID, status repair.Status) (*kanban.Column, error) {
	col, err := h.columnRepo.FindByStatus(ctx, tenantID, kanban.BoardRepairs, string(status))
	if errors.Is(err, shared.ErrNotFound) {
		return nil, nil
	}
	return col, err
}
