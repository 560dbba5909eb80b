package gamification

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/gamification"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// PointsHandler awards points for completed sales and delivered service orders.
// An event delivered twice awards once.
type PointsHandler struct {
	service *GamificationService
}

func NewPointsHandler(service *GamificationService) *PointsHandler {
	return &PointsHandler{service: service}
}

func (h *PointsHandler) EventTypes() []string {
	return []string{sales.EventTypeSaleCompleted, repair.EventTypeServiceOrderStatusChanged}
}

func (h *PointsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.SaleCompletedEvent:
		return h.award(ctx, e.TenantID(), e.SellerID, gamification.SalePoints(e.Total), gamification.ReasonSale, "sale", e.SaleID, e.Number)
	case *repair.ServiceOrderStatusChangedEvent:
		if e.ToStatus != repair.StatusDelivered || e.TechnicianID == nil {
			return nil
		}
		return h.award(ctx, e.TenantID(), *e.TechnicianID, gamification.RepairDeliveredPoints, gamification.ReasonRepairDelivered, "service_order", e.AggregateID(), e.Number)
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *PointsHandler) award(ctx context.Context, tenantID, userID uuid.UUID, points int, reason gamification.Reason, refType string, refID uuid.UUID, number string) error {
	if userID == uuid.Nil {
		return nil
	}
	exists, err := h.service.pointRepo.ExistsForReference(ctx, tenantID, userID, reason, refID)
	if err != nil {
		return err
	}
	if exists {
		h.service.logger.Debug("Points already awarded", zap.String("reference", number))
		return nil
	}
	entry, err := gamification.NewPointEntry(tenantID, userID, points, reason, refType, &refID, number, nil)
	if err != nil {
		return err
	}
	if err := h.service.record(ctx, entry); err != nil {
		return err
	}
	h.service.logger.Info("Points awarded",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()),
		zap.String("reason", string(reason)),
		zap.Int("points", points))
	return nil
}
