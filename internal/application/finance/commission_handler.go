package finance

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CommissionHandler evaluates commission rules for completed sales and delivered service orders.
// Cancelled and fully returned sales void the pending commissions they produced.
type CommissionHandler struct {
	ruleRepo       finance.CommissionRuleRepository
	commissionRepo finance.CommissionRepository
	userRepo       identity.UserRepository
	roleRepo       identity.RoleRepository
	logger         *zap.Logger
}

// NewCommissionHandler creates a new CommissionHandler
func NewCommissionHandler(ruleRepo finance.CommissionRuleRepository, commissionRepo finance.CommissionRepository, userRepo identity.UserRepository, roleRepo identity.RoleRepository, logger *zap.Logger) *CommissionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommissionHandler{
		ruleRepo:       ruleRepo,
		commissionRepo: commissionRepo,
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		logger:         logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *CommissionHandler) EventTypes() []string {
	return []string{
		sales.EventTypeSaleCompleted,
		sales.EventTypeSaleCancelled,
		sales.EventTypeSaleReturned,
		repair.EventTypeServiceOrderStatusChanged,
	}
}

// Handle dispatches on the event type
func (h *CommissionHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *sales.SaleCompletedEvent:
		categories := make([]string, 0, len(e.Lines))
		for _, l := range e.Lines {
			if l.Category != "" {
				categories = append(categories, l.Category)
			}
		}
		return h.evaluate(ctx, e.TenantID(), finance.CommissionSubject{
			SourceType: finance.CommissionSourceSale,
			SourceID:   e.SaleID,
			UserID:     e.SellerID,
			Base:       e.Total,
			Categories: categories,
		})
	case *sales.SaleCancelledEvent:
		return h.void(ctx, e.TenantID(), e.SaleID)
	case *sales.SaleReturnedEvent:
		if !e.FullyReturned {
			return nil
		}
		return h.void(ctx, e.TenantID(), e.SaleID)
	case *repair.ServiceOrderStatusChangedEvent:
		if e.ToStatus != repair.StatusDelivered || e.TechnicianID == nil {
			return nil
		}
		return h.evaluate(ctx, e.TenantID(), finance.CommissionSubject{
			SourceType: finance.CommissionSourceServiceOrder,
			SourceID:   e.AggregateID(),
			UserID:     *e.TechnicianID,
			Base:       e.FinalCost,
		})
	default:
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
}

func (h *CommissionHandler) evaluate(ctx context.Context, tenantID uuid.UUID, subject finance.CommissionSubject) error {
	existing, err := h.commissionRepo.FindBySource(ctx, tenantID, subject.SourceType, subject.SourceID)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		h.logger.Debug("Commission already recorded",
			zap.String("source_type", string(subject.SourceType)),
			zap.String("source_id", subject.SourceID.String()))
		return nil
	}
	rules, err := h.ruleRepo.FindActive(ctx, tenantID)
	if err != nil || len(rules) == 0 {
		return err
	}
	roles, err := h.roleCodes(ctx, tenantID, subject.UserID)
	if err != nil {
		return err
	}
	subject.UserRoles = roles

	c := finance.EvaluateCommission(tenantID, rules, subject)
	if c == nil {
		return nil
	}
	if err := h.commissionRepo.Create(ctx, c); err != nil {
		return err
	}
	h.logger.Info("Commission recorded",
		zap.String("user_id", c.UserID.String()),
		zap.String("source_type", string(c.SourceType)),
		zap.String("source_id", c.SourceID.String()),
		zap.String("amount", c.Amount.String()))
	return nil
}

func (h *CommissionHandler) roleCodes(ctx context.Context, tenantID, userID uuid.UUID) ([]string, error) {
	user, err := h.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	if len(user.RoleIDs) == 0 {
		return nil, nil
	}
	roles, err := h.roleRepo.FindByIDs(ctx, tenantID, user.RoleIDs)
	if err != nil {
		return nil, err
	}
	codes := make([]string, len(roles))
	for i, r := range roles {
		codes[i] = r.Code
	}
	return codes, nil
}

func (h *CommissionHandler) void(ctx context.Context, tenantID, saleID uuid.UUID) error {
	rows, err := h.commissionRepo.FindBySource(ctx, tenantID, finance.CommissionSourceSale, saleID)
	if err != nil {
		return err
	}
	for i := range rows {
		c := &rows[i]
		if c.Status != finance.CommissionStatusPending {
			h.logger.Warn("Commission of reversed sale was already settled",
				zap.String("commission_id", c.ID.String()),
				zap.String("status", string(c.Status)))
			continue
		}
		if err := c.Cancel(); err != nil {
			return err
		}
		if err := h.commissionRepo.Save(ctx, c); err != nil {
			return err
		}
	}
	return nil
}
