package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivableRepository persists receivables.
// FindAll supports "status", "customer_id", "source", "overdue", "due_from" and "due_to".
type ReceivableRepository interface {
	Create(ctx context.Context, r *AccountReceivable) error
	Save(ctx context.Context, r *AccountReceivable) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AccountReceivable, error)
	FindBySource(ctx context.Context, tenantID uuid.UUID, source ReceivableSource, sourceID uuid.UUID) (*AccountReceivable, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountReceivable, int64, error)
	// SumOpen returns the outstanding total and the overdue part of it
	SumOpen(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, now time.Time) (total, overdue decimal.Decimal, err error)
}

// PayableRepository persists payables.
// FindAll supports "status", "category", "overdue", "due_from" and "due_to".
type PayableRepository interface {
	Create(ctx context.Context, p *AccountPayable) error
	Save(ctx context.Context, p *AccountPayable) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*AccountPayable, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]AccountPayable, int64, error)
	SumDueBetween(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}

type CommissionRuleRepository interface {
	Create(ctx context.Context, r *CommissionRule) error
	Save(ctx context.Context, r *CommissionRule) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*CommissionRule, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]CommissionRule, int64, error)
	// FindActive returns active rules ordered by priority descending
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]CommissionRule, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// CommissionRepository persists commissions.
// FindAll supports "user_id", "status", "source_type", "from" and "to".
type CommissionRepository interface {
	Create(ctx context.Context, c *Commission) error
	Save(ctx context.Context, c *Commission) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Commission, error)
	FindBySource(ctx context.Context, tenantID uuid.UUID, source CommissionSource, sourceID uuid.UUID) ([]Commission, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Commission, int64, error)
	Summarize(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, from, to time.Time) ([]CommissionSummary, error)
	SumPending(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error)
}

type PricingRuleRepository interface {
	Create(ctx context.Context, r *PricingRule) error
	Save(ctx context.Context, r *PricingRule) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*PricingRule, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]PricingRule, int64, error)
	// FindActive returns active rules ordered by priority descending
	FindActive(ctx context.Context, tenantID uuid.UUID) ([]PricingRule, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

type PriceHistoryRepository interface {
	Create(ctx context.Context, h *PriceHistory) error
	FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]PriceHistory, int64, error)
}

// ReimbursementRepository persists expense claims.
// FindAll supports "status", "requester_id" and "branch_id".
type ReimbursementRepository interface {
	Create(ctx context.Context, r *ExpenseReimbursement) error
	Save(ctx context.Context, r *ExpenseReimbursement) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*ExpenseReimbursement, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]ExpenseReimbursement, int64, error)
}
