package finance

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CommissionService manages commission rules and earned commissions
type CommissionService struct {
	ruleRepo       finance.CommissionRuleRepository
	commissionRepo finance.CommissionRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewCommissionService creates a new CommissionService
func NewCommissionService(ruleRepo finance.CommissionRuleRepository, commissionRepo finance.CommissionRepository, logger *zap.Logger) *CommissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CommissionService{ruleRepo: ruleRepo, commissionRepo: commissionRepo, logger: logger, now: time.Now}
}

func commissionRuleInput(req CommissionRuleRequest) finance.CommissionRuleInput {
	return finance.CommissionRuleInput{
		Name:           req.Name,
		Priority:       req.Priority,
		ConditionType:  finance.CommissionCondition(req.ConditionType),
		ConditionValue: req.ConditionValue,
		CommissionType: finance.CommissionType(req.CommissionType),
		Rate:           req.Rate,
		IsActive:       boolOr(req.IsActive, true),
	}
}

func (s *CommissionService) CreateRule(ctx context.Context, tenantID uuid.UUID, req CommissionRuleRequest) (*CommissionRuleResponse, error) {
	rule, err := finance.NewCommissionRule(tenantID, commissionRuleInput(req))
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	resp := toCommissionRuleResponse(rule)
	return &resp, nil
}

func (s *CommissionService) GetRule(ctx context.Context, tenantID, id uuid.UUID) (*CommissionRuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toCommissionRuleResponse(rule)
	return &resp, nil
}

func (s *CommissionService) ListRules(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[CommissionRuleResponse], error) {
	filter.Normalize()
	rules, total, err := s.ruleRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CommissionRuleResponse, len(rules))
	for i := range rules {
		items[i] = toCommissionRuleResponse(&rules[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *CommissionService) UpdateRule(ctx context.Context, tenantID, id uuid.UUID, req CommissionRuleRequest) (*CommissionRuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Update(commissionRuleInput(req)); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	resp := toCommissionRuleResponse(rule)
	return &resp, nil
}

// DeleteRule removes a rule; commissions it already produced keep their rule ID
func (s *CommissionService) DeleteRule(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.ruleRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, tenantID, id)
}

// ListCommissions returns one page. Filters: user_id, status, source_type, from, to.
func (s *CommissionService) ListCommissions(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[CommissionResponse], error) {
	filter.Normalize()
	rows, total, err := s.commissionRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CommissionResponse, len(rows))
	for i := range rows {
		items[i] = toCommissionResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *CommissionService) MarkPaid(ctx context.Context, tenantID, id uuid.UUID) (*CommissionResponse, error) {
	c, err := s.commissionRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.MarkPaid(s.now()); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := toCommissionResponse(c)
	return &resp, nil
}

func (s *CommissionService) Cancel(ctx context.Context, tenantID, id uuid.UUID) (*CommissionResponse, error) {
	c, err := s.commissionRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := c.Cancel(); err != nil {
		return nil, err
	}
	if err := s.commissionRepo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := toCommissionResponse(c)
	return &resp, nil
}

// Summary totals commissions per user. The period defaults to the current month.
func (s *CommissionService) Summary(ctx context.Context, tenantID uuid.UUID, req CommissionSummaryRequest) ([]finance.CommissionSummary, error) {
	from, to := req.From, req.To
	now := s.now()
	if from.IsZero() {
		from = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	}
	if to.IsZero() {
		to = now
	} else {
		to = to.AddDate(0, 0, 1)
	}
	if !from.Before(to) {
		return nil, shared.NewDomainError("INVALID_PERIOD", "from must be before to")
	}
	summaries, err := s.commissionRepo.Summarize(ctx, tenantID, req.UserID, from, to)
	if err != nil {
		return nil, err
	}
	if summaries == nil {
		summaries = []finance.CommissionSummary{}
	}
	return summaries, nil
}
