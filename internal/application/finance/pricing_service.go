package finance

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// PricingService manages pricing rules, quotes prices and lists price history
type PricingService struct {
	ruleRepo     finance.PricingRuleRepository
	historyRepo  finance.PriceHistoryRepository
	productRepo  catalog.ProductRepository
	customerRepo crm.CustomerRepository
	logger       *zap.Logger
	now          func() time.Time
}

// NewPricingService creates a new PricingService
func NewPricingService(ruleRepo finance.PricingRuleRepository, historyRepo finance.PriceHistoryRepository, productRepo catalog.ProductRepository, customerRepo crm.CustomerRepository, logger *zap.Logger) *PricingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PricingService{
		ruleRepo:     ruleRepo,
		historyRepo:  historyRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		logger:       logger,
		now:          time.Now,
	}
}

func pricingRuleInput(req PricingRuleRequest) finance.PricingRuleInput {
	return finance.PricingRuleInput{
		Name:           req.Name,
		Priority:       req.Priority,
		ConditionType:  finance.PricingCondition(req.ConditionType),
		ConditionValue: req.ConditionValue,
		AdjustmentType: finance.PriceAdjustment(req.AdjustmentType),
		Value:          req.Value,
		ValidFrom:      req.ValidFrom,
		ValidTo:        req.ValidTo,
		IsActive:       boolOr(req.IsActive, true),
	}
}

func (s *PricingService) CreateRule(ctx context.Context, tenantID uuid.UUID, req PricingRuleRequest) (*PricingRuleResponse, error) {
	rule, err := finance.NewPricingRule(tenantID, pricingRuleInput(req))
	if err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Create(ctx, rule); err != nil {
		return nil, err
	}
	resp := toPricingRuleResponse(rule)
	return &resp, nil
}

func (s *PricingService) GetRule(ctx context.Context, tenantID, id uuid.UUID) (*PricingRuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toPricingRuleResponse(rule)
	return &resp, nil
}

func (s *PricingService) ListRules(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PricingRuleResponse], error) {
	filter.Normalize()
	rules, total, err := s.ruleRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PricingRuleResponse, len(rules))
	for i := range rules {
		items[i] = toPricingRuleResponse(&rules[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *PricingService) UpdateRule(ctx context.Context, tenantID, id uuid.UUID, req PricingRuleRequest) (*PricingRuleResponse, error) {
	rule, err := s.ruleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := rule.Update(pricingRuleInput(req)); err != nil {
		return nil, err
	}
	if err := s.ruleRepo.Save(ctx, rule); err != nil {
		return nil, err
	}
	resp := toPricingRuleResponse(rule)
	return &resp, nil
}

func (s *PricingService) DeleteRule(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.ruleRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	return s.ruleRepo.Delete(ctx, tenantID, id)
}

// Quote prices a product line with the active pricing rules.
// Quantity defaults to 1; the customer, when given, supplies the customer type.
func (s *PricingService) Quote(ctx context.Context, tenantID uuid.UUID, req QuoteRequest) (*finance.Quote, error) {
	qty := req.Quantity
	if qty.IsZero() {
		qty = decimal.NewFromInt(1)
	}
	if qty.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	product, err := s.productRepo.FindByID(ctx, tenantID, req.ProductID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("PRODUCT_NOT_FOUND", "Product does not exist")
		}
		return nil, err
	}
	if !product.IsActive() {
		return nil, shared.NewDomainError("PRODUCT_INACTIVE", fmt.Sprintf("Product %s is inactive", product.SKU))
	}
	base, err := product.PriceFor(req.VariationID)
	if err != nil {
		return nil, err
	}
	pc := finance.PriceContext{
		ProductID: product.ID,
		Category:  product.Category,
		Quantity:  qty,
		BasePrice: base,
	}
	if req.CustomerID != nil {
		customer, err := s.customerRepo.FindByID(ctx, tenantID, *req.CustomerID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer does not exist")
			}
			return nil, err
		}
		pc.CustomerType = string(customer.Type)
	}
	rules, err := s.ruleRepo.FindActive(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	quote := finance.EvaluatePrice(rules, pc, s.now())
	return &quote, nil
}

// PriceHistory lists recorded price changes of a product, newest first
func (s *PricingService) PriceHistory(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) (*shared.Paginated[PriceHistoryResponse], error) {
	filter.Normalize()
	rows, total, err := s.historyRepo.FindByProduct(ctx, tenantID, productID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]PriceHistoryResponse, len(rows))
	for i, h := range rows {
		items[i] = PriceHistoryResponse{
			ID:          h.ID,
			ProductID:   h.ProductID,
			VariationID: h.VariationID,
			OldPrice:    h.OldPrice,
			NewPrice:    h.NewPrice,
			ChangedBy:   h.ChangedBy,
			Reason:      h.Reason,
			ChangedAt:   h.ChangedAt,
		}
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// PriceHistoryHandler records every product price change
type PriceHistoryHandler struct {
	historyRepo finance.PriceHistoryRepository
	logger      *zap.Logger
}

func NewPriceHistoryHandler(historyRepo finance.PriceHistoryRepository, logger *zap.Logger) *PriceHistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceHistoryHandler{historyRepo: historyRepo, logger: logger}
}

func (h *PriceHistoryHandler) EventTypes() []string {
	return []string{catalog.EventTypeProductPriceChanged}
}

func (h *PriceHistoryHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	e, ok := event.(*catalog.ProductPriceChangedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: %s", event.EventType())
	}
	entry := finance.NewPriceHistory(e.TenantID(), e.ProductID, e.VariationID, e.OldPrice, e.NewPrice, e.ChangedBy, e.Reason, e.OccurredAt())
	if err := h.historyRepo.Create(ctx, entry); err != nil {
		return err
	}
	h.logger.Debug("Price change recorded",
		zap.String("product_id", e.ProductID.String()),
		zap.String("old_price", e.OldPrice.String()),
		zap.String("new_price", e.NewPrice.String()))
	return nil
}
