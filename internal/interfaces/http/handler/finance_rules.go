package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	financeapp "github.com/repairpos/backend/internal/application/finance"
)

type reviewFunc func(ctx context.Context, tenantID, reviewerID, id uuid.UUID, req financeapp.ReviewReimbursementRequest) (*financeapp.ReimbursementResponse, error)

// CreateCommissionRule godoc
// @ID           createCommissionRule
// @Summary      Create a commission rule
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CommissionRuleRequest true "Rule"
// @Success      201 {object} APIResponse[financeapp.CommissionRuleResponse]
// @Security     BearerAuth
// @Router       /finance/commission-rules [post]
func (h *FinanceHandler) CreateCommissionRule(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.commissions.CreateRule)
}

// GetCommissionRule godoc
// @ID           getCommissionRule
// @Summary      Get a commission rule
// @Tags         commissions
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CommissionRuleResponse]
// @Security     BearerAuth
// @Router       /finance/commission-rules/{id} [get]
func (h *FinanceHandler) GetCommissionRule(c *gin.Context) {
	byID(&h.BaseHandler, c, h.commissions.GetRule)
}

// ListCommissionRules godoc
// @ID           listCommissionRules
// @Summary      List commission rules
// @Tags         commissions
// @Produce      json
// @Param        is_active query bool false "Active rules only"
// @Param        condition_type query string false "Condition type"
// @Success      200 {object} APIResponse[[]financeapp.CommissionRuleResponse]
// @Security     BearerAuth
// @Router       /finance/commission-rules [get]
func (h *FinanceHandler) ListCommissionRules(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.commissions.ListRules, "is_active", "condition_type")
}

// UpdateCommissionRule godoc
// @ID           updateCommissionRule
// @Summary      Update a commission rule
// @Tags         commissions
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body financeapp.CommissionRuleRequest true "Rule"
// @Success      200 {object} APIResponse[financeapp.CommissionRuleResponse]
// @Security     BearerAuth
// @Router       /finance/commission-rules/{id} [put]
func (h *FinanceHandler) UpdateCommissionRule(c *gin.Context) {
	updateByID(&h.BaseHandler, c, h.commissions.UpdateRule)
}

// DeleteCommissionRule godoc
// @ID           deleteCommissionRule
// @Summary      Delete a commission rule
// @Tags         commissions
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /finance/commission-rules/{id} [delete]
func (h *FinanceHandler) DeleteCommissionRule(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.commissions.DeleteRule)
}

// ListCommissions godoc
// @ID           listCommissions
// @Summary      List earned commissions
// @Tags         commissions
// @Produce      json
// @Param        user_id query string false "Earner" format(uuid)
// @Param        status query string false "pending, paid or cancelled"
// @Param        source_type query string false "sale or service_order"
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Day after the last (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]financeapp.CommissionResponse]
// @Security     BearerAuth
// @Router       /finance/commissions [get]
func (h *FinanceHandler) ListCommissions(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.commissions.ListCommissions, "user_id", "status", "source_type", "from", "to")
}

// MarkCommissionPaid godoc
// @ID           markCommissionPaid
// @Summary      Mark a commission paid
// @Tags         commissions
// @Produce      json
// @Param        id path string true "Commission ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CommissionResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/commissions/{id}/pay [post]
func (h *FinanceHandler) MarkCommissionPaid(c *gin.Context) {
	byID(&h.BaseHandler, c, h.commissions.MarkPaid)
}

// CancelCommission godoc
// @ID           cancelCommission
// @Summary      Cancel a commission
// @Tags         commissions
// @Produce      json
// @Param        id path string true "Commission ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.CommissionResponse]
// @Security     BearerAuth
// @Router       /finance/commissions/{id}/cancel [post]
func (h *FinanceHandler) CancelCommission(c *gin.Context) {
	byID(&h.BaseHandler, c, h.commissions.Cancel)
}

// CommissionSummary godoc
// @ID           commissionSummary
// @Summary      Commission totals per earner
// @Tags         commissions
// @Produce      json
// @Param        user_id query string false "Earner" format(uuid)
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]finance.CommissionSummary]
// @Security     BearerAuth
// @Router       /finance/commissions/summary [get]
func (h *FinanceHandler) CommissionSummary(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.CommissionSummaryRequest
	if !h.bindQuery(c, &req) {
		return
	}
	summary, err := h.commissions.Summary(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// CreatePricingRule godoc
// @ID           createPricingRule
// @Summary      Create a pricing rule
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body financeapp.PricingRuleRequest true "Rule"
// @Success      201 {object} APIResponse[financeapp.PricingRuleResponse]
// @Security     BearerAuth
// @Router       /pricing/rules [post]
func (h *FinanceHandler) CreatePricingRule(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.pricing.CreateRule)
}

// GetPricingRule godoc
// @ID           getPricingRule
// @Summary      Get a pricing rule
// @Tags         pricing
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PricingRuleResponse]
// @Security     BearerAuth
// @Router       /pricing/rules/{id} [get]
func (h *FinanceHandler) GetPricingRule(c *gin.Context) {
	byID(&h.BaseHandler, c, h.pricing.GetRule)
}

// ListPricingRules godoc
// @ID           listPricingRules
// @Summary      List pricing rules
// @Tags         pricing
// @Produce      json
// @Param        is_active query bool false "Active rules only"
// @Param        condition_type query string false "Condition type"
// @Success      200 {object} APIResponse[[]financeapp.PricingRuleResponse]
// @Security     BearerAuth
// @Router       /pricing/rules [get]
func (h *FinanceHandler) ListPricingRules(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.pricing.ListRules, "is_active", "condition_type")
}

// UpdatePricingRule godoc
// @ID           updatePricingRule
// @Summary      Update a pricing rule
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        id path string true "Rule ID" format(uuid)
// @Param        request body financeapp.PricingRuleRequest true "Rule"
// @Success      200 {object} APIResponse[financeapp.PricingRuleResponse]
// @Security     BearerAuth
// @Router       /pricing/rules/{id} [put]
func (h *FinanceHandler) UpdatePricingRule(c *gin.Context) {
	updateByID(&h.BaseHandler, c, h.pricing.UpdateRule)
}

// DeletePricingRule godoc
// @ID           deletePricingRule
// @Summary      Delete a pricing rule
// @Tags         pricing
// @Param        id path string true "Rule ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /pricing/rules/{id} [delete]
func (h *FinanceHandler) DeletePricingRule(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.pricing.DeleteRule)
}

// Quote godoc
// @ID           quotePrice
// @Summary      Price a product
// @Description  Applies the best matching pricing rule for the quantity and customer
// @Tags         pricing
// @Accept       json
// @Produce      json
// @Param        request body financeapp.QuoteRequest true "Quote"
// @Success      200 {object} APIResponse[finance.Quote]
// @Security     BearerAuth
// @Router       /pricing/quote [post]
func (h *FinanceHandler) Quote(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req financeapp.QuoteRequest
	if !h.bindJSON(c, &req) {
		return
	}
	quote, err := h.pricing.Quote(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, quote)
}

// PriceHistory godoc
// @ID           priceHistory
// @Summary      Price changes of a product
// @Tags         pricing
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        variation_id query string false "Variation" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.PriceHistoryResponse]
// @Security     BearerAuth
// @Router       /products/{id}/price-history [get]
func (h *FinanceHandler) PriceHistory(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "variation_id")
	if !ok {
		return
	}
	page, err := h.pricing.PriceHistory(c.Request.Context(), tenantID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}
