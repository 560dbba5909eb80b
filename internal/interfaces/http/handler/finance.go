package handler

import (
	"github.com/gin-gonic/gin"
	financeapp "github.com/repairpos/backend/internal/application/finance"
)

// FinanceHandler serves accounts, commissions, pricing rules and reimbursements
type FinanceHandler struct {
	BaseHandler
	accounts       *financeapp.AccountService
	commissions    *financeapp.CommissionService
	pricing        *financeapp.PricingService
	reimbursements *financeapp.ReimbursementService
}

// NewFinanceHandler creates a FinanceHandler
func NewFinanceHandler(
	accounts *financeapp.AccountService,
	commissions *financeapp.CommissionService,
	pricing *financeapp.PricingService,
	reimbursements *financeapp.ReimbursementService,
) *FinanceHandler {
	return &FinanceHandler{
		accounts:       accounts,
		commissions:    commissions,
		pricing:        pricing,
		reimbursements: reimbursements,
	}
}

// CreateReceivable godoc
// @ID           createReceivable
// @Summary      Open a receivable
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateReceivableRequest true "Receivable"
// @Success      201 {object} APIResponse[financeapp.ReceivableResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/receivables [post]
func (h *FinanceHandler) CreateReceivable(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.accounts.CreateReceivable)
}

// GetReceivable godoc
// @ID           getReceivable
// @Summary      Get a receivable
// @Tags         finance
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ReceivableResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/receivables/{id} [get]
func (h *FinanceHandler) GetReceivable(c *gin.Context) {
	byID(&h.BaseHandler, c, h.accounts.GetReceivable)
}

// ListReceivables godoc
// @ID           listReceivables
// @Summary      List receivables
// @Tags         finance
// @Produce      json
// @Param        status query string false "pending, partial, paid or cancelled"
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        source query string false "sale, service_order or manual"
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        due_from query string false "Due on or after (YYYY-MM-DD)"
// @Param        due_to query string false "Due on or before (YYYY-MM-DD)"
// @Param        overdue query bool false "Only open accounts past their due date"
// @Success      200 {object} APIResponse[[]financeapp.ReceivableResponse]
// @Security     BearerAuth
// @Router       /finance/receivables [get]
func (h *FinanceHandler) ListReceivables(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.accounts.ListReceivables,
		"status", "customer_id", "source", "branch_id", "due_from", "due_to", "overdue")
}

// RecordReceivablePayment godoc
// @ID           payReceivable
// @Summary      Record a payment received
// @Description  Partial payments keep the account open until the balance reaches zero
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Param        request body financeapp.RecordPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[financeapp.ReceivableResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/receivables/{id}/payments [post]
func (h *FinanceHandler) RecordReceivablePayment(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.RecordReceivablePayment(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CancelReceivable godoc
// @ID           cancelReceivable
// @Summary      Cancel a receivable
// @Tags         finance
// @Produce      json
// @Param        id path string true "Receivable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ReceivableResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/receivables/{id}/cancel [post]
func (h *FinanceHandler) CancelReceivable(c *gin.Context) {
	byID(&h.BaseHandler, c, h.accounts.CancelReceivable)
}

// CreatePayable godoc
// @ID           createPayable
// @Summary      Open a payable
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreatePayableRequest true "Payable"
// @Success      201 {object} APIResponse[financeapp.PayableResponse]
// @Security     BearerAuth
// @Router       /finance/payables [post]
func (h *FinanceHandler) CreatePayable(c *gin.Context) {
	createFrom(&h.BaseHandler, c, h.accounts.CreatePayable)
}

// GetPayable godoc
// @ID           getPayable
// @Summary      Get a payable
// @Tags         finance
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PayableResponse]
// @Security     BearerAuth
// @Router       /finance/payables/{id} [get]
func (h *FinanceHandler) GetPayable(c *gin.Context) {
	byID(&h.BaseHandler, c, h.accounts.GetPayable)
}

// ListPayables godoc
// @ID           listPayables
// @Summary      List payables
// @Tags         finance
// @Produce      json
// @Param        status query string false "Status"
// @Param        category query string false "Expense category"
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        overdue query bool false "Only open accounts past their due date"
// @Success      200 {object} APIResponse[[]financeapp.PayableResponse]
// @Security     BearerAuth
// @Router       /finance/payables [get]
func (h *FinanceHandler) ListPayables(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.accounts.ListPayables,
		"status", "category", "branch_id", "due_from", "due_to", "overdue")
}

// RecordPayablePayment godoc
// @ID           payPayable
// @Summary      Record a payment made
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Param        request body financeapp.RecordPaymentRequest true "Payment"
// @Success      200 {object} APIResponse[financeapp.PayableResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/payables/{id}/payments [post]
func (h *FinanceHandler) RecordPayablePayment(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.RecordPaymentRequest
	if !h.bindJSON(c, &req) {
		return
	}
	account, err := h.accounts.RecordPayablePayment(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, account)
}

// CancelPayable godoc
// @ID           cancelPayable
// @Summary      Cancel a payable
// @Tags         finance
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.PayableResponse]
// @Security     BearerAuth
// @Router       /finance/payables/{id}/cancel [post]
func (h *FinanceHandler) CancelPayable(c *gin.Context) {
	byID(&h.BaseHandler, c, h.accounts.CancelPayable)
}

// CreateReimbursement godoc
// @ID           createReimbursement
// @Summary      Claim an expense reimbursement
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        request body financeapp.CreateReimbursementRequest true "Claim"
// @Success      201 {object} APIResponse[financeapp.ReimbursementResponse]
// @Security     BearerAuth
// @Router       /finance/reimbursements [post]
func (h *FinanceHandler) CreateReimbursement(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req financeapp.CreateReimbursementRequest
	if !h.bindJSON(c, &req) {
		return
	}
	claim, err := h.reimbursements.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, claim)
}

// GetReimbursement godoc
// @ID           getReimbursement
// @Summary      Get a reimbursement claim
// @Tags         finance
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Success      200 {object} APIResponse[financeapp.ReimbursementResponse]
// @Security     BearerAuth
// @Router       /finance/reimbursements/{id} [get]
func (h *FinanceHandler) GetReimbursement(c *gin.Context) {
	byID(&h.BaseHandler, c, h.reimbursements.Get)
}

// ListReimbursements godoc
// @ID           listReimbursements
// @Summary      List reimbursement claims
// @Tags         finance
// @Produce      json
// @Param        status query string false "Status"
// @Param        requester_id query string false "Requester" format(uuid)
// @Param        branch_id query string false "Branch" format(uuid)
// @Success      200 {object} APIResponse[[]financeapp.ReimbursementResponse]
// @Security     BearerAuth
// @Router       /finance/reimbursements [get]
func (h *FinanceHandler) ListReimbursements(c *gin.Context) {
	listWith(&h.BaseHandler, c, h.reimbursements.List, "status", "requester_id", "branch_id")
}

// ApproveReimbursement godoc
// @ID           approveReimbursement
// @Summary      Approve a claim
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body financeapp.ReviewReimbursementRequest false "Review note"
// @Success      200 {object} APIResponse[financeapp.ReimbursementResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/reimbursements/{id}/approve [post]
func (h *FinanceHandler) ApproveReimbursement(c *gin.Context) {
	h.review(c, h.reimbursements.Approve)
}

// RejectReimbursement godoc
// @ID           rejectReimbursement
// @Summary      Reject a claim
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body financeapp.ReviewReimbursementRequest false "Review note"
// @Success      200 {object} APIResponse[financeapp.ReimbursementResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/reimbursements/{id}/reject [post]
func (h *FinanceHandler) RejectReimbursement(c *gin.Context) {
	h.review(c, h.reimbursements.Reject)
}

func (h *FinanceHandler) review(c *gin.Context, fn reviewFunc) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.ReviewReimbursementRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	claim, err := fn(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, claim)
}

// PayReimbursement godoc
// @ID           payReimbursement
// @Summary      Pay an approved claim
// @Tags         finance
// @Accept       json
// @Produce      json
// @Param        id path string true "Claim ID" format(uuid)
// @Param        request body financeapp.PayReimbursementRequest true "Payment method"
// @Success      200 {object} APIResponse[financeapp.ReimbursementResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /finance/reimbursements/{id}/pay [post]
func (h *FinanceHandler) PayReimbursement(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req financeapp.PayReimbursementRequest
	if !h.bindJSON(c, &req) {
		return
	}
	claim, err := h.reimbursements.Pay(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, claim)
}
