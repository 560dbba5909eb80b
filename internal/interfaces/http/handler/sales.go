package handler

import (
	"github.com/gin-gonic/gin"
	salesapp "github.com/repairpos/backend/internal/application/sales"
)

// SaleHandler serves the point of sale
type SaleHandler struct {
	BaseHandler
	sales *salesapp.SaleService
}

// NewSaleHandler creates a SaleHandler
func NewSaleHandler(sales *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

// Create godoc
// @ID           createSale
// @Summary      Check out a sale
// @Description  Prices the items through the pricing rules, takes them out of the branch stock and opens a receivable for any unpaid balance, in one transaction.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.CreateSaleRequest true "Sale"
// @Success      201 {object} APIResponse[salesapp.SaleResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales [post]
func (h *SaleHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req salesapp.CreateSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sale, err := h.sales.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sale)
}

// GetByID godoc
// @ID           getSale
// @Summary      Get a sale
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id} [get]
func (h *SaleHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.sales.GetByID)
}

// List godoc
// @ID           listSales
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        seller_id query string false "Seller" format(uuid)
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        status query string false "Sale status"
// @Param        date_from query string false "First day (YYYY-MM-DD)"
// @Param        date_to query string false "Last day (YYYY-MM-DD)"
// @Success      200 {object} APIResponse[[]salesapp.SaleResponse]
// @Security     BearerAuth
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "branch_id", "seller_id", "customer_id", "status", "date_from", "date_to")
	if !ok {
		return
	}
	page, err := h.sales.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Cancel godoc
// @ID           cancelSale
// @Summary      Cancel a sale
// @Description  Puts the items back in stock and cancels the pending receivable
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body salesapp.CancelSaleRequest true "Reason"
// @Success      200 {object} APIResponse[salesapp.SaleResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/cancel [post]
func (h *SaleHandler) Cancel(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.CancelSaleRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sale, err := h.sales.Cancel(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sale)
}

// Receipt godoc
// @ID           saleReceipt
// @Summary      Print the receipt
// @Tags         sales
// @Produce      application/pdf
// @Param        id path string true "Sale ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/receipt [get]
func (h *SaleHandler) Receipt(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.sales.Receipt(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.PDF(c, filename, pdf)
}

// CreateReturn godoc
// @ID           createSaleReturn
// @Summary      Return items of a sale
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        id path string true "Sale ID" format(uuid)
// @Param        request body salesapp.CreateReturnRequest true "Returned items"
// @Success      201 {object} APIResponse[salesapp.SaleReturnResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /sales/{id}/returns [post]
func (h *SaleHandler) CreateReturn(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req salesapp.CreateReturnRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ret, err := h.sales.CreateReturn(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, ret)
}

// GetReturn godoc
// @ID           getSaleReturn
// @Summary      Get a sale return
// @Tags         sales
// @Produce      json
// @Param        id path string true "Return ID" format(uuid)
// @Success      200 {object} APIResponse[salesapp.SaleReturnResponse]
// @Security     BearerAuth
// @Router       /sale-returns/{id} [get]
func (h *SaleHandler) GetReturn(c *gin.Context) {
	byID(&h.BaseHandler, c, h.sales.GetReturn)
}

// ListReturns godoc
// @ID           listSaleReturns
// @Summary      List sale returns
// @Tags         sales
// @Produce      json
// @Param        sale_id query string false "Sale" format(uuid)
// @Param        branch_id query string false "Branch" format(uuid)
// @Success      200 {object} APIResponse[[]salesapp.SaleReturnResponse]
// @Security     BearerAuth
// @Router       /sale-returns [get]
func (h *SaleHandler) ListReturns(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "sale_id", "branch_id", "date_from", "date_to")
	if !ok {
		return
	}
	page, err := h.sales.ListReturns(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}
