package handler

import (
	"github.com/gin-gonic/gin"
	crmapp "github.com/repairpos/backend/internal/application/crm"
)

// CRMHandler serves customers and leads
type CRMHandler struct {
	BaseHandler
	customers *crmapp.CustomerService
	leads     *crmapp.LeadService
}

// NewCRMHandler creates a CRMHandler
func NewCRMHandler(customers *crmapp.CustomerService, leads *crmapp.LeadService) *CRMHandler {
	return &CRMHandler{customers: customers, leads: leads}
}

// CreateCustomer godoc
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CustomerRequest true "Customer"
// @Success      201 {object} APIResponse[crmapp.CustomerResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CRMHandler) CreateCustomer(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req crmapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customers.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// GetCustomer godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[crmapp.CustomerResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CRMHandler) GetCustomer(c *gin.Context) {
	byID(&h.BaseHandler, c, h.customers.GetByID)
}

// ListCustomers godoc
// @ID           listCustomers
// @Summary      List customers
// @Tags         customers
// @Produce      json
// @Param        search query string false "Name, document, email or phone"
// @Param        type query string false "individual or company"
// @Param        is_active query bool false "Active flag"
// @Success      200 {object} APIResponse[[]crmapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CRMHandler) ListCustomers(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "type", "is_active")
	if !ok {
		return
	}
	page, err := h.customers.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// UpdateCustomer godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Param        request body crmapp.CustomerRequest true "Customer"
// @Success      200 {object} APIResponse[crmapp.CustomerResponse]
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CRMHandler) UpdateCustomer(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req crmapp.CustomerRequest
	if !h.bindJSON(c, &req) {
		return
	}
	customer, err := h.customers.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// DeleteCustomer godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CRMHandler) DeleteCustomer(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.customers.Delete)
}

// CustomerHistory godoc
// @ID           customerHistory
// @Summary      Sales and repairs of a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID" format(uuid)
// @Success      200 {object} APIResponse[crmapp.CustomerHistoryResponse]
// @Security     BearerAuth
// @Router       /customers/{id}/history [get]
func (h *CRMHandler) CustomerHistory(c *gin.Context) {
	byID(&h.BaseHandler, c, h.customers.History)
}

// CreateLead godoc
// @ID           createLead
// @Summary      Create a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        request body crmapp.CreateLeadRequest true "Lead"
// @Success      201 {object} APIResponse[crmapp.LeadResponse]
// @Security     BearerAuth
// @Router       /leads [post]
func (h *CRMHandler) CreateLead(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req crmapp.CreateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.leads.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, lead)
}

// GetLead godoc
// @ID           getLead
// @Summary      Get a lead
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      200 {object} APIResponse[crmapp.LeadResponse]
// @Security     BearerAuth
// @Router       /leads/{id} [get]
func (h *CRMHandler) GetLead(c *gin.Context) {
	byID(&h.BaseHandler, c, h.leads.GetByID)
}

// ListLeads godoc
// @ID           listLeads
// @Summary      List leads
// @Tags         leads
// @Produce      json
// @Param        status query string false "Lead status"
// @Param        source query string false "Lead source"
// @Param        assigned_to query string false "Assigned user" format(uuid)
// @Success      200 {object} APIResponse[[]crmapp.LeadResponse]
// @Security     BearerAuth
// @Router       /leads [get]
func (h *CRMHandler) ListLeads(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "status", "source", "assigned_to")
	if !ok {
		return
	}
	page, err := h.leads.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// UpdateLead godoc
// @ID           updateLead
// @Summary      Update a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body crmapp.UpdateLeadRequest true "Lead"
// @Success      200 {object} APIResponse[crmapp.LeadResponse]
// @Security     BearerAuth
// @Router       /leads/{id} [put]
func (h *CRMHandler) UpdateLead(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req crmapp.UpdateLeadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.leads.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}

// ChangeLeadStatus godoc
// @ID           changeLeadStatus
// @Summary      Change the status of a lead
// @Tags         leads
// @Accept       json
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Param        request body crmapp.ChangeLeadStatusRequest true "Status"
// @Success      200 {object} APIResponse[crmapp.LeadResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/status [put]
func (h *CRMHandler) ChangeLeadStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req crmapp.ChangeLeadStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	lead, err := h.leads.ChangeStatus(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, lead)
}

// ConvertLead godoc
// @ID           convertLead
// @Summary      Convert a lead into a customer
// @Tags         leads
// @Produce      json
// @Param        id path string true "Lead ID" format(uuid)
// @Success      201 {object} APIResponse[crmapp.ConvertLeadResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /leads/{id}/convert [post]
func (h *CRMHandler) ConvertLead(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	result, err := h.leads.Convert(c.Request.Context(), tenantID, userID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}
