package handler

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	repairapp "github.com/repairpos/backend/internal/application/repair"
)

// ServiceOrderHandler serves repair service orders
type ServiceOrderHandler struct {
	BaseHandler
	orders *repairapp.ServiceOrderService
}

// NewServiceOrderHandler creates a ServiceOrderHandler
func NewServiceOrderHandler(orders *repairapp.ServiceOrderService) *ServiceOrderHandler {
	return &ServiceOrderHandler{orders: orders}
}

// Create godoc
// @ID           createServiceOrder
// @Summary      Open a service order
// @Description  Registers a device brought in for repair. The order starts as received.
// @Tags         repair
// @Accept       json
// @Produce      json
// @Param        request body repairapp.CreateServiceOrderRequest true "Service order"
// @Success      201 {object} APIResponse[repairapp.ServiceOrderResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs [post]
func (h *ServiceOrderHandler) Create(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req repairapp.CreateServiceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Create(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// GetByID godoc
// @ID           getServiceOrder
// @Summary      Get a service order
// @Tags         repair
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Success      200 {object} APIResponse[repairapp.ServiceOrderResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/{id} [get]
func (h *ServiceOrderHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orders.GetByID)
}

// List godoc
// @ID           listServiceOrders
// @Summary      List service orders
// @Tags         repair
// @Produce      json
// @Param        status query string false "Status"
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        technician_id query string false "Technician" format(uuid)
// @Param        customer_id query string false "Customer" format(uuid)
// @Param        priority query string false "Priority"
// @Param        open query bool false "Only orders not yet delivered or cancelled"
// @Param        date_from query string false "First day (YYYY-MM-DD)"
// @Param        date_to query string false "Last day (YYYY-MM-DD)"
// @Param        search query string false "Number, device or serial"
// @Success      200 {object} APIResponse[[]repairapp.ServiceOrderResponse]
// @Security     BearerAuth
// @Router       /repairs [get]
func (h *ServiceOrderHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "status", "branch_id", "technician_id", "customer_id", "priority", "open", "date_from", "date_to")
	if !ok {
		return
	}
	page, err := h.orders.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Update godoc
// @ID           updateServiceOrder
// @Summary      Update a service order
// @Tags         repair
// @Accept       json
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Param        request body repairapp.UpdateServiceOrderRequest true "Changes"
// @Success      200 {object} APIResponse[repairapp.ServiceOrderResponse]
// @Security     BearerAuth
// @Router       /repairs/{id} [put]
func (h *ServiceOrderHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req repairapp.UpdateServiceOrderRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// ChangeStatus godoc
// @ID           changeServiceOrderStatus
// @Summary      Move a service order through its workflow
// @Description  Only transitions allowed by the repair workflow are accepted; others answer 422
// @Tags         repair
// @Accept       json
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Param        request body repairapp.ChangeStatusRequest true "New status"
// @Success      200 {object} APIResponse[repairapp.ServiceOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/{id}/status [put]
func (h *ServiceOrderHandler) ChangeStatus(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req repairapp.ChangeStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.ChangeStatus(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AssignTechnician godoc
// @ID           assignServiceOrderTechnician
// @Summary      Assign the technician
// @Tags         repair
// @Accept       json
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Param        request body repairapp.AssignTechnicianRequest true "Technician"
// @Success      200 {object} APIResponse[repairapp.ServiceOrderResponse]
// @Security     BearerAuth
// @Router       /repairs/{id}/technician [put]
func (h *ServiceOrderHandler) AssignTechnician(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req repairapp.AssignTechnicianRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.AssignTechnician(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// AddPart godoc
// @ID           addServiceOrderPart
// @Summary      Consume a part
// @Description  Takes the part out of the branch stock and adds it to the order cost
// @Tags         repair
// @Accept       json
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Param        request body repairapp.AddPartRequest true "Part"
// @Success      200 {object} APIResponse[repairapp.ServiceOrderResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/{id}/parts [post]
func (h *ServiceOrderHandler) AddPart(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req repairapp.AddPartRequest
	if !h.bindJSON(c, &req) {
		return
	}
	order, err := h.orders.AddPart(c.Request.Context(), tenantID, userID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

// UploadPhoto godoc
// @ID           uploadServiceOrderPhoto
// @Summary      Attach a device photo
// @Tags         repair
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Param        photo formData file true "Image"
// @Param        caption formData string false "Caption"
// @Success      201 {object} APIResponse[repairapp.PhotoResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/{id}/photos [post]
func (h *ServiceOrderHandler) UploadPhoto(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	header, err := c.FormFile("photo")
	if err != nil {
		h.BadRequest(c, "photo file is required")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "cannot read photo")
		return
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		h.BadRequest(c, "cannot read photo")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	photo, err := h.orders.UploadPhoto(c.Request.Context(), tenantID, userID, id, repairapp.UploadPhotoRequest{
		ContentType: contentType,
		Data:        data,
		Caption:     c.PostForm("caption"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, photo)
}

// ListPhotos godoc
// @ID           listServiceOrderPhotos
// @Summary      List device photos
// @Description  Each photo carries a short lived download URL
// @Tags         repair
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Success      200 {object} APIResponse[[]repairapp.PhotoResponse]
// @Security     BearerAuth
// @Router       /repairs/{id}/photos [get]
func (h *ServiceOrderHandler) ListPhotos(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orders.ListPhotos)
}

// History godoc
// @ID           serviceOrderHistory
// @Summary      Status history
// @Tags         repair
// @Produce      json
// @Param        id path string true "Service order ID" format(uuid)
// @Success      200 {object} APIResponse[[]repairapp.HistoryResponse]
// @Security     BearerAuth
// @Router       /repairs/{id}/history [get]
func (h *ServiceOrderHandler) History(c *gin.Context) {
	byID(&h.BaseHandler, c, h.orders.History)
}

// Print godoc
// @ID           printServiceOrder
// @Summary      Print the service order
// @Tags         repair
// @Produce      application/pdf
// @Param        id path string true "Service order ID" format(uuid)
// @Success      200 {file} binary
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /repairs/{id}/print [get]
func (h *ServiceOrderHandler) Print(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	pdf, filename, err := h.orders.Print(c.Request.Context(), tenantID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.PDF(c, filename, pdf)
}

// CountByStatus godoc
// @ID           countServiceOrdersByStatus
// @Summary      Count service orders per status
// @Tags         repair
// @Produce      json
// @Param        branch_id query string false "Branch" format(uuid)
// @Success      200 {object} APIResponse[map[string]int64]
// @Security     BearerAuth
// @Router       /repairs/stats/status [get]
func (h *ServiceOrderHandler) CountByStatus(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	branchID, ok := h.queryUUID(c, "branch_id")
	if !ok {
		return
	}
	counts, err := h.orders.CountByStatus(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, counts)
}
