package handler

import (
	"github.com/gin-gonic/gin"
	inventoryapp "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/inventory"
)

// InventoryHandler serves branch stock and stock movements
type InventoryHandler struct {
	BaseHandler
	stock *inventoryapp.StockService
}

// NewInventoryHandler creates an InventoryHandler
func NewInventoryHandler(stock *inventoryapp.StockService) *InventoryHandler {
	return &InventoryHandler{stock: stock}
}

// ListStock godoc
// @ID           listStock
// @Summary      List branch stock
// @Tags         inventory
// @Produce      json
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        product_id query string false "Product" format(uuid)
// @Param        low_stock query bool false "Only rows at or below the minimum"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]inventoryapp.StockResponse]
// @Security     BearerAuth
// @Router       /inventory/stock [get]
func (h *InventoryHandler) ListStock(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "branch_id", "product_id", "variation_id", "low_stock")
	if !ok {
		return
	}
	page, err := h.stock.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// GetStock godoc
// @ID           getStock
// @Summary      Stock of a product in a branch
// @Description  A product never stocked in the branch reports zero
// @Tags         inventory
// @Produce      json
// @Param        branch_id path string true "Branch ID" format(uuid)
// @Param        product_id path string true "Product ID" format(uuid)
// @Param        variation_id query string false "Variation" format(uuid)
// @Success      200 {object} APIResponse[inventoryapp.StockResponse]
// @Security     BearerAuth
// @Router       /inventory/stock/{branch_id}/{product_id} [get]
func (h *InventoryHandler) GetStock(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	branchID, ok := h.pathID(c, "branch_id")
	if !ok {
		return
	}
	productID, ok := h.pathID(c, "product_id")
	if !ok {
		return
	}
	variationID, ok := h.queryUUID(c, "variation_id")
	if !ok {
		return
	}
	key := inventory.StockKey{BranchID: branchID, ProductID: productID, VariationID: variationID}
	stock, err := h.stock.Get(c.Request.Context(), tenantID, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// Adjust godoc
// @ID           adjustStock
// @Summary      Adjust stock
// @Description  Sets an absolute count (quantity) or applies a delta. Stock never goes negative.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.AdjustStockRequest true "Adjustment"
// @Success      200 {object} APIResponse[inventoryapp.StockResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/adjustments [post]
func (h *InventoryHandler) Adjust(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventoryapp.AdjustStockRequest
	if !h.bindJSON(c, &req) {
		return
	}
	stock, err := h.stock.Adjust(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// SetMinQuantity godoc
// @ID           setStockMinimum
// @Summary      Set the low stock threshold
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.SetMinQuantityRequest true "Threshold"
// @Success      200 {object} APIResponse[inventoryapp.StockResponse]
// @Security     BearerAuth
// @Router       /inventory/minimums [put]
func (h *InventoryHandler) SetMinQuantity(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req inventoryapp.SetMinQuantityRequest
	if !h.bindJSON(c, &req) {
		return
	}
	stock, err := h.stock.SetMinQuantity(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stock)
}

// Transfer godoc
// @ID           transferStock
// @Summary      Transfer stock between branches
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body inventoryapp.TransferRequest true "Transfer"
// @Success      200 {object} APIResponse[inventoryapp.TransferResponse]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req inventoryapp.TransferRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.stock.Transfer(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListMovements godoc
// @ID           listStockMovements
// @Summary      List stock movements
// @Tags         inventory
// @Produce      json
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        product_id query string false "Product" format(uuid)
// @Param        type query string false "Movement type"
// @Param        reference_id query string false "Sale, return or service order" format(uuid)
// @Success      200 {object} APIResponse[[]inventoryapp.MovementResponse]
// @Security     BearerAuth
// @Router       /inventory/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "branch_id", "product_id", "type", "reference_id")
	if !ok {
		return
	}
	page, err := h.stock.ListMovements(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}
