package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	catalogapp "github.com/repairpos/backend/internal/application/catalog"
)

// maxImportFileSize bounds the uploaded CSV
const maxImportFileSize = 5 << 20

// ProductHandler serves products and their variations
type ProductHandler struct {
	BaseHandler
	products *catalogapp.ProductService
	importer *catalogapp.ProductImportService
}

// NewProductHandler creates a ProductHandler
func NewProductHandler(products *catalogapp.ProductService, importer *catalogapp.ProductImportService) *ProductHandler {
	return &ProductHandler{products: products, importer: importer}
}

// Import godoc
// @ID           importProducts
// @Summary      Import products from CSV
// @Description  Columns sku and name are required. Comma or semicolon delimited, UTF-8 or Windows-1252.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Param        file formData file true "CSV file"
// @Param        mode query string false "skip or update existing SKUs" Enums(skip, update)
// @Param        dry_run query bool false "Validate without saving"
// @Success      200 {object} APIResponse[catalogapp.ImportResult]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/import [post]
func (h *ProductHandler) Import(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	dryRun := false
	if raw := c.Query("dry_run"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			h.BadRequest(c, "dry_run must be true or false")
			return
		}
		dryRun = v
	}
	header, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "file is required")
		return
	}
	if header.Size > maxImportFileSize {
		h.BadRequest(c, "file exceeds 5 MB")
		return
	}
	file, err := header.Open()
	if err != nil {
		h.BadRequest(c, "cannot read file")
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), tenantID, file, catalogapp.ImportOptions{
		Mode:    c.DefaultQuery("mode", catalogapp.ImportModeSkip),
		DryRun:  dryRun,
		ActorID: userID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Create godoc
// @ID           createProduct
// @Summary      Create a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req catalogapp.CreateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.products.Create(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// GetByID godoc
// @ID           getProduct
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [get]
func (h *ProductHandler) GetByID(c *gin.Context) {
	byID(&h.BaseHandler, c, h.products.GetByID)
}

// List godoc
// @ID           listProducts
// @Summary      List products
// @Tags         products
// @Produce      json
// @Param        search query string false "SKU, name or brand"
// @Param        category query string false "Category"
// @Param        brand query string false "Brand"
// @Param        status query string false "active or inactive"
// @Param        is_service query bool false "Labour items only"
// @Param        page query int false "Page"
// @Param        page_size query int false "Page size"
// @Success      200 {object} APIResponse[[]catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	filter, ok := h.listFilter(c, "category", "brand", "status", "is_service")
	if !ok {
		return
	}
	page, err := h.products.List(c.Request.Context(), tenantID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Page(&h.BaseHandler, c, page)
}

// Update godoc
// @ID           updateProduct
// @Summary      Update a product
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.UpdateProductRequest true "Product"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.UpdateProductRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.products.Update(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// ChangePrice godoc
// @ID           changeProductPrice
// @Summary      Change the price of a product
// @Description  Records the change in the price history
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.ChangePriceRequest true "Prices"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /products/{id}/price [put]
func (h *ProductHandler) ChangePrice(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.ChangePriceRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.products.ChangePrice(c.Request.Context(), tenantID, id, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Activate godoc
// @ID           activateProduct
// @Summary      Activate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /products/{id}/activate [post]
func (h *ProductHandler) Activate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.products.Activate)
}

// Deactivate godoc
// @ID           deactivateProduct
// @Summary      Deactivate a product
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /products/{id}/deactivate [post]
func (h *ProductHandler) Deactivate(c *gin.Context) {
	byID(&h.BaseHandler, c, h.products.Deactivate)
}

// Delete godoc
// @ID           deleteProduct
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID" format(uuid)
// @Success      204
// @Security     BearerAuth
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	deleteByID(&h.BaseHandler, c, h.products.Delete)
}

// AddVariation godoc
// @ID           addProductVariation
// @Summary      Add a variation
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body catalogapp.VariationRequest true "Variation"
// @Success      201 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /products/{id}/variations [post]
func (h *ProductHandler) AddVariation(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req catalogapp.VariationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.products.AddVariation(c.Request.Context(), tenantID, id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, product)
}

// UpdateVariation godoc
// @ID           updateProductVariation
// @Summary      Update a variation
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        variation_id path string true "Variation ID" format(uuid)
// @Param        request body catalogapp.VariationRequest true "Variation"
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /products/{id}/variations/{variation_id} [put]
func (h *ProductHandler) UpdateVariation(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	variationID, ok := h.pathID(c, "variation_id")
	if !ok {
		return
	}
	var req catalogapp.VariationRequest
	if !h.bindJSON(c, &req) {
		return
	}
	product, err := h.products.UpdateVariation(c.Request.Context(), tenantID, id, variationID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// RemoveVariation godoc
// @ID           removeProductVariation
// @Summary      Remove a variation
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        variation_id path string true "Variation ID" format(uuid)
// @Success      200 {object} APIResponse[catalogapp.ProductResponse]
// @Security     BearerAuth
// @Router       /products/{id}/variations/{variation_id} [delete]
func (h *ProductHandler) RemoveVariation(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	variationID, ok := h.pathID(c, "variation_id")
	if !ok {
		return
	}
	product, err := h.products.RemoveVariation(c.Request.Context(), tenantID, id, variationID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}
