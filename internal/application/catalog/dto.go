package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to create a new product
type CreateProductRequest struct {
	SKU         string           `json:"sku" binding:"required,min=1,max=50"`
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Category    string           `json:"category" binding:"max=100"`
	Brand       string           `json:"brand" binding:"max=100"`
	Unit        string           `json:"unit" binding:"max=20"`
	CostPrice   *decimal.Decimal `json:"cost_price"`
	SalePrice   *decimal.Decimal `json:"sale_price"`
	MinStock    *decimal.Decimal `json:"min_stock"`
	IsService   bool             `json:"is_service"`
	CreatedBy   *uuid.UUID       `json:"-"`
}

// UpdateProductRequest represents a request to update the descriptive fields of a product
type UpdateProductRequest struct {
	Name        string           `json:"name" binding:"required,min=1,max=200"`
	Description string           `json:"description" binding:"max=2000"`
	Category    string           `json:"category" binding:"max=100"`
	Brand       string           `json:"brand" binding:"max=100"`
	MinStock    *decimal.Decimal `json:"min_stock"`
}

// ChangePriceRequest represents a price change
type ChangePriceRequest struct {
	CostPrice decimal.Decimal `json:"cost_price"`
	SalePrice decimal.Decimal `json:"sale_price"`
	Reason    string          `json:"reason" binding:"max=255"`
}

// VariationRequest represents a variation to add or update
type VariationRequest struct {
	SKU        string                 `json:"sku" binding:"max=50"`
	Name       string                 `json:"name" binding:"required,min=1,max=200"`
	Attributes map[string]interface{} `json:"attributes"`
	Price      *decimal.Decimal       `json:"price"`
	Status     string                 `json:"status" binding:"omitempty,oneof=active inactive"`
}

// VariationResponse represents a variation in API responses
type VariationResponse struct {
	ID         uuid.UUID              `json:"id"`
	SKU        string                 `json:"sku"`
	Name       string                 `json:"name"`
	Attributes map[string]interface{} `json:"attributes"`
	Price      *decimal.Decimal       `json:"price,omitempty"`
	Status     string                 `json:"status"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID          uuid.UUID           `json:"id"`
	TenantID    uuid.UUID           `json:"tenant_id"`
	SKU         string              `json:"sku"`
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Category    string              `json:"category"`
	Brand       string              `json:"brand"`
	Unit        string              `json:"unit"`
	CostPrice   decimal.Decimal     `json:"cost_price"`
	SalePrice   decimal.Decimal     `json:"sale_price"`
	MinStock    decimal.Decimal     `json:"min_stock"`
	IsService   bool                `json:"is_service"`
	Status      string              `json:"status"`
	Variations  []VariationResponse `json:"variations"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
	Version     int                 `json:"version"`
}

// ToProductResponse converts a domain product to a response
func ToProductResponse(p *catalog.Product) ProductResponse {
	variations := make([]VariationResponse, len(p.Variations))
	for i := range p.Variations {
		variations[i] = toVariationResponse(&p.Variations[i])
	}
	return ProductResponse{
		ID:          p.ID,
		TenantID:    p.TenantID,
		SKU:         p.SKU,
		Name:        p.Name,
		Description: p.Description,
		Category:    p.Category,
		Brand:       p.Brand,
		Unit:        p.Unit,
		CostPrice:   p.CostPrice,
		SalePrice:   p.SalePrice,
		MinStock:    p.MinStock,
		IsService:   p.IsService,
		Status:      string(p.Status),
		Variations:  variations,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		Version:     p.Version,
	}
}

func toVariationResponse(v *catalog.ProductVariation) VariationResponse {
	attrs := map[string]interface{}(v.Attributes)
	if attrs == nil {
		attrs = map[string]interface{}{}
	}
	return VariationResponse{
		ID:         v.ID,
		SKU:        v.SKU,
		Name:       v.Name,
		Attributes: attrs,
		Price:      v.Price,
		Status:     string(v.Status),
	}
}
