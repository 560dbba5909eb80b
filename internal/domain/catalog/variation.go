package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// ProductVariation is a sellable flavour of a product (color, capacity)
type ProductVariation struct {
	shared.TenantEntity
	ProductID  uuid.UUID         `gorm:"type:uuid;not null;index"`
	SKU        string            `gorm:"type:varchar(50);not null"`
	Name       string            `gorm:"type:varchar(200);not null"`
	Attributes datatypes.JSONMap `gorm:"type:jsonb"`
	Price      *decimal.Decimal  `gorm:"type:decimal(18,4)"`
	Status     ProductStatus     `gorm:"type:varchar(20);not null"`
}

func (ProductVariation) TableName() string {
	return "product_variations"
}

// AddVariation attaches a new variation; SKUs are unique inside the product
func (p *Product) AddVariation(sku, name string, attributes map[string]interface{}, price *decimal.Decimal) (*ProductVariation, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price != nil && price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	sku = strings.ToUpper(strings.TrimSpace(sku))
	for _, v := range p.Variations {
		if v.SKU == sku {
			return nil, shared.NewDomainError("ALREADY_EXISTS", "Variation SKU already exists: "+sku)
		}
	}
	if attributes == nil {
		attributes = map[string]interface{}{}
	}
	v := ProductVariation{
		TenantEntity: shared.NewTenantEntity(p.TenantID),
		ProductID:    p.ID,
		SKU:          sku,
		Name:         strings.TrimSpace(name),
		Attributes:   datatypes.JSONMap(attributes),
		Price:        price,
		Status:       ProductStatusActive,
	}
	p.Variations = append(p.Variations, v)
	p.IncrementVersion()
	return &p.Variations[len(p.Variations)-1], nil
}

// UpdateVariation changes a variation; a price change emits ProductPriceChanged
func (p *Product) UpdateVariation(id uuid.UUID, name string, attributes map[string]interface{}, price *decimal.Decimal, status ProductStatus, changedBy uuid.UUID) (*ProductVariation, error) {
	v, ok := p.Variation(id)
	if !ok {
		return nil, shared.NewDomainError("VARIATION_NOT_FOUND", "Variation does not belong to the product")
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if price != nil && price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	if status != ProductStatusActive && status != ProductStatusInactive {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown variation status")
	}
	oldPrice := effectivePrice(v.Price, p.SalePrice)
	newPrice := effectivePrice(price, p.SalePrice)

	v.Name = strings.TrimSpace(name)
	if attributes != nil {
		v.Attributes = datatypes.JSONMap(attributes)
	}
	v.Price = price
	v.Status = status
	v.Touch()
	p.IncrementVersion()
	if !oldPrice.Equal(newPrice) {
		vid := v.ID
		p.AddDomainEvent(NewProductPriceChangedEvent(p, &vid, oldPrice, newPrice, changedBy, "variation price update"))
	}
	return v, nil
}

// RemoveVariation detaches a variation
func (p *Product) RemoveVariation(id uuid.UUID) error {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			p.Variations = append(p.Variations[:i], p.Variations[i+1:]...)
			p.IncrementVersion()
			return nil
		}
	}
	return shared.NewDomainError("VARIATION_NOT_FOUND", "Variation does not belong to the product")
}

func effectivePrice(override *decimal.Decimal, base decimal.Decimal) decimal.Decimal {
	if override != nil {
		return *override
	}
	return base
}
