package catalog

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the status of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product is a sellable item or a labour service.
// Service products (IsService) never hold stock.
type Product struct {
	shared.TenantAggregateRoot
	SKU         string             `gorm:"type:varchar(50);not null"`
	Name        string             `gorm:"type:varchar(200);not null"`
	Description string             `gorm:"type:text"`
	Category    string             `gorm:"type:varchar(100);index"`
	Brand       string             `gorm:"type:varchar(100)"`
	Unit        string             `gorm:"type:varchar(20);not null"`
	CostPrice   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	SalePrice   decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	MinStock    decimal.Decimal    `gorm:"type:decimal(18,4);not null"`
	IsService   bool               `gorm:"not null"`
	Status      ProductStatus      `gorm:"type:varchar(20);not null"`
	Variations  []ProductVariation `gorm:"foreignKey:ProductID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates an active product with zero prices
func NewProduct(tenantID uuid.UUID, sku, name, unit string) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	unit = strings.TrimSpace(unit)
	if unit == "" {
		unit = "un"
	}
	if len(unit) > 20 {
		return nil, shared.NewDomainError("INVALID_UNIT", "Unit cannot exceed 20 characters")
	}

	p := &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SKU:                 strings.ToUpper(strings.TrimSpace(sku)),
		Name:                strings.TrimSpace(name),
		Unit:                unit,
		CostPrice:           decimal.Zero,
		SalePrice:           decimal.Zero,
		MinStock:            decimal.Zero,
		Status:              ProductStatusActive,
	}
	p.AddDomainEvent(NewProductCreatedEvent(p))
	return p, nil
}

// Update replaces the descriptive fields
func (p *Product) Update(name, description, category, brand string, minStock decimal.Decimal) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if minStock.IsNegative() {
		return shared.NewDomainError("INVALID_MIN_STOCK", "Minimum stock cannot be negative")
	}
	p.Name = strings.TrimSpace(name)
	p.Description = description
	p.Category = strings.TrimSpace(category)
	p.Brand = strings.TrimSpace(brand)
	p.MinStock = minStock
	p.IncrementVersion()
	return nil
}

// SetInitialPrices sets prices on a product that has not been saved yet, without a price change event
func (p *Product) SetInitialPrices(cost, sale decimal.Decimal) error {
	if err := validatePrices(cost, sale); err != nil {
		return err
	}
	p.CostPrice = cost
	p.SalePrice = sale
	return nil
}

// ChangePrice updates prices and records a ProductPriceChanged event when the sale price moves
func (p *Product) ChangePrice(cost, sale decimal.Decimal, changedBy uuid.UUID, reason string) error {
	if err := validatePrices(cost, sale); err != nil {
		return err
	}
	if cost.Equal(p.CostPrice) && sale.Equal(p.SalePrice) {
		return shared.NewDomainError("PRICE_UNCHANGED", "New prices are equal to the current prices")
	}
	oldSale := p.SalePrice
	p.CostPrice = cost
	p.SalePrice = sale
	p.IncrementVersion()
	if !oldSale.Equal(sale) {
		p.AddDomainEvent(NewProductPriceChangedEvent(p, nil, oldSale, sale, changedBy, reason))
	}
	return nil
}

// MarkAsService turns the product into a stockless labour item
func (p *Product) MarkAsService(isService bool) {
	p.IsService = isService
}

func (p *Product) Activate() error {
	if p.Status == ProductStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}
	p.Status = ProductStatusActive
	p.IncrementVersion()
	return nil
}

func (p *Product) Deactivate() error {
	if p.Status == ProductStatusInactive {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}
	p.Status = ProductStatusInactive
	p.IncrementVersion()
	return nil
}

func (p *Product) IsActive() bool {
	return p.Status == ProductStatusActive
}

// TracksStock reports whether sales and repairs move stock for this product
func (p *Product) TracksStock() bool {
	return !p.IsService
}

// Variation returns the variation with the given ID
func (p *Product) Variation(id uuid.UUID) (*ProductVariation, bool) {
	for i := range p.Variations {
		if p.Variations[i].ID == id {
			return &p.Variations[i], true
		}
	}
	return nil, false
}

// PriceFor returns the base unit price of the product or of one of its variations
func (p *Product) PriceFor(variationID *uuid.UUID) (decimal.Decimal, error) {
	if variationID == nil {
		return p.SalePrice, nil
	}
	v, ok := p.Variation(*variationID)
	if !ok {
		return decimal.Zero, shared.NewDomainError("VARIATION_NOT_FOUND", "Variation does not belong to the product")
	}
	if v.Price != nil {
		return *v.Price, nil
	}
	return p.SalePrice, nil
}

func validateSKU(sku string) error {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("INVALID_SKU", "SKU cannot exceed 50 characters")
	}
	return nil
}

func validateProductName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Product name cannot exceed 200 characters")
	}
	return nil
}

func validatePrices(cost, sale decimal.Decimal) error {
	if cost.IsNegative() || sale.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Prices cannot be negative")
	}
	return nil
}
