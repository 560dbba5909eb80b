package catalog

import (
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeProduct = "Product"

const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductPriceChanged = "ProductPriceChanged"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Name      string    `json:"name"`
}

func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
	}
}

// ProductPriceChangedEvent is published when the sale price of a product or variation changes
type ProductPriceChangedEvent struct {
	shared.BaseDomainEvent
	ProductID   uuid.UUID       `json:"product_id"`
	VariationID *uuid.UUID      `json:"variation_id,omitempty"`
	OldPrice    decimal.Decimal `json:"old_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	ChangedBy   uuid.UUID       `json:"changed_by"`
	Reason      string          `json:"reason,omitempty"`
}

func NewProductPriceChangedEvent(p *Product, variationID *uuid.UUID, oldPrice, newPrice decimal.Decimal, changedBy uuid.UUID, reason string) *ProductPriceChangedEvent {
	return &ProductPriceChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductPriceChanged, AggregateTypeProduct, p.ID, p.TenantID),
		ProductID:       p.ID,
		VariationID:     variationID,
		OldPrice:        oldPrice,
		NewPrice:        newPrice,
		ChangedBy:       changedBy,
		Reason:          reason,
	}
}
