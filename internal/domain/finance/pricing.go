package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PricingCondition is what a pricing rule matches on
type PricingCondition string

const (
	PricingConditionAlways          PricingCondition = "always"
	PricingConditionMinQuantity     PricingCondition = "min_quantity"
	PricingConditionProductCategory PricingCondition = "product_category"
	PricingConditionCustomerType    PricingCondition = "customer_type"
	PricingConditionProduct         PricingCondition = "product"
)

func (c PricingCondition) IsValid() bool {
	switch c {
	case PricingConditionAlways, PricingConditionMinQuantity, PricingConditionProductCategory,
		PricingConditionCustomerType, PricingConditionProduct:
		return true
	}
	return false
}

// PriceAdjustment is how a matching rule changes the price
type PriceAdjustment string

const (
	AdjustmentPercentageDiscount PriceAdjustment = "percentage_discount"
	AdjustmentFixedDiscount      PriceAdjustment = "fixed_discount"
	AdjustmentFixedPrice         PriceAdjustment = "fixed_price"
)

// PricingRule changes the unit price of matching sale lines
type PricingRule struct {
	shared.TenantAggregateRoot
	Name           string           `gorm:"type:varchar(100);not null"`
	Priority       int              `gorm:"not null;index"`
	ConditionType  PricingCondition `gorm:"type:varchar(30);not null"`
	ConditionValue string           `gorm:"type:varchar(100)"`
	AdjustmentType PriceAdjustment  `gorm:"type:varchar(30);not null"`
	Value          decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	ValidFrom      *time.Time
	ValidTo        *time.Time
	IsActive       bool `gorm:"not null"`
}

func (PricingRule) TableName() string {
	return "pricing_rules"
}

// PricingRuleInput are the editable fields of a rule
type PricingRuleInput struct {
	Name           string
	Priority       int
	ConditionType  PricingCondition
	ConditionValue string
	AdjustmentType PriceAdjustment
	Value          decimal.Decimal
	ValidFrom      *time.Time
	ValidTo        *time.Time
	IsActive       bool
}

// NewPricingRule validates and creates a rule
func NewPricingRule(tenantID uuid.UUID, in PricingRuleInput) (*PricingRule, error) {
	r := &PricingRule{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := r.apply(in); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the rule definition
func (r *PricingRule) Update(in PricingRuleInput) error {
	if err := r.apply(in); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

func (r *PricingRule) apply(in PricingRuleInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Rule name must have 1 to 100 characters")
	}
	if !in.ConditionType.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION", "Unknown condition type: "+string(in.ConditionType))
	}
	value := strings.TrimSpace(in.ConditionValue)
	switch in.ConditionType {
	case PricingConditionMinQuantity:
		if v, err := decimal.NewFromString(value); err != nil || !v.IsPositive() {
			return shared.NewDomainError("INVALID_CONDITION", "min_quantity needs a positive number")
		}
	case PricingConditionProduct:
		if _, err := uuid.Parse(value); err != nil {
			return shared.NewDomainError("INVALID_CONDITION", "product needs a product ID")
		}
	case PricingConditionProductCategory, PricingConditionCustomerType:
		if value == "" {
			return shared.NewDomainError("INVALID_CONDITION", string(in.ConditionType)+" needs a value")
		}
	}
	switch in.AdjustmentType {
	case AdjustmentPercentageDiscount:
		if in.Value.IsNegative() || in.Value.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_VALUE", "Percentage must be between 0 and 100")
		}
	case AdjustmentFixedDiscount, AdjustmentFixedPrice:
		if in.Value.IsNegative() {
			return shared.NewDomainError("INVALID_VALUE", "Value cannot be negative")
		}
	default:
		return shared.NewDomainError("INVALID_ADJUSTMENT", "Unknown adjustment type: "+string(in.AdjustmentType))
	}
	if in.ValidFrom != nil && in.ValidTo != nil && in.ValidTo.Before(*in.ValidFrom) {
		return shared.NewDomainError("INVALID_PERIOD", "valid_to must be after valid_from")
	}
	r.Name = name
	r.Priority = in.Priority
	r.ConditionType = in.ConditionType
	r.ConditionValue = value
	r.AdjustmentType = in.AdjustmentType
	r.Value = in.Value
	r.ValidFrom = in.ValidFrom
	r.ValidTo = in.ValidTo
	r.IsActive = in.IsActive
	return nil
}

// IsValidAt reports whether the rule is active and inside its validity window
func (r *PricingRule) IsValidAt(now time.Time) bool {
	if !r.IsActive {
		return false
	}
	if r.ValidFrom != nil && now.Before(*r.ValidFrom) {
		return false
	}
	if r.ValidTo != nil && now.After(*r.ValidTo) {
		return false
	}
	return true
}

// PriceContext is the sale line being priced
type PriceContext struct {
	ProductID    uuid.UUID
	Category     string
	CustomerType string
	Quantity     decimal.Decimal
	BasePrice    decimal.Decimal
}

// Matches evaluates the single condition of the rule
func (r *PricingRule) Matches(c PriceContext) bool {
	switch r.ConditionType {
	case PricingConditionAlways:
		return true
	case PricingConditionMinQuantity:
		min, err := decimal.NewFromString(r.ConditionValue)
		return err == nil && c.Quantity.GreaterThanOrEqual(min)
	case PricingConditionProductCategory:
		return c.Category != "" && strings.EqualFold(c.Category, r.ConditionValue)
	case PricingConditionCustomerType:
		return c.CustomerType != "" && strings.EqualFold(c.CustomerType, r.ConditionValue)
	case PricingConditionProduct:
		return r.ConditionValue == c.ProductID.String()
	}
	return false
}

// Apply adjusts price; the result never goes below zero
func (r *PricingRule) Apply(price decimal.Decimal) decimal.Decimal {
	var out decimal.Decimal
	switch r.AdjustmentType {
	case AdjustmentPercentageDiscount:
		out = price.Sub(price.Mul(r.Value).Div(decimal.NewFromInt(100)))
	case AdjustmentFixedDiscount:
		out = price.Sub(r.Value)
	case AdjustmentFixedPrice:
		out = r.Value
	default:
		out = price
	}
	if out.IsNegative() {
		return decimal.Zero
	}
	return out.Round(2)
}

// Quote is a priced line
type Quote struct {
	BasePrice decimal.Decimal `json:"base_price"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
	RuleID    *uuid.UUID      `json:"rule_id,omitempty"`
	RuleName  string          `json:"rule_name,omitempty"`
}

// EvaluatePrice orders the rules valid at now by priority (highest first); the first matching
// rule sets the unit price. Without a match the base price applies.
func EvaluatePrice(rules []PricingRule, c PriceContext, now time.Time) Quote {
	ordered := append([]PricingRule(nil), rules...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority > ordered[j].Priority })
	q := Quote{BasePrice: c.BasePrice, UnitPrice: c.BasePrice}
	for i := range ordered {
		r := &ordered[i]
		if !r.IsValidAt(now) || !r.Matches(c) {
			continue
		}
		id := r.ID
		q.UnitPrice = r.Apply(c.BasePrice)
		q.RuleID = &id
		q.RuleName = r.Name
		break
	}
	q.Total = q.UnitPrice.Mul(c.Quantity).Round(2)
	return q
}

// PriceHistory is one recorded sale price change
type PriceHistory struct {
	shared.TenantEntity
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariationID *uuid.UUID      `gorm:"type:uuid"`
	OldPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	NewPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ChangedBy   uuid.UUID       `gorm:"type:uuid"`
	Reason      string          `gorm:"type:varchar(255)"`
	ChangedAt   time.Time       `gorm:"not null"`
}

func (PriceHistory) TableName() string {
	return "price_history"
}

// NewPriceHistory records a price change
func NewPriceHistory(tenantID, productID uuid.UUID, variationID *uuid.UUID, oldPrice, newPrice decimal.Decimal, by uuid.UUID, reason string, at time.Time) *PriceHistory {
	return &PriceHistory{
		TenantEntity: shared.NewTenantEntity(tenantID),
		ProductID:    productID,
		VariationID:  variationID,
		OldPrice:     oldPrice,
		NewPrice:     newPrice,
		ChangedBy:    by,
		Reason:       reason,
		ChangedAt:    at,
	}
}
