package finance

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// CommissionCondition is what a commission rule matches on
type CommissionCondition string

const (
	CommissionConditionAlways          CommissionCondition = "always"
	CommissionConditionMinSaleTotal    CommissionCondition = "min_sale_total"
	CommissionConditionProductCategory CommissionCondition = "product_category"
	CommissionConditionRole            CommissionCondition = "role"
	CommissionConditionServiceOrder    CommissionCondition = "service_order"
)

func (c CommissionCondition) IsValid() bool {
	switch c {
	case CommissionConditionAlways, CommissionConditionMinSaleTotal, CommissionConditionProductCategory,
		CommissionConditionRole, CommissionConditionServiceOrder:
		return true
	}
	return false
}

// CommissionType is how the amount is computed from the base
type CommissionType string

const (
	CommissionTypePercentage CommissionType = "percentage"
	CommissionTypeFixed      CommissionType = "fixed"
)

// CommissionRule decides the commission of a sale or delivered service order
type CommissionRule struct {
	shared.TenantAggregateRoot
	Name           string              `gorm:"type:varchar(100);not null"`
	Priority       int                 `gorm:"not null;index"`
	ConditionType  CommissionCondition `gorm:"type:varchar(30);not null"`
	ConditionValue string              `gorm:"type:varchar(100)"`
	CommissionType CommissionType      `gorm:"type:varchar(20);not null"`
	Rate           decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	IsActive       bool                `gorm:"not null"`
}

func (CommissionRule) TableName() string {
	return "commission_rules"
}

// CommissionRuleInput are the editable fields of a rule
type CommissionRuleInput struct {
	Name           string
	Priority       int
	ConditionType  CommissionCondition
	ConditionValue string
	CommissionType CommissionType
	Rate           decimal.Decimal
	IsActive       bool
}

// NewCommissionRule validates and creates a rule
func NewCommissionRule(tenantID uuid.UUID, in CommissionRuleInput) (*CommissionRule, error) {
	r := &CommissionRule{TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID)}
	if err := r.apply(in); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the rule definition
func (r *CommissionRule) Update(in CommissionRuleInput) error {
	if err := r.apply(in); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

func (r *CommissionRule) apply(in CommissionRuleInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" || len(name) > 100 {
		return shared.NewDomainError("INVALID_NAME", "Rule name must have 1 to 100 characters")
	}
	if !in.ConditionType.IsValid() {
		return shared.NewDomainError("INVALID_CONDITION", "Unknown condition type: "+string(in.ConditionType))
	}
	value := strings.TrimSpace(in.ConditionValue)
	switch in.ConditionType {
	case CommissionConditionMinSaleTotal:
		if v, err := decimal.NewFromString(value); err != nil || v.IsNegative() {
			return shared.NewDomainError("INVALID_CONDITION", "min_sale_total needs a non-negative number")
		}
	case CommissionConditionProductCategory, CommissionConditionRole:
		if value == "" {
			return shared.NewDomainError("INVALID_CONDITION", string(in.ConditionType)+" needs a value")
		}
	}
	switch in.CommissionType {
	case CommissionTypePercentage:
		if in.Rate.IsNegative() || in.Rate.GreaterThan(decimal.NewFromInt(100)) {
			return shared.NewDomainError("INVALID_RATE", "Percentage must be between 0 and 100")
		}
	case CommissionTypeFixed:
		if in.Rate.IsNegative() {
			return shared.NewDomainError("INVALID_RATE", "Fixed commission cannot be negative")
		}
	default:
		return shared.NewDomainError("INVALID_COMMISSION_TYPE", "Commission type must be percentage or fixed")
	}
	r.Name = name
	r.Priority = in.Priority
	r.ConditionType = in.ConditionType
	r.ConditionValue = value
	r.CommissionType = in.CommissionType
	r.Rate = in.Rate
	r.IsActive = in.IsActive
	return nil
}

// CommissionSubject is what the engine evaluates: a sale or a delivered service order
type CommissionSubject struct {
	SourceType CommissionSource
	SourceID   uuid.UUID
	UserID     uuid.UUID
	// UserRoles are role codes of the user
	UserRoles  []string
	Base       decimal.Decimal
	Categories []string
}

// Matches evaluates the single condition of the rule
func (r *CommissionRule) Matches(s CommissionSubject) bool {
	if !r.IsActive {
		return false
	}
	switch r.ConditionType {
	case CommissionConditionAlways:
		return true
	case CommissionConditionMinSaleTotal:
		min, err := decimal.NewFromString(r.ConditionValue)
		return err == nil && s.SourceType == CommissionSourceSale && s.Base.GreaterThanOrEqual(min)
	case CommissionConditionProductCategory:
		for _, c := range s.Categories {
			if strings.EqualFold(c, r.ConditionValue) {
				return true
			}
		}
		return false
	case CommissionConditionRole:
		for _, role := range s.UserRoles {
			if strings.EqualFold(role, r.ConditionValue) {
				return true
			}
		}
		return false
	case CommissionConditionServiceOrder:
		return s.SourceType == CommissionSourceServiceOrder
	}
	return false
}

// Compute returns the commission amount for base, rounded to cents
func (r *CommissionRule) Compute(base decimal.Decimal) decimal.Decimal {
	if r.CommissionType == CommissionTypeFixed {
		return r.Rate
	}
	return base.Mul(r.Rate).Div(decimal.NewFromInt(100)).Round(2)
}

// CommissionSource is the document a commission comes from
type CommissionSource string

const (
	CommissionSourceSale         CommissionSource = "sale"
	CommissionSourceServiceOrder CommissionSource = "service_order"
)

// CommissionStatus is the payout state of a commission
type CommissionStatus string

const (
	CommissionStatusPending   CommissionStatus = "pending"
	CommissionStatusPaid      CommissionStatus = "paid"
	CommissionStatusCancelled CommissionStatus = "cancelled"
)

// Commission is money owed to an employee for a sale or repair
type Commission struct {
	shared.TenantAggregateRoot
	UserID     uuid.UUID        `gorm:"type:uuid;not null;index"`
	SourceType CommissionSource `gorm:"type:varchar(20);not null"`
	SourceID   uuid.UUID        `gorm:"type:uuid;not null;index"`
	BaseAmount decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Amount     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	RuleID     uuid.UUID        `gorm:"type:uuid;not null"`
	Status     CommissionStatus `gorm:"type:varchar(20);not null;index"`
	PaidAt     *time.Time
}

func (Commission) TableName() string {
	return "commissions"
}

// EvaluateCommission orders the rules by priority (highest first) and returns the commission
// decided by the first matching rule, or nil when no rule matches or the amount is zero
func EvaluateCommission(tenantID uuid.UUID, rules []CommissionRule, s CommissionSubject) *Commission {
	ordered := append([]CommissionRule(nil), rules...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Priority > ordered[j].Priority })
	for i := range ordered {
		r := &ordered[i]
		if !r.Matches(s) {
			continue
		}
		amount := r.Compute(s.Base)
		if !amount.IsPositive() {
			return nil
		}
		return &Commission{
			TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
			UserID:              s.UserID,
			SourceType:          s.SourceType,
			SourceID:            s.SourceID,
			BaseAmount:          s.Base,
			Amount:              amount,
			RuleID:              r.ID,
			Status:              CommissionStatusPending,
		}
	}
	return nil
}

// MarkPaid settles a pending commission
func (c *Commission) MarkPaid(at time.Time) error {
	if c.Status != CommissionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commissions can be paid")
	}
	c.Status = CommissionStatusPaid
	c.PaidAt = &at
	c.IncrementVersion()
	return nil
}

// Cancel voids a pending commission
func (c *Commission) Cancel() error {
	if c.Status != CommissionStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending commissions can be cancelled")
	}
	c.Status = CommissionStatusCancelled
	c.IncrementVersion()
	return nil
}

// CommissionSummary totals the commissions of one user
type CommissionSummary struct {
	UserID    uuid.UUID       `json:"user_id"`
	Count     int64           `json:"count"`
	Pending   decimal.Decimal `json:"pending"`
	Paid      decimal.Decimal `json:"paid"`
	Cancelled decimal.Decimal `json:"cancelled"`
}
