package sales

import (
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const ReturnNumberPrefix = "DV"

// SaleReturn records goods brought back by the customer.
// CreditAmount is the net value of the goods; it first lowers the open balance
// of the sale (BalanceReduction) and the rest is paid back (RefundAmount).
type SaleReturn struct {
	shared.TenantAggregateRoot
	Number           string           `gorm:"type:varchar(30);not null"`
	SaleID           uuid.UUID        `gorm:"type:uuid;not null;index"`
	BranchID         uuid.UUID        `gorm:"type:uuid;not null"`
	Reason           string           `gorm:"type:varchar(255);not null"`
	RefundMethod     PaymentMethod    `gorm:"type:varchar(20);not null"`
	CreditAmount     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	BalanceReduction decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	RefundAmount     decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Status           string           `gorm:"type:varchar(20);not null"`
	Items            []SaleReturnItem `gorm:"foreignKey:ReturnID"`
}

func (SaleReturn) TableName() string {
	return "sale_returns"
}

// SaleReturnItem is one returned line
type SaleReturnItem struct {
	shared.TenantEntity
	ReturnID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SaleItemID  uuid.UUID       `gorm:"type:uuid;not null"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null"`
	VariationID *uuid.UUID      `gorm:"type:uuid"`
	IsService   bool            `gorm:"not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (SaleReturnItem) TableName() string {
	return "sale_return_items"
}

// ReturnLine asks to return quantity of one sale item
type ReturnLine struct {
	SaleItemID uuid.UUID
	Quantity   decimal.Decimal
}

// OpenBalance is the receivable of a sale at the moment of a return
type OpenBalance struct {
	// Outstanding is what the customer still owes
	Outstanding decimal.Decimal
	// Collected is what was paid on the receivable after checkout
	Collected decimal.Decimal
}

// RegisterReturn validates the lines against what is still returnable, updates the sale
// and builds the return document. Each line is valued at its net total with the sale
// discount spread by its share of the subtotal. The value settles the open balance first;
// only the remainder is refunded, never more than the customer paid.
func (s *Sale) RegisterReturn(lines []ReturnLine, reason string, method PaymentMethod, by uuid.UUID, open OpenBalance) (*SaleReturn, error) {
	if s.Status != SaleStatusCompleted && s.Status != SaleStatusPartiallyReturned {
		return nil, shared.NewDomainError("INVALID_STATE", "Sale cannot receive returns in status "+string(s.Status))
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_RETURN", "Return must have at least one item")
	}
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Return reason is required")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown refund method: "+string(method))
	}

	r := &SaleReturn{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(s.TenantID),
		SaleID:              s.ID,
		BranchID:            s.BranchID,
		Reason:              reason,
		RefundMethod:        method,
		CreditAmount:        decimal.Zero,
		BalanceReduction:    decimal.Zero,
		RefundAmount:        decimal.Zero,
		Status:              "completed",
	}
	r.SetCreatedBy(by)

	requested := make(map[uuid.UUID]decimal.Decimal, len(lines))
	for _, l := range lines {
		if !l.Quantity.IsPositive() {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Return quantity must be positive")
		}
		item, ok := s.Item(l.SaleItemID)
		if !ok {
			return nil, shared.NewDomainError("ITEM_NOT_FOUND", "Item does not belong to the sale")
		}
		total := requested[l.SaleItemID].Add(l.Quantity)
		if total.GreaterThan(item.Quantity.Sub(item.ReturnedQuantity)) {
			return nil, shared.NewDomainError("RETURN_EXCEEDS_SOLD", "Return quantity exceeds the returnable quantity of "+item.Description)
		}
		requested[l.SaleItemID] = total

		amount := s.netValue(item, l.Quantity)
		r.CreditAmount = r.CreditAmount.Add(amount)
		r.Items = append(r.Items, SaleReturnItem{
			TenantEntity: shared.NewTenantEntity(s.TenantID),
			ReturnID:     r.ID,
			SaleItemID:   item.ID,
			ProductID:    item.ProductID,
			VariationID:  item.VariationID,
			IsService:    item.IsService,
			Quantity:     l.Quantity,
			Amount:       amount,
		})
	}

	r.BalanceReduction = decimal.Min(r.CreditAmount, nonNegative(open.Outstanding))
	refundable := nonNegative(s.PaidAmount.Add(open.Collected).Sub(s.RefundedAmount))
	r.RefundAmount = decimal.Min(r.CreditAmount.Sub(r.BalanceReduction), refundable)
	s.RefundedAmount = s.RefundedAmount.Add(r.RefundAmount)

	for id, q := range requested {
		item, _ := s.Item(id)
		item.ReturnedQuantity = item.ReturnedQuantity.Add(q)
	}
	if s.IsFullyReturned() {
		s.Status = SaleStatusReturned
	} else {
		s.Status = SaleStatusPartiallyReturned
	}
	s.IncrementVersion()
	return r, nil
}

// netValue is what qty units of item were worth after item and sale discounts
func (s *Sale) netValue(item *SaleItem, qty decimal.Decimal) decimal.Decimal {
	value := item.Total.Mul(qty).Div(item.Quantity)
	if s.Subtotal.IsPositive() && s.Discount.IsPositive() {
		value = value.Mul(s.Total).Div(s.Subtotal)
	}
	return value.Round(2)
}

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// AssignNumber sets the document number and publishes SaleReturned
func (r *SaleReturn) AssignNumber(number string, sale *Sale) {
	r.Number = number
	r.AddDomainEvent(NewSaleReturnedEvent(r, sale))
}
