package sales

import (
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const NumberPrefix = "VD"

// SaleStatus represents the status of a sale
type SaleStatus string

const (
	SaleStatusCompleted         SaleStatus = "completed"
	SaleStatusCancelled         SaleStatus = "cancelled"
	SaleStatusPartiallyReturned SaleStatus = "partially_returned"
	SaleStatusReturned          SaleStatus = "returned"
)

// PaymentMethod is how the customer paid
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodDebitCard    PaymentMethod = "debit_card"
	PaymentMethodPix          PaymentMethod = "pix"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodStoreCredit  PaymentMethod = "store_credit"
)

func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard,
		PaymentMethodPix, PaymentMethodBankTransfer, PaymentMethodStoreCredit:
		return true
	}
	return false
}

// Sale is a completed point-of-sale ticket
type Sale struct {
	shared.TenantAggregateRoot
	Number         string          `gorm:"type:varchar(30);not null"`
	BranchID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	CustomerID     *uuid.UUID      `gorm:"type:uuid;index"`
	SellerID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         SaleStatus      `gorm:"type:varchar(20);not null;index"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total          decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ChangeAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RefundedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Notes          string          `gorm:"type:text"`
	CancelledAt    *time.Time
	CancelReason   string     `gorm:"type:varchar(255)"`
	Items          []SaleItem `gorm:"foreignKey:SaleID"`
	Payments       []Payment  `gorm:"foreignKey:SaleID"`
}

func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale. Category and IsService are snapshots of the product.
type SaleItem struct {
	shared.TenantEntity
	SaleID           uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariationID      *uuid.UUID      `gorm:"type:uuid"`
	Description      string          `gorm:"type:varchar(255);not null"`
	Category         string          `gorm:"type:varchar(100)"`
	IsService        bool            `gorm:"not null"`
	Quantity         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ListPrice        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Discount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReturnedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	PricingRuleID    *uuid.UUID      `gorm:"type:uuid"`
}

func (SaleItem) TableName() string {
	return "sale_items"
}

// Payment is one tender of a sale
type Payment struct {
	shared.TenantEntity
	SaleID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	Method       PaymentMethod   `gorm:"type:varchar(20);not null"`
	Amount       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Installments int             `gorm:"not null"`
	Reference    string          `gorm:"type:varchar(100)"`
}

func (Payment) TableName() string {
	return "sale_payments"
}

// ItemInput is a priced line handed to NewSale
type ItemInput struct {
	ProductID     uuid.UUID
	VariationID   *uuid.UUID
	Description   string
	Category      string
	IsService     bool
	Quantity      decimal.Decimal
	ListPrice     decimal.Decimal
	UnitPrice     decimal.Decimal
	Discount      decimal.Decimal
	PricingRuleID *uuid.UUID
}

// PaymentInput is a tender handed to NewSale
type PaymentInput struct {
	Method       PaymentMethod
	Amount       decimal.Decimal
	Installments int
	Reference    string
}

// NewSale validates and totals a sale.
// Change is only given back from cash; an unpaid balance requires a customer.
func NewSale(tenantID, branchID, sellerID uuid.UUID, customerID *uuid.UUID, items []ItemInput, discount decimal.Decimal, payments []PaymentInput, notes string) (*Sale, error) {
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_SALE", "Sale must have at least one item")
	}
	if discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}

	s := &Sale{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		CustomerID:          customerID,
		SellerID:            sellerID,
		Status:              SaleStatusCompleted,
		Discount:            discount,
		RefundedAmount:      decimal.Zero,
		Notes:               notes,
	}
	s.SetCreatedBy(sellerID)

	subtotal := decimal.Zero
	for i, in := range items {
		item, err := newSaleItem(s, in)
		if err != nil {
			return nil, shared.NewDomainError(shared.ErrorCode(err), "item "+strconv.Itoa(i+1)+": "+err.Error())
		}
		subtotal = subtotal.Add(item.Total)
		s.Items = append(s.Items, *item)
	}
	if discount.GreaterThan(subtotal) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot exceed the subtotal")
	}
	s.Subtotal = subtotal
	s.Total = subtotal.Sub(discount)

	paid, cash := decimal.Zero, decimal.Zero
	for _, in := range payments {
		if !in.Method.IsValid() {
			return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Unknown payment method: "+string(in.Method))
		}
		if !in.Amount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_PAYMENT", "Payment amount must be positive")
		}
		installments := in.Installments
		if installments < 1 {
			installments = 1
		}
		if installments > 1 && in.Method != PaymentMethodCreditCard {
			return nil, shared.NewDomainError("INVALID_PAYMENT", "Only credit card payments can have installments")
		}
		paid = paid.Add(in.Amount)
		if in.Method == PaymentMethodCash {
			cash = cash.Add(in.Amount)
		}
		s.Payments = append(s.Payments, Payment{
			TenantEntity: shared.NewTenantEntity(tenantID),
			SaleID:       s.ID,
			Method:       in.Method,
			Amount:       in.Amount,
			Installments: installments,
			Reference:    in.Reference,
		})
	}

	change := decimal.Zero
	if paid.GreaterThan(s.Total) {
		change = paid.Sub(s.Total)
		if change.GreaterThan(cash) {
			return nil, shared.NewDomainError("INVALID_PAYMENT", "Overpayment is only allowed in cash")
		}
	}
	s.PaidAmount = paid.Sub(change)
	s.ChangeAmount = change
	if s.Balance().IsPositive() && customerID == nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "A customer is required to leave a balance open")
	}
	return s, nil
}

func newSaleItem(s *Sale, in ItemInput) (*SaleItem, error) {
	if !in.Quantity.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if in.UnitPrice.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	if in.Discount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	gross := in.UnitPrice.Mul(in.Quantity)
	if in.Discount.GreaterThan(gross) {
		return nil, shared.NewDomainError("INVALID_DISCOUNT", "Item discount cannot exceed the item amount")
	}
	return &SaleItem{
		TenantEntity:     shared.NewTenantEntity(s.TenantID),
		SaleID:           s.ID,
		ProductID:        in.ProductID,
		VariationID:      in.VariationID,
		Description:      in.Description,
		Category:         in.Category,
		IsService:        in.IsService,
		Quantity:         in.Quantity,
		ListPrice:        in.ListPrice,
		UnitPrice:        in.UnitPrice,
		Discount:         in.Discount,
		Total:            gross.Sub(in.Discount),
		ReturnedQuantity: decimal.Zero,
		PricingRuleID:    in.PricingRuleID,
	}, nil
}

// Balance is the amount still owed by the customer
func (s *Sale) Balance() decimal.Decimal {
	return s.Total.Sub(s.PaidAmount)
}

// AssignNumber sets the document number and publishes SaleCompleted
func (s *Sale) AssignNumber(number string) {
	s.Number = number
	s.AddDomainEvent(NewSaleCompletedEvent(s))
}

// Cancel voids a sale that has no returns
func (s *Sale) Cancel(reason string, at time.Time) error {
	if s.Status != SaleStatusCompleted {
		return shared.NewDomainError("INVALID_STATE", "Only completed sales without returns can be cancelled")
	}
	if reason == "" {
		return shared.NewDomainError("REASON_REQUIRED", "Cancel reason is required")
	}
	s.Status = SaleStatusCancelled
	s.CancelReason = reason
	s.CancelledAt = &at
	s.IncrementVersion()
	s.AddDomainEvent(NewSaleCancelledEvent(s))
	return nil
}

// Item returns the sale item with the given ID
func (s *Sale) Item(id uuid.UUID) (*SaleItem, bool) {
	for i := range s.Items {
		if s.Items[i].ID == id {
			return &s.Items[i], true
		}
	}
	return nil, false
}

// IsFullyReturned reports whether every unit was returned
func (s *Sale) IsFullyReturned() bool {
	for _, it := range s.Items {
		if it.ReturnedQuantity.LessThan(it.Quantity) {
			return false
		}
	}
	return true
}
