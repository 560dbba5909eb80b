package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// SaleItemRequest is one line of a new sale. The unit price comes from the catalog and the pricing rules.
type SaleItemRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	VariationID *uuid.UUID       `json:"variation_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	Discount    *decimal.Decimal `json:"discount"`
}

// PaymentRequest is one tender of a new sale
type PaymentRequest struct {
	Method       string          `json:"method" binding:"required,oneof=cash credit_card debit_card pix bank_transfer store_credit"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments" binding:"omitempty,min=1,max=24"`
	Reference    string          `json:"reference" binding:"max=100"`
}

// CreateSaleRequest represents a checkout at the counter
type CreateSaleRequest struct {
	BranchID   uuid.UUID         `json:"branch_id" binding:"required"`
	CustomerID *uuid.UUID        `json:"customer_id"`
	Items      []SaleItemRequest `json:"items" binding:"required,min=1,dive"`
	Discount   *decimal.Decimal  `json:"discount"`
	Payments   []PaymentRequest  `json:"payments" binding:"dive"`
	Notes      string            `json:"notes" binding:"max=2000"`
	// DueDate of the receivable opened for an unpaid balance; defaults to 30 days
	DueDate *time.Time `json:"due_date"`
}

// CancelSaleRequest voids a sale
type CancelSaleRequest struct {
	Reason string `json:"reason" binding:"required,max=255"`
}

// ReturnItemRequest is one returned line
type ReturnItemRequest struct {
	SaleItemID uuid.UUID       `json:"sale_item_id" binding:"required"`
	Quantity   decimal.Decimal `json:"quantity"`
}

// CreateReturnRequest represents goods coming back from a sale
type CreateReturnRequest struct {
	Items        []ReturnItemRequest `json:"items" binding:"required,min=1,dive"`
	Reason       string              `json:"reason" binding:"required,max=255"`
	RefundMethod string              `json:"refund_method" binding:"required,oneof=cash credit_card debit_card pix bank_transfer store_credit"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ID               uuid.UUID       `json:"id"`
	ProductID        uuid.UUID       `json:"product_id"`
	VariationID      *uuid.UUID      `json:"variation_id,omitempty"`
	Description      string          `json:"description"`
	IsService        bool            `json:"is_service"`
	Quantity         decimal.Decimal `json:"quantity"`
	ListPrice        decimal.Decimal `json:"list_price"`
	UnitPrice        decimal.Decimal `json:"unit_price"`
	Discount         decimal.Decimal `json:"discount"`
	Total            decimal.Decimal `json:"total"`
	ReturnedQuantity decimal.Decimal `json:"returned_quantity"`
	PricingRuleID    *uuid.UUID      `json:"pricing_rule_id,omitempty"`
}

// PaymentResponse represents a tender in API responses
type PaymentResponse struct {
	Method       string          `json:"method"`
	Amount       decimal.Decimal `json:"amount"`
	Installments int             `json:"installments"`
	Reference    string          `json:"reference,omitempty"`
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID             uuid.UUID          `json:"id"`
	Number         string             `json:"number"`
	BranchID       uuid.UUID          `json:"branch_id"`
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	SellerID       uuid.UUID          `json:"seller_id"`
	Status         string             `json:"status"`
	Subtotal       decimal.Decimal    `json:"subtotal"`
	Discount       decimal.Decimal    `json:"discount"`
	Total          decimal.Decimal    `json:"total"`
	PaidAmount     decimal.Decimal    `json:"paid_amount"`
	ChangeAmount   decimal.Decimal    `json:"change_amount"`
	RefundedAmount decimal.Decimal    `json:"refunded_amount"`
	Balance        decimal.Decimal    `json:"balance"`
	Notes          string             `json:"notes"`
	CancelReason   string             `json:"cancel_reason,omitempty"`
	CancelledAt    *time.Time         `json:"cancelled_at,omitempty"`
	Items          []SaleItemResponse `json:"items"`
	Payments       []PaymentResponse  `json:"payments"`
	CreatedAt      time.Time          `json:"created_at"`
	Version        int                `json:"version"`
}

// SaleReturnResponse represents a return in API responses
type SaleReturnResponse struct {
	ID               uuid.UUID            `json:"id"`
	Number           string               `json:"number"`
	SaleID           uuid.UUID            `json:"sale_id"`
	BranchID         uuid.UUID            `json:"branch_id"`
	Reason           string               `json:"reason"`
	RefundMethod     string               `json:"refund_method"`
	CreditAmount     decimal.Decimal      `json:"credit_amount"`
	BalanceReduction decimal.Decimal      `json:"balance_reduction"`
	RefundAmount     decimal.Decimal      `json:"refund_amount"`
	Status           string               `json:"status"`
	Items            []ReturnItemResponse `json:"items"`
	CreatedAt        time.Time            `json:"created_at"`
}

// ReturnItemResponse represents a returned line
type ReturnItemResponse struct {
	SaleItemID uuid.UUID       `json:"sale_item_id"`
	ProductID  uuid.UUID       `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Amount     decimal.Decimal `json:"amount"`
}

// ReceiptView is the data handed to the receipt template
type ReceiptView struct {
	Sale             SaleResponse
	BranchName       string
	BranchAddress    string
	BranchPhone      string
	CustomerName     string
	CustomerDocument string
	PrintedAt        time.Time
}

// ToSaleResponse converts a domain sale to a response
func ToSaleResponse(s *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(s.Items))
	for i, it := range s.Items {
		items[i] = SaleItemResponse{
			ID:               it.ID,
			ProductID:        it.ProductID,
			VariationID:      it.VariationID,
			Description:      it.Description,
			IsService:        it.IsService,
			Quantity:         it.Quantity,
			ListPrice:        it.ListPrice,
			UnitPrice:        it.UnitPrice,
			Discount:         it.Discount,
			Total:            it.Total,
			ReturnedQuantity: it.ReturnedQuantity,
			PricingRuleID:    it.PricingRuleID,
		}
	}
	payments := make([]PaymentResponse, len(s.Payments))
	for i, p := range s.Payments {
		payments[i] = PaymentResponse{
			Method:       string(p.Method),
			Amount:       p.Amount,
			Installments: p.Installments,
			Reference:    p.Reference,
		}
	}
	return SaleResponse{
		ID:             s.ID,
		Number:         s.Number,
		BranchID:       s.BranchID,
		CustomerID:     s.CustomerID,
		SellerID:       s.SellerID,
		Status:         string(s.Status),
		Subtotal:       s.Subtotal,
		Discount:       s.Discount,
		Total:          s.Total,
		PaidAmount:     s.PaidAmount,
		ChangeAmount:   s.ChangeAmount,
		RefundedAmount: s.RefundedAmount,
		Balance:        s.Balance(),
		Notes:          s.Notes,
		CancelReason:   s.CancelReason,
		CancelledAt:    s.CancelledAt,
		Items:          items,
		Payments:       payments,
		CreatedAt:      s.CreatedAt,
		Version:        s.Version,
	}
}

func toReturnResponse(r *sales.SaleReturn) SaleReturnResponse {
	items := make([]ReturnItemResponse, len(r.Items))
	for i, it := range r.Items {
		items[i] = ReturnItemResponse{
			SaleItemID: it.SaleItemID,
			ProductID:  it.ProductID,
			Quantity:   it.Quantity,
			Amount:     it.Amount,
		}
	}
	return SaleReturnResponse{
		ID:               r.ID,
		Number:           r.Number,
		SaleID:           r.SaleID,
		BranchID:         r.BranchID,
		Reason:           r.Reason,
		RefundMethod:     string(r.RefundMethod),
		CreditAmount:     r.CreditAmount,
		BalanceReduction: r.BalanceReduction,
		RefundAmount:     r.RefundAmount,
		Status:           r.Status,
		Items:            items,
		CreatedAt:        r.CreatedAt,
	}
}
