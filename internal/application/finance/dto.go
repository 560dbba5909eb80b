package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/shopspring/decimal"
)

// CreateReceivableRequest opens a manual receivable
type CreateReceivableRequest struct {
	CustomerID  uuid.UUID       `json:"customer_id" binding:"required"`
	BranchID    *uuid.UUID      `json:"branch_id"`
	Amount      decimal.Decimal `json:"amount"`
	DueDate     time.Time       `json:"due_date" binding:"required"`
	Description string          `json:"description" binding:"max=255"`
}

// CreatePayableRequest opens a payable
type CreatePayableRequest struct {
	SupplierName string          `json:"supplier_name" binding:"required,max=200"`
	Description  string          `json:"description" binding:"required,max=255"`
	Category     string          `json:"category" binding:"max=100"`
	BranchID     *uuid.UUID      `json:"branch_id"`
	Amount       decimal.Decimal `json:"amount"`
	DueDate      time.Time       `json:"due_date" binding:"required"`
}

// RecordPaymentRequest settles part or all of an account
type RecordPaymentRequest struct {
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method" binding:"required,max=30"`
	Note   string          `json:"note" binding:"max=255"`
}

// PaymentRecordResponse is one settlement
type PaymentRecordResponse struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	PaidAt time.Time       `json:"paid_at"`
	PaidBy uuid.UUID       `json:"paid_by"`
	Note   string          `json:"note,omitempty"`
}

// ReceivableResponse represents a receivable in API responses
type ReceivableResponse struct {
	ID                uuid.UUID               `json:"id"`
	CustomerID        uuid.UUID               `json:"customer_id"`
	BranchID          *uuid.UUID              `json:"branch_id,omitempty"`
	Source            string                  `json:"source"`
	SourceID          *uuid.UUID              `json:"source_id,omitempty"`
	Description       string                  `json:"description"`
	Amount            decimal.Decimal         `json:"amount"`
	PaidAmount        decimal.Decimal         `json:"paid_amount"`
	OutstandingAmount decimal.Decimal         `json:"outstanding_amount"`
	DueDate           time.Time               `json:"due_date"`
	Overdue           bool                    `json:"overdue"`
	Status            string                  `json:"status"`
	Payments          []PaymentRecordResponse `json:"payments"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	Version           int                     `json:"version"`
}

// PayableResponse represents a payable in API responses
type PayableResponse struct {
	ID                uuid.UUID               `json:"id"`
	SupplierName      string                  `json:"supplier_name"`
	Description       string                  `json:"description"`
	Category          string                  `json:"category"`
	BranchID          *uuid.UUID              `json:"branch_id,omitempty"`
	SourceType        string                  `json:"source_type,omitempty"`
	SourceID          *uuid.UUID              `json:"source_id,omitempty"`
	Amount            decimal.Decimal         `json:"amount"`
	PaidAmount        decimal.Decimal         `json:"paid_amount"`
	OutstandingAmount decimal.Decimal         `json:"outstanding_amount"`
	DueDate           time.Time               `json:"due_date"`
	Overdue           bool                    `json:"overdue"`
	Status            string                  `json:"status"`
	Payments          []PaymentRecordResponse `json:"payments"`
	PaidAt            *time.Time              `json:"paid_at,omitempty"`
	CreatedAt         time.Time               `json:"created_at"`
	Version           int                     `json:"version"`
}

// CommissionRuleRequest creates or replaces a commission rule
type CommissionRuleRequest struct {
	Name           string          `json:"name" binding:"required,max=100"`
	Priority       int             `json:"priority"`
	ConditionType  string          `json:"condition_type" binding:"required"`
	ConditionValue string          `json:"condition_value" binding:"max=100"`
	CommissionType string          `json:"commission_type" binding:"required,oneof=percentage fixed"`
	Rate           decimal.Decimal `json:"rate"`
	IsActive       *bool           `json:"is_active"`
}

// CommissionRuleResponse represents a commission rule
type CommissionRuleResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Priority       int             `json:"priority"`
	ConditionType  string          `json:"condition_type"`
	ConditionValue string          `json:"condition_value"`
	CommissionType string          `json:"commission_type"`
	Rate           decimal.Decimal `json:"rate"`
	IsActive       bool            `json:"is_active"`
	Version        int             `json:"version"`
}

// CommissionResponse represents an earned commission
type CommissionResponse struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	SourceType string          `json:"source_type"`
	SourceID   uuid.UUID       `json:"source_id"`
	BaseAmount decimal.Decimal `json:"base_amount"`
	Amount     decimal.Decimal `json:"amount"`
	RuleID     uuid.UUID       `json:"rule_id"`
	Status     string          `json:"status"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// CommissionSummaryRequest selects the period of a summary
type CommissionSummaryRequest struct {
	UserID *uuid.UUID `form:"user_id"`
	From   time.Time  `form:"from" time_format:"2006-01-02"`
	To     time.Time  `form:"to" time_format:"2006-01-02"`
}

// PricingRuleRequest creates or replaces a pricing rule
type PricingRuleRequest struct {
	Name           string          `json:"name" binding:"required,max=100"`
	Priority       int             `json:"priority"`
	ConditionType  string          `json:"condition_type" binding:"required"`
	ConditionValue string          `json:"condition_value" binding:"max=100"`
	AdjustmentType string          `json:"adjustment_type" binding:"required"`
	Value          decimal.Decimal `json:"value"`
	ValidFrom      *time.Time      `json:"valid_from"`
	ValidTo        *time.Time      `json:"valid_to"`
	IsActive       *bool           `json:"is_active"`
}

// PricingRuleResponse represents a pricing rule
type PricingRuleResponse struct {
	ID             uuid.UUID       `json:"id"`
	Name           string          `json:"name"`
	Priority       int             `json:"priority"`
	ConditionType  string          `json:"condition_type"`
	ConditionValue string          `json:"condition_value"`
	AdjustmentType string          `json:"adjustment_type"`
	Value          decimal.Decimal `json:"value"`
	ValidFrom      *time.Time      `json:"valid_from,omitempty"`
	ValidTo        *time.Time      `json:"valid_to,omitempty"`
	IsActive       bool            `json:"is_active"`
	Version        int             `json:"version"`
}

// QuoteRequest prices a product for a quantity and optional customer
type QuoteRequest struct {
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	VariationID *uuid.UUID      `json:"variation_id"`
	Quantity    decimal.Decimal `json:"quantity"`
	CustomerID  *uuid.UUID      `json:"customer_id"`
}

// PriceHistoryResponse is one recorded price change
type PriceHistoryResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariationID *uuid.UUID      `json:"variation_id,omitempty"`
	OldPrice    decimal.Decimal `json:"old_price"`
	NewPrice    decimal.Decimal `json:"new_price"`
	ChangedBy   uuid.UUID       `json:"changed_by"`
	Reason      string          `json:"reason,omitempty"`
	ChangedAt   time.Time       `json:"changed_at"`
}

// CreateReimbursementRequest files an expense claim
type CreateReimbursementRequest struct {
	BranchID    *uuid.UUID      `json:"branch_id"`
	Description string          `json:"description" binding:"required,max=255"`
	Category    string          `json:"category" binding:"max=100"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date" binding:"required"`
	ReceiptURL  string          `json:"receipt_url" binding:"omitempty,url,max=500"`
}

// ReviewReimbursementRequest carries the reviewer note
type ReviewReimbursementRequest struct {
	Note string `json:"note" binding:"max=500"`
}

// PayReimbursementRequest names how the claim was refunded
type PayReimbursementRequest struct {
	Method string `json:"method" binding:"required,max=30"`
}

// ReimbursementResponse represents an expense claim
type ReimbursementResponse struct {
	ID          uuid.UUID       `json:"id"`
	RequesterID uuid.UUID       `json:"requester_id"`
	BranchID    *uuid.UUID      `json:"branch_id,omitempty"`
	Description string          `json:"description"`
	Category    string          `json:"category"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	ReceiptURL  string          `json:"receipt_url,omitempty"`
	Status      string          `json:"status"`
	ReviewerID  *uuid.UUID      `json:"reviewer_id,omitempty"`
	ReviewNote  string          `json:"review_note,omitempty"`
	ReviewedAt  *time.Time      `json:"reviewed_at,omitempty"`
	PayableID   *uuid.UUID      `json:"payable_id,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	Version     int             `json:"version"`
}

func toPayments(records []finance.PaymentRecord) []PaymentRecordResponse {
	out := make([]PaymentRecordResponse, len(records))
	for i, p := range records {
		out[i] = PaymentRecordResponse{ID: p.ID, Amount: p.Amount, Method: p.Method, PaidAt: p.PaidAt, PaidBy: p.PaidBy, Note: p.Note}
	}
	return out
}

func toReceivableResponse(r *finance.AccountReceivable, now time.Time) ReceivableResponse {
	return ReceivableResponse{
		ID:                r.ID,
		CustomerID:        r.CustomerID,
		BranchID:          r.BranchID,
		Source:            string(r.Source),
		SourceID:          r.SourceID,
		Description:       r.Description,
		Amount:            r.Amount,
		PaidAmount:        r.PaidAmount,
		OutstandingAmount: r.Outstanding(),
		DueDate:           r.DueDate,
		Overdue:           r.IsOverdue(now),
		Status:            string(r.Status),
		Payments:          toPayments(r.Payments),
		PaidAt:            r.PaidAt,
		CreatedAt:         r.CreatedAt,
		Version:           r.Version,
	}
}

func toPayableResponse(p *finance.AccountPayable, now time.Time) PayableResponse {
	return PayableResponse{
		ID:                p.ID,
		SupplierName:      p.SupplierName,
		Description:       p.Description,
		Category:          p.Category,
		BranchID:          p.BranchID,
		SourceType:        p.SourceType,
		SourceID:          p.SourceID,
		Amount:            p.Amount,
		PaidAmount:        p.PaidAmount,
		OutstandingAmount: p.Outstanding(),
		DueDate:           p.DueDate,
		Overdue:           p.IsOverdue(now),
		Status:            string(p.Status),
		Payments:          toPayments(p.Payments),
		PaidAt:            p.PaidAt,
		CreatedAt:         p.CreatedAt,
		Version:           p.Version,
	}
}

func toCommissionRuleResponse(r *finance.CommissionRule) CommissionRuleResponse {
	return CommissionRuleResponse{
		ID:             r.ID,
		Name:           r.Name,
		Priority:       r.Priority,
		ConditionType:  string(r.ConditionType),
		ConditionValue: r.ConditionValue,
		CommissionType: string(r.CommissionType),
		Rate:           r.Rate,
		IsActive:       r.IsActive,
		Version:        r.Version,
	}
}

func toCommissionResponse(c *finance.Commission) CommissionResponse {
	return CommissionResponse{
		ID:         c.ID,
		UserID:     c.UserID,
		SourceType: string(c.SourceType),
		SourceID:   c.SourceID,
		BaseAmount: c.BaseAmount,
		Amount:     c.Amount,
		RuleID:     c.RuleID,
		Status:     string(c.Status),
		PaidAt:     c.PaidAt,
		CreatedAt:  c.CreatedAt,
	}
}

func toPricingRuleResponse(r *finance.PricingRule) PricingRuleResponse {
	return PricingRuleResponse{
		ID:             r.ID,
		Name:           r.Name,
		Priority:       r.Priority,
		ConditionType:  string(r.ConditionType),
		ConditionValue: r.ConditionValue,
		AdjustmentType: string(r.AdjustmentType),
		Value:          r.Value,
		ValidFrom:      r.ValidFrom,
		ValidTo:        r.ValidTo,
		IsActive:       r.IsActive,
		Version:        r.Version,
	}
}

func toReimbursementResponse(r *finance.ExpenseReimbursement) ReimbursementResponse {
	return ReimbursementResponse{
		ID:          r.ID,
		RequesterID: r.RequesterID,
		BranchID:    r.BranchID,
		Description: r.Description,
		Category:    r.Category,
		Amount:      r.Amount,
		ExpenseDate: r.ExpenseDate,
		ReceiptURL:  r.ReceiptURL,
		Status:      string(r.Status),
		ReviewerID:  r.ReviewerID,
		ReviewNote:  r.ReviewNote,
		ReviewedAt:  r.ReviewedAt,
		PayableID:   r.PayableID,
		CreatedAt:   r.CreatedAt,
		Version:     r.Version,
	}
}

// boolOr returns *b, or def when b is nil
func boolOr(b *bool, def bool) bool {
	if b == nil {
		return def
	}
	return *b
}
