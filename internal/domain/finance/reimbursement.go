package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReimbursementStatus is the approval state of an expense claim
type ReimbursementStatus string

const (
	ReimbursementStatusPending  ReimbursementStatus = "pending"
	ReimbursementStatusApproved ReimbursementStatus = "approved"
	ReimbursementStatusRejected ReimbursementStatus = "rejected"
	ReimbursementStatusPaid     ReimbursementStatus = "paid"
)

// ExpenseReimbursement is an employee expense waiting to be refunded
type ExpenseReimbursement struct {
	shared.TenantAggregateRoot
	RequesterID uuid.UUID           `gorm:"type:uuid;not null;index"`
	BranchID    *uuid.UUID          `gorm:"type:uuid"`
	Description string              `gorm:"type:varchar(255);not null"`
	Category    string              `gorm:"type:varchar(100)"`
	Amount      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	ExpenseDate time.Time           `gorm:"not null"`
	ReceiptURL  string              `gorm:"type:varchar(500)"`
	Status      ReimbursementStatus `gorm:"type:varchar(20);not null;index"`
	ReviewerID  *uuid.UUID          `gorm:"type:uuid"`
	ReviewNote  string              `gorm:"type:varchar(500)"`
	ReviewedAt  *time.Time
	PayableID   *uuid.UUID `gorm:"type:uuid"`
}

func (ExpenseReimbursement) TableName() string {
	return "expense_reimbursements"
}

// NewExpenseReimbursement files a claim
func NewExpenseReimbursement(tenantID, requesterID uuid.UUID, branchID *uuid.UUID, description, category string, amount decimal.Decimal, expenseDate time.Time, receiptURL string) (*ExpenseReimbursement, error) {
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	if !amount.IsPositive() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if expenseDate.IsZero() || expenseDate.After(time.Now().Add(24*time.Hour)) {
		return nil, shared.NewDomainError("INVALID_EXPENSE_DATE", "Expense date cannot be in the future")
	}
	r := &ExpenseReimbursement{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		RequesterID:         requesterID,
		BranchID:            branchID,
		Description:         strings.TrimSpace(description),
		Category:            strings.TrimSpace(category),
		Amount:              amount,
		ExpenseDate:         expenseDate,
		ReceiptURL:          receiptURL,
		Status:              ReimbursementStatusPending,
	}
	r.SetCreatedBy(requesterID)
	return r, nil
}

// Approve accepts a pending claim; requesters cannot approve their own claims
func (r *ExpenseReimbursement) Approve(reviewer uuid.UUID, note string, at time.Time) error {
	return r.review(ReimbursementStatusApproved, reviewer, note, at)
}

// Reject refuses a pending claim; a note is required
func (r *ExpenseReimbursement) Reject(reviewer uuid.UUID, note string, at time.Time) error {
	if strings.TrimSpace(note) == "" {
		return shared.NewDomainError("REASON_REQUIRED", "A rejection note is required")
	}
	return r.review(ReimbursementStatusRejected, reviewer, note, at)
}

func (r *ExpenseReimbursement) review(to ReimbursementStatus, reviewer uuid.UUID, note string, at time.Time) error {
	if r.Status != ReimbursementStatusPending {
		return shared.NewDomainError("INVALID_STATE", "Only pending reimbursements can be reviewed")
	}
	if reviewer == r.RequesterID {
		return shared.NewDomainError("SELF_REVIEW", "Requesters cannot review their own reimbursement")
	}
	r.Status = to
	r.ReviewerID = &reviewer
	r.ReviewNote = note
	r.ReviewedAt = &at
	r.IncrementVersion()
	return nil
}

// MarkPaid closes an approved claim with the payable that settled it
func (r *ExpenseReimbursement) MarkPaid(payableID uuid.UUID) error {
	if r.Status != ReimbursementStatusApproved {
		return shared.NewDomainError("INVALID_STATE", "Only approved reimbursements can be paid")
	}
	r.Status = ReimbursementStatusPaid
	r.PayableID = &payableID
	r.IncrementVersion()
	return nil
}
