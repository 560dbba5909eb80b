package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// AccountStatus is shared by receivables and payables
type AccountStatus string

const (
	AccountStatusPending   AccountStatus = "pending"
	AccountStatusPartial   AccountStatus = "partial"
	AccountStatusPaid      AccountStatus = "paid"
	AccountStatusCancelled AccountStatus = "cancelled"
)

func (s AccountStatus) IsValid() bool {
	switch s {
	case AccountStatusPending, AccountStatusPartial, AccountStatusPaid, AccountStatusCancelled:
		return true
	}
	return false
}

// IsOpen returns true if payments can still be applied
func (s AccountStatus) IsOpen() bool {
	return s == AccountStatusPending || s == AccountStatusPartial
}

// PaymentRecord is one settlement of an account
type PaymentRecord struct {
	ID     uuid.UUID       `json:"id"`
	Amount decimal.Decimal `json:"amount"`
	Method string          `json:"method"`
	PaidAt time.Time       `json:"paid_at"`
	PaidBy uuid.UUID       `json:"paid_by"`
	Note   string          `json:"note,omitempty"`
}

// Balance is the money part of an account: amount, settlements and status
type Balance struct {
	Amount     decimal.Decimal                    `gorm:"type:decimal(18,4);not null"`
	PaidAmount decimal.Decimal                    `gorm:"type:decimal(18,4);not null"`
	DueDate    time.Time                          `gorm:"not null;index"`
	Status     AccountStatus                      `gorm:"type:varchar(20);not null;index"`
	Payments   datatypes.JSONSlice[PaymentRecord] `gorm:"type:jsonb"`
	PaidAt     *time.Time
}

func newBalance(amount decimal.Decimal, due time.Time) (Balance, error) {
	if !amount.IsPositive() {
		return Balance{}, shared.NewDomainError("INVALID_AMOUNT", "Amount must be positive")
	}
	if due.IsZero() {
		return Balance{}, shared.NewDomainError("INVALID_DUE_DATE", "Due date is required")
	}
	return Balance{
		Amount:     amount,
		PaidAmount: decimal.Zero,
		DueDate:    due,
		Status:     AccountStatusPending,
		Payments:   datatypes.JSONSlice[PaymentRecord]{},
	}, nil
}

// Outstanding is the amount still to be settled
func (b *Balance) Outstanding() decimal.Decimal {
	return b.Amount.Sub(b.PaidAmount)
}

// IsOverdue reports whether an open account passed its due date
func (b *Balance) IsOverdue(now time.Time) bool {
	return b.Status.IsOpen() && now.After(b.DueDate)
}

func (b *Balance) pay(amount decimal.Decimal, method string, by uuid.UUID, note string, at time.Time) error {
	if !b.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Account is already "+string(b.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.GreaterThan(b.Outstanding()) {
		return shared.NewDomainError("OVERPAYMENT", "Payment exceeds the outstanding amount "+b.Outstanding().StringFixed(2))
	}
	b.PaidAmount = b.PaidAmount.Add(amount)
	b.Payments = append(b.Payments, PaymentRecord{
		ID:     uuid.New(),
		Amount: amount,
		Method: method,
		PaidAt: at,
		PaidBy: by,
		Note:   note,
	})
	if b.Outstanding().IsZero() {
		b.Status = AccountStatusPaid
		b.PaidAt = &at
	} else {
		b.Status = AccountStatusPartial
	}
	return nil
}

// writeDown lowers the amount owed. An account whose amount drops to what was
// already paid is closed: paid when something was collected, cancelled otherwise.
func (b *Balance) writeDown(amount decimal.Decimal, at time.Time) error {
	if !b.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Account is already "+string(b.Status))
	}
	if !amount.IsPositive() {
		return shared.NewDomainError("INVALID_AMOUNT", "Write-down amount must be positive")
	}
	if amount.GreaterThan(b.Outstanding()) {
		return shared.NewDomainError("OVERPAYMENT", "Write-down exceeds the outstanding amount "+b.Outstanding().StringFixed(2))
	}
	b.Amount = b.Amount.Sub(amount)
	if b.Outstanding().IsPositive() {
		return nil
	}
	if b.PaidAmount.IsZero() {
		b.Status = AccountStatusCancelled
		return nil
	}
	b.Status = AccountStatusPaid
	b.PaidAt = &at
	return nil
}

func (b *Balance) cancel() error {
	if !b.Status.IsOpen() {
		return shared.NewDomainError("INVALID_STATE", "Account is already "+string(b.Status))
	}
	b.Status = AccountStatusCancelled
	return nil
}
