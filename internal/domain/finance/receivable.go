package finance

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ReceivableSource is the document that created the receivable
type ReceivableSource string

const (
	ReceivableSourceSale         ReceivableSource = "sale"
	ReceivableSourceServiceOrder ReceivableSource = "service_order"
	ReceivableSourceManual       ReceivableSource = "manual"
)

func (s ReceivableSource) IsValid() bool {
	return s == ReceivableSourceSale || s == ReceivableSourceServiceOrder || s == ReceivableSourceManual
}

// AccountReceivable is money a customer owes the shop
type AccountReceivable struct {
	shared.TenantAggregateRoot
	CustomerID  uuid.UUID        `gorm:"type:uuid;not null;index"`
	BranchID    *uuid.UUID       `gorm:"type:uuid;index"`
	Source      ReceivableSource `gorm:"type:varchar(20);not null"`
	SourceID    *uuid.UUID       `gorm:"type:uuid;index"`
	Description string           `gorm:"type:varchar(255)"`
	Balance     `gorm:"embedded"`
}

func (AccountReceivable) TableName() string {
	return "account_receivables"
}

// NewAccountReceivable opens a receivable
func NewAccountReceivable(tenantID, customerID uuid.UUID, source ReceivableSource, sourceID *uuid.UUID, amount decimal.Decimal, due time.Time, description string) (*AccountReceivable, error) {
	if customerID == uuid.Nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Receivable requires a customer")
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown receivable source: "+string(source))
	}
	if source != ReceivableSourceManual && sourceID == nil {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Source document is required")
	}
	b, err := newBalance(amount, due)
	if err != nil {
		return nil, err
	}
	return &AccountReceivable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		CustomerID:          customerID,
		Source:              source,
		SourceID:            sourceID,
		Description:         description,
		Balance:             b,
	}, nil
}

// RecordPayment applies a payment; the status becomes partial until fully paid
func (r *AccountReceivable) RecordPayment(amount decimal.Decimal, method string, by uuid.UUID, note string, at time.Time) error {
	if err := r.pay(amount, method, by, note, at); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

// Cancel voids an open receivable
func (r *AccountReceivable) Cancel() error {
	if err := r.cancel(); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}

// WriteDown lowers the amount owed after goods were returned
func (r *AccountReceivable) WriteDown(amount decimal.Decimal, at time.Time) error {
	if err := r.writeDown(amount, at); err != nil {
		return err
	}
	r.IncrementVersion()
	return nil
}
