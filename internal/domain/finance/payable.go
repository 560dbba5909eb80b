package finance

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AccountPayable is money the shop owes a supplier or employee
type AccountPayable struct {
	shared.TenantAggregateRoot
	SupplierName string     `gorm:"type:varchar(200);not null"`
	Description  string     `gorm:"type:varchar(255);not null"`
	Category     string     `gorm:"type:varchar(100);index"`
	BranchID     *uuid.UUID `gorm:"type:uuid;index"`
	SourceType   string     `gorm:"type:varchar(30)"`
	SourceID     *uuid.UUID `gorm:"type:uuid"`
	Balance      `gorm:"embedded"`
}

func (AccountPayable) TableName() string {
	return "account_payables"
}

// NewAccountPayable opens a payable
func NewAccountPayable(tenantID uuid.UUID, supplier, description, category string, amount decimal.Decimal, due time.Time) (*AccountPayable, error) {
	supplier = strings.TrimSpace(supplier)
	if supplier == "" {
		return nil, shared.NewDomainError("SUPPLIER_REQUIRED", "Supplier name is required")
	}
	if strings.TrimSpace(description) == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Description is required")
	}
	b, err := newBalance(amount, due)
	if err != nil {
		return nil, err
	}
	return &AccountPayable{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		SupplierName:        supplier,
		Description:         strings.TrimSpace(description),
		Category:            strings.TrimSpace(category),
		Balance:             b,
	}, nil
}

// RecordPayment applies a payment; the status becomes partial until fully paid
func (p *AccountPayable) RecordPayment(amount decimal.Decimal, method string, by uuid.UUID, note string, at time.Time) error {
	if err := p.pay(amount, method, by, note, at); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}

// Cancel voids an open payable
func (p *AccountPayable) Cancel() error {
	if err := p.cancel(); err != nil {
		return err
	}
	p.IncrementVersion()
	return nil
}
