package inventory

import (
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType represents the reason stock moved
type MovementType string

const (
	// MovementTypeIn is goods received
	MovementTypeIn MovementType = "in"
	// MovementTypeOut is a manual withdrawal
	MovementTypeOut        MovementType = "out"
	MovementTypeAdjustment MovementType = "adjustment"
	MovementTypeSale       MovementType = "sale"
	// MovementTypeReturn is stock coming back from a sale return or cancellation
	MovementTypeReturn      MovementType = "return"
	MovementTypeRepair      MovementType = "repair"
	MovementTypeTransferIn  MovementType = "transfer_in"
	MovementTypeTransferOut MovementType = "transfer_out"
)

// IsValid returns true if the movement type is known
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjustment, MovementTypeSale,
		MovementTypeReturn, MovementTypeRepair, MovementTypeTransferIn, MovementTypeTransferOut:
		return true
	}
	return false
}

// StockMovement is an immutable ledger line of a branch stock
type StockMovement struct {
	shared.TenantEntity
	BranchID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariationID   *uuid.UUID      `gorm:"type:uuid"`
	Type          MovementType    `gorm:"type:varchar(20);not null"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	ReferenceType string          `gorm:"type:varchar(30)"`
	ReferenceID   *uuid.UUID      `gorm:"type:uuid;index"`
	Reason        string          `gorm:"type:varchar(255)"`
	CreatedBy     *uuid.UUID      `gorm:"type:uuid"`
}

func (StockMovement) TableName() string {
	return "stock_movements"
}

// Reference links a movement to the document that caused it
type Reference struct {
	Type string
	ID   *uuid.UUID
}
