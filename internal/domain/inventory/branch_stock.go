package inventory

import (
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// BranchStock is the on-hand quantity of one product (or variation) in one branch
type BranchStock struct {
	shared.TenantAggregateRoot
	BranchID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID       `gorm:"type:uuid;not null;index"`
	VariationID *uuid.UUID      `gorm:"type:uuid"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	MinQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null"`
}

func (BranchStock) TableName() string {
	return "branch_stocks"
}

// NewBranchStock creates an empty stock row
func NewBranchStock(tenantID, branchID, productID uuid.UUID, variationID *uuid.UUID) *BranchStock {
	return &BranchStock{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            branchID,
		ProductID:           productID,
		VariationID:         variationID,
		Quantity:            decimal.Zero,
		MinQuantity:         decimal.Zero,
	}
}

// Apply moves the quantity by delta and returns the ledger line.
// A delta that would make the quantity negative fails with INSUFFICIENT_STOCK.
func (s *BranchStock) Apply(t MovementType, delta decimal.Decimal, ref Reference, reason string, by *uuid.UUID) (*StockMovement, error) {
	if !t.IsValid() {
		return nil, shared.NewDomainError("INVALID_MOVEMENT_TYPE", "Unknown movement type: "+string(t))
	}
	if delta.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must not be zero")
	}
	next := s.Quantity.Add(delta)
	if next.IsNegative() {
		return nil, shared.NewDomainError("INSUFFICIENT_STOCK",
			"Insufficient stock: available "+s.Quantity.String()+", requested "+delta.Neg().String())
	}
	s.Quantity = next
	s.IncrementVersion()

	return &StockMovement{
		TenantEntity:  shared.NewTenantEntity(s.TenantID),
		BranchID:      s.BranchID,
		ProductID:     s.ProductID,
		VariationID:   s.VariationID,
		Type:          t,
		Quantity:      delta,
		BalanceAfter:  next,
		ReferenceType: ref.Type,
		ReferenceID:   ref.ID,
		Reason:        reason,
		CreatedBy:     by,
	}, nil
}

// Decrease removes quantity (sale, repair part, transfer out)
func (s *BranchStock) Decrease(t MovementType, qty decimal.Decimal, ref Reference, by *uuid.UUID) (*StockMovement, error) {
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return s.Apply(t, qty.Neg(), ref, "", by)
}

// Increase adds quantity (receipt, return, transfer in)
func (s *BranchStock) Increase(t MovementType, qty decimal.Decimal, ref Reference, by *uuid.UUID) (*StockMovement, error) {
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	return s.Apply(t, qty, ref, "", by)
}

// AdjustTo sets an absolute counted quantity
func (s *BranchStock) AdjustTo(counted decimal.Decimal, reason string, by *uuid.UUID) (*StockMovement, error) {
	if counted.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	if reason == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "Adjustment reason is required")
	}
	return s.Apply(MovementTypeAdjustment, counted.Sub(s.Quantity), Reference{Type: "adjustment"}, reason, by)
}

// SetMinQuantity sets the low stock threshold
func (s *BranchStock) SetMinQuantity(q decimal.Decimal) error {
	if q.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	s.MinQuantity = q
	s.IncrementVersion()
	return nil
}

// IsLow reports whether the stock is at or below its threshold
func (s *BranchStock) IsLow() bool {
	return s.MinQuantity.IsPositive() && s.Quantity.LessThanOrEqual(s.MinQuantity)
}

// Transfer moves qty from one branch stock to another and returns both ledger lines
func Transfer(from, to *BranchStock, qty decimal.Decimal, by *uuid.UUID) (*StockMovement, *StockMovement, error) {
	if from.BranchID == to.BranchID {
		return nil, nil, shared.NewDomainError("INVALID_TRANSFER", "Source and target branch must differ")
	}
	if from.ProductID != to.ProductID {
		return nil, nil, shared.NewDomainError("INVALID_TRANSFER", "Source and target stock must hold the same product")
	}
	transferID := uuid.New()
	out, err := from.Decrease(MovementTypeTransferOut, qty, Reference{Type: "transfer", ID: &transferID}, by)
	if err != nil {
		return nil, nil, err
	}
	in, err := to.Increase(MovementTypeTransferIn, qty, Reference{Type: "transfer", ID: &transferID}, by)
	if err != nil {
		return nil, nil, err
	}
	return out, in, nil
}
