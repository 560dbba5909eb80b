package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// AdjustStockRequest sets an absolute counted quantity or moves stock by a delta.
// Exactly one of Quantity and Delta must be given.
type AdjustStockRequest struct {
	BranchID    uuid.UUID        `json:"branch_id" binding:"required"`
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	VariationID *uuid.UUID       `json:"variation_id"`
	Quantity    *decimal.Decimal `json:"quantity"`
	Delta       *decimal.Decimal `json:"delta"`
	Reason      string           `json:"reason" binding:"required,max=255"`
}

// SetMinQuantityRequest sets the low stock threshold of a stock row
type SetMinQuantityRequest struct {
	BranchID    uuid.UUID       `json:"branch_id" binding:"required"`
	ProductID   uuid.UUID       `json:"product_id" binding:"required"`
	VariationID *uuid.UUID      `json:"variation_id"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
}

// TransferRequest moves stock between two branches
type TransferRequest struct {
	FromBranchID uuid.UUID       `json:"from_branch_id" binding:"required"`
	ToBranchID   uuid.UUID       `json:"to_branch_id" binding:"required"`
	ProductID    uuid.UUID       `json:"product_id" binding:"required"`
	VariationID  *uuid.UUID      `json:"variation_id"`
	Quantity     decimal.Decimal `json:"quantity"`
	Reason       string          `json:"reason" binding:"max=255"`
}

// StockResponse represents the stock of one product in one branch
type StockResponse struct {
	ID          uuid.UUID       `json:"id"`
	BranchID    uuid.UUID       `json:"branch_id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariationID *uuid.UUID      `json:"variation_id,omitempty"`
	Quantity    decimal.Decimal `json:"quantity"`
	MinQuantity decimal.Decimal `json:"min_quantity"`
	IsLow       bool            `json:"is_low"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Version     int             `json:"version"`
}

// TransferResponse holds both sides of a transfer
type TransferResponse struct {
	From StockResponse `json:"from"`
	To   StockResponse `json:"to"`
}

// MovementResponse represents one stock ledger line
type MovementResponse struct {
	ID            uuid.UUID       `json:"id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	ProductID     uuid.UUID       `json:"product_id"`
	VariationID   *uuid.UUID      `json:"variation_id,omitempty"`
	Type          string          `json:"type"`
	Quantity      decimal.Decimal `json:"quantity"`
	BalanceAfter  decimal.Decimal `json:"balance_after"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ReferenceID   *uuid.UUID      `json:"reference_id,omitempty"`
	Reason        string          `json:"reason,omitempty"`
	CreatedBy     *uuid.UUID      `json:"created_by,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toStockResponse(s *inventory.BranchStock) StockResponse {
	return StockResponse{
		ID:          s.ID,
		BranchID:    s.BranchID,
		ProductID:   s.ProductID,
		VariationID: s.VariationID,
		Quantity:    s.Quantity,
		MinQuantity: s.MinQuantity,
		IsLow:       s.IsLow(),
		UpdatedAt:   s.UpdatedAt,
		Version:     s.Version,
	}
}

func toMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:            m.ID,
		BranchID:      m.BranchID,
		ProductID:     m.ProductID,
		VariationID:   m.VariationID,
		Type:          string(m.Type),
		Quantity:      m.Quantity,
		BalanceAfter:  m.BalanceAfter,
		ReferenceType: m.ReferenceType,
		ReferenceID:   m.ReferenceID,
		Reason:        m.Reason,
		CreatedBy:     m.CreatedBy,
		CreatedAt:     m.CreatedAt,
	}
}
