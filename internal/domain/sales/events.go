package sales

import (
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const (
	AggregateTypeSale       = "Sale"
	AggregateTypeSaleReturn = "SaleReturn"
)

const (
	EventTypeSaleCompleted = "SaleCompleted"
	EventTypeSaleCancelled = "SaleCancelled"
	EventTypeSaleReturned  = "SaleReturned"
)

// SaleLine is the part of a sale item that event consumers need
type SaleLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	Category  string          `json:"category,omitempty"`
	IsService bool            `json:"is_service"`
	Quantity  decimal.Decimal `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

// SaleCompletedEvent is published after a sale is committed
type SaleCompletedEvent struct {
	shared.BaseDomainEvent
	SaleID     uuid.UUID       `json:"sale_id"`
	Number     string          `json:"number"`
	BranchID   uuid.UUID       `json:"branch_id"`
	SellerID   uuid.UUID       `json:"seller_id"`
	CustomerID *uuid.UUID      `json:"customer_id,omitempty"`
	Total      decimal.Decimal `json:"total"`
	Lines      []SaleLine      `json:"lines"`
}

func NewSaleCompletedEvent(s *Sale) *SaleCompletedEvent {
	lines := make([]SaleLine, len(s.Items))
	for i, it := range s.Items {
		lines[i] = SaleLine{ProductID: it.ProductID, Category: it.Category, IsService: it.IsService, Quantity: it.Quantity, Total: it.Total}
	}
	return &SaleCompletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCompleted, AggregateTypeSale, s.ID, s.TenantID),
		SaleID:          s.ID,
		Number:          s.Number,
		BranchID:        s.BranchID,
		SellerID:        s.SellerID,
		CustomerID:      s.CustomerID,
		Total:           s.Total,
		Lines:           lines,
	}
}

// SaleCancelledEvent is published when a sale is voided
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID uuid.UUID `json:"sale_id"`
	Reason string    `json:"reason"`
}

func NewSaleCancelledEvent(s *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleCancelled, AggregateTypeSale, s.ID, s.TenantID),
		SaleID:          s.ID,
		Reason:          s.CancelReason,
	}
}

// SaleReturnedEvent is published after a return is committed
type SaleReturnedEvent struct {
	shared.BaseDomainEvent
	SaleID        uuid.UUID       `json:"sale_id"`
	ReturnID      uuid.UUID       `json:"return_id"`
	BranchID      uuid.UUID       `json:"branch_id"`
	RefundAmount  decimal.Decimal `json:"refund_amount"`
	FullyReturned bool            `json:"fully_returned"`
}

func NewSaleReturnedEvent(r *SaleReturn, s *Sale) *SaleReturnedEvent {
	return &SaleReturnedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleReturned, AggregateTypeSaleReturn, r.ID, r.TenantID),
		SaleID:          s.ID,
		ReturnID:        r.ID,
		BranchID:        r.BranchID,
		RefundAmount:    r.RefundAmount,
		FullyReturned:   s.Status == SaleStatusReturned,
	}
}
