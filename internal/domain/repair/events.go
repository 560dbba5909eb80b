package repair

import (
	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

const AggregateTypeServiceOrder = "ServiceOrder"

const (
	EventTypeServiceOrderCreated       = "ServiceOrderCreated"
	EventTypeServiceOrderStatusChanged = "ServiceOrderStatusChanged"
)

// ServiceOrderCreatedEvent is published when a device is received
type ServiceOrderCreatedEvent struct {
	shared.BaseDomainEvent
	Number       string     `json:"number"`
	BranchID     uuid.UUID  `json:"branch_id"`
	CustomerID   uuid.UUID  `json:"customer_id"`
	TechnicianID *uuid.UUID `json:"technician_id,omitempty"`
	Priority     Priority   `json:"priority"`
	Device       string     `json:"device"`
}

func NewServiceOrderCreatedEvent(o *ServiceOrder) *ServiceOrderCreatedEvent {
	return &ServiceOrderCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderCreated, AggregateTypeServiceOrder, o.ID, o.TenantID),
		Number:          o.Number,
		BranchID:        o.BranchID,
		CustomerID:      o.CustomerID,
		TechnicianID:    o.TechnicianID,
		Priority:        o.Priority,
		Device:          o.DeviceLabel(),
	}
}

// ServiceOrderStatusChangedEvent is published after every status transition
type ServiceOrderStatusChangedEvent struct {
	shared.BaseDomainEvent
	Number       string          `json:"number"`
	BranchID     uuid.UUID       `json:"branch_id"`
	CustomerID   uuid.UUID       `json:"customer_id"`
	TechnicianID *uuid.UUID      `json:"technician_id,omitempty"`
	FromStatus   Status          `json:"from_status"`
	ToStatus     Status          `json:"to_status"`
	FinalCost    decimal.Decimal `json:"final_cost"`
	Device       string          `json:"device"`
	ChangedBy    uuid.UUID       `json:"changed_by"`
}

func NewServiceOrderStatusChangedEvent(o *ServiceOrder, from Status, by uuid.UUID) *ServiceOrderStatusChangedEvent {
	return &ServiceOrderStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeServiceOrderStatusChanged, AggregateTypeServiceOrder, o.ID, o.TenantID),
		Number:          o.Number,
		BranchID:        o.BranchID,
		CustomerID:      o.CustomerID,
		TechnicianID:    o.TechnicianID,
		FromStatus:      from,
		ToStatus:        o.Status,
		FinalCost:       o.FinalCost,
		Device:          o.DeviceLabel(),
		ChangedBy:       by,
	}
}
