package repair

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

const NumberPrefix = "OS"

// Priority orders the workbench queue
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

func (p Priority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityNormal, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// ServiceOrder is a device left at the shop for repair
type ServiceOrder struct {
	shared.TenantAggregateRoot
	Number          string            `gorm:"type:varchar(30);not null"`
	BranchID        uuid.UUID         `gorm:"type:uuid;not null;index"`
	CustomerID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	DeviceType      string            `gorm:"type:varchar(50);not null"`
	Brand           string            `gorm:"type:varchar(100)"`
	Model           string            `gorm:"type:varchar(100)"`
	SerialNumber    string            `gorm:"type:varchar(100)"`
	ReportedProblem string            `gorm:"type:text;not null"`
	Diagnosis       string            `gorm:"type:text"`
	Checklist       datatypes.JSONMap `gorm:"type:jsonb"`
	Accessories     string            `gorm:"type:varchar(255)"`
	PasswordNote    string            `gorm:"type:varchar(100)"`
	TechnicianID    *uuid.UUID        `gorm:"type:uuid;index"`
	EstimatedCost   decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	FinalCost       decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	Priority        Priority          `gorm:"type:varchar(10);not null"`
	DueDate         *time.Time
	Status          Status `gorm:"type:varchar(30);not null;index"`
	DeliveredAt     *time.Time
	WarrantyDays    int                `gorm:"not null"`
	Parts           []ServiceOrderPart `gorm:"foreignKey:ServiceOrderID"`
}

func (ServiceOrder) TableName() string {
	return "service_orders"
}

// Intake is what the counter captures when a device arrives
type Intake struct {
	BranchID        uuid.UUID
	CustomerID      uuid.UUID
	DeviceType      string
	Brand           string
	Model           string
	SerialNumber    string
	ReportedProblem string
	Checklist       map[string]interface{}
	Accessories     string
	PasswordNote    string
	EstimatedCost   decimal.Decimal
	Priority        Priority
	DueDate         *time.Time
}

// NewServiceOrder opens an order in the received status
func NewServiceOrder(tenantID uuid.UUID, in Intake, openedBy uuid.UUID) (*ServiceOrder, error) {
	if in.CustomerID == uuid.Nil {
		return nil, shared.NewDomainError("CUSTOMER_REQUIRED", "Service order requires a customer")
	}
	if strings.TrimSpace(in.DeviceType) == "" {
		return nil, shared.NewDomainError("INVALID_DEVICE", "Device type is required")
	}
	if strings.TrimSpace(in.ReportedProblem) == "" {
		return nil, shared.NewDomainError("INVALID_PROBLEM", "Reported problem is required")
	}
	if in.EstimatedCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Estimated cost cannot be negative")
	}
	if in.Priority == "" {
		in.Priority = PriorityNormal
	}
	if !in.Priority.IsValid() {
		return nil, shared.NewDomainError("INVALID_PRIORITY", "Unknown priority: "+string(in.Priority))
	}
	checklist := in.Checklist
	if checklist == nil {
		checklist = map[string]interface{}{}
	}
	o := &ServiceOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		BranchID:            in.BranchID,
		CustomerID:          in.CustomerID,
		DeviceType:          strings.TrimSpace(in.DeviceType),
		Brand:               strings.TrimSpace(in.Brand),
		Model:               strings.TrimSpace(in.Model),
		SerialNumber:        strings.TrimSpace(in.SerialNumber),
		ReportedProblem:     strings.TrimSpace(in.ReportedProblem),
		Checklist:           datatypes.JSONMap(checklist),
		Accessories:         in.Accessories,
		PasswordNote:        in.PasswordNote,
		EstimatedCost:       in.EstimatedCost,
		FinalCost:           decimal.Zero,
		Priority:            in.Priority,
		DueDate:             in.DueDate,
		Status:              StatusReceived,
		WarrantyDays:        90,
	}
	o.SetCreatedBy(openedBy)
	return o, nil
}

// DeviceLabel is "Brand Model", or the device type when both are empty
func (o *ServiceOrder) DeviceLabel() string {
	if o.Brand == "" && o.Model == "" {
		return o.DeviceType
	}
	return strings.TrimSpace(o.Brand + " " + o.Model)
}

// AssignNumber sets the document number and publishes ServiceOrderCreated
func (o *ServiceOrder) AssignNumber(number string) {
	o.Number = number
	o.AddDomainEvent(NewServiceOrderCreatedEvent(o))
}

// Details are the editable technical fields
type Details struct {
	Diagnosis     string
	EstimatedCost decimal.Decimal
	FinalCost     decimal.Decimal
	Priority      Priority
	DueDate       *time.Time
	Accessories   string
	WarrantyDays  int
	Checklist     map[string]interface{}
}

// UpdateDetails edits an open order
func (o *ServiceOrder) UpdateDetails(d Details) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Closed service orders cannot be edited")
	}
	if d.EstimatedCost.IsNegative() || d.FinalCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Costs cannot be negative")
	}
	if d.Priority == "" {
		d.Priority = o.Priority
	}
	if !d.Priority.IsValid() {
		return shared.NewDomainError("INVALID_PRIORITY", "Unknown priority: "+string(d.Priority))
	}
	if d.WarrantyDays < 0 {
		return shared.NewDomainError("INVALID_WARRANTY", "Warranty days cannot be negative")
	}
	o.Diagnosis = d.Diagnosis
	o.EstimatedCost = d.EstimatedCost
	o.FinalCost = d.FinalCost
	o.Priority = d.Priority
	o.DueDate = d.DueDate
	o.Accessories = d.Accessories
	o.WarrantyDays = d.WarrantyDays
	if d.Checklist != nil {
		o.Checklist = datatypes.JSONMap(d.Checklist)
	}
	o.IncrementVersion()
	return nil
}

// ChangeStatus validates the transition and returns the history line to persist
func (o *ServiceOrder) ChangeStatus(to Status, changedBy uuid.UUID, note string, at time.Time) (*StatusHistory, error) {
	if !to.IsValid() {
		return nil, shared.NewDomainError("INVALID_STATUS", "Unknown status: "+string(to))
	}
	if !o.Status.CanTransitionTo(to) {
		return nil, shared.NewDomainError("INVALID_TRANSITION",
			"Cannot change status from "+string(o.Status)+" to "+string(to))
	}
	if to == StatusDelivered && o.FinalCost.IsZero() && !o.EstimatedCost.IsZero() {
		o.FinalCost = o.EstimatedCost
	}
	from := o.Status
	o.Status = to
	if to == StatusDelivered {
		o.DeliveredAt = &at
	}
	o.IncrementVersion()
	o.AddDomainEvent(NewServiceOrderStatusChangedEvent(o, from, changedBy))

	return &StatusHistory{
		TenantEntity:   shared.NewTenantEntity(o.TenantID),
		ServiceOrderID: o.ID,
		FromStatus:     from,
		ToStatus:       to,
		ChangedBy:      changedBy,
		Note:           note,
		ChangedAt:      at,
	}, nil
}

// AssignTechnician sets the responsible technician of an open order
func (o *ServiceOrder) AssignTechnician(technicianID uuid.UUID) error {
	if o.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Closed service orders cannot be reassigned")
	}
	if technicianID == uuid.Nil {
		return shared.NewDomainError("INVALID_TECHNICIAN", "Technician is required")
	}
	o.TechnicianID = &technicianID
	o.IncrementVersion()
	return nil
}

// HasTechnician reports whether someone is responsible for the order
func (o *ServiceOrder) HasTechnician() bool {
	return o.TechnicianID != nil && *o.TechnicianID != uuid.Nil
}

// WarrantyUntil is the end of the warranty of a delivered order
func (o *ServiceOrder) WarrantyUntil() *time.Time {
	if o.DeliveredAt == nil {
		return nil
	}
	t := o.DeliveredAt.AddDate(0, 0, o.WarrantyDays)
	return &t
}

// PartsTotal sums the price of consumed parts
func (o *ServiceOrder) PartsTotal() decimal.Decimal {
	total := decimal.Zero
	for _, p := range o.Parts {
		total = total.Add(p.UnitPrice.Mul(p.Quantity))
	}
	return total
}
