package repair

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/shopspring/decimal"
)

// CreateServiceOrderRequest is the intake form filled at the counter
type CreateServiceOrderRequest struct {
	BranchID        uuid.UUID              `json:"branch_id" binding:"required"`
	CustomerID      uuid.UUID              `json:"customer_id" binding:"required"`
	DeviceType      string                 `json:"device_type" binding:"required,max=50"`
	Brand           string                 `json:"brand" binding:"max=100"`
	Model           string                 `json:"model" binding:"max=100"`
	SerialNumber    string                 `json:"serial_number" binding:"max=100"`
	ReportedProblem string                 `json:"reported_problem" binding:"required"`
	Checklist       map[string]interface{} `json:"checklist"`
	Accessories     string                 `json:"accessories" binding:"max=255"`
	PasswordNote    string                 `json:"password_note" binding:"max=100"`
	EstimatedCost   decimal.Decimal        `json:"estimated_cost"`
	Priority        string                 `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueDate         *time.Time             `json:"due_date"`
	TechnicianID    *uuid.UUID             `json:"technician_id"`
}

// UpdateServiceOrderRequest edits the technical fields of an open order
type UpdateServiceOrderRequest struct {
	Diagnosis     string                 `json:"diagnosis"`
	EstimatedCost decimal.Decimal        `json:"estimated_cost"`
	FinalCost     decimal.Decimal        `json:"final_cost"`
	Priority      string                 `json:"priority" binding:"omitempty,oneof=low normal high urgent"`
	DueDate       *time.Time             `json:"due_date"`
	Accessories   string                 `json:"accessories" binding:"max=255"`
	WarrantyDays  *int                   `json:"warranty_days" binding:"omitempty,min=0,max=3650"`
	Checklist     map[string]interface{} `json:"checklist"`
}

// ChangeStatusRequest moves an order through the workflow
type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
	Note   string `json:"note" binding:"max=500"`
}

// AssignTechnicianRequest names the technician responsible for an order
type AssignTechnicianRequest struct {
	TechnicianID uuid.UUID `json:"technician_id" binding:"required"`
}

// AddPartRequest consumes a product from the branch stock
type AddPartRequest struct {
	ProductID   uuid.UUID        `json:"product_id" binding:"required"`
	VariationID *uuid.UUID       `json:"variation_id"`
	Quantity    decimal.Decimal  `json:"quantity"`
	UnitPrice   *decimal.Decimal `json:"unit_price"`
}

// UploadPhotoRequest carries one uploaded image
type UploadPhotoRequest struct {
	ContentType string
	Data        []byte
	Caption     string
}

// PartResponse represents a consumed part
type PartResponse struct {
	ID          uuid.UUID       `json:"id"`
	ProductID   uuid.UUID       `json:"product_id"`
	VariationID *uuid.UUID      `json:"variation_id,omitempty"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	AddedBy     uuid.UUID       `json:"added_by"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ServiceOrderResponse represents a service order in API responses
type ServiceOrderResponse struct {
	ID              uuid.UUID              `json:"id"`
	Number          string                 `json:"number"`
	BranchID        uuid.UUID              `json:"branch_id"`
	CustomerID      uuid.UUID              `json:"customer_id"`
	DeviceType      string                 `json:"device_type"`
	Brand           string                 `json:"brand"`
	Model           string                 `json:"model"`
	SerialNumber    string                 `json:"serial_number"`
	ReportedProblem string                 `json:"reported_problem"`
	Diagnosis       string                 `json:"diagnosis"`
	Checklist       map[string]interface{} `json:"checklist"`
	Accessories     string                 `json:"accessories"`
	PasswordNote    string                 `json:"password_note"`
	TechnicianID    *uuid.UUID             `json:"technician_id,omitempty"`
	EstimatedCost   decimal.Decimal        `json:"estimated_cost"`
	FinalCost       decimal.Decimal        `json:"final_cost"`
	PartsTotal      decimal.Decimal        `json:"parts_total"`
	Priority        string                 `json:"priority"`
	DueDate         *time.Time             `json:"due_date,omitempty"`
	Status          string                 `json:"status"`
	NextStatuses    []string               `json:"next_statuses"`
	DeliveredAt     *time.Time             `json:"delivered_at,omitempty"`
	WarrantyDays    int                    `json:"warranty_days"`
	WarrantyUntil   *time.Time             `json:"warranty_until,omitempty"`
	Parts           []PartResponse         `json:"parts"`
	CreatedBy       *uuid.UUID             `json:"created_by,omitempty"`
	CreatedAt       time.Time              `json:"created_at"`
	UpdatedAt       time.Time              `json:"updated_at"`
	Version         int                    `json:"version"`
}

// HistoryResponse is one status change
type HistoryResponse struct {
	ID         uuid.UUID `json:"id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	ChangedBy  uuid.UUID `json:"changed_by"`
	Note       string    `json:"note"`
	ChangedAt  time.Time `json:"changed_at"`
}

// PhotoResponse carries a short-lived download link
type PhotoResponse struct {
	ID          uuid.UUID `json:"id"`
	ContentType string    `json:"content_type"`
	Size        int64     `json:"size"`
	Caption     string    `json:"caption"`
	URL         string    `json:"url"`
	ExpiresAt   time.Time `json:"expires_at"`
	UploadedBy  uuid.UUID `json:"uploaded_by"`
	CreatedAt   time.Time `json:"created_at"`
}

// ServiceOrderView is the data handed to the service order print template
type ServiceOrderView struct {
	Order          ServiceOrderResponse
	History        []HistoryResponse
	BranchName     string
	BranchAddress  string
	BranchPhone    string
	CustomerName   string
	CustomerPhone  string
	CustomerDoc    string
	TechnicianName string
	PrintedAt      time.Time
}

// ToServiceOrderResponse converts a domain order to a response
func ToServiceOrderResponse(o *repair.ServiceOrder) ServiceOrderResponse {
	parts := make([]PartResponse, len(o.Parts))
	for i := range o.Parts {
		p := &o.Parts[i]
		parts[i] = PartResponse{
			ID:          p.ID,
			ProductID:   p.ProductID,
			VariationID: p.VariationID,
			Description: p.Description,
			Quantity:    p.Quantity,
			UnitPrice:   p.UnitPrice,
			Total:       p.UnitPrice.Mul(p.Quantity),
			AddedBy:     p.AddedBy,
			CreatedAt:   p.CreatedAt,
		}
	}
	next := o.Status.NextStatuses()
	nextStatuses := make([]string, len(next))
	for i, s := range next {
		nextStatuses[i] = string(s)
	}
	checklist := map[string]interface{}(o.Checklist)
	if checklist == nil {
		checklist = map[string]interface{}{}
	}
	return ServiceOrderResponse{
		ID:              o.ID,
		Number:          o.Number,
		BranchID:        o.BranchID,
		CustomerID:      o.CustomerID,
		DeviceType:      o.DeviceType,
		Brand:           o.Brand,
		Model:           o.Model,
		SerialNumber:    o.SerialNumber,
		ReportedProblem: o.ReportedProblem,
		Diagnosis:       o.Diagnosis,
		Checklist:       checklist,
		Accessories:     o.Accessories,
		PasswordNote:    o.PasswordNote,
		TechnicianID:    o.TechnicianID,
		EstimatedCost:   o.EstimatedCost,
		FinalCost:       o.FinalCost,
		PartsTotal:      o.PartsTotal(),
		Priority:        string(o.Priority),
		DueDate:         o.DueDate,
		Status:          string(o.Status),
		NextStatuses:    nextStatuses,
		DeliveredAt:     o.DeliveredAt,
		WarrantyDays:    o.WarrantyDays,
		WarrantyUntil:   o.WarrantyUntil(),
		Parts:           parts,
		CreatedBy:       o.CreatedBy,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
		Version:         o.Version,
	}
}

func toHistoryResponse(h *repair.StatusHistory) HistoryResponse {
	return HistoryResponse{
		ID:         h.ID,
		FromStatus: string(h.FromStatus),
		ToStatus:   string(h.ToStatus),
		ChangedBy:  h.ChangedBy,
		Note:       h.Note,
		ChangedAt:  h.ChangedAt,
	}
}
