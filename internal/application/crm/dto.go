package crm

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// CustomerRequest represents the data of a customer to create or update
type CustomerRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=200"`
	Type     string `json:"type" binding:"omitempty,oneof=individual company"`
	Document string `json:"document" binding:"max=30"`
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Phone    string `json:"phone" binding:"max=30"`
	WhatsApp string `json:"whatsapp" binding:"max=30"`
	Address  string `json:"address" binding:"max=255"`
	Notes    string `json:"notes" binding:"max=2000"`
	IsActive *bool  `json:"is_active"`
}

func (r CustomerRequest) contact() crm.ContactInfo {
	return crm.ContactInfo{Email: r.Email, Phone: r.Phone, WhatsApp: r.WhatsApp, Address: r.Address}
}

// CustomerResponse represents a customer in API responses
type CustomerResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	Document  string    `json:"document"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	WhatsApp  string    `json:"whatsapp"`
	Address   string    `json:"address"`
	Notes     string    `json:"notes"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Version   int       `json:"version"`
}

// ToCustomerResponse converts a domain customer to a response
func ToCustomerResponse(c *crm.Customer) CustomerResponse {
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Type:      string(c.Type),
		Document:  c.Document,
		Email:     c.Email,
		Phone:     c.Phone,
		WhatsApp:  c.WhatsApp,
		Address:   c.Address,
		Notes:     c.Notes,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Version:   c.Version,
	}
}

// SaleSummary is a sale line of the customer history
type SaleSummary struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Status    string          `json:"status"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// RepairSummary is a service order line of the customer history
type RepairSummary struct {
	ID          uuid.UUID       `json:"id"`
	Number      string          `json:"number"`
	Device      string          `json:"device"`
	Status      string          `json:"status"`
	FinalCost   decimal.Decimal `json:"final_cost"`
	CreatedAt   time.Time       `json:"created_at"`
	DeliveredAt *time.Time      `json:"delivered_at,omitempty"`
}

// CustomerHistoryResponse holds the recent activity of a customer
type CustomerHistoryResponse struct {
	Customer     CustomerResponse `json:"customer"`
	Sales        []SaleSummary    `json:"sales"`
	SalesCount   int64            `json:"sales_count"`
	TotalSpent   decimal.Decimal  `json:"total_spent"`
	Repairs      []RepairSummary  `json:"repairs"`
	RepairsCount int64            `json:"repairs_count"`
}

func toSaleSummary(s *sales.Sale) SaleSummary {
	return SaleSummary{ID: s.ID, Number: s.Number, Status: string(s.Status), Total: s.Total, CreatedAt: s.CreatedAt}
}

func toRepairSummary(o *repair.ServiceOrder) RepairSummary {
	return RepairSummary{
		ID:          o.ID,
		Number:      o.Number,
		Device:      joinNonEmpty(o.DeviceType, o.Brand, o.Model),
		Status:      string(o.Status),
		FinalCost:   o.FinalCost,
		CreatedAt:   o.CreatedAt,
		DeliveredAt: o.DeliveredAt,
	}
}

// CreateLeadRequest represents a new prospect
type CreateLeadRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Phone      string     `json:"phone" binding:"max=30"`
	Email      string     `json:"email" binding:"omitempty,email,max=200"`
	Source     string     `json:"source" binding:"omitempty,oneof=walk_in whatsapp instagram marketplace referral website other"`
	Interest   string     `json:"interest" binding:"max=255"`
	Notes      string     `json:"notes" binding:"max=2000"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

// UpdateLeadRequest changes an open lead
type UpdateLeadRequest struct {
	Name       string     `json:"name" binding:"required,min=1,max=200"`
	Phone      string     `json:"phone" binding:"max=30"`
	Email      string     `json:"email" binding:"omitempty,email,max=200"`
	Interest   string     `json:"interest" binding:"max=255"`
	Notes      string     `json:"notes" binding:"max=2000"`
	AssignedTo *uuid.UUID `json:"assigned_to"`
}

// ChangeLeadStatusRequest moves a lead in the funnel
type ChangeLeadStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=new contacted qualified lost"`
}

// LeadResponse represents a lead in API responses
type LeadResponse struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Phone               string     `json:"phone"`
	Email               string     `json:"email"`
	Source              string     `json:"source"`
	Interest            string     `json:"interest"`
	Status              string     `json:"status"`
	AssignedTo          *uuid.UUID `json:"assigned_to,omitempty"`
	Notes               string     `json:"notes"`
	ConvertedCustomerID *uuid.UUID `json:"converted_customer_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Version             int        `json:"version"`
}

// ConvertLeadResponse returns the converted lead with its new customer
type ConvertLeadResponse struct {
	Lead     LeadResponse     `json:"lead"`
	Customer CustomerResponse `json:"customer"`
}

func toLeadResponse(l *crm.Lead) LeadResponse {
	return LeadResponse{
		ID:                  l.ID,
		Name:                l.Name,
		Phone:               l.Phone,
		Email:               l.Email,
		Source:              string(l.Source),
		Interest:            l.Interest,
		Status:              string(l.Status),
		AssignedTo:          l.AssignedTo,
		Notes:               l.Notes,
		ConvertedCustomerID: l.ConvertedCustomerID,
		CreatedAt:           l.CreatedAt,
		UpdatedAt:           l.UpdatedAt,
		Version:             l.Version,
	}
}

func joinNonEmpty(parts ...string) string {
	out := ""
	for _, p := range parts {
		if p == "" {
			continue
		}
		if out != "" {
			out += " "
		}
		out += p
	}
	return out
}
