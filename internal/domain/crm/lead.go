package crm

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// LeadSource is where the lead came from
type LeadSource string

const (
	LeadSourceWalkIn      LeadSource = "walk_in"
	LeadSourceWhatsApp    LeadSource = "whatsapp"
	LeadSourceInstagram   LeadSource = "instagram"
	LeadSourceMarketplace LeadSource = "marketplace"
	LeadSourceReferral    LeadSource = "referral"
	LeadSourceWebsite     LeadSource = "website"
	LeadSourceOther       LeadSource = "other"
)

func (s LeadSource) IsValid() bool {
	switch s {
	case LeadSourceWalkIn, LeadSourceWhatsApp, LeadSourceInstagram, LeadSourceMarketplace,
		LeadSourceReferral, LeadSourceWebsite, LeadSourceOther:
		return true
	}
	return false
}

// LeadStatus is the funnel stage
type LeadStatus string

const (
	LeadStatusNew       LeadStatus = "new"
	LeadStatusContacted LeadStatus = "contacted"
	LeadStatusQualified LeadStatus = "qualified"
	LeadStatusConverted LeadStatus = "converted"
	LeadStatusLost      LeadStatus = "lost"
)

func (s LeadStatus) IsValid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost:
		return true
	}
	return false
}

// IsTerminal reports whether the lead left the funnel
func (s LeadStatus) IsTerminal() bool {
	return s == LeadStatusConverted || s == LeadStatusLost
}

// Lead is a prospect that has not bought yet
type Lead struct {
	shared.TenantAggregateRoot
	Name                string     `gorm:"type:varchar(200);not null"`
	Phone               string     `gorm:"type:varchar(30)"`
	Email               string     `gorm:"type:varchar(200)"`
	Source              LeadSource `gorm:"type:varchar(20);not null"`
	Interest            string     `gorm:"type:varchar(255)"`
	Status              LeadStatus `gorm:"type:varchar(20);not null;index"`
	AssignedTo          *uuid.UUID `gorm:"type:uuid;index"`
	Notes               string     `gorm:"type:text"`
	ConvertedCustomerID *uuid.UUID `gorm:"type:uuid"`
}

func (Lead) TableName() string {
	return "leads"
}

// NewLead creates a lead in the "new" stage
func NewLead(tenantID uuid.UUID, name, phone, email string, source LeadSource, interest string) (*Lead, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return nil, shared.NewDomainError("INVALID_NAME", "Lead name must have 1 to 200 characters")
	}
	if source == "" {
		source = LeadSourceOther
	}
	if !source.IsValid() {
		return nil, shared.NewDomainError("INVALID_SOURCE", "Unknown lead source: "+string(source))
	}
	if strings.TrimSpace(phone) == "" && strings.TrimSpace(email) == "" {
		return nil, shared.NewDomainError("CONTACT_REQUIRED", "Lead needs a phone or an email")
	}
	return &Lead{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Name:                name,
		Phone:               strings.TrimSpace(phone),
		Email:               strings.ToLower(strings.TrimSpace(email)),
		Source:              source,
		Interest:            interest,
		Status:              LeadStatusNew,
	}, nil
}

// Update changes the editable fields of an open lead
func (l *Lead) Update(name, phone, email, interest, notes string, assignedTo *uuid.UUID) error {
	if l.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Closed leads cannot be edited")
	}
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Lead name must have 1 to 200 characters")
	}
	l.Name = name
	l.Phone = strings.TrimSpace(phone)
	l.Email = strings.ToLower(strings.TrimSpace(email))
	l.Interest = interest
	l.Notes = notes
	l.AssignedTo = assignedTo
	l.IncrementVersion()
	return nil
}

// ChangeStatus moves the lead within the funnel. Converted is only reachable through Convert.
func (l *Lead) ChangeStatus(status LeadStatus) error {
	if !status.IsValid() {
		return shared.NewDomainError("INVALID_STATUS", "Unknown lead status: "+string(status))
	}
	if l.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Lead is already "+string(l.Status))
	}
	if status == LeadStatusConverted {
		return shared.NewDomainError("INVALID_STATE", "Use the convert operation to convert a lead")
	}
	if status == l.Status {
		return nil
	}
	l.Status = status
	l.IncrementVersion()
	return nil
}

// ToCustomer builds the customer a conversion creates
func (l *Lead) ToCustomer() (*Customer, error) {
	if l.Status.IsTerminal() {
		return nil, shared.NewDomainError("INVALID_STATE", "Lead is already "+string(l.Status))
	}
	c, err := NewCustomer(l.TenantID, l.Name, CustomerTypeIndividual, "", ContactInfo{
		Email:    l.Email,
		Phone:    l.Phone,
		WhatsApp: l.Phone,
	})
	if err != nil {
		return nil, err
	}
	c.Notes = l.Notes
	return c, nil
}

// MarkConverted links the lead to the customer created from it
func (l *Lead) MarkConverted(customerID uuid.UUID) error {
	if l.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Lead is already "+string(l.Status))
	}
	l.Status = LeadStatusConverted
	l.ConvertedCustomerID = &customerID
	l.IncrementVersion()
	return nil
}
