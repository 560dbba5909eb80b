package crm

import (
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// CustomerType distinguishes people from companies
type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "individual"
	CustomerTypeCompany    CustomerType = "company"
)

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// Customer is a person or company that buys or brings devices for repair
type Customer struct {
	shared.TenantAggregateRoot
	Name     string       `gorm:"type:varchar(200);not null"`
	Document string       `gorm:"type:varchar(30);index"`
	Email    string       `gorm:"type:varchar(200)"`
	Phone    string       `gorm:"type:varchar(30)"`
	WhatsApp string       `gorm:"column:whatsapp;type:varchar(30)"`
	Address  string       `gorm:"type:varchar(255)"`
	Type     CustomerType `gorm:"type:varchar(20);not null"`
	Notes    string       `gorm:"type:text"`
	IsActive bool         `gorm:"not null"`
}

func (Customer) TableName() string {
	return "customers"
}

// ContactInfo groups the reachable channels of a customer
type ContactInfo struct {
	Email    string
	Phone    string
	WhatsApp string
	Address  string
}

// NewCustomer creates an active customer
func NewCustomer(tenantID uuid.UUID, name string, customerType CustomerType, document string, contact ContactInfo) (*Customer, error) {
	c := &Customer{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		IsActive:            true,
	}
	if err := c.apply(name, customerType, document, contact, ""); err != nil {
		return nil, err
	}
	return c, nil
}

// Update replaces the customer data
func (c *Customer) Update(name string, customerType CustomerType, document string, contact ContactInfo, notes string) error {
	if err := c.apply(name, customerType, document, contact, notes); err != nil {
		return err
	}
	c.IncrementVersion()
	return nil
}

// SetActive toggles the customer
func (c *Customer) SetActive(active bool) {
	c.IsActive = active
	c.IncrementVersion()
}

// NotificationNumber returns the WhatsApp number, falling back to the phone
func (c *Customer) NotificationNumber() string {
	if c.WhatsApp != "" {
		return c.WhatsApp
	}
	return c.Phone
}

func (c *Customer) apply(name string, customerType CustomerType, document string, contact ContactInfo, notes string) error {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name must have 1 to 200 characters")
	}
	if customerType == "" {
		customerType = CustomerTypeIndividual
	}
	if customerType != CustomerTypeIndividual && customerType != CustomerTypeCompany {
		return shared.NewDomainError("INVALID_CUSTOMER_TYPE", "Customer type must be individual or company")
	}
	email := strings.ToLower(strings.TrimSpace(contact.Email))
	if email != "" && !emailPattern.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	c.Name = name
	c.Type = customerType
	c.Document = onlyDigits(document)
	c.Email = email
	c.Phone = strings.TrimSpace(contact.Phone)
	c.WhatsApp = onlyDigits(contact.WhatsApp)
	c.Address = strings.TrimSpace(contact.Address)
	c.Notes = notes
	return nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
