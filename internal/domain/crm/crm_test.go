package crm

import (
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func TestNewCustomer(t *testing.T) {
	c, err := NewCustomer(tenantID, " Ana Souza ", "", "123.456.789-09", ContactInfo{
		Email:    "Ana@Mail.com",
		Phone:    "11 3333-4444",
		WhatsApp: "+55 (11) 99999-8888",
	})
	require.NoError(t, err)
	assert.Equal(t, "Ana Souza", c.Name)
	assert.Equal(t, CustomerTypeIndividual, c.Type)
	assert.Equal(t, "12345678909", c.Document)
	assert.Equal(t, "ana@mail.com", c.Email)
	assert.Equal(t, "5511999998888", c.NotificationNumber())
	assert.True(t, c.IsActive)

	_, err = NewCustomer(tenantID, "Ana", "robot", "", ContactInfo{})
	assert.Equal(t, "INVALID_CUSTOMER_TYPE", shared.ErrorCode(err))
	_, err = NewCustomer(tenantID, "Ana", CustomerTypeCompany, "", ContactInfo{Email: "bad"})
	assert.Equal(t, "INVALID_EMAIL", shared.ErrorCode(err))
}

func TestCustomer_NotificationNumberFallsBackToPhone(t *testing.T) {
	c, err := NewCustomer(tenantID, "Bob", CustomerTypeIndividual, "", ContactInfo{Phone: "1133334444"})
	require.NoError(t, err)
	assert.Equal(t, "1133334444", c.NotificationNumber())
}

func TestLead_Funnel(t *testing.T) {
	l, err := NewLead(tenantID, "Carlos", "11999990000", "", LeadSourceInstagram, "iPhone 14 battery")
	require.NoError(t, err)
	assert.Equal(t, LeadStatusNew, l.Status)

	require.NoError(t, l.ChangeStatus(LeadStatusContacted))
	require.NoError(t, l.ChangeStatus(LeadStatusQualified))
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(l.ChangeStatus(LeadStatusConverted)))
	assert.Equal(t, "INVALID_STATUS", shared.ErrorCode(l.ChangeStatus("hot")))

	c, err := l.ToCustomer()
	require.NoError(t, err)
	assert.Equal(t, "Carlos", c.Name)
	assert.Equal(t, "11999990000", c.WhatsApp)

	require.NoError(t, l.MarkConverted(c.ID))
	assert.Equal(t, LeadStatusConverted, l.Status)
	assert.Equal(t, &c.ID, l.ConvertedCustomerID)

	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(l.ChangeStatus(LeadStatusLost)))
	_, err = l.ToCustomer()
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(l.Update("C", "", "", "", "", nil)))
}

func TestNewLead_Validation(t *testing.T) {
	_, err := NewLead(tenantID, "X", "", "", LeadSourceWalkIn, "")
	assert.Equal(t, "CONTACT_REQUIRED", shared.ErrorCode(err))
	_, err = NewLead(tenantID, "X", "1", "", "billboard", "")
	assert.Equal(t, "INVALID_SOURCE", shared.ErrorCode(err))
	l, err := NewLead(tenantID, "X", "1", "", "", "")
	require.NoError(t, err)
	assert.Equal(t, LeadSourceOther, l.Source)
}
