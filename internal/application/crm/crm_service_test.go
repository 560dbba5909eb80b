package crm

import (
	"context"
	"testing"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockCustomerRepository struct {
	mock.Mock
}

func (m *MockCustomerRepository) Create(ctx context.Context, c *crm.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) Save(ctx context.Context, c *crm.Customer) error {
	return m.Called(ctx, c).Error(0)
}

func (m *MockCustomerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Customer, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Customer), args.Error(1)
}

func (m *MockCustomerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Customer, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]crm.Customer), args.Get(1).(int64), args.Error(2)
}

func (m *MockCustomerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockLeadRepository struct {
	mock.Mock
}

func (m *MockLeadRepository) Create(ctx context.Context, l *crm.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadRepository) Save(ctx context.Context, l *crm.Lead) error {
	return m.Called(ctx, l).Error(0)
}

func (m *MockLeadRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*crm.Lead), args.Error(1)
}

func (m *MockLeadRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Lead, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]crm.Lead), args.Get(1).(int64), args.Error(2)
}

type stubSales struct {
	rows []sales.Sale
}

func (s stubSales) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]sales.Sale, int64, error) {
	return s.rows, int64(len(s.rows)), nil
}

type stubOrders struct {
	rows []repair.ServiceOrder
}

func (s stubOrders) FindAll(_ context.Context, _ uuid.UUID, _ shared.Filter) ([]repair.ServiceOrder, int64, error) {
	return s.rows, int64(len(s.rows)), nil
}

func TestCustomerService_Create(t *testing.T) {
	tenantID := uuid.New()
	repo := new(MockCustomerRepository)
	svc := NewCustomerService(repo, stubSales{}, stubOrders{}, zap.NewNop())
	repo.On("Create", mock.Anything, mock.AnythingOfType("*crm.Customer")).Return(nil)

	resp, err := svc.Create(context.Background(), tenantID, uuid.New(), CustomerRequest{
		Name:     "Maria Lima",
		Document: "987.654.321-00",
		WhatsApp: "+55 11 98888-7777",
		Notes:    "prefers whatsapp",
	})
	require.NoError(t, err)
	assert.Equal(t, "individual", resp.Type)
	assert.Equal(t, "98765432100", resp.Document)
	assert.Equal(t, "5511988887777", resp.WhatsApp)
	assert.Equal(t, "prefers whatsapp", resp.Notes)
	assert.True(t, resp.IsActive)
}

func TestCustomerService_History(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	customer, err := crm.NewCustomer(tenantID, "João", crm.CustomerTypeIndividual, "", crm.ContactInfo{Phone: "11 4444-5555"})
	require.NoError(t, err)

	repo := new(MockCustomerRepository)
	repo.On("FindByID", mock.Anything, tenantID, customer.ID).Return(customer, nil)
	saleRows := []sales.Sale{
		{Number: "VD-20260101-0001", Status: sales.SaleStatusCompleted, Total: decimal.NewFromInt(120)},
		{Number: "VD-20260102-0001", Status: sales.SaleStatusCancelled, Total: decimal.NewFromInt(80)},
	}
	orderRows := []repair.ServiceOrder{
		{Number: "OS-20260103-0001", DeviceType: "smartphone", Brand: "Apple", Model: "iPhone 12", Status: repair.StatusReady},
	}
	svc := NewCustomerService(repo, stubSales{rows: saleRows}, stubOrders{rows: orderRows}, zap.NewNop())

	resp, err := svc.History(ctx, tenantID, customer.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), resp.SalesCount)
	assert.True(t, decimal.NewFromInt(120).Equal(resp.TotalSpent))
	require.Len(t, resp.Repairs, 1)
	assert.Equal(t, "smartphone Apple iPhone 12", resp.Repairs[0].Device)

	err = svc.Delete(ctx, tenantID, customer.ID)
	assert.Equal(t, "CUSTOMER_IN_USE", shared.ErrorCode(err))
	repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
}

func TestCustomerService_DeleteWithoutActivity(t *testing.T) {
	tenantID := uuid.New()
	id := uuid.New()
	repo := new(MockCustomerRepository)
	repo.On("FindByID", mock.Anything, tenantID, id).Return(&crm.Customer{}, nil)
	repo.On("Delete", mock.Anything, tenantID, id).Return(nil)
	svc := NewCustomerService(repo, stubSales{}, stubOrders{}, zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), tenantID, id))
	repo.AssertExpectations(t)
}

func TestLeadService_Convert(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	lead, err := crm.NewLead(tenantID, "Paula", "11977776666", "", crm.LeadSourceWhatsApp, "screen repair")
	require.NoError(t, err)

	leads := new(MockLeadRepository)
	customers := new(MockCustomerRepository)
	leads.On("FindByID", mock.Anything, tenantID, lead.ID).Return(lead, nil)
	leads.On("Save", mock.Anything, lead).Return(nil)
	customers.On("Create", mock.Anything, mock.AnythingOfType("*crm.Customer")).Return(nil)

	svc := NewLeadService(leads, &appinv.NoOpTransactionScope{Leads: leads, Customers: customers}, zap.NewNop())
	resp, err := svc.Convert(ctx, tenantID, uuid.New(), lead.ID)
	require.NoError(t, err)
	assert.Equal(t, "converted", resp.Lead.Status)
	require.NotNil(t, resp.Lead.ConvertedCustomerID)
	assert.Equal(t, resp.Customer.ID, *resp.Lead.ConvertedCustomerID)
	assert.Equal(t, "Paula", resp.Customer.Name)

	_, err = svc.Convert(ctx, tenantID, uuid.New(), lead.ID)
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))
	customers.AssertNumberOfCalls(t, "Create", 1)
}

func TestLeadService_ChangeStatus(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	lead, err := crm.NewLead(tenantID, "Rafa", "", "rafa@mail.com", crm.LeadSourceWebsite, "")
	require.NoError(t, err)

	leads := new(MockLeadRepository)
	leads.On("FindByID", mock.Anything, tenantID, lead.ID).Return(lead, nil)
	leads.On("Save", mock.Anything, lead).Return(nil)
	svc := NewLeadService(leads, &appinv.NoOpTransactionScope{}, zap.NewNop())

	resp, err := svc.ChangeStatus(ctx, tenantID, lead.ID, ChangeLeadStatusRequest{Status: "contacted"})
	require.NoError(t, err)
	assert.Equal(t, "contacted", resp.Status)

	_, err = svc.ChangeStatus(ctx, tenantID, lead.ID, ChangeLeadStatusRequest{Status: "contacted"})
	require.NoError(t, err)
	leads.AssertNumberOfCalls(t, "Save", 1)
}
