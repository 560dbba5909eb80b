package crm

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const historyLimit = 50

// SaleFinder lists sales; satisfied by sales.SaleRepository
type SaleFinder interface {
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, int64, error)
}

// ServiceOrderFinder lists service orders; satisfied by repair.ServiceOrderRepository
type ServiceOrderFinder interface {
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]repair.ServiceOrder, int64, error)
}

// CustomerService handles customer operations
type CustomerService struct {
	customerRepo crm.CustomerRepository
	saleFinder   SaleFinder
	orderFinder  ServiceOrderFinder
	logger       *zap.Logger
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo crm.CustomerRepository, saleFinder SaleFinder, orderFinder ServiceOrderFinder, logger *zap.Logger) *CustomerService {
	return &CustomerService{
		customerRepo: customerRepo,
		saleFinder:   saleFinder,
		orderFinder:  orderFinder,
		logger:       logger,
	}
}

// Create creates a new customer
func (s *CustomerService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := crm.NewCustomer(tenantID, req.Name, crm.CustomerType(req.Type), req.Document, req.contact())
	if err != nil {
		return nil, err
	}
	customer.Notes = req.Notes
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if userID != uuid.Nil {
		customer.SetCreatedBy(userID)
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}

	s.logger.Info("Customer created", zap.String("customer_id", customer.ID.String()))
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

func (s *CustomerService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// List returns customers. Filters: type, is_active.
func (s *CustomerService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[CustomerResponse], error) {
	filter.Normalize()
	customers, total, err := s.customerRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CustomerResponse, len(customers))
	for i := range customers {
		items[i] = ToCustomerResponse(&customers[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update replaces the customer data. is_active is applied together with the data in one save.
func (s *CustomerService) Update(ctx context.Context, tenantID, id uuid.UUID, req CustomerRequest) (*CustomerResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := customer.Update(req.Name, crm.CustomerType(req.Type), req.Document, req.contact(), req.Notes); err != nil {
		return nil, err
	}
	if req.IsActive != nil {
		customer.IsActive = *req.IsActive
	}
	if err := s.customerRepo.Save(ctx, customer); err != nil {
		return nil, err
	}
	resp := ToCustomerResponse(customer)
	return &resp, nil
}

// Delete removes a customer that has no sales and no service orders
func (s *CustomerService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := s.customerRepo.FindByID(ctx, tenantID, id); err != nil {
		return err
	}
	_, salesCount, err := s.saleFinder.FindAll(ctx, tenantID, s.customerFilter(id, 1))
	if err != nil {
		return err
	}
	_, ordersCount, err := s.orderFinder.FindAll(ctx, tenantID, s.customerFilter(id, 1))
	if err != nil {
		return err
	}
	if salesCount > 0 || ordersCount > 0 {
		return shared.NewDomainError("CUSTOMER_IN_USE", "Customer has sales or service orders; deactivate it instead")
	}
	if err := s.customerRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Customer deleted", zap.String("customer_id", id.String()))
	return nil
}

// History returns the latest sales and service orders of a customer
func (s *CustomerService) History(ctx context.Context, tenantID, id uuid.UUID) (*CustomerHistoryResponse, error) {
	customer, err := s.customerRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	saleRows, salesCount, err := s.saleFinder.FindAll(ctx, tenantID, s.customerFilter(id, historyLimit))
	if err != nil {
		return nil, err
	}
	orderRows, ordersCount, err := s.orderFinder.FindAll(ctx, tenantID, s.customerFilter(id, historyLimit))
	if err != nil {
		return nil, err
	}

	resp := &CustomerHistoryResponse{
		Customer:     ToCustomerResponse(customer),
		Sales:        make([]SaleSummary, len(saleRows)),
		SalesCount:   salesCount,
		TotalSpent:   decimal.Zero,
		Repairs:      make([]RepairSummary, len(orderRows)),
		RepairsCount: ordersCount,
	}
	for i := range saleRows {
		resp.Sales[i] = toSaleSummary(&saleRows[i])
		if saleRows[i].Status != sales.SaleStatusCancelled {
			resp.TotalSpent = resp.TotalSpent.Add(saleRows[i].Total)
		}
	}
	for i := range orderRows {
		resp.Repairs[i] = toRepairSummary(&orderRows[i])
	}
	return resp, nil
}

func (s *CustomerService) customerFilter(customerID uuid.UUID, size int) shared.Filter {
	f := shared.DefaultFilter()
	f.PageSize = size
	f.Set("customer_id", customerID)
	return f
}
