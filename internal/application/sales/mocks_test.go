package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) Create(ctx context.Context, s *sales.Sale) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSaleRepository) Save(ctx context.Context, s *sales.Sale) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSaleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByIDForUpdate(ctx context.Context, tenantID, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.Sale, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.Sale), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.String(0), args.Error(1)
}

type MockSaleReturnRepository struct {
	mock.Mock
}

func (m *MockSaleReturnRepository) Create(ctx context.Context, r *sales.SaleReturn) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockSaleReturnRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*sales.SaleReturn, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SaleReturn), args.Error(1)
}

func (m *MockSaleReturnRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]sales.SaleReturn, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]sales.SaleReturn), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleReturnRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.String(0), args.Error(1)
}

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Create(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) Save(ctx context.Context, p *catalog.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockProductRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]catalog.Product, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]catalog.Product, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]catalog.Product), args.Get(1).(int64), args.Error(2)
}

func (m *MockProductRepository) ExistsBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (bool, error) {
	args := m.Called(ctx, tenantID, sku)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

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

type MockPricingRuleRepository struct {
	mock.Mock
}

func (m *MockPricingRuleRepository) Create(ctx context.Context, r *finance.PricingRule) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockPricingRuleRepository) Save(ctx context.Context, r *finance.PricingRule) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockPricingRuleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.PricingRule, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.PricingRule, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.PricingRule), args.Get(1).(int64), args.Error(2)
}

func (m *MockPricingRuleRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]finance.PricingRule, error) {
	args := m.Called(ctx, tenantID)
	return args.Get(0).([]finance.PricingRule), args.Error(1)
}

func (m *MockPricingRuleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockReceivableRepository struct {
	mock.Mock
}

func (m *MockReceivableRepository) Create(ctx context.Context, r *finance.AccountReceivable) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReceivableRepository) Save(ctx context.Context, r *finance.AccountReceivable) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockReceivableRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source finance.ReceivableSource, sourceID uuid.UUID) (*finance.AccountReceivable, error) {
	args := m.Called(ctx, tenantID, source, sourceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*finance.AccountReceivable), args.Error(1)
}

func (m *MockReceivableRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountReceivable, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]finance.AccountReceivable), args.Get(1).(int64), args.Error(2)
}

func (m *MockReceivableRepository) SumOpen(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, now time.Time) (decimal.Decimal, decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, branchID, now)
	return args.Get(0).(decimal.Decimal), args.Get(1).(decimal.Decimal), args.Error(2)
}

// memoryStock is a StockRepository backed by a map, enough to follow quantities through a flow
type memoryStock struct {
	rows      map[string]*inventory.BranchStock
	movements []*inventory.StockMovement
}

func newMemoryStock() *memoryStock {
	return &memoryStock{rows: make(map[string]*inventory.BranchStock)}
}

func stockMapKey(key inventory.StockKey) string {
	k := key.BranchID.String() + "/" + key.ProductID.String()
	if key.VariationID != nil {
		k += "/" + key.VariationID.String()
	}
	return k
}

func (s *memoryStock) put(tenantID uuid.UUID, key inventory.StockKey, qty int64) {
	row := inventory.NewBranchStock(tenantID, key.BranchID, key.ProductID, key.VariationID)
	row.Quantity = decimal.NewFromInt(qty)
	s.rows[stockMapKey(key)] = row
}

func (s *memoryStock) quantity(key inventory.StockKey) decimal.Decimal {
	if row, ok := s.rows[stockMapKey(key)]; ok {
		return row.Quantity
	}
	return decimal.Zero
}

func (s *memoryStock) FindForUpdate(_ context.Context, tenantID uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
	row, ok := s.rows[stockMapKey(key)]
	if !ok {
		row = inventory.NewBranchStock(tenantID, key.BranchID, key.ProductID, key.VariationID)
		s.rows[stockMapKey(key)] = row
	}
	copied := *row
	return &copied, nil
}

func (s *memoryStock) Find(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
	row, ok := s.rows[stockMapKey(key)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return row, nil
}

func (s *memoryStock) FindAll(context.Context, uuid.UUID, shared.Filter) ([]inventory.BranchStock, int64, error) {
	return nil, 0, nil
}

func (s *memoryStock) Save(_ context.Context, row *inventory.BranchStock) error {
	key := inventory.StockKey{BranchID: row.BranchID, ProductID: row.ProductID, VariationID: row.VariationID}
	copied := *row
	s.rows[stockMapKey(key)] = &copied
	return nil
}

func (s *memoryStock) AddMovement(_ context.Context, m *inventory.StockMovement) error {
	s.movements = append(s.movements, m)
	return nil
}

func (s *memoryStock) FindMovements(context.Context, uuid.UUID, shared.Filter) ([]inventory.StockMovement, int64, error) {
	return nil, 0, nil
}

func (s *memoryStock) CountLowStock(context.Context, uuid.UUID, *uuid.UUID) (int64, error) {
	return 0, nil
}

// recordingPublisher keeps every published event
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, len(p.events))
	for i, e := range p.events {
		out[i] = e.EventType()
	}
	return out
}
