package repair

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockServiceOrderRepository struct {
	mock.Mock
}

func (m *MockServiceOrderRepository) Create(ctx context.Context, o *repair.ServiceOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockServiceOrderRepository) Save(ctx context.Context, o *repair.ServiceOrder) error {
	return m.Called(ctx, o).Error(0)
}

func (m *MockServiceOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*repair.ServiceOrder, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*repair.ServiceOrder), args.Error(1)
}

func (m *MockServiceOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]repair.ServiceOrder, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]repair.ServiceOrder), args.Get(1).(int64), args.Error(2)
}

func (m *MockServiceOrderRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	args := m.Called(ctx, tenantID, prefix)
	return args.String(0), args.Error(1)
}

func (m *MockServiceOrderRepository) AddHistory(ctx context.Context, h *repair.StatusHistory) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockServiceOrderRepository) FindHistory(ctx context.Context, tenantID, orderID uuid.UUID) ([]repair.StatusHistory, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]repair.StatusHistory), args.Error(1)
}

func (m *MockServiceOrderRepository) AddPart(ctx context.Context, p *repair.ServiceOrderPart) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockServiceOrderRepository) AddPhoto(ctx context.Context, p *repair.Photo) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockServiceOrderRepository) FindPhotos(ctx context.Context, tenantID, orderID uuid.UUID) ([]repair.Photo, error) {
	args := m.Called(ctx, tenantID, orderID)
	return args.Get(0).([]repair.Photo), args.Error(1)
}

func (m *MockServiceOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (map[repair.Status]int64, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.Get(0).(map[repair.Status]int64), args.Error(1)
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

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

// memoryStorage keeps uploaded objects in a map
type memoryStorage struct {
	objects map[string][]byte
	deleted []string
}

func newMemoryStorage() *memoryStorage {
	return &memoryStorage{objects: make(map[string][]byte)}
}

func (s *memoryStorage) Upload(_ context.Context, key string, data []byte, _ string) error {
	s.objects[key] = data
	return nil
}

func (s *memoryStorage) GenerateDownloadURL(_ context.Context, key string, expiresIn time.Duration) (string, time.Time, error) {
	return "https://photos.test/" + key, time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC).Add(expiresIn), nil
}

func (s *memoryStorage) DeleteObject(_ context.Context, key string) error {
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

// memoryStock is a StockRepository backed by a map
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

func (s *memoryStock) Find(_ context.Context, _ uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
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

type mockBranchRepository struct {
	mock.Mock
}

func (m *mockBranchRepository) Create(ctx context.Context, b *identity.Branch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBranchRepository) Save(ctx context.Context, b *identity.Branch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *mockBranchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Branch), args.Error(1)
}

func (m *mockBranchRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Branch, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Branch), args.Get(1).(int64), args.Error(2)
}

func (m *mockBranchRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *mockBranchRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}
