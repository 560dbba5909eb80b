package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockStockRepository struct {
	mock.Mock
}

func (m *MockStockRepository) FindForUpdate(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BranchStock), args.Error(1)
}

func (m *MockStockRepository) Find(ctx context.Context, tenantID uuid.UUID, key inventory.StockKey) (*inventory.BranchStock, error) {
	args := m.Called(ctx, tenantID, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.BranchStock), args.Error(1)
}

func (m *MockStockRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.BranchStock, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.BranchStock), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) Save(ctx context.Context, s *inventory.BranchStock) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockStockRepository) AddMovement(ctx context.Context, mv *inventory.StockMovement) error {
	return m.Called(ctx, mv).Error(0)
}

func (m *MockStockRepository) FindMovements(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]inventory.StockMovement), args.Get(1).(int64), args.Error(2)
}

func (m *MockStockRepository) CountLowStock(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, branchID)
	return args.Get(0).(int64), args.Error(1)
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
