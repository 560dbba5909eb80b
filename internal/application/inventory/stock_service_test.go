package inventory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stockFixture struct {
	tenantID uuid.UUID
	product  *catalog.Product
	stocks   *MockStockRepository
	products *MockProductRepository
	svc      *StockService
}

func newStockFixture(t *testing.T) *stockFixture {
	t.Helper()
	tenantID := uuid.New()
	product, err := catalog.NewProduct(tenantID, "BAT-IP11", "iPhone 11 battery", "un")
	require.NoError(t, err)

	stocks := new(MockStockRepository)
	products := new(MockProductRepository)
	products.On("FindByID", mock.Anything, tenantID, product.ID).Return(product, nil)

	scope := &NoOpTransactionScope{Stock: stocks}
	return &stockFixture{
		tenantID: tenantID,
		product:  product,
		stocks:   stocks,
		products: products,
		svc:      NewStockService(stocks, products, scope, zap.NewNop()),
	}
}

func (f *stockFixture) stock(branchID uuid.UUID, qty int64) *inventory.BranchStock {
	s := inventory.NewBranchStock(f.tenantID, branchID, f.product.ID, nil)
	s.Quantity = decimal.NewFromInt(qty)
	return s
}

func TestStockService_Adjust(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("absolute count writes an adjustment movement", func(t *testing.T) {
		f := newStockFixture(t)
		branchID := uuid.New()
		key := inventory.StockKey{BranchID: branchID, ProductID: f.product.ID}
		row := f.stock(branchID, 4)
		f.stocks.On("FindForUpdate", mock.Anything, f.tenantID, key).Return(row, nil)
		f.stocks.On("Save", mock.Anything, row).Return(nil)
		f.stocks.On("AddMovement", mock.Anything, mock.MatchedBy(func(m *inventory.StockMovement) bool {
			return m.Type == inventory.MovementTypeAdjustment && m.Quantity.Equal(decimal.NewFromInt(6))
		})).Return(nil)

		counted := decimal.NewFromInt(10)
		resp, err := f.svc.Adjust(ctx, f.tenantID, userID, AdjustStockRequest{
			BranchID:  branchID,
			ProductID: f.product.ID,
			Quantity:  &counted,
			Reason:    "cycle count",
		})
		require.NoError(t, err)
		assert.True(t, counted.Equal(resp.Quantity))
		f.stocks.AssertExpectations(t)
	})

	t.Run("negative delta beyond on-hand fails", func(t *testing.T) {
		f := newStockFixture(t)
		branchID := uuid.New()
		key := inventory.StockKey{BranchID: branchID, ProductID: f.product.ID}
		f.stocks.On("FindForUpdate", mock.Anything, f.tenantID, key).Return(f.stock(branchID, 2), nil)

		delta := decimal.NewFromInt(-3)
		_, err := f.svc.Adjust(ctx, f.tenantID, userID, AdjustStockRequest{
			BranchID:  branchID,
			ProductID: f.product.ID,
			Delta:     &delta,
			Reason:    "damaged",
		})
		assert.Equal(t, "INSUFFICIENT_STOCK", shared.ErrorCode(err))
		f.stocks.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("requires exactly one of quantity and delta", func(t *testing.T) {
		f := newStockFixture(t)
		_, err := f.svc.Adjust(ctx, f.tenantID, userID, AdjustStockRequest{
			BranchID:  uuid.New(),
			ProductID: f.product.ID,
			Reason:    "none",
		})
		assert.Equal(t, "INVALID_INPUT", shared.ErrorCode(err))
	})

	t.Run("service products hold no stock", func(t *testing.T) {
		f := newStockFixture(t)
		f.product.MarkAsService(true)
		delta := decimal.NewFromInt(1)
		_, err := f.svc.Adjust(ctx, f.tenantID, userID, AdjustStockRequest{
			BranchID:  uuid.New(),
			ProductID: f.product.ID,
			Delta:     &delta,
			Reason:    "receipt",
		})
		assert.Equal(t, "SERVICE_PRODUCT", shared.ErrorCode(err))
	})
}

func TestStockService_Transfer(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	fromBranch, toBranch := uuid.New(), uuid.New()
	from := f.stock(fromBranch, 5)
	to := f.stock(toBranch, 1)
	f.stocks.On("FindForUpdate", mock.Anything, f.tenantID, inventory.StockKey{BranchID: fromBranch, ProductID: f.product.ID}).Return(from, nil)
	f.stocks.On("FindForUpdate", mock.Anything, f.tenantID, inventory.StockKey{BranchID: toBranch, ProductID: f.product.ID}).Return(to, nil)
	f.stocks.On("Save", mock.Anything, mock.AnythingOfType("*inventory.BranchStock")).Return(nil)
	f.stocks.On("AddMovement", mock.Anything, mock.AnythingOfType("*inventory.StockMovement")).Return(nil)

	resp, err := f.svc.Transfer(ctx, f.tenantID, uuid.New(), TransferRequest{
		FromBranchID: fromBranch,
		ToBranchID:   toBranch,
		ProductID:    f.product.ID,
		Quantity:     decimal.NewFromInt(3),
		Reason:       "rebalance",
	})
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(2).Equal(resp.From.Quantity))
	assert.True(t, decimal.NewFromInt(4).Equal(resp.To.Quantity))
	assert.Equal(t, fromBranch, resp.From.BranchID)
	f.stocks.AssertNumberOfCalls(t, "AddMovement", 2)

	_, err = f.svc.Transfer(ctx, f.tenantID, uuid.New(), TransferRequest{
		FromBranchID: fromBranch,
		ToBranchID:   fromBranch,
		ProductID:    f.product.ID,
		Quantity:     decimal.NewFromInt(1),
	})
	assert.Equal(t, "INVALID_TRANSFER", shared.ErrorCode(err))
}

func TestStockService_Get(t *testing.T) {
	ctx := context.Background()
	f := newStockFixture(t)
	key := inventory.StockKey{BranchID: uuid.New(), ProductID: f.product.ID}
	f.stocks.On("Find", mock.Anything, f.tenantID, key).Return(nil, shared.ErrNotFound)

	resp, err := f.svc.Get(ctx, f.tenantID, key)
	require.NoError(t, err)
	assert.True(t, resp.Quantity.IsZero())
	assert.Equal(t, uuid.Nil, resp.ID)
}
