package report

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/report"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	fixedNow = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)
	tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")
)

type MockQueries struct {
	mock.Mock
}

func (m *MockQueries) SalesTotals(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range) (int64, decimal.Decimal, error) {
	args := m.Called(ctx, tenantID, branchID, r)
	return args.Get(0).(int64), args.Get(1).(decimal.Decimal), args.Error(2)
}

func (m *MockQueries) SalesReport(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range, groupBy report.SalesGroupBy) ([]report.SalesRow, error) {
	args := m.Called(ctx, tenantID, branchID, r, groupBy)
	rows, _ := args.Get(0).([]report.SalesRow)
	return rows, args.Error(1)
}

func (m *MockQueries) RepairReport(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range) (*report.RepairReport, error) {
	args := m.Called(ctx, tenantID, branchID, r)
	rep, _ := args.Get(0).(*report.RepairReport)
	return rep, args.Error(1)
}

func (m *MockQueries) TopProducts(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range, limit int) ([]report.TopProduct, error) {
	args := m.Called(ctx, tenantID, branchID, r, limit)
	rows, _ := args.Get(0).([]report.TopProduct)
	return rows, args.Error(1)
}

type stubOrders struct {
	repair.ServiceOrderRepository
	counts map[repair.Status]int64
}

func (s *stubOrders) CountByStatus(context.Context, uuid.UUID, *uuid.UUID) (map[repair.Status]int64, error) {
	return s.counts, nil
}

type stubStock struct {
	inventory.StockRepository
	low int64
}

func (s *stubStock) CountLowStock(context.Context, uuid.UUID, *uuid.UUID) (int64, error) {
	return s.low, nil
}

type stubReceivables struct {
	finance.ReceivableRepository
}

func (stubReceivables) SumOpen(context.Context, uuid.UUID, *uuid.UUID, time.Time) (decimal.Decimal, decimal.Decimal, error) {
	return decimal.NewFromInt(900), decimal.NewFromInt(150), nil
}

type stubPayables struct {
	finance.PayableRepository
	from, to time.Time
}

func (s *stubPayables) SumDueBetween(_ context.Context, _ uuid.UUID, _ *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	s.from, s.to = from, to
	return decimal.NewFromInt(400), nil
}

type stubCommissions struct {
	finance.CommissionRepository
}

func (stubCommissions) SumPending(context.Context, uuid.UUID) (decimal.Decimal, error) {
	return decimal.NewFromInt(75), nil
}

// jsonCache stores values as JSON like the real caches do
type jsonCache struct {
	data   map[string][]byte
	ttl    time.Duration
	getErr error
}

func (c *jsonCache) Get(_ context.Context, key string, dest interface{}) (bool, error) {
	if c.getErr != nil {
		return false, c.getErr
	}
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (c *jsonCache) Set(_ context.Context, key string, value interface{}, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.data[key] = raw
	c.ttl = ttl
	return nil
}

func newDashboard(q *MockQueries, cache SummaryCache, payables *stubPayables) *DashboardService {
	svc := NewDashboardService(DashboardServiceConfig{
		Queries: q,
		OrderRepo: &stubOrders{counts: map[repair.Status]int64{
			repair.StatusReceived:  3,
			repair.StatusReady:     2,
			repair.StatusDelivered: 40,
		}},
		StockRepo:      &stubStock{low: 5},
		ReceivableRepo: stubReceivables{},
		PayableRepo:    payables,
		CommissionRepo: stubCommissions{},
		Cache:          cache,
	})
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func TestDashboardService_Summary(t *testing.T) {
	ctx := context.Background()
	q := new(MockQueries)
	dayStart := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	q.On("SalesTotals", ctx, tenantID, (*uuid.UUID)(nil), report.Range{From: dayStart, To: fixedNow}).
		Return(int64(4), decimal.NewFromInt(820), nil).Once()
	q.On("SalesTotals", ctx, tenantID, (*uuid.UUID)(nil), report.Range{From: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), To: fixedNow}).
		Return(int64(31), decimal.NewFromInt(9100), nil).Once()

	cache := &jsonCache{data: map[string][]byte{}}
	payables := &stubPayables{}
	svc := newDashboard(q, cache, payables)

	summary, err := svc.Summary(ctx, tenantID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), summary.TodaySalesCount)
	assert.True(t, decimal.NewFromInt(9100).Equal(summary.MonthSalesTotal))
	assert.Equal(t, map[string]int64{"received": 3, "ready": 2}, summary.OpenOrdersByStatus)
	assert.Equal(t, int64(2), summary.OrdersReadyForPickup)
	assert.Equal(t, int64(5), summary.LowStockCount)
	assert.True(t, decimal.NewFromInt(150).Equal(summary.ReceivablesOverdue))
	assert.True(t, decimal.NewFromInt(400).Equal(summary.PayablesDueIn7Days))
	assert.True(t, decimal.NewFromInt(75).Equal(summary.CommissionsPending))
	assert.Equal(t, dayStart, payables.from)
	assert.Equal(t, fixedNow.AddDate(0, 0, 7), payables.to)

	assert.Equal(t, DefaultSummaryTTL, cache.ttl)
	assert.Contains(t, cache.data, "dashboard:"+tenantID.String()+":all")

	// served from the cache; the mock expectations were Once
	again, err := svc.Summary(ctx, tenantID, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(4), again.TodaySalesCount)
	q.AssertExpectations(t)
}

func TestDashboardService_CacheFailureFallsBack(t *testing.T) {
	ctx := context.Background()
	q := new(MockQueries)
	q.On("SalesTotals", ctx, tenantID, mock.Anything, mock.Anything).Return(int64(0), decimal.Zero, nil)
	branchID := uuid.New()
	cache := &jsonCache{data: map[string][]byte{}, getErr: errors.New("connection refused")}

	summary, err := newDashboard(q, cache, &stubPayables{}).Summary(ctx, tenantID, &branchID)
	require.NoError(t, err)
	assert.Equal(t, &branchID, summary.BranchID)
	q.AssertNumberOfCalls(t, "SalesTotals", 2)
}

func TestDashboardService_WithoutCache(t *testing.T) {
	ctx := context.Background()
	q := new(MockQueries)
	q.On("SalesTotals", ctx, tenantID, mock.Anything, mock.Anything).Return(int64(1), decimal.NewFromInt(10), nil)

	svc := newDashboard(q, nil, &stubPayables{})
	_, err := svc.Summary(ctx, tenantID, nil)
	require.NoError(t, err)
	_, err = svc.Summary(ctx, tenantID, nil)
	require.NoError(t, err)
	q.AssertNumberOfCalls(t, "SalesTotals", 4)
}

func TestReportService_Sales(t *testing.T) {
	ctx := context.Background()
	q := new(MockQueries)
	svc := NewReportService(q)
	svc.now = func() time.Time { return fixedNow }

	from := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)
	rows := []report.SalesRow{{Key: "2026-03-01", Count: 2, Total: decimal.NewFromInt(300), Average: decimal.NewFromInt(150)}}
	q.On("SalesReport", ctx, tenantID, (*uuid.UUID)(nil), report.Range{From: from, To: to.AddDate(0, 0, 1)}, report.GroupBySeller).
		Return(rows, nil)

	resp, err := svc.Sales(ctx, tenantID, SalesReportFilter{PeriodFilter: PeriodFilter{From: from, To: to}, GroupBy: "seller"})
	require.NoError(t, err)
	assert.Equal(t, "seller", resp.GroupBy)
	assert.Equal(t, rows, resp.Rows)

	_, err = svc.Sales(ctx, tenantID, SalesReportFilter{GroupBy: "month"})
	assert.Equal(t, "INVALID_GROUP_BY", shared.ErrorCode(err))

	_, err = svc.Sales(ctx, tenantID, SalesReportFilter{PeriodFilter: PeriodFilter{From: to, To: from}})
	assert.Equal(t, "INVALID_PERIOD", shared.ErrorCode(err))

	_, err = svc.Sales(ctx, tenantID, SalesReportFilter{PeriodFilter: PeriodFilter{From: from.AddDate(-2, 0, 0), To: to}})
	assert.Equal(t, "INVALID_PERIOD", shared.ErrorCode(err))
}

func TestReportService_DefaultsAndLimits(t *testing.T) {
	ctx := context.Background()
	q := new(MockQueries)
	svc := NewReportService(q)
	svc.now = func() time.Time { return fixedNow }

	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	last30 := report.Range{From: today.AddDate(0, 0, -29), To: today.AddDate(0, 0, 1)}
	q.On("TopProducts", ctx, tenantID, (*uuid.UUID)(nil), last30, 100).Return(nil, nil)
	q.On("RepairReport", ctx, tenantID, (*uuid.UUID)(nil), last30).
		Return(&report.RepairReport{ByStatus: map[string]int64{"delivered": 4}, Delivered: 4, AverageTurnaroundHrs: 30.5}, nil)

	top, err := svc.TopProducts(ctx, tenantID, TopProductsFilter{Limit: 500})
	require.NoError(t, err)
	assert.NotNil(t, top.Products)
	assert.Empty(t, top.Products)

	rep, err := svc.Repairs(ctx, tenantID, PeriodFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(4), rep.Delivered)
	assert.Equal(t, today.AddDate(0, 0, -29), rep.From)
	q.AssertExpectations(t)
}
