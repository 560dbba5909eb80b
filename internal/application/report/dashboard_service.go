// Package report serves the dashboard summary and the sales, repair and product reports
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/report"
	"go.uber.org/zap"
)

// DefaultSummaryTTL is how long a dashboard summary is served from the cache
const DefaultSummaryTTL = 60 * time.Second

// SummaryCache stores computed summaries; implemented by the redis and memory caches
type SummaryCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
}

// DashboardServiceConfig wires the DashboardService
type DashboardServiceConfig struct {
	Queries        report.Queries
	OrderRepo      repair.ServiceOrderRepository
	StockRepo      inventory.StockRepository
	ReceivableRepo finance.ReceivableRepository
	PayableRepo    finance.PayableRepository
	CommissionRepo finance.CommissionRepository
	// Cache is optional; without it every call is computed
	Cache    SummaryCache
	CacheTTL time.Duration
	Logger   *zap.Logger
}

// DashboardService computes the back-office landing summary
type DashboardService struct {
	queries        report.Queries
	orderRepo      repair.ServiceOrderRepository
	stockRepo      inventory.StockRepository
	receivableRepo finance.ReceivableRepository
	payableRepo    finance.PayableRepository
	commissionRepo finance.CommissionRepository
	cache          SummaryCache
	ttl            time.Duration
	logger         *zap.Logger
	now            func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(cfg DashboardServiceConfig) *DashboardService {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = DefaultSummaryTTL
	}
	return &DashboardService{
		queries:        cfg.Queries,
		orderRepo:      cfg.OrderRepo,
		stockRepo:      cfg.StockRepo,
		receivableRepo: cfg.ReceivableRepo,
		payableRepo:    cfg.PayableRepo,
		commissionRepo: cfg.CommissionRepo,
		cache:          cfg.Cache,
		ttl:            ttl,
		logger:         logger,
		now:            time.Now,
	}
}

func summaryKey(tenantID uuid.UUID, branchID *uuid.UUID) string {
	branch := "all"
	if branchID != nil {
		branch = branchID.String()
	}
	return fmt.Sprintf("dashboard:%s:%s", tenantID, branch)
}

// Summary returns the summary of one branch, or of the whole tenant when branchID is nil.
// Cache failures are logged and the summary is computed.
func (s *DashboardService) Summary(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (*report.DashboardSummary, error) {
	key := summaryKey(tenantID, branchID)
	if s.cache != nil {
		var cached report.DashboardSummary
		hit, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.logger.Warn("Dashboard cache read failed", zap.String("key", key), zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	summary, err := s.compute(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, summary, s.ttl); err != nil {
			s.logger.Warn("Dashboard cache write failed", zap.String("key", key), zap.Error(err))
		}
	}
	return summary, nil
}

func (s *DashboardService) compute(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (*report.DashboardSummary, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary := &report.DashboardSummary{
		GeneratedAt:        now,
		BranchID:           branchID,
		OpenOrdersByStatus: map[string]int64{},
	}
	var err error
	summary.TodaySalesCount, summary.TodaySalesTotal, err = s.queries.SalesTotals(ctx, tenantID, branchID, report.Range{From: dayStart, To: now})
	if err != nil {
		return nil, fmt.Errorf("today sales: %w", err)
	}
	if _, summary.MonthSalesTotal, err = s.queries.SalesTotals(ctx, tenantID, branchID, report.Range{From: monthStart, To: now}); err != nil {
		return nil, fmt.Errorf("month sales: %w", err)
	}

	counts, err := s.orderRepo.CountByStatus(ctx, tenantID, branchID)
	if err != nil {
		return nil, fmt.Errorf("service orders: %w", err)
	}
	for status, n := range counts {
		if status.IsOpen() {
			summary.OpenOrdersByStatus[string(status)] = n
		}
	}
	summary.OrdersReadyForPickup = counts[repair.StatusReady]

	if summary.LowStockCount, err = s.stockRepo.CountLowStock(ctx, tenantID, branchID); err != nil {
		return nil, fmt.Errorf("low stock: %w", err)
	}
	if summary.ReceivablesPending, summary.ReceivablesOverdue, err = s.receivableRepo.SumOpen(ctx, tenantID, branchID, now); err != nil {
		return nil, fmt.Errorf("receivables: %w", err)
	}
	if summary.PayablesDueIn7Days, err = s.payableRepo.SumDueBetween(ctx, tenantID, branchID, dayStart, now.AddDate(0, 0, 7)); err != nil {
		return nil, fmt.Errorf("payables: %w", err)
	}
	if summary.CommissionsPending, err = s.commissionRepo.SumPending(ctx, tenantID); err != nil {
		return nil, fmt.Errorf("commissions: %w", err)
	}
	return summary, nil
}
