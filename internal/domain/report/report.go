// Package report holds the read models of the dashboard and reports.
package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardSummary is the landing page of the back office
type DashboardSummary struct {
	GeneratedAt          time.Time        `json:"generated_at"`
	BranchID             *uuid.UUID       `json:"branch_id,omitempty"`
	TodaySalesCount      int64            `json:"today_sales_count"`
	TodaySalesTotal      decimal.Decimal  `json:"today_sales_total"`
	MonthSalesTotal      decimal.Decimal  `json:"month_sales_total"`
	OpenOrdersByStatus   map[string]int64 `json:"open_orders_by_status"`
	OrdersReadyForPickup int64            `json:"orders_ready_for_pickup"`
	LowStockCount        int64            `json:"low_stock_count"`
	ReceivablesPending   decimal.Decimal  `json:"receivables_pending"`
	ReceivablesOverdue   decimal.Decimal  `json:"receivables_overdue"`
	PayablesDueIn7Days   decimal.Decimal  `json:"payables_due_in_7_days"`
	CommissionsPending   decimal.Decimal  `json:"commissions_pending"`
}

// SalesGroupBy is the dimension of the sales report
type SalesGroupBy string

const (
	GroupByDay    SalesGroupBy = "day"
	GroupBySeller SalesGroupBy = "seller"
	GroupByBranch SalesGroupBy = "branch"
)

func (g SalesGroupBy) IsValid() bool {
	return g == GroupByDay || g == GroupBySeller || g == GroupByBranch
}

// SalesRow is one group of the sales report
type SalesRow struct {
	Key     string          `json:"key"`
	Count   int64           `json:"count"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}

// RepairReport summarizes service orders opened in a period
type RepairReport struct {
	ByStatus             map[string]int64 `json:"by_status"`
	Delivered            int64            `json:"delivered"`
	AverageTurnaroundHrs float64          `json:"average_turnaround_hours"`
	Revenue              decimal.Decimal  `json:"revenue"`
}

// TopProduct is a best seller of a period
type TopProduct struct {
	ProductID   uuid.UUID       `json:"product_id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	Total       decimal.Decimal `json:"total"`
}

// Range is a half-open [From, To) period
type Range struct {
	From time.Time
	To   time.Time
}

// Queries are the aggregate reads behind reports
type Queries interface {
	SalesTotals(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r Range) (count int64, total decimal.Decimal, err error)
	SalesReport(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r Range, groupBy SalesGroupBy) ([]SalesRow, error)
	RepairReport(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r Range) (*RepairReport, error)
	TopProducts(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r Range, limit int) ([]TopProduct, error)
}
