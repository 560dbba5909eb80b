package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/report"
	"github.com/repairpos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormReportQueries implements report.Queries with aggregate SQL over sales and service orders
type GormReportQueries struct {
	db *gorm.DB
}

// NewGormReportQueries creates a new GormReportQueries
func NewGormReportQueries(db *gorm.DB) *GormReportQueries {
	return &GormReportQueries{db: db}
}

func (q *GormReportQueries) isSQLite() bool {
	return q.db.Dialector.Name() == "sqlite"
}

func (q *GormReportQueries) dayExpr(column string) string {
	if q.isSQLite() {
		return "strftime('%Y-%m-%d', " + column + ")"
	}
	return "TO_CHAR(" + column + ", 'YYYY-MM-DD')"
}

func (q *GormReportQueries) hoursBetweenExpr(from, to string) string {
	if q.isSQLite() {
		return "(julianday(" + to + ") - julianday(" + from + ")) * 24"
	}
	return "EXTRACT(EPOCH FROM (" + to + " - " + from + ")) / 3600"
}

func (q *GormReportQueries) salesBase(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range) *gorm.DB {
	db := q.db.WithContext(ctx).Table("sales s").
		Where("s.tenant_id = ?", tenantID).
		Where("s.created_at >= ? AND s.created_at < ?", r.From, r.To).
		Where("s.status <> ?", sales.SaleStatusCancelled)
	if branchID != nil {
		db = db.Where("s.branch_id = ?", *branchID)
	}
	return db
}

// SalesTotals counts non-cancelled sales and sums their totals
func (q *GormReportQueries) SalesTotals(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range) (int64, decimal.Decimal, error) {
	var row struct {
		Count int64
		Total decimal.Decimal
	}
	err := q.salesBase(ctx, tenantID, branchID, r).
		Select("COUNT(*) AS count, COALESCE(SUM(s.total), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return 0, decimal.Zero, err
	}
	return row.Count, row.Total, nil
}

// SalesReport groups sales by day, seller or branch
func (q *GormReportQueries) SalesReport(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range, groupBy report.SalesGroupBy) ([]report.SalesRow, error) {
	var key string
	switch groupBy {
	case report.GroupBySeller:
		key = "CAST(s.seller_id AS TEXT)"
	case report.GroupByBranch:
		key = "CAST(s.branch_id AS TEXT)"
	default:
		key = q.dayExpr("s.created_at")
	}
	var rows []report.SalesRow
	err := q.salesBase(ctx, tenantID, branchID, r).
		Select(key + " AS key, COUNT(*) AS count, COALESCE(SUM(s.total), 0) AS total").
		Group(key).
		Order("key ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for i := range rows {
		if rows[i].Count > 0 {
			rows[i].Average = rows[i].Total.Div(decimal.NewFromInt(rows[i].Count)).Round(2)
		}
	}
	if rows == nil {
		rows = []report.SalesRow{}
	}
	return rows, nil
}

// RepairReport counts orders opened in the range by status and averages delivery turnaround
func (q *GormReportQueries) RepairReport(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range) (*report.RepairReport, error) {
	base := func() *gorm.DB {
		db := q.db.WithContext(ctx).Table("service_orders so").
			Where("so.tenant_id = ?", tenantID).
			Where("so.created_at >= ? AND so.created_at < ?", r.From, r.To)
		if branchID != nil {
			db = db.Where("so.branch_id = ?", *branchID)
		}
		return db
	}

	var byStatus []struct {
		Status string
		Count  int64
	}
	if err := base().Select("so.status AS status, COUNT(*) AS count").Group("so.status").Scan(&byStatus).Error; err != nil {
		return nil, err
	}

	var delivered struct {
		Count   int64
		AvgHrs  float64
		Revenue decimal.Decimal
	}
	err := base().
		Select("COUNT(*) AS count, COALESCE(AVG("+q.hoursBetweenExpr("so.created_at", "so.delivered_at")+"), 0) AS avg_hrs, COALESCE(SUM(so.final_cost), 0) AS revenue").
		Where("so.status = ? AND so.delivered_at IS NOT NULL", repair.StatusDelivered).
		Scan(&delivered).Error
	if err != nil {
		return nil, err
	}

	out := &report.RepairReport{
		ByStatus:             make(map[string]int64, len(byStatus)),
		Delivered:            delivered.Count,
		AverageTurnaroundHrs: delivered.AvgHrs,
		Revenue:              delivered.Revenue,
	}
	for _, row := range byStatus {
		out.ByStatus[row.Status] = row.Count
	}
	return out, nil
}

// TopProducts ranks products by sold quantity net of returns
func (q *GormReportQueries) TopProducts(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, r report.Range, limit int) ([]report.TopProduct, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	var rows []report.TopProduct
	err := q.salesBase(ctx, tenantID, branchID, r).
		Joins("JOIN sale_items si ON si.sale_id = s.id").
		Select(`si.product_id AS product_id,
			MAX(si.description) AS description,
			COALESCE(SUM(si.quantity - si.returned_quantity), 0) AS quantity,
			COALESCE(SUM(si.total), 0) AS total`).
		Group("si.product_id").
		Order("quantity DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.TopProduct{}
	}
	return rows, nil
}

var _ report.Queries = (*GormReportQueries)(nil)
