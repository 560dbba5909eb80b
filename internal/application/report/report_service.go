package report

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/report"
	"github.com/repairpos/backend/internal/domain/shared"
)

const (
	defaultReportDays = 30
	maxReportDays     = 366
	defaultTopLimit   = 10
	maxTopLimit       = 100
)

// PeriodFilter selects the days of a report. Dates are inclusive; both default to the
// last 30 days.
type PeriodFilter struct {
	From     time.Time  `form:"from" time_format:"2006-01-02"`
	To       time.Time  `form:"to" time_format:"2006-01-02"`
	BranchID *uuid.UUID `form:"branch_id"`
}

// SalesReportFilter adds the grouping dimension
type SalesReportFilter struct {
	PeriodFilter
	GroupBy string `form:"group_by"`
}

// TopProductsFilter adds the size of the ranking
type TopProductsFilter struct {
	PeriodFilter
	Limit int `form:"limit"`
}

// SalesReportResponse is the grouped sales report
type SalesReportResponse struct {
	From    time.Time         `json:"from"`
	To      time.Time         `json:"to"`
	GroupBy string            `json:"group_by"`
	Rows    []report.SalesRow `json:"rows"`
}

// RepairReportResponse wraps the repair summary with its period
type RepairReportResponse struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	*report.RepairReport
}

// TopProductsResponse is the ranking of best sellers
type TopProductsResponse struct {
	From     time.Time           `json:"from"`
	To       time.Time           `json:"to"`
	Products []report.TopProduct `json:"products"`
}

// ReportService runs the period reports
type ReportService struct {
	queries report.Queries
	now     func() time.Time
}

// NewReportService creates a new ReportService
func NewReportService(queries report.Queries) *ReportService {
	return &ReportService{queries: queries, now: time.Now}
}

// resolve turns the inclusive day filter into a half-open range
func (s *ReportService) resolve(f PeriodFilter) (from, to time.Time, r report.Range, err error) {
	now := s.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	to = f.To
	if to.IsZero() {
		to = today
	}
	from = f.From
	if from.IsZero() {
		from = to.AddDate(0, 0, -(defaultReportDays - 1))
	}
	if to.Before(from) {
		return from, to, r, shared.NewDomainError("INVALID_PERIOD", "from must not be after to")
	}
	if to.Sub(from) > maxReportDays*24*time.Hour {
		return from, to, r, shared.NewDomainError("INVALID_PERIOD", "Reports cover at most 366 days")
	}
	return from, to, report.Range{From: from, To: to.AddDate(0, 0, 1)}, nil
}

// Sales groups completed sales by day, seller or branch
func (s *ReportService) Sales(ctx context.Context, tenantID uuid.UUID, f SalesReportFilter) (*SalesReportResponse, error) {
	groupBy := report.SalesGroupBy(f.GroupBy)
	if groupBy == "" {
		groupBy = report.GroupByDay
	}
	if !groupBy.IsValid() {
		return nil, shared.NewDomainError("INVALID_GROUP_BY", "group_by must be day, seller or branch")
	}
	from, to, r, err := s.resolve(f.PeriodFilter)
	if err != nil {
		return nil, err
	}
	rows, err := s.queries.SalesReport(ctx, tenantID, f.BranchID, r, groupBy)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []report.SalesRow{}
	}
	return &SalesReportResponse{From: from, To: to, GroupBy: string(groupBy), Rows: rows}, nil
}

// Repairs counts service orders opened in the period by status
func (s *ReportService) Repairs(ctx context.Context, tenantID uuid.UUID, f PeriodFilter) (*RepairReportResponse, error) {
	from, to, r, err := s.resolve(f)
	if err != nil {
		return nil, err
	}
	rep, err := s.queries.RepairReport(ctx, tenantID, f.BranchID, r)
	if err != nil {
		return nil, err
	}
	return &RepairReportResponse{From: from, To: to, RepairReport: rep}, nil
}

// TopProducts ranks products by sold amount
func (s *ReportService) TopProducts(ctx context.Context, tenantID uuid.UUID, f TopProductsFilter) (*TopProductsResponse, error) {
	limit := f.Limit
	if limit <= 0 {
		limit = defaultTopLimit
	}
	if limit > maxTopLimit {
		limit = maxTopLimit
	}
	from, to, r, err := s.resolve(f.PeriodFilter)
	if err != nil {
		return nil, err
	}
	products, err := s.queries.TopProducts(ctx, tenantID, f.BranchID, r, limit)
	if err != nil {
		return nil, err
	}
	if products == nil {
		products = []report.TopProduct{}
	}
	return &TopProductsResponse{From: from, To: to, Products: products}, nil
}
