package handler

import (
	"github.com/gin-gonic/gin"
	reportapp "github.com/repairpos/backend/internal/application/report"
)

// ReportHandler serves the dashboard and the period reports
type ReportHandler struct {
	BaseHandler
	dashboard *reportapp.DashboardService
	reports   *reportapp.ReportService
}

// NewReportHandler creates a ReportHandler
func NewReportHandler(dashboard *reportapp.DashboardService, reports *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{dashboard: dashboard, reports: reports}
}

// Dashboard godoc
// @ID           dashboardSummary
// @Summary      Dashboard summary
// @Description  Today's sales, open service orders per status, low stock and overdue accounts. Cached for a short time.
// @Tags         reports
// @Produce      json
// @Param        branch_id query string false "Branch" format(uuid)
// @Success      200 {object} APIResponse[report.DashboardSummary]
// @Security     BearerAuth
// @Router       /dashboard/summary [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	branchID, ok := h.queryUUID(c, "branch_id")
	if !ok {
		return
	}
	summary, err := h.dashboard.Summary(c.Request.Context(), tenantID, branchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}

// Sales godoc
// @ID           salesReport
// @Summary      Sales report
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        group_by query string false "day, month, seller, branch or payment_method"
// @Success      200 {object} APIResponse[reportapp.SalesReportResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /reports/sales [get]
func (h *ReportHandler) Sales(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f reportapp.SalesReportFilter
	if !h.bindQuery(c, &f) {
		return
	}
	out, err := h.reports.Sales(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// Repairs godoc
// @ID           repairReport
// @Summary      Repair report
// @Description  Orders opened and delivered, turnaround and revenue per technician
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Param        branch_id query string false "Branch" format(uuid)
// @Success      200 {object} APIResponse[reportapp.RepairReportResponse]
// @Security     BearerAuth
// @Router       /reports/repairs [get]
func (h *ReportHandler) Repairs(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f reportapp.PeriodFilter
	if !h.bindQuery(c, &f) {
		return
	}
	out, err := h.reports.Repairs(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}

// TopProducts godoc
// @ID           topProductsReport
// @Summary      Best selling products
// @Tags         reports
// @Produce      json
// @Param        from query string false "First day (YYYY-MM-DD)"
// @Param        to query string false "Last day (YYYY-MM-DD)"
// @Param        branch_id query string false "Branch" format(uuid)
// @Param        limit query int false "Ranking size" maximum(100)
// @Success      200 {object} APIResponse[reportapp.TopProductsResponse]
// @Security     BearerAuth
// @Router       /reports/top-products [get]
func (h *ReportHandler) TopProducts(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var f reportapp.TopProductsFilter
	if !h.bindQuery(c, &f) {
		return
	}
	out, err := h.reports.TopProducts(c.Request.Context(), tenantID, f)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, out)
}
