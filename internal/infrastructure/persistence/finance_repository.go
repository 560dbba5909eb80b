package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	receivableListSpec = listSpec{
		searchColumns: []string{"description"},
		sortFields:    sortFields("due_date", "amount", "status", "created_at"),
		defaultSort:   "due_date",
		filters: map[string]string{
			"status":      "status = ?",
			"customer_id": "customer_id = ?",
			"source":      "source = ?",
			"branch_id":   "branch_id = ?",
			"due_from":    "due_date >= ?",
			"due_to":      "due_date <= ?",
		},
	}
	payableListSpec = listSpec{
		searchColumns: []string{"supplier_name", "description"},
		sortFields:    sortFields("due_date", "amount", "status", "supplier_name", "created_at"),
		defaultSort:   "due_date",
		filters: map[string]string{
			"status":    "status = ?",
			"category":  "category = ?",
			"branch_id": "branch_id = ?",
			"due_from":  "due_date >= ?",
			"due_to":    "due_date <= ?",
		},
	}
	ruleListSpec = listSpec{
		searchColumns: []string{"name"},
		sortFields:    sortFields("name", "priority", "created_at"),
		defaultSort:   "priority",
		filters: map[string]string{
			"is_active":      "is_active = ?",
			"condition_type": "condition_type = ?",
		},
	}
	commissionListSpec = listSpec{
		sortFields: sortFields("amount", "status", "created_at"),
		filters: map[string]string{
			"user_id":     "user_id = ?",
			"status":      "status = ?",
			"source_type": "source_type = ?",
			"from":        "created_at >= ?",
			"to":          "created_at < ?",
		},
	}
	priceHistoryListSpec = listSpec{
		sortFields:  sortFields("changed_at"),
		defaultSort: "changed_at",
		filters: map[string]string{
			"variation_id": "variation_id = ?",
		},
	}
	reimbursementListSpec = listSpec{
		searchColumns: []string{"description", "category"},
		sortFields:    sortFields("expense_date", "amount", "status", "created_at"),
		filters: map[string]string{
			"status":       "status = ?",
			"requester_id": "requester_id = ?",
			"branch_id":    "branch_id = ?",
		},
	}
)

var openStatuses = []finance.AccountStatus{finance.AccountStatusPending, finance.AccountStatusPartial}

// overdueScope keeps open accounts whose due date has passed
func overdueScope(f shared.Filter, now time.Time) []scope {
	if overdue, ok := f.Filters["overdue"].(bool); ok && overdue {
		return []scope{func(db *gorm.DB) *gorm.DB {
			return db.Where("status IN ? AND due_date < ?", openStatuses, now)
		}}
	}
	return nil
}

// GormReceivableRepository implements finance.ReceivableRepository using GORM
type GormReceivableRepository struct {
	db *gorm.DB
}

// NewGormReceivableRepository creates a new GormReceivableRepository
func NewGormReceivableRepository(db *gorm.DB) *GormReceivableRepository {
	return &GormReceivableRepository{db: db}
}

func (r *GormReceivableRepository) Create(ctx context.Context, a *finance.AccountReceivable) error {
	return insert(ctx, r.db, a)
}

func (r *GormReceivableRepository) Save(ctx context.Context, a *finance.AccountReceivable) error {
	return saveVersioned(ctx, r.db, a)
}

func (r *GormReceivableRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountReceivable, error) {
	return findByID[finance.AccountReceivable](ctx, r.db, tenantID, id)
}

// FindBySource returns the newest receivable opened for a document
func (r *GormReceivableRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source finance.ReceivableSource, sourceID uuid.UUID) (*finance.AccountReceivable, error) {
	var a finance.AccountReceivable
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source = ? AND source_id = ?", tenantID, source, sourceID).
		Order("created_at DESC").
		First(&a).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &a, nil
}

func (r *GormReceivableRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountReceivable, int64, error) {
	return findPage[finance.AccountReceivable](ctx, r.db, tenantID, filter, receivableListSpec, overdueScope(filter, time.Now())...)
}

// SumOpen returns the outstanding amount of open receivables and the overdue part
func (r *GormReceivableRepository) SumOpen(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, now time.Time) (decimal.Decimal, decimal.Decimal, error) {
	var row struct {
		Total   decimal.Decimal
		Overdue decimal.Decimal
	}
	q := r.db.WithContext(ctx).Model(&finance.AccountReceivable{}).
		Select(`COALESCE(SUM(amount - paid_amount), 0) AS total,
			COALESCE(SUM(CASE WHEN due_date < ? THEN amount - paid_amount ELSE 0 END), 0) AS overdue`, now).
		Where("tenant_id = ? AND status IN ?", tenantID, openStatuses)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if err := q.Scan(&row).Error; err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return row.Total, row.Overdue, nil
}

// GormPayableRepository implements finance.PayableRepository using GORM
type GormPayableRepository struct {
	db *gorm.DB
}

// NewGormPayableRepository creates a new GormPayableRepository
func NewGormPayableRepository(db *gorm.DB) *GormPayableRepository {
	return &GormPayableRepository{db: db}
}

func (r *GormPayableRepository) Create(ctx context.Context, a *finance.AccountPayable) error {
	return insert(ctx, r.db, a)
}

func (r *GormPayableRepository) Save(ctx context.Context, a *finance.AccountPayable) error {
	return saveVersioned(ctx, r.db, a)
}

func (r *GormPayableRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.AccountPayable, error) {
	return findByID[finance.AccountPayable](ctx, r.db, tenantID, id)
}

func (r *GormPayableRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.AccountPayable, int64, error) {
	return findPage[finance.AccountPayable](ctx, r.db, tenantID, filter, payableListSpec, overdueScope(filter, time.Now())...)
}

// SumDueBetween returns the outstanding amount of open payables due in [from, to]
func (r *GormPayableRepository) SumDueBetween(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var total decimal.Decimal
	q := r.db.WithContext(ctx).Model(&finance.AccountPayable{}).
		Select("COALESCE(SUM(amount - paid_amount), 0)").
		Where("tenant_id = ? AND status IN ? AND due_date >= ? AND due_date <= ?", tenantID, openStatuses, from, to)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if err := q.Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// GormCommissionRuleRepository implements finance.CommissionRuleRepository using GORM
type GormCommissionRuleRepository struct {
	db *gorm.DB
}

// NewGormCommissionRuleRepository creates a new GormCommissionRuleRepository
func NewGormCommissionRuleRepository(db *gorm.DB) *GormCommissionRuleRepository {
	return &GormCommissionRuleRepository{db: db}
}

func (r *GormCommissionRuleRepository) Create(ctx context.Context, rule *finance.CommissionRule) error {
	return insert(ctx, r.db, rule)
}

func (r *GormCommissionRuleRepository) Save(ctx context.Context, rule *finance.CommissionRule) error {
	return saveVersioned(ctx, r.db, rule)
}

func (r *GormCommissionRuleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.CommissionRule, error) {
	return findByID[finance.CommissionRule](ctx, r.db, tenantID, id)
}

func (r *GormCommissionRuleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.CommissionRule, int64, error) {
	return findPage[finance.CommissionRule](ctx, r.db, tenantID, filter, ruleListSpec)
}

// FindActive returns active rules, highest priority first, oldest first on ties
func (r *GormCommissionRuleRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]finance.CommissionRule, error) {
	rules := make([]finance.CommissionRule, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *GormCommissionRuleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteByID[finance.CommissionRule](ctx, r.db, tenantID, id)
}

// GormCommissionRepository implements finance.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

func (r *GormCommissionRepository) Create(ctx context.Context, c *finance.Commission) error {
	return insert(ctx, r.db, c)
}

func (r *GormCommissionRepository) Save(ctx context.Context, c *finance.Commission) error {
	return saveVersioned(ctx, r.db, c)
}

func (r *GormCommissionRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.Commission, error) {
	return findByID[finance.Commission](ctx, r.db, tenantID, id)
}

func (r *GormCommissionRepository) FindBySource(ctx context.Context, tenantID uuid.UUID, source finance.CommissionSource, sourceID uuid.UUID) ([]finance.Commission, error) {
	rows := make([]finance.Commission, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND source_type = ? AND source_id = ?", tenantID, source, sourceID).
		Find(&rows).Error
	return rows, err
}

func (r *GormCommissionRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.Commission, int64, error) {
	return findPage[finance.Commission](ctx, r.db, tenantID, filter, commissionListSpec)
}

// Summarize totals commissions per user and status for [from, to)
func (r *GormCommissionRepository) Summarize(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, from, to time.Time) ([]finance.CommissionSummary, error) {
	var rows []finance.CommissionSummary
	q := r.db.WithContext(ctx).Model(&finance.Commission{}).
		Select(`user_id,
			COUNT(*) AS count,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS pending,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS paid,
			COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS cancelled`,
			finance.CommissionStatusPending, finance.CommissionStatusPaid, finance.CommissionStatusCancelled).
		Where("tenant_id = ? AND created_at >= ? AND created_at < ?", tenantID, from, to)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	}
	if err := q.Group("user_id").Order("pending DESC").Scan(&rows).Error; err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []finance.CommissionSummary{}
	}
	return rows, nil
}

func (r *GormCommissionRepository) SumPending(ctx context.Context, tenantID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).Model(&finance.Commission{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("tenant_id = ? AND status = ?", tenantID, finance.CommissionStatusPending).
		Scan(&total).Error
	return total, err
}

// GormPricingRuleRepository implements finance.PricingRuleRepository using GORM
type GormPricingRuleRepository struct {
	db *gorm.DB
}

// NewGormPricingRuleRepository creates a new GormPricingRuleRepository
func NewGormPricingRuleRepository(db *gorm.DB) *GormPricingRuleRepository {
	return &GormPricingRuleRepository{db: db}
}

func (r *GormPricingRuleRepository) Create(ctx context.Context, rule *finance.PricingRule) error {
	return insert(ctx, r.db, rule)
}

func (r *GormPricingRuleRepository) Save(ctx context.Context, rule *finance.PricingRule) error {
	return saveVersioned(ctx, r.db, rule)
}

func (r *GormPricingRuleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.PricingRule, error) {
	return findByID[finance.PricingRule](ctx, r.db, tenantID, id)
}

func (r *GormPricingRuleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.PricingRule, int64, error) {
	return findPage[finance.PricingRule](ctx, r.db, tenantID, filter, ruleListSpec)
}

// FindActive returns active rules, highest priority first; validity windows are checked by the engine
func (r *GormPricingRuleRepository) FindActive(ctx context.Context, tenantID uuid.UUID) ([]finance.PricingRule, error) {
	rules := make([]finance.PricingRule, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND is_active = ?", tenantID, true).
		Order("priority DESC, created_at ASC").
		Find(&rules).Error
	return rules, err
}

func (r *GormPricingRuleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteByID[finance.PricingRule](ctx, r.db, tenantID, id)
}

// GormPriceHistoryRepository implements finance.PriceHistoryRepository using GORM
type GormPriceHistoryRepository struct {
	db *gorm.DB
}

// NewGormPriceHistoryRepository creates a new GormPriceHistoryRepository
func NewGormPriceHistoryRepository(db *gorm.DB) *GormPriceHistoryRepository {
	return &GormPriceHistoryRepository{db: db}
}

func (r *GormPriceHistoryRepository) Create(ctx context.Context, h *finance.PriceHistory) error {
	return insert(ctx, r.db, h)
}

func (r *GormPriceHistoryRepository) FindByProduct(ctx context.Context, tenantID, productID uuid.UUID, filter shared.Filter) ([]finance.PriceHistory, int64, error) {
	return findPage[finance.PriceHistory](ctx, r.db, tenantID, filter, priceHistoryListSpec, func(db *gorm.DB) *gorm.DB {
		return db.Where("product_id = ?", productID)
	})
}

// GormReimbursementRepository implements finance.ReimbursementRepository using GORM
type GormReimbursementRepository struct {
	db *gorm.DB
}

// NewGormReimbursementRepository creates a new GormReimbursementRepository
func NewGormReimbursementRepository(db *gorm.DB) *GormReimbursementRepository {
	return &GormReimbursementRepository{db: db}
}

func (r *GormReimbursementRepository) Create(ctx context.Context, e *finance.ExpenseReimbursement) error {
	return insert(ctx, r.db, e)
}

func (r *GormReimbursementRepository) Save(ctx context.Context, e *finance.ExpenseReimbursement) error {
	return saveVersioned(ctx, r.db, e)
}

func (r *GormReimbursementRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*finance.ExpenseReimbursement, error) {
	return findByID[finance.ExpenseReimbursement](ctx, r.db, tenantID, id)
}

func (r *GormReimbursementRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]finance.ExpenseReimbursement, int64, error) {
	return findPage[finance.ExpenseReimbursement](ctx, r.db, tenantID, filter, reimbursementListSpec)
}

var (
	_ finance.ReceivableRepository     = (*GormReceivableRepository)(nil)
	_ finance.PayableRepository        = (*GormPayableRepository)(nil)
	_ finance.CommissionRuleRepository = (*GormCommissionRuleRepository)(nil)
	_ finance.CommissionRepository     = (*GormCommissionRepository)(nil)
	_ finance.PricingRuleRepository    = (*GormPricingRuleRepository)(nil)
	_ finance.PriceHistoryRepository   = (*GormPriceHistoryRepository)(nil)
	_ finance.ReimbursementRepository  = (*GormReimbursementRepository)(nil)
)
