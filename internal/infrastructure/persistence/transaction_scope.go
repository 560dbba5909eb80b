package persistence

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/kanban"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions
type GormTransactionScope struct {
	db       *gorm.DB
	duration *prometheus.HistogramVec
}

// NewGormTransactionScope creates a new GormTransactionScope.
// duration may be nil; when set, each unit of work is observed under the "transaction" label.
func NewGormTransactionScope(db *gorm.DB, duration *prometheus.HistogramVec) *GormTransactionScope {
	return &GormTransactionScope{db: db, duration: duration}
}

// Execute runs fn inside one database transaction
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
	if s.duration != nil {
		s.duration.WithLabelValues("transaction").Observe(time.Since(start).Seconds())
	}
	return err
}

type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) StockRepo() inventory.StockRepository {
	return NewGormStockRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleRepo() sales.SaleRepository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleReturnRepo() sales.SaleReturnRepository {
	return NewGormSaleReturnRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReceivableRepo() finance.ReceivableRepository {
	return NewGormReceivableRepository(r.tx)
}

func (r *gormTransactionalRepositories) PayableRepo() finance.PayableRepository {
	return NewGormPayableRepository(r.tx)
}

func (r *gormTransactionalRepositories) ServiceOrderRepo() repair.ServiceOrderRepository {
	return NewGormServiceOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) ReimbursementRepo() finance.ReimbursementRepository {
	return NewGormReimbursementRepository(r.tx)
}

func (r *gormTransactionalRepositories) CommissionRepo() finance.CommissionRepository {
	return NewGormCommissionRepository(r.tx)
}

func (r *gormTransactionalRepositories) CustomerRepo() crm.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) LeadRepo() crm.LeadRepository {
	return NewGormLeadRepository(r.tx)
}

func (r *gormTransactionalRepositories) KanbanCardRepo() kanban.CardRepository {
	return NewGormCardRepository(r.tx)
}

var (
	_ appinv.TransactionScope          = (*GormTransactionScope)(nil)
	_ appinv.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
