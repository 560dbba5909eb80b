package inventory

import (
	"context"

	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/inventory"
	"github.com/repairpos/backend/internal/domain/kanban"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/sales"
)

// TransactionScope runs a unit of work against repositories that share one database transaction.
// Every operation that touches stock together with another aggregate goes through it.
type TransactionScope interface {
	// Execute commits when fn returns nil and rolls back otherwise
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories exposes the repositories bound to the current transaction.
//
// Stock rows are locked with StockRepo().FindForUpdate, so concurrent sales of the
// same item serialize on the row instead of overselling.
type TransactionalRepositories interface {
	StockRepo() inventory.StockRepository
	SaleRepo() sales.SaleRepository
	SaleReturnRepo() sales.SaleReturnRepository
	ReceivableRepo() finance.ReceivableRepository
	PayableRepo() finance.PayableRepository
	ServiceOrderRepo() repair.ServiceOrderRepository
	ReimbursementRepo() finance.ReimbursementRepository
	CommissionRepo() finance.CommissionRepository
	CustomerRepo() crm.CustomerRepository
	LeadRepo() crm.LeadRepository
	KanbanCardRepo() kanban.CardRepository
}

// NoOpTransactionScope hands its own repositories to fn without a transaction.
// Used in tests and wherever atomicity is not required.
type NoOpTransactionScope struct {
	Stock          inventory.StockRepository
	Sales          sales.SaleRepository
	SaleReturns    sales.SaleReturnRepository
	Receivables    finance.ReceivableRepository
	Payables       finance.PayableRepository
	ServiceOrders  repair.ServiceOrderRepository
	Reimbursements finance.ReimbursementRepository
	Commissions    finance.CommissionRepository
	Customers      crm.CustomerRepository
	Leads          crm.LeadRepository
	KanbanCards    kanban.CardRepository
}

func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) StockRepo() inventory.StockRepository { return s.Stock }

func (s *NoOpTransactionScope) SaleRepo() sales.SaleRepository { return s.Sales }

func (s *NoOpTransactionScope) SaleReturnRepo() sales.SaleReturnRepository { return s.SaleReturns }

func (s *NoOpTransactionScope) ReceivableRepo() finance.ReceivableRepository { return s.Receivables }

func (s *NoOpTransactionScope) PayableRepo() finance.PayableRepository { return s.Payables }

func (s *NoOpTransactionScope) ServiceOrderRepo() repair.ServiceOrderRepository {
	return s.ServiceOrders
}

func (s *NoOpTransactionScope) ReimbursementRepo() finance.ReimbursementRepository {
	return s.Reimbursements
}

func (s *NoOpTransactionScope) CommissionRepo() finance.CommissionRepository { return s.Commissions }

func (s *NoOpTransactionScope) CustomerRepo() crm.CustomerRepository { return s.Customers }

func (s *NoOpTransactionScope) LeadRepo() crm.LeadRepository { return s.Leads }

func (s *NoOpTransactionScope) KanbanCardRepo() kanban.CardRepository { return s.KanbanCards }

var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*NoOpTransactionScope)(nil)
)
