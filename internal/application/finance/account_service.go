// Package finance runs receivables, payables, commissions, pricing rules and reimbursements
package finance

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AccountService manages receivables and payables
type AccountService struct {
	receivableRepo finance.ReceivableRepository
	payableRepo    finance.PayableRepository
	customerRepo   crm.CustomerRepository
	logger         *zap.Logger
	now            func() time.Time
}

// NewAccountService creates a new AccountService
func NewAccountService(receivableRepo finance.ReceivableRepository, payableRepo finance.PayableRepository, customerRepo crm.CustomerRepository, logger *zap.Logger) *AccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccountService{
		receivableRepo: receivableRepo,
		payableRepo:    payableRepo,
		customerRepo:   customerRepo,
		logger:         logger,
		now:            time.Now,
	}
}

// CreateReceivable opens a manual receivable for an existing customer
func (s *AccountService) CreateReceivable(ctx context.Context, tenantID uuid.UUID, req CreateReceivableRequest) (*ReceivableResponse, error) {
	if _, err := s.customerRepo.FindByID(ctx, tenantID, req.CustomerID); err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("CUSTOMER_NOT_FOUND", "Customer does not exist")
		}
		return nil, err
	}
	r, err := finance.NewAccountReceivable(tenantID, req.CustomerID, finance.ReceivableSourceManual, nil, req.Amount, req.DueDate, req.Description)
	if err != nil {
		return nil, err
	}
	r.BranchID = req.BranchID
	if err := s.receivableRepo.Create(ctx, r); err != nil {
		return nil, err
	}
	resp := toReceivableResponse(r, s.now())
	return &resp, nil
}

func (s *AccountService) GetReceivable(ctx context.Context, tenantID, id uuid.UUID) (*ReceivableResponse, error) {
	r, err := s.receivableRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toReceivableResponse(r, s.now())
	return &resp, nil
}

// ListReceivables returns one page. Filters: status, customer_id, source, overdue, due_from, due_to.
func (s *AccountService) ListReceivables(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ReceivableResponse], error) {
	filter.Normalize()
	rows, total, err := s.receivableRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := make([]ReceivableResponse, len(rows))
	for i := range rows {
		items[i] = toReceivableResponse(&rows[i], now)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// RecordReceivablePayment applies a payment; over-payment is rejected
func (s *AccountService) RecordReceivablePayment(ctx context.Context, tenantID, userID, id uuid.UUID, req RecordPaymentRequest) (*ReceivableResponse, error) {
	r, err := s.receivableRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := r.RecordPayment(req.Amount, req.Method, userID, req.Note, s.now()); err != nil {
		return nil, err
	}
	if err := s.receivableRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Receivable payment recorded",
		zap.String("receivable_id", r.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(r.Status)))
	resp := toReceivableResponse(r, s.now())
	return &resp, nil
}

func (s *AccountService) CancelReceivable(ctx context.Context, tenantID, id uuid.UUID) (*ReceivableResponse, error) {
	r, err := s.receivableRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := r.Cancel(); err != nil {
		return nil, err
	}
	if err := s.receivableRepo.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := toReceivableResponse(r, s.now())
	return &resp, nil
}

// CreatePayable opens a payable
func (s *AccountService) CreatePayable(ctx context.Context, tenantID uuid.UUID, req CreatePayableRequest) (*PayableResponse, error) {
	p, err := finance.NewAccountPayable(tenantID, req.SupplierName, req.Description, req.Category, req.Amount, req.DueDate)
	if err != nil {
		return nil, err
	}
	p.BranchID = req.BranchID
	if err := s.payableRepo.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := toPayableResponse(p, s.now())
	return &resp, nil
}

func (s *AccountService) GetPayable(ctx context.Context, tenantID, id uuid.UUID) (*PayableResponse, error) {
	p, err := s.payableRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toPayableResponse(p, s.now())
	return &resp, nil
}

// ListPayables returns one page. Filters: status, category, overdue, due_from, due_to.
func (s *AccountService) ListPayables(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[PayableResponse], error) {
	filter.Normalize()
	rows, total, err := s.payableRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := make([]PayableResponse, len(rows))
	for i := range rows {
		items[i] = toPayableResponse(&rows[i], now)
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *AccountService) RecordPayablePayment(ctx context.Context, tenantID, userID, id uuid.UUID, req RecordPaymentRequest) (*PayableResponse, error) {
	p, err := s.payableRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := p.RecordPayment(req.Amount, req.Method, userID, req.Note, s.now()); err != nil {
		return nil, err
	}
	if err := s.payableRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	s.logger.Info("Payable payment recorded",
		zap.String("payable_id", p.ID.String()),
		zap.String("amount", req.Amount.String()),
		zap.String("status", string(p.Status)))
	resp := toPayableResponse(p, s.now())
	return &resp, nil
}

func (s *AccountService) CancelPayable(ctx context.Context, tenantID, id uuid.UUID) (*PayableResponse, error) {
	p, err := s.payableRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := p.Cancel(); err != nil {
		return nil, err
	}
	if err := s.payableRepo.Save(ctx, p); err != nil {
		return nil, err
	}
	resp := toPayableResponse(p, s.now())
	return &resp, nil
}
