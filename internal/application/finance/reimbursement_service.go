package finance

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	appinv "github.com/repairpos/backend/internal/application/inventory"
	"github.com/repairpos/backend/internal/domain/finance"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	reimbursementCategory   = "reimbursement"
	reimbursementSourceType = "reimbursement"
)

// ReimbursementService runs expense claims from filing to payout
type ReimbursementService struct {
	repo     finance.ReimbursementRepository
	userRepo identity.UserRepository
	txScope  appinv.TransactionScope
	logger   *zap.Logger
	now      func() time.Time
}

// NewReimbursementService creates a new ReimbursementService
func NewReimbursementService(repo finance.ReimbursementRepository, userRepo identity.UserRepository, txScope appinv.TransactionScope, logger *zap.Logger) *ReimbursementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReimbursementService{repo: repo, userRepo: userRepo, txScope: txScope, logger: logger, now: time.Now}
}

// Create files a claim for the calling user
func (s *ReimbursementService) Create(ctx context.Context, tenantID, userID uuid.UUID, req CreateReimbursementRequest) (*ReimbursementResponse, error) {
	r, err := finance.NewExpenseReimbursement(tenantID, userID, req.BranchID, req.Description, req.Category, req.Amount, req.ExpenseDate, req.ReceiptURL)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Reimbursement filed",
		zap.String("reimbursement_id", r.ID.String()),
		zap.String("requester_id", userID.String()),
		zap.String("amount", r.Amount.String()))
	resp := toReimbursementResponse(r)
	return &resp, nil
}

func (s *ReimbursementService) Get(ctx context.Context, tenantID, id uuid.UUID) (*ReimbursementResponse, error) {
	r, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	resp := toReimbursementResponse(r)
	return &resp, nil
}

func (s *ReimbursementService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[ReimbursementResponse], error) {
	filter.Normalize()
	rows, total, err := s.repo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReimbursementResponse, len(rows))
	for i := range rows {
		items[i] = toReimbursementResponse(&rows[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *ReimbursementService) Approve(ctx context.Context, tenantID, reviewerID, id uuid.UUID, req ReviewReimbursementRequest) (*ReimbursementResponse, error) {
	return s.review(ctx, tenantID, id, func(r *finance.ExpenseReimbursement) error {
		return r.Approve(reviewerID, req.Note, s.now())
	})
}

func (s *ReimbursementService) Reject(ctx context.Context, tenantID, reviewerID, id uuid.UUID, req ReviewReimbursementRequest) (*ReimbursementResponse, error) {
	return s.review(ctx, tenantID, id, func(r *finance.ExpenseReimbursement) error {
		return r.Reject(reviewerID, req.Note, s.now())
	})
}

func (s *ReimbursementService) review(ctx context.Context, tenantID, id uuid.UUID, apply func(*finance.ExpenseReimbursement) error) (*ReimbursementResponse, error) {
	r, err := s.repo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := apply(r); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, r); err != nil {
		return nil, err
	}
	s.logger.Info("Reimbursement reviewed",
		zap.String("reimbursement_id", r.ID.String()),
		zap.String("status", string(r.Status)))
	resp := toReimbursementResponse(r)
	return &resp, nil
}

// Pay settles an approved claim. A payable to the requester is opened and fully paid,
// and the claim is linked to it, all in one transaction.
func (s *ReimbursementService) Pay(ctx context.Context, tenantID, userID, id uuid.UUID, req PayReimbursementRequest) (*ReimbursementResponse, error) {
	var result *finance.ExpenseReimbursement
	err := s.txScope.Execute(ctx, func(repos appinv.TransactionalRepositories) error {
		r, err := repos.ReimbursementRepo().FindByID(ctx, tenantID, id)
		if err != nil {
			return err
		}
		if r.Status != finance.ReimbursementStatusApproved {
			return shared.NewDomainError("INVALID_STATE", "Only approved reimbursements can be paid")
		}
		requester, err := s.userRepo.FindByID(ctx, tenantID, r.RequesterID)
		if err != nil {
			return err
		}
		name := strings.TrimSpace(requester.DisplayName)
		if name == "" {
			name = requester.Username
		}
		now := s.now()
		payable, err := finance.NewAccountPayable(tenantID, name, r.Description, reimbursementCategory, r.Amount, now)
		if err != nil {
			return err
		}
		sourceID := r.ID
		payable.BranchID = r.BranchID
		payable.SourceType = reimbursementSourceType
		payable.SourceID = &sourceID
		if err := repos.PayableRepo().Create(ctx, payable); err != nil {
			return err
		}
		// Create persisted the open payable; the payment is a new version of it
		if err := payable.RecordPayment(r.Amount, req.Method, userID, "Reimbursement payout", now); err != nil {
			return err
		}
		if err := repos.PayableRepo().Save(ctx, payable); err != nil {
			return err
		}
		if err := r.MarkPaid(payable.ID); err != nil {
			return err
		}
		if err := repos.ReimbursementRepo().Save(ctx, r); err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Reimbursement paid",
		zap.String("reimbursement_id", result.ID.String()),
		zap.String("payable_id", result.PayableID.String()))
	resp := toReimbursementResponse(result)
	return &resp, nil
}
