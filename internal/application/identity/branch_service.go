package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// BranchService manages the stores of a tenant
type BranchService struct {
	branchRepo identity.BranchRepository
	logger     *zap.Logger
}

// NewBranchService creates a new branch service
func NewBranchService(branchRepo identity.BranchRepository, logger *zap.Logger) *BranchService {
	return &BranchService{branchRepo: branchRepo, logger: logger}
}

// Create creates an active branch with a unique code
func (s *BranchService) Create(ctx context.Context, tenantID uuid.UUID, input CreateBranchInput) (*BranchDTO, error) {
	branch, err := identity.NewBranch(tenantID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.branchRepo.ExistsByCode(ctx, tenantID, branch.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Branch with this code already exists")
	}
	branch.Address = input.Address
	branch.Phone = input.Phone

	if err := s.branchRepo.Create(ctx, branch); err != nil {
		return nil, err
	}
	s.logger.Info("Branch created", zap.String("branch_id", branch.ID.String()), zap.String("code", branch.Code))
	dto := toBranchDTO(branch)
	return &dto, nil
}

func (s *BranchService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*BranchDTO, error) {
	branch, err := s.branchRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := toBranchDTO(branch)
	return &dto, nil
}

func (s *BranchService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[BranchDTO], error) {
	filter.Normalize()
	branches, total, err := s.branchRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]BranchDTO, len(branches))
	for i := range branches {
		items[i] = toBranchDTO(&branches[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *BranchService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateBranchInput) (*BranchDTO, error) {
	return s.mutate(ctx, tenantID, id, func(b *identity.Branch) error {
		return b.Update(input.Name, input.Address, input.Phone)
	})
}

func (s *BranchService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*BranchDTO, error) {
	return s.mutate(ctx, tenantID, id, (*identity.Branch).Activate)
}

func (s *BranchService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*BranchDTO, error) {
	return s.mutate(ctx, tenantID, id, (*identity.Branch).Deactivate)
}

// Delete removes an inactive branch
func (s *BranchService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	branch, err := s.branchRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !branch.CanDelete() {
		return shared.NewDomainError("INVALID_STATE", "Only inactive branches can be deleted")
	}
	if err := s.branchRepo.Delete(ctx, tenantID, id); err != nil {
		return err
	}
	s.logger.Info("Branch deleted", zap.String("branch_id", id.String()))
	return nil
}

func (s *BranchService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*identity.Branch) error) (*BranchDTO, error) {
	branch, err := s.branchRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(branch); err != nil {
		return nil, err
	}
	if err := s.branchRepo.Save(ctx, branch); err != nil {
		return nil, err
	}
	dto := toBranchDTO(branch)
	return &dto, nil
}
