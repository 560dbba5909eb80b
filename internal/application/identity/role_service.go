package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// RoleService manages roles and their permission codes
type RoleService struct {
	roleRepo identity.RoleRepository
	logger   *zap.Logger
}

// NewRoleService creates a new role service
func NewRoleService(roleRepo identity.RoleRepository, logger *zap.Logger) *RoleService {
	return &RoleService{roleRepo: roleRepo, logger: logger}
}

// Create creates a custom role
func (s *RoleService) Create(ctx context.Context, tenantID uuid.UUID, input CreateRoleInput) (*RoleDTO, error) {
	role, err := identity.NewRole(tenantID, input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	exists, err := s.roleRepo.ExistsByCode(ctx, tenantID, role.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Role with this code already exists")
	}
	role.Description = input.Description
	if len(input.Permissions) > 0 {
		if err := role.SetPermissions(input.Permissions); err != nil {
			return nil, err
		}
	}

	if err := s.roleRepo.Create(ctx, role); err != nil {
		return nil, err
	}
	s.logger.Info("Role created", zap.String("role_id", role.ID.String()), zap.String("code", role.Code))
	dto := toRoleDTO(role)
	return &dto, nil
}

func (s *RoleService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := toRoleDTO(role)
	return &dto, nil
}

func (s *RoleService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[RoleDTO], error) {
	filter.Normalize()
	roles, total, err := s.roleRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]RoleDTO, len(roles))
	for i := range roles {
		items[i] = toRoleDTO(&roles[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *RoleService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateRoleInput) (*RoleDTO, error) {
	return s.mutate(ctx, tenantID, id, func(r *identity.Role) error {
		return r.Update(input.Name, input.Description)
	})
}

// SetPermissions replaces the permission codes of a role
func (s *RoleService) SetPermissions(ctx context.Context, tenantID, id uuid.UUID, codes []string) (*RoleDTO, error) {
	return s.mutate(ctx, tenantID, id, func(r *identity.Role) error {
		return r.SetPermissions(codes)
	})
}

// Delete removes a custom role that no user holds
func (s *RoleService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if !role.CanDelete() {
		return shared.NewDomainError("SYSTEM_ROLE", "System roles cannot be deleted")
	}
	count, err := s.roleRepo.CountUsers(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.NewDomainError("ROLE_IN_USE", "Role is assigned to users")
	}
	return s.roleRepo.Delete(ctx, tenantID, id)
}

func (s *RoleService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*identity.Role) error) (*RoleDTO, error) {
	role, err := s.roleRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(role); err != nil {
		return nil, err
	}
	if err := s.roleRepo.Save(ctx, role); err != nil {
		return nil, err
	}
	dto := toRoleDTO(role)
	return &dto, nil
}
