package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// AdminRoleCode is the system role created for the bootstrap account
const AdminRoleCode = "admin"

// UserService manages employee accounts
type UserService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	branchRepo identity.BranchRepository
	events     shared.EventPublisher
	logger     *zap.Logger
}

// NewUserService creates a new user service. events may be nil.
func NewUserService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	branchRepo identity.BranchRepository,
	events shared.EventPublisher,
	logger *zap.Logger,
) *UserService {
	return &UserService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		branchRepo: branchRepo,
		events:     events,
		logger:     logger,
	}
}

// Create creates an active user with a unique username
func (s *UserService) Create(ctx context.Context, tenantID uuid.UUID, input CreateUserInput) (*UserDTO, error) {
	user, err := identity.NewUser(tenantID, input.Username, input.Password)
	if err != nil {
		return nil, err
	}
	exists, err := s.userRepo.ExistsByUsername(ctx, tenantID, user.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Username already exists")
	}
	if err := s.checkBranch(ctx, tenantID, input.BranchID); err != nil {
		return nil, err
	}
	if err := user.UpdateProfile(input.DisplayName, input.Email, input.Phone, input.BranchID); err != nil {
		return nil, err
	}
	if err := s.checkRoles(ctx, tenantID, input.RoleIDs); err != nil {
		return nil, err
	}
	user.SetRoles(input.RoleIDs)

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	s.publish(ctx, user)
	s.logger.Info("User created", zap.String("user_id", user.ID.String()), zap.String("username", user.Username))

	dto := toUserDTO(user)
	return &dto, nil
}

func (s *UserService) GetByID(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

func (s *UserService) List(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) (*shared.Paginated[UserDTO], error) {
	filter.Normalize()
	users, total, err := s.userRepo.FindAll(ctx, tenantID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]UserDTO, len(users))
	for i := range users {
		items[i] = toUserDTO(&users[i])
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

func (s *UserService) Update(ctx context.Context, tenantID, id uuid.UUID, input UpdateUserInput) (*UserDTO, error) {
	if err := s.checkBranch(ctx, tenantID, input.BranchID); err != nil {
		return nil, err
	}
	return s.mutate(ctx, tenantID, id, func(u *identity.User) error {
		return u.UpdateProfile(input.DisplayName, input.Email, input.Phone, input.BranchID)
	})
}

// AssignRoles replaces the roles of a user
func (s *UserService) AssignRoles(ctx context.Context, tenantID, id uuid.UUID, roleIDs []uuid.UUID) (*UserDTO, error) {
	if err := s.checkRoles(ctx, tenantID, roleIDs); err != nil {
		return nil, err
	}
	return s.mutate(ctx, tenantID, id, func(u *identity.User) error {
		u.SetRoles(roleIDs)
		return nil
	})
}

// ChangePassword sets a new password after verifying the current one
func (s *UserService) ChangePassword(ctx context.Context, tenantID, id uuid.UUID, input ChangePasswordInput) error {
	_, err := s.mutate(ctx, tenantID, id, func(u *identity.User) error {
		return u.ChangePassword(input.OldPassword, input.NewPassword)
	})
	return err
}

func (s *UserService) Activate(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	return s.mutate(ctx, tenantID, id, (*identity.User).Activate)
}

func (s *UserService) Deactivate(ctx context.Context, tenantID, id uuid.UUID) (*UserDTO, error) {
	return s.mutate(ctx, tenantID, id, (*identity.User).Deactivate)
}

// Bootstrap creates an admin role holding every permission and an admin user
// when the tenant has no users yet. It returns false when nothing was created.
func (s *UserService) Bootstrap(ctx context.Context, tenantID uuid.UUID, username, password string) (bool, error) {
	_, total, err := s.userRepo.FindAll(ctx, tenantID, shared.Filter{Page: 1, PageSize: 1})
	if err != nil {
		return false, err
	}
	if total > 0 {
		return false, nil
	}

	roleID, err := s.ensureAdminRole(ctx, tenantID)
	if err != nil {
		return false, err
	}
	if _, err := s.Create(ctx, tenantID, CreateUserInput{
		Username:    username,
		Password:    password,
		DisplayName: "Administrator",
		RoleIDs:     []uuid.UUID{roleID},
	}); err != nil {
		return false, err
	}
	s.logger.Info("Bootstrap administrator created", zap.String("tenant_id", tenantID.String()), zap.String("username", username))
	return true, nil
}

func (s *UserService) ensureAdminRole(ctx context.Context, tenantID uuid.UUID) (uuid.UUID, error) {
	exists, err := s.roleRepo.ExistsByCode(ctx, tenantID, AdminRoleCode)
	if err != nil {
		return uuid.Nil, err
	}
	if exists {
		roles, _, err := s.roleRepo.FindAll(ctx, tenantID, shared.Filter{Page: 1, PageSize: shared.MaxPageSize, Search: AdminRoleCode})
		if err != nil {
			return uuid.Nil, err
		}
		for _, r := range roles {
			if r.Code == AdminRoleCode {
				return r.ID, nil
			}
		}
		return uuid.Nil, shared.ErrNotFound
	}
	role, err := identity.NewSystemRole(tenantID, AdminRoleCode, "Administrator")
	if err != nil {
		return uuid.Nil, err
	}
	if err := role.SetPermissions([]string{identity.WildcardPermission}); err != nil {
		return uuid.Nil, err
	}
	if err := s.roleRepo.Create(ctx, role); err != nil {
		return uuid.Nil, err
	}
	return role.ID, nil
}

func (s *UserService) checkRoles(ctx context.Context, tenantID uuid.UUID, roleIDs []uuid.UUID) error {
	if len(roleIDs) == 0 {
		return nil
	}
	unique := make(map[uuid.UUID]struct{}, len(roleIDs))
	for _, id := range roleIDs {
		unique[id] = struct{}{}
	}
	roles, err := s.roleRepo.FindByIDs(ctx, tenantID, roleIDs)
	if err != nil {
		return err
	}
	if len(roles) != len(unique) {
		return shared.NewDomainError("ROLE_NOT_FOUND", "One or more roles do not exist")
	}
	return nil
}

func (s *UserService) checkBranch(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) error {
	if branchID == nil {
		return nil
	}
	if _, err := s.branchRepo.FindByID(ctx, tenantID, *branchID); err != nil {
		if shared.IsNotFound(err) {
			return shared.NewDomainError("BRANCH_NOT_FOUND", "Branch does not exist")
		}
		return err
	}
	return nil
}

func (s *UserService) mutate(ctx context.Context, tenantID, id uuid.UUID, fn func(*identity.User) error) (*UserDTO, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	if err := fn(user); err != nil {
		return nil, err
	}
	if err := s.userRepo.Save(ctx, user); err != nil {
		return nil, err
	}
	dto := toUserDTO(user)
	return &dto, nil
}

func (s *UserService) publish(ctx context.Context, user *identity.User) {
	events := user.GetDomainEvents()
	user.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish user events", zap.Error(err))
	}
}
