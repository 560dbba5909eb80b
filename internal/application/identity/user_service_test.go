package identity

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newUserService() (*UserService, *MockUserRepository, *MockRoleRepository, *MockBranchRepository) {
	users := new(MockUserRepository)
	roles := new(MockRoleRepository)
	branches := new(MockBranchRepository)
	return NewUserService(users, roles, branches, nil, zap.NewNop()), users, roles, branches
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates user with roles", func(t *testing.T) {
		svc, users, roles, _ := newUserService()
		roleID := uuid.New()
		role := identity.Role{}
		role.ID = roleID

		users.On("ExistsByUsername", mock.Anything, tenantID, "joao").Return(false, nil)
		roles.On("FindByIDs", mock.Anything, tenantID, []uuid.UUID{roleID}).Return([]identity.Role{role}, nil)
		users.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		dto, err := svc.Create(ctx, tenantID, CreateUserInput{
			Username:    "Joao",
			Password:    testPassword,
			DisplayName: "João Silva",
			Email:       "JOAO@example.com",
			RoleIDs:     []uuid.UUID{roleID},
		})
		require.NoError(t, err)
		assert.Equal(t, "joao", dto.Username)
		assert.Equal(t, "joao@example.com", dto.Email)
		assert.Equal(t, []uuid.UUID{roleID}, dto.RoleIDs)
		assert.Equal(t, "active", dto.Status)
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		svc, users, _, _ := newUserService()
		users.On("ExistsByUsername", mock.Anything, tenantID, "joao").Return(true, nil)

		_, err := svc.Create(ctx, tenantID, CreateUserInput{Username: "joao", Password: testPassword})
		assert.Equal(t, "ALREADY_EXISTS", shared.ErrorCode(err))
		users.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("rejects unknown role", func(t *testing.T) {
		svc, users, roles, _ := newUserService()
		users.On("ExistsByUsername", mock.Anything, tenantID, "joao").Return(false, nil)
		roles.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]identity.Role{}, nil)

		_, err := svc.Create(ctx, tenantID, CreateUserInput{Username: "joao", Password: testPassword, RoleIDs: []uuid.UUID{uuid.New()}})
		assert.Equal(t, "ROLE_NOT_FOUND", shared.ErrorCode(err))
	})

	t.Run("rejects unknown branch", func(t *testing.T) {
		svc, users, _, branches := newUserService()
		branchID := uuid.New()
		users.On("ExistsByUsername", mock.Anything, tenantID, "joao").Return(false, nil)
		branches.On("FindByID", mock.Anything, tenantID, branchID).Return(nil, shared.ErrNotFound)

		_, err := svc.Create(ctx, tenantID, CreateUserInput{Username: "joao", Password: testPassword, BranchID: &branchID})
		assert.Equal(t, "BRANCH_NOT_FOUND", shared.ErrorCode(err))
	})
}

func TestUserService_Bootstrap(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("creates admin role and user on empty tenant", func(t *testing.T) {
		svc, users, roles, _ := newUserService()
		var created *identity.Role

		users.On("FindAll", mock.Anything, tenantID, mock.Anything).Return([]identity.User{}, int64(0), nil)
		roles.On("ExistsByCode", mock.Anything, tenantID, AdminRoleCode).Return(false, nil)
		roles.On("Create", mock.Anything, mock.AnythingOfType("*identity.Role")).
			Run(func(args mock.Arguments) { created = args.Get(1).(*identity.Role) }).
			Return(nil)
		roles.On("FindByIDs", mock.Anything, tenantID, mock.Anything).Return([]identity.Role{{}}, nil)
		users.On("ExistsByUsername", mock.Anything, tenantID, "admin").Return(false, nil)
		users.On("Create", mock.Anything, mock.AnythingOfType("*identity.User")).Return(nil)

		ok, err := svc.Bootstrap(ctx, tenantID, "admin", "admin12345")
		require.NoError(t, err)
		assert.True(t, ok)
		require.NotNil(t, created)
		assert.True(t, created.IsSystem)
		assert.Equal(t, []string{identity.WildcardPermission}, created.Permissions)
	})

	t.Run("does nothing when users exist", func(t *testing.T) {
		svc, users, roles, _ := newUserService()
		users.On("FindAll", mock.Anything, tenantID, mock.Anything).Return([]identity.User{{}}, int64(3), nil)

		ok, err := svc.Bootstrap(ctx, tenantID, "admin", "admin12345")
		require.NoError(t, err)
		assert.False(t, ok)
		roles.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestUserService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	svc, users, _, _ := newUserService()

	user, err := identity.NewUser(tenantID, "carla", testPassword)
	require.NoError(t, err)
	users.On("FindByID", mock.Anything, tenantID, user.ID).Return(user, nil)
	users.On("Save", mock.Anything, user).Return(nil)

	err = svc.ChangePassword(ctx, tenantID, user.ID, ChangePasswordInput{OldPassword: "nope12345", NewPassword: "newpass123"})
	assert.Equal(t, "INVALID_PASSWORD", shared.ErrorCode(err))

	require.NoError(t, svc.ChangePassword(ctx, tenantID, user.ID, ChangePasswordInput{OldPassword: testPassword, NewPassword: "newpass123"}))
	assert.True(t, user.VerifyPassword("newpass123"))
}

func TestRoleService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("system role is protected", func(t *testing.T) {
		roles := new(MockRoleRepository)
		svc := NewRoleService(roles, zap.NewNop())
		role, err := identity.NewSystemRole(tenantID, "admin", "Administrator")
		require.NoError(t, err)
		roles.On("FindByID", mock.Anything, tenantID, role.ID).Return(role, nil)

		err = svc.Delete(ctx, tenantID, role.ID)
		assert.Equal(t, "SYSTEM_ROLE", shared.ErrorCode(err))
	})

	t.Run("role held by users cannot be deleted", func(t *testing.T) {
		roles := new(MockRoleRepository)
		svc := NewRoleService(roles, zap.NewNop())
		role, err := identity.NewRole(tenantID, "seller", "Seller")
		require.NoError(t, err)
		roles.On("FindByID", mock.Anything, tenantID, role.ID).Return(role, nil)
		roles.On("CountUsers", mock.Anything, tenantID, role.ID).Return(int64(2), nil)

		err = svc.Delete(ctx, tenantID, role.ID)
		assert.Equal(t, "ROLE_IN_USE", shared.ErrorCode(err))
		roles.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRoleService_SetPermissions(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	roles := new(MockRoleRepository)
	svc := NewRoleService(roles, zap.NewNop())
	role, err := identity.NewRole(tenantID, "tech", "Technician")
	require.NoError(t, err)
	roles.On("FindByID", mock.Anything, tenantID, role.ID).Return(role, nil)
	roles.On("Save", mock.Anything, role).Return(nil)

	dto, err := svc.SetPermissions(ctx, tenantID, role.ID, []string{"repair:update", "repair:read", "repair:read"})
	require.NoError(t, err)
	assert.Equal(t, []string{"repair:read", "repair:update"}, dto.Permissions)

	_, err = svc.SetPermissions(ctx, tenantID, role.ID, []string{"spaceship:fly"})
	assert.Equal(t, "INVALID_PERMISSION_CODE", shared.ErrorCode(err))
}

func TestBranchService_Delete(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	branches := new(MockBranchRepository)
	svc := NewBranchService(branches, zap.NewNop())
	branch, err := identity.NewBranch(tenantID, "ctr", "Centro")
	require.NoError(t, err)
	branches.On("FindByID", mock.Anything, tenantID, branch.ID).Return(branch, nil)

	err = svc.Delete(ctx, tenantID, branch.ID)
	assert.Equal(t, "INVALID_STATE", shared.ErrorCode(err))

	branches.On("Save", mock.Anything, branch).Return(nil)
	branches.On("Delete", mock.Anything, tenantID, branch.ID).Return(nil)
	_, err = svc.Deactivate(ctx, tenantID, branch.ID)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, tenantID, branch.ID))
}
