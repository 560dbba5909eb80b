package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/mock"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Create(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) Save(ctx context.Context, u *identity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	args := m.Called(ctx, tenantID, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.User), args.Error(1)
}

func (m *MockUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.User), args.Get(1).(int64), args.Error(2)
}

func (m *MockUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	args := m.Called(ctx, tenantID, username)
	return args.Bool(0), args.Error(1)
}

type MockRoleRepository struct {
	mock.Mock
}

func (m *MockRoleRepository) Create(ctx context.Context, r *identity.Role) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRoleRepository) Save(ctx context.Context, r *identity.Role) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRoleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.Role, error) {
	args := m.Called(ctx, tenantID, ids)
	return args.Get(0).([]identity.Role), args.Error(1)
}

func (m *MockRoleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Role, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Role), args.Get(1).(int64), args.Error(2)
}

func (m *MockRoleRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockRoleRepository) CountUsers(ctx context.Context, tenantID, roleID uuid.UUID) (int64, error) {
	args := m.Called(ctx, tenantID, roleID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRoleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

type MockBranchRepository struct {
	mock.Mock
}

func (m *MockBranchRepository) Create(ctx context.Context, b *identity.Branch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBranchRepository) Save(ctx context.Context, b *identity.Branch) error {
	return m.Called(ctx, b).Error(0)
}

func (m *MockBranchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Branch, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Branch), args.Error(1)
}

func (m *MockBranchRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Branch, int64, error) {
	args := m.Called(ctx, tenantID, filter)
	return args.Get(0).([]identity.Branch), args.Get(1).(int64), args.Error(2)
}

func (m *MockBranchRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	args := m.Called(ctx, tenantID, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockBranchRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return m.Called(ctx, tenantID, id).Error(0)
}

var (
	_ identity.UserRepository   = (*MockUserRepository)(nil)
	_ identity.RoleRepository   = (*MockRoleRepository)(nil)
	_ identity.BranchRepository = (*MockBranchRepository)(nil)
)
