package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

// BranchRepository persists branches
type BranchRepository interface {
	Create(ctx context.Context, b *Branch) error
	Save(ctx context.Context, b *Branch) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Branch, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Branch, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// RoleRepository persists roles together with their permission codes
type RoleRepository interface {
	Create(ctx context.Context, r *Role) error
	Save(ctx context.Context, r *Role) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*Role, error)
	FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]Role, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]Role, int64, error)
	ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error)
	CountUsers(ctx context.Context, tenantID, roleID uuid.UUID) (int64, error)
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}

// UserRepository persists users together with their role assignment
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*User, error)
	FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]User, int64, error)
	ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error)
}
