package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var (
	branchListSpec = listSpec{
		searchColumns: []string{"code", "name"},
		sortFields:    sortFields("code", "name", "is_active"),
		defaultSort:   "code",
		filters: map[string]string{
			"is_active": "is_active = ?",
		},
	}
	roleListSpec = listSpec{
		searchColumns: []string{"code", "name"},
		sortFields:    sortFields("code", "name"),
		defaultSort:   "code",
		filters: map[string]string{
			"is_system": "is_system = ?",
		},
	}
	userListSpec = listSpec{
		searchColumns: []string{"username", "display_name", "email"},
		sortFields:    sortFields("username", "display_name", "status", "last_login_at"),
		defaultSort:   "username",
		filters: map[string]string{
			"status":    "status = ?",
			"branch_id": "branch_id = ?",
		},
	}
)

// GormBranchRepository implements identity.BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

func (r *GormBranchRepository) Create(ctx context.Context, b *identity.Branch) error {
	return insert(ctx, r.db, b)
}

func (r *GormBranchRepository) Save(ctx context.Context, b *identity.Branch) error {
	return saveVersioned(ctx, r.db, b)
}

func (r *GormBranchRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Branch, error) {
	return findByID[identity.Branch](ctx, r.db, tenantID, id)
}

func (r *GormBranchRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Branch, int64, error) {
	return findPage[identity.Branch](ctx, r.db, tenantID, filter, branchListSpec)
}

// ExistsByCode checks code uniqueness within the tenant
func (r *GormBranchRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.Branch{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToUpper(code)).
		Count(&count).Error
	return count > 0, err
}

func (r *GormBranchRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteByID[identity.Branch](ctx, r.db, tenantID, id)
}

// GormRoleRepository implements identity.RoleRepository.
// Permission codes live in role_permissions and are replaced wholesale on save.
type GormRoleRepository struct {
	db *gorm.DB
}

// NewGormRoleRepository creates a new GormRoleRepository
func NewGormRoleRepository(db *gorm.DB) *GormRoleRepository {
	return &GormRoleRepository{db: db}
}

func (r *GormRoleRepository) Create(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insert(ctx, tx, role); err != nil {
			return err
		}
		return r.replacePermissions(ctx, tx, role)
	})
}

func (r *GormRoleRepository) Save(ctx context.Context, role *identity.Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(ctx, tx, role); err != nil {
			return err
		}
		return r.replacePermissions(ctx, tx, role)
	})
}

func (r *GormRoleRepository) replacePermissions(ctx context.Context, tx *gorm.DB, role *identity.Role) error {
	if err := tx.WithContext(ctx).Where("role_id = ?", role.ID).Delete(&identity.RolePermission{}).Error; err != nil {
		return err
	}
	if len(role.Permissions) == 0 {
		return nil
	}
	rows := make([]identity.RolePermission, len(role.Permissions))
	for i, code := range role.Permissions {
		rows[i] = identity.RolePermission{RoleID: role.ID, Code: code, TenantID: role.TenantID}
	}
	return translateError(tx.WithContext(ctx).Create(&rows).Error)
}

func (r *GormRoleRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.Role, error) {
	role, err := findByID[identity.Role](ctx, r.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	roles := []identity.Role{*role}
	if err := r.loadPermissions(ctx, roles); err != nil {
		return nil, err
	}
	return &roles[0], nil
}

// FindByIDs returns the roles that exist among ids, with permissions
func (r *GormRoleRepository) FindByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]identity.Role, error) {
	roles := make([]identity.Role, 0)
	if len(ids) == 0 {
		return roles, nil
	}
	if err := r.db.WithContext(ctx).Where("tenant_id = ? AND id IN ?", tenantID, ids).Find(&roles).Error; err != nil {
		return nil, err
	}
	if err := r.loadPermissions(ctx, roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *GormRoleRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.Role, int64, error) {
	roles, total, err := findPage[identity.Role](ctx, r.db, tenantID, filter, roleListSpec)
	if err != nil {
		return nil, 0, err
	}
	if err := r.loadPermissions(ctx, roles); err != nil {
		return nil, 0, err
	}
	return roles, total, nil
}

func (r *GormRoleRepository) loadPermissions(ctx context.Context, roles []identity.Role) error {
	if len(roles) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(roles))
	index := make(map[uuid.UUID]int, len(roles))
	for i := range roles {
		ids[i] = roles[i].ID
		index[roles[i].ID] = i
		roles[i].Permissions = []string{}
	}
	var rows []identity.RolePermission
	if err := r.db.WithContext(ctx).Where("role_id IN ?", ids).Order("code").Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		i := index[row.RoleID]
		roles[i].Permissions = append(roles[i].Permissions, row.Code)
	}
	return nil
}

func (r *GormRoleRepository) ExistsByCode(ctx context.Context, tenantID uuid.UUID, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.Role{}).
		Where("tenant_id = ? AND code = ?", tenantID, strings.ToLower(code)).
		Count(&count).Error
	return count > 0, err
}

// CountUsers counts users holding the role
func (r *GormRoleRepository) CountUsers(ctx context.Context, tenantID, roleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.UserRole{}).
		Where("tenant_id = ? AND role_id = ?", tenantID, roleID).
		Count(&count).Error
	return count, err
}

func (r *GormRoleRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("role_id = ?", id).Delete(&identity.RolePermission{}).Error; err != nil {
			return err
		}
		return deleteByID[identity.Role](ctx, tx, tenantID, id)
	})
}

// GormUserRepository implements identity.UserRepository.
// Role assignment lives in user_roles and is replaced wholesale on save.
type GormUserRepository struct {
	db *gorm.DB
}

// NewGormUserRepository creates a new GormUserRepository
func NewGormUserRepository(db *gorm.DB) *GormUserRepository {
	return &GormUserRepository{db: db}
}

func (r *GormUserRepository) Create(ctx context.Context, u *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := insert(ctx, tx, u); err != nil {
			return err
		}
		return r.replaceRoles(ctx, tx, u)
	})
}

func (r *GormUserRepository) Save(ctx context.Context, u *identity.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(ctx, tx, u); err != nil {
			return err
		}
		return r.replaceRoles(ctx, tx, u)
	})
}

func (r *GormUserRepository) replaceRoles(ctx context.Context, tx *gorm.DB, u *identity.User) error {
	if err := tx.WithContext(ctx).Where("user_id = ?", u.ID).Delete(&identity.UserRole{}).Error; err != nil {
		return err
	}
	if len(u.RoleIDs) == 0 {
		return nil
	}
	rows := make([]identity.UserRole, len(u.RoleIDs))
	for i, roleID := range u.RoleIDs {
		rows[i] = identity.UserRole{UserID: u.ID, RoleID: roleID, TenantID: u.TenantID}
	}
	return translateError(tx.WithContext(ctx).Create(&rows).Error)
}

func (r *GormUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*identity.User, error) {
	u, err := findByID[identity.User](ctx, r.db, tenantID, id)
	if err != nil {
		return nil, err
	}
	return u, r.loadRoles(ctx, []*identity.User{u})
}

// FindByUsername looks up a user for login
func (r *GormUserRepository) FindByUsername(ctx context.Context, tenantID uuid.UUID, username string) (*identity.User, error) {
	u, err := findOneBy[identity.User](ctx, r.db, tenantID, "username = ?", strings.ToLower(strings.TrimSpace(username)))
	if err != nil {
		return nil, err
	}
	return u, r.loadRoles(ctx, []*identity.User{u})
}

func (r *GormUserRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]identity.User, int64, error) {
	users, total, err := findPage[identity.User](ctx, r.db, tenantID, filter, userListSpec)
	if err != nil {
		return nil, 0, err
	}
	ptrs := make([]*identity.User, len(users))
	for i := range users {
		ptrs[i] = &users[i]
	}
	if err := r.loadRoles(ctx, ptrs); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *GormUserRepository) loadRoles(ctx context.Context, users []*identity.User) error {
	if len(users) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(users))
	index := make(map[uuid.UUID]*identity.User, len(users))
	for i, u := range users {
		ids[i] = u.ID
		index[u.ID] = u
		u.RoleIDs = []uuid.UUID{}
	}
	var rows []identity.UserRole
	if err := r.db.WithContext(ctx).Where("user_id IN ?", ids).Find(&rows).Error; err != nil {
		return err
	}
	for _, row := range rows {
		u := index[row.UserID]
		u.RoleIDs = append(u.RoleIDs, row.RoleID)
	}
	return nil
}

func (r *GormUserRepository) ExistsByUsername(ctx context.Context, tenantID uuid.UUID, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&identity.User{}).
		Where("tenant_id = ? AND username = ?", tenantID, strings.ToLower(strings.TrimSpace(username))).
		Count(&count).Error
	return count > 0, err
}

var (
	_ identity.BranchRepository = (*GormBranchRepository)(nil)
	_ identity.RoleRepository   = (*GormRoleRepository)(nil)
	_ identity.UserRepository   = (*GormUserRepository)(nil)
)
