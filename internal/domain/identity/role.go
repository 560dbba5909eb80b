package identity

import (
	"regexp"
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
)

var roleCodePattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,49}$`)

// Role groups permission codes
type Role struct {
	shared.TenantAggregateRoot
	Code        string `gorm:"size:50;not null"`
	Name        string `gorm:"size:120;not null"`
	Description string `gorm:"size:500"`
	IsSystem    bool   `gorm:"not null;default:false"`
	// Permissions live in role_permissions and are loaded by the repository
	Permissions []string `gorm:"-"`
}

func (Role) TableName() string { return "roles" }

// RolePermission is one row of the role_permissions join table
type RolePermission struct {
	RoleID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	Code     string    `gorm:"size:100;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// NewRole creates a custom role
func NewRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !roleCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_CODE", "Role code must start with a letter and contain only lowercase letters, digits and underscores")
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	return &Role{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Code:                code,
		Name:                strings.TrimSpace(name),
		Permissions:         []string{},
	}, nil
}

// NewSystemRole creates a role that cannot be deleted
func NewSystemRole(tenantID uuid.UUID, code, name string) (*Role, error) {
	r, err := NewRole(tenantID, code, name)
	if err != nil {
		return nil, err
	}
	r.IsSystem = true
	return r, nil
}

// Update changes name and description
func (r *Role) Update(name, description string) error {
	if err := validateName(name); err != nil {
		return err
	}
	r.Name = strings.TrimSpace(name)
	r.Description = description
	r.IncrementVersion()
	return nil
}

// SetPermissions replaces the permission set; codes are validated and deduplicated
func (r *Role) SetPermissions(codes []string) error {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToLower(strings.TrimSpace(c))
		if err := ValidatePermissionCode(c); err != nil {
			return err
		}
		if _, dup := seen[c]; dup {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	sort.Strings(out)
	r.Permissions = out
	r.IncrementVersion()
	return nil
}

// CanDelete reports whether the role is user defined
func (r *Role) CanDelete() bool {
	return !r.IsSystem
}
