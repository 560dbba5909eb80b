package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/infrastructure/auth"
)

// LoginInput contains the input for user login
type LoginInput struct {
	TenantID uuid.UUID
	Username string
	Password string
}

// LoginResult carries the token pair and the logged in user
type LoginResult struct {
	auth.TokenPair
	User UserInfo `json:"user"`
}

// UserInfo is the session view of a user
type UserInfo struct {
	ID          uuid.UUID   `json:"id"`
	TenantID    uuid.UUID   `json:"tenant_id"`
	Username    string      `json:"username"`
	DisplayName string      `json:"display_name"`
	Email       string      `json:"email,omitempty"`
	BranchID    *uuid.UUID  `json:"branch_id,omitempty"`
	RoleIDs     []uuid.UUID `json:"role_ids"`
	Permissions []string    `json:"permissions"`
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	TenantID       uuid.UUID
	UserID         uuid.UUID
	AccessTokenID  string
	AccessTokenTTL time.Duration
	// RefreshToken is optional; when valid it is revoked too
	RefreshToken string
}

// CreateBranchInput contains input for creating a branch
type CreateBranchInput struct {
	Code    string
	Name    string
	Address string
	Phone   string
}

// UpdateBranchInput contains input for updating a branch
type UpdateBranchInput struct {
	Name    string
	Address string
	Phone   string
}

// BranchDTO represents a branch
type BranchDTO struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Address   string    `json:"address,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	IsActive  bool      `json:"is_active"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toBranchDTO(b *identity.Branch) BranchDTO {
	return BranchDTO{
		ID:        b.ID,
		TenantID:  b.TenantID,
		Code:      b.Code,
		Name:      b.Name,
		Address:   b.Address,
		Phone:     b.Phone,
		IsActive:  b.IsActive,
		Version:   b.Version,
		CreatedAt: b.CreatedAt,
		UpdatedAt: b.UpdatedAt,
	}
}

// CreateRoleInput contains input for creating a role
type CreateRoleInput struct {
	Code        string
	Name        string
	Description string
	Permissions []string
}

// UpdateRoleInput contains input for updating a role
type UpdateRoleInput struct {
	Name        string
	Description string
}

// RoleDTO represents a role with its permission codes
type RoleDTO struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	Code        string    `json:"code"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	Permissions []string  `json:"permissions"`
	Version     int       `json:"version"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toRoleDTO(r *identity.Role) RoleDTO {
	perms := r.Permissions
	if perms == nil {
		perms = []string{}
	}
	return RoleDTO{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		IsSystem:    r.IsSystem,
		Permissions: perms,
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	Username    string
	Password    string
	DisplayName string
	Email       string
	Phone       string
	BranchID    *uuid.UUID
	RoleIDs     []uuid.UUID
}

// UpdateUserInput contains input for updating a user profile
type UpdateUserInput struct {
	DisplayName string
	Email       string
	Phone       string
	BranchID    *uuid.UUID
}

// ChangePasswordInput contains input for a password change
type ChangePasswordInput struct {
	OldPassword string
	NewPassword string
}

// UserDTO represents a user; the password hash never leaves the service
type UserDTO struct {
	ID             uuid.UUID   `json:"id"`
	TenantID       uuid.UUID   `json:"tenant_id"`
	Username       string      `json:"username"`
	DisplayName    string      `json:"display_name"`
	Email          string      `json:"email,omitempty"`
	Phone          string      `json:"phone,omitempty"`
	Status         string      `json:"status"`
	BranchID       *uuid.UUID  `json:"branch_id,omitempty"`
	RoleIDs        []uuid.UUID `json:"role_ids"`
	FailedAttempts int         `json:"failed_attempts"`
	LockedUntil    *time.Time  `json:"locked_until,omitempty"`
	LastLoginAt    *time.Time  `json:"last_login_at,omitempty"`
	Version        int         `json:"version"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

func toUserDTO(u *identity.User) UserDTO {
	roleIDs := u.RoleIDs
	if roleIDs == nil {
		roleIDs = []uuid.UUID{}
	}
	return UserDTO{
		ID:             u.ID,
		TenantID:       u.TenantID,
		Username:       u.Username,
		DisplayName:    u.DisplayName,
		Email:          u.Email,
		Phone:          u.Phone,
		Status:         string(u.Status),
		BranchID:       u.BranchID,
		RoleIDs:        roleIDs,
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		LastLoginAt:    u.LastLoginAt,
		Version:        u.Version,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}
