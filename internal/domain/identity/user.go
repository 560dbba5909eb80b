package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus is the login status of a user
type UserStatus string

const (
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
	UserStatusLocked   UserStatus = "locked"
)

const bcryptCost = 12

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	emailPattern    = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)
	hasLetter       = regexp.MustCompile(`[a-zA-Z]`)
	hasDigit        = regexp.MustCompile(`[0-9]`)
)

// User is an employee account (seller, technician, manager)
type User struct {
	shared.TenantAggregateRoot
	Username       string     `gorm:"size:100;not null"`
	DisplayName    string     `gorm:"size:120"`
	Email          string     `gorm:"size:200"`
	Phone          string     `gorm:"size:30"`
	PasswordHash   string     `gorm:"size:255;not null"`
	Status         UserStatus `gorm:"size:20;not null"`
	BranchID       *uuid.UUID `gorm:"type:uuid"`
	FailedAttempts int        `gorm:"not null;default:0"`
	LockedUntil    *time.Time
	LastLoginAt    *time.Time
	// RoleIDs live in user_roles and are loaded by the repository
	RoleIDs []uuid.UUID `gorm:"-"`
}

func (User) TableName() string { return "users" }

// UserRole is one row of the user_roles join table
type UserRole struct {
	UserID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	RoleID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	TenantID uuid.UUID `gorm:"type:uuid;not null;index"`
}

func (UserRole) TableName() string { return "user_roles" }

// NewUser creates an active user with a bcrypt password hash
func NewUser(tenantID uuid.UUID, username, password string) (*User, error) {
	username = strings.ToLower(strings.TrimSpace(username))
	if len(username) < 3 || len(username) > 100 || !usernamePattern.MatchString(username) {
		return nil, shared.NewDomainError("INVALID_USERNAME", "Username must have 3 to 100 letters, digits, dots, dashes or underscores")
	}
	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}
	u := &User{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Username:            username,
		PasswordHash:        hash,
		Status:              UserStatusActive,
		RoleIDs:             []uuid.UUID{},
	}
	u.AddDomainEvent(NewUserCreatedEvent(u))
	return u, nil
}

// UpdateProfile changes the contact fields and home branch
func (u *User) UpdateProfile(displayName, email, phone string, branchID *uuid.UUID) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && (len(email) > 200 || !emailPattern.MatchString(email)) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(displayName) > 120 {
		return shared.NewDomainError("INVALID_NAME", "Display name cannot exceed 120 characters")
	}
	u.DisplayName = strings.TrimSpace(displayName)
	u.Email = email
	u.Phone = phone
	u.BranchID = branchID
	u.IncrementVersion()
	return nil
}

// SetRoles replaces the role assignment
func (u *User) SetRoles(roleIDs []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(roleIDs))
	out := make([]uuid.UUID, 0, len(roleIDs))
	for _, id := range roleIDs {
		if _, dup := seen[id]; dup || id == uuid.Nil {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	u.RoleIDs = out
	u.IncrementVersion()
}

// ChangePassword verifies the old password before setting the new one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewDomainError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword replaces the password hash
func (u *User) SetPassword(password string) error {
	hash, err := hashPassword(password)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.IncrementVersion()
	return nil
}

// VerifyPassword compares password with the stored hash
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func (u *User) Activate() error {
	if u.Status == UserStatusActive {
		return shared.NewDomainError("ALREADY_ACTIVE", "User is already active")
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.IncrementVersion()
	return nil
}

func (u *User) Deactivate() error {
	if u.Status == UserStatusInactive {
		return shared.NewDomainError("ALREADY_INACTIVE", "User is already inactive")
	}
	u.Status = UserStatusInactive
	u.IncrementVersion()
	return nil
}

// IsLocked reports whether a lock is in force at now
func (u *User) IsLocked(now time.Time) bool {
	if u.Status != UserStatusLocked {
		return false
	}
	return u.LockedUntil == nil || now.Before(*u.LockedUntil)
}

// CheckCanLogin returns the reason a login must be refused
func (u *User) CheckCanLogin(now time.Time) error {
	switch {
	case u.Status == UserStatusInactive:
		return shared.NewDomainError("ACCOUNT_INACTIVE", "User account is inactive")
	case u.IsLocked(now):
		return shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed attempts, try again later")
	}
	return nil
}

// RecordLoginSuccess clears failures and an expired lock
func (u *User) RecordLoginSuccess(now time.Time) {
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	if u.Status == UserStatusLocked {
		u.Status = UserStatusActive
		u.LockedUntil = nil
	}
	u.IncrementVersion()
}

// RecordLoginFailure counts a failure and locks the account when maxAttempts is reached.
// Returns true when this failure locked the account.
func (u *User) RecordLoginFailure(now time.Time, maxAttempts int, lockDuration time.Duration) bool {
	if u.Status == UserStatusLocked && !u.IsLocked(now) {
		u.Status = UserStatusActive
		u.FailedAttempts = 0
		u.LockedUntil = nil
	}
	u.FailedAttempts++
	locked := false
	if maxAttempts > 0 && u.FailedAttempts >= maxAttempts {
		until := now.Add(lockDuration)
		u.Status = UserStatusLocked
		u.LockedUntil = &until
		u.FailedAttempts = 0
		locked = true
	}
	u.IncrementVersion()
	return locked
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 || len(password) > 72 {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must have 8 to 72 characters")
	}
	if !hasLetter.MatchString(password) || !hasDigit.MatchString(password) {
		return "", shared.NewDomainError("INVALID_PASSWORD", "Password must contain at least one letter and one number")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	return string(hash), nil
}
