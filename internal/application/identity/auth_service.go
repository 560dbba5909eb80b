package identity

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int
	LockDuration     time.Duration
}

// DefaultAuthServiceConfig locks an account for 15 minutes after 5 failures
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

var errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid username or password")

// AuthService handles login, token refresh and logout
type AuthService struct {
	userRepo   identity.UserRepository
	roleRepo   identity.RoleRepository
	jwtService *auth.JWTService
	blacklist  auth.TokenBlacklist
	config     AuthServiceConfig
	logger     *zap.Logger
	now        func() time.Time
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	roleRepo identity.RoleRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	config AuthServiceConfig,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		jwtService: jwtService,
		blacklist:  blacklist,
		config:     config,
		logger:     logger,
		now:        time.Now,
	}
}

// Login verifies the credentials and issues a token pair.
// Unknown users and wrong passwords get the same error.
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.userRepo.FindByUsername(ctx, input.TenantID, input.Username)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			s.logger.Warn("Login for unknown user", zap.String("username", input.Username))
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	now := s.now()
	if err := user.CheckCanLogin(now); err != nil {
		s.logger.Warn("Login refused", zap.String("username", user.Username), zap.String("reason", shared.ErrorCode(err)))
		return nil, err
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(now, s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.userRepo.Save(ctx, user); err != nil {
			s.logger.Error("Failed to record login failure", zap.Error(err))
		}
		if locked {
			s.logger.Warn("Account locked after failed attempts", zap.String("username", user.Username))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed attempts, try again later")
		}
		return nil, errInvalidCredentials
	}

	permissions, err := collectPermissions(ctx, s.roleRepo, user.TenantID, user.RoleIDs)
	if err != nil {
		return nil, err
	}

	user.RecordLoginSuccess(now)
	if err := s.userRepo.Save(ctx, user); err != nil {
		s.logger.Error("Failed to record login", zap.Error(err))
	}

	pair, err := s.issue(user, permissions)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("tenant_id", user.TenantID.String()))

	return &LoginResult{TokenPair: *pair, User: toUserInfo(user, permissions)}, nil
}

// Refresh exchanges a refresh token for a new pair and revokes the old refresh token.
// Permissions are reloaded so role changes apply without a new login.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*auth.TokenPair, error) {
	claims, err := s.jwtService.ValidateRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrExpiredToken) {
			return nil, shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
		}
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	}
	if s.blacklist != nil {
		revoked, err := s.blacklist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, err
		}
		if revoked {
			return nil, shared.NewDomainError("TOKEN_INVALID", auth.ErrTokenRevoked.Error())
		}
	}

	tenantID, err := claims.TenantUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid tenant in token")
	}
	userID, err := claims.UserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user in token")
	}

	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("TOKEN_INVALID", "User no longer exists")
		}
		return nil, err
	}
	if err := user.CheckCanLogin(s.now()); err != nil {
		return nil, err
	}

	permissions, err := collectPermissions(ctx, s.roleRepo, tenantID, user.RoleIDs)
	if err != nil {
		return nil, err
	}
	pair, err := s.issue(user, permissions)
	if err != nil {
		return nil, err
	}
	s.revoke(ctx, claims.ID, claims.RemainingTTL())
	return pair, nil
}

// Logout revokes the access token and, when given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AccessTokenID != "" {
		s.revoke(ctx, input.AccessTokenID, input.AccessTokenTTL)
	}
	if input.RefreshToken != "" {
		if claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken); err == nil && claims.UserID == input.UserID.String() {
			s.revoke(ctx, claims.ID, claims.RemainingTTL())
		}
	}
	s.logger.Info("User logged out",
		zap.String("user_id", input.UserID.String()),
		zap.String("tenant_id", input.TenantID.String()))
	return nil
}

// Me returns the current user with freshly resolved permissions
func (s *AuthService) Me(ctx context.Context, tenantID, userID uuid.UUID) (*UserInfo, error) {
	user, err := s.userRepo.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}
	permissions, err := collectPermissions(ctx, s.roleRepo, tenantID, user.RoleIDs)
	if err != nil {
		return nil, err
	}
	info := toUserInfo(user, permissions)
	return &info, nil
}

func (s *AuthService) issue(user *identity.User, permissions []string) (*auth.TokenPair, error) {
	pair, err := s.jwtService.GenerateTokenPair(auth.TokenInput{
		TenantID:    user.TenantID,
		UserID:      user.ID,
		Username:    user.Username,
		BranchID:    user.BranchID,
		RoleIDs:     user.RoleIDs,
		Permissions: permissions,
	})
	if err != nil {
		s.logger.Error("Failed to sign tokens", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return pair, nil
}

func (s *AuthService) revoke(ctx context.Context, jti string, ttl time.Duration) {
	if s.blacklist == nil || jti == "" || ttl <= 0 {
		return
	}
	if err := s.blacklist.Revoke(ctx, jti, ttl); err != nil {
		s.logger.Error("Failed to revoke token", zap.String("jti", jti), zap.Error(err))
	}
}

// collectPermissions returns the sorted union of the permission codes of roleIDs
func collectPermissions(ctx context.Context, roles identity.RoleRepository, tenantID uuid.UUID, roleIDs []uuid.UUID) ([]string, error) {
	if len(roleIDs) == 0 {
		return []string{}, nil
	}
	found, err := roles.FindByIDs(ctx, tenantID, roleIDs)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	for _, r := range found {
		for _, p := range r.Permissions {
			set[p] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out, nil
}

func toUserInfo(u *identity.User, permissions []string) UserInfo {
	display := u.DisplayName
	if display == "" {
		display = u.Username
	}
	roleIDs := u.RoleIDs
	if roleIDs == nil {
		roleIDs = []uuid.UUID{}
	}
	return UserInfo{
		ID:          u.ID,
		TenantID:    u.TenantID,
		Username:    u.Username,
		DisplayName: display,
		Email:       u.Email,
		BranchID:    u.BranchID,
		RoleIDs:     roleIDs,
		Permissions: permissions,
	}
}
