package identity

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/identity"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/infrastructure/auth"
	"github.com/repairpos/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testPassword = "counter123"

type authFixture struct {
	users     *MockUserRepository
	roles     *MockRoleRepository
	blacklist *auth.InMemoryTokenBlacklist
	jwt       *auth.JWTService
	svc       *AuthService
	tenantID  uuid.UUID
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	f := &authFixture{
		users:     new(MockUserRepository),
		roles:     new(MockRoleRepository),
		blacklist: auth.NewInMemoryTokenBlacklist(),
		jwt: auth.NewJWTService(config.JWTConfig{
			Secret:                 "test-secret-key-that-is-long-enough",
			Issuer:                 "repairpos-test",
			AccessTokenExpiration:  15 * time.Minute,
			RefreshTokenExpiration: time.Hour,
		}),
		tenantID: uuid.New(),
	}
	f.svc = NewAuthService(f.users, f.roles, f.jwt, f.blacklist, DefaultAuthServiceConfig(), zap.NewNop())
	return f
}

func (f *authFixture) newUser(t *testing.T, roleIDs ...uuid.UUID) *identity.User {
	t.Helper()
	u, err := identity.NewUser(f.tenantID, "maria", testPassword)
	require.NoError(t, err)
	u.RoleIDs = roleIDs
	return u
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("issues tokens with the union of role permissions", func(t *testing.T) {
		f := newAuthFixture(t)
		roleID := uuid.New()
		user := f.newUser(t, roleID)
		role := identity.Role{Permissions: []string{"sale:create", "repair:read"}}
		role.ID = roleID

		f.users.On("FindByUsername", mock.Anything, f.tenantID, "maria").Return(user, nil)
		f.roles.On("FindByIDs", mock.Anything, f.tenantID, []uuid.UUID{roleID}).Return([]identity.Role{role}, nil)
		f.users.On("Save", mock.Anything, user).Return(nil)

		result, err := f.svc.Login(ctx, LoginInput{TenantID: f.tenantID, Username: "maria", Password: testPassword})
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
		assert.Equal(t, []string{"repair:read", "sale:create"}, result.User.Permissions)
		assert.NotNil(t, user.LastLoginAt)

		claims, err := f.jwt.ValidateAccessToken(result.AccessToken)
		require.NoError(t, err)
		assert.True(t, claims.HasPermission("sale:create"))
		assert.False(t, claims.HasPermission("finance:read"))
	})

	t.Run("unknown user gets invalid credentials", func(t *testing.T) {
		f := newAuthFixture(t)
		f.users.On("FindByUsername", mock.Anything, f.tenantID, "ghost").Return(nil, shared.ErrNotFound)

		_, err := f.svc.Login(ctx, LoginInput{TenantID: f.tenantID, Username: "ghost", Password: testPassword})
		assert.Equal(t, "INVALID_CREDENTIALS", shared.ErrorCode(err))
	})

	t.Run("wrong password counts a failure", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t)
		f.users.On("FindByUsername", mock.Anything, f.tenantID, "maria").Return(user, nil)
		f.users.On("Save", mock.Anything, user).Return(nil)

		_, err := f.svc.Login(ctx, LoginInput{TenantID: f.tenantID, Username: "maria", Password: "wrong-pass1"})
		assert.Equal(t, "INVALID_CREDENTIALS", shared.ErrorCode(err))
		assert.Equal(t, 1, user.FailedAttempts)
		f.users.AssertCalled(t, "Save", mock.Anything, user)
	})

	t.Run("fifth failure locks the account", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t)
		user.FailedAttempts = 4
		f.users.On("FindByUsername", mock.Anything, f.tenantID, "maria").Return(user, nil)
		f.users.On("Save", mock.Anything, user).Return(nil)

		_, err := f.svc.Login(ctx, LoginInput{TenantID: f.tenantID, Username: "maria", Password: "wrong-pass1"})
		assert.Equal(t, "ACCOUNT_LOCKED", shared.ErrorCode(err))
		assert.Equal(t, identity.UserStatusLocked, user.Status)
		require.NotNil(t, user.LockedUntil)
		assert.WithinDuration(t, time.Now().Add(15*time.Minute), *user.LockedUntil, 5*time.Second)

		_, err = f.svc.Login(ctx, LoginInput{TenantID: f.tenantID, Username: "maria", Password: testPassword})
		assert.Equal(t, "ACCOUNT_LOCKED", shared.ErrorCode(err))
	})

	t.Run("inactive user is refused", func(t *testing.T) {
		f := newAuthFixture(t)
		user := f.newUser(t)
		require.NoError(t, user.Deactivate())
		f.users.On("FindByUsername", mock.Anything, f.tenantID, "maria").Return(user, nil)

		_, err := f.svc.Login(ctx, LoginInput{TenantID: f.tenantID, Username: "maria", Password: testPassword})
		assert.Equal(t, "ACCOUNT_INACTIVE", shared.ErrorCode(err))
	})
}

func TestAuthService_RefreshAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture(t)
	user := f.newUser(t)

	pair, err := f.jwt.GenerateTokenPair(auth.TokenInput{TenantID: f.tenantID, UserID: user.ID, Username: user.Username})
	require.NoError(t, err)

	f.users.On("FindByID", mock.Anything, f.tenantID, user.ID).Return(user, nil)

	refreshed, err := f.svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEqual(t, pair.AccessToken, refreshed.AccessToken)

	_, err = f.svc.Refresh(ctx, pair.RefreshToken)
	assert.Equal(t, "TOKEN_INVALID", shared.ErrorCode(err), "a refresh token is single use")

	claims, err := f.jwt.ValidateAccessToken(refreshed.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.Logout(ctx, LogoutInput{
		TenantID:       f.tenantID,
		UserID:         user.ID,
		AccessTokenID:  claims.ID,
		AccessTokenTTL: claims.RemainingTTL(),
		RefreshToken:   refreshed.RefreshToken,
	}))

	revoked, err := f.blacklist.IsRevoked(ctx, claims.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	_, err = f.svc.Refresh(ctx, refreshed.RefreshToken)
	assert.Equal(t, "TOKEN_INVALID", shared.ErrorCode(err))
}

func TestAuthService_RefreshRejectsAccessToken(t *testing.T) {
	f := newAuthFixture(t)
	pair, err := f.jwt.GenerateTokenPair(auth.TokenInput{TenantID: f.tenantID, UserID: uuid.New()})
	require.NoError(t, err)

	_, err = f.svc.Refresh(context.Background(), pair.AccessToken)
	assert.Equal(t, "TOKEN_INVALID", shared.ErrorCode(err))
}
