package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/repairpos/backend/internal/infrastructure/auth"
	"github.com/repairpos/backend/internal/infrastructure/logger"
	"github.com/repairpos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Gin context keys set by the JWT middleware
const (
	JWTClaimsKey      = "jwt_claims"
	JWTUserIDKey      = "jwt_user_id"
	JWTTenantIDKey    = "jwt_tenant_id"
	JWTUsernameKey    = "jwt_username"
	JWTBranchIDKey    = "jwt_branch_id"
	JWTRoleIDsKey     = "jwt_role_ids"
	JWTPermissionsKey = "jwt_permissions"
)

const bearerPrefix = "Bearer "

// TokenValidator validates access tokens
type TokenValidator interface {
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// JWTMiddlewareConfig configures JWTAuthMiddlewareWithConfig
type JWTMiddlewareConfig struct {
	Validator TokenValidator
	// Blacklist is optional. Lookup failures let the request through.
	Blacklist        auth.TokenBlacklist
	SkipPaths        []string
	SkipPathPrefixes []string
	Logger           *zap.Logger
}

// JWTAuthMiddleware validates the bearer token with default settings
func JWTAuthMiddleware(validator TokenValidator) gin.HandlerFunc {
	return JWTAuthMiddlewareWithConfig(JWTMiddlewareConfig{Validator: validator})
}

// JWTAuthMiddlewareWithConfig validates the bearer token and stores the claims in the gin context.
// Every failure is answered with 401 so the client knows to log in again.
func JWTAuthMiddlewareWithConfig(cfg JWTMiddlewareConfig) gin.HandlerFunc {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if _, ok := skip[path]; ok {
			c.Next()
			return
		}
		for _, prefix := range cfg.SkipPathPrefixes {
			if strings.HasPrefix(path, prefix) {
				c.Next()
				return
			}
		}

		header := c.GetHeader("Authorization")
		if header == "" {
			abortUnauthorized(c, dto.ErrCodeUnauthorized, "Authorization header is required")
			return
		}
		if !strings.HasPrefix(header, bearerPrefix) {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Authorization header must use the Bearer scheme")
			return
		}
		token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
		if token == "" {
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token is empty")
			return
		}

		claims, err := cfg.Validator.ValidateAccessToken(token)
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				abortUnauthorized(c, dto.ErrCodeTokenExpired, "Token has expired")
				return
			}
			log.Debug("Rejected access token", zap.Error(err))
			abortUnauthorized(c, dto.ErrCodeTokenInvalid, "Token is invalid")
			return
		}

		if cfg.Blacklist != nil && claims.ID != "" {
			revoked, err := cfg.Blacklist.IsRevoked(c.Request.Context(), claims.ID)
			if err != nil {
				log.Warn("Token blacklist lookup failed", zap.Error(err))
			} else if revoked {
				abortUnauthorized(c, dto.ErrCodeTokenInvalid, auth.ErrTokenRevoked.Error())
				return
			}
		}

		c.Set(JWTClaimsKey, claims)
		c.Set(JWTUserIDKey, claims.UserID)
		c.Set(JWTTenantIDKey, claims.TenantID)
		c.Set(JWTUsernameKey, claims.Username)
		c.Set(JWTBranchIDKey, claims.BranchID)
		c.Set(JWTRoleIDsKey, claims.RoleIDs)
		c.Set(JWTPermissionsKey, claims.Permissions)

		ctx := c.Request.Context()
		reqLogger := logger.FromContext(ctx)
		ctx, reqLogger = logger.WithTenantID(ctx, reqLogger, claims.TenantID)
		ctx, _ = logger.WithUserID(ctx, reqLogger, claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, code, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		dto.NewErrorResponseWithRequestID(code, message, c.GetString(RequestIDKey)))
}

// GetJWTClaims returns the validated claims or nil
func GetJWTClaims(c *gin.Context) *auth.Claims {
	v, ok := c.Get(JWTClaimsKey)
	if !ok {
		return nil
	}
	claims, _ := v.(*auth.Claims)
	return claims
}

// GetJWTUserID returns the user ID claim
func GetJWTUserID(c *gin.Context) string {
	return c.GetString(JWTUserIDKey)
}

// GetJWTTenantID returns the tenant ID claim
func GetJWTTenantID(c *gin.Context) string {
	return c.GetString(JWTTenantIDKey)
}

// GetJWTBranchID returns the branch ID claim
func GetJWTBranchID(c *gin.Context) string {
	return c.GetString(JWTBranchIDKey)
}
