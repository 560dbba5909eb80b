package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/repairpos/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// PermissionConfig holds configuration for permission middleware
type PermissionConfig struct {
	Logger *zap.Logger
}

// RequirePermission requires one permission code, e.g. "sales:create"
func RequirePermission(permission string) gin.HandlerFunc {
	return RequireAnyPermission(permission)
}

// RequireAnyPermission requires at least one of the listed permissions
func RequireAnyPermission(permissions ...string) gin.HandlerFunc {
	return RequireAnyPermissionWithConfig(PermissionConfig{}, permissions...)
}

// RequireAnyPermissionWithConfig is RequireAnyPermission with a logger
func RequireAnyPermissionWithConfig(cfg PermissionConfig, permissions ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := GetJWTClaims(c)
		if claims == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeUnauthorized, "Authentication required", c.GetString(RequestIDKey)))
			return
		}
		if !claims.HasAnyPermission(permissions...) {
			if cfg.Logger != nil {
				cfg.Logger.Info("Permission denied",
					zap.String("user_id", claims.UserID),
					zap.Strings("required_any", permissions),
				)
			}
			c.AbortWithStatusJSON(http.StatusForbidden,
				dto.NewErrorResponseWithRequestID(dto.ErrCodeForbidden, "You do not have permission to perform this action", c.GetString(RequestIDKey)))
			return
		}
		c.Next()
	}
}

// RequireResource derives the action from the HTTP method and requires "resource:action"
func RequireResource(resource string) gin.HandlerFunc {
	return RequireResourceWithConfig(PermissionConfig{}, resource)
}

// RequireResourceWithConfig is RequireResource with a logger
func RequireResourceWithConfig(cfg PermissionConfig, resource string) gin.HandlerFunc {
	return func(c *gin.Context) {
		action := methodToAction(c.Request.Method)
		RequireAnyPermissionWithConfig(cfg, resource+":"+action)(c)
	}
}

func methodToAction(method string) string {
	switch method {
	case http.MethodGet, http.MethodHead:
		return "read"
	case http.MethodPost:
		return "create"
	case http.MethodPut, http.MethodPatch:
		return "update"
	case http.MethodDelete:
		return "delete"
	default:
		return "read"
	}
}
