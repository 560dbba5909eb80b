package handler

import (
	"github.com/gin-gonic/gin"
	identityapp "github.com/repairpos/backend/internal/application/identity"
	"github.com/repairpos/backend/internal/interfaces/http/middleware"
)

// AuthHandler handles login, refresh, logout and the session user
type AuthHandler struct {
	BaseHandler
	authService *identityapp.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identityapp.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// LoginRequest carries the credentials
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=100" example:"admin"`
	Password string `json:"password" binding:"required,max=128" example:"secret123"`
}

// RefreshRequest carries the refresh token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally names the refresh token to revoke with the access token
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Login godoc
// @ID           login
// @Summary      Log in
// @Description  Authenticates with username and password. Five consecutive failures lock the account for 15 minutes.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        X-Tenant-ID header string false "Tenant ID"
// @Param        request body LoginRequest true "Credentials"
// @Success      200 {object} APIResponse[identityapp.LoginResult]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.authService.Login(c.Request.Context(), identityapp.LoginInput{
		TenantID: tenantID,
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Refresh the token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[auth.TokenPair]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !h.bindJSON(c, &req) {
		return
	}
	pair, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, pair)
}

// Logout godoc
// @ID           logout
// @Summary      Log out
// @Description  Blacklists the access token and, when given, the refresh token
// @Tags         auth
// @Accept       json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	var req LogoutRequest
	if c.Request.ContentLength > 0 && !h.bindJSON(c, &req) {
		return
	}
	input := identityapp.LogoutInput{TenantID: tenantID, UserID: userID, RefreshToken: req.RefreshToken}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.AccessTokenID = claims.ID
		input.AccessTokenTTL = claims.RemainingTTL()
	}
	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @ID           me
// @Summary      Current user
// @Description  Returns the logged in user with freshly resolved permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[identityapp.UserInfo]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	tenantID, userID, ok := h.actor(c)
	if !ok {
		return
	}
	info, err := h.authService.Me(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, info)
}
