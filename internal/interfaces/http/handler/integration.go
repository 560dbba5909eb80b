package handler

import (
	"github.com/gin-gonic/gin"
	integrationapp "github.com/repairpos/backend/internal/application/integration"
)

// IntegrationHandler serves the third party provider settings and their proxy
type IntegrationHandler struct {
	BaseHandler
	integrations *integrationapp.IntegrationService
}

// NewIntegrationHandler creates an IntegrationHandler
func NewIntegrationHandler(integrations *integrationapp.IntegrationService) *IntegrationHandler {
	return &IntegrationHandler{integrations: integrations}
}

// List godoc
// @ID           listIntegrations
// @Summary      List providers
// @Description  Every known provider, configured or not. Credentials are never returned.
// @Tags         integrations
// @Produce      json
// @Success      200 {object} APIResponse[[]integrationapp.ConfigResponse]
// @Security     BearerAuth
// @Router       /integrations [get]
func (h *IntegrationHandler) List(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	configs, err := h.integrations.List(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, configs)
}

// Get godoc
// @ID           getIntegration
// @Summary      Get a provider configuration
// @Tags         integrations
// @Produce      json
// @Param        provider path string true "Provider"
// @Success      200 {object} APIResponse[integrationapp.ConfigResponse]
// @Failure      400 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/{provider} [get]
func (h *IntegrationHandler) Get(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	cfg, err := h.integrations.Get(c.Request.Context(), tenantID, c.Param("provider"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Upsert godoc
// @ID           upsertIntegration
// @Summary      Configure a provider
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        provider path string true "Provider"
// @Param        request body integrationapp.UpsertConfigRequest true "Settings"
// @Success      200 {object} APIResponse[integrationapp.ConfigResponse]
// @Security     BearerAuth
// @Router       /integrations/{provider} [put]
func (h *IntegrationHandler) Upsert(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req integrationapp.UpsertConfigRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cfg, err := h.integrations.Upsert(c.Request.Context(), tenantID, c.Param("provider"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// SetEnabled godoc
// @ID           toggleIntegration
// @Summary      Enable or disable a provider
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        provider path string true "Provider"
// @Param        request body integrationapp.SetEnabledRequest true "Toggle"
// @Success      200 {object} APIResponse[integrationapp.ConfigResponse]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/{provider}/enabled [put]
func (h *IntegrationHandler) SetEnabled(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req integrationapp.SetEnabledRequest
	if !h.bindJSON(c, &req) {
		return
	}
	cfg, err := h.integrations.SetEnabled(c.Request.Context(), tenantID, c.Param("provider"), req.Enabled)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, cfg)
}

// Test godoc
// @ID           testIntegration
// @Summary      Test the provider connection
// @Tags         integrations
// @Produce      json
// @Param        provider path string true "Provider"
// @Success      200 {object} APIResponse[integrationapp.TestResult]
// @Security     BearerAuth
// @Router       /integrations/{provider}/test [post]
func (h *IntegrationHandler) Test(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	result, err := h.integrations.Test(c.Request.Context(), tenantID, c.Param("provider"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Proxy godoc
// @ID           proxyIntegration
// @Summary      Call the provider API
// @Description  Forwards the call with the stored credentials. The provider must be enabled.
// @Tags         integrations
// @Accept       json
// @Produce      json
// @Param        provider path string true "Provider"
// @Param        request body integrationapp.ProxyRequest true "Call"
// @Success      200 {object} APIResponse[integrationapp.ProxyResponse]
// @Failure      422 {object} ErrorResponse
// @Failure      502 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/{provider}/proxy [post]
func (h *IntegrationHandler) Proxy(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	var req integrationapp.ProxyRequest
	if !h.bindJSON(c, &req) {
		return
	}
	resp, err := h.integrations.Proxy(c.Request.Context(), tenantID, c.Param("provider"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// NowPlaying godoc
// @ID           nowPlaying
// @Summary      Track playing in the shop
// @Tags         integrations
// @Produce      json
// @Success      200 {object} APIResponse[integration.Track]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /integrations/spotify/now-playing [get]
func (h *IntegrationHandler) NowPlaying(c *gin.Context) {
	tenantID, ok := h.tenant(c)
	if !ok {
		return
	}
	track, err := h.integrations.NowPlaying(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, track)
}
