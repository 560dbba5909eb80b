package integration

import (
	"encoding/json"
	"time"

	"github.com/repairpos/backend/internal/domain/integration"
)

// UpsertConfigRequest replaces the settings of a provider. An empty access token keeps the stored one.
type UpsertConfigRequest struct {
	Settings    map[string]interface{} `json:"settings"`
	AccessToken string                 `json:"access_token" binding:"max=4096"`
}

// SetEnabledRequest toggles an integration
type SetEnabledRequest struct {
	Enabled bool `json:"enabled"`
}

// ConfigResponse is a provider configuration without its credentials
type ConfigResponse struct {
	Provider       string                 `json:"provider"`
	Configured     bool                   `json:"configured"`
	Enabled        bool                   `json:"enabled"`
	Settings       map[string]interface{} `json:"settings"`
	HasCredentials bool                   `json:"has_credentials"`
	UpdatedAt      *time.Time             `json:"updated_at,omitempty"`
	Version        int                    `json:"version,omitempty"`
}

// TestResult is the outcome of a connection test
type TestResult struct {
	Provider string `json:"provider"`
	OK       bool   `json:"ok"`
	Message  string `json:"message,omitempty"`
}

// ProxyRequest forwards a call to the provider API
type ProxyRequest struct {
	Method string          `json:"method" binding:"required"`
	Path   string          `json:"path" binding:"required,max=500"`
	Body   json.RawMessage `json:"body,omitempty" swaggertype:"object"`
}

// ProxyResponse is the provider answer. Body is the raw JSON, or a string for other content.
type ProxyResponse struct {
	Status      int             `json:"status"`
	ContentType string          `json:"content_type,omitempty"`
	Body        json.RawMessage `json:"body,omitempty" swaggertype:"object"`
}

func toConfigResponse(c *integration.Config) ConfigResponse {
	settings := map[string]interface{}(c.Settings)
	if settings == nil {
		settings = map[string]interface{}{}
	}
	updated := c.UpdatedAt
	return ConfigResponse{
		Provider:       string(c.Provider),
		Configured:     true,
		Enabled:        c.Enabled,
		Settings:       settings,
		HasCredentials: c.HasCredentials(),
		UpdatedAt:      &updated,
		Version:        c.Version,
	}
}

func unconfigured(p integration.Provider) ConfigResponse {
	return ConfigResponse{Provider: string(p), Settings: map[string]interface{}{}}
}

func toProxyResponse(r *integration.ProxyResponse) ProxyResponse {
	out := ProxyResponse{Status: r.Status, ContentType: r.Header.Get("Content-Type")}
	switch {
	case len(r.Body) == 0:
	case json.Valid(r.Body):
		out.Body = json.RawMessage(r.Body)
	default:
		raw, _ := json.Marshal(string(r.Body))
		out.Body = raw
	}
	return out
}
