// Package integrations calls the WhatsApp Cloud, Spotify Web and marketplace REST APIs
package integrations

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/repairpos/backend/internal/domain/integration"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// maxResponseSize caps what is read from a provider response
const maxResponseSize = 10 * 1024 * 1024

const defaultTimeout = 15 * time.Second

var defaultBaseURLs = map[integration.Provider]string{
	integration.ProviderWhatsApp:     "https://graph.facebook.com/v19.0",
	integration.ProviderSpotify:      "https://api.spotify.com/v1",
	integration.ProviderMercadoLivre: "https://api.mercadolibre.com",
	integration.ProviderShopee:       "https://partner.shopeemobile.com/api/v2",
}

// Client implements integration.Gateway over net/http
type Client struct {
	httpClient   *http.Client
	baseURLs     map[integration.Provider]string
	maxProxyBody int64
	logger       *zap.Logger
}

// NewClient creates a gateway with the configured timeout and base URLs.
// A base_url setting on the tenant config wins over these defaults.
func NewClient(cfg config.IntegrationsConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	bases := make(map[integration.Provider]string, len(defaultBaseURLs))
	for p, u := range defaultBaseURLs {
		bases[p] = u
	}
	if cfg.WhatsAppBaseURL != "" {
		bases[integration.ProviderWhatsApp] = cfg.WhatsAppBaseURL
	}
	if cfg.SpotifyBaseURL != "" {
		bases[integration.ProviderSpotify] = cfg.SpotifyBaseURL
	}
	maxBody := cfg.MaxProxyBody
	if maxBody <= 0 {
		maxBody = 2 << 20
	}
	return &Client{
		httpClient:   &http.Client{Timeout: timeout},
		baseURLs:     bases,
		maxProxyBody: maxBody,
		logger:       logger,
	}
}

func (c *Client) baseURL(cfg *integration.Config) string {
	return strings.TrimRight(cfg.Setting("base_url", c.baseURLs[cfg.Provider]), "/")
}

// do sends an authenticated request and returns the raw response.
// Transport failures map to ErrProviderUnavailable; statuses are left to the caller.
func (c *Client) do(ctx context.Context, cfg *integration.Config, method, path string, body io.Reader, contentType string) (*integration.ProxyResponse, error) {
	if !cfg.HasCredentials() {
		return nil, integration.ErrNotEnabled
	}
	url := c.baseURL(cfg) + "/" + strings.TrimLeft(path, "/")
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", cfg.Provider, err)
	}
	req.Header.Set("Authorization", "Bearer "+cfg.AccessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil && contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Integration request failed",
			zap.String("provider", string(cfg.Provider)),
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", integration.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("%w: reading response: %v", integration.ErrProviderUnavailable, err)
	}
	c.logger.Debug("Integration request",
		zap.String("provider", string(cfg.Provider)),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))
	return &integration.ProxyResponse{Status: resp.StatusCode, Header: resp.Header, Body: data}, nil
}

// doJSON sends payload as JSON and decodes a 2xx answer into out
func (c *Client) doJSON(ctx context.Context, cfg *integration.Config, method, path string, payload, out interface{}) (int, error) {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return 0, err
		}
		body = bytes.NewReader(raw)
	}
	resp, err := c.do(ctx, cfg, method, path, body, "application/json")
	if err != nil {
		return 0, err
	}
	if resp.Status >= 400 {
		return resp.Status, fmt.Errorf("%w: HTTP %d: %s", integration.ErrProviderRequestFailed, resp.Status, snippet(resp.Body))
	}
	if out != nil && len(resp.Body) > 0 {
		if err := json.Unmarshal(resp.Body, out); err != nil {
			return resp.Status, fmt.Errorf("%w: invalid JSON: %v", integration.ErrProviderRequestFailed, err)
		}
	}
	return resp.Status, nil
}

func invalidRequest(msg string) error {
	return shared.NewDomainError("INVALID_REQUEST", msg)
}

func snippet(body []byte) string {
	const max = 200
	s := strings.TrimSpace(string(body))
	if len(s) > max {
		return s[:max] + "..."
	}
	return s
}

// Test performs a cheap authenticated read on the provider
func (c *Client) Test(ctx context.Context, cfg *integration.Config) error {
	var path string
	switch cfg.Provider {
	case integration.ProviderWhatsApp:
		id := cfg.Setting("phone_number_id", "")
		if id == "" {
			return invalidRequest("phone_number_id setting is required")
		}
		path = id
	case integration.ProviderSpotify:
		path = "me"
	case integration.ProviderMercadoLivre:
		path = "users/me"
	case integration.ProviderShopee:
		path = "shop/get_shop_info"
	default:
		return fmt.Errorf("unsupported provider %q", cfg.Provider)
	}
	_, err := c.doJSON(ctx, cfg, http.MethodGet, path, nil, nil)
	return err
}

// Proxy forwards a raw request to the provider and returns its answer, whatever the status
func (c *Client) Proxy(ctx context.Context, cfg *integration.Config, req integration.ProxyRequest) (*integration.ProxyResponse, error) {
	if int64(len(req.Body)) > c.maxProxyBody {
		return nil, invalidRequest(fmt.Sprintf("proxy body exceeds %d bytes", c.maxProxyBody))
	}
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	return c.do(ctx, cfg, req.Method, req.Path, body, "application/json")
}

var _ integration.Gateway = (*Client)(nil)
