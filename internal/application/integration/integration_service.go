// Package integration manages the provider configurations of a tenant and calls through them
package integration

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/integration"
	"github.com/repairpos/backend/internal/domain/shared"
	"go.uber.org/zap"
)

var proxyMethods = map[string]bool{
	http.MethodGet:    true,
	http.MethodPost:   true,
	http.MethodPut:    true,
	http.MethodPatch:  true,
	http.MethodDelete: true,
}

// IntegrationService manages provider configurations
type IntegrationService struct {
	repo    integration.ConfigRepository
	gateway integration.Gateway
	logger  *zap.Logger
}

// NewIntegrationService creates a new IntegrationService
func NewIntegrationService(repo integration.ConfigRepository, gateway integration.Gateway, logger *zap.Logger) *IntegrationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntegrationService{repo: repo, gateway: gateway, logger: logger}
}

func parseProvider(provider string) (integration.Provider, error) {
	p := integration.Provider(strings.ToLower(strings.TrimSpace(provider)))
	if !p.IsValid() {
		return "", shared.NewDomainError("INVALID_PROVIDER", "Unknown integration provider: "+provider)
	}
	return p, nil
}

// List returns every supported provider, configured or not
func (s *IntegrationService) List(ctx context.Context, tenantID uuid.UUID) ([]ConfigResponse, error) {
	configs, err := s.repo.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	byProvider := make(map[integration.Provider]*integration.Config, len(configs))
	for i := range configs {
		byProvider[configs[i].Provider] = &configs[i]
	}
	out := make([]ConfigResponse, 0, len(integration.Providers))
	for _, p := range integration.Providers {
		if c, ok := byProvider[p]; ok {
			out = append(out, toConfigResponse(c))
		} else {
			out = append(out, unconfigured(p))
		}
	}
	return out, nil
}

func (s *IntegrationService) Get(ctx context.Context, tenantID uuid.UUID, provider string) (*ConfigResponse, error) {
	p, err := parseProvider(provider)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByProvider(ctx, tenantID, p)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			resp := unconfigured(p)
			return &resp, nil
		}
		return nil, err
	}
	resp := toConfigResponse(c)
	return &resp, nil
}

// Upsert creates or replaces the configuration of a provider
func (s *IntegrationService) Upsert(ctx context.Context, tenantID uuid.UUID, provider string, req UpsertConfigRequest) (*ConfigResponse, error) {
	p, err := parseProvider(provider)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByProvider(ctx, tenantID, p)
	switch {
	case errors.Is(err, shared.ErrNotFound):
		if c, err = integration.NewConfig(tenantID, p); err != nil {
			return nil, err
		}
		if err := c.Update(req.Settings, req.AccessToken); err != nil {
			return nil, err
		}
		if err := s.repo.Create(ctx, c); err != nil {
			return nil, err
		}
	case err != nil:
		return nil, err
	default:
		if err := c.Update(req.Settings, req.AccessToken); err != nil {
			return nil, err
		}
		if err := s.repo.Save(ctx, c); err != nil {
			return nil, err
		}
	}
	s.logger.Info("Integration configured",
		zap.String("tenant_id", tenantID.String()),
		zap.String("provider", string(p)),
		zap.Bool("has_credentials", c.HasCredentials()))
	resp := toConfigResponse(c)
	return &resp, nil
}

func (s *IntegrationService) SetEnabled(ctx context.Context, tenantID uuid.UUID, provider string, enabled bool) (*ConfigResponse, error) {
	p, err := parseProvider(provider)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByProvider(ctx, tenantID, p)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INTEGRATION_NOT_CONFIGURED", "Configure the integration first")
		}
		return nil, err
	}
	if err := c.SetEnabled(enabled); err != nil {
		return nil, err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	resp := toConfigResponse(c)
	return &resp, nil
}

// Test calls the provider with the stored credentials. Provider failures are reported in
// the result, not as errors.
func (s *IntegrationService) Test(ctx context.Context, tenantID uuid.UUID, provider string) (*TestResult, error) {
	p, err := parseProvider(provider)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.FindByProvider(ctx, tenantID, p)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.NewDomainError("INTEGRATION_NOT_CONFIGURED", "Configure the integration first")
		}
		return nil, err
	}
	result := &TestResult{Provider: string(p), OK: true}
	if err := s.gateway.Test(ctx, c); err != nil {
		result.OK = false
		result.Message = err.Error()
		s.logger.Info("Integration test failed", zap.String("provider", string(p)), zap.Error(err))
	}
	return result, nil
}

// Proxy forwards a call to an enabled provider
func (s *IntegrationService) Proxy(ctx context.Context, tenantID uuid.UUID, provider string, req ProxyRequest) (*ProxyResponse, error) {
	p, err := parseProvider(provider)
	if err != nil {
		return nil, err
	}
	method := strings.ToUpper(strings.TrimSpace(req.Method))
	if !proxyMethods[method] {
		return nil, shared.NewDomainError("INVALID_METHOD", "Method must be GET, POST, PUT, PATCH or DELETE")
	}
	path := strings.TrimSpace(req.Path)
	if strings.Contains(path, "://") || strings.Contains(path, "..") || strings.HasPrefix(path, "//") {
		return nil, shared.NewDomainError("INVALID_PATH", "Path must be relative to the provider API")
	}
	c, err := s.enabled(ctx, tenantID, p)
	if err != nil {
		return nil, err
	}
	resp, err := s.gateway.Proxy(ctx, c, integration.ProxyRequest{Method: method, Path: path, Body: req.Body})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Integration proxy call",
		zap.String("provider", string(p)),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.Status))
	out := toProxyResponse(resp)
	return &out, nil
}

// NowPlaying reads the shop's Spotify player
func (s *IntegrationService) NowPlaying(ctx context.Context, tenantID uuid.UUID) (*integration.Track, error) {
	c, err := s.enabled(ctx, tenantID, integration.ProviderSpotify)
	if err != nil {
		return nil, err
	}
	return s.gateway.NowPlaying(ctx, c)
}

func (s *IntegrationService) enabled(ctx context.Context, tenantID uuid.UUID, p integration.Provider) (*integration.Config, error) {
	c, err := s.repo.FindByProvider(ctx, tenantID, p)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, integration.ErrNotEnabled
		}
		return nil, err
	}
	if !c.Enabled {
		return nil, integration.ErrNotEnabled
	}
	return c, nil
}
