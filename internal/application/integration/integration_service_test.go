package integration

import (
	"context"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/integration"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var tenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

type memoryConfigs struct {
	rows map[integration.Provider]integration.Config
}

func newMemoryConfigs() *memoryConfigs {
	return &memoryConfigs{rows: map[integration.Provider]integration.Config{}}
}

func (m *memoryConfigs) Create(_ context.Context, c *integration.Config) error {
	if _, ok := m.rows[c.Provider]; ok {
		return shared.ErrAlreadyExists
	}
	m.rows[c.Provider] = *c
	return nil
}

func (m *memoryConfigs) Save(_ context.Context, c *integration.Config) error {
	if m.rows[c.Provider].Version+1 != c.Version {
		return shared.ErrConcurrencyConflict
	}
	m.rows[c.Provider] = *c
	return nil
}

func (m *memoryConfigs) FindByProvider(_ context.Context, tenant uuid.UUID, p integration.Provider) (*integration.Config, error) {
	c, ok := m.rows[p]
	if !ok || c.TenantID != tenant {
		return nil, shared.ErrNotFound
	}
	return &c, nil
}

func (m *memoryConfigs) FindAll(_ context.Context, tenant uuid.UUID) ([]integration.Config, error) {
	var out []integration.Config
	for _, c := range m.rows {
		if c.TenantID == tenant {
			out = append(out, c)
		}
	}
	return out, nil
}

type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Test(ctx context.Context, cfg *integration.Config) error {
	return m.Called(ctx, cfg).Error(0)
}

func (m *MockGateway) Proxy(ctx context.Context, cfg *integration.Config, req integration.ProxyRequest) (*integration.ProxyResponse, error) {
	args := m.Called(ctx, cfg, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.ProxyResponse), args.Error(1)
}

func (m *MockGateway) SendWhatsApp(ctx context.Context, cfg *integration.Config, to, body string) (string, error) {
	args := m.Called(ctx, cfg, to, body)
	return args.String(0), args.Error(1)
}

func (m *MockGateway) NowPlaying(ctx context.Context, cfg *integration.Config) (*integration.Track, error) {
	args := m.Called(ctx, cfg)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*integration.Track), args.Error(1)
}

func (m *MockGateway) PushListing(ctx context.Context, cfg *integration.Config, l integration.ListingPush) (string, error) {
	args := m.Called(ctx, cfg, l)
	return args.String(0), args.Error(1)
}

func TestIntegrationService_ConfigureAndEnable(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryConfigs()
	svc := NewIntegrationService(repo, &MockGateway{}, nil)

	list, err := svc.List(ctx, tenantID)
	require.NoError(t, err)
	require.Len(t, list, len(integration.Providers))
	for _, c := range list {
		assert.False(t, c.Configured)
	}

	_, err = svc.SetEnabled(ctx, tenantID, "whatsapp", true)
	assert.Equal(t, "INTEGRATION_NOT_CONFIGURED", shared.ErrorCode(err))

	resp, err := svc.Upsert(ctx, tenantID, "WhatsApp", UpsertConfigRequest{
		Settings: map[string]interface{}{"phone_number_id": "1234"},
	})
	require.NoError(t, err)
	assert.True(t, resp.Configured)
	assert.False(t, resp.HasCredentials)

	_, err = svc.SetEnabled(ctx, tenantID, "whatsapp", true)
	assert.Equal(t, "CREDENTIALS_REQUIRED", shared.ErrorCode(err))

	resp, err = svc.Upsert(ctx, tenantID, "whatsapp", UpsertConfigRequest{
		Settings:    map[string]interface{}{"phone_number_id": "1234"},
		AccessToken: "secret",
	})
	require.NoError(t, err)
	assert.True(t, resp.HasCredentials)

	resp, err = svc.SetEnabled(ctx, tenantID, "whatsapp", true)
	require.NoError(t, err)
	assert.True(t, resp.Enabled)

	got, err := svc.Get(ctx, tenantID, "whatsapp")
	require.NoError(t, err)
	assert.Equal(t, "1234", got.Settings["phone_number_id"])

	_, err = svc.Get(ctx, tenantID, "telegram")
	assert.Equal(t, "INVALID_PROVIDER", shared.ErrorCode(err))

	_, err = svc.Upsert(ctx, tenantID, "spotify", UpsertConfigRequest{Settings: map[string]interface{}{"base_url": "ftp://x"}})
	assert.Equal(t, "INVALID_SETTINGS", shared.ErrorCode(err))
}

func TestIntegrationService_Test(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryConfigs()
	gateway := &MockGateway{}
	svc := NewIntegrationService(repo, gateway, nil)

	_, err := svc.Upsert(ctx, tenantID, "spotify", UpsertConfigRequest{AccessToken: "tok"})
	require.NoError(t, err)

	gateway.On("Test", ctx, mock.Anything).Return(integration.ErrProviderRequestFailed).Once()
	result, err := svc.Test(ctx, tenantID, "spotify")
	require.NoError(t, err)
	assert.False(t, result.OK)
	assert.NotEmpty(t, result.Message)

	gateway.On("Test", ctx, mock.Anything).Return(nil).Once()
	result, err = svc.Test(ctx, tenantID, "spotify")
	require.NoError(t, err)
	assert.True(t, result.OK)
	gateway.AssertExpectations(t)
}

func TestIntegrationService_Proxy(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryConfigs()
	gateway := &MockGateway{}
	svc := NewIntegrationService(repo, gateway, nil)

	_, err := svc.Proxy(ctx, tenantID, "mercadolivre", ProxyRequest{Method: "TRACE", Path: "users/me"})
	assert.Equal(t, "INVALID_METHOD", shared.ErrorCode(err))
	_, err = svc.Proxy(ctx, tenantID, "mercadolivre", ProxyRequest{Method: "get", Path: "https://evil.example/x"})
	assert.Equal(t, "INVALID_PATH", shared.ErrorCode(err))
	_, err = svc.Proxy(ctx, tenantID, "mercadolivre", ProxyRequest{Method: "get", Path: "users/me"})
	assert.ErrorIs(t, err, integration.ErrNotEnabled)

	_, err = svc.Upsert(ctx, tenantID, "mercadolivre", UpsertConfigRequest{AccessToken: "tok"})
	require.NoError(t, err)
	_, err = svc.SetEnabled(ctx, tenantID, "mercadolivre", true)
	require.NoError(t, err)

	gateway.On("Proxy", ctx, mock.Anything, integration.ProxyRequest{Method: http.MethodGet, Path: "users/me"}).
		Return(&integration.ProxyResponse{
			Status: 200,
			Header: http.Header{"Content-Type": []string{"application/json"}},
			Body:   []byte(`{"id":42}`),
		}, nil).Once()
	resp, err := svc.Proxy(ctx, tenantID, "mercadolivre", ProxyRequest{Method: "get", Path: "users/me"})
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.JSONEq(t, `{"id":42}`, string(resp.Body))

	gateway.On("Proxy", ctx, mock.Anything, integration.ProxyRequest{Method: http.MethodGet, Path: "ping"}).
		Return(&integration.ProxyResponse{Status: 200, Header: http.Header{}, Body: []byte("pong")}, nil).Once()
	resp, err = svc.Proxy(ctx, tenantID, "mercadolivre", ProxyRequest{Method: "GET", Path: "ping"})
	require.NoError(t, err)
	assert.Equal(t, `"pong"`, string(resp.Body))
	gateway.AssertExpectations(t)
}

func TestIntegrationService_NowPlaying(t *testing.T) {
	ctx := context.Background()
	repo := newMemoryConfigs()
	gateway := &MockGateway{}
	svc := NewIntegrationService(repo, gateway, nil)

	_, err := svc.NowPlaying(ctx, tenantID)
	assert.ErrorIs(t, err, integration.ErrNotEnabled)

	_, err = svc.Upsert(ctx, tenantID, "spotify", UpsertConfigRequest{AccessToken: "tok"})
	require.NoError(t, err)
	_, err = svc.SetEnabled(ctx, tenantID, "spotify", true)
	require.NoError(t, err)

	gateway.On("NowPlaying", ctx, mock.Anything).Return(&integration.Track{Playing: true, Name: "Song"}, nil)
	track, err := svc.NowPlaying(ctx, tenantID)
	require.NoError(t, err)
	assert.Equal(t, "Song", track.Name)
}
