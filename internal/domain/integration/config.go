package integration

import (
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/datatypes"
)

// Provider is an external service the shop connects to
type Provider string

const (
	ProviderWhatsApp     Provider = "whatsapp"
	ProviderSpotify      Provider = "spotify"
	ProviderMercadoLivre Provider = "mercadolivre"
	ProviderShopee       Provider = "shopee"
)

// Providers lists every supported provider
var Providers = []Provider{ProviderWhatsApp, ProviderSpotify, ProviderMercadoLivre, ProviderShopee}

func (p Provider) IsValid() bool {
	for _, known := range Providers {
		if p == known {
			return true
		}
	}
	return false
}

// Config holds the settings and credentials of one provider for a tenant.
// AccessToken is never exposed outside the application layer.
type Config struct {
	shared.TenantAggregateRoot
	Provider    Provider          `gorm:"type:varchar(30);not null"`
	Enabled     bool              `gorm:"not null"`
	Settings    datatypes.JSONMap `gorm:"type:jsonb"`
	AccessToken string            `gorm:"type:text"`
}

func (Config) TableName() string {
	return "integration_configs"
}

// NewConfig creates a disabled configuration
func NewConfig(tenantID uuid.UUID, provider Provider) (*Config, error) {
	if !provider.IsValid() {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Unknown integration provider: "+string(provider))
	}
	return &Config{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Provider:            provider,
		Settings:            datatypes.JSONMap{},
	}, nil
}

// Update replaces the settings; an empty token keeps the stored one
func (c *Config) Update(settings map[string]interface{}, accessToken string) error {
	if base, ok := settings["base_url"].(string); ok && base != "" &&
		!strings.HasPrefix(base, "https://") && !strings.HasPrefix(base, "http://") {
		return shared.NewDomainError("INVALID_SETTINGS", "base_url must be an http(s) URL")
	}
	if settings != nil {
		c.Settings = datatypes.JSONMap(settings)
	}
	if accessToken = strings.TrimSpace(accessToken); accessToken != "" {
		c.AccessToken = accessToken
	}
	c.IncrementVersion()
	return nil
}

// SetEnabled toggles the integration; enabling requires credentials
func (c *Config) SetEnabled(enabled bool) error {
	if enabled && !c.HasCredentials() {
		return shared.NewDomainError("CREDENTIALS_REQUIRED", "Configure an access token before enabling the integration")
	}
	c.Enabled = enabled
	c.IncrementVersion()
	return nil
}

func (c *Config) HasCredentials() bool {
	return c.AccessToken != ""
}

// Setting returns a string setting or def
func (c *Config) Setting(key, def string) string {
	if v, ok := c.Settings[key].(string); ok && v != "" {
		return v
	}
	return def
}
