package integration

import (
	"context"

	"github.com/google/uuid"
)

// ConfigRepository persists integration configs, one per tenant and provider
type ConfigRepository interface {
	Create(ctx context.Context, c *Config) error
	Save(ctx context.Context, c *Config) error
	FindByProvider(ctx context.Context, tenantID uuid.UUID, provider Provider) (*Config, error)
	FindAll(ctx context.Context, tenantID uuid.UUID) ([]Config, error)
}
