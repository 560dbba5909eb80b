package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/integration"
	"gorm.io/gorm"
)

// GormIntegrationConfigRepository implements integration.ConfigRepository using GORM
type GormIntegrationConfigRepository struct {
	db *gorm.DB
}

// NewGormIntegrationConfigRepository creates a new GormIntegrationConfigRepository
func NewGormIntegrationConfigRepository(db *gorm.DB) *GormIntegrationConfigRepository {
	return &GormIntegrationConfigRepository{db: db}
}

func (r *GormIntegrationConfigRepository) Create(ctx context.Context, c *integration.Config) error {
	return insert(ctx, r.db, c)
}

func (r *GormIntegrationConfigRepository) Save(ctx context.Context, c *integration.Config) error {
	return saveVersioned(ctx, r.db, c)
}

func (r *GormIntegrationConfigRepository) FindByProvider(ctx context.Context, tenantID uuid.UUID, provider integration.Provider) (*integration.Config, error) {
	return findOneBy[integration.Config](ctx, r.db, tenantID, "provider = ?", provider)
}

func (r *GormIntegrationConfigRepository) FindAll(ctx context.Context, tenantID uuid.UUID) ([]integration.Config, error) {
	rows := make([]integration.Config, 0)
	err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Order("provider ASC").Find(&rows).Error
	return rows, err
}

var _ integration.ConfigRepository = (*GormIntegrationConfigRepository)(nil)
