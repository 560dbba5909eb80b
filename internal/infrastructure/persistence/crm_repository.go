package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/crm"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var (
	customerListSpec = listSpec{
		searchColumns: []string{"name", "document", "email", "phone", "whatsapp"},
		sortFields:    sortFields("name", "type", "created_at"),
		defaultSort:   "name",
		filters: map[string]string{
			"type":      "type = ?",
			"is_active": "is_active = ?",
		},
	}
	leadListSpec = listSpec{
		searchColumns: []string{"name", "phone", "email", "interest"},
		sortFields:    sortFields("name", "status", "source", "created_at"),
		filters: map[string]string{
			"status":      "status = ?",
			"source":      "source = ?",
			"assigned_to": "assigned_to = ?",
		},
	}
)

// GormCustomerRepository implements crm.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) Create(ctx context.Context, c *crm.Customer) error {
	return insert(ctx, r.db, c)
}

func (r *GormCustomerRepository) Save(ctx context.Context, c *crm.Customer) error {
	return saveVersioned(ctx, r.db, c)
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Customer, error) {
	return findByID[crm.Customer](ctx, r.db, tenantID, id)
}

func (r *GormCustomerRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Customer, int64, error) {
	return findPage[crm.Customer](ctx, r.db, tenantID, filter, customerListSpec)
}

func (r *GormCustomerRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteByID[crm.Customer](ctx, r.db, tenantID, id)
}

// GormLeadRepository implements crm.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

func (r *GormLeadRepository) Create(ctx context.Context, l *crm.Lead) error {
	return insert(ctx, r.db, l)
}

func (r *GormLeadRepository) Save(ctx context.Context, l *crm.Lead) error {
	return saveVersioned(ctx, r.db, l)
}

func (r *GormLeadRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*crm.Lead, error) {
	return findByID[crm.Lead](ctx, r.db, tenantID, id)
}

func (r *GormLeadRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]crm.Lead, int64, error) {
	return findPage[crm.Lead](ctx, r.db, tenantID, filter, leadListSpec)
}

var (
	_ crm.CustomerRepository = (*GormCustomerRepository)(nil)
	_ crm.LeadRepository     = (*GormLeadRepository)(nil)
)
