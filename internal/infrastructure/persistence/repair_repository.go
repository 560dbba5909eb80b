package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/repair"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var serviceOrderListSpec = listSpec{
	searchColumns: []string{"number", "device_type", "brand", "model", "serial_number", "reported_problem"},
	sortFields:    sortFields("number", "status", "priority", "due_date", "created_at", "updated_at"),
	filters: map[string]string{
		"status":        "status = ?",
		"branch_id":     "branch_id = ?",
		"technician_id": "technician_id = ?",
		"customer_id":   "customer_id = ?",
		"priority":      "priority = ?",
		"date_from":     "created_at >= ?",
		"date_to":       "created_at < ?",
	},
}

// GormServiceOrderRepository implements repair.ServiceOrderRepository using GORM
type GormServiceOrderRepository struct {
	db *gorm.DB
}

// NewGormServiceOrderRepository creates a new GormServiceOrderRepository
func NewGormServiceOrderRepository(db *gorm.DB) *GormServiceOrderRepository {
	return &GormServiceOrderRepository{db: db}
}

func (r *GormServiceOrderRepository) Create(ctx context.Context, o *repair.ServiceOrder) error {
	return insertWithAssociations(ctx, r.db, o)
}

func (r *GormServiceOrderRepository) Save(ctx context.Context, o *repair.ServiceOrder) error {
	return saveVersioned(ctx, r.db, o)
}

func (r *GormServiceOrderRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*repair.ServiceOrder, error) {
	return findByID[repair.ServiceOrder](ctx, r.db, tenantID, id, "Parts")
}

func (r *GormServiceOrderRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]repair.ServiceOrder, int64, error) {
	var scopes []scope
	if open, ok := filter.Filters["open"].(bool); ok && open {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("status NOT IN ?", []repair.Status{repair.StatusDelivered, repair.StatusCancelled})
		})
	}
	return findPage[repair.ServiceOrder](ctx, r.db, tenantID, filter, serviceOrderListSpec, scopes...)
}

// NextNumber returns today's next OS-YYYYMMDD-NNNN style number
func (r *GormServiceOrderRepository) NextNumber(ctx context.Context, tenantID uuid.UUID, prefix string) (string, error) {
	return nextNumber(ctx, r.db, tenantID, prefix)
}

func (r *GormServiceOrderRepository) AddHistory(ctx context.Context, h *repair.StatusHistory) error {
	return insert(ctx, r.db, h)
}

// FindHistory returns the status trail oldest first
func (r *GormServiceOrderRepository) FindHistory(ctx context.Context, tenantID, orderID uuid.UUID) ([]repair.StatusHistory, error) {
	rows := make([]repair.StatusHistory, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND service_order_id = ?", tenantID, orderID).
		Order("changed_at ASC").
		Find(&rows).Error
	return rows, err
}

func (r *GormServiceOrderRepository) AddPart(ctx context.Context, p *repair.ServiceOrderPart) error {
	return insert(ctx, r.db, p)
}

func (r *GormServiceOrderRepository) AddPhoto(ctx context.Context, p *repair.Photo) error {
	return insert(ctx, r.db, p)
}

func (r *GormServiceOrderRepository) FindPhotos(ctx context.Context, tenantID, orderID uuid.UUID) ([]repair.Photo, error) {
	rows := make([]repair.Photo, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND service_order_id = ?", tenantID, orderID).
		Order("created_at ASC").
		Find(&rows).Error
	return rows, err
}

// CountByStatus groups orders by status, optionally for one branch
func (r *GormServiceOrderRepository) CountByStatus(ctx context.Context, tenantID uuid.UUID, branchID *uuid.UUID) (map[repair.Status]int64, error) {
	var rows []struct {
		Status repair.Status
		Count  int64
	}
	q := r.db.WithContext(ctx).Model(&repair.ServiceOrder{}).
		Select("status, COUNT(*) AS count").
		Where("tenant_id = ?", tenantID)
	if branchID != nil {
		q = q.Where("branch_id = ?", *branchID)
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[repair.Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Count
	}
	return out, nil
}

var _ repair.ServiceOrderRepository = (*GormServiceOrderRepository)(nil)
