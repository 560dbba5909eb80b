package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/kanban"
	"gorm.io/gorm"
)

// GormColumnRepository implements kanban.ColumnRepository using GORM
type GormColumnRepository struct {
	db *gorm.DB
}

// NewGormColumnRepository creates a new GormColumnRepository
func NewGormColumnRepository(db *gorm.DB) *GormColumnRepository {
	return &GormColumnRepository{db: db}
}

func (r *GormColumnRepository) Create(ctx context.Context, c *kanban.Column) error {
	return insert(ctx, r.db, c)
}

func (r *GormColumnRepository) Save(ctx context.Context, c *kanban.Column) error {
	return saveVersioned(ctx, r.db, c)
}

func (r *GormColumnRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*kanban.Column, error) {
	return findByID[kanban.Column](ctx, r.db, tenantID, id)
}

func (r *GormColumnRepository) FindByBoard(ctx context.Context, tenantID uuid.UUID, board string) ([]kanban.Column, error) {
	cols := make([]kanban.Column, 0)
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND board = ?", tenantID, board).
		Order("position ASC").
		Find(&cols).Error
	return cols, err
}

// FindByStatus returns the first column of the board mapped to a service order status
func (r *GormColumnRepository) FindByStatus(ctx context.Context, tenantID uuid.UUID, board, status string) (*kanban.Column, error) {
	var col kanban.Column
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND board = ? AND status = ?", tenantID, board, status).
		Order("position ASC").
		First(&col).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &col, nil
}

func (r *GormColumnRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteByID[kanban.Column](ctx, r.db, tenantID, id)
}

// GormCardRepository implements kanban.CardRepository using GORM
type GormCardRepository struct {
	db *gorm.DB
}

// NewGormCardRepository creates a new GormCardRepository
func NewGormCardRepository(db *gorm.DB) *GormCardRepository {
	return &GormCardRepository{db: db}
}

func (r *GormCardRepository) Create(ctx context.Context, c *kanban.Card) error {
	return insert(ctx, r.db, c)
}

func (r *GormCardRepository) Save(ctx context.Context, c *kanban.Card) error {
	return saveVersioned(ctx, r.db, c)
}

func (r *GormCardRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*kanban.Card, error) {
	return findByID[kanban.Card](ctx, r.db, tenantID, id)
}

func (r *GormCardRepository) FindByColumn(ctx context.Context, tenantID, columnID uuid.UUID) ([]kanban.Card, error) {
	return r.FindByColumns(ctx, tenantID, []uuid.UUID{columnID})
}

func (r *GormCardRepository) FindByColumns(ctx context.Context, tenantID uuid.UUID, columnIDs []uuid.UUID) ([]kanban.Card, error) {
	cards := make([]kanban.Card, 0)
	if len(columnIDs) == 0 {
		return cards, nil
	}
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND column_id IN ?", tenantID, columnIDs).
		Order("position ASC").
		Find(&cards).Error
	return cards, err
}

func (r *GormCardRepository) FindByServiceOrder(ctx context.Context, tenantID, orderID uuid.UUID) (*kanban.Card, error) {
	return findOneBy[kanban.Card](ctx, r.db, tenantID, "service_order_id = ?", orderID)
}

func (r *GormCardRepository) CountByColumn(ctx context.Context, tenantID, columnID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&kanban.Card{}).
		Where("tenant_id = ? AND column_id = ?", tenantID, columnID).
		Count(&count).Error
	return count, err
}

func (r *GormCardRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return deleteByID[kanban.Card](ctx, r.db, tenantID, id)
}

var (
	_ kanban.ColumnRepository = (*GormColumnRepository)(nil)
	_ kanban.CardRepository   = (*GormCardRepository)(nil)
)
