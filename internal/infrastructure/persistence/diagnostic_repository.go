package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/diagnostic"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
)

var nodeListSpec = listSpec{
	searchColumns: []string{"title", "body"},
	sortFields:    sortFields("category", "title", "kind", "created_at"),
	defaultSort:   "category",
	filters: map[string]string{
		"category": "category = ?",
		"kind":     "kind = ?",
		"is_root":  "is_root = ?",
	},
}

// GormNodeRepository implements diagnostic.NodeRepository using GORM
type GormNodeRepository struct {
	db *gorm.DB
}

// NewGormNodeRepository creates a new GormNodeRepository
func NewGormNodeRepository(db *gorm.DB) *GormNodeRepository {
	return &GormNodeRepository{db: db}
}

func (r *GormNodeRepository) Create(ctx context.Context, n *diagnostic.Node) error {
	return insertWithAssociations(ctx, r.db, n)
}

// Save updates the node and makes its option rows match n.Options
func (r *GormNodeRepository) Save(ctx context.Context, n *diagnostic.Node) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(ctx, tx, n); err != nil {
			return err
		}
		keep := make([]uuid.UUID, 0, len(n.Options))
		for i := range n.Options {
			keep = append(keep, n.Options[i].ID)
		}
		del := tx.Where("node_id = ?", n.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		if err := del.Delete(&diagnostic.Option{}).Error; err != nil {
			return err
		}
		for i := range n.Options {
			if err := save(ctx, tx, &n.Options[i]); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GormNodeRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*diagnostic.Node, error) {
	return findByID[diagnostic.Node](ctx, r.db, tenantID, id, "Options")
}

func (r *GormNodeRepository) FindAll(ctx context.Context, tenantID uuid.UUID, filter shared.Filter) ([]diagnostic.Node, int64, error) {
	return findPage[diagnostic.Node](ctx, r.db, tenantID, filter, nodeListSpec)
}

// FindByCategory loads the whole tree of a category, root first
func (r *GormNodeRepository) FindByCategory(ctx context.Context, tenantID uuid.UUID, category string) ([]diagnostic.Node, error) {
	nodes := make([]diagnostic.Node, 0)
	err := r.db.WithContext(ctx).Preload("Options").
		Where("tenant_id = ? AND category = ?", tenantID, strings.ToLower(strings.TrimSpace(category))).
		Order("is_root DESC, created_at ASC").
		Find(&nodes).Error
	return nodes, err
}

func (r *GormNodeRepository) FindRoot(ctx context.Context, tenantID uuid.UUID, category string) (*diagnostic.Node, error) {
	var node diagnostic.Node
	err := r.db.WithContext(ctx).Preload("Options").
		Where("tenant_id = ? AND category = ? AND is_root = ?", tenantID, strings.ToLower(strings.TrimSpace(category)), true).
		Order("created_at ASC").
		First(&node).Error
	if err != nil {
		return nil, translateError(err)
	}
	return &node, nil
}

func (r *GormNodeRepository) CountReferences(ctx context.Context, tenantID, id uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&diagnostic.Option{}).
		Where("tenant_id = ? AND next_node_id = ? AND node_id <> ?", tenantID, id, id).
		Count(&count).Error
	return count, err
}

func (r *GormNodeRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("tenant_id = ? AND node_id = ?", tenantID, id).Delete(&diagnostic.Option{}).Error; err != nil {
			return err
		}
		return deleteByID[diagnostic.Node](ctx, tx, tenantID, id)
	})
}

var _ diagnostic.NodeRepository = (*GormNodeRepository)(nil)
