package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// listSpec describes how a resource list is searched, filtered and sorted
type listSpec struct {
	// searchColumns are matched case-insensitively against Filter.Search
	searchColumns []string
	sortFields    map[string]bool
	defaultSort   string
	// filters maps a filter key to a condition with one placeholder
	filters map[string]string
}

// scope narrows a query beyond the generic filters
type scope func(*gorm.DB) *gorm.DB

// versioned is implemented by every aggregate root
type versioned interface {
	GetID() uuid.UUID
	GetVersion() int
}

func tenantScope(tenantID uuid.UUID) scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("tenant_id = ?", tenantID)
	}
}

func (s listSpec) apply(db *gorm.DB, f shared.Filter) *gorm.DB {
	if f.Search != "" && len(s.searchColumns) > 0 {
		pattern := "%" + strings.ToLower(f.Search) + "%"
		conds := make([]string, len(s.searchColumns))
		args := make([]interface{}, len(s.searchColumns))
		for i, col := range s.searchColumns {
			conds[i] = "LOWER(" + col + ") LIKE ?"
			args[i] = pattern
		}
		db = db.Where("("+strings.Join(conds, " OR ")+")", args...)
	}
	for key, value := range f.Filters {
		if cond, ok := s.filters[key]; ok {
			db = db.Where(cond, value)
		}
	}
	return db
}

func (s listSpec) order(f shared.Filter) string {
	def := s.defaultSort
	if def == "" {
		def = "created_at"
	}
	return ValidateSortField(f.OrderBy, s.sortFields, def) + " " + ValidateSortOrder(f.OrderDir)
}

// findPage counts and loads one page of tenant rows
func findPage[T any](ctx context.Context, db *gorm.DB, tenantID uuid.UUID, f shared.Filter, spec listSpec, scopes ...scope) ([]T, int64, error) {
	f.Normalize()
	var model T
	q := db.WithContext(ctx).Model(&model).Scopes(tenantScope(tenantID))
	for _, sc := range scopes {
		q = sc(q)
	}
	q = spec.apply(q, f)

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	if err := q.Order(spec.order(f)).Offset(f.Offset()).Limit(f.PageSize).Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// findByID loads one tenant row, optionally preloading associations
func findByID[T any](ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID, preloads ...string) (*T, error) {
	var out T
	q := db.WithContext(ctx)
	for _, p := range preloads {
		q = q.Preload(p)
	}
	if err := q.Where("tenant_id = ? AND id = ?", tenantID, id).First(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return &out, nil
}

// findOneBy loads the first tenant row matching cond
func findOneBy[T any](ctx context.Context, db *gorm.DB, tenantID uuid.UUID, cond string, args ...interface{}) (*T, error) {
	var out T
	if err := db.WithContext(ctx).Where("tenant_id = ?", tenantID).Where(cond, args...).First(&out).Error; err != nil {
		return nil, translateError(err)
	}
	return &out, nil
}

// deleteByID removes one tenant row
func deleteByID[T any](ctx context.Context, db *gorm.DB, tenantID, id uuid.UUID) error {
	var model T
	res := db.WithContext(ctx).Where("tenant_id = ? AND id = ?", tenantID, id).Delete(&model)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// insert creates a row without touching associations
func insert(ctx context.Context, db *gorm.DB, value interface{}) error {
	return translateError(db.WithContext(ctx).Omit(clause.Associations).Create(value).Error)
}

// insertWithAssociations creates a row and its has-many children
func insertWithAssociations(ctx context.Context, db *gorm.DB, value interface{}) error {
	return translateError(db.WithContext(ctx).Create(value).Error)
}

// saveVersioned writes every column of an aggregate whose version was bumped once since it was loaded
func saveVersioned(ctx context.Context, db *gorm.DB, agg versioned) error {
	res := db.WithContext(ctx).Model(agg).
		Omit(clause.Associations).
		Where("version = ?", agg.GetVersion()-1).
		Select("*").
		Updates(agg)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// save writes every column of a child row
func save(ctx context.Context, db *gorm.DB, value interface{}) error {
	return translateError(db.WithContext(ctx).Omit(clause.Associations).Save(value).Error)
}

// nextDocumentSeq bumps the per-day counter row of a PREFIX-YYYYMMDD- document number.
// The upsert holds the row lock until the surrounding transaction ends.
func nextDocumentSeq(ctx context.Context, db *gorm.DB, tenantID uuid.UUID, datePrefix string) (int64, error) {
	var seq int64
	err := db.WithContext(ctx).Raw(`INSERT INTO document_sequences (tenant_id, scope, last_value)
VALUES (?, ?, 1)
ON CONFLICT (tenant_id, scope) DO UPDATE SET last_value = document_sequences.last_value + 1
RETURNING last_value`, tenantID, datePrefix).Scan(&seq).Error
	if err != nil {
		return 0, fmt.Errorf("failed to allocate %s number: %w", datePrefix, err)
	}
	return seq, nil
}

func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return shared.NewDomainError("INVALID_REFERENCE", "Referenced resource does not exist or is still in use")
	default:
		return err
	}
}
