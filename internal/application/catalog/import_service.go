package catalog

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Import modes for rows whose SKU already exists
const (
	ImportModeSkip   = "skip"
	ImportModeUpdate = "update"
)

const (
	defaultImportMaxRows   = 5000
	defaultImportMaxErrors = 100
)

// ProductImportRepository is the product store seen by the importer
type ProductImportRepository interface {
	catalog.ProductRepository
	FindBySKU(ctx context.Context, tenantID uuid.UUID, sku string) (*catalog.Product, error)
}

// ImportOptions controls a product import
type ImportOptions struct {
	Mode      string
	DryRun    bool
	ActorID   uuid.UUID
	MaxRows   int
	MaxErrors int
}

// ImportResult summarizes a product import
type ImportResult struct {
	Total       int                  `json:"total"`
	Created     int                  `json:"created"`
	Updated     int                  `json:"updated"`
	Skipped     int                  `json:"skipped"`
	Failed      int                  `json:"failed"`
	DryRun      bool                 `json:"dry_run"`
	Errors      []csvimport.RowError `json:"errors"`
	TotalErrors int                  `json:"total_errors"`
	Truncated   bool                 `json:"truncated"`
}

// importRow is a validated CSV line
type importRow struct {
	line        int
	sku         string
	name        string
	unit        string
	category    string
	brand       string
	description string
	cost        decimal.Decimal
	sale        decimal.Decimal
	minStock    decimal.Decimal
	isService   bool

	// set records which optional columns had a value
	set map[string]bool
}

// ProductImportService creates and updates catalog products from a CSV file.
// Required columns are sku and name; unit, category, brand, description,
// cost_price, sale_price, min_stock and is_service are optional.
type ProductImportService struct {
	repo   ProductImportRepository
	events shared.EventPublisher
	logger *zap.Logger
}

// NewProductImportService creates a ProductImportService. events may be nil.
func NewProductImportService(repo ProductImportRepository, events shared.EventPublisher, logger *zap.Logger) *ProductImportService {
	return &ProductImportService{repo: repo, events: events, logger: logger}
}

// Import reads products from r. Rows with errors are reported and skipped; the rest are applied.
func (s *ProductImportService) Import(ctx context.Context, tenantID uuid.UUID, r io.Reader, opts ImportOptions) (*ImportResult, error) {
	if opts.Mode == "" {
		opts.Mode = ImportModeSkip
	}
	if opts.Mode != ImportModeSkip && opts.Mode != ImportModeUpdate {
		return nil, shared.NewDomainError("INVALID_IMPORT_MODE", "Import mode must be skip or update")
	}
	if opts.MaxRows <= 0 {
		opts.MaxRows = defaultImportMaxRows
	}
	if opts.MaxErrors <= 0 {
		opts.MaxErrors = defaultImportMaxErrors
	}

	parser, err := csvimport.NewParser(r, csvimport.WithMaxRows(opts.MaxRows))
	if err != nil {
		return nil, shared.NewDomainError("INVALID_FILE", err.Error())
	}
	if missing := parser.Missing("sku", "name"); len(missing) > 0 {
		return nil, shared.NewDomainError("MISSING_COLUMNS", "Missing required columns: "+strings.Join(missing, ", "))
	}

	result := &ImportResult{DryRun: opts.DryRun}
	collector := csvimport.NewErrorCollector(opts.MaxErrors)
	seen := make(map[string]int)

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		row, err := parser.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if errors.Is(err, csvimport.ErrTooManyRows) {
			return nil, shared.NewDomainError("TOO_MANY_ROWS", fmt.Sprintf("File exceeds %d rows", opts.MaxRows))
		}
		var rowErr csvimport.RowError
		if errors.As(err, &rowErr) {
			result.Total++
			collector.Add(rowErr)
			continue
		}
		if err != nil {
			return nil, err
		}

		result.Total++
		item, ok := parseImportRow(row, collector)
		if !ok {
			continue
		}
		if first, dup := seen[item.sku]; dup {
			collector.Add(csvimport.NewRowError(item.line, "sku", csvimport.ErrCodeDuplicate,
				fmt.Sprintf("SKU already appears on row %d", first)).WithValue(item.sku))
			continue
		}
		seen[item.sku] = item.line

		if err := s.apply(ctx, tenantID, item, opts, result); err != nil {
			if shared.ErrorCode(err) == "" {
				return nil, err
			}
			collector.Add(csvimport.NewRowError(item.line, "", csvimport.ErrCodeRejected, err.Error()))
		}
	}

	result.Errors = collector.Errors()
	result.TotalErrors = collector.Total()
	result.Truncated = collector.Truncated()
	result.Failed = collector.FailedRows()

	s.logger.Info("Product import finished",
		zap.String("tenant_id", tenantID.String()),
		zap.Bool("dry_run", opts.DryRun),
		zap.Int("total", result.Total),
		zap.Int("created", result.Created),
		zap.Int("updated", result.Updated),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed))
	return result, nil
}

func (s *ProductImportService) apply(ctx context.Context, tenantID uuid.UUID, item importRow, opts ImportOptions, result *ImportResult) error {
	existing, err := s.repo.FindBySKU(ctx, tenantID, item.sku)
	if err != nil && !shared.IsNotFound(err) {
		return err
	}

	if existing == nil {
		product, err := catalog.NewProduct(tenantID, item.sku, item.name, item.unit)
		if err != nil {
			return err
		}
		if err := product.Update(item.name, item.description, item.category, item.brand, item.minStock); err != nil {
			return err
		}
		if err := product.SetInitialPrices(item.cost, item.sale); err != nil {
			return err
		}
		product.MarkAsService(item.isService)
		if opts.ActorID != uuid.Nil {
			product.SetCreatedBy(opts.ActorID)
		}
		if !opts.DryRun {
			if err := s.repo.Create(ctx, product); err != nil {
				return err
			}
			s.publish(ctx, product)
		}
		result.Created++
		return nil
	}

	if opts.Mode == ImportModeSkip {
		result.Skipped++
		return nil
	}

	item.keepUnset(existing)
	if err := existing.Update(item.name, item.description, item.category, item.brand, item.minStock); err != nil {
		return err
	}
	existing.MarkAsService(item.isService)
	if !opts.DryRun {
		if err := s.repo.Save(ctx, existing); err != nil {
			return err
		}
	}
	if !item.cost.Equal(existing.CostPrice) || !item.sale.Equal(existing.SalePrice) {
		if err := existing.ChangePrice(item.cost, item.sale, opts.ActorID, "import"); err != nil {
			return err
		}
		if !opts.DryRun {
			if err := s.repo.Save(ctx, existing); err != nil {
				return err
			}
		}
	}
	if !opts.DryRun {
		s.publish(ctx, existing)
	}
	result.Updated++
	return nil
}

func (s *ProductImportService) publish(ctx context.Context, product *catalog.Product) {
	events := product.GetDomainEvents()
	product.ClearDomainEvents()
	if s.events == nil || len(events) == 0 {
		return
	}
	if err := s.events.Publish(ctx, events...); err != nil {
		s.logger.Warn("Failed to publish imported product events",
			zap.String("product_id", product.ID.String()),
			zap.Error(err))
	}
}

// keepUnset copies the current product values into optional columns the file left blank
func (r *importRow) keepUnset(p *catalog.Product) {
	if r.category == "" {
		r.category = p.Category
	}
	if r.brand == "" {
		r.brand = p.Brand
	}
	if r.description == "" {
		r.description = p.Description
	}
	if !r.set["cost_price"] {
		r.cost = p.CostPrice
	}
	if !r.set["sale_price"] {
		r.sale = p.SalePrice
	}
	if !r.set["min_stock"] {
		r.minStock = p.MinStock
	}
	if !r.set["is_service"] {
		r.isService = p.IsService
	}
}

// parseImportRow validates one line, adding every problem found to collector
func parseImportRow(row *csvimport.Row, collector *csvimport.ErrorCollector) (importRow, bool) {
	item := importRow{
		line:        row.Line,
		sku:         strings.ToUpper(row.Get("sku")),
		name:        row.Get("name"),
		unit:        row.Get("unit"),
		category:    row.Get("category"),
		brand:       row.Get("brand"),
		description: row.Get("description"),
		set:         make(map[string]bool),
	}
	ok := true
	fail := func(column, code, msg, value string) {
		collector.Add(csvimport.NewRowError(row.Line, column, code, msg).WithValue(value))
		ok = false
	}

	if item.sku == "" {
		fail("sku", csvimport.ErrCodeRequired, "sku is required", "")
	} else if len(item.sku) > 50 {
		fail("sku", csvimport.ErrCodeInvalidValue, "sku cannot exceed 50 characters", item.sku)
	}
	if item.name == "" {
		fail("name", csvimport.ErrCodeRequired, "name is required", "")
	}

	amounts := []struct {
		column string
		dst    *decimal.Decimal
	}{
		{"cost_price", &item.cost},
		{"sale_price", &item.sale},
		{"min_stock", &item.minStock},
	}
	for _, a := range amounts {
		raw := row.Get(a.column)
		if raw == "" {
			continue
		}
		v, err := csvimport.ParseDecimal(raw)
		if err != nil {
			fail(a.column, csvimport.ErrCodeInvalidNumber, err.Error(), raw)
			continue
		}
		if v.IsNegative() {
			fail(a.column, csvimport.ErrCodeInvalidNumber, a.column+" cannot be negative", raw)
			continue
		}
		*a.dst = v
		item.set[a.column] = true
	}

	if raw := row.Get("is_service"); raw != "" {
		v, err := csvimport.ParseBool(raw)
		if err != nil {
			fail("is_service", csvimport.ErrCodeInvalidValue, err.Error(), raw)
		}
		item.isService = v
		item.set["is_service"] = true
	}
	return item, ok
}
