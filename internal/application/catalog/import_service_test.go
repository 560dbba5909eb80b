package catalog

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/infrastructure/csvimport"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryProducts keys products by SKU
type memoryProducts struct {
	catalog.ProductRepository
	bySKU map[string]*catalog.Product
	saves int
}

func newMemoryProducts(products ...*catalog.Product) *memoryProducts {
	m := &memoryProducts{bySKU: make(map[string]*catalog.Product)}
	for _, p := range products {
		p.ClearDomainEvents()
		m.bySKU[p.SKU] = p
	}
	return m
}

func (m *memoryProducts) Create(_ context.Context, p *catalog.Product) error {
	m.bySKU[p.SKU] = p
	return nil
}

func (m *memoryProducts) Save(_ context.Context, p *catalog.Product) error {
	m.saves++
	m.bySKU[p.SKU] = p
	return nil
}

func (m *memoryProducts) FindBySKU(_ context.Context, _ uuid.UUID, sku string) (*catalog.Product, error) {
	p, ok := m.bySKU[strings.ToUpper(sku)]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return p, nil
}

func TestProductImportService_Import(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()
	actor := uuid.New()

	existing, err := catalog.NewProduct(tenantID, "CAP-1", "Capa antiga", "un")
	require.NoError(t, err)
	require.NoError(t, existing.SetInitialPrices(decimal.NewFromInt(10), decimal.NewFromInt(30)))

	file := "sku;name;category;cost_price;sale_price;is_service\n" +
		"cap-1;Capa A54;Capas;10;39,90;\n" +
		"PEL-1;Película 3D;Películas;2,50;19,90;nao\n" +
		"SRV-1;Troca de tela;;;150;sim\n" +
		";Sem sku;;;;\n" +
		"PEL-1;Repetida;;;;\n" +
		"BAD-1;Preço ruim;;abc;;\n"

	t.Run("skip mode leaves existing products untouched", func(t *testing.T) {
		repo := newMemoryProducts(existing)
		events := &recordingPublisher{}
		svc := NewProductImportService(repo, events, zap.NewNop())

		result, err := svc.Import(ctx, tenantID, strings.NewReader(file), ImportOptions{ActorID: actor})
		require.NoError(t, err)

		assert.Equal(t, 6, result.Total)
		assert.Equal(t, 2, result.Created)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, 0, result.Updated)
		assert.Equal(t, 3, result.Failed)
		require.Len(t, result.Errors, 3)
		assert.Equal(t, csvimport.ErrCodeRequired, result.Errors[0].Code)
		assert.Equal(t, 5, result.Errors[0].Row)
		assert.Equal(t, csvimport.ErrCodeDuplicate, result.Errors[1].Code)
		assert.Equal(t, csvimport.ErrCodeInvalidNumber, result.Errors[2].Code)
		assert.Equal(t, "cost_price", result.Errors[2].Column)

		assert.Equal(t, "Capa antiga", repo.bySKU["CAP-1"].Name)
		srv := repo.bySKU["SRV-1"]
		require.NotNil(t, srv)
		assert.True(t, srv.IsService)
		assert.True(t, decimal.NewFromInt(150).Equal(srv.SalePrice))
		pel := repo.bySKU["PEL-1"]
		require.NotNil(t, pel)
		assert.Equal(t, "Películas", pel.Category)
		assert.True(t, decimal.RequireFromString("2.5").Equal(pel.CostPrice))
		assert.Equal(t, []string{catalog.EventTypeProductCreated, catalog.EventTypeProductCreated}, events.types())
	})

	t.Run("update mode changes existing products and records the price change", func(t *testing.T) {
		current, err := catalog.NewProduct(tenantID, "CAP-1", "Capa antiga", "un")
		require.NoError(t, err)
		require.NoError(t, current.SetInitialPrices(decimal.NewFromInt(10), decimal.NewFromInt(30)))
		repo := newMemoryProducts(current)
		events := &recordingPublisher{}
		svc := NewProductImportService(repo, events, zap.NewNop())

		result, err := svc.Import(ctx, tenantID, strings.NewReader(file), ImportOptions{Mode: ImportModeUpdate, ActorID: actor})
		require.NoError(t, err)

		assert.Equal(t, 1, result.Updated)
		assert.Equal(t, 2, result.Created)
		updated := repo.bySKU["CAP-1"]
		assert.Equal(t, "Capa A54", updated.Name)
		assert.Equal(t, "Capas", updated.Category)
		assert.True(t, decimal.RequireFromString("39.90").Equal(updated.SalePrice))
		assert.Equal(t, 2, repo.saves)
		assert.Contains(t, events.types(), catalog.EventTypeProductPriceChanged)
	})

	t.Run("dry run writes nothing", func(t *testing.T) {
		repo := newMemoryProducts()
		events := &recordingPublisher{}
		svc := NewProductImportService(repo, events, zap.NewNop())

		result, err := svc.Import(ctx, tenantID, strings.NewReader(file), ImportOptions{DryRun: true})
		require.NoError(t, err)
		assert.True(t, result.DryRun)
		assert.Equal(t, 3, result.Created)
		assert.Empty(t, repo.bySKU)
		assert.Empty(t, events.events)
	})
}

func TestProductImportService_RejectsBadFiles(t *testing.T) {
	ctx := context.Background()
	svc := NewProductImportService(newMemoryProducts(), nil, zap.NewNop())

	_, err := svc.Import(ctx, uuid.New(), strings.NewReader("sku,price\nA,1\n"), ImportOptions{})
	assert.Equal(t, "MISSING_COLUMNS", shared.ErrorCode(err))

	_, err = svc.Import(ctx, uuid.New(), strings.NewReader(""), ImportOptions{})
	assert.Equal(t, "INVALID_FILE", shared.ErrorCode(err))

	_, err = svc.Import(ctx, uuid.New(), strings.NewReader("sku,name\nA,a\nB,b\n"), ImportOptions{MaxRows: 1})
	assert.Equal(t, "TOO_MANY_ROWS", shared.ErrorCode(err))

	_, err = svc.Import(ctx, uuid.New(), strings.NewReader("sku,name\nA,a\n"), ImportOptions{Mode: "replace"})
	assert.Equal(t, "INVALID_IMPORT_MODE", shared.ErrorCode(err))
}
