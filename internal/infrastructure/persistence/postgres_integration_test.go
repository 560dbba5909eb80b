//go:build integration

package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/repairpos/backend/internal/domain/catalog"
	"github.com/repairpos/backend/internal/domain/shared"
	"github.com/repairpos/backend/internal/infrastructure/config"
	"github.com/repairpos/backend/internal/infrastructure/migration"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
)

// newPostgres starts a disposable PostgreSQL and applies the embedded migrations
func newPostgres(t *testing.T) *Database {
	t.Helper()
	ctx := context.Background()

	container, err := tcpostgres.Run(ctx,
		"postgres:16-alpine",
		tcpostgres.WithDatabase("repairpos_test"),
		tcpostgres.WithUsername("postgres"),
		tcpostgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	db, err := NewDatabase(&config.DatabaseConfig{
		Host:            host,
		Port:            port.Int(),
		User:            "postgres",
		Password:        "postgres",
		DBName:          "repairpos_test",
		SSLMode:         "disable",
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5,
		ConnMaxIdleTime: 1,
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	sqlDB, err := db.DB.DB()
	require.NoError(t, err)
	m, err := migration.New(sqlDB, "", zap.NewNop())
	require.NoError(t, err)
	require.NoError(t, m.Up())
	return db
}

func TestPostgres_ProductRoundTrip(t *testing.T) {
	db := newPostgres(t)
	ctx := context.Background()
	repo := NewGormProductRepository(db.DB)
	tenantID := uuid.New()

	p, err := catalog.NewProduct(tenantID, "tela-a54", "Tela Galaxy A54", "un")
	require.NoError(t, err)
	require.NoError(t, p.SetInitialPrices(decimal.NewFromInt(180), decimal.NewFromInt(350)))
	require.NoError(t, repo.Create(ctx, p))

	t.Run("finds by normalized sku", func(t *testing.T) {
		found, err := repo.FindBySKU(ctx, tenantID, " TELA-A54 ")
		require.NoError(t, err)
		assert.Equal(t, p.ID, found.ID)
		assert.True(t, decimal.NewFromInt(350).Equal(found.SalePrice))

		_, err = repo.FindBySKU(ctx, uuid.New(), "TELA-A54")
		assert.True(t, shared.IsNotFound(err))
	})

	t.Run("rejects a duplicate sku", func(t *testing.T) {
		dup, err := catalog.NewProduct(tenantID, "TELA-A54", "Outra", "un")
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Create(ctx, dup), shared.ErrAlreadyExists)
	})

	t.Run("detects a stale save", func(t *testing.T) {
		first, err := repo.FindByID(ctx, tenantID, p.ID)
		require.NoError(t, err)
		second, err := repo.FindByID(ctx, tenantID, p.ID)
		require.NoError(t, err)

		require.NoError(t, first.ChangePrice(first.CostPrice, decimal.NewFromInt(399), uuid.New(), "reajuste"))
		require.NoError(t, repo.Save(ctx, first))

		require.NoError(t, second.Update("Tela A54 original", "", "Telas", "Samsung", decimal.NewFromInt(2)))
		assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)
	})
}
