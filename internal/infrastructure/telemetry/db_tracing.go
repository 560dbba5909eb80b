package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig configures database spans
type DBTracingConfig struct {
	Enabled         bool
	SlowQueryThresh time.Duration
	DBName          string
}

type contextKey string

const queryStartKey contextKey = "otel_query_start"

// RegisterDBTracing installs otelgorm plus a callback that flags slow queries on the span.
// Query variables are never recorded.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	name := cfg.DBName
	if name == "" {
		name = "postgresql"
	}
	if err := db.Use(otelgorm.NewPlugin(otelgorm.WithDBName(name), otelgorm.WithoutQueryVariables())); err != nil {
		return err
	}

	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartKey, time.Now())
		}
	}
	after := slowQueryCallback(cfg.SlowQueryThresh)

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("repairpos:before_create", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("repairpos:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("repairpos:before_query", before); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("repairpos:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("repairpos:before_update", before); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("repairpos:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("repairpos:before_delete", before); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("repairpos:after_delete", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("repairpos:before_raw", before); err != nil {
		return err
	}
	if err := cb.Raw().After("gorm:raw").Register("repairpos:after_raw", after); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Duration("slow_query_threshold", cfg.SlowQueryThresh))
	return nil
}

func slowQueryCallback(threshold time.Duration) func(*gorm.DB) {
	return func(tx *gorm.DB) {
		ctx := tx.Statement.Context
		if ctx == nil {
			return
		}
		span := trace.SpanFromContext(ctx)
		if !span.IsRecording() {
			return
		}
		if tx.Statement.Table != "" {
			span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
		}
		if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, tx.Error.Error())
		}
		start, ok := ctx.Value(queryStartKey).(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
