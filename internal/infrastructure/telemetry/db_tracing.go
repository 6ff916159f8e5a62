package telemetry

import (
	"errors"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DBTracingConfig holds configuration for database tracing.
type DBTracingConfig struct {
	Enabled         bool
	LogFullSQL      bool          // include bound variables in db.statement; development only
	SlowQueryThresh time.Duration // default 200ms
	DBName          string
	TracerProvider  trace.TracerProvider // nil uses the global provider
}

const queryStartKey = "dhr:query_start"

// RegisterDBTracing installs the otelgorm plugin and a callback that annotates
// each query span with rows affected, table and a slow query marker.
func RegisterDBTracing(db *gorm.DB, cfg DBTracingConfig, logger *zap.Logger) error {
	if !cfg.Enabled {
		logger.Debug("Database tracing disabled")
		return nil
	}
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(cfg.DBName)}
	if !cfg.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, otelgorm.WithTracerProvider(cfg.TracerProvider))
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	start := func(tx *gorm.DB) { tx.InstanceSet(queryStartKey, time.Now()) }
	finish := func(tx *gorm.DB) { annotateQuerySpan(tx, cfg.SlowQueryThresh) }

	cb := db.Callback()
	err := errors.Join(
		cb.Create().Before("gorm:create").Register("dhr_trace:before_create", start),
		cb.Query().Before("gorm:query").Register("dhr_trace:before_query", start),
		cb.Update().Before("gorm:update").Register("dhr_trace:before_update", start),
		cb.Delete().Before("gorm:delete").Register("dhr_trace:before_delete", start),
		cb.Row().Before("gorm:row").Register("dhr_trace:before_row", start),
		cb.Raw().Before("gorm:raw").Register("dhr_trace:before_raw", start),
		cb.Create().After("gorm:create").Before("otel:after:create").Register("dhr_trace:after_create", finish),
		cb.Query().After("gorm:query").Before("otel:after:query").Register("dhr_trace:after_query", finish),
		cb.Update().After("gorm:update").Before("otel:after:update").Register("dhr_trace:after_update", finish),
		cb.Delete().After("gorm:delete").Before("otel:after:delete").Register("dhr_trace:after_delete", finish),
		cb.Row().After("gorm:row").Before("otel:after:row").Register("dhr_trace:after_row", finish),
		cb.Raw().After("gorm:raw").Before("otel:after:raw").Register("dhr_trace:after_raw", finish),
	)
	if err != nil {
		return err
	}

	logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", cfg.LogFullSQL),
		zap.Duration("slow_query_threshold", cfg.SlowQueryThresh),
	)
	return nil
}

func annotateQuerySpan(tx *gorm.DB, threshold time.Duration) {
	if tx.Statement.Context == nil {
		return
	}
	span := trace.SpanFromContext(tx.Statement.Context)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
	}

	v, ok := tx.InstanceGet(queryStartKey)
	if !ok {
		return
	}
	started, ok := v.(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(started); elapsed > threshold {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
	}
}
