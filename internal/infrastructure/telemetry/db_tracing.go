package telemetry

import (
	"context"
	"errors"
	"fmt"
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
	LogFullSQL      bool          // include bound variables in statements
	SlowQueryThresh time.Duration // default 200ms
	DBName          string
}

// DefaultDBTracingConfig returns tracing disabled with variables hidden.
func DefaultDBTracingConfig() DBTracingConfig {
	return DBTracingConfig{
		SlowQueryThresh: 200 * time.Millisecond,
		DBName:          "settings",
	}
}

// DBTracingPlugin installs otelgorm and annotates its spans with row counts
// and slow query markers.
type DBTracingPlugin struct {
	config DBTracingConfig
	logger *zap.Logger
}

// NewDBTracingPlugin creates a DBTracingPlugin.
func NewDBTracingPlugin(cfg DBTracingConfig, logger *zap.Logger) *DBTracingPlugin {
	if cfg.SlowQueryThresh <= 0 {
		cfg.SlowQueryThresh = 200 * time.Millisecond
	}
	return &DBTracingPlugin{
		config: cfg,
		logger: logger,
	}
}

type queryStartKey struct{}

// Register installs the plugin on db. It is a no-op when tracing is disabled.
func (p *DBTracingPlugin) Register(db *gorm.DB) error {
	if !p.config.Enabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName(p.config.DBName)}
	if !p.config.LogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	cb := db.Callback()
	registrations := []struct {
		name string
		fn   func() error
	}{
		{"before_create", func() error { return cb.Create().Before("gorm:create").Register("otel_timing:before_create", p.before) }},
		{"after_create", func() error { return cb.Create().After("gorm:create").Register("otel_timing:after_create", p.after) }},
		{"before_query", func() error { return cb.Query().Before("gorm:query").Register("otel_timing:before_query", p.before) }},
		{"after_query", func() error { return cb.Query().After("gorm:query").Register("otel_timing:after_query", p.after) }},
		{"before_update", func() error { return cb.Update().Before("gorm:update").Register("otel_timing:before_update", p.before) }},
		{"after_update", func() error { return cb.Update().After("gorm:update").Register("otel_timing:after_update", p.after) }},
		{"before_delete", func() error { return cb.Delete().Before("gorm:delete").Register("otel_timing:before_delete", p.before) }},
		{"after_delete", func() error { return cb.Delete().After("gorm:delete").Register("otel_timing:after_delete", p.after) }},
		{"before_row", func() error { return cb.Row().Before("gorm:row").Register("otel_timing:before_row", p.before) }},
		{"after_row", func() error { return cb.Row().After("gorm:row").Register("otel_timing:after_row", p.after) }},
		{"before_raw", func() error { return cb.Raw().Before("gorm:raw").Register("otel_timing:before_raw", p.before) }},
		{"after_raw", func() error { return cb.Raw().After("gorm:raw").Register("otel_timing:after_raw", p.after) }},
	}
	for _, r := range registrations {
		if err := r.fn(); err != nil {
			return fmt.Errorf("failed to register %s callback: %w", r.name, err)
		}
	}

	p.logger.Info("Database tracing enabled",
		zap.Bool("log_full_sql", p.config.LogFullSQL),
		zap.Duration("slow_query_threshold", p.config.SlowQueryThresh),
	)
	return nil
}

func (p *DBTracingPlugin) before(db *gorm.DB) {
	if db.Statement.Context != nil {
		db.Statement.Context = context.WithValue(db.Statement.Context, queryStartKey{}, time.Now())
	}
}

func (p *DBTracingPlugin) after(db *gorm.DB) {
	ctx := db.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	if db.Statement.RowsAffected >= 0 {
		span.SetAttributes(attribute.Int64("db.rows_affected", db.Statement.RowsAffected))
	}
	if db.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", db.Statement.Table))
	}
	if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, db.Error.Error())
		span.RecordError(db.Error)
	}

	start, ok := ctx.Value(queryStartKey{}).(time.Time)
	if !ok {
		return
	}
	if elapsed := time.Since(start); elapsed > p.config.SlowQueryThresh {
		span.SetAttributes(
			attribute.Bool("db.slow_query", true),
			attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
		)
		p.logger.Warn("slow settings query",
			zap.String("table", db.Statement.Table),
			zap.Duration("elapsed", elapsed),
		)
	}
}
