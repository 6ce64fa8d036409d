package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/migration"
	"github.com/fueltire/receipts/internal/infrastructure/persistence"
	"github.com/fueltire/receipts/internal/infrastructure/settings"
	"github.com/fueltire/receipts/internal/infrastructure/telemetry"
)

// SettingsRefreshInterval is how often the stored settings are reloaded
const SettingsRefreshInterval = time.Minute

// Settings is the settings store together with the reader the composer uses.
// Without a database only the [settings] table of the config file is read.
type Settings struct {
	Database   *persistence.Database
	Repository *persistence.SettingsRepository
	Snapshot   *settings.Snapshot
	Reader     settings.Reader
}

// OpenSettings connects the settings database, applies pending migrations and
// loads the first snapshot. Stored values take precedence over the config file.
func OpenSettings(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Settings, error) {
	static := settings.Static(cfg.Settings)
	if !cfg.Database.Enabled {
		logger.Info("settings database disabled, using config file values only")
		return &Settings{Reader: static}, nil
	}

	db, err := persistence.NewDatabase(&cfg.Database, logger.Named("gorm"))
	if err != nil {
		return nil, err
	}

	if err := migrateSettings(db, cfg.Database.Driver, logger); err != nil {
		_ = db.Close()
		return nil, err
	}

	plugin := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.DBTraceEnabled,
		LogFullSQL:      cfg.Telemetry.DBLogFullSQL,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBName:          cfg.Database.DBName,
	}, logger)
	if err := plugin.Register(db.DB); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to register database tracing: %w", err)
	}

	repo := persistence.NewSettingsRepository(db.DB)
	snapshot := settings.NewSnapshot(repo, settings.WithSnapshotLogger(logger))
	if err := snapshot.Refresh(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	return &Settings{
		Database:   db,
		Repository: repo,
		Snapshot:   snapshot,
		Reader:     settings.Chain{snapshot, static},
	}, nil
}

// migrateSettings runs pending migrations on the shared connection. The
// migrator is not closed since that would close the connection as well.
func migrateSettings(db *persistence.Database, driver string, logger *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}
	m, err := migration.New(sqlDB, driver, logger)
	if err != nil {
		return err
	}
	return m.Up()
}

// Run keeps the snapshot fresh until ctx is done
func (s *Settings) Run(ctx context.Context) {
	if s.Snapshot != nil {
		s.Snapshot.Run(ctx, SettingsRefreshInterval)
	}
}

// Close releases the database connection, if any
func (s *Settings) Close() error {
	if s.Database == nil {
		return nil
	}
	return s.Database.Close()
}
