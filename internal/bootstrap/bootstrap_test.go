package bootstrap

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/application/receipt"
	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/counter"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
	infra "github.com/fueltire/receipts/internal/infrastructure/printing"
)

func TestIdentity(t *testing.T) {
	t.Run("empty config keeps defaults", func(t *testing.T) {
		assert.Equal(t, receipt.DefaultIdentity(), Identity(config.ReceiptConfig{}))
	})

	t.Run("overlays configured values", func(t *testing.T) {
		id := Identity(config.ReceiptConfig{
			KioskID:       "K-44",
			CompanyLines:  []string{"Tire Stop", "Reston, VA"},
			OfficePhone:   "(571) 555-0100",
			LogoScale:     0.5,
			CopyrightYear: 2019,
		})
		def := receipt.DefaultIdentity()

		assert.Equal(t, "K-44", id.KioskID)
		assert.Equal(t, []string{"Tire Stop", "Reston, VA"}, id.CompanyLines)
		assert.Equal(t, "(571) 555-0100", id.OfficePhone)
		assert.Equal(t, 0.5, id.LogoScale)
		assert.Equal(t, 2019, id.CopyrightYear)
		assert.Equal(t, def.Website, id.Website)
		assert.Equal(t, def.NitrogenBrand, id.NitrogenBrand)
	})
}

func TestGeometry(t *testing.T) {
	g, err := Geometry(config.ReceiptConfig{})
	require.NoError(t, err)
	assert.Equal(t, printing.ReceiptGeometry(), g)

	g, err = Geometry(config.ReceiptConfig{WidthInches: 3.125, MarginInches: 0.1})
	require.NoError(t, err)
	assert.Equal(t, 3.125, g.WidthInches)

	_, err = Geometry(config.ReceiptConfig{WidthInches: 1, MarginInches: 0.5})
	assert.Error(t, err)

	_, err = NewComposer(config.ReceiptConfig{WidthInches: 1, MarginInches: 0.5}, nil, nil, zap.NewNop())
	assert.ErrorContains(t, err, "invalid receipt geometry")
}

func TestFormats(t *testing.T) {
	assert.Equal(t, []printing.OutputFormat{printing.OutputFormatHTML, printing.OutputFormatLayout}, Formats(nil))
}

func TestNewRenderer_Disabled(t *testing.T) {
	renderer, err := NewRenderer(config.RendererConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, renderer)
	assert.False(t, NewPageFactory(renderer, zap.NewNop()).SupportsPDF())
}

func TestNewArchive(t *testing.T) {
	ctx := context.Background()

	archive, err := NewArchive(ctx, config.StorageConfig{Archive: config.ArchiveNone}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, archive)

	base := filepath.Join(t.TempDir(), "receipts")
	archive, err = NewArchive(ctx, config.StorageConfig{Archive: config.ArchiveFS, BasePath: base}, zap.NewNop())
	require.NoError(t, err)
	assert.IsType(t, &infra.FileSystemArchive{}, archive)
	assert.DirExists(t, base)
}

func TestOpenSettings_NoDatabase(t *testing.T) {
	cfg := &config.Config{Settings: map[string]float64{"gas_price": 3.49}}

	s, err := OpenSettings(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()

	assert.Nil(t, s.Repository)
	v, ok := s.Reader.GetFloat("gas_price")
	assert.True(t, ok)
	assert.Equal(t, 3.49, v)
	s.Run(context.Background())
}

func TestOpenSettings_SQLite(t *testing.T) {
	cfg := &config.Config{
		Database: config.DatabaseConfig{
			Enabled:      true,
			Driver:       "sqlite",
			Path:         filepath.Join(t.TempDir(), "settings.db"),
			MaxOpenConns: 1,
			MaxIdleConns: 1,
			LogLevel:     "silent",
		},
		Settings: map[string]float64{"gas_price": 9.99, "label_width": 30},
	}
	ctx := context.Background()

	s, err := OpenSettings(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer s.Close()
	require.NotNil(t, s.Repository)

	// seeded rows win over the config file
	v, ok := s.Reader.GetFloat("gas_price")
	require.True(t, ok)
	assert.Equal(t, 3.00, v)
	v, ok = s.Reader.GetFloat("nitrogen_percent")
	require.True(t, ok)
	assert.Equal(t, 95.0, v)
	v, ok = s.Reader.GetFloat("label_width")
	require.True(t, ok)
	assert.Equal(t, 30.0, v)

	require.NoError(t, s.Repository.Set(ctx, "gas_price", 3.79))
	require.NoError(t, s.Snapshot.Refresh(ctx))
	v, _ = s.Reader.GetFloat("gas_price")
	assert.Equal(t, 3.79, v)

	require.NoError(t, s.Database.Ping())
}

func TestOpenCounters_InMemory(t *testing.T) {
	c, err := OpenCounters(config.RedisConfig{}, nil, false, zap.NewNop())
	require.NoError(t, err)
	defer c.Close()

	mem, ok := c.Store.(*counter.MemorySink)
	require.True(t, ok)
	assert.Nil(t, c.Metrics)
	assert.Same(t, mem, c.Sink())

	c.Sink().Increment(context.Background(), receipt.CounterTotalSavedDollars, 1.25)
	assert.Equal(t, 1.25, mem.Value(receipt.CounterTotalSavedDollars))

	assert.NoError(t, c.Ping(context.Background()))

	revocations := c.Revocations()
	require.NoError(t, revocations.Revoke(context.Background(), "K-1", time.Hour))
	revoked, err := revocations.IsRevoked(context.Background(), "K-1", time.Now().Add(-time.Minute))
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestStartTelemetry_Disabled(t *testing.T) {
	cfg := &config.Config{
		App:       config.AppConfig{Version: "1.0.0"},
		Telemetry: config.TelemetryConfig{ServiceName: "fts-receipts", SamplingRatio: 1},
	}
	ctx := context.Background()

	tel, err := StartTelemetry(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, tel.ServiceMeter())

	log, err := tel.Logger(&logger.Config{Level: "info", Format: "json", Output: "stderr"})
	require.NoError(t, err)
	assert.NotNil(t, log)

	c, err := OpenCounters(config.RedisConfig{}, tel, false, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, c.Metrics)

	assert.NoError(t, tel.Shutdown(ctx))
}

func TestRunRetention(t *testing.T) {
	base := t.TempDir()
	archive, err := infra.NewFileSystemArchive(&infra.FileSystemArchiveConfig{BasePath: base})
	require.NoError(t, err)

	old := filepath.Join(base, "2020", "01", "02", "old.html")
	require.NoError(t, os.MkdirAll(filepath.Dir(old), 0o755))
	require.NoError(t, os.WriteFile(old, []byte("<html></html>"), 0o644))
	stale := time.Now().Add(-48 * time.Hour)
	require.NoError(t, os.Chtimes(old, stale, stale))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		RunRetention(ctx, archive, 24*time.Hour, 10*time.Millisecond, zap.NewNop())
		close(done)
	}()

	assert.Eventually(t, func() bool {
		_, err := os.Stat(old)
		return os.IsNotExist(err)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done

	// no retention returns at once
	RunRetention(context.Background(), archive, 0, time.Millisecond, zap.NewNop())
	RunRetention(context.Background(), nil, time.Hour, time.Millisecond, zap.NewNop())
}
