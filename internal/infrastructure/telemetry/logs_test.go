package telemetry

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	lp, err := NewLoggerProvider(ctx, LogsConfig{Collector: Collector{ServiceName: "test-service"}}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.NoError(t, lp.Shutdown(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestNewZapCore_DisabledIsNop(t *testing.T) {
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, zap.NewNop())
	require.NoError(t, err)

	core := lp.NewZapCore(zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))

	var nilProvider *LoggerProvider
	assert.False(t, nilProvider.NewZapCore(zapcore.InfoLevel).Enabled(zapcore.ErrorLevel))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}

	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.WarnLevel))

	logger := zap.New(core).With(zap.String("kiosk", "K-1"))
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept too")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "kept", entries[0].Message)
	assert.Equal(t, "K-1", entries[0].ContextMap()["kiosk"])
}

func TestCollector_Resource(t *testing.T) {
	res, err := Collector{ServiceName: "fts-receipts", KioskID: "K-12"}.resource()
	require.NoError(t, err)

	attrs := map[string]string{}
	for _, kv := range res.Attributes() {
		attrs[string(kv.Key)] = kv.Value.Emit()
	}
	assert.Equal(t, "fts-receipts", attrs["service.name"])
	assert.Equal(t, DefaultServiceVersion, attrs["service.version"])
	assert.Equal(t, "K-12", attrs["service.instance.id"])
	assert.Equal(t, "K-12", attrs[AttrKioskID])

	res, err = Collector{ServiceName: "fts-receipts", ServiceVersion: "2.1.0"}.resource()
	require.NoError(t, err)
	for _, kv := range res.Attributes() {
		assert.NotEqual(t, AttrKioskID, string(kv.Key))
		if kv.Key == "service.version" {
			assert.Equal(t, "2.1.0", kv.Value.AsString())
		}
	}
}

func TestStopProvider(t *testing.T) {
	err := stopProvider(context.Background(), "meter", func(context.Context) error {
		return errors.New("collector unreachable")
	}, zap.NewNop())
	assert.EqualError(t, err, "failed to shutdown meter provider: collector unreachable")

	var deadline bool
	require.NoError(t, stopProvider(context.Background(), "tracer", func(ctx context.Context) error {
		_, deadline = ctx.Deadline()
		return nil
	}, zap.NewNop()))
	assert.True(t, deadline)
}
