package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFromContext(t *testing.T) {
	assert.NotNil(t, FromContext(context.Background()))

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	FromContext(ctx).Info("hello")
	assert.Equal(t, 1, logs.Len())
}

func TestRequestAndKioskIDs(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	ctx, log := WithRequestID(context.Background(), base, "req-1")
	ctx, log = WithKioskID(ctx, log, "K-7")

	assert.Equal(t, "req-1", GetRequestID(ctx))
	assert.Equal(t, "K-7", GetKioskID(ctx))
	assert.Empty(t, GetKioskID(context.Background()))

	log.Info("enriched")
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, "req-1", fields["request_id"])
	assert.Equal(t, "K-7", fields["kiosk_id"])
}

func TestContextLogger_TraceCorrelation(t *testing.T) {
	tp := sdktrace.NewTracerProvider()
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithContext(context.Background(), zap.New(core))
	ctx = context.WithValue(ctx, kioskIDKey, "K-9")
	ctx, span := tp.Tracer("test").Start(ctx, "receipt.render")
	defer span.End()

	L(ctx).With(zap.String("kind", "STANDARD")).Info("rendered")

	require.Equal(t, 1, logs.Len())
	fields := logs.All()[0].ContextMap()
	assert.Equal(t, span.SpanContext().TraceID().String(), fields["trace_id"])
	assert.Equal(t, span.SpanContext().SpanID().String(), fields["span_id"])
	assert.Equal(t, "K-9", fields["kiosk_id"])
	assert.Equal(t, "STANDARD", fields["kind"])
}

func TestWithTraceContext_NoSpan(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core)

	WithTraceContext(context.Background(), log).Info("plain")
	_, hasTrace := logs.All()[0].ContextMap()["trace_id"]
	assert.False(t, hasTrace)
}

func TestWithLogger_NilLogger(t *testing.T) {
	assert.NotPanics(t, func() {
		WithLogger(context.Background(), nil).Warn("dropped")
	})
}
