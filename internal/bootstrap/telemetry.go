package bootstrap

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
	"github.com/fueltire/receipts/internal/infrastructure/telemetry"
)

// InstrumentationName names the meter and tracer of the receipt service
const InstrumentationName = "github.com/fueltire/receipts"

// Telemetry holds the OpenTelemetry providers and the profiler
type Telemetry struct {
	Tracer   *telemetry.TracerProvider
	Meter    *telemetry.MeterProvider
	Logs     *telemetry.LoggerProvider
	Profiler *telemetry.Profiler
}

// StartTelemetry starts every provider the configuration enables. Disabled
// providers are still returned so callers need no nil checks.
func StartTelemetry(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Telemetry, error) {
	tc := cfg.Telemetry
	t := &Telemetry{}

	collector := telemetry.Collector{
		Endpoint:       tc.CollectorEndpoint,
		Insecure:       tc.Insecure,
		ServiceName:    tc.ServiceName,
		ServiceVersion: cfg.App.Version,
		KioskID:        cfg.Receipt.KioskID,
	}

	var err error
	t.Tracer, err = telemetry.NewTracerProvider(ctx, telemetry.TracingConfig{
		Collector:     collector,
		Enabled:       tc.Enabled,
		SamplingRatio: tc.SamplingRatio,
	}, log)
	if err != nil {
		return nil, err
	}

	t.Meter, err = telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Collector:      collector,
		Enabled:        tc.MetricsEnabled,
		ExportInterval: tc.ExportInterval,
	}, log)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	t.Logs, err = telemetry.NewLoggerProvider(ctx, telemetry.LogsConfig{
		Collector: collector,
		Enabled:   tc.LogsEnabled,
	}, log)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	t.Profiler, err = telemetry.NewProfiler(telemetry.ProfilerConfig{
		Enabled:         tc.ProfilingEnabled,
		ServerAddress:   tc.ProfilerServerAddress,
		ApplicationName: tc.ServiceName,
		KioskID:         cfg.Receipt.KioskID,
		ProfileCPU:      true,
		ProfileAlloc:    true,
		ProfileInuse:    true,
	}, log)
	if err != nil {
		_ = t.Shutdown(ctx)
		return nil, err
	}

	if tc.SpanProfilesEnabled && t.Profiler.IsEnabled() {
		if err := t.Tracer.EnableSpanProfiles(); err != nil {
			log.Warn("Failed to enable span profiles", zap.Error(err))
		}
	}
	return t, nil
}

// Logger rebuilds the application logger so entries are also shipped to the
// collector when OTEL logs are enabled
func (t *Telemetry) Logger(cfg *logger.Config) (*zap.Logger, error) {
	if !t.Logs.IsEnabled() {
		return logger.New(cfg)
	}
	return logger.New(cfg, t.Logs.NewZapCore(logger.ParseLevel(cfg.Level)))
}

// ServiceMeter returns the service meter, or nil when metrics are disabled
func (t *Telemetry) ServiceMeter() metric.Meter {
	if t.Meter == nil || !t.Meter.IsEnabled() {
		return nil
	}
	return t.Meter.Meter(InstrumentationName)
}

// Shutdown stops the profiler and flushes every provider
func (t *Telemetry) Shutdown(ctx context.Context) error {
	var errs []error
	if t.Profiler != nil {
		errs = append(errs, t.Profiler.Stop())
	}
	if t.Tracer != nil {
		errs = append(errs, t.Tracer.Shutdown(ctx))
	}
	if t.Meter != nil {
		errs = append(errs, t.Meter.Shutdown(ctx))
	}
	if t.Logs != nil {
		errs = append(errs, t.Logs.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
