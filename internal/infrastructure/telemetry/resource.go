// Package telemetry wires OpenTelemetry traces, metrics and logs, Pyroscope
// profiling and database tracing for the receipt service.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// DefaultServiceVersion is reported when no version is configured.
const DefaultServiceVersion = "1.0.0"

// AttrKioskID tags every exported signal with the kiosk that produced it.
const AttrKioskID = "fts.kiosk.id"

// exportDeadline bounds the final flush of a provider.
const exportDeadline = 10 * time.Second

// Collector is the OTLP endpoint shared by traces, metrics and logs, plus the
// identity this process reports under.
type Collector struct {
	Endpoint       string
	Insecure       bool
	ServiceName    string
	ServiceVersion string
	// KioskID doubles as service.instance.id, one instance per kiosk.
	KioskID string
}

func (c Collector) resource() (*resource.Resource, error) {
	version := c.ServiceVersion
	if version == "" {
		version = DefaultServiceVersion
	}
	attrs := []attribute.KeyValue{
		semconv.ServiceName(c.ServiceName),
		semconv.ServiceVersion(version),
	}
	if c.KioskID != "" {
		attrs = append(attrs,
			semconv.ServiceInstanceID(c.KioskID),
			attribute.String(AttrKioskID, c.KioskID),
		)
	}

	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(semconv.SchemaURL, attrs...))
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

func (c Collector) fields() []zap.Field {
	return []zap.Field{
		zap.String("collector_endpoint", c.Endpoint),
		zap.String("service_name", c.ServiceName),
		zap.String("kiosk_id", c.KioskID),
	}
}

// stopProvider flushes and stops one signal's provider within exportDeadline.
func stopProvider(ctx context.Context, signal string, stop func(context.Context) error, logger *zap.Logger) error {
	ctx, cancel := context.WithTimeout(ctx, exportDeadline)
	defer cancel()

	if err := stop(ctx); err != nil {
		logger.Error("Telemetry export did not stop cleanly", zap.String("signal", signal), zap.Error(err))
		return fmt.Errorf("failed to shutdown %s provider: %w", signal, err)
	}
	logger.Debug("Telemetry export stopped", zap.String("signal", signal))
	return nil
}
