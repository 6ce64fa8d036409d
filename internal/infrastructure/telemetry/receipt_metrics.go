package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// ReceiptMetrics records rendering activity and mirrors the kiosk running
// totals as OpenTelemetry counters.
type ReceiptMetrics struct {
	logger *zap.Logger

	rendered *Counter
	failed   *Counter
	duration *Histogram
	size     *Histogram
	totals   *FloatCounter
}

// NewReceiptMetrics creates the receipt instruments on meter.
func NewReceiptMetrics(meter metric.Meter, logger *zap.Logger) (*ReceiptMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &ReceiptMetrics{logger: logger}
	var err error

	m.rendered, err = NewCounter(meter,
		"fts_receipts_rendered_total",
		"Total number of receipts rendered",
		"{receipts}",
	)
	if err != nil {
		return nil, err
	}

	m.failed, err = NewCounter(meter,
		"fts_receipt_render_failures_total",
		"Total number of receipt renders that failed",
		"{receipts}",
	)
	if err != nil {
		return nil, err
	}

	m.duration, err = NewHistogram(meter, HistogramOpts{
		Name:        "fts_receipt_render_duration_seconds",
		Description: "Time to compose and encode a receipt",
		Unit:        "s",
		Boundaries:  RenderDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	m.size, err = NewHistogram(meter, HistogramOpts{
		Name:        "fts_receipt_size_bytes",
		Description: "Size of encoded receipt documents",
		Unit:        "By",
		Boundaries:  ReceiptSizeBuckets,
	})
	if err != nil {
		return nil, err
	}

	m.totals, err = NewFloatCounter(meter,
		"fts_kiosk_totals",
		"Kiosk running totals, partitioned by counter name",
		"{USD}",
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

// RecordRender records a successful render.
func (m *ReceiptMetrics) RecordRender(ctx context.Context, kind printing.ReceiptKind, format printing.OutputFormat, d time.Duration, size int) {
	attrs := []attribute.KeyValue{AttrReceiptKind.String(kind.String()), AttrOutputFormat.String(string(format))}
	m.rendered.Inc(ctx, attrs...)
	m.duration.RecordDuration(ctx, d, attrs...)
	m.size.Record(ctx, float64(size), attrs...)
}

// RecordFailure records a failed render with the error code that caused it.
func (m *ReceiptMetrics) RecordFailure(ctx context.Context, kind printing.ReceiptKind, format printing.OutputFormat, code string) {
	m.failed.Inc(ctx,
		AttrReceiptKind.String(kind.String()),
		AttrOutputFormat.String(string(format)),
		AttrErrorCode.String(code),
	)
}

// Increment adds amount to a running total. It satisfies the receipt
// counter sink so totals can be fanned out to the metrics pipeline.
func (m *ReceiptMetrics) Increment(ctx context.Context, name string, amount float64) {
	if amount < 0 {
		m.logger.Debug("dropping negative running total increment",
			zap.String("counter", name), zap.Float64("amount", amount))
		return
	}
	m.totals.Add(ctx, amount, AttrCounterName.String(name))
}

// MetricsError is returned when instruments cannot be created.
type MetricsError struct {
	Op  string
	Err string
}

func (e *MetricsError) Error() string {
	return e.Op + ": " + e.Err
}

// ErrMeterNil is returned when meter is nil.
var ErrMeterNil = &MetricsError{Op: "NewReceiptMetrics", Err: "meter cannot be nil"}
