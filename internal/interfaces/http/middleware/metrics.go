package middleware

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fueltire/receipts/internal/infrastructure/telemetry"
)

// receiptKindHeader is set by the receipt handlers on every rendered document
const receiptKindHeader = "X-Receipt-Kind"

type httpMetrics struct {
	requests  *telemetry.Counter
	latency   *telemetry.Histogram
	delivered *telemetry.Histogram
	inFlight  metric.Int64UpDownCounter
}

func newHTTPMetrics(meter metric.Meter) (*httpMetrics, error) {
	m := &httpMetrics{}
	var err error

	if m.requests, err = telemetry.NewCounter(meter,
		"http_server_request_total", "HTTP requests by route and status", "{request}"); err != nil {
		return nil, err
	}
	if m.latency, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_request_duration_seconds",
		Description: "HTTP request latency in seconds",
		Unit:        "s",
		Boundaries:  telemetry.HTTPDurationBuckets,
	}); err != nil {
		return nil, err
	}
	if m.delivered, err = telemetry.NewHistogram(meter, telemetry.HistogramOpts{
		Name:        "http_server_receipt_bytes",
		Description: "Size of receipt documents sent to kiosks",
		Unit:        "By",
		Boundaries:  telemetry.ReceiptSizeBuckets,
	}); err != nil {
		return nil, err
	}
	if m.inFlight, err = meter.Int64UpDownCounter("http_server_active_requests",
		metric.WithDescription("HTTP requests being served"),
		metric.WithUnit("{request}"),
	); err != nil {
		return nil, err
	}
	return m, nil
}

// HTTPMetrics returns a middleware recording request count, latency and
// in-flight requests by method and route pattern, plus the size of every
// receipt document delivered. A nil meter disables it.
func HTTPMetrics(meter metric.Meter) (gin.HandlerFunc, error) {
	if meter == nil {
		return func(c *gin.Context) { c.Next() }, nil
	}
	m, err := newHTTPMetrics(meter)
	if err != nil {
		return nil, err
	}

	return func(c *gin.Context) {
		start := time.Now()
		ctx := c.Request.Context()
		attrs := routeAttributes(c)

		m.inFlight.Add(ctx, 1, metric.WithAttributes(attrs...))
		defer m.inFlight.Add(ctx, -1, metric.WithAttributes(attrs...))

		c.Next()
		m.record(ctx, c, attrs, time.Since(start))
	}, nil
}

func (m *httpMetrics) record(ctx context.Context, c *gin.Context, attrs []attribute.KeyValue, elapsed time.Duration) {
	m.latency.RecordDuration(ctx, elapsed, attrs...)

	outcome := append(attrs, telemetry.AttrHTTPStatusCode.Int(c.Writer.Status()))
	if kind := c.Writer.Header().Get(receiptKindHeader); kind != "" {
		outcome = append(outcome, telemetry.AttrReceiptKind.String(kind))
		if size := c.Writer.Size(); size > 0 {
			m.delivered.Record(ctx, float64(size), telemetry.AttrReceiptKind.String(kind))
		}
	}
	m.requests.Inc(ctx, outcome...)
}

// routeAttributes uses the route pattern so ids in paths stay out of labels
func routeAttributes(c *gin.Context) []attribute.KeyValue {
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	return []attribute.KeyValue{
		telemetry.AttrHTTPMethod.String(c.Request.Method),
		telemetry.AttrHTTPRoute.String(route),
	}
}
