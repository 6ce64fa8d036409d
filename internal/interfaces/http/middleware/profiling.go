package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/fueltire/receipts/internal/infrastructure/logger"
	"github.com/fueltire/receipts/internal/infrastructure/telemetry"
)

// Profiling tags profiles taken during a request with its method, route
// pattern and kiosk. Place it after KioskAuth so the kiosk is known.
func Profiling(enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		telemetry.WithProfilingLabels(c.Request.Context(), profilingLabels(c), func(ctx context.Context) {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
		})
	}
}

func profilingLabels(c *gin.Context) map[string]string {
	labels := make(map[string]string, 3)
	if method := c.Request.Method; method != "" {
		labels[telemetry.ProfilingLabelMethod] = method
	}
	// the pattern keeps cardinality low
	if route := c.FullPath(); route != "" {
		labels[telemetry.ProfilingLabelRoute] = route
	}
	if kioskID := c.GetString(logger.GinKioskIDKey); kioskID != "" {
		labels[telemetry.ProfilingLabelKioskID] = kioskID
	}
	return labels
}
