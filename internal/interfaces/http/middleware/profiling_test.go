package middleware

import (
	"net/http"
	"net/http/httptest"
	"runtime/pprof"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/fueltire/receipts/internal/infrastructure/logger"
	"github.com/fueltire/receipts/internal/infrastructure/telemetry"
)

func TestProfiling(t *testing.T) {
	var route, kiosk, method string

	router := gin.New()
	router.Use(func(c *gin.Context) {
		c.Set(logger.GinKioskIDKey, "K-7")
		c.Next()
	})
	router.Use(Profiling(true))
	router.POST("/api/v1/receipts", func(c *gin.Context) {
		ctx := c.Request.Context()
		route, _ = pprof.Label(ctx, telemetry.ProfilingLabelRoute)
		kiosk, _ = pprof.Label(ctx, telemetry.ProfilingLabelKioskID)
		method, _ = pprof.Label(ctx, telemetry.ProfilingLabelMethod)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/receipts", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/v1/receipts", route)
	assert.Equal(t, "K-7", kiosk)
	assert.Equal(t, http.MethodPost, method)
}

func TestProfiling_Disabled(t *testing.T) {
	var labelled bool

	router := gin.New()
	router.Use(Profiling(false))
	router.GET("/test", func(c *gin.Context) {
		_, labelled = pprof.Label(c.Request.Context(), telemetry.ProfilingLabelRoute)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/test", nil))

	assert.False(t, labelled)
}
