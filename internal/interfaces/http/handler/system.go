package handler

import (
	"context"
	"net/http"
	"runtime"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/interfaces/http/dto"
)

// HealthCheck probes one dependency; a nil error means healthy
type HealthCheck func(ctx context.Context) error

// SystemHandler handles system-related API endpoints
type SystemHandler struct {
	BaseHandler
	name      string
	version   string
	formats   []printing.OutputFormat
	checks    map[string]HealthCheck
	startTime time.Time
	now       func() time.Time
}

// SystemHandlerOption configures a SystemHandler
type SystemHandlerOption func(*SystemHandler)

// WithHealthCheck adds a named dependency probe to /health
func WithHealthCheck(name string, check HealthCheck) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.checks[name] = check
	}
}

// WithFormats lists the output formats the running renderer supports
func WithFormats(formats ...printing.OutputFormat) SystemHandlerOption {
	return func(h *SystemHandler) {
		h.formats = formats
	}
}

// NewSystemHandler creates a new SystemHandler
func NewSystemHandler(name, version string, opts ...SystemHandlerOption) *SystemHandler {
	h := &SystemHandler{
		name:      name,
		version:   version,
		formats:   []printing.OutputFormat{printing.OutputFormatHTML, printing.OutputFormatLayout},
		checks:    make(map[string]HealthCheck),
		startTime: time.Now(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SystemInfoResponse represents the system information response
type SystemInfoResponse struct {
	Name      string   `json:"name"`
	Version   string   `json:"version"`
	GoVersion string   `json:"go_version"`
	Uptime    string   `json:"uptime"`
	Formats   []string `json:"formats"`
}

// GetSystemInfo handles GET /system/info
func (h *SystemHandler) GetSystemInfo(c *gin.Context) {
	formats := make([]string, len(h.formats))
	for i, f := range h.formats {
		formats[i] = string(f)
	}

	info := SystemInfoResponse{
		Name:      h.name,
		Version:   h.version,
		GoVersion: runtime.Version(),
		Uptime:    h.now().Sub(h.startTime).Round(time.Second).String(),
		Formats:   formats,
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(info))
}

// PingResponse represents the ping response
type PingResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// Ping handles GET /system/ping
func (h *SystemHandler) Ping(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(PingResponse{
		Message:   "pong",
		Timestamp: h.now().Format(time.RFC3339),
	}))
}

// HealthResponse reports the status of each dependency
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Health handles GET /health. Any failing check turns the response into a 503.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	resp := HealthResponse{Status: "healthy"}
	status := http.StatusOK
	if len(names) > 0 {
		resp.Checks = make(map[string]string, len(names))
	}
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			resp.Checks[name] = "unhealthy: " + err.Error()
			resp.Status = "unhealthy"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "healthy"
	}
	c.JSON(status, resp)
}
