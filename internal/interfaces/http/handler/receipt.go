package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fueltire/receipts/internal/application/receipt"
	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/interfaces/http/dto"
	"github.com/fueltire/receipts/internal/interfaces/http/middleware"
)

// Response headers describing a rendered receipt
const (
	HeaderRenderID    = "X-Render-ID"
	HeaderArchivePath = "X-Archive-Path"
	HeaderReceiptKind = "X-Receipt-Kind"
)

// ReceiptRenderer renders receipt jobs
type ReceiptRenderer interface {
	Render(ctx context.Context, format printing.OutputFormat, job *receipt.Job) (*receipt.RenderResult, error)
	RenderDeclined(ctx context.Context, format printing.OutputFormat, job *receipt.Job) (*receipt.RenderResult, error)
	RenderBulk(ctx context.Context, format printing.OutputFormat, job *receipt.Job) (*receipt.RenderResult, error)
}

// ReceiptHandler handles receipt rendering endpoints
type ReceiptHandler struct {
	BaseHandler
	service       ReceiptRenderer
	defaultFormat printing.OutputFormat
	now           func() time.Time
}

// ReceiptHandlerOption configures a ReceiptHandler
type ReceiptHandlerOption func(*ReceiptHandler)

// WithDefaultFormat sets the format used when the request names none
func WithDefaultFormat(format printing.OutputFormat) ReceiptHandlerOption {
	return func(h *ReceiptHandler) {
		if format.IsValid() {
			h.defaultFormat = format
		}
	}
}

// WithHandlerClock overrides the clock that fills a missing acceptance time
func WithHandlerClock(now func() time.Time) ReceiptHandlerOption {
	return func(h *ReceiptHandler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(service ReceiptRenderer, opts ...ReceiptHandlerOption) *ReceiptHandler {
	h := &ReceiptHandler{
		service:       service,
		defaultFormat: printing.OutputFormatHTML,
		now:           time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Render handles POST /receipts
func (h *ReceiptHandler) Render(c *gin.Context) {
	h.renderSingle(c, h.service.Render)
}

// RenderDeclined handles POST /receipts/declined
func (h *ReceiptHandler) RenderDeclined(c *gin.Context) {
	h.renderSingle(c, h.service.RenderDeclined)
}

// RenderBulk handles POST /receipts/bulk
func (h *ReceiptHandler) RenderBulk(c *gin.Context) {
	format, ok := h.format(c)
	if !ok {
		return
	}

	var req receipt.BulkRenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	job := req.ToJob(h.now())
	h.assignKiosk(c, job)

	result, err := h.service.RenderBulk(c.Request.Context(), format, job)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writeResult(c, result)
}

type renderFunc func(ctx context.Context, format printing.OutputFormat, job *receipt.Job) (*receipt.RenderResult, error)

func (h *ReceiptHandler) renderSingle(c *gin.Context, render renderFunc) {
	format, ok := h.format(c)
	if !ok {
		return
	}

	var req receipt.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.HandleBindError(c, err)
		return
	}

	job := req.ToJob(h.now())
	h.assignKiosk(c, job)

	result, err := render(c.Request.Context(), format, job)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.writeResult(c, result)
}

// format reads ?format=, answering 400 for an unknown value
func (h *ReceiptHandler) format(c *gin.Context) (printing.OutputFormat, bool) {
	raw := c.Query("format")
	if raw == "" {
		return h.defaultFormat, true
	}
	format := printing.OutputFormat(raw)
	if !format.IsValid() {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeInvalidFormat,
			fmt.Sprintf("Unsupported output format %q", raw))
		return "", false
	}
	return format, true
}

// assignKiosk makes the authenticated kiosk authoritative over the body
func (h *ReceiptHandler) assignKiosk(c *gin.Context, job *receipt.Job) {
	if kioskID := middleware.GetKioskID(c); kioskID != "" {
		job.KioskID = kioskID
	}
}

// writeResult sends the document bytes, or its metadata when the client asks for JSON
func (h *ReceiptHandler) writeResult(c *gin.Context, result *receipt.RenderResult) {
	c.Header(HeaderRenderID, result.RenderID.String())
	c.Header(HeaderReceiptKind, string(result.Kind))
	if result.ArchivePath != "" {
		c.Header(HeaderArchivePath, result.ArchivePath)
	}

	if c.Query("describe") == "true" {
		h.Success(c, result.ToResponse())
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", result.Filename()))
	c.Data(http.StatusOK, result.ContentType, result.Data)
}
