package printing

import (
	"context"
	"strings"
	"time"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// RenderRequest contains the parameters for rendering a receipt page to PDF
type RenderRequest struct {
	// HTML content to render
	HTML string
	// Geometry is the roll width and margins
	Geometry printing.PageGeometry
	// HeightPoints is the content height; receipts are one continuous page
	HeightPoints float64
	// Title for the PDF document metadata
	Title string
	// Timeout overrides the default rendering timeout
	Timeout time.Duration
}

// Validate checks that the request can be rendered
func (r *RenderRequest) Validate() error {
	if r == nil {
		return NewRenderError(ErrCodeInvalidHTML, "render request is nil", nil)
	}
	if strings.TrimSpace(r.HTML) == "" {
		return NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if r.Geometry.WidthInches <= 0 || r.Geometry.ContentWidthPoints() <= 0 {
		return NewRenderError(ErrCodeInvalidGeometry, "page width must be positive", nil)
	}
	return nil
}

// RenderResult contains the output from PDF rendering
type RenderResult struct {
	// PDFData is the raw PDF file content
	PDFData []byte
	// RenderDuration is how long the rendering took
	RenderDuration time.Duration
}

// PDFRenderer defines the interface for rendering HTML to PDF
type PDFRenderer interface {
	// Render converts HTML content to a PDF document
	Render(ctx context.Context, req *RenderRequest) (*RenderResult, error)
	// Close releases any resources held by the renderer
	Close() error
}

// RenderError represents an error during receipt rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// Error codes for rendering failures
const (
	ErrCodeRenderTimeout   = "RENDER_TIMEOUT"
	ErrCodeRenderFailed    = "RENDER_FAILED"
	ErrCodeInvalidHTML     = "INVALID_HTML"
	ErrCodeInvalidGeometry = "INVALID_GEOMETRY"
	ErrCodePageState       = "PAGE_STATE"
	ErrCodeStorageFailed   = "STORAGE_FAILED"
	ErrCodeNotFound        = "NOT_FOUND"
)

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}
