package printing

import (
	"context"

	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/domain/shared"
)

// ErrRendererUnavailable is returned for PDF output when no renderer is configured
var ErrRendererUnavailable = shared.NewDomainError("RENDERER_UNAVAILABLE", "PDF output requires a configured renderer")

// PageFactory creates a fresh page builder per receipt for the requested format
type PageFactory struct {
	renderer PDFRenderer
	images   ImageLoader
	logger   *zap.Logger
}

// PageFactoryOption configures a PageFactory
type PageFactoryOption func(*PageFactory)

// WithRenderer enables PDF output
func WithRenderer(renderer PDFRenderer) PageFactoryOption {
	return func(f *PageFactory) {
		f.renderer = renderer
	}
}

// WithImages sets how logos and coupons are loaded for HTML and PDF pages
func WithImages(load ImageLoader) PageFactoryOption {
	return func(f *PageFactory) {
		f.images = load
	}
}

// WithFactoryLogger sets the logger handed to pages
func WithFactoryLogger(logger *zap.Logger) PageFactoryOption {
	return func(f *PageFactory) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// NewPageFactory creates a page factory; without a renderer only HTML and layout are available
func NewPageFactory(opts ...PageFactoryOption) *PageFactory {
	f := &PageFactory{images: FileImageLoader, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// NewPage returns a page builder for format. ctx bounds PDF rendering.
func (f *PageFactory) NewPage(ctx context.Context, format printing.OutputFormat, title string) (printing.PageBuilder, error) {
	htmlOpts := []HTMLPageOption{
		WithImageLoader(f.images),
		WithPageLogger(f.logger),
		WithTitle(title),
	}
	switch format {
	case printing.OutputFormatHTML:
		return NewHTMLPage(htmlOpts...), nil
	case printing.OutputFormatLayout:
		return NewLayoutPage(), nil
	case printing.OutputFormatPDF:
		if f.renderer == nil {
			return nil, ErrRendererUnavailable
		}
		return NewPDFPage(ctx, f.renderer, htmlOpts...), nil
	default:
		return nil, shared.ErrInvalidFormat.Withf("Unsupported output format %q", format)
	}
}

// SupportsPDF reports whether a renderer is configured
func (f *PageFactory) SupportsPDF() bool {
	return f.renderer != nil
}
