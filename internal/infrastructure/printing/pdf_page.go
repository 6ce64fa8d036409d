package printing

import (
	"context"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// PDFPage lays a receipt out as HTML and prints it to PDF on Finish.
type PDFPage struct {
	*HTMLPage
	ctx      context.Context
	renderer PDFRenderer
}

// NewPDFPage creates a PDF page builder. ctx bounds the rendering done by Finish.
func NewPDFPage(ctx context.Context, renderer PDFRenderer, opts ...HTMLPageOption) *PDFPage {
	return &PDFPage{
		HTMLPage: NewHTMLPage(opts...),
		ctx:      ctx,
		renderer: renderer,
	}
}

func (p *PDFPage) Finish() ([]byte, error) {
	html, err := p.HTMLPage.Finish()
	if err != nil {
		return nil, err
	}
	result, err := p.renderer.Render(p.ctx, &RenderRequest{
		HTML:         string(html),
		Geometry:     p.geometry,
		HeightPoints: p.Height(),
		Title:        p.title,
	})
	if err != nil {
		return nil, err
	}
	return result.PDFData, nil
}

var _ printing.PageBuilder = (*PDFPage)(nil)
