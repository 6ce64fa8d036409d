package printing

import "github.com/fueltire/receipts/internal/domain/printing"

const (
	// lineSpacing is the leading as a multiple of the font size
	lineSpacing = 1.2
	// BarcodeHeight is the vertical space a barcode occupies, in points
	BarcodeHeight = 36.0
	defaultSize   = 10.0
)

// cursor tracks the write position shared by the page builders.
type cursor struct {
	geometry printing.PageGeometry
	opts     printing.TextOptions
	y        float64
	began    bool
}

func (c *cursor) begin(geometry printing.PageGeometry) {
	c.geometry = geometry
	c.opts = printing.Text(defaultSize)
	c.y = geometry.MarginInches * printing.PointsPerInch
	c.began = true
}

func (c *cursor) left() float64 {
	return c.geometry.MarginInches * printing.PointsPerInch
}

func (c *cursor) contentWidth() float64 {
	return c.geometry.ContentWidthPoints()
}

// x returns the left edge of an item of the given width under align
func (c *cursor) x(width float64, align printing.Align) float64 {
	switch align {
	case printing.AlignCenter:
		return c.left() + (c.contentWidth()-width)/2
	case printing.AlignRight:
		return c.left() + c.contentWidth() - width
	default:
		return c.left()
	}
}

func (c *cursor) lineHeight() float64 {
	return c.opts.Size * lineSpacing
}

// height is the page height needed for everything written so far
func (c *cursor) height() float64 {
	return c.y + c.geometry.MarginInches*printing.PointsPerInch
}
