package printing

import "github.com/fueltire/receipts/internal/domain/shared"

// PointsPerInch converts inches to page units (points)
const PointsPerInch = 72.0

// PageGeometry is the printable roll geometry in inches
type PageGeometry struct {
	WidthInches  float64 `json:"width_inches"`
	MarginInches float64 `json:"margin_inches"`
}

// NewPageGeometry creates a new PageGeometry value object
func NewPageGeometry(width, margin float64) (PageGeometry, error) {
	if width <= 0 {
		return PageGeometry{}, shared.ErrInvalidGeometry.Withf("Page width must be positive")
	}
	if margin < 0 {
		return PageGeometry{}, shared.ErrInvalidGeometry.Withf("Page margin cannot be negative")
	}
	if margin*2 >= width {
		return PageGeometry{}, shared.ErrInvalidGeometry.Withf("Page margins cannot exceed the page width")
	}
	return PageGeometry{WidthInches: width, MarginInches: margin}, nil
}

// ReceiptGeometry returns the 2.75in kiosk roll geometry. The printer
// supplies its own margins.
func ReceiptGeometry() PageGeometry {
	return PageGeometry{WidthInches: 2.75}
}

// WidthPoints returns the full page width in points
func (g PageGeometry) WidthPoints() float64 {
	return g.WidthInches * PointsPerInch
}

// ContentWidthPoints returns the width between the margins in points
func (g PageGeometry) ContentWidthPoints() float64 {
	return (g.WidthInches - 2*g.MarginInches) * PointsPerInch
}

// Style is a per-call emphasis applied on top of the current TextOptions
type Style struct {
	Bold   bool `json:"bold,omitempty"`
	Italic bool `json:"italic,omitempty"`
}

// Plain is the zero Style
var Plain = Style{}

// TextOptions is the text state used by subsequent write calls
type TextOptions struct {
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold,omitempty"`
	Italic bool    `json:"italic,omitempty"`
	Align  Align   `json:"align,omitempty"`
}

// Text returns left-aligned options of the given size
func Text(size float64) TextOptions {
	return TextOptions{Size: size, Align: AlignLeft}
}

// Centered returns a copy aligned to the center
func (o TextOptions) Centered() TextOptions {
	o.Align = AlignCenter
	return o
}

// Emphasized returns a copy in bold
func (o TextOptions) Emphasized() TextOptions {
	o.Bold = true
	return o
}

// Slanted returns a copy in italics
func (o TextOptions) Slanted() TextOptions {
	o.Italic = true
	return o
}

// With merges a per-call style into the options
func (o TextOptions) With(s Style) TextOptions {
	o.Bold = o.Bold || s.Bold
	o.Italic = o.Italic || s.Italic
	return o
}

// ImageOptions places an image on the page
type ImageOptions struct {
	// Scale multiplies the natural image size; ignored when Fit is set
	Scale float64 `json:"scale,omitempty"`
	// Fit scales the image to the content width
	Fit     bool    `json:"fit,omitempty"`
	Align   Align   `json:"align,omitempty"`
	OffsetY float64 `json:"offset_y,omitempty"`
}
