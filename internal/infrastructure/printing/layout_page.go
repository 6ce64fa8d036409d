package printing

import (
	"bytes"
	"encoding/json"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// LayoutOp is one recorded page operation
type LayoutOp struct {
	Op        string  `json:"op"`
	Y         float64 `json:"y"`
	Text      string  `json:"text,omitempty"`
	Right     string  `json:"right,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	RightBold bool    `json:"right_bold,omitempty"`
	Align     string  `json:"align,omitempty"`
	Src       string  `json:"src,omitempty"`
	Scale     float64 `json:"scale,omitempty"`
	Fit       bool    `json:"fit,omitempty"`
	OffsetX   float64 `json:"offset_x,omitempty"`
	OffsetY   float64 `json:"offset_y,omitempty"`
	Thickness float64 `json:"thickness,omitempty"`
	Width     float64 `json:"width,omitempty"`
}

// LayoutPage records page operations as JSON lines instead of drawing them.
// Images are not resolved and never move the cursor.
type LayoutPage struct {
	cursor
	ops []LayoutOp
}

// NewLayoutPage creates a layout recorder
func NewLayoutPage() *LayoutPage {
	return &LayoutPage{}
}

func (p *LayoutPage) record(op LayoutOp) {
	op.Y = p.y
	p.ops = append(p.ops, op)
}

func (p *LayoutPage) Begin(geometry printing.PageGeometry) {
	p.begin(geometry)
	p.ops = nil
	p.record(LayoutOp{Op: "begin", Width: geometry.WidthPoints()})
}

func (p *LayoutPage) SetText(opts printing.TextOptions) {
	p.opts = opts
}

func (p *LayoutPage) WriteLine(text string, style printing.Style) {
	opts := p.opts.With(style)
	p.record(LayoutOp{Op: "line", Text: text, Size: opts.Size, Bold: opts.Bold, Italic: opts.Italic, Align: string(opts.Align)})
	p.y += p.lineHeight()
}

func (p *LayoutPage) WritePair(left, right string, leftBold, rightBold bool) {
	p.record(LayoutOp{
		Op:        "pair",
		Text:      left,
		Right:     right,
		Size:      p.opts.Size,
		Bold:      p.opts.Bold || leftBold,
		RightBold: p.opts.Bold || rightBold,
		Italic:    p.opts.Italic,
	})
	p.y += p.lineHeight()
}

func (p *LayoutPage) InsertImage(src string, opts printing.ImageOptions) {
	p.record(LayoutOp{Op: "image", Src: src, Scale: opts.Scale, Fit: opts.Fit, Align: string(opts.Align), OffsetY: opts.OffsetY})
}

func (p *LayoutPage) InsertBarcode(payload string, offsetX float64) {
	p.record(LayoutOp{Op: "barcode", Text: payload, OffsetX: offsetX})
	p.y += BarcodeHeight
}

func (p *LayoutPage) DrawRule(thickness float64) {
	p.record(LayoutOp{Op: "rule", Thickness: thickness, Width: p.contentWidth()})
	p.y += thickness
}

func (p *LayoutPage) TextWidth(text string, size float64, style printing.Style) float64 {
	return TextWidth(text, size, style.Bold)
}

func (p *LayoutPage) Skip(points float64) {
	p.y += points
}

func (p *LayoutPage) Position() float64 {
	return p.y
}

func (p *LayoutPage) ContentWidth() float64 {
	return p.contentWidth()
}

// Ops returns the operations recorded so far
func (p *LayoutPage) Ops() []LayoutOp {
	return p.ops
}

func (p *LayoutPage) Finish() ([]byte, error) {
	if !p.began {
		return nil, NewRenderError(ErrCodePageState, "page finished before it was begun", nil)
	}
	p.record(LayoutOp{Op: "finish"})

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	for _, op := range p.ops {
		if err := enc.Encode(op); err != nil {
			return nil, NewRenderError(ErrCodeRenderFailed, "failed to encode layout", err)
		}
	}
	return buf.Bytes(), nil
}

var _ printing.PageBuilder = (*LayoutPage)(nil)
