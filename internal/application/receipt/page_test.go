package receipt

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// recordingPage is a PageBuilder that records every call as a line of text.
type recordingPage struct {
	geometry printing.PageGeometry
	opts     printing.TextOptions
	y        float64
	ops      []string
	finished bool
}

func (p *recordingPage) Begin(geometry printing.PageGeometry) {
	p.geometry = geometry
	p.ops = append(p.ops, fmt.Sprintf("begin:%.2f", geometry.WidthInches))
}

func (p *recordingPage) SetText(opts printing.TextOptions) {
	p.opts = opts
}

func (p *recordingPage) WriteLine(text string, style printing.Style) {
	p.ops = append(p.ops, "line:"+text)
	p.y += p.opts.Size * 1.2
}

func (p *recordingPage) WritePair(left, right string, leftBold, rightBold bool) {
	p.ops = append(p.ops, "pair:"+left+"|"+right)
	p.y += p.opts.Size * 1.2
}

func (p *recordingPage) InsertImage(src string, opts printing.ImageOptions) {
	p.ops = append(p.ops, "image:"+src)
}

func (p *recordingPage) InsertBarcode(payload string, offsetX float64) {
	p.ops = append(p.ops, "barcode:"+payload)
	p.y += 30
}

func (p *recordingPage) DrawRule(thickness float64) {
	p.ops = append(p.ops, "rule")
}

func (p *recordingPage) TextWidth(text string, size float64, style printing.Style) float64 {
	return float64(utf8.RuneCountInString(text)) * size * 0.5
}

func (p *recordingPage) Skip(points float64) {
	p.y += points
}

func (p *recordingPage) Position() float64 {
	return p.y
}

func (p *recordingPage) ContentWidth() float64 {
	return p.geometry.ContentWidthPoints()
}

func (p *recordingPage) Finish() ([]byte, error) {
	p.finished = true
	return []byte(strings.Join(p.ops, "\n")), nil
}

func (p *recordingPage) has(op string) bool {
	for _, o := range p.ops {
		if o == op {
			return true
		}
	}
	return false
}

func (p *recordingPage) hasPrefix(prefix string) bool {
	for _, o := range p.ops {
		if strings.HasPrefix(o, prefix) {
			return true
		}
	}
	return false
}

func (p *recordingPage) index(op string) int {
	for i, o := range p.ops {
		if o == op {
			return i
		}
	}
	return -1
}
