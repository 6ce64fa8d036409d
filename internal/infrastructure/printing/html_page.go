package printing

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
)

// ImageLoader returns the raw bytes of an image source
type ImageLoader func(src string) ([]byte, error)

// FileImageLoader reads images from the local file system
func FileImageLoader(src string) ([]byte, error) {
	return os.ReadFile(src)
}

type elementKind string

const (
	elementText    elementKind = "text"
	elementImage   elementKind = "image"
	elementBarcode elementKind = "barcode"
	elementRule    elementKind = "rule"
)

type element struct {
	Kind   elementKind
	X, Y   float64
	W, H   float64
	Size   float64
	Bold   bool
	Italic bool
	Text   string
	Src    template.URL
}

// HTMLPage lays a receipt out as an absolutely positioned HTML document.
type HTMLPage struct {
	cursor
	title    string
	elements []element
	load     ImageLoader
	logger   *zap.Logger
}

// HTMLPageOption configures an HTMLPage
type HTMLPageOption func(*HTMLPage)

// WithImageLoader sets how image sources are resolved
func WithImageLoader(load ImageLoader) HTMLPageOption {
	return func(p *HTMLPage) {
		p.load = load
	}
}

// WithPageLogger sets the logger for layout warnings
func WithPageLogger(logger *zap.Logger) HTMLPageOption {
	return func(p *HTMLPage) {
		p.logger = logger
	}
}

// WithTitle sets the document title
func WithTitle(title string) HTMLPageOption {
	return func(p *HTMLPage) {
		p.title = title
	}
}

// NewHTMLPage creates an HTML page builder
func NewHTMLPage(opts ...HTMLPageOption) *HTMLPage {
	p := &HTMLPage{
		load:   FileImageLoader,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

func (p *HTMLPage) Begin(geometry printing.PageGeometry) {
	p.begin(geometry)
	p.elements = p.elements[:0]
}

func (p *HTMLPage) SetText(opts printing.TextOptions) {
	p.opts = opts
}

func (p *HTMLPage) WriteLine(text string, style printing.Style) {
	opts := p.opts.With(style)
	w := TextWidth(text, opts.Size, opts.Bold)
	p.addText(text, p.x(w, opts.Align), opts)
	p.y += p.lineHeight()
}

func (p *HTMLPage) WritePair(left, right string, leftBold, rightBold bool) {
	lopts := p.opts.With(printing.Style{Bold: leftBold})
	ropts := p.opts.With(printing.Style{Bold: rightBold})
	if left != "" {
		p.addText(left, p.x(TextWidth(left, lopts.Size, lopts.Bold), printing.AlignLeft), lopts)
	}
	if right != "" {
		p.addText(right, p.x(TextWidth(right, ropts.Size, ropts.Bold), printing.AlignRight), ropts)
	}
	p.y += p.lineHeight()
}

func (p *HTMLPage) addText(text string, x float64, opts printing.TextOptions) {
	p.elements = append(p.elements, element{
		Kind:   elementText,
		X:      x,
		Y:      p.y,
		Size:   opts.Size,
		Bold:   opts.Bold,
		Italic: opts.Italic,
		Text:   text,
	})
}

func (p *HTMLPage) InsertImage(src string, opts printing.ImageOptions) {
	data, err := p.load(src)
	if err != nil {
		p.logger.Warn("receipt image not loaded", zap.String("src", src), zap.Error(err))
		return
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		p.logger.Warn("receipt image not decoded", zap.String("src", src), zap.Error(err))
		return
	}

	scale := opts.Scale
	if scale == 0 {
		scale = 1
	}
	w, h := float64(cfg.Width)*scale, float64(cfg.Height)*scale
	if opts.Fit && cfg.Width > 0 {
		w = p.contentWidth()
		h = w / float64(cfg.Width) * float64(cfg.Height)
	}

	p.elements = append(p.elements, element{
		Kind: elementImage,
		X:    p.x(w, opts.Align),
		Y:    p.y + opts.OffsetY,
		W:    w,
		H:    h,
		Src:  dataURL(data),
	})
	if opts.Fit {
		p.y += h
	}
}

func (p *HTMLPage) InsertBarcode(payload string, offsetX float64) {
	p.elements = append(p.elements, element{
		Kind: elementBarcode,
		X:    p.left() + offsetX,
		Y:    p.y,
		H:    BarcodeHeight,
		Text: payload,
	})
	p.y += BarcodeHeight
}

func (p *HTMLPage) DrawRule(thickness float64) {
	p.elements = append(p.elements, element{
		Kind: elementRule,
		X:    p.left(),
		Y:    p.y,
		W:    p.contentWidth(),
		H:    thickness,
	})
	p.y += thickness
}

func (p *HTMLPage) TextWidth(text string, size float64, style printing.Style) float64 {
	return TextWidth(text, size, style.Bold)
}

func (p *HTMLPage) Skip(points float64) {
	p.y += points
}

func (p *HTMLPage) Position() float64 {
	return p.y
}

func (p *HTMLPage) ContentWidth() float64 {
	return p.contentWidth()
}

// Height returns the page height in points
func (p *HTMLPage) Height() float64 {
	return p.height()
}

func (p *HTMLPage) Finish() ([]byte, error) {
	if !p.began {
		return nil, NewRenderError(ErrCodePageState, "page finished before it was begun", nil)
	}
	var buf bytes.Buffer
	err := pageTemplate.Execute(&buf, struct {
		Title    string
		Width    float64
		Height   float64
		Elements []element
	}{
		Title:    p.title,
		Width:    p.geometry.WidthPoints(),
		Height:   p.height(),
		Elements: p.elements,
	})
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to write receipt HTML", err)
	}
	return buf.Bytes(), nil
}

func dataURL(data []byte) template.URL {
	mime := http.DetectContentType(data)
	return template.URL("data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data))
}

func pt(v float64) string {
	return fmt.Sprintf("%.2fpt", v)
}

var pageTemplate = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"pt":    pt,
	"upper": strings.ToUpper,
}).Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="UTF-8">
<title>{{.Title}}</title>
<style>
@page { margin: 0; }
html, body { margin: 0; padding: 0; }
.page { position: relative; overflow: hidden; font-family: Helvetica, Arial, sans-serif; color: #000; }
.t { position: absolute; white-space: pre; line-height: 1; }
.b { font-weight: bold; }
.i { font-style: italic; }
.img, .rule, .bc { position: absolute; }
.rule { background: #000; }
.bc { display: flex; flex-direction: column; justify-content: flex-end; }
.bars { flex: 1; background: repeating-linear-gradient(90deg, #000 0 1.5pt, #fff 1.5pt 3pt, #000 3pt 3.75pt, #fff 3.75pt 5pt); }
.bc span { font-family: monospace; font-size: 7pt; }
</style>
</head>
<body>
<div class="page" style="width: {{pt .Width}}; height: {{pt .Height}};">
{{- range .Elements}}
{{- if eq .Kind "text"}}
<div class="t{{if .Bold}} b{{end}}{{if .Italic}} i{{end}}" style="left: {{pt .X}}; top: {{pt .Y}}; font-size: {{pt .Size}};">{{.Text}}</div>
{{- else if eq .Kind "image"}}
<img class="img" src="{{.Src}}" style="left: {{pt .X}}; top: {{pt .Y}}; width: {{pt .W}}; height: {{pt .H}};">
{{- else if eq .Kind "barcode"}}
<div class="bc" style="left: {{pt .X}}; top: {{pt .Y}}; height: {{pt .H}};"><div class="bars"></div><span>{{upper .Text}}</span></div>
{{- else if eq .Kind "rule"}}
<div class="rule" style="left: {{pt .X}}; top: {{pt .Y}}; width: {{pt .W}}; height: {{pt .H}};"></div>
{{- end}}
{{- end}}
</div>
</body>
</html>
`))

var _ printing.PageBuilder = (*HTMLPage)(nil)
