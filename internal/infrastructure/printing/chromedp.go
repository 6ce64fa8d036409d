package printing

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
)

const (
	defaultChromeTimeout = 30 * time.Second
	// minPageHeightInches keeps Chrome from rejecting very short receipts
	minPageHeightInches = 1.0
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout bounds one receipt when the request sets none
	DefaultTimeout time.Duration
	// RemoteURL attaches to a running Chrome instead of launching one
	RemoteURL string
	// NoSandbox is needed when Chrome runs as root, as in most kiosk containers
	NoSandbox bool
	Logger    *zap.Logger
}

// ChromedpRenderer prints receipt HTML to a single roll-sized PDF page.
// One browser is shared; every receipt gets its own tab.
type ChromedpRenderer struct {
	timeout     time.Duration
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc
}

// NewChromedpRenderer creates the browser allocator. Chrome itself starts
// lazily with the first receipt.
func NewChromedpRenderer(config *ChromedpConfig) (*ChromedpRenderer, error) {
	if config == nil {
		config = &ChromedpConfig{}
	}
	r := &ChromedpRenderer{
		timeout: config.DefaultTimeout,
		logger:  config.Logger,
	}
	if r.timeout <= 0 {
		r.timeout = defaultChromeTimeout
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}

	if config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), execOptions(config.NoSandbox)...)
	}
	return r, nil
}

// execOptions launches a headless Chrome with everything a static receipt
// does not need turned off.
func execOptions(noSandbox bool) []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-first-run", true),
		chromedp.Flag("disable-default-apps", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if noSandbox {
		opts = append(opts, chromedp.Flag("no-sandbox", true))
	}
	return opts
}

// Render converts receipt HTML to a single-page PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	start := time.Now()

	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.timeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	tab, closeTab := chromedp.NewContext(r.allocCtx, chromedp.WithLogf(r.logger.Sugar().Debugf))
	defer closeTab()
	// the tab does not inherit ctx, so close it when the request ends
	stop := context.AfterFunc(ctx, closeTab)
	defer stop()

	size := paperSize(req)
	var pdf []byte
	if err := chromedp.Run(tab, printReceipt(req.HTML, size, &pdf)); err != nil {
		return nil, r.renderFailure(ctx, timeout, err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	elapsed := time.Since(start)
	r.logger.Debug("receipt PDF rendered",
		zap.String("title", req.Title),
		zap.Int("bytes", len(pdf)),
		zap.Float64("height_inches", size.height),
		zap.Duration("duration", elapsed))
	return &RenderResult{PDFData: pdf, RenderDuration: elapsed}, nil
}

func (r *ChromedpRenderer) renderFailure(ctx context.Context, timeout time.Duration, err error) error {
	switch {
	case errors.Is(ctx.Err(), context.DeadlineExceeded):
		return NewRenderError(ErrCodeRenderTimeout, fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
	case errors.Is(ctx.Err(), context.Canceled):
		return NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
	}
	r.logger.Error("chromedp rendering failed", zap.Error(err))
	return NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
}

// paper is a PDF page size in inches
type paper struct {
	width  float64
	height float64
}

// paperSize sizes the page to the roll width and the receipt height.
// Margins are part of the page layout, so Chrome prints edge to edge.
func paperSize(req *RenderRequest) paper {
	height := req.HeightPoints / printing.PointsPerInch
	if height < minPageHeightInches {
		height = minPageHeightInches
	}
	return paper{width: req.Geometry.WidthInches, height: height}
}

// printReceipt loads html into a blank tab and prints it onto one page of size
func printReceipt(html string, size paper, out *[]byte) chromedp.Tasks {
	return chromedp.Tasks{
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(size.width).
				WithPaperHeight(size.height).
				WithMarginTop(0).
				WithMarginRight(0).
				WithMarginBottom(0).
				WithMarginLeft(0).
				WithPreferCSSPageSize(false).
				Do(ctx)
			*out = data
			return err
		}),
	}
}

// Close shuts the shared browser down
func (r *ChromedpRenderer) Close() error {
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
