package receipt

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/domain/shared"
)

// Composer assembles receipts onto a page builder. It holds no per-receipt
// state and may be shared across goroutines.
type Composer struct {
	identity   Identity
	coupon     Coupon
	geometry   printing.PageGeometry
	settings   SettingsReader
	counters   CounterSink
	clock      Clock
	choose     Chooser
	labelWidth int
	logger     *zap.Logger
}

// ComposerOption configures a Composer
type ComposerOption func(*Composer)

// WithIdentity sets the letterhead
func WithIdentity(identity Identity) ComposerOption {
	return func(c *Composer) {
		c.identity = identity
	}
}

// WithCoupon sets the coupon configuration
func WithCoupon(coupon Coupon) ComposerOption {
	return func(c *Composer) {
		c.coupon = coupon
	}
}

// WithGeometry sets the page geometry
func WithGeometry(geometry printing.PageGeometry) ComposerOption {
	return func(c *Composer) {
		c.geometry = geometry
	}
}

// WithSettings sets the settings reader
func WithSettings(settings SettingsReader) ComposerOption {
	return func(c *Composer) {
		c.settings = settings
	}
}

// WithCounters sets the counter sink
func WithCounters(counters CounterSink) ComposerOption {
	return func(c *Composer) {
		c.counters = counters
	}
}

// WithClock sets the clock used for the service end time
func WithClock(clock Clock) ComposerOption {
	return func(c *Composer) {
		c.clock = clock
	}
}

// WithChooser sets the random coupon chooser
func WithChooser(choose Chooser) ComposerOption {
	return func(c *Composer) {
		c.choose = choose
	}
}

// WithLabelWidth sets the maximum tire label width in characters
func WithLabelWidth(width int) ComposerOption {
	return func(c *Composer) {
		c.labelWidth = width
	}
}

// WithComposerLogger sets the logger
func WithComposerLogger(logger *zap.Logger) ComposerOption {
	return func(c *Composer) {
		c.logger = logger
	}
}

// NewComposer creates a Composer with the default letterhead, no settings
// and a discarding counter sink.
func NewComposer(opts ...ComposerOption) *Composer {
	c := &Composer{
		identity:   DefaultIdentity(),
		geometry:   printing.ReceiptGeometry(),
		settings:   noSettings{},
		counters:   noCounters{},
		clock:      time.Now,
		choose:     RandomChooser,
		labelWidth: MaxLabelWidth,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Compose draws a receipt of the given kind and returns the finished document
// positioned at its start. The page must be fresh; it is finished by Compose.
func (c *Composer) Compose(ctx context.Context, page printing.PageBuilder, kind printing.ReceiptKind, job *Job) (*bytes.Reader, error) {
	if err := validateJob(kind, job); err != nil {
		return nil, err
	}

	s := &session{
		c:    c,
		ctx:  ctx,
		page: page,
		job:  job,
		now:  c.clock(),
	}
	page.Begin(c.geometry)

	switch kind {
	case printing.ReceiptKindMisc:
		s.misc()
	case printing.ReceiptKindAssessment:
		s.assessment()
	case printing.ReceiptKindStandard:
		s.standard()
	case printing.ReceiptKindAssurance:
		s.assurance()
	case printing.ReceiptKindDeclined:
		s.declined()
	case printing.ReceiptKindBulk:
		s.bulk()
	}

	doc, err := page.Finish()
	if err != nil {
		return nil, fmt.Errorf("failed to finish receipt page: %w", err)
	}
	return bytes.NewReader(doc), nil
}

func validateJob(kind printing.ReceiptKind, job *Job) error {
	if job == nil {
		return shared.ErrInvalidInput.Withf("Receipt job is required")
	}
	if !kind.IsValid() {
		return shared.ErrInvalidInput.Withf("Invalid receipt kind")
	}
	switch kind {
	case printing.ReceiptKindDeclined, printing.ReceiptKindBulk:
		return nil
	}
	if job.Service == nil {
		return shared.ErrInvalidInput.Withf("Service is required for %s receipts", kind.DisplayName())
	}
	return nil
}

// session is the state of one composition.
type session struct {
	c    *Composer
	ctx  context.Context
	page printing.PageBuilder
	job  *Job
	now  time.Time
}

func (s *session) text(opts printing.TextOptions) {
	s.page.SetText(opts)
}

func (s *session) line(text string) {
	s.page.WriteLine(text, printing.Plain)
}

func (s *session) boldLine(text string) {
	s.page.WriteLine(text, printing.Style{Bold: true})
}

func (s *session) pair(left, right string) {
	s.page.WritePair(left, right, false, false)
}

func (s *session) increment(name string, amount float64) {
	s.c.counters.Increment(s.ctx, name, amount)
}

func (s *session) setting(key string, fallback float64) float64 {
	v, ok := s.c.settings.GetFloat(key)
	if !ok || v == 0 {
		return fallback
	}
	return v
}
