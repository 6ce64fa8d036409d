package receipt

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/domain/shared"
	infra "github.com/fueltire/receipts/internal/infrastructure/printing"
	"github.com/fueltire/receipts/internal/infrastructure/telemetry"
)

// PageFactory creates one fresh page builder per render
type PageFactory interface {
	NewPage(ctx context.Context, format printing.OutputFormat, title string) (printing.PageBuilder, error)
}

// RenderMetrics records render outcomes
type RenderMetrics interface {
	RecordRender(ctx context.Context, kind printing.ReceiptKind, format printing.OutputFormat, d time.Duration, size int)
	RecordFailure(ctx context.Context, kind printing.ReceiptKind, format printing.OutputFormat, code string)
}

// Service renders receipts end to end: page creation, composition,
// metrics and optional archiving.
type Service struct {
	composer *Composer
	pages    PageFactory
	archive  infra.ReceiptArchive
	metrics  RenderMetrics
	logger   *zap.Logger
	newID    func() uuid.UUID
	clock    Clock
}

// ServiceOption configures a Service
type ServiceOption func(*Service)

// WithArchive keeps a copy of every rendered receipt
func WithArchive(archive infra.ReceiptArchive) ServiceOption {
	return func(s *Service) {
		s.archive = archive
	}
}

// WithMetrics records render counts and durations
func WithMetrics(metrics RenderMetrics) ServiceOption {
	return func(s *Service) {
		s.metrics = metrics
	}
}

// WithServiceLogger sets the logger
func WithServiceLogger(logger *zap.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator overrides render id generation
func WithIDGenerator(newID func() uuid.UUID) ServiceOption {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithServiceClock sets the clock used for archive dates and durations
func WithServiceClock(clock Clock) ServiceOption {
	return func(s *Service) {
		s.clock = clock
	}
}

// NewService creates a receipt service
func NewService(composer *Composer, pages PageFactory, opts ...ServiceOption) *Service {
	s := &Service{
		composer: composer,
		pages:    pages,
		logger:   zap.NewNop(),
		newID:    uuid.New,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Render selects the receipt kind from the job's service and renders it
func (s *Service) Render(ctx context.Context, format printing.OutputFormat, job *Job) (*RenderResult, error) {
	if job == nil || job.Service == nil {
		return nil, shared.ErrInvalidInput.Withf("Service is required")
	}
	if !job.Service.Routine.IsValid() {
		return nil, shared.ErrUnknownRoutine
	}
	kind := Select(*job.Service)
	if kind != printing.ReceiptKindMisc && job.Service.NumAxles() == 0 {
		return nil, shared.ErrEmptyTemplate
	}
	return s.render(ctx, kind, format, job)
}

// RenderDeclined renders a declined-payment receipt
func (s *Service) RenderDeclined(ctx context.Context, format printing.OutputFormat, job *Job) (*RenderResult, error) {
	return s.render(ctx, printing.ReceiptKindDeclined, format, job)
}

// RenderBulk renders one receipt for a batch of charges
func (s *Service) RenderBulk(ctx context.Context, format printing.OutputFormat, job *Job) (*RenderResult, error) {
	if job == nil || len(job.Charges) == 0 {
		return nil, shared.ErrNoCharges
	}
	return s.render(ctx, printing.ReceiptKindBulk, format, job)
}

func (s *Service) render(ctx context.Context, kind printing.ReceiptKind, format printing.OutputFormat, job *Job) (*RenderResult, error) {
	if !format.IsValid() {
		return nil, shared.ErrInvalidFormat.Withf("Unsupported output format %q", format)
	}

	renderID := s.newID()
	ctx, span := telemetry.StartSpan(ctx, "receipt.render",
		telemetry.WithAttribute(telemetry.SpanAttrRenderID, renderID.String()),
		telemetry.WithAttribute(telemetry.SpanAttrKind, string(kind)),
		telemetry.WithAttribute(telemetry.SpanAttrFormat, string(format)),
	)
	defer span.End()
	annotateJob(span, kind, job)

	log := s.logger.With(
		zap.String("render_id", renderID.String()),
		zap.String("kind", string(kind)),
		zap.String("format", string(format)),
	)
	if traceID := telemetry.GetTraceID(ctx); traceID != "" {
		log = log.With(zap.String("trace_id", traceID))
	}

	start := s.clock()
	data, err := s.compose(ctx, kind, format, job)
	if err != nil {
		code := errorCode(err)
		telemetry.RecordError(span, err)
		if s.metrics != nil {
			s.metrics.RecordFailure(ctx, kind, format, code)
		}
		log.Warn("receipt render failed", zap.String("code", code), zap.Error(err))
		return nil, err
	}
	duration := s.clock().Sub(start)

	if s.metrics != nil {
		s.metrics.RecordRender(ctx, kind, format, duration, len(data))
	}

	result := &RenderResult{
		RenderID:    renderID,
		Kind:        kind,
		Format:      format,
		ContentType: format.ContentType(),
		Data:        data,
		Size:        len(data),
		Duration:    duration,
	}

	if s.archive != nil {
		stored, err := s.archive.Store(ctx, &infra.StoreRequest{
			RenderID:  renderID,
			Kind:      kind,
			Format:    format,
			Data:      data,
			CreatedAt: start,
		})
		if err != nil {
			// the receipt was produced; a missing archive copy does not fail the render
			log.Error("failed to archive receipt", zap.Error(err))
		} else {
			result.ArchivePath = stored.Path
			telemetry.SetAttributes(span, telemetry.SpanAttrArchivePath, stored.Path)
		}
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrSize, len(data))
	telemetry.SetOK(span)

	log.Info("receipt rendered",
		zap.Int("size", len(data)),
		zap.Duration("duration", duration),
		zap.String("archive_path", result.ArchivePath),
	)
	return result, nil
}

// annotateJob adds what identifies the job on the kiosk side to span
func annotateJob(span trace.Span, kind printing.ReceiptKind, job *Job) {
	if job == nil {
		return
	}
	if job.Service != nil && job.Service.TypeID != "" {
		telemetry.SetAttributes(span, telemetry.SpanAttrServiceID, job.Service.TypeID)
	}
	if job.ControlNumber != nil {
		telemetry.SetAttributes(span, telemetry.SpanAttrControlNumber, *job.ControlNumber)
	}
	if kind == printing.ReceiptKindBulk {
		telemetry.SetAttributes(span, telemetry.SpanAttrChargeCount, len(job.Charges))
	}
}

func (s *Service) compose(ctx context.Context, kind printing.ReceiptKind, format printing.OutputFormat, job *Job) ([]byte, error) {
	page, err := s.pages.NewPage(ctx, format, kind.DisplayName()+" Receipt")
	if err != nil {
		return nil, err
	}
	doc, err := s.composer.Compose(ctx, page, kind, job)
	if err != nil {
		return nil, err
	}
	return io.ReadAll(doc)
}

// errorCode extracts a stable code for metrics and logs
func errorCode(err error) string {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	var renderErr *infra.RenderError
	if errors.As(err, &renderErr) {
		return renderErr.Code
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return infra.ErrCodeRenderTimeout
	}
	return "INTERNAL_ERROR"
}
