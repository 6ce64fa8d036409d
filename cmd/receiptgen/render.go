package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/application/receipt"
	"github.com/fueltire/receipts/internal/bootstrap"
	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/interfaces/http/middleware"
)

type renderOptions struct {
	job      string
	format   string
	out      string
	declined bool
	bulk     bool
}

func newRenderCmd(v *viper.Viper) *cobra.Command {
	var opts renderOptions
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a receipt job file",
		Long: "Render a receipt job, as posted to /api/v1/receipts, to a document.\n" +
			"Running totals and archiving follow the configuration.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRender(cmd.Context(), v, opts, cmd.InOrStdin(), cmd.OutOrStdout())
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.job, "job", "-", "job JSON file, - for stdin")
	f.StringVar(&opts.format, "format", string(printing.OutputFormatHTML), "output format: pdf, html or layout")
	f.StringVarP(&opts.out, "out", "o", "-", "output file, - for stdout")
	f.BoolVar(&opts.declined, "declined", false, "render a payment declined receipt")
	f.BoolVar(&opts.bulk, "bulk", false, "render a bulk charges receipt")
	cmd.MarkFlagsMutuallyExclusive("declined", "bulk")
	return cmd
}

func runRender(ctx context.Context, v *viper.Viper, opts renderOptions, stdin io.Reader, stdout io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	format := printing.OutputFormat(opts.format)
	if !format.IsValid() {
		return fmt.Errorf("unsupported output format %q", opts.format)
	}

	raw, err := readInput(opts.job, stdin)
	if err != nil {
		return err
	}
	job, err := decodeJob(raw, opts.bulk, time.Now())
	if err != nil {
		return err
	}

	cfg, log, err := loadConfig(v)
	if err != nil {
		return err
	}
	defer func() {
		_ = log.Sync()
	}()

	service, closeAll, err := buildService(ctx, cfg, format, log)
	if err != nil {
		return err
	}
	defer closeAll()

	var result *receipt.RenderResult
	switch {
	case opts.declined:
		result, err = service.RenderDeclined(ctx, format, job)
	case opts.bulk:
		result, err = service.RenderBulk(ctx, format, job)
	default:
		result, err = service.Render(ctx, format, job)
	}
	if err != nil {
		return err
	}

	if err := writeOutput(opts.out, stdout, result.Data); err != nil {
		return err
	}
	log.Info("receipt rendered",
		zap.String("render_id", result.RenderID.String()),
		zap.String("kind", string(result.Kind)),
		zap.Int("size", result.Size),
		zap.String("archive_path", result.ArchivePath),
		zap.Duration("duration", result.Duration),
	)
	return nil
}

// decodeJob parses and validates a job file with the same rules the HTTP
// API applies to request bodies
func decodeJob(raw []byte, bulk bool, now time.Time) (*receipt.Job, error) {
	validate := middleware.NewJobValidator()

	if bulk {
		var req receipt.BulkRenderRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			return nil, fmt.Errorf("invalid job file: %w", err)
		}
		if err := validate.Struct(&req); err != nil {
			return nil, invalidJob(err)
		}
		return req.ToJob(now), nil
	}

	var req receipt.RenderRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("invalid job file: %w", err)
	}
	if err := validate.Struct(&req); err != nil {
		return nil, invalidJob(err)
	}
	return req.ToJob(now), nil
}

// invalidJob words validation failures the way the API reports them
func invalidJob(err error) error {
	details := middleware.ValidationDetails(err)
	if len(details) == 0 {
		return fmt.Errorf("invalid job: %w", err)
	}
	fields := make([]string, 0, len(details))
	for _, d := range details {
		fields = append(fields, d.Field+": "+d.Message)
	}
	return fmt.Errorf("invalid job: %s", strings.Join(fields, "; "))
}

// buildService wires the receipt pipeline for one render. The PDF renderer
// starts only when PDF output is requested.
func buildService(ctx context.Context, cfg *config.Config, format printing.OutputFormat, log *zap.Logger) (*receipt.Service, func(), error) {
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*receipt.Service, func(), error) {
		closeAll()
		return nil, nil, err
	}

	settings, err := bootstrap.OpenSettings(ctx, cfg, log)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, func() { _ = settings.Close() })

	counters, err := bootstrap.OpenCounters(cfg.Redis, nil, false, log)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, counters.Close)

	rendererCfg := cfg.Renderer
	rendererCfg.Enabled = format == printing.OutputFormatPDF
	renderer, err := bootstrap.NewRenderer(rendererCfg, log)
	if err != nil {
		return fail(err)
	}
	if renderer != nil {
		closers = append(closers, func() { _ = renderer.Close() })
	}

	archive, err := bootstrap.NewArchive(ctx, cfg.Storage, log)
	if err != nil {
		return fail(err)
	}

	composer, err := bootstrap.NewComposer(cfg.Receipt, settings.Reader, counters.Sink(), log)
	if err != nil {
		return fail(err)
	}

	opts := []receipt.ServiceOption{receipt.WithServiceLogger(log)}
	if archive != nil {
		opts = append(opts, receipt.WithArchive(archive))
	}
	return receipt.NewService(composer, bootstrap.NewPageFactory(renderer, log), opts...), closeAll, nil
}

func readInput(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read job from stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read job file: %w", err)
	}
	return data, nil
}

func writeOutput(path string, stdout io.Writer, data []byte) error {
	if path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}
