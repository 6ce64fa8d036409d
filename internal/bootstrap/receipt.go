// Package bootstrap assembles the receipt pipeline from configuration. Both
// the HTTP daemon and the command line tool build their services here.
package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/application/receipt"
	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/infrastructure/config"
	infra "github.com/fueltire/receipts/internal/infrastructure/printing"
	"github.com/fueltire/receipts/internal/infrastructure/storage"
)

// Identity overlays the configured letterhead on the default one.
// Empty values keep the default.
func Identity(rc config.ReceiptConfig) receipt.Identity {
	id := receipt.DefaultIdentity()
	if len(rc.CompanyLines) > 0 {
		id.CompanyLines = rc.CompanyLines
	}
	overlay(&id.Website, rc.Website)
	overlay(&id.Logo, rc.Logo)
	overlay(&id.OfficePhone, rc.OfficePhone)
	overlay(&id.CopyrightHolder, rc.CopyrightHolder)
	overlay(&id.InternalAccount, rc.InternalAccount)
	overlay(&id.NitrogenSource, rc.NitrogenSource)
	overlay(&id.NitrogenBrand, rc.NitrogenBrand)
	overlay(&id.ReaderMID, rc.ReaderMID)
	overlay(&id.KioskID, rc.KioskID)
	if rc.LogoScale > 0 {
		id.LogoScale = rc.LogoScale
	}
	if rc.CopyrightYear > 0 {
		id.CopyrightYear = rc.CopyrightYear
	}
	return id
}

func overlay(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

// Coupon returns the configured coupon selection
func Coupon(rc config.ReceiptConfig) receipt.Coupon {
	return receipt.Coupon{Image: rc.Coupon, Candidates: rc.CouponCandidates}
}

// Geometry returns the configured roll geometry, or the kiosk roll when no
// width is set
func Geometry(rc config.ReceiptConfig) (printing.PageGeometry, error) {
	if rc.WidthInches == 0 {
		return printing.ReceiptGeometry(), nil
	}
	return printing.NewPageGeometry(rc.WidthInches, rc.MarginInches)
}

// NewComposer builds a composer from the receipt configuration
func NewComposer(rc config.ReceiptConfig, settings receipt.SettingsReader, counters receipt.CounterSink, logger *zap.Logger) (*receipt.Composer, error) {
	geometry, err := Geometry(rc)
	if err != nil {
		return nil, fmt.Errorf("invalid receipt geometry: %w", err)
	}

	opts := []receipt.ComposerOption{
		receipt.WithIdentity(Identity(rc)),
		receipt.WithCoupon(Coupon(rc)),
		receipt.WithGeometry(geometry),
		receipt.WithComposerLogger(logger),
	}
	if rc.LabelWidth > 0 {
		opts = append(opts, receipt.WithLabelWidth(rc.LabelWidth))
	}
	if settings != nil {
		opts = append(opts, receipt.WithSettings(settings))
	}
	if counters != nil {
		opts = append(opts, receipt.WithCounters(counters))
	}
	return receipt.NewComposer(opts...), nil
}

// NewRenderer starts the chromedp PDF renderer, or returns nil when PDF output
// is disabled
func NewRenderer(cfg config.RendererConfig, logger *zap.Logger) (infra.PDFRenderer, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	renderer, err := infra.NewChromedpRenderer(&infra.ChromedpConfig{
		DefaultTimeout: cfg.Timeout,
		RemoteURL:      cfg.RemoteURL,
		NoSandbox:      cfg.NoSandbox,
		Logger:         logger.Named("chromedp"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start PDF renderer: %w", err)
	}
	return renderer, nil
}

// NewPageFactory wraps renderer, which may be nil, in a page factory
func NewPageFactory(renderer infra.PDFRenderer, logger *zap.Logger) *infra.PageFactory {
	opts := []infra.PageFactoryOption{infra.WithFactoryLogger(logger)}
	if renderer != nil {
		opts = append(opts, infra.WithRenderer(renderer))
	}
	return infra.NewPageFactory(opts...)
}

// NewArchive opens the configured receipt archive. It returns nil for
// storage.archive = "none".
func NewArchive(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (infra.ReceiptArchive, error) {
	switch cfg.Archive {
	case config.ArchiveFS:
		archive, err := infra.NewFileSystemArchive(&infra.FileSystemArchiveConfig{
			BasePath: cfg.BasePath,
			Logger:   logger,
		})
		if err != nil {
			return nil, err
		}
		return archive, nil
	case config.ArchiveS3:
		archive, err := storage.NewS3Archive(ctx, &cfg, storage.WithLogger(logger))
		if err != nil {
			return nil, err
		}
		if err := archive.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return archive, nil
	default:
		return nil, nil
	}
}

// Formats lists the output formats available with renderer
func Formats(renderer infra.PDFRenderer) []printing.OutputFormat {
	formats := []printing.OutputFormat{printing.OutputFormatHTML, printing.OutputFormatLayout}
	if renderer != nil {
		formats = append([]printing.OutputFormat{printing.OutputFormatPDF}, formats...)
	}
	return formats
}
