// Command receiptd serves the kiosk receipt API
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/application/receipt"
	"github.com/fueltire/receipts/internal/bootstrap"
	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
	"github.com/fueltire/receipts/internal/interfaces/http/handler"
	"github.com/fueltire/receipts/internal/interfaces/http/middleware"
)

const (
	shutdownTimeout   = 30 * time.Second
	retentionInterval = time.Hour
	limiterSweep      = 5 * time.Minute
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	logCfg := &logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		Instance:   cfg.Receipt.KioskID,
	}
	log, err := logger.New(logCfg)
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	tel, err := bootstrap.StartTelemetry(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to start telemetry", zap.Error(err))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tel.Shutdown(shutdownCtx); err != nil {
			log.Error("Error shutting down telemetry", zap.Error(err))
		}
	}()

	if log, err = tel.Logger(logCfg); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting receipt service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("kiosk_id", cfg.Receipt.KioskID),
	)

	settings, err := bootstrap.OpenSettings(ctx, cfg, log)
	if err != nil {
		log.Fatal("Failed to open settings", zap.Error(err))
	}
	defer func() {
		if err := settings.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	go settings.Run(ctx)

	counters, err := bootstrap.OpenCounters(cfg.Redis, tel, false, log)
	if err != nil {
		log.Fatal("Failed to open counter store", zap.Error(err))
	}
	defer counters.Close()

	renderer, err := bootstrap.NewRenderer(cfg.Renderer, log)
	if err != nil {
		log.Fatal("Failed to start renderer", zap.Error(err))
	}
	if renderer != nil {
		defer func() {
			if err := renderer.Close(); err != nil {
				log.Error("Error closing renderer", zap.Error(err))
			}
		}()
	}

	archive, err := bootstrap.NewArchive(ctx, cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to open receipt archive", zap.Error(err))
	}
	go bootstrap.RunRetention(ctx, archive, cfg.Storage.Retention, retentionInterval, log.Named("archive"))

	composer, err := bootstrap.NewComposer(cfg.Receipt, settings.Reader, counters.Sink(), log)
	if err != nil {
		log.Fatal("Failed to build composer", zap.Error(err))
	}

	serviceOpts := []receipt.ServiceOption{receipt.WithServiceLogger(log)}
	if archive != nil {
		serviceOpts = append(serviceOpts, receipt.WithArchive(archive))
	}
	if counters.Metrics != nil {
		serviceOpts = append(serviceOpts, receipt.WithMetrics(counters.Metrics))
	}
	service := receipt.NewService(composer, bootstrap.NewPageFactory(renderer, log), serviceOpts...)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	deps := routeDeps{
		cfg:         cfg,
		log:         log,
		receipts:    service,
		archive:     archive,
		revocations: counters.Revocations(),
		meter:       tel.ServiceMeter(),
		formats:     bootstrap.Formats(renderer),
		checks: map[string]handler.HealthCheck{
			"redis": counters.Ping,
		},
	}
	if settings.Repository != nil {
		deps.settings = settings.Repository
		deps.refresher = settings.Snapshot
		deps.checks["database"] = func(context.Context) error { return settings.Database.Ping() }
	}
	if cfg.HTTP.RateLimitEnabled {
		deps.limiter = middleware.NewRateLimiter(cfg.HTTP.RateLimitRPS, cfg.HTTP.RateLimitBurst)
		go deps.limiter.Run(ctx, limiterSweep)
	}

	engine, err := newEngine(deps)
	if err != nil {
		log.Fatal("Failed to build HTTP engine", zap.Error(err))
	}

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
