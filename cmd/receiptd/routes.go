package main

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/fueltire/receipts/internal/domain/printing"
	"github.com/fueltire/receipts/internal/infrastructure/auth"
	"github.com/fueltire/receipts/internal/infrastructure/config"
	"github.com/fueltire/receipts/internal/infrastructure/logger"
	infra "github.com/fueltire/receipts/internal/infrastructure/printing"
	"github.com/fueltire/receipts/internal/interfaces/http/handler"
	"github.com/fueltire/receipts/internal/interfaces/http/middleware"
	"github.com/fueltire/receipts/internal/interfaces/http/router"
)

// routeDeps is everything the HTTP layer needs. Optional parts are nil when
// the matching feature is disabled.
type routeDeps struct {
	cfg         *config.Config
	log         *zap.Logger
	receipts    handler.ReceiptRenderer
	archive     infra.ReceiptArchive
	settings    handler.SettingsStore
	refresher   handler.SettingsRefresher
	revocations auth.KioskRevocations
	limiter     *middleware.RateLimiter
	meter       metric.Meter
	formats     []printing.OutputFormat
	checks      map[string]handler.HealthCheck
}

// newEngine builds the gin engine with the middleware stack and every route
func newEngine(d routeDeps) (*gin.Engine, error) {
	cfg := d.cfg
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			d.log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Middleware order:
	// 1. RequestID - generate/propagate request ID
	// 2. Logger - request logging with the request ID
	// 3. Recovery - panics become 500 responses
	// 4. Tracing - server span per request
	// 5. SpanErrorMarker - 5xx responses mark the span as failed
	// 6. Secure - security headers
	// 7. BodyLimit - cap the job payload
	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(d.log),
		logger.Recovery(d.log),
		middleware.Tracing(middleware.TracingConfig{
			ServiceName: cfg.Telemetry.ServiceName,
			Enabled:     cfg.Telemetry.Enabled,
		}),
		middleware.SpanErrorMarker(),
		middleware.Secure(),
		middleware.BodyLimit(cfg.HTTP.MaxBodySize),
	)
	if d.meter != nil {
		metrics, err := middleware.HTTPMetrics(d.meter)
		if err != nil {
			return nil, err
		}
		engine.Use(metrics)
	}

	systemOpts := []handler.SystemHandlerOption{handler.WithFormats(d.formats...)}
	for name, check := range d.checks {
		systemOpts = append(systemOpts, handler.WithHealthCheck(name, check))
	}
	systemHandler := handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, systemOpts...)
	engine.GET("/health", systemHandler.Health)

	var apiMiddleware []gin.HandlerFunc
	if cfg.Auth.Enabled {
		apiMiddleware = append(apiMiddleware, middleware.KioskAuth(middleware.KioskAuthConfig{
			JWTService:  auth.NewJWTService(cfg.Auth),
			Revocations: d.revocations,
			SkipPaths:   []string{"/api/v1/system/ping"},
			Logger:      d.log.Named("auth"),
		}))
	}
	apiMiddleware = append(apiMiddleware,
		middleware.TracingAttributeInjector(),
		middleware.Profiling(cfg.Telemetry.ProfilingEnabled),
	)
	if d.limiter != nil {
		apiMiddleware = append(apiMiddleware, middleware.RateLimit(d.limiter))
	}

	routerOpts := []router.RouterOption{router.WithAPIMiddleware(apiMiddleware...)}
	if cfg.Auth.Enabled {
		routerOpts = append(routerOpts, router.WithScopeGuard(middleware.RequireScope))
	}
	r := router.NewRouter(engine, routerOpts...)

	receiptHandler := handler.NewReceiptHandler(d.receipts)
	receiptRoutes := router.NewDomainGroup("/receipts")
	receiptRoutes.Group("").RequireScope(auth.ScopeRender).
		POST("", receiptHandler.Render).
		POST("/declined", receiptHandler.RenderDeclined).
		POST("/bulk", receiptHandler.RenderBulk)
	if d.archive != nil {
		archiveHandler := handler.NewArchiveHandler(d.archive)
		receiptRoutes.Group("/archive").RequireScope(auth.ScopeArchive).
			GET("/*path", archiveHandler.Get)
	}
	r.Register(receiptRoutes)

	if d.settings != nil {
		settingsHandler := handler.NewSettingsHandler(d.settings, d.refresher)
		r.Register(router.NewDomainGroup("/settings").RequireScope(auth.ScopeSettings).
			GET("", settingsHandler.List).
			PUT("/:key", settingsHandler.Put).
			DELETE("/:key", settingsHandler.Delete))
	}

	r.Register(router.NewDomainGroup("/system").
		GET("/info", systemHandler.GetSystemInfo).
		GET("/ping", systemHandler.Ping))

	r.Setup()
	for _, route := range r.Routes() {
		d.log.Debug("Route mounted",
			zap.String("method", route.Method),
			zap.String("path", route.Path),
			zap.String("scope", route.Scope),
			zap.Bool("scope_enforced", cfg.Auth.Enabled && route.Scope != ""),
		)
	}
	return engine, nil
}
