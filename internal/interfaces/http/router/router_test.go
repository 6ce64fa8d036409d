package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, method, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(method, path, nil))
	return w
}

func TestNewRouter(t *testing.T) {
	r := NewRouter(gin.New())

	assert.Equal(t, "/api/v1", r.BasePath())
	assert.Empty(t, r.Routes())
	assert.Equal(t, "/api/v2", NewRouter(gin.New(), WithAPIVersion("v2")).BasePath())
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	receipts := NewDomainGroup("/receipts")
	receipts.POST("", func(c *gin.Context) { c.String(http.StatusOK, "rendered") }).
		POST("/declined", func(c *gin.Context) { c.String(http.StatusOK, "declined") }).
		GET("/archive/*path", func(c *gin.Context) { c.String(http.StatusOK, c.Param("path")) })

	settings := NewDomainGroup("/settings")
	settings.GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		PUT("/:key", func(c *gin.Context) { c.String(http.StatusOK, c.Param("key")) }).
		DELETE("/:key", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.Register(receipts).Register(settings)
	r.Setup()

	tests := []struct {
		method string
		path   string
		status int
		body   string
	}{
		{http.MethodPost, "/api/v1/receipts", http.StatusOK, "rendered"},
		{http.MethodPost, "/api/v1/receipts/declined", http.StatusOK, "declined"},
		{http.MethodGet, "/api/v1/receipts/archive/2024/03/standard/a.pdf", http.StatusOK, "/2024/03/standard/a.pdf"},
		{http.MethodGet, "/api/v1/settings", http.StatusOK, "list"},
		{http.MethodPut, "/api/v1/settings/gas_price", http.StatusOK, "gas_price"},
		{http.MethodDelete, "/api/v1/settings/gas_price", http.StatusNoContent, ""},
		{http.MethodGet, "/api/v2/settings", http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path)
			assert.Equal(t, tt.status, w.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, w.Body.String())
			}
		})
	}
}

func TestRouterAPIMiddleware(t *testing.T) {
	engine := gin.New()
	engine.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	guard := func(c *gin.Context) {
		c.AbortWithStatus(http.StatusUnauthorized)
	}
	r := NewRouter(engine, WithAPIMiddleware(guard))
	r.Register(NewDomainGroup("/receipts").
		POST("", func(c *gin.Context) { c.Status(http.StatusOK) }))
	r.Setup()

	assert.Equal(t, http.StatusUnauthorized, serve(engine, http.MethodPost, "/api/v1/receipts").Code)
	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/health").Code)
}

// denyScope rejects every scope except "receipts:render"
func denyScope(scope string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if scope != "receipts:render" {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func scopedRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	ok := func(c *gin.Context) { c.Status(http.StatusOK) }

	receipts := NewDomainGroup("/receipts")
	receipts.Group("").RequireScope("receipts:render").POST("", ok)
	receipts.Group("/archive").RequireScope("receipts:archive").GET("/*path", ok)

	settings := NewDomainGroup("/settings").RequireScope("receipts:settings")
	settings.GET("", ok)

	system := NewDomainGroup("/system")
	system.GET("/ping", ok)

	return NewRouter(engine, opts...).Register(receipts).Register(settings).Register(system)
}

func TestRouterScopes(t *testing.T) {
	t.Run("guard enforces group scopes", func(t *testing.T) {
		engine := gin.New()
		scopedRouter(engine, WithScopeGuard(denyScope)).Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/receipts").Code)
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/receipts/archive/a.pdf").Code)
		assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/settings").Code)
		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/system/ping").Code)
	})

	t.Run("scopes are ignored without a guard", func(t *testing.T) {
		engine := gin.New()
		scopedRouter(engine).Setup()

		assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/api/v1/settings").Code)
	})
}

func TestRouterRoutes(t *testing.T) {
	routes := scopedRouter(gin.New()).Routes()

	assert.Equal(t, []RouteInfo{
		{Method: http.MethodPost, Path: "/api/v1/receipts", Scope: "receipts:render"},
		{Method: http.MethodGet, Path: "/api/v1/receipts/archive/*path", Scope: "receipts:archive"},
		{Method: http.MethodGet, Path: "/api/v1/settings", Scope: "receipts:settings"},
		{Method: http.MethodGet, Path: "/api/v1/system/ping"},
	}, routes)
}

func TestDomainGroup_Middleware(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("/receipts")
	g.POST("", func(c *gin.Context) { c.Status(http.StatusOK) })

	archive := g.Group("/archive")
	archive.Use(func(c *gin.Context) { c.AbortWithStatus(http.StatusForbidden) })
	archive.GET("/*path", func(c *gin.Context) { c.Status(http.StatusOK) })

	g.RegisterRoutes(engine.Group("/api/v1"), nil)

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodPost, "/api/v1/receipts").Code)
	assert.Equal(t, http.StatusForbidden, serve(engine, http.MethodGet, "/api/v1/receipts/archive/x.pdf").Code)
}
