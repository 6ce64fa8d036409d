// Package router mounts the receipt API. Routes are declared in groups that
// may name the kiosk token scope they require; the router turns scopes into
// guards only when a guard is configured.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"
)

// ScopeGuard builds the middleware enforcing a token scope
type ScopeGuard func(scope string) gin.HandlerFunc

// RouteInfo describes one mounted route
type RouteInfo struct {
	Method string
	Path   string
	Scope  string
}

// Router mounts groups under the versioned API prefix
type Router struct {
	engine     *gin.Engine
	apiVersion string
	middleware []gin.HandlerFunc
	guard      ScopeGuard
	groups     []*DomainGroup
}

// RouterOption is a functional option for Router configuration
type RouterOption func(*Router)

// WithAPIVersion sets the API version prefix (e.g., "v1", "v2")
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) {
		r.apiVersion = version
	}
}

// WithAPIMiddleware adds middleware that runs for every versioned route but
// not for engine-level routes such as /health
func WithAPIMiddleware(middleware ...gin.HandlerFunc) RouterOption {
	return func(r *Router) {
		r.middleware = append(r.middleware, middleware...)
	}
}

// WithScopeGuard enforces group scopes with guard. Without it scopes are
// recorded but not checked.
func WithScopeGuard(guard ScopeGuard) RouterOption {
	return func(r *Router) {
		r.guard = guard
	}
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{
		engine:     engine,
		apiVersion: "v1",
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register adds a group to be mounted by Setup
func (r *Router) Register(group *DomainGroup) *Router {
	r.groups = append(r.groups, group)
	return r
}

// BasePath returns the versioned API prefix, e.g. /api/v1
func (r *Router) BasePath() string {
	return "/api/" + r.apiVersion
}

// Setup mounts every registered group on the engine
func (r *Router) Setup() {
	api := r.engine.Group(r.BasePath())
	api.Use(r.middleware...)
	for _, group := range r.groups {
		group.RegisterRoutes(api, r.guard)
	}
}

// Routes lists the API routes with the scope each one requires
func (r *Router) Routes() []RouteInfo {
	var routes []RouteInfo
	for _, group := range r.groups {
		routes = group.collect(routes, r.BasePath(), "")
	}
	return routes
}

// DomainGroup collects the routes of one area of the API
type DomainGroup struct {
	prefix     string
	scope      string
	routes     []routeDefinition
	subgroups  []*DomainGroup
	middleware []gin.HandlerFunc
}

type routeDefinition struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(prefix string) *DomainGroup {
	return &DomainGroup{prefix: prefix}
}

// RequireScope makes every route of the group and its subgroups need scope
func (dg *DomainGroup) RequireScope(scope string) *DomainGroup {
	dg.scope = scope
	return dg
}

// Use adds middleware to this group
func (dg *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	dg.middleware = append(dg.middleware, middleware...)
	return dg
}

func (dg *DomainGroup) handle(method, path string, handlers []gin.HandlerFunc) *DomainGroup {
	dg.routes = append(dg.routes, routeDefinition{method: method, path: path, handlers: handlers})
	return dg
}

func (dg *DomainGroup) GET(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodGet, path, handlers)
}

func (dg *DomainGroup) POST(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPost, path, handlers)
}

func (dg *DomainGroup) PUT(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodPut, path, handlers)
}

func (dg *DomainGroup) DELETE(path string, handlers ...gin.HandlerFunc) *DomainGroup {
	return dg.handle(http.MethodDelete, path, handlers)
}

// Group creates a sub-group; an empty prefix shares the parent's path
func (dg *DomainGroup) Group(prefix string) *DomainGroup {
	subgroup := NewDomainGroup(prefix)
	dg.subgroups = append(dg.subgroups, subgroup)
	return subgroup
}

// RegisterRoutes mounts the group on rg, guarding it when it has a scope
func (dg *DomainGroup) RegisterRoutes(rg *gin.RouterGroup, guard ScopeGuard) {
	group := rg.Group(dg.prefix)
	if dg.scope != "" && guard != nil {
		group.Use(guard(dg.scope))
	}
	group.Use(dg.middleware...)

	for _, route := range dg.routes {
		group.Handle(route.method, route.path, route.handlers...)
	}
	for _, subgroup := range dg.subgroups {
		subgroup.RegisterRoutes(group, guard)
	}
}

func (dg *DomainGroup) collect(routes []RouteInfo, base, inherited string) []RouteInfo {
	base = path.Join(base, dg.prefix)
	scope := inherited
	if dg.scope != "" {
		scope = dg.scope
	}
	for _, route := range dg.routes {
		p := base
		if route.path != "" {
			p = path.Join(base, route.path)
		}
		routes = append(routes, RouteInfo{Method: route.method, Path: p, Scope: scope})
	}
	for _, subgroup := range dg.subgroups {
		routes = subgroup.collect(routes, base, scope)
	}
	return routes
}
