// Package router mounts the HTTP handlers on the gin engine.
package router

import (
	"net/http"
	"path"

	"github.com/gin-gonic/gin"

	"github.com/courierdash/backend/internal/interfaces/http/handler"
)

// RouteRegistrar mounts its routes on the versioned API group
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// Router mounts versioned API groups and the unversioned health probe
type Router struct {
	engine  *gin.Engine
	version string
	health  gin.HandlerFunc
	docs    gin.HandlerFunc
	groups  []RouteRegistrar
}

type RouterOption func(*Router)

// WithAPIVersion replaces the default "v1" path segment
func WithAPIVersion(version string) RouterOption {
	return func(r *Router) { r.version = version }
}

// WithHealthHandler serves GET /health outside the versioned group
func WithHealthHandler(h gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.health = h }
}

// WithSwagger serves the API docs UI at GET /swagger/*any
func WithSwagger(h gin.HandlerFunc) RouterOption {
	return func(r *Router) { r.docs = h }
}

func NewRouter(engine *gin.Engine, opts ...RouterOption) *Router {
	r := &Router{engine: engine, version: "v1"}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Register queues a group for Setup
func (r *Router) Register(group RouteRegistrar) *Router {
	r.groups = append(r.groups, group)
	return r
}

// Setup mounts everything registered and returns the engine's route table
func (r *Router) Setup() gin.RoutesInfo {
	if r.health != nil {
		r.engine.GET("/health", r.health)
	}
	if r.docs != nil {
		r.engine.GET("/swagger/*any", r.docs)
	}
	api := r.engine.Group(r.BasePath())
	for _, g := range r.groups {
		g.RegisterRoutes(api)
	}
	return r.engine.Routes()
}

// BasePath is the prefix of every versioned route, e.g. /api/v1
func (r *Router) BasePath() string {
	return path.Join("/api", r.version)
}

// DomainGroup collects the routes of one area under a shared prefix and middleware
type DomainGroup struct {
	name       string
	prefix     string
	middleware []gin.HandlerFunc
	routes     []route
}

type route struct {
	method   string
	path     string
	handlers []gin.HandlerFunc
}

func NewDomainGroup(name, prefix string) *DomainGroup {
	return &DomainGroup{name: name, prefix: prefix}
}

// Use appends middleware that runs before every route of the group
func (g *DomainGroup) Use(middleware ...gin.HandlerFunc) *DomainGroup {
	g.middleware = append(g.middleware, middleware...)
	return g
}

func (g *DomainGroup) GET(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodGet, relativePath, handlers)
}

func (g *DomainGroup) POST(relativePath string, handlers ...gin.HandlerFunc) *DomainGroup {
	return g.add(http.MethodPost, relativePath, handlers)
}

func (g *DomainGroup) add(method, relativePath string, handlers []gin.HandlerFunc) *DomainGroup {
	g.routes = append(g.routes, route{method: method, path: relativePath, handlers: handlers})
	return g
}

// RegisterRoutes implements RouteRegistrar
func (g *DomainGroup) RegisterRoutes(rg *gin.RouterGroup) {
	group := rg.Group(g.prefix, g.middleware...)
	for _, rt := range g.routes {
		group.Handle(rt.method, rt.path, rt.handlers...)
	}
}

func (g *DomainGroup) Name() string   { return g.name }
func (g *DomainGroup) Prefix() string { return g.prefix }

// NewRatesGroup mounts the quote endpoints under /rates.
// Middleware such as per-client limiting applies to the whole group.
func NewRatesGroup(h *handler.RateHandler, middleware ...gin.HandlerFunc) *DomainGroup {
	return NewDomainGroup("rates", "/rates").
		Use(middleware...).
		POST("/calculate", h.Calculate).
		POST("/detailed", h.Detailed).
		GET("/history", h.History)
}

// NewSystemGroup mounts the system endpoints under /system
func NewSystemGroup(h *handler.SystemHandler) *DomainGroup {
	return NewDomainGroup("system", "/system").
		GET("/info", h.GetSystemInfo).
		GET("/ping", h.Ping)
}
