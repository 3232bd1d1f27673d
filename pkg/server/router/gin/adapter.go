// Package gin implements router.Router on top of gin-gonic/gin.
package gin

import (
	"net/http"
	"sync"

	ginpkg "github.com/gin-gonic/gin"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

// GinRouter implements router.Router using gin-gonic/gin. GET routes also
// answer HEAD, and a trailing slash never redirects. Groups share the
// engine and the set of paths that already have an OPTIONS route.
type GinRouter struct {
	engine *ginpkg.Engine
	routes ginpkg.IRoutes
	base   string

	shared     *sharedState
	middleware []router.MiddlewareFunc
}

type sharedState struct {
	mu      sync.Mutex
	options map[string]bool
}

// NewRouter creates a GinRouter in release mode with no gin middleware attached.
func NewRouter() *GinRouter {
	ginpkg.SetMode(ginpkg.ReleaseMode)
	engine := ginpkg.New()
	engine.RedirectTrailingSlash = false
	return &GinRouter{
		engine: engine,
		routes: engine,
		shared: &sharedState{options: make(map[string]bool)},
	}
}

func (r *GinRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	global := r.snapshot()
	h := router.Chain(handler, global, middleware)
	serve := func(gc *ginpkg.Context) {
		router.Dispatch(h, newContext(gc))
	}
	r.routes.GET(path, serve)
	r.routes.HEAD(path, serve)

	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	if full := r.base + path; !r.shared.options[full] {
		r.shared.options[full] = true
		preflight := router.Chain(router.Preflight, global, nil)
		r.routes.OPTIONS(path, func(gc *ginpkg.Context) {
			_ = preflight(newContext(gc))
		})
	}
}

// Group creates a route group with common prefix and middleware.
func (r *GinRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	var group *ginpkg.RouterGroup
	if g, ok := r.routes.(*ginpkg.RouterGroup); ok {
		group = g.Group(prefix)
	} else {
		group = r.engine.Group(prefix)
	}
	return &GinRouter{
		engine:     r.engine,
		routes:     group,
		base:       group.BasePath(),
		shared:     r.shared,
		middleware: append(r.snapshot(), middleware...),
	}
}

// Use applies middleware to routes registered after the call.
func (r *GinRouter) Use(middleware ...router.MiddlewareFunc) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

func (r *GinRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.engine.ServeHTTP(w, router.StripTrailingSlash(req))
}

func (r *GinRouter) snapshot() []router.MiddlewareFunc {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return append([]router.MiddlewareFunc{}, r.middleware...)
}

// ginContext adapts gin.Context to router.Context. Values set through Set
// live in gin's per-request key store.
type ginContext struct {
	gc       *ginpkg.Context
	response router.ResponseWriter
}

func newContext(gc *ginpkg.Context) *ginContext {
	return &ginContext{gc: gc, response: router.NewResponseWriter(gc.Writer)}
}

func (c *ginContext) Request() *http.Request          { return c.gc.Request }
func (c *ginContext) SetRequest(r *http.Request)      { c.gc.Request = r }
func (c *ginContext) Response() router.ResponseWriter { return c.response }
func (c *ginContext) Param(name string) string        { return c.gc.Param(name) }

// Query returns the first value, gin caches the parsed query per request.
func (c *ginContext) Query(name string) string { return c.gc.Query(name) }

func (c *ginContext) JSON(code int, v interface{}) error {
	return router.WriteJSON(c.response, code, v)
}

func (c *ginContext) Get(key string) interface{} {
	v, _ := c.gc.Get(key)
	return v
}

func (c *ginContext) Set(key string, value interface{}) { c.gc.Set(key, value) }
