// Package gorilla implements router.Router on top of gorilla/mux.
package gorilla

import (
	"net/http"
	"strings"
	"sync"

	"github.com/gorilla/mux"

	"github.com/nimburion/catalog-api/pkg/server/router"
)

// GorillaRouter implements router.Router using gorilla/mux.
// Paths use the :name syntax and are rewritten to mux's {name}.
type GorillaRouter struct {
	mux    *mux.Router
	prefix string

	shared     *sharedState
	middleware []router.MiddlewareFunc
}

type sharedState struct {
	mu      sync.Mutex
	options map[string]bool
}

// NewRouter creates a new GorillaRouter.
func NewRouter() *GorillaRouter {
	return &GorillaRouter{
		mux:    mux.NewRouter(),
		shared: &sharedState{options: make(map[string]bool)},
	}
}

func (r *GorillaRouter) GET(path string, handler router.HandlerFunc, middleware ...router.MiddlewareFunc) {
	global := r.snapshot()
	h := router.Chain(handler, global, middleware)
	muxPath := toMuxPath(path)
	r.mux.HandleFunc(muxPath, func(w http.ResponseWriter, req *http.Request) {
		router.Dispatch(h, newContext(w, req))
	}).Methods(http.MethodGet, http.MethodHead)

	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	if full := r.prefix + muxPath; !r.shared.options[full] {
		r.shared.options[full] = true
		preflight := router.Chain(router.Preflight, global, nil)
		r.mux.HandleFunc(muxPath, func(w http.ResponseWriter, req *http.Request) {
			_ = preflight(newContext(w, req))
		}).Methods(http.MethodOptions)
	}
}

// Group creates a route group with common prefix and middleware.
func (r *GorillaRouter) Group(prefix string, middleware ...router.MiddlewareFunc) router.Router {
	return &GorillaRouter{
		mux:        r.mux.PathPrefix(prefix).Subrouter(),
		prefix:     r.prefix + prefix,
		shared:     r.shared,
		middleware: append(r.snapshot(), middleware...),
	}
}

// Use applies middleware to routes registered after the call.
func (r *GorillaRouter) Use(middleware ...router.MiddlewareFunc) {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	r.middleware = append(r.middleware, middleware...)
}

func (r *GorillaRouter) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	r.mux.ServeHTTP(w, router.StripTrailingSlash(req))
}

func (r *GorillaRouter) snapshot() []router.MiddlewareFunc {
	r.shared.mu.Lock()
	defer r.shared.mu.Unlock()
	return append([]router.MiddlewareFunc{}, r.middleware...)
}

func toMuxPath(path string) string {
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if strings.HasPrefix(p, ":") {
			parts[i] = "{" + p[1:] + "}"
		}
	}
	return strings.Join(parts, "/")
}

// gorillaContext adapts a mux request to router.Context. The query string
// is parsed once, on first use.
type gorillaContext struct {
	request  *http.Request
	response router.ResponseWriter
	query    map[string][]string
	values   map[string]interface{}
}

func newContext(w http.ResponseWriter, r *http.Request) *gorillaContext {
	return &gorillaContext{request: r, response: router.NewResponseWriter(w)}
}

func (c *gorillaContext) Request() *http.Request          { return c.request }
func (c *gorillaContext) SetRequest(r *http.Request)      { c.request = r }
func (c *gorillaContext) Response() router.ResponseWriter { return c.response }
func (c *gorillaContext) Param(name string) string        { return mux.Vars(c.request)[name] }

func (c *gorillaContext) Query(name string) string {
	if c.query == nil {
		c.query = c.request.URL.Query()
	}
	if v := c.query[name]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func (c *gorillaContext) JSON(code int, v interface{}) error {
	return router.WriteJSON(c.response, code, v)
}

func (c *gorillaContext) Get(key string) interface{} { return c.values[key] }

func (c *gorillaContext) Set(key string, value interface{}) {
	if c.values == nil {
		c.values = make(map[string]interface{})
	}
	c.values[key] = value
}
