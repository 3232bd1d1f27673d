// Package router abstracts HTTP routing so the service can run on gin or gorilla/mux.
package router

import "net/http"

// Router is the routing surface used by the service. The API is read-only,
// so only GET routes are exposed; OPTIONS routes are registered implicitly
// for every path so preflight requests reach the middleware chain.
type Router interface {
	GET(path string, handler HandlerFunc, middleware ...MiddlewareFunc)

	// Group creates a route group with common prefix and middleware
	Group(prefix string, middleware ...MiddlewareFunc) Router

	// Use applies middleware to routes registered after the call
	Use(middleware ...MiddlewareFunc)

	ServeHTTP(w http.ResponseWriter, r *http.Request)
}

// HandlerFunc is the function signature for route handlers.
type HandlerFunc func(Context) error

// MiddlewareFunc wraps a HandlerFunc and returns a new HandlerFunc.
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// Context provides access to request and response in a router-agnostic way.
type Context interface {
	Request() *http.Request

	// SetRequest replaces the request, typically to attach a derived context
	SetRequest(r *http.Request)

	Response() ResponseWriter

	// Param returns a path parameter declared as :name
	Param(name string) string

	// Query returns the first value of a query-string parameter
	Query(name string) string

	// JSON writes v as application/json with the given status code
	JSON(code int, v interface{}) error

	Get(key string) interface{}
	Set(key string, value interface{})
}

// ResponseWriter wraps http.ResponseWriter to track response status.
type ResponseWriter interface {
	http.ResponseWriter

	// Status returns the written status code, or 200 when nothing was written yet
	Status() int

	Written() bool
}
