package router

import (
	"encoding/json"
	"net/http"
	"strings"
)

// StripTrailingSlash returns req with one trailing slash removed from its
// path, so /products/ resolves like /products. The root path is unchanged.
func StripTrailingSlash(req *http.Request) *http.Request {
	p := req.URL.Path
	if len(p) < 2 || !strings.HasSuffix(p, "/") {
		return req
	}
	u := *req.URL
	u.Path = strings.TrimSuffix(p, "/")
	u.RawPath = strings.TrimSuffix(u.RawPath, "/")
	out := req.WithContext(req.Context())
	out.URL = &u
	return out
}

// Chain wraps h so global middleware runs first, then route middleware,
// each in registration order.
func Chain(h HandlerFunc, global, route []MiddlewareFunc) HandlerFunc {
	for i := len(route) - 1; i >= 0; i-- {
		h = route[i](h)
	}
	for i := len(global) - 1; i >= 0; i-- {
		h = global[i](h)
	}
	return h
}

// Preflight answers an OPTIONS request with 204 unless middleware (CORS)
// already responded.
func Preflight(c Context) error {
	if !c.Response().Written() {
		c.Response().WriteHeader(http.StatusNoContent)
	}
	return nil
}

// Dispatch runs h and turns an error the handler left unanswered into a bare 500.
func Dispatch(h HandlerFunc, c Context) {
	if err := h(c); err != nil && !c.Response().Written() {
		c.Response().WriteHeader(http.StatusInternalServerError)
	}
}

// WriteJSON writes v as application/json with status code.
func WriteJSON(w ResponseWriter, code int, v interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(v)
}

// NewResponseWriter wraps w to record the first status written.
func NewResponseWriter(w http.ResponseWriter) ResponseWriter {
	return &statusWriter{ResponseWriter: w}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	if w.status != 0 {
		return
	}
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if w.status == 0 {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Status() int {
	if w.status == 0 {
		return http.StatusOK
	}
	return w.status
}

func (w *statusWriter) Written() bool {
	return w.status != 0
}

// Unwrap exposes the underlying writer to http.ResponseController.
func (w *statusWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
