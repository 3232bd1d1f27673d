// Package middleware is the parent of the public HTTP middleware packages and
// owns the request context keys they share with the logger.
package middleware

// ContextKey namespaces values stored in a request context.
type ContextKey string

// RequestIDKey holds the correlation id set by requestid.RequestID.
const RequestIDKey ContextKey = "request_id"
