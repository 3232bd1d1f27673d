// Package logging emits one structured log line per HTTP request.
package logging

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nimburion/catalog-api/pkg/middleware/requestid"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"github.com/nimburion/catalog-api/pkg/server/router"
)

// Log field names.
const (
	FieldRequestID     = "request_id"
	FieldMethod        = "method"
	FieldPath          = "path"
	FieldQueryString   = "query_string"
	FieldStatus        = "status"
	FieldDurationMS    = "duration_ms"
	FieldError         = "error"
	FieldRemoteAddr    = "remote_addr"
	FieldHTTPUserAgent = "http_user_agent"
	FieldRequestURI    = "request_uri"
)

var (
	defaultFields = []string{
		FieldRequestID,
		FieldMethod,
		FieldPath,
		FieldQueryString,
		FieldStatus,
		FieldDurationMS,
		FieldRemoteAddr,
		FieldError,
	}
	validFields = map[string]struct{}{
		FieldRequestID:     {},
		FieldMethod:        {},
		FieldPath:          {},
		FieldQueryString:   {},
		FieldStatus:        {},
		FieldDurationMS:    {},
		FieldError:         {},
		FieldRemoteAddr:    {},
		FieldHTTPUserAgent: {},
		FieldRequestURI:    {},
	}
	fieldAliases = map[string]string{
		"query":      FieldQueryString,
		"user_agent": FieldHTTPUserAgent,
	}
)

// Config configures request logging middleware behavior.
type Config struct {
	Enabled              bool
	LogStart             bool
	Fields               []string
	ExcludedPathPrefixes []string
}

// DefaultConfig returns default request logging behavior.
func DefaultConfig() Config {
	return Config{
		Enabled: true,
		Fields:  append([]string{}, defaultFields...),
	}
}

// Logging creates middleware with default configuration.
func Logging(log logger.Logger) router.MiddlewareFunc {
	return WithConfig(log, DefaultConfig())
}

// WithConfig creates request logging middleware with custom configuration.
// Requests whose handler returns an error are logged at error level, responses
// with a 5xx status at warn level and everything else at info level.
func WithConfig(log logger.Logger, cfg Config) router.MiddlewareFunc {
	cfg.Fields = normalizeFields(cfg.Fields)

	return func(next router.HandlerFunc) router.HandlerFunc {
		return func(c router.Context) error {
			req := c.Request()
			if cfg.skip(req.URL.Path) {
				return next(c)
			}

			start := time.Now()
			requestID := requestid.GetRequestID(req.Context())
			if cfg.LogStart {
				log.Debug("request started", cfg.buildFields(req, requestID, 0, 0, nil, true)...)
			}

			err := next(c)
			duration := time.Since(start)
			status := c.Response().Status()
			fields := cfg.buildFields(req, requestID, status, duration, err, false)

			switch {
			case err != nil:
				log.Error("request failed", fields...)
			case status >= http.StatusInternalServerError:
				log.Warn("request completed", fields...)
			default:
				log.Info("request completed", fields...)
			}
			return err
		}
	}
}

func (c Config) skip(path string) bool {
	if !c.Enabled {
		return true
	}
	for _, prefix := range c.ExcludedPathPrefixes {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func normalizeFields(fields []string) []string {
	normalized := make([]string, 0, len(fields))
	seen := make(map[string]struct{}, len(fields))
	for _, field := range fields {
		name := strings.ToLower(strings.TrimSpace(field))
		if alias, ok := fieldAliases[name]; ok {
			name = alias
		}
		if _, ok := validFields[name]; !ok {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		normalized = append(normalized, name)
	}
	if len(normalized) == 0 {
		return append([]string{}, defaultFields...)
	}
	return normalized
}

func (c Config) buildFields(req *http.Request, requestID string, status int, duration time.Duration, err error, isStart bool) []any {
	args := make([]any, 0, len(c.Fields)*2)
	for _, field := range c.Fields {
		value, ok := resolveFieldValue(field, req, requestID, status, duration, err, isStart)
		if !ok {
			continue
		}
		args = append(args, field, value)
	}
	return args
}

func resolveFieldValue(field string, req *http.Request, requestID string, status int, duration time.Duration, err error, isStart bool) (any, bool) {
	switch field {
	case FieldRequestID:
		return requestID, requestID != ""
	case FieldMethod:
		return req.Method, true
	case FieldPath:
		return req.URL.Path, true
	case FieldQueryString:
		return req.URL.RawQuery, req.URL.RawQuery != ""
	case FieldRequestURI:
		if req.URL.RawQuery == "" {
			return req.URL.Path, true
		}
		return fmt.Sprintf("%s?%s", req.URL.Path, req.URL.RawQuery), true
	case FieldStatus:
		return status, !isStart
	case FieldDurationMS:
		return duration.Milliseconds(), !isStart
	case FieldError:
		if err == nil {
			return nil, false
		}
		return err.Error(), true
	case FieldRemoteAddr:
		return req.RemoteAddr, true
	case FieldHTTPUserAgent:
		return req.UserAgent(), true
	default:
		return nil, false
	}
}
