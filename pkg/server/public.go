package server

import (
	"strings"

	"go.opentelemetry.io/otel/trace"

	"github.com/nimburion/catalog-api/pkg/config"
	"github.com/nimburion/catalog-api/pkg/middleware/cors"
	"github.com/nimburion/catalog-api/pkg/middleware/logging"
	"github.com/nimburion/catalog-api/pkg/middleware/metrics"
	"github.com/nimburion/catalog-api/pkg/middleware/recovery"
	"github.com/nimburion/catalog-api/pkg/middleware/requestid"
	"github.com/nimburion/catalog-api/pkg/middleware/tracing"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	obsmetrics "github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/server/router"
)

// PublicOptions carries the collaborators of the public middleware stack.
type PublicOptions struct {
	Metrics *obsmetrics.Registry
	// TracerProvider enables the tracing middleware when non-nil.
	TracerProvider trace.TracerProvider
}

// PublicAPIServer serves application traffic.
type PublicAPIServer struct {
	*Server
}

// NewPublicAPIServer installs the middleware stack on r and wraps it in a
// server. Routes must be registered on r afterwards, since middleware
// applies only to routes registered after Use.
//
// Order: request id, CORS, logging, recovery, metrics, tracing.
func NewPublicAPIServer(cfg *config.Config, r router.Router, log logger.Logger, opts PublicOptions) *PublicAPIServer {
	r.Use(PublicMiddleware(cfg, log, opts)...)

	return &PublicAPIServer{
		Server: NewServer(Config{
			Name:            "public",
			Port:            cfg.HTTP.Port,
			ReadTimeout:     cfg.HTTP.ReadTimeout,
			WriteTimeout:    cfg.HTTP.WriteTimeout,
			IdleTimeout:     cfg.HTTP.IdleTimeout,
			ShutdownTimeout: cfg.HTTP.ShutdownTimeout,
		}, r, log),
	}
}

// PublicMiddleware builds the public middleware chain in application order.
func PublicMiddleware(cfg *config.Config, log logger.Logger, opts PublicOptions) []router.MiddlewareFunc {
	type middlewareEntry struct {
		name string
		fn   router.MiddlewareFunc
	}

	corsCfg := cors.Config{
		Enabled:          cfg.CORS.Enabled,
		AllowAllOrigins:  cfg.CORS.AllowAllOrigins,
		AllowOrigins:     cfg.CORS.AllowOrigins,
		AllowWildcard:    cfg.CORS.AllowWildcard,
		AllowMethods:     cfg.CORS.AllowMethods,
		AllowHeaders:     cfg.CORS.AllowHeaders,
		ExposeHeaders:    cfg.CORS.ExposeHeaders,
		AllowCredentials: cfg.CORS.AllowCredentials,
		MaxAge:           cfg.CORS.MaxAge,
	}
	loggingCfg := logging.Config{
		Enabled:              cfg.Observability.RequestLogging.Enabled,
		LogStart:             cfg.Observability.RequestLogging.LogStart,
		Fields:               cfg.Observability.RequestLogging.Fields,
		ExcludedPathPrefixes: cfg.Observability.RequestLogging.ExcludedPathPrefixes,
	}

	entries := []middlewareEntry{
		{name: "request_id", fn: requestid.RequestID()},
		{name: "cors", fn: cors.Middleware(corsCfg)},
		{name: "logging", fn: logging.WithConfig(log, loggingCfg)},
		{name: "recovery", fn: recovery.Recovery(log)},
	}
	if opts.Metrics != nil {
		entries = append(entries, middlewareEntry{name: "metrics", fn: metrics.Metrics(opts.Metrics)})
	}
	if opts.TracerProvider != nil {
		entries = append(entries, middlewareEntry{name: "tracing", fn: tracing.Tracing(tracing.Config{
			TracerName:     cfg.Service.Name,
			TracerProvider: opts.TracerProvider,
		})})
	}

	fns := make([]router.MiddlewareFunc, 0, len(entries))
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		fns = append(fns, entry.fn)
		names = append(names, entry.name)
	}
	log.Debug("active middleware stack", "middlewares", strings.Join(names, ", "))
	return fns
}
