package server

import (
	"net/http"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/nimburion/catalog-api/pkg/config"
	"github.com/nimburion/catalog-api/pkg/health"
	"github.com/nimburion/catalog-api/pkg/middleware/logging"
	"github.com/nimburion/catalog-api/pkg/middleware/recovery"
	"github.com/nimburion/catalog-api/pkg/middleware/requestid"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/server/openapi"
	"github.com/nimburion/catalog-api/pkg/server/router"
	"github.com/nimburion/catalog-api/pkg/version"
)

// ManagementServer serves health, metrics and API documentation on a
// separate port from the public API.
type ManagementServer struct {
	*Server
	healthRegistry  *health.Registry
	metricsRegistry *metrics.Registry
	versionInfo     version.Info
}

// ManagementOptions carries the management endpoints' data sources.
type ManagementOptions struct {
	Health  *health.Registry
	Metrics *metrics.Registry
	// OpenAPI is served at /openapi.json with Swagger UI at /swagger when set.
	OpenAPI *openapi3.T
	Version version.Info
}

// NewManagementServer registers the management endpoints on r:
//   - GET /health   liveness, always 200
//   - GET /ready    readiness, 503 when a registered check fails
//   - GET /metrics  Prometheus exposition
//   - GET /version  build metadata
//   - GET /openapi.json and /swagger when a document is provided
func NewManagementServer(cfg config.ManagementConfig, r router.Router, log logger.Logger, opts ManagementOptions) (*ManagementServer, error) {
	r.Use(
		requestid.RequestID(),
		logging.WithConfig(log, logging.Config{Enabled: true, ExcludedPathPrefixes: []string{"/health", "/metrics"}}),
		recovery.Recovery(log),
	)

	if opts.Health == nil {
		opts.Health = health.NewRegistry()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewRegistry()
	}

	s := &ManagementServer{
		Server: NewServer(Config{
			Name:         "management",
			Port:         cfg.Port,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  60 * time.Second,
		}, r, log),
		healthRegistry:  opts.Health,
		metricsRegistry: opts.Metrics,
		versionInfo:     opts.Version,
	}

	r.GET("/health", s.handleHealth)
	r.GET("/ready", s.handleReady)
	r.GET("/metrics", s.handleMetrics)
	r.GET("/version", s.handleVersion)

	if opts.OpenAPI != nil {
		specHandler, err := openapi.NewHandler(opts.OpenAPI)
		if err != nil {
			return nil, err
		}
		specHandler.RegisterRoutes(r)

		title := "API"
		if opts.OpenAPI.Info != nil && opts.OpenAPI.Info.Title != "" {
			title = opts.OpenAPI.Info.Title
		}
		page, err := openapi.SwaggerPage(title, openapi.SpecPath)
		if err != nil {
			return nil, err
		}
		r.GET(openapi.SwaggerPath, page)
	}

	return s, nil
}

func (s *ManagementServer) handleHealth(c router.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": health.StatusHealthy,
	})
}

func (s *ManagementServer) handleReady(c router.Context) error {
	result := s.healthRegistry.Check(c.Request().Context())
	if !result.IsHealthy() {
		return c.JSON(http.StatusServiceUnavailable, result)
	}
	return c.JSON(http.StatusOK, result)
}

func (s *ManagementServer) handleMetrics(c router.Context) error {
	s.metricsRegistry.Handler().ServeHTTP(c.Response(), c.Request())
	return nil
}

func (s *ManagementServer) handleVersion(c router.Context) error {
	return c.JSON(http.StatusOK, s.versionInfo)
}
