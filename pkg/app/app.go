// Package app wires the catalog service from configuration.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nimburion/catalog-api/pkg/catalog"
	"github.com/nimburion/catalog-api/pkg/config"
	"github.com/nimburion/catalog-api/pkg/health"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/observability/tracing"
	"github.com/nimburion/catalog-api/pkg/repository/document"
	"github.com/nimburion/catalog-api/pkg/server"
	"github.com/nimburion/catalog-api/pkg/store/mongodb"
	"github.com/nimburion/catalog-api/pkg/version"
)

// Dependencies are the collaborators the HTTP surface is built from.
type Dependencies struct {
	Products catalog.Store
	Services catalog.Store

	Checkers       []health.Checker
	Metrics        *metrics.Registry
	TracerProvider *tracing.TracerProvider
	ShutdownHooks  []server.LifecycleHook
}

// NewServerOptions assembles the server options: catalog routes on the
// public router, readiness checks, metrics and the API document on the
// management router.
func NewServerOptions(cfg *config.Config, log logger.Logger, deps Dependencies) (*server.RunHTTPServersOptions, error) {
	if deps.Products == nil || deps.Services == nil {
		return nil, errors.New("product and service stores are required")
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.NewRegistry()
	}

	healthRegistry := health.NewRegistry()
	for _, checker := range deps.Checkers {
		healthRegistry.Register(checker)
	}

	doc, err := catalog.OpenAPI(cfg.Service.Name, version.Current(cfg.Service.Name).APIVersion())
	if err != nil {
		return nil, fmt.Errorf("build openapi document: %w", err)
	}

	handler := catalog.NewHandler(deps.Products, deps.Services, log)
	return &server.RunHTTPServersOptions{
		Config:              cfg,
		Logger:              log,
		RegisterRoutes:      handler.Register,
		HealthRegistry:      healthRegistry,
		MetricsRegistry:     deps.Metrics,
		TracerProvider:      deps.TracerProvider,
		OpenAPI:             doc,
		ShutdownHooks:       deps.ShutdownHooks,
		ShutdownHookTimeout: cfg.HTTP.ShutdownTimeout,
	}, nil
}

// Run connects to MongoDB and serves until ctx is done, SIGINT or SIGTERM.
// A failed initial connect or ping aborts startup.
func Run(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	tp, err := tracing.NewTracerProvider(ctx, tracing.TracerConfig{
		ServiceName:    cfg.Service.Name,
		ServiceVersion: version.Current(cfg.Service.Name).Version,
		Environment:    cfg.Service.Environment,
		Endpoint:       cfg.Observability.TracingEndpoint,
		SampleRate:     cfg.Observability.TracingSampleRate,
		Enabled:        cfg.Observability.TracingEnabled,
	})
	if err != nil {
		return fmt.Errorf("create tracer provider: %w", err)
	}

	adapter, err := connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect to MongoDB", "error", err)
		_ = tp.Shutdown(context.Background())
		return err
	}

	metricsRegistry := metrics.NewRegistry()
	products, err := document.NewMongoRepository(adapter, cfg.Database.ProductsCollection, document.WithQueryRecorder(metricsRegistry))
	if err != nil {
		return closeOnError(adapter, tp, err)
	}
	services, err := document.NewMongoRepository(adapter, cfg.Database.ServicesCollection, document.WithQueryRecorder(metricsRegistry))
	if err != nil {
		return closeOnError(adapter, tp, err)
	}

	opts, err := NewServerOptions(cfg, log, Dependencies{
		Products:       products,
		Services:       services,
		Checkers:       []health.Checker{health.NewDatabaseChecker("mongodb", adapter)},
		Metrics:        metricsRegistry,
		TracerProvider: tp,
		ShutdownHooks: []server.LifecycleHook{
			{Name: "mongodb", Fn: func(context.Context) error { return adapter.Close() }},
			{Name: "tracing", Fn: tp.Shutdown},
		},
	})
	if err != nil {
		return closeOnError(adapter, tp, err)
	}

	servers, err := server.BuildHTTPServers(opts)
	if err != nil {
		return closeOnError(adapter, tp, err)
	}
	return server.RunHTTPServersWithSignals(ctx, servers, opts)
}

// CheckDependencies connects to MongoDB, pings it and disconnects.
func CheckDependencies(ctx context.Context, cfg *config.Config, log logger.Logger) error {
	adapter, err := connect(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := adapter.Close(); closeErr != nil {
			log.Warn("failed to close MongoDB connection", "error", closeErr)
		}
	}()

	result := health.NewDatabaseChecker("mongodb", adapter).Check(ctx)
	if result.Status != health.StatusHealthy {
		return fmt.Errorf("database unhealthy: %s", result.Error)
	}
	log.Info("dependencies healthy", "database", cfg.Database.Name, "duration_ms", result.DurationMS)
	return nil
}

func connect(ctx context.Context, cfg *config.Config, log logger.Logger) (*mongodb.Adapter, error) {
	return mongodb.NewAdapter(ctx, mongodb.Config{
		URL:              cfg.Database.URL,
		Database:         cfg.Database.Name,
		ConnectTimeout:   cfg.Database.ConnectTimeout,
		OperationTimeout: cfg.Database.OperationTimeout,
	}, log)
}

func closeOnError(adapter *mongodb.Adapter, tp *tracing.TracerProvider, cause error) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return errors.Join(cause, adapter.Close(), tp.Shutdown(ctx))
}
