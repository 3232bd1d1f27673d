package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/nimburion/catalog-api/pkg/config"
	"github.com/nimburion/catalog-api/pkg/health"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"github.com/nimburion/catalog-api/pkg/observability/metrics"
	"github.com/nimburion/catalog-api/pkg/observability/tracing"
	"github.com/nimburion/catalog-api/pkg/server/router"
	"github.com/nimburion/catalog-api/pkg/server/router/factory"
	"github.com/nimburion/catalog-api/pkg/version"
)

// LifecycleHook defines a named shutdown action.
type LifecycleHook struct {
	Name string
	Fn   func(context.Context) error
}

// RunHTTPServersOptions defines inputs for building and running the HTTP servers.
type RunHTTPServersOptions struct {
	Config *config.Config
	Logger logger.Logger

	// RegisterRoutes mounts the application routes on the public router,
	// after its middleware has been installed.
	RegisterRoutes func(r router.Router)

	HealthRegistry  *health.Registry
	MetricsRegistry *metrics.Registry
	// TracerProvider enables request tracing when it is non-nil and enabled.
	TracerProvider *tracing.TracerProvider
	OpenAPI        *openapi3.T

	ShutdownHooks       []LifecycleHook
	ShutdownHookTimeout time.Duration
}

// HTTPServers groups the runtime public/management servers.
type HTTPServers struct {
	Public     *PublicAPIServer
	Management *ManagementServer
}

// BuildHTTPServers constructs the public server and, when enabled, the
// management server.
func BuildHTTPServers(opts *RunHTTPServersOptions) (*HTTPServers, error) {
	if opts == nil || opts.Config == nil {
		return nil, errors.New("config is required")
	}
	if opts.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if opts.RegisterRoutes == nil {
		return nil, errors.New("route registration is required")
	}
	if opts.MetricsRegistry == nil {
		opts.MetricsRegistry = metrics.NewRegistry()
	}
	if opts.HealthRegistry == nil {
		opts.HealthRegistry = health.NewRegistry()
	}

	publicRouter, err := factory.NewRouter(opts.Config.RouterType)
	if err != nil {
		return nil, fmt.Errorf("create public router: %w", err)
	}
	publicOpts := PublicOptions{Metrics: opts.MetricsRegistry}
	if opts.TracerProvider != nil && opts.TracerProvider.Enabled() {
		publicOpts.TracerProvider = opts.TracerProvider.Provider()
	}
	public := NewPublicAPIServer(opts.Config, publicRouter, opts.Logger, publicOpts)
	opts.RegisterRoutes(publicRouter)

	servers := &HTTPServers{Public: public}
	if !opts.Config.Management.Enabled {
		return servers, nil
	}

	managementRouter, err := factory.NewRouter(opts.Config.RouterType)
	if err != nil {
		return nil, fmt.Errorf("create management router: %w", err)
	}
	management, err := NewManagementServer(opts.Config.Management, managementRouter, opts.Logger, ManagementOptions{
		Health:  opts.HealthRegistry,
		Metrics: opts.MetricsRegistry,
		OpenAPI: opts.OpenAPI,
		Version: version.Current(resolveServiceName(opts)),
	})
	if err != nil {
		return nil, fmt.Errorf("create management server: %w", err)
	}
	servers.Management = management
	return servers, nil
}

// RunHTTPServers starts the servers and blocks until ctx is cancelled or one
// of them fails, which stops the other. Shutdown hooks run afterwards.
func RunHTTPServers(ctx context.Context, servers *HTTPServers, opts *RunHTTPServersOptions) error {
	if servers == nil || servers.Public == nil {
		return errors.New("servers and public server are required")
	}
	if opts == nil || opts.Logger == nil {
		return errors.New("logger is required")
	}

	versionInfo := version.Current(resolveServiceName(opts))
	opts.Logger.Info("application version metadata",
		"service", versionInfo.Service,
		"version", versionInfo.Version,
		"commit", versionInfo.Commit,
		"build_time", versionInfo.BuildTime,
	)

	defer func() {
		if shutdownErr := runShutdownHooks(opts); shutdownErr != nil {
			opts.Logger.Error("shutdown hooks completed with errors", "error", shutdownErr)
		}
	}()

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	serverCount := 1
	if servers.Management != nil {
		serverCount = 2
	}

	errCh := make(chan error, serverCount)
	go func() { errCh <- servers.Public.Start(runCtx) }()
	if servers.Management != nil {
		go func() { errCh <- servers.Management.Start(runCtx) }()
	}

	var firstErr error
	for idx := 0; idx < serverCount; idx++ {
		currentErr := <-errCh
		if currentErr != nil && firstErr == nil {
			firstErr = currentErr
			cancel()
		}
	}
	return firstErr
}

// RunHTTPServersWithSignals runs servers until ctx is done or SIGINT or
// SIGTERM arrives.
func RunHTTPServersWithSignals(ctx context.Context, servers *HTTPServers, opts *RunHTTPServersOptions, signals ...os.Signal) error {
	if len(signals) == 0 {
		signals = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}
	ctx, stop := signal.NotifyContext(ctx, signals...)
	defer stop()
	return RunHTTPServers(ctx, servers, opts)
}

func resolveServiceName(opts *RunHTTPServersOptions) string {
	if opts.Config != nil {
		if trimmed := strings.TrimSpace(opts.Config.Service.Name); trimmed != "" {
			return trimmed
		}
	}
	return version.Unknown
}

func runShutdownHooks(opts *RunHTTPServersOptions) error {
	if len(opts.ShutdownHooks) == 0 {
		return nil
	}

	timeout := opts.ShutdownHookTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	var errs []error
	for _, hook := range opts.ShutdownHooks {
		if hook.Fn == nil {
			continue
		}
		name := strings.TrimSpace(hook.Name)
		if name == "" {
			name = "unnamed"
		}
		opts.Logger.Info("shutdown hook start", "hook", name)

		hookCtx, cancel := context.WithTimeout(context.Background(), timeout)
		err := hook.Fn(hookCtx)
		cancel()

		if err != nil {
			opts.Logger.Error("shutdown hook failed", "hook", name, "error", err)
			errs = append(errs, fmt.Errorf("shutdown hook %q failed: %w", name, err))
			continue
		}
		opts.Logger.Info("shutdown hook complete", "hook", name)
	}
	return errors.Join(errs...)
}
