// Package config loads service configuration from defaults, an optional file
// and APP_* environment variables.
package config

import "time"

// Router type constants
const (
	RouterTypeGin     = "gin"
	RouterTypeGorilla = "gorilla"
)

// Config is the root configuration structure for the catalog service.
type Config struct {
	RouterType    string              `mapstructure:"router_type" yaml:"router_type"`
	Service       ServiceConfig       `mapstructure:"service" yaml:"service"`
	HTTP          HTTPConfig          `mapstructure:"http" yaml:"http"`
	Management    ManagementConfig    `mapstructure:"management" yaml:"management"`
	CORS          CORSConfig          `mapstructure:"cors" yaml:"cors"`
	Database      DatabaseConfig      `mapstructure:"database" yaml:"database"`
	Observability ObservabilityConfig `mapstructure:"observability" yaml:"observability"`
}

// ServiceConfig configures service identity metadata.
type ServiceConfig struct {
	Name        string `mapstructure:"name" yaml:"name"`
	Environment string `mapstructure:"environment" yaml:"environment"`
}

// HTTPConfig configures the public API server.
type HTTPConfig struct {
	Port            int           `mapstructure:"port" yaml:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" yaml:"shutdown_timeout"`
}

// ManagementConfig configures the management server.
type ManagementConfig struct {
	Enabled      bool          `mapstructure:"enabled" yaml:"enabled"`
	Port         int           `mapstructure:"port" yaml:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout" yaml:"write_timeout"`
}

// CORSConfig configures CORS middleware for browser-based clients.
type CORSConfig struct {
	Enabled          bool          `mapstructure:"enabled" yaml:"enabled"`
	AllowAllOrigins  bool          `mapstructure:"allow_all_origins" yaml:"allow_all_origins"`
	AllowOrigins     []string      `mapstructure:"allow_origins" yaml:"allow_origins"`
	AllowWildcard    bool          `mapstructure:"allow_wildcard" yaml:"allow_wildcard"`
	AllowMethods     []string      `mapstructure:"allow_methods" yaml:"allow_methods"`
	AllowHeaders     []string      `mapstructure:"allow_headers" yaml:"allow_headers"`
	ExposeHeaders    []string      `mapstructure:"expose_headers" yaml:"expose_headers"`
	AllowCredentials bool          `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           time.Duration `mapstructure:"max_age" yaml:"max_age"`
}

// DatabaseConfig configures the MongoDB connection.
type DatabaseConfig struct {
	URL                string        `mapstructure:"url" yaml:"url"`
	Name               string        `mapstructure:"name" yaml:"name"`
	ConnectTimeout     time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	OperationTimeout   time.Duration `mapstructure:"operation_timeout" yaml:"operation_timeout"`
	ProductsCollection string        `mapstructure:"products_collection" yaml:"products_collection"`
	ServicesCollection string        `mapstructure:"services_collection" yaml:"services_collection"`
}

// ObservabilityConfig configures logging and tracing.
type ObservabilityConfig struct {
	LogLevel          string               `mapstructure:"log_level" yaml:"log_level"`
	LogFormat         string               `mapstructure:"log_format" yaml:"log_format"` // json, text
	TracingEnabled    bool                 `mapstructure:"tracing_enabled" yaml:"tracing_enabled"`
	TracingSampleRate float64              `mapstructure:"tracing_sample_rate" yaml:"tracing_sample_rate"`
	TracingEndpoint   string               `mapstructure:"tracing_endpoint" yaml:"tracing_endpoint"`
	RequestLogging    RequestLoggingConfig `mapstructure:"request_logging" yaml:"request_logging"`
}

// RequestLoggingConfig configures HTTP request logging middleware behavior.
type RequestLoggingConfig struct {
	Enabled              bool     `mapstructure:"enabled" yaml:"enabled"`
	LogStart             bool     `mapstructure:"log_start" yaml:"log_start"`
	Fields               []string `mapstructure:"fields" yaml:"fields"`
	ExcludedPathPrefixes []string `mapstructure:"excluded_path_prefixes" yaml:"excluded_path_prefixes"`
}

// DefaultConfig returns the configuration used when nothing overrides it.
// The public port matches the historical 3001 of the catalog API.
func DefaultConfig() *Config {
	return &Config{
		RouterType: RouterTypeGin,
		Service: ServiceConfig{
			Name:        "catalog-api",
			Environment: "development",
		},
		HTTP: HTTPConfig{
			Port:            3001,
			ReadTimeout:     30 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     120 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Management: ManagementConfig{
			Enabled:      true,
			Port:         9090,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		CORS: CORSConfig{
			Enabled:         true,
			AllowAllOrigins: true,
			AllowOrigins:    []string{},
			AllowMethods:    []string{"GET", "HEAD", "OPTIONS"},
			AllowHeaders:    []string{},
			ExposeHeaders:   []string{"X-Request-ID"},
			MaxAge:          12 * time.Hour,
		},
		Database: DatabaseConfig{
			ConnectTimeout:     10 * time.Second,
			OperationTimeout:   5 * time.Second,
			ProductsCollection: "products",
			ServicesCollection: "services",
		},
		Observability: ObservabilityConfig{
			LogLevel:          "info",
			LogFormat:         "json",
			TracingSampleRate: 1.0,
			RequestLogging: RequestLoggingConfig{
				Enabled: true,
				Fields:  []string{},
			},
		},
	}
}
