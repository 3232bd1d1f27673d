// Package cli builds the service command tree on cobra.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	cliopenapi "github.com/nimburion/catalog-api/pkg/cli/openapi"
	"github.com/nimburion/catalog-api/pkg/config"
	"github.com/nimburion/catalog-api/pkg/observability/logger"
	"github.com/nimburion/catalog-api/pkg/version"
)

// ServiceCommandOptions defines callbacks for service-specific logic.
type ServiceCommandOptions struct {
	Name        string
	Description string
	ConfigPath  string
	EnvPrefix   string

	// Required: server startup logic
	RunServer func(ctx context.Context, cfg *config.Config, log logger.Logger) error

	// Optional: dependency health checks
	CheckDependencies func(ctx context.Context, cfg *config.Config, log logger.Logger) error

	// Optional: custom config validation (runs after the built-in validation)
	ValidateConfig func(cfg *config.Config) error

	// Optional: builds the API document for the openapi command.
	BuildOpenAPI func(title, version string) (*openapi3.T, error)

	// Optional: additional custom commands
	CustomCommands []*cobra.Command
}

// NewServiceCommand creates the CLI with serve, version, healthcheck, config
// and openapi subcommands. serve is the default when no subcommand is given.
func NewServiceCommand(opts ServiceCommandOptions) *cobra.Command {
	if opts.EnvPrefix == "" {
		opts.EnvPrefix = "APP"
	}

	rootCmd := &cobra.Command{
		Use:           opts.Name,
		Short:         opts.Description,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var cfgPath string
	var serviceNameOverride string
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config-file", "c", opts.ConfigPath, "config file path (yaml, json, toml or .env)")
	rootCmd.PersistentFlags().StringVar(&serviceNameOverride, "service-name", "", "service name override")

	loadConfig := func(_ *pflag.FlagSet) (*config.Config, error) {
		return LoadConfig(cfgPath, opts.EnvPrefix, opts.ValidateConfig, opts.Name, serviceNameOverride)
	}
	loadConfigAndLogger := func(flags *pflag.FlagSet) (*config.Config, logger.Logger, error) {
		cfg, err := loadConfig(flags)
		if err != nil {
			return nil, nil, err
		}
		log, err := NewLogger(cfg)
		if err != nil {
			return nil, nil, err
		}
		logConfigIfDebug(log, cfg)
		return cfg, log, nil
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			info := version.Current(opts.Name)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Service:    %s\n", info.Service)
			fmt.Fprintf(out, "Version:    %s\n", info.Version)
			fmt.Fprintf(out, "Commit:     %s\n", info.Commit)
			fmt.Fprintf(out, "Build Time: %s\n", info.BuildTime)
		},
	})

	if opts.RunServer != nil {
		serveCmd := &cobra.Command{
			Use:   "serve",
			Short: "Start the HTTP servers",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfigAndLogger(cmd.Flags())
				if err != nil {
					return err
				}
				return opts.RunServer(cmd.Context(), cfg, log)
			},
		}
		rootCmd.AddCommand(serveCmd)
		rootCmd.RunE = serveCmd.RunE
	}

	if opts.CheckDependencies != nil {
		rootCmd.AddCommand(&cobra.Command{
			Use:   "healthcheck",
			Short: "Check connectivity to the database",
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, log, err := loadConfigAndLogger(cmd.Flags())
				if err != nil {
					return err
				}
				if err := opts.CheckDependencies(cmd.Context(), cfg, log); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "✓ Dependencies are healthy")
				return nil
			},
		})
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management commands",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := loadConfig(cmd.Flags()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "✓ Configuration is valid")
			return nil
		},
	})

	var showSecrets bool
	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if !showSecrets {
				cfg.Database.URL = RedactURL(cfg.Database.URL)
			}
			formatted, err := formatConfig(cfg)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatted)
			return nil
		},
	}
	showCmd.Flags().BoolVar(&showSecrets, "show-secrets", false, "show credentials embedded in the database URL")
	configCmd.AddCommand(showCmd)

	configCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			schema, err := config.Schema(opts.Name)
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(schema, "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	})
	rootCmd.AddCommand(configCmd)

	if openAPICmd := cliopenapi.NewCommand(cliopenapi.CommandOptions{
		BuildSpec:      opts.BuildOpenAPI,
		ServiceName:    opts.Name,
		ServiceVersion: version.Current(opts.Name).APIVersion(),
	}); openAPICmd != nil {
		rootCmd.AddCommand(openAPICmd)
	}

	for _, customCmd := range opts.CustomCommands {
		rootCmd.AddCommand(customCmd)
	}

	return rootCmd
}

// LoadConfig loads and validates configuration, then applies the service
// name resolution: flag override, configured value, command default.
func LoadConfig(
	cfgPath,
	envPrefix string,
	customValidator func(*config.Config) error,
	defaultServiceName string,
	serviceNameOverride string,
) (*config.Config, error) {
	cfg, err := config.NewViperLoader(cfgPath, resolveEnvPrefix(envPrefix)).Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	cfg.Service.Name = resolveServiceNameValue(cfg.Service.Name, defaultServiceName, serviceNameOverride)

	if customValidator != nil {
		if err := customValidator(cfg); err != nil {
			return nil, fmt.Errorf("custom validation failed: %w", err)
		}
	}
	return cfg, nil
}

// NewLogger creates the zap logger described by the observability section.
func NewLogger(cfg *config.Config) (logger.Logger, error) {
	level, err := logger.ParseLogLevel(cfg.Observability.LogLevel)
	if err != nil {
		return nil, err
	}
	format, err := logger.ParseLogFormat(cfg.Observability.LogFormat)
	if err != nil {
		return nil, err
	}
	log, err := logger.NewZapLogger(logger.Config{Level: level, Format: format})
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}
	return log.With("service", cfg.Service.Name), nil
}

// Execute runs the command and exits with a non-zero code on failure.
func Execute(cmd *cobra.Command) {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var urlCredentials = regexp.MustCompile(`^([a-zA-Z][a-zA-Z0-9+.-]*://[^:/@]+):[^@/]*@`)

// RedactURL masks the password of a connection string.
func RedactURL(raw string) string {
	return urlCredentials.ReplaceAllString(raw, "${1}:***@")
}

func formatConfig(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	return string(data), nil
}

func logConfigIfDebug(log logger.Logger, cfg *config.Config) {
	if log == nil || cfg == nil {
		return
	}
	if !strings.EqualFold(cfg.Observability.LogLevel, string(logger.DebugLevel)) {
		return
	}
	redacted := *cfg
	redacted.Database.URL = RedactURL(cfg.Database.URL)
	log.Debug("effective configuration", "config", fmt.Sprintf("%+v", redacted))
}

func resolveEnvPrefix(prefix string) string {
	trimmed := strings.TrimSpace(prefix)
	if trimmed == "" {
		return "APP"
	}
	return strings.ToUpper(trimmed)
}

func resolveServiceNameValue(currentConfigName, defaultServiceName, serviceNameOverride string) string {
	if override := strings.TrimSpace(serviceNameOverride); override != "" {
		return override
	}
	if configured := strings.TrimSpace(currentConfigName); configured != "" {
		return configured
	}
	if fallback := strings.TrimSpace(defaultServiceName); fallback != "" {
		return fallback
	}
	return "app"
}
