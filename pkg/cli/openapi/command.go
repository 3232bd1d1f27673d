// Package openapi provides the CLI command that exports the API document.
package openapi

import (
	"fmt"
	"io"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/spf13/cobra"

	serveropenapi "github.com/nimburion/catalog-api/pkg/server/openapi"
)

// SpecBuilder builds the API document for a title and version.
type SpecBuilder func(title, version string) (*openapi3.T, error)

// CommandOptions configures the OpenAPI command tree.
type CommandOptions struct {
	BuildSpec      SpecBuilder
	ServiceName    string
	ServiceVersion string
}

// NewCommand creates the "openapi" command and its subcommands.
// It returns nil when no builder is configured.
func NewCommand(opts CommandOptions) *cobra.Command {
	if opts.BuildSpec == nil {
		return nil
	}

	cmd := &cobra.Command{
		Use:   "openapi",
		Short: "OpenAPI specification commands",
	}

	var outputPath string
	var format string
	var titleOverride string
	generateCmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the OpenAPI specification of the public API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGenerate(cmd.OutOrStdout(), opts, outputPath, format, titleOverride)
		},
	}
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path (.yaml or .json); stdout when empty")
	generateCmd.Flags().StringVarP(&format, "format", "f", "json", "stdout format: json or yaml")
	generateCmd.Flags().StringVar(&titleOverride, "title", "", "OpenAPI title override")
	cmd.AddCommand(generateCmd)

	return cmd
}

func runGenerate(stdout io.Writer, opts CommandOptions, outputPath, format, titleOverride string) error {
	title := strings.TrimSpace(titleOverride)
	if title == "" {
		title = strings.TrimSpace(opts.ServiceName)
	}

	spec, err := opts.BuildSpec(title, strings.TrimSpace(opts.ServiceVersion))
	if err != nil {
		return fmt.Errorf("build openapi spec: %w", err)
	}

	if strings.TrimSpace(outputPath) == "" {
		data, err := serveropenapi.Encode(spec, format)
		if err != nil {
			return err
		}
		_, err = stdout.Write(append(data, '\n'))
		return err
	}

	if err := serveropenapi.WriteSpec(outputPath, spec); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "✓ OpenAPI spec generated at %s (%d paths)\n", outputPath, spec.Paths.Len())
	return nil
}
