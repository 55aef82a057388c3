package generate

import (
	"fmt"

	"github.com/LegacyCodeHQ/maat/internal/diag"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	projectDir string
	stdout     bool
}

// NewCommand returns a new generate command instance.
func NewCommand() *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a ninja build file from the project sources",
		Long: `Generate a ninja build file from the project sources.

Starting at the main file named in project.yml, every module reachable through
imports is resolved and given one compile rule. The build file is written to
build.ninja in the project root, replacing it only when generation succeeds.

Examples:
  maat generate
  maat generate -p ./hello
  maat generate --stdout`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "project", "p", ".", "Project directory containing project.yml")
	cmd.Flags().BoolVar(&opts.stdout, "stdout", false, "Print the build file instead of writing build.ninja")

	return cmd
}

func runGenerate(cmd *cobra.Command, opts *generateOptions) error {
	logger := diag.LoggerFor(cmd)

	if opts.stdout {
		content, _, err := Render(opts.projectDir, logger)
		if err != nil {
			return err
		}
		_, err = cmd.OutOrStdout().Write(content)
		return err
	}

	path, result, err := Run(opts.projectDir, logger)
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(cmd.OutOrStdout(), "Generated %s (%d modules, %d link inputs)\n", path, len(result.Modules), len(result.LinkInputs))
	return err
}
