package graph

import (
	"github.com/LegacyCodeHQ/maat/cmd/generate"
	"github.com/LegacyCodeHQ/maat/internal/diag"
	"github.com/spf13/cobra"
)

type graphOptions struct {
	projectDir   string
	outputFormat string
}

// NewCommand returns a new graph command instance.
func NewCommand() *cobra.Command {
	opts := &graphOptions{}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Print the module import graph of the project",
		Long: `Print the module import graph of the project.

Modules are resolved exactly as 'maat generate' resolves them, but no build
file is written. Standard library modules are drawn dashed in DOT output.

Output formats:
  - dot: Graphviz DOT format for visualization (default)
  - json: module name to imported module names
  - list: modules in build order, dependencies first

Examples:
  maat graph
  maat graph -f list
  maat graph -p ./hello -f json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGraph(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "project", "p", ".", "Project directory containing project.yml")
	cmd.Flags().StringVarP(&opts.outputFormat, "format", "f", OutputFormatDOT.String(), "Output format (dot, json, list)")

	return cmd
}

func runGraph(cmd *cobra.Command, opts *graphOptions) error {
	format, err := ParseOutputFormat(opts.outputFormat)
	if err != nil {
		return err
	}

	_, result, err := generate.Render(opts.projectDir, diag.LoggerFor(cmd))
	if err != nil {
		return err
	}

	return writeGraph(cmd.OutOrStdout(), result.Graph, format)
}
