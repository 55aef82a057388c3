package why

import (
	"fmt"
	"strings"

	"github.com/LegacyCodeHQ/maat/cmd/generate"
	"github.com/LegacyCodeHQ/maat/internal/diag"
	"github.com/spf13/cobra"
)

type whyOptions struct {
	projectDir string
}

// NewCommand returns a new why command instance.
func NewCommand() *cobra.Command {
	opts := &whyOptions{}

	cmd := &cobra.Command{
		Use:   "why <module>",
		Short: "Show the import chains that pull a module into the build",
		Long: `Show every chain of imports leading from the main module to <module>.

Examples:
  maat why util.collections
  maat why std.io -p ./hello`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWhy(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "project", "p", ".", "Project directory containing project.yml")

	return cmd
}

func runWhy(cmd *cobra.Command, opts *whyOptions, target string) error {
	_, result, err := generate.Render(opts.projectDir, diag.LoggerFor(cmd))
	if err != nil {
		return err
	}

	root := result.Root.Name
	if target == root {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s is the main module\n", root)
		return err
	}

	if !result.Graph.Has(target) {
		return fmt.Errorf("module %s is not part of the build", target)
	}

	chains, err := result.Graph.ImportChains(root, target)
	if err != nil {
		return err
	}
	if len(chains) == 0 {
		return fmt.Errorf("module %s is not imported by %s", target, root)
	}

	for _, chain := range chains {
		if _, err := fmt.Fprintln(cmd.OutOrStdout(), strings.Join(chain, " -> ")); err != nil {
			return err
		}
	}
	return nil
}
