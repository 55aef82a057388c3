package watch

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/LegacyCodeHQ/maat/cmd/generate"
	"github.com/LegacyCodeHQ/maat/internal/diag"
	"github.com/spf13/cobra"
)

type watchOptions struct {
	projectDir string
}

// NewCommand returns a new watch command instance.
func NewCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate build.ninja whenever project sources change",
		Long: `Watch the project directory and regenerate build.ninja whenever a source
file or the project file changes. Generation errors are reported and watching
continues; the last good build file is kept.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.projectDir, "project", "p", ".", "Project directory containing project.yml")

	return cmd
}

func runWatch(cmd *cobra.Command, opts *watchOptions) error {
	projectDir, err := filepath.Abs(opts.projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project path: %w", err)
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	regenerate := newRegenerator(cmd, projectDir)
	regenerate()

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s\n", projectDir)
	fmt.Fprintf(cmd.OutOrStdout(), "Press Ctrl+C to stop\n")

	return watchAndRegenerate(ctx, projectDir, cmd.ErrOrStderr(), regenerate)
}

// newRegenerator returns a function that regenerates the build file and reports the outcome.
func newRegenerator(cmd *cobra.Command, projectDir string) func() {
	logger := diag.LoggerFor(cmd)
	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()

	var mu sync.Mutex
	return func() {
		mu.Lock()
		defer mu.Unlock()

		path, result, err := generate.Run(projectDir, logger)
		if err != nil {
			diag.PrintError(errOut, err)
			return
		}
		fmt.Fprintf(out, "Generated %s (%d modules)\n", path, len(result.Modules))
	}
}
