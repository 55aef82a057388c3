package cmd

import (
	"os"

	"github.com/LegacyCodeHQ/maat/cmd/generate"
	"github.com/LegacyCodeHQ/maat/cmd/graph"
	initcmd "github.com/LegacyCodeHQ/maat/cmd/init"
	"github.com/LegacyCodeHQ/maat/cmd/watch"
	"github.com/LegacyCodeHQ/maat/cmd/why"
	"github.com/LegacyCodeHQ/maat/internal/diag"
	"github.com/spf13/cobra"
)

// version is set via build-time ldflags
var version = "dev"

// buildDate is set via build-time ldflags
var buildDate = "unknown"

// commit is set via build-time ldflags
var commit = "unknown"

var verbose bool
var noColor bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = NewRootCommand()

// NewRootCommand returns the maat command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "maat",
		Short: "Generate ninja build files for Functional projects",
		Long: `Maat resolves the modules of a Functional project, starting at the main
file named in project.yml, and writes a ninja build description that compiles
every module once and links them into one executable.

Use 'maat --help' to see all available commands, or 'maat <command> --help'
for detailed information about a specific command.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if noColor {
				diag.SetColor(false)
			}
		},
	}

	cmd.AddCommand(generate.NewCommand())
	cmd.AddCommand(graph.NewCommand())
	cmd.AddCommand(watch.NewCommand())
	cmd.AddCommand(initcmd.NewCommand())
	cmd.AddCommand(why.NewCommand())

	if cmd.Annotations == nil {
		cmd.Annotations = make(map[string]string)
	}
	cmd.Annotations["buildDate"] = buildDate
	cmd.Annotations["commit"] = commit

	cmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
Build date: {{printf "%s" (index .Annotations "buildDate")}}
Commit: {{printf "%s" (index .Annotations "commit")}}
`)

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Report each emitted rule")
	cmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable colored diagnostics")

	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		diag.PrintError(rootCmd.ErrOrStderr(), err)
		os.Exit(1)
	}
}
