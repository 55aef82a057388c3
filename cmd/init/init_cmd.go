package initcmd

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"

	"github.com/LegacyCodeHQ/maat/project"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const mainSource = `module main

import std.io

main :: Nil
main = writeStr "Hello world!"
`

type initOptions struct {
	toolchain string
	quiet     bool
}

// projectFile mirrors the keys of project.yml written for new projects.
type projectFile struct {
	Name      string `yaml:"name"`
	Main      string `yaml:"main"`
	Toolchain string `yaml:"ctoolchain"`
}

// NewCommand returns a new init command instance.
func NewCommand() *cobra.Command {
	opts := &initOptions{}

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Create a new project in the current directory",
		Long: `Create a new project directory named <name> in the current directory.

The project contains project.yml, a hello-world src/main.f, an empty build/
directory and the dist/bin and dist/std directories the compiler and standard
library are installed into.

Examples:
  maat init hello
  maat init hello --toolchain clang`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.toolchain, "toolchain", "t", defaultToolchain(runtime.GOOS), "C toolchain to use (gcc, clang)")
	cmd.Flags().BoolVarP(&opts.quiet, "quiet", "q", false, "Suppress output")

	return cmd
}

func defaultToolchain(goos string) string {
	if goos == "darwin" {
		return string(project.ToolchainClang)
	}
	return string(project.ToolchainGCC)
}

func runInit(cmd *cobra.Command, opts *initOptions, name string) error {
	if err := project.ValidateName(name); err != nil {
		return err
	}
	toolchain, err := project.ParseToolchain(opts.toolchain)
	if err != nil {
		return err
	}

	if _, err := os.Stat(name); err == nil {
		return fmt.Errorf("a directory named %s already exists in this folder", name)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to check %s: %w", name, err)
	}

	if err := scaffold(name, toolchain); err != nil {
		return err
	}

	if !opts.quiet {
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Created project %s\n", name)
		fmt.Fprintln(out, "")
		fmt.Fprintln(out, "Next steps:")
		fmt.Fprintf(out, "  cd %s\n", name)
		fmt.Fprintln(out, "  maat generate")
	}

	return nil
}

func scaffold(dir string, toolchain project.Toolchain) error {
	for _, sub := range []string{
		project.SourceDir,
		project.DefaultBuildDir,
		filepath.Join("dist", "bin"),
		filepath.Join("dist", "std"),
	} {
		if err := os.MkdirAll(filepath.Join(dir, sub), 0o755); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", sub, err)
		}
	}

	data, err := yaml.Marshal(projectFile{
		Name:      filepath.Base(dir),
		Main:      "main.f",
		Toolchain: string(toolchain),
	})
	if err != nil {
		return fmt.Errorf("failed to encode project file: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, project.FileNames[0]), append([]byte("---\n"), data...), 0o644); err != nil {
		return fmt.Errorf("failed to write project file: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, project.SourceDir, "main.f"), []byte(mainSource), 0o644); err != nil {
		return fmt.Errorf("failed to write main.f: %w", err)
	}

	return nil
}
