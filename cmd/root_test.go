package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/LegacyCodeHQ/maat/internal/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootCommand_RegistersSubcommands(t *testing.T) {
	root := NewRootCommand()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}

	assert.Subset(t, names, []string{"generate", "graph", "watch", "init", "why"})
}

func TestRootCommand_Version(t *testing.T) {
	root := NewRootCommand()
	root.SetArgs([]string{"--version"})
	var stdout bytes.Buffer
	root.SetOut(&stdout)

	require.NoError(t, root.Execute())
	assert.True(t, strings.HasPrefix(stdout.String(), "maat version dev\n"))
	assert.Contains(t, stdout.String(), "Build date: unknown")
}

func TestRootCommand_VerboseGenerateReportsRules(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.yml"), []byte("name: hello\nmain: main.f\nctoolchain: gcc\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.f"), []byte("module main\n"), 0o644))

	root := NewRootCommand()
	root.SetArgs([]string{"generate", "-p", dir, "--verbose", "--no-color"})
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)

	require.NoError(t, root.Execute())
	assert.Contains(t, stderr.String(), "debug: emitted compile rule (module=main files=1)")
}

func TestRootCommand_ErrorIsPrintedWithFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "project.yml"), []byte("name: hello\nmain: main.f\nctoolchain: gcc\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "src", "main.f"), []byte("module main\nmodule again\n"), 0o644))

	root := NewRootCommand()
	root.SetArgs([]string{"generate", "-p", dir, "--no-color"})
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})

	err := root.Execute()
	require.Error(t, err)

	var out bytes.Buffer
	diag.PrintError(&out, err)
	assert.Equal(t, "main.f: error: file can contain only one `module` statement\n", out.String())
}
