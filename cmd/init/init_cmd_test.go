package initcmd

import (
	"bytes"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/LegacyCodeHQ/maat/cmd/generate"
	"github.com/LegacyCodeHQ/maat/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runInitCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand()
	cmd.SetArgs(args)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	return stdout.String(), err
}

func TestInit_CreatesLoadableProject(t *testing.T) {
	t.Chdir(t.TempDir())

	output, err := runInitCommand(t, "hello", "--toolchain", "clang")
	require.NoError(t, err)
	assert.Contains(t, output, "Created project hello")

	for _, dir := range []string{"src", "build", "dist/bin", "dist/std"} {
		info, err := os.Stat(filepath.Join("hello", filepath.FromSlash(dir)))
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	cfg, err := project.Load("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", cfg.Name)
	assert.Equal(t, "main.f", cfg.Main)
	assert.Equal(t, project.ToolchainClang, cfg.Toolchain)

	content, _, err := generate.Render("hello", nil)
	require.NoError(t, err)
	assert.Contains(t, string(content), "    imports = std.core,std.io\n")
}

func TestInit_FailsWhenDirectoryExists(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.Mkdir("hello", 0o755))

	_, err := runInitCommand(t, "hello", "-q")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestInit_RejectsInvalidInput(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runInitCommand(t, "bad name", "-q")
	assert.ErrorIs(t, err, project.ErrInvalidProjectName)

	_, err = runInitCommand(t, "hello", "-q", "--toolchain", "msvc")
	assert.ErrorIs(t, err, project.ErrInvalidToolchain)
}

func TestInit_FlagsDoNotCarryOverBetweenCommands(t *testing.T) {
	t.Chdir(t.TempDir())

	_, err := runInitCommand(t, "first", "-q", "--toolchain", "msvc")
	require.ErrorIs(t, err, project.ErrInvalidToolchain)

	output, err := runInitCommand(t, "second")
	require.NoError(t, err)
	assert.Contains(t, output, "Created project second")

	cfg, err := project.Load("second")
	require.NoError(t, err)
	assert.Equal(t, project.Toolchain(defaultToolchain(runtime.GOOS)), cfg.Toolchain)
}

func TestDefaultToolchain(t *testing.T) {
	assert.Equal(t, "clang", defaultToolchain("darwin"))
	assert.Equal(t, "gcc", defaultToolchain("linux"))
	assert.Equal(t, "gcc", defaultToolchain("windows"))
}
