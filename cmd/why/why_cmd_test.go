package why

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diamondProject(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	files := map[string]string{
		"project.yml":  "name: hello\nmain: main.f\nctoolchain: gcc\n",
		"src/main.f":   "module main\nimport left\nimport right\n",
		"src/left.f":   "module left\nimport shared\n",
		"src/right.f":  "module right\nimport shared\n",
		"src/shared.f": "module shared\n",
	}
	for rel, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func runWhyCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := NewCommand()
	cmd.SetArgs(args)
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	return stdout.String(), err
}

func TestWhy_ListsEveryImportChain(t *testing.T) {
	output, err := runWhyCommand(t, "shared", "-p", diamondProject(t))

	require.NoError(t, err)
	assert.Equal(t, "main -> left -> shared\nmain -> right -> shared\n", output)
}

func TestWhy_StandardModule(t *testing.T) {
	output, err := runWhyCommand(t, "std.core", "-p", diamondProject(t))

	require.NoError(t, err)
	assert.Contains(t, output, "main -> std.core\n")
	assert.Contains(t, output, "main -> left -> shared -> std.core\n")
}

func TestWhy_MainModule(t *testing.T) {
	output, err := runWhyCommand(t, "main", "-p", diamondProject(t))

	require.NoError(t, err)
	assert.Equal(t, "main is the main module\n", output)
}

func TestWhy_UnknownModule(t *testing.T) {
	_, err := runWhyCommand(t, "util.gone", "-p", diamondProject(t))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not part of the build")
}
