package watch

import (
	"bytes"
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsRelevantChange(t *testing.T) {
	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{name: "source write", event: fsnotify.Event{Name: "src/main.f", Op: fsnotify.Write}, want: true},
		{name: "source removed", event: fsnotify.Event{Name: "src/util/math.f", Op: fsnotify.Remove}, want: true},
		{name: "project file", event: fsnotify.Event{Name: "project.yml", Op: fsnotify.Write}, want: true},
		{name: "project file yaml", event: fsnotify.Event{Name: "project.yaml", Op: fsnotify.Create}, want: true},
		{name: "generated build file", event: fsnotify.Event{Name: "build.ninja", Op: fsnotify.Write}, want: false},
		{name: "other extension", event: fsnotify.Event{Name: "src/notes.txt", Op: fsnotify.Write}, want: false},
		{name: "chmod only", event: fsnotify.Event{Name: "src/main.f", Op: fsnotify.Chmod}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRelevantChange(tt.event))
		})
	}
}

func TestAddWatchDirsWithAdder_SkipsGeneratedDirectories(t *testing.T) {
	root := t.TempDir()
	for _, dir := range []string{"src/util", "build", "dist/std", ".git/objects"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0o755))
	}

	var added []string
	adder := func(path string) error {
		added = append(added, path)
		return nil
	}

	require.NoError(t, addWatchDirsWithAdder(root, adder))
	assert.ElementsMatch(t, []string{
		root,
		filepath.Join(root, "src"),
		filepath.Join(root, "src", "util"),
	}, added)
}

func TestAddWatchDirsWithAdder_IgnoresMissingDirectories(t *testing.T) {
	root := t.TempDir()
	target := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(target, 0o755))

	adder := func(path string) error {
		if path == target {
			return fs.ErrNotExist
		}
		return nil
	}

	require.NoError(t, addWatchDirsWithAdder(root, adder))
}

func TestAddWatchDirs_SkipsBrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevated privileges on Windows")
	}

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	linkPath := filepath.Join(root, "src", "gone")
	require.NoError(t, os.Symlink("missing/dir", linkPath))

	watcher, err := fsnotify.NewWatcher()
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, addWatchDirs(watcher, root))
}

func TestWatchAndRegenerate_DebouncesSourceChanges(t *testing.T) {
	root := t.TempDir()
	src := filepath.Join(root, "src")
	require.NoError(t, os.MkdirAll(src, 0o755))

	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- watchAndRegenerate(ctx, root, &bytes.Buffer{}, func() { calls.Add(1) })
	}()

	// Give the watcher time to register directories.
	time.Sleep(100 * time.Millisecond)
	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(filepath.Join(src, "main.f"), []byte("module main\n"), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 3*time.Second, 20*time.Millisecond)
	time.Sleep(2 * debounceInterval)
	assert.Equal(t, int32(1), calls.Load())

	cancel()
	require.NoError(t, <-done)
}
