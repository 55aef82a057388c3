package generate

import (
	"bytes"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/LegacyCodeHQ/maat/depgraph"
	"github.com/LegacyCodeHQ/maat/project"
)

// BuildFileName is the generated ninja file, written to the project root.
const BuildFileName = "build.ninja"

// Options returns the build file options for a loaded project.
func Options(cfg *project.Config, logger *slog.Logger) depgraph.BuildFileOptions {
	return depgraph.BuildFileOptions{
		EntryFile:    cfg.EntryFile(),
		Executable:   cfg.Executable(runtime.GOOS),
		BuildDir:     cfg.BuildDir,
		StdDir:       depgraph.DefaultStdDir,
		CompilerPath: project.CompilerPath(runtime.GOOS),
		CCompiler:    cfg.Toolchain.Command(),
		CFlags:       cfg.Toolchain.Flags(),
		Logger:       logger,
	}
}

// Render loads the project in dir and renders its build file into memory.
func Render(dir string, logger *slog.Logger) ([]byte, *depgraph.BuildFile, error) {
	cfg, err := project.Load(dir)
	if err != nil {
		return nil, nil, err
	}

	var buf bytes.Buffer
	result, err := depgraph.GenerateBuildFile(&buf, Options(cfg, logger))
	if err != nil {
		return nil, nil, err
	}
	return buf.Bytes(), result, nil
}

// Run renders the build file of the project in dir and writes it to the project root.
// The previous build file is left untouched if generation fails.
func Run(dir string, logger *slog.Logger) (string, *depgraph.BuildFile, error) {
	content, result, err := Render(dir, logger)
	if err != nil {
		return "", nil, err
	}

	path := filepath.Join(dir, BuildFileName)
	if err := writeFileAtomic(path, content); err != nil {
		return "", nil, err
	}
	return path, result, nil
}

func writeFileAtomic(path string, content []byte) error {
	name := filepath.Base(path)

	tmp, err := os.CreateTemp(filepath.Dir(path), "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to replace %s: %w", name, err)
	}
	return nil
}
