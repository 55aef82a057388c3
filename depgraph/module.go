package depgraph

import (
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/maat/vcs"
)

// StandardPrefix marks imports resolved against the standard library distribution.
const StandardPrefix = "std."

// CoreImport is imported implicitly by every module.
const CoreImport = "std.core"

// Import is a dependency edge declared by one of a module's files.
type Import struct {
	// ID is the identifier as declared, e.g. std.io or util.math.
	ID string
	// Path is the resolved source path of a project-local import. Empty for standard imports.
	Path string
}

// IsStandard reports whether the import refers to the standard library.
func (i Import) IsStandard() bool {
	return i.Path == ""
}

// IsStandardImport reports whether the identifier carries the standard library prefix.
func IsStandardImport(id string) bool {
	return strings.HasPrefix(id, StandardPrefix)
}

// Module is a named compilation unit assembled from a root file and its includes.
type Module struct {
	RootFilePath string
	Name         string
	Files        []string
	Imports      []Import
}

// AssembleModule builds the module rooted at rootFilePath by following include
// declarations breadth-first. Every visited file must declare the root's module name.
func AssembleModule(rootFilePath string, contentReader vcs.ContentReader, logger *slog.Logger) (*Module, error) {
	if logger == nil {
		logger = discardLogger()
	}

	rootPath, err := NormalizeSourcePath(rootFilePath)
	if err != nil {
		return nil, err
	}

	module := &Module{
		RootFilePath: rootPath,
		Imports:      []Import{{ID: CoreImport}},
	}
	seenImports := map[string]bool{CoreImport: true}
	queued := map[string]bool{rootPath: true}

	frontier := []string{rootPath}
	for len(frontier) > 0 {
		var next []string

		for _, file := range frontier {
			unit, err := ParseSourceUnit(file, contentReader)
			if err != nil {
				return nil, err
			}

			if module.Name == "" {
				module.Name = unit.ModuleName
			} else if unit.ModuleName != module.Name {
				return nil, identityMismatch(unit.FileName, module.Name, unit.ModuleName)
			}

			dir := filepath.Dir(unit.FilePath)

			for _, include := range unit.Includes {
				includePath, err := NormalizeSourcePath(filepath.Join(dir, include))
				if err != nil {
					return nil, err
				}
				if queued[includePath] {
					logger.Info("file is already included in module",
						"file", unit.FileName, "include", include, "module", module.Name)
					continue
				}
				queued[includePath] = true
				next = append(next, includePath)
			}

			for _, id := range unit.Imports {
				imp := resolveImport(dir, id)
				key := imp.ID
				if !imp.IsStandard() {
					key = imp.Path
				}
				if seenImports[key] {
					continue
				}
				seenImports[key] = true
				module.Imports = append(module.Imports, imp)
			}
		}

		module.Files = append(module.Files, frontier...)
		frontier = next
	}

	return module, nil
}

// resolveImport maps a project-local identifier to a source path relative to dir.
func resolveImport(dir, id string) Import {
	if IsStandardImport(id) {
		return Import{ID: id}
	}
	rel := strings.ReplaceAll(id, ".", string(filepath.Separator)) + SourceExtension
	return Import{ID: id, Path: filepath.Join(dir, rel)}
}

// Resolver assembles modules and caches them by root path for one generation run.
type Resolver struct {
	contentReader vcs.ContentReader
	logger        *slog.Logger
	modules       map[string]*Module
}

// NewResolver returns a Resolver reading sources through contentReader.
func NewResolver(contentReader vcs.ContentReader, logger *slog.Logger) *Resolver {
	if contentReader == nil {
		contentReader = vcs.FilesystemContentReader()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Resolver{
		contentReader: contentReader,
		logger:        logger,
		modules:       make(map[string]*Module),
	}
}

// Resolve returns the module rooted at rootFilePath, assembling it on first use.
func (r *Resolver) Resolve(rootFilePath string) (*Module, error) {
	rootPath, err := NormalizeSourcePath(rootFilePath)
	if err != nil {
		return nil, err
	}
	if module, ok := r.modules[rootPath]; ok {
		return module, nil
	}

	module, err := AssembleModule(rootPath, r.contentReader, r.logger)
	if err != nil {
		return nil, err
	}
	r.modules[rootPath] = module
	return module, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
