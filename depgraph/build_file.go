package depgraph

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/maat/ninja"
	"github.com/LegacyCodeHQ/maat/vcs"
)

// LinkRule is the ninja rule that links the final executable.
const LinkRule = "cc"

// BuildFileOptions describes everything needed to render a project's build file.
type BuildFileOptions struct {
	// EntryFile is the root source file of the program.
	EntryFile string
	// Executable is the name of the linked program and the default target.
	Executable string
	// BuildDir receives generated module sources. Defaults to "build".
	BuildDir string
	// StdDir holds the standard library distribution. Defaults to "dist/std".
	StdDir string
	// CompilerPath is the language compiler invoked by the compile rule.
	CompilerPath string
	// CCompiler and CFlags configure the native toolchain used by the link rule.
	CCompiler string
	CFlags    string
	// RuntimeObject is linked into every executable. Defaults to StdDir/gc.o.
	RuntimeObject string

	ContentReader vcs.ContentReader
	Logger        *slog.Logger
}

// BuildFile summarizes a generated build description.
type BuildFile struct {
	Root       *Module
	// Modules lists the modules given a compile rule, in emission order.
	Modules    []string
	LinkInputs []string
	Graph      *ModuleGraph
}

// GenerateBuildFile resolves the module tree rooted at opts.EntryFile and writes
// a ninja build description to w. Nothing usable is written if an error is returned,
// so callers should buffer w and discard it on failure.
func GenerateBuildFile(w io.Writer, opts BuildFileOptions) (*BuildFile, error) {
	if opts.BuildDir == "" {
		opts.BuildDir = "build"
	}
	if opts.StdDir == "" {
		opts.StdDir = DefaultStdDir
	}
	if opts.RuntimeObject == "" {
		opts.RuntimeObject = filepath.Join(opts.StdDir, "gc.o")
	}
	if opts.Executable == "" {
		return nil, fmt.Errorf("executable name is required")
	}

	resolver := NewResolver(opts.ContentReader, opts.Logger)
	root, err := resolver.Resolve(opts.EntryFile)
	if err != nil {
		return nil, err
	}

	out := ninja.NewWriter(w)
	writeHeader(out, opts)

	emitter := NewEmitter(out, resolver, opts.BuildDir, opts.StdDir, opts.Logger)
	if err := emitter.EmitModule(root); err != nil {
		return nil, err
	}

	linkInputs := emitter.LinkInputs()
	out.Build(ninja.Build{
		Outputs: []string{opts.Executable},
		Rule:    LinkRule,
		Inputs:  linkInputs,
	})
	out.Default(opts.Executable)
	if err := out.Err(); err != nil {
		return nil, fmt.Errorf("failed to write build file: %w", err)
	}

	return &BuildFile{
		Root:       root,
		Modules:    emitter.Modules(),
		LinkInputs: linkInputs,
		Graph:      emitter.Graph(),
	}, nil
}

func withTrailingSlash(dir string) string {
	if strings.HasSuffix(dir, "/") || strings.HasSuffix(dir, string(filepath.Separator)) {
		return dir
	}
	return dir + "/"
}

func writeHeader(out *ninja.Writer, opts BuildFileOptions) {
	out.Variable("fbuildflags", "")
	out.Variable("cbuildflags", opts.CFlags)
	out.Variable("builddir", ninja.EscapePath(withTrailingSlash(opts.BuildDir)))
	out.Rule(CompileRule,
		ninja.Variable{Key: "command", Value: ninja.EscapePath(opts.CompilerPath) + " $in -m $module -b $builddir -i $imports $fbuildflags"},
		ninja.Variable{Key: "description", Value: "compile module $module"},
	)
	out.Rule(LinkRule,
		ninja.Variable{Key: "command", Value: opts.CCompiler + " $cbuildflags -I$builddir $in " + ninja.EscapePath(opts.RuntimeObject) + " -o $out"},
		ninja.Variable{Key: "description", Value: "link executable $out"},
	)
	out.Newline()
}
