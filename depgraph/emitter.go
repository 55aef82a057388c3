package depgraph

import (
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/LegacyCodeHQ/maat/ninja"
	graphlib "github.com/dominikbraun/graph"
)

// CompileRule is the ninja rule that compiles one module.
const CompileRule = "fcc"

// DefaultStdDir is where the standard library distribution lives, relative to the project root.
const DefaultStdDir = "dist/std"

// ModuleOutputs are the files the compiler produces for one module.
type ModuleOutputs struct {
	Source    string
	Interface string
	Header    string
}

// OutputsFor derives the generated file names of a module from its name.
func OutputsFor(buildDir, moduleName string) ModuleOutputs {
	base := filepath.Join(buildDir, moduleName)
	return ModuleOutputs{
		Source:    base + ".c",
		Interface: base + ".fh",
		Header:    base + ".h",
	}
}

// Emitter writes one compile rule per distinct module and collects link inputs.
// An Emitter holds the state of a single generation run.
type Emitter struct {
	out      *ninja.Writer
	resolver *Resolver
	buildDir string
	stdDir   string
	logger   *slog.Logger

	emitted    map[string]bool
	modules    []string
	linked     map[string]bool
	linkInputs []string
	graph      *ModuleGraph
}

// NewEmitter returns an Emitter writing rules to out.
func NewEmitter(out *ninja.Writer, resolver *Resolver, buildDir, stdDir string, logger *slog.Logger) *Emitter {
	if logger == nil {
		logger = discardLogger()
	}
	if stdDir == "" {
		stdDir = DefaultStdDir
	}
	return &Emitter{
		out:      out,
		resolver: resolver,
		buildDir: buildDir,
		stdDir:   stdDir,
		logger:   logger,
		emitted:  make(map[string]bool),
		linked:   make(map[string]bool),
		graph:    NewModuleGraph(),
	}
}

// LinkInputs returns the native sources registered so far, in first-seen order.
func (e *Emitter) LinkInputs() []string {
	return append([]string(nil), e.linkInputs...)
}

// Modules returns the names of the modules given a compile rule, in emission order.
func (e *Emitter) Modules() []string {
	return append([]string(nil), e.modules...)
}

// Graph returns the module import graph built during emission.
func (e *Emitter) Graph() *ModuleGraph {
	return e.graph
}

// EmitModule writes the compile rule of module and then of each project-local import.
// A module whose generated source was already scheduled is skipped.
func (e *Emitter) EmitModule(module *Module) error {
	outputs := OutputsFor(e.buildDir, module.Name)
	if e.emitted[outputs.Source] {
		return nil
	}
	e.emitted[outputs.Source] = true
	e.modules = append(e.modules, module.Name)
	e.addLinkInput(outputs.Source)

	if err := e.graph.AddModule(module.Name, false); err != nil {
		return err
	}

	inputs := append([]string(nil), module.Files...)
	var importNames []string
	var children []*Module

	for _, imp := range module.Imports {
		if imp.IsStandard() {
			base := filepath.Join(e.stdDir, strings.TrimPrefix(imp.ID, StandardPrefix))
			inputs = append(inputs, base+".fh")
			e.addLinkInput(base + ".c")
			importNames = append(importNames, imp.ID)

			if err := e.addEdge(module, imp.ID, true); err != nil {
				return err
			}
			continue
		}

		child, err := e.resolver.Resolve(imp.Path)
		if err != nil {
			return err
		}
		if child.Name == module.Name && child.RootFilePath != module.RootFilePath {
			// Same generated files as the importer, so there is nothing to schedule.
			e.logger.Info("import resolves to a file of the importing module",
				"file", filepath.Base(module.RootFilePath), "import", imp.ID, "module", module.Name)
			continue
		}
		if err := e.addEdge(module, child.Name, false); err != nil {
			return err
		}

		inputs = append(inputs, OutputsFor(e.buildDir, child.Name).Interface)
		importNames = append(importNames, child.Name)
		children = append(children, child)
	}

	e.out.Build(ninja.Build{
		Outputs: []string{outputs.Source, outputs.Interface, outputs.Header},
		Rule:    CompileRule,
		Inputs:  inputs,
		Variables: []ninja.Variable{
			{Key: "module", Value: module.Name},
			{Key: "imports", Value: strings.Join(importNames, ",")},
		},
	})
	e.out.Newline()
	if err := e.out.Err(); err != nil {
		return err
	}
	e.logger.Debug("emitted compile rule", "module", module.Name, "files", len(module.Files))

	for _, child := range children {
		if err := e.EmitModule(child); err != nil {
			return err
		}
	}
	return nil
}

func (e *Emitter) addEdge(module *Module, target string, standard bool) error {
	if err := e.graph.AddModule(target, standard); err != nil {
		return err
	}
	err := e.graph.AddImport(module.Name, target)
	if errors.Is(err, graphlib.ErrEdgeCreatesCycle) {
		return circularDependency(filepath.Base(module.RootFilePath), module.Name, target, err)
	}
	return err
}

func (e *Emitter) addLinkInput(path string) {
	if e.linked[path] {
		return
	}
	e.linked[path] = true
	e.linkInputs = append(e.linkInputs, path)
}
