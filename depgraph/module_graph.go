package depgraph

import (
	"errors"
	"io"
	"sort"
	"strings"

	graphlib "github.com/dominikbraun/graph"
	"github.com/dominikbraun/graph/draw"
)

// ModuleGraph records which modules import which, rejecting edges that close a cycle.
type ModuleGraph struct {
	g graphlib.Graph[string, string]
}

// NewModuleGraph returns an empty acyclic module graph.
func NewModuleGraph() *ModuleGraph {
	return &ModuleGraph{
		g: graphlib.New(graphlib.StringHash, graphlib.Directed(), graphlib.PreventCycles()),
	}
}

// AddModule adds a module vertex. Adding an existing module is a no-op.
func (mg *ModuleGraph) AddModule(name string, standard bool) error {
	var opts []func(*graphlib.VertexProperties)
	if standard {
		opts = append(opts, graphlib.VertexAttribute("style", "dashed"))
	}
	err := mg.g.AddVertex(name, opts...)
	if errors.Is(err, graphlib.ErrVertexAlreadyExists) {
		return nil
	}
	return err
}

// AddImport records that from imports to. Both modules must already be present.
// It returns graph.ErrEdgeCreatesCycle if the edge would make the graph cyclic.
func (mg *ModuleGraph) AddImport(from, to string) error {
	err := mg.g.AddEdge(from, to)
	if errors.Is(err, graphlib.ErrEdgeAlreadyExists) {
		return nil
	}
	return err
}

// Imports returns the modules imported by name.
func (mg *ModuleGraph) Imports(name string) ([]string, error) {
	adjacency, err := mg.g.AdjacencyMap()
	if err != nil {
		return nil, err
	}
	var imports []string
	for target := range adjacency[name] {
		imports = append(imports, target)
	}
	sort.Strings(imports)
	return imports, nil
}

// Has reports whether the module is part of the graph.
func (mg *ModuleGraph) Has(name string) bool {
	_, err := mg.g.Vertex(name)
	return err == nil
}

// ImportChains returns every import path leading from one module to another.
// Chains are sorted so the output is stable.
func (mg *ModuleGraph) ImportChains(from, to string) ([][]string, error) {
	chains, err := graphlib.AllPathsBetween(mg.g, from, to)
	if err != nil {
		return nil, err
	}
	sort.Slice(chains, func(i, j int) bool {
		return strings.Join(chains[i], " ") < strings.Join(chains[j], " ")
	})
	return chains, nil
}

// Len returns the number of modules in the graph.
func (mg *ModuleGraph) Len() (int, error) {
	return mg.g.Order()
}

// BuildOrder lists modules so every module appears after the modules it imports.
// The order is deterministic for a given graph.
func (mg *ModuleGraph) BuildOrder() ([]string, error) {
	order, err := graphlib.StableTopologicalSort(mg.g, func(a, b string) bool {
		return a < b
	})
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}
	return order, nil
}

// WriteDOT renders the graph in Graphviz DOT format.
func (mg *ModuleGraph) WriteDOT(w io.Writer) error {
	return draw.DOT(mg.g, w, draw.GraphAttribute("rankdir", "LR"))
}
