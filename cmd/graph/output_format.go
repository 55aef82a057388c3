package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/LegacyCodeHQ/maat/depgraph"
)

// OutputFormat represents an output format type
type OutputFormat string

const (
	OutputFormatDOT  OutputFormat = "dot"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatList OutputFormat = "list"
)

var supportedFormats = []OutputFormat{OutputFormatDOT, OutputFormatJSON, OutputFormatList}

// String returns the string representation of the format
func (f OutputFormat) String() string {
	return string(f)
}

// ParseOutputFormat validates a format name.
func ParseOutputFormat(format string) (OutputFormat, error) {
	for _, f := range supportedFormats {
		if strings.EqualFold(format, f.String()) {
			return f, nil
		}
	}
	names := make([]string, len(supportedFormats))
	for i, f := range supportedFormats {
		names[i] = f.String()
	}
	return "", fmt.Errorf("unknown format: %s (valid options: %s)", format, strings.Join(names, ", "))
}

// writeGraph renders the module graph in the requested format.
func writeGraph(w io.Writer, g *depgraph.ModuleGraph, format OutputFormat) error {
	switch format {
	case OutputFormatDOT:
		return g.WriteDOT(w)
	case OutputFormatJSON:
		return writeJSON(w, g)
	default:
		return writeList(w, g)
	}
}

// writeList prints modules so that each one follows the modules it imports.
func writeList(w io.Writer, g *depgraph.ModuleGraph) error {
	order, err := g.BuildOrder()
	if err != nil {
		return err
	}
	for _, name := range order {
		if _, err := fmt.Fprintln(w, name); err != nil {
			return err
		}
	}
	return nil
}

func writeJSON(w io.Writer, g *depgraph.ModuleGraph) error {
	order, err := g.BuildOrder()
	if err != nil {
		return err
	}

	imports := make(map[string][]string, len(order))
	for _, name := range order {
		deps, err := g.Imports(name)
		if err != nil {
			return err
		}
		if deps == nil {
			deps = []string{}
		}
		imports[name] = deps
	}

	data, err := json.MarshalIndent(imports, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
