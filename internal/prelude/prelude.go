// Package prelude bundles the Scheme-level standard library source into the
// binary via go:embed: one file per concern (prelude, contracts, types,
// methods, merge, compiler, display), loaded by name from a single embedded
// directory in a fixed order.
package prelude

import (
	"embed"
)

//go:embed scheme/*.scm
var files embed.FS

// File is one bundled source file: its logical name (for error messages)
// and its Scheme source text.
type File struct {
	Name   string
	Source string
}

// order is the fixed load order: prelude, contracts, types, methods,
// merge, compiler, display. merge and compiler are intentionally-empty
// stub modules, reserved slots in the load sequence with no source to load
// yet.
var order = []string{
	"prelude",
	"contracts",
	"types",
	"methods",
	"merge",
	"compiler",
	"display",
}

// Files returns the bundled prelude source files in their fixed load
// order. names, if non-empty, overrides both the subset and order (used by
// internal/config's prelude_files option); each entry must name one of the
// seven files above without its .scm extension.
func Files(names ...string) ([]File, error) {
	list := order
	if len(names) > 0 {
		list = names
	}
	out := make([]File, 0, len(list))
	for _, name := range list {
		data, err := files.ReadFile("scheme/" + name + ".scm")
		if err != nil {
			return nil, err
		}
		out = append(out, File{Name: name, Source: string(data)})
	}
	return out, nil
}
