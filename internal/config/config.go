// Package config parses the YAML document pkg/gosch.NewFromConfig accepts,
// describing recursion depth, trace capacity, and which prelude files to
// load and in what order.
package config

import (
	"fmt"
	"io"

	"github.com/goccy/go-yaml"
)

// Config is the engine construction options an operator may override.
// Zero values mean "use the engine's built-in default" — see
// internal/eval.Config and internal/prelude.Files for what those are.
type Config struct {
	MaxRecursionDepth int      `yaml:"max_recursion_depth"`
	TraceCapacity     int      `yaml:"trace_capacity"`
	PreludeFiles      []string `yaml:"prelude_files"`
}

// Parse decodes a YAML document from r into a Config.
func Parse(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("config: reading document: %w", err)
	}
	var c Config
	if len(data) == 0 {
		return &c, nil
	}
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &c, nil
}
