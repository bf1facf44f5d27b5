package config

import (
	"strings"
	"testing"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse(strings.NewReader(""))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MaxRecursionDepth != 0 || cfg.TraceCapacity != 0 || len(cfg.PreludeFiles) != 0 {
		t.Fatalf("expected zero-value config for empty document, got %+v", cfg)
	}
}

func TestParseFields(t *testing.T) {
	doc := `
max_recursion_depth: 5000
trace_capacity: 64
prelude_files:
  - prelude
  - contracts
`
	cfg, err := Parse(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.MaxRecursionDepth != 5000 {
		t.Fatalf("MaxRecursionDepth: got %d, want 5000", cfg.MaxRecursionDepth)
	}
	if cfg.TraceCapacity != 64 {
		t.Fatalf("TraceCapacity: got %d, want 64", cfg.TraceCapacity)
	}
	if len(cfg.PreludeFiles) != 2 || cfg.PreludeFiles[0] != "prelude" || cfg.PreludeFiles[1] != "contracts" {
		t.Fatalf("PreludeFiles: got %v", cfg.PreludeFiles)
	}
}

func TestParseRejectsMalformedYAML(t *testing.T) {
	if _, err := Parse(strings.NewReader("max_recursion_depth: [unterminated")); err == nil {
		t.Fatalf("expected an error for malformed YAML")
	}
}
