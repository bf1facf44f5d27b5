// Package diag renders engine errors and frame snapshots as pretty-printed
// JSON for editor tooling, a machine-readable counterpart to the
// human-readable gosch.Error formatting.
package diag

import (
	"sort"

	"github.com/maruel/natural"
	"github.com/tidwall/gjson"
	"github.com/tidwall/match"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// ErrorReport is the shape diag builds before rendering; callers populate
// it from an *eval.Error without internal/diag importing internal/eval
// (avoiding an import cycle back from pkg/gosch).
type ErrorReport struct {
	Kind             string
	Message          string
	Phrase           string
	Trace            []string
	PreExpansionForm string
	HasPreExpansion  bool
}

// RenderError builds the pretty-printed JSON document: kind, message,
// phrase, trace, and, when macro expansion was in progress,
// pre_expansion_form.
func RenderError(r ErrorReport) []byte {
	json := `{}`
	json, _ = sjson.Set(json, "kind", r.Kind)
	json, _ = sjson.Set(json, "message", r.Message)
	json, _ = sjson.Set(json, "phrase", r.Phrase)
	json, _ = sjson.Set(json, "trace", r.Trace)
	if r.HasPreExpansion {
		json, _ = sjson.Set(json, "pre_expansion_form", r.PreExpansionForm)
	}
	return pretty.Pretty([]byte(json))
}

// Kind extracts the "kind" field from a previously rendered report, using
// gjson rather than a full unmarshal — the shape diag tooling (editor
// integrations) typically wants one field, not the whole document.
func Kind(report []byte) string {
	return gjson.GetBytes(report, "kind").String()
}

// MatchesGlob reports whether name matches a shell-glob-style filter
// (tidwall/match), used by --symbols filtering in cmd/gosch.
func MatchesGlob(name, pattern string) bool {
	if pattern == "" {
		return true
	}
	return match.Match(name, pattern)
}

// SortNatural returns names sorted in natural (digit-aware) order, the same
// ordering internal/runtime.Frame.Bindings uses internally, exposed here so
// diag tooling that assembles its own binding lists from multiple frames
// (e.g. a frame plus its imports) can sort the merged result consistently.
func SortNatural(names []string) []string {
	out := append([]string(nil), names...)
	sort.Sort(natural.StringSlice(out))
	return out
}
