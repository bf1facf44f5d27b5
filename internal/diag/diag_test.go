package diag

import (
	"strings"
	"testing"
)

func TestRenderErrorRoundTrips(t *testing.T) {
	report := RenderError(ErrorReport{
		Kind:    "FreeIdentifier",
		Message: "undefined-name is not bound",
		Phrase:  "undefined-name",
		Trace:   []string{"undefined-name"},
	})
	if !strings.Contains(string(report), "FreeIdentifier") {
		t.Fatalf("expected kind in report, got %s", report)
	}
	if Kind(report) != "FreeIdentifier" {
		t.Fatalf("Kind: got %q", Kind(report))
	}
}

func TestRenderErrorIncludesPreExpansion(t *testing.T) {
	report := RenderError(ErrorReport{
		Kind:             "BadSyntax",
		Message:          "boom",
		Phrase:           "(my-if #t 1 2)",
		PreExpansionForm: "(my-if #t 1 2)",
		HasPreExpansion:  true,
	})
	if !strings.Contains(string(report), "pre_expansion_form") {
		t.Fatalf("expected pre_expansion_form in report, got %s", report)
	}
}

func TestSortNatural(t *testing.T) {
	got := SortNatural([]string{"item10", "item2", "item1"})
	want := []string{"item1", "item2", "item10"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestMatchesGlob(t *testing.T) {
	if !MatchesGlob("fact", "fa*") {
		t.Fatalf("expected fa* to match fact")
	}
	if MatchesGlob("fact", "zz*") {
		t.Fatalf("expected zz* not to match fact")
	}
}
