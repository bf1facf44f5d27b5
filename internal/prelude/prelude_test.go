package prelude

import (
	"bytes"
	"testing"

	"github.com/gosch-lang/gosch/internal/builtin"
	"github.com/gosch-lang/gosch/internal/eval"
	"github.com/gosch-lang/gosch/internal/reader"
	"github.com/gosch-lang/gosch/internal/rewrite"
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

func loadedRoot(t *testing.T) (*runtime.Frame, *eval.Evaluator) {
	t.Helper()
	root := runtime.NewRoot()
	builtin.Install(root, &bytes.Buffer{})
	e := eval.New(nil)

	fs, err := Files()
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	if len(fs) != 7 {
		t.Fatalf("expected 7 prelude files, got %d", len(fs))
	}
	for _, f := range fs {
		phrases, err := reader.ParseAll(f.Source, nil)
		if err != nil {
			t.Fatalf("parse %s: %v", f.Name, err)
		}
		for _, ph := range phrases {
			rewritten, err := rewrite.Run(ph)
			if err != nil {
				t.Fatalf("rewrite %s: %v", f.Name, err)
			}
			if _, _, err := e.EvalTop(rewritten, root); err != nil {
				t.Fatalf("eval %s (%s): %v", f.Name, ph.String(), err)
			}
		}
	}
	return root, e
}

func evalOne(t *testing.T, root *runtime.Frame, e *eval.Evaluator, src string) value.Value {
	t.Helper()
	phrases, err := reader.ParseAll(src, nil)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	rewritten, err := rewrite.Run(phrases[0])
	if err != nil {
		t.Fatalf("rewrite: %v", err)
	}
	v, _, err := e.EvalTop(rewritten, root)
	if err != nil {
		t.Fatalf("eval %s: %v", src, err)
	}
	return v
}

func TestPreludeLoadsInFixedOrder(t *testing.T) {
	loadedRoot(t)
}

func TestPreludeAndOr(t *testing.T) {
	root, e := loadedRoot(t)
	if got := evalOne(t, root, e, "(and 1 2 3)"); got.String() != "3" {
		t.Fatalf("and: got %s", got.String())
	}
	if got := evalOne(t, root, e, "(and 1 #f 3)"); got.String() != "#f" {
		t.Fatalf("and short-circuit: got %s", got.String())
	}
	if got := evalOne(t, root, e, "(or #f #f 5)"); got.String() != "5" {
		t.Fatalf("or: got %s", got.String())
	}
}

func TestPreludeListHelpers(t *testing.T) {
	root, e := loadedRoot(t)
	if got := evalOne(t, root, e, "(list? (list 1 2 3))"); got.String() != "#t" {
		t.Fatalf("list?: got %s", got.String())
	}
	if got := evalOne(t, root, e, "(foldl + 0 (list 1 2 3 4))"); got.String() != "10" {
		t.Fatalf("foldl: got %s", got.String())
	}
	if got := evalOne(t, root, e, "(range 3)"); got.String() != "(0 1 2)" {
		t.Fatalf("range: got %s", got.String())
	}
}
