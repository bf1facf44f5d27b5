package macro

import (
	"testing"

	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/token"
)

func ident(name string) ast.Node {
	return ast.Atom(token.Token{Kind: token.Ident, Literal: name})
}

func intLit(v int64) ast.Node {
	return ast.Atom(token.Token{Kind: token.Int, IntVal: v, Literal: ""})
}

func TestExpandMyIf(t *testing.T) {
	// (define-syntax my-if (syntax-rules () ((_ a b c) (if a b c))))
	syntaxRules := ast.Seq(ident("syntax-rules"), ast.Seq(),
		ast.Seq(
			ast.Seq(ident("_"), ident("a"), ident("b"), ident("c")),
			ast.Seq(ident("if"), ident("a"), ident("b"), ident("c")),
		),
	)
	m, err := ParseSyntaxRules("my-if", syntaxRules)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	call := ast.Seq(ident("my-if"), ident("#t"), intLit(1), intLit(2))
	got, err := Expand(m, call)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}

	want := ast.Seq(ident("if"), ident("#t"), intLit(1), intLit(2))
	if got.String() != want.String() {
		t.Fatalf("got %s, want %s", got.String(), want.String())
	}
}

func TestExpandNoMatch(t *testing.T) {
	m := &runtime.Macro{Name: "m", Rules: []runtime.MacroRule{
		{Pattern: ast.Seq(ident("_"), ident("a"), ident("b")), Template: ident("a")},
	}}
	call := ast.Seq(ident("m"), intLit(1))
	_, err := Expand(m, call)
	if err == nil {
		t.Fatalf("expected no-match error")
	}
}

func TestExpandEllipsis(t *testing.T) {
	// (define-syntax my-list (syntax-rules () ((_ x ...) (list x ...))))
	syntaxRules := ast.Seq(ident("syntax-rules"), ast.Seq(),
		ast.Seq(
			ast.Seq(ident("_"), ident("x"), ident("...")),
			ast.Seq(ident("list"), ident("x"), ident("...")),
		),
	)
	m, err := ParseSyntaxRules("my-list", syntaxRules)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	call := ast.Seq(ident("my-list"), intLit(1), intLit(2), intLit(3))
	got, err := Expand(m, call)
	if err != nil {
		t.Fatalf("expand failed: %v", err)
	}
	want := ast.Seq(ident("list"), intLit(1), intLit(2), intLit(3))
	if got.String() != want.String() {
		t.Fatalf("got %s, want %s", got.String(), want.String())
	}
}
