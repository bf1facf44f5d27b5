package rewrite

import (
	"testing"

	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/token"
)

func ident(name string) ast.Node {
	return ast.Atom(token.Token{Kind: token.Ident, Literal: name})
}

func intLit(v int64) ast.Node {
	return ast.Atom(token.Token{Kind: token.Int, Literal: "", IntVal: v})
}

func TestFlattenBeginNoNestedBegin(t *testing.T) {
	expr := ast.Seq(ident("begin"),
		ast.Seq(ident("begin"), ast.Seq(ident("+"), ident("x"), intLit(10))),
		ast.Seq(ident("+"), ident("x"), intLit(20)),
	)

	got := FlattenBegin(expr)

	for _, c := range got.Children[1:] {
		if c.HeadIsReserved("begin") {
			t.Fatalf("expected no nested begin, got %s", got.String())
		}
	}
	if len(got.Children) != 3 {
		t.Fatalf("expected 3 children (begin + 2 flattened), got %d: %s", len(got.Children), got.String())
	}
}

func TestFlattenBeginIdempotent(t *testing.T) {
	expr := ast.Seq(ident("begin"),
		ast.Seq(ident("begin"), ast.Seq(ident("begin"), intLit(1)), intLit(2)),
		intLit(3),
	)

	once := FlattenBegin(expr)
	twice := FlattenBegin(once)

	if once.String() != twice.String() {
		t.Fatalf("flatten not idempotent:\nonce:  %s\ntwice: %s", once.String(), twice.String())
	}
}

func TestFlattenBeginLeavesNonBeginAlone(t *testing.T) {
	expr := ast.Seq(ident("+"), intLit(1), intLit(2))
	got := FlattenBegin(expr)
	if got.String() != expr.String() {
		t.Fatalf("expected unchanged, got %s", got.String())
	}
}
