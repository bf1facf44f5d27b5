package rewrite

import (
	"strings"
	"testing"

	"github.com/gosch-lang/gosch/internal/ast"
)

// lambda builds (lambda (params...) body) for test fixtures.
func lambda(params []string, body ast.Node) ast.Node {
	p := make([]ast.Node, len(params))
	for i, n := range params {
		p[i] = ident(n)
	}
	return ast.Seq(ident("lambda"), ast.Seq(p...), body)
}

func define(name string, rhs ast.Node) ast.Node {
	return ast.Seq(ident("define"), ident(name), rhs)
}

func TestLowerDefinesMutualRecursion(t *testing.T) {
	// (lambda () (begin (define (even? n) (odd? n)) (define (odd? n) (even? n)) (even? 10)))
	body := ast.Seq(ident("begin"),
		define("even?", lambda([]string{"n"}, ast.Seq(ident("odd?"), ident("n")))),
		define("odd?", lambda([]string{"n"}, ast.Seq(ident("even?"), ident("n")))),
		ast.Seq(ident("even?"), intLit(10)),
	)
	outer := lambda(nil, body)

	got, err := LowerDefines(FlattenBegin(outer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := got.String()
	if strings.Contains(s, "(define ") {
		t.Fatalf("expected no define left in body, got %s", s)
	}
	if !strings.Contains(s, "set!") {
		t.Fatalf("expected set! forms in lowered body, got %s", s)
	}
	if !strings.Contains(s, "#####even?") || !strings.Contains(s, "#####odd?") {
		t.Fatalf("expected gensym names for even?/odd?, got %s", s)
	}
}

func TestLowerDefinesTopLevelBeginUnchanged(t *testing.T) {
	top := ast.Seq(ident("begin"), define("x", intLit(1)), ast.Seq(ident("+"), ident("x"), intLit(1)))
	got, err := LowerDefines(FlattenBegin(top))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.String() != top.String() {
		t.Fatalf("expected top-level begin untouched, got %s", got.String())
	}
}

func TestLowerDefinesMalformedBlock(t *testing.T) {
	body := ast.Seq(ident("begin"), define("x", intLit(1)), define("y", intLit(2)))
	outer := lambda(nil, body)

	_, err := LowerDefines(FlattenBegin(outer))
	if err == nil {
		t.Fatalf("expected malformed define block error")
	}
	if _, ok := err.(*ErrMalformedDefineBlock); !ok {
		t.Fatalf("expected ErrMalformedDefineBlock, got %T: %v", err, err)
	}
}

// defineShorthand builds (define (name params...) body...) with an implicit,
// un-begin-wrapped multi-form body.
func defineShorthand(name string, params []string, body ...ast.Node) ast.Node {
	p := make([]ast.Node, len(params))
	for i, n := range params {
		p[i] = ident(n)
	}
	header := ast.Seq(append([]ast.Node{ident(name)}, p...)...)
	return ast.Seq(append([]ast.Node{ident("define"), header}, body...)...)
}

func TestLowerDefinesFunctionShorthandImplicitMultiBody(t *testing.T) {
	// (define (outer)
	//   (define (even? n) (if (= n 0) #t (odd? (- n 1))))
	//   (define (odd? n) (if (= n 0) #f (even? (- n 1))))
	//   (even? 10))
	evenDef := defineShorthand("even?", []string{"n"},
		ast.Seq(ident("if"), ast.Seq(ident("="), ident("n"), intLit(0)), ident("#t"),
			ast.Seq(ident("odd?"), ast.Seq(ident("-"), ident("n"), intLit(1)))))
	oddDef := defineShorthand("odd?", []string{"n"},
		ast.Seq(ident("if"), ast.Seq(ident("="), ident("n"), intLit(0)), ident("#f"),
			ast.Seq(ident("even?"), ast.Seq(ident("-"), ident("n"), intLit(1)))))
	outer := defineShorthand("outer", nil, evenDef, oddDef, ast.Seq(ident("even?"), intLit(10)))

	got, err := LowerDefines(FlattenBegin(outer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := got.String()
	// The top-level (define (outer) ...) itself stays; only its body is lowered.
	if body := got.Children[2].String(); strings.Contains(body, "(define ") {
		t.Fatalf("expected internal defines to be hoisted to letrec, got %s", s)
	}
	if !strings.Contains(s, "set!") {
		t.Fatalf("expected set! forms in lowered body, got %s", s)
	}
	if !strings.Contains(s, "#####even?") || !strings.Contains(s, "#####odd?") {
		t.Fatalf("expected gensym names for even?/odd?, got %s", s)
	}
}

func TestLowerDefinesLambdaImplicitMultiBodyNotDropped(t *testing.T) {
	// (lambda () (define x 1) (+ x 1)) — two implicit body forms, no begin.
	outer := ast.Seq(ident("lambda"), ast.Seq(),
		define("x", intLit(1)),
		ast.Seq(ident("+"), ident("x"), intLit(1)),
	)

	got, err := LowerDefines(FlattenBegin(outer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got.Children) != 3 {
		t.Fatalf("expected lambda to combine both implicit body forms into one, got %s", got.String())
	}
	s := got.String()
	if strings.Contains(s, "(define ") {
		t.Fatalf("expected the internal define to be hoisted, got %s", s)
	}
	if !strings.Contains(s, "set!") {
		t.Fatalf("expected set! form from letrec conversion, got %s", s)
	}
}

func TestLowerDefinesLeadingExpressionPreservesOrder(t *testing.T) {
	// (lambda () (begin (display 'a) (define x 1) (+ x 1)))
	body := ast.Seq(ident("begin"),
		ast.Seq(ident("display"), ident("'a")),
		define("x", intLit(1)),
		ast.Seq(ident("+"), ident("x"), intLit(1)),
	)
	outer := lambda(nil, body)

	got, err := LowerDefines(FlattenBegin(outer))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	s := got.String()
	if !strings.Contains(s, "#####define-conversion") {
		t.Fatalf("expected dummy name for leading expression, got %s", s)
	}
}
