// Package ast defines the AST node type shared by the reader, the rewriter,
// the macro expander, and the evaluator: a tagged variant of either a single
// Atom token or a Seq of child nodes.
package ast

import (
	"strconv"
	"strings"

	"github.com/gosch-lang/gosch/internal/token"
)

// Node is an AST fragment: either Atom(Token) or Seq(children).
//
// Node is a value type (not an interface) so that the intern pool, the
// rewriter, and the macro expander can all treat it as ordinary
// structurally-comparable data; the Kind tag decides which fields are
// meaningful, the same tagged-union-with-inline-tag shape internal/value
// uses for its runtime Value, chosen to avoid pointer-chasing inner
// dispatch.
type Kind int

const (
	KindAtom Kind = iota
	KindSeq
)

// Node is shared (reference-identical) once interned; callers must treat a
// Node's Children slice as immutable after construction.
type Node struct {
	Kind     Kind
	Tok      token.Token // valid when Kind == KindAtom
	Children []Node      // valid when Kind == KindSeq
}

// Atom builds a leaf node wrapping a single token.
func Atom(t token.Token) Node {
	return Node{Kind: KindAtom, Tok: t}
}

// Seq builds an interior node from child nodes (an S-expression list).
func Seq(children ...Node) Node {
	return Node{Kind: KindSeq, Children: children}
}

// IsIdent reports whether the node is an atom identifier, optionally with a
// specific spelling (pass "" to match any identifier).
func (n Node) IsIdent(name string) bool {
	if n.Kind != KindAtom || n.Tok.Kind != token.Ident {
		return false
	}
	return name == "" || n.Tok.Literal == name
}

// Head returns the first child of a Seq node and true, or the zero Node and
// false if n is not a non-empty Seq.
func (n Node) Head() (Node, bool) {
	if n.Kind != KindSeq || len(n.Children) == 0 {
		return Node{}, false
	}
	return n.Children[0], true
}

// HeadIsReserved reports whether n is a Seq whose first child is the given
// reserved-word identifier — the dispatch test used throughout the
// evaluator and rewriter.
func (n Node) HeadIsReserved(word string) bool {
	h, ok := n.Head()
	return ok && h.IsIdent(word)
}

// String renders the node back to S-expression surface syntax. It is the
// inverse of the reader up to reserved-word canonical spelling.
func (n Node) String() string {
	switch n.Kind {
	case KindAtom:
		return atomString(n.Tok)
	case KindSeq:
		parts := make([]string, len(n.Children))
		for i, c := range n.Children {
			parts[i] = c.String()
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return ""
	}
}

func atomString(t token.Token) string {
	switch t.Kind {
	case token.Bool:
		if t.BoolVal {
			return "#t"
		}
		return "#f"
	case token.Int:
		return strconv.FormatInt(t.IntVal, 10)
	case token.Float:
		return strconv.FormatFloat(t.FloatVal, 'g', -1, 64)
	case token.Char:
		return "#\\" + string(t.CharVal)
	case token.String:
		return strconv.Quote(t.StringVal)
	default:
		return t.Literal
	}
}

// Equal reports structural equality by comparing printed forms, used by the
// macro expander to match literal atoms in a pattern.
func Equal(a, b Node) bool {
	return a.String() == b.String()
}
