package eval

import (
	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/token"
	"github.com/gosch-lang/gosch/internal/value"
)

// astToValue converts a quoted AST fragment to its data-value rendering:
// atoms become scalars, identifiers become symbols, and sequences become
// proper lists.
func astToValue(n ast.Node) (value.Value, error) {
	switch n.Kind {
	case ast.KindAtom:
		switch n.Tok.Kind {
		case token.Ident:
			return value.Sym(n.Tok.Literal), nil
		case token.Bool:
			return value.Bool(n.Tok.BoolVal), nil
		case token.Int:
			return value.Int(n.Tok.IntVal), nil
		case token.Float:
			return value.Num(n.Tok.FloatVal), nil
		case token.Char:
			return value.Char(n.Tok.CharVal), nil
		case token.String:
			return value.NewStr(n.Tok.StringVal), nil
		default:
			return nil, unexpectedToken(n, "cannot quote token of kind %s", n.Tok.Kind)
		}
	case ast.KindSeq:
		elems := make([]value.Value, len(n.Children))
		for i, c := range n.Children {
			v, err := astToValue(c)
			if err != nil {
				return nil, err
			}
			elems[i] = v
		}
		return value.List(elems...), nil
	default:
		return nil, generic(n, "unrecognized AST node kind")
	}
}

// valueToAST is the inverse conversion used by `eval`'s contract check:
// a value is AST-convertible when it is built entirely from symbols,
// scalars, and proper lists of such. Procedures, macros, natives, and
// struct values are not convertible, ok is false.
func valueToAST(v value.Value) (n ast.Node, ok bool) {
	switch x := v.(type) {
	case value.Unit:
		return ast.Seq(), true
	case value.Bool:
		return ast.Atom(token.Token{Kind: token.Bool, BoolVal: bool(x)}), true
	case value.Int:
		return ast.Atom(token.Token{Kind: token.Int, IntVal: int64(x)}), true
	case value.Num:
		return ast.Atom(token.Token{Kind: token.Float, FloatVal: float64(x)}), true
	case value.Char:
		return ast.Atom(token.Token{Kind: token.Char, CharVal: rune(x)}), true
	case value.Str:
		return ast.Atom(token.Token{Kind: token.String, StringVal: string(x)}), true
	case value.Sym:
		return ast.Atom(token.Token{Kind: token.Ident, Literal: string(x)}), true
	case *value.Pair:
		elems, proper, _ := value.ToSlice(x)
		if !proper {
			return ast.Node{}, false
		}
		children := make([]ast.Node, len(elems))
		for i, e := range elems {
			c, ok := valueToAST(e)
			if !ok {
				return ast.Node{}, false
			}
			children[i] = c
		}
		return ast.Seq(children...), true
	default:
		return ast.Node{}, false
	}
}
