package reader

import (
	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/intern"
	"github.com/gosch-lang/gosch/internal/token"
)

// Parser turns source text into a stream of top-level AST phrases,
// consulting an intern.Pool so repeated evaluation of the same source
// phrase across a session shares the same ast.Node.
type Parser struct {
	lex  *lexer
	pool *intern.Pool
	tok  token.Token
	src  string
}

// New builds a Parser over source, interning shared phrases in pool.
func New(source string, pool *intern.Pool) (*Parser, error) {
	p := &Parser{lex: newLexer(source), pool: pool, src: source}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Parser) advance() error {
	tok, err := p.lex.next()
	if err != nil {
		return &SyntaxError{Message: err.Error(), Pos: tok.Pos}
	}
	p.tok = tok
	return nil
}

// AtEOF reports whether the parser has consumed all top-level phrases.
func (p *Parser) AtEOF() bool { return p.tok.Kind == token.EOF }

// Next parses and returns the next top-level phrase. Each phrase's
// canonical text form (ast.Node.String()) is used as the intern key, so an
// identical phrase parsed twice in the same session shares one Node.
func (p *Parser) Next() (ast.Node, error) {
	n, err := p.parseExpr()
	if err != nil {
		return ast.Node{}, err
	}
	if p.pool == nil {
		return n, nil
	}
	return p.pool.Intern(n.String(), n), nil
}

// All parses every remaining top-level phrase.
func (p *Parser) All() ([]ast.Node, error) {
	var out []ast.Node
	for !p.AtEOF() {
		n, err := p.Next()
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, nil
}

func (p *Parser) parseExpr() (ast.Node, error) {
	switch p.tok.Kind {
	case token.EOF:
		return ast.Node{}, &SyntaxError{Message: "unexpected end of input", Pos: p.tok.Pos}
	case token.LParen:
		return p.parseSeq()
	case token.RParen:
		return ast.Node{}, &SyntaxError{Message: "unexpected )", Pos: p.tok.Pos}
	case token.Quote:
		if err := p.advance(); err != nil {
			return ast.Node{}, err
		}
		inner, err := p.parseExpr()
		if err != nil {
			return ast.Node{}, err
		}
		return ast.Seq(ast.Atom(token.Token{Kind: token.Ident, Literal: "quote"}), inner), nil
	default:
		tok := p.tok
		if err := p.advance(); err != nil {
			return ast.Node{}, err
		}
		return ast.Atom(tok), nil
	}
}

func (p *Parser) parseSeq() (ast.Node, error) {
	if err := p.advance(); err != nil { // consume '('
		return ast.Node{}, err
	}
	var children []ast.Node
	for p.tok.Kind != token.RParen {
		if p.tok.Kind == token.EOF {
			return ast.Node{}, &SyntaxError{Message: "unterminated list: missing )", Pos: p.tok.Pos}
		}
		child, err := p.parseExpr()
		if err != nil {
			return ast.Node{}, err
		}
		children = append(children, child)
	}
	if err := p.advance(); err != nil { // consume ')'
		return ast.Node{}, err
	}
	return ast.Seq(children...), nil
}

// ParseAll is a convenience wrapper: parse every top-level phrase in
// source, interning through pool (which may be nil to skip interning).
func ParseAll(source string, pool *intern.Pool) ([]ast.Node, error) {
	p, err := New(source, pool)
	if err != nil {
		return nil, err
	}
	return p.All()
}
