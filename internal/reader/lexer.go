// Package reader implements the lexical scanner and S-expression parser
// that produce ast.Node values from source text. Its internals are not
// load-bearing for anything downstream; only its contract — text in,
// ast.Node phrases out, consulting the intern pool — matters to the rest
// of the pipeline.
package reader

import (
	"fmt"
	"unicode/utf8"

	"github.com/gosch-lang/gosch/internal/token"
)

// lexer scans source text into a flat token stream, rune by rune, via a
// readChar/peekChar pair over the input string. gosch's surface syntax has
// no line-continuation, directive, or comment-preservation modes to carry,
// so the scanner stays this small.
type lexer struct {
	input        string
	position     int
	readPosition int
	ch           rune
	line         int
	column       int
}

func newLexer(input string) *lexer {
	l := &lexer{input: input, line: 1}
	l.readChar()
	return l
}

func (l *lexer) readChar() {
	if l.readPosition >= len(l.input) {
		l.ch = 0
		l.position = l.readPosition
		return
	}
	r, size := utf8.DecodeRuneInString(l.input[l.readPosition:])
	if r == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	l.ch = r
	l.position = l.readPosition
	l.readPosition += size
}

func (l *lexer) peekChar() rune {
	if l.readPosition >= len(l.input) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(l.input[l.readPosition:])
	return r
}

func (l *lexer) pos() token.Position {
	return token.Position{Line: l.line, Column: l.column, Offset: l.position}
}

func isDelimiter(r rune) bool {
	switch r {
	case 0, '(', ')', '"', ';', ' ', '\t', '\n', '\r', '\'':
		return true
	default:
		return false
	}
}

func (l *lexer) skipAtmosphere() {
	for {
		switch {
		case l.ch == ' ' || l.ch == '\t' || l.ch == '\n' || l.ch == '\r':
			l.readChar()
		case l.ch == ';':
			for l.ch != '\n' && l.ch != 0 {
				l.readChar()
			}
		default:
			return
		}
	}
}

// next scans and returns the next token. EOF is reported once as a token
// of kind token.EOF and then repeated forever, so a caller that peeks past
// the end of input sees a stable sentinel rather than an error.
func (l *lexer) next() (token.Token, error) {
	l.skipAtmosphere()
	pos := l.pos()

	switch {
	case l.ch == 0:
		return token.Token{Kind: token.EOF, Pos: pos}, nil
	case l.ch == '(':
		l.readChar()
		return token.Token{Kind: token.LParen, Literal: "(", Pos: pos}, nil
	case l.ch == ')':
		l.readChar()
		return token.Token{Kind: token.RParen, Literal: ")", Pos: pos}, nil
	case l.ch == '\'':
		l.readChar()
		return token.Token{Kind: token.Quote, Literal: "'", Pos: pos}, nil
	case l.ch == '"':
		return l.readString(pos)
	case l.ch == '#':
		return l.readHash(pos)
	default:
		return l.readAtom(pos)
	}
}

func (l *lexer) readString(pos token.Position) (token.Token, error) {
	l.readChar() // consume opening quote
	var sb []rune
	for {
		if l.ch == 0 {
			return token.Token{}, fmt.Errorf("unterminated string literal starting at line %d, column %d", pos.Line, pos.Column)
		}
		if l.ch == '"' {
			l.readChar()
			break
		}
		if l.ch == '\\' {
			l.readChar()
			switch l.ch {
			case '"':
				sb = append(sb, '"')
			case '\\':
				sb = append(sb, '\\')
			case 'n':
				sb = append(sb, '\n')
			case 't':
				sb = append(sb, '\t')
			default:
				sb = append(sb, l.ch)
			}
			l.readChar()
			continue
		}
		sb = append(sb, l.ch)
		l.readChar()
	}
	s := string(sb)
	return token.Token{Kind: token.String, Literal: s, StringVal: s, Pos: pos}, nil
}

// readHash scans `#t`, `#f`, and `#\<char>` literals.
func (l *lexer) readHash(pos token.Position) (token.Token, error) {
	l.readChar() // consume '#'
	switch l.ch {
	case 't':
		l.readChar()
		return token.Token{Kind: token.Bool, Literal: "#t", BoolVal: true, Pos: pos}, nil
	case 'f':
		l.readChar()
		return token.Token{Kind: token.Bool, Literal: "#f", BoolVal: false, Pos: pos}, nil
	case '\\':
		l.readChar()
		if l.ch == 0 {
			return token.Token{}, fmt.Errorf("unterminated character literal at line %d, column %d", pos.Line, pos.Column)
		}
		c := l.ch
		l.readChar()
		return token.Token{Kind: token.Char, Literal: "#\\" + string(c), CharVal: c, Pos: pos}, nil
	default:
		return token.Token{}, fmt.Errorf("unrecognized # syntax at line %d, column %d", pos.Line, pos.Column)
	}
}

// readAtom scans a run of non-delimiter runes and classifies it as an
// integer, a float, or an identifier.
func (l *lexer) readAtom(pos token.Position) (token.Token, error) {
	start := l.position
	for !isDelimiter(l.ch) {
		l.readChar()
	}
	lit := l.input[start:l.position]
	if lit == "" {
		return token.Token{}, fmt.Errorf("unexpected character %q at line %d, column %d", l.ch, l.line, l.column)
	}
	if tok, ok := classifyNumber(lit, pos); ok {
		return tok, nil
	}
	if err := rejectGensymSpelling(lit, pos); err != nil {
		return token.Token{}, err
	}
	return token.Token{Kind: token.Ident, Literal: lit, Pos: pos}, nil
}
