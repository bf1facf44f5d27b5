package reader

import (
	"strconv"
	"strings"

	"github.com/gosch-lang/gosch/internal/token"
)

// classifyNumber reports whether lit parses as an integer or floating
// literal, returning the corresponding Token. Anything that doesn't parse
// as a number falls through to be read as an identifier.
func classifyNumber(lit string, pos token.Position) (token.Token, bool) {
	if i, err := strconv.ParseInt(lit, 10, 64); err == nil {
		return token.Token{Kind: token.Int, Literal: lit, IntVal: i, Pos: pos}, true
	}
	if looksNumeric(lit) {
		if f, err := strconv.ParseFloat(lit, 64); err == nil {
			return token.Token{Kind: token.Float, Literal: lit, FloatVal: f, Pos: pos}, true
		}
	}
	return token.Token{}, false
}

// looksNumeric guards ParseFloat from accepting identifiers strconv would
// otherwise happily parse as special float forms (e.g. "inf", "nan") —
// those are meant to be ordinary identifiers here.
func looksNumeric(lit string) bool {
	s := lit
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		s = s[1:]
	}
	if s == "" {
		return false
	}
	seenDigit, seenDot := false, false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case r == '.' && !seenDot:
			seenDot = true
		default:
			return false
		}
	}
	return seenDigit
}

// rejectGensymSpelling enforces a hygiene requirement: user source may
// never spell an identifier with the rewriter's gensym prefix.
func rejectGensymSpelling(lit string, pos token.Position) error {
	if strings.HasPrefix(lit, token.GensymPrefix) {
		return &SyntaxError{
			Message: "identifier " + strconv.Quote(lit) + " uses the reserved gensym prefix " + strconv.Quote(token.GensymPrefix),
			Pos:     pos,
		}
	}
	return nil
}

// SyntaxError is a lexical or structural parse failure, carrying a
// position for the reader's caller to report.
type SyntaxError struct {
	Message string
	Pos     token.Position
}

func (e *SyntaxError) Error() string {
	return "parse error at line " + strconv.Itoa(e.Pos.Line) + ", column " + strconv.Itoa(e.Pos.Column) + ": " + e.Message
}
