// Package macro implements syntax-rules pattern/template expansion for
// user-defined macros. Macros are first-class Value bindings, detected at
// application time by inspecting the resolved operator, not at parse time —
// so this package only expands a macro given its already-looked-up
// runtime.Macro; the caller (the evaluator) is responsible for the lookup
// and for the fixed-point re-expansion loop.
package macro

import (
	"fmt"

	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/token"
)

// ErrNoMatchingRule is raised when no pattern of a macro matches the call.
type ErrNoMatchingRule struct{ Name string }

func (e *ErrNoMatchingRule) Error() string {
	return "no matching syntax-rules pattern for " + e.Name
}

// Expand finds the first rule of m whose pattern matches call (a Seq whose
// head is the macro's name), binds pattern variables to the corresponding
// sub-ASTs, and returns the template with those substitutions applied.
// Expansion is a single step; the evaluator re-expands the result until the
// operator position no longer resolves to a Macro.
func Expand(m *runtime.Macro, call ast.Node) (ast.Node, error) {
	for _, rule := range m.Rules {
		if bindings, ok := match(rule.Pattern, call); ok {
			return substitute(rule.Template, bindings), nil
		}
	}
	return ast.Node{}, &ErrNoMatchingRule{Name: m.Name}
}

// wildcard is the pattern variable `_` which matches the
// macro's own name/keyword position without binding anything.
const wildcard = "_"

// match attempts to unify pattern against form, where pattern's first
// element is conventionally `_` (standing for the macro use's own head) or
// a literal. Returns the captured pattern-variable bindings on success.
func match(pattern, form ast.Node) (map[string]ast.Node, bool) {
	bindings := map[string]ast.Node{}
	ok := matchNode(pattern, form, bindings)
	return bindings, ok
}

func matchNode(pattern, form ast.Node, bindings map[string]ast.Node) bool {
	switch pattern.Kind {
	case ast.KindAtom:
		if pattern.IsIdent(wildcard) {
			return true
		}
		if isPatternVar(pattern) {
			bindings[pattern.Tok.Literal] = form
			return true
		}
		// A literal atom in the pattern (number, string, bool, char) must
		// match the form exactly.
		return form.Kind == ast.KindAtom && ast.Equal(pattern, form)
	case ast.KindSeq:
		if form.Kind != ast.KindSeq {
			return false
		}
		if len(pattern.Children) > 0 && hasEllipsis(pattern.Children) {
			return matchEllipsis(pattern.Children, form.Children, bindings)
		}
		if len(pattern.Children) != len(form.Children) {
			return false
		}
		for i := range pattern.Children {
			if !matchNode(pattern.Children[i], form.Children[i], bindings) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// isPatternVar treats any non-reserved, non-wildcard identifier atom as a
// binding pattern variable — syntax-rules literal lists are not modeled
// here, so every plain identifier in a pattern binds.
func isPatternVar(n ast.Node) bool {
	return n.Kind == ast.KindAtom && n.Tok.Kind == token.Ident && !n.IsIdent(wildcard) && !token.IsReserved(n.Tok.Literal)
}

func hasEllipsis(children []ast.Node) bool {
	for _, c := range children {
		if c.IsIdent("...") {
			return true
		}
	}
	return false
}

// matchEllipsis handles a pattern containing one `name ...` run, binding
// name to the (possibly empty) sequence of matched forms as a synthetic
// Seq value recoverable by substitute's ellipsis expansion.
func matchEllipsis(pat, form []ast.Node, bindings map[string]ast.Node) bool {
	ellipsisIdx := -1
	for i, c := range pat {
		if c.IsIdent("...") {
			ellipsisIdx = i
			break
		}
	}
	if ellipsisIdx == 0 {
		return false
	}
	repeated := pat[ellipsisIdx-1]
	before := pat[:ellipsisIdx-1]
	after := pat[ellipsisIdx+1:]

	if len(form) < len(before)+len(after) {
		return false
	}
	for i, p := range before {
		if !matchNode(p, form[i], bindings) {
			return false
		}
	}
	tailStart := len(form) - len(after)
	for i, p := range after {
		if !matchNode(p, form[tailStart+i], bindings) {
			return false
		}
	}
	matched := form[len(before):tailStart]
	if repeated.Kind == ast.KindAtom && isPatternVar(repeated) {
		bindings[repeated.Tok.Literal+"..."] = ast.Seq(matched...)
	}
	return true
}

// substitute replaces pattern-variable occurrences in template with their
// bound forms. This is textual-at-the-AST-level substitution, not
// alpha-renaming: hygiene is only as good as the rewriter's gensym prefix
// not colliding with user names.
func substitute(template ast.Node, bindings map[string]ast.Node) ast.Node {
	switch template.Kind {
	case ast.KindAtom:
		if template.Tok.Kind == token.Ident {
			if bound, ok := bindings[template.Tok.Literal]; ok {
				return bound
			}
		}
		return template
	case ast.KindSeq:
		out := make([]ast.Node, 0, len(template.Children))
		for i := 0; i < len(template.Children); i++ {
			c := template.Children[i]
			if i+1 < len(template.Children) && template.Children[i+1].IsIdent("...") && c.Kind == ast.KindAtom {
				if seq, ok := bindings[c.Tok.Literal+"..."]; ok {
					out = append(out, seq.Children...)
					i++ // skip the ellipsis token
					continue
				}
			}
			out = append(out, substitute(c, bindings))
		}
		return ast.Seq(out...)
	default:
		return template
	}
}

// ParseSyntaxRules builds a *runtime.Macro from a
// `(syntax-rules (literals...) (pattern template) ...)` form bound by
// define-syntax.
func ParseSyntaxRules(name string, form ast.Node) (*runtime.Macro, error) {
	if !form.HeadIsReserved("syntax-rules") {
		return nil, fmt.Errorf("define-syntax: expected (syntax-rules ...), got %s", form.String())
	}
	if len(form.Children) < 2 {
		return nil, fmt.Errorf("define-syntax: malformed syntax-rules form")
	}
	m := &runtime.Macro{Name: name}
	for _, clause := range form.Children[2:] {
		if clause.Kind != ast.KindSeq || len(clause.Children) != 2 {
			return nil, fmt.Errorf("define-syntax: malformed rule clause %s", clause.String())
		}
		m.Rules = append(m.Rules, runtime.MacroRule{
			Pattern:  clause.Children[0],
			Template: clause.Children[1],
		})
	}
	return m, nil
}
