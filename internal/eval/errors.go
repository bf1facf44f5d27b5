// Package eval implements the tree-walking evaluator: a single loop over
// (expr, env) pairs that dispatches special forms, applies procedures, and
// realizes proper tail calls by rebinding the loop's own variables instead
// of recursing.
package eval

import (
	"fmt"

	"github.com/gosch-lang/gosch/internal/ast"
)

// ErrKind enumerates the complete set of error categories the evaluator
// raises.
type ErrKind string

const (
	KindParse            ErrKind = "Parse"
	KindTypeMismatch     ErrKind = "TypeMismatch"
	KindArityMismatch    ErrKind = "ArityMismatch"
	KindFreeIdentifier   ErrKind = "FreeIdentifier"
	KindBadSyntax        ErrKind = "BadSyntax"
	KindUnexpectedToken  ErrKind = "UnexpectedToken"
	KindContractViolation ErrKind = "ContractViolation"
	KindGeneric          ErrKind = "Generic"
)

// Error is the evaluator's own error type, carrying enough context for the
// host facade to format a user-visible failure: the error kind, a message,
// the offending phrase, the trace at the point of error, and — if the
// error occurred mid macro-expansion — the form as it stood before that
// expansion.
type Error struct {
	Kind             ErrKind
	Message          string
	Phrase           ast.Node
	Trace            []ast.Node
	PreExpansionForm ast.Node
	HasPreExpansion  bool
	Err              error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s error in %s: %s", e.Kind, e.Phrase.String(), e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(kind ErrKind, phrase ast.Node, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Phrase: phrase}
}

func typeMismatch(phrase ast.Node, format string, args ...any) *Error {
	return newErr(KindTypeMismatch, phrase, format, args...)
}

func arityMismatch(phrase ast.Node, format string, args ...any) *Error {
	return newErr(KindArityMismatch, phrase, format, args...)
}

func badSyntax(phrase ast.Node, format string, args ...any) *Error {
	return newErr(KindBadSyntax, phrase, format, args...)
}

func unexpectedToken(phrase ast.Node, format string, args ...any) *Error {
	return newErr(KindUnexpectedToken, phrase, format, args...)
}

func contractViolation(phrase ast.Node, format string, args ...any) *Error {
	return newErr(KindContractViolation, phrase, format, args...)
}

func generic(phrase ast.Node, format string, args ...any) *Error {
	return newErr(KindGeneric, phrase, format, args...)
}

// freeIdentifier wraps a runtime.ErrFreeIdentifier (or any lookup error)
// into an *Error carrying the call-site phrase for trace formatting.
func freeIdentifier(phrase ast.Node, err error) *Error {
	return &Error{Kind: KindFreeIdentifier, Message: err.Error(), Phrase: phrase, Err: err}
}

// wrapTypeMismatch wraps an improper-list (or other shape-mismatch) error —
// e.g. from value.ToProperSlice — into a TypeMismatch *Error with err as its
// Unwrap target, so callers that only see the *value.ImproperListError (not
// an *Error) still get a properly kinded, traceable failure.
func wrapTypeMismatch(phrase ast.Node, err error) *Error {
	return &Error{Kind: KindTypeMismatch, Message: err.Error(), Phrase: phrase, Err: err}
}

// withTrace attaches the evaluator's current trace and, if present, the
// pre-expansion form to err, leaving other *Error fields untouched. It is
// a no-op passthrough for any error not of type *Error.
func withTrace(err error, trace []ast.Node, pre ast.Node, hasPre bool) error {
	e, ok := err.(*Error)
	if !ok {
		return err
	}
	if e.Trace == nil {
		e.Trace = trace
	}
	if hasPre && !e.HasPreExpansion {
		e.PreExpansionForm = pre
		e.HasPreExpansion = true
	}
	return e
}
