package gosch

import (
	"errors"
	"fmt"

	"github.com/gosch-lang/gosch/internal/diag"
	"github.com/gosch-lang/gosch/internal/eval"
)

// Error is the host-facing error type every fallible Engine call returns:
// an error kind plus a message, re-exporting internal/eval's ErrKind
// without leaking the internal package to callers.
type Error struct {
	Kind    string
	Message string

	phrase           string
	trace            []string
	preExpansionForm string
	hasPreExpansion  bool
	inner            error
}

func (e *Error) Error() string {
	if e.phrase != "" {
		return fmt.Sprintf("%s error in %s: %s", e.Kind, e.phrase, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.inner }

// Phrase returns the textual form of the AST phrase being evaluated when
// the error occurred, or "" if unavailable.
func (e *Error) Phrase() string { return e.phrase }

// Trace returns the oldest-first textual call trace captured at the point
// of failure.
func (e *Error) Trace() []string { return e.trace }

func wrapError(err error) *Error {
	ee, ok := err.(*eval.Error)
	if !ok {
		return &Error{Kind: string(eval.KindGeneric), Message: err.Error(), inner: err}
	}
	trace := make([]string, len(ee.Trace))
	for i, n := range ee.Trace {
		trace[i] = n.String()
	}
	g := &Error{
		Kind:    string(ee.Kind),
		Message: ee.Message,
		phrase:  ee.Phrase.String(),
		trace:   trace,
		inner:   ee.Err,
	}
	if ee.HasPreExpansion {
		g.hasPreExpansion = true
		g.preExpansionForm = ee.PreExpansionForm.String()
	}
	return g
}

// Diagnose renders err (expected to be, or wrap, a *gosch.Error) as
// pretty-printed JSON via internal/diag, for editor tooling that wants a
// machine-readable failure rather than a formatted string.
func (e *Engine) Diagnose(err error) []byte {
	var ge *Error
	if !errors.As(err, &ge) {
		return diag.RenderError(diag.ErrorReport{Kind: string(eval.KindGeneric), Message: err.Error()})
	}
	return diag.RenderError(diag.ErrorReport{
		Kind:             ge.Kind,
		Message:          ge.Message,
		Phrase:           ge.phrase,
		Trace:            ge.trace,
		PreExpansionForm: ge.preExpansionForm,
		HasPreExpansion:  ge.hasPreExpansion,
	})
}
