// Package bytecode documents the contract an alternative bytecode VM
// backend would implement against the same AST and macro expansion this
// module produces. A bytecode VM and its instruction encoding are out of
// scope for gosch itself; only its contract as a downstream consumer is
// acknowledged here — compiling the same AST internal/rewrite and
// internal/macro already produce down to instructions for its own VM.
//
// No instruction set, compiler, or VM loop lives in this package. gosch's
// evaluator is the tree-walker in internal/eval; this exists solely so a
// future VM has a named place to implement Compiler and Backend against,
// and so the progress-callback asymmetry between a VM and the tree-walker
// has one concrete interface to point at instead of living only in a
// comment.
package bytecode

import "github.com/gosch-lang/gosch/internal/ast"

// ProgressFunc mirrors internal/eval.ProgressFunc: invoked once per virtual
// instruction, returning true to request early termination. A VM backend
// is expected to honor it; the tree-walking evaluator does not.
type ProgressFunc func(step uint64) (stop bool)

// Compiler lowers a rewritten, macro-expanded AST phrase to a backend's own
// instruction encoding. gosch does not implement this interface; it exists
// so the seam between internal/rewrite + internal/macro's output and a
// hypothetical VM's input is named and typed.
type Compiler interface {
	Compile(phrase ast.Node) (Program, error)
}

// Program is an opaque compiled unit a Backend can run. Its concrete shape
// (instruction encoding, constant pool, …) is unspecified and out of scope
// for gosch.
type Program interface {
	// Arity reports how many free variables (host-registered globals) the
	// program expects to resolve at run time, purely for a host's sanity
	// checking before Backend.Run.
	Arity() int
}

// Backend executes a compiled Program against a set of host-registered
// globals, honoring an optional ProgressFunc.
type Backend interface {
	Run(p Program, onProgress ProgressFunc) (any, error)
}
