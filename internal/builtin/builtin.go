// Package builtin installs the Go-native procedures that make up the base
// engine into a runtime.Frame: arithmetic, pairs, predicates, strings, and
// I/O. Each category lives in its own file and registers into the frame
// through a register*Builtins method.
package builtin

import (
	"io"

	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

// Install defines every base primitive into root, writing display/newline
// output to out.
func Install(root *runtime.Frame, out io.Writer) {
	registerArithmeticBuiltins(root)
	registerPairBuiltins(root)
	registerPredicateBuiltins(root)
	registerStringBuiltins(root)
	registerIOBuiltins(root, out)
}

func define(root *runtime.Frame, name string, fn value.NativeFunc) {
	root.Define(name, &value.Native{Name: name, Fn: fn})
}
