package builtin

import (
	"fmt"
	"io"

	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

// registerIOBuiltins installs display/newline, writing to out (the engine's
// configured sink — stdout by default, a buffer in tests).
func registerIOBuiltins(root *runtime.Frame, out io.Writer) {
	define(root, "display", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityErr("display", 1, len(args))
		}
		fmt.Fprint(out, args[0].String())
		return value.TheUnit, nil
	})
	define(root, "newline", func(args []value.Value) (value.Value, error) {
		if len(args) != 0 {
			return nil, arityErr("newline", 0, len(args))
		}
		fmt.Fprintln(out)
		return value.TheUnit, nil
	})
}
