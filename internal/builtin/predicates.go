package builtin

import (
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

// registerPredicateBuiltins installs the type and equality predicates used
// pervasively by the prelude (null?/pair?/number?/... and eq?/equal?).
func registerPredicateBuiltins(root *runtime.Frame) {
	typePred := func(name string, test func(value.Value) bool) {
		define(root, name, func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, arityErr(name, 1, len(args))
			}
			return value.Bool(test(args[0])), nil
		})
	}
	typePred("null?", func(v value.Value) bool { _, ok := v.(value.Unit); return ok })
	typePred("pair?", func(v value.Value) bool { _, ok := v.(*value.Pair); return ok })
	typePred("number?", func(v value.Value) bool { return isAnyNum(v) })
	typePred("integer?", func(v value.Value) bool { _, ok := v.(value.Int); return ok })
	typePred("string?", func(v value.Value) bool { _, ok := v.(value.Str); return ok })
	typePred("symbol?", func(v value.Value) bool { _, ok := v.(value.Sym); return ok })
	typePred("boolean?", func(v value.Value) bool { _, ok := v.(value.Bool); return ok })
	typePred("char?", func(v value.Value) bool { _, ok := v.(value.Char); return ok })
	typePred("procedure?", func(v value.Value) bool {
		switch v.(type) {
		case *value.Native, *runtime.Closure, *runtime.StructClosure, *runtime.StructFactory:
			return true
		default:
			return false
		}
	})

	define(root, "not", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityErr("not", 1, len(args))
		}
		return value.Bool(!value.Truthy(args[0])), nil
	})
	define(root, "eq?", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, arityErr("eq?", 2, len(args))
		}
		return value.Bool(value.Equal(args[0], args[1])), nil
	})
	define(root, "equal?", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, arityErr("equal?", 2, len(args))
		}
		return value.Bool(value.Equal(args[0], args[1])), nil
	})
}
