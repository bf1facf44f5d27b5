package builtin

import (
	"strconv"
	"strings"

	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

// registerStringBuiltins installs string construction, inspection, and
// conversion procedures.
func registerStringBuiltins(root *runtime.Frame) {
	define(root, "string-length", func(args []value.Value) (value.Value, error) {
		s, err := asStr("string-length", args)
		if err != nil {
			return nil, err
		}
		return value.Int(len([]rune(s))), nil
	})
	define(root, "string-append", func(args []value.Value) (value.Value, error) {
		var b strings.Builder
		for _, a := range args {
			s, err := value.AsStr(a)
			if err != nil {
				return nil, err
			}
			b.WriteString(s)
		}
		return value.NewStr(b.String()), nil
	})
	define(root, "string-upcase", func(args []value.Value) (value.Value, error) {
		s, err := asStr("string-upcase", args)
		if err != nil {
			return nil, err
		}
		return value.NewStr(strings.ToUpper(s)), nil
	})
	define(root, "string-downcase", func(args []value.Value) (value.Value, error) {
		s, err := asStr("string-downcase", args)
		if err != nil {
			return nil, err
		}
		return value.NewStr(strings.ToLower(s)), nil
	})
	define(root, "string->symbol", func(args []value.Value) (value.Value, error) {
		s, err := asStr("string->symbol", args)
		if err != nil {
			return nil, err
		}
		return value.Sym(s), nil
	})
	define(root, "symbol->string", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityErr("symbol->string", 1, len(args))
		}
		sym, ok := args[0].(value.Sym)
		if !ok {
			return nil, &value.TypeError{Want: "sym", Got: args[0]}
		}
		return value.NewStr(string(sym)), nil
	})
	define(root, "number->string", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityErr("number->string", 1, len(args))
		}
		return value.NewStr(args[0].String()), nil
	})
	define(root, "string->number", func(args []value.Value) (value.Value, error) {
		s, err := asStr("string->number", args)
		if err != nil {
			return nil, err
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return value.Int(i), nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return value.Num(f), nil
		}
		return value.Bool(false), nil
	})
}

func asStr(name string, args []value.Value) (string, error) {
	if len(args) != 1 {
		return "", arityErr(name, 1, len(args))
	}
	return value.AsStr(args[0])
}
