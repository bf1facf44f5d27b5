package builtin

import (
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

// registerPairBuiltins installs cons-cell construction and access.
func registerPairBuiltins(root *runtime.Frame) {
	define(root, "cons", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, arityErr("cons", 2, len(args))
		}
		return &value.Pair{Car: args[0], Cdr: args[1]}, nil
	})
	define(root, "car", func(args []value.Value) (value.Value, error) {
		p, err := asPair("car", args)
		if err != nil {
			return nil, err
		}
		return p.Car, nil
	})
	define(root, "cdr", func(args []value.Value) (value.Value, error) {
		p, err := asPair("cdr", args)
		if err != nil {
			return nil, err
		}
		return p.Cdr, nil
	})
	define(root, "cadr", func(args []value.Value) (value.Value, error) {
		p, err := asPair("cadr", args)
		if err != nil {
			return nil, err
		}
		p2, err := asPair("cadr", []value.Value{p.Cdr})
		if err != nil {
			return nil, err
		}
		return p2.Car, nil
	})
	define(root, "list", func(args []value.Value) (value.Value, error) {
		return value.List(args...), nil
	})
	define(root, "length", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityErr("length", 1, len(args))
		}
		n, err := value.Length(args[0])
		if err != nil {
			return nil, err
		}
		return value.Int(n), nil
	})
	define(root, "append", func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return value.TheUnit, nil
		}
		var tail value.Value = args[len(args)-1]
		for i := len(args) - 2; i >= 0; i-- {
			out, err := value.Append(args[i], tail)
			if err != nil {
				return nil, err
			}
			tail = out
		}
		return tail, nil
	})
	define(root, "reverse", func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityErr("reverse", 1, len(args))
		}
		elems, err := value.ToProperSlice(args[0])
		if err != nil {
			return nil, err
		}
		out := make([]value.Value, len(elems))
		for i, e := range elems {
			out[len(elems)-1-i] = e
		}
		return value.List(out...), nil
	})
}

func asPair(name string, args []value.Value) (*value.Pair, error) {
	if len(args) != 1 {
		return nil, arityErr(name, 1, len(args))
	}
	p, ok := args[0].(*value.Pair)
	if !ok {
		return nil, &value.TypeError{Want: "pair", Got: args[0]}
	}
	return p, nil
}
