package builtin

import (
	"fmt"

	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

// registerArithmeticBuiltins installs the numeric tower's arithmetic and
// comparison procedures, promoting Int to Num whenever either operand is a
// Num.
func registerArithmeticBuiltins(root *runtime.Frame) {
	define(root, "+", foldNumeric(0, func(a, b float64) float64 { return a + b }, func(a, b int64) int64 { return a + b }))
	define(root, "*", foldNumeric(1, func(a, b float64) float64 { return a * b }, func(a, b int64) int64 { return a * b }))
	define(root, "-", subtractive("-", func(a, b float64) float64 { return a - b }, func(a, b int64) int64 { return a - b }))
	define(root, "/", divisive())
	define(root, "=", comparison("=", func(c int) bool { return c == 0 }))
	define(root, "<", comparison("<", func(c int) bool { return c < 0 }))
	define(root, ">", comparison(">", func(c int) bool { return c > 0 }))
	define(root, "<=", comparison("<=", func(c int) bool { return c <= 0 }))
	define(root, ">=", comparison(">=", func(c int) bool { return c >= 0 }))
	define(root, "modulo", func(args []value.Value) (value.Value, error) {
		if len(args) != 2 {
			return nil, arityErr("modulo", 2, len(args))
		}
		a, err := value.AsInt(args[0])
		if err != nil {
			return nil, err
		}
		b, err := value.AsInt(args[1])
		if err != nil {
			return nil, err
		}
		if b == 0 {
			return nil, fmt.Errorf("modulo: division by zero")
		}
		m := a % b
		if m != 0 && (m < 0) != (b < 0) {
			m += b
		}
		return value.Int(m), nil
	})
}

// isAnyNum reports whether v is Int or Num.
func isAnyNum(v value.Value) bool {
	switch v.(type) {
	case value.Int, value.Num:
		return true
	}
	return false
}

func anyIsNum(args []value.Value) bool {
	for _, a := range args {
		if _, ok := a.(value.Num); ok {
			return true
		}
	}
	return false
}

func foldNumeric(identity int64, ff func(a, b float64) float64, fi func(a, b int64) int64) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if !isAnyNum(a) {
				return nil, &value.TypeError{Want: "number", Got: a}
			}
		}
		if anyIsNum(args) {
			acc := float64(identity)
			for _, a := range args {
				n, _ := value.AsNum(a)
				acc = ff(acc, n)
			}
			return value.Num(acc), nil
		}
		acc := identity
		for _, a := range args {
			n, _ := value.AsInt(a)
			acc = fi(acc, n)
		}
		return value.Int(acc), nil
	}
}

func subtractive(name string, ff func(a, b float64) float64, fi func(a, b int64) int64) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, arityErr(name, 1, 0)
		}
		for _, a := range args {
			if !isAnyNum(a) {
				return nil, &value.TypeError{Want: "number", Got: a}
			}
		}
		if anyIsNum(args) {
			first, _ := value.AsNum(args[0])
			if len(args) == 1 {
				return value.Num(ff(0, first)), nil
			}
			for _, a := range args[1:] {
				n, _ := value.AsNum(a)
				first = ff(first, n)
			}
			return value.Num(first), nil
		}
		first, _ := value.AsInt(args[0])
		if len(args) == 1 {
			return value.Int(fi(0, first)), nil
		}
		for _, a := range args[1:] {
			n, _ := value.AsInt(a)
			first = fi(first, n)
		}
		return value.Int(first), nil
	}
}

func divisive() value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		if len(args) == 0 {
			return nil, arityErr("/", 1, 0)
		}
		for _, a := range args {
			if !isAnyNum(a) {
				return nil, &value.TypeError{Want: "number", Got: a}
			}
		}
		first, _ := value.AsNum(args[0])
		if len(args) == 1 {
			if first == 0 {
				return nil, fmt.Errorf("/: division by zero")
			}
			return value.Num(1 / first), nil
		}
		for _, a := range args[1:] {
			n, _ := value.AsNum(a)
			if n == 0 {
				return nil, fmt.Errorf("/: division by zero")
			}
			first /= n
		}
		if !anyIsNum(args) {
			return value.Int(int64(first)), nil
		}
		return value.Num(first), nil
	}
}

func comparison(name string, accept func(int) bool) value.NativeFunc {
	return func(args []value.Value) (value.Value, error) {
		for _, a := range args {
			if !isAnyNum(a) {
				return nil, &value.TypeError{Want: "number", Got: a}
			}
		}
		for i := 1; i < len(args); i++ {
			a, _ := value.AsNum(args[i-1])
			b, _ := value.AsNum(args[i])
			c := 0
			switch {
			case a < b:
				c = -1
			case a > b:
				c = 1
			}
			if !accept(c) {
				return value.Bool(false), nil
			}
		}
		return value.Bool(true), nil
	}
}

func arityErr(name string, want, got int) error {
	return fmt.Errorf("%s: expected at least %d argument(s), got %d", name, want, got)
}
