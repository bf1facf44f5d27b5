// Package value defines the runtime value domain shared by the evaluator
// and anything that embeds the engine: a tagged variant over Unit, Bool,
// Int, Num, Char, Str, Sym, Pair, Native, Lambda, Macro, and the
// struct-factory pair.
//
// Each variant is its own concrete type implementing a common Value
// interface, rather than a single struct with an embedded interface{}
// payload — this keeps the evaluator's dispatch on a Go type switch (fast,
// exhaustive-checkable) instead of runtime tag inspection.
package value

import (
	"fmt"
	"strconv"

	"golang.org/x/text/unicode/norm"
)

// Value is the interface every runtime value variant implements.
type Value interface {
	// Kind names the variant for error messages.
	Kind() string
	String() string
}

// Unit is the printable-void sentinel: the result of define/set! and the
// proper-list terminator.
type Unit struct{}

func (Unit) Kind() string   { return "unit" }
func (Unit) String() string { return "()" }

// TheUnit is the single shared Unit instance; Unit carries no state so one
// value suffices everywhere nil/void is needed.
var TheUnit = Unit{}

// Bool wraps a boolean. Only Bool(false) is falsy; every other value,
// including Unit and 0, is truthy in `if` and other boolean contexts.
type Bool bool

func (Bool) Kind() string    { return "bool" }
func (b Bool) String() string {
	if b {
		return "#t"
	}
	return "#f"
}

// Int wraps a 64-bit signed integer.
type Int int64

func (Int) Kind() string     { return "int" }
func (i Int) String() string { return strconv.FormatInt(int64(i), 10) }

// Num wraps a 64-bit float, the only floating-point member of the numeric
// tower; Int and Num are the two numeric variants.
type Num float64

func (Num) Kind() string     { return "num" }
func (n Num) String() string { return strconv.FormatFloat(float64(n), 'g', -1, 64) }

// Char wraps a Unicode code point.
type Char rune

func (Char) Kind() string     { return "char" }
func (c Char) String() string { return string(rune(c)) }

// Str wraps a string value. The payload is NFC-normalized on construction
// (NewStr) so that structural equality between strings holds regardless of
// how the source spelled combining-character sequences.
type Str string

func (Str) Kind() string     { return "str" }
func (s Str) String() string { return string(s) }

// NewStr normalizes s to NFC before wrapping it.
func NewStr(s string) Str {
	return Str(norm.NFC.String(s))
}

// Sym wraps a symbol data value — distinct from an AST identifier atom,
// produced by `quote` and comparable by name.
type Sym string

func (Sym) Kind() string     { return "sym" }
func (s Sym) String() string { return string(s) }

// Pair is a cons cell. A proper list terminates in Unit; any other tail
// marks an improper (dotted) list.
type Pair struct {
	Car Value
	Cdr Value
}

func (*Pair) Kind() string { return "pair" }
func (p *Pair) String() string {
	s := "("
	cur := Value(p)
	first := true
	for {
		pr, ok := cur.(*Pair)
		if !ok {
			break
		}
		if !first {
			s += " "
		}
		first = false
		s += describe(pr.Car)
		cur = pr.Cdr
	}
	if _, isUnit := cur.(Unit); !isUnit {
		s += " . " + describe(cur)
	}
	return s + ")"
}

func describe(v Value) string {
	if v == nil {
		return "()"
	}
	return v.String()
}

// NativeFunc is a host-provided callable: a finite argument list in, a
// Value or error out.
type NativeFunc func(args []Value) (Value, error)

// Native wraps a host callable so it can live in the value domain.
type Native struct {
	Name string
	Fn   NativeFunc
}

func (*Native) Kind() string     { return "native" }
func (n *Native) String() string { return "#<native:" + n.Name + ">" }

// TypeError is raised when a conversion or operation is attempted against a
// Value of the wrong variant.
type TypeError struct {
	Want string
	Got  Value
}

func (e *TypeError) Error() string {
	got := "nil"
	if e.Got != nil {
		got = e.Got.Kind()
	}
	return fmt.Sprintf("type mismatch: expected %s, got %s", e.Want, got)
}

// AsInt narrows v to an int64, truncating toward zero with no range check
// when v is a Num. Callers needing a range check must do it themselves.
func AsInt(v Value) (int64, error) {
	switch x := v.(type) {
	case Int:
		return int64(x), nil
	case Num:
		return int64(x), nil
	default:
		return 0, &TypeError{Want: "int", Got: v}
	}
}

// AsNum narrows v to a float64.
func AsNum(v Value) (float64, error) {
	switch x := v.(type) {
	case Int:
		return float64(x), nil
	case Num:
		return float64(x), nil
	default:
		return 0, &TypeError{Want: "num", Got: v}
	}
}

// AsStr narrows v to a Go string.
func AsStr(v Value) (string, error) {
	s, ok := v.(Str)
	if !ok {
		return "", &TypeError{Want: "str", Got: v}
	}
	return string(s), nil
}

// AsBool narrows v to a Go bool. Unlike truthiness (any non-#f value is
// truthy in `if`), this requires an actual Bool value.
func AsBool(v Value) (bool, error) {
	b, ok := v.(Bool)
	if !ok {
		return false, &TypeError{Want: "bool", Got: v}
	}
	return bool(b), nil
}

// Truthy reports whether v counts as true in a boolean context: everything
// except Bool(false) is truthy.
func Truthy(v Value) bool {
	if b, ok := v.(Bool); ok {
		return bool(b)
	}
	return true
}

// Equal reports structural equality for atoms and identity for procedures
// and macros.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case Unit:
		_, ok := b.(Unit)
		return ok
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Int:
		switch y := b.(type) {
		case Int:
			return x == y
		case Num:
			return Num(x) == y
		}
		return false
	case Num:
		switch y := b.(type) {
		case Num:
			return x == y
		case Int:
			return x == Num(y)
		}
		return false
	case Char:
		y, ok := b.(Char)
		return ok && x == y
	case Str:
		y, ok := b.(Str)
		return ok && x == y
	case Sym:
		y, ok := b.(Sym)
		return ok && x == y
	case *Pair:
		y, ok := b.(*Pair)
		if !ok {
			return false
		}
		return Equal(x.Car, y.Car) && Equal(x.Cdr, y.Cdr)
	default:
		return a == b
	}
}
