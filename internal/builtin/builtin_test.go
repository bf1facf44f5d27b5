package builtin

import (
	"bytes"
	"testing"

	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

func installedRoot(t *testing.T, out *bytes.Buffer) *runtime.Frame {
	t.Helper()
	root := runtime.NewRoot()
	Install(root, out)
	return root
}

func call(t *testing.T, root *runtime.Frame, name string, args ...value.Value) (value.Value, error) {
	t.Helper()
	v, err := root.Lookup(name)
	if err != nil {
		t.Fatalf("lookup %s: %v", name, err)
	}
	n, ok := v.(*value.Native)
	if !ok {
		t.Fatalf("%s is not a native procedure: %T", name, v)
	}
	return n.Fn(args)
}

func TestArithmeticPromotesToNumOnMixedOperands(t *testing.T) {
	root := installedRoot(t, nil)
	got, err := call(t, root, "+", value.Int(1), value.Num(2.5))
	if err != nil {
		t.Fatalf("+: %v", err)
	}
	if got.String() != "3.5" {
		t.Fatalf("got %s, want 3.5", got.String())
	}
}

func TestArithmeticStaysIntWhenAllIntOperands(t *testing.T) {
	root := installedRoot(t, nil)
	got, err := call(t, root, "*", value.Int(3), value.Int(4))
	if err != nil {
		t.Fatalf("*: %v", err)
	}
	if _, ok := got.(value.Int); !ok {
		t.Fatalf("got %T, want value.Int", got)
	}
	if got.String() != "12" {
		t.Fatalf("got %s, want 12", got.String())
	}
}

func TestDivisionByZeroErrors(t *testing.T) {
	root := installedRoot(t, nil)
	if _, err := call(t, root, "/", value.Int(1), value.Int(0)); err == nil {
		t.Fatalf("expected division-by-zero error")
	}
}

func TestConsCarCdr(t *testing.T) {
	root := installedRoot(t, nil)
	pair, err := call(t, root, "cons", value.Int(1), value.Int(2))
	if err != nil {
		t.Fatalf("cons: %v", err)
	}
	car, err := call(t, root, "car", pair)
	if err != nil {
		t.Fatalf("car: %v", err)
	}
	if car.String() != "1" {
		t.Fatalf("car: got %s, want 1", car.String())
	}
	cdr, err := call(t, root, "cdr", pair)
	if err != nil {
		t.Fatalf("cdr: %v", err)
	}
	if cdr.String() != "2" {
		t.Fatalf("cdr: got %s, want 2", cdr.String())
	}
}

func TestCarOfNonPairIsTypeError(t *testing.T) {
	root := installedRoot(t, nil)
	if _, err := call(t, root, "car", value.Int(5)); err == nil {
		t.Fatalf("expected type error")
	}
}

func TestListLengthAppendReverse(t *testing.T) {
	root := installedRoot(t, nil)
	lst, err := call(t, root, "list", value.Int(1), value.Int(2), value.Int(3))
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	ln, err := call(t, root, "length", lst)
	if err != nil {
		t.Fatalf("length: %v", err)
	}
	if ln.String() != "3" {
		t.Fatalf("length: got %s, want 3", ln.String())
	}
	rev, err := call(t, root, "reverse", lst)
	if err != nil {
		t.Fatalf("reverse: %v", err)
	}
	if rev.String() != "(3 2 1)" {
		t.Fatalf("reverse: got %s, want (3 2 1)", rev.String())
	}
	app, err := call(t, root, "append", lst, lst)
	if err != nil {
		t.Fatalf("append: %v", err)
	}
	n, err := value.Length(app)
	if err != nil {
		t.Fatalf("length of appended: %v", err)
	}
	if n != 6 {
		t.Fatalf("appended length: got %d, want 6", n)
	}
}

func TestPredicates(t *testing.T) {
	root := installedRoot(t, nil)
	cases := []struct {
		proc string
		arg  value.Value
		want bool
	}{
		{"null?", value.TheUnit, true},
		{"null?", value.Int(1), false},
		{"number?", value.Int(1), true},
		{"number?", value.Str("x"), false},
		{"string?", value.Str("x"), true},
		{"symbol?", value.Sym("x"), true},
		{"boolean?", value.Bool(true), true},
		{"pair?", &value.Pair{Car: value.Int(1), Cdr: value.TheUnit}, true},
	}
	for _, tc := range cases {
		got, err := call(t, root, tc.proc, tc.arg)
		if err != nil {
			t.Fatalf("%s: %v", tc.proc, err)
		}
		b, ok := got.(value.Bool)
		if !ok {
			t.Fatalf("%s: got %T, want Bool", tc.proc, got)
		}
		if bool(b) != tc.want {
			t.Fatalf("%s(%s): got %v, want %v", tc.proc, tc.arg.String(), b, tc.want)
		}
	}
}

func TestNotAndEquality(t *testing.T) {
	root := installedRoot(t, nil)
	got, err := call(t, root, "not", value.Bool(false))
	if err != nil {
		t.Fatalf("not: %v", err)
	}
	if got.String() != "#t" {
		t.Fatalf("not: got %s, want #t", got.String())
	}
	eq, err := call(t, root, "equal?", value.List(value.Int(1), value.Int(2)), value.List(value.Int(1), value.Int(2)))
	if err != nil {
		t.Fatalf("equal?: %v", err)
	}
	if eq.String() != "#t" {
		t.Fatalf("equal?: got %s, want #t", eq.String())
	}
}

func TestStringProcedures(t *testing.T) {
	root := installedRoot(t, nil)
	got, err := call(t, root, "string-append", value.Str("foo"), value.Str("bar"))
	if err != nil {
		t.Fatalf("string-append: %v", err)
	}
	if got.String() != "foobar" {
		t.Fatalf("string-append: got %s, want foobar", got.String())
	}
	up, err := call(t, root, "string-upcase", value.Str("abc"))
	if err != nil {
		t.Fatalf("string-upcase: %v", err)
	}
	if up.String() != "ABC" {
		t.Fatalf("string-upcase: got %s, want ABC", up.String())
	}
	sym, err := call(t, root, "string->symbol", value.Str("hi"))
	if err != nil {
		t.Fatalf("string->symbol: %v", err)
	}
	if _, ok := sym.(value.Sym); !ok {
		t.Fatalf("string->symbol: got %T, want Sym", sym)
	}
}

func TestDisplayWritesToOutput(t *testing.T) {
	var out bytes.Buffer
	root := installedRoot(t, &out)
	if _, err := call(t, root, "display", value.Int(42)); err != nil {
		t.Fatalf("display: %v", err)
	}
	if _, err := call(t, root, "newline"); err != nil {
		t.Fatalf("newline: %v", err)
	}
	if out.String() != "42\n" {
		t.Fatalf("got %q, want %q", out.String(), "42\n")
	}
}
