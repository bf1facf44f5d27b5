package eval

import (
	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/macro"
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/token"
	"github.com/gosch-lang/gosch/internal/value"
)

// Loader resolves a `require` path to the module's exported frame. The
// evaluator only calls it; loading source, rewriting, and evaluating the
// module body is the host facade's responsibility, since internal/eval must
// not depend on internal/reader or pkg/gosch.
type Loader interface {
	Load(path string) (*runtime.Frame, error)
}

// ProgressFunc is the progress-callback shape the bytecode backend would
// drive. The tree-walking evaluator stores it but never calls it; only
// internal/bytecode's documented contract would invoke an installed
// callback. It lives here so host code that wires one up via Config has
// somewhere to look when it never fires against this evaluator.
type ProgressFunc func(step uint64) (stop bool)

const defaultMaxDepth = 10000

// Config configures a new Evaluator. A nil or zero field takes the listed
// default.
type Config struct {
	MaxRecursionDepth int
	TraceCapacity     int
	Loader            Loader
	OnProgress        ProgressFunc
}

// Evaluator is the single long-running (expr, env) loop that drives
// top-level phrase evaluation. It is not safe for concurrent use: it runs a
// strictly single-threaded cooperative model, and Evaluator carries
// per-call mutable state (trace, heap, depth) with no locking to match.
type Evaluator struct {
	maxDepth int
	loader   Loader
	onProgress ProgressFunc

	depth         int
	traceCapacity int
	trace         traceStack

	// heap retains frames captured weakly by closures created during the
	// current top-level evaluation, so they stay resolvable for the
	// duration of the call even though nothing strongly references them
	// from the Go stack.
	heap []*runtime.Frame

	lastMacroForm    ast.Node
	hasLastMacroForm bool
}

// New builds an Evaluator from cfg. A nil cfg uses every default.
func New(cfg *Config) *Evaluator {
	e := &Evaluator{maxDepth: defaultMaxDepth}
	if cfg != nil {
		if cfg.MaxRecursionDepth > 0 {
			e.maxDepth = cfg.MaxRecursionDepth
		}
		e.loader = cfg.Loader
		e.onProgress = cfg.OnProgress
		e.traceCapacity = cfg.TraceCapacity
	}
	return e
}

// EvalTop evaluates one top-level phrase against env (already rewritten by
// internal/rewrite). It returns the frames, if any, that must be promoted
// to an engine-wide retained heap: this happens precisely when env's
// binding_context flag is set during the call, i.e. the phrase performed a
// top-level define whose value may hold weak references into frames
// created during this call. Callers with no such promotion need (an engine
// with no long-lived root, or a phrase that defines nothing) can safely
// ignore a nil result.
func (e *Evaluator) EvalTop(n ast.Node, env *runtime.Frame) (value.Value, []*runtime.Frame, error) {
	env.SetBindingContext(false)
	e.heap = nil
	e.trace = traceStack{capacity: e.traceCapacity}
	e.lastMacroForm, e.hasLastMacroForm = ast.Node{}, false

	v, err := e.eval(n, env)
	if err != nil {
		err = withTrace(err, e.trace.snapshot(), e.lastMacroForm, e.hasLastMacroForm)
	}

	retained := e.heap
	e.heap = nil
	promote := env.IsBindingContext()
	env.SetBindingContext(false)
	if !promote {
		return v, nil, err
	}
	return v, retained, err
}

// retain pushes f onto the current call's heap list — called whenever a
// closure or child frame captures f only weakly.
func (e *Evaluator) retain(f *runtime.Frame) {
	e.heap = append(e.heap, f)
}

// eval is the trampoline: it loops over (expr, env), rebinding both in
// place for every tail position instead of recursing, and recurses (via
// this same method) only for genuine sub-expression evaluation — operator
// position, argument position, a define/set! right-hand side, an `if`
// test.
func (e *Evaluator) eval(expr ast.Node, env *runtime.Frame) (value.Value, error) {
	e.depth++
	if e.depth > e.maxDepth {
		e.depth--
		return nil, generic(expr, "maximum recursion depth (%d) exceeded", e.maxDepth)
	}
	defer func() { e.depth-- }()

	for {
		e.trace.push(expr)

		if expr.Kind == ast.KindAtom {
			v, err := e.evalAtom(expr, env)
			e.trace.pop()
			return v, err
		}

		if len(expr.Children) == 0 {
			e.trace.pop()
			return nil, badSyntax(expr, "empty application")
		}

		head := expr.Children[0]
		if head.Kind == ast.KindAtom && head.Tok.Kind == token.Ident && token.IsReserved(head.Tok.Literal) {
			step, err := e.evalSpecialForm(head.Tok.Literal, expr, env)
			if err != nil {
				e.trace.pop()
				return nil, err
			}
			if !step.tail {
				e.trace.pop()
				return step.value, nil
			}
			expr, env = step.expr, step.env
			e.trace.pop()
			continue
		}

		opVal, err := e.eval(head, env)
		if err != nil {
			e.trace.pop()
			return nil, err
		}

		if m, ok := opVal.(*runtime.Macro); ok {
			e.lastMacroForm, e.hasLastMacroForm = expr, true
			expanded, err := macro.Expand(m, expr)
			if err != nil {
				e.trace.pop()
				return nil, err
			}
			expr = expanded
			e.trace.pop()
			continue
		}

		args := expr.Children[1:]
		argv, err := e.evalArgs(args, env)
		if err != nil {
			e.trace.pop()
			return nil, err
		}

		switch fn := opVal.(type) {
		case *value.Native:
			v, err := fn.Fn(argv)
			e.trace.pop()
			return v, err
		case *runtime.Closure:
			newEnv, err := e.bindParams(fn, argv, expr)
			if err != nil {
				e.trace.pop()
				return nil, err
			}
			expr, env = fn.Body, newEnv
			e.trace.pop()
			continue
		case *runtime.StructClosure:
			v, err := fn.Fn(argv)
			e.trace.pop()
			return v, err
		case *runtime.StructFactory:
			v, err := e.construct(fn, argv, expr)
			e.trace.pop()
			return v, err
		default:
			e.trace.pop()
			return nil, typeMismatch(expr, "cannot apply value of kind %s", opVal.Kind())
		}
	}
}

func (e *Evaluator) evalAtom(expr ast.Node, env *runtime.Frame) (value.Value, error) {
	switch expr.Tok.Kind {
	case token.Ident:
		if token.IsReserved(expr.Tok.Literal) {
			return nil, badSyntax(expr, "%q used as a value, not applied", expr.Tok.Literal)
		}
		v, err := env.Lookup(expr.Tok.Literal)
		if err != nil {
			return nil, freeIdentifier(expr, err)
		}
		return v, nil
	case token.Bool:
		return value.Bool(expr.Tok.BoolVal), nil
	case token.Int:
		return value.Int(expr.Tok.IntVal), nil
	case token.Float:
		return value.Num(expr.Tok.FloatVal), nil
	case token.Char:
		return value.Char(expr.Tok.CharVal), nil
	case token.String:
		return value.NewStr(expr.Tok.StringVal), nil
	default:
		return nil, unexpectedToken(expr, "unexpected token in value position")
	}
}

func (e *Evaluator) evalArgs(args []ast.Node, env *runtime.Frame) ([]value.Value, error) {
	out := make([]value.Value, len(args))
	for i, a := range args {
		v, err := e.eval(a, env)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

// bindParams builds the call frame for a Closure application: its parent
// is a strong, local reference to the closure's captured frame for the
// duration of the call, regardless of whether that frame was itself
// captured by the closure as owned or weak.
func (e *Evaluator) bindParams(fn *runtime.Closure, argv []value.Value, site ast.Node) (*runtime.Frame, error) {
	parent := fn.Env()
	if parent == nil {
		return nil, generic(site, "closure %s's captured frame was collected", fn.Name)
	}
	if len(argv) != len(fn.Params) {
		return nil, arityMismatch(site, "%s: expected %d argument(s), got %d", closureLabel(fn), len(fn.Params), len(argv))
	}
	newEnv := runtime.NewEnclosedOwned(parent)
	for i, p := range fn.Params {
		newEnv.Define(p, argv[i])
	}
	return newEnv, nil
}

func closureLabel(fn *runtime.Closure) string {
	if fn.Name == "" {
		return "lambda"
	}
	return fn.Name
}

func (e *Evaluator) construct(factory *runtime.StructFactory, argv []value.Value, site ast.Node) (value.Value, error) {
	decl := factory.Decl
	if len(argv) != len(decl.Fields) {
		return nil, arityMismatch(site, "%s: expected %d field(s), got %d", decl.Name, len(decl.Fields), len(argv))
	}
	values := make(map[string]value.Value, len(decl.Fields))
	for i, f := range decl.Fields {
		values[f] = argv[i]
	}
	return &runtime.StructInstance{Decl: decl, Values: values}, nil
}

func identAtom(name string) ast.Node {
	return ast.Atom(token.Token{Kind: token.Ident, Literal: name})
}
