// Package gosch is the host embedding facade: construct an engine with
// varying amounts of bundled source loaded, register host
// values/callables, run source, and extract results — the single entry
// point everything else (cmd/gosch) is built on, layered as a sequence of
// constructors from an empty engine up to one with the full prelude loaded.
package gosch

import (
	"fmt"
	"io"
	"os"

	"github.com/gosch-lang/gosch/internal/builtin"
	"github.com/gosch-lang/gosch/internal/config"
	"github.com/gosch-lang/gosch/internal/eval"
	"github.com/gosch-lang/gosch/internal/intern"
	"github.com/gosch-lang/gosch/internal/prelude"
	"github.com/gosch-lang/gosch/internal/reader"
	"github.com/gosch-lang/gosch/internal/rewrite"
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/value"
)

// state is the engine's lifecycle, a closed enum:
// New -> BaseLoaded -> PreludeLoaded -> Running <-> Idle -> Dropped.
// Invalid transitions panic only when the GOSCH_DEBUG_LIFECYCLE environment
// variable is set (see setState) — never otherwise, since a lifecycle misuse
// should not crash a deployed host.
type state int

const (
	stateNew state = iota
	stateBaseLoaded
	statePreludeLoaded
	stateRunning
	stateIdle
	stateDropped
)

func (s state) String() string {
	switch s {
	case stateNew:
		return "New"
	case stateBaseLoaded:
		return "BaseLoaded"
	case statePreludeLoaded:
		return "PreludeLoaded"
	case stateRunning:
		return "Running"
	case stateIdle:
		return "Idle"
	case stateDropped:
		return "Dropped"
	default:
		return "Unknown"
	}
}

// debugLifecycle gates the invalid-transition panic described above; it is
// off by default and exists only for engine-internal consistency checks
// during development.
var debugLifecycle = os.Getenv("GOSCH_DEBUG_LIFECYCLE") != ""

// Engine is one interpreter session: a root frame, an intern pool shared by
// every parse this engine performs, an evaluator, and the frames it must
// keep alive past a single Run call.
type Engine struct {
	root      *runtime.Frame
	pool      *intern.Pool
	evaluator *eval.Evaluator
	out       io.Writer
	baseDir   string
	retained  []*runtime.Frame
	st        state
}

// New constructs an empty engine: no base primitives, no prelude.
func New(out io.Writer) *Engine {
	if out == nil {
		out = os.Stdout
	}
	root := runtime.NewRoot()
	e := &Engine{root: root, pool: intern.New(), out: out, st: stateNew, baseDir: "."}
	e.evaluator = eval.New(&eval.Config{Loader: &fileLoader{engine: e}})
	return e
}

// NewBase constructs an engine with the Go-native base primitives
// installed (arithmetic, pairs, predicates, strings, display).
func NewBase(out io.Writer) (*Engine, error) {
	e := New(out)
	builtin.Install(e.root, e.out)
	e.setState(stateBaseLoaded)
	return e, nil
}

// NewWithPrelude constructs an engine with base primitives plus the bundled
// prelude/contracts/types/methods/merge/compiler/display source loaded in
// their fixed order.
func NewWithPrelude(out io.Writer) (*Engine, error) {
	e, err := NewBase(out)
	if err != nil {
		return nil, err
	}
	files, err := prelude.Files()
	if err != nil {
		return nil, fmt.Errorf("gosch: loading prelude: %w", err)
	}
	if err := e.loadFiles(files); err != nil {
		return nil, err
	}
	e.setState(statePreludeLoaded)
	return e, nil
}

// NewFromConfig builds an engine from a YAML document (internal/config),
// honoring max_recursion_depth, trace_capacity, and an optional
// prelude_files override (subset/order of the fixed default).
func NewFromConfig(r io.Reader, out io.Writer) (*Engine, error) {
	cfg, err := config.Parse(r)
	if err != nil {
		return nil, err
	}
	e := New(out)
	builtin.Install(e.root, e.out)
	e.setState(stateBaseLoaded)

	evalCfg := &eval.Config{Loader: &fileLoader{engine: e}}
	if cfg.MaxRecursionDepth > 0 {
		evalCfg.MaxRecursionDepth = cfg.MaxRecursionDepth
	}
	if cfg.TraceCapacity > 0 {
		evalCfg.TraceCapacity = cfg.TraceCapacity
	}
	e.evaluator = eval.New(evalCfg)

	var files []prelude.File
	if len(cfg.PreludeFiles) > 0 {
		files, err = prelude.Files(cfg.PreludeFiles...)
	} else {
		files, err = prelude.Files()
	}
	if err != nil {
		return nil, fmt.Errorf("gosch: loading prelude: %w", err)
	}
	if err := e.loadFiles(files); err != nil {
		return nil, err
	}
	e.setState(statePreludeLoaded)
	return e, nil
}

func (e *Engine) setState(s state) {
	if debugLifecycle && !validTransition(e.st, s) {
		panic(fmt.Sprintf("gosch: invalid engine state transition %s -> %s", e.st, s))
	}
	e.st = s
}

func validTransition(from, to state) bool {
	switch from {
	case stateNew:
		return to == stateBaseLoaded || to == stateDropped
	case stateBaseLoaded:
		return to == statePreludeLoaded || to == stateRunning || to == stateDropped
	case statePreludeLoaded:
		return to == stateRunning || to == stateDropped
	case stateRunning:
		return to == stateIdle || to == stateDropped
	case stateIdle:
		return to == stateRunning || to == stateDropped
	default:
		return false
	}
}

func (e *Engine) loadFiles(files []prelude.File) error {
	for _, f := range files {
		if _, err := e.runSource(f.Source, f.Name); err != nil {
			return fmt.Errorf("gosch: loading %s: %w", f.Name, err)
		}
	}
	return nil
}

// Drop releases the engine's root frame, intern pool, and evaluator state,
// clearing bindings so any reference cycle through a closure's captured
// frame is broken before the Go garbage collector would otherwise need to
// trace it.
func (e *Engine) Drop() {
	if e.root != nil {
		*e.root = *runtime.NewRoot()
	}
	e.root = nil
	e.evaluator = nil
	if e.pool != nil {
		e.pool.Clear()
	}
	e.pool = nil
	e.retained = nil
	e.setState(stateDropped)
}

// RegisterValue binds name to v in the root frame.
func (e *Engine) RegisterValue(name string, v value.Value) {
	e.root.Define(name, v)
}

// RegisterCallable binds name to a host Go function.
func (e *Engine) RegisterCallable(name string, fn value.NativeFunc) {
	e.root.Define(name, &value.Native{Name: name, Fn: fn})
}

// RegisterType installs a predicate procedure named predicateName that
// reports whether its argument satisfies test.
func (e *Engine) RegisterType(predicateName string, test func(value.Value) bool) {
	e.RegisterCallable(predicateName, func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("%s: expected 1 argument, got %d", predicateName, len(args))
		}
		return value.Bool(test(args[0])), nil
	})
}

// ExtractValue looks up name in the root frame.
func (e *Engine) ExtractValue(name string) (value.Value, error) {
	return e.root.Lookup(name)
}

// OnProgress installs the bytecode backend's progress callback. The
// tree-walking evaluator never calls it — it is only observed by
// internal/bytecode's documented contract, so installing one here has no
// visible effect until a bytecode backend is wired in.
func (e *Engine) OnProgress(fn eval.ProgressFunc) {
	e.evaluator = eval.New(&eval.Config{Loader: &fileLoader{engine: e}, OnProgress: fn})
}

// Run evaluates source and returns the value of every top-level phrase, in
// order.
func (e *Engine) Run(source string) ([]value.Value, error) {
	return e.runSource(source, "")
}

// RunWithPath evaluates source, attributing require-relative resolution to
// path's directory.
func (e *Engine) RunWithPath(source, path string) ([]value.Value, error) {
	return e.runSource(source, path)
}

// RunFile reads path and evaluates its contents.
func (e *Engine) RunFile(path string) ([]value.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("gosch: reading %s: %w", path, err)
	}
	return e.runSource(string(data), path)
}

func (e *Engine) runSource(source, path string) ([]value.Value, error) {
	e.setState(stateRunning)
	defer e.setState(stateIdle)

	e.baseDir = dirOf(path)

	phrases, err := reader.ParseAll(source, e.pool)
	if err != nil {
		return nil, &Error{Kind: string(eval.KindParse), Message: err.Error()}
	}

	out := make([]value.Value, 0, len(phrases))
	for _, ph := range phrases {
		rewritten, err := rewrite.Run(ph)
		if err != nil {
			return nil, &Error{Kind: string(eval.KindBadSyntax), Message: err.Error()}
		}
		v, retained, err := e.evaluator.EvalTop(rewritten, e.root)
		if err != nil {
			return nil, wrapError(err)
		}
		if len(retained) > 0 {
			e.retained = append(e.retained, retained...)
		}
		out = append(out, v)
	}
	return out, nil
}
