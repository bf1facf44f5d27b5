package eval

import (
	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/macro"
	"github.com/gosch-lang/gosch/internal/runtime"
	"github.com/gosch-lang/gosch/internal/token"
	"github.com/gosch-lang/gosch/internal/value"
)

// stepResult is what a special form hands back to the trampoline: either a
// finished value, or a new (expr, env) pair to continue the loop with in
// tail position.
type stepResult struct {
	value value.Value
	expr  ast.Node
	env   *runtime.Frame
	tail  bool
}

func done(v value.Value) stepResult { return stepResult{value: v} }

func tailTo(expr ast.Node, env *runtime.Frame) stepResult {
	return stepResult{expr: expr, env: env, tail: true}
}

func (e *Evaluator) evalSpecialForm(word string, expr ast.Node, env *runtime.Frame) (stepResult, error) {
	switch word {
	case "quote":
		return e.evalQuote(expr)
	case "if":
		return e.evalIf(expr, env)
	case "define":
		return e.evalDefine(expr, env)
	case "define-syntax":
		return e.evalDefineSyntax(expr, env)
	case "lambda", "λ":
		return e.evalLambda(expr, env, "")
	case "let":
		return e.evalLet(expr, env)
	case "begin":
		return e.evalBegin(expr, env)
	case "set!":
		return e.evalSet(expr, env)
	case "apply":
		return e.evalApply(expr, env)
	case "eval":
		return e.evalEval(expr, env)
	case "try!":
		return e.evalTry(expr, env)
	case "require":
		return e.evalRequire(expr, env)
	case "map'":
		return e.evalMap(expr, env)
	case "filter'":
		return e.evalFilter(expr, env)
	case "struct":
		return e.evalStruct(expr, env)
	default:
		return stepResult{}, badSyntax(expr, "unhandled reserved word %q", word)
	}
}

func (e *Evaluator) evalQuote(expr ast.Node) (stepResult, error) {
	if len(expr.Children) != 2 {
		return stepResult{}, badSyntax(expr, "quote: expected exactly one operand")
	}
	v, err := astToValue(expr.Children[1])
	if err != nil {
		return stepResult{}, err
	}
	return done(v), nil
}

func (e *Evaluator) evalIf(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) != 3 && len(expr.Children) != 4 {
		return stepResult{}, badSyntax(expr, "if: expected (if test then [else])")
	}
	test, err := e.eval(expr.Children[1], env)
	if err != nil {
		return stepResult{}, err
	}
	if value.Truthy(test) {
		return tailTo(expr.Children[2], env), nil
	}
	if len(expr.Children) == 4 {
		return tailTo(expr.Children[3], env), nil
	}
	return done(value.TheUnit), nil
}

// defineTarget splits both define shapes — `(define name rhs)` and
// `(define (name params...) body...)` — into a bound name and the
// expression to evaluate for its value, desugaring the latter into an
// equivalent lambda form.
func defineTarget(expr ast.Node) (name string, rhs ast.Node, err error) {
	if len(expr.Children) < 3 {
		return "", ast.Node{}, &Error{Kind: KindBadSyntax, Message: "define: malformed form", Phrase: expr}
	}
	target := expr.Children[1]
	if target.Kind == ast.KindAtom {
		if len(expr.Children) != 3 {
			return "", ast.Node{}, badSyntax(expr, "define: too many operands for a value binding")
		}
		return target.Tok.Literal, expr.Children[2], nil
	}
	if target.Kind != ast.KindSeq || len(target.Children) == 0 || target.Children[0].Kind != ast.KindAtom {
		return "", ast.Node{}, badSyntax(expr, "define: malformed procedure header")
	}
	name = target.Children[0].Tok.Literal
	params := target.Children[1:]
	var body ast.Node
	if len(expr.Children) == 3 {
		body = expr.Children[2]
	} else {
		body = ast.Seq(append([]ast.Node{identAtom("begin")}, expr.Children[2:]...)...)
	}
	lambdaNode := ast.Seq(identAtom("lambda"), ast.Seq(params...), body)
	return name, lambdaNode, nil
}

func (e *Evaluator) evalDefine(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	name, rhs, err := defineTarget(expr)
	if err != nil {
		return stepResult{}, err
	}
	var v value.Value
	if rhs.HeadIsReserved("lambda") || rhs.HeadIsReserved("λ") {
		step, err := e.evalLambda(rhs, env, name)
		if err != nil {
			return stepResult{}, err
		}
		v = step.value
	} else {
		v, err = e.eval(rhs, env)
		if err != nil {
			return stepResult{}, err
		}
	}
	env.Define(name, v)
	env.SetBindingContext(true)
	return done(value.TheUnit), nil
}

func (e *Evaluator) evalDefineSyntax(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) != 3 || expr.Children[1].Kind != ast.KindAtom {
		return stepResult{}, badSyntax(expr, "define-syntax: expected (define-syntax name (syntax-rules ...))")
	}
	name := expr.Children[1].Tok.Literal
	m, err := macro.ParseSyntaxRules(name, expr.Children[2])
	if err != nil {
		return stepResult{}, badSyntax(expr, "%v", err)
	}
	env.Define(name, m)
	env.SetBindingContext(true)
	return done(value.TheUnit), nil
}

// evalLambda builds a Closure, choosing Owned or Weak capture of env: a
// closure made directly in the root frame owns it; one made anywhere else
// only weakly references it, and that frame is
// pushed onto the evaluator's per-call heap so it survives for the life
// of the call even though nothing on the Go stack still points to it
// once this special form returns.
func (e *Evaluator) evalLambda(expr ast.Node, env *runtime.Frame, name string) (stepResult, error) {
	if len(expr.Children) < 3 || expr.Children[1].Kind != ast.KindSeq {
		return stepResult{}, badSyntax(expr, "lambda: expected (lambda (params...) body...)")
	}
	paramNodes := expr.Children[1].Children
	params := make([]string, len(paramNodes))
	for i, p := range paramNodes {
		if p.Kind != ast.KindAtom || p.Tok.Kind != token.Ident {
			return stepResult{}, badSyntax(expr, "lambda: parameter %d is not an identifier", i)
		}
		params[i] = p.Tok.Literal
	}
	var body ast.Node
	if len(expr.Children) == 3 {
		body = expr.Children[2]
	} else {
		body = ast.Seq(append([]ast.Node{identAtom("begin")}, expr.Children[2:]...)...)
	}

	var cl *runtime.Closure
	if env.IsRoot() {
		cl = runtime.NewClosureOwned(params, body, env, name)
	} else {
		e.retain(env)
		cl = runtime.NewClosureWeak(params, body, env, name)
	}
	return done(cl), nil
}

// evalLet desugars `(let ((n v) ...) body...)` to an immediate lambda
// application and continues the loop with it.
func (e *Evaluator) evalLet(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) < 2 || expr.Children[1].Kind != ast.KindSeq {
		return stepResult{}, badSyntax(expr, "let: expected (let ((name val)...) body...)")
	}
	bindings := expr.Children[1].Children
	names := make([]ast.Node, len(bindings))
	values := make([]ast.Node, len(bindings))
	for i, b := range bindings {
		if b.Kind != ast.KindSeq || len(b.Children) != 2 || b.Children[0].Kind != ast.KindAtom {
			return stepResult{}, badSyntax(expr, "let: malformed binding pair at position %d", i)
		}
		names[i] = b.Children[0]
		values[i] = b.Children[1]
	}
	body := expr.Children[2:]
	if len(body) == 0 {
		return stepResult{}, badSyntax(expr, "let: expected at least one body form")
	}
	lambdaNode := ast.Seq(append([]ast.Node{identAtom("lambda"), ast.Seq(names...)}, body...)...)
	call := ast.Seq(append([]ast.Node{lambdaNode}, values...)...)
	return tailTo(call, env), nil
}

func (e *Evaluator) evalBegin(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	body := expr.Children[1:]
	if len(body) == 0 {
		return done(value.TheUnit), nil
	}
	for _, form := range body[:len(body)-1] {
		if _, err := e.eval(form, env); err != nil {
			return stepResult{}, err
		}
	}
	return tailTo(body[len(body)-1], env), nil
}

func (e *Evaluator) evalSet(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) != 3 || expr.Children[1].Kind != ast.KindAtom {
		return stepResult{}, badSyntax(expr, "set!: expected (set! name expr)")
	}
	name := expr.Children[1].Tok.Literal
	v, err := e.eval(expr.Children[2], env)
	if err != nil {
		return stepResult{}, err
	}
	if err := env.Set(name, v); err != nil {
		return stepResult{}, freeIdentifier(expr, err)
	}
	return done(value.TheUnit), nil
}

// evalApply evaluates `(apply f arg... lst)`: every fixed argument plus
// the spread of the final list argument, then applies f — in tail
// position when f is a Closure, just like ordinary application.
func (e *Evaluator) evalApply(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) < 3 {
		return stepResult{}, badSyntax(expr, "apply: expected (apply f arg... lst)")
	}
	fn, err := e.eval(expr.Children[1], env)
	if err != nil {
		return stepResult{}, err
	}
	fixed := expr.Children[2 : len(expr.Children)-1]
	argv, err := e.evalArgs(fixed, env)
	if err != nil {
		return stepResult{}, err
	}
	lastVal, err := e.eval(expr.Children[len(expr.Children)-1], env)
	if err != nil {
		return stepResult{}, err
	}
	spread, err := value.ToProperSlice(lastVal)
	if err != nil {
		return stepResult{}, wrapTypeMismatch(expr, err)
	}
	argv = append(argv, spread...)
	return e.applyTail(fn, argv, expr)
}

// evalEval evaluates `(eval e)`: e must evaluate to an AST-convertible
// value (a ContractViolation otherwise), and that converted form is then
// evaluated in tail position.
func (e *Evaluator) evalEval(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) != 2 {
		return stepResult{}, badSyntax(expr, "eval: expected (eval expr)")
	}
	v, err := e.eval(expr.Children[1], env)
	if err != nil {
		return stepResult{}, err
	}
	form, ok := valueToAST(v)
	if !ok {
		return stepResult{}, contractViolation(expr, "eval: value of kind %s is not AST-convertible", v.Kind())
	}
	return tailTo(form, env), nil
}

func (e *Evaluator) evalTry(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) != 3 {
		return stepResult{}, badSyntax(expr, "try!: expected (try! body handler)")
	}
	v, err := e.eval(expr.Children[1], env)
	if err == nil {
		return done(v), nil
	}
	return tailTo(expr.Children[2], env), nil
}

func (e *Evaluator) evalRequire(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) != 2 || expr.Children[1].Tok.Kind != token.String {
		return stepResult{}, badSyntax(expr, "require: expected (require \"path\")")
	}
	if e.loader == nil {
		return stepResult{}, generic(expr, "require: no module loader configured")
	}
	modFrame, err := e.loader.Load(expr.Children[1].Tok.StringVal)
	if err != nil {
		return stepResult{}, generic(expr, "require: %v", err)
	}
	env.AddImport(modFrame)
	return done(value.TheUnit), nil
}

func (e *Evaluator) evalMap(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	fn, list, err := e.evalOpAndList(expr, env, "map'")
	if err != nil {
		return stepResult{}, err
	}
	elems, err := value.ToProperSlice(list)
	if err != nil {
		return stepResult{}, wrapTypeMismatch(expr, err)
	}
	out := make([]value.Value, len(elems))
	for i, el := range elems {
		v, err := e.applyValue(fn, []value.Value{el}, expr)
		if err != nil {
			return stepResult{}, err
		}
		out[i] = v
	}
	return done(value.List(out...)), nil
}

func (e *Evaluator) evalFilter(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	fn, list, err := e.evalOpAndList(expr, env, "filter'")
	if err != nil {
		return stepResult{}, err
	}
	elems, err := value.ToProperSlice(list)
	if err != nil {
		return stepResult{}, wrapTypeMismatch(expr, err)
	}
	var out []value.Value
	for _, el := range elems {
		keep, err := e.applyValue(fn, []value.Value{el}, expr)
		if err != nil {
			return stepResult{}, err
		}
		if value.Truthy(keep) {
			out = append(out, el)
		}
	}
	return done(value.List(out...)), nil
}

func (e *Evaluator) evalOpAndList(expr ast.Node, env *runtime.Frame, name string) (value.Value, value.Value, error) {
	if len(expr.Children) != 3 {
		return nil, nil, badSyntax(expr, "%s: expected (%s fn list)", name, name)
	}
	fn, err := e.eval(expr.Children[1], env)
	if err != nil {
		return nil, nil, err
	}
	list, err := e.eval(expr.Children[2], env)
	if err != nil {
		return nil, nil, err
	}
	return fn, list, nil
}

// evalStruct installs a record factory, one `name?` predicate closure, and
// one accessor and one mutator closure per field, in the current frame.
func (e *Evaluator) evalStruct(expr ast.Node, env *runtime.Frame) (stepResult, error) {
	if len(expr.Children) != 3 || expr.Children[1].Kind != ast.KindAtom || expr.Children[2].Kind != ast.KindSeq {
		return stepResult{}, badSyntax(expr, "struct: expected (struct Name (field...))")
	}
	name := expr.Children[1].Tok.Literal
	fieldNodes := expr.Children[2].Children
	fields := make([]string, len(fieldNodes))
	for i, f := range fieldNodes {
		if f.Kind != ast.KindAtom {
			return stepResult{}, badSyntax(expr, "struct: field %d is not an identifier", i)
		}
		fields[i] = f.Tok.Literal
	}
	decl := &runtime.StructDecl{Name: name, Fields: fields}
	env.Define(name, &runtime.StructFactory{Decl: decl})
	env.Define(name+"?", &runtime.StructClosure{Decl: decl, Op: "predicate", Fn: func(args []value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, arityMismatch(expr, "%s?: expected 1 argument, got %d", name, len(args))
		}
		inst, ok := args[0].(*runtime.StructInstance)
		return value.Bool(ok && inst.Decl == decl), nil
	}})
	for _, field := range fields {
		field := field
		env.Define(name+"-"+field, &runtime.StructClosure{Decl: decl, Op: field, Fn: func(args []value.Value) (value.Value, error) {
			if len(args) != 1 {
				return nil, arityMismatch(expr, "%s-%s: expected 1 argument, got %d", name, field, len(args))
			}
			inst, ok := args[0].(*runtime.StructInstance)
			if !ok || inst.Decl != decl {
				return nil, typeMismatch(expr, "%s-%s: expected a %s instance", name, field, name)
			}
			return inst.Values[field], nil
		}})
		env.Define("set-"+name+"-"+field+"!", &runtime.StructClosure{Decl: decl, Op: "set-" + field, Fn: func(args []value.Value) (value.Value, error) {
			if len(args) != 2 {
				return nil, arityMismatch(expr, "set-%s-%s!: expected 2 arguments, got %d", name, field, len(args))
			}
			inst, ok := args[0].(*runtime.StructInstance)
			if !ok || inst.Decl != decl {
				return nil, typeMismatch(expr, "set-%s-%s!: expected a %s instance", name, field, name)
			}
			inst.Values[field] = args[1]
			return value.TheUnit, nil
		}})
	}
	return done(value.TheUnit), nil
}

// applyTail applies fn to argv in tail position when fn is a Closure
// (reusing the trampoline instead of recursing), or directly otherwise —
// used by `apply`, which is itself dispatched from the trampoline.
func (e *Evaluator) applyTail(fn value.Value, argv []value.Value, site ast.Node) (stepResult, error) {
	switch f := fn.(type) {
	case *runtime.Closure:
		newEnv, err := e.bindParams(f, argv, site)
		if err != nil {
			return stepResult{}, err
		}
		return tailTo(f.Body, newEnv), nil
	default:
		v, err := e.applyValue(fn, argv, site)
		if err != nil {
			return stepResult{}, err
		}
		return done(v), nil
	}
}

// applyValue applies fn to argv without reusing the trampoline — used by
// map'/filter'/apply's non-Closure cases, where each application is a
// bounded, non-tail sub-evaluation.
func (e *Evaluator) applyValue(fn value.Value, argv []value.Value, site ast.Node) (value.Value, error) {
	switch f := fn.(type) {
	case *value.Native:
		return f.Fn(argv)
	case *runtime.StructClosure:
		return f.Fn(argv)
	case *runtime.StructFactory:
		return e.construct(f, argv, site)
	case *runtime.Closure:
		newEnv, err := e.bindParams(f, argv, site)
		if err != nil {
			return nil, err
		}
		return e.eval(f.Body, newEnv)
	case *runtime.Macro:
		return nil, typeMismatch(site, "cannot apply a macro as a procedure")
	default:
		return nil, typeMismatch(site, "cannot apply value of kind %s", fn.Kind())
	}
}
