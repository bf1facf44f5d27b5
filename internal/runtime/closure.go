package runtime

import (
	"strings"

	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/value"
)

// Closure is a user-defined procedure: its formal parameters, its body, and
// a reference — owned or weak, exactly one, never both, never neither — to
// the frame that was current at its creation. A closure captured at the
// root level owns its frame outright; one captured inside another
// closure's call frame holds only a weak back-reference, breaking the
// cycle between a recursive closure and the frame that binds it. The
// evaluator is responsible for keeping a weakly-captured frame alive on its
// per-call heap list for as long as the closure might still be invoked.
type Closure struct {
	Params []string
	Body   ast.Node
	link   parentLink
	Name   string // best-effort, for error messages and #<lambda:name>
}

func (*Closure) Kind() string { return "lambda" }

func (c *Closure) String() string {
	name := c.Name
	if name == "" {
		name = "anonymous"
	}
	return "#<lambda:" + name + "(" + strings.Join(c.Params, " ") + ")>"
}

// Env resolves the closure's captured frame. It is nil only if a weakly
// captured frame was collected without the evaluator retaining it on its
// heap list — a host/evaluator bug, since retention is required for as long
// as anything can still reach the closure.
func (c *Closure) Env() *Frame { return c.link.resolve() }

// NewClosureOwned builds a Closure that strongly owns env — used when env
// is the root frame.
func NewClosureOwned(params []string, body ast.Node, env *Frame, name string) *Closure {
	return &Closure{Params: params, Body: body, link: ownedLink(env), Name: name}
}

// NewClosureWeak builds a Closure that only weakly references env — used
// when env is not the root frame. The caller (the evaluator) must push env
// onto its retained-heap list before the frame it was enclosed in could
// otherwise become unreachable.
func NewClosureWeak(params []string, body ast.Node, env *Frame, name string) *Closure {
	return &Closure{Params: params, Body: body, link: weakLink(env), Name: name}
}

// MacroRule is one (pattern template) clause of a syntax-rules macro.
type MacroRule struct {
	Pattern  ast.Node
	Template ast.Node
}

// Macro is a first-class macro binding: live in the same namespace as
// ordinary values, detected at application time.
type Macro struct {
	Name  string
	Rules []MacroRule
}

func (*Macro) Kind() string     { return "macro" }
func (m *Macro) String() string { return "#<macro:" + m.Name + ">" }

// StructField describes one field of a struct declaration.
type StructField struct {
	Name string
}

// StructDecl is the shape installed by the `struct` special form: a record
// type name plus its field list.
type StructDecl struct {
	Name   string
	Fields []string
}

// StructFactory is the constructor value bound to the struct's name.
type StructFactory struct {
	Decl *StructDecl
}

func (*StructFactory) Kind() string     { return "struct-factory" }
func (s *StructFactory) String() string { return "#<struct-factory:" + s.Decl.Name + ">" }

// StructInstance is a constructed record value.
type StructInstance struct {
	Decl   *StructDecl
	Values map[string]value.Value
}

func (*StructInstance) Kind() string     { return "struct" }
func (s *StructInstance) String() string { return "#<struct:" + s.Decl.Name + ">" }

// DispatchFunc implements accessor/mutator/predicate behavior for a
// struct's generated closures (`name-field`, `set-name-field!`, `name?`).
type DispatchFunc func(args []value.Value) (value.Value, error)

// StructClosure is one of the generated accessor/mutator/predicate
// procedures installed alongside a StructFactory.
type StructClosure struct {
	Decl *StructDecl
	Op   string
	Fn   DispatchFunc
}

func (*StructClosure) Kind() string     { return "struct-closure" }
func (s *StructClosure) String() string { return "#<struct-proc:" + s.Decl.Name + "." + s.Op + ">" }
