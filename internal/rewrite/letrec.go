package rewrite

import (
	"fmt"

	"github.com/gosch-lang/gosch/internal/ast"
	"github.com/gosch-lang/gosch/internal/token"
)

// ErrMalformedDefineBlock is returned when a lambda body's begin consists
// entirely of defines with no trailing expression — there is no value left
// to evaluate, so lowering it to a letrec would have no body.
type ErrMalformedDefineBlock struct{ Body ast.Node }

func (e *ErrMalformedDefineBlock) Error() string {
	return "malformed define block: body has no trailing expression: " + e.Body.String()
}

// LowerDefines runs the internal-define-to-letrec fold over n, entering
// lambda bodies and increasing a depth counter; at depth 0 (top level)
// begin is left alone. Run after FlattenBegin.
func LowerDefines(n ast.Node) (ast.Node, error) {
	return lowerAt(n, 0)
}

func lowerAt(n ast.Node, depth int) (ast.Node, error) {
	if n.Kind != ast.KindSeq {
		return n, nil
	}

	if n.HeadIsReserved("lambda") || n.HeadIsReserved("λ") {
		if len(n.Children) < 3 {
			return n, nil // malformed lambda, let the evaluator report it
		}
		head, params := n.Children[0], n.Children[1]
		body, err := lowerAt(combineBody(n.Children[2:]), depth+1)
		if err != nil {
			return ast.Node{}, err
		}
		return ast.Seq(head, params, body), nil
	}

	// (define (name params...) body...) is the function-shorthand define:
	// its trailing forms are an implicit body, exactly like a lambda's, so
	// they must be entered at depth+1 the same way — otherwise internal
	// defines inside a function defined with this shorthand would never
	// reach convertBeginToLetrec.
	if n.HeadIsReserved("define") && len(n.Children) >= 3 && n.Children[1].Kind == ast.KindSeq {
		body, err := lowerAt(combineBody(n.Children[2:]), depth+1)
		if err != nil {
			return ast.Node{}, err
		}
		return ast.Seq(n.Children[0], n.Children[1], body), nil
	}

	if n.HeadIsReserved("begin") && depth > 0 {
		converted, err := lowerDefinesInBegin(n, depth)
		if err != nil {
			return ast.Node{}, err
		}
		return lowerChildren(converted, depth)
	}

	return lowerChildren(n, depth)
}

// lowerDefinesInBegin applies the letrec conversion to a single begin
// node, if it mixes defines and expressions.
func lowerDefinesInBegin(n ast.Node, depth int) (ast.Node, error) {
	if !n.HeadIsReserved("begin") || depth == 0 {
		return n, nil
	}
	return convertBeginToLetrec(n)
}

func lowerChildren(n ast.Node, depth int) (ast.Node, error) {
	children := make([]ast.Node, len(n.Children))
	for i, c := range n.Children {
		lowered, err := lowerAt(c, depth)
		if err != nil {
			return ast.Node{}, err
		}
		children[i] = lowered
	}
	return ast.Seq(children...), nil
}

// combineBody folds a sequence of implicit body forms (as they appear
// directly after a lambda's parameter list, or a function-shorthand
// define's header, with no explicit begin) into one node, so depth-aware
// traversal always has a single body to enter — wrapping in begin only
// when there is more than one form.
func combineBody(forms []ast.Node) ast.Node {
	if len(forms) == 1 {
		return forms[0]
	}
	return ast.Seq(append([]ast.Node{identAtom("begin")}, forms...)...)
}

func identAtom(name string) ast.Node {
	return ast.Atom(token.Token{Kind: token.Ident, Literal: name})
}

func intAtom(v int64) ast.Node {
	return ast.Atom(token.Token{Kind: token.Int, Literal: fmt.Sprint(v), IntVal: v})
}

// defineNameAndBody extracts (name, rhs) from either a flat define
// `(define name expr)` or a function-shorthand define
// `(define (name params...) body...)`, desugaring the latter to an
// equivalent lambda RHS.
func defineNameAndBody(d ast.Node) (string, ast.Node, bool) {
	if len(d.Children) < 3 {
		return "", ast.Node{}, false
	}
	target := d.Children[1]
	if target.Kind == ast.KindAtom {
		name, ok := identName(target)
		if !ok {
			return "", ast.Node{}, false
		}
		return name, d.Children[2], true
	}
	// (define (name params...) body...) -> name, (lambda (params...) body...)
	if target.Kind == ast.KindSeq && len(target.Children) >= 1 {
		name, ok := identName(target.Children[0])
		if !ok {
			return "", ast.Node{}, false
		}
		params := ast.Seq(target.Children[1:]...)
		bodyExprs := d.Children[2:]
		var body ast.Node
		if len(bodyExprs) == 1 {
			body = bodyExprs[0]
		} else {
			body = ast.Seq(append([]ast.Node{identAtom("begin")}, bodyExprs...)...)
		}
		lambda := ast.Seq(identAtom("lambda"), params, body)
		return name, lambda, true
	}
	return "", ast.Node{}, false
}

func identName(n ast.Node) (string, bool) {
	if n.Kind != ast.KindAtom || n.Tok.Kind != token.Ident {
		return "", false
	}
	return n.Tok.Literal, true
}

// convertBeginToLetrec lowers a begin block that mixes internal defines
// with expressions into an equivalent pair of nested lambdas: an outer one
// binding each defined name to a placeholder, and an inner one that
// computes each value in order, set!s it into the outer binding, and then
// evaluates the block's trailing expressions — giving every define visibility
// of every other define's name (proper letrec* semantics) without a
// dedicated letrec special form in the evaluator.
func convertBeginToLetrec(begin ast.Node) (ast.Node, error) {
	children := begin.Children[1:] // drop the "begin" head atom

	isDefine := make([]bool, len(children))
	names := make([]string, len(children))
	rhs := make([]ast.Node, len(children))
	allExpr := true
	for i, c := range children {
		if c.HeadIsReserved("define") {
			name, body, ok := defineNameAndBody(c)
			if ok {
				isDefine[i] = true
				names[i] = name
				rhs[i] = body
				allExpr = false
				continue
			}
		}
	}
	if allExpr {
		return begin, nil
	}

	// Step 4: find the greatest index k whose child is a define.
	k := -1
	for i := len(children) - 1; i >= 0; i-- {
		if isDefine[i] {
			k = i
			break
		}
	}
	body := children[k+1:]
	if len(body) == 0 {
		return ast.Node{}, &ErrMalformedDefineBlock{Body: begin}
	}

	var topLevelArgs, boundNames, setExprs, innerArgs []ast.Node
	for i := 0; i <= k; i++ {
		if isDefine[i] {
			fresh := identAtom(fmt.Sprintf("%s%s%d", token.GensymPrefix, names[i], i))
			topLevelArgs = append(topLevelArgs, identAtom(names[i]))
			boundNames = append(boundNames, fresh)
			setExprs = append(setExprs, ast.Seq(identAtom("set!"), identAtom(names[i]), fresh))
			innerArgs = append(innerArgs, rhs[i])
		} else {
			// Step 5: interleaved expression gets a fresh dummy name so its
			// side effects still occur in left-to-right order.
			fresh := identAtom(fmt.Sprintf("%sdefine-conversion%d", token.GensymPrefix, i))
			topLevelArgs = append(topLevelArgs, fresh)
			boundNames = append(boundNames, fresh)
			innerArgs = append(innerArgs, children[i])
		}
	}

	innerBody := append(append([]ast.Node{}, setExprs...), body...)
	innerLambda := ast.Seq(identAtom("lambda"), ast.Seq(boundNames...), ast.Seq(append([]ast.Node{identAtom("begin")}, innerBody...)...))

	innerCall := ast.Seq(append([]ast.Node{innerLambda}, innerArgs...)...)
	outerLambda := ast.Seq(identAtom("lambda"), ast.Seq(topLevelArgs...), innerCall)

	dummyArgs := make([]ast.Node, len(topLevelArgs))
	for i := range dummyArgs {
		dummyArgs[i] = intAtom(123)
	}
	return ast.Seq(append([]ast.Node{outerLambda}, dummyArgs...)...), nil
}
