// Package rewrite applies both rewriter folds in order — flatten-begin,
// then internal-define-to-letrec — before a phrase reaches the evaluator.
// The letrec lowering only looks at the immediate children of a begin, so
// any nested begins must already be flattened.
package rewrite

import "github.com/gosch-lang/gosch/internal/ast"

// Run performs the full rewrite pass on a single top-level phrase.
func Run(n ast.Node) (ast.Node, error) {
	return LowerDefines(FlattenBegin(n))
}
