// Package rewrite implements the two source-to-AST folds that run once per
// phrase before evaluation: flatten-begin and internal-define-to-letrec.
package rewrite

import "github.com/gosch-lang/gosch/internal/ast"

// FlattenBegin visits begin nodes bottom-up, splicing any immediate child
// that is itself a begin into the parent's child list in place. The result
// has no begin as a direct child of another begin. Non-begin nodes are
// recursed into structurally but otherwise left alone.
func FlattenBegin(n ast.Node) ast.Node {
	if n.Kind != ast.KindSeq {
		return n
	}

	children := make([]ast.Node, len(n.Children))
	for i, c := range n.Children {
		children[i] = FlattenBegin(c)
	}

	if !n.HeadIsReserved("begin") {
		return ast.Seq(children...)
	}

	head := children[0]
	flat := []ast.Node{head}
	for _, c := range children[1:] {
		if c.HeadIsReserved("begin") {
			// c's own head ("begin") is dropped; its remaining children splice
			// in place, already flattened by the recursive call above.
			flat = append(flat, c.Children[1:]...)
		} else {
			flat = append(flat, c)
		}
	}
	return ast.Seq(flat...)
}
