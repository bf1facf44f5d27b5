package eval

import "github.com/gosch-lang/gosch/internal/ast"

// defaultTraceCapacity bounds the evaluator's diagnostic trace stack: a
// ring that drains the oldest half on overflow rather than growing
// unbounded or dropping newest entries.
const defaultTraceCapacity = 200

type traceStack struct {
	entries  []ast.Node
	capacity int
}

func (t *traceStack) push(n ast.Node) {
	cap := t.capacity
	if cap <= 0 {
		cap = defaultTraceCapacity
	}
	if len(t.entries) >= cap {
		half := len(t.entries) / 2
		copy(t.entries, t.entries[half:])
		t.entries = t.entries[:len(t.entries)-half]
	}
	t.entries = append(t.entries, n)
}

func (t *traceStack) pop() {
	if len(t.entries) > 0 {
		t.entries = t.entries[:len(t.entries)-1]
	}
}

// snapshot returns a copy of the current trace, oldest first, for attaching
// to a propagating *Error.
func (t *traceStack) snapshot() []ast.Node {
	out := make([]ast.Node, len(t.entries))
	copy(out, t.entries)
	return out
}

func (t *traceStack) last() (ast.Node, bool) {
	if len(t.entries) == 0 {
		return ast.Node{}, false
	}
	return t.entries[len(t.entries)-1], true
}
