// Package intern provides process-lifetime structural sharing of parsed AST
// fragments, so repeated evaluation of the same source phrase reuses the
// same shared node.
package intern

import (
	"sync"

	"github.com/gosch-lang/gosch/internal/ast"
)

// Pool maps a source string to its shared AST representative. The reader
// interns each freshly parsed top-level phrase, getting back the existing
// representative when an identical phrase was seen before; the evaluator never
// mutates it except via Clear. A Pool's lifetime is tied to whatever holds
// it — the host facade owns one per engine and drops it on teardown.
type Pool struct {
	mu    sync.Mutex
	nodes map[string]ast.Node
}

// New creates an empty pool.
func New() *Pool {
	return &Pool{nodes: make(map[string]ast.Node)}
}

// Intern returns the shared node for src's already-parsed form if one
// exists; otherwise it stores and returns fresh. Callers pass the printed
// form of the freshly parsed node as the key so that two different source
// spellings that print identically (e.g. whitespace variation) still share
// one representative.
func (p *Pool) Intern(key string, fresh ast.Node) ast.Node {
	p.mu.Lock()
	defer p.mu.Unlock()
	if existing, ok := p.nodes[key]; ok {
		return existing
	}
	p.nodes[key] = fresh
	return fresh
}

// Lookup returns the interned node for key without inserting.
func (p *Pool) Lookup(key string) (ast.Node, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	n, ok := p.nodes[key]
	return n, ok
}

// Len reports how many distinct phrases are currently interned.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.nodes)
}

// Clear releases every interned node, guaranteeing release of all shared
// AST nodes when the owning host facade is torn down.
func (p *Pool) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = make(map[string]ast.Node)
}
