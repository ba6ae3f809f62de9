package depgraph

import (
	"errors"
	"fmt"
	"slices"

	"github.com/specialistvlad/reqgraph/internal/catalog"
	"github.com/specialistvlad/reqgraph/internal/requirement"
)

// ErrCycle is returned by DetectCycles when the prerequisites loop.
var ErrCycle = errors.New("prerequisite cycle")

// CycleError names a discipline found on a prerequisite cycle.
type CycleError struct {
	Code string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%v involving discipline '%s'", ErrCycle, e.Code)
}

// Unwrap returns ErrCycle.
func (e *CycleError) Unwrap() error {
	return ErrCycle
}

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// FromIndex builds the graph of a resolved index. Every non-special atom of
// a parsed expression becomes an edge from the atom's discipline to the
// discipline that lists it.
func FromIndex(ix *catalog.Index) (*Graph, error) {
	g := New()
	disciplines := ix.All()
	for _, d := range disciplines {
		g.AddNode(d.Code)
	}
	for _, d := range disciplines {
		if d.Requirements.Presence != requirement.Present {
			continue
		}
		for _, group := range d.Requirements.Expr {
			for _, atom := range group {
				if atom.Special || atom.Code == d.Code {
					continue
				}
				if err := g.AddEdge(atom.Code, d.Code); err != nil {
					return nil, fmt.Errorf("building prerequisite graph: %w", err)
				}
			}
		}
	}
	return g, nil
}

// AddNode adds a discipline to the graph. Adding an existing code does nothing.
func (g *Graph) AddNode(code string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[code]; ok {
		return
	}

	g.nodes[code] = &node{
		code:       code,
		prereqs:    make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge records that `toCode` requires `fromCode`. An error is returned if
// either node does not exist or if the edge would be a self-reference.
func (g *Graph) AddEdge(fromCode, toCode string) error {
	if fromCode == toCode {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromCode, fromCode)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromCode]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromCode)
	}

	toNode, ok := g.nodes[toCode]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toCode)
	}

	toNode.prereqs[fromCode] = fromNode
	fromNode.dependents[toCode] = toNode

	return nil
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.nodes)
}

// Prerequisites returns the sorted codes the given discipline directly requires.
func (g *Graph) Prerequisites(code string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[code]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", code)
	}
	return sortedKeys(n.prereqs), nil
}

// Dependents returns the sorted codes of the disciplines that directly
// require the given one.
func (g *Graph) Dependents(code string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[code]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", code)
	}
	return sortedKeys(n.dependents), nil
}

// DetectCycles checks the graph for any cycles. It returns a *CycleError
// naming the first node found on a cycle. Nodes are visited in
// code order so the reported node is stable.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// permanent: fully visited and not part of a cycle.
	// temporary: on the current recursion stack.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.code] {
			return nil
		}
		if temporary[n.code] {
			return &CycleError{Code: n.code}
		}

		temporary[n.code] = true
		for _, code := range sortedKeys(n.dependents) {
			if err := visit(n.dependents[code]); err != nil {
				return err
			}
		}
		delete(temporary, n.code)
		permanent[n.code] = true

		return nil
	}

	for _, code := range sortedKeys(g.nodes) {
		if err := visit(g.nodes[code]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
