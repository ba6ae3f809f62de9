package depgraph

import "sync"

// Graph is a collection of disciplines and their prerequisite edges.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map during concurrent access.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by discipline code.
	nodes map[string]*node
}

// node represents a single discipline. It is un-exported to enforce
// interaction with the graph via discipline codes.
type node struct {
	code string
	// prereqs holds the disciplines this one requires (predecessors).
	prereqs map[string]*node
	// dependents holds the disciplines that require this one (successors).
	dependents map[string]*node
}
