package dag

import "sync"

// Graph is a directed graph keyed by string ids. Nodes and edges remember
// insertion order, so every traversal is deterministic.
// All operations on the graph are concurrency-safe.
type Graph struct {
	// mutex protects the nodes map and the order slice.
	mutex sync.RWMutex
	// nodes stores all nodes in the graph, keyed by their unique ID.
	nodes map[string]*node
	// order holds node ids in insertion order.
	order []string
}

// node is a single vertex. Edge lists are kept in insertion order alongside
// the sets used for membership checks.
type node struct {
	id string
	// attrs are free-form attributes used when rendering the graph.
	attrs map[string]string
	// deps holds the nodes this node depends on (predecessors).
	deps     map[string]*node
	depOrder []string
	// dependents holds the nodes that depend on this node (successors).
	dependents     map[string]*node
	dependentOrder []string
}
