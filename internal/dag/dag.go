package dag

import (
	"fmt"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()
	g.addNode(id)
}

func (g *Graph) addNode(id string) *node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &node{
		id:         id,
		attrs:      make(map[string]string),
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
	g.nodes[id] = n
	g.order = append(g.order, id)
	return n
}

// HasNode reports whether a node with the given ID exists.
func (g *Graph) HasNode(id string) bool {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// SetAttr sets a rendering attribute on an existing node.
func (g *Graph) SetAttr(id, key, value string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return fmt.Errorf("node not found: %s", id)
	}
	n.attrs[key] = value
	return nil
}

// Attr returns a rendering attribute of a node.
func (g *Graph) Attr(id, key string) (string, bool) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return "", false
	}
	v, ok := n.attrs[key]
	return v, ok
}

// AddEdge creates a directed edge from the `fromID` node to the `toID` node.
// This signifies that `toID` has a dependency on `fromID`. An error is returned
// if either node does not exist or if the edge would create a self-reference.
// Adding an existing edge again does nothing.
func (g *Graph) AddEdge(fromID, toID string) error {
	if fromID == toID {
		return fmt.Errorf("self-referential edge not allowed: %s -> %s", fromID, fromID)
	}

	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	if _, exists := toNode.deps[fromID]; exists {
		return nil
	}
	toNode.deps[fromID] = fromNode
	toNode.depOrder = append(toNode.depOrder, fromID)
	fromNode.dependents[toID] = toNode
	fromNode.dependentOrder = append(fromNode.dependentOrder, toID)

	return nil
}

// RemoveNode deletes a node and every edge touching it. Unknown ids are
// ignored.
func (g *Graph) RemoveNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for _, dep := range n.deps {
		delete(dep.dependents, id)
		dep.dependentOrder = without(dep.dependentOrder, id)
	}
	for _, dependent := range n.dependents {
		delete(dependent.deps, id)
		dependent.depOrder = without(dependent.depOrder, id)
	}
	delete(g.nodes, id)
	g.order = without(g.order, id)
}

// Nodes returns every node id in insertion order.
func (g *Graph) Nodes() []string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return append([]string(nil), g.order...)
}

// Len returns the number of nodes.
func (g *Graph) Len() int {
	g.mutex.RLock()
	defer g.mutex.RUnlock()
	return len(g.order)
}

// Edges returns every edge as a [from, to] pair, grouped by source node in
// insertion order.
func (g *Graph) Edges() [][2]string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var edges [][2]string
	for _, id := range g.order {
		for _, to := range g.nodes[id].dependentOrder {
			edges = append(edges, [2]string{id, to})
		}
	}
	return edges
}

// InDegree returns the number of dependencies of a node.
func (g *Graph) InDegree(id string) (int, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return 0, fmt.Errorf("node not found: %s", id)
	}
	return len(n.deps), nil
}

// Dependencies returns the node IDs that the given node depends on, in the
// order the edges were added.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string{}, n.depOrder...), nil
}

// Dependents returns the node IDs that depend on the given node, in the
// order the edges were added.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return append([]string{}, n.dependentOrder...), nil
}

// DetectCycles checks the graph for any cycles. It returns a non-nil error
// if a cycle is found, indicating the first node involved in the detected cycle.
func (g *Graph) DetectCycles() error {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	// Use classic depth-first search with three sets of nodes:
	// permanent: nodes that have been fully visited and are not part of a cycle.
	// temporary: nodes currently in the recursion stack for the current traversal.
	// unvisited: all other nodes.
	permanent := make(map[string]bool)
	temporary := make(map[string]bool)

	var visit func(n *node) error
	visit = func(n *node) error {
		if permanent[n.id] {
			return nil
		}
		if temporary[n.id] {
			return &CycleError{Node: n.id}
		}

		temporary[n.id] = true

		for _, id := range n.dependentOrder {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}

		delete(temporary, n.id)
		permanent[n.id] = true

		return nil
	}

	for _, id := range g.order {
		if !permanent[id] {
			if err := visit(g.nodes[id]); err != nil {
				return err
			}
		}
	}

	return nil
}

// CycleError reports a cycle through Node.
type CycleError struct {
	Node string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("cycle detected involving node '%s'", e.Node)
}

func without(ids []string, id string) []string {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}
