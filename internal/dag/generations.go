package dag

import "sort"

// Generations partitions the graph into topological generations: the first
// holds every node without dependencies, and each following one holds the
// nodes whose dependencies all sit in earlier generations. Nodes inside a
// generation keep insertion order.
//
// Nodes on or behind a cycle never reach in-degree zero; they are returned
// in remaining, in insertion order, and are absent from every generation.
func (g *Graph) Generations() (generations [][]string, remaining []string) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	position := make(map[string]int, len(g.order))
	inDegree := make(map[string]int, len(g.order))
	var current []string
	for i, id := range g.order {
		position[id] = i
		inDegree[id] = len(g.nodes[id].deps)
		if inDegree[id] == 0 {
			current = append(current, id)
		}
	}

	placed := make(map[string]bool, len(g.order))
	for len(current) > 0 {
		generations = append(generations, current)
		var next []string
		for _, id := range current {
			placed[id] = true
			for _, dependent := range g.nodes[id].dependentOrder {
				inDegree[dependent]--
				if inDegree[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		sort.Slice(next, func(i, j int) bool { return position[next[i]] < position[next[j]] })
		current = next
	}

	for _, id := range g.order {
		if !placed[id] {
			remaining = append(remaining, id)
		}
	}
	return generations, remaining
}
