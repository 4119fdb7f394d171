package dag

import (
	"fmt"
	"sort"
	"strings"
)

// DOT renders the graph in Graphviz format. Node attributes set through
// SetAttr are written as DOT attributes, sorted by key.
func (g *Graph) DOT(name string) string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("digraph %s {\n", quoteDOT(name)))
	sb.WriteString("    rankdir=LR;\n")
	sb.WriteString("\n")

	for _, id := range g.order {
		n := g.nodes[id]
		sb.WriteString("    " + quoteDOT(id))
		if len(n.attrs) > 0 {
			keys := make([]string, 0, len(n.attrs))
			for k := range n.attrs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, len(keys))
			for i, k := range keys {
				parts[i] = fmt.Sprintf("%s=%s", k, quoteDOT(n.attrs[k]))
			}
			sb.WriteString(" [" + strings.Join(parts, ", ") + "]")
		}
		sb.WriteString(";\n")
	}

	if len(g.order) > 0 {
		sb.WriteString("\n")
	}
	for _, id := range g.order {
		for _, to := range g.nodes[id].dependentOrder {
			sb.WriteString(fmt.Sprintf("    %s -> %s;\n", quoteDOT(id), quoteDOT(to)))
		}
	}

	sb.WriteString("}\n")
	return sb.String()
}

// quoteDOT returns s as a quoted DOT identifier.
func quoteDOT(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	s = strings.ReplaceAll(s, "\n", `\n`)
	return `"` + s + `"`
}
