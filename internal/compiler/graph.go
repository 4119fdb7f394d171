package compiler

import (
	"strings"

	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/dag"
)

// Node attributes written on every graph node.
const (
	AttrKind  = "kind"
	AttrLabel = "label"
	AttrShape = "shape"
)

// NodeID is the graph key of a section, its canonical address.
func NodeID(s config.Section) string {
	return s.Address().String()
}

// IsTaskNode reports whether a graph key designates a task.
func IsTaskNode(id string) bool {
	return strings.HasPrefix(id, string(config.KindTask)+".")
}

// BuildGraph builds the dependency graph of a scenario: an edge from every
// input data node to its task and from every task to its outputs. Tasks
// without inputs and outputs are added as isolated nodes. Additional data
// nodes are not part of the graph.
func BuildGraph(s *config.ScenarioConfig) *dag.Graph {
	g := dag.New()
	for _, task := range s.Tasks() {
		taskID := addNode(g, task, "box")
		for _, in := range task.Inputs() {
			_ = g.AddEdge(addNode(g, in, "ellipse"), taskID)
		}
		for _, out := range task.Outputs() {
			_ = g.AddEdge(taskID, addNode(g, out, "ellipse"))
		}
	}
	return g
}

func addNode(g *dag.Graph, s config.Section, shape string) string {
	id := NodeID(s)
	if g.HasNode(id) {
		return id
	}
	g.AddNode(id)
	_ = g.SetAttr(id, AttrKind, string(s.Kind()))
	_ = g.SetAttr(id, AttrLabel, s.ID())
	_ = g.SetAttr(id, AttrShape, shape)
	return id
}
