package checker

import (
	"errors"

	"github.com/specialistvlad/pipeconf/internal/compiler"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/dag"
)

// GraphChecker reports dependency cycles and data nodes left without a
// rank. It reads the ranks written by the compiler and never assigns them.
type GraphChecker struct{}

func (GraphChecker) Name() string { return "graph" }

func (GraphChecker) Check(r *config.Registry, c *IssueCollector) {
	for _, s := range r.Scenarios() {
		err := compiler.BuildGraph(s).DetectCycles()
		var cycle *dag.CycleError
		if errors.As(err, &cycle) {
			c.Errorf(s.Address(), "tasks", cycle.Node,
				"The task graph of ScenarioConfig '%s' has a dependency cycle through '%s'.",
				s.ID(), cycle.Node)
		}

		for _, dn := range s.DataNodes() {
			if _, ok := dn.Rank(s.ID()); ok {
				continue
			}
			c.Errorf(dn.Address(), "ranks", s.ID(),
				"DataNodeConfig '%s' has no rank in ScenarioConfig '%s'.", dn.ID(), s.ID())
		}
	}
}
