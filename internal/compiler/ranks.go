package compiler

import (
	"context"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
)

// CyclicDependencyError is returned when a scenario graph has a cycle. Nodes
// lists the graph nodes that could not be ordered; data nodes among them
// have no rank for the scenario.
type CyclicDependencyError struct {
	Scenario string
	Nodes    []string
}

func (e *CyclicDependencyError) Error() string {
	return fmt.Sprintf("scenario '%s' has a dependency cycle; unranked nodes: %s", e.Scenario, strings.Join(e.Nodes, ", "))
}

// AssignRanks recomputes the rank entries of scenario s on its data nodes.
// Entries for other scenarios are left alone.
//
// On a cycle, data nodes ahead of the cycle are still ranked and a
// *CyclicDependencyError names the rest.
func AssignRanks(s *config.ScenarioConfig) error {
	g := BuildGraph(s)
	for _, id := range g.Nodes() {
		if !IsTaskNode(id) {
			continue
		}
		if n, err := g.InDegree(id); err == nil && n == 0 {
			g.RemoveNode(id)
		}
	}

	dataNodes := make(map[string]*config.DataNodeConfig)
	for _, dn := range s.DataNodes() {
		dataNodes[NodeID(dn)] = dn
		dn.ResetRanks(s.ID())
	}

	generations, remaining := g.Generations()
	rank := 1
	for _, generation := range generations {
		ranked := false
		for _, id := range generation {
			if dn, ok := dataNodes[id]; ok {
				dn.SetRank(s.ID(), rank)
				ranked = true
			}
		}
		if ranked {
			rank++
		}
	}

	for _, dn := range s.AdditionalDataNodes() {
		dn.SetRank(s.ID(), 0)
	}

	if len(remaining) > 0 {
		return &CyclicDependencyError{Scenario: s.ID(), Nodes: remaining}
	}
	return nil
}

// Ranks maps scenario ids to the rank of each ranked data node id.
type Ranks map[string]map[string]int

// CompileAll rebuilds the rank maps of every data node in the registry:
// existing entries are dropped, then each scenario, default section
// included, is ranked in declaration order. Scenarios are compiled one at a
// time since they may share data nodes. Cycle errors are collected, not
// fatal: every scenario is compiled.
func CompileAll(ctx context.Context, r *config.Registry) (Ranks, error) {
	logger := ctxlog.FromContext(ctx)

	// A data node dropped from a redeclared or removed scenario would keep
	// its old entry otherwise.
	for _, dn := range r.DataNodes() {
		for scenarioID := range dn.Ranks() {
			dn.ResetRanks(scenarioID)
		}
	}

	var result *multierror.Error
	out := make(Ranks)
	for _, s := range r.Scenarios() {
		if err := AssignRanks(s); err != nil {
			logger.Warn("Scenario has a dependency cycle.", "scenario", s.ID(), "error", err)
			result = multierror.Append(result, err)
		}
		out[s.ID()] = ScenarioRanks(s)
		logger.Debug("Scenario compiled.", "scenario", s.ID(), "data_nodes", len(out[s.ID()]))
	}
	return out, result.ErrorOrNil()
}

// ScenarioRanks reads back the ranks recorded for s on its data nodes.
func ScenarioRanks(s *config.ScenarioConfig) map[string]int {
	out := make(map[string]int)
	for _, dn := range s.DataNodes() {
		if rank, ok := dn.Rank(s.ID()); ok {
			out[dn.ID()] = rank
		}
	}
	return out
}
