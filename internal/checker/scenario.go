package checker

import (
	"sort"

	"github.com/specialistvlad/pipeconf/internal/config"
)

// ScenarioChecker validates scenario sections.
type ScenarioChecker struct{}

func (ScenarioChecker) Name() string { return "scenario" }

func (ScenarioChecker) Check(r *config.Registry, c *IssueCollector) {
	for _, s := range r.Scenarios() {
		checkSection(s, c)
		checkUnresolved(r, s, c)
		checkFrequency(s, c)
		checkSequences(s, c)
		checkComparators(s, c)
		checkEmpty(s, c)
	}
}

func checkFrequency(s *config.ScenarioConfig, c *IssueCollector) {
	f := s.Frequency()
	if f == "" || f.Valid() {
		return
	}
	names := make([]string, 0, len(config.Frequencies()))
	for _, known := range config.Frequencies() {
		names = append(names, string(known))
	}
	c.Errorf(s.Address(), "frequency", string(f),
		"'frequency' field of ScenarioConfig '%s' must be one of %s.%s",
		s.ID(), quoteAll(names), didYouMean(string(f), names))
}

func checkSequences(s *config.ScenarioConfig, c *IssueCollector) {
	inScenario := make(map[string]struct{})
	for _, t := range s.Tasks() {
		inScenario[t.ID()] = struct{}{}
	}
	sequences := s.Sequences()
	for _, name := range s.SequenceNames() {
		for _, t := range sequences[name] {
			if _, ok := inScenario[t.ID()]; ok {
				continue
			}
			c.Errorf(s.Address(), "sequences", name,
				"Sequence '%s' of ScenarioConfig '%s' contains task '%s', which is not one of the scenario's tasks.",
				name, s.ID(), t.ID())
		}
	}
}

func checkComparators(s *config.ScenarioConfig, c *IssueCollector) {
	comparators := s.Comparators()
	if len(comparators) == 0 {
		if !s.IsDefault() {
			c.Infof(s.Address(), "comparators", nil,
				"No scenario comparators defined for ScenarioConfig '%s'.", s.ID())
		}
		return
	}

	known := make(map[string]struct{})
	var ids []string
	for _, dn := range s.DataNodes() {
		known[dn.ID()] = struct{}{}
		ids = append(ids, dn.ID())
	}
	keys := make([]string, 0, len(comparators))
	for k := range comparators {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, dnID := range keys {
		if _, ok := known[dnID]; !ok {
			c.Warnf(s.Address(), "comparators", dnID,
				"Comparator key '%s' of ScenarioConfig '%s' is not one of the scenario's data nodes.%s",
				dnID, s.ID(), didYouMean(dnID, ids))
		}
		for _, fn := range comparators[dnID] {
			if fn.IsAnonymous() {
				c.Errorf(s.Address(), "comparators", dnID,
					"Comparator of '%s' in ScenarioConfig '%s' must be a named function, not a function literal.",
					dnID, s.ID())
			}
		}
	}
}

func checkEmpty(s *config.ScenarioConfig, c *IssueCollector) {
	if s.IsDefault() || len(s.Tasks()) > 0 || len(s.AdditionalDataNodes()) > 0 {
		return
	}
	c.Warnf(s.Address(), "tasks", nil,
		"ScenarioConfig '%s' has neither tasks nor additional data nodes.", s.ID())
}
