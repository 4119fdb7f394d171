package checker

import (
	"fmt"
	"strings"

	"github.com/agext/levenshtein"
	"github.com/specialistvlad/pipeconf/internal/config"
)

// Attribute names of the runtime task and scenario entities. A section id
// equal to one of them would shadow the attribute on the entity that holds
// the section's instances.
var (
	taskAttributes = set(
		"config_id", "function", "id", "input", "output", "owner_id", "parent_ids",
		"properties", "scope", "skippable", "submission_id", "version",
	)
	scenarioAttributes = set(
		"additional_data_nodes", "config_id", "creation_date", "cycle", "data_nodes", "id",
		"is_primary", "name", "owner_id", "properties", "sequences", "subscribers", "tags",
		"tasks", "version",
	)
)

func set(items ...string) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, item := range items {
		out[item] = struct{}{}
	}
	return out
}

// reservedPropertyPrefix marks property keys kept for internal use.
const reservedPropertyPrefix = "_"

// checkSection runs the checks every kind shares. Id syntax is enforced by
// the registry on registration.
func checkSection(s config.Section, c *IssueCollector) {
	addr := s.Address()
	for _, key := range config.PropertyKeys(s) {
		if strings.HasPrefix(key, reservedPropertyPrefix) {
			c.Errorf(addr, key, nil,
				"Property key '%s' of %s '%s' is reserved: keys starting with '%s' are for internal use.",
				key, s.Kind(), s.ID(), reservedPropertyPrefix)
		}
	}
}

// checkOverlap reports an id that shadows an entity attribute.
func checkOverlap(s config.Section, c *IssueCollector, entity string, attributes map[string]struct{}) bool {
	if _, ok := attributes[s.ID()]; !ok {
		return false
	}
	c.Errorf(s.Address(), "id", s.ID(),
		"The id of %s '%s' is overlapping with the attribute '%s' of a %s entity.",
		s.Kind(), s.ID(), s.ID(), entity)
	return true
}

// checkUnresolved reports references that matched no declared section.
func checkUnresolved(r *config.Registry, s config.Section, c *IssueCollector) {
	for _, ref := range s.Unresolved() {
		kind, _ := config.ParseKind(ref.Kind)
		var candidates []string
		for _, other := range r.Sections(kind) {
			if !other.IsDefault() {
				candidates = append(candidates, other.ID())
			}
		}
		c.Errorf(s.Address(), fieldFor(s.Kind(), kind), ref.ID,
			"%s '%s' references %s '%s', which is not declared.%s",
			s.Kind(), s.ID(), ref.Kind, ref.ID, didYouMean(ref.ID, candidates))
	}
}

func fieldFor(owner, referenced config.Kind) string {
	switch {
	case owner == config.KindTask:
		return "inputs/outputs"
	case referenced == config.KindTask:
		return "tasks"
	default:
		return "additional_data_nodes"
	}
}

// suggest returns the candidate closest to input, or "" when none is close
// enough to be a likely typo.
func suggest(input string, candidates []string) string {
	maxDistance := 1
	if len(input) >= 4 {
		maxDistance = 2
	}
	if len(input) > 8 {
		maxDistance = 3
	}

	best, bestDistance := "", -1
	for _, candidate := range candidates {
		if candidate == input {
			return ""
		}
		distance := levenshtein.Distance(strings.ToLower(input), strings.ToLower(candidate), nil)
		if distance <= maxDistance && (bestDistance == -1 || distance < bestDistance) {
			best, bestDistance = candidate, distance
		}
	}
	return best
}

func didYouMean(input string, candidates []string) string {
	if s := suggest(input, candidates); s != "" {
		return fmt.Sprintf(" Did you mean '%s'?", s)
	}
	return ""
}

func quoteAll(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = "'" + item + "'"
	}
	return strings.Join(quoted, ", ")
}
