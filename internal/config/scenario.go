package config

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/specialistvlad/pipeconf/internal/nodeid"
	"github.com/specialistvlad/pipeconf/internal/tpl"
)

// ScenarioConfig groups tasks, and the data nodes they touch, into a unit
// compiled into one dependency graph.
type ScenarioConfig struct {
	section
	tasks       []*TaskConfig
	additional  []*DataNodeConfig
	frequency   Frequency
	comparators map[string][]function.Ref
	sequences   map[string][]*TaskConfig
}

// NewScenarioConfig creates an unregistered scenario configuration. Tasks
// and additional data nodes are deduplicated by id, keeping the first
// occurrence.
func NewScenarioConfig(id string, tasks []*TaskConfig, additional []*DataNodeConfig) *ScenarioConfig {
	return DeclareScenario(id).WithTasks(tasks...).WithAdditionalDataNodes(additional...)
}

// DeclareScenario creates a scenario configuration with every field unset.
func DeclareScenario(id string) *ScenarioConfig {
	return &ScenarioConfig{section: section{kind: KindScenario, id: id, properties: make(map[string]any)}}
}

// WithTasks sets the tasks and returns s.
func (s *ScenarioConfig) WithTasks(tasks ...*TaskConfig) *ScenarioConfig {
	s.tasks = dedupTasks(tasks)
	return s
}

// WithAdditionalDataNodes sets the additional data nodes and returns s.
func (s *ScenarioConfig) WithAdditionalDataNodes(dns ...*DataNodeConfig) *ScenarioConfig {
	s.additional = dedupDataNodes(dns)
	return s
}

// WithFrequency sets the frequency and returns s.
func (s *ScenarioConfig) WithFrequency(f Frequency) *ScenarioConfig {
	s.frequency = f
	return s
}

// WithComparator appends comparators for a data node id and returns s.
func (s *ScenarioConfig) WithComparator(dnID string, fns ...any) *ScenarioConfig {
	s.addComparator(dnID, fns)
	return s
}

// WithSequence sets a named sequence and returns s.
func (s *ScenarioConfig) WithSequence(name string, tasks ...*TaskConfig) *ScenarioConfig {
	if s.sequences == nil {
		s.sequences = make(map[string][]*TaskConfig)
	}
	s.sequences[name] = append([]*TaskConfig{}, tasks...)
	return s
}

// WithProperty sets one property and returns s.
func (s *ScenarioConfig) WithProperty(key string, v any) *ScenarioConfig {
	s.setProperty(key, v)
	return s
}

// Tasks returns the deduplicated tasks in declaration order.
func (s *ScenarioConfig) Tasks() []*TaskConfig { return append([]*TaskConfig(nil), s.tasks...) }

// AdditionalDataNodes returns the data nodes attached without a task.
func (s *ScenarioConfig) AdditionalDataNodes() []*DataNodeConfig {
	return append([]*DataNodeConfig(nil), s.additional...)
}

// DataNodes returns every data node of the scenario exactly once: the
// additional ones first, then task inputs and outputs in declaration order.
func (s *ScenarioConfig) DataNodes() []*DataNodeConfig {
	all := append([]*DataNodeConfig(nil), s.additional...)
	for _, t := range s.tasks {
		all = append(all, t.inputs...)
		all = append(all, t.outputs...)
	}
	return dedupDataNodes(all)
}

// Frequency returns the recurrence tag with placeholders resolved, or ""
// when unset.
func (s *ScenarioConfig) Frequency() Frequency {
	return Frequency(tpl.ResolveString(string(s.frequency)))
}

// Comparators returns a copy of the comparators keyed by data node id.
func (s *ScenarioConfig) Comparators() map[string][]function.Ref {
	out := make(map[string][]function.Ref, len(s.comparators))
	for k, v := range s.comparators {
		out[k] = append([]function.Ref(nil), v...)
	}
	return out
}

// Sequences returns a copy of the named sequences.
func (s *ScenarioConfig) Sequences() map[string][]*TaskConfig {
	out := make(map[string][]*TaskConfig, len(s.sequences))
	for k, v := range s.sequences {
		out[k] = append([]*TaskConfig(nil), v...)
	}
	return out
}

// SequenceNames returns the sequence names in sorted order.
func (s *ScenarioConfig) SequenceNames() []string {
	names := make([]string, 0, len(s.sequences))
	for name := range s.sequences {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// AddComparator appends comparators for a data node id. Comparators are
// merged per data node id, so a file-declared id keeps the file's list.
func (s *ScenarioConfig) AddComparator(dnID string, fns ...any) {
	if m, ok := s.mirror().(*ScenarioConfig); ok {
		if _, ok := m.comparators[dnID]; !ok {
			m.setComparators(dnID, s.comparators[dnID])
		}
		m.addComparator(dnID, fns)
	}
	s.addComparator(dnID, fns)
}

// DeleteComparator removes the comparators of a data node id. Unknown ids
// are ignored.
func (s *ScenarioConfig) DeleteComparator(dnID string) {
	if _, ok := s.comparators[dnID]; !ok {
		return
	}
	if m, ok := s.mirror().(*ScenarioConfig); ok {
		m.setComparators(dnID, nil)
	}
	delete(s.comparators, dnID)
}

// AddSequences adds or replaces named sequences.
func (s *ScenarioConfig) AddSequences(sequences map[string][]*TaskConfig) {
	if m, ok := s.mirror().(*ScenarioConfig); ok {
		for name, tasks := range sequences {
			m.WithSequence(name, tasks...)
		}
	}
	for name, tasks := range sequences {
		s.WithSequence(name, tasks...)
	}
}

// RemoveSequences removes named sequences. It fails without removing
// anything if one of the names is unknown.
func (s *ScenarioConfig) RemoveSequences(names ...string) error {
	for _, name := range names {
		if _, ok := s.sequences[name]; !ok {
			return fmt.Errorf("scenario '%s' has no sequence named '%s'", s.id, name)
		}
	}
	if m, ok := s.mirror().(*ScenarioConfig); ok {
		if m.sequences == nil {
			m.sequences = make(map[string][]*TaskConfig)
		}
		for _, name := range names {
			m.sequences[name] = nil
		}
	}
	for _, name := range names {
		delete(s.sequences, name)
	}
	return nil
}

// Clean resets every declared field.
func (s *ScenarioConfig) Clean() {
	s.cleanBase()
	s.tasks = nil
	s.additional = nil
	s.frequency = ""
	s.comparators = nil
	s.sequences = nil
}

// setComparators stores a copy of fns under dnID. A nil list marks the id
// as removed through the applied handle.
func (s *ScenarioConfig) setComparators(dnID string, fns []function.Ref) {
	if s.comparators == nil {
		s.comparators = make(map[string][]function.Ref)
	}
	if fns == nil {
		s.comparators[dnID] = nil
		return
	}
	s.comparators[dnID] = append([]function.Ref{}, fns...)
}

func (s *ScenarioConfig) addComparator(dnID string, fns []any) {
	if s.comparators == nil {
		s.comparators = make(map[string][]function.Ref)
	}
	list := s.comparators[dnID]
	if list == nil {
		list = []function.Ref{}
	}
	for _, fn := range fns {
		list = append(list, toRef(fn))
	}
	s.comparators[dnID] = list
}

func (s *ScenarioConfig) merge(b binder, layers []Section) {
	var (
		tasks      []*TaskConfig
		additional []*DataNodeConfig
	)
	for _, l := range layers {
		src := l.(*ScenarioConfig)
		if tasks == nil && src.tasks != nil {
			tasks = src.tasks
		}
		if additional == nil && src.additional != nil {
			additional = src.additional
		}
		if s.frequency == "" {
			s.frequency = src.frequency
		}
	}

	s.tasks = dedupTasks(bindTasks(b, tasks, &s.unresolved))
	s.additional = dedupDataNodes(bindDataNodes(b, additional, &s.unresolved))

	comparators, removedComparators := mergeComparators(layers)
	for dnID, fns := range comparators {
		if _, ok := removedComparators[dnID]; ok {
			continue
		}
		bound := make([]function.Ref, len(fns))
		for i, fn := range fns {
			bound[i] = b.bindFunction(fn)
		}
		s.setComparators(dnID, bound)
	}
	sequences, removedSequences := mergeSequences(layers)
	for name, seq := range sequences {
		if _, ok := removedSequences[name]; ok {
			continue
		}
		if s.sequences == nil {
			s.sequences = make(map[string][]*TaskConfig)
		}
		s.sequences[name] = bindTasks(b, seq, &s.unresolved)
	}
	s.properties = mergeProperties(layers)
}

// mergeComparators merges comparators per data node id, most specific layer
// first. Ids marked removed in any layer are returned separately.
func mergeComparators(layers []Section) (map[string][]function.Ref, map[string]struct{}) {
	out := make(map[string][]function.Ref)
	removed := make(map[string]struct{})
	for i := len(layers) - 1; i >= 0; i-- {
		for dnID, fns := range layers[i].(*ScenarioConfig).comparators {
			if fns == nil {
				removed[dnID] = struct{}{}
				continue
			}
			out[dnID] = fns
		}
	}
	return out, removed
}

// mergeSequences merges sequences per name, most specific layer first.
func mergeSequences(layers []Section) (map[string][]*TaskConfig, map[string]struct{}) {
	out := make(map[string][]*TaskConfig)
	removed := make(map[string]struct{})
	for i := len(layers) - 1; i >= 0; i-- {
		for name, seq := range layers[i].(*ScenarioConfig).sequences {
			if seq == nil {
				removed[name] = struct{}{}
				continue
			}
			out[name] = seq
		}
	}
	return out, removed
}

func bindTasks(b binder, refs []*TaskConfig, unresolved *[]nodeid.Address) []*TaskConfig {
	out := make([]*TaskConfig, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if t, ok := b.task(ref.id); ok {
			out = append(out, t)
			continue
		}
		*unresolved = append(*unresolved, ref.Address())
	}
	return out
}

func dedupTasks(tasks []*TaskConfig) []*TaskConfig {
	seen := make(map[string]struct{}, len(tasks))
	out := make([]*TaskConfig, 0, len(tasks))
	for _, t := range tasks {
		if t == nil {
			continue
		}
		if _, ok := seen[t.id]; ok {
			continue
		}
		seen[t.id] = struct{}{}
		out = append(out, t)
	}
	return out
}

func dedupDataNodes(dns []*DataNodeConfig) []*DataNodeConfig {
	seen := make(map[string]struct{}, len(dns))
	out := make([]*DataNodeConfig, 0, len(dns))
	for _, dn := range dns {
		if dn == nil {
			continue
		}
		if _, ok := seen[dn.id]; ok {
			continue
		}
		seen[dn.id] = struct{}{}
		out = append(out, dn)
	}
	return out
}

func builtinScenario() *ScenarioConfig {
	return NewScenarioConfig(DefaultID, nil, nil)
}
