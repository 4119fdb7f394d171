package config

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/specialistvlad/pipeconf/internal/storage"
)

// Field names used by declarative sources. Any other key of a section table
// is a property.
const (
	FieldStorageType         = "storage_type"
	FieldScope               = "scope"
	FieldValidityPeriod      = "validity_period"
	FieldExposedType         = "exposed_type"
	FieldInputs              = "inputs"
	FieldOutputs             = "outputs"
	FieldFunction            = "function"
	FieldSkippable           = "skippable"
	FieldTasks               = "tasks"
	FieldAdditionalDataNodes = "additional_data_nodes"
	FieldFrequency           = "frequency"
	FieldComparators         = "comparators"
	FieldSequences           = "sequences"
)

// FieldNames returns the reserved field names of a kind.
func FieldNames(kind Kind) []string {
	switch kind {
	case KindDataNode:
		return []string{FieldStorageType, FieldScope, FieldValidityPeriod, FieldExposedType}
	case KindTask:
		return []string{FieldInputs, FieldOutputs, FieldFunction, FieldSkippable}
	case KindScenario:
		return []string{FieldTasks, FieldAdditionalDataNodes, FieldFrequency, FieldComparators, FieldSequences}
	}
	return nil
}

// FromFields builds a file-layer section from decoded field values, as
// produced by DecodeValue. References may be SectionRef values, sections or
// plain id strings.
func FromFields(kind Kind, id string, fields map[string]any) (Section, error) {
	switch kind {
	case KindDataNode:
		return dataNodeFromFields(id, fields)
	case KindTask:
		return taskFromFields(id, fields)
	case KindScenario:
		return scenarioFromFields(id, fields)
	}
	return nil, fmt.Errorf("unknown section kind '%s'", kind)
}

func dataNodeFromFields(id string, fields map[string]any) (*DataNodeConfig, error) {
	dn := DeclareDataNode(id)
	for _, key := range sortedKeys(fields) {
		v := fields[key]
		switch key {
		case FieldStorageType:
			s, err := asString(key, v)
			if err != nil {
				return nil, err
			}
			dn.WithStorageType(storage.Type(s))
		case FieldScope:
			s, err := asString(key, v)
			if err != nil {
				return nil, err
			}
			dn.WithScope(Scope(s))
		case FieldValidityPeriod:
			dn.WithRawValidityPeriod(v)
		case FieldExposedType:
			dn.WithExposedType(v)
		default:
			dn.setProperty(key, v)
		}
	}
	return dn, nil
}

func taskFromFields(id string, fields map[string]any) (*TaskConfig, error) {
	t := DeclareTask(id)
	for _, key := range sortedKeys(fields) {
		v := fields[key]
		switch key {
		case FieldInputs, FieldOutputs:
			ids, err := refIDs(key, v)
			if err != nil {
				return nil, err
			}
			refs := make([]*DataNodeConfig, len(ids))
			for i, ref := range ids {
				refs[i] = RefDataNode(ref)
			}
			if key == FieldInputs {
				t.WithInputs(refs...)
			} else {
				t.WithOutputs(refs...)
			}
		case FieldFunction:
			fn, err := asFunction(key, v)
			if err != nil {
				return nil, err
			}
			t.WithFunction(fn)
		case FieldSkippable:
			b, ok := v.(bool)
			if !ok {
				return nil, fmt.Errorf("field '%s' must be a boolean, got %T", key, v)
			}
			t.WithSkippable(b)
		default:
			t.setProperty(key, v)
		}
	}
	return t, nil
}

func scenarioFromFields(id string, fields map[string]any) (*ScenarioConfig, error) {
	s := DeclareScenario(id)
	for _, key := range sortedKeys(fields) {
		v := fields[key]
		switch key {
		case FieldTasks:
			ids, err := refIDs(key, v)
			if err != nil {
				return nil, err
			}
			s.WithTasks(taskRefs(ids)...)
		case FieldAdditionalDataNodes:
			ids, err := refIDs(key, v)
			if err != nil {
				return nil, err
			}
			refs := make([]*DataNodeConfig, len(ids))
			for i, ref := range ids {
				refs[i] = RefDataNode(ref)
			}
			s.WithAdditionalDataNodes(refs...)
		case FieldFrequency:
			f, err := asString(key, v)
			if err != nil {
				return nil, err
			}
			s.WithFrequency(Frequency(f))
		case FieldComparators:
			table, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("field '%s' must be a table, got %T", key, v)
			}
			for _, dnID := range sortedKeys(table) {
				fns, err := asFunctions(key+"."+dnID, table[dnID])
				if err != nil {
					return nil, err
				}
				s.WithComparator(dnID, fns...)
			}
		case FieldSequences:
			table, ok := v.(map[string]any)
			if !ok {
				return nil, fmt.Errorf("field '%s' must be a table, got %T", key, v)
			}
			for _, name := range sortedKeys(table) {
				ids, err := refIDs(key+"."+name, table[name])
				if err != nil {
					return nil, err
				}
				s.WithSequence(name, taskRefs(ids)...)
			}
		default:
			s.setProperty(key, v)
		}
	}
	return s, nil
}

// Fields returns the declared fields and properties of s as values
// EncodeValue can render. Unset fields are omitted. Placeholders are kept
// unresolved.
func Fields(s Section) map[string]any {
	out := s.RawProperties()
	switch t := s.(type) {
	case *DataNodeConfig:
		if t.storageType != "" {
			out[FieldStorageType] = t.storageType
		}
		if t.scope != "" {
			out[FieldScope] = t.scope
		}
		if t.validityPeriod != nil {
			out[FieldValidityPeriod] = t.validityPeriod
		}
		if t.exposedType != nil {
			out[FieldExposedType] = t.exposedType
		}
	case *TaskConfig:
		if t.inputs != nil {
			out[FieldInputs] = dataNodeRefs(t.inputs)
		}
		if t.outputs != nil {
			out[FieldOutputs] = dataNodeRefs(t.outputs)
		}
		if !t.function.IsZero() {
			out[FieldFunction] = t.function
		}
		if t.skippable != nil {
			out[FieldSkippable] = *t.skippable
		}
	case *ScenarioConfig:
		if t.tasks != nil {
			out[FieldTasks] = taskConfigRefs(t.tasks)
		}
		if t.additional != nil {
			out[FieldAdditionalDataNodes] = dataNodeRefs(t.additional)
		}
		if t.frequency != "" {
			out[FieldFrequency] = t.frequency
		}
		if len(t.comparators) > 0 {
			comparators := make(map[string]any, len(t.comparators))
			for dnID, fns := range t.comparators {
				list := make([]any, len(fns))
				for i, fn := range fns {
					list[i] = fn
				}
				comparators[dnID] = list
			}
			out[FieldComparators] = comparators
		}
		if len(t.sequences) > 0 {
			sequences := make(map[string]any, len(t.sequences))
			for name, tasks := range t.sequences {
				sequences[name] = taskConfigRefs(tasks)
			}
			out[FieldSequences] = sequences
		}
	}
	return out
}

func dataNodeRefs(dns []*DataNodeConfig) []any {
	out := make([]any, len(dns))
	for i, dn := range dns {
		out[i] = SectionRef(dn.id)
	}
	return out
}

func taskConfigRefs(tasks []*TaskConfig) []any {
	out := make([]any, len(tasks))
	for i, t := range tasks {
		out[i] = SectionRef(t.id)
	}
	return out
}

func taskRefs(ids []string) []*TaskConfig {
	out := make([]*TaskConfig, len(ids))
	for i, id := range ids {
		out[i] = RefTask(id)
	}
	return out
}

func asString(key string, v any) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	case Scope:
		return string(t), nil
	case Frequency:
		return string(t), nil
	}
	return "", fmt.Errorf("field '%s' must be a string, got %T", key, v)
}

func asFunction(key string, v any) (function.Ref, error) {
	switch t := v.(type) {
	case function.Ref:
		return t, nil
	case string:
		return function.Named(t), nil
	}
	return function.Ref{}, fmt.Errorf("field '%s' must name a function, got %T", key, v)
}

func asFunctions(key string, v any) ([]any, error) {
	items, ok := v.([]any)
	if !ok {
		items = []any{v}
	}
	out := make([]any, len(items))
	for i, item := range items {
		fn, err := asFunction(key, item)
		if err != nil {
			return nil, err
		}
		out[i] = fn
	}
	return out, nil
}

// refIDs accepts one reference or a list of them.
func refIDs(key string, v any) ([]string, error) {
	var items []any
	switch t := v.(type) {
	case []any:
		items = t
	case []string:
		for _, s := range t {
			items = append(items, s)
		}
	default:
		items = []any{v}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		switch ref := item.(type) {
		case SectionRef:
			out = append(out, string(ref))
		case string:
			out = append(out, ref)
		case Section:
			out = append(out, ref.ID())
		default:
			return nil, fmt.Errorf("field '%s' must reference sections by id, got %T", key, item)
		}
	}
	return out, nil
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
