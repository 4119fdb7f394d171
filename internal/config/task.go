package config

import (
	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/specialistvlad/pipeconf/internal/nodeid"
)

// TaskConfig describes a function consuming and producing data nodes.
type TaskConfig struct {
	section
	inputs    []*DataNodeConfig
	outputs   []*DataNodeConfig
	function  function.Ref
	skippable *bool
}

// NewTaskConfig creates an unregistered task configuration. fn is a Go
// function value, a function.Ref, or nil.
func NewTaskConfig(id string, fn any, inputs, outputs []*DataNodeConfig) *TaskConfig {
	t := &TaskConfig{
		section: section{kind: KindTask, id: id, properties: make(map[string]any)},
		inputs:  append([]*DataNodeConfig{}, inputs...),
		outputs: append([]*DataNodeConfig{}, outputs...),
	}
	t.function = toRef(fn)
	return t
}

// DeclareTask creates a task configuration with every field unset, so that
// merging falls back to less specific layers for anything not set later.
func DeclareTask(id string) *TaskConfig {
	return &TaskConfig{section: section{kind: KindTask, id: id, properties: make(map[string]any)}}
}

// RefTask creates a reference to a task by id, to be bound to the applied
// instance when the registry merges its layers.
func RefTask(id string) *TaskConfig {
	return DeclareTask(id)
}

// WithInputs sets the inputs and returns t.
func (t *TaskConfig) WithInputs(inputs ...*DataNodeConfig) *TaskConfig {
	t.inputs = append([]*DataNodeConfig{}, inputs...)
	return t
}

// WithOutputs sets the outputs and returns t.
func (t *TaskConfig) WithOutputs(outputs ...*DataNodeConfig) *TaskConfig {
	t.outputs = append([]*DataNodeConfig{}, outputs...)
	return t
}

// WithFunction sets the function and returns t.
func (t *TaskConfig) WithFunction(fn any) *TaskConfig {
	t.function = toRef(fn)
	return t
}

// WithSkippable sets the skippable flag and returns t.
func (t *TaskConfig) WithSkippable(v bool) *TaskConfig {
	t.skippable = &v
	return t
}

// WithProperty sets one property and returns t.
func (t *TaskConfig) WithProperty(key string, v any) *TaskConfig {
	t.setProperty(key, v)
	return t
}

// Inputs returns the input data nodes in declaration order.
func (t *TaskConfig) Inputs() []*DataNodeConfig { return append([]*DataNodeConfig(nil), t.inputs...) }

// Outputs returns the output data nodes in declaration order.
func (t *TaskConfig) Outputs() []*DataNodeConfig { return append([]*DataNodeConfig(nil), t.outputs...) }

// Function returns the function reference.
func (t *TaskConfig) Function() function.Ref { return t.function }

// Skippable reports whether the task may be skipped when its outputs are up to date.
func (t *TaskConfig) Skippable() bool { return t.skippable != nil && *t.skippable }

// Clean resets every declared field.
func (t *TaskConfig) Clean() {
	t.cleanBase()
	t.inputs = nil
	t.outputs = nil
	t.function = function.Ref{}
	t.skippable = nil
}

func (t *TaskConfig) merge(b binder, layers []Section) {
	var inputs, outputs []*DataNodeConfig
	for _, l := range layers {
		src := l.(*TaskConfig)
		if inputs == nil && src.inputs != nil {
			inputs = src.inputs
		}
		if outputs == nil && src.outputs != nil {
			outputs = src.outputs
		}
		if t.function.IsZero() {
			t.function = src.function
		}
		if t.skippable == nil && src.skippable != nil {
			v := *src.skippable
			t.skippable = &v
		}
	}
	t.inputs = bindDataNodes(b, inputs, &t.unresolved)
	t.outputs = bindDataNodes(b, outputs, &t.unresolved)
	t.function = b.bindFunction(t.function)
	t.properties = mergeProperties(layers)
}

func bindDataNodes(b binder, refs []*DataNodeConfig, unresolved *[]nodeid.Address) []*DataNodeConfig {
	out := make([]*DataNodeConfig, 0, len(refs))
	for _, ref := range refs {
		if ref == nil {
			continue
		}
		if dn, ok := b.dataNode(ref.id); ok {
			out = append(out, dn)
			continue
		}
		*unresolved = append(*unresolved, ref.Address())
	}
	return out
}

func toRef(fn any) function.Ref {
	switch v := fn.(type) {
	case nil:
		return function.Ref{}
	case function.Ref:
		return v
	case string:
		return function.Named(v)
	default:
		return function.Of(fn)
	}
}

func builtinTask() *TaskConfig {
	return NewTaskConfig(DefaultID, nil, nil, nil).WithSkippable(false)
}
