package config

import (
	"reflect"
	"sort"
	"time"

	"github.com/mitchellh/copystructure"
	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/specialistvlad/pipeconf/internal/nodeid"
	"github.com/specialistvlad/pipeconf/internal/tpl"
)

// Section is an identified, property-bearing configuration unit. The set of
// implementations is closed: DataNodeConfig, TaskConfig and ScenarioConfig.
type Section interface {
	Kind() Kind
	ID() string
	Address() nodeid.Address
	IsDefault() bool

	// Properties returns a copy of the properties with placeholders resolved.
	Properties() map[string]any
	// RawProperties returns a copy of the properties as declared.
	RawProperties() map[string]any
	// Property returns one resolved property.
	Property(key string) (any, bool)
	// SetProperty stores a property. On an applied section the change is
	// also recorded in the programmatic layer so it survives re-merges.
	SetProperty(key string, value any)

	// Clean resets every mutable field without changing object identity.
	Clean()
	// Unresolved lists references that did not match a declared section.
	Unresolved() []nodeid.Address

	base() *section
	merge(b binder, layers []Section)
}

// section carries what every kind shares.
type section struct {
	kind       Kind
	id         string
	properties map[string]any
	unresolved []nodeid.Address

	// owner is set on applied sections only.
	owner *Registry
}

func (s *section) Kind() Kind { return s.kind }
func (s *section) ID() string { return s.id }
func (s *section) Address() nodeid.Address { return nodeid.New(string(s.kind), s.id) }
func (s *section) IsDefault() bool { return s.id == DefaultID }
func (s *section) base() *section { return s }
func (s *section) Unresolved() []nodeid.Address { return append([]nodeid.Address(nil), s.unresolved...) }
func (s *section) RawProperties() map[string]any { return copyProperties(s.properties) }
func (s *section) Properties() map[string]any { return tpl.Resolve(copyProperties(s.properties)).(map[string]any) }
func (s *section) setProperty(key string, v any) { s.ensureProperties()[key] = normalizeValue(v) }
func (s *section) ensureProperties() map[string]any {
	if s.properties == nil {
		s.properties = make(map[string]any)
	}
	return s.properties
}

func (s *section) SetProperty(key string, v any) {
	if m := s.mirror(); m != nil {
		m.base().setProperty(key, v)
	}
	s.setProperty(key, v)
}

// mirror returns the programmatic-layer counterpart of an applied section.
func (s *section) mirror() Section {
	if s.owner == nil {
		return nil
	}
	return s.owner.counterpart(s.kind, s.id)
}

func (s *section) Property(key string) (any, bool) {
	v, ok := s.properties[key]
	if !ok {
		return nil, false
	}
	return tpl.Resolve(copyValue(v)), true
}

func (s *section) cleanBase() {
	s.properties = make(map[string]any)
	s.unresolved = nil
}

// PropertyKeys returns the property keys of s in sorted order.
func PropertyKeys(s Section) []string {
	props := s.base().properties
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// mergeProperties overlays the property maps of layers, least specific
// first, so that more specific layers win key by key.
func mergeProperties(layers []Section) map[string]any {
	out := make(map[string]any)
	for i := len(layers) - 1; i >= 0; i-- {
		for k, v := range layers[i].base().properties {
			out[k] = copyValue(v)
		}
	}
	return out
}

var copyConfig = copystructure.Config{
	Copiers: map[reflect.Type]copystructure.CopierFunc{
		reflect.TypeOf(function.Ref{}): identityCopy,
		reflect.TypeOf(time.Time{}):    identityCopy,
	},
	ShallowCopiers: map[reflect.Type]struct{}{
		reflect.TypeOf(reflect.TypeOf(0)): {},
	},
}

func identityCopy(v interface{}) (interface{}, error) { return v, nil }

func copyValue(v any) any {
	if v == nil {
		return nil
	}
	out, err := copyConfig.Copy(v)
	if err != nil {
		return v
	}
	return out
}

func copyProperties(props map[string]any) map[string]any {
	out := make(map[string]any, len(props))
	for k, v := range props {
		out[k] = copyValue(v)
	}
	return out
}

// normalizeValue turns Go function values into named references so that
// properties stay comparable and serializable.
func normalizeValue(v any) any {
	if v == nil {
		return nil
	}
	if _, ok := v.(function.Ref); ok {
		return v
	}
	if reflect.TypeOf(v).Kind() == reflect.Func {
		return function.Of(v)
	}
	return v
}
