package config

import (
	"reflect"
	"time"

	"github.com/specialistvlad/pipeconf/internal/storage"
	"github.com/specialistvlad/pipeconf/internal/tpl"
)

// DataNodeConfig describes a typed data source or sink.
type DataNodeConfig struct {
	section
	storageType    string
	scope          Scope
	validityPeriod any
	exposedType    any

	// ranks is keyed by scenario id. It is written by the rank assignor and
	// survives Clean and re-merges.
	ranks map[string]int
}

// NewDataNodeConfig creates an unregistered data node configuration.
func NewDataNodeConfig(id string, storageType storage.Type) *DataNodeConfig {
	return &DataNodeConfig{
		section:     section{kind: KindDataNode, id: id, properties: make(map[string]any)},
		storageType: string(storageType),
	}
}

// DeclareDataNode creates a data node configuration with every field unset.
func DeclareDataNode(id string) *DataNodeConfig {
	return NewDataNodeConfig(id, "")
}

// RefDataNode creates a reference to a data node by id, to be bound to the
// applied instance when the registry merges its layers.
func RefDataNode(id string) *DataNodeConfig {
	return DeclareDataNode(id)
}

// WithStorageType sets the storage type and returns d.
func (d *DataNodeConfig) WithStorageType(t storage.Type) *DataNodeConfig {
	d.storageType = string(t)
	return d
}

// WithScope sets the scope and returns d.
func (d *DataNodeConfig) WithScope(s Scope) *DataNodeConfig {
	d.scope = s
	return d
}

// WithValidityPeriod sets the validity period and returns d.
func (d *DataNodeConfig) WithValidityPeriod(p time.Duration) *DataNodeConfig {
	d.validityPeriod = p
	return d
}

// WithRawValidityPeriod stores a validity period exactly as a declarative
// source provides it. Malformed values are reported by the checker.
func (d *DataNodeConfig) WithRawValidityPeriod(v any) *DataNodeConfig {
	d.validityPeriod = v
	return d
}

// WithExposedType sets the exposed type, a tag or a reflect.Type, and returns d.
func (d *DataNodeConfig) WithExposedType(v any) *DataNodeConfig {
	d.exposedType = v
	return d
}

// WithProperty sets one property and returns d.
func (d *DataNodeConfig) WithProperty(key string, v any) *DataNodeConfig {
	d.setProperty(key, v)
	return d
}

// WithProperties sets several properties and returns d.
func (d *DataNodeConfig) WithProperties(props map[string]any) *DataNodeConfig {
	for k, v := range props {
		d.setProperty(k, v)
	}
	return d
}

// StorageType returns the storage type with placeholders resolved.
func (d *DataNodeConfig) StorageType() storage.Type {
	return storage.Type(tpl.ResolveString(d.storageType))
}

// Scope returns the scope with placeholders resolved. The value is not
// guaranteed to be valid; see Scope.Valid.
func (d *DataNodeConfig) Scope() Scope {
	return Scope(tpl.ResolveString(string(d.scope)))
}

// ValidityPeriod returns the validity period and whether one is set and
// well-formed. Strings are parsed with time.ParseDuration.
func (d *DataNodeConfig) ValidityPeriod() (time.Duration, bool) {
	switch v := tpl.Resolve(d.validityPeriod).(type) {
	case time.Duration:
		return v, true
	case string:
		p, err := time.ParseDuration(v)
		return p, err == nil
	}
	return 0, false
}

// RawValidityPeriod returns the validity period as declared.
func (d *DataNodeConfig) RawValidityPeriod() any { return d.validityPeriod }

// ExposedType returns a tag string, a reflect.Type, or nil.
func (d *DataNodeConfig) ExposedType() any {
	if s, ok := d.exposedType.(string); ok {
		return tpl.ResolveString(s)
	}
	return d.exposedType
}

// Descriptor decodes the resolved properties into the typed descriptor of
// the storage type.
func (d *DataNodeConfig) Descriptor() (storage.Descriptor, error) {
	return storage.Decode(d.StorageType(), d.Properties())
}

// Ranks returns a copy of the rank map, keyed by scenario id.
func (d *DataNodeConfig) Ranks() map[string]int {
	out := make(map[string]int, len(d.ranks))
	for k, v := range d.ranks {
		out[k] = v
	}
	return out
}

// Rank returns the rank of d in the given scenario.
func (d *DataNodeConfig) Rank(scenarioID string) (int, bool) {
	r, ok := d.ranks[scenarioID]
	return r, ok
}

// SetRank records the rank of d in the given scenario.
func (d *DataNodeConfig) SetRank(scenarioID string, rank int) {
	if d.ranks == nil {
		d.ranks = make(map[string]int)
	}
	d.ranks[scenarioID] = rank
}

// ResetRanks drops the entry of the given scenario.
func (d *DataNodeConfig) ResetRanks(scenarioID string) {
	delete(d.ranks, scenarioID)
}

// Clean resets every declared field. Ranks are kept.
func (d *DataNodeConfig) Clean() {
	d.cleanBase()
	d.storageType = ""
	d.scope = ""
	d.validityPeriod = nil
	d.exposedType = nil
}

func (d *DataNodeConfig) merge(_ binder, layers []Section) {
	for _, l := range layers {
		src := l.(*DataNodeConfig)
		if d.storageType == "" {
			d.storageType = src.storageType
		}
		if d.scope == "" {
			d.scope = src.scope
		}
		if d.validityPeriod == nil {
			d.validityPeriod = src.validityPeriod
		}
		if d.exposedType == nil {
			d.exposedType = src.exposedType
		}
	}
	d.properties = mergeProperties(layers)
}

func builtinDataNode() *DataNodeConfig {
	return NewDataNodeConfig(DefaultID, storage.Default).
		WithScope(ScopeScenario).
		WithExposedType(ExposedTable)
}

// CustomType is a helper returning the reflect.Type of v for WithExposedType.
func CustomType(v any) reflect.Type {
	return reflect.TypeOf(v)
}
