package config

import (
	"reflect"
	"strings"
)

// Kind groups sections of the same type.
type Kind string

const (
	KindDataNode Kind = "DATA_NODE"
	KindTask     Kind = "TASK"
	KindScenario Kind = "SCENARIO"
)

// DefaultID is the reserved id of the kind-wide default section.
const DefaultID = "default"

// Kinds returns every kind in dependency order: a kind only references kinds
// listed before it.
func Kinds() []Kind {
	return []Kind{KindDataNode, KindTask, KindScenario}
}

// ParseKind accepts the canonical upper-case tag or its lower-case form.
func ParseKind(s string) (Kind, bool) {
	k := Kind(strings.ToUpper(strings.TrimSpace(s)))
	switch k {
	case KindDataNode, KindTask, KindScenario:
		return k, true
	}
	return "", false
}

// Scope is the lifetime class of a data node.
type Scope string

const (
	ScopeGlobal   Scope = "GLOBAL"
	ScopeCycle    Scope = "CYCLE"
	ScopeScenario Scope = "SCENARIO"
	ScopePipeline Scope = "PIPELINE"
)

// Scopes returns every recognized scope.
func Scopes() []Scope {
	return []Scope{ScopeGlobal, ScopeCycle, ScopeScenario, ScopePipeline}
}

// Valid reports whether s is a recognized scope tag.
func (s Scope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopeCycle, ScopeScenario, ScopePipeline:
		return true
	}
	return false
}

// Frequency is the recurrence of a scenario.
type Frequency string

const (
	FrequencyDaily     Frequency = "DAILY"
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyYearly    Frequency = "YEARLY"
)

// Frequencies returns every recognized frequency.
func Frequencies() []Frequency {
	return []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyQuarterly, FrequencyYearly}
}

// Valid reports whether f is a recognized frequency tag.
func (f Frequency) Valid() bool {
	for _, known := range Frequencies() {
		if f == known {
			return true
		}
	}
	return false
}

// Exposed type tags describe how a data node hands its data to task
// functions. Any other value must be a reflect.Type naming a custom type.
const (
	ExposedTable   = "table"
	ExposedRecords = "records"
	ExposedArray   = "array"
)

// ExposedTypes returns the known exposed type tags.
func ExposedTypes() []string {
	return []string{ExposedTable, ExposedRecords, ExposedArray}
}

// KnownExposedType reports whether v is a known tag or a custom type.
func KnownExposedType(v any) bool {
	switch t := v.(type) {
	case string:
		for _, known := range ExposedTypes() {
			if t == known {
				return true
			}
		}
		return false
	case reflect.Type:
		return t != nil
	}
	return false
}
