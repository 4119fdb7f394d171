package storage

import (
	"reflect"
	"sort"

	"github.com/specialistvlad/pipeconf/internal/function"
)

// PropKind is the expected type of a storage property.
type PropKind int

const (
	KindAny PropKind = iota
	KindString
	KindBool
	KindInt
	KindList
	KindMap
	KindFunction
)

func (k PropKind) String() string {
	switch k {
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindList:
		return "list"
	case KindMap:
		return "map"
	case KindFunction:
		return "named function"
	default:
		return "any"
	}
}

// Rule is the closed description of one storage type.
type Rule struct {
	Type Type
	// Required properties, whatever the other properties say.
	Required []string
	// Optional properties the backend understands.
	Optional []string
	// Types maps property keys to the kind their value must have when set.
	Types map[string]PropKind
	// Engine lists extra required properties when the db_engine property is
	// set, keyed by engine. The "*" entry applies to any engine not listed.
	Engine map[string][]string
	// AtLeastOne lists properties of which one must be present on a concrete
	// (non default) section.
	AtLeastOne []string
	// Construction lists properties without which the backend cannot be built.
	Construction []string
}

var sqlEngines = map[string][]string{
	EngineSQLite: nil,
	"*":          {PropDBUsername, PropDBPassword},
}

var sqlOptional = []string{PropDBUsername, PropDBPassword, PropDBHost, PropDBPort, PropDBDriver, PropDBExtraArgs, PropSQLiteFolder, PropSQLiteExt}

var rules = map[Type]Rule{
	CSV: {
		Type:     CSV,
		Optional: []string{PropDefaultPath, PropEncoding, PropHasHeader},
		Types:    map[string]PropKind{PropDefaultPath: KindString, PropEncoding: KindString, PropHasHeader: KindBool},
	},
	Excel: {
		Type:     Excel,
		Optional: []string{PropDefaultPath, PropHasHeader, PropSheetName},
		Types:    map[string]PropKind{PropDefaultPath: KindString, PropHasHeader: KindBool},
	},
	JSON: {
		Type:     JSON,
		Optional: []string{PropDefaultPath, PropEncoding, PropEncoder, PropDecoder},
		Types:    map[string]PropKind{PropDefaultPath: KindString, PropEncoding: KindString, PropEncoder: KindFunction, PropDecoder: KindFunction},
	},
	Parquet: {
		Type:     Parquet,
		Optional: []string{PropDefaultPath, PropEngine, PropCompression, PropReadKwargs, PropWriteKwargs},
		Types:    map[string]PropKind{PropDefaultPath: KindString, PropEngine: KindString, PropCompression: KindString, PropReadKwargs: KindMap, PropWriteKwargs: KindMap},
	},
	Pickle: {
		Type:     Pickle,
		Optional: []string{PropDefaultPath, PropDefaultData},
		Types:    map[string]PropKind{PropDefaultPath: KindString},
	},
	InMemory: {
		Type:     InMemory,
		Optional: []string{PropDefaultData},
	},
	SQLTable: {
		Type:     SQLTable,
		Required: []string{PropDBName, PropDBEngine, PropTableName},
		Optional: sqlOptional,
		Types:    map[string]PropKind{PropDBName: KindString, PropDBEngine: KindString, PropTableName: KindString, PropDBExtraArgs: KindMap},
		Engine:   sqlEngines,
	},
	SQL: {
		Type:     SQL,
		Required: []string{PropDBName, PropDBEngine, PropReadQuery, PropWriteQuery},
		Optional: append([]string{PropAppendQuery}, sqlOptional...),
		Types: map[string]PropKind{
			PropDBName: KindString, PropDBEngine: KindString, PropReadQuery: KindString,
			PropWriteQuery: KindFunction, PropAppendQuery: KindFunction, PropDBExtraArgs: KindMap,
		},
		Engine: sqlEngines,
	},
	MongoCollection: {
		Type:     MongoCollection,
		Required: []string{PropDBName, PropCollection},
		Optional: []string{PropCustomDoc, PropDBUsername, PropDBPassword, PropDBHost, PropDBPort, PropDBDriver, PropDBExtraArgs},
		Types:    map[string]PropKind{PropDBName: KindString, PropCollection: KindString, PropDBExtraArgs: KindMap},
	},
	Generic: {
		Type:       Generic,
		Optional:   []string{PropReadFct, PropWriteFct, PropReadFctArgs, PropWriteFctArgs},
		Types:      map[string]PropKind{PropReadFct: KindFunction, PropWriteFct: KindFunction, PropReadFctArgs: KindList, PropWriteFctArgs: KindList},
		AtLeastOne: []string{PropReadFct, PropWriteFct},
	},
	S3Object: {
		Type:         S3Object,
		Required:     []string{PropAWSAccessKey, PropAWSSecretKey, PropAWSBucket, PropAWSObjectKey},
		Optional:     []string{PropAWSRegion, PropAWSObjParams},
		Types:        map[string]PropKind{PropAWSRegion: KindString, PropAWSObjParams: KindMap},
		Construction: []string{PropAWSAccessKey, PropAWSSecretKey, PropAWSBucket, PropAWSObjectKey},
	},
}

// RuleFor returns the rule of storage type t.
func RuleFor(t Type) (Rule, bool) {
	r, ok := rules[t]
	return r, ok
}

// RequiredProperties returns the sorted set of properties the storage type
// requires given the declared properties, including the sub-engine set.
func (r Rule) RequiredProperties(props map[string]any) []string {
	set := make(map[string]struct{}, len(r.Required))
	for _, p := range r.Required {
		set[p] = struct{}{}
	}
	if len(r.Engine) > 0 {
		if engine, ok := props[PropDBEngine].(string); ok && engine != "" {
			extra, known := r.Engine[engine]
			if !known {
				extra = r.Engine["*"]
			}
			for _, p := range extra {
				set[p] = struct{}{}
			}
		}
	}
	out := make([]string, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// MissingRequired returns the required properties absent from props.
func (r Rule) MissingRequired(props map[string]any) []string {
	var missing []string
	for _, p := range r.RequiredProperties(props) {
		if _, ok := props[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

// TypedKeys returns the keys of r.Types in sorted order.
func (r Rule) TypedKeys() []string {
	keys := make([]string, 0, len(r.Types))
	for k := range r.Types {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// MatchKind reports whether v has kind k. Function-valued properties must
// also be named: anonymous functions cannot be serialized.
func MatchKind(k PropKind, v any) bool {
	switch k {
	case KindAny:
		return true
	case KindString:
		_, ok := v.(string)
		return ok
	case KindBool:
		_, ok := v.(bool)
		return ok
	case KindInt:
		switch v.(type) {
		case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
			return true
		}
		return false
	case KindList:
		if v == nil {
			return false
		}
		kind := reflect.TypeOf(v).Kind()
		return kind == reflect.Slice || kind == reflect.Array
	case KindMap:
		return v != nil && reflect.TypeOf(v).Kind() == reflect.Map
	case KindFunction:
		ref, ok := v.(function.Ref)
		if !ok {
			ref = function.Of(v)
		}
		return ref.IsCallable() && !ref.IsAnonymous()
	}
	return false
}
