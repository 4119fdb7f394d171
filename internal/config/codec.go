package config

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/specialistvlad/pipeconf/internal/tpl"
)

// Suffixes tag string values in declarative sources with the type they stand
// for, as in "dn1:SECTION" or "3:int".
const (
	SuffixSection   = "SECTION"
	SuffixInt       = "int"
	SuffixFloat     = "float"
	SuffixBool      = "bool"
	SuffixTimedelta = "timedelta"
	SuffixFunction  = "function"
	SuffixScope     = "SCOPE"
	SuffixFrequency = "FREQUENCY"
)

// SectionRef is a reference to another section by id, as read from a
// declarative source.
type SectionRef string

// EncodeValue renders v in its tagged string form. Lists and maps are
// encoded element by element. Strings pass through unchanged.
func EncodeValue(v any) any {
	switch t := v.(type) {
	case nil:
		return nil
	case string:
		return t
	case bool:
		return tag(strconv.FormatBool(t), SuffixBool)
	case time.Duration:
		return tag(t.String(), SuffixTimedelta)
	case function.Ref:
		return tag(t.Name(), SuffixFunction)
	case Scope:
		return tag(string(t), SuffixScope)
	case Frequency:
		return tag(string(t), SuffixFrequency)
	case SectionRef:
		return tag(string(t), SuffixSection)
	case Section:
		return tag(t.ID(), SuffixSection)
	case reflect.Type:
		return t.String()
	case []string:
		out := make([]any, len(t))
		for i, s := range t {
			out[i] = s
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = EncodeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = EncodeValue(item)
		}
		return out
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return tag(strconv.FormatInt(rv.Int(), 10), SuffixInt)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return tag(strconv.FormatUint(rv.Uint(), 10), SuffixInt)
	case reflect.Float32, reflect.Float64:
		return tag(strconv.FormatFloat(rv.Float(), 'g', -1, 64), SuffixFloat)
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = EncodeValue(rv.Index(i).Interface())
		}
		return out
	case reflect.Func:
		return tag(function.Of(v).Name(), SuffixFunction)
	}
	return fmt.Sprint(v)
}

// DecodeValue reverses EncodeValue. Placeholders and untagged strings are
// returned unchanged; non-string scalars from the source are kept as is.
func DecodeValue(v any) (any, error) {
	switch t := v.(type) {
	case string:
		return decodeString(t)
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			d, err := DecodeValue(item)
			if err != nil {
				return nil, err
			}
			out[i] = d
		}
		return out, nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			d, err := DecodeValue(item)
			if err != nil {
				return nil, fmt.Errorf("key '%s': %w", k, err)
			}
			out[k] = d
		}
		return out, nil
	}
	return v, nil
}

func decodeString(s string) (any, error) {
	if tpl.IsTemplate(s) {
		return s, nil
	}
	i := strings.LastIndex(s, ":")
	if i < 0 {
		return s, nil
	}
	raw, suffix := s[:i], s[i+1:]

	var (
		out any
		err error
	)
	switch suffix {
	case SuffixSection:
		out = SectionRef(raw)
	case SuffixInt:
		out, err = strconv.Atoi(raw)
	case SuffixFloat:
		out, err = strconv.ParseFloat(raw, 64)
	case SuffixBool:
		out, err = strconv.ParseBool(raw)
	case SuffixTimedelta:
		out, err = time.ParseDuration(raw)
	case SuffixFunction:
		out = function.Named(raw)
	case SuffixScope:
		out = Scope(raw)
	case SuffixFrequency:
		out = Frequency(raw)
	default:
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("invalid %s value '%s': %w", suffix, raw, err)
	}
	return out, nil
}

func tag(raw, suffix string) string {
	return raw + ":" + suffix
}
