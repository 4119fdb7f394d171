package tpl

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
)

var pattern = regexp.MustCompile(`^ENV\[([a-zA-Z_]\w*)\](?::(bool|str|float|int))?$`)

// LookupFunc returns the value of a variable and whether it was present.
type LookupFunc func(name string) (string, bool)

// Resolver substitutes placeholders using a lookup function.
type Resolver struct {
	lookup LookupFunc
}

// New returns a Resolver backed by lookup. A nil lookup reads the process
// environment.
func New(lookup LookupFunc) *Resolver {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	return &Resolver{lookup: lookup}
}

var std = New(os.LookupEnv)

// Resolve resolves v against the process environment.
func Resolve(v any) any {
	return std.Resolve(v)
}

// ResolveString resolves s against the process environment and formats the
// result back into a string.
func ResolveString(s string) string {
	return std.ResolveString(s)
}

// IsTemplate reports whether s is a placeholder, resolved or not.
func IsTemplate(s string) bool {
	return pattern.MatchString(s)
}

// Resolve walks v and replaces every placeholder string it finds. Slices and
// maps are copied, never modified in place.
func (r *Resolver) Resolve(v any) any {
	switch t := v.(type) {
	case string:
		return r.resolve(t)
	case []string:
		out := make([]string, len(t))
		for i, s := range t {
			out[i] = r.ResolveString(s)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = r.Resolve(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = r.Resolve(item)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(t))
		for k, s := range t {
			out[k] = r.ResolveString(s)
		}
		return out
	default:
		return v
	}
}

// ResolveString resolves s and formats the result back into a string.
func (r *Resolver) ResolveString(s string) string {
	switch v := r.resolve(s).(type) {
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Unresolved reports whether v is a placeholder whose variable is absent
// or whose cast fails.
func (r *Resolver) Unresolved(v any) bool {
	s, ok := v.(string)
	if !ok || !IsTemplate(s) {
		return false
	}
	out, ok := r.resolve(s).(string)
	return ok && out == s
}

func (r *Resolver) resolve(s string) any {
	m := pattern.FindStringSubmatch(s)
	if m == nil {
		return s
	}
	val, ok := r.lookup(m[1])
	if !ok {
		return s
	}

	switch m[2] {
	case "int":
		n, err := strconv.Atoi(val)
		if err != nil {
			return s
		}
		return n
	case "float":
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return s
		}
		return f
	case "bool":
		b, err := strconv.ParseBool(val)
		if err != nil {
			return s
		}
		return b
	default:
		return val
	}
}
