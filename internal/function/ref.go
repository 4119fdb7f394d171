// Package function provides the callable reference used by task functions,
// comparators and storage hooks. The configuration core never invokes a
// referenced function; it only checks identity and whether the reference can
// be serialized by name.
package function

import (
	"reflect"
	"regexp"
	"runtime"
	"strings"
)

// closureName matches the symbol names the Go toolchain gives to function
// literals and bound method values.
var closureName = regexp.MustCompile(`(\.func\d+(\.\d+)*|-fm)$`)

// genericName marks instantiations of generic functions. The runtime names
// every instantiation `pkg.F[...]`, so the name does not identify one.
const genericName = "[...]"

// Ref is a reference to a function, identified by its fully qualified name.
type Ref struct {
	name string
	fn   any
}

// Of captures a Go function value. The reference name is the symbol name
// reported by the runtime, e.g. `github.com/acme/etl.Sum`.
func Of(fn any) Ref {
	if fn == nil {
		return Ref{}
	}
	v := reflect.ValueOf(fn)
	if v.Kind() != reflect.Func || v.IsNil() {
		return Ref{fn: fn}
	}
	var name string
	if f := runtime.FuncForPC(v.Pointer()); f != nil {
		name = f.Name()
	}
	return Ref{name: name, fn: fn}
}

// Named builds a reference from a name alone, as found in declarative sources.
func Named(name string) Ref {
	return Ref{name: strings.TrimSpace(name)}
}

// Name returns the qualified name, or "" for a zero reference.
func (r Ref) Name() string { return r.name }

// Func returns the bound Go value, if any.
func (r Ref) Func() any { return r.fn }

// String implements fmt.Stringer.
func (r Ref) String() string {
	if r.name == "" && r.fn != nil {
		return "<unnamed>"
	}
	return r.name
}

// IsZero reports whether the reference is unset.
func (r Ref) IsZero() bool { return r.name == "" && r.fn == nil }

// IsCallable reports whether the reference designates a function: either a
// bound Go func or a name to be resolved by the host.
func (r Ref) IsCallable() bool {
	if r.fn != nil {
		return reflect.ValueOf(r.fn).Kind() == reflect.Func
	}
	return r.name != ""
}

// IsAnonymous reports whether the reference cannot be serialized by name:
// function literals, bound method values, generic instantiations, or values
// without a symbol name.
func (r Ref) IsAnonymous() bool {
	if r.name == "" {
		return r.fn != nil
	}
	return closureName.MatchString(r.name) || strings.Contains(r.name, genericName)
}

// Equal compares references by identity, which is their name.
func (r Ref) Equal(other Ref) bool {
	if r.name == "" && other.name == "" {
		return r.fn == nil && other.fn == nil
	}
	return r.name == other.name
}

// ShortName returns the last path element of the name, e.g. `etl.Sum`.
func (r Ref) ShortName() string {
	if i := strings.LastIndex(r.name, "/"); i >= 0 {
		return r.name[i+1:]
	}
	return r.name
}

// Bind returns a copy of r carrying fn.
func (r Ref) Bind(fn any) Ref {
	r.fn = fn
	return r
}
