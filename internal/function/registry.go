package function

import (
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"
	"sync"
)

// ErrNameTaken is returned when a name is already bound to another function.
var ErrNameTaken = errors.New("function name already registered")

// Registry holds the Go functions known to the process, keyed by name. It
// lets references loaded from declarative sources be bound back to code.
type Registry struct {
	mu  sync.RWMutex
	all map[string]any
}

// NewRegistry creates and initializes an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		all: make(map[string]any),
	}
}

// Register stores fn under name. Registering the same function twice is a
// no-op; a different function under a taken name fails with ErrNameTaken
// and the first one is kept.
func (r *Registry) Register(name string, fn any) error {
	if name == "" {
		return fmt.Errorf("function name must not be empty")
	}
	if fn == nil || reflect.ValueOf(fn).Kind() != reflect.Func {
		return fmt.Errorf("value registered as '%s' is not a function", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.all[name]; ok {
		if reflect.ValueOf(existing).Pointer() == reflect.ValueOf(fn).Pointer() {
			return nil
		}
		return fmt.Errorf("%w: '%s'", ErrNameTaken, name)
	}
	slog.Debug("Registering function.", "name", name)
	r.all[name] = fn
	return nil
}

// RegisterRef stores the function carried by ref under its name. References
// without a bound function or with an anonymous name are skipped.
func (r *Registry) RegisterRef(ref Ref) error {
	if ref.fn == nil || ref.IsAnonymous() {
		return nil
	}
	return r.Register(ref.name, ref.fn)
}

// Lookup returns the function registered under name.
func (r *Registry) Lookup(name string) (any, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	fn, ok := r.all[name]
	return fn, ok
}

// Bind attaches the registered function to ref when ref has none.
func (r *Registry) Bind(ref Ref) Ref {
	if ref.fn != nil || ref.name == "" {
		return ref
	}
	if fn, ok := r.Lookup(ref.name); ok {
		return ref.Bind(fn)
	}
	return ref
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.all))
	for name := range r.all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
