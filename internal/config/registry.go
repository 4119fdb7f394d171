package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/specialistvlad/pipeconf/internal/function"
	"github.com/specialistvlad/pipeconf/internal/nodeid"
	"github.com/specialistvlad/pipeconf/internal/storage"
)

// Registry holds the configuration layers and the applied view merged from
// them. It is not safe for concurrent mutation: callers configure it from a
// single goroutine during startup and only read it afterwards.
type Registry struct {
	defaults  map[Kind]Section
	python    *layer
	file      *layer
	applied   *layer
	functions *function.Registry
	sources   []string
}

// Option configures a Registry.
type Option func(*Registry)

// WithFunctions shares a function registry, so that references read from
// declarative sources bind to functions the host registered.
func WithFunctions(fr *function.Registry) Option {
	return func(r *Registry) {
		if fr != nil {
			r.functions = fr
		}
	}
}

// NewRegistry creates a registry holding only the built-in default sections.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		defaults: map[Kind]Section{
			KindDataNode: builtinDataNode(),
			KindTask:     builtinTask(),
			KindScenario: builtinScenario(),
		},
		python:    newLayer(),
		file:      newLayer(),
		applied:   newLayer(),
		functions: function.NewRegistry(),
	}
	for _, opt := range opts {
		opt(r)
	}
	r.apply()
	return r
}

// Register inserts or replaces a section in the programmatic layer and
// returns the applied instance for its kind and id. The same instance is
// returned for every registration of that kind and id.
func (r *Registry) Register(s Section) (Section, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot register a nil section")
	}
	if s.IsDefault() {
		return nil, &DuplicateIdError{Kind: s.Kind(), ID: s.ID()}
	}
	return r.put(s)
}

// SetDefault installs the kind-wide default section. Its id must be DefaultID.
func (r *Registry) SetDefault(s Section) (Section, error) {
	if s == nil {
		return nil, fmt.Errorf("cannot register a nil section")
	}
	if !s.IsDefault() {
		return nil, fmt.Errorf("default %s section must have id '%s', got '%s'", s.Kind(), DefaultID, s.ID())
	}
	return r.put(s)
}

func (r *Registry) put(s Section) (Section, error) {
	if !nodeid.ValidID(s.ID()) {
		return nil, fmt.Errorf("%w: %s '%s'", ErrInvalidID, s.Kind(), s.ID())
	}
	if s.base().owner != nil {
		s = r.snapshot(s)
	}

	next := r.python.with(s)
	if err := r.checkConstruction(s.Kind(), s.ID(), r.file, next); err != nil {
		return nil, err
	}

	r.registerFunctions(s)
	r.python = next
	r.apply()
	return r.applied.get(s.Kind(), s.ID()), nil
}

// LoadSections replaces the file layer with sections. Nothing changes when
// a section is invalid.
func (r *Registry) LoadSections(ctx context.Context, sections []Section, sources ...string) error {
	logger := ctxlog.FromContext(ctx)

	next := newLayer()
	for _, s := range sections {
		if s == nil {
			continue
		}
		if !nodeid.ValidID(s.ID()) {
			return fmt.Errorf("%w: %s '%s'", ErrInvalidID, s.Kind(), s.ID())
		}
		if next.get(s.Kind(), s.ID()) != nil {
			return &DuplicateIdError{Kind: s.Kind(), ID: s.ID(), Source: "the file layer"}
		}
		next.put(s)
	}
	for _, id := range next.ids(KindDataNode) {
		if err := r.checkConstruction(KindDataNode, id, next, r.python); err != nil {
			return err
		}
	}

	for _, kind := range Kinds() {
		for _, s := range next.list(kind) {
			r.registerFunctions(s)
		}
	}
	r.file = next
	r.sources = append([]string(nil), sources...)
	r.apply()

	logger.Debug("File layer replaced.",
		"data_nodes", next.len(KindDataNode),
		"tasks", next.len(KindTask),
		"scenarios", next.len(KindScenario),
	)
	return nil
}

// Load reads sections through loader and installs them as the file layer.
func (r *Registry) Load(ctx context.Context, loader Loader, paths ...string) error {
	sections, err := loader.Load(ctx, paths...)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	return r.LoadSections(ctx, sections, paths...)
}

// Get returns the applied section of the given kind and id.
func (r *Registry) Get(kind Kind, id string) (Section, error) {
	if s := r.applied.get(kind, id); s != nil {
		return s, nil
	}
	return nil, &NotFoundError{Kind: kind, ID: id}
}

// Lookup resolves an address such as `TASK.t1`.
func (r *Registry) Lookup(addr nodeid.Address) (Section, error) {
	kind, ok := ParseKind(addr.Kind)
	if !ok {
		return nil, &NotFoundError{Kind: Kind(addr.Kind), ID: addr.ID}
	}
	return r.Get(kind, addr.ID)
}

// DataNode returns the applied data node configuration with the given id.
func (r *Registry) DataNode(id string) (*DataNodeConfig, error) {
	s, err := r.Get(KindDataNode, id)
	if err != nil {
		return nil, err
	}
	return s.(*DataNodeConfig), nil
}

// Task returns the applied task configuration with the given id.
func (r *Registry) Task(id string) (*TaskConfig, error) {
	s, err := r.Get(KindTask, id)
	if err != nil {
		return nil, err
	}
	return s.(*TaskConfig), nil
}

// Scenario returns the applied scenario configuration with the given id.
func (r *Registry) Scenario(id string) (*ScenarioConfig, error) {
	s, err := r.Get(KindScenario, id)
	if err != nil {
		return nil, err
	}
	return s.(*ScenarioConfig), nil
}

// Sections returns the applied sections of a kind, default section first,
// then in declaration order.
func (r *Registry) Sections(kind Kind) []Section {
	return r.applied.list(kind)
}

// DataNodes returns every applied data node configuration.
func (r *Registry) DataNodes() []*DataNodeConfig {
	return sectionsAs[*DataNodeConfig](r.applied.list(KindDataNode))
}

// Tasks returns every applied task configuration.
func (r *Registry) Tasks() []*TaskConfig {
	return sectionsAs[*TaskConfig](r.applied.list(KindTask))
}

// Scenarios returns every applied scenario configuration.
func (r *Registry) Scenarios() []*ScenarioConfig {
	return sectionsAs[*ScenarioConfig](r.applied.list(KindScenario))
}

// Count returns the number of applied sections of a kind, including the
// default section.
func (r *Registry) Count(kind Kind) int {
	return r.applied.len(kind)
}

// Functions returns the function registry used to bind named references.
func (r *Registry) Functions() *function.Registry {
	return r.functions
}

// Sources returns the paths the file layer was loaded from.
func (r *Registry) Sources() []string {
	return append([]string(nil), r.sources...)
}

func sectionsAs[T Section](in []Section) []T {
	out := make([]T, 0, len(in))
	for _, s := range in {
		out = append(out, s.(T))
	}
	return out
}

// apply rebuilds the applied layer in place.
func (r *Registry) apply() {
	for _, kind := range Kinds() {
		ids := r.idsOf(kind)
		keep := make(map[string]struct{}, len(ids))
		for _, id := range ids {
			keep[id] = struct{}{}
			target := r.applied.get(kind, id)
			if target == nil {
				target = declare(kind, id)
				target.base().owner = r
				r.applied.put(target)
			}
			layers := r.layersFor(kind, id, r.file, r.python, r.applied.get(kind, DefaultID))
			target.Clean()
			target.merge(r, layers)
		}
		r.applied.retain(kind, keep)
	}
}

// idsOf lists the ids of a kind across layers: the default first, then the
// programmatic layer, then ids only the file layer declares.
func (r *Registry) idsOf(kind Kind) []string {
	ids := []string{DefaultID}
	seen := map[string]struct{}{DefaultID: {}}
	for _, l := range []*layer{r.python, r.file} {
		for _, id := range l.ids(kind) {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// layersFor returns the sections contributing to (kind, id), most specific
// first.
func (r *Registry) layersFor(kind Kind, id string, file, python *layer, def Section) []Section {
	var layers []Section
	if s := file.get(kind, id); s != nil {
		layers = append(layers, s)
	}
	if s := python.get(kind, id); s != nil {
		layers = append(layers, s)
	}
	if id == DefaultID || def == nil {
		layers = append(layers, r.defaults[kind])
	} else {
		layers = append(layers, def)
	}
	return layers
}

// effective merges (kind, id) from the given layers into a detached section.
func (r *Registry) effective(kind Kind, id string, file, python *layer) Section {
	var def Section
	if id != DefaultID {
		def = r.effective(kind, DefaultID, file, python)
	}
	out := declare(kind, id)
	out.merge(r, r.layersFor(kind, id, file, python, def))
	return out
}

// checkConstruction enforces the properties a storage backend cannot be
// built without, on the data node that (kind, id) would become.
func (r *Registry) checkConstruction(kind Kind, id string, file, python *layer) error {
	if kind != KindDataNode || id == DefaultID {
		return nil
	}
	dn := r.effective(kind, id, file, python).(*DataNodeConfig)
	// Other decode failures are checker issues.
	_, err := dn.Descriptor()
	var missing *storage.MissingRequiredPropertyError
	if errors.As(err, &missing) {
		return fmt.Errorf("cannot construct data node '%s': %w", id, err)
	}
	return nil
}

// snapshot copies an applied section into a detached one.
func (r *Registry) snapshot(s Section) Section {
	out := declare(s.Kind(), s.ID())
	out.merge(r, []Section{s})
	return out
}

// counterpart returns the programmatic-layer section of (kind, id), creating
// an empty one when the section was only declared in a file.
func (r *Registry) counterpart(kind Kind, id string) Section {
	if s := r.python.get(kind, id); s != nil {
		return s
	}
	s := declare(kind, id)
	r.python.put(s)
	return s
}

func (r *Registry) registerFunctions(s Section) {
	var refs []function.Ref
	switch t := s.(type) {
	case *TaskConfig:
		refs = append(refs, t.function)
	case *ScenarioConfig:
		for _, fns := range t.comparators {
			refs = append(refs, fns...)
		}
	}
	for _, v := range s.base().properties {
		if ref, ok := v.(function.Ref); ok {
			refs = append(refs, ref)
		}
	}
	for _, ref := range refs {
		if err := r.functions.RegisterRef(ref); err != nil {
			slog.Warn("Function name already bound; keeping the first.", "section", s.Address().String(), "error", err)
		}
	}
}

// binder resolves references by id into the applied layer.
type binder interface {
	dataNode(id string) (*DataNodeConfig, bool)
	task(id string) (*TaskConfig, bool)
	bindFunction(ref function.Ref) function.Ref
}

func (r *Registry) dataNode(id string) (*DataNodeConfig, bool) {
	s, ok := r.applied.get(KindDataNode, id).(*DataNodeConfig)
	return s, ok
}

func (r *Registry) task(id string) (*TaskConfig, bool) {
	s, ok := r.applied.get(KindTask, id).(*TaskConfig)
	return s, ok
}

func (r *Registry) bindFunction(ref function.Ref) function.Ref {
	return r.functions.Bind(ref)
}

func declare(kind Kind, id string) Section {
	switch kind {
	case KindDataNode:
		return DeclareDataNode(id)
	case KindTask:
		return DeclareTask(id)
	case KindScenario:
		return DeclareScenario(id)
	}
	panic(fmt.Sprintf("config: unknown section kind '%s'", kind))
}
