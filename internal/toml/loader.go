package toml

import (
	"context"
	"fmt"
	"sort"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/specialistvlad/pipeconf/internal/fsutil"
	"github.com/spf13/afero"
)

// Extension is the file extension handled by this package.
const Extension = ".toml"

// Loader is the TOML implementation of the config.Loader interface.
type Loader struct {
	fs afero.Fs
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates a TOML loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// Load reads every .toml file found under paths. Missing paths are skipped.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]config.Section, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("TOML loader started.", "path_count", len(paths))

	files, err := fsutil.Discover(ctx, l.fs, paths, Extension)
	if err != nil {
		return nil, err
	}

	var sections []config.Section
	for _, file := range files {
		data, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read TOML file %s: %w", file, err)
		}
		parsed, err := Parse(ctx, file, data)
		if err != nil {
			return nil, err
		}
		sections = append(sections, parsed...)
	}

	logger.Debug("TOML loading complete.", "files", len(files), "sections", len(sections))
	return sections, nil
}

// Parse translates one TOML document into sections, in the order their
// tables appear. name is only used in error messages.
func Parse(ctx context.Context, name string, data []byte) ([]config.Section, error) {
	logger := ctxlog.FromContext(ctxlog.With(ctx, "file", name))

	var root map[string]any
	md, err := toml.Decode(string(data), &root)
	if err != nil {
		return nil, fmt.Errorf("failed to parse TOML file %s: %w", name, err)
	}

	for _, key := range sortedKeys(root) {
		if _, ok := config.ParseKind(key); !ok {
			logger.Debug("Ignoring unknown top-level table.", "table", key)
			continue
		}
		if _, ok := root[key].(map[string]any); !ok {
			return nil, fmt.Errorf("%s: '%s' must be a table", name, key)
		}
	}

	var sections []config.Section
	for _, ref := range declarationOrder(md, root) {
		tables := root[ref.table].(map[string]any)
		table, ok := tables[ref.id].(map[string]any)
		if !ok {
			return nil, fmt.Errorf("%s: section %s.%s must be a table", name, ref.kind, ref.id)
		}

		decoded, err := config.DecodeValue(table)
		if err != nil {
			return nil, fmt.Errorf("%s: section %s.%s: %w", name, ref.kind, ref.id, err)
		}
		s, err := config.FromFields(ref.kind, ref.id, decoded.(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("%s: section %s.%s: %w", name, ref.kind, ref.id, err)
		}
		sections = append(sections, s)
	}

	logger.Debug("Parsed TOML file.", "sections", len(sections))
	return sections, nil
}

type sectionKey struct {
	table string
	kind  config.Kind
	id    string
}

// declarationOrder lists the sections of root in the order their keys first
// appear in the document.
func declarationOrder(md toml.MetaData, root map[string]any) []sectionKey {
	var out []sectionKey
	seen := make(map[sectionKey]struct{})
	add := func(table, id string) {
		kind, ok := config.ParseKind(table)
		if !ok {
			return
		}
		k := sectionKey{table: table, kind: kind, id: id}
		if _, ok := seen[k]; ok {
			return
		}
		seen[k] = struct{}{}
		out = append(out, k)
	}

	for _, key := range md.Keys() {
		if len(key) >= 2 {
			add(key[0], key[1])
		}
	}
	// Sections given as inline tables may not list their ids as keys.
	for _, table := range sortedKeys(root) {
		if ids, ok := root[table].(map[string]any); ok {
			for _, id := range sortedKeys(ids) {
				add(table, id)
			}
		}
	}
	return out
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
