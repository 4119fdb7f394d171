package hcl

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/specialistvlad/pipeconf/internal/fsutil"
	"github.com/spf13/afero"
)

// Extension is the file extension handled by this package.
const Extension = ".hcl"

// Loader is the HCL implementation of the config.Loader interface.
type Loader struct {
	fs afero.Fs
}

var _ config.Loader = (*Loader)(nil)

// NewLoader creates an HCL loader reading from fs.
func NewLoader(fs afero.Fs) *Loader {
	return &Loader{fs: fs}
}

// sectionBlock is one labelled block of a file.
type sectionBlock struct {
	ID   string   `hcl:"id,label"`
	Body hcl.Body `hcl:",remain"`
}

// fileRoot is used to decode all possible top-level blocks from any file.
type fileRoot struct {
	DataNodes []*sectionBlock `hcl:"data_node,block"`
	Tasks     []*sectionBlock `hcl:"task,block"`
	Scenarios []*sectionBlock `hcl:"scenario,block"`
	Remain    hcl.Body        `hcl:",remain"`
}

// declaration is a block ready for evaluation.
type declaration struct {
	file  string
	kind  config.Kind
	id    string
	attrs hcl.Attributes
}

// Load reads every .hcl file found under paths. Missing paths are skipped.
// References are evaluated once every file is parsed, so a file may refer to
// sections declared in another one.
func (l *Loader) Load(ctx context.Context, paths ...string) ([]config.Section, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL loader started.", "path_count", len(paths))

	files, err := fsutil.Discover(ctx, l.fs, paths, Extension)
	if err != nil {
		return nil, err
	}

	parser := hclparse.NewParser()
	var decls []*declaration
	for _, file := range files {
		data, err := afero.ReadFile(l.fs, file)
		if err != nil {
			return nil, fmt.Errorf("failed to read HCL file %s: %w", file, err)
		}
		parsed, err := parseFile(parser, file, data)
		if err != nil {
			return nil, err
		}
		decls = append(decls, parsed...)
	}

	sections, err := evaluate(ctx, decls)
	if err != nil {
		return nil, err
	}
	logger.Debug("HCL loading complete.", "files", len(files), "sections", len(sections))
	return sections, nil
}

// Parse translates a single HCL document into sections. name is used in
// diagnostics.
func Parse(ctx context.Context, name string, data []byte) ([]config.Section, error) {
	decls, err := parseFile(hclparse.NewParser(), name, data)
	if err != nil {
		return nil, err
	}
	return evaluate(ctx, decls)
}

func parseFile(parser *hclparse.Parser, name string, data []byte) ([]*declaration, error) {
	file, diags := parser.ParseHCL(data, name)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file %s: %w", name, diags)
	}

	var root fileRoot
	diags = gohcl.DecodeBody(file.Body, nil, &root)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL file %s: %w", name, diags)
	}

	var decls []*declaration
	groups := []struct {
		kind   config.Kind
		blocks []*sectionBlock
	}{
		{config.KindDataNode, root.DataNodes},
		{config.KindTask, root.Tasks},
		{config.KindScenario, root.Scenarios},
	}
	for _, g := range groups {
		for _, b := range g.blocks {
			attrs, diags := b.Body.JustAttributes()
			if diags.HasErrors() {
				return nil, fmt.Errorf("failed to decode %s %s in %s: %w", g.kind, b.ID, name, diags)
			}
			decls = append(decls, &declaration{file: name, kind: g.kind, id: b.ID, attrs: attrs})
		}
	}
	return decls, nil
}

func evaluate(ctx context.Context, decls []*declaration) ([]config.Section, error) {
	logger := ctxlog.FromContext(ctx)

	evalCtx := newEvalContext(referencedIDs(decls))
	sections := make([]config.Section, 0, len(decls))
	for _, d := range decls {
		fields := make(map[string]any, len(d.attrs))
		for name, attr := range d.attrs {
			val, diags := attr.Expr.Value(evalCtx)
			if diags.HasErrors() {
				return nil, fmt.Errorf("%s: section %s.%s: %w", d.file, d.kind, d.id, diags)
			}
			native, err := ctyToNative(val)
			if err != nil {
				return nil, fmt.Errorf("%s: section %s.%s: attribute '%s': %w", d.file, d.kind, d.id, name, err)
			}
			if native == nil {
				logger.Debug("Skipping null attribute.", "section", d.kind, "id", d.id, "attribute", name)
				continue
			}
			fields[name] = native
		}

		decoded, err := config.DecodeValue(fields)
		if err != nil {
			return nil, fmt.Errorf("%s: section %s.%s: %w", d.file, d.kind, d.id, err)
		}
		s, err := config.FromFields(d.kind, d.id, decoded.(map[string]any))
		if err != nil {
			return nil, fmt.Errorf("%s: section %s.%s: %w", d.file, d.kind, d.id, err)
		}
		sections = append(sections, s)
	}
	return sections, nil
}
