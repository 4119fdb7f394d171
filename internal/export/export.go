// Package export renders the applied configuration and the compiled ranks
// for people and other tools.
package export

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/pipeconf/internal/compiler"
	"github.com/specialistvlad/pipeconf/internal/config"
	pctoml "github.com/specialistvlad/pipeconf/internal/toml"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Format is an output encoding.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Formats returns every supported format.
func Formats() []Format {
	return []Format{FormatTOML, FormatYAML}
}

// ParseFormat accepts a format name, case-insensitively. "yml" is an alias
// of yaml.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "toml":
		return FormatTOML, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unsupported export format '%s'", s)
}

// FormatFromPath infers the format from the extension of path.
func FormatFromPath(path string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	if ext == "" {
		return "", fmt.Errorf("cannot infer export format of '%s'", path)
	}
	return ParseFormat(ext)
}

// Sections returns every applied section of r, kind by kind, default
// sections first.
func Sections(r *config.Registry) []config.Section {
	var out []config.Section
	for _, kind := range config.Kinds() {
		out = append(out, r.Sections(kind)...)
	}
	return out
}

// Config writes the applied configuration of r. The TOML output reads back
// through the TOML loader; placeholders stay unresolved.
func Config(w io.Writer, r *config.Registry, format Format) error {
	sections := Sections(r)
	switch format {
	case FormatTOML:
		return pctoml.Encode(w, sections)
	case FormatYAML:
		return encodeYAML(w, pctoml.Document(sections))
	}
	return fmt.Errorf("unsupported export format '%s'", format)
}

// Ranks writes the rank table of every scenario, keyed by scenario id then
// data node id.
func Ranks(w io.Writer, ranks compiler.Ranks, format Format) error {
	doc := map[string]map[string]int(ranks)
	switch format {
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(doc); err != nil {
			return fmt.Errorf("failed to encode TOML: %w", err)
		}
		return nil
	case FormatYAML:
		return encodeYAML(w, doc)
	}
	return fmt.Errorf("unsupported export format '%s'", format)
}

// WriteFile writes the applied configuration of r to path on fs. An empty
// format is inferred from the extension of path.
func WriteFile(fs afero.Fs, path string, r *config.Registry, format Format) error {
	if format == "" {
		f, err := FormatFromPath(path)
		if err != nil {
			return err
		}
		format = f
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Config(f, r, format); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encodeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("failed to encode YAML: %w", err)
	}
	return enc.Close()
}
