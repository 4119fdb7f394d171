package toml

import (
	"fmt"
	"io"

	"github.com/BurntSushi/toml"
	"github.com/specialistvlad/pipeconf/internal/config"
)

// Document renders sections into the nested map written by Encode, keyed by
// kind then id, with every value in its tagged string form.
func Document(sections []config.Section) map[string]any {
	doc := make(map[string]any)
	for _, s := range sections {
		kind := string(s.Kind())
		tables, ok := doc[kind].(map[string]any)
		if !ok {
			tables = make(map[string]any)
			doc[kind] = tables
		}
		tables[s.ID()] = config.EncodeValue(config.Fields(s))
	}
	return doc
}

// Encode writes sections as a TOML document that Parse reads back.
func Encode(w io.Writer, sections []config.Section) error {
	if err := toml.NewEncoder(w).Encode(Document(sections)); err != nil {
		return fmt.Errorf("failed to encode TOML: %w", err)
	}
	return nil
}
