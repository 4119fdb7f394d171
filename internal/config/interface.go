package config

import (
	"context"
)

// Loader is the interface for a format-specific declarative source.
type Loader interface {
	// Load reads every file found under paths and translates it into
	// sections for the file layer. It fails as a whole: either every file is
	// read and translated, or an error is returned and no section is.
	Load(ctx context.Context, paths ...string) ([]Section, error)
}
