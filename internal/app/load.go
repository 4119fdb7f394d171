package app

import (
	"context"
	"fmt"

	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/specialistvlad/pipeconf/internal/fsutil"
	"github.com/specialistvlad/pipeconf/internal/hcl"
	"github.com/specialistvlad/pipeconf/internal/toml"
)

// loaders returns the source loaders keyed by the file extension they handle.
func (a *App) loaders() map[string]config.Loader {
	return map[string]config.Loader{
		toml.Extension: toml.NewLoader(a.fs),
		hcl.Extension:  hcl.NewLoader(a.fs),
	}
}

// Load reads every declarative source under the configured paths and
// installs them as the registry's file layer. The file layer is left
// untouched when any source fails to load.
func (a *App) Load(ctx context.Context) error {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Loading configuration...", "paths", a.config.Paths)

	loaders := a.loaders()
	extensions := []string{toml.Extension, hcl.Extension}

	files, err := fsutil.Discover(ctx, a.fs, a.config.Paths, extensions...)
	if err != nil {
		return fmt.Errorf("failed to discover sources: %w", err)
	}
	if len(files) == 0 {
		logger.Warn("No configuration sources found.", "paths", a.config.Paths)
	}

	byExt := make(map[string][]string)
	for _, f := range files {
		for _, ext := range extensions {
			if fsutil.HasExtension(f, ext) {
				byExt[ext] = append(byExt[ext], f)
			}
		}
	}

	var sections []config.Section
	for _, ext := range extensions {
		if len(byExt[ext]) == 0 {
			continue
		}
		loaded, err := loaders[ext].Load(ctx, byExt[ext]...)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		sections = append(sections, loaded...)
	}

	if err := a.registry.LoadSections(ctx, sections, files...); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger.Info("Configuration loaded.",
		"files", len(files),
		"data_nodes", a.registry.Count(config.KindDataNode),
		"tasks", a.registry.Count(config.KindTask),
		"scenarios", a.registry.Count(config.KindScenario),
	)
	return nil
}
