package app

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/specialistvlad/pipeconf/internal/checker"
	"github.com/specialistvlad/pipeconf/internal/compiler"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/specialistvlad/pipeconf/internal/export"
)

// ErrCheckFailed is returned by Run when the checker reports errors, or
// warnings in strict mode.
var ErrCheckFailed = errors.New("configuration check failed")

// Result is the outcome of compiling and checking the loaded configuration.
type Result struct {
	Ranks  compiler.Ranks
	Issues *checker.IssueCollector
	// CompileErr holds the cycle errors of the rank assignor, if any.
	CompileErr error
}

// Failed reports whether the result fails the check gate.
func (r *Result) Failed(strict bool) bool {
	if r.Issues.HasErrors() {
		return true
	}
	return strict && len(r.Issues.Warnings()) > 0
}

// Compile loads the sources, assigns ranks to every scenario and runs the
// checker pipeline. Cycles do not stop it: they surface both in CompileErr
// and as checker issues.
func (a *App) Compile(ctx context.Context) (*Result, error) {
	ctx = a.Context(ctx)
	logger := ctxlog.FromContext(ctx)

	if err := a.Load(ctx); err != nil {
		return nil, err
	}

	ranks, compileErr := compiler.CompileAll(ctx, a.registry)
	issues := a.pipeline.Check(ctx, a.registry)
	logger.Debug("Compilation finished.",
		"scenarios", len(ranks),
		"errors", len(issues.Errors()),
		"warnings", len(issues.Warnings()),
	)
	return &Result{Ranks: ranks, Issues: issues, CompileErr: compileErr}, nil
}

// Run executes the check lifecycle and writes the report. It returns an
// error wrapping ErrCheckFailed when the configuration does not pass.
func (a *App) Run(ctx context.Context) error {
	a.logger.Debug("App.Run method started.")

	res, err := a.Compile(ctx)
	if err != nil {
		return err
	}
	fmt.Fprint(a.outW, RenderReport(a.registry, res))

	if res.Failed(a.config.Strict) {
		return fmt.Errorf("%w: %d errors, %d warnings", ErrCheckFailed, len(res.Issues.Errors()), len(res.Issues.Warnings()))
	}
	a.logger.Debug("App.Run method finished.")
	return nil
}

// ExportConfig writes the applied configuration in format, to the
// configured output file or to the app's writer. An empty format is
// inferred from the output file, and is TOML on the app's writer.
func (a *App) ExportConfig(ctx context.Context, format export.Format) error {
	if _, err := a.Compile(ctx); err != nil {
		return err
	}
	if a.config.Output != "" {
		if err := export.WriteFile(a.fs, a.config.Output, a.registry, format); err != nil {
			return err
		}
		a.logger.Info("Configuration exported.", "path", a.config.Output)
		return nil
	}
	if format == "" {
		format = export.FormatTOML
	}
	return export.Config(a.outW, a.registry, format)
}

// ExportRanks writes the rank table of every scenario. The text format
// renders a tree.
func (a *App) ExportRanks(ctx context.Context, format string) error {
	res, err := a.Compile(ctx)
	if err != nil {
		return err
	}
	if format == "" || format == "text" {
		fmt.Fprint(a.outW, RenderRanks(res.Ranks))
		return nil
	}
	f, err := export.ParseFormat(format)
	if err != nil {
		return err
	}
	return export.Ranks(a.outW, res.Ranks, f)
}

// Draw renders the graph of each named scenario into dir, or of every
// non-default scenario when none is named. It returns the written paths.
func (a *App) Draw(ctx context.Context, dir string, scenarioIDs ...string) ([]string, error) {
	ctx = a.Context(ctx)
	if _, err := a.Compile(ctx); err != nil {
		return nil, err
	}

	var scenarios []*config.ScenarioConfig
	if len(scenarioIDs) == 0 {
		for _, s := range a.registry.Scenarios() {
			if !s.IsDefault() {
				scenarios = append(scenarios, s)
			}
		}
	}
	for _, id := range scenarioIDs {
		s, err := a.registry.Scenario(id)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}

	paths := make([]string, 0, len(scenarios))
	for _, s := range scenarios {
		path, err := compiler.Draw(ctx, a.fs, s, filepath.Join(dir, s.ID()+".png"))
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
