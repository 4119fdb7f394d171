package app

import (
	"context"
	"io"
	"log/slog"

	"github.com/specialistvlad/pipeconf/internal/checker"
	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
	"github.com/spf13/afero"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logW     io.Writer
	logger   *slog.Logger
	config   *Config
	fs       afero.Fs
	registry *config.Registry
	pipeline *checker.Pipeline
}

// Option customizes an App.
type Option func(*App)

// WithFs sets the file system sources and exports are read from and
// written to. The default is the OS file system.
func WithFs(fs afero.Fs) Option {
	return func(a *App) { a.fs = fs }
}

// WithRegistry makes the app load sources into r, which may already hold
// programmatic sections.
func WithRegistry(r *config.Registry) Option {
	return func(a *App) { a.registry = r }
}

// WithPipeline replaces the default checker pipeline.
func WithPipeline(p *checker.Pipeline) Option {
	return func(a *App) { a.pipeline = p }
}

// WithLogOutput sends logs to w instead of the report writer.
func WithLogOutput(w io.Writer) Option {
	return func(a *App) { a.logW = w }
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance, including its own isolated logger. Reports are
// written to outW.
func NewApp(outW io.Writer, appConfig *Config, opts ...Option) *App {
	a := &App{
		outW:   outW,
		logW:   outW,
		config: appConfig,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.fs == nil {
		a.fs = afero.NewOsFs()
	}
	if a.registry == nil {
		a.registry = config.NewRegistry()
	}
	if a.pipeline == nil {
		a.pipeline = checker.Default()
	}

	a.logger = newLogger(appConfig.LogLevel, appConfig.LogFormat, a.logW)
	a.logger.Debug("Logger configured successfully.")
	return a
}

// Registry returns the application's registry.
func (a *App) Registry() *config.Registry {
	return a.registry
}

// Fs returns the file system the app works on.
func (a *App) Fs() afero.Fs {
	return a.fs
}

// Context returns ctx carrying the app logger.
func (a *App) Context(ctx context.Context) context.Context {
	return ctxlog.WithLogger(ctx, a.logger)
}
