package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/specialistvlad/pipeconf/internal/app"
	"github.com/specialistvlad/pipeconf/internal/export"
	"github.com/spf13/cobra"
)

// Exit codes.
const (
	ExitOK      = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// usageError marks errors caused by invalid arguments or flags.
type usageError struct{ err error }

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

// globalFlags are shared by every command.
type globalFlags struct {
	logLevel  string
	logFormat string
	strict    bool
}

// Execute runs the command line with args and converts the outcome into an
// ExitError. Reports go to outW, logs and messages to errW. Options are
// passed to the app, mainly for tests.
func Execute(ctx context.Context, args []string, outW, errW io.Writer, opts ...app.Option) error {
	root := NewRootCommand(outW, errW, opts...)
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	return toExitError(err)
}

func toExitError(err error) error {
	if err == nil {
		return nil
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return &ExitError{Code: ExitUsage, Message: usage.Error()}
	}
	return &ExitError{Code: ExitFailure, Message: err.Error()}
}

// NewRootCommand builds the pipeconf command tree.
func NewRootCommand(outW, errW io.Writer, opts ...app.Option) *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:   "pipeconf",
		Short: "Check and compile declarative data pipeline configurations.",
		Long: `pipeconf reads data node, task and scenario sections from TOML and HCL
sources, merges them with their defaults, ranks the data nodes of every
scenario and reports configuration issues.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(outW)
	root.SetErr(errW)
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pf := root.PersistentFlags()
	pf.StringVar(&flags.logLevel, "log-level", app.DefaultLogLevel, "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	pf.StringVar(&flags.logFormat, "log-format", app.DefaultLogFormat, "Log output format. Options: 'text', 'json' or 'auto'.")
	pf.BoolVar(&flags.strict, "strict", false, "Treat warnings as errors.")

	root.AddCommand(
		newCheckCommand(flags, outW, errW, opts),
		newRanksCommand(flags, outW, errW, opts),
		newExportCommand(flags, outW, errW, opts),
		newDrawCommand(flags, outW, errW, opts),
	)
	return root
}

// requirePaths validates that at least one source path is given.
func requirePaths(_ *cobra.Command, args []string) error {
	if len(args) == 0 {
		return &usageError{err: errors.New("at least one configuration path is required")}
	}
	return nil
}

// newApp validates the configuration and builds the app.
func newApp(flags *globalFlags, cfg app.Config, outW, errW io.Writer, opts []app.Option) (*app.App, error) {
	cfg.LogLevel = flags.logLevel
	cfg.LogFormat = flags.logFormat
	cfg.Strict = flags.strict
	appConfig, err := app.NewConfig(cfg)
	if err != nil {
		return nil, &usageError{err: err}
	}
	opts = append([]app.Option{app.WithLogOutput(errW)}, opts...)
	return app.NewApp(outW, appConfig, opts...), nil
}

func newCheckCommand(flags *globalFlags, outW, errW io.Writer, opts []app.Option) *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH...",
		Short: "Load, rank and check the configuration, then print a report.",
		Args:  requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, app.Config{Paths: args}, outW, errW, opts)
			if err != nil {
				return err
			}
			if err := a.Run(cmd.Context()); err != nil {
				if errors.Is(err, app.ErrCheckFailed) {
					return &ExitError{Code: ExitFailure, Message: err.Error()}
				}
				return err
			}
			return nil
		},
	}
}

func newRanksCommand(flags *globalFlags, outW, errW io.Writer, opts []app.Option) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ranks PATH...",
		Short: "Print the rank of every data node, per scenario.",
		Args:  requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "text" {
				if _, err := export.ParseFormat(format); err != nil {
					return &usageError{err: err}
				}
			}
			a, err := newApp(flags, app.Config{Paths: args}, outW, errW, opts)
			if err != nil {
				return err
			}
			return a.ExportRanks(cmd.Context(), format)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format. Options: 'text', 'toml' or 'yaml'.")
	return cmd
}

func newExportCommand(flags *globalFlags, outW, errW io.Writer, opts []app.Option) *cobra.Command {
	var format, output string
	cmd := &cobra.Command{
		Use:   "export PATH...",
		Short: "Write the applied configuration as TOML or YAML.",
		Args:  requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			var f export.Format
			if format != "" {
				parsed, err := export.ParseFormat(format)
				if err != nil {
					return &usageError{err: err}
				}
				f = parsed
			}
			a, err := newApp(flags, app.Config{Paths: args, Output: output}, outW, errW, opts)
			if err != nil {
				return err
			}
			return a.ExportConfig(cmd.Context(), f)
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format. Options: 'toml' or 'yaml'. Inferred from --output when empty.")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to this file instead of standard output.")
	return cmd
}

func newDrawCommand(flags *globalFlags, outW, errW io.Writer, opts []app.Option) *cobra.Command {
	var dir string
	var scenarios []string
	cmd := &cobra.Command{
		Use:   "draw PATH...",
		Short: "Render scenario graphs as DOT, and PNG when Graphviz is installed.",
		Args:  requirePaths,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags, app.Config{Paths: args}, outW, errW, opts)
			if err != nil {
				return err
			}
			paths, err := a.Draw(cmd.Context(), dir, scenarios...)
			for _, p := range paths {
				fmt.Fprintln(outW, p)
			}
			return err
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "Directory the graphs are written to.")
	cmd.Flags().StringSliceVarP(&scenarios, "scenario", "s", nil, "Scenario to draw; repeat for several. All scenarios when omitted.")
	return cmd
}
