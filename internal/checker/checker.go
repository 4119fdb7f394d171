package checker

import (
	"context"

	"github.com/specialistvlad/pipeconf/internal/config"
	"github.com/specialistvlad/pipeconf/internal/ctxlog"
)

// Checker inspects the applied configuration and reports issues.
type Checker interface {
	Name() string
	Check(r *config.Registry, c *IssueCollector)
}

// Pipeline runs checkers in registration order.
type Pipeline struct {
	checkers []Checker
}

// NewPipeline creates a pipeline running the given checkers.
func NewPipeline(checkers ...Checker) *Pipeline {
	return &Pipeline{checkers: append([]Checker(nil), checkers...)}
}

// Default returns the pipeline of built-in checkers. The graph checker
// expects ranks to have been assigned, see compiler.CompileAll.
func Default() *Pipeline {
	return NewPipeline(
		DataNodeChecker{},
		TaskChecker{},
		ScenarioChecker{},
		GraphChecker{},
	)
}

// Register appends a checker to the pipeline.
func (p *Pipeline) Register(c Checker) {
	p.checkers = append(p.checkers, c)
}

// Checkers returns the names of the registered checkers.
func (p *Pipeline) Checkers() []string {
	names := make([]string, len(p.checkers))
	for i, c := range p.checkers {
		names[i] = c.Name()
	}
	return names
}

// Check runs every checker against r and returns the collected issues.
func (p *Pipeline) Check(ctx context.Context, r *config.Registry) *IssueCollector {
	logger := ctxlog.FromContext(ctx)

	collector := NewIssueCollector()
	for _, c := range p.checkers {
		before := collector.Len()
		c.Check(r, collector)
		logger.Debug("Checker finished.", "checker", c.Name(), "issues", collector.Len()-before)
	}

	logger.Info("Configuration checked.",
		"errors", len(collector.Errors()),
		"warnings", len(collector.Warnings()),
		"infos", len(collector.Infos()),
	)
	return collector
}

// Check runs the default pipeline.
func Check(ctx context.Context, r *config.Registry) *IssueCollector {
	return Default().Check(ctx, r)
}
