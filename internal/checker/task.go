package checker

import (
	"github.com/specialistvlad/pipeconf/internal/config"
)

// TaskChecker validates task sections.
type TaskChecker struct{}

func (TaskChecker) Name() string { return "task" }

func (TaskChecker) Check(r *config.Registry, c *IssueCollector) {
	for _, task := range r.Tasks() {
		checkSection(task, c)
		checkOverlap(task, c, "Scenario", scenarioAttributes)
		checkUnresolved(r, task, c)
		checkFunction(task, c)
	}
}

func checkFunction(task *config.TaskConfig, c *IssueCollector) {
	if task.IsDefault() {
		return
	}
	fn := task.Function()
	switch {
	case fn.IsZero():
		c.Errorf(task.Address(), "function", nil,
			"'function' field of TaskConfig '%s' must be populated with a function.", task.ID())
	case !fn.IsCallable():
		c.Errorf(task.Address(), "function", fn.Func(),
			"'function' field of TaskConfig '%s' must be populated with a function value.", task.ID())
	case fn.IsAnonymous():
		c.Errorf(task.Address(), "function", fn.String(),
			"'function' field of TaskConfig '%s' must be a named function, not a function literal or generic instantiation: it cannot be serialized.",
			task.ID())
	}
}
