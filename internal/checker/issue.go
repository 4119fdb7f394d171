package checker

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
	"github.com/specialistvlad/pipeconf/internal/nodeid"
)

// Severity ranks issues.
type Severity int

const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityError
)

func (s Severity) String() string {
	switch s {
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	}
	return fmt.Sprintf("severity(%d)", int(s))
}

// Issue is one finding about a section field.
type Issue struct {
	Severity Severity
	Section  nodeid.Address
	Field    string
	Value    any
	Message  string
}

// Error implements the error interface so that issues can be folded into
// a single error.
func (i Issue) Error() string {
	return fmt.Sprintf("%s: %s", i.Section, i.Message)
}

func (i Issue) String() string {
	return fmt.Sprintf("[%s] %s", i.Severity, i.Error())
}

// IssueCollector accumulates issues in the order they are reported.
type IssueCollector struct {
	issues []Issue
}

// NewIssueCollector creates an empty collector.
func NewIssueCollector() *IssueCollector {
	return &IssueCollector{}
}

// Add appends an issue.
func (c *IssueCollector) Add(issue Issue) {
	c.issues = append(c.issues, issue)
}

// Errorf reports an error-severity issue.
func (c *IssueCollector) Errorf(section nodeid.Address, field string, value any, format string, args ...any) {
	c.report(SeverityError, section, field, value, format, args...)
}

// Warnf reports a warning.
func (c *IssueCollector) Warnf(section nodeid.Address, field string, value any, format string, args ...any) {
	c.report(SeverityWarning, section, field, value, format, args...)
}

// Infof reports an informational issue.
func (c *IssueCollector) Infof(section nodeid.Address, field string, value any, format string, args ...any) {
	c.report(SeverityInfo, section, field, value, format, args...)
}

func (c *IssueCollector) report(sev Severity, section nodeid.Address, field string, value any, format string, args ...any) {
	c.Add(Issue{
		Severity: sev,
		Section:  section,
		Field:    field,
		Value:    value,
		Message:  fmt.Sprintf(format, args...),
	})
}

// All returns every issue in report order.
func (c *IssueCollector) All() []Issue {
	return append([]Issue(nil), c.issues...)
}

// Errors returns the error-severity issues.
func (c *IssueCollector) Errors() []Issue { return c.filter(SeverityError) }

// Warnings returns the warnings.
func (c *IssueCollector) Warnings() []Issue { return c.filter(SeverityWarning) }

// Infos returns the informational issues.
func (c *IssueCollector) Infos() []Issue { return c.filter(SeverityInfo) }

// Len returns the number of issues of every severity.
func (c *IssueCollector) Len() int { return len(c.issues) }

// HasErrors reports whether an error-severity issue was reported.
func (c *IssueCollector) HasErrors() bool { return len(c.Errors()) > 0 }

func (c *IssueCollector) filter(sev Severity) []Issue {
	var out []Issue
	for _, issue := range c.issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// Err folds the error-severity issues into one error, or returns nil when
// there are none. Warnings never make Err fail.
func (c *IssueCollector) Err() error {
	var result *multierror.Error
	for _, issue := range c.Errors() {
		result = multierror.Append(result, issue)
	}
	return result.ErrorOrNil()
}
