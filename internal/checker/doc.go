// Package checker validates an applied configuration. Checkers inspect the
// registry and append issues to a collector; they never mutate the
// configuration and never stop at the first problem.
//
// Severity follows one rule throughout: a problem on a concrete section is
// an error, while a missing required property on a kind's default section
// is only a warning, since concrete sections may still supply it.
package checker
