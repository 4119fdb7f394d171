// Package tpl resolves placeholder property values at read time.
//
// A placeholder is a whole string of the form `ENV[NAME]`, optionally followed
// by a cast suffix `:int`, `:float`, `:bool` or `:str`. Resolution is never
// cached: each read consults the environment again, so changes to a variable
// are observed without re-registering the section that carries it.
//
// When the variable is absent, or the cast fails, the raw string is returned
// unchanged. Callers treat that as an unresolved value, not as an error.
package tpl
