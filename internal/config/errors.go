package config

import (
	"errors"
	"fmt"
)

// ErrInvalidID is returned when a section id is not a valid identifier.
var ErrInvalidID = errors.New("invalid section id")

// DuplicateIdError is returned when an id collides with the reserved default
// section id, or is declared twice within one declarative source.
type DuplicateIdError struct {
	Kind   Kind
	ID     string
	Source string
}

func (e *DuplicateIdError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("%s section '%s' is declared more than once in %s", e.Kind, e.ID, e.Source)
	}
	return fmt.Sprintf("%s section id '%s' is reserved for the default section", e.Kind, e.ID)
}

// NotFoundError is returned when a lookup misses.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s section '%s' not found", e.Kind, e.ID)
}
