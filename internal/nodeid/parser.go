// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	kindRegex = regexp.MustCompile(`^[A-Z][A-Z0-9_]*$`)
	idRegex   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

// ValidID reports whether id is usable as a section id.
func ValidID(id string) bool {
	return idRegex.MatchString(id)
}

// Parse creates a new Address by parsing its canonical string representation.
func Parse(rawID string) (Address, error) {
	if rawID == "" {
		return Address{}, fmt.Errorf("identifier cannot be empty")
	}

	kind, id, found := strings.Cut(rawID, ".")
	if !found {
		return Address{}, fmt.Errorf("identifier %q must have the form KIND.id", rawID)
	}
	if !kindRegex.MatchString(kind) {
		return Address{}, fmt.Errorf("invalid kind segment: %q", kind)
	}
	if !ValidID(id) {
		return Address{}, fmt.Errorf("invalid id segment: %q", id)
	}

	return New(kind, id), nil
}
