package storage

import (
	"fmt"
	"strings"
)

// MissingRequiredPropertyError is returned when a backend cannot be
// constructed because properties it depends on are absent.
type MissingRequiredPropertyError struct {
	StorageType Type
	Properties  []string
}

func (e *MissingRequiredPropertyError) Error() string {
	return fmt.Sprintf("storage type '%s' is missing required properties: %s", e.StorageType, strings.Join(e.Properties, ", "))
}

// CheckConstruction fails with a MissingRequiredPropertyError when props lack
// a property the storage type needs at construction time.
func CheckConstruction(t Type, props map[string]any) error {
	r, ok := rules[t]
	if !ok || len(r.Construction) == 0 {
		return nil
	}
	var missing []string
	for _, p := range r.Construction {
		if v, ok := props[p]; !ok || v == nil || v == "" {
			missing = append(missing, p)
		}
	}
	if len(missing) > 0 {
		return &MissingRequiredPropertyError{StorageType: t, Properties: missing}
	}
	return nil
}
