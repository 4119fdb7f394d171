// internal/nodeid/types.go
package nodeid

// Address is the structured representation of a section identifier: the
// section kind and the id the section carries within that kind.
type Address struct {
	Kind string
	ID   string
}

// New creates an Address for the given kind and id.
func New(kind, id string) Address {
	return Address{Kind: kind, ID: id}
}

// IsZero reports whether the address carries neither a kind nor an id.
func (a Address) IsZero() bool {
	return a.Kind == "" && a.ID == ""
}
