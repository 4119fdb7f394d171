// internal/nodeid/address.go
package nodeid

// String serializes the Address into its canonical `KIND.id` form.
func (a Address) String() string {
	if a.IsZero() {
		return ""
	}
	return a.Kind + "." + a.ID
}

// Equal checks two addresses for equality.
func (a Address) Equal(other Address) bool {
	return a.Kind == other.Kind && a.ID == other.ID
}

// Less orders addresses by kind, then by id.
func (a Address) Less(other Address) bool {
	if a.Kind != other.Kind {
		return a.Kind < other.Kind
	}
	return a.ID < other.ID
}
