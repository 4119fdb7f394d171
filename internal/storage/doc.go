// Package storage describes the storage backends a data node configuration
// can point at. It does not implement the backends themselves: it carries the
// closed set of storage-type tags, the rule table listing required, optional
// and typed properties per tag, the typed descriptors decoded from a property
// bag, and the Backend contract external implementations satisfy.
//
// Most rule violations are reported by the checker pipeline. Properties a
// backend cannot be constructed without (cloud credentials) are enforced at
// construction time instead, through MissingRequiredPropertyError.
package storage
