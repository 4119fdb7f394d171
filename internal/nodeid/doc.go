// internal/nodeid/doc.go

/*
Package nodeid provides a structured representation for section identifiers,
based on the canonical format `KIND.id`, e.g. `DATA_NODE.sales` or
`SCENARIO.monthly`.

The kind segment is upper case. The id segment must be a valid identifier:
a letter or underscore followed by letters, digits or underscores. Addresses
are used as graph node keys and as selectors on the command line.
*/
package nodeid
