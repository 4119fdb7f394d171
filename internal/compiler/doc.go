// Package compiler turns a scenario configuration into its dependency graph
// and annotates the scenario's data nodes with their rank in that graph.
//
// A rank is the index of a data node's topological generation among the
// generations that contain data nodes, starting at 1. Tasks without inputs
// are dropped before generations are computed, and additional data nodes
// always rank 0.
package compiler
