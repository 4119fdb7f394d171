// Package dag provides the directed graph used to compile scenarios: an
// ordered adjacency structure with in-degree queries, node removal, cycle
// detection, topological generations and DOT rendering.
package dag
