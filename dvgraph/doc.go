// Package dvgraph contains the read-only delegation graph
// that delegated voting power resolution runs over.
//
// Types in this package are focused on int values:
// every participant is addressed by its arena index in the registry
// the graph was built from, and delegation edges are slices of those indices.
// Callers may use the int values as indices into their own slices
// of per-participant state.
//
// A [Graph] is a snapshot.
// Later changes to the registry are not reflected in an existing Graph;
// call [Build] again before each resolution run.
package dvgraph
