// Package graph implements the mutable knowledge-graph aggregate that
// expansion sessions operate on.
//
// A [Graph] is created with a single root node at depth 0 and grows by
// merging sanitized expansion batches: small star-shaped sets of child nodes
// plus edges from one focus node. Nodes and edges share a single identifier
// namespace, which is what makes suffix-based collision resolution in the
// sanitizer sound - [Graph.ElementIDs] exposes the full claimed-ID pool.
//
// The graph grows monotonically. The one exception is [Graph.RemoveBatch],
// which retracts a transient placeholder batch tagged with an expansion
// operation's batch key; the expander guarantees this retraction runs on
// every code path, success or failure.
//
// [Snapshot] provides a deterministic JSON serialization (nodes and edges
// sorted by ID) for API responses and file output.
package graph
