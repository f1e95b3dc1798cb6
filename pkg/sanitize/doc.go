// Package sanitize validates and repairs untrusted expansion payloads.
//
// The generator is an adversarial input source: its output may be malformed,
// may claim wrong depths, may reference nodes it never produced, and may
// collide with identifiers the graph already owns. [Expansion] is a total
// function over any JSON-shaped payload - it never fails. Every anomaly is
// handled by dropping, coercing or synthesizing, so the result is always
// structurally valid and safe to merge into a graph:
//
//   - every output node has depth focusDepth+1 and a kind from the catalog
//   - every output edge runs from the focus to a node of the same batch
//   - no output ID collides with a prior graph element or another output ID
//   - every output node has at least one inbound edge from the focus
//
// Malformed JSON is not this package's concern: the transport layer rejects
// undecodable generator responses before a payload ever reaches [Expansion].
package sanitize
