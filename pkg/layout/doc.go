// Package layout assigns on-screen positions to newly merged graph elements.
//
// The engine is incremental by design: it positions only what an expansion
// just added and never repositions previously placed nodes, with one
// deliberate exception - expanding the root re-rings every depth level, which
// is idempotent for unchanged ring membership.
//
// Two mutually exclusive strategies, selected by the focus's structural role:
//
//   - Ring placement (focus == root): each depth level d > 0 on a circle of
//     radius RingGap*d around the root, members evenly spaced in sorted-ID
//     order.
//   - Forward fan-out (focus != root): children spread perpendicular to the
//     parent→focus direction at increasing forward distance, with a bounded
//     push-along-direction collision repair against existing nodes.
//
// Both are fully deterministic for identical input; all ordering is by node
// ID, never by insertion order.
package layout
