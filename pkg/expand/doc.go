// Package expand orchestrates one expansion operation end to end.
//
// An [Expander] owns a graph and drives the generate → sanitize → merge →
// layout sequence for it, serializing operations so the graph only ever
// mutates under one expansion at a time. The observable sequence per
// expansion is:
//
//  1. capture the claimed element-ID pool
//  2. insert a transient placeholder batch at the focus
//  3. call the generator backend
//  4. retract the placeholder batch
//  5. merge the sanitized result and lay out the new nodes
//  6. mark the focus expanded
//
// The placeholder batch is retracted on every path out of the operation,
// including generator failures and panics, so pending nodes can never leak
// into the permanent graph. A generator or decode failure leaves the graph
// exactly as it was.
//
// An optional [Renderer] mirrors each mutation onto a drawing surface as it
// happens, so frontends see placeholders appear during the generator wait
// and the sanitized batch replace them.
package expand
