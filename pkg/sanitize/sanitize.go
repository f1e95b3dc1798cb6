package sanitize

import (
	"fmt"
	"strings"

	"github.com/kotomap/kotomap/pkg/catalog"
	"github.com/kotomap/kotomap/pkg/graph"
)

// MaxChildren is the maximum number of nodes a single expansion may produce.
// Candidates beyond this cap are truncated in payload order, bounding the
// visual fan-out of one expansion regardless of how many the generator
// proposed.
const MaxChildren = 3

// Input carries everything one sanitization pass needs to know about the
// graph it is sanitizing for.
type Input struct {
	// FocusID is the node being expanded; the source of every batch edge.
	FocusID string

	// FocusDepth is the focus node's depth. Output nodes always get
	// FocusDepth+1 - the payload's depth claims are never trusted.
	FocusDepth int

	// UsedIDs is the full existing element-ID pool: every node AND edge ID
	// currently in the graph. Both classes matter because nodes and edges
	// share one identifier namespace.
	UsedIDs []string

	// Payload is the JSON-decoded untrusted generator response. Any shape is
	// tolerated; expected form is {nodes: [...], edges: [...]}.
	Payload map[string]any
}

// Result is a canonical, guaranteed-consistent expansion batch.
type Result struct {
	Nodes []graph.Node
	Edges []graph.Edge
}

// Expansion sanitizes an untrusted expansion payload against the current
// graph state. It never fails: the result is always a structurally valid
// (possibly empty) batch satisfying the invariants listed in the package
// documentation. Processing order matters; each stage feeds the next:
//
//  1. node extraction and normalization
//  2. identifier collision resolution (suffix __1, __2, ...)
//  3. cardinality cap (MaxChildren)
//  4. language-policy label filter
//  5. edge extraction and enforcement
//  6. connectivity completion
//  7. final guard against a node-only batch
func Expansion(in Input, cat *catalog.Catalog) Result {
	pool := newIDPool(in.UsedIDs)

	nodes := extractNodes(in, cat, pool)
	nodes = capNodes(nodes)
	nodes = filterLabels(nodes, cat)
	edges := extractEdges(in, cat, pool, nodes)
	edges = completeConnectivity(in.FocusID, cat, pool, nodes, edges)

	// Unreachable given connectivity completion, but defend against logic
	// drift: a batch with nodes must never leave the sanitizer edgeless.
	if len(nodes) > 0 && len(edges) == 0 {
		first := nodes[0]
		edges = append(edges, graph.Edge{
			ID:     pool.resolve(syntheticEdgeID(in.FocusID, first.ID)),
			Source: in.FocusID,
			Target: first.ID,
			Label:  cat.RelationFor(first.Kind),
		})
	}

	return Result{Nodes: nodes, Edges: edges}
}

// extractNodes keeps candidate entries that carry a string id, trims id and
// label, defaults label to id, coerces unknown kinds to the catalog fallback,
// forces depth, and resolves id collisions against the shared pool in payload
// order.
func extractNodes(in Input, cat *catalog.Catalog, pool *idPool) []graph.Node {
	var out []graph.Node
	for _, entry := range asList(in.Payload["nodes"]) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		id := strings.TrimSpace(asString(m["id"]))
		if id == "" {
			continue
		}
		label := strings.TrimSpace(asString(m["label"]))
		if label == "" {
			label = id
		}
		kind := asString(m["kind"])
		if !cat.Has(kind) {
			kind = cat.Fallback()
		}
		out = append(out, graph.Node{
			ID:    pool.resolve(id),
			Label: label,
			Kind:  kind,
			Depth: in.FocusDepth + 1,
		})
	}
	return out
}

// capNodes truncates the batch to the first MaxChildren nodes in payload order.
func capNodes(nodes []graph.Node) []graph.Node {
	if len(nodes) > MaxChildren {
		return nodes[:MaxChildren]
	}
	return nodes
}

// filterLabels applies the language-policy filter. IDs of rejected nodes stay
// registered in the pool: suffixes already handed out remain stable.
func filterLabels(nodes []graph.Node, cat *catalog.Catalog) []graph.Node {
	out := nodes[:0]
	for _, n := range nodes {
		if labelAllowed(n.Label, cat.Exempt(n.Kind)) {
			out = append(out, n)
		}
	}
	return out
}

// extractEdges keeps candidate edges with the focus as source and a surviving
// batch node as target, resolves edge-id collisions against the shared pool,
// and substitutes kind-derived default labels for untranslated (all-ASCII)
// edge labels.
func extractEdges(in Input, cat *catalog.Catalog, pool *idPool, nodes []graph.Node) []graph.Edge {
	kinds := make(map[string]string, len(nodes))
	for _, n := range nodes {
		kinds[n.ID] = n.Kind
	}

	var out []graph.Edge
	for _, entry := range asList(in.Payload["edges"]) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		source := strings.TrimSpace(asString(m["source"]))
		target := strings.TrimSpace(asString(m["target"]))
		if source == "" || target == "" {
			continue
		}
		if source != in.FocusID {
			continue
		}
		kind, ok := kinds[target]
		if !ok {
			continue
		}
		id := strings.TrimSpace(asString(m["id"]))
		if id == "" {
			id = syntheticEdgeID(in.FocusID, target)
		}
		label := strings.TrimSpace(asString(m["label"]))
		if allASCII(label) {
			label = cat.RelationFor(kind)
		}
		out = append(out, graph.Edge{
			ID:     pool.resolve(id),
			Source: source,
			Target: target,
			Label:  label,
		})
	}
	return out
}

// completeConnectivity synthesizes a focus→node edge for every surviving node
// that is not yet the target of any surviving edge. The generator's edge
// output is advisory; this stage is what structurally guarantees that no node
// exists in a batch without an inbound edge from the focus.
func completeConnectivity(focusID string, cat *catalog.Catalog, pool *idPool, nodes []graph.Node, edges []graph.Edge) []graph.Edge {
	covered := make(map[string]bool, len(edges))
	for _, e := range edges {
		covered[e.Target] = true
	}
	for _, n := range nodes {
		if covered[n.ID] {
			continue
		}
		edges = append(edges, graph.Edge{
			ID:     pool.resolve(syntheticEdgeID(focusID, n.ID)),
			Source: focusID,
			Target: n.ID,
			Label:  cat.RelationFor(n.Kind),
		})
		covered[n.ID] = true
	}
	return edges
}

func syntheticEdgeID(focusID, targetID string) string {
	return fmt.Sprintf("e-%s-%s", focusID, targetID)
}

// idPool is the single owned identifier set threaded through node and edge
// resolution. It starts from the graph's claimed IDs and registers every
// resolved ID immediately, so two colliding candidates in the same batch
// resolve to different suffixes deterministically in payload order.
type idPool struct {
	used map[string]bool
}

func newIDPool(ids []string) *idPool {
	p := &idPool{used: make(map[string]bool, len(ids))}
	for _, id := range ids {
		p.used[id] = true
	}
	return p
}

// resolve returns id if unclaimed, otherwise the first id__N (N = 1, 2, ...)
// that is. The returned ID is registered before resolve returns.
func (p *idPool) resolve(id string) string {
	candidate := id
	for i := 1; p.used[candidate]; i++ {
		candidate = fmt.Sprintf("%s__%d", id, i)
	}
	p.used[candidate] = true
	return candidate
}

// asString returns v if it is a string, otherwise "".
func asString(v any) string {
	s, _ := v.(string)
	return s
}

// asList returns v if it is a JSON array, otherwise nil.
func asList(v any) []any {
	l, _ := v.([]any)
	return l
}
