package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidID is returned by [Graph.AddNode] and [Graph.AddEdge] when
	// the element ID is empty. All elements must have non-empty identifiers.
	ErrInvalidID = errors.New("element ID must not be empty")

	// ErrDuplicateID is returned by [Graph.AddNode] and [Graph.AddEdge] when
	// the ID is already claimed by any element in the graph. Nodes and edges
	// share a single identifier namespace.
	ErrDuplicateID = errors.New("duplicate element ID")

	// ErrUnknownSource is returned by [Graph.AddEdge] when the Source node
	// does not exist in the graph.
	ErrUnknownSource = errors.New("unknown source node")

	// ErrUnknownTarget is returned by [Graph.AddEdge] when the Target node
	// does not exist in the graph.
	ErrUnknownTarget = errors.New("unknown target node")

	// ErrUnknownNode is returned by operations that reference a node ID not
	// present in the graph.
	ErrUnknownNode = errors.New("unknown node")
)

// Point is a 2-D coordinate in the drawing surface's user units.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Node represents a vertex in the knowledge graph.
//
// ID is globally unique within a graph instance and immutable once assigned.
// Depth is the hop-distance from the root: every node produced by expanding a
// focus has Depth == focus.Depth + 1, and the root has Depth 0.
//
// Pos is assigned by the layout engine; Placed reports whether a position has
// been assigned yet. Batch tags transient placeholder elements with the
// expansion operation that created them (empty for permanent elements).
type Node struct {
	ID     string
	Label  string
	Kind   string
	Depth  int
	Pos    Point
	Placed bool
	Batch  string
}

// Edge represents a directed connection between two nodes.
//
// Every edge produced by expanding a focus F has Source == F.ID and a Target
// created in the same expansion batch: the graph is built from star-shaped
// one-hop expansions only.
type Edge struct {
	ID     string
	Source string
	Target string
	Label  string
	Batch  string
}

// Graph is the mutable aggregate owned by an expansion session. It holds the
// node and edge sets, the per-node expanded flags, and the shared identifier
// namespace used for collision avoidance.
//
// A Graph is created with exactly one root node at depth 0 and grows
// monotonically; the only removal path is [Graph.RemoveBatch], which retracts
// a transient placeholder batch. The zero value is not usable - use New.
//
// Graph is not safe for concurrent use without external synchronization; the
// expander serializes all mutations.
type Graph struct {
	nodes    map[string]*Node
	edges    map[string]*Edge
	incoming map[string][]string // target node ID -> edge IDs
	expanded map[string]bool
	rootID   string
}

// New creates a graph containing only the given root node. The root's Depth
// is forced to 0 and its Batch cleared regardless of the input. Returns
// ErrInvalidID if the root has an empty ID.
func New(root Node) (*Graph, error) {
	if root.ID == "" {
		return nil, ErrInvalidID
	}
	root.Depth = 0
	root.Batch = ""
	g := &Graph{
		nodes:    make(map[string]*Node),
		edges:    make(map[string]*Edge),
		incoming: make(map[string][]string),
		expanded: make(map[string]bool),
		rootID:   root.ID,
	}
	g.nodes[root.ID] = &root
	return g, nil
}

// RootID returns the ID of the root node.
func (g *Graph) RootID() string { return g.rootID }

// Node returns the node with the given ID and true, or nil and false if not
// found. The returned pointer refers to the actual node in the graph, so
// position mutations by the layout engine are visible to all readers.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

// Edge returns the edge with the given ID and true, or nil and false if not found.
func (g *Graph) Edge(id string) (*Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// AddNode adds a node to the graph. Returns ErrInvalidID for an empty ID or
// ErrDuplicateID if the ID is already claimed by any node or edge.
func (g *Graph) AddNode(n Node) error {
	if n.ID == "" {
		return ErrInvalidID
	}
	if g.claimed(n.ID) {
		return ErrDuplicateID
	}
	g.nodes[n.ID] = &n
	return nil
}

// AddEdge adds a directed edge between two existing nodes. Returns
// ErrInvalidID for an empty ID, ErrDuplicateID if the ID is already claimed
// by any node or edge, and ErrUnknownSource/ErrUnknownTarget if either
// endpoint is missing.
func (g *Graph) AddEdge(e Edge) error {
	if e.ID == "" {
		return ErrInvalidID
	}
	if g.claimed(e.ID) {
		return ErrDuplicateID
	}
	if _, ok := g.nodes[e.Source]; !ok {
		return ErrUnknownSource
	}
	if _, ok := g.nodes[e.Target]; !ok {
		return ErrUnknownTarget
	}
	g.edges[e.ID] = &e
	g.incoming[e.Target] = append(g.incoming[e.Target], e.ID)
	return nil
}

// claimed reports whether id is already used by any node or edge.
func (g *Graph) claimed(id string) bool {
	if _, ok := g.nodes[id]; ok {
		return true
	}
	_, ok := g.edges[id]
	return ok
}

// Nodes returns all nodes in the graph. The order is not guaranteed; sort by
// ID where determinism matters.
func (g *Graph) Nodes() []*Node {
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// Edges returns all edges in the graph. The order is not guaranteed.
func (g *Graph) Edges() []*Edge {
	edges := make([]*Edge, 0, len(g.edges))
	for _, e := range g.edges {
		edges = append(edges, e)
	}
	return edges
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// ElementIDs returns every node ID and edge ID in the graph, sorted. This is
// the identifier pool handed to the sanitizer and to the generator request:
// edge IDs are included so that edge-ID collision resolution sees them.
func (g *Graph) ElementIDs() []string {
	ids := make([]string, 0, len(g.nodes)+len(g.edges))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	for id := range g.edges {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// NodeIDs returns every node ID in the graph, sorted.
func (g *Graph) NodeIDs() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// MarkExpanded records that an expansion for the node has been successfully
// merged. The flag is terminal: once set it is never cleared, and expanding
// the node again is a no-op. Unknown IDs are ignored.
func (g *Graph) MarkExpanded(id string) {
	if _, ok := g.nodes[id]; ok {
		g.expanded[id] = true
	}
}

// Expanded reports whether the node has already been expanded.
func (g *Graph) Expanded(id string) bool { return g.expanded[id] }

// InboundSource returns the source node ID of the node's unique inbound edge.
// In well-formed graphs every non-root node has exactly one inbound edge (it
// was created as a one-hop child); if several exist, the source of the
// lexicographically smallest edge ID is returned for determinism. Returns
// false for the root or for nodes with no inbound edge.
func (g *Graph) InboundSource(id string) (string, bool) {
	edgeIDs := g.incoming[id]
	if len(edgeIDs) == 0 {
		return "", false
	}
	best := slices.Min(edgeIDs)
	return g.edges[best].Source, true
}

// InboundCount returns the number of inbound edges to the node.
func (g *Graph) InboundCount(id string) int { return len(g.incoming[id]) }

// NodesAtDepth returns all nodes at the given depth, sorted by ID.
func (g *Graph) NodesAtDepth(depth int) []*Node {
	var nodes []*Node
	for _, n := range g.nodes {
		if n.Depth == depth {
			nodes = append(nodes, n)
		}
	}
	slices.SortFunc(nodes, func(a, b *Node) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return nodes
}

// MaxDepth returns the highest depth present in the graph (0 for a graph
// containing only the root).
func (g *Graph) MaxDepth() int {
	maxDepth := 0
	for _, n := range g.nodes {
		if n.Depth > maxDepth {
			maxDepth = n.Depth
		}
	}
	return maxDepth
}

// RemoveBatch removes every node and edge tagged with the given batch key and
// returns the number of removed elements. This is the retraction path for
// transient placeholder batches; permanent elements carry an empty Batch and
// calling RemoveBatch with an empty key removes nothing.
func (g *Graph) RemoveBatch(key string) int {
	if key == "" {
		return 0
	}
	removed := 0
	for id, e := range g.edges {
		if e.Batch != key {
			continue
		}
		delete(g.edges, id)
		g.incoming[e.Target] = slices.DeleteFunc(g.incoming[e.Target], func(eid string) bool {
			return eid == id
		})
		removed++
	}
	for id, n := range g.nodes {
		if n.Batch != key {
			continue
		}
		delete(g.nodes, id)
		delete(g.expanded, id)
		delete(g.incoming, id)
		removed++
	}
	return removed
}
