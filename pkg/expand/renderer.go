package expand

import "github.com/kotomap/kotomap/pkg/graph"

// Renderer mirrors graph mutations onto an attached drawing surface. The
// expander calls it synchronously from Expand, in mutation order, so a
// surface that applies events as they arrive always shows a consistent
// one-hop view: placeholders appear while the generator call is in flight
// and are removed before the real batch lands.
//
// Implementations must tolerate repeated events: Position may re-report an
// unchanged coordinate and Remove may name IDs that were already removed.
type Renderer interface {
	// AddNode reports a node added to the graph (including transient
	// placeholder nodes, which carry a non-empty Batch).
	AddNode(n graph.Node)

	// AddEdge reports an edge added to the graph.
	AddEdge(e graph.Edge)

	// Position reports a node's assigned coordinate.
	Position(id string, p graph.Point)

	// Remove reports retracted element IDs (nodes and edges).
	Remove(ids []string)
}

// NopRenderer is a Renderer that does nothing. It is the default when no
// drawing surface is attached.
type NopRenderer struct{}

func (NopRenderer) AddNode(graph.Node)           {}
func (NopRenderer) AddEdge(graph.Edge)           {}
func (NopRenderer) Position(string, graph.Point) {}
func (NopRenderer) Remove([]string)              {}
