package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// Snapshot is the canonical serialization format for a graph instance.
// Used for API responses, CLI output and scripting. The format is
// human-readable and round-trips: Export → Import produces an equivalent
// graph, including positions and expanded flags.
type Snapshot struct {
	Root  string         `json:"root"`
	Nodes []SnapshotNode `json:"nodes"`
	Edges []SnapshotEdge `json:"edges"`
}

// SnapshotNode is the serialized form of a node.
type SnapshotNode struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Kind     string  `json:"kind"`
	Depth    int     `json:"depth"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Expanded bool    `json:"expanded,omitempty"`
}

// SnapshotEdge is the serialized form of an edge.
type SnapshotEdge struct {
	ID     string `json:"id"`
	Source string `json:"source"`
	Target string `json:"target"`
	Label  string `json:"label,omitempty"`
}

// Export converts the graph to its serialization format. Nodes and edges are
// sorted by ID for deterministic output. Transient placeholder elements
// (non-empty Batch) are excluded: a snapshot never contains pending state.
func (g *Graph) Export() Snapshot {
	out := Snapshot{Root: g.rootID}

	for _, n := range g.Nodes() {
		if n.Batch != "" {
			continue
		}
		out.Nodes = append(out.Nodes, SnapshotNode{
			ID:       n.ID,
			Label:    n.Label,
			Kind:     n.Kind,
			Depth:    n.Depth,
			X:        n.Pos.X,
			Y:        n.Pos.Y,
			Expanded: g.expanded[n.ID],
		})
	}
	slices.SortFunc(out.Nodes, func(a, b SnapshotNode) int {
		return compareID(a.ID, b.ID)
	})

	for _, e := range g.Edges() {
		if e.Batch != "" {
			continue
		}
		out.Edges = append(out.Edges, SnapshotEdge{
			ID:     e.ID,
			Source: e.Source,
			Target: e.Target,
			Label:  e.Label,
		})
	}
	slices.SortFunc(out.Edges, func(a, b SnapshotEdge) int {
		return compareID(a.ID, b.ID)
	})

	return out
}

// Import reconstructs a graph from its serialization format. Returns an error
// if the snapshot has no root node or violates graph constraints.
func Import(s Snapshot) (*Graph, error) {
	var root *SnapshotNode
	for i := range s.Nodes {
		if s.Nodes[i].ID == s.Root {
			root = &s.Nodes[i]
			break
		}
	}
	if root == nil {
		return nil, fmt.Errorf("snapshot root %q: %w", s.Root, ErrUnknownNode)
	}

	g, err := New(Node{ID: root.ID, Label: root.Label, Kind: root.Kind})
	if err != nil {
		return nil, err
	}
	rn := g.nodes[root.ID]
	rn.Pos = Point{X: root.X, Y: root.Y}
	rn.Placed = true

	for _, sn := range s.Nodes {
		if sn.ID == s.Root {
			continue
		}
		n := Node{
			ID:     sn.ID,
			Label:  sn.Label,
			Kind:   sn.Kind,
			Depth:  sn.Depth,
			Pos:    Point{X: sn.X, Y: sn.Y},
			Placed: true,
		}
		if err := g.AddNode(n); err != nil {
			return nil, fmt.Errorf("add node %s: %w", sn.ID, err)
		}
	}

	for _, se := range s.Edges {
		e := Edge{ID: se.ID, Source: se.Source, Target: se.Target, Label: se.Label}
		if err := g.AddEdge(e); err != nil {
			return nil, fmt.Errorf("add edge %s: %w", se.ID, err)
		}
	}

	for _, sn := range s.Nodes {
		if sn.Expanded {
			g.MarkExpanded(sn.ID)
		}
	}

	return g, nil
}

// Marshal converts the graph to indented JSON bytes.
func (g *Graph) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := g.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes the graph snapshot as JSON to w.
func (g *Graph) Write(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(g.Export()); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes the graph snapshot to a JSON file with 0644 permissions.
func (g *Graph) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return g.Write(f)
}

// Read decodes a JSON snapshot from r into a graph.
func Read(r io.Reader) (*Graph, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Import(s)
}

// ReadFile reads a JSON snapshot file and returns the decoded graph.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

func compareID(a, b string) int {
	if a < b {
		return -1
	}
	if a > b {
		return 1
	}
	return 0
}
