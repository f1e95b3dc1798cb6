package generate

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/kotomap/kotomap/pkg/catalog"
)

// StubGenerator is a deterministic offline backend: it fabricates a plausible
// payload from the catalog alone, with no network access. Used by demo mode
// and tests. The same request always yields the same bytes.
type StubGenerator struct {
	cat *catalog.Catalog
}

// NewStubGenerator creates a stub backend for the given domain catalog.
func NewStubGenerator(cat *catalog.Catalog) *StubGenerator {
	return &StubGenerator{cat: cat}
}

// Model returns a fixed identifier for cache keying.
func (g *StubGenerator) Model() string { return "stub" }

// Expand implements [Generator]. It emits one child per non-root kind, up to
// three, with labels in the catalog's own vocabulary. Node IDs embed the
// focus ID; collision handling against the existing graph is left to the
// sanitizer like for any other backend.
func (g *StubGenerator) Expand(_ context.Context, req Request) ([]byte, error) {
	type wireNode struct {
		ID    string `json:"id"`
		Label string `json:"label"`
		Kind  string `json:"kind"`
	}
	type wireEdge struct {
		Source string `json:"source"`
		Target string `json:"target"`
		Label  string `json:"label"`
	}

	var nodes []wireNode
	var edges []wireEdge
	for _, k := range g.cat.Kinds {
		if k.ID == catalog.KindRoot || len(nodes) >= 3 {
			continue
		}
		id := fmt.Sprintf("%s-%s", req.Focus.ID, k.ID)
		nodes = append(nodes, wireNode{
			ID:    id,
			Label: fmt.Sprintf("%sに関する%s", req.Focus.Label, k.Label),
			Kind:  k.ID,
		})
		edges = append(edges, wireEdge{
			Source: req.Focus.ID,
			Target: id,
			Label:  g.cat.RelationFor(k.ID),
		})
	}

	payload := map[string]any{"nodes": nodes, "edges": edges}
	return json.Marshal(payload)
}
