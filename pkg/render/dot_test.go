package render

import (
	"strings"
	"testing"

	"github.com/kotomap/kotomap/pkg/catalog"
	"github.com/kotomap/kotomap/pkg/graph"
)

func buildGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g, err := graph.New(graph.Node{ID: "root", Label: "テクノロジー", Kind: "root", Placed: true})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.AddNode(graph.Node{
		ID: "net", Label: "インターネット", Kind: "concept", Depth: 1,
		Pos: graph.Point{X: 0, Y: -160}, Placed: true,
	}); err != nil {
		t.Fatal(err)
	}
	if err := g.AddEdge(graph.Edge{ID: "e1", Source: "root", Target: "net", Label: "関連する概念"}); err != nil {
		t.Fatal(err)
	}
	g.MarkExpanded("root")
	return g
}

func TestToDOT(t *testing.T) {
	g := buildGraph(t)
	dot := ToDOT(g, catalog.Default(), Options{})

	for _, want := range []string{
		"layout=neato",
		`"net" [`,
		"label=\"インターネット\"",
		`pos="0.00,160.00!"`,
		`"root" -> "net";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT output missing %q:\n%s", want, dot)
		}
	}

	// Expanded nodes are outlined.
	if !strings.Contains(dot, "penwidth=2") {
		t.Error("expanded root should have a bolder outline")
	}
}

func TestToDOTEdgeLabels(t *testing.T) {
	g := buildGraph(t)

	plain := ToDOT(g, catalog.Default(), Options{})
	if strings.Contains(plain, "関連する概念") {
		t.Error("edge labels should be omitted by default")
	}

	labeled := ToDOT(g, catalog.Default(), Options{ShowEdgeLabels: true})
	if !strings.Contains(labeled, "label=\"関連する概念\"") {
		t.Error("edge labels should appear when requested")
	}
}

func TestToDOTDeterministic(t *testing.T) {
	g := buildGraph(t)
	cat := catalog.Default()
	if ToDOT(g, cat, Options{}) != ToDOT(g, cat, Options{}) {
		t.Error("DOT output differs between identical calls")
	}
}

func TestToDOTExcludesPlaceholders(t *testing.T) {
	g := buildGraph(t)
	if err := g.AddNode(graph.Node{ID: "pending-1", Label: "…", Depth: 1, Batch: "b"}); err != nil {
		t.Fatal(err)
	}
	dot := ToDOT(g, catalog.Default(), Options{})
	if strings.Contains(dot, "pending-1") {
		t.Error("placeholder nodes must not be rendered")
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="8pt" height="6pt" viewBox="0.00 0.00 800.00 600.00" xmlns="http://www.w3.org/2000/svg">body</svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 800.00 600.00"`) {
		t.Errorf("viewBox not normalized: %s", out)
	}
	if !strings.Contains(out, `width="800" height="600"`) {
		t.Errorf("pixel dimensions missing: %s", out)
	}

	// Output without a viewBox passes through untouched.
	plain := []byte(`<svg>x</svg>`)
	if string(normalizeViewBox(plain)) != string(plain) {
		t.Error("svg without viewBox should be unchanged")
	}
}
