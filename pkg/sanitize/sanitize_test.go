package sanitize

import (
	"encoding/json"
	"testing"

	"github.com/kotomap/kotomap/pkg/catalog"
)

// payload decodes a JSON literal into the untrusted payload shape, going
// through encoding/json so the test sees the same dynamic types production
// code does.
func payload(t *testing.T, src string) map[string]any {
	t.Helper()
	var m map[string]any
	if err := json.Unmarshal([]byte(src), &m); err != nil {
		t.Fatalf("bad test payload: %v", err)
	}
	return m
}

func TestExpansionNormalizesNodes(t *testing.T) {
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root"},
		Payload: payload(t, `{
			"nodes": [
				{"id": "  net  ", "label": "  インターネット  ", "kind": "concept", "depth": 99},
				{"id": "bare", "kind": "nosuchkind"},
				{"label": "idなし", "kind": "concept"},
				{"id": "", "label": "空", "kind": "concept"},
				"not an object",
				42
			]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(res.Nodes))
	}

	n := res.Nodes[0]
	if n.ID != "net" || n.Label != "インターネット" {
		t.Errorf("node 0 = %q/%q, want trimmed id and label", n.ID, n.Label)
	}
	if n.Kind != "concept" {
		t.Errorf("node 0 kind = %q, want concept", n.Kind)
	}
	if n.Depth != 1 {
		t.Errorf("node 0 depth = %d, want 1 (payload depth ignored)", n.Depth)
	}

	n = res.Nodes[1]
	if n.Label != "bare" {
		t.Errorf("missing label should default to id, got %q", n.Label)
	}
	if n.Kind != cat.Fallback() {
		t.Errorf("unknown kind coerced to %q, want %q", n.Kind, cat.Fallback())
	}
}

func TestExpansionResolvesCollisions(t *testing.T) {
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root", "taken", "taken__1"},
		Payload: payload(t, `{
			"nodes": [
				{"id": "taken", "label": "一つ目", "kind": "concept"},
				{"id": "taken", "label": "二つ目", "kind": "concept"}
			]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(res.Nodes))
	}
	if res.Nodes[0].ID != "taken__2" {
		t.Errorf("first collision resolved to %q, want taken__2", res.Nodes[0].ID)
	}
	if res.Nodes[1].ID != "taken__3" {
		t.Errorf("second collision resolved to %q, want taken__3", res.Nodes[1].ID)
	}
}

func TestExpansionEdgeIDCollision(t *testing.T) {
	// Edge IDs live in the same namespace as node IDs: a payload edge ID that
	// matches an existing element gets suffixed too.
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root", "e1"},
		Payload: payload(t, `{
			"nodes": [{"id": "a", "label": "技術", "kind": "concept"}],
			"edges": [{"id": "e1", "source": "root", "target": "a", "label": "関連する技術"}]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(res.Edges))
	}
	if res.Edges[0].ID != "e1__1" {
		t.Errorf("edge ID = %q, want e1__1", res.Edges[0].ID)
	}
}

func TestExpansionCapsCardinality(t *testing.T) {
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root"},
		Payload: payload(t, `{
			"nodes": [
				{"id": "n1", "label": "一", "kind": "concept"},
				{"id": "n2", "label": "二", "kind": "concept"},
				{"id": "n3", "label": "三", "kind": "concept"},
				{"id": "n4", "label": "四", "kind": "concept"},
				{"id": "n5", "label": "五", "kind": "concept"}
			]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Nodes) != MaxChildren {
		t.Fatalf("got %d nodes, want %d", len(res.Nodes), MaxChildren)
	}
	for i, want := range []string{"n1", "n2", "n3"} {
		if res.Nodes[i].ID != want {
			t.Errorf("node %d = %q, want %q (payload order)", i, res.Nodes[i].ID, want)
		}
	}
}

func TestExpansionLanguageFilter(t *testing.T) {
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root"},
		Payload: payload(t, `{
			"nodes": [
				{"id": "c1", "label": "untranslated", "kind": "concept"},
				{"id": "p1", "label": "Nintendo", "kind": "company"},
				{"id": "c2", "label": "ゲーム", "kind": "concept"}
			]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(res.Nodes))
	}
	if res.Nodes[0].ID != "p1" || res.Nodes[1].ID != "c2" {
		t.Errorf("surviving nodes = %q, %q; want p1 (exempt kind) and c2", res.Nodes[0].ID, res.Nodes[1].ID)
	}
}

func TestExpansionEdgeEnforcement(t *testing.T) {
	cat := catalog.Default()
	in := Input{
		FocusID:    "focus",
		FocusDepth: 2,
		UsedIDs:    []string{"root", "focus"},
		Payload: payload(t, `{
			"nodes": [
				{"id": "a", "label": "ア", "kind": "concept"},
				{"id": "b", "label": "イ", "kind": "person"}
			],
			"edges": [
				{"id": "ok", "source": "focus", "target": "a", "label": "派生した概念"},
				{"id": "wrong-src", "source": "root", "target": "b", "label": "無関係"},
				{"id": "ghost", "source": "focus", "target": "nonexistent", "label": "幽霊"},
				{"source": "focus", "target": "b", "label": "related person"}
			]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(res.Edges))
	}

	e := res.Edges[0]
	if e.ID != "ok" || e.Source != "focus" || e.Target != "a" {
		t.Errorf("edge 0 = %+v", e)
	}
	if e.Label != "派生した概念" {
		t.Errorf("translated edge label replaced: %q", e.Label)
	}

	// No payload edge ID: synthetic ID. All-ASCII label: kind default.
	e = res.Edges[1]
	if e.ID != "e-focus-b" {
		t.Errorf("edge 1 ID = %q, want e-focus-b", e.ID)
	}
	if e.Label != cat.RelationFor("person") {
		t.Errorf("edge 1 label = %q, want kind default %q", e.Label, cat.RelationFor("person"))
	}
}

func TestExpansionEdgeTargetsResolvedID(t *testing.T) {
	// A payload edge pointing at the original (pre-suffix) ID of a renamed
	// node does not match; connectivity completion covers the node instead.
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root", "a"},
		Payload: payload(t, `{
			"nodes": [{"id": "a", "label": "ア", "kind": "concept"}],
			"edges": [{"id": "e1", "source": "root", "target": "a", "label": "つながり"}]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Nodes) != 1 || res.Nodes[0].ID != "a__1" {
		t.Fatalf("node not renamed: %+v", res.Nodes)
	}
	if len(res.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(res.Edges))
	}
	e := res.Edges[0]
	if e.Target != "a__1" {
		t.Errorf("edge target = %q, want the synthesized edge to a__1", e.Target)
	}
	if e.ID != "e-root-a__1" {
		t.Errorf("edge ID = %q, want synthetic e-root-a__1", e.ID)
	}
}

func TestExpansionConnectivityCompletion(t *testing.T) {
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root"},
		Payload: payload(t, `{
			"nodes": [
				{"id": "a", "label": "ア", "kind": "concept"},
				{"id": "b", "label": "イ", "kind": "event"}
			],
			"edges": [{"source": "root", "target": "a", "label": "関連する概念"}]
		}`),
	}

	res := Expansion(in, cat)
	if len(res.Edges) != 2 {
		t.Fatalf("got %d edges, want 2", len(res.Edges))
	}
	synth := res.Edges[1]
	if synth.Source != "root" || synth.Target != "b" {
		t.Errorf("synthesized edge = %+v, want root→b", synth)
	}
	if synth.Label != cat.RelationFor("event") {
		t.Errorf("synthesized label = %q, want %q", synth.Label, cat.RelationFor("event"))
	}
}

func TestExpansionMalformedPayloads(t *testing.T) {
	cat := catalog.Default()
	tests := []struct {
		name string
		src  string
	}{
		{"empty object", `{}`},
		{"nodes not a list", `{"nodes": "oops"}`},
		{"nodes list of scalars", `{"nodes": [1, 2, 3]}`},
		{"edges only", `{"edges": [{"source": "root", "target": "x"}]}`},
		{"null members", `{"nodes": null, "edges": null}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := Input{FocusID: "root", UsedIDs: []string{"root"}, Payload: payload(t, tt.src)}
			res := Expansion(in, cat)
			if len(res.Nodes) != 0 || len(res.Edges) != 0 {
				t.Errorf("got %d nodes, %d edges; want empty batch", len(res.Nodes), len(res.Edges))
			}
		})
	}

	// A nil payload map behaves like an empty one.
	res := Expansion(Input{FocusID: "root", UsedIDs: []string{"root"}}, cat)
	if len(res.Nodes) != 0 || len(res.Edges) != 0 {
		t.Error("nil payload should produce an empty batch")
	}
}

// TestExpansionCombined walks a single payload through every stage: collision
// renaming, label filtering of the original entry, and connectivity
// completion toward the surviving renamed node.
func TestExpansionCombined(t *testing.T) {
	cat := catalog.Default()
	in := Input{
		FocusID:    "root",
		FocusDepth: 0,
		UsedIDs:    []string{"root"},
		Payload: payload(t, `{
			"nodes": [
				{"id": "a", "label": "Example", "kind": "unknownkind"},
				{"id": "a", "label": "別の例", "kind": "concept"}
			]
		}`),
	}

	res := Expansion(in, cat)

	if len(res.Nodes) != 1 {
		t.Fatalf("got %d nodes, want 1", len(res.Nodes))
	}
	n := res.Nodes[0]
	if n.ID != "a__1" {
		t.Errorf("node ID = %q, want a__1 (suffix survives the first entry's removal)", n.ID)
	}
	if n.Label != "別の例" || n.Kind != "concept" || n.Depth != 1 {
		t.Errorf("node = %+v", n)
	}

	if len(res.Edges) != 1 {
		t.Fatalf("got %d edges, want 1", len(res.Edges))
	}
	e := res.Edges[0]
	if e.Source != "root" || e.Target != "a__1" {
		t.Errorf("edge = %+v, want root→a__1", e)
	}
	if e.Label != cat.RelationFor("concept") {
		t.Errorf("edge label = %q, want %q", e.Label, cat.RelationFor("concept"))
	}
}
