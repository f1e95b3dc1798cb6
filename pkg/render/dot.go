package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/kotomap/kotomap/pkg/catalog"
	"github.com/kotomap/kotomap/pkg/graph"
)

// pointsPerUnit converts layout user units to Graphviz points. Positions are
// pinned, so the factor only controls overall image scale.
const pointsPerUnit = 1.0

// palette is cycled through per kind, in catalog order.
var palette = []string{
	"#ffd9e8", // pink
	"#d9eaff", // blue
	"#d9ffe0", // green
	"#fff3d9", // amber
	"#ecd9ff", // violet
	"#d9fffb", // teal
}

// Options configures DOT generation.
type Options struct {
	// ShowEdgeLabels includes relation labels on edges.
	ShowEdgeLabels bool

	// FontName overrides the Graphviz font. The default is a generic
	// sans-serif family; pick a CJK-capable font for image output.
	FontName string
}

// ToDOT converts a graph to Graphviz DOT with pinned positions. The output
// uses the neato engine so the layout engine's coordinates are reproduced
// as-is. Elements are emitted in sorted-ID order: the same graph always
// yields byte-identical DOT.
func ToDOT(g *graph.Graph, cat *catalog.Catalog, opts Options) string {
	font := opts.FontName
	if font == "" {
		font = "sans-serif"
	}
	colors := kindColors(cat)

	var buf bytes.Buffer
	buf.WriteString("digraph kotomap {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", fontname=%q, fontsize=14, margin=\"0.15,0.08\"];\n", font)
	fmt.Fprintf(&buf, "  edge [fontname=%q, fontsize=10, color=\"#888888\"];\n", font)
	buf.WriteString("\n")

	snap := g.Export()
	for _, n := range snap.Nodes {
		fill, ok := colors[n.Kind]
		if !ok {
			fill = "#ffffff"
		}
		attrs := []string{
			fmt.Sprintf("label=%q", n.Label),
			// Graphviz Y grows upward; layout coordinates grow downward.
			fmt.Sprintf("pos=\"%.2f,%.2f!\"", n.X*pointsPerUnit, -n.Y*pointsPerUnit),
			fmt.Sprintf("fillcolor=%q", fill),
		}
		if n.Expanded {
			attrs = append(attrs, "penwidth=2")
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range snap.Edges {
		if opts.ShowEdgeLabels && e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.Source, e.Target, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// kindColors assigns a palette color per kind in catalog order.
func kindColors(cat *catalog.Catalog) map[string]string {
	colors := make(map[string]string, len(cat.Kinds)+1)
	colors[catalog.KindRoot] = "#ffffff"
	i := 0
	for _, k := range cat.Kinds {
		if k.ID == catalog.KindRoot {
			continue
		}
		colors[k.ID] = palette[i%len(palette)]
		i++
	}
	return colors
}
