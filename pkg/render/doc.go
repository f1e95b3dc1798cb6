// Package render turns graph snapshots into visual outputs.
//
// # Overview
//
// The renderer emits Graphviz DOT with pinned node positions, so the image
// reproduces exactly the coordinates the layout engine assigned; Graphviz
// only draws, it never lays out. Downstream formats build on that:
//
//	dot := render.ToDOT(g, cat, render.Options{})
//	svg, err := render.SVG(dot)
//	png, err := render.PNG(dot)
//
// # Styling
//
// Node fill colors are assigned per kind, cycling through a fixed palette in
// catalog order so the same catalog always colors the same way. Expanded
// nodes get a bolder outline. Labels are the node labels verbatim; the
// output must render CJK text, so SVG consumers need a font that covers it.
package render
