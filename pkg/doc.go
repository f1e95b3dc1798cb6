// Package pkg provides the core libraries for kotomap knowledge graph building.
//
// # Overview
//
// Kotomap grows a Japanese knowledge graph one node at a time: a language
// model proposes related nodes for a focus, the sanitizer normalizes the
// proposal into graph-safe elements, and a deterministic layout engine
// assigns positions. The pkg directory is organized into these areas:
//
//  1. [graph] - Graph aggregate, snapshots, and serialization
//  2. [catalog] - Domain vocabulary (kinds, relations, root node)
//  3. [sanitize] - Generator payload sanitization pipeline
//  4. [layout] - Deterministic incremental node placement
//  5. [generate] - Language model backends (OpenAI, stub) and caching
//  6. [expand] - Expansion orchestration with placeholder lifecycle
//  7. [render] - DOT, SVG, and PNG rendering with pinned positions
//  8. [cache], [session], [errors], [httputil], [observability] - Infrastructure
//
// # Architecture
//
// The typical data flow through kotomap:
//
//	Focus node + existing element IDs
//	         ↓
//	    [generate] package (prompt the model, decode JSON)
//	         ↓
//	    [sanitize] package (normalize, dedupe, language filter)
//	         ↓
//	    [graph] package (merge nodes and edges)
//	         ↓
//	    [layout] package (ring or fan placement)
//	         ↓
//	    [render] package (DOT/SVG/PNG output)
//
// # Quick Start
//
//	g, _ := graph.New(graph.Node{ID: "root", Label: "テクノロジー", Kind: "root", Placed: true})
//	exp, _ := expand.New(expand.Config{
//	    Graph:     g,
//	    Generator: generate.NewStubGenerator(catalog.Default()),
//	    Catalog:   catalog.Default(),
//	})
//	res, _ := exp.Expand(context.Background(), "root")
//	fmt.Println(len(res.Nodes), "new nodes")
package pkg
