package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kotomap/kotomap/pkg/catalog"
	"github.com/kotomap/kotomap/pkg/graph"
	"github.com/kotomap/kotomap/pkg/render"
)

// renderCommand creates the render command for turning snapshots into images.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		format     string
		domain     string
		edgeLabels bool
	)

	cmd := &cobra.Command{
		Use:   "render <snapshot>",
		Short: "Render a graph snapshot as SVG, PNG, or DOT",
		Long: `Render reads a graph snapshot produced by expand or explore and writes a
visualization. Node positions stored in the snapshot are pinned, so rendering
the same snapshot always produces the same picture.`,
		Example: `  # Render an SVG next to the snapshot
  kotomap render graph.json

  # PNG with edge labels
  kotomap render graph.json --format png --edge-labels -o graph.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(args[0], output, format, domain, edgeLabels)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output path (default: snapshot name with the format extension)")
	cmd.Flags().StringVarP(&format, "format", "f", "svg", "output format: svg, png, or dot")
	cmd.Flags().StringVar(&domain, "domain", "", "path to a domain catalog TOML file (default: built-in catalog)")
	cmd.Flags().BoolVar(&edgeLabels, "edge-labels", false, "draw relation labels on edges")

	return cmd
}

func (c *CLI) runRender(input, output, format, domain string, edgeLabels bool) error {
	cat, err := loadCatalog(domain)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	g, err := graph.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	format = strings.ToLower(format)
	if output == "" {
		output = strings.TrimSuffix(input, filepath.Ext(input)) + "." + format
	}

	data, err := renderFormat(g, cat, format, edgeLabels)
	if err != nil {
		return err
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}

	printSuccess("Rendered %s as %s", input, strings.ToUpper(format))
	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount())
	return nil
}

// renderFormat produces the output bytes for the requested format.
func renderFormat(g *graph.Graph, cat *catalog.Catalog, format string, edgeLabels bool) ([]byte, error) {
	dot := render.ToDOT(g, cat, render.Options{ShowEdgeLabels: edgeLabels})

	switch format {
	case "dot":
		return []byte(dot), nil
	case "svg":
		return render.SVG(dot)
	case "png":
		return render.PNG(dot)
	default:
		return nil, fmt.Errorf("unsupported format %q (want svg, png, or dot)", format)
	}
}
