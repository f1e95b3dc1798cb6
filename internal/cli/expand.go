package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kotomap/kotomap/pkg/expand"
	"github.com/kotomap/kotomap/pkg/graph"
)

// expandCommand creates the expand command for growing a graph snapshot.
func (c *CLI) expandCommand() *cobra.Command {
	var (
		genOpts generatorOptions
		input   string
		output  string
		nodeIDs []string
		rounds  int
		formats string
	)

	cmd := &cobra.Command{
		Use:   "expand",
		Short: "Expand nodes of a knowledge graph snapshot",
		Long: `Expand grows a knowledge graph by one hop around each requested focus node.

Without --input a fresh graph containing only the domain root is created.
The expanded graph is written back as a JSON snapshot that the render and
explore commands accept. Nodes default to the root when --node is omitted;
--rounds instead builds breadth-first from the root for a fixed number of
rounds, expanding every node the previous round produced.`,
		Example: `  # Start a new graph and expand the root
  kotomap expand -o graph.json

  # Expand two more nodes in an existing snapshot
  kotomap expand -i graph.json -o graph.json --node root-person --node root-company

  # Build two rounds deep, offline, and render alongside the snapshot
  kotomap expand -o graph.json --rounds 2 --offline --formats svg,png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if rounds > 0 && len(nodeIDs) > 0 {
				return fmt.Errorf("--rounds and --node are mutually exclusive")
			}
			return c.runExpand(cmd.Context(), genOpts, input, output, nodeIDs, rounds, formats)
		},
	}

	addGeneratorFlags(cmd, &genOpts)
	cmd.Flags().StringVarP(&input, "input", "i", "", "graph snapshot to expand (default: fresh root-only graph)")
	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "path for the expanded snapshot")
	cmd.Flags().StringArrayVar(&nodeIDs, "node", nil, "focus node ID to expand (repeatable, default: root)")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "expand breadth-first from the root for this many rounds")
	cmd.Flags().StringVar(&formats, "formats", "", "additionally render the result (comma-separated: svg,png,dot)")

	return cmd
}

func (c *CLI) runExpand(ctx context.Context, genOpts generatorOptions, input, output string, nodeIDs []string, rounds int, formats string) error {
	cat, err := loadCatalog(genOpts.domain)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	var g *graph.Graph
	if input != "" {
		g, err = graph.ReadFile(input)
		if err != nil {
			return fmt.Errorf("read snapshot: %w", err)
		}
		printInfo("Loaded %s", input)
	} else {
		g, err = graph.New(graph.Node{
			ID:     cat.RootNode.ID,
			Label:  cat.RootNode.Label,
			Kind:   cat.RootNode.Kind,
			Placed: true,
		})
		if err != nil {
			return err
		}
		printInfo("Started a new %s graph", StyleHighlight.Render(cat.Name))
	}

	gen, err := c.newGenerator(cat, genOpts)
	if err != nil {
		return err
	}

	exp, err := expand.New(expand.Config{
		Graph:     g,
		Generator: gen,
		Catalog:   cat,
		Logger:    c.Logger,
	})
	if err != nil {
		return err
	}

	prog := newProgress(c.Logger)
	expanded := 0

	if rounds > 0 {
		for r := range rounds {
			frontier := frontierIDs(g, r)
			if len(frontier) == 0 {
				break
			}
			for _, id := range frontier {
				if err := c.expandOne(ctx, exp, g, id); err != nil {
					return err
				}
				expanded++
			}
		}
	} else {
		if len(nodeIDs) == 0 {
			nodeIDs = []string{g.RootID()}
		}
		for _, id := range nodeIDs {
			if _, ok := g.Node(id); !ok {
				return fmt.Errorf("node %q not found in graph", id)
			}
			if err := c.expandOne(ctx, exp, g, id); err != nil {
				return err
			}
			expanded++
		}
	}

	prog.done(fmt.Sprintf("Expanded %d focus node(s)", expanded))

	if err := g.WriteFile(output); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	printFile(output)

	for _, format := range parseFormats(formats) {
		path := strings.TrimSuffix(output, filepath.Ext(output)) + "." + format
		data, err := renderFormat(g, cat, format, false)
		if err != nil {
			return err
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", format, err)
		}
		printFile(path)
	}

	printStats(g.NodeCount(), g.EdgeCount())
	printNextStep("Explore it", fmt.Sprintf("%s explore -i %s", appName, output))
	return nil
}

// expandOne expands a single focus with spinner feedback.
func (c *CLI) expandOne(ctx context.Context, exp *expand.Expander, g *graph.Graph, id string) error {
	node, ok := g.Node(id)
	if !ok {
		return fmt.Errorf("node %q not found in graph", id)
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Expanding %s...", node.Label))
	spinner.Start()
	res, err := exp.Expand(ctx, id)
	if err != nil {
		spinner.StopWithError(fmt.Sprintf("Expanding %s failed", node.Label))
		return err
	}
	spinner.Stop()

	if len(res.Nodes) == 0 {
		printInfo("%s yielded no new nodes", node.Label)
		return nil
	}
	printSuccess("Expanded %s (+%d nodes, +%d edges in %s)",
		node.Label, len(res.Nodes), len(res.Edges), res.Duration.Round(time.Millisecond))
	return nil
}

// frontierIDs lists unexpanded permanent nodes at the given depth, sorted.
func frontierIDs(g *graph.Graph, depth int) []string {
	var ids []string
	for _, n := range g.NodesAtDepth(depth) {
		if n.Batch == "" && !g.Expanded(n.ID) {
			ids = append(ids, n.ID)
		}
	}
	return ids
}

// parseFormats splits the comma-separated --formats value.
func parseFormats(s string) []string {
	if s == "" {
		return nil
	}
	var formats []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			formats = append(formats, strings.ToLower(f))
		}
	}
	return formats
}
