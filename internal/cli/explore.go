package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kotomap/kotomap/pkg/expand"
	"github.com/kotomap/kotomap/pkg/graph"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// exploreCommand creates the explore command, an interactive graph browser.
func (c *CLI) exploreCommand() *cobra.Command {
	var (
		genOpts generatorOptions
		input   string
		output  string
	)

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Interactively expand a knowledge graph in the terminal",
		Long: `Explore opens a terminal browser over the knowledge graph. Navigate nodes
with the arrow keys and press enter to expand the selected node. The graph is
written back as a snapshot when you quit.`,
		Example: `  kotomap explore -o graph.json
  kotomap explore -i graph.json --offline`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runExplore(cmd.Context(), genOpts, input, output)
		},
	}

	addGeneratorFlags(cmd, &genOpts)
	cmd.Flags().StringVarP(&input, "input", "i", "", "graph snapshot to explore (default: fresh root-only graph)")
	cmd.Flags().StringVarP(&output, "output", "o", "graph.json", "path for the snapshot written on quit")

	return cmd
}

func (c *CLI) runExplore(ctx context.Context, genOpts generatorOptions, input, output string) error {
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

	model := newExploreModel(ctx, exp)
	if _, err := tea.NewProgram(model, tea.WithContext(ctx)).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) {
			return ctx.Err()
		}
		return err
	}

	if err := g.WriteFile(output); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	printFile(output)
	printStats(g.NodeCount(), g.EdgeCount())
	printNextStep("Render it", fmt.Sprintf("%s render %s", appName, output))
	return nil
}

// =============================================================================
// ExploreModel - Interactive graph browsing
// =============================================================================

// nodeRow is one visible line of the graph tree. Values are copied out of
// the graph so the view never reads live graph state while an expansion
// goroutine is mutating it.
type nodeRow struct {
	id       string
	label    string
	kind     string
	indent   int
	expanded bool
	pending  bool
}

// expandDoneMsg reports a finished expansion back to the model.
type expandDoneMsg struct {
	focusID string
	result  *expand.Result
	err     error
}

// tickMsg drives the in-flight animation.
type tickMsg time.Time

// ExploreModel is the bubbletea model for interactive graph expansion.
type ExploreModel struct {
	ctx      context.Context
	expander *expand.Expander

	rows      []nodeRow
	nodeCount int
	edgeCount int
	cursor    int
	offset    int
	height    int

	expanding bool
	frame     int
	status    string
}

func newExploreModel(ctx context.Context, exp *expand.Expander) ExploreModel {
	m := ExploreModel{ctx: ctx, expander: exp, height: 15}
	m.reload()
	return m
}

// buildRows flattens the graph into a depth-first tree rooted at the root
// node. Children are visited in sorted ID order so the listing is stable
// across rebuilds. Nodes reachable through several edges appear once, under
// the first parent found.
func buildRows(g *graph.Graph) []nodeRow {
	children := make(map[string][]string)
	for _, e := range g.Edges() {
		children[e.Source] = append(children[e.Source], e.Target)
	}
	for _, ts := range children {
		sort.Strings(ts)
	}

	var rows []nodeRow
	seen := make(map[string]bool)

	var walk func(id string, indent int)
	walk = func(id string, indent int) {
		if seen[id] {
			return
		}
		seen[id] = true
		node, ok := g.Node(id)
		if !ok {
			return
		}
		rows = append(rows, nodeRow{
			id:       node.ID,
			label:    node.Label,
			kind:     node.Kind,
			indent:   indent,
			expanded: g.Expanded(node.ID),
			pending:  node.Batch != "",
		})
		for _, child := range children[id] {
			walk(child, indent+1)
		}
	}
	walk(g.RootID(), 0)

	// Anything not reachable from the root (placeholder batches mid-retract)
	// goes last so every node stays selectable.
	for _, n := range g.Nodes() {
		if !seen[n.ID] {
			rows = append(rows, nodeRow{id: n.ID, label: n.Label, kind: n.Kind, indent: 1, pending: n.Batch != ""})
		}
	}
	return rows
}

func (m ExploreModel) Init() tea.Cmd {
	return nil
}

func (m ExploreModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "enter":
			return m.startExpand()
		}

	case tea.WindowSizeMsg:
		m.height = msg.Height - 6
		if m.height < 5 {
			m.height = 5
		}

	case tickMsg:
		// Only the animation frame advances here. The graph is being
		// mutated by the expansion goroutine and must not be read until
		// expandDoneMsg arrives.
		if !m.expanding {
			return m, nil
		}
		m.frame++
		return m, tick()

	case expandDoneMsg:
		m.expanding = false
		m.reload()
		m.clampCursor()
		switch {
		case errors.Is(msg.err, expand.ErrBusy):
			// Raced with another expansion; nothing to report.
		case msg.err != nil:
			m.status = StyleWarning.Render(fmt.Sprintf("expansion failed: %v", msg.err))
		case len(msg.result.Nodes) == 0:
			m.status = listDimStyle.Render("no new nodes")
		default:
			m.status = StyleSuccess.Render(fmt.Sprintf("+%d nodes, +%d edges", len(msg.result.Nodes), len(msg.result.Edges)))
		}
		return m, nil
	}

	return m, nil
}

// startExpand launches an expansion of the node under the cursor.
func (m ExploreModel) startExpand() (tea.Model, tea.Cmd) {
	if m.expanding || m.cursor >= len(m.rows) {
		return m, nil
	}
	row := m.rows[m.cursor]
	if row.pending || row.expanded {
		return m, nil
	}

	m.expanding = true
	m.status = ""
	focusID := row.id
	exp := m.expander
	ctx := m.ctx

	run := func() tea.Msg {
		res, err := exp.Expand(ctx, focusID)
		return expandDoneMsg{focusID: focusID, result: res, err: err}
	}
	return m, tea.Batch(run, tick())
}

// reload rebuilds the row listing and cached counts from the graph. Must not
// be called while an expansion is in flight.
func (m *ExploreModel) reload() {
	g := m.expander.Graph()
	m.rows = buildRows(g)
	m.nodeCount = g.NodeCount()
	m.edgeCount = g.EdgeCount()
}

func (m *ExploreModel) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.offset > m.cursor {
		m.offset = m.cursor
	}
}

func tick() tea.Cmd {
	return tea.Tick(120*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m ExploreModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Explore Graph"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ expand  q quit and save"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.rows) {
		end = len(m.rows)
	}

	for i := m.offset; i < end; i++ {
		row := m.rows[i]

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		marker := " "
		if row.expanded {
			marker = StyleSuccess.Render("✓")
		}

		kind := listDimStyle.Render(row.kind)
		line := fmt.Sprintf("%s%s%s %s  %s", cursor, strings.Repeat("  ", row.indent), marker, row.label, kind)

		switch {
		case row.pending:
			b.WriteString(listDimStyle.Render(line))
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.expanding {
		frame := spinFrames[m.frame%len(spinFrames)]
		b.WriteString(styleIconSpinner.Render(frame) + " " + listDimStyle.Render("expanding..."))
	} else if m.status != "" {
		b.WriteString(m.status)
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d] %d nodes · %d edges", m.cursor+1, len(m.rows), m.nodeCount, m.edgeCount)))

	return b.String()
}
