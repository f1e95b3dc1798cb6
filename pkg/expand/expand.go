package expand

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/kotomap/kotomap/pkg/catalog"
	apperrors "github.com/kotomap/kotomap/pkg/errors"
	"github.com/kotomap/kotomap/pkg/generate"
	"github.com/kotomap/kotomap/pkg/graph"
	"github.com/kotomap/kotomap/pkg/layout"
	"github.com/kotomap/kotomap/pkg/observability"
	"github.com/kotomap/kotomap/pkg/sanitize"
)

// ErrBusy is returned by [Expander.Expand] while another expansion is in
// flight. Callers decide what to do with it; interactive frontends typically
// drop the request silently.
var ErrBusy = errors.New("expansion already in flight")

// PlaceholderCount is how many pending nodes are shown at the focus while a
// generator call is in flight.
const PlaceholderCount = 3

// PlaceholderLabel is the label shown on pending nodes.
const PlaceholderLabel = "…"

// Config assembles an expander. Graph, Generator and Catalog are required;
// the rest defaults.
type Config struct {
	Graph     *graph.Graph
	Generator generate.Generator
	Catalog   *catalog.Catalog

	// Layout engine. Nil means a default engine.
	Layout *layout.Engine

	// Renderer receives mutation events for an attached drawing surface.
	// Nil means no surface.
	Renderer Renderer

	// Logger for operational logging. Nil discards.
	Logger *log.Logger
}

// Result describes what one expansion added to the graph.
type Result struct {
	FocusID string
	Nodes   []graph.Node
	Edges   []graph.Edge

	// Duration covers the whole operation including the generator call.
	Duration time.Duration
}

// Expander drives expansions for a single graph. Safe for concurrent use:
// operations are serialized, and concurrent calls fail fast with [ErrBusy]
// instead of queueing.
type Expander struct {
	graph    *graph.Graph
	gen      generate.Generator
	cat      *catalog.Catalog
	layout   *layout.Engine
	renderer Renderer
	logger   *log.Logger

	mu   sync.Mutex
	busy bool

	// gmu guards the graph against readers racing an in-flight expansion.
	// All graph mutation happens under the write lock; concurrent readers
	// use Snapshot or View. The lock is NOT held across the generator call,
	// so reads stay cheap during the slow network wait.
	gmu sync.RWMutex
}

// New creates an expander. Returns an error if a required component is
// missing.
func New(cfg Config) (*Expander, error) {
	if cfg.Graph == nil || cfg.Generator == nil || cfg.Catalog == nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "expander requires a graph, a generator and a catalog")
	}
	if cfg.Layout == nil {
		cfg.Layout = layout.New(layout.Options{})
	}
	if cfg.Renderer == nil {
		cfg.Renderer = NopRenderer{}
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(io.Discard)
	}
	return &Expander{
		graph:    cfg.Graph,
		gen:      cfg.Generator,
		cat:      cfg.Catalog,
		layout:   cfg.Layout,
		renderer: cfg.Renderer,
		logger:   cfg.Logger,
	}, nil
}

// Graph returns the graph this expander mutates, without synchronization.
// Single-goroutine callers may read it between operations; anything that can
// overlap an in-flight Expand must go through Snapshot or View instead.
func (e *Expander) Graph() *graph.Graph { return e.graph }

// Snapshot exports the graph under the read lock. Safe to call at any time,
// including while an expansion is in flight.
func (e *Expander) Snapshot() graph.Snapshot {
	e.gmu.RLock()
	defer e.gmu.RUnlock()
	return e.graph.Export()
}

// View runs fn with the graph read lock held. fn must not mutate the graph
// or retain it past the call.
func (e *Expander) View(fn func(g *graph.Graph)) {
	e.gmu.RLock()
	defer e.gmu.RUnlock()
	fn(e.graph)
}

// Catalog returns the domain catalog the expander works against.
func (e *Expander) Catalog() *catalog.Catalog { return e.cat }

// Busy reports whether an expansion is currently in flight.
func (e *Expander) Busy() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.busy
}

// Expand runs one expansion of the given focus node.
//
// Returns ErrBusy while another expansion is in flight, a NODE_NOT_FOUND
// error for an unknown focus, and an empty result with a nil error for a
// focus that is already expanded. Transport failures (generator errors,
// undecodable responses) are returned after the placeholder batch has been
// retracted; the permanent graph is unchanged in that case.
func (e *Expander) Expand(ctx context.Context, focusID string) (*Result, error) {
	e.mu.Lock()
	if e.busy {
		e.mu.Unlock()
		return nil, ErrBusy
	}
	e.busy = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.busy = false
		e.mu.Unlock()
	}()

	focus, ok := e.graph.Node(focusID)
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNodeNotFound, "node %q does not exist", focusID)
	}
	if e.graph.Expanded(focusID) {
		return &Result{FocusID: focusID}, nil
	}

	hooks := observability.Expansion()
	hooks.OnExpandStart(ctx, focusID)
	start := time.Now()

	res, err := e.expand(ctx, focus)
	if err != nil {
		hooks.OnExpandComplete(ctx, focusID, 0, time.Since(start), err)
		return nil, err
	}
	res.Duration = time.Since(start)
	hooks.OnExpandComplete(ctx, focusID, len(res.Nodes), res.Duration, nil)

	e.logger.Info("expanded node",
		"focus", focusID,
		"nodes", len(res.Nodes),
		"edges", len(res.Edges),
		"duration", res.Duration)
	return res, nil
}

func (e *Expander) expand(ctx context.Context, focus *graph.Node) (*Result, error) {
	// The ID pool must be captured before the placeholder batch goes in:
	// placeholder IDs are transient and must not influence collision
	// suffixes.
	e.gmu.RLock()
	usedIDs := e.graph.ElementIDs()
	e.gmu.RUnlock()

	batch := uuid.NewString()
	phIDs := e.insertPlaceholders(focus, batch)
	defer e.retractPlaceholders(batch, phIDs)

	raw, err := e.gen.Expand(ctx, generate.Request{
		Focus: generate.FocusNode{
			ID:    focus.ID,
			Label: focus.Label,
			Kind:  focus.Kind,
			Depth: focus.Depth,
		},
		ExistingElementIDs: usedIDs,
	})
	if err != nil {
		return nil, fmt.Errorf("generate expansion for %s: %w", focus.ID, err)
	}

	payload, err := generate.DecodePayload(raw)
	if err != nil {
		return nil, err
	}

	proposed := 0
	if ns, ok := payload["nodes"].([]any); ok {
		proposed = len(ns)
	}

	res := sanitize.Expansion(sanitize.Input{
		FocusID:    focus.ID,
		FocusDepth: focus.Depth,
		UsedIDs:    usedIDs,
		Payload:    payload,
	}, e.cat)
	observability.Expansion().OnSanitizeComplete(ctx, focus.ID, len(res.Nodes), proposed-len(res.Nodes))

	// Placeholders come out before the real batch goes in, so the merged
	// elements never contend with transient IDs.
	e.retractPlaceholders(batch, phIDs)

	if err := e.merge(ctx, focus, res); err != nil {
		return nil, err
	}

	return &Result{FocusID: focus.ID, Nodes: res.Nodes, Edges: res.Edges}, nil
}

// merge applies a sanitized batch to the graph under the write lock: add
// elements, lay out the new nodes, mark the focus expanded.
func (e *Expander) merge(ctx context.Context, focus *graph.Node, res sanitize.Result) error {
	e.gmu.Lock()
	defer e.gmu.Unlock()

	newIDs := make([]string, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		if err := e.graph.AddNode(n); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, err, "merge node %s", n.ID)
		}
		e.renderer.AddNode(n)
		newIDs = append(newIDs, n.ID)
	}
	for _, ed := range res.Edges {
		if err := e.graph.AddEdge(ed); err != nil {
			return apperrors.Wrap(apperrors.ErrCodeInternal, err, "merge edge %s", ed.ID)
		}
		e.renderer.AddEdge(ed)
	}

	layoutStart := time.Now()
	if err := e.layout.Place(e.graph, focus.ID, newIDs); err != nil {
		return apperrors.Wrap(apperrors.ErrCodeInternal, err, "layout after expanding %s", focus.ID)
	}
	observability.Expansion().OnLayoutComplete(ctx, focus.ID, len(newIDs), time.Since(layoutStart))
	e.pushPositions()

	e.graph.MarkExpanded(focus.ID)
	return nil
}

// insertPlaceholders adds the transient pending batch at the focus and
// returns the element IDs it managed to add. Failures are ignored:
// placeholders are cosmetic and an ID collision just means one fewer pending
// node.
func (e *Expander) insertPlaceholders(focus *graph.Node, batch string) []string {
	e.gmu.Lock()
	defer e.gmu.Unlock()

	var elements []string
	nodeIDs := make([]string, 0, PlaceholderCount)
	for i := range PlaceholderCount {
		id := fmt.Sprintf("pending-%s-%d", batch, i)
		n := graph.Node{
			ID:    id,
			Label: PlaceholderLabel,
			Kind:  e.cat.Fallback(),
			Depth: focus.Depth + 1,
			Batch: batch,
		}
		if err := e.graph.AddNode(n); err != nil {
			continue
		}
		ed := graph.Edge{
			ID:     "e-" + id,
			Source: focus.ID,
			Target: id,
			Batch:  batch,
		}
		if err := e.graph.AddEdge(ed); err != nil {
			continue
		}
		e.renderer.AddNode(n)
		e.renderer.AddEdge(ed)
		nodeIDs = append(nodeIDs, id)
		elements = append(elements, id, ed.ID)
	}
	// Best effort placement so frontends can draw the pending nodes.
	_ = e.layout.Place(e.graph, focus.ID, nodeIDs)
	e.pushPositions()
	return elements
}

// retractPlaceholders removes the transient batch from the graph and the
// surface. Safe to call twice with the same batch.
func (e *Expander) retractPlaceholders(batch string, elementIDs []string) {
	e.gmu.Lock()
	defer e.gmu.Unlock()
	if e.graph.RemoveBatch(batch) > 0 {
		e.renderer.Remove(elementIDs)
	}
}

// pushPositions reports current placed coordinates to the surface. The
// layout engine may move pre-existing nodes (ring re-placement, collision
// repair), so every placed node is re-reported.
func (e *Expander) pushPositions() {
	for _, n := range e.graph.Nodes() {
		if n.Placed {
			e.renderer.Position(n.ID, n.Pos)
		}
	}
}
