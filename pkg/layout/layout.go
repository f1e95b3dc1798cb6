package layout

import (
	"fmt"

	"github.com/kotomap/kotomap/pkg/graph"
)

// Default layout parameters. All distances are in the drawing surface's user
// units (typically pixels).
const (
	// DefaultRingGap is the radius increment per depth level for ring
	// placement around the root.
	DefaultRingGap = 160.0

	// DefaultSideGap is the perpendicular spacing between fan siblings.
	DefaultSideGap = 90.0

	// DefaultForwardGap is the base distance from the focus to its children
	// along the forward direction.
	DefaultForwardGap = 150.0

	// DefaultForwardStretch scales how much a child's forward distance grows
	// with its lateral offset magnitude, reducing crowding at the fan center.
	DefaultForwardStretch = 0.45

	// DefaultMinSeparation is the minimum Euclidean distance a new node must
	// keep from every existing node before collision repair gives up.
	DefaultMinSeparation = 70.0

	// DefaultPushStep is how far a colliding candidate is pushed along the
	// forward direction per repair attempt.
	DefaultPushStep = 40.0

	// DefaultMaxPushes bounds the collision repair loop. This is a
	// best-effort declutter, not a global force-directed solve.
	DefaultMaxPushes = 8
)

// Options configures the layout engine. Zero values are replaced by the
// Default* constants; Center defaults to the origin.
type Options struct {
	RingGap        float64
	SideGap        float64
	ForwardGap     float64
	ForwardStretch float64
	MinSeparation  float64
	PushStep       float64
	MaxPushes      int
	Center         graph.Point
}

// Engine assigns 2-D coordinates to newly merged graph elements without
// disturbing existing ones. It is stateless apart from its options; the same
// engine can serve any number of graphs.
type Engine struct {
	opts Options
}

// New creates a layout engine, applying defaults for zero option fields.
func New(opts Options) *Engine {
	if opts.RingGap == 0 {
		opts.RingGap = DefaultRingGap
	}
	if opts.SideGap == 0 {
		opts.SideGap = DefaultSideGap
	}
	if opts.ForwardGap == 0 {
		opts.ForwardGap = DefaultForwardGap
	}
	if opts.ForwardStretch == 0 {
		opts.ForwardStretch = DefaultForwardStretch
	}
	if opts.MinSeparation == 0 {
		opts.MinSeparation = DefaultMinSeparation
	}
	if opts.PushStep == 0 {
		opts.PushStep = DefaultPushStep
	}
	if opts.MaxPushes == 0 {
		opts.MaxPushes = DefaultMaxPushes
	}
	return &Engine{opts: opts}
}

// Place assigns coordinates to the newly merged children of focusID,
// selecting the strategy by the focus's structural role:
//
//   - focus is the graph root: ring placement re-rings every depth level
//     (idempotent for unchanged membership, so existing members keep their
//     positions)
//   - otherwise: forward fan-out from the parent→focus direction, mutating
//     only the nodes named in newIDs
//
// Both strategies are deterministic: identical graph state and an identical
// (unordered) newIDs set produce identical coordinates on every invocation,
// because members are processed in sorted-ID order, never insertion order.
func (e *Engine) Place(g *graph.Graph, focusID string, newIDs []string) error {
	focus, ok := g.Node(focusID)
	if !ok {
		return fmt.Errorf("focus %s: %w", focusID, graph.ErrUnknownNode)
	}
	if focusID == g.RootID() {
		e.placeRings(g)
		return nil
	}
	e.placeFan(g, focus, newIDs)
	return nil
}
