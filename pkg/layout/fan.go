package layout

import (
	"math"
	"slices"

	"github.com/kotomap/kotomap/pkg/graph"
)

// placeFan positions the new children of a non-root focus along the forward
// direction parent→focus, offset perpendicular to it in a symmetric fan.
// Children are indexed by sorted ID; the per-child forward distance grows
// with the lateral offset magnitude. Only the nodes named in newIDs are
// mutated.
func (e *Engine) placeFan(g *graph.Graph, focus *graph.Node, newIDs []string) {
	ids := slices.Clone(newIDs)
	slices.Sort(ids)

	dirX, dirY := e.forwardDirection(g, focus)
	perpX, perpY := -dirY, dirX

	existing := e.existingPositions(g, ids)

	k := len(ids)
	for i, id := range ids {
		n, ok := g.Node(id)
		if !ok {
			continue
		}
		offset := (float64(i) - float64(k-1)/2) * e.opts.SideGap
		forward := e.opts.ForwardGap + math.Abs(offset)*e.opts.ForwardStretch

		pos := graph.Point{
			X: focus.Pos.X + dirX*forward + perpX*offset,
			Y: focus.Pos.Y + dirY*forward + perpY*offset,
		}
		pos = e.repairCollisions(pos, dirX, dirY, existing)

		n.Pos = pos
		n.Placed = true
	}
}

// forwardDirection computes the unit vector focus−parent, where parent is the
// source of the focus's unique inbound edge. Falls back to the positive X
// axis when no inbound edge exists or the two positions coincide.
func (e *Engine) forwardDirection(g *graph.Graph, focus *graph.Node) (float64, float64) {
	parentID, ok := g.InboundSource(focus.ID)
	if !ok {
		return 1, 0
	}
	parent, ok := g.Node(parentID)
	if !ok {
		return 1, 0
	}
	dx := focus.Pos.X - parent.Pos.X
	dy := focus.Pos.Y - parent.Pos.Y
	length := math.Hypot(dx, dy)
	if length == 0 {
		return 1, 0
	}
	return dx / length, dy / length
}

// existingPositions snapshots the positions of all placed nodes that are not
// part of the new batch. Collision repair checks candidates against this
// fixed set, so sibling placement order cannot influence the outcome.
func (e *Engine) existingPositions(g *graph.Graph, newIDs []string) []graph.Point {
	skip := make(map[string]bool, len(newIDs))
	for _, id := range newIDs {
		skip[id] = true
	}
	var points []graph.Point
	for _, n := range g.Nodes() {
		if n.Placed && !skip[n.ID] {
			points = append(points, n.Pos)
		}
	}
	return points
}

// repairCollisions pushes a candidate position further along the forward
// direction while any existing node sits closer than MinSeparation, up to
// MaxPushes attempts. The final position is accepted either way.
func (e *Engine) repairCollisions(pos graph.Point, dirX, dirY float64, existing []graph.Point) graph.Point {
	for range e.opts.MaxPushes {
		if !e.tooClose(pos, existing) {
			break
		}
		pos.X += dirX * e.opts.PushStep
		pos.Y += dirY * e.opts.PushStep
	}
	return pos
}

func (e *Engine) tooClose(pos graph.Point, existing []graph.Point) bool {
	for _, p := range existing {
		if math.Hypot(pos.X-p.X, pos.Y-p.Y) < e.opts.MinSeparation {
			return true
		}
	}
	return false
}
