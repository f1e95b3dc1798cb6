package layout

import (
	"math"

	"github.com/kotomap/kotomap/pkg/graph"
)

// placeRings positions every node in the graph on concentric circles around
// the root: depth level d sits on a circle of radius RingGap*d, members
// evenly spaced and ordered lexicographically by ID. The root itself is
// recentered to Options.Center.
//
// Recomputing all rings on every root expansion is cheap (depth sets are
// small) and idempotent for unchanged membership, so previously placed
// members of a ring keep their coordinates.
func (e *Engine) placeRings(g *graph.Graph) {
	root, ok := g.Node(g.RootID())
	if !ok {
		return
	}
	root.Pos = e.opts.Center
	root.Placed = true

	for depth := 1; depth <= g.MaxDepth(); depth++ {
		members := g.NodesAtDepth(depth) // sorted by ID
		if len(members) == 0 {
			continue
		}
		radius := e.opts.RingGap * float64(depth)
		step := 2 * math.Pi / float64(len(members))
		for i, n := range members {
			// Start at twelve o'clock and walk clockwise.
			angle := float64(i)*step - math.Pi/2
			n.Pos = graph.Point{
				X: root.Pos.X + radius*math.Cos(angle),
				Y: root.Pos.Y + radius*math.Sin(angle),
			}
			n.Placed = true
		}
	}
}
