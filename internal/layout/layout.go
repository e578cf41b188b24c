// Package layout positions diagram nodes with a layered directed-graph
// layout: cycles are broken, vertices are ranked along the layout
// direction, each rank is ordered to reduce edge crossings, and finally
// coordinates are assigned so that node boxes never overlap.
//
// Layout is pure and deterministic. Nodes come back in input order with only
// their position (and box size, when unset) changed; edges come back
// untouched.
package layout

import (
	"fmt"
	"strings"

	"github.com/chat2db/designer/internal/models"
)

const (
	DefaultNodeWidth  = 200
	DefaultNodeHeight = 100
)

// edgeWeight is the pull every relation exerts during ordering and
// alignment. All relation kinds pull equally.
const edgeWeight = 2

type Options struct {
	Direction  models.Direction
	NodeWidth  float64
	NodeHeight float64
	// RankSep is the gap between adjacent ranks, NodeSep the gap between
	// neighbouring boxes inside a rank and EdgeSep the gap next to a
	// virtual vertex of a long edge.
	RankSep float64
	NodeSep float64
	EdgeSep float64
}

func DefaultOptions() Options {
	return Options{
		Direction:  models.LeftToRight,
		NodeWidth:  DefaultNodeWidth,
		NodeHeight: DefaultNodeHeight,
		RankSep:    50,
		NodeSep:    50,
		EdgeSep:    10,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Direction != models.LeftToRight && o.Direction != models.TopToBottom {
		o.Direction = def.Direction
	}
	if o.NodeWidth <= 0 {
		o.NodeWidth = def.NodeWidth
	}
	if o.NodeHeight <= 0 {
		o.NodeHeight = def.NodeHeight
	}
	if o.RankSep <= 0 {
		o.RankSep = def.RankSep
	}
	if o.NodeSep <= 0 {
		o.NodeSep = def.NodeSep
	}
	if o.EdgeSep <= 0 {
		o.EdgeSep = def.EdgeSep
	}
	return o
}

// ParseDirection accepts "LR" and "TB" in any case. Empty means "LR".
func ParseDirection(s string) (models.Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", string(models.LeftToRight):
		return models.LeftToRight, nil
	case string(models.TopToBottom):
		return models.TopToBottom, nil
	}
	return "", fmt.Errorf("unknown layout direction %q", s)
}

// minLength is the minimum number of ranks an edge spans. One-to-one
// relations keep their tables closer together.
func minLength(t models.RelationType) int {
	if t == models.OneToOne {
		return 1
	}
	return 2
}

// Layout returns the nodes with positions assigned and a copy of the edges.
// Edges whose endpoints are not in the node set, and self loops, do not
// influence placement.
func Layout(nodes []models.Node, edges []models.Edge, opts Options) ([]models.Node, []models.Edge) {
	opts = opts.withDefaults()

	outEdges := make([]models.Edge, len(edges))
	copy(outEdges, edges)
	if len(nodes) == 0 {
		return []models.Node{}, outEdges
	}

	g := buildGraph(nodes, edges, opts)
	g.breakCycles()
	g.assignRanks()
	g.splitLongArcs()
	g.orderLayers()
	g.assignCoordinates(opts)

	out := make([]models.Node, len(nodes))
	for i, n := range nodes {
		v := g.vertices[i]
		n.Width, n.Height = boxSize(n, opts)
		if opts.Direction == models.TopToBottom {
			n.Position = models.Position{X: v.cross - n.Width/2, Y: v.along - n.Height/2}
		} else {
			n.Position = models.Position{X: v.along - n.Width/2, Y: v.cross - n.Height/2}
		}
		out[i] = n
	}
	return out, outEdges
}

func boxSize(n models.Node, opts Options) (float64, float64) {
	w, h := n.Width, n.Height
	if w <= 0 {
		w = opts.NodeWidth
	}
	if h <= 0 {
		h = opts.NodeHeight
	}
	return w, h
}

type vertex struct {
	index int // position in the input; -1 for virtual vertices
	// length is the extent along the rank axis, breadth across it.
	length  float64
	breadth float64
	rank    int
	order   int
	along   float64
	cross   float64
	virtual bool
}

type arc struct {
	from, to int
	minlen   int
	weight   float64
}

type neighbor struct {
	v      int
	weight float64
}

type graph struct {
	vertices []*vertex
	arcs     []arc
	layers   [][]int
}

func buildGraph(nodes []models.Node, edges []models.Edge, opts Options) *graph {
	g := &graph{}
	ids := make(map[string]int, len(nodes))
	for i, n := range nodes {
		w, h := boxSize(n, opts)
		v := &vertex{index: i, length: w, breadth: h}
		if opts.Direction == models.TopToBottom {
			v.length, v.breadth = h, w
		}
		g.vertices = append(g.vertices, v)
		if _, dup := ids[n.ID]; !dup {
			ids[n.ID] = i
		}
	}

	merged := make(map[[2]int]int)
	for _, e := range edges {
		from, okFrom := ids[e.Source]
		to, okTo := ids[e.Target]
		if !okFrom || !okTo || from == to {
			continue
		}
		key := [2]int{from, to}
		if i, ok := merged[key]; ok {
			g.arcs[i].minlen = max(g.arcs[i].minlen, minLength(e.RelationType))
			g.arcs[i].weight += edgeWeight
			continue
		}
		merged[key] = len(g.arcs)
		g.arcs = append(g.arcs, arc{from: from, to: to, minlen: minLength(e.RelationType), weight: edgeWeight})
	}
	return g
}

// adjacency returns weighted predecessor and successor lists in arc order.
func (g *graph) adjacency() (preds, succs [][]neighbor) {
	preds = make([][]neighbor, len(g.vertices))
	succs = make([][]neighbor, len(g.vertices))
	for _, a := range g.arcs {
		succs[a.from] = append(succs[a.from], neighbor{v: a.to, weight: a.weight})
		preds[a.to] = append(preds[a.to], neighbor{v: a.from, weight: a.weight})
	}
	return preds, succs
}
