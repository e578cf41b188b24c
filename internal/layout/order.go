package layout

import "sort"

const (
	maxSweeps      = 24
	maxStaleSweeps = 4
)

// orderLayers builds an initial order by depth-first search and improves it
// with alternating barycenter sweeps, keeping the order with the fewest
// crossings seen.
func (g *graph) orderLayers() {
	preds, succs := g.adjacency()
	g.initOrder(succs)

	best := g.copyLayers()
	bestCrossings := g.crossings(succs)
	stale := 0
	for i := 0; i < maxSweeps && stale < maxStaleSweeps && bestCrossings > 0; i++ {
		if i%2 == 0 {
			for r := 1; r < len(g.layers); r++ {
				g.sortByBarycenter(r, preds)
			}
		} else {
			for r := len(g.layers) - 2; r >= 0; r-- {
				g.sortByBarycenter(r, succs)
			}
		}

		if c := g.crossings(succs); c < bestCrossings {
			best, bestCrossings, stale = g.copyLayers(), c, 0
		} else {
			stale++
		}
	}

	g.layers = best
	g.syncOrder()
}

func (g *graph) initOrder(succs [][]neighbor) {
	maxRank := 0
	for _, v := range g.vertices {
		maxRank = max(maxRank, v.rank)
	}
	g.layers = make([][]int, maxRank+1)

	starts := make([]int, 0, len(g.vertices))
	for i, v := range g.vertices {
		if !v.virtual {
			starts = append(starts, i)
		}
	}
	sort.SliceStable(starts, func(a, b int) bool {
		return g.vertices[starts[a]].rank < g.vertices[starts[b]].rank
	})

	visited := make([]bool, len(g.vertices))
	var visit func(v int)
	visit = func(v int) {
		if visited[v] {
			return
		}
		visited[v] = true
		r := g.vertices[v].rank
		g.layers[r] = append(g.layers[r], v)
		for _, n := range succs[v] {
			visit(n.v)
		}
	}
	for _, v := range starts {
		visit(v)
	}
	g.syncOrder()
}

// sortByBarycenter reorders layer r by the weighted mean order of each
// vertex's neighbours. Vertices without neighbours keep their slot value.
func (g *graph) sortByBarycenter(r int, nbrs [][]neighbor) {
	layer := g.layers[r]
	bary := make(map[int]float64, len(layer))
	for _, v := range layer {
		var sum, weight float64
		for _, n := range nbrs[v] {
			sum += n.weight * float64(g.vertices[n.v].order)
			weight += n.weight
		}
		if weight == 0 {
			bary[v] = float64(g.vertices[v].order)
			continue
		}
		bary[v] = sum / weight
	}

	sort.SliceStable(layer, func(a, b int) bool {
		return bary[layer[a]] < bary[layer[b]]
	})
	for i, v := range layer {
		g.vertices[v].order = i
	}
}

// crossings counts pairwise crossings between every pair of adjacent ranks.
func (g *graph) crossings(succs [][]neighbor) int {
	total := 0
	for r := 0; r+1 < len(g.layers); r++ {
		type segment struct{ top, bottom int }
		var segs []segment
		for _, u := range g.layers[r] {
			for _, n := range succs[u] {
				segs = append(segs, segment{top: g.vertices[u].order, bottom: g.vertices[n.v].order})
			}
		}
		for i := 0; i < len(segs); i++ {
			for j := i + 1; j < len(segs); j++ {
				if (segs[i].top-segs[j].top)*(segs[i].bottom-segs[j].bottom) < 0 {
					total++
				}
			}
		}
	}
	return total
}

func (g *graph) copyLayers() [][]int {
	out := make([][]int, len(g.layers))
	for i, layer := range g.layers {
		out[i] = append([]int(nil), layer...)
	}
	return out
}

func (g *graph) syncOrder() {
	for _, layer := range g.layers {
		for i, v := range layer {
			g.vertices[v].order = i
		}
	}
}
