package layout

import "math"

const alignPasses = 8

// assignCoordinates places ranks along the layout axis and vertices across
// it, then moves the drawing so that it starts at the origin.
func (g *graph) assignCoordinates(opts Options) {
	lengths := make([]float64, len(g.layers))
	for r, layer := range g.layers {
		for _, v := range layer {
			lengths[r] = math.Max(lengths[r], g.vertices[v].length)
		}
	}

	along := 0.0
	for r, layer := range g.layers {
		if r == 0 {
			along = lengths[0] / 2
		} else {
			along += lengths[r-1]/2 + opts.RankSep + lengths[r]/2
		}
		for _, v := range layer {
			g.vertices[v].along = along
		}
	}

	for _, layer := range g.layers {
		g.packLayer(layer, opts)
	}

	preds, succs := g.adjacency()
	for i := 0; i < alignPasses; i++ {
		if i%2 == 0 {
			for r := 1; r < len(g.layers); r++ {
				g.alignLayer(g.layers[r], preds, opts)
			}
		} else {
			for r := len(g.layers) - 2; r >= 0; r-- {
				g.alignLayer(g.layers[r], succs, opts)
			}
		}
	}

	minAlong, minCross := math.Inf(1), math.Inf(1)
	for _, v := range g.vertices {
		if v.virtual {
			continue
		}
		minAlong = math.Min(minAlong, v.along-v.length/2)
		minCross = math.Min(minCross, v.cross-v.breadth/2)
	}
	for _, v := range g.vertices {
		v.along -= minAlong
		v.cross -= minCross
	}
}

// gap is the minimum centre distance between two neighbours in a rank.
func (g *graph) gap(a, b int, opts Options) float64 {
	va, vb := g.vertices[a], g.vertices[b]
	sep := opts.NodeSep
	if va.virtual || vb.virtual {
		sep = opts.EdgeSep
	}
	return va.breadth/2 + sep + vb.breadth/2
}

// packLayer lays a rank out tightly and centres it on zero.
func (g *graph) packLayer(layer []int, opts Options) {
	if len(layer) == 0 {
		return
	}
	pos := 0.0
	for i, v := range layer {
		if i > 0 {
			pos += g.gap(layer[i-1], v, opts)
		}
		g.vertices[v].cross = pos
	}
	shift := (g.vertices[layer[0]].cross + g.vertices[layer[len(layer)-1]].cross) / 2
	for _, v := range layer {
		g.vertices[v].cross -= shift
	}
}

// alignLayer moves each vertex of a rank as close as possible to the
// weighted mean of its neighbours while keeping the rank order and the
// minimum gaps. The closest feasible placement is an isotonic regression
// on the targets shifted by the cumulative gaps.
func (g *graph) alignLayer(layer []int, nbrs [][]neighbor, opts Options) {
	if len(layer) == 0 {
		return
	}
	offsets := make([]float64, len(layer))
	targets := make([]float64, len(layer))
	for i, v := range layer {
		if i > 0 {
			offsets[i] = offsets[i-1] + g.gap(layer[i-1], v, opts)
		}
		desired := g.vertices[v].cross
		var sum, weight float64
		for _, n := range nbrs[v] {
			sum += n.weight * g.vertices[n.v].cross
			weight += n.weight
		}
		if weight > 0 {
			desired = sum / weight
		}
		targets[i] = desired - offsets[i]
	}

	fitted := isotonic(targets)
	for i, v := range layer {
		g.vertices[v].cross = fitted[i] + offsets[i]
	}
}

// isotonic returns the non-decreasing sequence closest to y in the least
// squares sense (pool adjacent violators).
func isotonic(y []float64) []float64 {
	type block struct {
		sum float64
		n   int
	}
	blocks := make([]block, 0, len(y))
	for _, v := range y {
		blocks = append(blocks, block{sum: v, n: 1})
		for len(blocks) > 1 {
			last, prev := blocks[len(blocks)-1], blocks[len(blocks)-2]
			if prev.sum/float64(prev.n) <= last.sum/float64(last.n) {
				break
			}
			blocks = append(blocks[:len(blocks)-2], block{sum: prev.sum + last.sum, n: prev.n + last.n})
		}
	}

	out := make([]float64, 0, len(y))
	for _, b := range blocks {
		mean := b.sum / float64(b.n)
		for i := 0; i < b.n; i++ {
			out = append(out, mean)
		}
	}
	return out
}
