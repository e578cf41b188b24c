package layout

// breakCycles reverses every back edge found by a depth-first search in
// input order, which leaves the graph acyclic.
func (g *graph) breakCycles() {
	out := make([][]int, len(g.vertices))
	for i, a := range g.arcs {
		out[a.from] = append(out[a.from], i)
	}

	const (
		unvisited = iota
		onStack
		done
	)
	state := make([]int, len(g.vertices))

	var visit func(v int)
	visit = func(v int) {
		state[v] = onStack
		for _, ai := range out[v] {
			w := g.arcs[ai].to
			switch state[w] {
			case onStack:
				g.arcs[ai].from, g.arcs[ai].to = w, v
			case unvisited:
				visit(w)
			}
		}
		state[v] = done
	}

	for v := range g.vertices {
		if state[v] == unvisited {
			visit(v)
		}
	}
}

// assignRanks gives every vertex the longest-path rank from the sources,
// honouring each arc's minimum length, then pulls sources forward next to
// their nearest successor so that roots do not drag long edges behind them.
func (g *graph) assignRanks() {
	n := len(g.vertices)
	indegree := make([]int, n)
	out := make([][]int, n)
	for i, a := range g.arcs {
		indegree[a.to]++
		out[a.from] = append(out[a.from], i)
	}

	topo := make([]int, 0, n)
	remaining := make([]int, n)
	copy(remaining, indegree)
	for v := 0; v < n; v++ {
		if remaining[v] == 0 {
			topo = append(topo, v)
		}
	}
	for i := 0; i < len(topo); i++ {
		v := topo[i]
		for _, ai := range out[v] {
			w := g.arcs[ai].to
			remaining[w]--
			if remaining[w] == 0 {
				topo = append(topo, w)
			}
		}
	}

	rank := make([]int, n)
	for _, v := range topo {
		for _, ai := range out[v] {
			a := g.arcs[ai]
			rank[a.to] = max(rank[a.to], rank[v]+a.minlen)
		}
	}

	for i := len(topo) - 1; i >= 0; i-- {
		v := topo[i]
		if indegree[v] != 0 || len(out[v]) == 0 {
			continue
		}
		pulled := -1
		for _, ai := range out[v] {
			a := g.arcs[ai]
			if r := rank[a.to] - a.minlen; pulled < 0 || r < pulled {
				pulled = r
			}
		}
		rank[v] = pulled
	}

	lowest := rank[0]
	for _, r := range rank {
		lowest = min(lowest, r)
	}
	for v, r := range rank {
		g.vertices[v].rank = r - lowest
	}
}

// splitLongArcs replaces every arc spanning more than one rank with a chain
// of virtual vertices, one per intermediate rank.
func (g *graph) splitLongArcs() {
	arcs := make([]arc, 0, len(g.arcs))
	for _, a := range g.arcs {
		from := a.from
		for r := g.vertices[a.from].rank + 1; r < g.vertices[a.to].rank; r++ {
			d := len(g.vertices)
			g.vertices = append(g.vertices, &vertex{index: -1, rank: r, virtual: true})
			arcs = append(arcs, arc{from: from, to: d, minlen: 1, weight: a.weight})
			from = d
		}
		arcs = append(arcs, arc{from: from, to: a.to, minlen: 1, weight: a.weight})
	}
	g.arcs = arcs
}
