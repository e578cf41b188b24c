package layout

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/chat2db/designer/internal/models"
	"github.com/goccy/go-graphviz"
	"github.com/goccy/go-graphviz/cgraph"
)

// Graphviz sizes are in inches and positions come back in points.
const pointsPerInch = 72

const (
	EngineLayered = "layered"
	EngineDot     = "dot"
)

// Engine positions diagram nodes. Implementations follow the contract of
// Layout: nodes in input order, only position and unset box size changed,
// edges copied untouched.
type Engine interface {
	Layout(ctx context.Context, nodes []models.Node, edges []models.Edge, opts Options) ([]models.Node, []models.Edge, error)
}

// Layered is the built-in engine. It never fails.
type Layered struct{}

func (Layered) Layout(_ context.Context, nodes []models.Node, edges []models.Edge, opts Options) ([]models.Node, []models.Edge, error) {
	n, e := Layout(nodes, edges, opts)
	return n, e, nil
}

// NewEngine returns the engine registered under name. Empty means layered.
func NewEngine(name string) (Engine, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", EngineLayered:
		return Layered{}, nil
	case EngineDot:
		return NewDotEngine(), nil
	}
	return nil, fmt.Errorf("unknown layout engine %q", name)
}

// DotEngine runs Graphviz dot through go-graphviz. The Graphviz runtime is
// created on first use and shared; calls are serialized.
type DotEngine struct {
	mu sync.Mutex
	gv *graphviz.Graphviz
}

func NewDotEngine() *DotEngine {
	return &DotEngine{}
}

// Close releases the Graphviz runtime. The engine can be used again
// afterwards.
func (d *DotEngine) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gv == nil {
		return nil
	}
	err := d.gv.Close()
	d.gv = nil
	return err
}

func (d *DotEngine) Layout(ctx context.Context, nodes []models.Node, edges []models.Edge, opts Options) ([]models.Node, []models.Edge, error) {
	opts = opts.withDefaults()

	outEdges := make([]models.Edge, len(edges))
	copy(outEdges, edges)
	if len(nodes) == 0 {
		return []models.Node{}, outEdges, nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if d.gv == nil {
		gv, err := graphviz.New(ctx)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to start graphviz: %w", err)
		}
		d.gv = gv
	}

	dg, err := d.gv.Graph()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create graph: %w", err)
	}
	defer dg.Close()

	if opts.Direction == models.TopToBottom {
		dg.SetRankDir(cgraph.TBRank)
	} else {
		dg.SetRankDir(cgraph.LRRank)
	}
	dg.SetRankSeparator(opts.RankSep / pointsPerInch)
	dg.SetNodeSeparator(opts.NodeSep / pointsPerInch)

	// Node names are input indexes, so duplicate ids still get a box each.
	gvNodes := make([]*cgraph.Node, len(nodes))
	for i, n := range nodes {
		w, h := boxSize(n, opts)
		gn, err := dg.CreateNodeByName(strconv.Itoa(i))
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create node %q: %w", n.ID, err)
		}
		gn.SetShape(cgraph.BoxShape).
			SetFixedSize(true).
			SetWidth(w / pointsPerInch).
			SetHeight(h / pointsPerInch).
			SetLabel("")
		gvNodes[i] = gn
	}

	for i, a := range buildGraph(nodes, edges, opts).arcs {
		ge, err := dg.CreateEdgeByName(fmt.Sprintf("a%d", i), gvNodes[a.from], gvNodes[a.to])
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create edge: %w", err)
		}
		ge.SetMinLen(a.minlen).SetWeight(a.weight)
	}

	// Rendering to dot writes pos and bb back onto the graph.
	var buf bytes.Buffer
	if err := d.gv.Render(ctx, dg, graphviz.XDOT, &buf); err != nil {
		return nil, nil, fmt.Errorf("failed to run dot: %w", err)
	}

	bb, err := parseFloats(dg.GetStr("bb"), 4)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read bounding box: %w", err)
	}
	top := bb[3]

	out := make([]models.Node, len(nodes))
	for i, n := range nodes {
		pos, err := parseFloats(gvNodes[i].GetStr("pos"), 2)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to read position of %q: %w", n.ID, err)
		}
		n.Width, n.Height = boxSize(n, opts)
		// Graphviz puts the origin at the bottom left and pos at the centre.
		n.Position = models.Position{X: pos[0] - n.Width/2, Y: top - pos[1] - n.Height/2}
		out[i] = n
	}

	minX, minY := out[0].Position.X, out[0].Position.Y
	for _, n := range out[1:] {
		minX = min(minX, n.Position.X)
		minY = min(minY, n.Position.Y)
	}
	for i := range out {
		out[i].Position.X -= minX
		out[i].Position.Y -= minY
	}
	return out, outEdges, nil
}

// parseFloats reads a comma separated Graphviz point or rectangle.
func parseFloats(s string, want int) ([]float64, error) {
	parts := strings.Split(strings.TrimSpace(s), ",")
	if len(parts) != want {
		return nil, fmt.Errorf("expected %d numbers, got %q", want, s)
	}
	out := make([]float64, want)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad number in %q: %w", s, err)
		}
		out[i] = v
	}
	return out, nil
}
