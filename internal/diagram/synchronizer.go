// Package diagram keeps a rendered node/edge graph in step with a schema.
package diagram

import (
	"context"
	"fmt"
	"time"

	"github.com/chat2db/designer/internal/layout"
	"github.com/chat2db/designer/internal/models"
	"go.uber.org/zap"
)

const (
	NodeType = "table"
	EdgeType = "smoothstep"
)

// Surface displays a diagram. FitView asks it to frame every node with the
// given padding ratio.
type Surface interface {
	Render(nodes []models.Node, edges []models.Edge)
	FitView(padding float64)
}

// SelectionListener is told which table is selected; nil means none.
type SelectionListener interface {
	TableSelected(table *models.Table)
}

// SelectionFunc adapts a plain function to SelectionListener.
type SelectionFunc func(table *models.Table)

func (f SelectionFunc) TableSelected(table *models.Table) { f(table) }

// Scheduler runs fn once after delay.
type Scheduler func(delay time.Duration, fn func())

// AfterFunc schedules on a timer goroutine.
func AfterFunc(delay time.Duration, fn func()) {
	time.AfterFunc(delay, fn)
}

type Config struct {
	Direction   models.Direction
	NodeWidth   float64
	NodeHeight  float64
	FitPadding  float64
	SettleDelay time.Duration
	AutoLayout  bool
	// Engine computes the layout; nil means the built-in layered engine.
	Engine layout.Engine
}

func DefaultConfig() Config {
	return Config{
		Direction:   models.LeftToRight,
		NodeWidth:   layout.DefaultNodeWidth,
		NodeHeight:  layout.DefaultNodeHeight,
		FitPadding:  0.2,
		SettleDelay: 100 * time.Millisecond,
		AutoLayout:  true,
	}
}

// Synchronizer turns schemas into diagram graphs. It is not safe for
// concurrent use; the owner serializes calls.
type Synchronizer struct {
	cfg      Config
	surface  Surface
	listener SelectionListener
	schedule Scheduler
	logger   *zap.Logger

	schema     models.DatabaseSchema
	nodes      []models.Node
	edges      []models.Edge
	laidOut    []models.Node
	autoLayout bool
	selected   string
}

// NewSynchronizer creates a new Synchronizer. listener may be nil and a nil
// schedule falls back to AfterFunc.
func NewSynchronizer(cfg Config, surface Surface, listener SelectionListener, schedule Scheduler, logger *zap.Logger) *Synchronizer {
	if schedule == nil {
		schedule = AfterFunc
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		cfg:        cfg,
		surface:    surface,
		listener:   listener,
		schedule:   schedule,
		logger:     logger,
		schema:     models.EmptySchema(),
		nodes:      []models.Node{},
		edges:      []models.Edge{},
		laidOut:    []models.Node{},
		autoLayout: cfg.AutoLayout,
	}
}

// Apply rebuilds the diagram from schema. The layout is always computed and
// cached; live positions follow it only while auto-layout is on. Otherwise
// nodes that already existed keep their position and new ones start at the
// origin. Edges are replaced wholesale.
func (s *Synchronizer) Apply(schema models.DatabaseSchema) {
	s.schema = schema.Clone()

	candidates := s.buildNodes()
	s.edges = buildEdges(s.schema)
	s.laidOut = s.layout(candidates)

	if s.autoLayout {
		s.nodes = cloneNodes(s.laidOut)
	} else {
		previous := make(map[string]models.Position, len(s.nodes))
		for _, n := range s.nodes {
			previous[n.ID] = n.Position
		}
		for i := range candidates {
			if p, ok := previous[candidates[i].ID]; ok {
				candidates[i].Position = p
			}
		}
		s.nodes = candidates
	}

	if s.selected != "" {
		if _, ok := s.schema.TableByID(s.selected); !ok {
			s.selected = ""
			s.notify(nil)
		}
	}

	s.logger.Debug("diagram applied",
		zap.Int("nodes", len(s.nodes)),
		zap.Int("edges", len(s.edges)),
		zap.Bool("auto_layout", s.autoLayout),
	)
	s.render()
	s.scheduleFit()
}

// SetAutoLayout switches auto-layout. Turning it on snaps every node to the
// cached layout right away.
func (s *Synchronizer) SetAutoLayout(on bool) {
	s.autoLayout = on
	if !on {
		return
	}
	s.nodes = cloneNodes(s.laidOut)
	s.render()
	s.scheduleFit()
}

func (s *Synchronizer) AutoLayout() bool { return s.autoLayout }

// MoveNode records a drag. It reports false when no node has that id.
func (s *Synchronizer) MoveNode(id string, pos models.Position) bool {
	for i := range s.nodes {
		if s.nodes[i].ID == id {
			s.nodes[i].Position = pos
			s.render()
			return true
		}
	}
	return false
}

// Select resolves id against the last applied schema and notifies the
// listener. An unknown id clears the selection.
func (s *Synchronizer) Select(id string) *models.Table {
	t, ok := s.schema.TableByID(id)
	if !ok {
		s.ClearSelection()
		return nil
	}
	s.selected = id
	s.render()
	s.notify(&t)
	return &t
}

func (s *Synchronizer) ClearSelection() {
	s.selected = ""
	s.render()
	s.notify(nil)
}

// Selected returns the selected table id, or "".
func (s *Synchronizer) Selected() string { return s.selected }

func (s *Synchronizer) Nodes() []models.Node { return s.withSelection(s.nodes) }

func (s *Synchronizer) Edges() []models.Edge { return cloneEdges(s.edges) }

func (s *Synchronizer) layoutOptions() layout.Options {
	opts := layout.DefaultOptions()
	opts.Direction = s.cfg.Direction
	opts.NodeWidth = s.cfg.NodeWidth
	opts.NodeHeight = s.cfg.NodeHeight
	return opts
}

// layout runs the configured engine and falls back to the built-in one when
// it fails.
func (s *Synchronizer) layout(nodes []models.Node) []models.Node {
	opts := s.layoutOptions()
	if s.cfg.Engine != nil {
		out, _, err := s.cfg.Engine.Layout(context.Background(), nodes, s.edges, opts)
		if err == nil {
			return out
		}
		s.logger.Warn("layout engine failed, using layered layout", zap.Error(err))
	}
	out, _ := layout.Layout(nodes, s.edges, opts)
	return out
}

func (s *Synchronizer) buildNodes() []models.Node {
	nodes := make([]models.Node, 0, len(s.schema.Tables))
	for _, t := range s.schema.Tables {
		cols := make([]models.Column, len(t.Columns))
		copy(cols, t.Columns)
		nodes = append(nodes, models.Node{
			ID:     t.TableID,
			Type:   NodeType,
			Width:  s.cfg.NodeWidth,
			Height: s.cfg.NodeHeight,
			Data:   models.NodeData{Label: t.Name, Columns: cols},
		})
	}
	return nodes
}

func buildEdges(schema models.DatabaseSchema) []models.Edge {
	edges := make([]models.Edge, 0, len(schema.Relations))
	for i, r := range schema.Relations {
		edges = append(edges, models.Edge{
			ID:           fmt.Sprintf("e-%d", i),
			Source:       r.FromTableID,
			Target:       r.ToTableID,
			Label:        string(r.Type),
			RelationType: r.Type,
			Type:         EdgeType,
			Animated:     true,
		})
	}
	return edges
}

func (s *Synchronizer) withSelection(nodes []models.Node) []models.Node {
	out := cloneNodes(nodes)
	for i := range out {
		out[i].Data.Selected = s.selected != "" && out[i].ID == s.selected
	}
	return out
}

func (s *Synchronizer) render() {
	if s.surface == nil {
		return
	}
	s.surface.Render(s.withSelection(s.nodes), cloneEdges(s.edges))
}

func (s *Synchronizer) scheduleFit() {
	if s.surface == nil {
		return
	}
	surface, padding := s.surface, s.cfg.FitPadding
	s.schedule(s.cfg.SettleDelay, func() {
		surface.FitView(padding)
	})
}

func (s *Synchronizer) notify(t *models.Table) {
	if s.listener != nil {
		s.listener.TableSelected(t)
	}
}

func cloneNodes(nodes []models.Node) []models.Node {
	out := make([]models.Node, len(nodes))
	for i, n := range nodes {
		cols := make([]models.Column, len(n.Data.Columns))
		copy(cols, n.Data.Columns)
		n.Data.Columns = cols
		out[i] = n
	}
	return out
}

func cloneEdges(edges []models.Edge) []models.Edge {
	out := make([]models.Edge, len(edges))
	copy(out, edges)
	return out
}
