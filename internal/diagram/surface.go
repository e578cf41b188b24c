package diagram

import (
	"sync"

	"github.com/chat2db/designer/internal/models"
)

// Frame is what a MemorySurface currently shows.
type Frame struct {
	Nodes    []models.Node `json:"nodes"`
	Edges    []models.Edge `json:"edges"`
	Viewport Viewport      `json:"viewport"`
	Fits     int           `json:"fits"`
}

// MemorySurface keeps the last rendered frame in memory so HTTP clients can
// read it back. It is safe for concurrent use.
type MemorySurface struct {
	mu       sync.RWMutex
	nodes    []models.Node
	edges    []models.Edge
	viewport Viewport
	fits     int
}

func NewMemorySurface() *MemorySurface {
	return &MemorySurface{nodes: []models.Node{}, edges: []models.Edge{}}
}

func (m *MemorySurface) Render(nodes []models.Node, edges []models.Edge) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nodes = nodes
	m.edges = edges
}

func (m *MemorySurface) FitView(padding float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.viewport = FitView(m.nodes, padding)
	m.fits++
}

func (m *MemorySurface) Frame() Frame {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Frame{
		Nodes:    cloneNodes(m.nodes),
		Edges:    cloneEdges(m.edges),
		Viewport: m.viewport,
		Fits:     m.fits,
	}
}
