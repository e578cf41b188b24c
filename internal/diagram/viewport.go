package diagram

import (
	"math"

	"github.com/chat2db/designer/internal/models"
)

// Viewport is the visible region of the diagram in diagram coordinates.
type Viewport struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// FitView returns the bounding box of all node boxes grown by padding times
// its size on each side. No nodes gives the zero viewport.
func FitView(nodes []models.Node, padding float64) Viewport {
	if len(nodes) == 0 {
		return Viewport{}
	}

	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range nodes {
		minX = math.Min(minX, n.Position.X)
		minY = math.Min(minY, n.Position.Y)
		maxX = math.Max(maxX, n.Position.X+n.Width)
		maxY = math.Max(maxY, n.Position.Y+n.Height)
	}

	w, h := maxX-minX, maxY-minY
	return Viewport{
		X:      minX - w*padding,
		Y:      minY - h*padding,
		Width:  w * (1 + 2*padding),
		Height: h * (1 + 2*padding),
	}
}
