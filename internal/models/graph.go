package models

// Direction is the axis along which diagram ranks grow.
type Direction string

const (
	LeftToRight Direction = "LR"
	TopToBottom Direction = "TB"
)

type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NodeData is the display payload of a table node.
type NodeData struct {
	Label    string   `json:"label"`
	Columns  []Column `json:"columns"`
	Selected bool     `json:"selected"`
}

// Node is a diagram box. ID is the backing table id.
type Node struct {
	ID       string   `json:"id"`
	Type     string   `json:"type"`
	Position Position `json:"position"`
	Width    float64  `json:"width"`
	Height   float64  `json:"height"`
	Data     NodeData `json:"data"`
}

// Edge is a diagram connector for one relation. RelationType is the layout
// hint; Label is what the surface shows.
type Edge struct {
	ID           string       `json:"id"`
	Source       string       `json:"source"`
	Target       string       `json:"target"`
	Label        string       `json:"label"`
	RelationType RelationType `json:"relation_type"`
	Type         string       `json:"type"`
	Animated     bool         `json:"animated"`
}
