package services

import (
	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/models"
)

// DiagramService relays view events from the rendering client.
type DiagramService struct {
	sessions *SessionService
}

func NewDiagramService(sessions *SessionService) *DiagramService {
	return &DiagramService{sessions: sessions}
}

type AutoLayoutRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type MoveNodeRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// SelectionResult carries the selected table, nil when the selection was
// cleared.
type SelectionResult struct {
	Table   *models.Table      `json:"table"`
	Diagram editor.DiagramView `json:"diagram"`
}

func (s *DiagramService) Get(sessionID string) (editor.DiagramView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return editor.DiagramView{}, err
	}
	return session.Diagram(), nil
}

func (s *DiagramService) SetAutoLayout(sessionID string, req AutoLayoutRequest) (editor.DiagramView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return editor.DiagramView{}, err
	}
	session.SetAutoLayout(*req.Enabled)
	return session.Diagram(), nil
}

// MoveNode records a drag of node nodeID.
func (s *DiagramService) MoveNode(sessionID, nodeID string, req MoveNodeRequest) (editor.DiagramView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return editor.DiagramView{}, err
	}
	if !session.MoveNode(nodeID, models.Position{X: req.X, Y: req.Y}) {
		return editor.DiagramView{}, apperrors.NewNotFoundError("node", nodeID)
	}
	return session.Diagram(), nil
}

// Select selects the table behind nodeID. An unknown node clears the
// selection.
func (s *DiagramService) Select(sessionID, nodeID string) (SelectionResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return SelectionResult{}, err
	}
	table := session.SelectNode(nodeID)
	return SelectionResult{Table: table, Diagram: session.Diagram()}, nil
}

func (s *DiagramService) ClearSelection(sessionID string) (editor.DiagramView, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return editor.DiagramView{}, err
	}
	session.ClearSelection()
	return session.Diagram(), nil
}
