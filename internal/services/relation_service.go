package services

import (
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/models"
)

type RelationService struct {
	sessions *SessionService
}

func NewRelationService(sessions *SessionService) *RelationService {
	return &RelationService{sessions: sessions}
}

// RelationRequest is the relation form. Endpoints are table ids; names are
// filled in from the schema.
type RelationRequest struct {
	FromTableID string              `json:"from_table_id" binding:"required"`
	ToTableID   string              `json:"to_table_id" binding:"required"`
	Type        models.RelationType `json:"type" binding:"required"`
}

// RelationResult reports whether the edit took effect. A draft whose
// endpoints do not resolve leaves the schema as it was.
type RelationResult struct {
	Applied bool            `json:"applied"`
	Session editor.Snapshot `json:"session"`
}

// SaveRelation appends the relation, or replaces the one at index when index
// is not nil.
func (s *RelationService) SaveRelation(sessionID string, req RelationRequest, index *int) (RelationResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return RelationResult{}, err
	}
	applied := session.SaveRelation(models.Relation{
		FromTableID: req.FromTableID,
		ToTableID:   req.ToTableID,
		Type:        req.Type,
	}, index)
	return RelationResult{Applied: applied, Session: session.Snapshot()}, nil
}

func (s *RelationService) RemoveRelation(sessionID string, index int) (RelationResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return RelationResult{}, err
	}
	applied := session.RemoveRelation(index)
	return RelationResult{Applied: applied, Session: session.Snapshot()}, nil
}
