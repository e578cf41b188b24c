package services

import (
	"sync"

	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/config"
	"github.com/chat2db/designer/internal/diagram"
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/layout"
	"github.com/chat2db/designer/internal/models"
	"github.com/chat2db/designer/internal/utils"
	"go.uber.org/zap"
)

// SessionService keeps the in-memory editing sessions.
type SessionService struct {
	mu       sync.RWMutex
	sessions map[string]*editor.Session
	cfg      diagram.Config
	schedule diagram.Scheduler
	logger   *zap.Logger
}

// NewSessionService creates a new SessionService. A nil schedule runs the
// deferred fit on a timer.
func NewSessionService(cfg diagram.Config, schedule diagram.Scheduler, logger *zap.Logger) *SessionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{
		sessions: make(map[string]*editor.Session),
		cfg:      cfg,
		schedule: schedule,
		logger:   logger,
	}
}

// NewDiagramConfig converts the environment settings into a diagram.Config.
func NewDiagramConfig(c config.DiagramConfig) (diagram.Config, error) {
	dir, err := layout.ParseDirection(c.Direction)
	if err != nil {
		return diagram.Config{}, apperrors.NewValidationError("DIAGRAM_DIRECTION", err.Error())
	}
	engine, err := layout.NewEngine(c.Engine)
	if err != nil {
		return diagram.Config{}, apperrors.NewValidationError("DIAGRAM_ENGINE", err.Error())
	}
	return diagram.Config{
		Direction:   dir,
		NodeWidth:   c.NodeWidth,
		NodeHeight:  c.NodeHeight,
		FitPadding:  c.FitPadding,
		SettleDelay: c.SettleDelay,
		AutoLayout:  c.AutoLayout,
		Engine:      engine,
	}, nil
}

func (s *SessionService) Create() *editor.Session {
	session := editor.NewSession(utils.NewID(), s.cfg, s.schedule, s.logger)

	s.mu.Lock()
	s.sessions[session.ID] = session
	count := len(s.sessions)
	s.mu.Unlock()

	s.logger.Info("session created", zap.String("session_id", session.ID), zap.Int("sessions", count))
	return session
}

func (s *SessionService) Get(id string) (*editor.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	session, ok := s.sessions[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("session", id)
	}
	return session, nil
}

func (s *SessionService) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.sessions[id]; !ok {
		return apperrors.NewNotFoundError("session", id)
	}
	delete(s.sessions, id)
	s.logger.Info("session deleted", zap.String("session_id", id))
	return nil
}

func (s *SessionService) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Snapshot returns the state of session id.
func (s *SessionService) Snapshot(id string) (editor.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return editor.Snapshot{}, err
	}
	return session.Snapshot(), nil
}

// Reset empties the schema of session id.
func (s *SessionService) Reset(id string) (editor.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return editor.Snapshot{}, err
	}
	session.Reset()
	return session.Snapshot(), nil
}

// Replace swaps the whole schema of session id.
func (s *SessionService) Replace(id string, schema models.DatabaseSchema) (editor.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return editor.Snapshot{}, err
	}
	session.Replace(schema)
	return session.Snapshot(), nil
}

// Validate runs the validator on session id and writes the outcome to its
// chat log.
func (s *SessionService) Validate(id string) ([]string, editor.Snapshot, error) {
	session, err := s.Get(id)
	if err != nil {
		return nil, editor.Snapshot{}, err
	}
	issues := session.Validate()
	return issues, session.Snapshot(), nil
}
