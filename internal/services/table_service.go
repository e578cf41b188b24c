package services

import (
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/models"
)

// TableService applies table and column edits to a session.
type TableService struct {
	sessions *SessionService
}

func NewTableService(sessions *SessionService) *TableService {
	return &TableService{sessions: sessions}
}

type RenameTableRequest struct {
	Name string `json:"name" binding:"required"`
}

type UpdateTableRequest struct {
	Columns []models.Column `json:"columns" binding:"required"`
}

// ColumnRequest is the column form. An empty type falls back to varchar.
type ColumnRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (r ColumnRequest) column() models.Column {
	return models.Column{Name: r.Name, Type: r.Type}
}

// AddTable appends a default table and selects it.
func (s *TableService) AddTable(sessionID string) (models.Table, editor.Snapshot, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return models.Table{}, editor.Snapshot{}, err
	}
	table := session.AddTable()
	return table, session.Snapshot(), nil
}

func (s *TableService) RenameTable(sessionID, name string, req RenameTableRequest) (editor.Snapshot, error) {
	return s.edit(sessionID, func(session *editor.Session) error {
		return session.RenameTable(name, req.Name)
	})
}

func (s *TableService) DeleteTable(sessionID, name string) (editor.Snapshot, error) {
	return s.edit(sessionID, func(session *editor.Session) error {
		return session.DeleteTable(name)
	})
}

// UpdateTable saves the column list of the editor form for table name.
func (s *TableService) UpdateTable(sessionID, name string, req UpdateTableRequest) (editor.Snapshot, error) {
	return s.edit(sessionID, func(session *editor.Session) error {
		return session.UpdateTable(models.Table{Name: name, Columns: req.Columns})
	})
}

func (s *TableService) AddColumn(sessionID, table string, req ColumnRequest) (editor.Snapshot, error) {
	return s.edit(sessionID, func(session *editor.Session) error {
		return session.AddColumn(table, req.column())
	})
}

func (s *TableService) EditColumn(sessionID, table string, index int, req ColumnRequest) (editor.Snapshot, error) {
	return s.edit(sessionID, func(session *editor.Session) error {
		return session.EditColumn(table, index, req.column())
	})
}

func (s *TableService) RemoveColumn(sessionID, table string, index int) (editor.Snapshot, error) {
	return s.edit(sessionID, func(session *editor.Session) error {
		return session.RemoveColumn(table, index)
	})
}

func (s *TableService) edit(sessionID string, fn func(*editor.Session) error) (editor.Snapshot, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return editor.Snapshot{}, err
	}
	if err := fn(session); err != nil {
		return editor.Snapshot{}, err
	}
	return session.Snapshot(), nil
}
