package editor

import (
	"strings"
	"sync"
	"time"

	"github.com/chat2db/designer/internal/diagram"
	"github.com/chat2db/designer/internal/models"
	"github.com/chat2db/designer/internal/validator"
	"go.uber.org/zap"
)

// Chat log lines written by the session itself.
const (
	Greeting            = "Hello, I'm a chatbot that helps with creating database schemas. How can I help you?"
	MsgSchemaReset      = "Schema has been reset."
	MsgSchemaCorrect    = "Schema is correct."
	MsgSchemaIssuesHead = "Detected issues:\n"
)

// Snapshot is a consistent copy of a session's state.
type Snapshot struct {
	ID            string                `json:"id"`
	Schema        models.DatabaseSchema `json:"schema"`
	Diagnostics   []string              `json:"diagnostics"`
	Exportable    bool                  `json:"exportable"`
	Messages      []models.Message      `json:"messages"`
	SelectedTable *models.Table         `json:"selected_table"`
	AutoLayout    bool                  `json:"auto_layout"`
	SQLPreview    string                `json:"sql_preview,omitempty"`
	CreatedAt     time.Time             `json:"created_at"`
	UpdatedAt     time.Time             `json:"updated_at"`
}

// DiagramView is the rendered diagram plus the view flags.
type DiagramView struct {
	diagram.Frame
	AutoLayout bool   `json:"auto_layout"`
	Selected   string `json:"selected,omitempty"`
}

// Session owns one schema being edited. Every method takes the session
// lock, so callbacks are applied one at a time.
type Session struct {
	ID string

	mu         sync.Mutex
	schema     models.DatabaseSchema
	syncer     *diagram.Synchronizer
	surface    *diagram.MemorySurface
	messages   []models.Message
	sqlPreview string
	createdAt  time.Time
	updatedAt  time.Time
	logger     *zap.Logger
}

// NewSession creates a new Session with an empty schema and the greeting in
// its chat log. schedule may be nil.
func NewSession(id string, cfg diagram.Config, schedule diagram.Scheduler, logger *zap.Logger) *Session {
	if logger == nil {
		logger = zap.NewNop()
	}
	now := time.Now().UTC()
	s := &Session{
		ID:        id,
		schema:    models.EmptySchema(),
		surface:   diagram.NewMemorySurface(),
		messages:  []models.Message{{Role: models.RoleAgent, Content: Greeting}},
		createdAt: now,
		updatedAt: now,
		logger:    logger.With(zap.String("session_id", id)),
	}
	listener := diagram.SelectionFunc(func(t *models.Table) {
		if t == nil {
			s.logger.Debug("selection cleared")
			return
		}
		s.logger.Debug("table selected", zap.String("table_id", t.TableID), zap.String("table", t.Name))
	})
	s.syncer = diagram.NewSynchronizer(cfg, s.surface, listener, schedule, s.logger)
	s.syncer.Apply(s.schema)
	return s
}

func (s *Session) Schema() models.DatabaseSchema {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.schema.Clone()
}

func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *Session) snapshot() Snapshot {
	diags := validator.Validate(s.schema)
	snap := Snapshot{
		ID:          s.ID,
		Schema:      s.schema.Clone(),
		Diagnostics: diags,
		Exportable:  len(s.schema.Tables) > 0 && len(diags) == 0,
		Messages:    s.copyMessages(),
		AutoLayout:  s.syncer.AutoLayout(),
		SQLPreview:  s.sqlPreview,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
	if id := s.syncer.Selected(); id != "" {
		if t, ok := s.schema.TableByID(id); ok {
			snap.SelectedTable = &t
		}
	}
	return snap
}

// Conversation returns the chat log and schema as they are sent to the
// agent service.
func (s *Session) Conversation() ([]models.Message, models.DatabaseSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyMessages(), s.schema.Clone()
}

func (s *Session) Diagram() DiagramView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return DiagramView{
		Frame:      s.surface.Frame(),
		AutoLayout: s.syncer.AutoLayout(),
		Selected:   s.syncer.Selected(),
	}
}

// AddTable appends a new table and selects it.
func (s *Session) AddTable() models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, t := AddTable(s.schema)
	s.apply(next)
	s.syncer.Select(t.TableID)
	return t
}

func (s *Session) RenameTable(oldName, newName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := RenameTable(s.schema, oldName, newName)
	if err != nil {
		return err
	}
	s.apply(next)
	return nil
}

// DeleteTable removes the table and clears the selection.
func (s *Session) DeleteTable(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := DeleteTable(s.schema, name)
	if err != nil {
		return err
	}
	s.apply(next)
	// apply already dropped a selection of the removed table.
	if s.syncer.Selected() != "" {
		s.syncer.ClearSelection()
	}
	return nil
}

func (s *Session) UpdateTable(t models.Table) error {
	return s.mutate(func(schema models.DatabaseSchema) (models.DatabaseSchema, error) {
		return UpdateTable(schema, t)
	})
}

func (s *Session) AddColumn(table string, col models.Column) error {
	return s.mutate(func(schema models.DatabaseSchema) (models.DatabaseSchema, error) {
		return AddColumn(schema, table, col)
	})
}

func (s *Session) EditColumn(table string, index int, col models.Column) error {
	return s.mutate(func(schema models.DatabaseSchema) (models.DatabaseSchema, error) {
		return EditColumn(schema, table, index, col)
	})
}

func (s *Session) RemoveColumn(table string, index int) error {
	return s.mutate(func(schema models.DatabaseSchema) (models.DatabaseSchema, error) {
		return RemoveColumn(schema, table, index)
	})
}

// SaveRelation reports whether the relation was stored. A refused draft
// changes nothing, the diagram included.
func (s *Session) SaveRelation(draft models.Relation, index *int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, applied := SaveRelation(s.schema, draft, index)
	if !applied {
		s.logger.Debug("relation refused",
			zap.String("from_table_id", draft.FromTableID),
			zap.String("to_table_id", draft.ToTableID),
		)
		return false
	}
	s.apply(next)
	return true
}

func (s *Session) RemoveRelation(index int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, removed := RemoveRelation(s.schema, index)
	if removed {
		s.apply(next)
	}
	return removed
}

// Reset empties the schema.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(models.EmptySchema())
	s.push(models.RoleAgent, MsgSchemaReset)
}

// Replace swaps in a whole new schema, as the agent and the importer do.
func (s *Session) Replace(schema models.DatabaseSchema) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.apply(schema.Clone())
}

// Validate runs the validator and reports the outcome in the chat log.
func (s *Session) Validate() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	diags := validator.Validate(s.schema)
	if len(diags) == 0 {
		s.push(models.RoleAgent, MsgSchemaCorrect)
	} else {
		s.push(models.RoleAgent, MsgSchemaIssuesHead+strings.Join(diags, "\n"))
	}
	return diags
}

func (s *Session) PushMessage(role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.push(role, content)
}

func (s *Session) Messages() []models.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyMessages()
}

func (s *Session) SetSQLPreview(sql string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sqlPreview = sql
	s.touch()
}

func (s *Session) SetAutoLayout(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncer.SetAutoLayout(on)
	s.touch()
}

func (s *Session) MoveNode(id string, pos models.Position) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncer.MoveNode(id, pos)
}

// SelectNode selects the table behind a diagram node; nil when the id does
// not resolve.
func (s *Session) SelectNode(id string) *models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncer.Select(id)
}

func (s *Session) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.syncer.ClearSelection()
}

func (s *Session) mutate(fn func(models.DatabaseSchema) (models.DatabaseSchema, error)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := fn(s.schema)
	if err != nil {
		return err
	}
	s.apply(next)
	return nil
}

// apply installs a new schema. The SQL preview belongs to the old one and
// is dropped.
func (s *Session) apply(next models.DatabaseSchema) {
	s.schema = next
	s.sqlPreview = ""
	s.syncer.Apply(next)
	s.touch()
}

func (s *Session) push(role, content string) {
	s.messages = append(s.messages, models.Message{Role: role, Content: content})
	s.touch()
}

func (s *Session) touch() {
	s.updatedAt = time.Now().UTC()
}

func (s *Session) copyMessages() []models.Message {
	out := make([]models.Message, len(s.messages))
	copy(out, s.messages)
	return out
}
