package services

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/clients"
	"github.com/chat2db/designer/internal/config"
	"github.com/chat2db/designer/internal/diagram"
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/layout"
	"github.com/chat2db/designer/internal/models"
	"github.com/chat2db/designer/internal/sqlcheck"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func immediate(_ time.Duration, fn func()) { fn() }

func newSessions() *SessionService {
	return NewSessionService(diagram.DefaultConfig(), immediate, nil)
}

type fakeAgent struct {
	resp *clients.ChatResponse
	err  error
	got  clients.ChatRequest
}

func (f *fakeAgent) Chat(_ context.Context, req clients.ChatRequest) (*clients.ChatResponse, error) {
	f.got = req
	return f.resp, f.err
}

type fakeSQLGen struct {
	resp *clients.SQLResponse
	err  error
	got  clients.SQLRequest
}

func (f *fakeSQLGen) Generate(_ context.Context, req clients.SQLRequest) (*clients.SQLResponse, error) {
	f.got = req
	return f.resp, f.err
}

func lastMessage(snap editor.Snapshot) models.Message {
	return snap.Messages[len(snap.Messages)-1]
}

func validSchema() models.DatabaseSchema {
	return models.DatabaseSchema{
		Tables: []models.Table{
			{TableID: "u", Name: "users", Columns: []models.Column{{Name: "id", Type: "uuid"}}},
			{TableID: "o", Name: "orders", Columns: []models.Column{{Name: "id", Type: "uuid"}, {Name: "user_id", Type: "uuid"}}},
		},
		Relations: []models.Relation{
			{FromTable: "users", FromTableID: "u", ToTable: "orders", ToTableID: "o", Type: models.OneToMany},
		},
	}
}

func TestSessionService_Lifecycle(t *testing.T) {
	sessions := newSessions()

	session := sessions.Create()
	require.NotEmpty(t, session.ID)
	assert.Equal(t, 1, sessions.Count())

	got, err := sessions.Get(session.ID)
	require.NoError(t, err)
	assert.Same(t, session, got)

	require.NoError(t, sessions.Delete(session.ID))
	_, err = sessions.Get(session.ID)
	assert.True(t, apperrors.IsNotFound(err))
	assert.True(t, apperrors.IsNotFound(sessions.Delete(session.ID)))
}

func TestSessionService_Validate(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()

	issues, snap, err := sessions.Validate(session.ID)

	require.NoError(t, err)
	assert.Equal(t, []string{"schema does not contain any tables"}, issues)
	assert.Contains(t, lastMessage(snap).Content, editor.MsgSchemaIssuesHead)
}

func TestNewDiagramConfig(t *testing.T) {
	cfg, err := NewDiagramConfig(config.DiagramConfig{
		Direction:   "tb",
		NodeWidth:   240,
		NodeHeight:  120,
		FitPadding:  0.1,
		SettleDelay: 50 * time.Millisecond,
		AutoLayout:  false,
	})
	require.NoError(t, err)
	assert.Equal(t, models.TopToBottom, cfg.Direction)
	assert.Equal(t, 240.0, cfg.NodeWidth)
	assert.False(t, cfg.AutoLayout)
	assert.Equal(t, layout.Layered{}, cfg.Engine)

	cfg, err = NewDiagramConfig(config.DiagramConfig{Direction: "LR", Engine: "dot"})
	require.NoError(t, err)
	assert.IsType(t, &layout.DotEngine{}, cfg.Engine)

	_, err = NewDiagramConfig(config.DiagramConfig{Direction: "diagonal"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = NewDiagramConfig(config.DiagramConfig{Direction: "LR", Engine: "force"})
	assert.True(t, apperrors.IsValidation(err))
}

func TestTableService_Flow(t *testing.T) {
	sessions := newSessions()
	tables := NewTableService(sessions)
	id := sessions.Create().ID

	table, snap, err := tables.AddTable(id)
	require.NoError(t, err)
	assert.Equal(t, "table_1", table.Name)
	require.NotNil(t, snap.SelectedTable)

	_, err = tables.RenameTable(id, "table_1", RenameTableRequest{Name: "users"})
	require.NoError(t, err)

	snap, err = tables.AddColumn(id, "users", ColumnRequest{Name: "email"})
	require.NoError(t, err)
	assert.Equal(t, models.Column{Name: "email", Type: editor.NewColumnType}, snap.Schema.Tables[0].Columns[1])

	snap, err = tables.EditColumn(id, "users", 1, ColumnRequest{Name: "email", Type: "text"})
	require.NoError(t, err)
	assert.Equal(t, "text", snap.Schema.Tables[0].Columns[1].Type)

	_, err = tables.RemoveColumn(id, "users", 7)
	assert.True(t, apperrors.IsValidation(err))

	snap, err = tables.UpdateTable(id, "users", UpdateTableRequest{Columns: []models.Column{{Name: "id", Type: "bigint"}}})
	require.NoError(t, err)
	assert.Equal(t, []models.Column{{Name: "id", Type: "bigint"}}, snap.Schema.Tables[0].Columns)

	_, err = tables.DeleteTable(id, "ghost")
	assert.True(t, apperrors.IsNotFound(err))

	snap, err = tables.DeleteTable(id, "users")
	require.NoError(t, err)
	assert.Empty(t, snap.Schema.Tables)
	assert.Nil(t, snap.SelectedTable)

	_, _, err = tables.AddTable("missing")
	assert.True(t, apperrors.IsNotFound(err))
}

func TestRelationService_AppliedFlag(t *testing.T) {
	sessions := newSessions()
	relations := NewRelationService(sessions)
	session := sessions.Create()
	session.Replace(validSchema())

	res, err := relations.SaveRelation(session.ID, RelationRequest{FromTableID: "o", ToTableID: "u", Type: models.OneToOne}, nil)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	require.Len(t, res.Session.Schema.Relations, 2)
	assert.Equal(t, "orders", res.Session.Schema.Relations[1].FromTable)

	res, err = relations.SaveRelation(session.ID, RelationRequest{FromTableID: "ghost", ToTableID: "u", Type: models.OneToOne}, nil)
	require.NoError(t, err)
	assert.False(t, res.Applied)
	assert.Len(t, res.Session.Schema.Relations, 2)

	index := 5
	res, err = relations.SaveRelation(session.ID, RelationRequest{FromTableID: "u", ToTableID: "o", Type: models.ManyToMany}, &index)
	require.NoError(t, err)
	assert.False(t, res.Applied)

	res, err = relations.RemoveRelation(session.ID, 0)
	require.NoError(t, err)
	assert.True(t, res.Applied)
	assert.Len(t, res.Session.Schema.Relations, 1)
}

func TestDiagramService(t *testing.T) {
	sessions := newSessions()
	diagrams := NewDiagramService(sessions)
	session := sessions.Create()
	session.Replace(validSchema())

	view, err := diagrams.Get(session.ID)
	require.NoError(t, err)
	assert.Len(t, view.Nodes, 2)
	assert.Len(t, view.Edges, 1)
	assert.True(t, view.AutoLayout)

	off := false
	_, err = diagrams.SetAutoLayout(session.ID, AutoLayoutRequest{Enabled: &off})
	require.NoError(t, err)

	view, err = diagrams.MoveNode(session.ID, "u", MoveNodeRequest{X: 900, Y: 10})
	require.NoError(t, err)
	assert.Equal(t, models.Position{X: 900, Y: 10}, view.Nodes[0].Position)

	_, err = diagrams.MoveNode(session.ID, "ghost", MoveNodeRequest{})
	assert.True(t, apperrors.IsNotFound(err))

	sel, err := diagrams.Select(session.ID, "o")
	require.NoError(t, err)
	require.NotNil(t, sel.Table)
	assert.Equal(t, "orders", sel.Table.Name)
	assert.Equal(t, "o", sel.Diagram.Selected)

	sel, err = diagrams.Select(session.ID, "ghost")
	require.NoError(t, err)
	assert.Nil(t, sel.Table)
	assert.Empty(t, sel.Diagram.Selected)

	diagrams.Select(session.ID, "u")
	view, err = diagrams.ClearSelection(session.ID)
	require.NoError(t, err)
	assert.Empty(t, view.Selected)
}

func TestChatService_ReplacesSchema(t *testing.T) {
	sessions := newSessions()
	updated := validSchema()
	agent := &fakeAgent{resp: &clients.ChatResponse{Response: "Added users and orders.", UpdatedDB: &updated}}
	chat := NewChatService(sessions, agent, nil)
	id := sessions.Create().ID

	snap, err := chat.Send(context.Background(), id, ChatMessageRequest{Content: "  a shop  "})

	require.NoError(t, err)
	require.Len(t, agent.got.Messages, 2)
	assert.Equal(t, models.Message{Role: models.RoleUser, Content: "a shop"}, agent.got.Messages[1])
	assert.Empty(t, agent.got.CurrentDB.Tables)
	assert.Equal(t, updated, snap.Schema)
	assert.Equal(t, models.Message{Role: models.RoleAgent, Content: "Added users and orders."}, lastMessage(snap))
	assert.Len(t, snap.Messages, 3)
}

func TestChatService_KeepsSchemaWithoutUpdate(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	chat := NewChatService(sessions, &fakeAgent{resp: &clients.ChatResponse{Response: "Anything else?"}}, nil)

	snap, err := chat.Send(context.Background(), session.ID, ChatMessageRequest{Content: "hi"})

	require.NoError(t, err)
	assert.Equal(t, validSchema(), snap.Schema)
	assert.Equal(t, "Anything else?", lastMessage(snap).Content)
}

func TestChatService_AgentFailure(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	chat := NewChatService(sessions, &fakeAgent{err: apperrors.NewUpstreamError("agent", errors.New("boom"))}, nil)

	snap, err := chat.Send(context.Background(), session.ID, ChatMessageRequest{Content: "add payments"})

	require.NoError(t, err)
	assert.Equal(t, models.Message{Role: models.RoleAgent, Content: MsgChatFailed}, lastMessage(snap))
	assert.Equal(t, validSchema(), snap.Schema)
}

func TestChatService_RejectsBlankMessage(t *testing.T) {
	sessions := newSessions()
	agent := &fakeAgent{}
	chat := NewChatService(sessions, agent, nil)
	session := sessions.Create()

	_, err := chat.Send(context.Background(), session.ID, ChatMessageRequest{Content: "   "})

	assert.True(t, apperrors.IsValidation(err))
	assert.Len(t, session.Messages(), 1)
}

func newExport(sessions *SessionService, gen *fakeSQLGen) *ExportService {
	return NewExportService(sessions, gen, sqlcheck.NewChecker(), config.ExportConfig{Dialect: "postgres", VerifySQL: true}, nil)
}

func TestExportService_RefusesInvalidSchema(t *testing.T) {
	sessions := newSessions()
	gen := &fakeSQLGen{}
	id := sessions.Create().ID

	_, err := newExport(sessions, gen).Export(context.Background(), id, ExportRequest{})

	assert.True(t, apperrors.IsConflict(err))
	assert.Empty(t, gen.got.Dialect, "the sql service is not called")
}

func TestExportService_SetsPreview(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	gen := &fakeSQLGen{resp: &clients.SQLResponse{
		SQL:     "```sql\nCREATE TABLE users (id uuid PRIMARY KEY);\nCREATE TABLE orders (id uuid PRIMARY KEY, user_id uuid REFERENCES users(id));\n```",
		Message: "successfully created script",
	}}

	res, err := newExport(sessions, gen).Export(context.Background(), session.ID, ExportRequest{})

	require.NoError(t, err)
	assert.Equal(t, "postgres", gen.got.Dialect)
	assert.Equal(t, validSchema(), gen.got.CurrentDB)
	assert.True(t, res.Checked)
	assert.Equal(t, 2, res.Statements)
	assert.Equal(t, []string{"users", "orders"}, res.Tables)
	assert.NotContains(t, res.SQL, "```")
	assert.Equal(t, res.SQL, res.Session.SQLPreview)
	assert.Equal(t, "successfully created script", lastMessage(res.Session).Content)
}

func TestExportService_RejectsUnparsableScript(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	gen := &fakeSQLGen{resp: &clients.SQLResponse{SQL: "CREATE TABLE (", Message: "successfully created script"}}

	res, err := newExport(sessions, gen).Export(context.Background(), session.ID, ExportRequest{Dialect: "mysql"})

	require.NoError(t, err)
	assert.Empty(t, res.SQL)
	assert.Empty(t, res.Session.SQLPreview)
	msgs := res.Session.Messages
	require.GreaterOrEqual(t, len(msgs), 2)
	assert.Contains(t, msgs[len(msgs)-2].Content, "error in script")
	assert.Equal(t, "successfully created script", msgs[len(msgs)-1].Content)
}

func TestExportService_RejectedScriptClearsPreviousPreview(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	gen := &fakeSQLGen{resp: &clients.SQLResponse{SQL: "CREATE TABLE users (id int);"}}
	export := newExport(sessions, gen)

	res, err := export.Export(context.Background(), session.ID, ExportRequest{Dialect: "mysql"})
	require.NoError(t, err)
	require.Equal(t, "CREATE TABLE users (id int);", res.Session.SQLPreview)

	gen.resp = &clients.SQLResponse{SQL: "CREATE TABLE (", Message: "script ready"}
	res, err = export.Export(context.Background(), session.ID, ExportRequest{Dialect: "mysql"})

	require.NoError(t, err)
	assert.Empty(t, res.Session.SQLPreview)
	assert.Equal(t, "script ready", lastMessage(res.Session).Content)
}

func TestExportService_PreviewDroppedAfterEdit(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	gen := &fakeSQLGen{resp: &clients.SQLResponse{SQL: "CREATE TABLE users (id uuid);"}}

	res, err := newExport(sessions, gen).Export(context.Background(), session.ID, ExportRequest{})
	require.NoError(t, err)
	require.NotEmpty(t, res.Session.SQLPreview)

	require.NoError(t, session.AddColumn("users", models.Column{Name: "email", Type: "text"}))
	assert.Empty(t, session.Snapshot().SQLPreview)
}

func TestExportService_MessageOnly(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	gen := &fakeSQLGen{resp: &clients.SQLResponse{Message: "error in script: missing table"}}

	res, err := newExport(sessions, gen).Export(context.Background(), session.ID, ExportRequest{Dialect: "sqlite"})

	require.NoError(t, err)
	assert.Equal(t, "sqlite", gen.got.Dialect)
	assert.Empty(t, res.SQL)
	assert.Equal(t, "error in script: missing table", lastMessage(res.Session).Content)
}

func TestExportService_ServiceFailure(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	session.Replace(validSchema())
	gen := &fakeSQLGen{err: apperrors.NewUpstreamError("sqlgen", errors.New("connection refused"))}

	res, err := newExport(sessions, gen).Export(context.Background(), session.ID, ExportRequest{})

	require.NoError(t, err)
	assert.Equal(t, MsgExportFailed, lastMessage(res.Session).Content)
	assert.Equal(t, validSchema(), res.Session.Schema)
}

func TestSimplifyDataType(t *testing.T) {
	tests := map[string]string{
		"integer":                     "int",
		"INTEGER":                     "int",
		"int(11)":                     "int",
		"character varying":           "varchar",
		"VARCHAR(100)":                "varchar",
		"character":                   "char",
		"timestamp without time zone": "timestamp",
		"timestamp with time zone":    "timestamptz",
		"double precision":            "double",
		"numeric(10,2)":               "numeric",
		"ARRAY":                       "array",
		"uuid":                        "uuid",
		"tinyint(1)":                  "tinyint",
		"int(10) unsigned":            "int unsigned",
	}
	for in, want := range tests {
		t.Run(in, func(t *testing.T) {
			assert.Equal(t, want, simplifyDataType(in))
		})
	}
}

func TestBuildSchema(t *testing.T) {
	infos := []models.TableInfo{
		{
			Name:        "users",
			Columns:     []models.ColumnInfo{{Name: "id", DataType: "uuid"}, {Name: "email", DataType: "character varying"}},
			PrimaryKeys: []string{"id"},
		},
		{
			Name:          "profiles",
			Columns:       []models.ColumnInfo{{Name: "id", DataType: "integer"}, {Name: "user_id", DataType: "uuid"}},
			PrimaryKeys:   []string{"id"},
			ForeignKeys:   []models.ForeignKey{{FromColumn: "user_id", ToTable: "users", ToColumn: "id"}},
			UniqueColumns: []string{"user_id"},
		},
		{
			Name:        "orders",
			Columns:     []models.ColumnInfo{{Name: "id", DataType: "integer"}, {Name: "user_id", DataType: "uuid"}},
			PrimaryKeys: []string{"id"},
			ForeignKeys: []models.ForeignKey{{FromColumn: "user_id", ToTable: "users", ToColumn: "id"}},
		},
		{
			Name:        "tags",
			Columns:     []models.ColumnInfo{{Name: "id", DataType: "integer"}},
			PrimaryKeys: []string{"id"},
		},
		{
			Name:        "user_tags",
			Columns:     []models.ColumnInfo{{Name: "user_id", DataType: "uuid"}, {Name: "tag_id", DataType: "integer"}},
			PrimaryKeys: []string{"user_id", "tag_id"},
			ForeignKeys: []models.ForeignKey{
				{FromColumn: "user_id", ToTable: "users", ToColumn: "id"},
				{FromColumn: "tag_id", ToTable: "tags", ToColumn: "id"},
			},
		},
		{
			Name:        "tag_users",
			Columns:     []models.ColumnInfo{{Name: "tag_id", DataType: "integer"}, {Name: "user_id", DataType: "uuid"}},
			PrimaryKeys: []string{"tag_id", "user_id"},
			ForeignKeys: []models.ForeignKey{
				{FromColumn: "tag_id", ToTable: "tags", ToColumn: "id"},
				{FromColumn: "user_id", ToTable: "users", ToColumn: "id"},
			},
		},
	}

	schema := BuildSchema(infos, nil)

	names := make([]string, len(schema.Tables))
	seen := make(map[string]bool)
	for i, tbl := range schema.Tables {
		names[i] = tbl.Name
		assert.NotEmpty(t, tbl.TableID)
		assert.False(t, seen[tbl.TableID], "ids are unique")
		seen[tbl.TableID] = true
	}
	assert.Equal(t, []string{"users", "profiles", "orders", "tags"}, names)
	assert.Equal(t, []models.Column{{Name: "id", Type: "uuid"}, {Name: "email", Type: "varchar"}}, schema.Tables[0].Columns)

	users, _ := schema.TableByName("users")
	profiles, _ := schema.TableByName("profiles")
	orders, _ := schema.TableByName("orders")
	tags, _ := schema.TableByName("tags")

	assert.Equal(t, []models.Relation{
		{FromTable: "users", FromTableID: users.TableID, ToTable: "profiles", ToTableID: profiles.TableID, Type: models.OneToOne},
		{FromTable: "users", FromTableID: users.TableID, ToTable: "orders", ToTableID: orders.TableID, Type: models.OneToMany},
		{FromTable: "users", FromTableID: users.TableID, ToTable: "tags", ToTableID: tags.TableID, Type: models.ManyToMany},
	}, schema.Relations)
}

func TestBuildSchema_OnlySelectedTables(t *testing.T) {
	infos := []models.TableInfo{
		{Name: "users", Columns: []models.ColumnInfo{{Name: "id", DataType: "uuid"}}, PrimaryKeys: []string{"id"}},
		{
			Name:        "orders",
			Columns:     []models.ColumnInfo{{Name: "id", DataType: "integer"}, {Name: "user_id", DataType: "uuid"}},
			PrimaryKeys: []string{"id"},
			ForeignKeys: []models.ForeignKey{{FromColumn: "user_id", ToTable: "users", ToColumn: "id"}},
		},
	}

	schema := BuildSchema(infos, []string{"orders"})

	require.Len(t, schema.Tables, 1)
	assert.Equal(t, "orders", schema.Tables[0].Name)
	assert.NotNil(t, schema.Relations)
	assert.Empty(t, schema.Relations, "relations to skipped tables are dropped")
}

func TestBuildSchema_PrimaryKeyForeignKeyIsOneToOne(t *testing.T) {
	infos := []models.TableInfo{
		{Name: "users", Columns: []models.ColumnInfo{{Name: "id", DataType: "uuid"}}, PrimaryKeys: []string{"id"}},
		{
			Name:        "settings",
			Columns:     []models.ColumnInfo{{Name: "user_id", DataType: "uuid"}, {Name: "theme", DataType: "text"}},
			PrimaryKeys: []string{"user_id"},
			ForeignKeys: []models.ForeignKey{{FromColumn: "user_id", ToTable: "users", ToColumn: "id"}},
		},
	}

	schema := BuildSchema(infos, nil)

	require.Len(t, schema.Relations, 1)
	assert.Equal(t, models.OneToOne, schema.Relations[0].Type)
}

func TestDetectJunctionTables(t *testing.T) {
	wide := models.TableInfo{
		Name:        "wide",
		PrimaryKeys: []string{"a", "b"},
		ForeignKeys: []models.ForeignKey{{FromColumn: "a", ToTable: "x"}, {FromColumn: "b", ToTable: "y"}},
	}
	for i := 0; i < 7; i++ {
		wide.Columns = append(wide.Columns, models.ColumnInfo{Name: string(rune('a' + i))})
	}
	loose := models.TableInfo{
		Name:        "loose",
		Columns:     []models.ColumnInfo{{Name: "id"}, {Name: "a"}, {Name: "b"}},
		PrimaryKeys: []string{"id", "a"},
		ForeignKeys: []models.ForeignKey{{FromColumn: "a", ToTable: "x"}, {FromColumn: "b", ToTable: "y"}},
	}
	pair := models.TableInfo{
		Name:        "pair",
		Columns:     []models.ColumnInfo{{Name: "a"}, {Name: "b"}, {Name: "created_at"}},
		PrimaryKeys: []string{"a", "b"},
		ForeignKeys: []models.ForeignKey{{FromColumn: "a", ToTable: "x"}, {FromColumn: "b", ToTable: "y"}},
	}

	got := detectJunctionTables([]models.TableInfo{wide, loose, pair})

	assert.Equal(t, map[string]bool{"pair": true}, got)
}

const importDDL = `
CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT NOT NULL UNIQUE);
CREATE TABLE profiles (id INTEGER PRIMARY KEY, user_id INTEGER NOT NULL UNIQUE REFERENCES users(id));
CREATE TABLE posts (id INTEGER PRIMARY KEY, author_id INTEGER REFERENCES users(id), title VARCHAR(200));
CREATE TABLE tags (id INTEGER PRIMARY KEY, label TEXT);
CREATE TABLE post_tags (
	post_id INTEGER REFERENCES posts(id),
	tag_id INTEGER REFERENCES tags(id),
	PRIMARY KEY (post_id, tag_id)
);
`

func TestSchemaService_ImportSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blog.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(importDDL)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	sessions := newSessions()
	session := sessions.Create()
	svc := NewSchemaService(sessions, nil, nil)

	res, err := svc.Import(context.Background(), session.ID, ImportRequest{URL: "sqlite://" + path})
	require.NoError(t, err)

	assert.Equal(t, 4, res.Tables)
	assert.Equal(t, 3, res.Relations)
	assert.Empty(t, res.Session.Diagnostics)
	assert.True(t, res.Session.Exportable)

	schema := res.Session.Schema
	byName := make(map[string]models.RelationType)
	for _, r := range schema.Relations {
		byName[r.FromTable+">"+r.ToTable] = r.Type
	}
	assert.Equal(t, models.OneToOne, byName["users>profiles"])
	assert.Equal(t, models.OneToMany, byName["users>posts"])
	// SQLite lists foreign keys last declared first, so either direction is fine.
	joined := byName["posts>tags"]
	if joined == "" {
		joined = byName["tags>posts"]
	}
	assert.Equal(t, models.ManyToMany, joined)

	posts, ok := schema.TableByName("posts")
	require.True(t, ok)
	assert.Equal(t, []models.Column{
		{Name: "id", Type: "int"},
		{Name: "author_id", Type: "int"},
		{Name: "title", Type: "varchar"},
	}, posts.Columns)

	assert.Contains(t, lastMessage(res.Session).Content, "Imported 4 tables and 3 relations")
	assert.Len(t, session.Diagram().Nodes, 4)
}

func TestSchemaService_ImportErrors(t *testing.T) {
	sessions := newSessions()
	session := sessions.Create()
	svc := NewSchemaService(sessions, nil, nil)

	_, err := svc.Import(context.Background(), session.ID, ImportRequest{URL: "oracle://db/orcl"})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Import(context.Background(), session.ID, ImportRequest{URL: "sqlite://" + filepath.Join(t.TempDir(), "missing.db")})
	assert.True(t, apperrors.IsValidation(err))

	_, err = svc.Import(context.Background(), "nope", ImportRequest{URL: "sqlite://x.db"})
	assert.True(t, apperrors.IsNotFound(err))

	assert.Empty(t, session.Schema().Tables)
}
