package main

import (
	"bytes"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/chat2db/designer/internal/diagram"
	"github.com/chat2db/designer/internal/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(args ...string) (string, error) {
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

const shopJSON = `{
  "tables": [
    {"table_id": "u", "name": "users", "columns": [{"name": "id", "type": "uuid"}]},
    {"table_id": "o", "name": "orders", "columns": [{"name": "id", "type": "uuid"}]}
  ],
  "relations": [
    {"from_table": "users", "from_table_id": "u", "to_table": "orders", "to_table_id": "o", "type": "one-to-many"}
  ]
}`

func TestValidateCommand(t *testing.T) {
	out, err := run("validate", writeFile(t, "ok.json", shopJSON))
	require.NoError(t, err)
	assert.Contains(t, out, "Schema is correct.")

	out, err = run("validate", writeFile(t, "empty.json", `{"tables": [], "relations": []}`))
	assert.Error(t, err)
	assert.Contains(t, out, "schema does not contain any tables")
}

func TestValidateCommand_BadFile(t *testing.T) {
	_, err := run("validate", writeFile(t, "bad.json", `{"tables": [`))
	assert.ErrorContains(t, err, "failed to parse schema")

	_, err = run("validate")
	assert.Error(t, err)
}

func TestLayoutCommand(t *testing.T) {
	out, err := run("layout", "--direction", "TB", writeFile(t, "shop.json", shopJSON))
	require.NoError(t, err)

	var frame diagram.Frame
	require.NoError(t, json.Unmarshal([]byte(out), &frame))
	require.Len(t, frame.Nodes, 2)
	require.Len(t, frame.Edges, 1)
	assert.Less(t, frame.Nodes[0].Position.Y, frame.Nodes[1].Position.Y)
	assert.Equal(t, 1, frame.Fits)
	assert.Greater(t, frame.Viewport.Height, 0.0)

	_, err = run("layout", "--direction", "RL", writeFile(t, "shop.json", shopJSON))
	assert.Error(t, err)

	_, err = run("layout", "--engine", "force", writeFile(t, "shop.json", shopJSON))
	assert.Error(t, err)
}

func TestLayoutCommand_DotEngine(t *testing.T) {
	out, err := run("layout", "--engine", "dot", writeFile(t, "shop.json", shopJSON))
	require.NoError(t, err)

	var frame diagram.Frame
	require.NoError(t, json.Unmarshal([]byte(out), &frame))
	require.Len(t, frame.Nodes, 2)
	assert.Less(t, frame.Nodes[0].Position.X, frame.Nodes[1].Position.X)
}

func TestImportCommand_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shop.db")
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE users (id INTEGER PRIMARY KEY, email TEXT);
		CREATE TABLE orders (id INTEGER PRIMARY KEY, user_id INTEGER REFERENCES users(id));
		CREATE TABLE audit (id INTEGER PRIMARY KEY, note TEXT);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	output := filepath.Join(t.TempDir(), "schema.json")
	_, err = run("import", "--url", "sqlite://"+path, "--tables", "users, orders", "-o", output)
	require.NoError(t, err)

	raw, err := os.ReadFile(output)
	require.NoError(t, err)
	var schema models.DatabaseSchema
	require.NoError(t, json.Unmarshal(raw, &schema))

	require.Len(t, schema.Tables, 2)
	assert.Equal(t, "orders", schema.Tables[0].Name)
	assert.Equal(t, "users", schema.Tables[1].Name)
	require.Len(t, schema.Relations, 1)
	assert.Equal(t, "users", schema.Relations[0].FromTable)
	assert.Equal(t, models.OneToMany, schema.Relations[0].Type)
}

func TestImportCommand_RequiresURL(t *testing.T) {
	_, err := run("import")
	assert.Error(t, err)
}
