package repositories

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/chat2db/designer/internal/models"
	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const shopDDL = `
CREATE TABLE users (
	id INTEGER PRIMARY KEY,
	email TEXT NOT NULL UNIQUE,
	name VARCHAR(100)
);
CREATE TABLE profiles (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL UNIQUE REFERENCES users(id),
	bio TEXT
);
CREATE TABLE orders (
	id INTEGER PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id),
	total NUMERIC(10,2)
);
CREATE TABLE "order items" (
	order_id INTEGER NOT NULL REFERENCES orders,
	sku TEXT NOT NULL,
	PRIMARY KEY (sku, order_id)
);
`

func openShop(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "shop.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(shopDDL)
	require.NoError(t, err)
	return db
}

func tableByName(tables []models.TableInfo, name string) models.TableInfo {
	for _, t := range tables {
		if t.Name == name {
			return t
		}
	}
	return models.TableInfo{}
}

func TestSQLiteSchemaRepository_ReadTables(t *testing.T) {
	repo := NewSQLiteSchemaRepository(openShop(t))

	tables, err := repo.ReadTables(context.Background(), "")
	require.NoError(t, err)

	names := make([]string, len(tables))
	for i, tbl := range tables {
		names[i] = tbl.Name
	}
	assert.Equal(t, []string{"order items", "orders", "profiles", "users"}, names)

	users := tableByName(tables, "users")
	assert.Equal(t, []models.ColumnInfo{
		{Name: "id", DataType: "INTEGER", Nullable: true},
		{Name: "email", DataType: "TEXT", Nullable: false},
		{Name: "name", DataType: "VARCHAR(100)", Nullable: true},
	}, users.Columns)
	assert.Equal(t, []string{"id"}, users.PrimaryKeys)
	assert.Equal(t, []string{"email"}, users.UniqueColumns)
	assert.Empty(t, users.ForeignKeys)

	profiles := tableByName(tables, "profiles")
	require.Len(t, profiles.ForeignKeys, 1)
	assert.Equal(t, "user_id", profiles.ForeignKeys[0].FromColumn)
	assert.Equal(t, "users", profiles.ForeignKeys[0].ToTable)
	assert.Equal(t, "id", profiles.ForeignKeys[0].ToColumn)
	assert.Equal(t, []string{"user_id"}, profiles.UniqueColumns)

	orders := tableByName(tables, "orders")
	require.Len(t, orders.ForeignKeys, 1)
	assert.Empty(t, orders.UniqueColumns)

	items := tableByName(tables, "order items")
	assert.Equal(t, []string{"sku", "order_id"}, items.PrimaryKeys)
	require.Len(t, items.ForeignKeys, 1)
	assert.Equal(t, "orders", items.ForeignKeys[0].ToTable)
	assert.Empty(t, items.ForeignKeys[0].ToColumn)
	assert.Empty(t, items.UniqueColumns, "a composite primary key is not a unique column")
}

func TestSQLiteSchemaRepository_EmptyDatabase(t *testing.T) {
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "empty.db"))
	require.NoError(t, err)
	defer db.Close()

	tables, err := NewSQLiteSchemaRepository(db).ReadTables(context.Background(), "")

	require.NoError(t, err)
	assert.Empty(t, tables)
}

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"users"`, quoteIdent("users"))
	assert.Equal(t, `"we""ird"`, quoteIdent(`we"ird`))
}
