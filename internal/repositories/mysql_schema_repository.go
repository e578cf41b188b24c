package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/chat2db/designer/internal/models"
)

// MySQLSchemaRepository reads information_schema through go-sql-driver/mysql.
type MySQLSchemaRepository struct {
	db       *sql.DB
	database string
}

// NewMySQLSchemaRepository creates a reader that falls back to database when
// ReadTables is called with an empty schema.
func NewMySQLSchemaRepository(db *sql.DB, database string) *MySQLSchemaRepository {
	return &MySQLSchemaRepository{db: db, database: database}
}

func (r *MySQLSchemaRepository) ReadTables(ctx context.Context, schema string) ([]models.TableInfo, error) {
	if schema == "" {
		schema = r.database
	}

	names, err := queryStrings(ctx, r.db, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = ? AND table_type = 'BASE TABLE'
		ORDER BY table_name
	`, schema)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]models.TableInfo, 0, len(names))
	for _, name := range names {
		table := models.TableInfo{Name: name}

		if table.Columns, err = r.columns(ctx, schema, name); err != nil {
			return nil, fmt.Errorf("failed to get columns for %s: %w", name, err)
		}
		if table.PrimaryKeys, err = queryStrings(ctx, r.db, `
			SELECT column_name
			FROM information_schema.key_column_usage
			WHERE table_schema = ?
				AND table_name = ?
				AND constraint_name = 'PRIMARY'
			ORDER BY ordinal_position
		`, schema, name); err != nil {
			return nil, fmt.Errorf("failed to get primary keys for %s: %w", name, err)
		}
		if table.ForeignKeys, err = r.foreignKeys(ctx, schema, name); err != nil {
			return nil, fmt.Errorf("failed to get foreign keys for %s: %w", name, err)
		}
		if table.UniqueColumns, err = queryStrings(ctx, r.db, `
			SELECT DISTINCT kcu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
				AND tc.table_name = kcu.table_name
			WHERE tc.table_schema = ?
				AND tc.table_name = ?
				AND tc.constraint_type = 'UNIQUE'
		`, schema, name); err != nil {
			return nil, fmt.Errorf("failed to get unique constraints for %s: %w", name, err)
		}

		tables = append(tables, table)
	}
	return tables, nil
}

func (r *MySQLSchemaRepository) columns(ctx context.Context, schema, table string) ([]models.ColumnInfo, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT column_name, column_type, is_nullable
		FROM information_schema.columns
		WHERE table_schema = ? AND table_name = ?
		ORDER BY ordinal_position
	`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []models.ColumnInfo
	for rows.Next() {
		var col models.ColumnInfo
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &nullable); err != nil {
			return nil, err
		}
		col.Nullable = nullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (r *MySQLSchemaRepository) foreignKeys(ctx context.Context, schema, table string) ([]models.ForeignKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT constraint_name, column_name, referenced_table_name, referenced_column_name
		FROM information_schema.key_column_usage
		WHERE table_schema = ?
			AND table_name = ?
			AND referenced_table_name IS NOT NULL
		ORDER BY constraint_name, ordinal_position
	`, schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.ForeignKey
	for rows.Next() {
		var fk models.ForeignKey
		if err := rows.Scan(&fk.ConstraintName, &fk.FromColumn, &fk.ToTable, &fk.ToColumn); err != nil {
			return nil, err
		}
		fks = append(fks, fk)
	}
	return fks, rows.Err()
}

func queryStrings(ctx context.Context, db *sql.DB, query string, args ...any) ([]string, error) {
	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
