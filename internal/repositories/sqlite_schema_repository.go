package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/chat2db/designer/internal/models"
)

// SQLiteSchemaRepository reads a SQLite file through its PRAGMA functions.
// The schema argument of ReadTables is ignored.
type SQLiteSchemaRepository struct {
	db *sql.DB
}

func NewSQLiteSchemaRepository(db *sql.DB) *SQLiteSchemaRepository {
	return &SQLiteSchemaRepository{db: db}
}

func (r *SQLiteSchemaRepository) ReadTables(ctx context.Context, _ string) ([]models.TableInfo, error) {
	names, err := queryStrings(ctx, r.db, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	tables := make([]models.TableInfo, 0, len(names))
	for _, name := range names {
		table := models.TableInfo{Name: name}

		if table.Columns, table.PrimaryKeys, err = r.columns(ctx, name); err != nil {
			return nil, fmt.Errorf("failed to get columns for %s: %w", name, err)
		}
		if table.ForeignKeys, err = r.foreignKeys(ctx, name); err != nil {
			return nil, fmt.Errorf("failed to get foreign keys for %s: %w", name, err)
		}
		if table.UniqueColumns, err = r.uniqueColumns(ctx, name); err != nil {
			return nil, fmt.Errorf("failed to get unique indexes for %s: %w", name, err)
		}

		tables = append(tables, table)
	}
	return tables, nil
}

func (r *SQLiteSchemaRepository) columns(ctx context.Context, table string) ([]models.ColumnInfo, []string, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA table_info("+quoteIdent(table)+")")
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	type pkColumn struct {
		name  string
		order int
	}
	var columns []models.ColumnInfo
	var pks []pkColumn
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue sql.NullString
		if err := rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk); err != nil {
			return nil, nil, err
		}
		columns = append(columns, models.ColumnInfo{Name: name, DataType: colType, Nullable: notNull == 0})
		if pk > 0 {
			pks = append(pks, pkColumn{name: name, order: pk})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	// pk is the 1-based position inside the primary key.
	primary := make([]string, len(pks))
	for _, p := range pks {
		if p.order <= len(primary) {
			primary[p.order-1] = p.name
		}
	}
	return columns, primary, nil
}

// A reference without a target column points at the primary key of the
// referenced table and comes back with an empty ToColumn.
func (r *SQLiteSchemaRepository) foreignKeys(ctx context.Context, table string) ([]models.ForeignKey, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA foreign_key_list("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []models.ForeignKey
	for rows.Next() {
		var id, seq int
		var target, from string
		var to, onUpdate, onDelete, match sql.NullString
		if err := rows.Scan(&id, &seq, &target, &from, &to, &onUpdate, &onDelete, &match); err != nil {
			return nil, err
		}
		fks = append(fks, models.ForeignKey{
			ConstraintName: fmt.Sprintf("%s_fk_%d", table, id),
			FromColumn:     from,
			ToTable:        target,
			ToColumn:       to.String,
		})
	}
	return fks, rows.Err()
}

// uniqueColumns returns the columns covered on their own by a unique index,
// including the implicit ones created for UNIQUE constraints.
func (r *SQLiteSchemaRepository) uniqueColumns(ctx context.Context, table string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA index_list("+quoteIdent(table)+")")
	if err != nil {
		return nil, err
	}

	var indexes []string
	for rows.Next() {
		var seq, unique, partial int
		var name, origin string
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			rows.Close()
			return nil, err
		}
		if unique == 1 && origin != "pk" && partial == 0 {
			indexes = append(indexes, name)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var out []string
	for _, idx := range indexes {
		cols, err := r.indexColumns(ctx, idx)
		if err != nil {
			return nil, err
		}
		if len(cols) == 1 {
			out = appendOnce(out, cols[0])
		}
	}
	return out, nil
}

func (r *SQLiteSchemaRepository) indexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "PRAGMA index_info("+quoteIdent(index)+")")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var seqno, cid int
		var name sql.NullString
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, err
		}
		cols = append(cols, name.String)
	}
	return cols, rows.Err()
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
