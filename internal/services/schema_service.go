package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/database"
	"github.com/chat2db/designer/internal/editor"
	"github.com/chat2db/designer/internal/models"
	"github.com/chat2db/designer/internal/repositories"
	"github.com/chat2db/designer/internal/utils"
	"go.uber.org/zap"
)

const (
	maxJunctionTableColumns = 6
	minJunctionTableFKs     = 2

	importTimeout = 30 * time.Second
)

// ReaderOpener connects to src and returns a schema reader plus the function
// that releases its connection.
type ReaderOpener func(ctx context.Context, src database.Source) (repositories.SchemaReader, func(), error)

// SchemaService imports the structure of a live database into a session.
type SchemaService struct {
	sessions *SessionService
	open     ReaderOpener
	logger   *zap.Logger
}

// NewSchemaService creates a new SchemaService. A nil open uses
// OpenSchemaReader.
func NewSchemaService(sessions *SessionService, open ReaderOpener, logger *zap.Logger) *SchemaService {
	if open == nil {
		open = OpenSchemaReader
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchemaService{sessions: sessions, open: open, logger: logger}
}

type ImportRequest struct {
	URL    string   `json:"url" binding:"required"`
	Schema string   `json:"schema"`
	Tables []string `json:"tables"`
}

type ImportResult struct {
	Source    string          `json:"source"`
	Tables    int             `json:"tables"`
	Relations int             `json:"relations"`
	Session   editor.Snapshot `json:"session"`
}

// OpenSchemaReader connects with the driver matching src.
func OpenSchemaReader(ctx context.Context, src database.Source) (repositories.SchemaReader, func(), error) {
	switch src.Driver {
	case database.DriverPostgres:
		pool, err := database.ConnectPostgres(ctx, src.DSN)
		if err != nil {
			return nil, nil, apperrors.NewUpstreamError("database", err)
		}
		return repositories.NewSchemaRepository(pool), pool.Close, nil

	case database.DriverMySQL:
		db, err := database.OpenSQL(ctx, database.DriverMySQL, src.DSN)
		if err != nil {
			return nil, nil, apperrors.NewUpstreamError("database", err)
		}
		return repositories.NewMySQLSchemaRepository(db, src.Database), func() { _ = db.Close() }, nil

	case database.DriverSQLite:
		// Opening a missing file would create an empty database.
		if _, err := os.Stat(src.DSN); errors.Is(err, fs.ErrNotExist) {
			return nil, nil, apperrors.NewValidationError("url", fmt.Sprintf("sqlite file %s does not exist", src.DSN))
		}
		db, err := database.OpenSQL(ctx, database.DriverSQLite, src.DSN)
		if err != nil {
			return nil, nil, apperrors.NewUpstreamError("database", err)
		}
		return repositories.NewSQLiteSchemaRepository(db), func() { _ = db.Close() }, nil
	}
	return nil, nil, apperrors.NewValidationError("url", fmt.Sprintf("unsupported driver %q", src.Driver))
}

// Import reads the database behind req.URL and replaces the session schema
// with it.
func (s *SchemaService) Import(ctx context.Context, sessionID string, req ImportRequest) (ImportResult, error) {
	session, err := s.sessions.Get(sessionID)
	if err != nil {
		return ImportResult{}, err
	}

	src, err := database.ParseSourceURL(req.URL)
	if err != nil {
		return ImportResult{}, err
	}

	ctx, cancel := context.WithTimeout(ctx, importTimeout)
	defer cancel()

	schema, err := s.read(ctx, src, req.Schema, req.Tables)
	if err != nil {
		return ImportResult{}, err
	}

	session.Replace(schema)
	session.PushMessage(models.RoleAgent, fmt.Sprintf("Imported %d tables and %d relations from %s.",
		len(schema.Tables), len(schema.Relations), src.Database))

	s.logger.Info("schema imported",
		zap.String("session_id", sessionID),
		zap.String("source", src.Redacted()),
		zap.Int("tables", len(schema.Tables)),
		zap.Int("relations", len(schema.Relations)),
	)
	return ImportResult{
		Source:    src.Redacted(),
		Tables:    len(schema.Tables),
		Relations: len(schema.Relations),
		Session:   session.Snapshot(),
	}, nil
}

// ReadSchema connects to src and converts what it finds. It is the import
// path without a session.
func (s *SchemaService) ReadSchema(ctx context.Context, src database.Source, schemaName string, only []string) (models.DatabaseSchema, error) {
	return s.read(ctx, src, schemaName, only)
}

func (s *SchemaService) read(ctx context.Context, src database.Source, schemaName string, only []string) (models.DatabaseSchema, error) {
	reader, closeFn, err := s.open(ctx, src)
	if err != nil {
		return models.DatabaseSchema{}, err
	}
	defer closeFn()

	infos, err := reader.ReadTables(ctx, schemaName)
	if err != nil {
		return models.DatabaseSchema{}, apperrors.NewUpstreamError("database", fmt.Errorf("failed to parse tables: %w", err))
	}
	return BuildSchema(infos, only), nil
}

// BuildSchema converts introspected tables into an editor schema. Every
// table gets a fresh id and columns keep their name and a simplified type.
// A foreign key becomes a relation from the referenced table to the table
// holding it, one-to-one when the key column is unique. Junction tables are
// not listed; they become many-to-many relations between the tables they
// join. When only is not empty, other tables are skipped.
func BuildSchema(infos []models.TableInfo, only []string) models.DatabaseSchema {
	if len(only) > 0 {
		kept := make([]models.TableInfo, 0, len(only))
		for _, t := range infos {
			if utils.Contains(only, t.Name) {
				kept = append(kept, t)
			}
		}
		infos = kept
	}

	junctionTables := detectJunctionTables(infos)
	schema := models.EmptySchema()
	ids := make(map[string]string, len(infos))

	for _, info := range infos {
		if junctionTables[info.Name] {
			continue
		}
		table := models.Table{
			TableID: utils.NewID(),
			Name:    info.Name,
			Columns: make([]models.Column, 0, len(info.Columns)),
		}
		for _, col := range info.Columns {
			table.Columns = append(table.Columns, models.Column{Name: col.Name, Type: simplifyDataType(col.DataType)})
		}
		ids[info.Name] = table.TableID
		schema.Tables = append(schema.Tables, table)
	}

	schema.Relations = editor.DedupeManyToMany(buildRelationships(infos, junctionTables, ids))
	return schema
}

func buildRelationships(infos []models.TableInfo, junctionTables map[string]bool, ids map[string]string) []models.Relation {
	var relations []models.Relation
	seen := make(map[string]bool)

	add := func(from, to string, typ models.RelationType) {
		fromID, ok := ids[from]
		if !ok {
			return
		}
		toID, ok := ids[to]
		if !ok {
			return
		}
		// Composite keys list one row per column.
		key := fmt.Sprintf("%s:%s:%s", from, typ, to)
		if seen[key] {
			return
		}
		seen[key] = true
		relations = append(relations, models.Relation{
			FromTable:   from,
			FromTableID: fromID,
			ToTable:     to,
			ToTableID:   toID,
			Type:        typ,
		})
	}

	for _, table := range infos {
		if junctionTables[table.Name] {
			for i := 0; i < len(table.ForeignKeys); i++ {
				for j := i + 1; j < len(table.ForeignKeys); j++ {
					add(table.ForeignKeys[i].ToTable, table.ForeignKeys[j].ToTable, models.ManyToMany)
				}
			}
			continue
		}

		for _, fk := range table.ForeignKeys {
			relType := models.OneToMany
			if isUniqueColumn(table, fk.FromColumn) {
				relType = models.OneToOne
			}
			add(fk.ToTable, table.Name, relType)
		}
	}
	return relations
}

func detectJunctionTables(tables []models.TableInfo) map[string]bool {
	junctionTables := make(map[string]bool)
	for _, table := range tables {
		// At least 2 FKs, and all FKs are part of the PK.
		if len(table.ForeignKeys) < minJunctionTableFKs ||
			len(table.PrimaryKeys) < minJunctionTableFKs ||
			len(table.Columns) > maxJunctionTableColumns {
			continue
		}

		allFKsInPK := true
		for _, fk := range table.ForeignKeys {
			if !utils.Contains(table.PrimaryKeys, fk.FromColumn) {
				allFKsInPK = false
				break
			}
		}
		fkCountInPK := 0
		for _, pk := range table.PrimaryKeys {
			if isForeignKey(table.ForeignKeys, pk) {
				fkCountInPK++
			}
		}
		if allFKsInPK && fkCountInPK >= minJunctionTableFKs {
			junctionTables[table.Name] = true
		}
	}
	return junctionTables
}

// isUniqueColumn reports whether col alone identifies a row: it carries a
// unique constraint or is the whole primary key.
func isUniqueColumn(table models.TableInfo, col string) bool {
	if utils.Contains(table.UniqueColumns, col) {
		return true
	}
	return len(table.PrimaryKeys) == 1 && table.PrimaryKeys[0] == col
}

func isForeignKey(fks []models.ForeignKey, colName string) bool {
	for _, fk := range fks {
		if fk.FromColumn == colName {
			return true
		}
	}
	return false
}

// simplifyDataType maps catalog type names to the short names used in the
// editor. Length and precision arguments are dropped.
func simplifyDataType(dataType string) string {
	dt := strings.ToLower(strings.TrimSpace(dataType))
	if i := strings.IndexByte(dt, '('); i > 0 {
		rest := ""
		if j := strings.IndexByte(dt[i:], ')'); j >= 0 {
			rest = dt[i+j+1:]
		}
		dt = strings.TrimSpace(dt[:i] + rest)
	}

	switch {
	case dt == "integer" || dt == "int" || dt == "int4":
		return "int"
	case dt == "bigint" || dt == "int8":
		return "bigint"
	case dt == "smallint" || dt == "int2":
		return "smallint"
	case strings.HasPrefix(dt, "character varying") || dt == "varchar":
		return "varchar"
	case strings.HasPrefix(dt, "character") || dt == "char":
		return "char"
	case dt == "text":
		return "text"
	case strings.HasPrefix(dt, "timestamp without time zone"):
		return "timestamp"
	case strings.HasPrefix(dt, "timestamp with time zone") || dt == "timestamptz":
		return "timestamptz"
	case strings.HasPrefix(dt, "time without time zone"):
		return "time"
	case dt == "date":
		return "date"
	case dt == "boolean" || dt == "bool":
		return "boolean"
	case strings.HasPrefix(dt, "numeric"):
		return "numeric"
	case strings.HasPrefix(dt, "decimal"):
		return "decimal"
	case dt == "real":
		return "real"
	case dt == "double precision" || dt == "double":
		return "double"
	case dt == "json":
		return "json"
	case dt == "jsonb":
		return "jsonb"
	case dt == "uuid":
		return "uuid"
	case dt == "bytea":
		return "bytea"
	case strings.HasPrefix(dt, "array"):
		return "array"
	default:
		return dt
	}
}
