// Package validator reports structural problems of a database schema.
//
// Validation never fails: every problem, including malformed input such as
// an unknown relation type, is returned as a diagnostic. A schema is ready
// for SQL export only when there are no diagnostics at all and it has at
// least one table.
package validator

import (
	"fmt"

	"github.com/chat2db/designer/internal/models"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

const (
	CodeNoTables          = "no_tables"
	CodeDuplicateTable    = "duplicate_table"
	CodeEmptyTable        = "empty_table"
	CodeMissingColumnType = "missing_column_type"
	CodeDuplicateColumn   = "duplicate_column"
	CodeUnknownSource     = "unknown_source_table"
	CodeUnknownTarget     = "unknown_target_table"
	CodeSelfRelation      = "self_relation"
	CodeUnknownRelation   = "unknown_relation_type"
)

type Diagnostic struct {
	Code     string   `json:"code"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Check runs every rule and returns the diagnostics in report order.
// Duplicate column diagnostics are grouped after all table and column
// diagnostics, before relation diagnostics.
func Check(schema models.DatabaseSchema) []Diagnostic {
	var diags []Diagnostic

	if len(schema.Tables) == 0 {
		diags = append(diags, errorf(CodeNoTables, "schema does not contain any tables"))
	}

	tableNames := make(map[string]struct{}, len(schema.Tables))
	dupColumns := newOrderedSet()

	for _, table := range schema.Tables {
		if _, seen := tableNames[table.Name]; seen {
			diags = append(diags, errorf(CodeDuplicateTable, "duplicate table %q", table.Name))
		}
		tableNames[table.Name] = struct{}{}

		if len(table.Columns) == 0 {
			diags = append(diags, warnf(CodeEmptyTable, "table %q has no columns", table.Name))
		}

		columnNames := make(map[string]struct{}, len(table.Columns))
		for _, col := range table.Columns {
			if _, seen := columnNames[col.Name]; seen {
				dupColumns.add(fmt.Sprintf("duplicate column %q in table %q", col.Name, table.Name))
			}
			columnNames[col.Name] = struct{}{}

			if col.Type == "" {
				diags = append(diags, errorf(CodeMissingColumnType, "column %q in table %q has no type", col.Name, table.Name))
			}
		}
	}

	for _, msg := range dupColumns.items {
		diags = append(diags, Diagnostic{Code: CodeDuplicateColumn, Severity: SeverityError, Message: msg})
	}

	for _, rel := range schema.Relations {
		if _, ok := tableNames[rel.FromTable]; !ok {
			diags = append(diags, errorf(CodeUnknownSource, "relation starts at unknown table %q", rel.FromTable))
		}
		if _, ok := tableNames[rel.ToTable]; !ok {
			diags = append(diags, errorf(CodeUnknownTarget, "relation points to unknown table %q", rel.ToTable))
		}
		if rel.FromTable == rel.ToTable {
			diags = append(diags, warnf(CodeSelfRelation, "relation from table %q to itself", rel.FromTable))
		}
		if !rel.Type.Valid() {
			diags = append(diags, errorf(CodeUnknownRelation, "unknown relation type %q", string(rel.Type)))
		}
	}

	return diags
}

// Validate returns the diagnostic messages of Check. An empty result means
// the schema is valid.
func Validate(schema models.DatabaseSchema) []string {
	diags := Check(schema)
	messages := make([]string, 0, len(diags))
	for _, d := range diags {
		messages = append(messages, d.Message)
	}
	return messages
}

// IsExportable gates SQL export.
func IsExportable(schema models.DatabaseSchema) bool {
	return len(schema.Tables) > 0 && len(Check(schema)) == 0
}

func errorf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityError, Message: fmt.Sprintf(format, args...)}
}

func warnf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Severity: SeverityWarning, Message: fmt.Sprintf(format, args...)}
}

// orderedSet keeps the first-insertion order of distinct strings.
type orderedSet struct {
	seen  map[string]struct{}
	items []string
}

func newOrderedSet() *orderedSet {
	return &orderedSet{seen: make(map[string]struct{})}
}

func (s *orderedSet) add(v string) {
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.items = append(s.items, v)
}
