// Package editor holds the schema editing operations and the editing
// session that applies them.
//
// The operations are pure: each takes a schema and returns a new one,
// leaving its input untouched. Relations are matched by table id; the
// from_table and to_table names are a display cache refreshed on rename.
package editor

import (
	"fmt"
	"strings"

	"github.com/chat2db/designer/internal/apperrors"
	"github.com/chat2db/designer/internal/models"
	"github.com/chat2db/designer/internal/utils"
)

const (
	DefaultColumnName = "id"
	DefaultColumnType = "uuid"
	// NewColumnType is the type given to a column added without one.
	NewColumnType = "varchar"
)

// NewColumn is the blank row the table form appends.
func NewColumn() models.Column {
	return models.Column{Name: "", Type: NewColumnType}
}

// AddTable appends a table named table_N, N being the table count plus one.
// The name is not checked against existing names.
func AddTable(s models.DatabaseSchema) (models.DatabaseSchema, models.Table) {
	out := s.Clone()
	t := models.Table{
		TableID: utils.NewID(),
		Name:    fmt.Sprintf("table_%d", len(s.Tables)+1),
		Columns: []models.Column{{Name: DefaultColumnName, Type: DefaultColumnType}},
	}
	out.Tables = append(out.Tables, t)
	return out, t.Clone()
}

// RenameTable renames every table called oldName. Relation endpoints that
// point at a renamed table, by id or by cached name, take the new name;
// ids never change.
func RenameTable(s models.DatabaseSchema, oldName, newName string) (models.DatabaseSchema, error) {
	newName = strings.TrimSpace(newName)
	if newName == "" {
		return s, apperrors.NewValidationError("name", "table name must not be empty")
	}

	out := s.Clone()
	renamed := make(map[string]struct{})
	for i := range out.Tables {
		if out.Tables[i].Name == oldName {
			out.Tables[i].Name = newName
			renamed[out.Tables[i].TableID] = struct{}{}
		}
	}
	if len(renamed) == 0 {
		return s, apperrors.NewNotFoundError("table", oldName)
	}

	for i := range out.Relations {
		r := &out.Relations[i]
		if _, ok := renamed[r.FromTableID]; ok || r.FromTable == oldName {
			r.FromTable = newName
		}
		if _, ok := renamed[r.ToTableID]; ok || r.ToTable == oldName {
			r.ToTable = newName
		}
	}
	return out, nil
}

// DeleteTable removes every table called name together with each relation
// that touches it, either by cached name or by id.
func DeleteTable(s models.DatabaseSchema, name string) (models.DatabaseSchema, error) {
	out := models.DatabaseSchema{
		Tables:    make([]models.Table, 0, len(s.Tables)),
		Relations: make([]models.Relation, 0, len(s.Relations)),
	}
	removed := make(map[string]struct{})
	for _, t := range s.Tables {
		if t.Name == name {
			removed[t.TableID] = struct{}{}
			continue
		}
		out.Tables = append(out.Tables, t.Clone())
	}
	if len(removed) == 0 {
		return s, apperrors.NewNotFoundError("table", name)
	}

	for _, r := range s.Relations {
		_, fromGone := removed[r.FromTableID]
		_, toGone := removed[r.ToTableID]
		if fromGone || toGone || r.FromTable == name || r.ToTable == name {
			continue
		}
		out.Relations = append(out.Relations, r)
	}
	return out, nil
}

// UpdateTable replaces the columns of every table called t.Name. Table ids
// are kept.
func UpdateTable(s models.DatabaseSchema, t models.Table) (models.DatabaseSchema, error) {
	out := s.Clone()
	found := false
	for i := range out.Tables {
		if out.Tables[i].Name != t.Name {
			continue
		}
		cols := make([]models.Column, len(t.Columns))
		copy(cols, t.Columns)
		out.Tables[i].Columns = cols
		found = true
	}
	if !found {
		return s, apperrors.NewNotFoundError("table", t.Name)
	}
	return out, nil
}

// AddColumn appends col to the first table called table. An untyped column
// gets NewColumnType.
func AddColumn(s models.DatabaseSchema, table string, col models.Column) (models.DatabaseSchema, error) {
	if col.Type == "" {
		col.Type = NewColumnType
	}
	return withTable(s, table, func(t *models.Table) error {
		t.Columns = append(t.Columns, col)
		return nil
	})
}

// EditColumn overwrites the column at index.
func EditColumn(s models.DatabaseSchema, table string, index int, col models.Column) (models.DatabaseSchema, error) {
	return withTable(s, table, func(t *models.Table) error {
		if err := checkIndex(index, len(t.Columns)); err != nil {
			return err
		}
		t.Columns[index] = col
		return nil
	})
}

func RemoveColumn(s models.DatabaseSchema, table string, index int) (models.DatabaseSchema, error) {
	return withTable(s, table, func(t *models.Table) error {
		if err := checkIndex(index, len(t.Columns)); err != nil {
			return err
		}
		t.Columns = append(t.Columns[:index], t.Columns[index+1:]...)
		return nil
	})
}

func withTable(s models.DatabaseSchema, name string, fn func(t *models.Table) error) (models.DatabaseSchema, error) {
	out := s.Clone()
	for i := range out.Tables {
		if out.Tables[i].Name == name {
			if err := fn(&out.Tables[i]); err != nil {
				return s, err
			}
			return out, nil
		}
	}
	return s, apperrors.NewNotFoundError("table", name)
}

func checkIndex(index, n int) error {
	if index < 0 || index >= n {
		return apperrors.NewValidationError("index", fmt.Sprintf("column index %d out of range [0,%d)", index, n))
	}
	return nil
}

// SaveRelation resolves both endpoint ids of draft and stores the relation,
// replacing the one at *index or appending when index is nil. Names are
// taken from the resolved tables.
//
// When an id does not resolve, or index is out of range, the schema is
// returned unchanged and applied is false. Callers get no error for this.
func SaveRelation(s models.DatabaseSchema, draft models.Relation, index *int) (out models.DatabaseSchema, applied bool) {
	from, ok := s.TableByID(draft.FromTableID)
	if !ok {
		return s, false
	}
	to, ok := s.TableByID(draft.ToTableID)
	if !ok {
		return s, false
	}
	if index != nil && (*index < 0 || *index >= len(s.Relations)) {
		return s, false
	}

	rel := models.Relation{
		FromTable:   from.Name,
		FromTableID: from.TableID,
		ToTable:     to.Name,
		ToTableID:   to.TableID,
		Type:        draft.Type,
	}
	out = s.Clone()
	if index == nil {
		out.Relations = append(out.Relations, rel)
	} else {
		out.Relations[*index] = rel
	}
	return out, true
}

// RemoveRelation drops the relation at index. An out of range index leaves
// the schema unchanged.
func RemoveRelation(s models.DatabaseSchema, index int) (models.DatabaseSchema, bool) {
	if index < 0 || index >= len(s.Relations) {
		return s, false
	}
	out := s.Clone()
	out.Relations = append(out.Relations[:index], out.Relations[index+1:]...)
	return out, true
}

// DedupeManyToMany keeps the first many-to-many relation per unordered pair
// of tables. Other relation kinds pass through.
func DedupeManyToMany(relations []models.Relation) []models.Relation {
	seen := make(map[[2]string]struct{})
	out := make([]models.Relation, 0, len(relations))
	for _, r := range relations {
		if r.Type == models.ManyToMany {
			a, b := endpointKey(r.FromTableID, r.FromTable), endpointKey(r.ToTableID, r.ToTable)
			if b < a {
				a, b = b, a
			}
			key := [2]string{a, b}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
		}
		out = append(out, r)
	}
	return out
}

func endpointKey(id, name string) string {
	if id != "" {
		return id
	}
	return "name:" + name
}
