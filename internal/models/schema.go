package models

import "slices"

// RelationType is the cardinality of a relation between two tables.
type RelationType string

const (
	OneToOne   RelationType = "one-to-one"
	OneToMany  RelationType = "one-to-many"
	ManyToMany RelationType = "many-to-many"
)

// RelationTypes lists the accepted relation kinds in display order.
var RelationTypes = []RelationType{OneToOne, OneToMany, ManyToMany}

// Valid reports whether t is one of the enumerated relation kinds.
func (t RelationType) Valid() bool {
	return slices.Contains(RelationTypes, t)
}

type Column struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

// Table is owned by a schema. TableID is generated once and never changes;
// Name is display only.
type Table struct {
	TableID string   `json:"table_id"`
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Relation references its endpoints by id. FromTable and ToTable are a
// display cache kept in sync on rename.
type Relation struct {
	FromTable   string       `json:"from_table"`
	FromTableID string       `json:"from_table_id"`
	ToTable     string       `json:"to_table"`
	ToTableID   string       `json:"to_table_id"`
	Type        RelationType `json:"type"`
}

type DatabaseSchema struct {
	Tables    []Table    `json:"tables"`
	Relations []Relation `json:"relations"`
}

// EmptySchema returns the initial schema with no tables and no relations.
func EmptySchema() DatabaseSchema {
	return DatabaseSchema{
		Tables:    []Table{},
		Relations: []Relation{},
	}
}

// Clone returns a deep copy. Nil slices come back empty so the JSON form is
// always an array.
func (s DatabaseSchema) Clone() DatabaseSchema {
	out := DatabaseSchema{
		Tables:    make([]Table, len(s.Tables)),
		Relations: make([]Relation, len(s.Relations)),
	}
	for i, t := range s.Tables {
		out.Tables[i] = t.Clone()
	}
	copy(out.Relations, s.Relations)
	return out
}

func (t Table) Clone() Table {
	cols := make([]Column, len(t.Columns))
	copy(cols, t.Columns)
	t.Columns = cols
	return t
}

// TableByID returns the first table with the given id.
func (s DatabaseSchema) TableByID(id string) (Table, bool) {
	for _, t := range s.Tables {
		if t.TableID == id {
			return t, true
		}
	}
	return Table{}, false
}

// TableByName returns the first table with the given name.
func (s DatabaseSchema) TableByName(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

const (
	RoleUser  = "user"
	RoleAgent = "agent"
)

// Message is one entry of the chat log exchanged with the agent service.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ColumnInfo is a column read from a live database.
type ColumnInfo struct {
	Name     string
	DataType string
	Nullable bool
}

type ForeignKey struct {
	ConstraintName string
	FromColumn     string
	ToTable        string
	ToColumn       string
}

// TableInfo is a table read from a live database, before it is turned into
// an editor Table.
type TableInfo struct {
	Name          string
	Columns       []ColumnInfo
	PrimaryKeys   []string
	ForeignKeys   []ForeignKey
	UniqueColumns []string
}
