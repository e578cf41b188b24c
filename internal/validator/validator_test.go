package validator

import (
	"testing"

	"github.com/chat2db/designer/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func table(id, name string, cols ...models.Column) models.Table {
	if cols == nil {
		cols = []models.Column{}
	}
	return models.Table{TableID: id, Name: name, Columns: cols}
}

func col(name, typ string) models.Column {
	return models.Column{Name: name, Type: typ}
}

func rel(from, to string, typ models.RelationType) models.Relation {
	return models.Relation{FromTable: from, FromTableID: from + "-id", ToTable: to, ToTableID: to + "-id", Type: typ}
}

func TestValidate_EmptySchema(t *testing.T) {
	msgs := Validate(models.EmptySchema())

	require.Len(t, msgs, 1)
	assert.Equal(t, "schema does not contain any tables", msgs[0])
	assert.False(t, IsExportable(models.EmptySchema()))
}

func TestValidate_ValidSchemaIsExportable(t *testing.T) {
	schema := models.DatabaseSchema{
		Tables: []models.Table{
			table("u", "users", col("id", "uuid"), col("email", "varchar(255)")),
			table("o", "orders", col("id", "uuid"), col("user_id", "uuid")),
		},
		Relations: []models.Relation{rel("users", "orders", models.OneToMany)},
	}

	assert.Empty(t, Validate(schema))
	assert.True(t, IsExportable(schema))
}

func TestValidate_DuplicateTables(t *testing.T) {
	tests := []struct {
		name  string
		names []string
		want  int
	}{
		{name: "pair", names: []string{"a", "a"}, want: 1},
		{name: "triple", names: []string{"a", "a", "a"}, want: 2},
		{name: "distinct", names: []string{"a", "b"}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var schema models.DatabaseSchema
			for i, n := range tt.names {
				schema.Tables = append(schema.Tables, table(string(rune('0'+i)), n, col("id", "int")))
			}

			count := 0
			for _, d := range Check(schema) {
				if d.Code == CodeDuplicateTable {
					count++
					assert.Equal(t, `duplicate table "a"`, d.Message)
				}
			}
			assert.Equal(t, tt.want, count)
		})
	}
}

func TestValidate_DuplicateColumnsAreDedupedAndGroupedAfterTableDiagnostics(t *testing.T) {
	schema := models.DatabaseSchema{
		Tables: []models.Table{
			table("t", "t", col("x", "int"), col("x", "int"), col("x", "")),
			table("e", "empty"),
		},
	}

	msgs := Validate(schema)

	require.Equal(t, []string{
		`column "x" in table "t" has no type`,
		`table "empty" has no columns`,
		`duplicate column "x" in table "t"`,
	}, msgs)
	assert.False(t, IsExportable(schema))
}

func TestValidate_DuplicateColumnsBeforeRelationDiagnostics(t *testing.T) {
	schema := models.DatabaseSchema{
		Tables:    []models.Table{table("t", "t", col("x", "int"), col("x", "int"))},
		Relations: []models.Relation{rel("t", "ghost", models.OneToMany)},
	}

	msgs := Validate(schema)

	require.Equal(t, []string{
		`duplicate column "x" in table "t"`,
		`relation points to unknown table "ghost"`,
	}, msgs)
}

func TestValidate_MissingTypeIsNotDeduplicated(t *testing.T) {
	schema := models.DatabaseSchema{
		Tables: []models.Table{table("t", "t", col("a", ""), col("a", ""))},
	}

	codes := []string{}
	for _, d := range Check(schema) {
		codes = append(codes, d.Code)
	}
	assert.Equal(t, []string{CodeMissingColumnType, CodeMissingColumnType, CodeDuplicateColumn}, codes)
}

func TestValidate_Relations(t *testing.T) {
	base := []models.Table{table("t", "t", col("id", "int"))}

	tests := []struct {
		name     string
		relation models.Relation
		want     []string
	}{
		{
			name:     "dangling source",
			relation: rel("ghost", "t", models.OneToMany),
			want:     []string{`relation starts at unknown table "ghost"`},
		},
		{
			name:     "dangling target",
			relation: rel("t", "ghost", models.OneToMany),
			want:     []string{`relation points to unknown table "ghost"`},
		},
		{
			name:     "both dangling and self",
			relation: rel("ghost", "ghost", models.OneToOne),
			want: []string{
				`relation starts at unknown table "ghost"`,
				`relation points to unknown table "ghost"`,
				`relation from table "ghost" to itself`,
			},
		},
		{
			name:     "self relation",
			relation: rel("t", "t", models.ManyToMany),
			want:     []string{`relation from table "t" to itself`},
		},
		{
			name:     "unknown type",
			relation: rel("t", "t", models.RelationType("one-to-few")),
			want: []string{
				`relation from table "t" to itself`,
				`unknown relation type "one-to-few"`,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			schema := models.DatabaseSchema{Tables: base, Relations: []models.Relation{tt.relation}}
			assert.Equal(t, tt.want, Validate(schema))
		})
	}
}

func TestCheck_SelfRelationIsWarning(t *testing.T) {
	schema := models.DatabaseSchema{
		Tables:    []models.Table{table("t", "t", col("id", "int"))},
		Relations: []models.Relation{rel("t", "t", models.OneToMany)},
	}

	diags := Check(schema)

	require.Len(t, diags, 1)
	assert.Equal(t, SeverityWarning, diags[0].Severity)
	assert.Equal(t, CodeSelfRelation, diags[0].Code)
	assert.False(t, IsExportable(schema), "warnings still block export")
}

func TestValidate_DoesNotMutateInput(t *testing.T) {
	schema := models.DatabaseSchema{
		Tables:    []models.Table{table("t", "t", col("x", "int"), col("x", ""))},
		Relations: []models.Relation{},
	}
	before := schema.Clone()

	_ = Validate(schema)

	assert.Equal(t, before, schema)
}
