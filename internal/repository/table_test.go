package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mathops/records-service/internal/schema"
)

type pair struct {
	A string
	B *int32
}

func pairTable() Table[pair] {
	return Table[pair]{
		Name:    schema.Table(schema.Legacy, "pair"),
		Columns: []Column{Required("a", ColString), Optional("b", ColInteger)},
		Key:     []string{"a"},
		FromRow: func(row Row) (pair, error) {
			rd := row.Reader()
			return pair{A: rd.RequireString("a"), B: rd.Int("b")}, rd.Err()
		},
		Values: func(p pair) []interface{} { return []interface{}{p.A, p.B} },
	}
}

func TestNewTable_Statements(t *testing.T) {
	tbl := NewTable(pairTable())

	assert.Equal(t, `INSERT INTO "pair" (a, b) VALUES ($1, $2)`, tbl.insertSQL.render(`"pair"`))
	assert.Equal(t, `DELETE FROM "pair" WHERE a = $1`, tbl.deleteSQL.render(`"pair"`))
	assert.Equal(t, `SELECT a, b FROM "pair"`, tbl.selectSQL.render(`"pair"`))
}

func TestNewTable_InvalidDescriptors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Table[pair])
	}{
		{"missing name", func(tb *Table[pair]) { tb.Name = schema.LogicalTable{} }},
		{"no key", func(tb *Table[pair]) { tb.Key = nil }},
		{"nullable key", func(tb *Table[pair]) { tb.Key = []string{"b"} }},
		{"unknown key", func(tb *Table[pair]) { tb.Key = []string{"c"} }},
		{"duplicate column", func(tb *Table[pair]) { tb.Columns = append(tb.Columns, Required("a", ColString)) }},
		{"no mapper", func(tb *Table[pair]) { tb.FromRow = nil }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tb := pairTable()
			tt.modify(&tb)
			assert.Panics(t, func() { NewTable(tb) })
		})
	}
}

func TestTable_SelectStatement(t *testing.T) {
	tbl := NewTable(pairTable())

	stmt, err := tbl.selectStatement(Query{
		Where:   []Filter{Eq("a", "x"), In("b", 1, 2, 3), IsNull("b")},
		OrderBy: []string{"b", "a"},
	})
	require.NoError(t, err)
	assert.Equal(t,
		`SELECT a, b FROM t WHERE a = $1 AND b IN ($2, $3, $4) AND b IS NULL ORDER BY b, a`,
		stmt.render("t"))

	stmt, err = tbl.selectStatement(Query{Where: []Filter{Gte("b", 1), Lte("b", 5)}})
	require.NoError(t, err)
	assert.Equal(t, `SELECT a, b FROM t WHERE b >= $1 AND b <= $2`, stmt.render("t"))

	_, err = tbl.selectStatement(Query{OrderBy: []string{"nope"}})
	assert.EqualError(t, err, "unknown column nope")
}

func TestTable_StatementShapesAreCached(t *testing.T) {
	tbl := NewTable(pairTable())

	first, err := tbl.selectStatement(Query{Where: []Filter{Eq("a", "x")}})
	require.NoError(t, err)
	second, err := tbl.selectStatement(Query{Where: []Filter{Eq("a", "y")}})
	require.NoError(t, err)
	assert.Equal(t, first, second)

	count := 0
	tbl.shapes.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	assert.Equal(t, 1, count)

	// A different IN arity is a different shape.
	_, err = tbl.selectStatement(Query{Where: []Filter{In("a", "x", "y")}})
	require.NoError(t, err)
	_, err = tbl.selectStatement(Query{Where: []Filter{In("a", "x")}})
	require.NoError(t, err)
	count = 0
	tbl.shapes.Range(func(_, _ interface{}) bool {
		count++
		return true
	})
	assert.Equal(t, 3, count)
}

func TestTable_UpdateStatement(t *testing.T) {
	tbl := NewTable(pairTable())

	stmt, err := tbl.updateStatement([]Assignment{Set("b", int32(4))})
	require.NoError(t, err)
	assert.Equal(t, `UPDATE t SET b = $1 WHERE a = $2`, stmt.render("t"))

	_, err = tbl.updateStatement(nil)
	assert.EqualError(t, err, "no columns to update")

	_, err = tbl.updateStatement([]Assignment{Set("a", "x")})
	assert.EqualError(t, err, "column a is part of the natural key")

	_, err = tbl.updateStatement([]Assignment{Set("b", 1), Set("b", 2)})
	assert.EqualError(t, err, "column b assigned twice")

	_, err = tbl.updateStatement([]Assignment{Set("zzz", 1)})
	assert.EqualError(t, err, "unknown column zzz")
}

func TestTable_BindKeyValues(t *testing.T) {
	tbl := NewTable(pairTable())

	key, err := tbl.bindKeyValues([]interface{}{"x"})
	require.NoError(t, err)
	assert.Equal(t, []interface{}{"x"}, key)

	_, err = tbl.bindKeyValues([]interface{}{"x", "y"})
	assert.EqualError(t, err, "key has 1 columns, got 2 values")

	_, err = tbl.bindKeyValues([]interface{}{1})
	assert.Error(t, err)
}

func TestDescriptors_AreValid(t *testing.T) {
	// Package-level descriptors panic at init when invalid; touching them
	// here documents the expected natural keys.
	assert.Equal(t, []string{"serial_nbr", "version", "stu_id"}, studentExamTable.Key)
	assert.Equal(t, []string{"version", "stu_id", "exam_dt", "finish_time"}, placementAttemptTable.Key)
	assert.Equal(t, []string{"stu_id", "version", "exam_dt", "finish_time", "question_nbr"}, placementAnswerTable.Key)
	assert.Equal(t, []string{"serial_nbr", "question_nbr", "answer_nbr"}, homeworkAnswerTable.Key)
	assert.Equal(t, []string{"stu_id", "when_started"}, visitTable.Key)
	assert.Equal(t, schema.Main, facilityTable.Name.Schema)
	assert.Len(t, parametersTable.Columns, 11)
}
