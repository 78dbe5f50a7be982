package repository

import (
	"fmt"
	"strings"
)

type filterOp int

const (
	opEq filterOp = iota
	opGte
	opLte
	opIn
	opIsNull
)

// Filter is one predicate of a WHERE clause. Predicates are AND-combined and
// every operand is bound as a parameter.
type Filter struct {
	column string
	op     filterOp
	values []interface{}
}

// Eq matches rows whose column equals v.
func Eq(column string, v interface{}) Filter {
	return Filter{column: column, op: opEq, values: []interface{}{v}}
}

// Gte matches rows whose column is greater than or equal to v.
func Gte(column string, v interface{}) Filter {
	return Filter{column: column, op: opGte, values: []interface{}{v}}
}

// Lte matches rows whose column is less than or equal to v.
func Lte(column string, v interface{}) Filter {
	return Filter{column: column, op: opLte, values: []interface{}{v}}
}

// In matches rows whose column equals any of vs. An empty list matches
// nothing.
func In(column string, vs ...interface{}) Filter {
	return Filter{column: column, op: opIn, values: vs}
}

// InStrings is In for a string slice.
func InStrings(column string, vs []string) Filter {
	values := make([]interface{}, len(vs))
	for i, v := range vs {
		values[i] = v
	}
	return In(column, values...)
}

// IsNull matches rows whose column is NULL.
func IsNull(column string) Filter {
	return Filter{column: column, op: opIsNull}
}

// shapeKey identifies the SQL produced by the filter, independent of the
// operand values.
func (f Filter) shapeKey() string {
	switch f.op {
	case opEq:
		return f.column + "="
	case opGte:
		return f.column + ">="
	case opLte:
		return f.column + "<="
	case opIn:
		return fmt.Sprintf("%s:in%d", f.column, len(f.values))
	default:
		return f.column + ":null"
	}
}

// sql renders the predicate, numbering placeholders from next.
func (f Filter) sql(next int) (string, int) {
	switch f.op {
	case opEq:
		return fmt.Sprintf("%s = $%d", f.column, next), next + 1
	case opGte:
		return fmt.Sprintf("%s >= $%d", f.column, next), next + 1
	case opLte:
		return fmt.Sprintf("%s <= $%d", f.column, next), next + 1
	case opIn:
		ph := make([]string, len(f.values))
		for i := range f.values {
			ph[i] = fmt.Sprintf("$%d", next+i)
		}
		return fmt.Sprintf("%s IN (%s)", f.column, strings.Join(ph, ", ")), next + len(f.values)
	default:
		return f.column + " IS NULL", next
	}
}

// matchesNothing reports whether the filter can match no row.
func (f Filter) matchesNothing() bool {
	return f.op == opIn && len(f.values) == 0
}

// Query selects rows by filters with an optional ordering.
type Query struct {
	Where   []Filter
	OrderBy []string
}

// Assignment sets one column in an UPDATE.
type Assignment struct {
	column string
	value  interface{}
}

// Set assigns v to column.
func Set(column string, v interface{}) Assignment {
	return Assignment{column: column, value: v}
}

// bindFilters checks every filter column and converts operands.
func (t *Table[T]) bindFilters(filters []Filter) ([]interface{}, error) {
	var args []interface{}
	for _, f := range filters {
		c, err := t.column(f.column)
		if err != nil {
			return nil, err
		}
		for _, v := range f.values {
			a, err := c.bindFilter(v)
			if err != nil {
				return nil, err
			}
			args = append(args, a)
		}
	}
	return args, nil
}

func whereClause(filters []Filter, next int) string {
	if len(filters) == 0 {
		return ""
	}
	preds := make([]string, len(filters))
	for i, f := range filters {
		preds[i], next = f.sql(next)
	}
	return " WHERE " + strings.Join(preds, " AND ")
}

func filtersKey(filters []Filter) string {
	parts := make([]string, len(filters))
	for i, f := range filters {
		parts[i] = f.shapeKey()
	}
	return strings.Join(parts, "&")
}

func (t *Table[T]) selectStatement(q Query) (stmtTemplate, error) {
	for _, col := range q.OrderBy {
		if _, err := t.column(col); err != nil {
			return stmtTemplate{}, err
		}
	}
	key := "select:" + filtersKey(q.Where) + ":order:" + strings.Join(q.OrderBy, ",")
	return t.shape(key, func() stmtTemplate {
		tail := whereClause(q.Where, 1)
		if len(q.OrderBy) > 0 {
			tail += " ORDER BY " + strings.Join(q.OrderBy, ", ")
		}
		return stmtTemplate{head: t.selectSQL.head, tail: tail}
	}), nil
}

func (t *Table[T]) deleteWhereStatement(filters []Filter) stmtTemplate {
	return t.shape("delete:"+filtersKey(filters), func() stmtTemplate {
		return stmtTemplate{head: "DELETE FROM ", tail: whereClause(filters, 1)}
	})
}

// updateStatement builds UPDATE ... SET for the assigned columns, keyed by
// the natural key. Key columns cannot be assigned.
func (t *Table[T]) updateStatement(sets []Assignment) (stmtTemplate, error) {
	if len(sets) == 0 {
		return stmtTemplate{}, fmt.Errorf("no columns to update")
	}
	cols := make([]string, len(sets))
	seen := make(map[string]bool, len(sets))
	for i, s := range sets {
		if _, err := t.column(s.column); err != nil {
			return stmtTemplate{}, err
		}
		if t.isKey[s.column] {
			return stmtTemplate{}, fmt.Errorf("column %s is part of the natural key", s.column)
		}
		if seen[s.column] {
			return stmtTemplate{}, fmt.Errorf("column %s assigned twice", s.column)
		}
		seen[s.column] = true
		cols[i] = s.column
	}

	return t.shape("update:"+strings.Join(cols, ","), func() stmtTemplate {
		assigns := make([]string, len(cols))
		for i, c := range cols {
			assigns[i] = fmt.Sprintf("%s = $%d", c, i+1)
		}
		keys := make([]string, len(t.Key))
		for i, k := range t.Key {
			keys[i] = fmt.Sprintf("%s = $%d", k, len(cols)+i+1)
		}
		return stmtTemplate{
			head: "UPDATE ",
			tail: " SET " + strings.Join(assigns, ", ") + " WHERE " + strings.Join(keys, " AND "),
		}
	}), nil
}
