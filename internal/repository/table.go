package repository

import (
	"fmt"
	"strings"
	"sync"

	"github.com/mathops/records-service/internal/schema"
)

// Table describes how a record type is stored: the logical table, its ordered
// columns, the natural key and the two mapping functions.
type Table[T any] struct {
	// Name is resolved to a physical table name on every statement.
	Name schema.LogicalTable
	// Columns lists every column in bind order.
	Columns []Column
	// Key names the natural-key columns, in the order DeleteByKey expects.
	Key []string
	// FromRow maps a result row to a record. It must read every column.
	FromRow func(Row) (T, error)
	// Values returns one value per column, in Columns order. Nullable
	// columns take pointers; a nil pointer binds NULL.
	Values func(T) []interface{}

	columns  map[string]int
	keyIndex []int
	isKey    map[string]bool

	insertSQL stmtTemplate
	deleteSQL stmtTemplate
	selectSQL stmtTemplate

	// shapes caches statements built from filters and assignments.
	shapes *sync.Map
}

// stmtTemplate is a statement with a hole for the physical table name.
type stmtTemplate struct {
	head, tail string
}

func (s stmtTemplate) render(table string) string {
	return s.head + table + s.tail
}

// NewTable validates a descriptor and builds its fixed statements. It panics
// on an invalid descriptor; descriptors are package-level values.
func NewTable[T any](t Table[T]) *Table[T] {
	if err := t.compile(); err != nil {
		panic(fmt.Sprintf("repository: table %s: %v", t.Name, err))
	}
	return &t
}

func (t *Table[T]) compile() error {
	if t.Name.Name == "" {
		return fmt.Errorf("table name is required")
	}
	if len(t.Columns) == 0 {
		return fmt.Errorf("no columns")
	}
	if len(t.Key) == 0 {
		return fmt.Errorf("no key columns")
	}
	if t.FromRow == nil || t.Values == nil {
		return fmt.Errorf("FromRow and Values are required")
	}

	t.shapes = &sync.Map{}
	t.columns = make(map[string]int, len(t.Columns))
	names := make([]string, len(t.Columns))
	placeholders := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		if _, dup := t.columns[c.Name]; dup {
			return fmt.Errorf("duplicate column %s", c.Name)
		}
		t.columns[c.Name] = i
		names[i] = c.Name
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	t.isKey = make(map[string]bool, len(t.Key))
	t.keyIndex = make([]int, len(t.Key))
	keyPredicates := make([]string, len(t.Key))
	for i, k := range t.Key {
		idx, ok := t.columns[k]
		if !ok {
			return fmt.Errorf("key column %s is not a column", k)
		}
		if t.Columns[idx].Nullable {
			return fmt.Errorf("key column %s is nullable", k)
		}
		t.isKey[k] = true
		t.keyIndex[i] = idx
		keyPredicates[i] = fmt.Sprintf("%s = $%d", k, i+1)
	}

	columnList := strings.Join(names, ", ")
	t.insertSQL = stmtTemplate{
		head: "INSERT INTO ",
		tail: fmt.Sprintf(" (%s) VALUES (%s)", columnList, strings.Join(placeholders, ", ")),
	}
	t.deleteSQL = stmtTemplate{
		head: "DELETE FROM ",
		tail: " WHERE " + strings.Join(keyPredicates, " AND "),
	}
	t.selectSQL = stmtTemplate{
		head: "SELECT " + columnList + " FROM ",
	}
	return nil
}

func (t *Table[T]) column(name string) (Column, error) {
	i, ok := t.columns[name]
	if !ok {
		return Column{}, fmt.Errorf("unknown column %s", name)
	}
	return t.Columns[i], nil
}

// bindRecord validates and converts every column value of rec.
func (t *Table[T]) bindRecord(rec T) ([]interface{}, error) {
	values := t.Values(rec)
	if len(values) != len(t.Columns) {
		return nil, fmt.Errorf("record maps to %d values, table has %d columns", len(values), len(t.Columns))
	}
	args := make([]interface{}, len(values))
	for i, v := range values {
		a, err := t.Columns[i].bind(v)
		if err != nil {
			return nil, err
		}
		args[i] = a
	}
	return args, nil
}

// bindKey converts the natural-key values of rec.
func (t *Table[T]) bindKey(rec T) ([]interface{}, error) {
	values := t.Values(rec)
	if len(values) != len(t.Columns) {
		return nil, fmt.Errorf("record maps to %d values, table has %d columns", len(values), len(t.Columns))
	}
	key := make([]interface{}, len(t.keyIndex))
	for i, idx := range t.keyIndex {
		k, err := t.Columns[idx].bind(values[idx])
		if err != nil {
			return nil, err
		}
		key[i] = k
	}
	return key, nil
}

// bindKeyValues converts positional key values.
func (t *Table[T]) bindKeyValues(values []interface{}) ([]interface{}, error) {
	if len(values) != len(t.keyIndex) {
		return nil, fmt.Errorf("key has %d columns, got %d values", len(t.keyIndex), len(values))
	}
	key := make([]interface{}, len(values))
	for i, idx := range t.keyIndex {
		k, err := t.Columns[idx].bind(values[i])
		if err != nil {
			return nil, err
		}
		key[i] = k
	}
	return key, nil
}

// shape returns the cached statement for key, building it on first use.
func (t *Table[T]) shape(key string, build func() stmtTemplate) stmtTemplate {
	if s, ok := t.shapes.Load(key); ok {
		return s.(stmtTemplate)
	}
	s, _ := t.shapes.LoadOrStore(key, build())
	return s.(stmtTemplate)
}
