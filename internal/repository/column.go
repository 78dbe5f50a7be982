package repository

import (
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
)

// ColumnType is the storage type of a column. Values are never converted
// between types; only integer widths within the integer family are widened
// or narrowed when they fit.
type ColumnType int

const (
	ColString ColumnType = iota + 1
	ColInteger
	ColLong
	ColFloat
	ColDate
	ColDateTime
)

// String implements fmt.Stringer.
func (t ColumnType) String() string {
	switch t {
	case ColString:
		return "string"
	case ColInteger:
		return "integer"
	case ColLong:
		return "long"
	case ColFloat:
		return "float"
	case ColDate:
		return "date"
	case ColDateTime:
		return "datetime"
	default:
		return fmt.Sprintf("ColumnType(%d)", int(t))
	}
}

// Column describes one column of a table.
type Column struct {
	Name     string
	Type     ColumnType
	Nullable bool
}

// Required declares a mandatory column.
func Required(name string, t ColumnType) Column {
	return Column{Name: name, Type: t}
}

// Optional declares a nullable column.
func Optional(name string, t ColumnType) Column {
	return Column{Name: name, Type: t, Nullable: true}
}

// bind converts v into the driver value for column c. Typed nil pointers and
// an untyped nil bind as SQL NULL and are rejected for mandatory columns.
func (c Column) bind(v interface{}) (interface{}, error) {
	v, isNull := deref(v)
	if isNull {
		if !c.Nullable {
			return nil, fmt.Errorf("column %s is not nullable", c.Name)
		}
		return nil, nil
	}
	return c.convert(v)
}

// bindFilter converts a filter operand. NULL is never a valid operand; use
// IsNull instead.
func (c Column) bindFilter(v interface{}) (interface{}, error) {
	v, isNull := deref(v)
	if isNull {
		return nil, fmt.Errorf("column %s: NULL operand, use IsNull", c.Name)
	}
	return c.convert(v)
}

func (c Column) convert(v interface{}) (interface{}, error) {
	switch c.Type {
	case ColString:
		if s, ok := v.(string); ok {
			return s, nil
		}
	case ColInteger:
		if n, ok := integerValue(v); ok {
			if n < math.MinInt32 || n > math.MaxInt32 {
				return nil, fmt.Errorf("column %s: %d overflows integer", c.Name, n)
			}
			return int32(n), nil
		}
	case ColLong:
		if n, ok := integerValue(v); ok {
			return n, nil
		}
	case ColFloat:
		switch f := v.(type) {
		case float64:
			return f, nil
		case float32:
			return float64(f), nil
		}
	case ColDate:
		if d, ok := v.(civil.Date); ok {
			if !d.IsValid() {
				return nil, fmt.Errorf("column %s: invalid date %v", c.Name, d)
			}
			return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC), nil
		}
	case ColDateTime:
		if dt, ok := v.(civil.DateTime); ok {
			if !dt.IsValid() {
				return nil, fmt.Errorf("column %s: invalid datetime %v", c.Name, dt)
			}
			return dt.In(time.UTC), nil
		}
	}
	return nil, fmt.Errorf("column %s: cannot bind %T as %s", c.Name, v, c.Type)
}

func deref(v interface{}) (interface{}, bool) {
	switch p := v.(type) {
	case nil:
		return nil, true
	case *string:
		if p == nil {
			return nil, true
		}
		return *p, false
	case *int32:
		if p == nil {
			return nil, true
		}
		return *p, false
	case *int64:
		if p == nil {
			return nil, true
		}
		return *p, false
	case *float64:
		if p == nil {
			return nil, true
		}
		return *p, false
	case *civil.Date:
		if p == nil {
			return nil, true
		}
		return *p, false
	case *civil.DateTime:
		if p == nil {
			return nil, true
		}
		return *p, false
	}
	return v, false
}

func integerValue(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int16:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	}
	return 0, false
}
