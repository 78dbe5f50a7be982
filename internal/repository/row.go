package repository

import (
	"fmt"
	"math"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
)

// Row gives access to the columns of one result row by name. Accessors
// return nil for SQL NULL and an error when the column is missing from the
// result or holds a value of another type.
type Row struct {
	index   map[string]int
	varying map[int]bool
	values  []interface{}
}

// columnIndex maps the result's column names to their positions and marks
// the positions whose type is VARCHAR or TEXT.
func columnIndex(fields []pgconn.FieldDescription) (map[string]int, map[int]bool) {
	index := make(map[string]int, len(fields))
	varying := make(map[int]bool)
	for i, f := range fields {
		index[f.Name] = i
		if f.DataTypeOID == pgtype.VarcharOID || f.DataTypeOID == pgtype.TextOID {
			varying[i] = true
		}
	}
	return index, varying
}

func (r Row) value(name string) (interface{}, error) {
	i, ok := r.index[name]
	if !ok || i >= len(r.values) {
		return nil, fmt.Errorf("column %s not in result", name)
	}
	return r.values[i], nil
}

func mismatch(name string, v interface{}, want ColumnType) error {
	return fmt.Errorf("column %s: cannot read %T as %s", name, v, want)
}

// String reads a character column. Trailing blanks are removed unless the
// column is VARCHAR or TEXT, since CHAR(n) columns pad to their width.
func (r Row) String(name string) (*string, error) {
	v, err := r.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	s, ok := v.(string)
	if !ok {
		return nil, mismatch(name, v, ColString)
	}
	if !r.varying[r.index[name]] {
		s = strings.TrimRight(s, " ")
	}
	return &s, nil
}

// Int reads a 32-bit integer column.
func (r Row) Int(name string) (*int32, error) {
	v, err := r.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	n, ok := integerValue(v)
	if !ok {
		return nil, mismatch(name, v, ColInteger)
	}
	if n < math.MinInt32 || n > math.MaxInt32 {
		return nil, fmt.Errorf("column %s: %d overflows integer", name, n)
	}
	i := int32(n)
	return &i, nil
}

// Long reads a 64-bit integer column.
func (r Row) Long(name string) (*int64, error) {
	v, err := r.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	n, ok := integerValue(v)
	if !ok {
		return nil, mismatch(name, v, ColLong)
	}
	return &n, nil
}

// Float reads a floating point column.
func (r Row) Float(name string) (*float64, error) {
	v, err := r.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	default:
		return nil, mismatch(name, v, ColFloat)
	}
	return &f, nil
}

// Date reads a date column.
func (r Row) Date(name string) (*civil.Date, error) {
	v, err := r.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	var d civil.Date
	switch x := v.(type) {
	case time.Time:
		d = civil.DateOf(x)
	case civil.Date:
		d = x
	default:
		return nil, mismatch(name, v, ColDate)
	}
	return &d, nil
}

// DateTime reads a timestamp column. The wall clock reported by the driver
// is kept as is.
func (r Row) DateTime(name string) (*civil.DateTime, error) {
	v, err := r.value(name)
	if err != nil || v == nil {
		return nil, err
	}
	var dt civil.DateTime
	switch x := v.(type) {
	case time.Time:
		dt = civil.DateTimeOf(x)
	case civil.DateTime:
		dt = x
	default:
		return nil, mismatch(name, v, ColDateTime)
	}
	return &dt, nil
}

func required[T any](name string, p *T, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if p == nil {
		return zero, fmt.Errorf("column %s is NULL", name)
	}
	return *p, nil
}

// RequireString reads a mandatory character column.
func (r Row) RequireString(name string) (string, error) {
	p, err := r.String(name)
	return required(name, p, err)
}

// RequireInt reads a mandatory 32-bit integer column.
func (r Row) RequireInt(name string) (int32, error) {
	p, err := r.Int(name)
	return required(name, p, err)
}

// RequireLong reads a mandatory 64-bit integer column.
func (r Row) RequireLong(name string) (int64, error) {
	p, err := r.Long(name)
	return required(name, p, err)
}

// RequireFloat reads a mandatory floating point column.
func (r Row) RequireFloat(name string) (float64, error) {
	p, err := r.Float(name)
	return required(name, p, err)
}

// RequireDate reads a mandatory date column.
func (r Row) RequireDate(name string) (civil.Date, error) {
	p, err := r.Date(name)
	return required(name, p, err)
}

// RequireDateTime reads a mandatory timestamp column.
func (r Row) RequireDateTime(name string) (civil.DateTime, error) {
	p, err := r.DateTime(name)
	return required(name, p, err)
}

// Reader returns a RowReader over r.
func (r Row) Reader() *RowReader {
	return &RowReader{row: r}
}

// RowReader reads columns from a Row and keeps the first error, so a mapping
// function can read every column and check once:
//
//	rd := row.Reader()
//	v := domain.Visit{
//	    StuID:       rd.RequireString("stu_id"),
//	    WhenStarted: rd.RequireDateTime("when_started"),
//	    Location:    rd.String("location"),
//	}
//	return v, rd.Err()
type RowReader struct {
	row Row
	err error
}

// Err returns the first error met while reading.
func (rd *RowReader) Err() error {
	return rd.err
}

func keep[T any](rd *RowReader, v T, err error) T {
	if err != nil && rd.err == nil {
		rd.err = err
	}
	return v
}

// String reads a nullable character column.
func (rd *RowReader) String(name string) *string {
	v, err := rd.row.String(name)
	return keep(rd, v, err)
}

// Int reads a nullable 32-bit integer column.
func (rd *RowReader) Int(name string) *int32 {
	v, err := rd.row.Int(name)
	return keep(rd, v, err)
}

// Long reads a nullable 64-bit integer column.
func (rd *RowReader) Long(name string) *int64 {
	v, err := rd.row.Long(name)
	return keep(rd, v, err)
}

// Float reads a nullable floating point column.
func (rd *RowReader) Float(name string) *float64 {
	v, err := rd.row.Float(name)
	return keep(rd, v, err)
}

// Date reads a nullable date column.
func (rd *RowReader) Date(name string) *civil.Date {
	v, err := rd.row.Date(name)
	return keep(rd, v, err)
}

// DateTime reads a nullable date-time column.
func (rd *RowReader) DateTime(name string) *civil.DateTime {
	v, err := rd.row.DateTime(name)
	return keep(rd, v, err)
}

// RequireString reads a non-null character column.
func (rd *RowReader) RequireString(name string) string {
	v, err := rd.row.RequireString(name)
	return keep(rd, v, err)
}

// RequireInt reads a non-null 32-bit integer column.
func (rd *RowReader) RequireInt(name string) int32 {
	v, err := rd.row.RequireInt(name)
	return keep(rd, v, err)
}

// RequireLong reads a non-null 64-bit integer column.
func (rd *RowReader) RequireLong(name string) int64 {
	v, err := rd.row.RequireLong(name)
	return keep(rd, v, err)
}

// RequireFloat reads a non-null floating point column.
func (rd *RowReader) RequireFloat(name string) float64 {
	v, err := rd.row.RequireFloat(name)
	return keep(rd, v, err)
}

// RequireDate reads a non-null date column.
func (rd *RowReader) RequireDate(name string) civil.Date {
	v, err := rd.row.RequireDate(name)
	return keep(rd, v, err)
}

// RequireDateTime reads a non-null date-time column.
func (rd *RowReader) RequireDateTime(name string) civil.DateTime {
	v, err := rd.row.RequireDateTime(name)
	return keep(rd, v, err)
}
