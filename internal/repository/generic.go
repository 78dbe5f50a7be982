package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/mathops/records-service/internal/domain"
	"github.com/mathops/records-service/internal/observability"
)

// Repository operation names, used in errors and metrics.
const (
	opInsert      = "insert"
	opDelete      = "delete"
	opDeleteWhere = "delete_where"
	opQuery       = "query"
	opUpdate      = "update"
)

// pgUniqueViolation is the SQLSTATE for unique_violation.
const pgUniqueViolation = "23505"

// Repository provides CRUD access to the table described by its descriptor.
type Repository[T any] struct {
	store *Store
	table *Table[T]
}

// NewRepository binds a table descriptor to a store.
func NewRepository[T any](store *Store, table *Table[T]) *Repository[T] {
	return &Repository[T]{store: store, table: table}
}

// Table returns the descriptor the repository was built from.
func (r *Repository[T]) Table() *Table[T] {
	return r.table
}

// physicalName resolves the table for ctx and quotes every dotted part.
func (r *Repository[T]) physicalName(ctx context.Context, op string) (string, error) {
	name, err := r.store.resolver.Resolve(ctx, r.table.Name)
	if err != nil {
		return "", r.storageError(op, err)
	}
	return pgx.Identifier(strings.Split(name, ".")).Sanitize(), nil
}

func (r *Repository[T]) storageError(op string, err error) error {
	return domain.NewStorageError(op, r.table.Name.Name, err)
}

// exec runs a write statement and returns the affected row count.
func (r *Repository[T]) exec(ctx context.Context, op string, stmt stmtTemplate, args []interface{}) (int64, error) {
	table, err := r.physicalName(ctx, op)
	if err != nil {
		return 0, err
	}

	start := time.Now()
	tag, err := r.store.db.Exec(ctx, stmt.render(table), args...)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			r.store.metrics.RecordStatement(r.table.Name.Name, op, observability.OutcomeConstraint, elapsed)
			r.store.metrics.RecordConstraintViolation(r.table.Name.Name)
			return 0, domain.NewConstraintViolationError(r.table.Name.Name, pgErr.ConstraintName, err)
		}
		r.store.metrics.RecordStatement(r.table.Name.Name, op, observability.OutcomeError, elapsed)
		return 0, r.storageError(op, err)
	}

	n := tag.RowsAffected()
	outcome := observability.OutcomeSuccess
	if n == 0 {
		outcome = observability.OutcomeNoRows
	}
	r.store.metrics.RecordStatement(r.table.Name.Name, op, outcome, elapsed)
	r.store.metrics.RecordRowsAffected(r.table.Name.Name, op, n)
	return n, nil
}

// query runs a SELECT and maps every row.
func (r *Repository[T]) query(ctx context.Context, stmt stmtTemplate, args []interface{}) ([]T, error) {
	table, err := r.physicalName(ctx, opQuery)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	records, err := r.collect(ctx, stmt.render(table), args)
	elapsed := time.Since(start).Seconds()
	if err != nil {
		r.store.metrics.RecordStatement(r.table.Name.Name, opQuery, observability.OutcomeError, elapsed)
		return nil, r.storageError(opQuery, err)
	}

	r.store.metrics.RecordStatement(r.table.Name.Name, opQuery, observability.OutcomeSuccess, elapsed)
	r.store.metrics.RecordRowsReturned(r.table.Name.Name, len(records))
	return records, nil
}

func (r *Repository[T]) collect(ctx context.Context, sql string, args []interface{}) ([]T, error) {
	rows, err := r.store.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	index, varying := columnIndex(rows.FieldDescriptions())
	records := make([]T, 0)
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		rec, err := r.table.FromRow(Row{index: index, varying: varying, values: values})
		if err != nil {
			return nil, fmt.Errorf("failed to map row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return records, nil
}

// Insert writes rec, binding every column in descriptor order. It reports
// true when exactly one row was inserted. A unique-key rejection returns
// false with a *domain.ConstraintViolationError.
func (r *Repository[T]) Insert(ctx context.Context, rec T) (bool, error) {
	if err := domain.ValidateRecord(rec); err != nil {
		return false, r.storageError(opInsert, err)
	}
	args, err := r.table.bindRecord(rec)
	if err != nil {
		return false, r.storageError(opInsert, err)
	}

	n, err := r.exec(ctx, opInsert, r.table.insertSQL, args)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete removes the row with rec's natural key.
func (r *Repository[T]) Delete(ctx context.Context, rec T) (bool, error) {
	key, err := r.table.bindKey(rec)
	if err != nil {
		return false, r.storageError(opDelete, err)
	}
	n, err := r.exec(ctx, opDelete, r.table.deleteSQL, key)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteByKey removes the row whose natural key equals key, given in
// descriptor Key order.
func (r *Repository[T]) DeleteByKey(ctx context.Context, key ...interface{}) (bool, error) {
	args, err := r.table.bindKeyValues(key)
	if err != nil {
		return false, r.storageError(opDelete, err)
	}
	n, err := r.exec(ctx, opDelete, r.table.deleteSQL, args)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// DeleteWhere removes every row matching filters and reports true once the
// statement has executed, whatever the row count. At least one filter is
// required.
func (r *Repository[T]) DeleteWhere(ctx context.Context, filters ...Filter) (bool, error) {
	if len(filters) == 0 {
		return false, r.storageError(opDeleteWhere, errors.New("bulk delete requires a filter"))
	}
	args, err := r.table.bindFilters(filters)
	if err != nil {
		return false, r.storageError(opDeleteWhere, err)
	}
	for _, f := range filters {
		if f.matchesNothing() {
			return true, nil
		}
	}
	if _, err := r.exec(ctx, opDeleteWhere, r.table.deleteWhereStatement(filters), args); err != nil {
		return false, err
	}
	return true, nil
}

// QueryAll returns every row, in no particular order.
func (r *Repository[T]) QueryAll(ctx context.Context) ([]T, error) {
	return r.query(ctx, r.table.selectSQL, nil)
}

// QueryWhere returns the rows matching every filter, in no particular order.
func (r *Repository[T]) QueryWhere(ctx context.Context, filters ...Filter) ([]T, error) {
	return r.Find(ctx, Query{Where: filters})
}

// Find runs q.
func (r *Repository[T]) Find(ctx context.Context, q Query) ([]T, error) {
	stmt, err := r.table.selectStatement(q)
	if err != nil {
		return nil, r.storageError(opQuery, err)
	}
	args, err := r.table.bindFilters(q.Where)
	if err != nil {
		return nil, r.storageError(opQuery, err)
	}
	for _, f := range q.Where {
		if f.matchesNothing() {
			return []T{}, nil
		}
	}
	return r.query(ctx, stmt, args)
}

// FindOne runs q and returns the first row, or nil when there is none.
func (r *Repository[T]) FindOne(ctx context.Context, q Query) (*T, error) {
	records, err := r.Find(ctx, q)
	if err != nil || len(records) == 0 {
		return nil, err
	}
	return &records[0], nil
}

// UpdateColumn sets one non-key column of the row with rec's natural key.
func (r *Repository[T]) UpdateColumn(ctx context.Context, rec T, column string, value interface{}) (bool, error) {
	return r.UpdateColumns(ctx, rec, Set(column, value))
}

// UpdateColumns sets several non-key columns of the row with rec's natural
// key in one statement.
func (r *Repository[T]) UpdateColumns(ctx context.Context, rec T, sets ...Assignment) (bool, error) {
	stmt, err := r.table.updateStatement(sets)
	if err != nil {
		return false, r.storageError(opUpdate, err)
	}

	args := make([]interface{}, 0, len(sets)+len(r.table.Key))
	for _, s := range sets {
		c, _ := r.table.column(s.column)
		v, err := c.bind(s.value)
		if err != nil {
			return false, r.storageError(opUpdate, err)
		}
		args = append(args, v)
	}
	key, err := r.table.bindKey(rec)
	if err != nil {
		return false, r.storageError(opUpdate, err)
	}
	args = append(args, key...)

	n, err := r.exec(ctx, opUpdate, stmt, args)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
