package store

import (
	"context"
	"fmt"
	"strings"
)

// column binds one table column to the record field holding it. field
// returns a pointer used both as a query argument and as a Scan destination.
type column[T any] struct {
	name  string
	field func(*T) any
}

// table describes how a record type is persisted. Every assignable column is
// listed once, so reads and writes cannot drift apart.
type table[T any] struct {
	name      string
	id        func(*T) *int64
	columns   []column[T]
	normalize func(*T)
}

func (t table[T]) columnList() string {
	names := make([]string, len(t.columns))
	for i, c := range t.columns {
		names[i] = c.name
	}
	return strings.Join(names, ", ")
}

func (t table[T]) selectSQL() string {
	return "SELECT id, " + t.columnList() + " FROM " + t.name
}

func (t table[T]) insertSQL() string {
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(t.columns)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING id", t.name, t.columnList(), placeholders)
}

func (t table[T]) updateSQL() string {
	assignments := make([]string, len(t.columns))
	for i, c := range t.columns {
		assignments[i] = c.name + " = ?"
	}
	return fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", t.name, strings.Join(assignments, ", "))
}

func (t table[T]) args(rec *T) []any {
	args := make([]any, len(t.columns))
	for i, c := range t.columns {
		args[i] = c.field(rec)
	}
	return args
}

func (t table[T]) dest(rec *T) []any {
	dest := make([]any, 0, len(t.columns)+1)
	dest = append(dest, t.id(rec))
	for _, c := range t.columns {
		dest = append(dest, c.field(rec))
	}
	return dest
}

type scanner interface {
	Scan(dest ...any) error
}

func (t table[T]) scan(row scanner) (*T, error) {
	rec := new(T)
	if err := row.Scan(t.dest(rec)...); err != nil {
		return nil, err
	}
	if t.normalize != nil {
		t.normalize(rec)
	}
	return rec, nil
}

func (t table[T]) insert(ctx context.Context, q querier, d dialect, rec *T) error {
	if t.normalize != nil {
		t.normalize(rec)
	}
	return q.QueryRowContext(ctx, d.rebind(t.insertSQL()), t.args(rec)...).Scan(t.id(rec))
}

func (t table[T]) update(ctx context.Context, q querier, d dialect, rec *T) error {
	if t.normalize != nil {
		t.normalize(rec)
	}
	args := append(t.args(rec), *t.id(rec))
	_, err := q.ExecContext(ctx, d.rebind(t.updateSQL()), args...)
	return err
}

// get loads one record by id. sql.ErrNoRows is returned unchanged.
func (t table[T]) get(ctx context.Context, q querier, d dialect, id int64) (*T, error) {
	row := q.QueryRowContext(ctx, d.rebind(t.selectSQL()+" WHERE id = ?"), id)
	return t.scan(row)
}

// list runs selectSQL with the given suffix (WHERE/ORDER/LIMIT clauses)
func (t table[T]) list(ctx context.Context, q querier, d dialect, suffix string, args ...any) ([]T, error) {
	rows, err := q.QueryContext(ctx, d.rebind(t.selectSQL()+suffix), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := []T{}
	for rows.Next() {
		rec, err := t.scan(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}
