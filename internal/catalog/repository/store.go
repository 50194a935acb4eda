package repository

import (
	"context"
	"fmt"
	"strings"
)

// Store persists one resource table. Implementations map a duplicate key on
// Insert to domain.ErrConflict and a missing row on Get/Update/Delete to
// domain.ErrNotFound; every other failure is returned wrapped.
type Store[T any] interface {
	List(ctx context.Context) ([]T, error)
	Get(ctx context.Context, id string) (T, error)
	Insert(ctx context.Context, doc T) (T, error)
	Update(ctx context.Context, doc T) (T, error)
	Delete(ctx context.Context, id string) (T, error)
	Ping(ctx context.Context) error
}

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// Table describes how a resource maps onto a SQL table. The first column is
// the primary key.
type Table[T any] struct {
	Name    string
	Columns []string
	Key     func(T) string
	Values  func(T) ([]any, error)
	Scan    func(scanner) (T, error)
}

// statements holds the SQL text for a table, rendered for one placeholder style.
type statements struct {
	list, get, insert, update, delete string
}

func buildStatements[T any](t Table[T], placeholder func(n int) string) statements {
	cols := strings.Join(t.Columns, ", ")
	key := t.Columns[0]

	marks := make([]string, len(t.Columns))
	sets := make([]string, 0, len(t.Columns)-1)
	for i, c := range t.Columns {
		marks[i] = placeholder(i + 1)
		if i > 0 {
			sets = append(sets, fmt.Sprintf("%s = %s", c, placeholder(i+1)))
		}
	}

	return statements{
		list: fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s ASC`, cols, t.Name, key),
		get:  fmt.Sprintf(`SELECT %s FROM %s WHERE %s = %s`, cols, t.Name, key, placeholder(1)),
		insert: fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
			t.Name, cols, strings.Join(marks, ", "), cols),
		update: fmt.Sprintf(`UPDATE %s SET %s WHERE %s = %s RETURNING %s`,
			t.Name, strings.Join(sets, ", "), key, placeholder(1), cols),
		delete: fmt.Sprintf(`DELETE FROM %s WHERE %s = %s RETURNING %s`,
			t.Name, key, placeholder(1), cols),
	}
}

func dollarPlaceholder(n int) string { return fmt.Sprintf("$%d", n) }

func numberedPlaceholder(n int) string { return fmt.Sprintf("?%d", n) }
