package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

//go:embed schema/sqlite.sql
var sqliteSchema string

// OpenSQLite opens (creating if needed) the SQLite database at path and
// applies the catalog schema. Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*sql.DB, error) {
	if path == "" {
		path = "catalog.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// single writer; also keeps an in-memory database alive across calls
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return db, nil
}

// SQLiteStore is the SQLite implementation of Store.
type SQLiteStore[T any] struct {
	db    *sql.DB
	table Table[T]
	sql   statements
}

// NewSQLiteStore creates a SQLite-backed store for table.
func NewSQLiteStore[T any](db *sql.DB, table Table[T]) *SQLiteStore[T] {
	return &SQLiteStore[T]{db: db, table: table, sql: buildStatements(table, numberedPlaceholder)}
}

func (s *SQLiteStore[T]) List(ctx context.Context) ([]T, error) {
	rows, err := s.db.QueryContext(ctx, s.sql.list)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table.Name, err)
	}
	defer func() { _ = rows.Close() }()

	out := make([]T, 0, 16)
	for rows.Next() {
		doc, err := s.table.Scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", s.table.Name, err)
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

func (s *SQLiteStore[T]) Get(ctx context.Context, id string) (T, error) {
	return s.one(ctx, "get", s.sql.get, id)
}

func (s *SQLiteStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	args, err := s.table.Values(doc)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.one(ctx, "insert", s.sql.insert, args...)
}

func (s *SQLiteStore[T]) Update(ctx context.Context, doc T) (T, error) {
	args, err := s.table.Values(doc)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.one(ctx, "update", s.sql.update, args...)
}

func (s *SQLiteStore[T]) Delete(ctx context.Context, id string) (T, error) {
	return s.one(ctx, "delete", s.sql.delete, id)
}

func (s *SQLiteStore[T]) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore[T]) one(ctx context.Context, op, q string, args ...any) (T, error) {
	doc, err := s.table.Scan(s.db.QueryRowContext(ctx, q, args...))
	if err == nil {
		return doc, nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return doc, domain.ErrNotFound
	}
	if isSQLiteConstraint(err) {
		return doc, domain.ErrConflict
	}
	return doc, fmt.Errorf("%s %s: %w", op, s.table.Name, err)
}

func isSQLiteConstraint(err error) bool {
	var serr *sqlite.Error
	if !errors.As(err, &serr) {
		return false
	}
	switch serr.Code() {
	case sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3.SQLITE_CONSTRAINT_UNIQUE:
		return true
	}
	return false
}
