package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

const pgUniqueViolation = "23505"

// PgStore is the Postgres implementation of Store.
type PgStore[T any] struct {
	db    *pgxpool.Pool
	table Table[T]
	sql   statements
}

// NewPgStore creates a Postgres-backed store for table.
func NewPgStore[T any](db *pgxpool.Pool, table Table[T]) *PgStore[T] {
	return &PgStore[T]{db: db, table: table, sql: buildStatements(table, dollarPlaceholder)}
}

func (s *PgStore[T]) List(ctx context.Context) ([]T, error) {
	rows, err := s.db.Query(ctx, s.sql.list)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", s.table.Name, err)
	}
	defer rows.Close()

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

func (s *PgStore[T]) Get(ctx context.Context, id string) (T, error) {
	return s.one(ctx, "get", s.sql.get, id)
}

func (s *PgStore[T]) Insert(ctx context.Context, doc T) (T, error) {
	args, err := s.table.Values(doc)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.one(ctx, "insert", s.sql.insert, args...)
}

func (s *PgStore[T]) Update(ctx context.Context, doc T) (T, error) {
	args, err := s.table.Values(doc)
	if err != nil {
		var zero T
		return zero, err
	}
	return s.one(ctx, "update", s.sql.update, args...)
}

func (s *PgStore[T]) Delete(ctx context.Context, id string) (T, error) {
	return s.one(ctx, "delete", s.sql.delete, id)
}

func (s *PgStore[T]) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

func (s *PgStore[T]) one(ctx context.Context, op, q string, args ...any) (T, error) {
	doc, err := s.table.Scan(s.db.QueryRow(ctx, q, args...))
	if err == nil {
		return doc, nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return doc, domain.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return doc, domain.ErrConflict
	}
	return doc, fmt.Errorf("%s %s: %w", op, s.table.Name, err)
}
