package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
)

// Resource describes the per-type behaviour the generic service needs.
type Resource[T any] struct {
	// Noun is the capitalised singular name used in client-facing messages ("Record").
	Noun    string
	Key     func(T) string
	Missing func(T) []string
}

// Records is the Resource definition for domain.Record.
var Records = Resource[domain.Record]{
	Noun:    "Record",
	Key:     domain.Record.Key,
	Missing: domain.Record.Missing,
}

// Projects is the Resource definition for domain.Project.
var Projects = Resource[domain.Project]{
	Noun:    "Project",
	Key:     domain.Project.Key,
	Missing: domain.Project.Missing,
}

// Service implements list/get/create/update/delete for one resource on top of a Store.
type Service[T any] struct {
	store repository.Store[T]
	res   Resource[T]
	log   *zap.Logger
}

// New creates a service. A nil logger disables logging.
func New[T any](store repository.Store[T], res Resource[T], log *zap.Logger) *Service[T] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service[T]{store: store, res: res, log: log.Named(res.Noun)}
}

// Noun returns the resource's display name.
func (s *Service[T]) Noun() string { return s.res.Noun }

// List returns every document ordered by key. The result is never nil.
func (s *Service[T]) List(ctx context.Context) ([]T, error) {
	docs, err := s.store.List(ctx)
	if err != nil {
		s.log.Error("list failed", zap.Error(err))
		return nil, err
	}
	if docs == nil {
		docs = []T{}
	}
	return docs, nil
}

// Get returns the document with the given key or domain.ErrNotFound.
func (s *Service[T]) Get(ctx context.Context, id string) (T, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		s.log.Error("get failed", zap.String("id", id), zap.Error(err))
	}
	return doc, err
}

// Create validates required fields and inserts doc. An existing key yields
// domain.ErrConflict and leaves the stored document untouched.
func (s *Service[T]) Create(ctx context.Context, doc T) (T, error) {
	if missing := s.res.Missing(doc); len(missing) > 0 {
		var zero T
		return zero, domain.MissingFields(missing)
	}
	out, err := s.store.Insert(ctx, doc)
	if err != nil {
		if !errors.Is(err, domain.ErrConflict) {
			s.log.Error("create failed", zap.String("id", s.res.Key(doc)), zap.Error(err))
		}
		return out, err
	}
	s.log.Info("created", zap.String("id", s.res.Key(out)))
	return out, nil
}

// Update applies a partial JSON document to the stored row identified by the
// patch's key. Fields absent from the patch keep their stored value; fields
// present (including explicit nulls) replace it. Concurrent updates are
// last-writer-wins.
func (s *Service[T]) Update(ctx context.Context, patch []byte) (T, error) {
	var zero, probe T
	if err := json.Unmarshal(patch, &probe); err != nil {
		return zero, &domain.ValidationError{Message: "Invalid JSON body"}
	}
	id := s.res.Key(probe)
	if id == "" {
		return zero, domain.IDRequired(s.res.Noun)
	}

	existing, err := s.store.Get(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("update lookup failed", zap.String("id", id), zap.Error(err))
		}
		return zero, err
	}
	if err := json.Unmarshal(patch, &existing); err != nil {
		return zero, fmt.Errorf("merge %s %s: %w", s.res.Noun, id, err)
	}

	out, err := s.store.Update(ctx, existing)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("update failed", zap.String("id", id), zap.Error(err))
		}
		return out, err
	}
	s.log.Info("updated", zap.String("id", id))
	return out, nil
}

// Delete removes the document with the given key and returns it.
func (s *Service[T]) Delete(ctx context.Context, id string) (T, error) {
	if id == "" {
		var zero T
		return zero, domain.IDRequired(s.res.Noun)
	}
	out, err := s.store.Delete(ctx, id)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error("delete failed", zap.String("id", id), zap.Error(err))
		}
		return out, err
	}
	s.log.Info("deleted", zap.String("id", id))
	return out, nil
}

// Ping reports whether the backing store is reachable.
func (s *Service[T]) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
