package seed

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// Creator is implemented by service.Service.
type Creator[T any] interface {
	Create(ctx context.Context, doc T) (T, error)
}

// Result counts what Apply did per resource.
type Result struct {
	Inserted int
	Skipped  int
}

func (r Result) String() string {
	return fmt.Sprintf("%d inserted, %d already present", r.Inserted, r.Skipped)
}

// Apply creates every bundled document. Ids that already exist are skipped,
// so running it twice is harmless.
func Apply(ctx context.Context, records Creator[domain.Record], projects Creator[domain.Project], log *zap.Logger) (recs, projs Result, err error) {
	if log == nil {
		log = zap.NewNop()
	}

	ps, err := Projects()
	if err != nil {
		return recs, projs, err
	}
	if projs, err = insertAll(ctx, projects, ps, domain.Project.Key, log); err != nil {
		return recs, projs, err
	}

	rs, err := Records()
	if err != nil {
		return recs, projs, err
	}
	recs, err = insertAll(ctx, records, rs, domain.Record.Key, log)
	return recs, projs, err
}

func insertAll[T any](ctx context.Context, c Creator[T], docs []T, key func(T) string, log *zap.Logger) (Result, error) {
	var res Result
	for _, doc := range docs {
		_, err := c.Create(ctx, doc)
		switch {
		case err == nil:
			res.Inserted++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped++
			log.Debug("seed document already present", zap.String("id", key(doc)))
		default:
			return res, fmt.Errorf("seed %s: %w", key(doc), err)
		}
	}
	return res, nil
}
