package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
)

// Lister is implemented by service.Service.
type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// Job exports both collections to a sink.
type Job struct {
	records  Lister[domain.Record]
	projects Lister[domain.Project]
	sink     Sink
	log      *zap.Logger
	now      func() time.Time
}

func NewJob(records Lister[domain.Record], projects Lister[domain.Project], sink Sink, log *zap.Logger) *Job {
	if log == nil {
		log = zap.NewNop()
	}
	return &Job{records: records, projects: projects, sink: sink, log: log, now: time.Now}
}

// Run writes records_export_<date>.json and projects_export_<date>.json and
// returns their locations.
func (j *Job) Run(ctx context.Context) ([]string, error) {
	runID := uuid.NewString()
	day := j.now()

	records, err := j.records.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	projects, err := j.projects.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	var locations []string
	for _, f := range []struct {
		resource string
		docs     any
		count    int
	}{
		{"records", records, len(records)},
		{"projects", projects, len(projects)},
	} {
		data, err := Encode(f.docs)
		if err != nil {
			return locations, err
		}
		loc, err := j.sink.Put(ctx, FileName(f.resource, day), data)
		if err != nil {
			return locations, err
		}
		j.log.Info("snapshot written",
			zap.String("run_id", runID),
			zap.String("resource", f.resource),
			zap.Int("count", f.count),
			zap.String("location", loc))
		locations = append(locations, loc)
	}
	return locations, nil
}
