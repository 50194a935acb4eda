package seed

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
	"github.com/tearaglass/godscruiseline/internal/catalog/service"
)

func TestApplyIsRepeatable(t *testing.T) {
	ctx := context.Background()
	db, err := repository.OpenSQLite(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	records := service.New(repository.NewSQLiteStore(db, repository.RecordTable), service.Records, nil)
	projects := service.New(repository.NewSQLiteStore(db, repository.ProjectTable), service.Projects, nil)

	recs, projs, err := Apply(ctx, records, projects, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Inserted: 11}, recs)
	assert.Equal(t, Result{Inserted: 3}, projs)

	recs, projs, err = Apply(ctx, records, projects, nil)
	require.NoError(t, err)
	assert.Equal(t, Result{Skipped: 11}, recs)
	assert.Equal(t, "0 inserted, 3 already present", projs.String())

	stored, err := records.Get(ctx, "GC-R-007")
	require.NoError(t, err)
	assert.Equal(t, "decayed", stored.Archival.State)
}
