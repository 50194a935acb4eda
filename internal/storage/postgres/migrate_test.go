package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tearaglass/godscruiseline/config"
	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
)

func TestMigrate(t *testing.T) {
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	ctx := context.Background()

	db, err := NewConnection(ctx, &config.DatabaseConfig{DSN: dsn})
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, Migrate(ctx, db, repository.PostgresSchema))
	require.NoError(t, Migrate(ctx, db, repository.PostgresSchema), "schema must be re-runnable")

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		`SELECT count(*) FROM information_schema.tables WHERE table_name IN ('records', 'projects')`).Scan(&n))
	assert.Equal(t, 2, n)
}
