package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/config"
	"github.com/tearaglass/godscruiseline/internal/bootstrap"
	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
	"github.com/tearaglass/godscruiseline/internal/logging"
	"github.com/tearaglass/godscruiseline/internal/seed"
	"github.com/tearaglass/godscruiseline/internal/storage/postgres"
)

func usage() {
	fmt.Fprintln(os.Stderr, `Usage: migrate [command]

Commands:
  (default)   apply the Postgres schema (sqlite and redis need no migration)
  seed        load the bundled records and projects into the configured store,
              skipping ids that already exist`)
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logger, err := logging.New(cfg.App.Environment, cfg.App.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	cmd := ""
	if len(os.Args) > 1 {
		cmd = os.Args[1]
	}

	switch cmd {
	case "":
		runSchema(ctx, cfg, logger)
	case "seed":
		runSeed(ctx, cfg, logger)
	default:
		usage()
	}
}

func runSchema(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	if cfg.Store.Driver != config.DriverPostgres {
		logger.Info("schema is applied on open for this driver; nothing to do", zap.String("driver", cfg.Store.Driver))
		return
	}
	db, err := postgres.NewConnection(ctx, &cfg.Database)
	if err != nil {
		logger.Fatal("connect failed", zap.Error(err))
	}
	defer db.Close()

	if err := postgres.Migrate(ctx, db, repository.PostgresSchema); err != nil {
		logger.Fatal("migration failed", zap.Error(err))
	}
	logger.Info("schema applied")
}

func runSeed(ctx context.Context, cfg *config.Config, logger *zap.Logger) {
	cat, err := bootstrap.OpenCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open catalog store", zap.Error(err))
	}
	defer cat.Close()

	recs, projs, err := seed.Apply(ctx, cat.Records, cat.Projects, logger)
	if err != nil {
		logger.Fatal("seed failed", zap.Error(err))
	}
	logger.Info("seed complete",
		zap.Stringer("records", recs),
		zap.Stringer("projects", projs))
}
