package bootstrap

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/config"
	"github.com/tearaglass/godscruiseline/internal/catalog/domain"
	cataloghttp "github.com/tearaglass/godscruiseline/internal/catalog/http"
	"github.com/tearaglass/godscruiseline/internal/catalog/repository"
	"github.com/tearaglass/godscruiseline/internal/catalog/service"
)

// Catalog bundles the two resource services over one store driver.
type Catalog struct {
	Driver   string
	Records  *service.Service[domain.Record]
	Projects *service.Service[domain.Project]
	// RecordEvents and ProjectEvents are set only for drivers that publish
	// change events (redis).
	RecordEvents  cataloghttp.Subscriber
	ProjectEvents cataloghttp.Subscriber
	close         func()
}

// Close releases the underlying connection(s).
func (c *Catalog) Close() {
	if c.close != nil {
		c.close()
	}
}

// OpenCatalog connects to the driver named in cfg.Store and builds the services.
func OpenCatalog(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Catalog, error) {
	if log == nil {
		log = zap.NewNop()
	}

	var (
		records  repository.Store[domain.Record]
		projects repository.Store[domain.Project]
		closeFn  func()

		recordEvents, projectEvents cataloghttp.Subscriber
	)

	switch cfg.Store.Driver {
	case config.DriverPostgres:
		pool, err := OpenDB(ctx, DBOptions{
			DSN:      cfg.Database.PostgresDSN(),
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			return nil, err
		}
		records = repository.NewPgStore(pool, repository.RecordTable)
		projects = repository.NewPgStore(pool, repository.ProjectTable)
		closeFn = pool.Close

	case config.DriverSQLite:
		db, err := repository.OpenSQLite(ctx, cfg.Store.SQLitePath)
		if err != nil {
			return nil, err
		}
		records = repository.NewSQLiteStore(db, repository.RecordTable)
		projects = repository.NewSQLiteStore(db, repository.ProjectTable)
		closeFn = func() { _ = db.Close() }

	case config.DriverRedis:
		client, err := OpenRedis(ctx, RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		rs := repository.NewRedisStore(client, repository.RecordTable)
		ps := repository.NewRedisStore(client, repository.ProjectTable)
		records, projects = rs, ps
		recordEvents, projectEvents = rs, ps
		closeFn = func() { _ = client.Close() }

	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	log.Info("catalog store opened", zap.String("driver", cfg.Store.Driver))
	return &Catalog{
		Driver:   cfg.Store.Driver,
		Records:  service.New(records, service.Records, log),
		Projects: service.New(projects, service.Projects, log),

		RecordEvents:  recordEvents,
		ProjectEvents: projectEvents,
		close:         closeFn,
	}, nil
}
