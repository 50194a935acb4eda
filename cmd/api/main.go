package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/tearaglass/godscruiseline/config"
	"github.com/tearaglass/godscruiseline/internal/access"
	"github.com/tearaglass/godscruiseline/internal/bootstrap"
	"github.com/tearaglass/godscruiseline/internal/logging"
	"github.com/tearaglass/godscruiseline/internal/snapshot"
)

const serviceName = "godscruiseline-api"

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

	bootstrap.SetGinMode(cfg.App.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cat, err := bootstrap.OpenCatalog(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("open catalog store", zap.Error(err))
	}
	defer cat.Close()

	if cfg.Access.AdminPassphrase == "" {
		logger.Warn("ADMIN_PASSPHRASE is not set; no passphrase will resolve to admin")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	router := bootstrap.BuildRouter(bootstrap.RouterDeps{
		ServiceName:       serviceName,
		Version:           cfg.App.Version,
		Catalog:           cat,
		Resolver:          access.NewResolver(cfg.Access.AdminPassphrase, cfg.Access.WitnessPassphrase),
		CORSOrigins:       cfg.Server.CORSOrigins,
		AuthRatePerMinute: cfg.Access.RatePerMinute,
		AuthBurst:         cfg.Access.RateBurst,
		Logger:            logger,
		Registry:          reg,
	})

	var scheduler *snapshot.Scheduler
	if cfg.Snapshot.Schedule != "" {
		sink, err := snapshotSink(ctx, cfg.Snapshot)
		if err != nil {
			logger.Fatal("snapshot sink", zap.Error(err))
		}
		scheduler = snapshot.NewScheduler(snapshot.NewJob(cat.Records, cat.Projects, sink, logger), cfg.Snapshot.Timeout, logger)
		if err := scheduler.Start(cfg.Snapshot.Schedule); err != nil {
			logger.Fatal("snapshot scheduler", zap.Error(err))
		}
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("listening",
			zap.String("addr", srv.Addr),
			zap.String("driver", cat.Driver),
			zap.String("version", cfg.App.Version))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	if scheduler != nil {
		select {
		case <-scheduler.Stop().Done():
		case <-shutdownCtx.Done():
			logger.Warn("snapshot still running at shutdown")
		}
	}
}

func snapshotSink(ctx context.Context, cfg config.SnapshotConfig) (snapshot.Sink, error) {
	if cfg.S3Bucket == "" {
		return snapshot.DirSink{Dir: cfg.Dir}, nil
	}
	sink, err := snapshot.NewS3Sink(ctx, snapshot.S3Config{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Endpoint:  cfg.S3Endpoint,
		PathStyle: cfg.S3PathStyle,
	})
	if err != nil {
		return nil, err
	}
	return sink, nil
}
