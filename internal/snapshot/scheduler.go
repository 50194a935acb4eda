package snapshot

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type Scheduler struct {
	cron    *cron.Cron
	job     *Job
	timeout time.Duration
	log     *zap.Logger
}

func NewScheduler(job *Job, timeout time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Scheduler{
		cron:    cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		job:     job,
		timeout: timeout,
		log:     log,
	}
}

// Start registers the export under spec (standard 5-field cron or a
// descriptor such as "@daily") and starts the scheduler.
func (s *Scheduler) Start(spec string) error {
	if _, err := s.cron.AddFunc(spec, s.runOnce); err != nil {
		return fmt.Errorf("invalid SNAPSHOT_SCHEDULE %q: %w", spec, err)
	}
	s.cron.Start()
	s.log.Info("snapshot scheduler started", zap.String("schedule", spec))
	return nil
}

// Stop halts the scheduler and returns a context done when a running export finishes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if _, err := s.job.Run(ctx); err != nil {
		s.log.Error("snapshot failed", zap.Error(err))
	}
}
