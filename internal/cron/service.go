package cron

import (
	"context"
	"time"

	"go.uber.org/multierr"

	pkgerrors "github.com/Avannubo/subirananadons-backend/pkg/errors"
	"github.com/Avannubo/subirananadons-backend/pkg/logger"
	"github.com/Avannubo/subirananadons-backend/pkg/metrics"
)

// Job is one unit of scheduled maintenance work.
type Job interface {
	Name() string
	Run(ctx context.Context) error
}

// Service runs the registered jobs on a fixed interval, one replica at a
// time via the distributed lock.
type Service struct {
	jobs     []Job
	lock     *Lock
	interval time.Duration
	logg     *logger.Logger
	metrics  *metrics.CronJobMetrics
}

func NewService(jobs []Job, lock *Lock, interval time.Duration, logg *logger.Logger, m *metrics.CronJobMetrics) (*Service, error) {
	if len(jobs) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "at least one job is required")
	}
	if lock == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "lock is required")
	}
	if interval <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "interval must be positive")
	}
	if logg == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "logger is required")
	}
	return &Service{jobs: jobs, lock: lock, interval: interval, logg: logg, metrics: m}, nil
}

// Start blocks until the context is cancelled. The first tick runs
// immediately.
func (s *Service) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

func (s *Service) tick(ctx context.Context) {
	acquired, err := s.lock.Acquire(ctx)
	if err != nil {
		s.logg.Error(ctx, "acquire cron lock", err)
		return
	}
	if !acquired {
		s.logg.Info(ctx, "cron tick skipped, another replica holds the lock")
		return
	}
	defer func() {
		if err := s.lock.Release(ctx); err != nil {
			s.logg.Error(ctx, "release cron lock", err)
		}
	}()

	if err := s.RunAll(ctx); err != nil {
		s.logg.Error(ctx, "cron tick finished with errors", err)
	}
}

// RunAll executes every job and combines their failures. A failing job
// never blocks the rest.
func (s *Service) RunAll(ctx context.Context) error {
	var combined error
	for _, job := range s.jobs {
		jobCtx := s.logg.WithField(ctx, "job", job.Name())
		start := time.Now()

		err := job.Run(jobCtx)
		s.metrics.ObserveDuration(job.Name(), time.Since(start))
		if err != nil {
			s.metrics.IncFailure(job.Name())
			s.logg.Error(jobCtx, "cron job failed", err)
			combined = multierr.Append(combined, err)
			continue
		}
		s.metrics.IncSuccess(job.Name())
		s.logg.Info(jobCtx, "cron job finished")
	}
	return combined
}
