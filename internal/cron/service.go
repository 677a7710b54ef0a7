// Package cron runs the gateway's periodic housekeeping: dropping idle
// browsing sessions from memory and purging guest slots nobody has touched
// for the retention window.
package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/innovativehub/storefront/pkg/logger"
	"github.com/innovativehub/storefront/pkg/metrics"
)

const defaultInterval = 5 * time.Minute

type ServiceParams struct {
	Logger   *logger.Logger
	Registry *Registry
	Lock     Lock
	Metrics  *metrics.Metrics
	Interval time.Duration
}

// Service runs every registered job on a fixed cadence.
type Service struct {
	logg     *logger.Logger
	registry *Registry
	lock     Lock
	metrics  *metrics.Metrics
	interval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	lock := params.Lock
	if lock == nil {
		lock = &LocalLock{}
	}
	registry := params.Registry
	if registry == nil {
		registry = NewRegistry()
	}
	interval := params.Interval
	if interval <= 0 {
		interval = defaultInterval
	}
	return &Service{
		logg:     params.Logger,
		registry: registry,
		lock:     lock,
		metrics:  params.Metrics,
		interval: interval,
	}, nil
}

// Run loops until ctx is canceled.
func (s *Service) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "housekeeping stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Service) runCycle(ctx context.Context) {
	var shared []Job
	for _, job := range s.registry.Jobs() {
		if isShared(job) {
			shared = append(shared, job)
			continue
		}
		s.runJob(ctx, job)
	}
	if len(shared) == 0 {
		return
	}

	locked, err := s.lock.Acquire(ctx)
	if err != nil {
		s.logg.Error(ctx, "housekeeping lock acquire failed", err)
		return
	}
	if !locked {
		s.logg.Debug(ctx, "another instance holds the housekeeping lock; skipping shared jobs")
		return
	}
	defer func() {
		if relErr := s.lock.Release(ctx); relErr != nil {
			s.logg.Error(ctx, "failed to release housekeeping lock", relErr)
		}
	}()
	for _, job := range shared {
		s.runJob(ctx, job)
	}
}

func (s *Service) runJob(ctx context.Context, job Job) {
	jobCtx := s.logg.WithField(ctx, "job", job.Name())
	start := time.Now()
	err := job.Run(jobCtx)
	duration := time.Since(start)
	s.metrics.ObserveJob(job.Name(), duration, err)
	if err != nil {
		s.logg.Error(s.logg.WithField(jobCtx, "duration_ms", duration.Milliseconds()), "job failed", err)
	}
}
