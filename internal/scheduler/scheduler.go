package scheduler

import (
	"context"
	"log/slog"
	"time"

	"bookmark_sync/internal/domain"
)

// Syncer runs one sync cycle. Failures are reported through the stats,
// not an error: a broken cycle must not stop the schedule.
type Syncer interface {
	RunCycle(ctx context.Context) *domain.CycleStats
}

type Scheduler struct {
	syncer   Syncer
	interval time.Duration
	logger   *slog.Logger
}

func NewScheduler(syncer Syncer, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		syncer:   syncer,
		interval: interval,
		logger:   logger,
	}
}

// Start runs a cycle immediately, then on every interval tick until
// the context is cancelled. A cycle in flight finishes its current
// item before a cancellation takes effect.
func (s *Scheduler) Start(ctx context.Context) error {
	s.logger.Info("scheduler started", "interval", s.interval)

	s.runCycle(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return ctx.Err()
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if stats := s.syncer.RunCycle(ctx); stats.Failed() {
		s.logger.Error("sync cycle failed", "error", stats.ErrorMessage)
	}
}
