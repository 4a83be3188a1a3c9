// Package scheduler implements background job scheduling
package scheduler

import (
	"context"
	"log/slog"
	"time"

	"meetups.app/service"
)

// Scheduler manages periodic maintenance tasks for the application
type Scheduler struct {
	tokenRepo       service.TokenRepositoryInterface
	cleanupInterval time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates a new task scheduler
func NewScheduler(tokenRepo service.TokenRepositoryInterface) *Scheduler {
	return &Scheduler{
		tokenRepo:       tokenRepo,
		cleanupInterval: 24 * time.Hour,
	}
}

// Start begins the scheduler's operations
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.scheduleInterval(ctx, s.cleanupInterval, s.cleanupExpiredTokens)
}

// Stop cancels the scheduled jobs and waits for the loop to exit
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	<-s.done
}

// scheduleInterval runs the job immediately, then on every tick until the
// context is cancelled.
func (s *Scheduler) scheduleInterval(ctx context.Context, interval time.Duration, job func(context.Context)) {
	defer close(s.done)

	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			job(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (s *Scheduler) cleanupExpiredTokens(ctx context.Context) {
	if err := s.tokenRepo.DeleteExpiredTokens(ctx); err != nil {
		slog.Error("Error cleaning up expired tokens", "error", err)
	}
}
