package services

import (
	"context"
	"sync"
	"time"

	"github.com/Acurioustractor/airtable-notion-sync/internal/core/ports/driving"
	"github.com/Acurioustractor/airtable-notion-sync/internal/logger"
)

// Scheduler runs sync passes at a fixed interval. Passes execute
// serially on the scheduler's own goroutine, so they can never overlap;
// that is the guarantee the state store's locking-free design relies on.
type Scheduler struct {
	runner driving.SyncRunner

	mu       sync.Mutex
	interval time.Duration
	running  bool
	stopCh   chan struct{}
	resetCh  chan time.Duration
}

// NewScheduler creates a scheduler running passes every interval.
func NewScheduler(interval time.Duration, runner driving.SyncRunner) *Scheduler {
	return &Scheduler{
		runner:   runner,
		interval: interval,
		resetCh:  make(chan time.Duration, 1),
	}
}

// Start runs one pass immediately, then one per interval. Blocks until
// Stop is called or the context is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil
	}
	s.running = true
	s.stopCh = make(chan struct{})
	interval := s.interval
	s.mu.Unlock()

	logger.Info("Scheduler started: pass every %s", interval)
	s.runOnce(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.stopCh:
			return nil
		case d := <-s.resetCh:
			ticker.Reset(d)
			logger.Info("Scheduler interval changed to %s", d)
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

// Stop shuts the scheduler down. The in-flight pass, if any, completes.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return
	}
	s.running = false
	close(s.stopCh)
}

// SetInterval changes the pass interval. Takes effect for the next
// tick. Safe to call while running; used by the config file watcher.
func (s *Scheduler) SetInterval(d time.Duration) {
	if d <= 0 {
		return
	}
	s.mu.Lock()
	if s.interval == d {
		s.mu.Unlock()
		return
	}
	s.interval = d
	running := s.running
	s.mu.Unlock()

	if running {
		select {
		case s.resetCh <- d:
		default:
		}
	}
}

// Interval returns the current pass interval.
func (s *Scheduler) Interval() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.interval
}

// runOnce executes a single pass, logging rather than propagating its
// failure: the next scheduled pass is the retry mechanism.
func (s *Scheduler) runOnce(ctx context.Context) {
	synced, err := s.runner.RunPass(ctx)
	if err != nil {
		logger.Error("Scheduled pass failed: %v", err)
		return
	}
	logger.Info("Scheduled pass wrote %d records", len(synced))
}
