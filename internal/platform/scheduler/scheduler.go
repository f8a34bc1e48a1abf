// Package scheduler runs a job on a fixed interval while a market is open.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// ErrAlreadyRunning is returned by RunNow while a run is in progress.
var ErrAlreadyRunning = errors.New("a run is already in progress")

// DefaultRunTimeout bounds a scheduled run, matching cmd/ingest.
const DefaultRunTimeout = 5 * time.Minute

// Job is one unit of scheduled work, e.g. an ingestion run.
type Job func(ctx context.Context) error

// MarketClock reports whether the market is open at t.
type MarketClock interface {
	IsOpen(t time.Time) bool
}

// Status is a snapshot of the scheduler's bookkeeping.
type Status struct {
	Running     bool      `json:"running"`
	LastRun     time.Time `json:"last_run"`
	LastSuccess time.Time `json:"last_success"`
	LastError   string    `json:"last_error,omitempty"`
	RunCount    int       `json:"run_count"`
	ErrorCount  int       `json:"error_count"`
}

// Scheduler triggers job every interval when clock says the market is open.
// Runs never overlap: a tick that arrives during a run is skipped.
type Scheduler struct {
	job        Job
	clock      MarketClock
	interval   time.Duration
	runTimeout time.Duration
	now        func() time.Time

	mu     sync.Mutex
	status Status
	wg     sync.WaitGroup
}

// New returns a Scheduler. clock may be nil to run regardless of market hours.
func New(job Job, clock MarketClock, interval time.Duration) *Scheduler {
	return &Scheduler{job: job, clock: clock, interval: interval, runTimeout: DefaultRunTimeout, now: time.Now}
}

// Run ticks once immediately and then every interval until ctx is done.
// Cancelling ctx only stops new ticks: an in-flight run keeps its own
// context, bounded by DefaultRunTimeout, and Run waits for it to finish.
func (s *Scheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	defer s.wg.Wait()

	slog.Info("scheduler started", "interval", s.interval)
	s.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			slog.Info("scheduler stopping")
			return
		case <-ticker.C:
			s.tick(ctx)
		}
	}
}

// tick starts a run in the background if the market is open and no run is active.
// The run is detached from ctx cancellation.
func (s *Scheduler) tick(ctx context.Context) {
	now := s.now()
	if s.clock != nil && !s.clock.IsOpen(now) {
		slog.Debug("market closed, skipping scheduled run", "at", now)
		return
	}
	if !s.begin(now) {
		slog.Info("previous run still in progress, skipping tick")
		return
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.runTimeout)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer cancel()
		_ = s.execute(runCtx)
	}()
}

// RunNow runs the job synchronously, ignoring market hours.
// It returns ErrAlreadyRunning if a run is in progress, otherwise the job's error.
func (s *Scheduler) RunNow(ctx context.Context) error {
	if !s.begin(s.now()) {
		return ErrAlreadyRunning
	}
	return s.execute(ctx)
}

// Status returns a copy of the current status.
func (s *Scheduler) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

func (s *Scheduler) begin(at time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status.Running {
		return false
	}
	s.status.Running = true
	s.status.LastRun = at
	s.status.RunCount++
	return true
}

func (s *Scheduler) execute(ctx context.Context) error {
	start := s.now()
	err := s.job(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.status.Running = false
	if err != nil {
		s.status.ErrorCount++
		s.status.LastError = err.Error()
		slog.Error("scheduled run failed", "error", err, "elapsed", s.now().Sub(start))
		return err
	}
	s.status.LastSuccess = s.now()
	s.status.LastError = ""
	slog.Info("scheduled run finished", "elapsed", s.now().Sub(start))
	return nil
}
