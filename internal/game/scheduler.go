package game

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Cycler runs one simulation cycle.
type Cycler interface {
	RunCycle(ctx context.Context) CycleReport
}

// Scheduler runs cycles on a ticker and on demand. Cycles never overlap.
type Scheduler struct {
	cycler   Cycler
	interval time.Duration
	log      *zap.Logger

	cycleMu sync.Mutex

	mu      sync.Mutex
	last    *CycleReport
	ticker  *time.Ticker
	cancel  context.CancelFunc
	running bool
	done    chan struct{}
}

func NewScheduler(c Cycler, interval time.Duration, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Scheduler{cycler: c, interval: interval, log: log}
}

// Start begins the ticker loop. Calling Start on a running scheduler
// restarts its ticker.
func (s *Scheduler) Start(ctx context.Context) {
	s.Pause()

	s.mu.Lock()
	defer s.mu.Unlock()
	loopCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.ticker = time.NewTicker(s.interval)
	s.running = true
	s.done = make(chan struct{})

	go func(ctx context.Context, ticks <-chan time.Time, done chan struct{}) {
		defer close(done)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticks:
				s.runOnce(ctx)
			}
		}
	}(loopCtx, s.ticker.C, s.done)
	s.log.Info("scheduler started", zap.Duration("interval", s.interval))
}

// Pause stops the ticker loop and waits for an in-flight cycle to finish.
func (s *Scheduler) Pause() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.cancel = nil
	s.done = nil
	wasRunning := s.running
	s.running = false
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
	if wasRunning {
		s.log.Info("scheduler paused")
	}
}

// Run starts the loop and blocks until ctx is done.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start(ctx)
	<-ctx.Done()
	s.Pause()
	return nil
}

func (s *Scheduler) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Trigger runs a cycle now, waiting for any cycle in flight.
func (s *Scheduler) Trigger(ctx context.Context) CycleReport {
	return s.runOnce(ctx)
}

// Exclusive runs fn while no cycle is in flight. Cycles triggered or
// ticked meanwhile wait for fn to return.
func (s *Scheduler) Exclusive(ctx context.Context, fn func(context.Context) error) error {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	return fn(ctx)
}

// Last returns the most recent report.
func (s *Scheduler) Last() (CycleReport, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.last == nil {
		return CycleReport{}, false
	}
	return *s.last, true
}

func (s *Scheduler) runOnce(ctx context.Context) CycleReport {
	s.cycleMu.Lock()
	defer s.cycleMu.Unlock()
	rep := s.cycler.RunCycle(ctx)
	s.mu.Lock()
	s.last = &rep
	s.mu.Unlock()
	return rep
}
