// Package sweep periodically moves checked-in visitors whose visit window
// has elapsed to the overdue state.
package sweep

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/evcraddock/gatehouse/internal/metrics"
	"github.com/evcraddock/gatehouse/internal/store"
	"github.com/evcraddock/gatehouse/internal/visitor"
)

// DefaultInterval is how often the sweep runs.
const DefaultInterval = time.Minute

// Dispatcher is the part of the store the sweeper needs.
type Dispatcher interface {
	Snapshot() *store.State
	Dispatch(in store.Intent) (*store.State, error)
}

// Sweeper owns the overdue ticker for one store.
type Sweeper struct {
	store       Dispatcher
	interval    time.Duration
	maxDuration time.Duration
	loc         *time.Location
	now         func() time.Time
	logger      *slog.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// Option configures a Sweeper.
type Option func(*Sweeper)

// WithInterval sets how often the sweep runs.
func WithInterval(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithMaxDuration sets how long a visit may last.
func WithMaxDuration(d time.Duration) Option {
	return func(s *Sweeper) {
		if d > 0 {
			s.maxDuration = d
		}
	}
}

// WithLocation sets the zone visit dates and times are interpreted in.
func WithLocation(loc *time.Location) Option {
	return func(s *Sweeper) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithClock sets the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) { s.logger = logger }
}

// New creates a sweeper for st. It does nothing until started.
func New(st Dispatcher, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:       st,
		interval:    DefaultInterval,
		maxDuration: visitor.DefaultMaxDuration,
		loc:         time.Local,
		now:         time.Now,
		logger:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunOnce examines every active visitor and marks those past their visit
// window overdue. It returns how many visitors it moved.
func (s *Sweeper) RunOnce() int {
	now := s.now()
	overdue := visitor.StatusOverdue
	moved := 0

	for _, v := range s.store.Snapshot().VisitorsByStatus(visitor.StatusActive) {
		if !v.IsOverdue(now, s.loc, s.maxDuration) {
			continue
		}
		// A check-out or another sweep may land between the snapshot and
		// this dispatch; the store then rejects the transition.
		if _, err := s.store.Dispatch(store.UpdateVisitor{ID: v.ID, Patch: visitor.Patch{Status: &overdue}}); err != nil {
			s.logger.Debug("visitor not marked overdue", "visitor_id", v.ID, "reason", err.Error())
			continue
		}
		s.logger.Info("visitor overdue", "visitor_id", v.ID, "unit", v.VisitingUnit)
		moved++
	}

	metrics.ObserveSweep(moved)
	return moved
}

// Run sweeps on every tick until ctx is done.
func (s *Sweeper) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.logger.Info("overdue sweep started",
		slog.Duration("interval", s.interval),
		slog.Duration("max_duration", s.maxDuration),
	)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("overdue sweep stopped")
			return nil
		case <-ticker.C:
			s.RunOnce()
		}
	}
}

// Start runs the sweep in the background. Calling Start while running does
// nothing; Start after Stop arms it again.
func (s *Sweeper) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	s.cancel = cancel
	s.done = done

	go func() {
		defer close(done)
		_ = s.Run(ctx)

		// The parent context ended this run; disarm unless Stop already did.
		s.mu.Lock()
		if s.done == done {
			s.cancel, s.done = nil, nil
		}
		s.mu.Unlock()
		cancel()
	}()
}

// Stop cancels the background sweep and waits for it to exit. After Stop
// returns no further intents are dispatched.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel, s.done = nil, nil
	s.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}

// Running reports whether the background sweep is armed.
func (s *Sweeper) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cancel != nil
}
