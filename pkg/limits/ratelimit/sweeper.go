package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweep every 5 minutes.
const DefaultSweepSchedule = "*/5 * * * *"

// Sweeper periodically removes expired entries from registered limiters
// so long-idle identifiers do not accumulate unbounded memory.
type Sweeper struct {
	schedule string
	cron     *cron.Cron
	logger   *slog.Logger

	mu       sync.Mutex
	limiters map[string]*FixedWindowLimiter
	running  bool
}

// NewSweeper creates a sweeper with the given cron schedule.
// An empty schedule uses DefaultSweepSchedule.
func NewSweeper(schedule string) *Sweeper {
	if schedule == "" {
		schedule = DefaultSweepSchedule
	}
	return &Sweeper{
		schedule: schedule,
		cron:     cron.New(),
		logger:   slog.Default().With("component", "ratelimit.sweeper"),
		limiters: make(map[string]*FixedWindowLimiter),
	}
}

// Register adds a named limiter to the sweep set.
func (s *Sweeper) Register(name string, limiter *FixedWindowLimiter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.limiters[name] = limiter
}

// Start begins the scheduled sweeping. The sweeper stops when ctx is
// cancelled.
func (s *Sweeper) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	if _, err := cron.ParseStandard(s.schedule); err != nil {
		return fmt.Errorf("invalid sweep schedule %q: %w", s.schedule, err)
	}

	if _, err := s.cron.AddFunc(s.schedule, s.sweepAll); err != nil {
		return fmt.Errorf("failed to schedule sweep: %w", err)
	}

	s.cron.Start()
	s.running = true

	s.logger.Info("rate limit sweeper started", "schedule", s.schedule)

	go func() {
		<-ctx.Done()
		s.Stop()
	}()

	return nil
}

// Stop halts the scheduled sweeping.
func (s *Sweeper) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return
	}

	s.cron.Stop()
	s.running = false
	s.logger.Info("rate limit sweeper stopped")
}

func (s *Sweeper) sweepAll() {
	s.mu.Lock()
	limiters := make(map[string]*FixedWindowLimiter, len(s.limiters))
	for name, limiter := range s.limiters {
		limiters[name] = limiter
	}
	s.mu.Unlock()

	for name, limiter := range limiters {
		removed := limiter.Sweep()
		if removed > 0 {
			s.logger.Debug("swept expired rate limit entries",
				"limiter", name,
				"removed", removed,
				"remaining", limiter.Len(),
			)
		}
	}
}
