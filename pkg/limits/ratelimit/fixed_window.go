package ratelimit

import (
	"sync"
	"time"
)

// entry tracks one identifier's usage within the current window.
type entry struct {
	count int
	reset time.Time
}

// FixedWindowLimiter is a keyed fixed-window rate limiter.
//
// Each identifier gets an independent window. A window opens on the
// identifier's first request and closes exactly Window later; requests
// inside an open window count against MaxRequests, and the count is not
// incremented past the maximum once the limit is hit.
//
// A request arriving at exactly the reset instant still belongs to the
// old window; only a strictly later request opens a new one.
type FixedWindowLimiter struct {
	config Config

	mu      sync.Mutex
	entries map[string]*entry

	// now is replaceable for tests.
	now func() time.Time
}

// NewFixedWindowLimiter creates a limiter with the given configuration.
// Zero config fields fall back to the defaults.
func NewFixedWindowLimiter(config Config) *FixedWindowLimiter {
	defaults := DefaultConfig()
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	if config.MaxRequests <= 0 {
		config.MaxRequests = defaults.MaxRequests
	}

	return &FixedWindowLimiter{
		config:  config,
		entries: make(map[string]*entry),
		now:     time.Now,
	}
}

// Check records a request for identifier and reports whether it is allowed.
func (l *FixedWindowLimiter) Check(identifier string) Result {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()

	e, ok := l.entries[identifier]
	if !ok || now.After(e.reset) {
		e = &entry{
			count: 1,
			reset: now.Add(l.config.Window),
		}
		l.entries[identifier] = e
		return Result{
			Allowed:   true,
			Limit:     l.config.MaxRequests,
			Remaining: l.config.MaxRequests - 1,
			Reset:     e.reset,
		}
	}

	if e.count >= l.config.MaxRequests {
		return Result{
			Allowed:    false,
			Limit:      l.config.MaxRequests,
			Remaining:  0,
			Reset:      e.reset,
			RetryAfter: e.reset.Sub(now),
		}
	}

	e.count++
	return Result{
		Allowed:   true,
		Limit:     l.config.MaxRequests,
		Remaining: l.config.MaxRequests - e.count,
		Reset:     e.reset,
	}
}

// Sweep removes entries whose window has passed and returns how many
// were removed.
func (l *FixedWindowLimiter) Sweep() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	removed := 0
	for identifier, e := range l.entries {
		if now.After(e.reset) {
			delete(l.entries, identifier)
			removed++
		}
	}
	return removed
}

// Len returns the number of tracked identifiers.
func (l *FixedWindowLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Config returns the limiter's configuration.
func (l *FixedWindowLimiter) Config() Config {
	return l.config
}
