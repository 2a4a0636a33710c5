// Package ratelimit provides a best-effort, in-memory sliding-window rate
// limiter keyed by account and action. It sits upstream of the moderation
// pipeline, is not correctness-critical, and does not survive process
// restarts.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Clock abstracts the time source so tests can drive the window.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall-clock time source.
func SystemClock() Clock { return systemClock{} }

// Limiter is a sliding-window counter over (account, action) keys. All state
// is process-local; entries are dropped by Allow on access and by the
// periodic sweeper.
type Limiter struct {
	mu     sync.Mutex
	events map[string][]time.Time
	limit  int
	window time.Duration
	clock  Clock
}

// New builds a limiter allowing `limit` events per `window` per key.
func New(limit int, window time.Duration, clock Clock) *Limiter {
	if clock == nil {
		clock = SystemClock()
	}
	return &Limiter{
		events: make(map[string][]time.Time),
		limit:  limit,
		window: window,
		clock:  clock,
	}
}

// Allow records an attempt for the account+action key and reports whether it
// fits inside the window.
func (l *Limiter) Allow(accountID uint, action string) bool {
	key := fmt.Sprintf("%d:%s", accountID, action)
	now := l.clock.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := pruneBefore(l.events[key], cutoff)
	if len(kept) >= l.limit {
		l.events[key] = kept
		return false
	}
	l.events[key] = append(kept, now)
	return true
}

// Sweep drops all expired entries. Allow already prunes per key on access;
// the sweep bounds memory for keys that go quiet.
func (l *Limiter) Sweep() {
	cutoff := l.clock.Now().Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	for key, events := range l.events {
		kept := pruneBefore(events, cutoff)
		if len(kept) == 0 {
			delete(l.events, key)
			continue
		}
		l.events[key] = kept
	}
}

// StartSweeper runs Sweep on the interval until the context is cancelled.
func (l *Limiter) StartSweeper(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				l.Sweep()
			}
		}
	}()
}

// Len returns the number of tracked keys, for tests and diagnostics.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

func pruneBefore(events []time.Time, cutoff time.Time) []time.Time {
	kept := events[:0]
	for _, t := range events {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
