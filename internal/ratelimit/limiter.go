// Package ratelimit enforces per-source request cadence for job board
// clients. Each source gets an interval gate plus a cooldown-based
// rate-limited flag with exponential backoff on repeated throttling.
package ratelimit

import (
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/honeycarbs/jobscout/internal/domain"
)

// DefaultMaxBackoff caps the throttling cooldown
const DefaultMaxBackoff = 5 * time.Minute

// Option configures a Limiter
type Option func(*Limiter)

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(l *Limiter) {
		l.clock = clock
	}
}

// WithMaxBackoff caps the exponential throttling backoff
func WithMaxBackoff(max time.Duration) Option {
	return func(l *Limiter) {
		if max > 0 {
			l.maxBackoff = max
		}
	}
}

// State is a read-only snapshot of one source's limiter accounting.
// Source clients may read it but only the limiter mutates it.
type State struct {
	LastRequest   time.Time
	MinInterval   time.Duration
	Limited       bool
	CooldownUntil time.Time
}

type sourceState struct {
	gate          *rate.Limiter
	minInterval   time.Duration
	lastRequest   time.Time
	limited       bool
	backoff       time.Duration
	cooldownUntil time.Time
}

// Limiter owns the per-source request accounting. The check-and-update
// in Acquire happens under one lock so two concurrent callers cannot
// both pass the gate inside the same interval.
type Limiter struct {
	mu         sync.Mutex
	sources    map[string]*sourceState
	clock      func() time.Time
	maxBackoff time.Duration
}

// New builds an empty Limiter; sources are added with Register
func New(opts ...Option) *Limiter {
	l := &Limiter{
		sources:    make(map[string]*sourceState),
		clock:      time.Now,
		maxBackoff: DefaultMaxBackoff,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Register adds a source with its minimum inter-request interval.
// Registering an already known source resets its accounting.
func (l *Limiter) Register(source string, minInterval time.Duration) error {
	if source == "" {
		return fmt.Errorf("ratelimit: source name is required")
	}
	if minInterval <= 0 {
		return fmt.Errorf("ratelimit: min interval must be positive, got %v", minInterval)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sources[source] = &sourceState{
		gate:        rate.NewLimiter(rate.Every(minInterval), 1),
		minInterval: minInterval,
	}
	return nil
}

// Acquire admits one request for the source or fails with
// domain.ErrRateLimited. A request is admitted only when the source is
// not in cooldown and at least the minimum interval has passed since
// the last admission.
func (l *Limiter) Acquire(source string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.sources[source]
	if !ok {
		return fmt.Errorf("ratelimit: unknown source %q", source)
	}

	now := l.clock()

	if st.limited {
		if now.Before(st.cooldownUntil) {
			return fmt.Errorf("%w: %s in cooldown for %v", domain.ErrRateLimited, source, st.cooldownUntil.Sub(now))
		}
		// Cooldown elapsed, the source may be probed again.
		st.limited = false
	}

	if !st.gate.AllowN(now, 1) {
		return fmt.Errorf("%w: %s minimum interval %v not elapsed", domain.ErrRateLimited, source, st.minInterval)
	}

	st.lastRequest = now
	return nil
}

// ReportThrottled records a provider-reported throttling signal (an
// HTTP 429 equivalent). The source enters cooldown with exponential
// backoff, doubling on every repeated signal up to the configured cap.
func (l *Limiter) ReportThrottled(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.sources[source]
	if !ok {
		return
	}

	if st.backoff <= 0 {
		st.backoff = st.minInterval
	} else {
		st.backoff *= 2
	}
	if st.backoff > l.maxBackoff {
		st.backoff = l.maxBackoff
	}

	st.limited = true
	st.cooldownUntil = l.clock().Add(st.backoff)
}

// ReportSuccess records one fully successful request cycle, clearing
// the rate-limited flag and resetting the backoff to its base interval.
func (l *Limiter) ReportSuccess(source string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.sources[source]
	if !ok {
		return
	}

	st.limited = false
	st.backoff = 0
	st.cooldownUntil = time.Time{}
}

// IsLimited reports whether the source is currently in cooldown. Pure
// read, no side effects: an elapsed cooldown is only cleared by the
// next Acquire.
func (l *Limiter) IsLimited(source string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.sources[source]
	if !ok {
		return false
	}
	return st.limited && l.clock().Before(st.cooldownUntil)
}

// Snapshot returns a copy of the source's accounting for callers that
// need to inspect it
func (l *Limiter) Snapshot(source string) (State, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	st, ok := l.sources[source]
	if !ok {
		return State{}, false
	}
	return State{
		LastRequest:   st.lastRequest,
		MinInterval:   st.minInterval,
		Limited:       st.limited,
		CooldownUntil: st.cooldownUntil,
	}, true
}
