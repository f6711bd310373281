// Package circuitbreaker provides the caller-side DOS defense spec.md §5
// describes for callers exposing verification as a network service:
// repeated failures trip the breaker; while tripped, new verifications are
// refused fast. The breaker is opaque to the verification algorithm itself.
package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrOpen is returned by Allow when the breaker is tripped and refusing
// new work.
var ErrOpen = errors.New("circuitbreaker: open, refusing new verifications")

// State names the breaker's three states.
type State int

const (
	Closed State = iota
	Open
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config controls trip sensitivity and cooldown pacing.
type Config struct {
	// Window is the sliding duration over which failures are counted.
	Window time.Duration
	// FailureThreshold trips the breaker once this many failures occur
	// inside Window.
	FailureThreshold int
	// Backoff paces the half-open cooldown between Open and the next
	// trial request; grounded on cenkalti/backoff's ExponentialBackOff,
	// the library's standard building block for cooldown timers.
	Backoff backoff.BackOff
}

// DefaultConfig returns a conservative starting configuration: 5 failures
// inside 30 seconds trips the breaker, with exponential cooldown capped at
// one minute.
func DefaultConfig() Config {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 200 * time.Millisecond
	b.MaxInterval = 1 * time.Minute
	b.MaxElapsedTime = 0 // never give up retrying internally; caller decides
	return Config{
		Window:           30 * time.Second,
		FailureThreshold: 5,
		Backoff:          b,
	}
}

// Breaker tracks verification outcomes for one caller-defined scope (e.g.
// one network listener) and refuses new work while tripped. Safe for
// concurrent use.
type Breaker struct {
	mu       sync.Mutex
	cfg      Config
	failures []time.Time
	state    State
	cooldown time.Time
	now      func() time.Time
}

// New constructs a Breaker in the Closed state.
func New(cfg Config) *Breaker {
	return &Breaker{cfg: cfg, state: Closed, now: time.Now}
}

// Allow reports whether a new verification may proceed. It transitions
// Open -> HalfOpen once the current cooldown interval elapses, the same
// half-open probe pattern backoff.BackOff is designed to pace.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case Closed:
		return nil
	case Open:
		if b.now().Before(b.cooldown) {
			return ErrOpen
		}
		b.state = HalfOpen
		return nil
	case HalfOpen:
		return nil
	default:
		return nil
	}
}

// RecordSuccess reports a successful verification. In HalfOpen, a success
// closes the breaker and resets its failure window.
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == HalfOpen {
		b.state = Closed
		b.cfg.Backoff.Reset()
	}
	b.failures = nil
}

// RecordFailure reports a failed verification. In HalfOpen, any failure
// reopens the breaker immediately and advances the cooldown. In Closed, a
// failure is appended to the sliding window; crossing FailureThreshold
// trips the breaker.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	if b.state == HalfOpen {
		b.trip(now)
		return
	}

	b.failures = append(b.failures, now)
	b.failures = pruneBefore(b.failures, now.Add(-b.cfg.Window))
	if len(b.failures) >= b.cfg.FailureThreshold {
		b.trip(now)
	}
}

func (b *Breaker) trip(now time.Time) {
	b.state = Open
	b.cooldown = now.Add(b.cfg.Backoff.NextBackOff())
	b.failures = nil
}

// State reports the breaker's current state without side effects.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

func pruneBefore(times []time.Time, cutoff time.Time) []time.Time {
	kept := times[:0]
	for _, t := range times {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	return kept
}
