package breaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is the breaker's position. Modeled as an explicit value with
// guarded transitions rather than derived booleans.
type State string

const (
	StateClosed   State = "CLOSED"
	StateOpen     State = "OPEN"
	StateHalfOpen State = "HALF_OPEN"
)

// ErrCircuitOpen is returned without touching the dependency while the
// breaker is open. It is distinct from a genuine dependency failure so
// callers can fall back to a cached or canned response instead of
// retrying.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// Breaker gates calls to an unreliable dependency. threshold consecutive
// failures open it; after recoveryTimeout a single trial call probes
// recovery. Shared across concurrent callers; all state changes happen
// under one mutex so only one caller performs the open->half-open move.
type Breaker struct {
	mu sync.Mutex

	state    State
	failures int
	openedAt time.Time
	trialing bool

	threshold int
	recovery  time.Duration
	now       func() time.Time
}

type Option func(*Breaker)

// WithClock injects a clock so recovery-timeout behavior is testable
// without real waits.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		b.now = now
	}
}

func New(threshold int, recovery time.Duration, opts ...Option) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if recovery <= 0 {
		recovery = 30 * time.Second
	}
	b := &Breaker{
		state:     StateClosed,
		threshold: threshold,
		recovery:  recovery,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// State reports the current position, applying the open->half-open move
// if the recovery timeout has elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.refresh()
	return b.state
}

// Do runs fn under the breaker. While open it fails fast with
// ErrCircuitOpen; while half-open only a single trial is admitted and
// its outcome decides closed vs open.
func (b *Breaker) Do(ctx context.Context, fn func(context.Context) error) error {
	if err := b.admit(); err != nil {
		return err
	}

	err := fn(ctx)
	b.record(err == nil)
	return err
}

func (b *Breaker) admit() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.refresh()

	switch b.state {
	case StateOpen:
		return ErrCircuitOpen
	case StateHalfOpen:
		if b.trialing {
			// Another caller already holds the trial slot.
			return ErrCircuitOpen
		}
		b.trialing = true
	}
	return nil
}

func (b *Breaker) record(success bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateHalfOpen:
		b.trialing = false
		if success {
			b.state = StateClosed
			b.failures = 0
		} else {
			// Failed trial re-opens and restarts the recovery timer.
			b.state = StateOpen
			b.openedAt = b.now()
		}
	case StateClosed:
		if success {
			b.failures = 0
			return
		}
		b.failures++
		if b.failures >= b.threshold {
			b.state = StateOpen
			b.openedAt = b.now()
		}
	}
}

// refresh applies OPEN -> HALF_OPEN once the recovery timeout elapses.
// Caller must hold the mutex.
func (b *Breaker) refresh() {
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.recovery {
		b.state = StateHalfOpen
		b.trialing = false
	}
}
