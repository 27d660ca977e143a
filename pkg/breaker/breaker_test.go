package breaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errDependency = errors.New("dependency failed")

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func newTestBreaker(threshold int, recovery time.Duration) (*Breaker, *fakeClock) {
	clock := &fakeClock{current: time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)}
	return New(threshold, recovery, WithClock(clock.Now)), clock
}

func failCall(b *Breaker) error {
	return b.Do(context.Background(), func(context.Context) error { return errDependency })
}

func okCall(b *Breaker) error {
	return b.Do(context.Background(), func(context.Context) error { return nil })
}

func TestBreakerStartsClosed(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)
	assert.Equal(t, StateClosed, b.State())
	assert.NoError(t, okCall(b))
}

func TestBreakerOpensAtThreshold(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	for i := 0; i < 2; i++ {
		require.ErrorIs(t, failCall(b), errDependency)
		assert.Equal(t, StateClosed, b.State())
	}

	require.ErrorIs(t, failCall(b), errDependency)
	assert.Equal(t, StateOpen, b.State())
}

func TestBreakerFailsFastWhileOpen(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)
	require.ErrorIs(t, failCall(b), errDependency)

	clock.Advance(30 * time.Second)

	called := false
	err := b.Do(context.Background(), func(context.Context) error {
		called = true
		return nil
	})

	require.ErrorIs(t, err, ErrCircuitOpen)
	assert.False(t, called, "dependency must not be touched while open")
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	b, _ := newTestBreaker(3, time.Minute)

	require.ErrorIs(t, failCall(b), errDependency)
	require.ErrorIs(t, failCall(b), errDependency)
	require.NoError(t, okCall(b))

	// The streak restarted, so two more failures stay under threshold.
	require.ErrorIs(t, failCall(b), errDependency)
	require.ErrorIs(t, failCall(b), errDependency)
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerHalfOpenAfterRecoveryTimeout(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)
	require.ErrorIs(t, failCall(b), errDependency)
	assert.Equal(t, StateOpen, b.State())

	clock.Advance(time.Minute)
	assert.Equal(t, StateHalfOpen, b.State())
}

func TestBreakerTrialSuccessCloses(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)
	require.ErrorIs(t, failCall(b), errDependency)
	clock.Advance(time.Minute)

	require.NoError(t, okCall(b))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerTrialFailureReopens(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)
	require.ErrorIs(t, failCall(b), errDependency)
	clock.Advance(time.Minute)

	require.ErrorIs(t, failCall(b), errDependency)
	assert.Equal(t, StateOpen, b.State())

	// The recovery timer restarted at the failed trial.
	clock.Advance(30 * time.Second)
	require.ErrorIs(t, okCall(b), ErrCircuitOpen)

	clock.Advance(30 * time.Second)
	require.NoError(t, okCall(b))
	assert.Equal(t, StateClosed, b.State())
}

func TestBreakerAdmitsSingleTrialWhileHalfOpen(t *testing.T) {
	b, clock := newTestBreaker(1, time.Minute)
	require.ErrorIs(t, failCall(b), errDependency)
	clock.Advance(time.Minute)

	entered := make(chan struct{})
	release := make(chan struct{})
	trialDone := make(chan error, 1)
	go func() {
		trialDone <- b.Do(context.Background(), func(context.Context) error {
			close(entered)
			<-release
			return nil
		})
	}()

	// Once the trial call holds the slot, every other caller fails fast.
	<-entered
	require.ErrorIs(t, okCall(b), ErrCircuitOpen)

	close(release)
	require.NoError(t, <-trialDone)
	assert.Equal(t, StateClosed, b.State())
}
