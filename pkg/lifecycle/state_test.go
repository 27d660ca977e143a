package lifecycle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    State
		to      State
		allowed bool
	}{
		{name: "idle to browsing", from: StateIdle, to: StateBrowsing, allowed: true},
		{name: "idle to handover", from: StateIdle, to: StateHandover, allowed: true},
		{name: "idle to purchasing skips browsing", from: StateIdle, to: StatePurchasing, allowed: false},
		{name: "browsing to viewing", from: StateBrowsing, to: StateViewing, allowed: true},
		{name: "browsing to purchasing skips viewing", from: StateBrowsing, to: StatePurchasing, allowed: false},
		{name: "viewing to purchasing", from: StateViewing, to: StatePurchasing, allowed: true},
		{name: "viewing back to browsing", from: StateViewing, to: StateBrowsing, allowed: true},
		{name: "purchasing back to browsing", from: StatePurchasing, to: StateBrowsing, allowed: true},
		{name: "purchasing to viewing", from: StatePurchasing, to: StateViewing, allowed: false},
		{name: "handover is terminal", from: StateHandover, to: StateBrowsing, allowed: false},
		{name: "handover reachable from purchasing", from: StatePurchasing, to: StateHandover, allowed: true},
		{name: "self transition is idempotent", from: StateBrowsing, to: StateBrowsing, allowed: true},
		{name: "handover self transition", from: StateHandover, to: StateHandover, allowed: true},
		{name: "unknown source", from: State("SLEEPING"), to: StateBrowsing, allowed: false},
		{name: "unknown target", from: StateBrowsing, to: State("SLEEPING"), allowed: false},
		{name: "unknown self transition", from: State("SLEEPING"), to: State("SLEEPING"), allowed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestIsValid(t *testing.T) {
	for _, s := range []State{StateIdle, StateBrowsing, StateViewing, StatePurchasing, StateHandover} {
		assert.True(t, IsValid(s), string(s))
	}
	assert.False(t, IsValid(State("")))
	assert.False(t, IsValid(State("idle")))
}

func TestInvalidTransitionErrorNamesTheEdge(t *testing.T) {
	err := newInvalidTransition(StateHandover, StateBrowsing)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Contains(t, err.Error(), "HANDOVER -> BROWSING")
}
