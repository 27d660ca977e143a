package lifecycle

import (
	"errors"
	"fmt"
)

// State is one of the closed set of conversation phases a session
// occupies.
type State string

const (
	StateIdle       State = "IDLE"
	StateBrowsing   State = "BROWSING"
	StateViewing    State = "VIEWING"
	StatePurchasing State = "PURCHASING"
	StateHandover   State = "HANDOVER"
)

var (
	// ErrInvalidTransition marks a requested edge that is neither in the
	// allowed table nor a self transition. Nothing is mutated.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrVersionConflict marks a compare-and-swap loss: another turn
	// already advanced the session. Callers re-read and retry.
	ErrVersionConflict = errors.New("session version conflict")
	ErrSessionNotFound = errors.New("session not found")
)

// transitions is the allowed-edge table. HANDOVER is reachable from every
// state, and self transitions are always valid regardless of the table.
var transitions = map[State][]State{
	StateIdle:       {StateBrowsing, StateHandover},
	StateBrowsing:   {StateViewing, StateHandover},
	StateViewing:    {StatePurchasing, StateBrowsing, StateHandover},
	StatePurchasing: {StateBrowsing, StateHandover},
	StateHandover:   {},
}

func IsValid(s State) bool {
	_, ok := transitions[s]
	return ok
}

// CanTransition reports whether the (from, to) edge is allowed. A self
// transition on a known state is always permitted as an idempotent no-op
// re-entry.
func CanTransition(from, to State) bool {
	if !IsValid(from) || !IsValid(to) {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

func newInvalidTransition(from, to State) error {
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
}
