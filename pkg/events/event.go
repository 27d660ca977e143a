package events

import (
	"time"

	"github.com/google/uuid"
)

// Event defines the contract for all runtime events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_HANDOVER").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent helps embed common logic if needed,
// strictly creating valid implementations is preferred though.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	TypeSessionHandover  = "SESSION_HANDOVER"
	TypeDecisionRecorded = "DECISION_RECORDED"
)

// NewSessionHandoverEvent is emitted when a session enters HANDOVER so a
// human operator can pick the conversation up. Fire-and-forget from the
// runtime's side; delivery failures never fail the turn.
func NewSessionHandoverEvent(tenantId, sessionId uuid.UUID, newState string) Event {
	return BaseEvent{
		Type: TypeSessionHandover,
		Data: map[string]interface{}{
			"tenant_id":  tenantId,
			"session_id": sessionId,
			"new_state":  newState,
		},
		OccurredAt: time.Now(),
	}
}

// NewDecisionRecordedEvent is emitted after a decision event has been
// durably persisted, for usage-accounting consumers.
func NewDecisionRecordedEvent(tenantId, sessionId, decisionId uuid.UUID, kind string, costUSD float64, totalTokens int) Event {
	return BaseEvent{
		Type: TypeDecisionRecorded,
		Data: map[string]interface{}{
			"tenant_id":    tenantId,
			"session_id":   sessionId,
			"decision_id":  decisionId,
			"kind":         kind,
			"cost_usd":     costUSD,
			"total_tokens": totalTokens,
		},
		OccurredAt: time.Now(),
	}
}
