package entity

import (
	"time"

	"github.com/google/uuid"
)

// DecisionEvent is the durable, classified outcome of one conversational
// turn. Exactly one per turn, append-only.
type DecisionEvent struct {
	Id               uuid.UUID
	TenantId         uuid.UUID
	SessionId        uuid.UUID
	TurnId           *uuid.UUID
	Kind             string
	Reason           string
	CostUSD          float64
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	LatencyMs        int64
	CreatedAt        time.Time
}

// GuardrailCheck records a single guardrail evaluation tied to a decision.
type GuardrailCheck struct {
	Id            uuid.UUID
	TenantId      uuid.UUID
	DecisionId    uuid.UUID
	GuardrailCode string
	Passed        bool
	Violation     string
	CreatedAt     time.Time
}

// ActionExecution records one external effect authorized by a decision.
// Status only moves started -> terminal; retries create a new record.
type ActionExecution struct {
	Id         uuid.UUID
	TenantId   uuid.UUID
	DecisionId uuid.UUID
	ActionType string
	Request    map[string]interface{}
	Response   map[string]interface{}
	Status     string
	StartedAt  time.Time
	FinishedAt *time.Time
}
