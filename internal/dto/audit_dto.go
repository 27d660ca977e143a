package dto

import (
	"time"

	"github.com/google/uuid"
)

type ListDecisionsRequest struct {
	SessionId *uuid.UUID
	Kind      string
	Limit     int
	Offset    int
}

type DecisionEventResponse struct {
	Id               uuid.UUID  `json:"id"`
	SessionId        uuid.UUID  `json:"session_id"`
	TurnId           *uuid.UUID `json:"turn_id"`
	Kind             string     `json:"kind"`
	Reason           string     `json:"reason"`
	CostUSD          float64    `json:"cost_usd"`
	PromptTokens     int        `json:"prompt_tokens"`
	CompletionTokens int        `json:"completion_tokens"`
	TotalTokens      int        `json:"total_tokens"`
	LatencyMs        int64      `json:"latency_ms"`
	CreatedAt        time.Time  `json:"created_at"`
}

type GuardrailCheckResponse struct {
	Id            uuid.UUID `json:"id"`
	GuardrailCode string    `json:"guardrail_code"`
	Passed        bool      `json:"passed"`
	Violation     string    `json:"violation,omitempty"`
}

type ActionExecutionResponse struct {
	Id         uuid.UUID              `json:"id"`
	ActionType string                 `json:"action_type"`
	Status     string                 `json:"status"`
	Request    map[string]interface{} `json:"request"`
	Response   map[string]interface{} `json:"response"`
	StartedAt  time.Time              `json:"started_at"`
	FinishedAt *time.Time             `json:"finished_at"`
}

type ShowDecisionResponse struct {
	Event   *DecisionEventResponse     `json:"event"`
	Checks  []*GuardrailCheckResponse  `json:"checks"`
	Actions []*ActionExecutionResponse `json:"actions"`
}
