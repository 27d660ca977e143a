package decision

import (
	"time"

	"convo-commerce-be/pkg/lifecycle"
	"convo-commerce-be/pkg/llm"

	"github.com/google/uuid"
)

// Kind classifies a recorded decision. The set is closed: persistence and
// audit reads reject values outside it.
type Kind string

const (
	KindProceed                       Kind = "PROCEED"
	KindAskClarify                    Kind = "ASK_CLARIFY"
	KindGuardrailBlock                Kind = "GUARDRAIL_BLOCK"
	KindFallback                      Kind = "FALLBACK"
	KindResolveConflict               Kind = "RESOLVE_CONFLICT"
	KindTransitionState               Kind = "TRANSITION_STATE"
	KindRequestReferenceClarification Kind = "REQUEST_REFERENCE_CLARIFICATION"
	KindInvalidStateForAction         Kind = "INVALID_STATE_FOR_ACTION"
)

var validKinds = map[Kind]bool{
	KindProceed:                       true,
	KindAskClarify:                    true,
	KindGuardrailBlock:                true,
	KindFallback:                      true,
	KindResolveConflict:               true,
	KindTransitionState:               true,
	KindRequestReferenceClarification: true,
	KindInvalidStateForAction:         true,
}

// IsValid reports whether k belongs to the closed decision kind set.
func (k Kind) IsValid() bool {
	return validKinds[k]
}

// Action execution statuses. STARTED is the only non-terminal status and the
// only one a finish call may replace.
const (
	ActionStarted = "STARTED"
	ActionSuccess = "SUCCESS"
	ActionFailed  = "FAILED"
	ActionTimeout = "TIMEOUT"
)

// ActionRequest is a side effect the reasoning step asked for, executed
// after the decision is durably recorded.
type ActionRequest struct {
	Type    string
	Payload map[string]interface{}
}

// Reasoning is what the upstream reasoning step (usually the LLM) concluded
// about a turn before the pipeline applies guardrails and state checks.
type Reasoning struct {
	Kind        Kind
	Reason      string
	Response    string
	TargetState lifecycle.State
	Action      *ActionRequest
	Usage       llm.Usage
	CostUSD     float64
}

// TurnContext carries the immutable facts of one inbound turn through the
// pipeline.
type TurnContext struct {
	TenantId  uuid.UUID
	BotId     uuid.UUID
	SessionId uuid.UUID
	TurnId    *uuid.UUID
	Message   string
	StartedAt time.Time

	// Params feeds guardrail condition evaluation.
	Params map[string]interface{}
}
