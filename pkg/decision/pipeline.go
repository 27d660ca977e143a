package decision

import (
	"context"
	"errors"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/pkg/events"
	"convo-commerce-be/pkg/flowgraph"
	"convo-commerce-be/pkg/guardrail"
	"convo-commerce-be/pkg/lifecycle"

	"github.com/google/uuid"
)

// Store persists decision records. Recording is the one step of the pipeline
// that is allowed to fail the turn: a decision that cannot be written is a
// decision that did not happen.
type Store interface {
	RecordDecision(ctx context.Context, event *entity.DecisionEvent, checks []*entity.GuardrailCheck) error
	StartAction(ctx context.Context, execution *entity.ActionExecution) error
	FinishAction(ctx context.Context, tenantId, executionId uuid.UUID, status string, response map[string]interface{}, finishedAt time.Time) error
}

// Transitioner applies a validated lifecycle transition. Satisfied by
// lifecycle.Machine.
type Transitioner interface {
	Transition(ctx context.Context, tenantId, sessionId uuid.UUID, target lifecycle.State, expectedVersion int64) (*entity.Session, error)
}

// ActionExecutor performs the external side effect an action request names.
type ActionExecutor interface {
	Execute(ctx context.Context, tenantId uuid.UUID, action ActionRequest) (map[string]interface{}, error)
}

// EventPublisher fans the recorded decision out to async consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Outcome is everything one pipeline run produced.
type Outcome struct {
	Event   *entity.DecisionEvent
	Checks  []*entity.GuardrailCheck
	Action  *entity.ActionExecution
	Report  *guardrail.Report

	// Session is the post-transition session when the decision moved
	// state, nil otherwise.
	Session *entity.Session
}

// Pipeline turns a reasoning result into a durable, guardrail-checked
// decision record, then runs any authorized side effect.
type Pipeline struct {
	store         Store
	machine       Transitioner
	evaluator     *guardrail.Evaluator
	executor      ActionExecutor
	bus           EventPublisher
	logger        logger.ILogger
	actionTimeout time.Duration
}

func NewPipeline(
	store Store,
	machine Transitioner,
	evaluator *guardrail.Evaluator,
	executor ActionExecutor,
	bus EventPublisher,
	log logger.ILogger,
	actionTimeout time.Duration,
) *Pipeline {
	if actionTimeout <= 0 {
		actionTimeout = 10 * time.Second
	}
	return &Pipeline{
		store:         store,
		machine:       machine,
		evaluator:     evaluator,
		executor:      executor,
		bus:           bus,
		logger:        log,
		actionTimeout: actionTimeout,
	}
}

// Decide runs the full pipeline for one turn: guardrails, classification,
// transition, durable record, side effect. A version conflict on a state
// transition is returned before anything is recorded so the caller can
// re-read the session and retry the whole turn.
func (p *Pipeline) Decide(
	ctx context.Context,
	turn TurnContext,
	session *entity.Session,
	graph *flowgraph.Graph,
	rails []*entity.Guardrail,
	reasoning Reasoning,
) (*Outcome, error) {
	report := p.evaluator.Evaluate(rails, turn.Params)

	kind := reasoning.Kind
	if !kind.IsValid() {
		kind = KindProceed
	}
	reason := reasoning.Reason

	switch {
	case report.Blocked():
		kind = KindGuardrailBlock
		reason = lastViolation(report)
	case report.FellBack():
		kind = KindFallback
		reason = lastViolation(report)
	}

	var updated *entity.Session
	if kind == KindTransitionState {
		var err error
		updated, err = p.applyTransition(ctx, turn, session, graph, reasoning.TargetState)
		switch {
		case errors.Is(err, lifecycle.ErrVersionConflict):
			return nil, err
		case errors.Is(err, lifecycle.ErrInvalidTransition):
			kind = KindInvalidStateForAction
			reason = err.Error()
		case err != nil:
			return nil, err
		}
	}

	event := &entity.DecisionEvent{
		Id:               uuid.New(),
		TenantId:         turn.TenantId,
		SessionId:        turn.SessionId,
		TurnId:           turn.TurnId,
		Kind:             string(kind),
		Reason:           reason,
		CostUSD:          reasoning.CostUSD,
		PromptTokens:     reasoning.Usage.PromptTokens,
		CompletionTokens: reasoning.Usage.CompletionTokens,
		TotalTokens:      reasoning.Usage.TotalTokens,
		LatencyMs:        time.Since(turn.StartedAt).Milliseconds(),
	}

	checks := make([]*entity.GuardrailCheck, 0, len(report.Results))
	for _, result := range report.Results {
		checks = append(checks, &entity.GuardrailCheck{
			Id:            uuid.New(),
			TenantId:      turn.TenantId,
			DecisionId:    event.Id,
			GuardrailCode: result.Guardrail.Code,
			Passed:        result.Passed,
			Violation:     result.Violation,
		})
	}

	if err := p.store.RecordDecision(ctx, event, checks); err != nil {
		return nil, err
	}

	p.publishRecorded(ctx, event)

	outcome := &Outcome{
		Event:   event,
		Checks:  checks,
		Report:  report,
		Session: updated,
	}

	if reasoning.Action != nil && actionAuthorized(kind) {
		outcome.Action = p.runAction(ctx, turn, event.Id, *reasoning.Action)
	}

	return outcome, nil
}

// actionAuthorized gates side effects: only a decision that proceeds or
// moves state may touch the outside world.
func actionAuthorized(kind Kind) bool {
	return kind == KindProceed || kind == KindTransitionState
}

func (p *Pipeline) applyTransition(
	ctx context.Context,
	turn TurnContext,
	session *entity.Session,
	graph *flowgraph.Graph,
	target lifecycle.State,
) (*entity.Session, error) {
	if graph != nil && graph.Len() > 0 && !graph.IsTransitionValid(session.State, string(target)) {
		return nil, lifecycle.ErrInvalidTransition
	}
	return p.machine.Transition(ctx, turn.TenantId, turn.SessionId, target, session.Version)
}

func (p *Pipeline) publishRecorded(ctx context.Context, event *entity.DecisionEvent) {
	if p.bus == nil {
		return
	}
	err := p.bus.Publish(ctx, events.NewDecisionRecordedEvent(
		event.TenantId, event.SessionId, event.Id,
		event.Kind, event.CostUSD, event.TotalTokens,
	))
	if err != nil {
		p.logger.Warn("DECISION", "failed to publish decision recorded event", map[string]interface{}{
			"decision_id": event.Id.String(),
			"error":       err.Error(),
		})
	}
}

// runAction persists a STARTED record before executing so the audit trail
// captures attempts that never return. The result is recorded best effort;
// the decision itself is already durable.
func (p *Pipeline) runAction(ctx context.Context, turn TurnContext, decisionId uuid.UUID, request ActionRequest) *entity.ActionExecution {
	execution := &entity.ActionExecution{
		Id:         uuid.New(),
		TenantId:   turn.TenantId,
		DecisionId: decisionId,
		ActionType: request.Type,
		Request:    request.Payload,
		Status:     ActionStarted,
		StartedAt:  time.Now().UTC(),
	}

	if err := p.store.StartAction(ctx, execution); err != nil {
		p.logger.Error("DECISION", "failed to record action start", map[string]interface{}{
			"decision_id": decisionId.String(),
			"action_type": request.Type,
			"error":       err.Error(),
		})
		return nil
	}

	if p.executor == nil {
		return execution
	}

	actionCtx, cancel := context.WithTimeout(ctx, p.actionTimeout)
	defer cancel()

	response, err := p.executor.Execute(actionCtx, turn.TenantId, request)
	status := ActionSuccess
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		status = ActionTimeout
	case err != nil:
		status = ActionFailed
		response = map[string]interface{}{"error": err.Error()}
	}

	finishedAt := time.Now().UTC()
	if err := p.store.FinishAction(ctx, turn.TenantId, execution.Id, status, response, finishedAt); err != nil {
		p.logger.Error("DECISION", "failed to record action result", map[string]interface{}{
			"execution_id": execution.Id.String(),
			"status":       status,
			"error":        err.Error(),
		})
	}

	execution.Status = status
	execution.Response = response
	execution.FinishedAt = &finishedAt
	return execution
}

func lastViolation(report *guardrail.Report) string {
	for i := len(report.Results) - 1; i >= 0; i-- {
		if !report.Results[i].Passed {
			return report.Results[i].Violation
		}
	}
	return ""
}
