package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"convo-commerce-be/internal/dto"
	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/internal/repository/memory"
	"convo-commerce-be/internal/repository/specification"
	"convo-commerce-be/internal/repository/unitofwork"
	"convo-commerce-be/pkg/decision"
	"convo-commerce-be/pkg/flowgraph"
	"convo-commerce-be/pkg/lifecycle"
	"convo-commerce-be/pkg/llm"
	"convo-commerce-be/pkg/semcache"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	// transitionRetries bounds the conflict-and-retry loop when two turns
	// race on the same session.
	transitionRetries = 3

	// costPerThousandTokens is a flat blended rate used for usage
	// accounting until per-model pricing lands.
	costPerThousandTokens = 0.002

	fallbackMessage = "I'm having trouble reaching my reasoning engine right now. Please try again in a moment, or type \"agent\" to talk to a person."
	blockedMessage  = "I can't help with that request."
	clarifyMessage  = "Could you tell me a bit more about what you're looking for?"
)

// transitionTool is the reserved tool name the model uses to move the
// session through the flow. Every other tool call becomes an action
// execution.
const transitionTool = "transition_state"

type ITurnService interface {
	SendTurn(ctx context.Context, tenantId uuid.UUID, request *dto.SendTurnRequest) (*dto.SendTurnResponse, error)
}

// turnService orchestrates one conversational turn end to end: session
// resolution, configuration snapshots, the semantic cache, the model
// call, and the decision pipeline.
type turnService struct {
	uowFactory unitofwork.RepositoryFactory
	machine    *lifecycle.Machine
	pipeline   *decision.Pipeline
	snapshots  *memory.SnapshotStore
	semCache   *semcache.Cache
	provider   llm.Provider
	logger     logger.ILogger
}

func NewTurnService(
	uowFactory unitofwork.RepositoryFactory,
	machine *lifecycle.Machine,
	pipeline *decision.Pipeline,
	snapshots *memory.SnapshotStore,
	semCache *semcache.Cache,
	provider llm.Provider,
	log logger.ILogger,
) ITurnService {
	return &turnService{
		uowFactory: uowFactory,
		machine:    machine,
		pipeline:   pipeline,
		snapshots:  snapshots,
		semCache:   semCache,
		provider:   provider,
		logger:     log,
	}
}

func (ts *turnService) SendTurn(ctx context.Context, tenantId uuid.UUID, request *dto.SendTurnRequest) (*dto.SendTurnResponse, error) {
	startedAt := time.Now()

	session, err := ts.resolveSession(ctx, tenantId, request)
	if err != nil {
		return nil, err
	}

	graph, err := ts.loadFlowGraph(ctx, tenantId, session.BotId, session.BotVersion)
	if err != nil {
		return nil, err
	}
	rails, err := ts.loadGuardrails(ctx, tenantId, session.BotId)
	if err != nil {
		return nil, err
	}

	reasoning, embedding, cached := ts.reason(ctx, tenantId, session, graph, request.Message)

	turn := decision.TurnContext{
		TenantId:  tenantId,
		BotId:     session.BotId,
		SessionId: session.Id,
		TurnId:    request.TurnId,
		Message:   request.Message,
		StartedAt: startedAt,
		Params:    ts.buildParams(session, request),
	}

	outcome, err := ts.decideWithRetry(ctx, turn, session, graph, rails, reasoning)
	if err != nil {
		return nil, err
	}

	if !cached && decision.Kind(outcome.Event.Kind) == decision.KindProceed && len(embedding) > 0 && reasoning.Response != "" {
		if err := ts.semCache.Store(ctx, tenantId, request.Message, reasoning.Response, embedding); err != nil {
			ts.logger.Warn("TURN_SERVICE", "Failed to store semantic cache entry", map[string]interface{}{
				"tenant_id": tenantId.String(),
				"error":     err.Error(),
			})
		}
	}

	finalSession := session
	if outcome.Session != nil {
		finalSession = outcome.Session
	}

	return &dto.SendTurnResponse{
		SessionId:  finalSession.Id,
		State:      finalSession.State,
		Version:    finalSession.Version,
		DecisionId: outcome.Event.Id,
		Kind:       outcome.Event.Kind,
		Response:   ts.responseText(outcome, reasoning),
		Cached:     cached,
		LatencyMs:  outcome.Event.LatencyMs,
	}, nil
}

// resolveSession finds the session this turn belongs to. An explicit
// session id wins; otherwise a channel-native user id continues that
// user's newest open session on the bot and channel, and only when
// neither matches does a fresh session start at the bot's entry step.
func (ts *turnService) resolveSession(ctx context.Context, tenantId uuid.UUID, request *dto.SendTurnRequest) (*entity.Session, error) {
	if request.SessionId != nil {
		session, err := ts.machine.Get(ctx, tenantId, *request.SessionId)
		if err != nil {
			return nil, err
		}
		if session.BotId != request.BotId {
			return nil, fiber.NewError(fiber.StatusUnprocessableEntity, "Session belongs to a different bot")
		}
		return session, nil
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)

	if request.ExternalUserId != "" {
		session, err := uow.SessionRepository().FindOne(ctx,
			specification.TenantOwnedBy{TenantID: tenantId},
			specification.ByBotID{BotID: request.BotId},
			specification.ByChannelUser{Channel: request.Channel, ExternalUserId: request.ExternalUserId},
			specification.OrderBy{Field: "created_at", Desc: true},
		)
		if err != nil {
			return nil, err
		}
		// A handed-over conversation stays with the human agent; the
		// next contact from the same user starts over.
		if session != nil && session.State != string(lifecycle.StateHandover) {
			return session, nil
		}
	}

	graph, err := ts.loadFlowGraph(ctx, tenantId, request.BotId, request.BotVersion)
	if err != nil {
		return nil, err
	}
	initialState := graph.FirstStep()
	if initialState == "" {
		initialState = string(lifecycle.StateIdle)
	}

	session := &entity.Session{
		Id:             uuid.New(),
		TenantId:       tenantId,
		BotId:          request.BotId,
		BotVersion:     request.BotVersion,
		Channel:        request.Channel,
		ExternalUserId: request.ExternalUserId,
		State:          initialState,
		Version:        1,
		Metadata:       request.Metadata,
		CreatedAt:      time.Now(),
	}
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (ts *turnService) loadFlowGraph(ctx context.Context, tenantId, botId uuid.UUID, botVersion int) (*flowgraph.Graph, error) {
	if graph, found := ts.snapshots.GetFlowGraph(botId, botVersion); found {
		return graph, nil
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)
	config, err := uow.FlowConfigRepository().FindByBotVersion(ctx, tenantId, botId, botVersion)
	if err != nil {
		return nil, err
	}

	var document []byte
	if config != nil {
		document = config.Document
	}
	graph, err := flowgraph.Build(document)
	if err != nil {
		return nil, fmt.Errorf("bot %s has a broken flow document: %w", botId, err)
	}

	ts.snapshots.SetFlowGraph(botId, botVersion, graph)
	return graph, nil
}

func (ts *turnService) loadGuardrails(ctx context.Context, tenantId, botId uuid.UUID) ([]*entity.Guardrail, error) {
	if rails, found := ts.snapshots.GetGuardrails(tenantId, botId); found {
		return rails, nil
	}

	uow := ts.uowFactory.NewUnitOfWork(ctx)
	rails, err := uow.GuardrailRepository().FindActiveForBot(ctx, tenantId, botId)
	if err != nil {
		return nil, err
	}

	ts.snapshots.SetGuardrails(tenantId, botId, rails)
	return rails, nil
}

// reason produces the turn's reasoning result. The semantic cache is
// consulted first; a miss calls the model through the circuit breaker,
// and a breaker or model failure degrades to a FALLBACK decision instead
// of failing the turn.
func (ts *turnService) reason(ctx context.Context, tenantId uuid.UUID, session *entity.Session, graph *flowgraph.Graph, msg string) (decision.Reasoning, []float32, bool) {
	embedding, err := ts.provider.Embed(ctx, msg)
	if err != nil {
		ts.logger.Warn("TURN_SERVICE", "Embedding unavailable, skipping semantic cache", map[string]interface{}{
			"tenant_id": tenantId.String(),
			"error":     err.Error(),
		})
		embedding = nil
	}

	if len(embedding) > 0 {
		if entry, found, err := ts.semCache.Lookup(ctx, tenantId, embedding); err == nil && found {
			return decision.Reasoning{
				Kind:     decision.KindProceed,
				Reason:   "semantic cache hit",
				Response: entry.Response,
			}, embedding, true
		} else if err != nil {
			ts.logger.Warn("TURN_SERVICE", "Semantic cache lookup failed", map[string]interface{}{
				"tenant_id": tenantId.String(),
				"error":     err.Error(),
			})
		}
	}

	result, err := ts.provider.Generate(ctx, llm.GenerateRequest{
		Prompt: msg,
		Tools:  append(graph.AllowedTools(session.State), transitionTool),
	})
	if err != nil {
		return decision.Reasoning{
			Kind:     decision.KindFallback,
			Reason:   fmt.Sprintf("reasoning unavailable: %v", err),
			Response: fallbackMessage,
		}, embedding, false
	}

	reasoning := ts.interpret(result, graph, session)
	reasoning.Usage = result.Usage
	reasoning.CostUSD = float64(result.Usage.TotalTokens) / 1000 * costPerThousandTokens
	return reasoning, embedding, false
}

// interpret maps the raw model output onto a decision. A transition tool
// call moves state, any other tool call becomes an action, and an empty
// answer asks the customer to clarify.
func (ts *turnService) interpret(result *llm.GenerateResult, graph *flowgraph.Graph, session *entity.Session) decision.Reasoning {
	for _, call := range result.ToolCalls {
		if call.Name != transitionTool {
			continue
		}
		target, _ := call.Arguments["target_state"].(string)
		return decision.Reasoning{
			Kind:        decision.KindTransitionState,
			Reason:      fmt.Sprintf("model requested transition %s -> %s", session.State, target),
			Response:    result.Text,
			TargetState: lifecycle.State(strings.ToUpper(target)),
		}
	}

	if len(result.ToolCalls) > 0 {
		call := result.ToolCalls[0]
		return decision.Reasoning{
			Kind:     decision.KindProceed,
			Reason:   fmt.Sprintf("model invoked tool %s", call.Name),
			Response: result.Text,
			Action: &decision.ActionRequest{
				Type:    call.Name,
				Payload: call.Arguments,
			},
		}
	}

	if strings.TrimSpace(result.Text) == "" {
		return decision.Reasoning{
			Kind:     decision.KindAskClarify,
			Reason:   "model returned no usable answer",
			Response: clarifyMessage,
		}
	}

	return decision.Reasoning{
		Kind:     decision.KindProceed,
		Response: result.Text,
	}
}

// decideWithRetry re-reads the session and replays the pipeline when a
// concurrent turn wins the version race.
func (ts *turnService) decideWithRetry(
	ctx context.Context,
	turn decision.TurnContext,
	session *entity.Session,
	graph *flowgraph.Graph,
	rails []*entity.Guardrail,
	reasoning decision.Reasoning,
) (*decision.Outcome, error) {
	current := session
	for attempt := 1; ; attempt++ {
		outcome, err := ts.pipeline.Decide(ctx, turn, current, graph, rails, reasoning)
		if err == nil {
			return outcome, nil
		}
		if !errors.Is(err, lifecycle.ErrVersionConflict) || attempt >= transitionRetries {
			return nil, err
		}

		ts.logger.Info("TURN_SERVICE", "Version conflict, retrying turn", map[string]interface{}{
			"session_id": turn.SessionId.String(),
			"attempt":    attempt,
		})
		current, err = ts.machine.Get(ctx, turn.TenantId, turn.SessionId)
		if err != nil {
			return nil, err
		}
	}
}

func (ts *turnService) buildParams(session *entity.Session, request *dto.SendTurnRequest) map[string]interface{} {
	// An empty cart still has a total: order rails must stay evaluable
	// on turns that carry no order context, since a guardrail whose
	// variables are missing counts as violated.
	params := map[string]interface{}{
		"order_total": 0.0,
	}
	for key, value := range request.Metadata {
		params[key] = value
	}
	// Turn facts always win over caller metadata.
	params["message"] = request.Message
	params["message_length"] = len(request.Message)
	params["channel"] = session.Channel
	params["state"] = session.State
	return params
}

func (ts *turnService) responseText(outcome *decision.Outcome, reasoning decision.Reasoning) string {
	switch decision.Kind(outcome.Event.Kind) {
	case decision.KindGuardrailBlock:
		return blockedMessage
	case decision.KindFallback:
		return fallbackMessage
	case decision.KindAskClarify, decision.KindRequestReferenceClarification:
		if reasoning.Response != "" {
			return reasoning.Response
		}
		return clarifyMessage
	case decision.KindInvalidStateForAction:
		return clarifyMessage
	default:
		return reasoning.Response
	}
}
