package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"convo-commerce-be/internal/dto"
	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/memory"
	"convo-commerce-be/internal/repository/rediscache"
	"convo-commerce-be/internal/repository/specification"
	"convo-commerce-be/internal/repository/unitofwork"
	"convo-commerce-be/pkg/decision"
	"convo-commerce-be/pkg/guardrail"
	"convo-commerce-be/pkg/lifecycle"
	"convo-commerce-be/pkg/llm"
	"convo-commerce-be/pkg/semcache"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- in-memory repositories ---

type memSessionRepo struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*entity.Session
	order    []uuid.UUID
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: map[uuid.UUID]*entity.Session{}}
}

func (r *memSessionRepo) Create(_ context.Context, session *entity.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *session
	r.sessions[session.Id] = &clone
	r.order = append(r.order, session.Id)
	return nil
}

func (r *memSessionRepo) FindOne(_ context.Context, specs ...specification.Specification) (*entity.Session, error) {
	// Specifications are SQL fragments; the fake interprets the ones this
	// suite actually issues: ByID or ByBotID+ByChannelUser, both scoped
	// to a tenant, newest row first.
	r.mu.Lock()
	defer r.mu.Unlock()
	var byID, byBot *uuid.UUID
	var tenantId uuid.UUID
	var byChannelUser *specification.ByChannelUser
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			id := s.ID
			byID = &id
		case specification.TenantOwnedBy:
			tenantId = s.TenantID
		case specification.ByBotID:
			id := s.BotID
			byBot = &id
		case specification.ByChannelUser:
			cu := s
			byChannelUser = &cu
		}
	}
	for i := len(r.order) - 1; i >= 0; i-- {
		session := r.sessions[r.order[i]]
		if session.TenantId != tenantId {
			continue
		}
		if byID != nil && session.Id != *byID {
			continue
		}
		if byBot != nil && session.BotId != *byBot {
			continue
		}
		if byChannelUser != nil &&
			(session.Channel != byChannelUser.Channel || session.ExternalUserId != byChannelUser.ExternalUserId) {
			continue
		}
		clone := *session
		return &clone, nil
	}
	return nil, nil
}

func (r *memSessionRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Session, error) {
	return nil, nil
}

func (r *memSessionRepo) Count(context.Context, ...specification.Specification) (int64, error) {
	return 0, nil
}

func (r *memSessionRepo) TransitionState(_ context.Context, tenantId, sessionId uuid.UUID, targetState string, expectedVersion int64) (*entity.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	session, ok := r.sessions[sessionId]
	if !ok || session.TenantId != tenantId {
		return nil, lifecycle.ErrSessionNotFound
	}
	if session.Version != expectedVersion {
		return nil, lifecycle.ErrVersionConflict
	}
	session.State = targetState
	session.Version++
	clone := *session
	return &clone, nil
}

type memFlowConfigRepo struct {
	document json.RawMessage
}

func (r *memFlowConfigRepo) Create(context.Context, *entity.BotFlowConfig) error { return nil }

func (r *memFlowConfigRepo) FindOne(context.Context, ...specification.Specification) (*entity.BotFlowConfig, error) {
	return nil, nil
}

func (r *memFlowConfigRepo) FindByBotVersion(_ context.Context, tenantId, botId uuid.UUID, version int) (*entity.BotFlowConfig, error) {
	if r.document == nil {
		return nil, nil
	}
	return &entity.BotFlowConfig{
		Id:       uuid.New(),
		TenantId: tenantId,
		BotId:    botId,
		Version:  version,
		Document: r.document,
	}, nil
}

type memGuardrailRepo struct {
	rails []*entity.Guardrail
}

func (r *memGuardrailRepo) Create(context.Context, *entity.Guardrail) error { return nil }
func (r *memGuardrailRepo) Update(context.Context, *entity.Guardrail) error { return nil }

func (r *memGuardrailRepo) FindOne(context.Context, ...specification.Specification) (*entity.Guardrail, error) {
	return nil, nil
}

func (r *memGuardrailRepo) FindAll(context.Context, ...specification.Specification) ([]*entity.Guardrail, error) {
	return r.rails, nil
}

func (r *memGuardrailRepo) FindActiveForBot(context.Context, uuid.UUID, uuid.UUID) ([]*entity.Guardrail, error) {
	return r.rails, nil
}

type memCacheEntryRepo struct {
	mu      sync.Mutex
	entries []*entity.CacheEntry
}

func (r *memCacheEntryRepo) Upsert(_ context.Context, entry *entity.CacheEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	clone := *entry
	clone.Id = uuid.New()
	r.entries = append(r.entries, &clone)
	return nil
}

func (r *memCacheEntryRepo) SearchSimilar(_ context.Context, tenantId uuid.UUID, _ []float32, limit int) ([]*contract.ScoredCacheEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*contract.ScoredCacheEntry, 0, limit)
	for _, entry := range r.entries {
		if entry.TenantId != tenantId || len(out) >= limit {
			continue
		}
		out = append(out, &contract.ScoredCacheEntry{Entry: entry})
	}
	return out, nil
}

func (r *memCacheEntryRepo) BumpHit(context.Context, uuid.UUID, uuid.UUID) error { return nil }

// fakeUow satisfies unitofwork.UnitOfWork with only the repositories the
// turn path touches.
type fakeUow struct {
	sessions    *memSessionRepo
	flowConfigs *memFlowConfigRepo
	guardrails  *memGuardrailRepo
	cache       *memCacheEntryRepo
}

func (u *fakeUow) Begin(context.Context) error { return nil }
func (u *fakeUow) Commit() error               { return nil }
func (u *fakeUow) Rollback() error             { return nil }

func (u *fakeUow) SessionRepository() contract.SessionRepository       { return u.sessions }
func (u *fakeUow) FlowConfigRepository() contract.FlowConfigRepository { return u.flowConfigs }
func (u *fakeUow) GuardrailRepository() contract.GuardrailRepository   { return u.guardrails }
func (u *fakeUow) CacheEntryRepository() contract.CacheEntryRepository { return u.cache }

func (u *fakeUow) DecisionEventRepository() contract.DecisionEventRepository {
	return nil
}
func (u *fakeUow) GuardrailCheckRepository() contract.GuardrailCheckRepository {
	return nil
}
func (u *fakeUow) ActionExecutionRepository() contract.ActionExecutionRepository {
	return nil
}
func (u *fakeUow) UsageLogRepository() contract.UsageLogRepository { return nil }

type fakeUowFactory struct {
	uow *fakeUow
}

func (f *fakeUowFactory) NewUnitOfWork(context.Context) unitofwork.UnitOfWork { return f.uow }

// recordingStore keeps decisions in memory for assertions.
type recordingStore struct {
	mu     sync.Mutex
	events []*entity.DecisionEvent
	checks [][]*entity.GuardrailCheck
}

func (s *recordingStore) RecordDecision(_ context.Context, event *entity.DecisionEvent, checks []*entity.GuardrailCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
	s.checks = append(s.checks, checks)
	return nil
}

func (s *recordingStore) StartAction(context.Context, *entity.ActionExecution) error { return nil }

func (s *recordingStore) FinishAction(context.Context, uuid.UUID, uuid.UUID, string, map[string]interface{}, time.Time) error {
	return nil
}

func (s *recordingStore) lastEvent() *entity.DecisionEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return nil
	}
	return s.events[len(s.events)-1]
}

// scriptedProvider returns canned model output.
type scriptedProvider struct {
	result    *llm.GenerateResult
	err       error
	embedding []float32
	embedErr  error
	calls     int
}

func (p *scriptedProvider) Generate(context.Context, llm.GenerateRequest) (*llm.GenerateResult, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.result, nil
}

func (p *scriptedProvider) Embed(context.Context, string) ([]float32, error) {
	if p.embedErr != nil {
		return nil, p.embedErr
	}
	return p.embedding, nil
}

// --- fixture ---

type turnFixture struct {
	service  ITurnService
	store    *recordingStore
	provider *scriptedProvider
	sessions *memSessionRepo
	flows    *memFlowConfigRepo
	cache    *memCacheEntryRepo
	tenantId uuid.UUID
	botId    uuid.UUID
}

func newTurnFixture(t *testing.T, rails []*entity.Guardrail) *turnFixture {
	t.Helper()

	sessions := newMemSessionRepo()
	cacheRepo := &memCacheEntryRepo{}
	flows := &memFlowConfigRepo{document: json.RawMessage(`{"steps":[
			{"code":"IDLE","next_steps":["BROWSING","HANDOVER"]},
			{"code":"BROWSING","allowed_tools":["search_catalog"],"next_steps":["VIEWING","HANDOVER"]},
			{"code":"VIEWING","allowed_tools":["add_to_cart"],"next_steps":["PURCHASING","BROWSING","HANDOVER"]},
			{"code":"PURCHASING","allowed_tools":["create_order"],"next_steps":["BROWSING","HANDOVER"]},
			{"code":"HANDOVER","next_steps":[]}
		]}`)}
	uow := &fakeUow{
		sessions:    sessions,
		flowConfigs: flows,
		guardrails:  &memGuardrailRepo{rails: rails},
		cache:       cacheRepo,
	}
	uowFactory := &fakeUowFactory{uow: uow}

	log := logger.NewIsolatedLogger(t.TempDir() + "/turn_test.log")
	machine := lifecycle.NewMachine(sessions, rediscache.NewSessionCache(nil, time.Minute), nil, log)

	store := &recordingStore{}
	pipeline := decision.NewPipeline(store, machine, guardrail.NewEvaluator(log), nil, nil, log, time.Second)

	provider := &scriptedProvider{
		result:    &llm.GenerateResult{Text: "here are some options", Usage: llm.Usage{PromptTokens: 10, CompletionTokens: 20, TotalTokens: 30}},
		embedding: []float32{1, 0, 0},
	}

	semCache := semcache.NewCache(cacheRepo, 0.85, 5, log)

	return &turnFixture{
		service:  NewTurnService(uowFactory, machine, pipeline, memory.NewSnapshotStore(), semCache, provider, log),
		store:    store,
		provider: provider,
		sessions: sessions,
		flows:    flows,
		cache:    cacheRepo,
		tenantId: uuid.New(),
		botId:    uuid.New(),
	}
}

func (f *turnFixture) request(message string) *dto.SendTurnRequest {
	return &dto.SendTurnRequest{
		BotId:      f.botId,
		BotVersion: 1,
		Channel:    "whatsapp",
		Message:    message,
	}
}

func TestSendTurnCreatesSessionAndRecordsDecision(t *testing.T) {
	f := newTurnFixture(t, nil)

	res, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("hi, do you sell sneakers"))

	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.StateIdle), res.State)
	assert.Equal(t, int64(1), res.Version)
	assert.Equal(t, string(decision.KindProceed), res.Kind)
	assert.Equal(t, "here are some options", res.Response)
	assert.False(t, res.Cached)

	event := f.store.lastEvent()
	require.NotNil(t, event)
	assert.Equal(t, f.tenantId, event.TenantId)
	assert.Equal(t, res.SessionId, event.SessionId)
	assert.Equal(t, 30, event.TotalTokens)
	assert.Greater(t, event.CostUSD, 0.0)

	// Session was persisted and is addressable on the next turn.
	stored, err := f.sessions.FindOne(context.Background(),
		specification.ByID{ID: res.SessionId},
		specification.TenantOwnedBy{TenantID: f.tenantId},
	)
	require.NoError(t, err)
	require.NotNil(t, stored)
}

func TestSendTurnSecondCallHitsSemanticCache(t *testing.T) {
	f := newTurnFixture(t, nil)

	first, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("do you ship to Bandung"))
	require.NoError(t, err)
	require.False(t, first.Cached)
	require.Equal(t, 1, f.provider.calls)

	req := f.request("do you ship to Bandung?")
	req.SessionId = &first.SessionId

	second, err := f.service.SendTurn(context.Background(), f.tenantId, req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, "here are some options", second.Response)

	// The model was not consulted again.
	assert.Equal(t, 1, f.provider.calls)
	assert.Zero(t, f.store.lastEvent().TotalTokens)
}

func TestSendTurnModelFailureDegradesToFallback(t *testing.T) {
	f := newTurnFixture(t, nil)
	f.provider.err = errors.New("upstream timeout")
	f.provider.embedErr = errors.New("upstream timeout")

	res, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("anything"))

	require.NoError(t, err)
	assert.Equal(t, string(decision.KindFallback), res.Kind)
	assert.NotEmpty(t, res.Response)
	assert.Equal(t, string(decision.KindFallback), f.store.lastEvent().Kind)
}

func TestSendTurnGuardrailBlocks(t *testing.T) {
	f := newTurnFixture(t, []*entity.Guardrail{
		{Code: "order-hard-limit", Condition: "order_total <= 500", Action: guardrail.ActionBlock, Priority: 100, IsActive: true},
	})

	req := f.request("buy it all")
	req.Metadata = map[string]interface{}{"order_total": 900.0}

	res, err := f.service.SendTurn(context.Background(), f.tenantId, req)

	require.NoError(t, err)
	assert.Equal(t, string(decision.KindGuardrailBlock), res.Kind)
	require.Len(t, f.store.checks, 1)
	require.Len(t, f.store.checks[0], 1)
	assert.False(t, f.store.checks[0][0].Passed)
}

func TestSendTurnModelDrivenTransition(t *testing.T) {
	f := newTurnFixture(t, nil)
	f.provider.result = &llm.GenerateResult{
		Text: "let me show you the catalog",
		ToolCalls: []llm.ToolCall{
			{Name: "transition_state", Arguments: map[string]interface{}{"target_state": "BROWSING"}},
		},
		Usage: llm.Usage{TotalTokens: 12},
	}

	res, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("show me shoes"))

	require.NoError(t, err)
	assert.Equal(t, string(decision.KindTransitionState), res.Kind)
	assert.Equal(t, string(lifecycle.StateBrowsing), res.State)
	assert.Equal(t, int64(2), res.Version)
}

func TestSendTurnRejectsForeignSession(t *testing.T) {
	f := newTurnFixture(t, nil)

	first, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("hello"))
	require.NoError(t, err)

	req := f.request("hello again")
	req.SessionId = &first.SessionId

	_, err = f.service.SendTurn(context.Background(), uuid.New(), req)
	assert.ErrorIs(t, err, lifecycle.ErrSessionNotFound)
}

// The demo rail set keys on order_total; a greeting turn carries no
// order context, so the zero-total default must let it through.
func TestSendTurnWithoutOrderContextPassesOrderRails(t *testing.T) {
	f := newTurnFixture(t, []*entity.Guardrail{
		{Code: "order-hard-limit", Condition: "order_total <= 500", Action: guardrail.ActionBlock, Priority: 100, IsActive: true},
		{Code: "message-length", Condition: "message_length <= 2000", Action: guardrail.ActionBlock, Priority: 90, IsActive: true},
		{Code: "order-soft-limit", Condition: "order_total <= 200", Action: guardrail.ActionWarn, Priority: 50, IsActive: true},
	})

	res, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("hi"))

	require.NoError(t, err)
	assert.Equal(t, string(decision.KindProceed), res.Kind)
	require.Len(t, f.store.checks, 1)
	require.Len(t, f.store.checks[0], 3)
	for _, check := range f.store.checks[0] {
		assert.True(t, check.Passed, check.GuardrailCode)
	}
}

func TestSendTurnReusesSessionForChannelUser(t *testing.T) {
	f := newTurnFixture(t, nil)

	first := f.request("hi")
	first.ExternalUserId = "+628123456789"
	firstRes, err := f.service.SendTurn(context.Background(), f.tenantId, first)
	require.NoError(t, err)

	second := f.request("any sneakers in stock")
	second.ExternalUserId = "+628123456789"
	secondRes, err := f.service.SendTurn(context.Background(), f.tenantId, second)
	require.NoError(t, err)

	assert.Equal(t, firstRes.SessionId, secondRes.SessionId)
	require.Len(t, f.sessions.order, 1)

	// A different channel user on the same bot gets their own session.
	other := f.request("hello")
	other.ExternalUserId = "+628000000000"
	otherRes, err := f.service.SendTurn(context.Background(), f.tenantId, other)
	require.NoError(t, err)
	assert.NotEqual(t, firstRes.SessionId, otherRes.SessionId)
}

func TestSendTurnStartsFreshSessionAfterHandover(t *testing.T) {
	f := newTurnFixture(t, nil)
	f.provider.result = &llm.GenerateResult{
		Text: "connecting you to an agent",
		ToolCalls: []llm.ToolCall{
			{Name: "transition_state", Arguments: map[string]interface{}{"target_state": "HANDOVER"}},
		},
	}

	first := f.request("I want to talk to a human")
	first.ExternalUserId = "+628123456789"
	firstRes, err := f.service.SendTurn(context.Background(), f.tenantId, first)
	require.NoError(t, err)
	require.Equal(t, string(lifecycle.StateHandover), firstRes.State)

	f.provider.result = &llm.GenerateResult{Text: "welcome back"}

	second := f.request("hi again")
	second.ExternalUserId = "+628123456789"
	secondRes, err := f.service.SendTurn(context.Background(), f.tenantId, second)
	require.NoError(t, err)

	assert.NotEqual(t, firstRes.SessionId, secondRes.SessionId)
	assert.Equal(t, string(lifecycle.StateIdle), secondRes.State)
}

func TestSendTurnNewSessionStartsAtFlowEntryStep(t *testing.T) {
	f := newTurnFixture(t, nil)
	f.flows.document = json.RawMessage(`{"steps":[
		{"code":"BROWSING","allowed_tools":["search_catalog"],"next_steps":["VIEWING","HANDOVER"]},
		{"code":"VIEWING","next_steps":["BROWSING","HANDOVER"]},
		{"code":"HANDOVER","next_steps":[]}
	]}`)

	res, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("show me shoes"))

	require.NoError(t, err)
	assert.Equal(t, string(lifecycle.StateBrowsing), res.State)
	assert.Equal(t, int64(1), res.Version)
}

func TestSendTurnWrongBotRejected(t *testing.T) {
	f := newTurnFixture(t, nil)

	first, err := f.service.SendTurn(context.Background(), f.tenantId, f.request("hello"))
	require.NoError(t, err)

	req := f.request("hello again")
	req.SessionId = &first.SessionId
	req.BotId = uuid.New()

	_, err = f.service.SendTurn(context.Background(), f.tenantId, req)
	assert.Error(t, err)
}
