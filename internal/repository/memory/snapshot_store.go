package memory

import (
	"fmt"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/pkg/flowgraph"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// SnapshotStore holds immutable per-bot configuration snapshots (parsed
// flow graphs and guardrail sets) so concurrent turns share them instead
// of re-reading configuration on every turn.
type SnapshotStore struct {
	cache *cache.Cache
}

func NewSnapshotStore() *SnapshotStore {
	// Snapshots expire after 15 minutes so config edits are picked up
	// without a restart; expired items purged every 5 minutes.
	c := cache.New(15*time.Minute, 5*time.Minute)
	return &SnapshotStore{
		cache: c,
	}
}

func flowKey(botId uuid.UUID, version int) string {
	return fmt.Sprintf("flow:%s:%d", botId, version)
}

func guardrailKey(tenantId, botId uuid.UUID) string {
	return fmt.Sprintf("rails:%s:%s", tenantId, botId)
}

func (s *SnapshotStore) GetFlowGraph(botId uuid.UUID, version int) (*flowgraph.Graph, bool) {
	if x, found := s.cache.Get(flowKey(botId, version)); found {
		return x.(*flowgraph.Graph), true
	}
	return nil, false
}

func (s *SnapshotStore) SetFlowGraph(botId uuid.UUID, version int, graph *flowgraph.Graph) {
	s.cache.Set(flowKey(botId, version), graph, cache.DefaultExpiration)
}

func (s *SnapshotStore) GetGuardrails(tenantId, botId uuid.UUID) ([]*entity.Guardrail, bool) {
	if x, found := s.cache.Get(guardrailKey(tenantId, botId)); found {
		return x.([]*entity.Guardrail), true
	}
	return nil, false
}

func (s *SnapshotStore) SetGuardrails(tenantId, botId uuid.UUID, rails []*entity.Guardrail) {
	s.cache.Set(guardrailKey(tenantId, botId), rails, cache.DefaultExpiration)
}
