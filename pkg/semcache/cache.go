package semcache

import (
	"context"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/internal/repository/contract"

	"github.com/google/uuid"
)

// Cache is the tenant-scoped semantic response cache. The repository's
// pgvector query prefilters candidates by distance; the final score is an
// exact in-process cosine so threshold comparison has one definition
// everywhere (including tests without a database).
type Cache struct {
	entries   contract.CacheEntryRepository
	threshold float64
	prefilter int
	logger    logger.ILogger
}

func NewCache(entries contract.CacheEntryRepository, threshold float64, prefilterLimit int, log logger.ILogger) *Cache {
	if threshold <= 0 {
		threshold = 0.85
	}
	if prefilterLimit <= 0 {
		prefilterLimit = 5
	}
	return &Cache{
		entries:   entries,
		threshold: threshold,
		prefilter: prefilterLimit,
		logger:    log,
	}
}

// Lookup returns the best-matching entry at or above the similarity
// threshold, or found=false on a miss. On a hit the entry's hit counter
// and last-hit time are bumped best-effort; a lost bump under race is
// acceptable.
func (c *Cache) Lookup(ctx context.Context, tenantId uuid.UUID, embedding []float32) (*entity.CacheEntry, bool, error) {
	if len(embedding) == 0 {
		return nil, false, nil
	}

	candidates, err := c.entries.SearchSimilar(ctx, tenantId, embedding, c.prefilter)
	if err != nil {
		return nil, false, err
	}

	var best *entity.CacheEntry
	bestScore := 0.0
	for _, candidate := range candidates {
		score := Cosine(embedding, candidate.Entry.Embedding)
		if score > bestScore {
			best = candidate.Entry
			bestScore = score
		}
	}

	if best == nil || bestScore < c.threshold {
		return nil, false, nil
	}

	if err := c.entries.BumpHit(ctx, tenantId, best.Id); err != nil {
		c.logger.Warn("SEMCACHE", "Failed to bump cache hit counter", map[string]interface{}{
			"tenant_id": tenantId.String(),
			"entry_id":  best.Id.String(),
			"error":     err.Error(),
		})
	}

	c.logger.Debug("SEMCACHE", "Cache hit", map[string]interface{}{
		"tenant_id":  tenantId.String(),
		"entry_id":   best.Id.String(),
		"similarity": bestScore,
	})
	return best, true, nil
}

// Store inserts a fresh query/response pair after a successful LLM call.
// Concurrent misses on the same (tenant, query) resolve last-writer-wins
// at the persistence layer.
func (c *Cache) Store(ctx context.Context, tenantId uuid.UUID, query, response string, embedding []float32) error {
	entry := &entity.CacheEntry{
		TenantId:  tenantId,
		Query:     query,
		Response:  response,
		Embedding: embedding,
		CreatedAt: time.Now(),
	}
	return c.entries.Upsert(ctx, entry)
}
