package contract

import (
	"context"

	"convo-commerce-be/internal/entity"

	"github.com/google/uuid"
)

// ScoredCacheEntry wraps a cache entry with its similarity to the query.
type ScoredCacheEntry struct {
	Entry      *entity.CacheEntry
	Similarity float64 // 0.0 to 1.0 (1.0 = identical)
}

type CacheEntryRepository interface {
	// Upsert inserts the entry or, on a (tenant_id, query) collision from a
	// concurrent miss, overwrites response/embedding last-writer-wins.
	Upsert(ctx context.Context, entry *entity.CacheEntry) error
	// SearchSimilar returns the tenant's top-K candidates by vector
	// distance. Scores are a database-side prefilter; exact cosine scoring
	// happens in the semantic cache itself.
	SearchSimilar(ctx context.Context, tenantId uuid.UUID, embedding []float32, limit int) ([]*ScoredCacheEntry, error)
	// BumpHit increments the hit counter and stamps last_hit_at. Lost
	// updates under race are acceptable.
	BumpHit(ctx context.Context, tenantId, id uuid.UUID) error
}
