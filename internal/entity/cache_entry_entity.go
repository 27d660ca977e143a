package entity

import (
	"time"

	"github.com/google/uuid"
)

// CacheEntry is a tenant-scoped prior query/response pair with its
// embedding. Hits is monotonically non-decreasing; the entry itself is
// only mutated to bump Hits/LastHitAt on a cache hit.
type CacheEntry struct {
	Id        uuid.UUID
	TenantId  uuid.UUID
	Query     string
	Response  string
	Embedding []float32
	Hits      int64
	LastHitAt *time.Time
	CreatedAt time.Time
}
