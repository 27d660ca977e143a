package semcache

import (
	"context"
	"testing"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCacheEntryRepo struct {
	candidates []*contract.ScoredCacheEntry
	upserted   []*entity.CacheEntry
	bumped     []uuid.UUID
}

func (r *fakeCacheEntryRepo) Upsert(_ context.Context, entry *entity.CacheEntry) error {
	r.upserted = append(r.upserted, entry)
	return nil
}

func (r *fakeCacheEntryRepo) SearchSimilar(_ context.Context, _ uuid.UUID, _ []float32, limit int) ([]*contract.ScoredCacheEntry, error) {
	if len(r.candidates) > limit {
		return r.candidates[:limit], nil
	}
	return r.candidates, nil
}

func (r *fakeCacheEntryRepo) BumpHit(_ context.Context, _, id uuid.UUID) error {
	r.bumped = append(r.bumped, id)
	return nil
}

func scored(embedding []float32, response string) *contract.ScoredCacheEntry {
	return &contract.ScoredCacheEntry{
		Entry: &entity.CacheEntry{
			Id:        uuid.New(),
			Query:     "q",
			Response:  response,
			Embedding: embedding,
		},
	}
}

func newTestCache(t *testing.T, repo contract.CacheEntryRepository, threshold float64) *Cache {
	t.Helper()
	return NewCache(repo, threshold, 5, logger.NewIsolatedLogger(t.TempDir()+"/semcache_test.log"))
}

func TestLookupHitAboveThreshold(t *testing.T) {
	repo := &fakeCacheEntryRepo{candidates: []*contract.ScoredCacheEntry{
		scored([]float32{1, 0, 0}, "exact match"),
		scored([]float32{0.7, 0.7, 0}, "partial match"),
	}}
	cache := newTestCache(t, repo, 0.85)

	entry, found, err := cache.Lookup(context.Background(), uuid.New(), []float32{1, 0, 0})

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "exact match", entry.Response)
	require.Len(t, repo.bumped, 1)
	assert.Equal(t, entry.Id, repo.bumped[0])
}

func TestLookupMissBelowThreshold(t *testing.T) {
	// Similarity of these two vectors is ~0.82, under the 0.85 threshold.
	repo := &fakeCacheEntryRepo{candidates: []*contract.ScoredCacheEntry{
		scored([]float32{1, 0.7, 0}, "close but not close enough"),
	}}
	cache := newTestCache(t, repo, 0.85)

	_, found, err := cache.Lookup(context.Background(), uuid.New(), []float32{1, 0, 0})

	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, repo.bumped)
}

func TestLookupEmptyEmbeddingIsMiss(t *testing.T) {
	repo := &fakeCacheEntryRepo{candidates: []*contract.ScoredCacheEntry{
		scored([]float32{1, 0, 0}, "never compared"),
	}}
	cache := newTestCache(t, repo, 0.85)

	_, found, err := cache.Lookup(context.Background(), uuid.New(), nil)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupNoCandidatesIsMiss(t *testing.T) {
	cache := newTestCache(t, &fakeCacheEntryRepo{}, 0.85)

	_, found, err := cache.Lookup(context.Background(), uuid.New(), []float32{1, 0, 0})

	require.NoError(t, err)
	assert.False(t, found)
}

func TestLookupPicksBestCandidate(t *testing.T) {
	best := scored([]float32{1, 0, 0}, "best")
	repo := &fakeCacheEntryRepo{candidates: []*contract.ScoredCacheEntry{
		scored([]float32{0.9, 0.4, 0.1}, "good"),
		best,
		scored([]float32{0.9, 0.3, 0.1}, "also good"),
	}}
	cache := newTestCache(t, repo, 0.85)

	entry, found, err := cache.Lookup(context.Background(), uuid.New(), []float32{1, 0, 0})

	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, "best", entry.Response)
}

func TestStoreUpserts(t *testing.T) {
	repo := &fakeCacheEntryRepo{}
	cache := newTestCache(t, repo, 0.85)
	tenantId := uuid.New()

	err := cache.Store(context.Background(), tenantId, "do you ship to Jakarta", "yes we do", []float32{0.1, 0.2})

	require.NoError(t, err)
	require.Len(t, repo.upserted, 1)
	assert.Equal(t, tenantId, repo.upserted[0].TenantId)
	assert.Equal(t, "do you ship to Jakarta", repo.upserted[0].Query)
}
