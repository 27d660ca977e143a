package implementation

import (
	"context"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/mapper"
	"convo-commerce-be/internal/model"
	"convo-commerce-be/internal/repository/contract"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CacheEntryRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CacheEntryMapper
}

func NewCacheEntryRepository(db *gorm.DB) contract.CacheEntryRepository {
	return &CacheEntryRepositoryImpl{
		db:     db,
		mapper: mapper.NewCacheEntryMapper(),
	}
}

// Upsert resolves concurrent misses on the same (tenant_id, query)
// last-writer-wins instead of erroring on the unique index.
func (r *CacheEntryRepositoryImpl) Upsert(ctx context.Context, entry *entity.CacheEntry) error {
	m := r.mapper.ToModel(entry)
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "tenant_id"}, {Name: "query"}},
		DoUpdates: clause.AssignmentColumns([]string{"response", "embedding"}),
	}).Create(m).Error
	if err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

// SearchSimilar uses the pgvector cosine distance operator as a top-K
// prefilter. Cosine distance is 1 - cosine_similarity, so the score
// selected here is already in similarity terms.
func (r *CacheEntryRepositoryImpl) SearchSimilar(ctx context.Context, tenantId uuid.UUID, embedding []float32, limit int) ([]*contract.ScoredCacheEntry, error) {
	if limit <= 0 {
		limit = 5
	}
	if len(embedding) == 0 {
		return nil, nil
	}

	type result struct {
		model.CacheEntry
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("semantic_cache_entries").
		Select("semantic_cache_entries.*, 1 - (embedding <=> ?) as similarity", queryVector).
		Where("tenant_id = ?", tenantId).
		Order("similarity DESC").
		Limit(limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}

	scored := make([]*contract.ScoredCacheEntry, len(results))
	for i, res := range results {
		scored[i] = &contract.ScoredCacheEntry{
			Entry:      r.mapper.ToEntity(&res.CacheEntry),
			Similarity: res.Similarity,
		}
	}
	return scored, nil
}

func (r *CacheEntryRepositoryImpl) BumpHit(ctx context.Context, tenantId, id uuid.UUID) error {
	return r.db.WithContext(ctx).Model(&model.CacheEntry{}).
		Where("id = ? AND tenant_id = ?", id, tenantId).
		Updates(map[string]interface{}{
			"hits":        gorm.Expr("hits + 1"),
			"last_hit_at": time.Now(),
		}).Error
}
