package mapper

import (
	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type CacheEntryMapper struct{}

func NewCacheEntryMapper() *CacheEntryMapper {
	return &CacheEntryMapper{}
}

func (m *CacheEntryMapper) ToEntity(e *model.CacheEntry) *entity.CacheEntry {
	if e == nil {
		return nil
	}
	return &entity.CacheEntry{
		Id:        e.Id,
		TenantId:  e.TenantId,
		Query:     e.Query,
		Response:  e.Response,
		Embedding: e.Embedding.Slice(),
		Hits:      e.Hits,
		LastHitAt: e.LastHitAt,
		CreatedAt: e.CreatedAt,
	}
}

func (m *CacheEntryMapper) ToModel(e *entity.CacheEntry) *model.CacheEntry {
	if e == nil {
		return nil
	}
	return &model.CacheEntry{
		Id:        e.Id,
		TenantId:  e.TenantId,
		Query:     e.Query,
		Response:  e.Response,
		Embedding: pgvector.NewVector(e.Embedding),
		Hits:      e.Hits,
		LastHitAt: e.LastHitAt,
		CreatedAt: e.CreatedAt,
	}
}
