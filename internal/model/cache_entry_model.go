package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type CacheEntry struct {
	Id        uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_cache_entries_tenant_query"`
	Query     string          `gorm:"type:text;not null;uniqueIndex:idx_cache_entries_tenant_query"`
	Response  string          `gorm:"type:text;not null"`
	Embedding pgvector.Vector `gorm:"type:vector(768)"` // dimensionality fixed per deployment
	Hits      int64           `gorm:"not null;default:0"`
	LastHitAt *time.Time
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (CacheEntry) TableName() string {
	return "semantic_cache_entries"
}
