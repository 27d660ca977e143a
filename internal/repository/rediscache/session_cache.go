package rediscache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"convo-commerce-be/internal/entity"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SessionCache is a read-through cache in front of the session table for
// hot conversations. It is safe to serve a stale session from here: the
// version compare-and-swap at the persistence boundary rejects the write
// and the caller retries from a fresh read.
type SessionCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionCache(rdb *redis.Client, ttl time.Duration) *SessionCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &SessionCache{
		rdb: rdb,
		ttl: ttl,
	}
}

func sessionKey(tenantId, sessionId uuid.UUID) string {
	return fmt.Sprintf("session:%s:%s", tenantId, sessionId)
}

func (c *SessionCache) Get(ctx context.Context, tenantId, sessionId uuid.UUID) (*entity.Session, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	data, err := c.rdb.Get(ctx, sessionKey(tenantId, sessionId)).Bytes()
	if err != nil {
		return nil, false
	}
	var session entity.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, false
	}
	return &session, true
}

func (c *SessionCache) Set(ctx context.Context, session *entity.Session) {
	if c == nil || c.rdb == nil || session == nil {
		return
	}
	data, err := json.Marshal(session)
	if err != nil {
		return
	}
	c.rdb.Set(ctx, sessionKey(session.TenantId, session.Id), data, c.ttl)
}

func (c *SessionCache) Invalidate(ctx context.Context, tenantId, sessionId uuid.UUID) {
	if c == nil || c.rdb == nil {
		return
	}
	c.rdb.Del(ctx, sessionKey(tenantId, sessionId))
}
