package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is one end-user conversation with a bot on a channel.
// Version is the optimistic-concurrency token: it increases by exactly one
// on every successful mutation, and a stale version is rejected.
type Session struct {
	Id         uuid.UUID
	TenantId   uuid.UUID
	BotId      uuid.UUID
	BotVersion int
	Channel    string
	// ExternalUserId is the channel-native end-user identifier; empty
	// when the caller manages continuity through session ids alone.
	ExternalUserId string
	State          string
	Version        int64
	Metadata       map[string]interface{}
	CreatedAt      time.Time
	UpdatedAt      *time.Time
}
