package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BotFlowConfig is the raw step-graph document for one bot version.
// Loaded once per version and treated as immutable afterwards.
type BotFlowConfig struct {
	Id        uuid.UUID
	TenantId  uuid.UUID
	BotId     uuid.UUID
	Version   int
	Document  json.RawMessage
	CreatedAt time.Time
}
