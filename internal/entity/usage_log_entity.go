package entity

import (
	"time"

	"github.com/google/uuid"
)

// UsageLog is one billing-facing line per recorded decision.
type UsageLog struct {
	Id          uuid.UUID
	TenantId    uuid.UUID
	SessionId   uuid.UUID
	DecisionId  uuid.UUID
	Kind        string
	CostUSD     float64
	TotalTokens int
	CreatedAt   time.Time
}
