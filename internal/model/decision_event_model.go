package model

import (
	"time"

	"github.com/google/uuid"
)

type DecisionEvent struct {
	Id               uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId         uuid.UUID  `gorm:"type:uuid;not null;index:idx_decision_events_tenant"`
	SessionId        uuid.UUID  `gorm:"type:uuid;not null;index"`
	TurnId           *uuid.UUID `gorm:"type:uuid"`
	Kind             string     `gorm:"type:text;not null;index"`
	Reason           string     `gorm:"type:text"`
	CostUSD          float64    `gorm:"not null;default:0"`
	PromptTokens     int        `gorm:"not null;default:0"`
	CompletionTokens int        `gorm:"not null;default:0"`
	TotalTokens      int        `gorm:"not null;default:0"`
	LatencyMs        int64      `gorm:"not null;default:0"`
	CreatedAt        time.Time  `gorm:"default:now();not null"`
}

func (DecisionEvent) TableName() string {
	return "decision_events"
}
