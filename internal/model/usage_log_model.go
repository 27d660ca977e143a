package model

import (
	"time"

	"github.com/google/uuid"
)

type UsageLog struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId    uuid.UUID `gorm:"type:uuid;not null;index"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	DecisionId  uuid.UUID `gorm:"type:uuid;not null"`
	Kind        string    `gorm:"type:text;not null"`
	CostUSD     float64   `gorm:"not null;default:0"`
	TotalTokens int       `gorm:"not null;default:0"`
	CreatedAt   time.Time `gorm:"default:now();not null"`
}

func (UsageLog) TableName() string {
	return "usage_logs"
}
