package model

import (
	"time"

	"github.com/google/uuid"
)

type Guardrail struct {
	Id        uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId  uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_guardrails_tenant_code"`
	BotId     *uuid.UUID `gorm:"type:uuid;index"` // null = all bots of the tenant
	Code      string     `gorm:"type:text;not null;uniqueIndex:idx_guardrails_tenant_code"`
	Condition string     `gorm:"type:text;not null"`
	Action    string     `gorm:"type:text;not null"`
	Priority  int        `gorm:"not null;default:0"`
	IsActive  bool       `gorm:"not null;default:true"`
	CreatedAt time.Time  `gorm:"autoCreateTime"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime"`
}

func (Guardrail) TableName() string {
	return "guardrails"
}
