package model

import (
	"time"

	"github.com/google/uuid"
)

type GuardrailCheck struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId      uuid.UUID `gorm:"type:uuid;not null;index"`
	DecisionId    uuid.UUID `gorm:"type:uuid;not null;index"`
	GuardrailCode string    `gorm:"type:text;not null"`
	Passed        bool      `gorm:"not null"`
	Violation     string    `gorm:"type:text"`
	CreatedAt     time.Time `gorm:"default:now();not null"`
}

func (GuardrailCheck) TableName() string {
	return "guardrail_checks"
}
