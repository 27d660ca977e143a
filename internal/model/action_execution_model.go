package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ActionExecution struct {
	Id         uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId   uuid.UUID         `gorm:"type:uuid;not null;index"`
	DecisionId uuid.UUID         `gorm:"type:uuid;not null;index"`
	ActionType string            `gorm:"type:text;not null"`
	Request    datatypes.JSONMap `gorm:"type:jsonb"`
	Response   datatypes.JSONMap `gorm:"type:jsonb"`
	Status     string            `gorm:"type:text;not null"`
	StartedAt  time.Time         `gorm:"not null"`
	FinishedAt *time.Time
}

func (ActionExecution) TableName() string {
	return "action_executions"
}
