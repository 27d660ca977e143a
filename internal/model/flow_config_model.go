package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type BotFlowConfig struct {
	Id        uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId  uuid.UUID      `gorm:"type:uuid;not null;index"`
	BotId     uuid.UUID      `gorm:"type:uuid;not null;uniqueIndex:idx_flow_configs_bot_version"`
	Version   int            `gorm:"not null;uniqueIndex:idx_flow_configs_bot_version"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (BotFlowConfig) TableName() string {
	return "bot_flow_configs"
}
