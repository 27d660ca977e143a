package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Session struct {
	Id             uuid.UUID         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TenantId       uuid.UUID         `gorm:"type:uuid;not null;index:idx_sessions_tenant;index:idx_sessions_channel_user,priority:1"`
	BotId          uuid.UUID         `gorm:"type:uuid;not null;index"`
	BotVersion     int               `gorm:"not null;default:1"`
	Channel        string            `gorm:"type:text;not null;index:idx_sessions_channel_user,priority:2"`
	ExternalUserId string            `gorm:"type:text;not null;default:'';index:idx_sessions_channel_user,priority:3"`
	State          string            `gorm:"type:text;not null"`
	Version        int64             `gorm:"not null;default:1"` // optimistic concurrency token
	Metadata       datatypes.JSONMap `gorm:"type:jsonb"`
	CreatedAt      time.Time         `gorm:"autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}
