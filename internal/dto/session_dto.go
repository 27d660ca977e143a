package dto

import (
	"time"

	"github.com/google/uuid"
)

type ShowSessionResponse struct {
	Id         uuid.UUID              `json:"id"`
	BotId      uuid.UUID              `json:"bot_id"`
	BotVersion int                    `json:"bot_version"`
	Channel    string                 `json:"channel"`
	State      string                 `json:"state"`
	Version    int64                  `json:"version"`
	Metadata   map[string]interface{} `json:"metadata"`
	CreatedAt  time.Time              `json:"created_at"`
	UpdatedAt  *time.Time             `json:"updated_at"`
}

type TransitionSessionRequest struct {
	Id              uuid.UUID
	TargetState     string `json:"target_state" validate:"required"`
	ExpectedVersion int64  `json:"expected_version" validate:"required,min=1"`
}

type TransitionSessionResponse struct {
	Id      uuid.UUID `json:"id"`
	State   string    `json:"state"`
	Version int64     `json:"version"`
}
