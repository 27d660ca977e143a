package dto

import (
	"github.com/google/uuid"
)

type SendTurnRequest struct {
	// SessionId is optional: omitted means "start a new session for this
	// bot and channel".
	SessionId  *uuid.UUID `json:"session_id"`
	BotId      uuid.UUID  `json:"bot_id" validate:"required"`
	BotVersion int        `json:"bot_version" validate:"min=0"`
	Channel    string     `json:"channel" validate:"required"`
	// ExternalUserId is the channel's own identifier for the end user
	// (e.g. a WhatsApp phone number). When set and no session_id is
	// given, the turn continues that user's open session on this bot
	// and channel instead of starting a new one.
	ExternalUserId string                 `json:"external_user_id"`
	Message        string                 `json:"message" validate:"required"`
	TurnId         *uuid.UUID             `json:"turn_id"`
	Metadata       map[string]interface{} `json:"metadata"`
}

type SendTurnResponse struct {
	SessionId  uuid.UUID `json:"session_id"`
	State      string    `json:"state"`
	Version    int64     `json:"version"`
	DecisionId uuid.UUID `json:"decision_id"`
	Kind       string    `json:"kind"`
	Response   string    `json:"response"`
	Cached     bool      `json:"cached"`
	LatencyMs  int64     `json:"latency_ms"`
}
