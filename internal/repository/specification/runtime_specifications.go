package specification

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BySessionID struct {
	SessionID uuid.UUID
}

func (s BySessionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("session_id = ?", s.SessionID)
}

type ByBotID struct {
	BotID uuid.UUID
}

func (s ByBotID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bot_id = ?", s.BotID)
}

// ForBot matches rows bound to the bot or bound to no bot at all
// (tenant-wide guardrails carry a null bot_id).
type ForBot struct {
	BotID uuid.UUID
}

func (s ForBot) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("bot_id = ? OR bot_id IS NULL", s.BotID)
}

// ByChannelUser matches sessions keyed by the messaging channel's own
// user identifier.
type ByChannelUser struct {
	Channel        string
	ExternalUserId string
}

func (s ByChannelUser) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("channel = ? AND external_user_id = ?", s.Channel, s.ExternalUserId)
}

type ByDecisionID struct {
	DecisionID uuid.UUID
}

func (s ByDecisionID) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("decision_id = ?", s.DecisionID)
}

type ActiveOnly struct{}

func (s ActiveOnly) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = true")
}

type ByDecisionKind struct {
	Kind string
}

func (s ByDecisionKind) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("kind = ?", s.Kind)
}
