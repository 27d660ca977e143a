package mapper

import (
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/model"

	"gorm.io/datatypes"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	var metadata map[string]interface{}
	if s.Metadata != nil {
		metadata = map[string]interface{}(s.Metadata)
	}

	return &entity.Session{
		Id:             s.Id,
		TenantId:       s.TenantId,
		BotId:          s.BotId,
		BotVersion:     s.BotVersion,
		Channel:        s.Channel,
		ExternalUserId: s.ExternalUserId,
		State:          s.State,
		Version:        s.Version,
		Metadata:       metadata,
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.Session{
		Id:             s.Id,
		TenantId:       s.TenantId,
		BotId:          s.BotId,
		BotVersion:     s.BotVersion,
		Channel:        s.Channel,
		ExternalUserId: s.ExternalUserId,
		State:          s.State,
		Version:        s.Version,
		Metadata:       datatypes.JSONMap(s.Metadata),
		CreatedAt:      s.CreatedAt,
		UpdatedAt:      updatedAt,
	}
}
