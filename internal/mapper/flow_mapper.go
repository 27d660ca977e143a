package mapper

import (
	"encoding/json"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/model"

	"gorm.io/datatypes"
)

type FlowConfigMapper struct{}

func NewFlowConfigMapper() *FlowConfigMapper {
	return &FlowConfigMapper{}
}

func (m *FlowConfigMapper) ToEntity(c *model.BotFlowConfig) *entity.BotFlowConfig {
	if c == nil {
		return nil
	}
	return &entity.BotFlowConfig{
		Id:        c.Id,
		TenantId:  c.TenantId,
		BotId:     c.BotId,
		Version:   c.Version,
		Document:  json.RawMessage(c.Document),
		CreatedAt: c.CreatedAt,
	}
}

func (m *FlowConfigMapper) ToModel(c *entity.BotFlowConfig) *model.BotFlowConfig {
	if c == nil {
		return nil
	}
	return &model.BotFlowConfig{
		Id:        c.Id,
		TenantId:  c.TenantId,
		BotId:     c.BotId,
		Version:   c.Version,
		Document:  datatypes.JSON(c.Document),
		CreatedAt: c.CreatedAt,
	}
}
