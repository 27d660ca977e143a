package mapper

import (
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/model"
)

type GuardrailMapper struct{}

func NewGuardrailMapper() *GuardrailMapper {
	return &GuardrailMapper{}
}

func (m *GuardrailMapper) ToEntity(g *model.Guardrail) *entity.Guardrail {
	if g == nil {
		return nil
	}

	var updatedAt *time.Time
	if !g.UpdatedAt.IsZero() {
		t := g.UpdatedAt
		updatedAt = &t
	}

	return &entity.Guardrail{
		Id:        g.Id,
		TenantId:  g.TenantId,
		BotId:     g.BotId,
		Code:      g.Code,
		Condition: g.Condition,
		Action:    g.Action,
		Priority:  g.Priority,
		IsActive:  g.IsActive,
		CreatedAt: g.CreatedAt,
		UpdatedAt: updatedAt,
	}
}

func (m *GuardrailMapper) ToModel(g *entity.Guardrail) *model.Guardrail {
	if g == nil {
		return nil
	}

	var updatedAt time.Time
	if g.UpdatedAt != nil {
		updatedAt = *g.UpdatedAt
	}

	return &model.Guardrail{
		Id:        g.Id,
		TenantId:  g.TenantId,
		BotId:     g.BotId,
		Code:      g.Code,
		Condition: g.Condition,
		Action:    g.Action,
		Priority:  g.Priority,
		IsActive:  g.IsActive,
		CreatedAt: g.CreatedAt,
		UpdatedAt: updatedAt,
	}
}
