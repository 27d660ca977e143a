package mapper

import (
	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/model"

	"gorm.io/datatypes"
)

type DecisionMapper struct{}

func NewDecisionMapper() *DecisionMapper {
	return &DecisionMapper{}
}

func (m *DecisionMapper) EventToEntity(d *model.DecisionEvent) *entity.DecisionEvent {
	if d == nil {
		return nil
	}
	return &entity.DecisionEvent{
		Id:               d.Id,
		TenantId:         d.TenantId,
		SessionId:        d.SessionId,
		TurnId:           d.TurnId,
		Kind:             d.Kind,
		Reason:           d.Reason,
		CostUSD:          d.CostUSD,
		PromptTokens:     d.PromptTokens,
		CompletionTokens: d.CompletionTokens,
		TotalTokens:      d.TotalTokens,
		LatencyMs:        d.LatencyMs,
		CreatedAt:        d.CreatedAt,
	}
}

func (m *DecisionMapper) EventToModel(d *entity.DecisionEvent) *model.DecisionEvent {
	if d == nil {
		return nil
	}
	return &model.DecisionEvent{
		Id:               d.Id,
		TenantId:         d.TenantId,
		SessionId:        d.SessionId,
		TurnId:           d.TurnId,
		Kind:             d.Kind,
		Reason:           d.Reason,
		CostUSD:          d.CostUSD,
		PromptTokens:     d.PromptTokens,
		CompletionTokens: d.CompletionTokens,
		TotalTokens:      d.TotalTokens,
		LatencyMs:        d.LatencyMs,
		CreatedAt:        d.CreatedAt,
	}
}

func (m *DecisionMapper) CheckToEntity(c *model.GuardrailCheck) *entity.GuardrailCheck {
	if c == nil {
		return nil
	}
	return &entity.GuardrailCheck{
		Id:            c.Id,
		TenantId:      c.TenantId,
		DecisionId:    c.DecisionId,
		GuardrailCode: c.GuardrailCode,
		Passed:        c.Passed,
		Violation:     c.Violation,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *DecisionMapper) CheckToModel(c *entity.GuardrailCheck) *model.GuardrailCheck {
	if c == nil {
		return nil
	}
	return &model.GuardrailCheck{
		Id:            c.Id,
		TenantId:      c.TenantId,
		DecisionId:    c.DecisionId,
		GuardrailCode: c.GuardrailCode,
		Passed:        c.Passed,
		Violation:     c.Violation,
		CreatedAt:     c.CreatedAt,
	}
}

func (m *DecisionMapper) ActionToEntity(a *model.ActionExecution) *entity.ActionExecution {
	if a == nil {
		return nil
	}

	var request, response map[string]interface{}
	if a.Request != nil {
		request = map[string]interface{}(a.Request)
	}
	if a.Response != nil {
		response = map[string]interface{}(a.Response)
	}

	return &entity.ActionExecution{
		Id:         a.Id,
		TenantId:   a.TenantId,
		DecisionId: a.DecisionId,
		ActionType: a.ActionType,
		Request:    request,
		Response:   response,
		Status:     a.Status,
		StartedAt:  a.StartedAt,
		FinishedAt: a.FinishedAt,
	}
}

func (m *DecisionMapper) ActionToModel(a *entity.ActionExecution) *model.ActionExecution {
	if a == nil {
		return nil
	}
	return &model.ActionExecution{
		Id:         a.Id,
		TenantId:   a.TenantId,
		DecisionId: a.DecisionId,
		ActionType: a.ActionType,
		Request:    datatypes.JSONMap(a.Request),
		Response:   datatypes.JSONMap(a.Response),
		Status:     a.Status,
		StartedAt:  a.StartedAt,
		FinishedAt: a.FinishedAt,
	}
}
