package contract

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"

	"github.com/google/uuid"
)

type GuardrailRepository interface {
	Create(ctx context.Context, guardrail *entity.Guardrail) error
	Update(ctx context.Context, guardrail *entity.Guardrail) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Guardrail, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Guardrail, error)
	// FindActiveForBot returns the tenant's active guardrails applicable to
	// the bot (bot-bound plus tenant-wide), ordered by priority descending
	// with ties broken by code so evaluation order is deterministic.
	FindActiveForBot(ctx context.Context, tenantId, botId uuid.UUID) ([]*entity.Guardrail, error)
}
