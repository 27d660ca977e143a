package contract

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"

	"github.com/google/uuid"
)

type FlowConfigRepository interface {
	Create(ctx context.Context, config *entity.BotFlowConfig) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BotFlowConfig, error)
	// FindByBotVersion returns nil (not an error) when the bot has no flow
	// document for that version; callers treat that as an empty graph.
	FindByBotVersion(ctx context.Context, tenantId, botId uuid.UUID, version int) (*entity.BotFlowConfig, error)
}
