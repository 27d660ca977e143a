package contract

import (
	"context"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"

	"github.com/google/uuid"
)

type ActionExecutionRepository interface {
	// Create persists the execution in its "started" status.
	Create(ctx context.Context, execution *entity.ActionExecution) error
	// Finish moves a started execution to a terminal status exactly once.
	// Retries of the action itself create a new record instead.
	Finish(ctx context.Context, tenantId, id uuid.UUID, status string, response map[string]interface{}, finishedAt time.Time) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActionExecution, error)
}
