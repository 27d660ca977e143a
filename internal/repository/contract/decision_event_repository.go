package contract

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"
)

// DecisionEventRepository is append-only: decision events are never
// updated or deleted once written.
type DecisionEventRepository interface {
	Create(ctx context.Context, event *entity.DecisionEvent) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DecisionEvent, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DecisionEvent, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}
