package contract

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"
)

type UsageLogRepository interface {
	Create(ctx context.Context, log *entity.UsageLog) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageLog, error)
}
