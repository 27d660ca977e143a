package contract

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"
)

type GuardrailCheckRepository interface {
	CreateBulk(ctx context.Context, checks []*entity.GuardrailCheck) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuardrailCheck, error)
}
