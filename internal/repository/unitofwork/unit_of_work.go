package unitofwork

import (
	"context"

	"convo-commerce-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	SessionRepository() contract.SessionRepository
	DecisionEventRepository() contract.DecisionEventRepository
	GuardrailCheckRepository() contract.GuardrailCheckRepository
	ActionExecutionRepository() contract.ActionExecutionRepository
	GuardrailRepository() contract.GuardrailRepository
	FlowConfigRepository() contract.FlowConfigRepository
	CacheEntryRepository() contract.CacheEntryRepository
	UsageLogRepository() contract.UsageLogRepository
}
