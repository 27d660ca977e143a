package service

import (
	"context"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

// decisionStore backs the decision pipeline with transactional
// persistence. The event and its guardrail checks commit atomically so
// the audit trail never shows one without the other.
type decisionStore struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewDecisionStore(uowFactory unitofwork.RepositoryFactory) *decisionStore {
	return &decisionStore{
		uowFactory: uowFactory,
	}
}

func (s *decisionStore) RecordDecision(ctx context.Context, event *entity.DecisionEvent, checks []*entity.GuardrailCheck) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	if err := uow.DecisionEventRepository().Create(ctx, event); err != nil {
		return err
	}
	if len(checks) > 0 {
		if err := uow.GuardrailCheckRepository().CreateBulk(ctx, checks); err != nil {
			return err
		}
	}

	return uow.Commit()
}

func (s *decisionStore) StartAction(ctx context.Context, execution *entity.ActionExecution) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ActionExecutionRepository().Create(ctx, execution)
}

func (s *decisionStore) FinishAction(ctx context.Context, tenantId, executionId uuid.UUID, status string, response map[string]interface{}, finishedAt time.Time) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ActionExecutionRepository().Finish(ctx, tenantId, executionId, status, response, finishedAt)
}
