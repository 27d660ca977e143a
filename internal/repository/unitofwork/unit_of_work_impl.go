package unitofwork

import (
	"context"
	"fmt"

	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/implementation"

	"gorm.io/gorm"
)

type UnitOfWorkImpl struct {
	db *gorm.DB
	tx *gorm.DB // active transaction, nil outside Begin/Commit
}

func NewUnitOfWork(db *gorm.DB) UnitOfWork {
	return &UnitOfWorkImpl{
		db: db,
	}
}

func (u *UnitOfWorkImpl) getDB() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *UnitOfWorkImpl) Begin(ctx context.Context) error {
	if u.tx != nil {
		return fmt.Errorf("transaction already started")
	}
	u.tx = u.db.WithContext(ctx).Begin()
	return u.tx.Error
}

func (u *UnitOfWorkImpl) Commit() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to commit")
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *UnitOfWorkImpl) Rollback() error {
	if u.tx == nil {
		return fmt.Errorf("no transaction to rollback")
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	return err
}

// Repository Accessors

func (u *UnitOfWorkImpl) SessionRepository() contract.SessionRepository {
	return implementation.NewSessionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) DecisionEventRepository() contract.DecisionEventRepository {
	return implementation.NewDecisionEventRepository(u.getDB())
}

func (u *UnitOfWorkImpl) GuardrailCheckRepository() contract.GuardrailCheckRepository {
	return implementation.NewGuardrailCheckRepository(u.getDB())
}

func (u *UnitOfWorkImpl) ActionExecutionRepository() contract.ActionExecutionRepository {
	return implementation.NewActionExecutionRepository(u.getDB())
}

func (u *UnitOfWorkImpl) GuardrailRepository() contract.GuardrailRepository {
	return implementation.NewGuardrailRepository(u.getDB())
}

func (u *UnitOfWorkImpl) FlowConfigRepository() contract.FlowConfigRepository {
	return implementation.NewFlowConfigRepository(u.getDB())
}

func (u *UnitOfWorkImpl) CacheEntryRepository() contract.CacheEntryRepository {
	return implementation.NewCacheEntryRepository(u.getDB())
}

func (u *UnitOfWorkImpl) UsageLogRepository() contract.UsageLogRepository {
	return implementation.NewUsageLogRepository(u.getDB())
}
