package implementation

import (
	"context"
	"fmt"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/mapper"
	"convo-commerce-be/internal/model"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/specification"
	"convo-commerce-be/pkg/decision"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ActionExecutionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DecisionMapper
}

func NewActionExecutionRepository(db *gorm.DB) contract.ActionExecutionRepository {
	return &ActionExecutionRepositoryImpl{
		db:     db,
		mapper: mapper.NewDecisionMapper(),
	}
}

func (r *ActionExecutionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ActionExecutionRepositoryImpl) Create(ctx context.Context, execution *entity.ActionExecution) error {
	if execution.Status == "" {
		execution.Status = string(decision.ActionStarted)
	}
	m := r.mapper.ActionToModel(execution)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*execution = *r.mapper.ActionToEntity(m)
	return nil
}

// Finish only matches the row while it is still "started"; a second call
// for the same execution is a no-op error instead of a rewrite.
func (r *ActionExecutionRepositoryImpl) Finish(ctx context.Context, tenantId, id uuid.UUID, status string, response map[string]interface{}, finishedAt time.Time) error {
	res := r.db.WithContext(ctx).Model(&model.ActionExecution{}).
		Where("id = ? AND tenant_id = ? AND status = ?", id, tenantId, string(decision.ActionStarted)).
		Updates(map[string]interface{}{
			"status":      status,
			"response":    datatypes.JSONMap(response),
			"finished_at": finishedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("action execution %s is not in started status", id)
	}
	return nil
}

func (r *ActionExecutionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ActionExecution, error) {
	var models []*model.ActionExecution
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.ActionExecution, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ActionToEntity(m)
	}
	return entities, nil
}
