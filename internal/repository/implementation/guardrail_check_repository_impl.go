package implementation

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/mapper"
	"convo-commerce-be/internal/model"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/specification"

	"gorm.io/gorm"
)

type GuardrailCheckRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DecisionMapper
}

func NewGuardrailCheckRepository(db *gorm.DB) contract.GuardrailCheckRepository {
	return &GuardrailCheckRepositoryImpl{
		db:     db,
		mapper: mapper.NewDecisionMapper(),
	}
}

func (r *GuardrailCheckRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GuardrailCheckRepositoryImpl) CreateBulk(ctx context.Context, checks []*entity.GuardrailCheck) error {
	if len(checks) == 0 {
		return nil
	}
	models := make([]*model.GuardrailCheck, len(checks))
	for i, c := range checks {
		models[i] = r.mapper.CheckToModel(c)
	}
	if err := r.db.WithContext(ctx).Create(&models).Error; err != nil {
		return err
	}
	for i, m := range models {
		*checks[i] = *r.mapper.CheckToEntity(m)
	}
	return nil
}

func (r *GuardrailCheckRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.GuardrailCheck, error) {
	var models []*model.GuardrailCheck
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.GuardrailCheck, len(models))
	for i, m := range models {
		entities[i] = r.mapper.CheckToEntity(m)
	}
	return entities, nil
}
