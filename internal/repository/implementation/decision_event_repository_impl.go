package implementation

import (
	"context"
	"errors"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/mapper"
	"convo-commerce-be/internal/model"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/specification"

	"gorm.io/gorm"
)

type DecisionEventRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.DecisionMapper
}

func NewDecisionEventRepository(db *gorm.DB) contract.DecisionEventRepository {
	return &DecisionEventRepositoryImpl{
		db:     db,
		mapper: mapper.NewDecisionMapper(),
	}
}

func (r *DecisionEventRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *DecisionEventRepositoryImpl) Create(ctx context.Context, event *entity.DecisionEvent) error {
	m := r.mapper.EventToModel(event)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*event = *r.mapper.EventToEntity(m)
	return nil
}

func (r *DecisionEventRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.DecisionEvent, error) {
	var m model.DecisionEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.EventToEntity(&m), nil
}

func (r *DecisionEventRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.DecisionEvent, error) {
	var models []*model.DecisionEvent
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.DecisionEvent, len(models))
	for i, m := range models {
		entities[i] = r.mapper.EventToEntity(m)
	}
	return entities, nil
}

func (r *DecisionEventRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.DecisionEvent{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
