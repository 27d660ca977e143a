package implementation

import (
	"context"
	"errors"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/mapper"
	"convo-commerce-be/internal/model"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GuardrailRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.GuardrailMapper
}

func NewGuardrailRepository(db *gorm.DB) contract.GuardrailRepository {
	return &GuardrailRepositoryImpl{
		db:     db,
		mapper: mapper.NewGuardrailMapper(),
	}
}

func (r *GuardrailRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *GuardrailRepositoryImpl) Create(ctx context.Context, guardrail *entity.Guardrail) error {
	m := r.mapper.ToModel(guardrail)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*guardrail = *r.mapper.ToEntity(m)
	return nil
}

func (r *GuardrailRepositoryImpl) Update(ctx context.Context, guardrail *entity.Guardrail) error {
	m := r.mapper.ToModel(guardrail)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*guardrail = *r.mapper.ToEntity(m)
	return nil
}

func (r *GuardrailRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Guardrail, error) {
	var m model.Guardrail
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *GuardrailRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Guardrail, error) {
	var models []*model.Guardrail
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Guardrail, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

// FindActiveForBot orders by priority desc then code asc so the pipeline
// evaluates guardrails deterministically.
func (r *GuardrailRepositoryImpl) FindActiveForBot(ctx context.Context, tenantId, botId uuid.UUID) ([]*entity.Guardrail, error) {
	return r.FindAll(ctx,
		specification.TenantOwnedBy{TenantID: tenantId},
		specification.ForBot{BotID: botId},
		specification.ActiveOnly{},
		specification.OrderBy{Field: "priority", Desc: true},
		specification.OrderBy{Field: "code"},
	)
}
