package implementation

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/model"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/specification"

	"gorm.io/gorm"
)

type UsageLogRepositoryImpl struct {
	db *gorm.DB
}

func NewUsageLogRepository(db *gorm.DB) contract.UsageLogRepository {
	return &UsageLogRepositoryImpl{db: db}
}

func (r *UsageLogRepositoryImpl) Create(ctx context.Context, log *entity.UsageLog) error {
	m := &model.UsageLog{
		Id:          log.Id,
		TenantId:    log.TenantId,
		SessionId:   log.SessionId,
		DecisionId:  log.DecisionId,
		Kind:        log.Kind,
		CostUSD:     log.CostUSD,
		TotalTokens: log.TotalTokens,
		CreatedAt:   log.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	log.Id = m.Id
	log.CreatedAt = m.CreatedAt
	return nil
}

func (r *UsageLogRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.UsageLog, error) {
	var models []*model.UsageLog
	query := r.db.WithContext(ctx)
	for _, spec := range specs {
		query = spec.Apply(query)
	}
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.UsageLog, len(models))
	for i, m := range models {
		entities[i] = &entity.UsageLog{
			Id:          m.Id,
			TenantId:    m.TenantId,
			SessionId:   m.SessionId,
			DecisionId:  m.DecisionId,
			Kind:        m.Kind,
			CostUSD:     m.CostUSD,
			TotalTokens: m.TotalTokens,
			CreatedAt:   m.CreatedAt,
		}
	}
	return entities, nil
}
