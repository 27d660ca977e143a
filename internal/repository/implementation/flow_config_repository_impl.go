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

type FlowConfigRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.FlowConfigMapper
}

func NewFlowConfigRepository(db *gorm.DB) contract.FlowConfigRepository {
	return &FlowConfigRepositoryImpl{
		db:     db,
		mapper: mapper.NewFlowConfigMapper(),
	}
}

func (r *FlowConfigRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *FlowConfigRepositoryImpl) Create(ctx context.Context, config *entity.BotFlowConfig) error {
	m := r.mapper.ToModel(config)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*config = *r.mapper.ToEntity(m)
	return nil
}

func (r *FlowConfigRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.BotFlowConfig, error) {
	var m model.BotFlowConfig
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *FlowConfigRepositoryImpl) FindByBotVersion(ctx context.Context, tenantId, botId uuid.UUID, version int) (*entity.BotFlowConfig, error) {
	var m model.BotFlowConfig
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND bot_id = ? AND version = ?", tenantId, botId, version).
		First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
