package implementation

import (
	"context"
	"errors"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/mapper"
	"convo-commerce-be/internal/model"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/specification"
	"convo-commerce-be/pkg/lifecycle"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	if session.State == "" {
		session.State = string(lifecycle.StateIdle)
	}
	if session.Version == 0 {
		session.Version = 1
	}
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var models []*model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	entities := make([]*entity.Session, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *SessionRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.Session{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// TransitionState is a single conditional UPDATE, not a read-modify-write:
// the WHERE clause on version is the compare-and-swap. Sessions may be
// served by multiple workers, so an in-process lock would not help here.
func (r *SessionRepositoryImpl) TransitionState(ctx context.Context, tenantId, sessionId uuid.UUID, targetState string, expectedVersion int64) (*entity.Session, error) {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND tenant_id = ? AND version = ?", sessionId, tenantId, expectedVersion).
		Updates(map[string]interface{}{
			"state":   targetState,
			"version": gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return nil, res.Error
	}

	if res.RowsAffected == 0 {
		// Either the session does not exist or another turn won the swap.
		var count int64
		if err := r.db.WithContext(ctx).Model(&model.Session{}).
			Where("id = ? AND tenant_id = ?", sessionId, tenantId).
			Count(&count).Error; err != nil {
			return nil, err
		}
		if count == 0 {
			return nil, lifecycle.ErrSessionNotFound
		}
		return nil, lifecycle.ErrVersionConflict
	}

	var m model.Session
	if err := r.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", sessionId, tenantId).
		First(&m).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntity(&m), nil
}
