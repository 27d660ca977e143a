package contract

import (
	"context"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"

	"github.com/google/uuid"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// TransitionState is the single conditional write that backs optimistic
	// concurrency: it sets the new state and bumps version by one only when
	// the stored version still equals expectedVersion. A stale version
	// yields lifecycle.ErrVersionConflict, a missing row
	// lifecycle.ErrSessionNotFound.
	TransitionState(ctx context.Context, tenantId, sessionId uuid.UUID, targetState string, expectedVersion int64) (*entity.Session, error)
}
