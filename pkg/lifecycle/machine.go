package lifecycle

import (
	"context"
	"errors"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/internal/repository/contract"
	"convo-commerce-be/internal/repository/rediscache"
	"convo-commerce-be/internal/repository/specification"
	"convo-commerce-be/pkg/events"

	"github.com/google/uuid"
)

// EventPublisher is where the machine announces handovers. Delivery is
// fire-and-forget; failures are logged and never fail the transition.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// Machine applies lifecycle transitions to sessions. All writes go
// through the repository's compare-and-swap, so concurrent turns on one
// session resolve by conflict-and-retry rather than locking.
type Machine struct {
	sessions contract.SessionRepository
	cache    *rediscache.SessionCache
	bus      EventPublisher
	logger   logger.ILogger
}

func NewMachine(sessions contract.SessionRepository, cache *rediscache.SessionCache, bus EventPublisher, log logger.ILogger) *Machine {
	return &Machine{
		sessions: sessions,
		cache:    cache,
		bus:      bus,
		logger:   log,
	}
}

// Get is a tenant-scoped read. A cached copy may be stale; that only
// shows up as a version conflict on the next transition attempt.
func (m *Machine) Get(ctx context.Context, tenantId, sessionId uuid.UUID) (*entity.Session, error) {
	if session, ok := m.cache.Get(ctx, tenantId, sessionId); ok {
		return session, nil
	}

	session, err := m.sessions.FindOne(ctx,
		specification.ByID{ID: sessionId},
		specification.TenantOwnedBy{TenantID: tenantId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	m.cache.Set(ctx, session)
	return session, nil
}

// Transition validates the requested edge against the allowed table and
// applies it via the version compare-and-swap. No side effect is applied
// when the edge is invalid; a version conflict leaves the caller to
// re-read and retry.
func (m *Machine) Transition(ctx context.Context, tenantId, sessionId uuid.UUID, target State, expectedVersion int64) (*entity.Session, error) {
	session, err := m.Get(ctx, tenantId, sessionId)
	if err != nil {
		return nil, err
	}

	current := State(session.State)
	if !CanTransition(current, target) {
		return nil, newInvalidTransition(current, target)
	}

	updated, err := m.sessions.TransitionState(ctx, tenantId, sessionId, string(target), expectedVersion)
	if err != nil {
		if errors.Is(err, ErrVersionConflict) {
			// The cached copy lost the race; drop it so the retry reads fresh.
			m.cache.Invalidate(ctx, tenantId, sessionId)
		}
		return nil, err
	}

	m.cache.Set(ctx, updated)

	if target == StateHandover && current != StateHandover {
		m.notifyHandover(ctx, updated)
	}

	return updated, nil
}

func (m *Machine) notifyHandover(ctx context.Context, session *entity.Session) {
	if m.bus == nil {
		return
	}
	evt := events.NewSessionHandoverEvent(session.TenantId, session.Id, session.State)
	if err := m.bus.Publish(ctx, evt); err != nil {
		m.logger.Warn("LIFECYCLE", "Failed to publish handover event", map[string]interface{}{
			"tenant_id":  session.TenantId.String(),
			"session_id": session.Id.String(),
			"error":      err.Error(),
		})
	}
}
