package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/specification"
	"convo-commerce-be/internal/repository/unitofwork"
	"convo-commerce-be/pkg/database"
	"convo-commerce-be/pkg/lifecycle"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	// Verify Wiring
	uowFactory := unitofwork.NewRepositoryFactory(gormDB)
	uow := uowFactory.NewUnitOfWork(context.Background())

	assert.NotNil(t, uow.SessionRepository())
	assert.NotNil(t, uow.DecisionEventRepository())
	assert.NotNil(t, uow.CacheEntryRepository())

	// Basic Ping
	sqlDB, _ := gormDB.DB()
	err = sqlDB.Ping()
	assert.NoError(t, err)
	t.Log("Successfully connected to DB and initialized UnitOfWork Factory")

	// Verify Data Access (implies columns exist)
	t.Run("Check Session Repository", func(t *testing.T) {
		count, err := uow.SessionRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("Session count: %d", count)
	})

	t.Run("Check Decision Event Repository", func(t *testing.T) {
		count, err := uow.DecisionEventRepository().Count(context.Background())
		assert.NoError(t, err)
		t.Logf("DecisionEvent count: %d", count)
	})

	t.Run("Check Optimistic Session Transition", func(t *testing.T) {
		ctx := context.Background()
		tenantId := uuid.New()

		session := &entity.Session{
			Id:       uuid.New(),
			TenantId: tenantId,
			BotId:    uuid.New(),
			Channel:  "integration-test",
			State:    string(lifecycle.StateIdle),
			Version:  1,
		}
		err := uow.SessionRepository().Create(ctx, session)
		assert.NoError(t, err)

		// Correct version moves the state and bumps the version.
		updated, err := uow.SessionRepository().TransitionState(ctx, tenantId, session.Id, string(lifecycle.StateBrowsing), 1)
		assert.NoError(t, err)
		assert.Equal(t, string(lifecycle.StateBrowsing), updated.State)
		assert.Equal(t, int64(2), updated.Version)

		// Replaying the old version must fail.
		_, err = uow.SessionRepository().TransitionState(ctx, tenantId, session.Id, string(lifecycle.StateViewing), 1)
		assert.ErrorIs(t, err, lifecycle.ErrVersionConflict)

		// Another tenant must not see the row at all.
		_, err = uow.SessionRepository().TransitionState(ctx, uuid.New(), session.Id, string(lifecycle.StateViewing), 2)
		assert.ErrorIs(t, err, lifecycle.ErrSessionNotFound)
	})

	t.Run("Check Active Guardrail Selection", func(t *testing.T) {
		ctx := context.Background()
		tenantId := uuid.New()
		botId := uuid.New()
		otherBotId := uuid.New()

		rails := []*entity.Guardrail{
			{Id: uuid.New(), TenantId: tenantId, BotId: &botId, Code: "a-bot-rail", Condition: "order_total <= 500", Action: "BLOCK", Priority: 100, IsActive: true},
			{Id: uuid.New(), TenantId: tenantId, Code: "b-tenant-rail", Condition: "message_length <= 2000", Action: "WARN", Priority: 90, IsActive: true},
			{Id: uuid.New(), TenantId: tenantId, BotId: &botId, Code: "c-disabled", Condition: "true", Action: "BLOCK", Priority: 80, IsActive: false},
			{Id: uuid.New(), TenantId: tenantId, BotId: &otherBotId, Code: "d-other-bot", Condition: "true", Action: "BLOCK", Priority: 70, IsActive: true},
		}
		for _, rail := range rails {
			assert.NoError(t, uow.GuardrailRepository().Create(ctx, rail))
		}

		active, err := uow.GuardrailRepository().FindActiveForBot(ctx, tenantId, botId)
		assert.NoError(t, err)
		assert.Len(t, active, 2)
		// Bot-bound and tenant-wide rails only, priority descending.
		assert.Equal(t, "a-bot-rail", active[0].Code)
		assert.Equal(t, "b-tenant-rail", active[1].Code)
	})

	t.Run("Check Transactional Decision Write", func(t *testing.T) {
		ctx := context.Background()
		tenantId := uuid.New()
		sessionId := uuid.New()

		txUow := uowFactory.NewUnitOfWork(ctx)
		err := txUow.Begin(ctx)
		assert.NoError(t, err)

		event := &entity.DecisionEvent{
			Id:        uuid.New(),
			TenantId:  tenantId,
			SessionId: sessionId,
			Kind:      "PROCEED",
			Reason:    "integration test decision",
		}
		err = txUow.DecisionEventRepository().Create(ctx, event)
		assert.NoError(t, err)

		err = txUow.GuardrailCheckRepository().CreateBulk(ctx, []*entity.GuardrailCheck{
			{
				Id:            uuid.New(),
				TenantId:      tenantId,
				DecisionId:    event.Id,
				GuardrailCode: "integration-check",
				Passed:        true,
			},
		})
		assert.NoError(t, err)

		err = txUow.Commit()
		assert.NoError(t, err)

		// Event and check must be visible after commit, tenant scoped.
		found, err := uow.DecisionEventRepository().FindOne(ctx,
			specification.ByID{ID: event.Id},
			specification.TenantOwnedBy{TenantID: tenantId},
		)
		assert.NoError(t, err)
		assert.NotNil(t, found)

		checks, err := uow.GuardrailCheckRepository().FindAll(ctx,
			specification.ByDecisionID{DecisionID: event.Id},
			specification.TenantOwnedBy{TenantID: tenantId},
		)
		assert.NoError(t, err)
		assert.Len(t, checks, 1)
	})
}
