package bootstrap

import (
	"context"
	"log"

	"convo-commerce-be/internal/config"
	"convo-commerce-be/internal/controller"
	"convo-commerce-be/internal/pkg/logger"
	"convo-commerce-be/internal/repository/memory"
	"convo-commerce-be/internal/repository/rediscache"
	"convo-commerce-be/internal/repository/unitofwork"
	"convo-commerce-be/internal/service"
	"convo-commerce-be/pkg/breaker"
	"convo-commerce-be/pkg/decision"
	"convo-commerce-be/pkg/guardrail"
	"convo-commerce-be/pkg/lifecycle"
	"convo-commerce-be/pkg/llm"
	"convo-commerce-be/pkg/llm/factory"
	"convo-commerce-be/pkg/semcache"

	pktNats "convo-commerce-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// decisionTopic is the internal bus topic every recorded decision and
// handover notification flows through.
const decisionTopic = "runtime.decisions"

type Container struct {
	// Controllers
	TurnController    controller.ITurnController
	SessionController controller.ISessionController
	AuditController   controller.IAuditController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	llmBreaker *breaker.Breaker
}

// BreakerState exposes the LLM breaker position for the health endpoint.
func (c *Container) BreakerState() string {
	return string(c.llmBreaker.State())
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)
	publisherService := service.NewPublisherService(decisionTopic, pubSub)

	// 3. Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
		rdb = nil
	}
	sessionCache := rediscache.NewSessionCache(rdb, cfg.Cache.SessionTTL)

	// 4. LLM Provider behind the circuit breaker
	baseProvider, err := factory.NewProvider(
		cfg.Ai.Provider,
		cfg.Ai.LLMModel,
		cfg.Ai.EmbeddingModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Ai.GeminiAPIKey,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.Provider, cfg.Ai.LLMModel)

	llmBreaker := breaker.New(cfg.Breaker.FailureThreshold, cfg.Breaker.RecoveryTimeout)
	provider := llm.NewResilientProvider(baseProvider, llmBreaker, cfg.Ai.CallTimeout)

	// 5. Runtime core
	snapshots := memory.NewSnapshotStore()
	semCache := semcache.NewCache(
		uowFactory.NewUnitOfWork(context.Background()).CacheEntryRepository(),
		cfg.Cache.SimilarityThreshold,
		cfg.Cache.PrefilterLimit,
		sysLogger,
	)

	machine := lifecycle.NewMachine(
		uowFactory.NewUnitOfWork(context.Background()).SessionRepository(),
		sessionCache,
		publisherService,
		sysLogger,
	)

	var actionExecutor decision.ActionExecutor
	if cfg.Action.WebhookURL != "" {
		actionExecutor = service.NewWebhookActionExecutor(cfg.Action.WebhookURL, cfg.Action.Token, sysLogger)
	} else {
		log.Println("[WARN] ACTION_WEBHOOK_URL not set, actions are recorded but not executed")
	}

	evaluator := guardrail.NewEvaluator(sysLogger)
	decisionStore := service.NewDecisionStore(uowFactory)
	pipeline := decision.NewPipeline(
		decisionStore,
		machine,
		evaluator,
		actionExecutor,
		publisherService,
		sysLogger,
		cfg.Action.Timeout,
	)

	// 6. Services
	turnService := service.NewTurnService(uowFactory, machine, pipeline, snapshots, semCache, provider, sysLogger)
	sessionService := service.NewSessionService(machine)
	auditService := service.NewAuditService(uowFactory)
	consumerService := service.NewConsumerService(pubSub, decisionTopic, uowFactory, natsPub)

	// 7. Controllers
	return &Container{
		TurnController:    controller.NewTurnController(turnService),
		SessionController: controller.NewSessionController(sessionService),
		AuditController:   controller.NewAuditController(auditService),

		ConsumerService: consumerService,

		llmBreaker: llmBreaker,
	}
}
