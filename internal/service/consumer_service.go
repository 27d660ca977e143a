package service

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"convo-commerce-be/internal/entity"
	"convo-commerce-be/internal/repository/unitofwork"
	"convo-commerce-be/pkg/events"
	pktNats "convo-commerce-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the internal decision bus. Each recorded
// decision becomes a usage log line, and handover notifications are
// bridged out to NATS for the operator console.
type consumerService struct {
	pubSub     *gochannel.GoChannel
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	natsPub    *pktNats.Publisher
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	natsPub *pktNats.Publisher,
) IConsumerService {
	return &consumerService{
		pubSub:     pubSub,
		topicName:  topicName,
		uowFactory: uowFactory,
		natsPub:    natsPub,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var envelope busEnvelope
	if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
		log.Printf("[ERROR] Failed to unmarshal bus message: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	switch envelope.EventType {
	case events.TypeDecisionRecorded:
		cs.recordUsage(ctx, envelope)
	case events.TypeSessionHandover:
		cs.bridgeToNats(ctx, envelope)
	default:
		log.Printf("[WARN] Unknown event type on bus: %s", envelope.EventType)
	}

	msg.Ack()
}

func (cs *consumerService) recordUsage(ctx context.Context, envelope busEnvelope) {
	tenantId := parseUUIDField(envelope.Payload, "tenant_id")
	sessionId := parseUUIDField(envelope.Payload, "session_id")
	decisionId := parseUUIDField(envelope.Payload, "decision_id")
	if tenantId == uuid.Nil || decisionId == uuid.Nil {
		log.Printf("[ERROR] Decision recorded event missing identifiers")
		return
	}

	kind, _ := envelope.Payload["kind"].(string)
	costUSD, _ := envelope.Payload["cost_usd"].(float64)
	totalTokens, _ := envelope.Payload["total_tokens"].(float64)

	usageLog := &entity.UsageLog{
		Id:          uuid.New(),
		TenantId:    tenantId,
		SessionId:   sessionId,
		DecisionId:  decisionId,
		Kind:        kind,
		CostUSD:     costUSD,
		TotalTokens: int(totalTokens),
		CreatedAt:   time.Now(),
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	if err := uow.UsageLogRepository().Create(ctx, usageLog); err != nil {
		log.Printf("[ERROR] Failed to write usage log for decision %s: %v", decisionId, err)
	}
}

// bridgeToNats forwards handover notifications to the external bus so
// agent consoles outside this process see them.
func (cs *consumerService) bridgeToNats(ctx context.Context, envelope busEnvelope) {
	if cs.natsPub == nil {
		return
	}

	tenantId := parseUUIDField(envelope.Payload, "tenant_id")
	sessionId := parseUUIDField(envelope.Payload, "session_id")
	newState, _ := envelope.Payload["new_state"].(string)

	evt := events.NewSessionHandoverEvent(tenantId, sessionId, newState)
	if err := cs.natsPub.Publish(ctx, evt); err != nil {
		log.Printf("[ERROR] Failed to bridge handover event to NATS: %v", err)
	}
}

func parseUUIDField(payload map[string]interface{}, key string) uuid.UUID {
	raw, _ := payload[key].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}
