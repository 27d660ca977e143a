package service

import (
	"context"
	"encoding/json"
	"time"

	"convo-commerce-be/pkg/events"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IPublisherService interface {
	Publish(ctx context.Context, event events.Event) error
}

// publisherService pushes runtime events onto the in-process bus. The
// decision pipeline talks to this, not to NATS: external fan-out is the
// consumer's job.
type publisherService struct {
	pubSub    *gochannel.GoChannel
	topicName string
}

func NewPublisherService(topicName string, pubSub *gochannel.GoChannel) IPublisherService {
	return &publisherService{
		pubSub:    pubSub,
		topicName: topicName,
	}
}

// busEnvelope is the wire shape of one event on the internal bus.
type busEnvelope struct {
	EventType  string                 `json:"event_type"`
	Payload    map[string]interface{} `json:"payload"`
	OccurredAt time.Time              `json:"occurred_at"`
}

func (p *publisherService) Publish(_ context.Context, event events.Event) error {
	payload, err := json.Marshal(busEnvelope{
		EventType:  event.EventType(),
		Payload:    event.Payload(),
		OccurredAt: event.Timestamp(),
	})
	if err != nil {
		return err
	}
	return p.pubSub.Publish(p.topicName, message.NewMessage(watermill.NewUUID(), payload))
}
