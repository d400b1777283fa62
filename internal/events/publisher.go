package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// EventPublisher is the outbound side of the sync pipeline's notifications.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
	Close() error
}

type watermillPublisher struct {
	publisher message.Publisher
	topic     string
	logger    *slog.Logger
}

// NewGoChannelPublisher returns an in-process publisher, used when no Kafka
// brokers are configured.
func NewGoChannelPublisher(topic string, logger *slog.Logger) EventPublisher {
	pub := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))
	return &watermillPublisher{publisher: pub, topic: topic, logger: logger}
}

// NewKafkaPublisher returns a Kafka-backed publisher.
func NewKafkaPublisher(brokers []string, topic string, logger *slog.Logger) (EventPublisher, error) {
	saramaConfig := kafka.DefaultSaramaSyncPublisherConfig()
	saramaConfig.Producer.RequiredAcks = sarama.WaitForLocal

	pub, err := kafka.NewPublisher(
		kafka.PublisherConfig{
			Brokers:               brokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaConfig,
		},
		watermill.NewSlogLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("create kafka publisher: %w", err)
	}
	return &watermillPublisher{publisher: pub, topic: topic, logger: logger}, nil
}

func (p *watermillPublisher) Publish(_ context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := message.NewMessage(event.ID, payload)
	msg.Metadata.Set("event_type", event.Type)
	msg.Metadata.Set("source", event.Source)

	if err := p.publisher.Publish(p.topic, msg); err != nil {
		return fmt.Errorf("publish event %s: %w", event.Type, err)
	}

	p.logger.Debug("published event", "event_id", event.ID, "event_type", event.Type)
	return nil
}

func (p *watermillPublisher) Close() error {
	return p.publisher.Close()
}
