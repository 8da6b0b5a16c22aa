package kafka

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/fincast/fincast/internal/events"
	"github.com/segmentio/kafka-go"
)

// Publisher writes ledger events to a Kafka topic keyed by owner so a
// consumer sees one owner's events in order.
type Publisher struct {
	writer *kafka.Writer
}

var _ events.Publisher = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string) *Publisher {
	return &Publisher{
		writer: &kafka.Writer{
			Addr:     kafka.TCP(brokers...),
			Topic:    topic,
			Balancer: &kafka.Hash{},
		},
	}
}

func (p *Publisher) PublishGroup(ctx context.Context, event events.GroupEvent) error {
	return p.publish(ctx, event.OwnerID, event)
}

func (p *Publisher) PublishTimeAdvanced(ctx context.Context, event events.TimeAdvancedEvent) error {
	return p.publish(ctx, event.OwnerID, event)
}

func (p *Publisher) publish(ctx context.Context, key string, payload any) error {
	value, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(key),
		Value: value,
	})
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}
