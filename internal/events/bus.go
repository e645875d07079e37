// Package events publishes chat pipeline events to a Kafka stream.
// Publishing is best-effort: a down broker degrades observability, never
// the chat path.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/StyNW7/Zenium/internal/config"
	"github.com/StyNW7/Zenium/pkg/models"
)

// Event topics
const (
	TopicTurns       = "chat.turns"
	TopicCrisis      = "chat.crisis"
	TopicFeedback    = "chat.feedback"
	TopicSuggestions = "chat.suggestions"
)

// Publisher publishes chat events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event models.ChatEvent) error
	Close() error
}

// KafkaPublisher implements Publisher using kafka-go.
type KafkaPublisher struct {
	writer *kafka.Writer
}

// NewKafkaPublisher creates a publisher over the configured brokers.
func NewKafkaPublisher(cfg config.EventsConfig) *KafkaPublisher {
	return &KafkaPublisher{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(cfg.Brokers...),
			Balancer:               &kafka.LeastBytes{},
			AllowAutoTopicCreation: true,
			BatchTimeout:           10 * time.Millisecond,
		},
	}
}

// Publish sends a single event, keyed by session so per-session ordering
// is preserved within a partition.
func (p *KafkaPublisher) Publish(ctx context.Context, topic string, event models.ChatEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(event.SessionID),
		Value: data,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(string(event.Type))},
			{Key: "timestamp", Value: []byte(event.Timestamp.Format(time.RFC3339))},
		},
		Time: time.Now(),
	}
	return p.writer.WriteMessages(ctx, message)
}

// Ping checks broker connectivity.
func (p *KafkaPublisher) Ping(ctx context.Context) error {
	conn, err := kafka.DialContext(ctx, "tcp", p.writer.Addr.String())
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	_, err = conn.Controller()
	return err
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// NoopPublisher drops all events. Used when the event stream is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(ctx context.Context, topic string, event models.ChatEvent) error {
	return nil
}

func (NoopPublisher) Close() error { return nil }
