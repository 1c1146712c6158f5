package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"boletamaster/pkg/logger"

	"github.com/IBM/sarama"
)

// Publisher appends domain events to the journal.
type Publisher interface {
	Publish(ctx context.Context, event *DomainEvent) error
	Close() error
}

type KafkaConfig struct {
	Brokers          []string
	Topic            string
	ClientID         string
	RetryMax         int
	Timeout          time.Duration
	RequiredAcks     sarama.RequiredAcks
	CompressionType  sarama.CompressionCodec
	IdempotentWrites bool
	MaxMessageBytes  int
}

func DefaultKafkaConfig() *KafkaConfig {
	return &KafkaConfig{
		Brokers:          []string{"localhost:9092"},
		Topic:            "boletamaster.journal",
		ClientID:         "boletamaster",
		RetryMax:         3,
		Timeout:          10 * time.Second,
		RequiredAcks:     sarama.WaitForAll,
		CompressionType:  sarama.CompressionSnappy,
		IdempotentWrites: true,
		MaxMessageBytes:  1000000,
	}
}

// SaramaConfig translates the journal settings into a producer configuration.
func (c *KafkaConfig) SaramaConfig() *sarama.Config {
	cfg := sarama.NewConfig()
	if c.ClientID != "" {
		cfg.ClientID = c.ClientID
	}
	cfg.Producer.Return.Successes = true
	cfg.Producer.Return.Errors = true
	cfg.Producer.RequiredAcks = c.RequiredAcks
	cfg.Producer.Compression = c.CompressionType
	cfg.Producer.Retry.Max = c.RetryMax
	cfg.Producer.Timeout = c.Timeout
	cfg.Producer.Idempotent = c.IdempotentWrites
	cfg.Producer.MaxMessageBytes = c.MaxMessageBytes
	if c.IdempotentWrites {
		cfg.Net.MaxOpenRequests = 1
	}
	cfg.Producer.Partitioner = sarama.NewHashPartitioner
	return cfg
}

type KafkaPublisher struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaPublisher(cfg *KafkaConfig) (*KafkaPublisher, error) {
	producer, err := sarama.NewSyncProducer(cfg.Brokers, cfg.SaramaConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	logger.GetDefault().Info("Kafka Journal Producer Created", slog.String("topic", cfg.Topic))
	return NewKafkaPublisherWithProducer(producer, cfg.Topic), nil
}

func NewKafkaPublisherWithProducer(producer sarama.SyncProducer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

func (p *KafkaPublisher) Publish(ctx context.Context, event *DomainEvent) error {
	body, err := event.ToJSON()
	if err != nil {
		return fmt.Errorf("failed to marshal domain event: %w", err)
	}

	message := &sarama.ProducerMessage{
		Topic:     p.topic,
		Key:       sarama.StringEncoder(event.PartitionKey()),
		Value:     sarama.ByteEncoder(body),
		Headers:   headers(event),
		Timestamp: event.OccurredAt,
	}

	partition, offset, err := p.producer.SendMessage(message)
	if err != nil {
		return fmt.Errorf("failed to send domain event to Kafka: %w", err)
	}

	logger.GetDefault().DebugContext(ctx, "Domain Event Published",
		slog.String("type", string(event.Type)),
		slog.String("aggregate_id", event.AggregateID),
		slog.Int("partition", int(partition)),
		slog.Int64("offset", offset),
	)
	return nil
}

func headers(event *DomainEvent) []sarama.RecordHeader {
	h := []sarama.RecordHeader{
		{Key: []byte("event_id"), Value: []byte(event.ID.String())},
		{Key: []byte("event_type"), Value: []byte(event.Type)},
		{Key: []byte("producer"), Value: []byte("boletamaster")},
		{Key: []byte("occurred_at"), Value: []byte(event.OccurredAt.Format(time.RFC3339))},
	}
	if event.ActorID != nil {
		h = append(h, sarama.RecordHeader{Key: []byte("actor_id"), Value: []byte(event.ActorID.String())})
	}
	return h
}

func (p *KafkaPublisher) Close() error {
	if p.producer == nil {
		return nil
	}
	if err := p.producer.Close(); err != nil {
		return fmt.Errorf("failed to close Kafka producer: %w", err)
	}
	logger.GetDefault().Info("Kafka Journal Producer Closed")
	return nil
}

// NoopPublisher drops every event. Used when Kafka is disabled.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, *DomainEvent) error { return nil }
func (NoopPublisher) Close() error                                { return nil }

// MemoryPublisher keeps events in process.
type MemoryPublisher struct {
	mu     sync.Mutex
	events []*DomainEvent
}

func (m *MemoryPublisher) Publish(_ context.Context, event *DomainEvent) error {
	m.mu.Lock()
	m.events = append(m.events, event)
	m.mu.Unlock()
	return nil
}

func (m *MemoryPublisher) Close() error { return nil }

func (m *MemoryPublisher) Events() []*DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*DomainEvent(nil), m.events...)
}

// Types lists the recorded event types in publish order.
func (m *MemoryPublisher) Types() []EventType {
	var out []EventType
	for _, e := range m.Events() {
		out = append(out, e.Type)
	}
	return out
}

// Emit publishes and logs a failure instead of returning it. The journal never blocks a committed operation.
func Emit(ctx context.Context, p Publisher, event *DomainEvent) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, event); err != nil {
		logger.GetDefault().WarnContext(ctx, "Failed to publish domain event",
			slog.String("type", string(event.Type)),
			slog.String("error", err.Error()),
		)
	}
}
