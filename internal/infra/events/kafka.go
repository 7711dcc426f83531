package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	skafka "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// Writer is the subset of the kafka writer used by KafkaPublisher.
// It exists so tests can inject a fake.
type Writer interface {
	WriteMessages(ctx context.Context, msgs ...skafka.Message) error
	Close() error
}

// KafkaPublisher publishes domain events to a Kafka topic. Events are
// JSON-encoded envelopes keyed by subject, so consumers interested in a single
// event kind can filter on the key.
type KafkaPublisher struct {
	writer       Writer
	writeTimeout time.Duration
	logger       *zap.Logger
}

// KafkaConfig holds publisher construction parameters.
type KafkaConfig struct {
	Brokers      []string
	Topic        string
	WriteTimeout time.Duration
}

// NewKafkaPublisher creates a publisher writing to the configured topic.
func NewKafkaPublisher(cfg KafkaConfig, logger *zap.Logger) *KafkaPublisher {
	w := &skafka.Writer{
		Addr:         skafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &skafka.LeastBytes{},
		RequiredAcks: skafka.RequireAll,
	}
	return &KafkaPublisher{
		writer:       w,
		writeTimeout: cfg.WriteTimeout,
		logger:       logger,
	}
}

// NewKafkaPublisherWithWriter allows injecting a test writer.
func NewKafkaPublisherWithWriter(w Writer, logger *zap.Logger) *KafkaPublisher {
	return &KafkaPublisher{writer: w, writeTimeout: 10 * time.Second, logger: logger}
}

// Publish marshals the payload into an envelope and writes a kafka message
// keyed by subject. The write is bounded by the configured timeout.
func (p *KafkaPublisher) Publish(ctx context.Context, subject string, payload any) error {
	env := NewEnvelope(subject, payload)
	value, err := json.Marshal(env)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if p.writeTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.writeTimeout)
		defer cancel()
	}

	msg := skafka.Message{Key: []byte(subject), Value: value}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("kafka write failed",
			zap.String("subject", subject),
			zap.String("event_id", env.ID.String()),
			zap.Error(err),
		)
		return fmt.Errorf("write message: %w", err)
	}

	p.logger.Debug("event published",
		zap.String("subject", subject),
		zap.String("event_id", env.ID.String()),
	)
	return nil
}

// Close closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
