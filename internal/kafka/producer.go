package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
)

type Producer struct {
	brokers  []string
	writer   *kafka.Writer
	attempts int
	backoff  time.Duration
}

type ProducerOption func(*Producer)

// WithRetries sets how many times a write is attempted before Publish gives up.
func WithRetries(attempts int, backoff time.Duration) ProducerOption {
	return func(p *Producer) {
		if attempts > 0 {
			p.attempts = attempts
		}
		p.backoff = backoff
	}
}

func NewProducer(brokers []string, opts ...ProducerOption) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		BatchTimeout:           50 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}

	p := &Producer{
		brokers:  brokers,
		writer:   writer,
		attempts: 1,
		backoff:  500 * time.Millisecond,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Publish writes payload as JSON under key. Failed writes are retried with a
// linearly growing pause until the configured attempts run out or ctx ends.
func (p *Producer) Publish(ctx context.Context, topic, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	message := kafka.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: data,
		Time:  time.Now(),
	}

	var lastErr error
	for i := 0; i < p.attempts; i++ {
		lastErr = p.writer.WriteMessages(ctx, message)
		if lastErr == nil {
			slog.Debug("[kafka] published", "topic", topic, "key", key)
			return nil
		}
		slog.Warn("[kafka] publish attempt failed", "attempt", i+1, "topic", topic, "error", lastErr)

		if i < p.attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Duration(i+1) * p.backoff):
			}
		}
	}

	return fmt.Errorf("failed to write message to Kafka after %d attempts: %w", p.attempts, lastErr)
}

func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}

// CheckConnection dials the first broker and lists partitions.
func (p *Producer) CheckConnection(ctx context.Context) error {
	if len(p.brokers) == 0 {
		return fmt.Errorf("no kafka brokers configured")
	}
	conn, err := kafka.DialContext(ctx, "tcp", p.brokers[0])
	if err != nil {
		return fmt.Errorf("failed to connect to Kafka: %w", err)
	}
	defer conn.Close()

	partitions, err := conn.ReadPartitions()
	if err != nil {
		return fmt.Errorf("failed to read partitions: %w", err)
	}

	slog.Info("[kafka] connected", "broker", p.brokers[0], "partitions", len(partitions))
	return nil
}
