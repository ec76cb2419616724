package kafka

import (
	"context"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, groupID, topic string) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume reads until ctx ends or handler fails. A message is committed only
// after its handler returns nil, so a failed one is redelivered on restart.
func (c *Consumer) Consume(ctx context.Context, handler func(context.Context, kafka.Message) error) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			return err
		}

		if err := handler(ctx, msg); err != nil {
			return err
		}
		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			return err
		}
	}
}

// ConsumeBookings decodes each message as a BookingEvent before handing it on.
// Undecodable messages are passed to skip and not retried.
func (c *Consumer) ConsumeBookings(ctx context.Context, handler func(context.Context, BookingEvent) error, skip func(kafka.Message, error)) error {
	return c.Consume(ctx, func(ctx context.Context, msg kafka.Message) error {
		ev, err := DecodeBookingEvent(msg)
		if err != nil {
			if skip != nil {
				skip(msg, err)
			}
			return nil
		}
		return handler(ctx, ev)
	})
}
