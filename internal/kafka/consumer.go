package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/sirupsen/logrus"
)

// EventHandler receives one decoded booking event.
type EventHandler func(ctx context.Context, event BookingEvent) error

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Consumer reads booking events as part of a consumer group. Offsets are
// committed one message at a time after the handler accepted the event.
type Consumer struct {
	reader messageReader
	log    logrus.FieldLogger
}

// NewConsumer joins groupID on topic. A group with no committed offset starts
// from the oldest retained event, so notifications queued before the first
// deploy are still sent.
func NewConsumer(brokers []string, groupID, topic string, log logrus.FieldLogger) *Consumer {
	return &Consumer{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			Topic:             topic,
			StartOffset:       kafka.FirstOffset,
			MaxWait:           time.Second,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
		log: log.WithFields(logrus.Fields{"component": "consumer", "topic": topic, "group": groupID}),
	}
}

func (c *Consumer) Close() error {
	if c == nil || c.reader == nil {
		return nil
	}
	return c.reader.Close()
}

// Consume decodes events and hands them to handler until ctx is cancelled,
// which returns nil. A handler error stops the loop before the offset is
// committed, so the event is delivered again after a restart. Messages that
// are not booking events are committed and skipped.
func (c *Consumer) Consume(ctx context.Context, handler EventHandler) error {
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("fetch message: %w", err)
		}

		var event BookingEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			c.log.WithError(err).WithFields(logrus.Fields{
				"partition": msg.Partition,
				"offset":    msg.Offset,
			}).Warn("skipping malformed event")
		} else if err := handler(ctx, event); err != nil {
			return fmt.Errorf("handle event %s at offset %d: %w", event.EventID, msg.Offset, err)
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("commit offset %d: %w", msg.Offset, err)
		}
	}
}
