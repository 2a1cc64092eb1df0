// Package worker runs the background loops of cmd/worker: relaying outbox
// rows to Kafka and turning booking events into passenger notifications.
package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/metrics"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/sirupsen/logrus"
)

type Publisher interface {
	Publish(ctx context.Context, topic, key string, payload interface{}) error
}

type OutboxRelay struct {
	outbox    repository.OutboxRepository
	publisher Publisher
	topics    []string
	batchSize int
	interval  time.Duration
	log       logrus.FieldLogger
}

// NewOutboxRelay publishes every event to each of topics, skipping empty names.
func NewOutboxRelay(outbox repository.OutboxRepository, publisher Publisher, topics []string, batchSize int, interval time.Duration, log logrus.FieldLogger) *OutboxRelay {
	nonEmpty := make([]string, 0, len(topics))
	for _, t := range topics {
		if t != "" {
			nonEmpty = append(nonEmpty, t)
		}
	}
	if batchSize <= 0 {
		batchSize = 10
	}
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &OutboxRelay{
		outbox:    outbox,
		publisher: publisher,
		topics:    nonEmpty,
		batchSize: batchSize,
		interval:  interval,
		log:       log.WithField("component", "outbox_relay"),
	}
}

func (r *OutboxRelay) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.log.WithField("topics", r.topics).Info("outbox relay started")
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := r.ProcessBatch(ctx); err != nil {
				r.log.WithError(err).Error("failed to process outbox batch")
			}
		}
	}
}

const markTimeout = 5 * time.Second

// ProcessBatch claims one batch and publishes it. Events that fail go back to
// the queue for the next poll. It returns how many events were published.
// Status updates outlive ctx so a shutdown mid-batch still settles every row.
func (r *OutboxRelay) ProcessBatch(ctx context.Context) (int, error) {
	events, err := r.outbox.FetchBatch(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}
	if len(events) == 0 {
		return 0, nil
	}

	var processed, failed []string
	for _, e := range events {
		if err := r.publish(ctx, e); err != nil {
			r.log.WithError(err).WithField("event_id", e.ID).Warn("failed to publish event")
			metrics.OutboxPublishErrors.Inc()
			failed = append(failed, e.ID)
			continue
		}
		metrics.OutboxPublished.Inc()
		processed = append(processed, e.ID)
	}

	markCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), markTimeout)
	defer cancel()

	if len(failed) > 0 {
		if err := r.outbox.MarkFailed(markCtx, failed); err != nil {
			r.log.WithError(err).WithField("events", len(failed)).Warn("failed to requeue events")
		}
	}
	if len(processed) > 0 {
		if err := r.outbox.MarkProcessed(markCtx, processed); err != nil {
			return 0, err
		}
	}
	return len(processed), nil
}

func (r *OutboxRelay) publish(ctx context.Context, e domain.OutboxEvent) error {
	key := e.CorrelationID
	if key == "" {
		key = e.ID
	}
	sendCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	for _, topic := range r.topics {
		if err := r.publisher.Publish(sendCtx, topic, key, json.RawMessage(e.Payload)); err != nil {
			return err
		}
	}
	return nil
}
