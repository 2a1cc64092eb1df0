// Package outbox writes booking events into the outbox table inside the
// caller's transaction. cmd/worker relays them to Kafka.
package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/flightbooking/internal/domain"
	"github.com/Domenick1991/flightbooking/internal/kafka"
	"github.com/Domenick1991/flightbooking/internal/repository"
	"github.com/google/uuid"
)

type EventRecorder interface {
	Record(ctx context.Context, eventType string, booking *domain.Booking) error
}

type Recorder struct {
	repo  repository.OutboxRepository
	now   func() time.Time
	newID func() string
}

func NewRecorder(repo repository.OutboxRepository) *Recorder {
	return &Recorder{
		repo:  repo,
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

func (r *Recorder) Record(ctx context.Context, eventType string, b *domain.Booking) error {
	id := r.newID()
	payload, err := json.Marshal(kafka.NewBookingEvent(id, eventType, b, r.now()))
	if err != nil {
		return fmt.Errorf("marshal %s event: %w", eventType, err)
	}
	return r.repo.Create(ctx, &domain.OutboxEvent{
		ID:            id,
		EventType:     eventType,
		Payload:       payload,
		CorrelationID: strconv.FormatInt(b.ID, 10),
	})
}

var _ EventRecorder = (*Recorder)(nil)
